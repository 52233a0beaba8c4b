package vision

// Calibration holds per-session reference data for distance estimation.
// The baseline face area is the first observed face bounding-box area in
// the session; later observations are compared against it.
//
// One Calibration per monitoring session. It is single-writer: sharing one
// across concurrent sessions cross-contaminates baselines.
type Calibration struct {
	baselineFaceArea float64
}

// ObserveFaceArea records the face area and returns the ratio of the
// current area to the baseline. The first observation becomes the baseline
// and yields a ratio of 1.0.
func (c *Calibration) ObserveFaceArea(area float64) float64 {
	if c.baselineFaceArea == 0 {
		c.baselineFaceArea = area
	}
	if c.baselineFaceArea <= 0 {
		return 1.0
	}
	return area / c.baselineFaceArea
}

// BaselineFaceArea returns the current baseline, or 0 if uncalibrated.
func (c *Calibration) BaselineFaceArea() float64 { return c.baselineFaceArea }

// Reset clears the baseline so the next observation re-calibrates.
func (c *Calibration) Reset() { c.baselineFaceArea = 0 }
