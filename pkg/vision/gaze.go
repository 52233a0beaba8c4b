package vision

import (
	"image"
	"math"
	"sort"

	"gocv.io/x/gocv"

	"github.com/workspaceai/focusguard/internal/log"
)

// Screen-focus criteria and gaze thresholds.
const (
	centerToleranceX = 0.20 // Horizontal offset limit as fraction of frame width
	centerToleranceY = 0.15 // Vertical offset limit as fraction of frame height
	minSizeRatio     = 0.7  // Face area vs baseline, lower bound
	maxSizeRatio     = 1.5  // Face area vs baseline, upper bound
	gazeThresholdX   = 30   // Horizontal gaze deadband in pixels
	gazeThresholdY   = 20   // Vertical gaze deadband in pixels

	profileConfidence = 0.6
)

// GazeEstimator detects a face in a frame and estimates whether the user
// is looking at the screen. The estimator itself is stateless; per-session
// calibration is passed in by the caller.
type GazeEstimator struct {
	cascades *Cascades
}

// NewGazeEstimator creates a gaze estimator on top of loaded cascades.
func NewGazeEstimator(c *Cascades) *GazeEstimator {
	return &GazeEstimator{cascades: c}
}

// Analyze runs the detector cascade over the frame and derives the gaze
// observation. Internal faults never propagate: the result degrades to a
// no-face observation with zero confidence.
func (g *GazeEstimator) Analyze(f *Frame, cal *Calibration) (obs FaceObservation) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("gaze analysis panicked", "panic", r)
			obs = FaceObservation{
				Position: PositionNone,
				Gaze:     GazeError,
			}
		}
	}()

	c := g.cascades
	c.mu.Lock()
	defer c.mu.Unlock()

	gray := f.Gray()
	w, h := f.Width(), f.Height()

	// Detector cascade: DNN first when present, then progressively more
	// permissive frontal Haar variants, then profile.
	faces := c.detectYuNet(f.Mat())
	if len(faces) == 0 {
		faces = c.frontal.DetectMultiScaleWithParams(gray, 1.05, 2, 0, image.Pt(40, 40), image.Point{})
	}
	if len(faces) == 0 && c.hasAlt2 {
		faces = c.frontalAlt2.DetectMultiScaleWithParams(gray, 1.05, 2, 0, image.Pt(40, 40), image.Point{})
	}
	if len(faces) == 0 && c.hasAlt {
		faces = c.frontalAlt.DetectMultiScaleWithParams(gray, 1.05, 2, 0, image.Pt(40, 40), image.Point{})
	}

	if len(faces) == 0 {
		profiles := c.profile.DetectMultiScaleWithParams(gray, 1.1, 5, 0, image.Pt(80, 80), image.Point{})
		if len(profiles) > 0 {
			p := rectFrom(profiles[0])
			return FaceObservation{
				Detected:   true,
				Position:   PositionProfile,
				Gaze:       GazeSide,
				Confidence: profileConfidence,
				Bounds:     p,
				CenterX:    p.X + p.W/2,
				CenterY:    p.Y + p.H/2,
				FaceArea:   p.Area(),
			}
		}
		return FaceObservation{
			Position: PositionNone,
			Gaze:     GazeUnknown,
		}
	}

	// Largest candidate wins; ties keep the first found.
	best := faces[0]
	for _, r := range faces[1:] {
		if r.Dx()*r.Dy() > best.Dx()*best.Dy() {
			best = r
		}
	}
	face := rectFrom(best)
	centerX := face.X + face.W/2
	centerY := face.Y + face.H/2

	offsetX := centerX - w/2
	offsetY := centerY - h/2

	sizeRatio := cal.ObserveFaceArea(face.Area())

	eyes := detectEyes(c, gray, best)

	pos := Positioning{
		CenteredX:       math.Abs(float64(offsetX)) < float64(w)*centerToleranceX,
		CenteredY:       math.Abs(float64(offsetY)) < float64(h)*centerToleranceY,
		GoodDistance:    sizeRatio > minSizeRatio && sizeRatio < maxSizeRatio,
		BothEyesVisible: len(eyes) >= 1,
	}

	satisfied := 0
	for _, ok := range []bool{pos.CenteredX, pos.CenteredY, pos.GoodDistance, pos.BothEyesVisible} {
		if ok {
			satisfied++
		}
	}

	return FaceObservation{
		Detected:        true,
		Position:        PositionFrontal,
		LookingAtScreen: pos.CenteredX && pos.CenteredY && pos.GoodDistance && pos.BothEyesVisible,
		Gaze:            gazeDirectionFor(offsetX, offsetY),
		Confidence:      float64(satisfied) / 4.0,
		Bounds:          face,
		CenterX:         centerX,
		CenterY:         centerY,
		FaceArea:        face.Area(),
		EyesDetected:    len(eyes),
		Eyes:            analyzeEyes(eyes, face),
		Positioning:     &pos,
	}
}

// gazeDirectionFor maps the face-center offset from the frame center to a
// coarse direction. The dominant axis decides; small offsets stay center.
func gazeDirectionFor(offsetX, offsetY int) GazeDirection {
	if math.Abs(float64(offsetX)) > math.Abs(float64(offsetY)) {
		if offsetX > gazeThresholdX {
			return GazeRight
		}
		if offsetX < -gazeThresholdX {
			return GazeLeft
		}
		return GazeCenter
	}
	if offsetY > gazeThresholdY {
		return GazeDown
	}
	if offsetY < -gazeThresholdY {
		return GazeUp
	}
	return GazeCenter
}

// detectEyes finds eye boxes inside the face region. Coordinates are
// relative to the face box. Caller must hold the cascades mutex.
func detectEyes(c *Cascades, gray gocv.Mat, face image.Rectangle) []Rect {
	bounded := face.Intersect(image.Rect(0, 0, gray.Cols(), gray.Rows()))
	if bounded.Empty() {
		return nil
	}
	roi := gray.Region(bounded)
	defer roi.Close()

	found := c.eye.DetectMultiScaleWithParams(roi, 1.05, 2, 0, image.Pt(16, 16), image.Point{})
	eyes := make([]Rect, 0, len(found))
	for _, e := range found {
		eyes = append(eyes, rectFrom(e))
	}
	return eyes
}

// analyzeEyes derives blink, openness and symmetry metrics. Requires at
// least two eye boxes; the leftmost two (by x) are taken as left/right.
func analyzeEyes(eyes []Rect, face Rect) *EyeMetrics {
	if len(eyes) < 2 {
		return nil
	}

	sorted := make([]Rect, len(eyes))
	copy(sorted, eyes)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].X < sorted[j].X })
	left, right := sorted[0], sorted[1]

	leftArea := left.Area()
	rightArea := right.Area()
	faceArea := face.Area()
	if faceArea <= 0 {
		return nil
	}

	avgArea := (leftArea + rightArea) / 2
	relative := avgArea / faceArea * 100 // Percent of face area

	// A normal open eye is roughly 2-4% of the face area.
	openness := math.Min(1.0, relative/3.0)
	blink := relative < 1.0

	symmetry := 0.0
	if max := math.Max(leftArea, rightArea); max > 0 {
		symmetry = 1.0 - math.Abs(leftArea-rightArea)/max
	}

	return &EyeMetrics{
		EyesDetected:    len(eyes),
		Openness:        round2(openness),
		Symmetry:        round2(symmetry),
		BlinkDetected:   blink,
		GazeStability:   round2(symmetry * openness),
		RelativeEyeSize: round2(relative),
	}
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }

func round1(v float64) float64 { return math.Round(v*10) / 10 }
