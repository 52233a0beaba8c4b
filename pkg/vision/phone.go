package vision

import "math"

// Phone-usage cue weights. Confidence accumulates additively from
// independent cues, capped at 1.0.
const (
	cueLookingDown = 0.3 // Face center in the lower 40% of the frame
	cueTooClose    = 0.2 // Face area exceeds 1.3x the session baseline
	cueTiltedFace  = 0.2 // Eye symmetry below 0.7
	cueProfileView = 0.4 // Profile face, likely looking sideways at a device
	cuePoorGaze    = 0.1 // Gaze direction down or side
	cueNoFace      = 0.2 // No face at all, possibly occluded by a device

	phoneDetectThreshold = 0.4
	phoneHighRisk        = 0.7
	tooCloseFactor       = 1.3
	lowFrameFraction     = 0.6
	symmetryThreshold    = 0.7
)

// EstimatePhoneUsage infers probable phone use from the gaze observation.
// There is no dedicated phone detector; the cues are all face-derived.
func EstimatePhoneUsage(f *Frame, face FaceObservation, cal *Calibration) PhoneUsageObservation {
	return estimatePhoneUsage(f.Height(), face, cal.BaselineFaceArea())
}

func estimatePhoneUsage(frameHeight int, face FaceObservation, baseline float64) PhoneUsageObservation {
	confidence := 0.0
	var indicators []string

	if face.Detected {
		h := float64(frameHeight)
		if h > 0 && float64(face.CenterY)/h > lowFrameFraction {
			confidence += cueLookingDown
			indicators = append(indicators, "looking_down")
		}

		if baseline > 0 && face.FaceArea > baseline*tooCloseFactor {
			confidence += cueTooClose
			indicators = append(indicators, "too_close")
		}

		// A frontal face with fewer than two eye boxes counts as fully
		// asymmetric; a profile face carries no eye evidence either way.
		symmetry := 1.0
		if face.Eyes != nil {
			symmetry = face.Eyes.Symmetry
		} else if face.Position == PositionFrontal {
			symmetry = 0
		}
		if symmetry < symmetryThreshold {
			confidence += cueTiltedFace
			indicators = append(indicators, "tilted_face")
		}

		if face.Position == PositionProfile {
			confidence += cueProfileView
			indicators = append(indicators, "profile_view")
		}

		if face.Gaze == GazeDown || face.Gaze == GazeSide {
			confidence += cuePoorGaze
			indicators = append(indicators, "poor_gaze")
		}
	} else {
		confidence = cueNoFace
		indicators = append(indicators, "no_face_detected")
	}

	confidence = math.Min(confidence, 1.0)
	detected := confidence > phoneDetectThreshold

	var risk RiskLevel
	var warning string
	switch {
	case confidence > phoneHighRisk:
		risk = RiskHigh
		warning = "High probability of phone usage detected"
	case confidence > phoneDetectThreshold:
		risk = RiskMedium
		warning = "Possible phone usage detected"
	default:
		risk = RiskLow
		warning = "No phone usage detected"
	}

	recommendation := "Great! Stay focused"
	if detected {
		recommendation = "Put phone away and focus on screen"
	}

	return PhoneUsageObservation{
		Detected:       detected,
		Confidence:     round2(confidence),
		Risk:           risk,
		Indicators:     indicators,
		Warning:        warning,
		Recommendation: recommendation,
	}
}
