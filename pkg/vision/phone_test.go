package vision

import "testing"

func TestEstimatePhoneUsage_NoFace(t *testing.T) {
	obs := estimatePhoneUsage(480, FaceObservation{Detected: false}, 0)

	if obs.Detected {
		t.Error("Detected = true, want false for the single no-face cue")
	}
	if obs.Confidence != 0.2 {
		t.Errorf("Confidence = %v, want 0.2", obs.Confidence)
	}
	if obs.Risk != RiskLow {
		t.Errorf("Risk = %q, want %q", obs.Risk, RiskLow)
	}
	if len(obs.Indicators) != 1 || obs.Indicators[0] != "no_face_detected" {
		t.Errorf("Indicators = %v, want [no_face_detected]", obs.Indicators)
	}
}

func TestEstimatePhoneUsage_LookingDownAndGazeDown(t *testing.T) {
	face := FaceObservation{
		Detected: true,
		CenterY:  400, // lower 40% of a 480px frame
		Gaze:     GazeDown,
		FaceArea: 10000,
	}
	obs := estimatePhoneUsage(480, face, 10000)

	// looking_down 0.3 + poor_gaze 0.1 = 0.4, at the detection boundary.
	if obs.Confidence != 0.4 {
		t.Errorf("Confidence = %v, want 0.4", obs.Confidence)
	}
	if obs.Detected {
		t.Error("Detected = true at exactly 0.4, threshold is strict")
	}
	if obs.Risk != RiskLow {
		t.Errorf("Risk = %q, want %q", obs.Risk, RiskLow)
	}
}

func TestEstimatePhoneUsage_ProfileStacksCues(t *testing.T) {
	face := FaceObservation{
		Detected: true,
		Position: PositionProfile,
		Gaze:     GazeSide,
		CenterY:  350,
		FaceArea: 15000,
	}
	// profile 0.4 + poor_gaze 0.1 + looking_down 0.3 + too_close 0.2 = 1.0
	obs := estimatePhoneUsage(480, face, 10000)

	if !obs.Detected {
		t.Error("Detected = false, want true")
	}
	if obs.Confidence != 1.0 {
		t.Errorf("Confidence = %v, want 1.0 (capped)", obs.Confidence)
	}
	if obs.Risk != RiskHigh {
		t.Errorf("Risk = %q, want %q", obs.Risk, RiskHigh)
	}
	if obs.Recommendation != "Put phone away and focus on screen" {
		t.Errorf("Recommendation = %q", obs.Recommendation)
	}
}

func TestEstimatePhoneUsage_FrontalWithoutEyesIsTilted(t *testing.T) {
	// No eye metrics on a frontal face means no symmetry evidence; that
	// counts as asymmetric, not as a pass.
	face := FaceObservation{
		Detected: true,
		Position: PositionFrontal,
		CenterY:  400,
		Gaze:     GazeCenter,
		FaceArea: 10000,
	}
	obs := estimatePhoneUsage(480, face, 10000)

	// looking_down 0.3 + tilted_face 0.2 = 0.5
	if obs.Confidence != 0.5 {
		t.Errorf("Confidence = %v, want 0.5", obs.Confidence)
	}
	if !obs.Detected {
		t.Error("Detected = false, want true past the 0.4 threshold")
	}
	if obs.Risk != RiskMedium {
		t.Errorf("Risk = %q, want %q", obs.Risk, RiskMedium)
	}
	tilted := false
	for _, in := range obs.Indicators {
		if in == "tilted_face" {
			tilted = true
		}
	}
	if !tilted {
		t.Errorf("Indicators = %v, want tilted_face present", obs.Indicators)
	}
}

func TestEstimatePhoneUsage_FrontalWithSymmetricEyesNotTilted(t *testing.T) {
	face := FaceObservation{
		Detected: true,
		Position: PositionFrontal,
		CenterY:  100,
		Gaze:     GazeCenter,
		FaceArea: 10000,
		Eyes:     &EyeMetrics{Symmetry: 0.9},
	}
	obs := estimatePhoneUsage(480, face, 10000)

	if obs.Confidence != 0 {
		t.Errorf("Confidence = %v, want 0 with symmetric eyes", obs.Confidence)
	}
}

func TestEstimatePhoneUsage_TiltedFace(t *testing.T) {
	face := FaceObservation{
		Detected: true,
		CenterY:  100,
		Gaze:     GazeCenter,
		FaceArea: 10000,
		Eyes:     &EyeMetrics{Symmetry: 0.5},
	}
	obs := estimatePhoneUsage(480, face, 10000)

	if obs.Confidence != 0.2 {
		t.Errorf("Confidence = %v, want 0.2 (tilted_face only)", obs.Confidence)
	}
	if len(obs.Indicators) != 1 || obs.Indicators[0] != "tilted_face" {
		t.Errorf("Indicators = %v, want [tilted_face]", obs.Indicators)
	}
}

func TestEstimatePhoneUsage_UncalibratedSkipsTooClose(t *testing.T) {
	face := FaceObservation{
		Detected: true,
		CenterY:  100,
		Gaze:     GazeCenter,
		FaceArea: 50000,
	}
	obs := estimatePhoneUsage(480, face, 0)

	if obs.Confidence != 0 {
		t.Errorf("Confidence = %v, want 0 without a baseline", obs.Confidence)
	}
	if obs.Warning != "No phone usage detected" {
		t.Errorf("Warning = %q", obs.Warning)
	}
}

func TestEstimatePhoneUsage_MediumRisk(t *testing.T) {
	face := FaceObservation{
		Detected: true,
		CenterY:  400,
		Gaze:     GazeDown,
		FaceArea: 15000,
	}
	// looking_down 0.3 + too_close 0.2 + poor_gaze 0.1 = 0.6
	obs := estimatePhoneUsage(480, face, 10000)

	if !obs.Detected {
		t.Error("Detected = false, want true at 0.6")
	}
	if obs.Risk != RiskMedium {
		t.Errorf("Risk = %q, want %q", obs.Risk, RiskMedium)
	}
}
