package vision

import (
	"image"

	"github.com/workspaceai/focusguard/internal/log"
)

// Posture scoring constants.
const (
	postureBaseScore      = 25   // Floor when a body is detected
	postureDefaultScore   = 50   // Neither body nor face visible
	postureFaceOnlyGood   = 40   // Face-only fallback, both indicators hold
	postureFaceOnlyPoor   = 25   // Face-only fallback, an indicator failed
	postureErrorScore     = 30   // Internal fault
	expectedBodyFraction  = 0.25 // Expected body width as fraction of frame width
	uprightAspectRatio    = 1.2  // Body taller than wide by this margin
	headAlignTolerance    = 0.20 // Head offset limit as fraction of body width
	faceCenterTolerance   = 0.15 // Face-only: horizontal offset limit
	faceHeightLowerBound  = 0.2  // Face-only: vertical position window
	faceHeightUpperBound  = 0.6
	headPositionLow       = 0.1 // Head within upper portion of body box
	headPositionHigh      = 0.4
)

// PostureEstimator estimates upper-body posture quality from a frame and
// the face observation for the same frame.
type PostureEstimator struct {
	cascades *Cascades
}

// NewPostureEstimator creates a posture estimator on top of loaded cascades.
func NewPostureEstimator(c *Cascades) *PostureEstimator {
	return &PostureEstimator{cascades: c}
}

// Analyze scores posture from the upper-body detection when available,
// falling back to face position alone. Internal faults degrade to a fixed
// low score rather than propagating.
func (p *PostureEstimator) Analyze(f *Frame, face FaceObservation) (obs PostureObservation) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("posture analysis panicked", "panic", r)
			obs = PostureObservation{
				Score:           postureErrorScore,
				Level:           PostureUnknown,
				Recommendations: []string{"Unable to analyze posture"},
			}
		}
	}()

	c := p.cascades
	c.mu.Lock()
	var bodies []image.Rectangle
	if c.hasBody {
		bodies = c.upperBody.DetectMultiScaleWithParams(f.Gray(), 1.1, 3, 0, image.Pt(100, 100), image.Point{})
	}
	c.mu.Unlock()

	w, h := f.Width(), f.Height()
	score := float64(postureDefaultScore)
	indicators := map[string]bool{}

	switch {
	case len(bodies) > 0 && face.Detected:
		best := bodies[0]
		for _, b := range bodies[1:] {
			if b.Dx()*b.Dy() > best.Dx()*best.Dy() {
				best = b
			}
		}
		body := rectFrom(best)

		bodyCenterX := body.X + body.W/2
		alignOffset := face.CenterX - bodyCenterX
		if alignOffset < 0 {
			alignOffset = -alignOffset
		}
		aligned := float64(alignOffset) < float64(body.W)*headAlignTolerance

		headRatio := 0.5
		if body.H > 0 {
			headRatio = float64(face.CenterY-body.Y) / float64(body.H)
		}
		headPositioned := headRatio > headPositionLow && headRatio < headPositionHigh

		widthRatio := float64(body.W) / (float64(w) * expectedBodyFraction)
		facingCamera := widthRatio > 0.8 && widthRatio < 1.5

		aspect := 1.0
		if body.W > 0 {
			aspect = float64(body.H) / float64(body.W)
		}
		upright := aspect > uprightAspectRatio

		satisfied := 0
		for _, ok := range []bool{aligned, headPositioned, facingCamera, upright} {
			if ok {
				satisfied++
			}
		}
		score = postureBaseScore + float64(satisfied)/4.0*75

		indicators = map[string]bool{
			"body_detected":        true,
			"head_body_aligned":    aligned,
			"head_positioned_well": headPositioned,
			"facing_camera":        facingCamera,
			"upright_posture":      upright,
		}

	case face.Detected:
		// No body region: weaker assessment from face position alone.
		offset := face.CenterX - w/2
		if offset < 0 {
			offset = -offset
		}
		centered := float64(offset) < float64(w)*faceCenterTolerance

		heightRatio := float64(face.CenterY) / float64(h)
		goodHeight := heightRatio > faceHeightLowerBound && heightRatio < faceHeightUpperBound

		if centered && goodHeight {
			score = postureFaceOnlyGood
		} else {
			score = postureFaceOnlyPoor
		}

		indicators = map[string]bool{
			"body_detected":       false,
			"face_centered":       centered,
			"good_face_height":    goodHeight,
			"estimated_from_face": true,
		}

	default:
		indicators = map[string]bool{
			"body_detected": false,
			"face_detected": false,
		}
	}

	return PostureObservation{
		Score:           round1(score),
		Level:           postureLevel(score),
		Indicators:      indicators,
		Recommendations: postureRecommendations(indicators),
	}
}

func postureLevel(score float64) PostureLevel {
	switch {
	case score >= 80:
		return PostureExcellent
	case score >= 65:
		return PostureGood
	case score >= 50:
		return PostureFair
	default:
		return PosturePoor
	}
}

// postureRecommendations names the specific failed indicators. Indicators
// absent from the map are treated as satisfied.
func postureRecommendations(indicators map[string]bool) []string {
	var recs []string
	if ok, present := indicators["head_body_aligned"]; present && !ok {
		recs = append(recs, "Center your head above your body")
	}
	if ok, present := indicators["upright_posture"]; present && !ok {
		recs = append(recs, "Sit up straight")
	}
	if ok, present := indicators["facing_camera"]; present && !ok {
		recs = append(recs, "Face the camera directly")
	}
	if len(recs) == 0 {
		recs = append(recs, "Good posture!")
	}
	return recs
}
