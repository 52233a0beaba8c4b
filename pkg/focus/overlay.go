package focus

import (
	"encoding/base64"
	"fmt"
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"github.com/workspaceai/focusguard/pkg/vision"
)

var levelColors = map[Level]color.RGBA{
	LevelExcellent: {G: 255, A: 255},
	LevelGood:      {G: 255, B: 127, A: 255},
	LevelFair:      {G: 255, R: 255, A: 255},
	LevelPoor:      {R: 255, G: 127, A: 255},
	LevelCritical:  {R: 255, A: 255},
}

// DrawOverlay renders the analysis result onto a copy of the frame: score
// panel, face box and component breakdown. The caller owns the returned Mat.
func DrawOverlay(f *vision.Frame, r Result) gocv.Mat {
	overlay := f.Mat().Clone()
	h := overlay.Rows()
	w := overlay.Cols()

	c, ok := levelColors[r.FocusLevel]
	if !ok {
		c = color.RGBA{R: 128, G: 128, B: 128, A: 255}
	}
	white := color.RGBA{R: 255, G: 255, B: 255, A: 255}
	black := color.RGBA{A: 255}
	red := color.RGBA{R: 255, A: 255}

	// Score panel.
	gocv.Rectangle(&overlay, image.Rect(10, 10, 380, 140), black, -1)
	gocv.Rectangle(&overlay, image.Rect(10, 10, 380, 140), c, 2)
	gocv.PutText(&overlay, fmt.Sprintf("FOCUS SCORE: %.1f%%", r.FocusScore),
		image.Pt(20, 40), gocv.FontHersheySimplex, 1.0, c, 2)
	gocv.PutText(&overlay, fmt.Sprintf("Level: %s", r.FocusLevel),
		image.Pt(20, 70), gocv.FontHersheySimplex, 0.7, white, 2)

	looking := "LOOKING AWAY"
	lookColor := red
	if r.GazeAnalysis.LookingAtScreen {
		looking = "ON SCREEN"
		lookColor = color.RGBA{G: 255, A: 255}
	}
	gocv.PutText(&overlay, looking, image.Pt(20, 100), gocv.FontHersheySimplex, 0.6, lookColor, 2)

	if r.PhoneAnalysis.Detected {
		gocv.PutText(&overlay, "PHONE DETECTED!", image.Pt(20, 130), gocv.FontHersheySimplex, 0.6, red, 2)
	}

	// Face box.
	if r.GazeAnalysis.Detected {
		b := r.GazeAnalysis.Bounds
		gocv.Rectangle(&overlay, image.Rect(b.X, b.Y, b.X+b.W, b.Y+b.H), c, 2)
		gocv.PutText(&overlay, fmt.Sprintf("Focus: %.1f", r.GazeAnalysis.Confidence),
			image.Pt(b.X, b.Y-10), gocv.FontHersheySimplex, 0.5, c, 1)
	}

	// Component breakdown, bottom right.
	yStart := h - 100
	gocv.Rectangle(&overlay, image.Rect(w-200, yStart-20, w-10, h-10), black, -1)
	gocv.PutText(&overlay, "COMPONENTS:", image.Pt(w-190, yStart), gocv.FontHersheySimplex, 0.4, white, 1)
	gocv.PutText(&overlay, fmt.Sprintf("Gaze: %.1f", r.ComponentScores.Gaze),
		image.Pt(w-190, yStart+20), gocv.FontHersheySimplex, 0.4, white, 1)
	gocv.PutText(&overlay, fmt.Sprintf("Posture: %.1f", r.ComponentScores.Posture),
		image.Pt(w-190, yStart+40), gocv.FontHersheySimplex, 0.4, white, 1)
	gocv.PutText(&overlay, fmt.Sprintf("Phone: -%.1f", r.ComponentScores.PhonePenalty),
		image.Pt(w-190, yStart+60), gocv.FontHersheySimplex, 0.4, red, 1)

	return overlay
}

// OverlayJPEG renders the overlay scaled down to targetWidth and returns
// it base64-encoded for embedding in API responses. Returns "" on failure;
// the overlay is a debugging aid and never fails the analysis.
func OverlayJPEG(f *vision.Frame, r Result, targetWidth int) string {
	overlay := DrawOverlay(f, r)
	defer overlay.Close()

	w := overlay.Cols()
	h := overlay.Rows()
	if w <= 0 || h <= 0 {
		return ""
	}
	if targetWidth <= 0 {
		targetWidth = 320
	}
	scale := float64(targetWidth) / float64(w)
	small := gocv.NewMat()
	defer small.Close()
	targetHeight := int(float64(h) * scale)
	if targetHeight < 1 {
		targetHeight = 1
	}
	gocv.Resize(overlay, &small, image.Pt(targetWidth, targetHeight), 0, 0, gocv.InterpolationLinear)

	buf, err := gocv.IMEncodeWithParams(gocv.JPEGFileExt, small, []int{gocv.IMWriteJpegQuality, 75})
	if err != nil {
		return ""
	}
	defer buf.Close()
	return base64.StdEncoding.EncodeToString(buf.GetBytes())
}
