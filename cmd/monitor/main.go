// monitor runs the focus pipeline against a live webcam with an on-screen
// overlay. Useful for tuning thresholds without the full server.
package main

import (
	"flag"
	"fmt"
	"os"

	"gocv.io/x/gocv"

	"github.com/workspaceai/focusguard/internal/config"
	"github.com/workspaceai/focusguard/internal/log"
	"github.com/workspaceai/focusguard/pkg/focus"
	"github.com/workspaceai/focusguard/pkg/vision"
)

func main() {
	device := flag.Int("device", 0, "camera device id")
	every := flag.Int("every", 5, "analyze every Nth frame")
	flag.Parse()

	log.Init(os.Getenv("LOG_LEVEL"))

	cascades, err := vision.LoadCascades(vision.CascadeConfig{
		Dir:            config.CascadeDir(),
		YuNetModelPath: config.YuNetModelPath(),
		YuNetThresh:    config.FaceDNNConfidence(0.2),
	})
	if err != nil {
		log.Error("failed to load detection cascades", "err", err)
		os.Exit(1)
	}
	defer cascades.Close()

	cam, err := gocv.OpenVideoCapture(*device)
	if err != nil {
		log.Error("cannot open camera", "device", *device, "err", err)
		os.Exit(1)
	}
	defer cam.Close()

	window := gocv.NewWindow("FocusGuard Monitor")
	defer window.Close()

	pipeline := focus.NewPipeline(cascades)
	session := focus.NewSession("")
	log.Info("monitoring started", "session", session.ID, "device", *device)

	img := gocv.NewMat()
	defer img.Close()

	frameCount := 0
	var last focus.Result

	for {
		if ok := cam.Read(&img); !ok || img.Empty() {
			continue
		}
		frameCount++

		if frameCount%*every == 0 {
			frame := vision.FromMat(img.Clone())
			last = pipeline.AnalyzeFrame(session, frame)

			overlay := focus.DrawOverlay(frame, last)
			window.IMShow(overlay)
			overlay.Close()
			frame.Close()

			if frameCount%50 == 0 {
				log.Info("focus update",
					"score", last.FocusScore,
					"level", last.FocusLevel,
					"looking", last.GazeAnalysis.LookingAtScreen)
			}
		} else {
			window.IMShow(img)
		}

		// 'q' or ESC quits
		key := window.WaitKey(1)
		if key == 'q' || key == 27 {
			break
		}
	}

	summary := session.Summarize()
	fmt.Println("Session summary:")
	fmt.Printf("  duration:     %.1f min\n", summary.DurationMinutes)
	fmt.Printf("  average:      %.1f\n", summary.AverageFocus)
	fmt.Printf("  peak:         %.1f\n", summary.PeakFocus)
	fmt.Printf("  measurements: %d\n", summary.Measurements)
}
