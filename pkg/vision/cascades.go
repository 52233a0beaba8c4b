package vision

import (
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sync"

	"gocv.io/x/gocv"

	"github.com/workspaceai/focusguard/internal/log"
)

// ErrDetectorUnavailable indicates an optional detector dependency is
// missing. Callers degrade to the heuristic-only path.
var ErrDetectorUnavailable = errors.New("vision: detector unavailable")

// Cascade XML file names, relative to the cascade directory. These are the
// stock OpenCV haarcascades.
const (
	cascadeFrontal     = "haarcascade_frontalface_default.xml"
	cascadeFrontalAlt2 = "haarcascade_frontalface_alt2.xml"
	cascadeFrontalAlt  = "haarcascade_frontalface_alt.xml"
	cascadeProfile     = "haarcascade_profileface.xml"
	cascadeEye         = "haarcascade_eye.xml"
	cascadeUpperBody   = "haarcascade_upperbody.xml"
)

// CascadeConfig holds detector configuration.
type CascadeConfig struct {
	Dir            string  // Directory containing the Haar cascade XML files
	YuNetModelPath string  // Path to the optional YuNet ONNX model ("" = disabled)
	YuNetThresh    float64 // YuNet score threshold (default 0.2)
}

// DefaultCascadeConfig returns production defaults.
func DefaultCascadeConfig() CascadeConfig {
	return CascadeConfig{
		Dir:            "data/haarcascades",
		YuNetModelPath: "models/face_detection_yunet.onnx",
		YuNetThresh:    0.2,
	}
}

// Cascades bundles the loaded detectors. One Cascades instance may be
// shared across sessions; gocv classifiers are not thread-safe, so all
// detection runs under a single mutex.
type Cascades struct {
	frontal     gocv.CascadeClassifier
	frontalAlt2 gocv.CascadeClassifier
	frontalAlt  gocv.CascadeClassifier
	profile     gocv.CascadeClassifier
	eye         gocv.CascadeClassifier
	upperBody   gocv.CascadeClassifier

	yunet    gocv.FaceDetectorYN
	hasYuNet bool

	hasAlt2 bool
	hasAlt  bool
	hasBody bool

	cfg CascadeConfig

	mu sync.Mutex // Protects all detector calls
}

// LoadCascades loads the Haar cascades from cfg.Dir and, when the model
// file exists, the YuNet DNN face detector. Missing alternate cascades are
// tolerated; the primary frontal, eye and profile cascades are required.
func LoadCascades(cfg CascadeConfig) (*Cascades, error) {
	c := &Cascades{cfg: cfg}

	var err error
	if c.frontal, err = loadCascade(cfg.Dir, cascadeFrontal); err != nil {
		return nil, err
	}
	if c.eye, err = loadCascade(cfg.Dir, cascadeEye); err != nil {
		c.frontal.Close()
		return nil, err
	}
	if c.profile, err = loadCascade(cfg.Dir, cascadeProfile); err != nil {
		c.frontal.Close()
		c.eye.Close()
		return nil, err
	}

	// Alternate frontal variants and upper body are best-effort.
	if c.frontalAlt2, err = loadCascade(cfg.Dir, cascadeFrontalAlt2); err != nil {
		log.Warn("alt2 frontal cascade missing", "err", err)
	} else {
		c.hasAlt2 = true
	}
	if c.frontalAlt, err = loadCascade(cfg.Dir, cascadeFrontalAlt); err != nil {
		log.Warn("alt frontal cascade missing", "err", err)
	} else {
		c.hasAlt = true
	}
	if c.upperBody, err = loadCascade(cfg.Dir, cascadeUpperBody); err != nil {
		log.Warn("upper body cascade missing, posture falls back to face position", "err", err)
	} else {
		c.hasBody = true
	}

	if cfg.YuNetModelPath != "" {
		if _, err := os.Stat(cfg.YuNetModelPath); err == nil {
			thresh := cfg.YuNetThresh
			if thresh <= 0 {
				thresh = 0.2
			}
			c.yunet = gocv.NewFaceDetectorYNWithParams(
				cfg.YuNetModelPath,
				"",                          // No config file needed for ONNX
				image.Pt(320, 320),          // Initial input size, updated per image
				float32(thresh),             // Score threshold
				0.3,                         // NMS threshold
				5000,                        // Top K
				int(gocv.NetBackendDefault), // Backend
				int(gocv.NetTargetCPU),      // Target
			)
			c.hasYuNet = true
			log.Info("YuNet face detector loaded", "model", cfg.YuNetModelPath, "threshold", thresh)
		} else {
			log.Info("YuNet model not found, using Haar cascades only", "path", cfg.YuNetModelPath)
		}
	}

	return c, nil
}

func loadCascade(dir, name string) (gocv.CascadeClassifier, error) {
	path := filepath.Join(dir, name)
	classifier := gocv.NewCascadeClassifier()
	if !classifier.Load(path) {
		classifier.Close()
		return gocv.CascadeClassifier{}, fmt.Errorf("%w: load %s", ErrDetectorUnavailable, path)
	}
	return classifier, nil
}

// detectYuNet runs the DNN detector and returns face rectangles above the
// configured threshold. Boxes smaller than 40px are discarded as noise.
func (c *Cascades) detectYuNet(img gocv.Mat) []image.Rectangle {
	if !c.hasYuNet {
		return nil
	}
	c.yunet.SetInputSize(image.Pt(img.Cols(), img.Rows()))

	faces := gocv.NewMat()
	defer faces.Close()
	c.yunet.Detect(img, &faces)

	var rects []image.Rectangle
	for r := 0; r < faces.Rows(); r++ {
		x := int(faces.GetFloatAt(r, 0))
		y := int(faces.GetFloatAt(r, 1))
		w := int(faces.GetFloatAt(r, 2))
		h := int(faces.GetFloatAt(r, 3))
		if x < 0 {
			x = 0
		}
		if y < 0 {
			y = 0
		}
		if w > 40 && h > 40 {
			rects = append(rects, image.Rect(x, y, x+w, y+h))
		}
	}
	return rects
}

// Close releases all detector resources.
func (c *Cascades) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.frontal.Close()
	c.profile.Close()
	c.eye.Close()
	if c.hasAlt2 {
		c.frontalAlt2.Close()
		c.hasAlt2 = false
	}
	if c.hasAlt {
		c.frontalAlt.Close()
		c.hasAlt = false
	}
	if c.hasBody {
		c.upperBody.Close()
		c.hasBody = false
	}
	if c.hasYuNet {
		c.yunet.Close()
		c.hasYuNet = false
	}
}
