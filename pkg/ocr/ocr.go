// Package ocr extracts text from frames using Tesseract. OCR is an
// optional collaborator: when tesseract or its language data is missing,
// extraction yields empty text and classification degrades to its
// fallback tier instead of failing.
package ocr

import (
	"fmt"
	"sync"

	"github.com/otiai10/gosseract/v2"
	"gocv.io/x/gocv"

	"github.com/workspaceai/focusguard/internal/log"
	"github.com/workspaceai/focusguard/pkg/vision"
)

// Extractor turns a frame into text.
type Extractor interface {
	ExtractText(f *vision.Frame) (string, error)
	Close() error
}

// Tesseract is the gosseract-backed extractor. The client is not
// thread-safe, so extraction is serialized.
type Tesseract struct {
	mu     sync.Mutex
	client *gosseract.Client
}

// NewTesseract creates the extractor. Construction never fails; missing
// tessdata surfaces as an extraction error, which callers map to empty
// text.
func NewTesseract() *Tesseract {
	return &Tesseract{client: gosseract.NewClient()}
}

// ExtractText binarizes the frame (OCR works best on thresholded text)
// and runs Tesseract over it.
func (t *Tesseract) ExtractText(f *vision.Frame) (string, error) {
	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(f.Mat(), &gray, gocv.ColorBGRToGray)

	thresh := gocv.NewMat()
	defer thresh.Close()
	gocv.Threshold(gray, &thresh, 150, 255, gocv.ThresholdBinary)

	buf, err := gocv.IMEncode(gocv.PNGFileExt, thresh)
	if err != nil {
		return "", fmt.Errorf("ocr: encode frame: %w", err)
	}
	defer buf.Close()

	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.client.SetImageFromBytes(buf.GetBytes()); err != nil {
		return "", fmt.Errorf("ocr: set image: %w", err)
	}
	text, err := t.client.Text()
	if err != nil {
		return "", fmt.Errorf("ocr: extract: %w", err)
	}
	return text, nil
}

// Close releases the Tesseract client.
func (t *Tesseract) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.client.Close()
}

// Disabled is the no-op extractor used when OCR is turned off.
type Disabled struct{}

// ExtractText always returns empty text.
func (Disabled) ExtractText(*vision.Frame) (string, error) { return "", nil }

// Close is a no-op.
func (Disabled) Close() error { return nil }

// New returns the Tesseract extractor when enabled, otherwise Disabled.
func New(enabled bool) Extractor {
	if !enabled {
		log.Info("OCR disabled, screen classification degrades to fallback tier")
		return Disabled{}
	}
	return NewTesseract()
}
