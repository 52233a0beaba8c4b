// Package vision provides frame decoding, face/eye/body detection and the
// per-frame estimators used by the focus monitor. Detection is built on
// OpenCV via gocv: Haar cascades with an optional YuNet DNN front-end.
package vision

import (
	"errors"
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

// ErrDecode indicates the input bytes could not be decoded into an image.
var ErrDecode = errors.New("vision: image decode failed")

// Frame is a single decoded BGR image. Frames are ephemeral: the caller
// owns the frame for the duration of one analysis call and must Close it.
type Frame struct {
	mat  gocv.Mat
	gray gocv.Mat
}

// Decode decodes JPEG/PNG bytes into a Frame.
func Decode(data []byte) (*Frame, error) {
	mat, err := gocv.IMDecode(data, gocv.IMReadColor)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if mat.Empty() {
		mat.Close()
		return nil, ErrDecode
	}
	return &Frame{mat: mat}, nil
}

// FromMat wraps an existing Mat (e.g. a webcam capture) without copying.
// The frame takes ownership of the Mat.
func FromMat(mat gocv.Mat) *Frame {
	return &Frame{mat: mat}
}

// Mat returns the underlying BGR image.
func (f *Frame) Mat() gocv.Mat { return f.mat }

// Width returns the frame width in pixels.
func (f *Frame) Width() int { return f.mat.Cols() }

// Height returns the frame height in pixels.
func (f *Frame) Height() int { return f.mat.Rows() }

// Gray returns a contrast-enhanced grayscale view of the frame, computed
// once on first use. CLAHE handles low-light and overexposed scenes; plain
// histogram equalization is the fallback.
func (f *Frame) Gray() gocv.Mat {
	if !f.gray.Empty() {
		return f.gray
	}
	gray := gocv.NewMat()
	gocv.CvtColor(f.mat, &gray, gocv.ColorBGRToGray)

	enhanced := gocv.NewMat()
	clahe := gocv.NewCLAHEWithParams(2.0, image.Pt(8, 8))
	clahe.Apply(gray, &enhanced)
	clahe.Close()
	if enhanced.Empty() {
		gocv.EqualizeHist(gray, &enhanced)
	}
	gray.Close()

	f.gray = enhanced
	return f.gray
}

// Close releases the frame's image buffers.
func (f *Frame) Close() {
	if !f.gray.Empty() {
		f.gray.Close()
	}
	if !f.mat.Empty() {
		f.mat.Close()
	}
}
