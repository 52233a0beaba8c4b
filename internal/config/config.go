// Package config provides configuration helpers for focusguard commands.
package config

import (
	"os"
	"strconv"
)

// Defaults for the focusd server and the vision pipeline.
const (
	DefaultPort        = "8000"
	DefaultCascadeDir  = "data/haarcascades"
	DefaultYuNetModel  = "models/face_detection_yunet.onnx"
	DefaultKeywordPath = "" // empty = compiled-in tables only
)

// Port returns the HTTP port from FOCUSD_PORT or the default.
func Port() string {
	if p := os.Getenv("FOCUSD_PORT"); p != "" {
		return p
	}
	return DefaultPort
}

// CascadeDir returns the directory containing the Haar cascade XML files.
// Override with CASCADE_DIR.
func CascadeDir() string {
	if d := os.Getenv("CASCADE_DIR"); d != "" {
		return d
	}
	return DefaultCascadeDir
}

// YuNetModelPath returns the path to the optional YuNet ONNX face model.
// Override with FACE_DNN_MODEL. The detector is skipped if the file is missing.
func YuNetModelPath() string {
	if m := os.Getenv("FACE_DNN_MODEL"); m != "" {
		return m
	}
	return DefaultYuNetModel
}

// FaceDNNConfidence returns the confidence threshold for the DNN face
// detector from FACE_DNN_CONF, or the given default if unset or invalid.
func FaceDNNConfidence(def float64) float64 {
	v := os.Getenv("FACE_DNN_CONF")
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f <= 0 || f > 1 {
		return def
	}
	return f
}

// KeywordTablePath returns the optional TOML keyword-table override path
// from KEYWORD_TABLES.
func KeywordTablePath() string {
	if p := os.Getenv("KEYWORD_TABLES"); p != "" {
		return p
	}
	return DefaultKeywordPath
}

// OCREnabled reports whether Tesseract OCR should be attempted.
// Disable with OCR_DISABLED=true when tesseract is not installed.
func OCREnabled() bool {
	return os.Getenv("OCR_DISABLED") != "true"
}

// ClassifierURL returns the URL of the optional external distraction
// classifier service from CLASSIFIER_URL. Empty means no model.
func ClassifierURL() string {
	return os.Getenv("CLASSIFIER_URL")
}
