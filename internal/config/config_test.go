package config

import "testing"

func TestPort(t *testing.T) {
	t.Setenv("FOCUSD_PORT", "")
	if got := Port(); got != DefaultPort {
		t.Errorf("Port() = %q, want %q", got, DefaultPort)
	}

	t.Setenv("FOCUSD_PORT", "9001")
	if got := Port(); got != "9001" {
		t.Errorf("Port() = %q, want 9001", got)
	}
}

func TestFaceDNNConfidence(t *testing.T) {
	cases := []struct {
		env  string
		want float64
	}{
		{"", 0.2},
		{"0.5", 0.5},
		{"not-a-number", 0.2},
		{"0", 0.2},    // out of range
		{"1.5", 0.2},  // out of range
		{"-0.3", 0.2}, // out of range
	}
	for _, c := range cases {
		t.Setenv("FACE_DNN_CONF", c.env)
		if got := FaceDNNConfidence(0.2); got != c.want {
			t.Errorf("FACE_DNN_CONF=%q: FaceDNNConfidence(0.2) = %v, want %v", c.env, got, c.want)
		}
	}
}

func TestOCREnabled(t *testing.T) {
	t.Setenv("OCR_DISABLED", "")
	if !OCREnabled() {
		t.Error("OCREnabled() = false with no override")
	}

	t.Setenv("OCR_DISABLED", "true")
	if OCREnabled() {
		t.Error("OCREnabled() = true with OCR_DISABLED=true")
	}
}
