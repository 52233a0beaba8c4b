package web

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/workspaceai/focusguard/pkg/content"
	"github.com/workspaceai/focusguard/pkg/focus"
	"github.com/workspaceai/focusguard/pkg/ocr"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	return NewServer(
		"0",
		focus.NewPipeline(nil),
		focus.NewManager(),
		content.NewClassifier(content.DefaultTables(), nil),
		ocr.Disabled{},
	)
}

func postJSON(t *testing.T, s *Server, path string, body any) (int, map[string]any) {
	t.Helper()

	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	req := httptest.NewRequest("POST", path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read response: %v", err)
	}
	var parsed map[string]any
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("unmarshal response %q: %v", data, err)
	}
	return resp.StatusCode, parsed
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest("GET", "/health", nil)
	resp, err := s.app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("status field = %v, want ok", body["status"])
	}
	if body["sessions"] != float64(0) {
		t.Errorf("sessions = %v, want 0", body["sessions"])
	}
}

func TestDetectDistractions(t *testing.T) {
	s := newTestServer(t)

	status, body := postJSON(t, s, "/api/detect-distractions", DistractionDetectRequest{
		WindowInfo: content.WindowObservation{
			Title:             "Facebook - Home",
			URL:               "facebook.com",
			ActiveTimeSeconds: 150,
		},
		UserID:    "u1",
		SessionID: "s1",
	})

	if status != 200 {
		t.Fatalf("status = %d, want 200", status)
	}
	if body["success"] != true {
		t.Errorf("success = %v, want true", body["success"])
	}
	if body["analysis_type"] != "distraction" {
		t.Errorf("analysis_type = %v", body["analysis_type"])
	}

	result, ok := body["result"].(map[string]any)
	if !ok {
		t.Fatalf("result = %v, want object", body["result"])
	}
	if result["is_distraction"] != true {
		t.Error("is_distraction = false, want true")
	}
	if result["should_block"] != true || result["should_close"] != true {
		t.Errorf("should_block = %v should_close = %v, want both true at 150s",
			result["should_block"], result["should_close"])
	}
}

func TestCheckWindow(t *testing.T) {
	s := newTestServer(t)

	status, body := postJSON(t, s, "/api/check-window", DistractionDetectRequest{
		WindowInfo: content.WindowObservation{
			Title:             "YouTube - trending",
			ActiveTimeSeconds: 200,
		},
		SessionID: "s1",
	})

	if status != 200 {
		t.Fatalf("status = %d, want 200", status)
	}
	if body["analysis_type"] != "window_check" {
		t.Errorf("analysis_type = %v, want window_check", body["analysis_type"])
	}

	result, ok := body["result"].(map[string]any)
	if !ok {
		t.Fatalf("result = %v, want object", body["result"])
	}
	if result["is_distraction"] != true {
		t.Error("is_distraction = false, want true")
	}
	if result["should_block"] != true {
		t.Error("should_block = false, want true past 180s")
	}
	if result["distraction_score"] != float64(75) {
		t.Errorf("distraction_score = %v, want 75", result["distraction_score"])
	}
}

func TestAnalyzeScreen_UndecodableScreenshot(t *testing.T) {
	s := newTestServer(t)

	status, body := postJSON(t, s, "/api/analyze-screen", ScreenAnalyzeRequest{
		ScreenshotData: "!!not-base64!!",
		SessionID:      "s1",
	})

	if status != 200 {
		t.Fatalf("status = %d, want 200 (degraded result, not an HTTP error)", status)
	}
	if body["success"] != true {
		t.Errorf("success = %v, want true", body["success"])
	}
	result := body["result"].(map[string]any)
	if result["error"] == nil || result["error"] == "" {
		t.Error("result.error is empty, want a decode failure message")
	}
	if result["is_distraction"] != false {
		t.Error("is_distraction = true on a failed analysis")
	}
}

func TestAnalyzeFocus_UndecodableFrame(t *testing.T) {
	s := newTestServer(t)

	status, body := postJSON(t, s, "/api/analyze-focus", FocusAnalyzeRequest{
		FrameData: "%%%",
		SessionID: "cam-1",
	})

	if status != 200 {
		t.Fatalf("status = %d, want 200", status)
	}
	if body["session_id"] != "cam-1" {
		t.Errorf("session_id = %v, want cam-1", body["session_id"])
	}
	result := body["result"].(map[string]any)
	if result["focus_score"] != float64(0) {
		t.Errorf("focus_score = %v, want 0 on decode failure", result["focus_score"])
	}
	if result["focus_level"] != "critical" {
		t.Errorf("focus_level = %v, want critical", result["focus_level"])
	}
}

func TestSessionLifecycle(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest("GET", "/api/sessions/desk-1/summary", nil)
	resp, err := s.app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != 200 {
		t.Fatalf("summary status = %d, want 200", resp.StatusCode)
	}

	req = httptest.NewRequest("DELETE", "/api/sessions/desk-1", nil)
	resp, err = s.app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != 200 {
		t.Fatalf("delete status = %d, want 200", resp.StatusCode)
	}

	req = httptest.NewRequest("DELETE", "/api/sessions/desk-1", nil)
	resp, err = s.app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != 404 {
		t.Errorf("second delete status = %d, want 404", resp.StatusCode)
	}
}

func TestBadRequestBody(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest("POST", "/api/detect-distractions", bytes.NewReader([]byte("{broken")))
	req.Header.Set("Content-Type", "application/json")
	resp, err := s.app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 400 {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}
