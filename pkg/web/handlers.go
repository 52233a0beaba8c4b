package web

import (
	"encoding/base64"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/workspaceai/focusguard/internal/log"
	"github.com/workspaceai/focusguard/pkg/content"
	"github.com/workspaceai/focusguard/pkg/focus"
	"github.com/workspaceai/focusguard/pkg/vision"
)

// Request bodies mirror the monitoring frontend's bridge contract.

// ScreenAnalyzeRequest carries a base64 screenshot for classification.
type ScreenAnalyzeRequest struct {
	ScreenshotData string `json:"screenshot_data"`
	UserID         string `json:"user_id"`
	SessionID      string `json:"session_id"`
}

// FocusAnalyzeRequest carries a base64 camera frame for focus scoring.
type FocusAnalyzeRequest struct {
	FrameData string `json:"frame_data"`
	UserID    string `json:"user_id"`
	SessionID string `json:"session_id"`
}

// DistractionDetectRequest carries window metadata.
type DistractionDetectRequest struct {
	WindowInfo content.WindowObservation `json:"window_info"`
	UserID     string                    `json:"user_id"`
	SessionID  string                    `json:"session_id"`
}

// PostureAnalyzeRequest carries a base64 camera frame for posture scoring.
type PostureAnalyzeRequest struct {
	FrameData string `json:"frame_data"`
	UserID    string `json:"user_id"`
	SessionID string `json:"session_id"`
}

type envelope struct {
	Success      bool   `json:"success"`
	AnalysisType string `json:"analysis_type"`
	UserID       string `json:"user_id"`
	SessionID    string `json:"session_id"`
	Result       any    `json:"result"`
}

// focusResponse is a focus result plus the optional annotated overlay.
type focusResponse struct {
	focus.Result
	OverlayB64 string `json:"overlay_b64,omitempty"`
}

func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":   "ok",
		"service":  "focusguard",
		"sessions": s.sessions.Len(),
		"time":     time.Now().UTC().Format(time.RFC3339),
	})
}

// decodeFrameData decodes a base64 payload, tolerating data-URL prefixes.
func decodeFrameData(data string) (*vision.Frame, error) {
	if i := strings.IndexByte(data, ','); i >= 0 && strings.HasPrefix(data, "data:") {
		data = data[i+1:]
	}
	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, vision.ErrDecode
	}
	return vision.Decode(raw)
}

// handleAnalyzeScreen runs OCR over the screenshot and classifies the
// extracted text. Every failure degrades to a schema-valid neutral result.
func (s *Server) handleAnalyzeScreen(c *fiber.Ctx) error {
	var req ScreenAnalyzeRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "screen")
	}

	frame, err := decodeFrameData(req.ScreenshotData)
	if err != nil {
		log.Warn("screen analysis: frame decode failed", "session", req.SessionID, "err", err)
		return c.JSON(envelope{
			Success:      true,
			AnalysisType: "screen",
			UserID:       req.UserID,
			SessionID:    req.SessionID,
			Result: content.ScreenResult{
				ContentType:       "unknown",
				DetectionMethod:   "none",
				AnalysisTimestamp: time.Now().UTC().Format(time.RFC3339),
				Error:             "failed to decode screenshot",
			},
		})
	}
	defer frame.Close()

	text, err := s.ocr.ExtractText(frame)
	if err != nil {
		// Missing OCR dependency degrades to the classifier fallback tier.
		log.Debug("ocr unavailable", "err", err)
		text = ""
	}

	result := s.classifier.ClassifyScreen(c.Context(), text)
	return c.JSON(envelope{
		Success:      true,
		AnalysisType: "screen",
		UserID:       req.UserID,
		SessionID:    req.SessionID,
		Result:       result,
	})
}

// handleAnalyzeFocus scores one camera frame within the request's session.
func (s *Server) handleAnalyzeFocus(c *fiber.Ctx) error {
	var req FocusAnalyzeRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "focus")
	}

	session := s.sessions.Get(req.SessionID)

	frame, err := decodeFrameData(req.FrameData)
	if err != nil {
		log.Warn("focus analysis: frame decode failed", "session", session.ID, "err", err)
		return c.JSON(envelope{
			Success:      true,
			AnalysisType: "focus",
			UserID:       req.UserID,
			SessionID:    session.ID,
			Result:       focus.ErrorResult(time.Now(), "failed to decode frame"),
		})
	}
	defer frame.Close()

	result := s.pipeline.AnalyzeFrame(session, frame)
	resp := focusResponse{
		Result:     result,
		OverlayB64: focus.OverlayJPEG(frame, result, 320),
	}

	s.broadcastFocus(resp)

	return c.JSON(envelope{
		Success:      true,
		AnalysisType: "focus",
		UserID:       req.UserID,
		SessionID:    session.ID,
		Result:       resp,
	})
}

// handleDetectDistractions classifies window metadata and escalates by
// elapsed active time.
func (s *Server) handleDetectDistractions(c *fiber.Ctx) error {
	var req DistractionDetectRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "distraction")
	}

	result := s.classifier.ClassifyWindow(c.Context(), req.WindowInfo)
	return c.JSON(envelope{
		Success:      true,
		AnalysisType: "distraction",
		UserID:       req.UserID,
		SessionID:    req.SessionID,
		Result:       result,
	})
}

// handleCheckWindow is the lightweight window poll: a bare title check
// with the 180s block gate, no keyword cascade. Suited to high-frequency
// polling where the full classification is too heavy.
func (s *Server) handleCheckWindow(c *fiber.Ctx) error {
	var req DistractionDetectRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "window_check")
	}

	result := s.classifier.QuickWindowCheck(req.WindowInfo)
	return c.JSON(envelope{
		Success:      true,
		AnalysisType: "window_check",
		UserID:       req.UserID,
		SessionID:    req.SessionID,
		Result:       result,
	})
}

// handleAnalyzePosture scores posture only, without folding the frame
// into the focus history.
func (s *Server) handleAnalyzePosture(c *fiber.Ctx) error {
	var req PostureAnalyzeRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "posture")
	}

	session := s.sessions.Get(req.SessionID)

	frame, err := decodeFrameData(req.FrameData)
	if err != nil {
		return c.JSON(envelope{
			Success:      true,
			AnalysisType: "posture",
			UserID:       req.UserID,
			SessionID:    session.ID,
			Result: vision.PostureObservation{
				Score:           0,
				Level:           vision.PostureUnknown,
				Recommendations: []string{"Unable to analyze posture"},
			},
		})
	}
	defer frame.Close()

	result := s.pipeline.AnalyzePosture(session, frame)
	return c.JSON(envelope{
		Success:      true,
		AnalysisType: "posture",
		UserID:       req.UserID,
		SessionID:    session.ID,
		Result:       result,
	})
}

func (s *Server) handleSessionSummary(c *fiber.Ctx) error {
	id := c.Params("id")
	session := s.sessions.Get(id)
	return c.JSON(session.Summarize())
}

func (s *Server) handleEndSession(c *fiber.Ctx) error {
	id := c.Params("id")
	summary, ok := s.sessions.Remove(id)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "unknown session"})
	}
	return c.JSON(summary)
}

func badRequest(c *fiber.Ctx, analysisType string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"success":       false,
		"analysis_type": analysisType,
		"error":         "invalid request body",
	})
}
