// Package web exposes the focus/distraction analysis API consumed by the
// monitoring frontend.
package web

import (
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"

	"github.com/workspaceai/focusguard/internal/log"
	"github.com/workspaceai/focusguard/pkg/content"
	"github.com/workspaceai/focusguard/pkg/focus"
	"github.com/workspaceai/focusguard/pkg/ocr"
)

// Server is the analysis API server.
type Server struct {
	app  *fiber.App
	port string

	pipeline   *focus.Pipeline
	sessions   *focus.Manager
	classifier *content.Classifier
	ocr        ocr.Extractor

	// Live focus stream clients
	focusClients   map[*websocket.Conn]bool
	focusClientsMu sync.Mutex
}

// NewServer wires the analysis pipeline behind the HTTP surface.
func NewServer(port string, pipeline *focus.Pipeline, sessions *focus.Manager, classifier *content.Classifier, extractor ocr.Extractor) *Server {
	s := &Server{
		port:         port,
		pipeline:     pipeline,
		sessions:     sessions,
		classifier:   classifier,
		ocr:          extractor,
		focusClients: make(map[*websocket.Conn]bool),
	}

	app := fiber.New(fiber.Config{
		AppName:               "FocusGuard",
		DisableStartupMessage: true,
		BodyLimit:             32 * 1024 * 1024, // Screenshots arrive base64-encoded
	})

	// CORS for the local dev frontend
	app.Use(cors.New())

	app.Get("/health", s.handleHealth)

	api := app.Group("/api")
	api.Post("/analyze-screen", s.handleAnalyzeScreen)
	api.Post("/analyze-focus", s.handleAnalyzeFocus)
	api.Post("/detect-distractions", s.handleDetectDistractions)
	api.Post("/check-window", s.handleCheckWindow)
	api.Post("/analyze-posture", s.handleAnalyzePosture)
	api.Get("/sessions/:id/summary", s.handleSessionSummary)
	api.Delete("/sessions/:id", s.handleEndSession)

	// WebSocket upgrade middleware
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/focus", websocket.New(s.handleFocusWS))

	s.app = app
	return s
}

// Start blocks serving the API.
func (s *Server) Start() error {
	log.Info("focusd listening", "port", s.port)
	return s.app.Listen(":" + s.port)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// handleFocusWS streams live focus results to dashboard clients.
func (s *Server) handleFocusWS(c *websocket.Conn) {
	s.focusClientsMu.Lock()
	s.focusClients[c] = true
	s.focusClientsMu.Unlock()

	// Keep connection alive until the client goes away
	for {
		if _, _, err := c.ReadMessage(); err != nil {
			break
		}
	}

	s.focusClientsMu.Lock()
	delete(s.focusClients, c)
	s.focusClientsMu.Unlock()
}

// broadcastFocus pushes a focus result to all connected stream clients.
// Broken clients are dropped.
func (s *Server) broadcastFocus(payload any) {
	s.focusClientsMu.Lock()
	defer s.focusClientsMu.Unlock()

	for c := range s.focusClients {
		if err := c.WriteJSON(payload); err != nil {
			c.Close()
			delete(s.focusClients, c)
		}
	}
}
