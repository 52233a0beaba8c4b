package focus

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/workspaceai/focusguard/pkg/vision"
)

// Result is the complete per-frame focus analysis returned to callers.
// The field set is a compatibility contract with the monitoring frontend.
type Result struct {
	Timestamp              float64                      `json:"timestamp"`
	SessionDurationMinutes float64                      `json:"session_duration_minutes"`
	FrameCount             int                          `json:"frame_count"`
	FocusScore             float64                      `json:"focus_score"`
	FocusLevel             Level                        `json:"focus_level"`
	GazeAnalysis           vision.FaceObservation       `json:"gaze_analysis"`
	PostureAnalysis        vision.PostureObservation    `json:"posture_analysis"`
	PhoneAnalysis          vision.PhoneUsageObservation `json:"phone_analysis"`
	ComponentScores        ComponentScores              `json:"component_scores"`
	Recommendations        []string                     `json:"recommendations"`
	Alerts                 []string                     `json:"alerts"`
	SessionAverageFocus    float64                      `json:"session_average_focus"`
	AnalysisQuality        string                       `json:"analysis_quality"`
	Error                  string                       `json:"error,omitempty"`
}

// Summary describes a whole monitoring session.
type Summary struct {
	SessionID       string  `json:"session_id"`
	DurationMinutes float64 `json:"duration_minutes"`
	AverageFocus    float64 `json:"average_focus"`
	PeakFocus       float64 `json:"peak_focus"`
	Measurements    int     `json:"measurements"`
}

// Pipeline bundles the shared frame estimators. Estimators are stateless;
// all per-session state lives in the Session passed to AnalyzeFrame.
type Pipeline struct {
	gaze    *vision.GazeEstimator
	posture *vision.PostureEstimator
	now     func() time.Time
}

// NewPipeline creates the analysis pipeline on top of loaded cascades.
func NewPipeline(c *vision.Cascades) *Pipeline {
	return &Pipeline{
		gaze:    vision.NewGazeEstimator(c),
		posture: vision.NewPostureEstimator(c),
		now:     time.Now,
	}
}

// Session owns the mutable state of one monitoring session: the score
// aggregator, the face-size calibration and frame counters. All access is
// serialized through its mutex, so one session can be driven from multiple
// request handlers safely while independent sessions never contend.
type Session struct {
	ID string

	mu     sync.Mutex
	agg    Aggregator
	cal    vision.Calibration
	start  time.Time
	frames int
	peak   float64
	last   Result
}

// NewSession creates an empty session. An empty id gets a generated UUID.
func NewSession(id string) *Session {
	if id == "" {
		id = uuid.NewString()
	}
	return &Session{ID: id, start: time.Now()}
}

// AnalyzeFrame runs the full estimator chain over one frame and folds the
// outputs into the session. The frame stays owned by the caller.
func (p *Pipeline) AnalyzeFrame(s *Session, f *vision.Frame) Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := p.now()
	s.frames++

	face := p.gaze.Analyze(f, &s.cal)
	posture := p.posture.Analyze(f, face)
	phone := vision.EstimatePhoneUsage(f, face, &s.cal)

	assessment := s.agg.Assess(now, face, posture, phone)

	var alerts []string
	if !face.LookingAtScreen {
		alerts = append(alerts, "Eyes not focused on screen")
	}
	if posture.Score < 50 {
		alerts = append(alerts, "Poor posture detected")
	}
	if phone.Detected {
		alerts = append(alerts, "Possible phone usage")
	}

	quality := "limited"
	if face.Detected {
		quality = "good"
	}

	if assessment.Score > s.peak {
		s.peak = assessment.Score
	}

	result := Result{
		Timestamp:              float64(now.UnixMilli()) / 1000,
		SessionDurationMinutes: round1(now.Sub(s.start).Minutes()),
		FrameCount:             s.frames,
		FocusScore:             assessment.Score,
		FocusLevel:             assessment.Level,
		GazeAnalysis:           face,
		PostureAnalysis:        posture,
		PhoneAnalysis:          phone,
		ComponentScores:        assessment.Components,
		Recommendations:        assessment.Recommendations,
		Alerts:                 alerts,
		SessionAverageFocus:    assessment.SessionAverage,
		AnalysisQuality:        quality,
	}
	s.last = result
	return result
}

// AnalyzePosture runs only the gaze and posture estimators over a frame,
// without folding the result into the focus history. The session is still
// needed for the face-size calibration.
func (p *Pipeline) AnalyzePosture(s *Session, f *vision.Frame) vision.PostureObservation {
	s.mu.Lock()
	defer s.mu.Unlock()

	face := p.gaze.Analyze(f, &s.cal)
	return p.posture.Analyze(f, face)
}

// Last returns the most recent result for the session.
func (s *Session) Last() Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

// ResetCalibration clears the baseline face size so the next frame
// re-calibrates the distance reference.
func (s *Session) ResetCalibration() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cal.Reset()
}

// Summarize reports the session statistics.
func (s *Session) Summarize() Summary {
	s.mu.Lock()
	defer s.mu.Unlock()

	history := s.agg.History()
	sum := 0.0
	for _, r := range history {
		sum += r.Score
	}
	avg := 0.0
	if len(history) > 0 {
		avg = sum / float64(len(history))
	}
	return Summary{
		SessionID:       s.ID,
		DurationMinutes: round1(time.Since(s.start).Minutes()),
		AverageFocus:    round1(avg),
		PeakFocus:       round1(s.peak),
		Measurements:    len(history),
	}
}

// ErrorResult builds a schema-valid pessimistic result for a failed
// analysis (e.g. an undecodable frame). Nothing is scored positively.
func ErrorResult(now time.Time, msg string) Result {
	return Result{
		Timestamp:  float64(now.UnixMilli()) / 1000,
		FocusScore: 0,
		FocusLevel: LevelCritical,
		GazeAnalysis: vision.FaceObservation{
			Position: vision.PositionNone,
			Gaze:     vision.GazeUnknown,
		},
		Recommendations:     []string{"Error analyzing frame - check camera"},
		Alerts:              []string{"Analysis failed"},
		AnalysisQuality:     "limited",
		SessionAverageFocus: 0,
		Error:               msg,
	}
}

// Manager hands out one session per session id. Sessions are never shared
// across ids, which keeps calibration and history per-session by
// construction.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

// NewManager creates an empty session registry.
func NewManager() *Manager {
	return &Manager{sessions: make(map[string]*Session)}
}

// Get returns the session for id, creating it on first use. An empty id
// creates a fresh session with a generated UUID.
func (m *Manager) Get(id string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	if id != "" {
		if s, ok := m.sessions[id]; ok {
			return s
		}
	}
	s := NewSession(id)
	m.sessions[s.ID] = s
	return s
}

// Remove drops the session and returns its final summary.
func (m *Manager) Remove(id string) (Summary, bool) {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()

	if !ok {
		return Summary{}, false
	}
	return s.Summarize(), true
}

// Len returns the number of active sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
