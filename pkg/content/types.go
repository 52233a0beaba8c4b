// Package content classifies screen text and window metadata into
// distraction verdicts. A priority-ordered rule cascade reconciles
// conflicting signals (educational vs entertainment vs social) into one
// tier, and the escalation policy maps elapsed exposure to an action.
package content

// Tier is the mutually exclusive content category. Exactly one tier wins
// per classification.
type Tier string

const (
	TierEducational Tier = "educational"
	TierHigh        Tier = "high_distraction"
	TierMedium      Tier = "medium_distraction"
	TierNeutral     Tier = "neutral"
)

// Severity grades a verdict.
type Severity string

const (
	SeverityNone     Severity = "none"
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Action is the corrective action suggested for a verdict.
type Action string

const (
	ActionNone       Action = "none"
	ActionMonitor    Action = "monitor"
	ActionWarning    Action = "warning"
	ActionCloseTab   Action = "close-tab"
	ActionForceClose Action = "force-close"
)

// WindowObservation is the window-tracking collaborator's input.
type WindowObservation struct {
	Title             string `json:"title"`
	URL               string `json:"url"`
	ProcessName       string `json:"process_name"`
	ActiveTimeSeconds int    `json:"active_time"`
}

// Verdict is the immutable classification result before escalation.
type Verdict struct {
	IsDistraction    bool
	Tier             Tier
	DistractionScore int
	Severity         Severity
	SuggestedAction  Action
	Indicators       []string
	DetectionMethod  string
	Recommendations  []string
}

// ScreenResult is the screen-analysis response shape. The fields are a
// compatibility contract with the monitoring frontend.
type ScreenResult struct {
	IsDistraction     bool     `json:"is_distraction"`
	DistractionScore  int      `json:"distraction_score"`
	ProductivityScore int      `json:"productivity_score"`
	ContentType       string   `json:"content_type"`
	DetectionMethod   string   `json:"detection_method"`
	DetectedKeywords  []string `json:"detected_keywords"`
	Recommendations   []string `json:"recommendations"`
	ExtractedText     string   `json:"extracted_text"`
	AnalysisTimestamp string   `json:"analysis_timestamp"`
	Error             string   `json:"error,omitempty"`
}

// WindowResult is the window/tab-analysis response shape.
type WindowResult struct {
	IsDistraction      bool     `json:"is_distraction"`
	DistractionScore   int      `json:"distraction_score"`
	Severity           Severity `json:"severity"`
	SuggestedAction    *Action  `json:"suggested_action"` // null when no action
	ShouldAlert        bool     `json:"should_alert"`
	ShouldBlock        bool     `json:"should_block"`
	ShouldWarn         bool     `json:"should_warn"`
	ShouldClose        bool     `json:"should_close"`
	DetectedIndicators []string `json:"detected_indicators"`
	ActiveTimeSeconds  int      `json:"active_time_seconds"`
	AnalysisTimestamp  string   `json:"analysis_timestamp"`
}
