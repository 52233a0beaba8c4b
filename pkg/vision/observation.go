package vision

import "image"

// FacePosition describes how the face presents to the camera.
type FacePosition string

const (
	PositionFrontal FacePosition = "frontal"
	PositionProfile FacePosition = "profile"
	PositionNone    FacePosition = "none"
)

// GazeDirection is the coarse gaze estimate derived from face position.
type GazeDirection string

const (
	GazeCenter  GazeDirection = "center"
	GazeLeft    GazeDirection = "left"
	GazeRight   GazeDirection = "right"
	GazeUp      GazeDirection = "up"
	GazeDown    GazeDirection = "down"
	GazeSide    GazeDirection = "side"
	GazeUnknown GazeDirection = "unknown"
	GazeError   GazeDirection = "error"
)

// Rect is a JSON-friendly bounding box (x, y, width, height in pixels).
type Rect struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

func rectFrom(r image.Rectangle) Rect {
	return Rect{X: r.Min.X, Y: r.Min.Y, W: r.Dx(), H: r.Dy()}
}

// Area returns the box area in square pixels.
func (r Rect) Area() float64 { return float64(r.W) * float64(r.H) }

// EyeMetrics summarizes eye detections inside the face region. Populated
// only when at least two eye boxes are found.
type EyeMetrics struct {
	EyesDetected    int     `json:"eyes_detected"`
	Openness        float64 `json:"eye_openness"`
	Symmetry        float64 `json:"eye_symmetry"`
	BlinkDetected   bool    `json:"blink_detected"`
	GazeStability   float64 `json:"gaze_stability"`
	RelativeEyeSize float64 `json:"relative_eye_size"`
}

// Positioning records which screen-focus criteria were satisfied.
type Positioning struct {
	CenteredX       bool `json:"centered_x"`
	CenteredY       bool `json:"centered_y"`
	GoodDistance    bool `json:"good_distance"`
	BothEyesVisible bool `json:"both_eyes_visible"`
}

// FaceObservation is the result of one gaze analysis. Produced fresh per
// frame; nothing persists beyond the call except the session baseline face
// size held in the Calibration.
type FaceObservation struct {
	Detected        bool          `json:"face_detected"`
	Position        FacePosition  `json:"face_position"`
	LookingAtScreen bool          `json:"looking_at_screen"`
	Gaze            GazeDirection `json:"eye_gaze"`
	Confidence      float64       `json:"face_confidence"`
	Bounds          Rect          `json:"face_rect"`
	CenterX         int           `json:"-"`
	CenterY         int           `json:"-"`
	FaceArea        float64       `json:"face_size,omitempty"`
	EyesDetected    int           `json:"eyes_detected"`
	Eyes            *EyeMetrics   `json:"eye_analysis,omitempty"`
	Positioning     *Positioning  `json:"positioning,omitempty"`
}

// Center returns the face center in frame coordinates.
func (o FaceObservation) Center() (x, y int) { return o.CenterX, o.CenterY }

// PostureLevel buckets the posture score.
type PostureLevel string

const (
	PostureExcellent PostureLevel = "excellent"
	PostureGood      PostureLevel = "good"
	PostureFair      PostureLevel = "fair"
	PosturePoor      PostureLevel = "poor"
	PostureUnknown   PostureLevel = "unknown"
)

// PostureObservation is the result of one posture analysis.
type PostureObservation struct {
	Score           float64         `json:"posture_score"`
	Level           PostureLevel    `json:"posture_level"`
	Indicators      map[string]bool `json:"indicators"`
	Recommendations []string        `json:"recommendations"`
}

// RiskLevel grades the phone-usage confidence.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// PhoneUsageObservation is the result of the phone-usage heuristics.
type PhoneUsageObservation struct {
	Detected       bool      `json:"phone_detected"`
	Confidence     float64   `json:"phone_confidence"`
	Risk           RiskLevel `json:"risk_level"`
	Indicators     []string  `json:"indicators"`
	Warning        string    `json:"warning_message"`
	Recommendation string    `json:"recommendation"`
}
