// Package focus fuses the per-frame estimator outputs into a bounded focus
// score, maintains the session history and derives recommendations.
package focus

import (
	"math"
	"time"

	"github.com/workspaceai/focusguard/pkg/vision"
)

// Component weights. Gaze dominates, posture supports, phone usage is a
// pure penalty.
const (
	gazeWeight    = 45.0
	postureWeight = 35.0
	phoneWeight   = 20.0

	// Flat score when a face is present but not looking at the screen.
	gazeNotLookingScore = 10.0

	// HistoryWindow is how long focus records are retained relative to
	// the newest record.
	HistoryWindow = 300 * time.Second

	maxRecommendations = 3
)

// Level buckets the overall focus score.
type Level string

const (
	LevelExcellent Level = "excellent"
	LevelGood      Level = "good"
	LevelFair      Level = "fair"
	LevelPoor      Level = "poor"
	LevelCritical  Level = "critical"
)

// ComponentScores is the per-component breakdown of a focus score.
type ComponentScores struct {
	Gaze         float64 `json:"gaze_score"`
	Posture      float64 `json:"posture_score"`
	PhonePenalty float64 `json:"phone_penalty"`
}

// Record is one history entry of the session's focus timeline.
type Record struct {
	Timestamp  time.Time
	Score      float64
	Components ComponentScores
}

// Assessment is the outcome of fusing one frame's estimator outputs.
type Assessment struct {
	Score           float64
	Level           Level
	Components      ComponentScores
	Recommendations []string
	SessionAverage  float64
}

// Aggregator fuses estimator outputs and keeps the rolling session
// history. One aggregator per monitoring session; appends must be
// serialized by the owning session.
type Aggregator struct {
	history []Record
}

// Assess computes the focus score for one frame, appends it to the session
// history and prunes entries older than the history window.
func (a *Aggregator) Assess(now time.Time, face vision.FaceObservation, posture vision.PostureObservation, phone vision.PhoneUsageObservation) Assessment {
	gaze := 0.0
	if face.Detected {
		if face.LookingAtScreen {
			gaze = gazeWeight * face.Confidence
		} else {
			gaze = gazeNotLookingScore
		}
	}

	postureScore := posture.Score / 100 * postureWeight
	penalty := phone.Confidence * phoneWeight

	total := gaze + postureScore - penalty
	total = math.Max(0, math.Min(100, total))

	components := ComponentScores{
		Gaze:         round1(gaze),
		Posture:      round1(postureScore),
		PhonePenalty: round1(penalty),
	}

	a.history = append(a.history, Record{
		Timestamp:  now,
		Score:      total,
		Components: components,
	})
	a.prune(now)

	return Assessment{
		Score:           round1(total),
		Level:           levelFor(total),
		Components:      components,
		Recommendations: recommendations(gaze, postureScore, penalty, posture, phone),
		SessionAverage:  round1(a.average(total)),
	}
}

// prune drops records strictly older than the window relative to now.
// A record exactly at the boundary is excluded.
func (a *Aggregator) prune(now time.Time) {
	cutoff := now.Add(-HistoryWindow)
	kept := a.history[:0]
	for _, r := range a.history {
		if r.Timestamp.After(cutoff) {
			kept = append(kept, r)
		}
	}
	a.history = kept
}

// average returns the mean of the retained scores, or the current score if
// the history is empty.
func (a *Aggregator) average(current float64) float64 {
	if len(a.history) == 0 {
		return current
	}
	sum := 0.0
	for _, r := range a.history {
		sum += r.Score
	}
	return sum / float64(len(a.history))
}

// History returns a copy of the retained records.
func (a *Aggregator) History() []Record {
	out := make([]Record, len(a.history))
	copy(out, a.history)
	return out
}

func levelFor(score float64) Level {
	switch {
	case score >= 85:
		return LevelExcellent
	case score >= 70:
		return LevelGood
	case score >= 50:
		return LevelFair
	case score >= 30:
		return LevelPoor
	default:
		return LevelCritical
	}
}

// recommendations assembles at most three suggestions in priority order:
// gaze first, then posture, then phone.
func recommendations(gaze, postureScore, penalty float64, posture vision.PostureObservation, phone vision.PhoneUsageObservation) []string {
	var recs []string
	if gaze < 25 {
		recs = append(recs, "Look directly at your screen")
	}
	if postureScore < 20 {
		recs = append(recs, posture.Recommendations...)
	}
	if penalty > 10 {
		rec := phone.Recommendation
		if rec == "" {
			rec = "Avoid phone usage"
		}
		recs = append(recs, rec)
	}
	if len(recs) == 0 {
		recs = append(recs, "Excellent focus! Keep it up!")
	}
	if len(recs) > maxRecommendations {
		recs = recs[:maxRecommendations]
	}
	return recs
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
