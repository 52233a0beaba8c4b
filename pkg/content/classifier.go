package content

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/workspaceai/focusguard/internal/log"
	"github.com/workspaceai/focusguard/pkg/model"
)

// Source distinguishes the two classification call sites. The scoring
// formulas differ between them and are preserved as observed, not merged.
type Source int

const (
	SourceScreen Source = iota
	SourceWindow
)

// Tier qualification thresholds.
const (
	eduWinScore  = 2
	highWinScore = 3

	modelDistractionScore = 70
	neutralScore          = 10

	// Extracted OCR text echoed back in screen results is capped in
	// characters, not bytes.
	maxExtractedRunes = 500
)

// ruleInput is what each rule evaluates.
type ruleInput struct {
	signals Signals
	website string
	title   string
	source  Source
}

// rule is one evaluator in the priority cascade. It returns a complete
// verdict or reports no match.
type rule interface {
	name() string
	evaluate(ctx context.Context, in ruleInput) (Verdict, bool)
}

// Classifier runs an ordered rule cascade over extracted signals. The
// first satisfied rule wins and short-circuits the rest.
type Classifier struct {
	tables *Tables
	rules  []rule
	now    func() time.Time
}

// NewClassifier builds the cascade: educational, high distraction, medium
// distraction, optional external model, neutral default. A nil model
// simply skips the model rule.
func NewClassifier(tables *Tables, m model.Classifier) *Classifier {
	rules := []rule{
		educationalRule{},
		highDistractionRule{},
		mediumDistractionRule{},
	}
	if m != nil {
		rules = append(rules, modelRule{classifier: m})
	}
	rules = append(rules, neutralRule{})
	return &Classifier{tables: tables, rules: rules, now: time.Now}
}

// classify runs the cascade and returns the first match. The neutral rule
// always matches, so the cascade is total.
func (c *Classifier) classify(ctx context.Context, text string, source Source) Verdict {
	in := ruleInput{
		signals: c.tables.ExtractSignals(text),
		website: ExtractWebsite(text),
		title:   ExtractTabTitle(text),
		source:  source,
	}
	for _, r := range c.rules {
		if v, ok := r.evaluate(ctx, in); ok {
			log.Debug("content classified", "rule", r.name(), "tier", v.Tier, "score", v.DistractionScore)
			return v
		}
	}
	// Unreachable: neutralRule matches everything.
	return Verdict{Tier: TierNeutral, DistractionScore: neutralScore, Severity: SeverityNone, SuggestedAction: ActionNone}
}

// ClassifyScreen classifies OCR text from a screen capture. The
// website-identity fast path applies here only: a known-distracting domain
// forces the distraction flag unless the educational tier already won.
func (c *Classifier) ClassifyScreen(ctx context.Context, text string) ScreenResult {
	v := c.classify(ctx, text, SourceScreen)

	website := ExtractWebsite(text)
	if v.Tier != TierEducational && c.tables.IsDistractingDomain(website) {
		v.IsDistraction = true
		if v.DistractionScore < 60 {
			v.DistractionScore = 60
		}
		v.DetectionMethod += "+website_identity"
		v.Indicators = append(v.Indicators, "domain:"+normalizeDomain(website))
	}

	contentType := website
	if contentType == "unknown" {
		contentType = string(v.Tier)
	}

	extracted := text
	if runes := []rune(extracted); len(runes) > maxExtractedRunes {
		extracted = string(runes[:maxExtractedRunes])
	}

	productivity := 100 - v.DistractionScore
	if productivity < 0 {
		productivity = 0
	}

	return ScreenResult{
		IsDistraction:     v.IsDistraction,
		DistractionScore:  v.DistractionScore,
		ProductivityScore: productivity,
		ContentType:       contentType,
		DetectionMethod:   v.DetectionMethod,
		DetectedKeywords:  v.Indicators,
		Recommendations:   v.Recommendations,
		ExtractedText:     extracted,
		AnalysisTimestamp: c.now().UTC().Format(time.RFC3339),
	}
}

// ClassifyWindow classifies window metadata (title, URL, process name) and
// escalates the verdict by elapsed active time.
func (c *Classifier) ClassifyWindow(ctx context.Context, win WindowObservation) WindowResult {
	text := strings.Join([]string{win.Title, win.URL, win.ProcessName}, " ")
	v := c.classify(ctx, text, SourceWindow)
	esc := Escalate(v, win.ActiveTimeSeconds)

	return WindowResult{
		IsDistraction:      v.IsDistraction,
		DistractionScore:   v.DistractionScore,
		Severity:           esc.Severity,
		SuggestedAction:    actionOrNil(esc.Action),
		ShouldAlert:        esc.ShouldAlert,
		ShouldBlock:        esc.ShouldBlock,
		ShouldWarn:         esc.ShouldWarn,
		ShouldClose:        esc.ShouldClose,
		DetectedIndicators: v.Indicators,
		ActiveTimeSeconds:  win.ActiveTimeSeconds,
		AnalysisTimestamp:  c.now().UTC().Format(time.RFC3339),
	}
}

// QuickWindowCheck is the generic window-analysis path: a bare title
// check with the independent 180s block gate. It coexists with
// ClassifyWindow deliberately; the two policies serve different call
// sites and are not merged.
func (c *Classifier) QuickWindowCheck(win WindowObservation) WindowResult {
	title := strings.ToLower(win.Title)
	distracted := false
	var indicators []string
	for _, kw := range []string{"youtube", "netflix", "instagram"} {
		if strings.Contains(title, kw) {
			distracted = true
			indicators = append(indicators, kw)
		}
	}

	score := 5
	var action *Action
	if distracted {
		score = 75
		a := ActionCloseTab
		action = &a
	}

	return WindowResult{
		IsDistraction:      distracted,
		DistractionScore:   score,
		Severity:           SeverityNone,
		SuggestedAction:    action,
		ShouldAlert:        ShouldAlert(distracted, win.ActiveTimeSeconds),
		ShouldBlock:        WindowBlockGate(distracted, win.ActiveTimeSeconds),
		DetectedIndicators: indicators,
		ActiveTimeSeconds:  win.ActiveTimeSeconds,
		AnalysisTimestamp:  c.now().UTC().Format(time.RFC3339),
	}
}

func actionOrNil(a Action) *Action {
	if a == ActionNone {
		return nil
	}
	return &a
}

// educationalRule wins when the weighted educational score reaches 2.
// Educational content always outranks the distraction tiers.
type educationalRule struct{}

func (educationalRule) name() string { return "educational" }

func (educationalRule) evaluate(_ context.Context, in ruleInput) (Verdict, bool) {
	sig := in.signals.Educational
	if sig.RawScore < eduWinScore {
		return Verdict{}, false
	}
	return Verdict{
		IsDistraction:    false,
		Tier:             TierEducational,
		DistractionScore: 0,
		Severity:         SeverityNone,
		SuggestedAction:  ActionNone,
		Indicators:       append(sig.Keywords, sig.Patterns...),
		DetectionMethod:  "keyword_analysis",
		Recommendations:  []string{"Educational content detected - keep learning!"},
	}, true
}

// highDistractionRule wins when the weighted entertainment score reaches 3.
type highDistractionRule struct{}

func (highDistractionRule) name() string { return "high_distraction" }

func (highDistractionRule) evaluate(_ context.Context, in ruleInput) (Verdict, bool) {
	sig := in.signals.High
	if sig.RawScore < highWinScore {
		return Verdict{}, false
	}

	var score int
	if in.source == SourceScreen {
		score = min(95, sig.RawScore*10)
	} else {
		score = min(95, 80+sig.RawScore)
	}

	named := sig.Keywords
	if len(named) > 3 {
		named = named[:3]
	}

	return Verdict{
		IsDistraction:    true,
		Tier:             TierHigh,
		DistractionScore: score,
		Severity:         SeverityCritical,
		SuggestedAction:  ActionForceClose,
		Indicators:       append(sig.Keywords, sig.Patterns...),
		DetectionMethod:  "keyword_analysis",
		Recommendations:  []string{fmt.Sprintf("Blocking highly distracting content: %s", strings.Join(named, ", "))},
	}, true
}

// mediumDistractionRule wins on any match against the medium table.
// Severity and action are delegated to the escalation policy.
type mediumDistractionRule struct{}

func (mediumDistractionRule) name() string { return "medium_distraction" }

func (mediumDistractionRule) evaluate(_ context.Context, in ruleInput) (Verdict, bool) {
	sig := in.signals.Medium
	if sig.RawScore < 1 {
		return Verdict{}, false
	}

	var score int
	if in.source == SourceScreen {
		score = 60
	} else {
		score = min(75, sig.RawScore*15)
	}

	return Verdict{
		IsDistraction:    true,
		Tier:             TierMedium,
		DistractionScore: score,
		Severity:         SeverityMedium,
		SuggestedAction:  ActionMonitor,
		Indicators:       sig.Keywords,
		DetectionMethod:  "keyword_analysis",
		Recommendations:  []string{"Consider closing social and shopping tabs while working"},
	}, true
}

// modelRule consults the external classifier. Any error is treated as "no
// model available" and the cascade falls through to the neutral default.
type modelRule struct {
	classifier model.Classifier
}

func (modelRule) name() string { return "ml_classification" }

func (r modelRule) evaluate(ctx context.Context, in ruleInput) (Verdict, bool) {
	label, err := r.classifier.Classify(ctx, model.Features{Website: in.website, Title: in.title})
	if err != nil {
		log.Debug("external classifier unavailable", "err", err)
		return Verdict{}, false
	}

	if label == model.LabelDistraction {
		return Verdict{
			IsDistraction:    true,
			Tier:             TierNeutral,
			DistractionScore: modelDistractionScore,
			Severity:         SeverityMedium,
			SuggestedAction:  ActionCloseTab,
			DetectionMethod:  "ml_classification",
			Recommendations:  []string{"Close distracting tab"},
		}, true
	}
	return Verdict{
		IsDistraction:    false,
		Tier:             TierNeutral,
		DistractionScore: neutralScore,
		Severity:         SeverityNone,
		SuggestedAction:  ActionNone,
		DetectionMethod:  "ml_classification",
	}, true
}

// neutralRule is the terminal default: nothing matched, assume productive.
type neutralRule struct{}

func (neutralRule) name() string { return "default" }

func (neutralRule) evaluate(_ context.Context, _ ruleInput) (Verdict, bool) {
	return Verdict{
		IsDistraction:    false,
		Tier:             TierNeutral,
		DistractionScore: neutralScore,
		Severity:         SeverityNone,
		SuggestedAction:  ActionNone,
		DetectionMethod:  "default",
	}, true
}
