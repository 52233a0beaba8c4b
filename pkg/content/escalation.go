package content

// Exposure thresholds in seconds. The medium tier escalates on a tighter
// schedule than the generic one; both sets exist at different call sites
// and are intentionally not unified.
const (
	genericCloseAfter = 300
	genericWarnAfter  = 60

	mediumCloseAfter = 120
	mediumWarnAfter  = 30

	alertAfter        = 10
	genericBlockAfter = 180
)

// Escalation is the final time-based decision for a verdict.
type Escalation struct {
	Severity    Severity
	Action      Action
	ShouldAlert bool
	ShouldWarn  bool
	ShouldBlock bool
	ShouldClose bool
}

// Escalate maps a verdict plus elapsed exposure to a concrete action.
// Educational verdicts are terminal with no action; high distraction is
// terminal with an immediate force-close. Everything else escalates with
// exposure time, the medium tier on its tighter thresholds.
func Escalate(v Verdict, activeSeconds int) Escalation {
	esc := Escalation{
		Severity:    SeverityNone,
		Action:      ActionNone,
		ShouldAlert: ShouldAlert(v.IsDistraction, activeSeconds),
	}

	switch {
	case v.Tier == TierEducational:
		return esc

	case v.Tier == TierHigh:
		esc.Severity = SeverityCritical
		esc.Action = ActionForceClose
		esc.ShouldBlock = true
		esc.ShouldClose = true
		return esc

	case !v.IsDistraction:
		return esc
	}

	closeAfter, warnAfter := genericCloseAfter, genericWarnAfter
	if v.Tier == TierMedium {
		closeAfter, warnAfter = mediumCloseAfter, mediumWarnAfter
	}

	switch {
	case activeSeconds > closeAfter:
		esc.Severity = SeverityHigh
		esc.Action = ActionForceClose
		esc.ShouldBlock = true
		esc.ShouldClose = true
	case activeSeconds > warnAfter:
		esc.Severity = SeverityMedium
		esc.Action = ActionCloseTab
		esc.ShouldBlock = true
	default:
		esc.Severity = SeverityLow
		esc.Action = ActionWarning
		esc.ShouldWarn = true
	}
	return esc
}

// ShouldAlert reports whether sustained exposure warrants an alert.
func ShouldAlert(isDistraction bool, activeSeconds int) bool {
	return isDistraction && activeSeconds > alertAfter
}

// WindowBlockGate is the independent block gate used by the generic
// window-analysis path. Distinct from the medium-tier escalation above.
func WindowBlockGate(isDistraction bool, activeSeconds int) bool {
	return isDistraction && activeSeconds > genericBlockAfter
}
