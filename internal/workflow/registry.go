package workflow

// StatusInfo describes one registered status.
type StatusInfo struct {
	Status   Status
	Label    string
	Severity Severity
	Terminal bool
	// Position on the happy path; -1 for statuses off the pipeline.
	// Only used to draw progress, never to decide transitions.
	Position int
}

// finalPosition is the pipeline position of StatusCompleted.
const finalPosition = 8

var registry = []StatusInfo{
	{Status: StatusPending, Label: "Pending", Severity: SeverityNeutral, Position: 0},
	{Status: StatusCMDReview, Label: "CMD Review", Severity: SeverityWarning, Position: 1},
	{Status: StatusDeputyDeanReview, Label: "Deputy Dean Review", Severity: SeverityWarning, Position: 2},
	{Status: StatusSecretaryReview, Label: "Secretary Review", Severity: SeverityWarning, Position: 2},
	{Status: StatusParentConsent, Label: "Awaiting Parent Consent", Severity: SeverityWarning, Position: 3},
	{Status: StatusDeanReview, Label: "Dean Review", Severity: SeverityWarning, Position: 4},
	{Status: StatusHostelSignOut, Label: "Awaiting Hostel Sign-out", Severity: SeverityWarning, Position: 5},
	{Status: StatusSecuritySignOut, Label: "Awaiting Security Sign-out", Severity: SeverityWarning, Position: 5},
	{Status: StatusApproved, Label: "Approved", Severity: SeveritySuccess, Position: 6},
	{Status: StatusHostelSignIn, Label: "Awaiting Hostel Sign-in", Severity: SeverityWarning, Position: 7},
	{Status: StatusSecuritySignIn, Label: "Awaiting Security Sign-in", Severity: SeverityWarning, Position: 7},
	{Status: StatusCompleted, Label: "Completed", Severity: SeveritySuccess, Terminal: true, Position: finalPosition},
	{Status: StatusRejected, Label: "Rejected", Severity: SeverityDanger, Terminal: true, Position: -1},
}

var registryIndex = func() map[Status]StatusInfo {
	idx := make(map[Status]StatusInfo, len(registry))
	for _, info := range registry {
		idx[info.Status] = info
	}
	return idx
}()

// Registry returns every registered status in pipeline order.
func Registry() []StatusInfo {
	out := make([]StatusInfo, len(registry))
	copy(out, registry)
	return out
}

// Lookup returns the registry entry for s.
func Lookup(s Status) (StatusInfo, bool) {
	info, ok := registryIndex[s]
	return info, ok
}

// IsTerminal reports whether s permits no further actions. Unknown statuses
// are not terminal; callers must check Lookup first when that matters.
func IsTerminal(s Status) bool {
	return registryIndex[s].Terminal
}

// Label returns the display label for s, or the raw value if unregistered.
func (s Status) Label() string {
	if info, ok := registryIndex[s]; ok {
		return info.Label
	}
	return string(s)
}

// PipelineProgress returns how far along the happy path s is, in percent.
// Rejected and unknown statuses report 0.
func PipelineProgress(s Status) float64 {
	info, ok := registryIndex[s]
	if !ok || info.Position < 0 {
		return 0
	}
	return float64(info.Position) * 100 / finalPosition
}
