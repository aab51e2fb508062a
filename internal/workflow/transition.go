package workflow

import (
	"errors"

	"go.uber.org/zap"

	pkgerrors "github.com/onoyima/project-exeat-sub001/pkg/errors"
)

// TransitionContext carries the request fields the transition table branches on.
type TransitionContext struct {
	IsMedical bool
}

type edge struct {
	from   Status
	action Action
}

// Machine evaluates transitions against one GateTable.
// It is safe for concurrent use; all state is read-only after construction.
type Machine struct {
	gates  *GateTable
	next   map[edge]Status
	logger *zap.Logger
}

// NewMachine builds a Machine over gates. Holes in the transition table are
// reported to logger; nil discards them.
func NewMachine(gates *GateTable, logger *zap.Logger) *Machine {
	if logger == nil {
		logger = zap.NewNop()
	}
	final := gates.cfg.FinalGate
	return &Machine{
		gates:  gates,
		logger: logger,
		next: map[edge]Status{
			{StatusCMDReview, ActionApprove}:        StatusDeputyDeanReview,
			{StatusDeputyDeanReview, ActionApprove}: StatusParentConsent,
			{StatusSecretaryReview, ActionApprove}:  StatusParentConsent,
			{StatusParentConsent, ActionConsent}:    StatusDeanReview,
			{StatusDeanReview, ActionApprove}:       final.SignOutStatus(),
			{StatusHostelSignOut, ActionSignOut}:    StatusApproved,
			{StatusSecuritySignOut, ActionSignOut}:  StatusApproved,
			{StatusApproved, ActionSignIn}:          StatusCompleted,
			{StatusHostelSignIn, ActionSignIn}:      StatusCompleted,
			{StatusSecuritySignIn, ActionSignIn}:    StatusCompleted,
		},
	}
}

// Gates returns the machine's gate table.
func (m *Machine) Gates() *GateTable { return m.gates }

// Normalize maps approve-equivalent actions onto the action a status expects.
// Recording parent consent is the only such case.
func Normalize(s Status, a Action) Action {
	if s == StatusParentConsent && a == ActionApprove {
		return ActionConsent
	}
	return a
}

// Transition computes the status that follows action a taken by role on a
// request in status s. The result is advisory; the exeat API decides.
func (m *Machine) Transition(s Status, a Action, role Role, ctx TransitionContext) (Status, error) {
	gate, ok := m.gates.Lookup(s)
	if !ok {
		return "", pkgerrors.Newf(pkgerrors.KindUnknownStatus, "unknown exeat status %q", s)
	}
	a = Normalize(s, a)
	if IsTerminal(s) {
		return "", pkgerrors.Newf(pkgerrors.KindInvalidAction, "a %s request accepts no further actions", s.Label())
	}
	if !gate.AllowsRole(role) {
		return "", pkgerrors.Newf(pkgerrors.KindPermissionDenied, "role %s cannot act on a request in %s", role, s.Label())
	}
	if !gate.AllowsAction(a) {
		return "", pkgerrors.Newf(pkgerrors.KindInvalidAction, "%s is not available while a request is in %s", a, s.Label())
	}
	return m.resolve(s, a, ctx)
}

func (m *Machine) resolve(s Status, a Action, ctx TransitionContext) (Status, error) {
	switch {
	case a == ActionReject:
		return StatusRejected, nil
	case a == ActionComment:
		return s, nil
	case s == StatusPending && a == ActionApprove:
		if ctx.IsMedical {
			return StatusCMDReview, nil
		}
		return StatusDeputyDeanReview, nil
	}
	if next, ok := m.next[edge{s, a}]; ok {
		return next, nil
	}
	return "", pkgerrors.Newf(pkgerrors.KindUnreachableTransition, "no transition for %s from %s", a, s)
}

// Decision is the outcome of checking an actor holding several roles.
type Decision struct {
	Action Action
	Role   Role
	Next   Status
}

// Authorize checks whether any role in roles may take action a on s.
// The first role (in stable order) that passes the gate acts.
func (m *Machine) Authorize(s Status, a Action, roles RoleSet, ctx TransitionContext) (Decision, error) {
	gate, ok := m.gates.Lookup(s)
	if !ok {
		return Decision{}, pkgerrors.Newf(pkgerrors.KindUnknownStatus, "unknown exeat status %q", s)
	}
	actor := Role("")
	for _, r := range roles.List() {
		if gate.AllowsRole(r) {
			actor = r
			break
		}
	}
	if actor == "" && !IsTerminal(s) {
		return Decision{}, pkgerrors.Newf(pkgerrors.KindPermissionDenied, "none of your roles can act on a request in %s", s.Label())
	}
	next, err := m.Transition(s, a, actor, ctx)
	if err != nil {
		return Decision{}, err
	}
	return Decision{Action: Normalize(s, a), Role: actor, Next: next}, nil
}

// AvailableActions lists the actions roles may take on s, in canonical order.
func (m *Machine) AvailableActions(s Status, roles RoleSet, ctx TransitionContext) []Action {
	gate, ok := m.gates.Lookup(s)
	if !ok {
		return nil
	}
	var out []Action
	for _, a := range gate.ActionList() {
		_, err := m.Authorize(s, a, roles, ctx)
		if err == nil {
			out = append(out, a)
			continue
		}
		if errors.Is(err, pkgerrors.ErrUnreachableTransition) {
			m.logger.Error("workflow table has no transition",
				zap.String("status", string(s)),
				zap.String("action", string(a)),
				zap.Error(err),
			)
		}
	}
	return out
}
