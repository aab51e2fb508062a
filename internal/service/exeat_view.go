package service

import (
	"time"

	"github.com/onoyima/project-exeat-sub001/internal/countdown"
	"github.com/onoyima/project-exeat-sub001/internal/dto"
	"github.com/onoyima/project-exeat-sub001/internal/model"
	"github.com/onoyima/project-exeat-sub001/internal/presenter"
	"github.com/onoyima/project-exeat-sub001/internal/session"
	"github.com/onoyima/project-exeat-sub001/internal/workflow"
)

// viewBuilder decorates exeat requests with workflow state for one viewer.
type viewBuilder struct {
	machine *workflow.Machine
	loc     *time.Location
	now     func() time.Time
}

func newViewBuilder(machine *workflow.Machine, loc *time.Location) *viewBuilder {
	if loc == nil {
		loc = time.UTC
	}
	return &viewBuilder{machine: machine, loc: loc, now: time.Now}
}

func (b *viewBuilder) clock() time.Time {
	return b.now().In(b.loc)
}

// showsCountdown reports whether a status is in the off-campus part of the
// pipeline, from sign-out up to sign-in.
func showsCountdown(s workflow.Status) bool {
	info, ok := workflow.Lookup(s)
	if !ok || info.Terminal {
		return false
	}
	signOut, _ := workflow.Lookup(workflow.StatusHostelSignOut)
	return info.Position >= signOut.Position
}

func (b *viewBuilder) countdown(r *model.ExeatRequest) *dto.CountdownView {
	now := b.clock()
	rem := countdown.Calculate(now, r.DepartureDate, r.ReturnDate)
	if !rem.Valid {
		return nil
	}
	return &dto.CountdownView{
		Remaining: rem,
		Progress:  countdown.Progress(now, r.DepartureDate, r.ReturnDate),
		Precise:   rem.Precise(),
	}
}

// actingRole picks the viewer role that staffs the gate of s, falling back to
// the viewer's primary role.
func (b *viewBuilder) actingRole(s workflow.Status, viewer *session.Snapshot) workflow.Role {
	if gate, ok := b.machine.Gates().Lookup(s); ok {
		for _, r := range viewer.Roles.List() {
			if gate.AllowsRole(r) {
				return r
			}
		}
	}
	return viewer.PrimaryRole()
}

func (b *viewBuilder) build(r *model.ExeatRequest, viewer *session.Snapshot) *dto.ExeatView {
	status, known := r.WorkflowStatus()
	if !known {
		status = workflow.Status(r.Status)
	}
	badge := presenter.StatusBadge(status)
	days := countdown.DurationDays(r.DepartureDate, r.ReturnDate)
	role := b.actingRole(status, viewer)

	v := &dto.ExeatView{
		Request: r,
		Status: dto.StatusView{
			Code:     string(status),
			Label:    badge.Label,
			Severity: badge.Severity,
			Known:    known,
		},
		Category:          presenter.Category(r.CategoryID, r.Medical()),
		DurationDays:      days,
		DurationLabel:     presenter.DurationLabel(days),
		ActionTitle:       presenter.ActionTitle(status, role),
		ActionDescription: presenter.ActionDescription(status, role),
		Actions:           []dto.ActionView{},
	}
	if !known {
		return v
	}

	info, _ := workflow.Lookup(status)
	v.Status.Terminal = info.Terminal
	v.Status.Position = info.Position
	v.Status.Progress = workflow.PipelineProgress(status)

	for _, a := range b.machine.AvailableActions(status, viewer.Roles, r.TransitionContext()) {
		av := dto.ActionView{
			Action:  a,
			Label:   presenter.ActionLabel(a),
			Comment: presenter.CommentFieldFor(status, a),
		}
		switch a {
		case workflow.ActionReject:
			av.Confirmation = presenter.RejectConfirmation(r)
		case workflow.ActionComment:
		default:
			av.Confirmation = presenter.ApproveConfirmation(r)
		}
		v.Actions = append(v.Actions, av)
	}

	if showsCountdown(status) {
		v.Countdown = b.countdown(r)
	}
	return v
}
