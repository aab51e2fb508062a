package service

import (
	"context"
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
	"go.uber.org/zap"

	"github.com/onoyima/project-exeat-sub001/internal/countdown"
	"github.com/onoyima/project-exeat-sub001/internal/model"
	"github.com/onoyima/project-exeat-sub001/internal/presenter"
	"github.com/onoyima/project-exeat-sub001/internal/session"
	"github.com/onoyima/project-exeat-sub001/internal/workflow"
	pkgerrors "github.com/onoyima/project-exeat-sub001/pkg/errors"
)

// ── iCalendar export ─────────────────────────────────────────
//
// One VCALENDAR per exeat with two events:
//   - the trip itself, from the start of the departure date to the deadline
//   - the return deadline (23:59:59 on the return date) with reminders
//     a day and three hours before
// ─────────────────────────────────────────────────────────────

const calendarProductID = "-//Exeat Portal//Exeat Calendar//EN"

var ErrCalendarDates = pkgerrors.New(pkgerrors.KindValidation, "the exeat dates could not be read")

// CalendarService renders an exeat's dates as an iCalendar file.
type CalendarService interface {
	ExeatCalendar(ctx context.Context, viewer *session.Snapshot, id int64) ([]byte, string, error)
}

type calendarService struct {
	api     ExeatAPI
	loc     *time.Location
	baseURL string
	logger  *zap.Logger
	now     func() time.Time
}

// NewCalendarService creates a CalendarService. baseURL is used for the
// event links and may be empty.
func NewCalendarService(api ExeatAPI, loc *time.Location, baseURL string, logger *zap.Logger) CalendarService {
	if loc == nil {
		loc = time.UTC
	}
	return &calendarService{api: api, loc: loc, baseURL: baseURL, logger: logger, now: time.Now}
}

func (s *calendarService) ExeatCalendar(ctx context.Context, viewer *session.Snapshot, id int64) ([]byte, string, error) {
	r, err := loadRequest(ctx, s.api, viewer, id)
	if err != nil {
		return nil, "", err
	}

	cal, err := s.build(r)
	if err != nil {
		return nil, "", err
	}
	filename := fmt.Sprintf("exeat_%d.ics", r.ID)
	return []byte(cal.Serialize()), filename, nil
}

func (s *calendarService) build(r *model.ExeatRequest) (*ics.Calendar, error) {
	dep, ok := countdown.ParseDate(r.DepartureDate, s.loc)
	if !ok {
		return nil, ErrCalendarDates
	}
	back, ok := countdown.ParseDate(r.ReturnDate, s.loc)
	if !ok || back.Before(dep) {
		return nil, ErrCalendarDates
	}
	deadline := countdown.EndOfDay(back)
	stamp := s.now().UTC()

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(calendarProductID)
	cal.SetXWRCalName("Exeat")
	cal.SetTimezoneId(s.loc.String())

	category := presenter.Category(r.CategoryID, r.Medical()).Name
	status := presenter.StatusBadge(statusOf(r)).Label
	desc := fmt.Sprintf("%s exeat for %s\nReason: %s\nStatus: %s", category, r.StudentName(), r.Reason, status)

	trip := cal.AddEvent(fmt.Sprintf("exeat-%d-trip@exeat-portal", r.ID))
	trip.SetDtStampTime(stamp)
	if !r.CreatedAt.IsZero() {
		trip.SetCreatedTime(r.CreatedAt)
	}
	if !r.UpdatedAt.IsZero() {
		trip.SetModifiedAt(r.UpdatedAt)
	}
	trip.SetStartAt(dep)
	trip.SetEndAt(deadline)
	trip.SetSummary(fmt.Sprintf("Exeat: %s", r.Destination))
	trip.SetLocation(r.Destination)
	trip.SetDescription(desc)
	if s.baseURL != "" {
		trip.SetURL(fmt.Sprintf("%s/exeats/%d", s.baseURL, r.ID))
	}

	due := cal.AddEvent(fmt.Sprintf("exeat-%d-return@exeat-portal", r.ID))
	due.SetDtStampTime(stamp)
	due.SetStartAt(deadline.Add(-time.Hour))
	due.SetEndAt(deadline)
	due.SetSummary("Exeat return deadline")
	due.SetDescription(fmt.Sprintf("Sign back in by %s.", deadline.Format("Mon 2 Jan 2006 15:04")))

	for _, trigger := range []string{"-P1D", "-PT3H"} {
		alarm := due.AddAlarm()
		alarm.SetAction(ics.ActionDisplay)
		alarm.SetTrigger(trigger)
	}

	s.logger.Debug("exeat calendar built",
		zap.Int64("exeat_id", r.ID),
		zap.Time("deadline", deadline),
	)
	return cal, nil
}

func statusOf(r *model.ExeatRequest) workflow.Status {
	if st, ok := r.WorkflowStatus(); ok {
		return st
	}
	return workflow.Status(r.Status)
}
