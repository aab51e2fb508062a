package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/onoyima/project-exeat-sub001/internal/countdown"
	"github.com/onoyima/project-exeat-sub001/internal/dto"
	"github.com/onoyima/project-exeat-sub001/internal/model"
	"github.com/onoyima/project-exeat-sub001/internal/session"
	pkgerrors "github.com/onoyima/project-exeat-sub001/pkg/errors"
)

// ErrNoCountdown is returned for requests that are not in the off-campus part
// of the pipeline.
var ErrNoCountdown = pkgerrors.New(pkgerrors.KindInvalidAction, "this exeat has no running countdown")

// CountdownService reports the time left until a student is due back.
type CountdownService interface {
	Get(ctx context.Context, viewer *session.Snapshot, id int64) (*dto.CountdownView, error)
	// Watch streams the countdown until ctx is done. The channel is closed
	// when the stream ends.
	Watch(ctx context.Context, viewer *session.Snapshot, id int64) (<-chan dto.CountdownView, error)
}

type countdownService struct {
	api    ExeatAPI
	ticker *countdown.Ticker
	loc    *time.Location
	logger *zap.Logger
}

// NewCountdownService creates a CountdownService.
func NewCountdownService(api ExeatAPI, ticker *countdown.Ticker, loc *time.Location, logger *zap.Logger) CountdownService {
	if loc == nil {
		loc = time.UTC
	}
	return &countdownService{api: api, ticker: ticker, loc: loc, logger: logger}
}

func (s *countdownService) now() time.Time {
	if s.ticker.Now != nil {
		return s.ticker.Now().In(s.loc)
	}
	return time.Now().In(s.loc)
}

func (s *countdownService) load(ctx context.Context, viewer *session.Snapshot, id int64) (*model.ExeatRequest, error) {
	r, err := loadRequest(ctx, s.api, viewer, id)
	if err != nil {
		return nil, err
	}
	status, ok := r.WorkflowStatus()
	if !ok || !showsCountdown(status) {
		return nil, ErrNoCountdown
	}
	return r, nil
}

func (s *countdownService) view(now time.Time, r *model.ExeatRequest, rem countdown.Remaining) dto.CountdownView {
	return dto.CountdownView{
		Remaining: rem,
		Progress:  countdown.Progress(now, r.DepartureDate, r.ReturnDate),
		Precise:   rem.Precise(),
	}
}

func (s *countdownService) Get(ctx context.Context, viewer *session.Snapshot, id int64) (*dto.CountdownView, error) {
	r, err := s.load(ctx, viewer, id)
	if err != nil {
		return nil, err
	}
	now := s.now()
	rem := countdown.Calculate(now, r.DepartureDate, r.ReturnDate)
	if !rem.Valid {
		return nil, pkgerrors.New(pkgerrors.KindValidation, "the exeat dates could not be read")
	}
	v := s.view(now, r, rem)
	return &v, nil
}

func (s *countdownService) Watch(ctx context.Context, viewer *session.Snapshot, id int64) (<-chan dto.CountdownView, error) {
	r, err := s.load(ctx, viewer, id)
	if err != nil {
		return nil, err
	}
	first := countdown.Calculate(s.now(), r.DepartureDate, r.ReturnDate)
	if !first.Valid {
		return nil, pkgerrors.New(pkgerrors.KindValidation, "the exeat dates could not be read")
	}

	tk := &countdown.Ticker{
		MultiDay: s.ticker.MultiDay,
		Precise:  s.ticker.Precise,
		Now:      s.now,
	}
	src := tk.Watch(ctx, r.DepartureDate, r.ReturnDate, first.Precise())

	out := make(chan dto.CountdownView)
	go func() {
		defer close(out)
		for rem := range src {
			select {
			case out <- s.view(s.now(), r, rem):
			case <-ctx.Done():
				return
			}
		}
		s.logger.Debug("countdown stream closed", zap.Int64("exeat_id", id), zap.String("status", r.Status))
	}()
	return out, nil
}
