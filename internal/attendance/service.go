// Package attendance holds the rule engine that decides whether a decoded
// scan becomes a stored record. It is the sole gatekeeper of the "at most one
// record per student per day" invariant.
package attendance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hostelhq/rollcall/internal/common"
	"github.com/hostelhq/rollcall/internal/logging"
	"github.com/hostelhq/rollcall/internal/metrics"
	"github.com/hostelhq/rollcall/internal/models"
	"github.com/hostelhq/rollcall/internal/qr"
	"github.com/hostelhq/rollcall/internal/store"
)

// Service applies the marking rules against the record store.
type Service struct {
	store  store.Store
	logger logging.Logger
	now    func() time.Time
}

type Option func(*Service)

// WithClock overrides the time source. Test hook.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(st store.Store, logger logging.Logger, opts ...Option) *Service {
	s := &Service{store: st, logger: logger, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// TryMark accepts or rejects one scan for the given session user.
//
// Rejections: ErrorInvalidToken when the token is not an attendance token
// (defense in depth; the codec filters these before the loop resolves),
// ErrorAlreadyMarked when a record for the user's register number already
// exists today. On acceptance the returned record is a snapshot of the user's
// details at scan time, already persisted.
//
// The check and the write are ordered within one process; across processes
// the store's insert-if-absent append is the backstop, and its duplicate
// signal is reported as ErrorAlreadyMarked too.
func (s *Service) TryMark(ctx context.Context, user models.SessionUser, token qr.AttendanceToken) (*models.AttendanceRecord, error) {
	if token.Type != qr.TokenTypeAttendance {
		metrics.MarksRejected.WithLabelValues("invalid_token").Inc()
		return nil, fmt.Errorf("%w: type %q", common.ErrorInvalidToken, token.Type)
	}

	now := s.now()
	day := models.DayString(now)

	existing, err := s.store.ListAttendanceForDay(ctx, day)
	if err != nil {
		return nil, fmt.Errorf("check today's attendance: %w", err)
	}
	for _, rec := range existing {
		if rec.RegisterNumber == user.RegisterNumber {
			metrics.MarksRejected.WithLabelValues("already_marked").Inc()
			return nil, common.ErrorAlreadyMarked
		}
	}

	rec := models.AttendanceRecord{
		ID:             uuid.NewString(),
		StudentID:      user.ID,
		StudentName:    user.Name,
		RegisterNumber: user.RegisterNumber,
		RoomNumber:     user.RoomNumber,
		Timestamp:      now,
		Date:           day,
	}
	if err := s.store.AppendAttendance(ctx, rec); err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			// Another writer won the race between our check and this write.
			metrics.MarksRejected.WithLabelValues("already_marked").Inc()
			return nil, common.ErrorAlreadyMarked
		}
		return nil, fmt.Errorf("persist attendance: %w", err)
	}

	metrics.MarksAccepted.Inc()
	s.logger.Info(ctx, "attendance marked",
		"register", rec.RegisterNumber, "day", rec.Date)
	return &rec, nil
}

// ListForDay returns the records in one calendar-day bucket.
func (s *Service) ListForDay(ctx context.Context, day string) ([]models.AttendanceRecord, error) {
	return s.store.ListAttendanceForDay(ctx, day)
}

// MarkedToday reports whether the register number already has a record in
// today's bucket.
func (s *Service) MarkedToday(ctx context.Context, registerNumber string) (bool, error) {
	records, err := s.store.ListAttendanceForDay(ctx, models.DayString(s.now()))
	if err != nil {
		return false, err
	}
	for _, rec := range records {
		if rec.RegisterNumber == registerNumber {
			return true, nil
		}
	}
	return false, nil
}
