// Package memory provides an in-memory Store implementation. It is intended
// for tests and dev environments.
package memory

import (
	"context"
	"sync"

	"github.com/hostelhq/rollcall/internal/common"
	"github.com/hostelhq/rollcall/internal/models"
)

// Store keeps all collections in process memory behind one mutex, so the
// check in AppendAttendance and its write are a single critical section.
type Store struct {
	mu         sync.RWMutex
	students   []models.Student
	attendance []models.AttendanceRecord
	session    *models.SessionUser
}

func NewStore() *Store {
	return &Store{}
}

func (s *Store) ListStudents(_ context.Context) ([]models.Student, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Student, len(s.students))
	copy(out, s.students)
	return out, nil
}

func (s *Store) RegisterStudent(_ context.Context, st models.Student) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.students = append(s.students, st)
	return nil
}

func (s *Store) ListAttendance(_ context.Context) ([]models.AttendanceRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.AttendanceRecord, len(s.attendance))
	copy(out, s.attendance)
	return out, nil
}

func (s *Store) ListAttendanceForDay(_ context.Context, day string) ([]models.AttendanceRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.AttendanceRecord
	for _, rec := range s.attendance {
		if rec.Date == day {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (s *Store) AppendAttendance(_ context.Context, rec models.AttendanceRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.attendance {
		if existing.RegisterNumber == rec.RegisterNumber && existing.Date == rec.Date {
			return common.ErrorAlreadyExists
		}
	}
	s.attendance = append(s.attendance, rec)
	return nil
}

func (s *Store) GetSession(_ context.Context) (*models.SessionUser, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.session == nil {
		return nil, common.ErrorNotFound
	}
	user := *s.session
	return &user, nil
}

func (s *Store) SetSession(_ context.Context, user models.SessionUser) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = &user
	return nil
}

func (s *Store) ClearSession(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = nil
	return nil
}
