// Package store defines the persistence boundary for students, attendance
// records, and the login session. Implementations live in the memory and
// sqlite subpackages.
package store

import (
	"context"

	"github.com/hostelhq/rollcall/internal/models"
)

// Store is the record store contract. All operations are local and
// synchronous; they fail only on storage-medium errors, which wrap
// common.ErrorStorage and are never swallowed.
//
// The store is scoped to a single profile. There is no cross-process locking:
// two independent processes sharing a database rely on the attendance unique
// index (sqlite) as the only cross-context guard.
type Store interface {
	// ListStudents returns every roster entry.
	ListStudents(ctx context.Context) ([]models.Student, error)

	// RegisterStudent appends a roster entry. The caller pre-checks
	// register-number uniqueness; the store does not enforce it.
	RegisterStudent(ctx context.Context, s models.Student) error

	// ListAttendance returns every attendance record.
	ListAttendance(ctx context.Context) ([]models.AttendanceRecord, error)

	// ListAttendanceForDay returns records whose Date equals day exactly.
	// Bucketing is by calendar-day string, not elapsed time.
	ListAttendanceForDay(ctx context.Context, day string) ([]models.AttendanceRecord, error)

	// AppendAttendance inserts a record if no record with the same register
	// number and day exists, and returns common.ErrorAlreadyExists otherwise.
	// Existing records are never mutated or removed.
	AppendAttendance(ctx context.Context, rec models.AttendanceRecord) error

	// GetSession returns the active session, or common.ErrorNotFound when
	// nobody is logged in.
	GetSession(ctx context.Context) (*models.SessionUser, error)

	// SetSession replaces the active session.
	SetSession(ctx context.Context, user models.SessionUser) error

	// ClearSession removes the active session. Clearing an absent session is
	// not an error.
	ClearSession(ctx context.Context) error
}
