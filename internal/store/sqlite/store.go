// Package sqlite implements the record store on a local sqlite database.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	sqlite3 "modernc.org/sqlite"

	"github.com/hostelhq/rollcall/internal/common"
	"github.com/hostelhq/rollcall/internal/models"
)

// sqlite extended result codes for unique-constraint violations.
const (
	codeConstraintUnique     = 2067
	codeConstraintPrimaryKey = 1555
)

// Store persists all collections in a single sqlite file, the Go rendering of
// the original single browser profile.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) the database at dsn and migrates it.
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w: %w", common.ErrorStorage, err)
	}
	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate database: %w: %w", common.ErrorStorage, err)
	}
	return &Store{db: db}, nil
}

// NewStore wraps an already-open database. The caller is responsible for
// having run migrations.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Close() error {
	return s.db.Close()
}

func isUniqueViolation(err error) bool {
	var serr *sqlite3.Error
	if !errors.As(err, &serr) {
		return false
	}
	code := serr.Code()
	return code == codeConstraintUnique || code == codeConstraintPrimaryKey
}

func (s *Store) ListStudents(ctx context.Context) ([]models.Student, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, register_number, room_number, year, created_at_ms
		FROM students
		ORDER BY created_at_ms
	`)
	if err != nil {
		return nil, fmt.Errorf("select students: %w: %w", common.ErrorStorage, err)
	}
	defer rows.Close()

	var result []models.Student
	for rows.Next() {
		var st models.Student
		var createdMs int64
		if err := rows.Scan(&st.ID, &st.Name, &st.RegisterNumber, &st.RoomNumber, &st.Year, &createdMs); err != nil {
			return nil, fmt.Errorf("scan student: %w: %w", common.ErrorStorage, err)
		}
		st.CreatedAt = time.UnixMilli(createdMs)
		result = append(result, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate students: %w: %w", common.ErrorStorage, err)
	}
	return result, nil
}

func (s *Store) RegisterStudent(ctx context.Context, st models.Student) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO students (id, name, register_number, room_number, year, created_at_ms)
		VALUES (?, ?, ?, ?, ?, ?)
	`, st.ID, st.Name, st.RegisterNumber, st.RoomNumber, st.Year, st.CreatedAt.UnixMilli())
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("insert student: %w", common.ErrorAlreadyExists)
		}
		return fmt.Errorf("insert student: %w: %w", common.ErrorStorage, err)
	}
	return nil
}

const attendanceColumns = `id, student_id, student_name, register_number, room_number, marked_at_ms, day`

func scanAttendance(rows *sql.Rows) ([]models.AttendanceRecord, error) {
	var result []models.AttendanceRecord
	for rows.Next() {
		var rec models.AttendanceRecord
		var markedMs int64
		if err := rows.Scan(&rec.ID, &rec.StudentID, &rec.StudentName, &rec.RegisterNumber,
			&rec.RoomNumber, &markedMs, &rec.Date); err != nil {
			return nil, fmt.Errorf("scan attendance: %w: %w", common.ErrorStorage, err)
		}
		rec.Timestamp = time.UnixMilli(markedMs)
		result = append(result, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate attendance: %w: %w", common.ErrorStorage, err)
	}
	return result, nil
}

func (s *Store) ListAttendance(ctx context.Context) ([]models.AttendanceRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+attendanceColumns+` FROM attendance ORDER BY marked_at_ms`)
	if err != nil {
		return nil, fmt.Errorf("select attendance: %w: %w", common.ErrorStorage, err)
	}
	defer rows.Close()
	return scanAttendance(rows)
}

func (s *Store) ListAttendanceForDay(ctx context.Context, day string) ([]models.AttendanceRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+attendanceColumns+` FROM attendance WHERE day = ? ORDER BY marked_at_ms`, day)
	if err != nil {
		return nil, fmt.Errorf("select attendance for day: %w: %w", common.ErrorStorage, err)
	}
	defer rows.Close()
	return scanAttendance(rows)
}

// AppendAttendance is insert-if-absent: the unique index on
// (register_number, day) turns a duplicate mark into ErrorAlreadyExists even
// when two processes race past their own pre-checks.
func (s *Store) AppendAttendance(ctx context.Context, rec models.AttendanceRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO attendance (`+attendanceColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, rec.ID, rec.StudentID, rec.StudentName, rec.RegisterNumber, rec.RoomNumber,
		rec.Timestamp.UnixMilli(), rec.Date)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("insert attendance: %w", common.ErrorAlreadyExists)
		}
		return fmt.Errorf("insert attendance: %w: %w", common.ErrorStorage, err)
	}
	return nil
}

func (s *Store) GetSession(ctx context.Context) (*models.SessionUser, error) {
	var payload string
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM session WHERE id = 1`).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select session: %w: %w", common.ErrorStorage, err)
	}

	var user models.SessionUser
	if err := json.Unmarshal([]byte(payload), &user); err != nil {
		return nil, fmt.Errorf("decode session: %w: %w", common.ErrorStorage, err)
	}
	return &user, nil
}

func (s *Store) SetSession(ctx context.Context, user models.SessionUser) error {
	payload, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode session: %w: %w", common.ErrorStorage, err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO session (id, payload) VALUES (1, ?)
		ON CONFLICT(id) DO UPDATE SET payload = excluded.payload
	`, string(payload))
	if err != nil {
		return fmt.Errorf("upsert session: %w: %w", common.ErrorStorage, err)
	}
	return nil
}

func (s *Store) ClearSession(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM session WHERE id = 1`); err != nil {
		return fmt.Errorf("delete session: %w: %w", common.ErrorStorage, err)
	}
	return nil
}
