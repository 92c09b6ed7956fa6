// Package roster manages student registration and login sessions. The session
// is an explicit object persisted through the record store and handed to
// callers, never ambient process state.
package roster

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hostelhq/rollcall/internal/common"
	"github.com/hostelhq/rollcall/internal/logging"
	"github.com/hostelhq/rollcall/internal/models"
	"github.com/hostelhq/rollcall/internal/store"
)

// The administrator has a fixed identity with no backing roster entry.
const (
	AdminID             = "admin"
	AdminName           = "Administrator"
	AdminRegisterNumber = "ADMIN"
)

// Registration is the input for a new roster entry.
type Registration struct {
	Name           string
	RegisterNumber string
	RoomNumber     string
	Year           string
}

type Service struct {
	store         store.Store
	adminPassHash string
	logger        logging.Logger
	now           func() time.Time
}

// NewService builds a roster service. adminPassword is bcrypt-hashed up
// front; the plaintext is not retained.
func NewService(st store.Store, adminPassword string, logger logging.Logger) (*Service, error) {
	hash, err := HashPassword(adminPassword)
	if err != nil {
		return nil, fmt.Errorf("hash admin password: %w", err)
	}
	return &Service{store: st, adminPassHash: hash, logger: logger, now: time.Now}, nil
}

// FindStudent looks a student up by register number, case-insensitively.
// Returns common.ErrorNotFound when no entry matches.
func (s *Service) FindStudent(ctx context.Context, registerNumber string) (*models.Student, error) {
	students, err := s.store.ListStudents(ctx)
	if err != nil {
		return nil, err
	}
	for _, st := range students {
		if strings.EqualFold(st.RegisterNumber, registerNumber) {
			return &st, nil
		}
	}
	return nil, common.ErrorNotFound
}

// RegisterStudent validates the input, pre-checks register-number uniqueness
// (the store contract leaves that to the caller) and appends the entry.
func (s *Service) RegisterStudent(ctx context.Context, reg Registration) (*models.Student, error) {
	reg.Name = strings.TrimSpace(reg.Name)
	reg.RegisterNumber = strings.TrimSpace(reg.RegisterNumber)
	reg.RoomNumber = strings.TrimSpace(reg.RoomNumber)
	if reg.Name == "" || reg.RegisterNumber == "" || reg.RoomNumber == "" {
		return nil, fmt.Errorf("%w: name, register number and room number are required", common.ErrorValidation)
	}

	if _, err := s.FindStudent(ctx, reg.RegisterNumber); err == nil {
		return nil, fmt.Errorf("%w: register number %s", common.ErrorAlreadyExists, reg.RegisterNumber)
	} else if !errors.Is(err, common.ErrorNotFound) {
		return nil, err
	}

	st := models.Student{
		ID:             uuid.NewString(),
		Name:           reg.Name,
		RegisterNumber: reg.RegisterNumber,
		RoomNumber:     reg.RoomNumber,
		Year:           reg.Year,
		CreatedAt:      s.now(),
	}
	if err := s.store.RegisterStudent(ctx, st); err != nil {
		return nil, fmt.Errorf("register student: %w", err)
	}

	s.logger.Info(ctx, "student registered", "register", st.RegisterNumber)
	return &st, nil
}

// Login starts a student session by register number.
func (s *Service) Login(ctx context.Context, registerNumber string) (*models.SessionUser, error) {
	st, err := s.FindStudent(ctx, registerNumber)
	if err != nil {
		return nil, err
	}
	user := models.SessionUser{
		ID:             st.ID,
		Name:           st.Name,
		RegisterNumber: st.RegisterNumber,
		RoomNumber:     st.RoomNumber,
		Year:           st.Year,
		Role:           models.RoleStudent,
	}
	if err := s.store.SetSession(ctx, user); err != nil {
		return nil, err
	}
	return &user, nil
}

// LoginAdmin starts the administrator session after a password check.
func (s *Service) LoginAdmin(ctx context.Context, password string) (*models.SessionUser, error) {
	if !CheckPassword(s.adminPassHash, password) {
		return nil, common.ErrorInvalidPassword
	}
	user := models.SessionUser{
		ID:             AdminID,
		Name:           AdminName,
		RegisterNumber: AdminRegisterNumber,
		Role:           models.RoleAdmin,
	}
	if err := s.store.SetSession(ctx, user); err != nil {
		return nil, err
	}
	return &user, nil
}

// CurrentUser returns the active session, or common.ErrorNotFound when nobody
// is logged in.
func (s *Service) CurrentUser(ctx context.Context) (*models.SessionUser, error) {
	return s.store.GetSession(ctx)
}

// Logout ends the active session.
func (s *Service) Logout(ctx context.Context) error {
	return s.store.ClearSession(ctx)
}
