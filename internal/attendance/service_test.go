package attendance

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hostelhq/rollcall/internal/common"
	"github.com/hostelhq/rollcall/internal/logging"
	"github.com/hostelhq/rollcall/internal/models"
	"github.com/hostelhq/rollcall/internal/qr"
	"github.com/hostelhq/rollcall/internal/store/memory"
)

func sessionUser(register string) models.SessionUser {
	return models.SessionUser{
		ID:             "stu-" + register,
		Name:           "Student " + register,
		RegisterNumber: register,
		RoomNumber:     "C-7",
		Year:           "3",
		Role:           models.RoleStudent,
	}
}

func validToken(now time.Time) qr.AttendanceToken {
	return qr.AttendanceToken{
		Type:      qr.TokenTypeAttendance,
		Timestamp: now.UnixMilli(),
		Date:      models.DayString(now),
	}
}

func TestTryMark_Accepts(t *testing.T) {
	st := memory.NewStore()
	now := time.Date(2026, 9, 1, 8, 30, 0, 0, time.Local)
	svc := NewService(st, logging.NewNopLogger(), WithClock(func() time.Time { return now }))
	ctx := context.Background()

	rec, err := svc.TryMark(ctx, sessionUser("S200"), validToken(now))
	require.NoError(t, err)

	assert.Equal(t, "S200", rec.RegisterNumber)
	assert.Equal(t, "Student S200", rec.StudentName)
	assert.Equal(t, "C-7", rec.RoomNumber)
	assert.Equal(t, models.DayString(now), rec.Date)
	assert.NotEmpty(t, rec.ID)

	stored, err := st.ListAttendanceForDay(ctx, models.DayString(now))
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, rec.ID, stored[0].ID)
}

func TestTryMark_SecondScanSameDayRejected(t *testing.T) {
	st := memory.NewStore()
	now := time.Date(2026, 9, 1, 8, 30, 0, 0, time.Local)
	svc := NewService(st, logging.NewNopLogger(), WithClock(func() time.Time { return now }))
	ctx := context.Background()

	_, err := svc.TryMark(ctx, sessionUser("S100"), validToken(now))
	require.NoError(t, err)

	// A fresh, equally valid token changes nothing before midnight.
	_, err = svc.TryMark(ctx, sessionUser("S100"), validToken(now.Add(2*time.Hour)))
	assert.ErrorIs(t, err, common.ErrorAlreadyMarked)

	stored, err := st.ListAttendanceForDay(ctx, models.DayString(now))
	require.NoError(t, err)
	assert.Len(t, stored, 1, "record count must stay 1")
}

func TestTryMark_NextDayAcceptedAgain(t *testing.T) {
	st := memory.NewStore()
	current := time.Date(2026, 9, 1, 23, 0, 0, 0, time.Local)
	svc := NewService(st, logging.NewNopLogger(), WithClock(func() time.Time { return current }))
	ctx := context.Background()

	_, err := svc.TryMark(ctx, sessionUser("S100"), validToken(current))
	require.NoError(t, err)

	current = current.Add(3 * time.Hour) // past midnight
	_, err = svc.TryMark(ctx, sessionUser("S100"), validToken(current))
	require.NoError(t, err)

	all, err := st.ListAttendance(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestTryMark_InvalidTokenType(t *testing.T) {
	svc := NewService(memory.NewStore(), logging.NewNopLogger())

	tok := qr.AttendanceToken{Type: "other"}
	_, err := svc.TryMark(context.Background(), sessionUser("S100"), tok)
	assert.ErrorIs(t, err, common.ErrorInvalidToken)
}

func TestTryMark_StoreRaceReportsAlreadyMarked(t *testing.T) {
	st := memory.NewStore()
	now := time.Now()
	ctx := context.Background()

	// Simulate another context writing between our check and write: the
	// record exists in the store but with a different id.
	require.NoError(t, st.AppendAttendance(ctx, models.AttendanceRecord{
		ID:             "raced",
		RegisterNumber: "S100",
		Timestamp:      now,
		Date:           models.DayString(now),
	}))

	svc := NewService(st, logging.NewNopLogger(), WithClock(func() time.Time { return now }))
	_, err := svc.TryMark(ctx, sessionUser("S100"), validToken(now))
	assert.ErrorIs(t, err, common.ErrorAlreadyMarked)
}

func TestMarkedToday(t *testing.T) {
	st := memory.NewStore()
	now := time.Now()
	svc := NewService(st, logging.NewNopLogger(), WithClock(func() time.Time { return now }))
	ctx := context.Background()

	marked, err := svc.MarkedToday(ctx, "S100")
	require.NoError(t, err)
	assert.False(t, marked)

	_, err = svc.TryMark(ctx, sessionUser("S100"), validToken(now))
	require.NoError(t, err)

	marked, err = svc.MarkedToday(ctx, "S100")
	require.NoError(t, err)
	assert.True(t, marked)
}
