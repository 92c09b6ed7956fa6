package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hostelhq/rollcall/internal/models"
)

func TestWriteCSV(t *testing.T) {
	ts := time.Date(2026, 9, 1, 21, 5, 9, 0, time.Local)
	records := []models.AttendanceRecord{
		{
			ID:             "r1",
			StudentName:    "Priya Nair",
			RegisterNumber: "S100",
			RoomNumber:     "A-12",
			Timestamp:      ts,
			Date:           models.DayString(ts),
		},
		{
			ID:             "r2",
			StudentName:    "Rahul Menon",
			RegisterNumber: "S200",
			RoomNumber:     "B-3",
			Timestamp:      ts.Add(4 * time.Minute),
			Date:           models.DayString(ts),
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, records))

	want := "Date,Name,Register Number,Room Number,Time\n" +
		"2026-09-01,Priya Nair,S100,A-12,21:05:09\n" +
		"2026-09-01,Rahul Menon,S200,B-3,21:09:09\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteCSV_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))
	assert.Equal(t, "Date,Name,Register Number,Room Number,Time\n", buf.String())
}

func TestFilename(t *testing.T) {
	now := time.Date(2026, 9, 1, 10, 0, 0, 0, time.Local)
	assert.Equal(t, "hostel-attendance-2026-09-01.csv", Filename(now))
}
