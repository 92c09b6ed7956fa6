// Package export renders attendance records as a CSV table for download.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/hostelhq/rollcall/internal/models"
)

var header = []string{"Date", "Name", "Register Number", "Room Number", "Time"}

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04:05"
)

// WriteCSV writes one row per record with the date as YYYY-MM-DD and the time
// in 24-hour HH:MM:SS.
func WriteCSV(w io.Writer, records []models.AttendanceRecord) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, rec := range records {
		row := []string{
			rec.Timestamp.Format(dateLayout),
			rec.StudentName,
			rec.RegisterNumber,
			rec.RoomNumber,
			rec.Timestamp.Format(timeLayout),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write record %s: %w", rec.ID, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// Filename returns the conventional download name for an export taken at now.
func Filename(now time.Time) string {
	return "hostel-attendance-" + now.Format(dateLayout) + ".csv"
}
