// Package models defines the persisted data types of the attendance tracker:
// the student roster, the attendance event log, and the login session.
package models

import "time"

// DayLayout is the calendar-day string format used to bucket attendance
// records ("Tue Sep 01 2026"). It matches the human-readable day string the
// displayed QR codes carry, so tokens and records compare directly.
const DayLayout = "Mon Jan 02 2006"

// DayString renders t's calendar day in the local timezone. Two instants on
// the same local day always yield the same string, regardless of how far
// apart they are within it.
func DayString(t time.Time) string {
	return t.Local().Format(DayLayout)
}

// Role tags a session as belonging to a student or an administrator.
type Role string

const (
	RoleStudent Role = "student"
	RoleAdmin   Role = "admin"
)

// Student is a roster entry. Created at registration and never mutated;
// RegisterNumber is the natural key (unique case-insensitively, enforced by
// the roster service, not the store).
type Student struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	RegisterNumber string    `json:"registerNumber"`
	RoomNumber     string    `json:"roomNumber"`
	Year           string    `json:"year"`
	CreatedAt      time.Time `json:"createdAt"`
}

// AttendanceRecord is an immutable attendance event. Student fields are
// denormalized snapshots taken at scan time: historical records keep the
// details the student had when they scanned, even if the roster changes
// later.
type AttendanceRecord struct {
	ID             string    `json:"id"`
	StudentID      string    `json:"studentId"`
	StudentName    string    `json:"studentName"`
	RegisterNumber string    `json:"registerNumber"`
	RoomNumber     string    `json:"roomNumber"`
	Timestamp      time.Time `json:"timestamp"`

	// Date is DayString(Timestamp), stored explicitly so day-bucket queries
	// compare strings instead of re-deriving calendar days.
	Date string `json:"date"`
}

// SessionUser is the currently logged-in actor. For students it mirrors the
// roster entry plus a role tag; the administrator has a fixed identity with
// no backing Student record.
type SessionUser struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	RegisterNumber string `json:"registerNumber"`
	RoomNumber     string `json:"roomNumber"`
	Year           string `json:"year"`
	Role           Role   `json:"role"`
}
