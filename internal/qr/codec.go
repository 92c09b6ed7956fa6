// Package qr implements the attendance token codec: the JSON payload carried
// by the displayed QR code, its rasterization into a scannable image, and the
// reverse path from a camera frame back to a structured token.
package qr

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/hostelhq/rollcall/internal/common"
	"github.com/hostelhq/rollcall/internal/models"
)

// TokenTypeAttendance is the type discriminator of a valid attendance token.
// Decoders reject any payload carrying a different value.
const TokenTypeAttendance = "attendance"

// AttendanceToken is the transient payload embedded in a QR code. It is not
// persisted and carries no student identity: the token only proves a scan
// happened against a code the administrator currently displays. The scanning
// student's identity comes from their session, so a shared photo of the code
// cannot impersonate anyone.
type AttendanceToken struct {
	Type string `json:"type"`

	// Timestamp is the generation instant in epoch milliseconds.
	Timestamp int64 `json:"timestamp"`

	// Date is the generation day as a calendar-day string (models.DayLayout).
	Date string `json:"date"`
}

// EncodeAttendanceToken serializes a fresh token for the given instant.
func EncodeAttendanceToken(now time.Time) (string, error) {
	tok := AttendanceToken{
		Type:      TokenTypeAttendance,
		Timestamp: now.UnixMilli(),
		Date:      models.DayString(now),
	}
	b, err := json.Marshal(tok)
	if err != nil {
		return "", fmt.Errorf("marshal token: %w", err)
	}
	return string(b), nil
}

// DecodeToken parses scanned payload text back into a token.
//
// Failures are classified for the capture loop: ErrorMalformedPayload when
// the text is not a valid JSON object, ErrorUnrecognizedType when it is but
// the type field is missing or not "attendance". Both are non-fatal; the
// caller resumes scanning.
func DecodeToken(payload string) (*AttendanceToken, error) {
	var tok AttendanceToken
	if err := json.Unmarshal([]byte(payload), &tok); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorMalformedPayload, err)
	}
	if tok.Type != TokenTypeAttendance {
		return nil, fmt.Errorf("%w: %q", common.ErrorUnrecognizedType, tok.Type)
	}
	return &tok, nil
}
