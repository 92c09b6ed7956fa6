package qr

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hostelhq/rollcall/internal/common"
	"github.com/hostelhq/rollcall/internal/models"
)

func TestEncodeDecode_RoundTrip(t *testing.T) {
	now := time.Date(2026, 9, 1, 21, 45, 3, 0, time.Local)

	text, err := EncodeAttendanceToken(now)
	require.NoError(t, err)

	tok, err := DecodeToken(text)
	require.NoError(t, err)

	assert.Equal(t, TokenTypeAttendance, tok.Type)
	assert.Equal(t, now.UnixMilli(), tok.Timestamp)
	assert.Equal(t, models.DayString(now), tok.Date)
}

func TestEncode_IsSelfDescribingJSON(t *testing.T) {
	text, err := EncodeAttendanceToken(time.Now())
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal([]byte(text), &fields))
	assert.Equal(t, "attendance", fields["type"])
	assert.Contains(t, fields, "timestamp")
	assert.Contains(t, fields, "date")
}

func TestDecodeToken_Malformed(t *testing.T) {
	for _, payload := range []string{"not json", "", "{", "https://example.com/menu"} {
		_, err := DecodeToken(payload)
		assert.ErrorIs(t, err, common.ErrorMalformedPayload, "payload %q", payload)
	}
}

func TestDecodeToken_UnrecognizedType(t *testing.T) {
	cases := map[string]string{
		"other type":   `{"type":"other","timestamp":1,"date":"Tue Sep 01 2026"}`,
		"missing type": `{"timestamp":1,"date":"Tue Sep 01 2026"}`,
		"empty object": `{}`,
	}
	for name, payload := range cases {
		_, err := DecodeToken(payload)
		assert.ErrorIs(t, err, common.ErrorUnrecognizedType, name)
	}
}
