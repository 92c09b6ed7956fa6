package qr

import (
	"bytes"
	"image"
	"image/png"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hostelhq/rollcall/internal/common"
)

func TestRenderAndScan_RoundTrip(t *testing.T) {
	now := time.Now()
	text, err := EncodeAttendanceToken(now)
	require.NoError(t, err)

	img, err := NewRenderer(DefaultImageSize).Image(text)
	require.NoError(t, err)

	got, err := NewImageDecoder().DecodeImage(img)
	require.NoError(t, err)
	assert.Equal(t, text, got)
}

func TestPipeline_DecodeFrame(t *testing.T) {
	text, err := EncodeAttendanceToken(time.Now())
	require.NoError(t, err)

	img, err := NewRenderer(0).Image(text)
	require.NoError(t, err)

	tok, err := NewPipeline().DecodeFrame(img)
	require.NoError(t, err)
	assert.Equal(t, TokenTypeAttendance, tok.Type)
}

func TestPipeline_ForeignCodeIsUnrecognized(t *testing.T) {
	// A syntactically valid QR code that is not an attendance token.
	img, err := NewRenderer(DefaultImageSize).Image(`{"type":"wifi-credentials"}`)
	require.NoError(t, err)

	_, err = NewPipeline().DecodeFrame(img)
	assert.ErrorIs(t, err, common.ErrorUnrecognizedType)
}

func TestDecodeImage_BlankFrame(t *testing.T) {
	blank := image.NewGray(image.Rect(0, 0, 64, 64))

	_, err := NewImageDecoder().DecodeImage(blank)
	assert.ErrorIs(t, err, common.ErrorNoCode)
}

func TestRenderer_PNG(t *testing.T) {
	data, err := NewRenderer(128).PNG("hello")
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 128, img.Bounds().Dx())
	assert.Equal(t, 128, img.Bounds().Dy())
}

func TestRenderer_PayloadTooLarge(t *testing.T) {
	// Well past the byte capacity of any QR version.
	huge := strings.Repeat("x", 8000)

	_, err := NewRenderer(DefaultImageSize).PNG(huge)
	assert.ErrorIs(t, err, common.ErrorPayloadTooLarge)
}
