// Package capture drives a camera feed through repeated QR decode attempts
// until a valid attendance token is found, the scan is cancelled, or the
// device fails.
package capture

import (
	"context"
	"image"

	"github.com/hostelhq/rollcall/internal/qr"
)

// Stream is a live camera feed. Frame returns the current still frame;
// Close releases the underlying device resources.
type Stream interface {
	Frame(ctx context.Context) (image.Image, error)
	Close() error
}

// Device opens camera streams. Open blocks until the platform grants or
// refuses access; a refusal or missing device surfaces as an error, which the
// loop reports as CameraUnavailable.
type Device interface {
	Open(ctx context.Context) (Stream, error)
}

// Decoder turns a still frame into an attendance token. qr.Pipeline is the
// production implementation.
type Decoder interface {
	DecodeFrame(img image.Image) (*qr.AttendanceToken, error)
}
