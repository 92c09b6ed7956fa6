package qr

import (
	"fmt"
	"image"
	"image/color"

	"github.com/makiuchi-d/gozxing"
	zxqr "github.com/makiuchi-d/gozxing/qrcode"
	skip2qr "github.com/skip2/go-qrcode"

	"github.com/hostelhq/rollcall/internal/common"
)

// DefaultImageSize is the rendered QR side length in pixels.
const DefaultImageSize = 256

// Render colors match the displayed code: dark gray on white.
var (
	defaultForeground = color.RGBA{R: 0x1f, G: 0x29, B: 0x37, A: 0xff}
	defaultBackground = color.White
)

// Renderer rasterizes token text into a scannable QR image.
type Renderer struct {
	size       int
	foreground color.Color
	background color.Color
}

// NewRenderer returns a renderer producing size×size pixel images. A size of
// 0 or less falls back to DefaultImageSize.
func NewRenderer(size int) *Renderer {
	if size <= 0 {
		size = DefaultImageSize
	}
	return &Renderer{size: size, foreground: defaultForeground, background: defaultBackground}
}

func (r *Renderer) newCode(text string) (*skip2qr.QRCode, error) {
	code, err := skip2qr.New(text, skip2qr.Medium)
	if err != nil {
		// The only encode-time failure mode is content that does not fit the
		// symbol; it must reach the caller, never be truncated away.
		return nil, fmt.Errorf("%w: %v", common.ErrorPayloadTooLarge, err)
	}
	code.ForegroundColor = r.foreground
	code.BackgroundColor = r.background
	return code, nil
}

// PNG renders text into a PNG-encoded QR image.
func (r *Renderer) PNG(text string) ([]byte, error) {
	code, err := r.newCode(text)
	if err != nil {
		return nil, err
	}
	png, err := code.PNG(r.size)
	if err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return png, nil
}

// Image renders text into an in-memory QR image.
func (r *Renderer) Image(text string) (image.Image, error) {
	code, err := r.newCode(text)
	if err != nil {
		return nil, err
	}
	return code.Image(r.size), nil
}

// ImageDecoder extracts QR payload text from still frames.
type ImageDecoder struct {
	reader gozxing.Reader
}

func NewImageDecoder() *ImageDecoder {
	return &ImageDecoder{reader: zxqr.NewQRCodeReader()}
}

// DecodeImage scans img for a QR code and returns its payload text. Frames
// with no readable code yield ErrorNoCode, which callers treat as "keep
// sampling".
func (d *ImageDecoder) DecodeImage(img image.Image) (string, error) {
	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		return "", fmt.Errorf("binarize frame: %w", err)
	}
	result, err := d.reader.Decode(bmp, nil)
	if err != nil {
		// Not-found, format and checksum misses all mean the same thing to
		// the sampling loop: this frame had no readable code.
		return "", fmt.Errorf("%w: %v", common.ErrorNoCode, err)
	}
	return result.GetText(), nil
}

// Pipeline composes the image decoder and the token codec into the single
// frame-to-token step the capture loop runs on every sample.
type Pipeline struct {
	images *ImageDecoder
}

func NewPipeline() *Pipeline {
	return &Pipeline{images: NewImageDecoder()}
}

// DecodeFrame scans a still frame and parses its payload. All classification
// errors (ErrorNoCode, ErrorMalformedPayload, ErrorUnrecognizedType) pass
// through untouched so the loop can decide what is retryable.
func (p *Pipeline) DecodeFrame(img image.Image) (*AttendanceToken, error) {
	text, err := p.images.DecodeImage(img)
	if err != nil {
		return nil, err
	}
	return DecodeToken(text)
}
