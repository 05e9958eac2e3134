// Package media turns user-selected image files into upload-ready assets:
// decoded, downscaled to a maximum width, and re-encoded as bounded-quality
// JPEG, with a data URI preview that matches the upload bytes exactly.
package media

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"math"

	"github.com/disintegration/imaging"
)

// MaxUploadBytes is the input ceiling callers must enforce before invoking
// Process. Oversized files are rejected up front, never handed to the
// pipeline.
const MaxUploadBytes = 5 << 20

const mimeJPEG = "image/jpeg"

// Options bound the output dimensions and compression.
type Options struct {
	MaxWidth int     // images wider than this are scaled down proportionally
	Quality  float64 // JPEG quality in [0,1]
}

// DefaultOptions match what the management screens use.
func DefaultOptions() Options {
	return Options{MaxWidth: 720, Quality: 0.65}
}

// Asset is a processed image: the encoded payload for upload plus a preview
// representation that can be displayed before the upload completes.
type Asset struct {
	Bytes    []byte
	Width    int
	Height   int
	MIMEType string
	DataURI  string
}

// DecodeError reports input that could not be decoded as an image.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string { return fmt.Sprintf("decode image: %v", e.Err) }
func (e *DecodeError) Unwrap() error { return e.Err }

// EncodeError reports a failure producing the compressed output.
type EncodeError struct {
	Err error
}

func (e *EncodeError) Error() string { return fmt.Sprintf("encode image: %v", e.Err) }
func (e *EncodeError) Unwrap() error { return e.Err }

// Process decodes data, scales it down to opts.MaxWidth when wider, and
// re-encodes as JPEG at opts.Quality. Images at or below MaxWidth keep
// their dimensions.
func Process(data []byte, opts Options) (*Asset, error) {
	if opts.MaxWidth <= 0 || opts.Quality <= 0 || opts.Quality > 1 {
		return nil, fmt.Errorf("invalid options: max width %d, quality %v", opts.MaxWidth, opts.Quality)
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, &DecodeError{Err: err}
	}

	if img.Bounds().Dx() > opts.MaxWidth {
		// Zero height keeps the aspect ratio: newHeight = round(h*maxWidth/w).
		img = imaging.Resize(img, opts.MaxWidth, 0, imaging.Lanczos)
	}

	quality := int(math.Round(opts.Quality * 100))
	if quality < 1 {
		quality = 1
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return nil, &EncodeError{Err: err}
	}
	if buf.Len() == 0 {
		return nil, &EncodeError{Err: fmt.Errorf("encoder produced no output")}
	}

	encoded := buf.Bytes()
	return &Asset{
		Bytes:    encoded,
		Width:    img.Bounds().Dx(),
		Height:   img.Bounds().Dy(),
		MIMEType: mimeJPEG,
		DataURI:  DataURI(encoded),
	}, nil
}

// DataURI renders jpeg bytes as an embeddable base64 data URI.
func DataURI(jpegBytes []byte) string {
	return "data:" + mimeJPEG + ";base64," + base64.StdEncoding.EncodeToString(jpegBytes)
}
