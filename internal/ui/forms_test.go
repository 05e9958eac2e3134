package ui

import (
	"bytes"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kcherif/maitre/internal/api"
	"github.com/kcherif/maitre/internal/media"
)

func writeTempFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func pngFile(t *testing.T, name string, width, height int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 90, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	return writeTempFile(t, name, buf.Bytes())
}

func TestLoadUpload_EmptyPathMeansNoImage(t *testing.T) {
	t.Parallel()

	upload, err := loadUpload("", media.DefaultOptions())
	if err != nil || upload != nil {
		t.Fatalf("loadUpload(\"\") = (%+v, %v), want (nil, nil)", upload, err)
	}
}

func TestLoadUpload_ProcessesImageFiles(t *testing.T) {
	t.Parallel()

	path := pngFile(t, "banner.png", 1000, 500)
	upload, err := loadUpload(path, media.Options{MaxWidth: 500, Quality: 0.65})
	if err != nil {
		t.Fatalf("loadUpload returned error: %v", err)
	}
	if upload.Filename != "banner.jpg" {
		t.Fatalf("Filename = %q, want banner.jpg", upload.Filename)
	}
	if upload.MIMEType != "image/jpeg" {
		t.Fatalf("MIMEType = %q, want image/jpeg", upload.MIMEType)
	}
	decoded, err := jpeg.Decode(bytes.NewReader(upload.Bytes))
	if err != nil {
		t.Fatalf("jpeg.Decode: %v", err)
	}
	if decoded.Bounds().Dx() != 500 {
		t.Fatalf("width = %d, want downscaled to 500", decoded.Bounds().Dx())
	}
}

// A file the pipeline cannot decode still uploads: the original bytes go out
// unchanged under their detected content type.
func TestLoadUpload_UndecodableFileFallsBackToOriginalBytes(t *testing.T) {
	t.Parallel()

	original := []byte("%PDF-1.4 definitely not an image")
	path := writeTempFile(t, "menu.pdf", original)

	upload, err := loadUpload(path, media.DefaultOptions())
	if err != nil {
		t.Fatalf("loadUpload returned error: %v", err)
	}
	if !bytes.Equal(upload.Bytes, original) {
		t.Fatalf("Bytes differ from the original file contents")
	}
	if upload.Filename != "menu.pdf" {
		t.Fatalf("Filename = %q, want the original name menu.pdf", upload.Filename)
	}
	if want := http.DetectContentType(original); upload.MIMEType != want {
		t.Fatalf("MIMEType = %q, want detected %q", upload.MIMEType, want)
	}
}

func TestLoadUpload_OversizedFileIsRejected(t *testing.T) {
	t.Parallel()

	path := writeTempFile(t, "huge.bin", make([]byte, media.MaxUploadBytes+1))
	_, err := loadUpload(path, media.DefaultOptions())
	var verr *api.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("loadUpload error = %v, want *api.ValidationError", err)
	}
}

func TestLoadDataURI_UndecodableFileFallsBackToOriginalBytes(t *testing.T) {
	t.Parallel()

	original := []byte("GIF89a truncated to garbage")
	path := writeTempFile(t, "promo.gif", original)

	uri, err := loadDataURI(path, media.DefaultOptions())
	if err != nil {
		t.Fatalf("loadDataURI returned error: %v", err)
	}
	mime := http.DetectContentType(original)
	prefix := "data:" + mime + ";base64,"
	if !strings.HasPrefix(uri, prefix) {
		t.Fatalf("data URI = %q, want %q prefix", uri, prefix)
	}
	decoded, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(uri, prefix))
	if err != nil {
		t.Fatalf("decode data URI payload: %v", err)
	}
	if !bytes.Equal(decoded, original) {
		t.Fatalf("data URI payload differs from the original file contents")
	}
}

func TestLoadDataURI_ProcessedImageIsJPEG(t *testing.T) {
	t.Parallel()

	path := pngFile(t, "promo.png", 400, 300)
	uri, err := loadDataURI(path, media.DefaultOptions())
	if err != nil {
		t.Fatalf("loadDataURI returned error: %v", err)
	}
	if !strings.HasPrefix(uri, "data:image/jpeg;base64,") {
		t.Fatalf("data URI = %.40q, want a jpeg data URI", uri)
	}
}

func TestFriendlyUploadErr(t *testing.T) {
	t.Parallel()

	tooLarge := &api.ServerError{Status: http.StatusRequestEntityTooLarge, Message: "payload too large"}
	got := friendlyUploadErr(tooLarge)
	var serr *api.ServerError
	if !errors.As(got, &serr) {
		t.Fatalf("friendlyUploadErr = %v, want *api.ServerError", got)
	}
	if serr.Message != "image file too large for the server" {
		t.Fatalf("Message = %q, want the reworded 413 message", serr.Message)
	}
	if serr.Status != http.StatusRequestEntityTooLarge {
		t.Fatalf("Status = %d, want 413 preserved", serr.Status)
	}

	other := &api.ServerError{Status: http.StatusConflict, Message: "taken"}
	if friendlyUploadErr(other) != other {
		t.Fatalf("friendlyUploadErr rewrote a non-413 error")
	}
	if friendlyUploadErr(nil) != nil {
		t.Fatalf("friendlyUploadErr(nil) != nil")
	}
}
