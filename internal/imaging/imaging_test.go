package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"
)

func createTestJPEG(w, h int) []byte {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{255, 0, 0, 255})
		}
	}
	var buf bytes.Buffer
	jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90})
	return buf.Bytes()
}

func createTestPNG(w, h int) []byte {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{0, 0, 255, 255})
		}
	}
	var buf bytes.Buffer
	png.Encode(&buf, img)
	return buf.Bytes()
}

func TestPrepareJPEG(t *testing.T) {
	data := createTestJPEG(100, 100)
	photo, err := Prepare(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Prepare JPEG: %v", err)
	}
	if photo.MIME != "image/jpeg" {
		t.Errorf("expected image/jpeg, got %s", photo.MIME)
	}
	if len(photo.Data) == 0 {
		t.Error("expected non-empty data")
	}
}

func TestPreparePNGConvertsToJPEG(t *testing.T) {
	data := createTestPNG(100, 100)
	photo, err := Prepare(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Prepare PNG: %v", err)
	}
	if photo.MIME != "image/jpeg" {
		t.Errorf("expected image/jpeg (always outputs JPEG), got %s", photo.MIME)
	}
}

func TestPrepareDownscale(t *testing.T) {
	data := createTestJPEG(2048, 1024)
	photo, err := Prepare(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Prepare large image: %v", err)
	}

	img, _, err := image.Decode(bytes.NewReader(photo.Data))
	if err != nil {
		t.Fatalf("decoding result: %v", err)
	}
	bounds := img.Bounds()
	if bounds.Dx() > MaxDimension || bounds.Dy() > MaxDimension {
		t.Errorf("expected max %dx%d, got %dx%d", MaxDimension, MaxDimension, bounds.Dx(), bounds.Dy())
	}
	// Aspect ratio preserved.
	if bounds.Dx() != 1024 || bounds.Dy() != 512 {
		t.Errorf("expected 1024x512, got %dx%d", bounds.Dx(), bounds.Dy())
	}
}

func TestPrepareSmallImageNotUpscaled(t *testing.T) {
	data := createTestJPEG(50, 50)
	photo, err := Prepare(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Prepare small image: %v", err)
	}

	img, _, err := image.Decode(bytes.NewReader(photo.Data))
	if err != nil {
		t.Fatalf("decoding result: %v", err)
	}
	bounds := img.Bounds()
	if bounds.Dx() != 50 || bounds.Dy() != 50 {
		t.Errorf("small image should not be resized: got %dx%d", bounds.Dx(), bounds.Dy())
	}
}

func TestPrepareInvalidFormat(t *testing.T) {
	if _, err := Prepare(bytes.NewReader([]byte("not an image"))); err == nil {
		t.Error("expected error for invalid format")
	}
}

func TestPrepareGIFRejected(t *testing.T) {
	// GIF magic bytes.
	if _, err := Prepare(bytes.NewReader([]byte("GIF89a..."))); err == nil {
		t.Error("expected error for GIF")
	}
}
