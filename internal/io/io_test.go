package ioutils

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func solidImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 40, G: 80, B: 160, A: 255})
		}
	}
	return img
}

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"normal-file.jpg", "normal-file.jpg"},
		{"AC/DC_12-05-2025", "AC_DC_12-05-2025"},
		{"file:with:colons", "file_with_colons"},
		{"file<with>brackets", "file_with_brackets"},
		{"file/with\\slashes", "file_with_slashes"},
		{"file|with|pipes", "file_with_pipes"},
		{"file?with*wildcards", "file_with_wildcards"},
		{"file\"with\"quotes", "file_with_quotes"},
		{"trailing dots...", "trailing dots"},
		{"multiple   spaces", "multiple spaces"},
		{"trailing spaces   ", "trailing spaces"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := SanitizeFileName(tt.input)
			if got != tt.want {
				t.Errorf("SanitizeFileName(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.txt")

	if err := WriteFile(path, []byte("first")); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	failure := errors.New("encoder exploded")
	err := WriteFileAtomic(path, func(w io.Writer) error {
		w.Write([]byte("partial"))
		return failure
	})
	if !errors.Is(err, failure) {
		t.Fatalf("WriteFileAtomic error = %v, want %v", err, failure)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "first" {
		t.Errorf("file content = %q, want previous content preserved", data)
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("temporary files left behind: %d entries", len(entries))
	}
}

func TestLoadImageAndEncodeJPEG(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.png")

	var buf bytes.Buffer
	if err := png.Encode(&buf, solidImage(32, 16)); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(src, buf.Bytes(), 0644); err != nil {
		t.Fatal(err)
	}

	img, err := LoadImage(src)
	if err != nil {
		t.Fatalf("LoadImage: %v", err)
	}
	if img.Bounds().Dx() != 32 || img.Bounds().Dy() != 16 {
		t.Errorf("bounds = %v, want 32x16", img.Bounds())
	}

	var out bytes.Buffer
	if err := EncodeJPEG(&out, img, 0); err != nil {
		t.Fatalf("EncodeJPEG: %v", err)
	}
	if _, err := jpeg.Decode(&out); err != nil {
		t.Errorf("output is not a JPEG: %v", err)
	}

	if _, err := LoadImage(filepath.Join(dir, "missing.jpg")); err == nil {
		t.Error("LoadImage should fail for a missing file")
	}
}

func TestImageService_Normalize(t *testing.T) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, solidImage(200, 100)); err != nil {
		t.Fatal(err)
	}

	svc := NewImageService(90)
	out, err := svc.Normalize(context.Background(), buf.Bytes(), 50)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(out))
	if err != nil {
		t.Fatal(err)
	}
	if format != "jpeg" {
		t.Errorf("format = %s, want jpeg", format)
	}
	if cfg.Width != 50 || cfg.Height != 25 {
		t.Errorf("size = %dx%d, want 50x25", cfg.Width, cfg.Height)
	}
}

func TestFit_NoUpscale(t *testing.T) {
	img := solidImage(10, 20)
	if got := Fit(img, 100); got != image.Image(img) {
		t.Error("Fit should return small images unchanged")
	}
	if got := Fit(img, 0); got != image.Image(img) {
		t.Error("Fit with maxSize 0 should return the image unchanged")
	}
	if got := Fit(img, 10).Bounds(); got.Dx() != 5 || got.Dy() != 10 {
		t.Errorf("Fit(10) = %v, want 5x10", got)
	}
}

func TestCheckImageFile(t *testing.T) {
	dir := t.TempDir()

	var buf bytes.Buffer
	png.Encode(&buf, solidImage(4, 4))
	imgPath := filepath.Join(dir, "a.png")
	os.WriteFile(imgPath, buf.Bytes(), 0644)

	txtPath := filepath.Join(dir, "a.txt")
	os.WriteFile(txtPath, []byte("hello"), 0644)

	if err := CheckImageFile(imgPath); err != nil {
		t.Errorf("CheckImageFile(png) = %v", err)
	}
	if err := CheckImageFile(txtPath); err == nil {
		t.Error("CheckImageFile(txt) should fail")
	}
}
