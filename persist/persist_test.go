package persist

import (
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"shotbar/capture"
)

func testImage() *capture.CapturedImage {
	img := image.NewRGBA(image.Rect(0, 0, 32, 24))
	for y := 0; y < 24; y++ {
		for x := 0; x < 32; x++ {
			img.SetRGBA(x, y, color.RGBA{R: uint8(x * 8), G: uint8(y * 10), B: 128, A: 255})
		}
	}
	return &capture.CapturedImage{Image: img, Scale: 2, Source: "test"}
}

func fixedSaver(t *testing.T) *Saver {
	t.Helper()
	s := NewSaver()
	s.now = func() time.Time {
		return time.Date(2026, 8, 28, 14, 30, 5, 0, time.UTC)
	}
	return s
}

func TestSaveFilePNG(t *testing.T) {
	dir := t.TempDir()
	s := fixedSaver(t)

	receipt, err := s.Save(testImage(), Request{Dest: DestFile, Format: FormatPNG, Dir: dir})
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	want := filepath.Join(dir, "shot_20260828_143005.png")
	if receipt.Location != want {
		t.Errorf("Location = %q, want %q", receipt.Location, want)
	}

	f, err := os.Open(receipt.Location)
	if err != nil {
		t.Fatalf("open saved file: %v", err)
	}
	defer f.Close()
	decoded, err := png.Decode(f)
	if err != nil {
		t.Fatalf("saved file is not valid png: %v", err)
	}
	if b := decoded.Bounds(); b.Dx() != 32 || b.Dy() != 24 {
		t.Errorf("decoded bounds = %v, want 32x24", b)
	}
}

func TestSaveFileJPEGWithQuality(t *testing.T) {
	dir := t.TempDir()
	s := fixedSaver(t)

	receipt, err := s.Save(testImage(), Request{Dest: DestFile, Format: FormatJPEG, Dir: dir, JPEGQuality: 60})
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if filepath.Ext(receipt.Location) != ".jpg" {
		t.Errorf("Location = %q, want .jpg extension", receipt.Location)
	}

	f, err := os.Open(receipt.Location)
	if err != nil {
		t.Fatalf("open saved file: %v", err)
	}
	defer f.Close()
	if _, err := jpeg.Decode(f); err != nil {
		t.Errorf("saved file is not valid jpeg: %v", err)
	}
}

func TestSaveFileCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "shots")
	s := fixedSaver(t)

	receipt, err := s.Save(testImage(), Request{Dest: DestFile, Format: FormatPNG, Dir: dir})
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if _, err := os.Stat(receipt.Location); err != nil {
		t.Errorf("saved file missing: %v", err)
	}
}

func TestSaveFileUnwritableDir(t *testing.T) {
	s := fixedSaver(t)

	// A file where the directory should be makes MkdirAll fail.
	blocker := filepath.Join(t.TempDir(), "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := s.Save(testImage(), Request{Dest: DestFile, Format: FormatPNG, Dir: blocker})
	if !errors.Is(err, ErrSaveFailed) {
		t.Errorf("err = %v, want ErrSaveFailed", err)
	}
}

func TestSaveNilImage(t *testing.T) {
	s := fixedSaver(t)
	if _, err := s.Save(nil, Request{Dest: DestFile}); !errors.Is(err, ErrSaveFailed) {
		t.Errorf("err = %v, want ErrSaveFailed", err)
	}
	if _, err := s.Save(&capture.CapturedImage{}, Request{Dest: DestFile}); !errors.Is(err, ErrSaveFailed) {
		t.Errorf("err = %v, want ErrSaveFailed", err)
	}
}

func TestParseDestination(t *testing.T) {
	tests := []struct {
		in      string
		want    Destination
		wantErr bool
	}{
		{"clipboard", DestClipboard, false},
		{"file", DestFile, false},
		{"FILE", DestFile, false},
		{" clipboard ", DestClipboard, false},
		{"", DestClipboard, false},
		{"dropbox", DestClipboard, true},
	}
	for _, tt := range tests {
		got, err := ParseDestination(tt.in)
		if got != tt.want || (err != nil) != tt.wantErr {
			t.Errorf("ParseDestination(%q) = %v, %v", tt.in, got, err)
		}
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"png", FormatPNG, false},
		{"jpeg", FormatJPEG, false},
		{"jpg", FormatJPEG, false},
		{"", FormatPNG, false},
		{"webp", FormatPNG, true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if got != tt.want || (err != nil) != tt.wantErr {
			t.Errorf("ParseFormat(%q) = %v, %v", tt.in, got, err)
		}
	}
}
