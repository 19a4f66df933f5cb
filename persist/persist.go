// Package persist routes a captured image to its destination: the system
// clipboard or a timestamped file. The capture core hands the image off here
// and knows nothing about encodings or paths.
package persist

import (
	"bytes"
	"errors"
	"fmt"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"golang.design/x/clipboard"

	"shotbar/capture"
)

// ErrSaveFailed wraps any persistence error. The in-memory image is
// discarded; there is no alternate-location retry.
var ErrSaveFailed = errors.New("save failed")

// Destination selects where a capture goes.
type Destination int

const (
	DestClipboard Destination = iota
	DestFile
)

func (d Destination) String() string {
	if d == DestFile {
		return "file"
	}
	return "clipboard"
}

// ParseDestination accepts the config spellings of a destination.
func ParseDestination(s string) (Destination, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "clipboard":
		return DestClipboard, nil
	case "file":
		return DestFile, nil
	}
	return DestClipboard, fmt.Errorf("unknown destination %q (expected clipboard or file)", s)
}

// Format selects the image encoding for file destinations.
type Format int

const (
	FormatPNG Format = iota
	FormatJPEG
)

func (f Format) Ext() string {
	if f == FormatJPEG {
		return "jpg"
	}
	return "png"
}

// ParseFormat accepts the config spellings of an image format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "png":
		return FormatPNG, nil
	case "jpg", "jpeg":
		return FormatJPEG, nil
	}
	return FormatPNG, fmt.Errorf("unknown image format %q (expected png or jpeg)", s)
}

// Request carries the preferences in force for one save. Read fresh from
// config at the moment of saving, never cached across captures.
type Request struct {
	Dest        Destination
	Format      Format
	Dir         string
	JPEGQuality int
}

// Receipt describes where the image went, for the status toast.
type Receipt struct {
	Location string
	Bytes    int
}

// Saver encodes and writes captured images.
type Saver struct {
	clipOnce sync.Once
	clipErr  error
	writeMu  sync.Mutex
	now      func() time.Time
}

func NewSaver() *Saver {
	return &Saver{now: time.Now}
}

// Save encodes the image per the request and delivers it. The Saver owns the
// image from here; callers must not reuse it.
func (s *Saver) Save(img *capture.CapturedImage, req Request) (Receipt, error) {
	if img == nil || img.Image == nil {
		return Receipt{}, fmt.Errorf("%w: no image", ErrSaveFailed)
	}

	switch req.Dest {
	case DestClipboard:
		return s.saveClipboard(img)
	case DestFile:
		return s.saveFile(img, req)
	}
	return Receipt{}, fmt.Errorf("%w: unknown destination %d", ErrSaveFailed, req.Dest)
}

// saveClipboard always writes PNG: the clipboard image transport only
// understands PNG payloads, whatever format files are configured for.
func (s *Saver) saveClipboard(img *capture.CapturedImage) (Receipt, error) {
	s.clipOnce.Do(func() { s.clipErr = clipboard.Init() })
	if s.clipErr != nil {
		return Receipt{}, fmt.Errorf("%w: clipboard init: %v", ErrSaveFailed, s.clipErr)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img.Image); err != nil {
		return Receipt{}, fmt.Errorf("%w: encode png: %v", ErrSaveFailed, err)
	}

	// Guarded write: parallel clipboard writes corrupt each other.
	s.writeMu.Lock()
	clipboard.Write(clipboard.FmtImage, buf.Bytes())
	s.writeMu.Unlock()

	return Receipt{Location: "clipboard", Bytes: buf.Len()}, nil
}

func (s *Saver) saveFile(img *capture.CapturedImage, req Request) (Receipt, error) {
	var buf bytes.Buffer
	switch req.Format {
	case FormatJPEG:
		q := req.JPEGQuality
		if q <= 0 || q > 100 {
			q = 90
		}
		if err := jpeg.Encode(&buf, img.Image, &jpeg.Options{Quality: q}); err != nil {
			return Receipt{}, fmt.Errorf("%w: encode jpeg: %v", ErrSaveFailed, err)
		}
	default:
		if err := png.Encode(&buf, img.Image); err != nil {
			return Receipt{}, fmt.Errorf("%w: encode png: %v", ErrSaveFailed, err)
		}
	}

	dir := req.Dir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Receipt{}, fmt.Errorf("%w: create %s: %v", ErrSaveFailed, dir, err)
	}
	name := fmt.Sprintf("shot_%s.%s", s.now().Format("20060102_150405"), req.Format.Ext())
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return Receipt{}, fmt.Errorf("%w: write %s: %v", ErrSaveFailed, path, err)
	}

	return Receipt{Location: path, Bytes: buf.Len()}, nil
}
