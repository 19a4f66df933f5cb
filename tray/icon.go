package tray

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
)

// SVGContent is the source artwork for the tray icon: a dashed selection
// rectangle over a camera body.
const SVGContent = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 16 16" width="16" height="16">
  <rect x="1.5" y="1.5" width="13" height="13" fill="none" stroke="#0078d4" stroke-width="1" stroke-dasharray="2,1" opacity="0.8"/>
  <rect x="4" y="6" width="8" height="6" rx="1" fill="#333333"/>
  <rect x="6.5" y="4.5" width="3" height="2" rx="0.5" fill="#333333"/>
  <circle cx="8" cy="9" r="2" fill="none" stroke="#ffffff" stroke-width="1"/>
</svg>`

// iconPNG rasterizes a 16x16 stand-in for the SVG at runtime so the binary
// carries no asset pipeline. systray accepts PNG bytes on every platform we
// build for.
func iconPNG() []byte {
	const size = 16
	img := image.NewRGBA(image.Rect(0, 0, size, size))

	frame := color.RGBA{R: 0x00, G: 0x78, B: 0xD4, A: 0xFF}
	body := color.RGBA{R: 0x33, G: 0x33, B: 0x33, A: 0xFF}
	lens := color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}

	// Dashed selection border.
	for i := 1; i < size-1; i++ {
		if i%3 != 0 {
			img.SetRGBA(i, 1, frame)
			img.SetRGBA(i, size-2, frame)
			img.SetRGBA(1, i, frame)
			img.SetRGBA(size-2, i, frame)
		}
	}
	// Camera body with viewfinder bump.
	for y := 6; y < 12; y++ {
		for x := 4; x < 12; x++ {
			img.SetRGBA(x, y, body)
		}
	}
	for y := 4; y < 6; y++ {
		for x := 6; x < 10; x++ {
			img.SetRGBA(x, y, body)
		}
	}
	// Lens ring.
	for _, p := range [][2]int{{7, 7}, {8, 7}, {6, 8}, {9, 8}, {6, 9}, {9, 9}, {7, 10}, {8, 10}} {
		img.SetRGBA(p[0], p[1], lens)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil
	}
	return buf.Bytes()
}
