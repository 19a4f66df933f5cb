package capture

import "image"

const (
	// blackMaxSamples bounds the heuristic's cost regardless of image size.
	blackMaxSamples = 4096
	// blackBrightness is the near-zero brightness floor; a sample at or
	// below it counts as black.
	blackBrightness = 16
	// blackMinLitFrac is the fraction of non-black samples below which a
	// capture is treated as a failed/empty frame.
	blackMinLitFrac = 0.01
)

// MostlyBlack reports whether a captured frame is effectively empty.
//
// It samples a deterministic stride through the buffer and takes the max of
// the first three bytes of each pixel as its brightness, which stays correct
// whether the buffer is RGBA or BGRA. The heuristic is deliberately
// approximate: a legitimately all-black source triggers an unnecessary
// fallback retry, and that trade-off favors recoverability over precision.
func MostlyBlack(img *image.RGBA) bool {
	if img == nil {
		return true
	}
	total := img.Bounds().Dx() * img.Bounds().Dy()
	if total == 0 {
		return true
	}

	step := total/blackMaxSamples + 1
	sampled := 0
	lit := 0
	for i := 0; i < total; i += step {
		off := i * 4
		if off+2 >= len(img.Pix) {
			break
		}
		b := img.Pix[off]
		if img.Pix[off+1] > b {
			b = img.Pix[off+1]
		}
		if img.Pix[off+2] > b {
			b = img.Pix[off+2]
		}
		sampled++
		if b > blackBrightness {
			lit++
		}
	}
	if sampled == 0 {
		return true
	}
	return float64(lit)/float64(sampled) < blackMinLitFrac
}
