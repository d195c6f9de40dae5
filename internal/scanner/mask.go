package scanner

import (
	"image"
	"image/color"
)

// Thresholds for subtitle text on an 8-bit HSV scale: bright and close to
// grey. Hue is not constrained.
const (
	MinValue      = 180
	MaxSaturation = 70
)

// WhiteMask isolates white text. Matching pixels become white, everything
// else black.
func WhiteMask(img image.Image) *image.Gray {
	b := img.Bounds()
	mask := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))

	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, _ := img.At(x, y).RGBA()
			if isWhite(uint8(r>>8), uint8(g>>8), uint8(bl>>8)) {
				mask.SetGray(x-b.Min.X, y-b.Min.Y, color.Gray{Y: 255})
			}
		}
	}
	return mask
}

// isWhite computes value and saturation the way OpenCV does for 8-bit
// images: V = max, S = 255 * (max - min) / max.
func isWhite(r, g, b uint8) bool {
	hi := max(r, g, b)
	if int(hi) < MinValue {
		return false
	}
	lo := min(r, g, b)
	sat := (255*(int(hi)-int(lo)) + int(hi)/2) / int(hi)
	return sat <= MaxSaturation
}
