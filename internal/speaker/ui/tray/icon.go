package tray

import (
	"bytes"
	"image"
	"image/color"
	"image/png"

	"github.com/ZeusXpresss/Neuro-Speak/internal/speaker/playback"
)

// Icon sizes for the menu bar (retina-ready height)
const (
	iconWidth  = 44
	iconHeight = 22
)

// IconColor returns the icon color for a playback state
func IconColor(state playback.State) color.RGBA {
	switch state {
	case playback.StateSpeaking:
		return color.RGBA{52, 199, 89, 255} // Green
	case playback.StatePaused:
		return color.RGBA{255, 149, 0, 255} // Orange
	default:
		return color.RGBA{255, 255, 255, 255} // White
	}
}

// IconBytes renders the "NS" tray icon as PNG
func IconBytes(state playback.State) []byte {
	img := image.NewRGBA(image.Rect(0, 0, iconWidth, iconHeight))
	drawText(img, "NS", 8, 4, IconColor(state))

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return minimalPNG()
	}
	return buf.Bytes()
}

// 5x7 bitmap font, one byte per row
var bitmapFont = map[rune][]byte{
	'N': {
		0b10001,
		0b11001,
		0b10101,
		0b10101,
		0b10011,
		0b10001,
		0b10001,
	},
	'S': {
		0b01111,
		0b10000,
		0b10000,
		0b01110,
		0b00001,
		0b00001,
		0b11110,
	},
}

// drawText draws text at 2x scale
func drawText(img *image.RGBA, text string, startX, startY int, c color.RGBA) {
	const (
		charWidth  = 6
		charHeight = 7
		scale      = 2
	)
	b := img.Bounds()
	x := startX

	for _, ch := range text {
		if pattern, ok := bitmapFont[ch]; ok {
			for row := 0; row < charHeight; row++ {
				for col := 0; col < 5; col++ {
					if pattern[row]&(1<<(4-col)) == 0 {
						continue
					}
					for sy := 0; sy < scale; sy++ {
						for sx := 0; sx < scale; sx++ {
							p := image.Pt(x+col*scale+sx, startY+row*scale+sy)
							if p.In(b) {
								img.SetRGBA(p.X, p.Y, c)
							}
						}
					}
				}
			}
		}
		x += charWidth * scale
	}
}

// minimalPNG returns a 1x1 PNG as fallback
func minimalPNG() []byte {
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	img.Set(0, 0, color.Black)
	var buf bytes.Buffer
	_ = png.Encode(&buf, img)
	return buf.Bytes()
}
