package scanner

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"time"
)

// DebugImageName returns the file name for a debug image taken at t
func DebugImageName(prefix string, t time.Time) string {
	return fmt.Sprintf("%s_ocr_image_%s_%03d.png", prefix, t.Format("20060102_150405"), t.Nanosecond()/int(time.Millisecond))
}

// SaveDebugImage writes img as PNG into dir and returns the path
func SaveDebugImage(dir, prefix string, img image.Image, t time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create debug directory: %w", err)
	}

	path := filepath.Join(dir, DebugImageName(prefix, t))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create debug image: %w", err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return "", fmt.Errorf("failed to encode debug image: %w", err)
	}
	return path, f.Close()
}
