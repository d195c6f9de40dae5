package scanner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"os/exec"
	"strconv"
	"strings"
)

// OCR recognizes text in an image
type OCR interface {
	Recognize(ctx context.Context, img image.Image) (string, error)
}

// Tesseract runs the tesseract command line tool
type Tesseract struct {
	Binary   string
	Language string
	PSM      int
	OEM      int
}

// NewTesseract creates a recognizer with uniform-block segmentation
func NewTesseract(binary, language string) *Tesseract {
	if binary == "" {
		binary = "tesseract"
	}
	if language == "" {
		language = "eng"
	}
	return &Tesseract{Binary: binary, Language: language, PSM: 6, OEM: 3}
}

// Args returns the command line arguments; the image comes on stdin
func (t *Tesseract) Args() []string {
	return []string{
		"stdin", "stdout",
		"-l", t.Language,
		"--oem", strconv.Itoa(t.OEM),
		"--psm", strconv.Itoa(t.PSM),
	}
}

// Available reports whether the binary can be found
func (t *Tesseract) Available() error {
	if _, err := exec.LookPath(t.Binary); err != nil {
		return fmt.Errorf("%w: %s", ErrTesseractNotFound, t.Binary)
	}
	return nil
}

// Recognize implements OCR
func (t *Tesseract) Recognize(ctx context.Context, img image.Image) (string, error) {
	path, err := exec.LookPath(t.Binary)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrTesseractNotFound, t.Binary)
	}

	var input bytes.Buffer
	if err := png.Encode(&input, img); err != nil {
		return "", fmt.Errorf("failed to encode image: %w", err)
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, path, t.Args()...)
	cmd.Stdin = &input
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return "", fmt.Errorf("tesseract failed: %s", strings.TrimSpace(stderr.String()))
		}
		return "", fmt.Errorf("tesseract failed: %w", err)
	}

	return strings.TrimSpace(stdout.String()), nil
}
