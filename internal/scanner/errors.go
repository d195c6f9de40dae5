package scanner

import (
	"errors"
	"fmt"
)

// Sentinel errors. Scan failures are returned as *Error, whose message is
// the text shown to the user in place of a subtitle.
var (
	ErrNoROI             = errors.New("region of interest not selected")
	ErrInvalidROI        = errors.New("invalid region of interest")
	ErrTimeout           = errors.New("no text found before deadline")
	ErrTesseractNotFound = errors.New("tesseract not found")
	ErrCapture           = errors.New("screen capture failed")
	ErrOCR               = errors.New("text recognition failed")
)

// Error is a scan failure with a display message
type Error struct {
	Text string
	Err  error
}

func (e *Error) Error() string { return e.Text }

func (e *Error) Unwrap() error { return e.Err }

func noROIError() error {
	return &Error{Text: "Scan Error: ROI not selected.", Err: ErrNoROI}
}

func invalidROIError(w, h int) error {
	return &Error{
		Text: fmt.Sprintf("Capture Error: Invalid ROI dimensions (W:%d, H:%d). Please reselect a valid area (min 10x10).", w, h),
		Err:  ErrInvalidROI,
	}
}

func timeoutError() error {
	return &Error{Text: "Scan Timeout: No text found within limits.", Err: ErrTimeout}
}

func captureError(err error) error {
	return &Error{Text: fmt.Sprintf("Capture Error: %v", err), Err: errors.Join(ErrCapture, err)}
}

func ocrError(err error) error {
	if errors.Is(err, ErrTesseractNotFound) {
		return &Error{Text: "Tesseract Error: Path incorrect or Tesseract missing!", Err: err}
	}
	return &Error{Text: fmt.Sprintf("OCR Runtime Error: %v", err), Err: errors.Join(ErrOCR, err)}
}
