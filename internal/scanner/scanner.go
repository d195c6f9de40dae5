// ============================================================================
// Neuro-Speak - Bildschirmtext-Vorleser
// ============================================================================
//
// Package:     scanner
// Description: Screen region capture, white-text isolation and OCR
// Author:      ZeusXpresss
// Created:     2026-03-14
// License:     MIT
// ============================================================================

package scanner

import (
	"context"
	"errors"
	"image"
	"sync"
	"time"

	"github.com/ZeusXpresss/Neuro-Speak/internal/settings"
	"github.com/ZeusXpresss/Neuro-Speak/internal/speaker/signal"
	"github.com/ZeusXpresss/Neuro-Speak/internal/speaker/text"
	"github.com/ZeusXpresss/Neuro-Speak/pkg/core/logging"
)

// MinROISize is the smallest width and height accepted when a region is chosen
const MinROISize = 10

// Config configures a Scanner
type Config struct {
	ROI             settings.Rect
	MaxScanTime     time.Duration
	ScanInterval    time.Duration
	CancelSettle    time.Duration
	DebugDir        string
	SaveDebugImages bool
}

// DefaultConfig returns the default timings
func DefaultConfig() Config {
	return Config{
		MaxScanTime:  5 * time.Second,
		ScanInterval: 250 * time.Millisecond,
		CancelSettle: 100 * time.Millisecond,
		DebugDir:     "debug",
	}
}

// Scanner reads subtitle text from a screen region and hands it to the
// speaker through the signal channel
type Scanner struct {
	cfg      Config
	capturer Capturer
	ocr      OCR
	ch       *signal.Channel

	mu        sync.RWMutex
	roi       settings.Rect
	saveDebug bool

	busy   sync.Mutex
	logger *logging.Logger
}

// New creates a scanner. ch may be nil when results are only returned.
func New(cfg Config, capturer Capturer, ocr OCR, ch *signal.Channel) *Scanner {
	def := DefaultConfig()
	if cfg.MaxScanTime <= 0 {
		cfg.MaxScanTime = def.MaxScanTime
	}
	if cfg.ScanInterval <= 0 {
		cfg.ScanInterval = def.ScanInterval
	}
	if cfg.CancelSettle < 0 {
		cfg.CancelSettle = 0
	}
	if cfg.DebugDir == "" {
		cfg.DebugDir = def.DebugDir
	}
	return &Scanner{
		cfg:       cfg,
		capturer:  capturer,
		ocr:       ocr,
		ch:        ch,
		roi:       cfg.ROI,
		saveDebug: cfg.SaveDebugImages,
		logger:    logging.New("scanner"),
	}
}

// ROI returns the current region
func (s *Scanner) ROI() settings.Rect {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.roi
}

// SetROI replaces the region
func (s *Scanner) SetROI(r settings.Rect) {
	s.mu.Lock()
	s.roi = r
	s.mu.Unlock()
	s.logger.Info("Region of interest set", "roi", r.String())
}

// SetSaveDebugImages toggles writing processed images to the debug dir
func (s *Scanner) SetSaveDebugImages(on bool) {
	s.mu.Lock()
	s.saveDebug = on
	s.mu.Unlock()
}

func (s *Scanner) debugEnabled() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.saveDebug
}

// ValidateROI checks that r is usable for a capture
func ValidateROI(r settings.Rect) error {
	if r.Empty() {
		return noROIError()
	}
	if r.Width <= 0 || r.Height <= 0 {
		return invalidROIError(r.Width, r.Height)
	}
	return nil
}

// ScanOnce captures the region and returns the recognized text, trimmed.
// No files are written.
func (s *Scanner) ScanOnce(ctx context.Context) (string, error) {
	found, _, err := s.grab(ctx)
	return found, err
}

// grab returns the text and the processed image, which is nil when the
// capture itself failed
func (s *Scanner) grab(ctx context.Context) (string, image.Image, error) {
	roi := s.ROI()
	if err := ValidateROI(roi); err != nil {
		return "", nil, err
	}

	shot, err := s.capturer.Capture(ctx, roi)
	if err != nil {
		return "", nil, captureError(err)
	}

	mask := WhiteMask(shot)
	found, err := s.ocr.Recognize(ctx, mask)
	if err != nil {
		return "", mask, ocrError(err)
	}
	return found, mask, nil
}

// Publish writes text to the channel. The trigger flag is only set when
// the text is not blank; otherwise a stale trigger is removed.
func (s *Scanner) Publish(found string) (bool, error) {
	if s.ch == nil {
		return false, errors.New("no signal channel configured")
	}
	if text.Normalize(found) == "" {
		if err := s.ch.WriteText(found); err != nil {
			return false, err
		}
		return false, s.ch.AckTrigger()
	}
	return true, s.ch.Publish(found)
}

// Single captures once and publishes the result
func (s *Scanner) Single(ctx context.Context) (string, error) {
	if !s.busy.TryLock() {
		return "", errors.New("scan already running")
	}
	defer s.busy.Unlock()

	found, img, err := s.grab(ctx)
	if err != nil {
		s.saveErrorImage(img)
		return "", err
	}

	triggered, err := s.Publish(found)
	if err != nil {
		return found, err
	}
	if triggered {
		s.saveChangeImage(img)
		s.logger.Info("Single scan: text found, trigger sent")
	} else {
		s.logger.Info("Single scan: no text detected, files cleared")
	}
	return found, nil
}

// Continuous stops running speech, then scans until text shows up or
// MaxScanTime has passed. On timeout the input is cleared.
func (s *Scanner) Continuous(ctx context.Context) (string, error) {
	if !s.busy.TryLock() {
		return "", errors.New("scan already running")
	}
	defer s.busy.Unlock()

	if err := ValidateROI(s.ROI()); err != nil {
		return "", err
	}

	if s.ch != nil {
		if err := s.ch.RequestCancel(); err != nil {
			s.logger.Warn("Failed to write cancel flag", "error", err)
		}
		// give the speaker a chance to consume the cancel before new text
		if !sleep(ctx, s.cfg.CancelSettle) {
			return "", ctx.Err()
		}
	}

	deadline := time.Now().Add(s.cfg.MaxScanTime)
	maxAttempts := int(s.cfg.MaxScanTime/s.cfg.ScanInterval) + 1
	s.logger.Debug("Continuous scan started", "max_time", s.cfg.MaxScanTime)

	for attempt := 1; time.Now().Before(deadline); attempt++ {
		if attempt > 1 {
			s.logger.Trace("Retrying scan", "attempt", attempt, "max", maxAttempts)
		}

		found, img, err := s.grab(ctx)
		if err != nil {
			s.saveErrorImage(img)
			return "", err
		}

		if text.Normalize(found) != "" {
			if _, err := s.Publish(found); err != nil {
				return found, err
			}
			s.saveChangeImage(img)
			s.logger.Info("Continuous scan: text detected", "attempt", attempt)
			return found, nil
		}

		if !sleep(ctx, s.cfg.ScanInterval) {
			return "", ctx.Err()
		}
	}

	s.logger.Info("Continuous scan timed out", "max_time", s.cfg.MaxScanTime)
	if s.ch != nil {
		if err := s.ch.Clear(); err != nil {
			s.logger.Warn("Failed to clear input after timeout", "error", err)
		}
	}
	return "", timeoutError()
}

// Snapshot captures once and always writes the processed image
func (s *Scanner) Snapshot(ctx context.Context) (string, string, error) {
	found, img, err := s.grab(ctx)
	var path string
	if img != nil {
		var saveErr error
		if path, saveErr = SaveDebugImage(s.cfg.DebugDir, "manual_capture", img, time.Now()); saveErr != nil {
			s.logger.Warn("Failed to save debug image", "error", saveErr)
		}
	}
	return found, path, err
}

func (s *Scanner) saveChangeImage(img image.Image) {
	s.saveIfEnabled("change", img)
}

func (s *Scanner) saveErrorImage(img image.Image) {
	s.saveIfEnabled("error", img)
}

func (s *Scanner) saveIfEnabled(prefix string, img image.Image) {
	if img == nil || !s.debugEnabled() {
		return
	}
	path, err := SaveDebugImage(s.cfg.DebugDir, prefix, img, time.Now())
	if err != nil {
		s.logger.Warn("Failed to save debug image", "error", err)
		return
	}
	s.logger.Debug("Saved debug image", "path", path)
}

func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
