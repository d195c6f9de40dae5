// ============================================================================
// Neuro-Speak - Bildschirmtext-Vorleser
// ============================================================================
//
// Package:     signal
// Description: File-flag channel between the scanner and the speaker
// Author:      ZeusXpresss
// Created:     2026-03-14
// License:     MIT
// ============================================================================

package signal

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ZeusXpresss/Neuro-Speak/pkg/core/logging"
)

// File names and flag payloads of the protocol
const (
	InputFile   = "tts_input.txt"
	TriggerFile = "tts_trigger.txt"
	CancelFile  = "tts_cancel.txt"

	TriggerPayload = "SPEAK"
	CancelPayload  = "CANCEL"
)

// Channel reads and writes the three protocol files in one directory. The
// text payload is written before the trigger flag, and through a rename so
// a reader never sees a partial write.
type Channel struct {
	dir    string
	logger *logging.Logger
}

// NewChannel creates a channel rooted at dir, creating it if needed
func NewChannel(dir string) (*Channel, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create signal directory: %w", err)
	}
	return &Channel{
		dir:    dir,
		logger: logging.New("signal"),
	}, nil
}

// Dir returns the channel directory
func (c *Channel) Dir() string {
	return c.dir
}

func (c *Channel) path(name string) string {
	return filepath.Join(c.dir, name)
}

// Reset deletes all protocol files so a fresh speaker starts clean
func (c *Channel) Reset() error {
	var errs []error
	for _, name := range []string{InputFile, TriggerFile, CancelFile} {
		if err := c.remove(name); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return err
	}
	c.logger.Debug("Signal files reset", "dir", c.dir)
	return nil
}

// CancelRequested reports whether the cancel flag is present
func (c *Channel) CancelRequested() bool {
	return c.exists(CancelFile)
}

// AckCancel removes the cancel flag
func (c *Channel) AckCancel() error {
	return c.remove(CancelFile)
}

// Triggered reports whether the trigger flag is present
func (c *Channel) Triggered() bool {
	return c.exists(TriggerFile)
}

// AckTrigger removes the trigger flag
func (c *Channel) AckTrigger() error {
	return c.remove(TriggerFile)
}

// ReadText returns the current text payload. A missing file is empty text.
func (c *Channel) ReadText() (string, error) {
	data, err := os.ReadFile(c.path(InputFile))
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("failed to read %s: %w", InputFile, err)
	}
	return string(data), nil
}

// Publish writes the text payload and then raises the trigger flag
func (c *Channel) Publish(text string) error {
	if err := c.write(InputFile, text); err != nil {
		return err
	}
	return c.write(TriggerFile, TriggerPayload)
}

// WriteText replaces the text payload without raising the trigger
func (c *Channel) WriteText(text string) error {
	return c.write(InputFile, text)
}

// RequestCancel raises the cancel flag
func (c *Channel) RequestCancel() error {
	return c.write(CancelFile, CancelPayload)
}

// Clear removes the text payload and the trigger flag
func (c *Channel) Clear() error {
	return errors.Join(c.remove(InputFile), c.remove(TriggerFile))
}

func (c *Channel) exists(name string) bool {
	_, err := os.Stat(c.path(name))
	return err == nil
}

func (c *Channel) remove(name string) error {
	if err := os.Remove(c.path(name)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove %s: %w", name, err)
	}
	return nil
}

func (c *Channel) write(name, content string) error {
	tmp, err := os.CreateTemp(c.dir, "."+name+".*")
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	if err := os.Rename(tmpName, c.path(name)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	return nil
}
