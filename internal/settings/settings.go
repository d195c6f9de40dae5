// ============================================================================
// Neuro-Speak - Bildschirmtext-Vorleser
// ============================================================================
//
// Package:     settings
// Description: User settings shared by the speaker and the scanner
// Author:      ZeusXpresss
// Created:     2026-03-14
// License:     MIT
// ============================================================================

package settings

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Rect is a screen region in pixels
type Rect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Empty reports whether no region was selected
func (r Rect) Empty() bool {
	return r == Rect{}
}

// String formats the region as WxH+X+Y
func (r Rect) String() string {
	return fmt.Sprintf("%dx%d+%d+%d", r.Width, r.Height, r.X, r.Y)
}

// ParseRect parses WxH+X+Y
func ParseRect(s string) (Rect, error) {
	var r Rect
	size, offset, ok := strings.Cut(strings.TrimSpace(s), "+")
	if !ok {
		return r, fmt.Errorf("invalid region %q, want WxH+X+Y", s)
	}
	w, h, ok := strings.Cut(size, "x")
	if !ok {
		return r, fmt.Errorf("invalid region %q, want WxH+X+Y", s)
	}
	x, y, ok := strings.Cut(offset, "+")
	if !ok {
		return r, fmt.Errorf("invalid region %q, want WxH+X+Y", s)
	}

	var err error
	for _, p := range []struct {
		dst *int
		src string
	}{{&r.Width, w}, {&r.Height, h}, {&r.X, x}, {&r.Y, y}} {
		if *p.dst, err = strconv.Atoi(p.src); err != nil {
			return Rect{}, fmt.Errorf("invalid region %q: %w", s, err)
		}
	}
	return r, nil
}

// Settings holds persistent user settings
type Settings struct {
	SpeakHotkey          string `json:"speak_hotkey"`
	CancelHotkey         string `json:"cancel_hotkey"`
	FileWatchInterval    int    `json:"file_watch_interval"`
	RenpyMode            bool   `json:"renpy_mode"`
	HotkeyContinuousScan string `json:"hotkey_continuous_scan"`
	HotkeyResetCrop      string `json:"hotkey_reset_crop"`

	ROI             Rect `json:"roi"`
	SaveDebugImages bool `json:"save_debug_images"`
}

// Default returns the default settings
func Default() Settings {
	return Settings{
		SpeakHotkey:          "z",
		CancelHotkey:         "x",
		FileWatchInterval:    200,
		RenpyMode:            true,
		HotkeyContinuousScan: "space",
		HotkeyResetCrop:      "ctrl+r",
	}
}

// Load reads settings from path. Keys missing from the file keep their
// defaults; a missing file yields the defaults.
func Load(path string) (Settings, error) {
	s := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return s, fmt.Errorf("failed to read settings: %w", err)
	}

	if err := json.Unmarshal(data, &s); err != nil {
		return Default(), fmt.Errorf("failed to parse settings: %w", err)
	}
	if s.FileWatchInterval <= 0 {
		s.FileWatchInterval = Default().FileWatchInterval
	}
	return s, nil
}

// Save writes settings to path
func Save(path string, s Settings) error {
	data, err := json.MarshalIndent(s, "", "    ")
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create settings directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}
	return nil
}

// Set changes one setting by its JSON key
func (s *Settings) Set(key, value string) error {
	switch key {
	case "speak_hotkey":
		s.SpeakHotkey = value
	case "cancel_hotkey":
		s.CancelHotkey = value
	case "hotkey_continuous_scan":
		s.HotkeyContinuousScan = value
	case "hotkey_reset_crop":
		s.HotkeyResetCrop = value
	case "file_watch_interval":
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return fmt.Errorf("file_watch_interval must be a positive number of milliseconds")
		}
		s.FileWatchInterval = n
	case "renpy_mode":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("renpy_mode must be true or false")
		}
		s.RenpyMode = b
	case "save_debug_images":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("save_debug_images must be true or false")
		}
		s.SaveDebugImages = b
	case "roi":
		r, err := ParseRect(value)
		if err != nil {
			return err
		}
		s.ROI = r
	default:
		return fmt.Errorf("unknown setting: %s", key)
	}
	return nil
}
