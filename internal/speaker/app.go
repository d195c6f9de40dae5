// ============================================================================
// Neuro-Speak - Bildschirmtext-Vorleser
// ============================================================================
//
// Package:     speaker
// Description: Speaker process - event loop and trigger handling
// Author:      ZeusXpresss
// Created:     2026-03-14
// License:     MIT
// ============================================================================

package speaker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ZeusXpresss/Neuro-Speak/internal/settings"
	"github.com/ZeusXpresss/Neuro-Speak/internal/speaker/playback"
	"github.com/ZeusXpresss/Neuro-Speak/internal/speaker/signal"
	"github.com/ZeusXpresss/Neuro-Speak/internal/speaker/text"
	"github.com/ZeusXpresss/Neuro-Speak/pkg/core/logging"
)

// Player is the part of the playback controller the app drives
type Player interface {
	Speak(text string) (playback.Utterance, bool)
	PauseResume() bool
	Cancel()
	State() playback.State
}

// Display receives everything a front end shows. Calls come from the event
// loop and must not block.
type Display interface {
	ShowText(text string)
	ShowStatus(status string)
	SettingsChanged(s settings.Settings)
}

// Scanner captures the configured screen region once
type Scanner interface {
	ScanOnce(ctx context.Context) (string, error)
}

// Binder registers callbacks for hotkey specifications such as "ctrl+z"
type Binder interface {
	Bind(spec string, fn func()) error
	Unbind(spec string) error
	Close()
}

// Clipboard reads text from the system clipboard
type Clipboard interface {
	ReadText() (string, error)
}

// Config wires the app to its collaborators. Binder, Clipboard, Scanner
// and Watcher are optional.
type Config struct {
	Channel      *signal.Channel
	Player       Player
	Settings     settings.Settings
	SettingsPath string
	Binder       Binder
	Clipboard    Clipboard
	Scanner      Scanner
	Watcher      *signal.Watcher
}

// App is the speaker process. All state changes happen on one goroutine
// (Run); front ends, hotkeys, the websocket bridge and the file poller only
// post actions to it.
type App struct {
	ch        *signal.Channel
	player    Player
	binder    Binder
	clipboard Clipboard
	scanner   Scanner
	watcher   *signal.Watcher

	settingsPath string
	settingsMu   sync.RWMutex
	settings     settings.Settings

	// owned by the event loop
	memo    string
	current string

	displayMu sync.RWMutex
	display   Display

	actions  chan func()
	quit     chan struct{}
	quitOnce sync.Once
	scanMu   sync.Mutex
	scanning bool

	logger *logging.Logger
}

// New creates the speaker app
func New(cfg Config) (*App, error) {
	if cfg.Channel == nil {
		return nil, fmt.Errorf("signal channel is required")
	}
	if cfg.Player == nil {
		return nil, fmt.Errorf("player is required")
	}
	return &App{
		ch:           cfg.Channel,
		player:       cfg.Player,
		binder:       cfg.Binder,
		clipboard:    cfg.Clipboard,
		scanner:      cfg.Scanner,
		watcher:      cfg.Watcher,
		settingsPath: cfg.SettingsPath,
		settings:     cfg.Settings,
		display:      nopDisplay{},
		actions:      make(chan func(), 32),
		quit:         make(chan struct{}),
		logger:       logging.New("speaker"),
	}, nil
}

// SetDisplay attaches a front end
func (a *App) SetDisplay(d Display) {
	if d == nil {
		d = nopDisplay{}
	}
	a.displayMu.Lock()
	a.display = d
	a.displayMu.Unlock()
}

func (a *App) ui() Display {
	a.displayMu.RLock()
	defer a.displayMu.RUnlock()
	return a.display
}

// Settings returns a copy of the current settings
func (a *App) Settings() settings.Settings {
	a.settingsMu.RLock()
	defer a.settingsMu.RUnlock()
	return a.settings
}

// Run starts the event loop and blocks until ctx is done or Quit is called
func (a *App) Run(ctx context.Context) error {
	if err := a.ch.Reset(); err != nil {
		a.logger.Warn("Failed to clean up signal files", "error", err)
	}

	s := a.Settings()
	a.bindHotkeys(s)
	if a.binder != nil {
		defer a.binder.Close()
	}

	var wake <-chan struct{}
	if a.watcher != nil {
		a.watcher.SetInterval(time.Duration(s.FileWatchInterval) * time.Millisecond)
		if err := a.watcher.Start(ctx); err != nil {
			return fmt.Errorf("failed to start signal watcher: %w", err)
		}
		defer a.watcher.Stop()
		wake = a.watcher.C()
	}

	a.ui().SettingsChanged(s)
	a.ui().ShowStatus(a.player.State().String())
	a.logger.Info("Speaker ready", "signal_dir", a.ch.Dir(), "renpy_mode", s.RenpyMode)

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-a.quit:
			return nil
		case fn := <-a.actions:
			a.safely(fn)
		case <-wake:
			a.safely(a.poll)
		}
	}
}

// safely runs fn and keeps the loop alive if it panics
func (a *App) safely(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			a.logger.Error("Recovered from panic in event loop", "panic", fmt.Sprint(r))
		}
	}()
	fn()
}

// post queues fn for the event loop. After Quit it is dropped.
func (a *App) post(fn func()) {
	select {
	case a.actions <- fn:
	case <-a.quit:
	}
}

// Quit stops the event loop
func (a *App) Quit() {
	a.quitOnce.Do(func() { close(a.quit) })
}

// poll runs one cycle of the file protocol
func (a *App) poll() {
	if a.ch.CancelRequested() {
		a.onCancelSignal()
		if err := a.ch.AckCancel(); err != nil {
			a.logger.Warn("Failed to remove cancel flag", "error", err)
		}
	}

	triggered := a.ch.Triggered()
	raw, err := a.ch.ReadText()
	if err != nil {
		a.logger.Error("Failed to read input text", "error", err)
		if triggered {
			a.ackTrigger()
		}
		return
	}

	a.onInput(raw, triggered)
	if triggered {
		a.ackTrigger()
	}
}

func (a *App) ackTrigger() {
	if err := a.ch.AckTrigger(); err != nil {
		a.logger.Error("Failed to remove trigger flag", "error", err)
	}
}

// onCancelSignal stops playback and forgets what was spoken, so the next
// trigger speaks even identical text
func (a *App) onCancelSignal() {
	a.player.Cancel()
	a.memo = ""
	a.logger.Debug("Cancel signal processed")
}

// onInput applies the trigger rules to the current capture
func (a *App) onInput(raw string, triggered bool) {
	processed := text.Preprocess(raw, a.Settings().RenpyMode)
	normalized := text.Normalize(processed)

	switch {
	case triggered:
		// an explicit trigger always speaks, even unchanged text
		if normalized == a.memo {
			a.memo = ""
		}
		if normalized != "" && normalized != a.memo {
			a.setText(processed)
			a.speak(processed)
			a.memo = normalized
		}

	case normalized == "" && a.memo != "":
		// subtitle disappeared
		a.player.Cancel()
		a.memo = ""
		a.setText("")

	case normalized != "" && normalized != a.memo:
		a.setText(processed)
	}
}

func (a *App) speak(processed string) {
	if u, ok := a.player.Speak(processed); ok {
		a.logger.Info("Speaking text", "id", u.ID, "chars", len(processed))
	}
}

func (a *App) setText(s string) {
	if s == a.current {
		return
	}
	a.current = s
	a.ui().ShowText(s)
}

// Speak speaks text typed or edited in a front end
func (a *App) Speak(raw string) {
	a.post(func() {
		processed := text.Preprocess(raw, a.Settings().RenpyMode)
		if processed == "" {
			return
		}
		a.speak(processed)
	})
}

// SpeakCurrent speaks the text currently on display
func (a *App) SpeakCurrent() {
	a.post(func() {
		if a.current != "" {
			a.speak(a.current)
		}
	})
}

// PauseResume toggles pause
func (a *App) PauseResume() {
	a.post(func() {
		paused := a.player.PauseResume()
		a.logger.Debug("Pause toggled", "paused", paused)
	})
}

// Cancel stops playback
func (a *App) Cancel() {
	a.post(func() {
		a.player.Cancel()
	})
}

// Clear empties the display
func (a *App) Clear() {
	a.post(func() {
		a.setText("")
	})
}

// Paste shows the preprocessed clipboard text without speaking it
func (a *App) Paste() {
	a.post(func() {
		if processed, ok := a.readClipboard(); ok {
			a.setText(processed)
		}
	})
}

// HotkeySpeak cancels playback and speaks the clipboard text
func (a *App) HotkeySpeak() {
	a.post(func() {
		a.player.Cancel()
		processed, ok := a.readClipboard()
		if !ok {
			return
		}
		a.setText(processed)
		a.speak(processed)
	})
}

func (a *App) readClipboard() (string, bool) {
	if a.clipboard == nil {
		return "", false
	}
	raw, err := a.clipboard.ReadText()
	if err != nil {
		a.logger.Warn("Failed to read clipboard", "error", err)
		return "", false
	}
	return text.Preprocess(raw, a.Settings().RenpyMode), true
}

// Scan captures the screen region once and hands the result to the speaker
// through the regular trigger path. Failures are shown as text.
func (a *App) Scan() {
	if a.scanner == nil {
		a.post(func() { a.ui().ShowStatus("Scan Error: scanner not configured.") })
		return
	}

	a.scanMu.Lock()
	if a.scanning {
		a.scanMu.Unlock()
		return
	}
	a.scanning = true
	a.scanMu.Unlock()

	go func() {
		defer func() {
			a.scanMu.Lock()
			a.scanning = false
			a.scanMu.Unlock()
		}()

		found, err := a.scanner.ScanOnce(context.Background())
		if err != nil {
			a.post(func() { a.setText(err.Error()) })
			return
		}
		// blank results clear the input so no stale trigger survives
		publish := a.ch.Publish
		if text.Normalize(found) == "" {
			publish = func(string) error { return a.ch.Clear() }
		}
		if err := publish(found); err != nil {
			a.logger.Error("Failed to publish scan result", "error", err)
		}
	}()
}

// ToggleRenpy flips Ren'Py mode and saves the settings immediately
func (a *App) ToggleRenpy() {
	a.post(func() {
		s := a.Settings()
		s.RenpyMode = !s.RenpyMode
		a.storeSettings(s)
		a.logger.Info("Renpy mode changed", "renpy_mode", s.RenpyMode)
	})
}

// ApplySettings replaces the settings: hotkeys are rebound, the poll
// interval is updated and the result is saved
func (a *App) ApplySettings(next settings.Settings) {
	a.post(func() {
		prev := a.Settings()
		if next.FileWatchInterval <= 0 {
			next.FileWatchInterval = prev.FileWatchInterval
		}

		a.unbindHotkeys(prev)
		a.storeSettings(next)
		a.bindHotkeys(next)
		if a.watcher != nil {
			a.watcher.SetInterval(time.Duration(next.FileWatchInterval) * time.Millisecond)
		}

		a.logger.Info("Settings updated",
			"speak_hotkey", next.SpeakHotkey,
			"cancel_hotkey", next.CancelHotkey,
			"file_watch_interval", next.FileWatchInterval,
			"renpy_mode", next.RenpyMode)
	})
}

func (a *App) storeSettings(s settings.Settings) {
	a.settingsMu.Lock()
	a.settings = s
	a.settingsMu.Unlock()

	if a.settingsPath != "" {
		if err := settings.Save(a.settingsPath, s); err != nil {
			a.logger.Error("Failed to save settings", "error", err)
		}
	}
	a.ui().SettingsChanged(s)
}

func (a *App) bindHotkeys(s settings.Settings) {
	if a.binder == nil {
		return
	}
	if err := a.binder.Bind(s.SpeakHotkey, a.HotkeySpeak); err != nil {
		a.logger.Warn("Failed to register hotkey", "hotkey", s.SpeakHotkey, "error", err)
	}
	if err := a.binder.Bind(s.CancelHotkey, a.Cancel); err != nil {
		a.logger.Warn("Failed to register hotkey", "hotkey", s.CancelHotkey, "error", err)
	}
}

// unbindHotkeys ignores failures; a key may never have been bound
func (a *App) unbindHotkeys(s settings.Settings) {
	if a.binder == nil {
		return
	}
	_ = a.binder.Unbind(s.SpeakHotkey)
	_ = a.binder.Unbind(s.CancelHotkey)
}

// RemoteSpeak implements signal.Handler: same as text file plus trigger
func (a *App) RemoteSpeak(raw string) {
	a.post(func() {
		// the input file must match, or the next poll sees the text vanish
		if err := a.ch.WriteText(raw); err != nil {
			a.logger.Warn("Failed to write input text", "error", err)
		}
		a.onInput(raw, true)
	})
}

// RemoteCancel implements signal.Handler: same as the cancel flag
func (a *App) RemoteCancel() {
	a.post(a.onCancelSignal)
}

type nopDisplay struct{}

func (nopDisplay) ShowText(string)                  {}
func (nopDisplay) ShowStatus(string)                {}
func (nopDisplay) SettingsChanged(settings.Settings) {}
