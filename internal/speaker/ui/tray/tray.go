// ============================================================================
// Neuro-Speak - Bildschirmtext-Vorleser
// ============================================================================
//
// Package:     tray
// Description: System tray front end using fyne.io/systray
// Author:      ZeusXpresss
// Created:     2026-03-14
// License:     MIT
// ============================================================================

package tray

import (
	"sync"

	"fyne.io/systray"

	"github.com/ZeusXpresss/Neuro-Speak/internal/settings"
	"github.com/ZeusXpresss/Neuro-Speak/internal/speaker/playback"
)

// previewLimit is the number of runes of the current text shown in the menu
const previewLimit = 48

// Actions are the controls offered in the menu
type Actions interface {
	SpeakCurrent()
	PauseResume()
	Cancel()
	Paste()
	Scan()
	ToggleRenpy()
	Quit()
}

// TrayApp is the system tray front end. It implements the speaker Display.
type TrayApp struct {
	actions Actions

	mu       sync.Mutex
	running  bool
	status   string
	text     string
	state    playback.State
	settings settings.Settings

	menuStatus  *systray.MenuItem
	menuText    *systray.MenuItem
	menuSpeak   *systray.MenuItem
	menuPause   *systray.MenuItem
	menuCancel  *systray.MenuItem
	menuPaste   *systray.MenuItem
	menuScan    *systray.MenuItem
	menuRenpy   *systray.MenuItem
	menuHotkeys *systray.MenuItem
	menuQuit    *systray.MenuItem
}

// New creates the tray front end
func New(actions Actions) *TrayApp {
	return &TrayApp{
		actions:  actions,
		status:   playback.StateIdle.String(),
		state:    playback.StateIdle,
		settings: settings.Default(),
	}
}

// Run starts the tray (blocking). It must be called from the main goroutine.
func (t *TrayApp) Run() {
	systray.Run(t.onReady, t.onExit)
}

// Quit removes the tray icon and makes Run return
func (t *TrayApp) Quit() {
	systray.Quit()
}

func (t *TrayApp) onReady() {
	t.mu.Lock()
	defer t.mu.Unlock()

	systray.SetIcon(IconBytes(t.state))
	systray.SetTitle("")
	systray.SetTooltip("Neuro-Speak")

	t.menuStatus = systray.AddMenuItem("Status: "+t.status, "Aktueller Status")
	t.menuStatus.Disable()
	t.menuText = systray.AddMenuItem(Preview(t.text), "Aktueller Text")
	t.menuText.Disable()
	t.menuHotkeys = systray.AddMenuItem(hotkeyTitle(t.settings), "Globale Tasten")
	t.menuHotkeys.Disable()

	systray.AddSeparator()

	t.menuSpeak = systray.AddMenuItem("Vorlesen", "Angezeigten Text vorlesen")
	t.menuPause = systray.AddMenuItem(pauseTitle(t.state), "Wiedergabe pausieren oder fortsetzen")
	t.menuCancel = systray.AddMenuItem("Abbrechen", "Wiedergabe beenden")

	systray.AddSeparator()

	t.menuPaste = systray.AddMenuItem("Aus Zwischenablage", "Text aus der Zwischenablage anzeigen")
	t.menuScan = systray.AddMenuItem("Bereich scannen", "Bildschirmbereich einmal erfassen")
	t.menuRenpy = systray.AddMenuItemCheckbox("Ren'Py-Modus", "Sprechernamen und Sonderzeichen entfernen", t.settings.RenpyMode)

	systray.AddSeparator()

	t.menuQuit = systray.AddMenuItem("Beenden", "Anwendung beenden")

	t.running = true
	go t.handleClicks()
}

func (t *TrayApp) onExit() {
	t.mu.Lock()
	t.running = false
	t.mu.Unlock()
}

// handleClicks handles menu item clicks
func (t *TrayApp) handleClicks() {
	for {
		select {
		case <-t.menuSpeak.ClickedCh:
			t.actions.SpeakCurrent()
		case <-t.menuPause.ClickedCh:
			t.actions.PauseResume()
		case <-t.menuCancel.ClickedCh:
			t.actions.Cancel()
		case <-t.menuPaste.ClickedCh:
			t.actions.Paste()
		case <-t.menuScan.ClickedCh:
			t.actions.Scan()
		case <-t.menuRenpy.ClickedCh:
			t.actions.ToggleRenpy()
		case <-t.menuQuit.ClickedCh:
			t.actions.Quit()
			systray.Quit()
			return
		}
	}
}

// ShowText implements speaker.Display
func (t *TrayApp) ShowText(text string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.text = text
	if t.running {
		t.menuText.SetTitle(Preview(text))
	}
}

// ShowStatus implements speaker.Display
func (t *TrayApp) ShowStatus(status string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.status = status
	if t.running {
		t.menuStatus.SetTitle("Status: " + status)
	}
}

// SettingsChanged implements speaker.Display
func (t *TrayApp) SettingsChanged(s settings.Settings) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.settings = s
	if !t.running {
		return
	}
	t.menuHotkeys.SetTitle(hotkeyTitle(s))
	if s.RenpyMode {
		t.menuRenpy.Check()
	} else {
		t.menuRenpy.Uncheck()
	}
}

// StateChanged is a playback.StateChangeListener
func (t *TrayApp) StateChanged(_, to playback.State) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state = to
	t.status = to.String()
	if !t.running {
		return
	}
	systray.SetIcon(IconBytes(to))
	t.menuStatus.SetTitle("Status: " + t.status)
	t.menuPause.SetTitle(pauseTitle(to))
}

// Preview shortens text for a menu title
func Preview(text string) string {
	if text == "" {
		return "Kein Text"
	}
	r := []rune(text)
	if len(r) <= previewLimit {
		return text
	}
	return string(r[:previewLimit-1]) + "…"
}

func pauseTitle(state playback.State) string {
	if state == playback.StatePaused {
		return "Fortsetzen"
	}
	return "Pause"
}

func hotkeyTitle(s settings.Settings) string {
	return "Tasten: " + s.SpeakHotkey + " / " + s.CancelHotkey
}
