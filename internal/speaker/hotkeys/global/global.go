// ============================================================================
// Neuro-Speak - Bildschirmtext-Vorleser
// ============================================================================
//
// Package:     global
// Description: System-wide hotkey registration
// Author:      ZeusXpresss
// Created:     2026-03-14
// License:     MIT
// ============================================================================

// Package global registers system-wide hotkeys through golang.design/x/hotkey.
// On Linux that library needs an X11 display as soon as it is linked, so only
// commands that actually bind keys import this package.
package global

import (
	"fmt"
	"runtime"
	"sync"

	"golang.design/x/hotkey"

	"github.com/ZeusXpresss/Neuro-Speak/internal/speaker/hotkeys"
	"github.com/ZeusXpresss/Neuro-Speak/pkg/core/logging"
)

var commonKeys = map[string]hotkey.Key{
	"space":  hotkey.KeySpace,
	"enter":  hotkey.KeyReturn,
	"escape": hotkey.KeyEscape,
	"tab":    hotkey.KeyTab,
	"delete": hotkey.KeyDelete,
	"left":   hotkey.KeyLeft,
	"right":  hotkey.KeyRight,
	"up":     hotkey.KeyUp,
	"down":   hotkey.KeyDown,
	"0":      hotkey.Key0,
	"1":      hotkey.Key1,
	"2":      hotkey.Key2,
	"3":      hotkey.Key3,
	"4":      hotkey.Key4,
	"5":      hotkey.Key5,
	"6":      hotkey.Key6,
	"7":      hotkey.Key7,
	"8":      hotkey.Key8,
	"9":      hotkey.Key9,
	"f1":     hotkey.KeyF1,
	"f2":     hotkey.KeyF2,
	"f3":     hotkey.KeyF3,
	"f4":     hotkey.KeyF4,
	"f5":     hotkey.KeyF5,
	"f6":     hotkey.KeyF6,
	"f7":     hotkey.KeyF7,
	"f8":     hotkey.KeyF8,
	"f9":     hotkey.KeyF9,
	"f10":    hotkey.KeyF10,
	"f11":    hotkey.KeyF11,
	"f12":    hotkey.KeyF12,
}

var letters = []hotkey.Key{
	hotkey.KeyA, hotkey.KeyB, hotkey.KeyC, hotkey.KeyD, hotkey.KeyE, hotkey.KeyF,
	hotkey.KeyG, hotkey.KeyH, hotkey.KeyI, hotkey.KeyJ, hotkey.KeyK, hotkey.KeyL,
	hotkey.KeyM, hotkey.KeyN, hotkey.KeyO, hotkey.KeyP, hotkey.KeyQ, hotkey.KeyR,
	hotkey.KeyS, hotkey.KeyT, hotkey.KeyU, hotkey.KeyV, hotkey.KeyW, hotkey.KeyX,
	hotkey.KeyY, hotkey.KeyZ,
}

// translate maps a parsed binding to the library's codes for this platform
func translate(b hotkeys.Binding) ([]hotkey.Modifier, hotkey.Key, error) {
	mods := make([]hotkey.Modifier, 0, len(b.Mods))
	for _, m := range b.Mods {
		mod, ok := platformModifiers[m]
		if !ok {
			return nil, 0, fmt.Errorf("%w: modifier %q on %s", hotkeys.ErrUnknownKey, m, runtime.GOOS)
		}
		mods = append(mods, mod)
	}

	if k, ok := platformKeys[b.Key]; ok {
		return mods, k, nil
	}
	if k, ok := commonKeys[b.Key]; ok {
		return mods, k, nil
	}
	if len(b.Key) == 1 && b.Key[0] >= 'a' && b.Key[0] <= 'z' {
		return mods, letters[b.Key[0]-'a'], nil
	}
	return nil, 0, fmt.Errorf("%w: %q", hotkeys.ErrUnknownKey, b.Spec)
}

type registration struct {
	hk   *hotkey.Hotkey
	done chan struct{}
}

// Binder registers system-wide hotkeys
type Binder struct {
	mu     sync.Mutex
	active map[string]*registration
	logger *logging.Logger
}

// NewBinder creates a binder for system-wide hotkeys
func NewBinder() *Binder {
	return &Binder{
		active: make(map[string]*registration),
		logger: logging.New("hotkeys"),
	}
}

// Bind registers spec and calls fn on every key press. Binding a spec that
// is already bound replaces its callback.
// Note: On macOS, golang.design/x/hotkey needs the main thread and can crash
// when registered from elsewhere, so binding is refused there.
func (g *Binder) Bind(spec string, fn func()) error {
	if runtime.GOOS == "darwin" {
		return hotkeys.ErrUnsupported
	}

	b, err := hotkeys.Parse(spec)
	if err != nil {
		return err
	}
	mods, key, err := translate(b)
	if err != nil {
		return err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if old, ok := g.active[b.Spec]; ok {
		g.release(b.Spec, old)
	}

	hk := hotkey.New(mods, key)
	if err := hk.Register(); err != nil {
		return fmt.Errorf("failed to register hotkey %q: %w", spec, err)
	}

	reg := &registration{hk: hk, done: make(chan struct{})}
	g.active[b.Spec] = reg

	go func() {
		for {
			select {
			case <-reg.done:
				return
			case <-hk.Keydown():
				fn()
			}
		}
	}()

	g.logger.Info("Hotkey registered", "hotkey", b.Spec)
	return nil
}

// Unbind removes the registration for spec
func (g *Binder) Unbind(spec string) error {
	b, err := hotkeys.Parse(spec)
	if err != nil {
		return err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	reg, ok := g.active[b.Spec]
	if !ok {
		return fmt.Errorf("hotkey %q not bound", spec)
	}
	return g.release(b.Spec, reg)
}

// Close removes every registration
func (g *Binder) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()
	for spec, reg := range g.active {
		g.release(spec, reg)
	}
}

func (g *Binder) release(spec string, reg *registration) error {
	close(reg.done)
	delete(g.active, spec)
	if err := reg.hk.Unregister(); err != nil {
		return fmt.Errorf("failed to unregister hotkey %q: %w", spec, err)
	}
	return nil
}
