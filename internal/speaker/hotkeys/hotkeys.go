// ============================================================================
// Neuro-Speak - Bildschirmtext-Vorleser
// ============================================================================
//
// Package:     hotkeys
// Description: Global hotkey specification parsing
// Author:      ZeusXpresss
// Created:     2026-03-14
// License:     MIT
// ============================================================================

// Package hotkeys parses hotkey specifications. It does not touch the
// window system; registration lives in the global subpackage.
package hotkeys

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrUnknownKey is returned for key names that cannot be bound
var ErrUnknownKey = errors.New("unknown key")

// ErrUnsupported is returned where global hotkeys are not available
var ErrUnsupported = errors.New("global hotkeys not supported on this platform")

// Modifier is a platform independent modifier name
type Modifier string

// Modifiers
const (
	ModCtrl  Modifier = "ctrl"
	ModShift Modifier = "shift"
	ModAlt   Modifier = "alt"
	ModSuper Modifier = "super"
)

var modifiers = map[string]Modifier{
	"ctrl":    ModCtrl,
	"control": ModCtrl,
	"shift":   ModShift,
	"alt":     ModAlt,
	"option":  ModAlt,
	"super":   ModSuper,
	"win":     ModSuper,
	"cmd":     ModSuper,
}

// keyAliases maps accepted spellings to the canonical key name
var keyAliases = map[string]string{
	"enter":     "enter",
	"return":    "enter",
	"esc":       "escape",
	"escape":    "escape",
	"space":     "space",
	"tab":       "tab",
	"delete":    "delete",
	"del":       "delete",
	"backspace": "backspace",
	"left":      "left",
	"right":     "right",
	"up":        "up",
	"down":      "down",
}

// Binding is a parsed hotkey specification such as "ctrl+shift+z".
// Key is the canonical key name: a letter, a digit, f1-f12 or one of the
// named keys (enter, escape, space, tab, delete, backspace, arrows).
type Binding struct {
	Spec string
	Mods []Modifier
	Key  string
}

// Parse turns "z", "space", "f5" or "ctrl+shift+z" into a Binding.
// Names are case-insensitive; the key comes last.
func Parse(spec string) (Binding, error) {
	norm := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(spec), " ", ""))
	if norm == "" {
		return Binding{}, fmt.Errorf("%w: empty hotkey", ErrUnknownKey)
	}

	parts := strings.Split(norm, "+")
	b := Binding{Spec: norm}
	for _, p := range parts[:len(parts)-1] {
		mod, ok := modifiers[p]
		if !ok {
			return Binding{}, fmt.Errorf("%w: modifier %q in %q", ErrUnknownKey, p, spec)
		}
		b.Mods = append(b.Mods, mod)
	}

	key, ok := canonicalKey(parts[len(parts)-1])
	if !ok {
		return Binding{}, fmt.Errorf("%w: %q", ErrUnknownKey, spec)
	}
	b.Key = key
	return b, nil
}

func canonicalKey(name string) (string, bool) {
	if k, ok := keyAliases[name]; ok {
		return k, true
	}
	if len(name) == 1 && (name[0] >= 'a' && name[0] <= 'z' || name[0] >= '0' && name[0] <= '9') {
		return name, true
	}
	if len(name) >= 2 && name[0] == 'f' {
		if n, err := strconv.Atoi(name[1:]); err == nil && strconv.Itoa(n) == name[1:] && n >= 1 && n <= 12 {
			return name, true
		}
	}
	return "", false
}
