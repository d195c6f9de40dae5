//go:build !nohotkeys

package cmd

import (
	"github.com/ZeusXpresss/Neuro-Speak/internal/speaker"
	"github.com/ZeusXpresss/Neuro-Speak/internal/speaker/hotkeys/global"
)

// newHotkeyBinder returns the system-wide binder. Builds tagged nohotkeys
// leave the hotkey library out of the binary so it starts without a display.
func newHotkeyBinder() (speaker.Binder, error) {
	return global.NewBinder(), nil
}
