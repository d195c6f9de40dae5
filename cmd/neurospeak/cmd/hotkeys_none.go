//go:build nohotkeys

package cmd

import (
	"github.com/ZeusXpresss/Neuro-Speak/internal/speaker"
	"github.com/ZeusXpresss/Neuro-Speak/internal/speaker/hotkeys"
)

func newHotkeyBinder() (speaker.Binder, error) {
	return nil, hotkeys.ErrUnsupported
}
