package global

import (
	"golang.design/x/hotkey"

	"github.com/ZeusXpresss/Neuro-Speak/internal/speaker/hotkeys"
)

var platformModifiers = map[hotkeys.Modifier]hotkey.Modifier{
	hotkeys.ModCtrl:  hotkey.ModCtrl,
	hotkeys.ModShift: hotkey.ModShift,
	hotkeys.ModAlt:   hotkey.ModAlt,
	hotkeys.ModSuper: hotkey.ModWin,
}

var platformKeys = map[string]hotkey.Key{
	"backspace": 0x08, // VK_BACK
}
