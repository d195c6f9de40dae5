package global

import (
	"golang.design/x/hotkey"

	"github.com/ZeusXpresss/Neuro-Speak/internal/speaker/hotkeys"
)

var platformModifiers = map[hotkeys.Modifier]hotkey.Modifier{
	hotkeys.ModCtrl:  hotkey.ModCtrl,
	hotkeys.ModShift: hotkey.ModShift,
	hotkeys.ModAlt:   hotkey.Mod1,
	hotkeys.ModSuper: hotkey.Mod4,
}

// X11 keysyms the library gets wrong or does not define
var platformKeys = map[string]hotkey.Key{
	"backspace": 0xff08, // XK_BackSpace
	"tab":       0xff09, // XK_Tab
	"0":         0x0030,
	"1":         0x0031,
	"2":         0x0032,
	"3":         0x0033,
	"4":         0x0034,
	"5":         0x0035,
	"6":         0x0036,
	"7":         0x0037,
	"8":         0x0038,
	"9":         0x0039,
}
