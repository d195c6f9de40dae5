package global

import (
	"golang.design/x/hotkey"

	"github.com/ZeusXpresss/Neuro-Speak/internal/speaker/hotkeys"
)

var platformModifiers = map[hotkeys.Modifier]hotkey.Modifier{
	hotkeys.ModCtrl:  hotkey.ModCtrl,
	hotkeys.ModShift: hotkey.ModShift,
	hotkeys.ModAlt:   hotkey.ModOption,
	hotkeys.ModSuper: hotkey.ModCmd,
}

// kVK_Delete is the backspace key on a Mac keyboard
var platformKeys = map[string]hotkey.Key{
	"backspace": hotkey.KeyDelete,
	"delete":    0x75, // kVK_ForwardDelete
}
