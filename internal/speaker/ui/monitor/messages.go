package monitor

import (
	"time"

	"github.com/ZeusXpresss/Neuro-Speak/internal/settings"
	"github.com/ZeusXpresss/Neuro-Speak/internal/speaker/playback"
)

// Message types delivered into the program

type textMsg struct {
	text string
}

type statusMsg struct {
	status string
}

type settingsMsg struct {
	settings settings.Settings
}

type stateMsg struct {
	state playback.State
}

type statsTickMsg time.Time
