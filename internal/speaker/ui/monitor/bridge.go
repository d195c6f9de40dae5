package monitor

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ZeusXpresss/Neuro-Speak/internal/settings"
	"github.com/ZeusXpresss/Neuro-Speak/internal/speaker/playback"
	"github.com/ZeusXpresss/Neuro-Speak/pkg/core/logging"
)

// Bridge implements the speaker Display for a running program. Calls never
// block: messages go through a buffer that one goroutine drains into the
// program.
type Bridge struct {
	msgs chan tea.Msg
	once sync.Once
	done chan struct{}

	logger *logging.Logger
}

// NewBridge creates a bridge with a message buffer
func NewBridge() *Bridge {
	return &Bridge{
		msgs:   make(chan tea.Msg, 64),
		done:   make(chan struct{}),
		logger: logging.New("monitor"),
	}
}

// Attach starts forwarding into send, usually (*tea.Program).Send
func (b *Bridge) Attach(send func(tea.Msg)) {
	go func() {
		for {
			select {
			case <-b.done:
				return
			case msg := <-b.msgs:
				send(msg)
			}
		}
	}()
}

// Close stops forwarding
func (b *Bridge) Close() {
	b.once.Do(func() { close(b.done) })
}

func (b *Bridge) push(msg tea.Msg) {
	select {
	case b.msgs <- msg:
	default:
		b.logger.Warn("Monitor backlog full, dropping update")
	}
}

// ShowText implements speaker.Display
func (b *Bridge) ShowText(text string) { b.push(textMsg{text: text}) }

// ShowStatus implements speaker.Display
func (b *Bridge) ShowStatus(status string) { b.push(statusMsg{status: status}) }

// SettingsChanged implements speaker.Display
func (b *Bridge) SettingsChanged(s settings.Settings) { b.push(settingsMsg{settings: s}) }

// StateChanged is a playback.StateChangeListener
func (b *Bridge) StateChanged(_, to playback.State) { b.push(stateMsg{state: to}) }
