package monitor

import (
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZeusXpresss/Neuro-Speak/internal/settings"
	"github.com/ZeusXpresss/Neuro-Speak/internal/speaker/playback"
)

type recordedActions struct {
	calls   []string
	spoken  []string
	applied []settings.Settings
}

func (a *recordedActions) Speak(text string) {
	a.calls = append(a.calls, "speak")
	a.spoken = append(a.spoken, text)
}
func (a *recordedActions) PauseResume() { a.calls = append(a.calls, "pause") }
func (a *recordedActions) Cancel()      { a.calls = append(a.calls, "cancel") }
func (a *recordedActions) Clear()       { a.calls = append(a.calls, "clear") }
func (a *recordedActions) Paste()       { a.calls = append(a.calls, "paste") }
func (a *recordedActions) Scan()        { a.calls = append(a.calls, "scan") }
func (a *recordedActions) ToggleRenpy() { a.calls = append(a.calls, "renpy") }
func (a *recordedActions) Quit()        { a.calls = append(a.calls, "quit") }
func (a *recordedActions) ApplySettings(s settings.Settings) {
	a.calls = append(a.calls, "apply")
	a.applied = append(a.applied, s)
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	out, ok := next.(Model)
	require.True(t, ok)
	return out
}

func ready(t *testing.T, actions Actions) Model {
	t.Helper()
	return update(t, New(actions, nil), tea.WindowSizeMsg{Width: 100, Height: 30})
}

func TestModel_KeysTriggerActions(t *testing.T) {
	tests := []struct {
		key  tea.KeyType
		want string
	}{
		{tea.KeyCtrlP, "pause"},
		{tea.KeyCtrlX, "cancel"},
		{tea.KeyCtrlV, "paste"},
		{tea.KeyCtrlR, "scan"},
		{tea.KeyCtrlT, "renpy"},
		{tea.KeyCtrlL, "clear"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			actions := &recordedActions{}
			m := ready(t, actions)
			update(t, m, tea.KeyMsg{Type: tt.key})
			assert.Equal(t, []string{tt.want}, actions.calls)
		})
	}
}

func TestModel_SpeakSendsTextBox(t *testing.T) {
	actions := &recordedActions{}
	m := ready(t, actions)

	m = update(t, m, textMsg{text: "Shown subtitle"})
	update(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})

	assert.Equal(t, []string{"Shown subtitle"}, actions.spoken)
}

func TestModel_ClearEmptiesTextBox(t *testing.T) {
	m := ready(t, &recordedActions{})
	m = update(t, m, textMsg{text: "Something"})
	m = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlL})
	assert.Empty(t, m.textarea.Value())
}

func TestModel_Quit(t *testing.T) {
	actions := &recordedActions{}
	m := ready(t, actions)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
	assert.Equal(t, []string{"quit"}, actions.calls)
}

func TestModel_StateAndSettingsMessages(t *testing.T) {
	m := ready(t, &recordedActions{})

	m = update(t, m, stateMsg{state: playback.StateSpeaking})
	assert.Contains(t, m.View(), "Spricht...")

	m = update(t, m, stateMsg{state: playback.StatePaused})
	assert.Contains(t, m.View(), "Pausiert")

	s := settings.Default()
	s.SpeakHotkey = "f9"
	m = update(t, m, settingsMsg{settings: s})
	assert.Contains(t, m.View(), "f9/x")

	m = update(t, m, statusMsg{status: "Scan Error: ROI not selected."})
	assert.Contains(t, m.View(), "Scan Error")
}

func TestModel_SettingsForm(t *testing.T) {
	actions := &recordedActions{}
	m := ready(t, actions)

	m = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlO})
	require.True(t, m.showSettings)
	assert.Contains(t, m.View(), "Einstellungen")

	// replace the speak hotkey
	m.inputs[fieldSpeakHotkey].SetValue("f8")
	m = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, fieldCancelHotkey, m.focus)

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, m.showSettings)
	require.Len(t, actions.applied, 1)
	assert.Equal(t, "f8", actions.applied[0].SpeakHotkey)
	assert.Equal(t, "x", actions.applied[0].CancelHotkey)
	assert.Equal(t, 200, actions.applied[0].FileWatchInterval)
}

func TestModel_SettingsFormValidation(t *testing.T) {
	actions := &recordedActions{}
	m := ready(t, actions)

	m = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlO})
	m.inputs[fieldInterval].SetValue("-5")
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	assert.True(t, m.showSettings)
	assert.NotEmpty(t, m.formErr)
	assert.Empty(t, actions.applied)

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.showSettings)
}

func TestBridge_ForwardsWithoutBlocking(t *testing.T) {
	b := NewBridge()
	defer b.Close()

	var mu sync.Mutex
	var got []tea.Msg
	b.Attach(func(msg tea.Msg) {
		mu.Lock()
		got = append(got, msg)
		mu.Unlock()
	})

	b.ShowText("hello")
	b.ShowStatus("Bereit")
	b.StateChanged(playback.StateIdle, playback.StateSpeaking)
	b.SettingsChanged(settings.Default())

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(got) == 4
	}, time.Second, 5*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, textMsg{text: "hello"}, got[0])
	assert.Equal(t, stateMsg{state: playback.StateSpeaking}, got[2])
}

func TestBridge_DropsWhenFull(t *testing.T) {
	b := NewBridge()
	defer b.Close()

	// nothing attached: pushes must still return
	for i := 0; i < 200; i++ {
		b.ShowText(strings.Repeat("x", i))
	}
	assert.Len(t, b.msgs, cap(b.msgs))
}
