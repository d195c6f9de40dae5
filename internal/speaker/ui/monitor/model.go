// ============================================================================
// Neuro-Speak - Bildschirmtext-Vorleser
// ============================================================================
//
// Package:     monitor
// Description: Terminal monitor and control panel for the speaker
// Author:      ZeusXpresss
// Created:     2026-03-14
// License:     MIT
// ============================================================================

package monitor

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ZeusXpresss/Neuro-Speak/internal/settings"
	"github.com/ZeusXpresss/Neuro-Speak/internal/speaker/playback"
	"github.com/ZeusXpresss/Neuro-Speak/pkg/core/version"
)

// Actions are the controls the monitor offers. They must not block.
type Actions interface {
	Speak(text string)
	PauseResume()
	Cancel()
	Clear()
	Paste()
	Scan()
	ToggleRenpy()
	ApplySettings(s settings.Settings)
	Quit()
}

// KeyMap holds the monitor key bindings
type KeyMap struct {
	Speak    key.Binding
	Pause    key.Binding
	Cancel   key.Binding
	Clear    key.Binding
	Paste    key.Binding
	Scan     key.Binding
	Renpy    key.Binding
	Settings key.Binding
	Quit     key.Binding
}

// DefaultKeyMap returns the default bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Speak:    key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("Ctrl+S", "sprechen")),
		Pause:    key.NewBinding(key.WithKeys("ctrl+p"), key.WithHelp("Ctrl+P", "Pause")),
		Cancel:   key.NewBinding(key.WithKeys("ctrl+x"), key.WithHelp("Ctrl+X", "abbrechen")),
		Clear:    key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("Ctrl+L", "leeren")),
		Paste:    key.NewBinding(key.WithKeys("ctrl+v"), key.WithHelp("Ctrl+V", "einfügen")),
		Scan:     key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("Ctrl+R", "scannen")),
		Renpy:    key.NewBinding(key.WithKeys("ctrl+t"), key.WithHelp("Ctrl+T", "Ren'Py")),
		Settings: key.NewBinding(key.WithKeys("ctrl+o"), key.WithHelp("Ctrl+O", "Einstellungen")),
		Quit:     key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("Ctrl+C", "beenden")),
	}
}

// settings form fields
const (
	fieldSpeakHotkey = iota
	fieldCancelHotkey
	fieldInterval
	fieldCount
)

// StatsFunc reports playback statistics for the status bar
type StatsFunc func() playback.Stats

// Model is the bubbletea model of the monitor
type Model struct {
	width  int
	height int
	ready  bool

	actions Actions
	stats   StatsFunc
	keys    KeyMap

	textarea textarea.Model
	inputs   []textinput.Model
	focus    int

	showSettings bool
	formErr      string

	status   string
	state    playback.State
	settings settings.Settings
	current  playback.Stats
}

// New creates the monitor model. stats may be nil.
func New(actions Actions, stats StatsFunc) Model {
	ta := textarea.New()
	ta.Placeholder = "Erkannter Text erscheint hier..."
	ta.Focus()
	ta.CharLimit = 4000
	ta.SetWidth(80)
	ta.SetHeight(6)
	ta.ShowLineNumbers = false
	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.FocusedStyle.Text = lipgloss.NewStyle().Foreground(ColorSubtitle)
	ta.BlurredStyle.Text = lipgloss.NewStyle().Foreground(ColorSubtitle)

	inputs := make([]textinput.Model, fieldCount)
	for i := range inputs {
		in := textinput.New()
		in.CharLimit = 32
		in.Width = 24
		inputs[i] = in
	}
	inputs[fieldSpeakHotkey].Prompt = "Sprechen-Taste:   "
	inputs[fieldCancelHotkey].Prompt = "Abbrechen-Taste:  "
	inputs[fieldInterval].Prompt = "Intervall (ms):   "

	return Model{
		actions:  actions,
		stats:    stats,
		keys:     DefaultKeyMap(),
		textarea: ta,
		inputs:   inputs,
		status:   playback.StateIdle.String(),
		state:    playback.StateIdle,
		settings: settings.Default(),
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, m.tickStats())
}

func (m Model) tickStats() tea.Cmd {
	if m.stats == nil {
		return nil
	}
	return tea.Tick(500*time.Millisecond, func(t time.Time) tea.Msg {
		return statsTickMsg(t)
	})
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.showSettings {
			return m.updateSettingsForm(msg)
		}
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.textarea.SetWidth(max(msg.Width-4, 20))
		return m, nil

	case textMsg:
		m.textarea.SetValue(msg.text)
		return m, nil

	case statusMsg:
		m.status = msg.status
		return m, nil

	case stateMsg:
		m.state = msg.state
		m.status = msg.state.String()
		return m, nil

	case settingsMsg:
		m.settings = msg.settings
		return m, nil

	case statsTickMsg:
		if m.stats != nil {
			m.current = m.stats()
		}
		return m, m.tickStats()
	}

	var cmd tea.Cmd
	m.textarea, cmd = m.textarea.Update(msg)
	return m, cmd
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.actions.Quit()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Speak):
		m.actions.Speak(m.textarea.Value())
		return m, nil

	case key.Matches(msg, m.keys.Pause):
		m.actions.PauseResume()
		return m, nil

	case key.Matches(msg, m.keys.Cancel):
		m.actions.Cancel()
		return m, nil

	case key.Matches(msg, m.keys.Clear):
		m.textarea.Reset()
		m.actions.Clear()
		return m, nil

	case key.Matches(msg, m.keys.Paste):
		m.actions.Paste()
		return m, nil

	case key.Matches(msg, m.keys.Scan):
		m.actions.Scan()
		return m, nil

	case key.Matches(msg, m.keys.Renpy):
		m.actions.ToggleRenpy()
		return m, nil

	case key.Matches(msg, m.keys.Settings):
		m.openSettings()
		return m, textinput.Blink
	}

	var cmd tea.Cmd
	m.textarea, cmd = m.textarea.Update(msg)
	return m, cmd
}

func (m *Model) openSettings() {
	m.showSettings = true
	m.formErr = ""
	m.focus = 0
	m.textarea.Blur()

	m.inputs[fieldSpeakHotkey].SetValue(m.settings.SpeakHotkey)
	m.inputs[fieldCancelHotkey].SetValue(m.settings.CancelHotkey)
	m.inputs[fieldInterval].SetValue(strconv.Itoa(m.settings.FileWatchInterval))
	for i := range m.inputs {
		m.inputs[i].Blur()
	}
	m.inputs[0].Focus()
}

func (m *Model) closeSettings() {
	m.showSettings = false
	for i := range m.inputs {
		m.inputs[i].Blur()
	}
	m.textarea.Focus()
}

func (m Model) updateSettingsForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.closeSettings()
		return m, nil

	case tea.KeyTab, tea.KeyDown, tea.KeyShiftTab, tea.KeyUp:
		m.inputs[m.focus].Blur()
		if msg.Type == tea.KeyShiftTab || msg.Type == tea.KeyUp {
			m.focus = (m.focus + fieldCount - 1) % fieldCount
		} else {
			m.focus = (m.focus + 1) % fieldCount
		}
		return m, m.inputs[m.focus].Focus()

	case tea.KeyEnter:
		next, err := m.formSettings()
		if err != nil {
			m.formErr = err.Error()
			return m, nil
		}
		m.actions.ApplySettings(next)
		m.settings = next
		m.closeSettings()
		return m, nil

	case tea.KeyCtrlC:
		m.actions.Quit()
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

// formSettings validates the form and merges it into the current settings
func (m Model) formSettings() (settings.Settings, error) {
	next := m.settings

	speak := strings.TrimSpace(m.inputs[fieldSpeakHotkey].Value())
	cancel := strings.TrimSpace(m.inputs[fieldCancelHotkey].Value())
	if speak == "" || cancel == "" {
		return next, fmt.Errorf("Tasten dürfen nicht leer sein")
	}
	interval, err := strconv.Atoi(strings.TrimSpace(m.inputs[fieldInterval].Value()))
	if err != nil || interval <= 0 {
		return next, fmt.Errorf("Intervall muss eine positive Zahl sein")
	}

	next.SpeakHotkey = speak
	next.CancelHotkey = cancel
	next.FileWatchInterval = interval
	return next, nil
}

// View renders the monitor
func (m Model) View() string {
	if !m.ready {
		return "Lade Neuro-Speak..."
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	if m.showSettings {
		b.WriteString(m.renderSettings())
	} else {
		b.WriteString(LabelStyle.Render("Erkannter Text:"))
		b.WriteString("\n")
		b.WriteString(FocusedTextPanelStyle.Render(m.textarea.View()))
	}
	b.WriteString("\n")

	b.WriteString(m.renderStatusBar())
	b.WriteString("\n")
	b.WriteString(m.renderHelpBar())

	return b.String()
}

func (m Model) renderHeader() string {
	header := lipgloss.JoinHorizontal(lipgloss.Center,
		LogoStyle.Render(Logo),
		strings.Repeat(" ", 3),
		HeaderStyle.Render("Bildschirmtext-Vorleser"),
		strings.Repeat(" ", 3),
		RenderBadge("Ren'Py", m.settings.RenpyMode),
	)
	return TitlePanelStyle.Width(max(m.width-4, 20)).Render(header)
}

func (m Model) renderSettings() string {
	var content strings.Builder
	content.WriteString(HeaderStyle.Render("Einstellungen"))
	content.WriteString("\n\n")
	for i := range m.inputs {
		content.WriteString(m.inputs[i].View())
		content.WriteString("\n")
	}
	if m.formErr != "" {
		content.WriteString("\n")
		content.WriteString(ErrorTextStyle.Render(m.formErr))
	}
	return SettingsPanelStyle.Render(content.String())
}

func (m Model) renderStatusBar() string {
	var status string
	switch m.state {
	case playback.StateSpeaking:
		status = StatusSpeakingStyle.Render(m.state.Icon() + " " + m.status)
	case playback.StatePaused:
		status = StatusPausedStyle.Render(m.state.Icon() + " " + m.status)
	default:
		status = StatusIdleStyle.Render(m.state.Icon() + " " + m.status)
	}

	info := fmt.Sprintf("Tasten: %s/%s", m.settings.SpeakHotkey, m.settings.CancelHotkey)
	if m.stats != nil {
		info += fmt.Sprintf(" | Puffer: %d | Aussetzer: %d", m.current.QueuedBuffers, m.current.Underflows)
	}
	right := HelpDescStyle.Render(info + " | v" + version.Version)

	space := m.width - lipgloss.Width(status) - lipgloss.Width(right) - 4
	if space < 2 {
		space = 2
	}
	return StatusBarStyle.Width(max(m.width-2, 20)).Render(status + strings.Repeat(" ", space) + right)
}

func (m Model) renderHelpBar() string {
	var items []string
	if m.showSettings {
		items = []string{
			RenderKeyHint("Tab", "nächstes Feld"),
			RenderKeyHint("Enter", "speichern"),
			RenderKeyHint("Esc", "schließen"),
		}
	} else {
		for _, b := range []key.Binding{
			m.keys.Speak, m.keys.Pause, m.keys.Cancel, m.keys.Clear, m.keys.Paste,
			m.keys.Scan, m.keys.Renpy, m.keys.Settings, m.keys.Quit,
		} {
			items = append(items, RenderKeyHint(b.Help().Key, b.Help().Desc))
		}
	}
	return HelpStyle.Render(strings.Join(items, "  "))
}

// Run starts the monitor and blocks until it exits or ctx is done
func Run(ctx context.Context, actions Actions, bridge *Bridge, stats StatsFunc) error {
	p := tea.NewProgram(New(actions, stats), tea.WithAltScreen(), tea.WithContext(ctx))
	bridge.Attach(p.Send)
	defer bridge.Close()
	_, err := p.Run()
	if ctx.Err() != nil {
		return nil
	}
	return err
}
