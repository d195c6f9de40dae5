package speaker

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZeusXpresss/Neuro-Speak/internal/settings"
	"github.com/ZeusXpresss/Neuro-Speak/internal/speaker/playback"
	"github.com/ZeusXpresss/Neuro-Speak/internal/speaker/signal"
)

type fakePlayer struct {
	mu      sync.Mutex
	spoken  []string
	cancels int
	paused  bool
}

func (p *fakePlayer) Speak(s string) (playback.Utterance, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.spoken = append(p.spoken, s)
	return playback.Utterance{ID: fmt.Sprintf("u%d", len(p.spoken)), Text: s}, true
}

func (p *fakePlayer) PauseResume() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.paused = !p.paused
	return p.paused
}

func (p *fakePlayer) Cancel() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cancels++
}

func (p *fakePlayer) State() playback.State { return playback.StateIdle }

func (p *fakePlayer) snapshot() ([]string, int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.spoken...), p.cancels
}

type fakeDisplay struct {
	mu       sync.Mutex
	texts    []string
	statuses []string
	settings []settings.Settings
}

func (d *fakeDisplay) ShowText(s string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.texts = append(d.texts, s)
}

func (d *fakeDisplay) ShowStatus(s string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.statuses = append(d.statuses, s)
}

func (d *fakeDisplay) SettingsChanged(s settings.Settings) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.settings = append(d.settings, s)
}

func (d *fakeDisplay) lastText() (string, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.texts) == 0 {
		return "", false
	}
	return d.texts[len(d.texts)-1], true
}

type fakeBinder struct {
	mu    sync.Mutex
	bound map[string]func()
}

func newFakeBinder() *fakeBinder {
	return &fakeBinder{bound: make(map[string]func())}
}

func (b *fakeBinder) Bind(spec string, fn func()) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.bound[spec] = fn
	return nil
}

func (b *fakeBinder) Unbind(spec string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.bound[spec]; !ok {
		return errors.New("not bound")
	}
	delete(b.bound, spec)
	return nil
}

func (b *fakeBinder) Close() {}

func (b *fakeBinder) keys() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	var keys []string
	for k := range b.bound {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (b *fakeBinder) press(spec string) {
	b.mu.Lock()
	fn := b.bound[spec]
	b.mu.Unlock()
	if fn != nil {
		fn()
	}
}

type fakeClipboard struct {
	text string
	err  error
}

func (c fakeClipboard) ReadText() (string, error) { return c.text, c.err }

type fakeScanner struct {
	text string
	err  error
}

func (s fakeScanner) ScanOnce(context.Context) (string, error) { return s.text, s.err }

type harness struct {
	app     *App
	ch      *signal.Channel
	player  *fakePlayer
	display *fakeDisplay
	binder  *fakeBinder
	path    string
}

func newHarness(t *testing.T, mutate func(*Config)) *harness {
	t.Helper()
	dir := t.TempDir()
	ch, err := signal.NewChannel(dir)
	require.NoError(t, err)

	s := settings.Default()
	s.RenpyMode = false

	h := &harness{
		ch:      ch,
		player:  &fakePlayer{},
		display: &fakeDisplay{},
		binder:  newFakeBinder(),
		path:    filepath.Join(dir, "settings.json"),
	}
	cfg := Config{
		Channel:      ch,
		Player:       h.player,
		Settings:     s,
		SettingsPath: h.path,
		Binder:       h.binder,
	}
	if mutate != nil {
		mutate(&cfg)
	}
	h.app, err = New(cfg)
	require.NoError(t, err)
	h.app.SetDisplay(h.display)
	return h
}

// run starts the event loop and stops it at the end of the test
func (h *harness) run(t *testing.T) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- h.app.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Error("event loop did not stop")
		}
	})
	// Run binds the hotkeys before entering the loop
	require.Eventually(t, func() bool { return len(h.binder.keys()) == 2 }, time.Second, 5*time.Millisecond)
}

// sync waits until everything posted so far has run
func (h *harness) sync(t *testing.T) {
	t.Helper()
	done := make(chan struct{})
	h.app.post(func() { close(done) })
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("event loop did not drain")
	}
}

func TestNew_Validation(t *testing.T) {
	_, err := New(Config{Player: &fakePlayer{}})
	assert.Error(t, err)

	ch, err := signal.NewChannel(t.TempDir())
	require.NoError(t, err)
	_, err = New(Config{Channel: ch})
	assert.Error(t, err)
}

func TestPoll_TriggerSpeaksAndRemovesFlag(t *testing.T) {
	h := newHarness(t, nil)
	require.NoError(t, h.ch.Publish("Hello   there"))

	h.app.poll()

	spoken, _ := h.player.snapshot()
	assert.Equal(t, []string{"Hello there."}, spoken)
	assert.False(t, h.ch.Triggered(), "trigger must be consumed")
	assert.Equal(t, "Hello there.", h.app.memo)

	text, ok := h.display.lastText()
	require.True(t, ok)
	assert.Equal(t, "Hello there.", text)
}

func TestPoll_RetriggerSameTextSpeaksAgain(t *testing.T) {
	h := newHarness(t, nil)

	require.NoError(t, h.ch.Publish("Hello."))
	h.app.poll()
	require.NoError(t, h.ch.Publish("Hello."))
	h.app.poll()

	spoken, _ := h.player.snapshot()
	assert.Equal(t, []string{"Hello.", "Hello."}, spoken)
	assert.Equal(t, "Hello.", h.app.memo)
}

func TestPoll_UnchangedTextWithoutTriggerIsQuiet(t *testing.T) {
	h := newHarness(t, nil)

	require.NoError(t, h.ch.Publish("Hello."))
	h.app.poll()
	h.app.poll()
	h.app.poll()

	spoken, cancels := h.player.snapshot()
	assert.Len(t, spoken, 1)
	assert.Zero(t, cancels)
	assert.Len(t, h.display.texts, 1, "display is only refreshed on change")
}

func TestPoll_NewTextWithoutTriggerOnlyRefreshesDisplay(t *testing.T) {
	h := newHarness(t, nil)
	require.NoError(t, h.ch.WriteText("Fresh line"))

	h.app.poll()

	spoken, _ := h.player.snapshot()
	assert.Empty(t, spoken)
	text, _ := h.display.lastText()
	assert.Equal(t, "Fresh line.", text)
	assert.Empty(t, h.app.memo)
}

func TestPoll_ContentDisappearedStopsSpeech(t *testing.T) {
	h := newHarness(t, nil)
	require.NoError(t, h.ch.Publish("Going away."))
	h.app.poll()

	require.NoError(t, h.ch.WriteText("   "))
	h.app.poll()

	_, cancels := h.player.snapshot()
	assert.Equal(t, 1, cancels)
	assert.Empty(t, h.app.memo)
	text, _ := h.display.lastText()
	assert.Equal(t, "", text)

	// nothing left to stop
	h.app.poll()
	_, cancels = h.player.snapshot()
	assert.Equal(t, 1, cancels)
}

func TestPoll_CancelFlag(t *testing.T) {
	h := newHarness(t, nil)
	require.NoError(t, h.ch.Publish("Hello."))
	h.app.poll()

	require.NoError(t, h.ch.RequestCancel())
	h.app.poll()

	_, cancels := h.player.snapshot()
	assert.Equal(t, 1, cancels)
	assert.False(t, h.ch.CancelRequested(), "cancel flag must be consumed")
	// the text file still holds the old text; after a cancel it is just
	// shown again, not spoken
	assert.Empty(t, h.app.memo)
	spoken, _ := h.player.snapshot()
	assert.Len(t, spoken, 1)

	require.NoError(t, h.ch.Publish("Hello."))
	h.app.poll()
	spoken, _ = h.player.snapshot()
	assert.Len(t, spoken, 2, "same text speaks again after a cancel")
}

func TestPoll_TriggerWithoutText(t *testing.T) {
	h := newHarness(t, nil)
	require.NoError(t, os.WriteFile(filepath.Join(h.ch.Dir(), signal.TriggerFile), []byte(signal.TriggerPayload), 0644))

	h.app.poll()

	spoken, _ := h.player.snapshot()
	assert.Empty(t, spoken)
	assert.False(t, h.ch.Triggered())
}

func TestPoll_RenpyPreprocessing(t *testing.T) {
	h := newHarness(t, nil)
	s := h.app.Settings()
	s.RenpyMode = true
	h.app.settings = s

	require.NoError(t, h.ch.Publish("Eileen: Hello there."))
	h.app.poll()

	spoken, _ := h.player.snapshot()
	assert.Equal(t, []string{"Hello there."}, spoken)
}

func TestActions_SpeakDoesNotTouchMemo(t *testing.T) {
	h := newHarness(t, nil)
	h.run(t)

	h.app.Speak("  typed   text ")
	h.app.Speak("   ")
	h.sync(t)

	spoken, _ := h.player.snapshot()
	assert.Equal(t, []string{"typed text."}, spoken)

	// the memo stays empty, so the same text from a trigger is spoken too
	require.NoError(t, h.ch.Publish("typed text"))
	h.app.post(h.app.poll)
	h.sync(t)
	spoken, _ = h.player.snapshot()
	assert.Len(t, spoken, 2)
}

func TestActions_PauseCancelClear(t *testing.T) {
	h := newHarness(t, nil)
	h.run(t)

	h.app.RemoteSpeak("Remote words")
	h.app.PauseResume()
	h.app.Cancel()
	h.app.Clear()
	h.sync(t)

	spoken, cancels := h.player.snapshot()
	assert.Equal(t, []string{"Remote words."}, spoken)
	assert.Equal(t, 1, cancels)
	assert.True(t, h.player.paused)
	text, _ := h.display.lastText()
	assert.Equal(t, "", text)
}

func TestActions_RemoteCancelClearsMemo(t *testing.T) {
	h := newHarness(t, nil)
	h.run(t)

	h.app.RemoteSpeak("Once.")
	h.app.RemoteCancel()
	h.app.RemoteSpeak("Once.")
	h.sync(t)

	spoken, cancels := h.player.snapshot()
	assert.Equal(t, []string{"Once.", "Once."}, spoken)
	assert.Equal(t, 1, cancels)
}

func TestActions_RemoteSpeakSurvivesNextPoll(t *testing.T) {
	h := newHarness(t, nil)
	h.run(t)

	h.app.RemoteSpeak("Over the bridge.")
	h.app.post(h.app.poll)
	h.sync(t)

	spoken, cancels := h.player.snapshot()
	assert.Equal(t, []string{"Over the bridge."}, spoken)
	assert.Zero(t, cancels, "the bridge text must not look like a vanished subtitle")
}

func TestActions_Paste(t *testing.T) {
	h := newHarness(t, func(c *Config) {
		c.Clipboard = fakeClipboard{text: "Mr. Smith is here"}
	})
	h.run(t)

	h.app.Paste()
	h.sync(t)

	text, _ := h.display.lastText()
	assert.Equal(t, "Mister Smith is here.", text)
	spoken, _ := h.player.snapshot()
	assert.Empty(t, spoken, "paste only shows the text")
}

func TestActions_HotkeySpeak(t *testing.T) {
	h := newHarness(t, func(c *Config) {
		c.Clipboard = fakeClipboard{text: "Copied line"}
	})
	h.run(t)

	h.binder.press("z")
	h.sync(t)

	spoken, cancels := h.player.snapshot()
	assert.Equal(t, []string{"Copied line."}, spoken)
	assert.Equal(t, 1, cancels, "running speech is stopped first")
	text, _ := h.display.lastText()
	assert.Equal(t, "Copied line.", text)

	h.binder.press("x")
	h.sync(t)
	_, cancels = h.player.snapshot()
	assert.Equal(t, 2, cancels)
}

func TestActions_ClipboardFailure(t *testing.T) {
	h := newHarness(t, func(c *Config) {
		c.Clipboard = fakeClipboard{err: errors.New("no display")}
	})
	h.run(t)

	h.app.HotkeySpeak()
	h.sync(t)

	spoken, _ := h.player.snapshot()
	assert.Empty(t, spoken)
}

func TestActions_ToggleRenpyPersists(t *testing.T) {
	h := newHarness(t, nil)
	h.run(t)

	h.app.ToggleRenpy()
	h.sync(t)

	assert.True(t, h.app.Settings().RenpyMode)
	saved, err := settings.Load(h.path)
	require.NoError(t, err)
	assert.True(t, saved.RenpyMode)
}

func TestActions_ApplySettingsRebindsHotkeys(t *testing.T) {
	h := newHarness(t, nil)
	h.run(t)
	assert.Equal(t, []string{"x", "z"}, h.binder.keys())

	next := h.app.Settings()
	next.SpeakHotkey = "ctrl+s"
	next.CancelHotkey = "ctrl+q"
	next.FileWatchInterval = 0
	h.app.ApplySettings(next)
	h.sync(t)

	assert.Equal(t, []string{"ctrl+q", "ctrl+s"}, h.binder.keys())

	got := h.app.Settings()
	assert.Equal(t, "ctrl+s", got.SpeakHotkey)
	assert.Equal(t, 200, got.FileWatchInterval, "non-positive interval keeps the old value")

	saved, err := settings.Load(h.path)
	require.NoError(t, err)
	assert.Equal(t, got, saved)

	h.display.mu.Lock()
	last := h.display.settings[len(h.display.settings)-1]
	h.display.mu.Unlock()
	assert.Equal(t, got, last)
}

func TestActions_ScanPublishesResult(t *testing.T) {
	h := newHarness(t, func(c *Config) {
		c.Scanner = fakeScanner{text: "Scanned words"}
	})
	h.run(t)

	h.app.Scan()

	require.Eventually(t, h.ch.Triggered, time.Second, 5*time.Millisecond)
	raw, err := h.ch.ReadText()
	require.NoError(t, err)
	assert.Equal(t, "Scanned words", raw)
}

func TestActions_ScanErrorIsShown(t *testing.T) {
	h := newHarness(t, func(c *Config) {
		c.Scanner = fakeScanner{err: errors.New("Scan Error: ROI not selected.")}
	})
	h.run(t)

	h.app.Scan()

	require.Eventually(t, func() bool {
		text, _ := h.display.lastText()
		return text == "Scan Error: ROI not selected."
	}, time.Second, 5*time.Millisecond)
	assert.False(t, h.ch.Triggered())
}

func TestRun_WatcherDrivesPolling(t *testing.T) {
	dir := t.TempDir()
	ch, err := signal.NewChannel(dir)
	require.NoError(t, err)
	player := &fakePlayer{}

	s := settings.Default()
	s.RenpyMode = false
	s.FileWatchInterval = 10

	app, err := New(Config{
		Channel:  ch,
		Player:   player,
		Settings: s,
		Watcher:  signal.NewWatcher(dir, 10*time.Millisecond, false),
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	// Run resets stale flags on start; publish afterwards
	time.Sleep(50 * time.Millisecond)
	require.NoError(t, ch.Publish("From the scanner"))

	require.Eventually(t, func() bool {
		spoken, _ := player.snapshot()
		return len(spoken) == 1
	}, 2*time.Second, 10*time.Millisecond)

	spoken, _ := player.snapshot()
	assert.Equal(t, "From the scanner.", spoken[0])
	require.Eventually(t, func() bool { return !ch.Triggered() }, time.Second, 10*time.Millisecond)

	app.Quit()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after Quit")
	}
	cancel()
}
