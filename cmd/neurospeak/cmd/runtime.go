package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/ZeusXpresss/Neuro-Speak/internal/scanner"
	"github.com/ZeusXpresss/Neuro-Speak/internal/settings"
	"github.com/ZeusXpresss/Neuro-Speak/internal/speaker"
	"github.com/ZeusXpresss/Neuro-Speak/internal/speaker/audio"
	"github.com/ZeusXpresss/Neuro-Speak/internal/speaker/history"
	"github.com/ZeusXpresss/Neuro-Speak/internal/speaker/playback"
	ipc "github.com/ZeusXpresss/Neuro-Speak/internal/speaker/signal"
	"github.com/ZeusXpresss/Neuro-Speak/internal/speaker/tts"
	"github.com/ZeusXpresss/Neuro-Speak/pkg/core/cache"
	"github.com/ZeusXpresss/Neuro-Speak/pkg/core/config"
	"github.com/ZeusXpresss/Neuro-Speak/pkg/core/logging"
)

// speakerRuntime is a fully wired speaker process
type speakerRuntime struct {
	app        *speaker.App
	synth      tts.Synthesizer
	controller *playback.Controller
	store      *history.Store
	recorder   *history.Recorder
	bridge     *ipc.Server
	logger     *logging.Logger
}

type runtimeOptions struct {
	hotkeys bool
}

func newSynthesizer(c *config.Config) (tts.Synthesizer, error) {
	if c.TTS.Engine != "piper" {
		return nil, fmt.Errorf("unsupported tts engine: %s", c.TTS.Engine)
	}
	piper, err := tts.NewPiper(tts.Config{
		BinaryPath:  c.TTS.PiperBinary,
		ModelPath:   c.ModelPath(),
		Speaker:     c.TTS.Speaker,
		LengthScale: c.TTS.LengthScale,
		SampleRate:  c.TTS.SampleRate,
	})
	if err != nil {
		return nil, err
	}
	synth := tts.WithTimeout(piper, c.TTS.Timeout.Duration)
	if c.TTS.CacheEntries > 0 {
		synth = tts.WithCache(synth, cache.New[[]float32](cache.Config{
			MaxItems:        c.TTS.CacheEntries,
			TTL:             c.TTS.CacheTTL.Duration,
			CleanupInterval: time.Minute,
		}))
	}
	return synth, nil
}

func newScanner(c *config.Config, s settings.Settings, ch *ipc.Channel) *scanner.Scanner {
	tess := scanner.NewTesseract(c.Scanner.Tesseract, c.Scanner.Language)
	tess.PSM = c.Scanner.PSM
	tess.OEM = c.Scanner.OEM

	return scanner.New(scanner.Config{
		ROI:             s.ROI,
		MaxScanTime:     c.Scanner.MaxScanTime.Duration,
		ScanInterval:    c.Scanner.ScanInterval.Duration,
		CancelSettle:    c.Scanner.CancelSettle.Duration,
		DebugDir:        c.Scanner.DebugDir,
		SaveDebugImages: s.SaveDebugImages,
	}, scanner.NewCommandCapturer(c.Scanner.CaptureCommand), tess, ch)
}

func newSpeakerRuntime(c *config.Config, opts runtimeOptions) (*speakerRuntime, error) {
	logger := logging.New("neurospeak")

	userSettings, err := settings.Load(c.SettingsPath())
	if err != nil {
		logger.Warn("Failed to load settings, using defaults", "path", c.SettingsPath(), "error", err)
	}

	synth, err := newSynthesizer(c)
	if err != nil {
		return nil, fmt.Errorf("failed to create synthesizer: %w", err)
	}

	rate := synth.SampleRate()
	if rate <= 0 {
		rate = c.Audio.SampleRate
	}
	out, err := audio.NewPortAudioOutput(audio.OutputConfig{
		SampleRate:      float64(rate),
		FramesPerBuffer: c.Audio.FramesPerBuffer,
	})
	if err != nil {
		synth.Close()
		return nil, fmt.Errorf("failed to open audio output: %w", err)
	}

	rt := &speakerRuntime{synth: synth, logger: logger}
	rt.controller = playback.NewController(synth, out, playback.Config{DrainPoll: c.Audio.DrainPoll.Duration})

	if c.History.Enabled {
		store, err := history.Open(c.History.Path)
		if err != nil {
			logger.Warn("History disabled", "error", err)
		} else {
			rt.store = store
			rt.recorder = history.NewRecorder(store)
			rt.controller.AddObserver(rt.recorder)
		}
	}

	ch, err := ipc.NewChannel(c.Signal.Dir)
	if err != nil {
		rt.Close()
		return nil, err
	}
	interval := time.Duration(userSettings.FileWatchInterval) * time.Millisecond
	watcher := ipc.NewWatcher(ch.Dir(), interval, !c.Signal.DisableWatch)

	appCfg := speaker.Config{
		Channel:      ch,
		Player:       rt.controller,
		Settings:     userSettings,
		SettingsPath: c.SettingsPath(),
		Clipboard:    speaker.SystemClipboard{},
		Scanner:      roiScanner{scanner: newScanner(c, userSettings, nil), settingsPath: c.SettingsPath()},
		Watcher:      watcher,
	}
	if opts.hotkeys {
		if binder, err := newHotkeyBinder(); err == nil {
			appCfg.Binder = binder
		} else {
			logger.Warn("Global hotkeys disabled", "error", err)
		}
	}

	rt.app, err = speaker.New(appCfg)
	if err != nil {
		rt.Close()
		return nil, err
	}

	if c.Signal.WSEnabled {
		rt.bridge = ipc.NewServer(c.Signal.WSAddr, rt.app)
		if err := rt.bridge.Start(); err != nil {
			logger.Warn("WebSocket bridge disabled", "error", err)
			rt.bridge = nil
		}
	}

	logger.Info("Speaker initialized",
		"model", c.ModelPath(),
		"sample_rate", rate,
		"signal_dir", ch.Dir(),
		"history", rt.store != nil)
	return rt, nil
}

// Close stops playback and releases the device, the synthesizer, the bridge
// and the history
func (rt *speakerRuntime) Close() {
	if rt.bridge != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		if err := rt.bridge.Shutdown(ctx); err != nil {
			rt.logger.Warn("Failed to stop WebSocket bridge", "error", err)
		}
		cancel()
	}
	if rt.controller != nil {
		if err := rt.controller.Close(); err != nil {
			rt.logger.Warn("Failed to close playback", "error", err)
		}
	}
	if rt.synth != nil {
		if err := rt.synth.Close(); err != nil {
			rt.logger.Warn("Failed to close synthesizer", "error", err)
		}
	}
	if rt.recorder != nil {
		rt.recorder.Close()
	}
	if rt.store != nil {
		rt.store.Close()
	}
}

// roiScanner picks up the region from the settings file before every scan,
// so a region saved by the scanner process is used without a restart
type roiScanner struct {
	scanner      *scanner.Scanner
	settingsPath string
}

func (r roiScanner) ScanOnce(ctx context.Context) (string, error) {
	if st, err := settings.Load(r.settingsPath); err == nil && st.ROI != r.scanner.ROI() {
		r.scanner.SetROI(st.ROI)
	}
	return r.scanner.ScanOnce(ctx)
}
