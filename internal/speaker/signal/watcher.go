package signal

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/ZeusXpresss/Neuro-Speak/pkg/core/logging"
)

// Watcher produces a wake-up whenever a poll is due: on every interval tick
// and, when file notifications are available, as soon as a protocol file
// changes. Wake-ups are coalesced; a slow consumer sees at most one pending.
type Watcher struct {
	dir      string
	interval time.Duration
	notify   bool

	setCh    chan time.Duration
	wake     chan struct{}
	stopCh   chan struct{}
	stopOnce sync.Once
	logger   *logging.Logger
}

// NewWatcher creates a watcher for dir. With notify false only the timer runs.
func NewWatcher(dir string, interval time.Duration, notify bool) *Watcher {
	if interval <= 0 {
		interval = 200 * time.Millisecond
	}
	return &Watcher{
		dir:      dir,
		interval: interval,
		notify:   notify,
		setCh:    make(chan time.Duration, 1),
		wake:     make(chan struct{}, 1),
		stopCh:   make(chan struct{}),
		logger:   logging.New("signal-watcher"),
	}
}

// C delivers wake-ups
func (w *Watcher) C() <-chan struct{} {
	return w.wake
}

// SetInterval changes the poll interval of a running watcher
func (w *Watcher) SetInterval(d time.Duration) {
	if d <= 0 {
		return
	}
	select {
	case <-w.setCh:
	default:
	}
	w.setCh <- d
}

// Start begins watching until ctx is done or Stop is called
func (w *Watcher) Start(ctx context.Context) error {
	var fsw *fsnotify.Watcher
	if w.notify {
		var err error
		fsw, err = fsnotify.NewWatcher()
		if err != nil {
			return fmt.Errorf("failed to create watcher: %w", err)
		}
		if err := fsw.Add(w.dir); err != nil {
			fsw.Close()
			return fmt.Errorf("failed to watch directory: %w", err)
		}
		w.logger.Info("Started watching signal directory", "dir", w.dir)
	}

	go w.watchLoop(ctx, fsw)
	return nil
}

// Stop ends the watch loop
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() { close(w.stopCh) })
}

func (w *Watcher) watchLoop(ctx context.Context, fsw *fsnotify.Watcher) {
	var events <-chan fsnotify.Event
	var errs <-chan error
	if fsw != nil {
		defer fsw.Close()
		events = fsw.Events
		errs = fsw.Errors
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Debug("Stopping signal watcher (context cancelled)")
			return

		case <-w.stopCh:
			w.logger.Debug("Stopping signal watcher (stop signal)")
			return

		case d := <-w.setCh:
			ticker.Reset(d)
			w.logger.Debug("Poll interval changed", "interval", d)

		case <-ticker.C:
			w.poke()

		case event, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			if isProtocolFile(event.Name) {
				w.poke()
			}

		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			w.logger.Error("Watcher error", "error", err)
		}
	}
}

func (w *Watcher) poke() {
	select {
	case w.wake <- struct{}{}:
	default:
	}
}

func isProtocolFile(path string) bool {
	switch filepath.Base(path) {
	case InputFile, TriggerFile, CancelFile:
		return true
	}
	return false
}
