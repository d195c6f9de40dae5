// ============================================================================
// Neuro-Speak - Bildschirmtext-Vorleser
// ============================================================================
//
// Package:     playback
// Description: Streaming playback with cooperative cancellation
// Author:      ZeusXpresss
// Created:     2026-03-14
// License:     MIT
// ============================================================================

package playback

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ZeusXpresss/Neuro-Speak/internal/speaker/audio"
	"github.com/ZeusXpresss/Neuro-Speak/internal/speaker/tts"
	"github.com/ZeusXpresss/Neuro-Speak/pkg/core/logging"
)

// Config holds controller configuration
type Config struct {
	// DrainPoll is how often a finished worker checks whether the queue ran dry
	DrainPoll time.Duration
}

// DefaultConfig returns default controller configuration
func DefaultConfig() Config {
	return Config{DrainPoll: 100 * time.Millisecond}
}

// Stats is a snapshot of the controller counters
type Stats struct {
	State         State
	Generation    uint64
	Paused        bool
	Cancelled     bool
	QueuedBuffers int
	QueuedSamples int
	Underflows    uint64
}

// Controller turns text into streamed audio. One synthesis worker runs per
// utterance; the output device pulls from the shared queue.
//
// mu serializes the device lifecycle and the generation check with the
// append, so a worker whose utterance was superseded can never enqueue.
// The device callback only touches the queue lock and the atomic flags.
// State listeners run with mu held and must not call back into the
// controller.
type Controller struct {
	mu         sync.Mutex
	synth      tts.Synthesizer
	out        audio.Output
	queue      *audio.Queue
	paused     atomic.Bool
	cancelled  atomic.Bool
	generation atomic.Uint64
	underflows atomic.Uint64
	state      *StateMachine
	drainPoll  time.Duration

	obsMu     sync.RWMutex
	observers []Observer

	ctx    context.Context
	stop   context.CancelFunc
	wg     sync.WaitGroup
	logger *logging.Logger
}

// NewController creates a controller driving out with audio from synth
func NewController(synth tts.Synthesizer, out audio.Output, cfg Config) *Controller {
	if cfg.DrainPoll <= 0 {
		cfg.DrainPoll = DefaultConfig().DrainPoll
	}
	ctx, stop := context.WithCancel(context.Background())
	return &Controller{
		synth:     synth,
		out:       out,
		queue:     audio.NewQueue(),
		state:     NewStateMachine(),
		drainPoll: cfg.DrainPoll,
		ctx:       ctx,
		stop:      stop,
		logger:    logging.New("playback"),
	}
}

// AddObserver registers an utterance observer
func (c *Controller) AddObserver(o Observer) {
	c.obsMu.Lock()
	defer c.obsMu.Unlock()
	c.observers = append(c.observers, o)
}

// OnStateChange registers a state change listener
func (c *Controller) OnStateChange(listener StateChangeListener) {
	c.state.AddListener(listener)
}

// State returns the current playback state
func (c *Controller) State() State {
	return c.state.Current()
}

// Paused reports whether output is paused
func (c *Controller) Paused() bool {
	return c.paused.Load()
}

// Stats returns a snapshot of the controller counters
func (c *Controller) Stats() Stats {
	return Stats{
		State:         c.state.Current(),
		Generation:    c.generation.Load(),
		Paused:        c.paused.Load(),
		Cancelled:     c.cancelled.Load(),
		QueuedBuffers: c.queue.Buffers(),
		QueuedSamples: c.queue.Len(),
		Underflows:    c.underflows.Load(),
	}
}

// Speak starts a new utterance and returns immediately. Empty or
// whitespace-only text is ignored and reported with ok == false.
func (c *Controller) Speak(s string) (u Utterance, ok bool) {
	if strings.TrimSpace(s) == "" {
		return Utterance{}, false
	}

	c.mu.Lock()
	c.queue.Clear()
	c.paused.Store(false)
	c.cancelled.Store(false)
	u = newUtterance(s, c.generation.Add(1))
	startErr := c.out.Start(c.fill)
	if startErr == nil {
		c.state.Transition(StateSpeaking)
	}
	c.mu.Unlock()

	c.logger.Info("Speaking", "id", u.ID, "generation", u.Generation, "sentences", len(u.Sentences))
	c.notifyStarted(u)

	if startErr != nil {
		c.logger.Error("Failed to start output", "error", startErr)
		c.finish(u, OutcomeFailed, startErr)
		return u, true
	}

	c.wg.Add(1)
	go c.work(u)
	return u, true
}

// Pause silences output; buffered audio is kept and synthesis continues.
// Nothing happens while idle.
func (c *Controller) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.Current() == StateIdle {
		return
	}
	c.paused.Store(true)
	c.state.Transition(StatePaused)
}

// Resume continues output exactly where it was paused
func (c *Controller) Resume() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.paused.Store(false)
	c.state.Transition(StateSpeaking)
}

// PauseResume toggles pause and returns the new paused value. While idle
// there is nothing to pause and it returns false.
func (c *Controller) PauseResume() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.Current() == StateIdle {
		return false
	}
	paused := !c.paused.Load()
	c.paused.Store(paused)
	if paused {
		c.state.Transition(StatePaused)
	} else {
		c.state.Transition(StateSpeaking)
	}
	return paused
}

// Cancel stops the current utterance: output goes silent, queued audio is
// dropped and the device is stopped. Safe at any time and idempotent. An
// in-flight synthesis call completes before the worker notices.
func (c *Controller) Cancel() {
	c.mu.Lock()
	c.cancelled.Store(true)
	c.queue.Clear()
	if err := c.out.Stop(); err != nil {
		c.logger.Warn("Failed to stop output", "error", err)
	}
	c.paused.Store(false)
	changed := c.state.Transition(StateIdle)
	c.mu.Unlock()

	if changed {
		c.logger.Info("Playback cancelled")
	}
}

// Close cancels playback, waits for workers and releases the device
func (c *Controller) Close() error {
	c.Cancel()
	c.stop()
	c.wg.Wait()
	if err := c.out.Close(); err != nil {
		return fmt.Errorf("failed to close output: %w", err)
	}
	return nil
}

// fill is the device callback
func (c *Controller) fill(out []float32) {
	silent := c.paused.Load() || c.cancelled.Load()
	if audio.Render(out, c.queue, silent) {
		c.underflows.Add(1)
	}
}

// staleOutcome reports why a worker of generation gen must stop, if it must
func (c *Controller) staleOutcome(gen uint64) (Outcome, bool) {
	if c.generation.Load() != gen {
		return OutcomeSuperseded, true
	}
	if c.cancelled.Load() {
		return OutcomeCancelled, true
	}
	return OutcomeCompleted, false
}

// appendIfCurrent enqueues samples only while gen is the live utterance
func (c *Controller) appendIfCurrent(gen uint64, samples []float32) (Outcome, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if outcome, stale := c.staleOutcome(gen); stale {
		return outcome, false
	}
	c.queue.Push(samples)
	return OutcomeCompleted, true
}

func (c *Controller) work(u Utterance) {
	defer c.wg.Done()

	var failure error
	for i, sentence := range u.Sentences {
		if outcome, stale := c.staleOutcome(u.Generation); stale {
			c.finish(u, outcome, nil)
			return
		}

		samples, err := c.synth.Synthesize(c.ctx, sentence)
		if err != nil {
			c.logger.Error("Synthesis failed", "id", u.ID, "sentence", i+1, "error", err)
			failure = fmt.Errorf("sentence %d: %w", i+1, err)
			break
		}

		if outcome, ok := c.appendIfCurrent(u.Generation, samples); !ok {
			c.finish(u, outcome, nil)
			return
		}
	}

	// let already queued audio play out
	ticker := time.NewTicker(c.drainPoll)
	defer ticker.Stop()
	for {
		if outcome, stale := c.staleOutcome(u.Generation); stale {
			c.finish(u, outcome, failure)
			return
		}
		if c.queue.Empty() {
			break
		}
		select {
		case <-ticker.C:
		case <-c.ctx.Done():
			c.finish(u, OutcomeCancelled, failure)
			return
		}
	}

	c.mu.Lock()
	outcome, stale := c.staleOutcome(u.Generation)
	if !stale {
		if err := c.out.Stop(); err != nil {
			c.logger.Warn("Failed to stop output", "error", err)
		}
		c.state.Transition(StateIdle)
	}
	c.mu.Unlock()

	if stale {
		c.finish(u, outcome, failure)
		return
	}

	if failure != nil {
		c.finish(u, OutcomeFailed, failure)
		return
	}
	c.finish(u, OutcomeCompleted, nil)
}

func (c *Controller) finish(u Utterance, outcome Outcome, err error) {
	c.logger.Debug("Utterance finished", "id", u.ID, "outcome", outcome.String())
	c.obsMu.RLock()
	observers := c.observers
	c.obsMu.RUnlock()
	for _, o := range observers {
		o.UtteranceFinished(u, outcome, err)
	}
}

func (c *Controller) notifyStarted(u Utterance) {
	c.obsMu.RLock()
	observers := c.observers
	c.obsMu.RUnlock()
	for _, o := range observers {
		o.UtteranceStarted(u)
	}
}
