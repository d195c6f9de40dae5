package history

import (
	"context"
	"sync"
	"time"

	"github.com/ZeusXpresss/Neuro-Speak/internal/speaker/playback"
	"github.com/ZeusXpresss/Neuro-Speak/pkg/core/logging"
)

type event struct {
	entry   Entry
	finish  bool
	outcome string
	errText string
}

// Recorder is a playback.Observer that writes to a Store from its own
// goroutine, so observer calls never wait on the database.
type Recorder struct {
	store  *Store
	events chan event
	wg     sync.WaitGroup
	once   sync.Once
	logger *logging.Logger
}

// NewRecorder starts a recorder writing to store
func NewRecorder(store *Store) *Recorder {
	r := &Recorder{
		store:  store,
		events: make(chan event, 64),
		logger: logging.New("history"),
	}
	r.wg.Add(1)
	go r.run()
	return r
}

// UtteranceStarted implements playback.Observer
func (r *Recorder) UtteranceStarted(u playback.Utterance) {
	r.send(event{entry: Entry{
		ID:        u.ID,
		Text:      u.Text,
		Sentences: len(u.Sentences),
		CreatedAt: u.CreatedAt,
	}})
}

// UtteranceFinished implements playback.Observer
func (r *Recorder) UtteranceFinished(u playback.Utterance, outcome playback.Outcome, err error) {
	ev := event{entry: Entry{ID: u.ID}, finish: true, outcome: outcome.String()}
	if err != nil {
		ev.errText = err.Error()
	}
	r.send(ev)
}

func (r *Recorder) send(ev event) {
	select {
	case r.events <- ev:
	default:
		r.logger.Warn("History backlog full, dropping event", "id", ev.entry.ID)
	}
}

func (r *Recorder) run() {
	defer r.wg.Done()
	for ev := range r.events {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		var err error
		if ev.finish {
			err = r.store.Finish(ctx, ev.entry.ID, ev.outcome, ev.errText)
		} else {
			err = r.store.Start(ctx, ev.entry)
		}
		cancel()
		if err != nil {
			r.logger.Warn("Failed to write history", "error", err)
		}
	}
}

// Close flushes pending events. The store is left open.
func (r *Recorder) Close() {
	r.once.Do(func() {
		close(r.events)
		r.wg.Wait()
	})
}
