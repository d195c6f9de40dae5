package playback

import (
	"time"

	"github.com/google/uuid"

	"github.com/ZeusXpresss/Neuro-Speak/internal/speaker/text"
)

// Utterance is one speak request. It is never mutated after creation; a new
// request supersedes it.
type Utterance struct {
	ID         string
	Text       string
	Normalized string
	Generation uint64
	Sentences  []string
	CreatedAt  time.Time
}

func newUtterance(s string, generation uint64) Utterance {
	return Utterance{
		ID:         uuid.New().String(),
		Text:       s,
		Normalized: text.Normalize(s),
		Generation: generation,
		Sentences:  text.SplitSentences(s),
		CreatedAt:  time.Now(),
	}
}

// Outcome tells how an utterance ended
type Outcome int

const (
	OutcomeCompleted Outcome = iota
	OutcomeCancelled
	OutcomeSuperseded
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeCompleted:
		return "completed"
	case OutcomeCancelled:
		return "cancelled"
	case OutcomeSuperseded:
		return "superseded"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Observer is notified about utterance lifecycle events. Calls come from
// the caller of Speak and from synthesis workers, so implementations must
// be safe for concurrent use and must not block.
type Observer interface {
	UtteranceStarted(u Utterance)
	UtteranceFinished(u Utterance, outcome Outcome, err error)
}
