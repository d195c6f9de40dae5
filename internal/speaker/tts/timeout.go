package tts

import (
	"context"
	"time"
)

// timeoutSynthesizer bounds every synthesis call
type timeoutSynthesizer struct {
	Synthesizer
	timeout time.Duration
}

// WithTimeout limits each Synthesize call to d. A non-positive d returns s
// unchanged.
func WithTimeout(s Synthesizer, d time.Duration) Synthesizer {
	if d <= 0 {
		return s
	}
	return &timeoutSynthesizer{Synthesizer: s, timeout: d}
}

func (t *timeoutSynthesizer) Synthesize(ctx context.Context, text string) ([]float32, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.Synthesizer.Synthesize(ctx, text)
}
