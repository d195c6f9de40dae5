package tts

import (
	"context"
	"crypto/sha256"
	"encoding/hex"

	"github.com/ZeusXpresss/Neuro-Speak/pkg/core/cache"
)

// cachingSynthesizer reuses audio for sentences spoken before. Subtitles are
// often re-triggered unchanged, so the same sentence is synthesized again and
// again otherwise.
type cachingSynthesizer struct {
	Synthesizer
	cache *cache.Cache[[]float32]
}

// WithCache wraps s with a sentence audio cache. A nil cache returns s.
func WithCache(s Synthesizer, c *cache.Cache[[]float32]) Synthesizer {
	if c == nil {
		return s
	}
	return &cachingSynthesizer{Synthesizer: s, cache: c}
}

func (c *cachingSynthesizer) Synthesize(ctx context.Context, text string) ([]float32, error) {
	samples, err := c.cache.GetOrSet(cacheKey(text), func() ([]float32, error) {
		return c.Synthesizer.Synthesize(ctx, text)
	})
	if err != nil {
		return nil, err
	}
	// Callers may scale or trim the buffer.
	out := make([]float32, len(samples))
	copy(out, samples)
	return out, nil
}

func (c *cachingSynthesizer) Close() error {
	c.cache.Close()
	return c.Synthesizer.Close()
}

func cacheKey(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}
