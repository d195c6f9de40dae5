package tts

import (
	"context"
	"fmt"
	"io"
	"math"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/ZeusXpresss/Neuro-Speak/internal/speaker/text"
)

// WriteWAV encodes mono float32 samples as 16-bit PCM WAV
func WriteWAV(w io.WriteSeeker, samples []float32, sampleRate int) error {
	enc := wav.NewEncoder(w, sampleRate, 16, 1, 1)

	data := make([]int, len(samples))
	for i, s := range samples {
		v := math.Round(float64(s) * 32767)
		data[i] = int(math.Max(-32768, math.Min(32767, v)))
	}

	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: sampleRate},
		Data:           data,
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("failed to write wav data: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to finalize wav: %w", err)
	}
	return nil
}

// SynthesizeAll synthesizes text sentence by sentence and concatenates the
// result with a short pause between sentences.
func SynthesizeAll(ctx context.Context, s Synthesizer, input string, gap float64) ([]float32, error) {
	sentences := text.SplitSentences(input)
	if len(sentences) == 0 {
		return nil, ErrEmptyText
	}

	silence := make([]float32, int(gap*float64(s.SampleRate())))
	var out []float32
	for i, sentence := range sentences {
		samples, err := s.Synthesize(ctx, sentence)
		if err != nil {
			return nil, fmt.Errorf("sentence %d: %w", i+1, err)
		}
		if i > 0 {
			out = append(out, silence...)
		}
		out = append(out, samples...)
	}
	return out, nil
}
