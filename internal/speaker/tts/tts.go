// ============================================================================
// Neuro-Speak - Bildschirmtext-Vorleser
// ============================================================================
//
// Package:     tts
// Description: Text-to-Speech interface
// Author:      ZeusXpresss
// Created:     2026-03-14
// License:     MIT
// ============================================================================

package tts

import (
	"context"
	"encoding/binary"
	"errors"
)

// ErrEmptyText is returned when there is nothing to synthesize
var ErrEmptyText = errors.New("empty text")

// Synthesizer is the interface for text-to-speech engines
type Synthesizer interface {
	// Synthesize converts one sentence to mono float32 samples
	Synthesize(ctx context.Context, text string) ([]float32, error)

	// SampleRate returns the output sample rate
	SampleRate() int

	// Close releases resources
	Close() error
}

// Config holds TTS configuration
type Config struct {
	// BinaryPath is the path or name of the piper executable
	BinaryPath string

	// ModelPath is the path to the .onnx voice model
	ModelPath string

	// Speaker selects a voice in multi-speaker models
	Speaker int

	// LengthScale stretches phoneme durations (1.0 = normal, larger = slower)
	LengthScale float64

	// SampleRate is the output sample rate
	SampleRate int
}

// DefaultConfig returns default TTS configuration
func DefaultConfig() Config {
	return Config{
		BinaryPath:  "piper",
		SampleRate:  22050,
		LengthScale: 1.0,
	}
}

// PCM16ToFloat32 converts little-endian signed 16-bit PCM to float32 samples
// in [-1, 1). A trailing odd byte is ignored.
func PCM16ToFloat32(data []byte) []float32 {
	n := len(data) / 2
	out := make([]float32, n)
	for i := 0; i < n; i++ {
		s := int16(binary.LittleEndian.Uint16(data[2*i:]))
		out[i] = float32(s) / 32768.0
	}
	return out
}
