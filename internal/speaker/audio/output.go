// ============================================================================
// Neuro-Speak - Bildschirmtext-Vorleser
// ============================================================================
//
// Package:     audio
// Description: Callback-driven audio output using PortAudio
// Author:      ZeusXpresss
// Created:     2026-03-14
// License:     MIT
// ============================================================================

package audio

import (
	"fmt"
	"sync"

	"github.com/gordonklaus/portaudio"

	"github.com/ZeusXpresss/Neuro-Speak/pkg/core/logging"
)

// FillFunc produces one frame of mono samples. It runs on the device thread
// and must not block.
type FillFunc func(out []float32)

// Output is an audio device that pulls frames from a FillFunc while running
type Output interface {
	Start(fill FillFunc) error
	Stop() error
	Running() bool
	Close() error
}

// OutputConfig holds configuration for the output device
type OutputConfig struct {
	SampleRate      float64
	FramesPerBuffer int
}

// DefaultOutputConfig returns default output configuration
func DefaultOutputConfig() OutputConfig {
	return OutputConfig{
		SampleRate:      22050, // Piper default
		FramesPerBuffer: 1024,
	}
}

// PortAudioOutput plays mono float32 audio on the default output device
type PortAudioOutput struct {
	mu      sync.Mutex
	cfg     OutputConfig
	stream  *portaudio.Stream
	running bool
	closed  bool
	logger  *logging.Logger
}

// NewPortAudioOutput initializes PortAudio. Close must be called to release it.
func NewPortAudioOutput(cfg OutputConfig) (*PortAudioOutput, error) {
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = DefaultOutputConfig().SampleRate
	}
	if cfg.FramesPerBuffer <= 0 {
		cfg.FramesPerBuffer = DefaultOutputConfig().FramesPerBuffer
	}
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize PortAudio: %w", err)
	}
	return &PortAudioOutput{
		cfg:    cfg,
		logger: logging.New("audio"),
	}, nil
}

// Start opens and starts the output stream. Starting a running output is a no-op.
func (o *PortAudioOutput) Start(fill FillFunc) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.closed {
		return fmt.Errorf("output closed")
	}
	if o.running {
		return nil
	}

	stream, err := portaudio.OpenDefaultStream(
		0, // input channels (none)
		1, // mono output
		o.cfg.SampleRate,
		o.cfg.FramesPerBuffer,
		func(out []float32) { fill(out) },
	)
	if err != nil {
		return fmt.Errorf("failed to open output stream: %w", err)
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		return fmt.Errorf("failed to start output stream: %w", err)
	}

	o.stream = stream
	o.running = true
	o.logger.Debug("Output stream started", "sample_rate", o.cfg.SampleRate, "frames", o.cfg.FramesPerBuffer)
	return nil
}

// Stop stops and closes the stream. Stopping a stopped output is a no-op.
func (o *PortAudioOutput) Stop() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.stopLocked()
}

func (o *PortAudioOutput) stopLocked() error {
	if !o.running {
		return nil
	}
	o.running = false

	stream := o.stream
	o.stream = nil

	stopErr := stream.Stop()
	closeErr := stream.Close()
	o.logger.Debug("Output stream stopped")

	if stopErr != nil {
		return fmt.Errorf("failed to stop output stream: %w", stopErr)
	}
	if closeErr != nil {
		return fmt.Errorf("failed to close output stream: %w", closeErr)
	}
	return nil
}

// Running reports whether the stream is started
func (o *PortAudioOutput) Running() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.running
}

// Close stops the stream and terminates PortAudio
func (o *PortAudioOutput) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.closed {
		return nil
	}
	o.closed = true

	err := o.stopLocked()
	if termErr := portaudio.Terminate(); termErr != nil && err == nil {
		err = fmt.Errorf("failed to terminate PortAudio: %w", termErr)
	}
	return err
}

// DefaultDeviceName returns the name of the default output device
func DefaultDeviceName() (string, error) {
	if err := portaudio.Initialize(); err != nil {
		return "", fmt.Errorf("failed to initialize PortAudio: %w", err)
	}
	defer portaudio.Terminate()

	dev, err := portaudio.DefaultOutputDevice()
	if err != nil {
		return "", fmt.Errorf("no default output device: %w", err)
	}
	return dev.Name, nil
}
