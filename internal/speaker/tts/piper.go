// ============================================================================
// Neuro-Speak - Bildschirmtext-Vorleser
// ============================================================================
//
// Package:     tts
// Description: Piper TTS implementation
// Author:      ZeusXpresss
// Created:     2026-03-14
// License:     MIT
// ============================================================================

package tts

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ZeusXpresss/Neuro-Speak/pkg/core/logging"
)

// Piper implements text-to-speech by running the piper binary once per sentence
type Piper struct {
	binaryPath  string
	modelPath   string
	configPath  string
	speaker     int
	lengthScale float64
	sampleRate  int
	espeakData  string
	logger      *logging.Logger
}

// NewPiper creates a new Piper synthesizer
func NewPiper(cfg Config) (*Piper, error) {
	if cfg.BinaryPath == "" {
		return nil, fmt.Errorf("piper binary path is required")
	}
	binaryPath, err := exec.LookPath(cfg.BinaryPath)
	if err != nil {
		return nil, fmt.Errorf("piper binary not found: %s", cfg.BinaryPath)
	}

	if cfg.ModelPath == "" {
		return nil, fmt.Errorf("model path is required")
	}
	if _, err := os.Stat(cfg.ModelPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("model file not found: %s", cfg.ModelPath)
	}

	// piper runs in its own directory
	if abs, err := filepath.Abs(cfg.ModelPath); err == nil {
		cfg.ModelPath = abs
	}

	// Config file should be next to model
	configPath := cfg.ModelPath + ".json"
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("model config not found: %s", configPath)
	}

	sampleRate := cfg.SampleRate
	if info, err := ReadVoiceInfo(cfg.ModelPath); err == nil && info.SampleRate > 0 {
		sampleRate = info.SampleRate
	}

	// espeak-ng-data shipped next to the binary, if any
	espeakData := filepath.Join(filepath.Dir(binaryPath), "espeak-ng-data")
	if _, err := os.Stat(espeakData); os.IsNotExist(err) {
		espeakData = ""
	}

	return &Piper{
		binaryPath:  binaryPath,
		modelPath:   cfg.ModelPath,
		configPath:  configPath,
		speaker:     cfg.Speaker,
		lengthScale: cfg.LengthScale,
		sampleRate:  sampleRate,
		espeakData:  espeakData,
		logger:      logging.New("tts"),
	}, nil
}

// Args returns the command line used for raw synthesis
func (p *Piper) Args() []string {
	args := []string{
		"--model", p.modelPath,
		"--config", p.configPath,
		"--output_raw",
	}
	if p.speaker > 0 {
		args = append(args, "--speaker", strconv.Itoa(p.speaker))
	}
	if p.lengthScale > 0 && p.lengthScale != 1.0 {
		args = append(args, "--length_scale", strconv.FormatFloat(p.lengthScale, 'f', -1, 64))
	}
	if p.espeakData != "" {
		args = append(args, "--espeak_data", p.espeakData)
	}
	return args
}

// Synthesize converts one sentence to float32 samples
func (p *Piper) Synthesize(ctx context.Context, text string) ([]float32, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyText
	}

	cmd := exec.CommandContext(ctx, p.binaryPath, p.Args()...)
	cmd.Stdin = strings.NewReader(text + "\n")

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	// Set working directory to piper directory for library paths
	cmd.Dir = filepath.Dir(p.binaryPath)
	cmd.Env = append(os.Environ(),
		fmt.Sprintf("LD_LIBRARY_PATH=%s", filepath.Dir(p.binaryPath)),
		fmt.Sprintf("DYLD_LIBRARY_PATH=%s", filepath.Dir(p.binaryPath)),
	)

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("piper failed: %w, stderr: %s", err, strings.TrimSpace(stderr.String()))
	}

	samples := PCM16ToFloat32(stdout.Bytes())
	p.logger.Trace("Synthesized sentence", "chars", len(text), "samples", len(samples))
	return samples, nil
}

// SampleRate returns the output sample rate
func (p *Piper) SampleRate() int {
	if p.sampleRate > 0 {
		return p.sampleRate
	}
	return 22050 // Piper default
}

// Close releases resources
func (p *Piper) Close() error {
	return nil
}
