package cmd

import (
	"context"
	"strings"
	"testing"

	"github.com/ZeusXpresss/Neuro-Speak/pkg/core/health"
	"github.com/ZeusXpresss/Neuro-Speak/pkg/core/logging"
)

func TestReadSendText(t *testing.T) {
	got, err := readSendText([]string{"Hallo", "Welt."}, strings.NewReader("ignored"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "Hallo Welt." {
		t.Errorf("expected args to be joined, got %q", got)
	}

	got, err = readSendText(nil, strings.NewReader("from stdin\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "from stdin\n" {
		t.Errorf("expected stdin content, got %q", got)
	}
}

func TestShorten(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"short", 10, "short"},
		{"a  b\nc", 10, "a b c"},
		{"abcdefghij", 5, "abcd…"},
		{"äöüäöü", 4, "äöü…"},
	}
	for _, tt := range tests {
		if got := shorten(tt.in, tt.n); got != tt.want {
			t.Errorf("shorten(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
		}
	}
}

func TestStatusMark(t *testing.T) {
	if statusMark(health.StatusHealthy) != "[ok]" {
		t.Error("healthy should be marked ok")
	}
	if statusMark(health.StatusDegraded) != "[!!]" {
		t.Error("degraded should be marked with !!")
	}
	if statusMark(health.StatusUnhealthy) != "[xx]" {
		t.Error("unhealthy should be marked with xx")
	}
}

func TestCountUnhealthy(t *testing.T) {
	r := &health.Report{Checks: []health.CheckResult{
		{Name: "a", Status: health.StatusHealthy},
		{Name: "b", Status: health.StatusUnhealthy},
		{Name: "c", Status: health.StatusDegraded},
		{Name: "d", Status: health.StatusUnhealthy},
	}}
	if n := countUnhealthy(r); n != 2 {
		t.Errorf("expected 2 unhealthy checks, got %d", n)
	}
}

type closeCountingSynth struct {
	closed int
}

func (s *closeCountingSynth) Synthesize(ctx context.Context, text string) ([]float32, error) {
	return nil, nil
}

func (s *closeCountingSynth) SampleRate() int { return 22050 }

func (s *closeCountingSynth) Close() error {
	s.closed++
	return nil
}

func TestSpeakerRuntime_CloseReleasesSynthesizer(t *testing.T) {
	synth := &closeCountingSynth{}
	rt := &speakerRuntime{synth: synth, logger: logging.New("test")}

	rt.Close()

	if synth.closed != 1 {
		t.Errorf("synthesizer closed %d times, want 1", synth.closed)
	}
}
