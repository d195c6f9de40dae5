package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ZeusXpresss/Neuro-Speak/internal/speaker/audio"
	"github.com/ZeusXpresss/Neuro-Speak/pkg/core/health"
	"github.com/ZeusXpresss/Neuro-Speak/pkg/core/version"
)

var doctorJSON bool

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Prüft die Voraussetzungen (Piper, Modell, Tesseract, Audio)",
	RunE:  runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
	doctorCmd.Flags().BoolVar(&doctorJSON, "json", false, "Ergebnis als JSON ausgeben")
}

func runDoctor(cmd *cobra.Command, args []string) error {
	reg := health.NewRegistry("neurospeak", version.Version)

	reg.Register(health.BinaryCheck("piper", cfg.TTS.PiperBinary))
	if model := cfg.ModelPath(); model != "" {
		reg.Register(health.FileCheck("voice-model", model))
		reg.Register(health.FileCheck("voice-config", model+".json"))
	} else {
		reg.RegisterFunc("voice-model", func(ctx context.Context) health.CheckResult {
			return health.CheckResult{
				Name:    "voice-model",
				Status:  health.StatusUnhealthy,
				Message: "no model configured (tts.model)",
			}
		})
	}
	reg.Register(health.BinaryCheck("tesseract", cfg.Scanner.Tesseract))
	if len(cfg.Scanner.CaptureCommand) > 0 {
		reg.Register(health.BinaryCheck("capture", cfg.Scanner.CaptureCommand[0]))
	}
	reg.Register(health.WritableDirCheck("signal-dir", cfg.Signal.Dir))
	reg.RegisterFunc("audio-device", func(ctx context.Context) health.CheckResult {
		name, err := audio.DefaultDeviceName()
		if err != nil {
			return health.CheckResult{Name: "audio-device", Status: health.StatusUnhealthy, Message: err.Error()}
		}
		return health.CheckResult{Name: "audio-device", Status: health.StatusHealthy, Message: name}
	})
	if cfg.Signal.WSEnabled {
		reg.Register(health.TCPCheck("ws-bridge", cfg.Signal.WSAddr, time.Second))
	}

	report := reg.CheckWithTimeout(10 * time.Second)

	if doctorJSON {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
	} else {
		for _, r := range report.Checks {
			fmt.Printf("%s %-14s %s\n", statusMark(r.Status), r.Name, r.Message)
		}
		fmt.Printf("\nGesamt: %s\n", report.Status)
	}

	if report.Status == health.StatusUnhealthy {
		return fmt.Errorf("%d checks failed", countUnhealthy(report))
	}
	return nil
}

func statusMark(s health.Status) string {
	switch s {
	case health.StatusHealthy:
		return "[ok]"
	case health.StatusDegraded:
		return "[!!]"
	default:
		return "[xx]"
	}
}

func countUnhealthy(r *health.Report) int {
	n := 0
	for _, c := range r.Checks {
		if c.Status == health.StatusUnhealthy {
			n++
		}
	}
	return n
}
