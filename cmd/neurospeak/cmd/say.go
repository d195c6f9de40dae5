package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ZeusXpresss/Neuro-Speak/internal/speaker/text"
	"github.com/ZeusXpresss/Neuro-Speak/internal/speaker/tts"
)

var (
	sayOutput string
	sayRenpy  bool
	sayGap    float64
)

var sayCmd = &cobra.Command{
	Use:   "say <text>",
	Short: "Synthetisiert Text in eine WAV-Datei",
	Long: `Bereitet Text wie der Sprecher auf und schreibt die Sprachausgabe als
16-Bit-Mono-WAV.

Beispiele:
  neurospeak say "Hallo Welt." -o hallo.wav
  neurospeak say --renpy "Eileen: Hallo!" -o eileen.wav`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSay,
}

func init() {
	rootCmd.AddCommand(sayCmd)

	sayCmd.Flags().StringVarP(&sayOutput, "output", "o", "output.wav", "Ausgabedatei")
	sayCmd.Flags().BoolVar(&sayRenpy, "renpy", false, "Ren'Py-Aufbereitung anwenden")
	sayCmd.Flags().Float64Var(&sayGap, "gap", 0.2, "Pause zwischen Sätzen in Sekunden")
}

func runSay(cmd *cobra.Command, args []string) error {
	input := text.Preprocess(strings.Join(args, " "), sayRenpy)
	if input == "" {
		return tts.ErrEmptyText
	}

	synth, err := newSynthesizer(cfg)
	if err != nil {
		return err
	}
	defer synth.Close()

	samples, err := tts.SynthesizeAll(context.Background(), synth, input, sayGap)
	if err != nil {
		return err
	}

	f, err := os.Create(sayOutput)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", sayOutput, err)
	}
	if err := tts.WriteWAV(f, samples, synth.SampleRate()); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	seconds := float64(len(samples)) / float64(synth.SampleRate())
	fmt.Printf("%s geschrieben (%.1f s)\n", sayOutput, seconds)
	return nil
}
