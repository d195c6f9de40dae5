package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ZeusXpresss/Neuro-Speak/internal/speaker/tts"
)

var voicesCmd = &cobra.Command{
	Use:   "voices",
	Short: "Listet die installierten Piper-Stimmen",
	RunE: func(cmd *cobra.Command, args []string) error {
		voices, err := tts.GetAvailableVoices(cfg.TTS.ModelsDir)
		if err != nil {
			return err
		}
		if len(voices) == 0 {
			fmt.Printf("Keine Stimmen in %s gefunden\n", cfg.TTS.ModelsDir)
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tSPRACHE\tQUALITÄT\tRATE\tSPRECHER")
		for _, v := range voices {
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\n", v.Name, v.Language, v.Quality, v.SampleRate, len(v.Speakers))
			for _, s := range v.Speakers {
				fmt.Fprintf(w, "  %d\t%s\t\t\t\n", s.ID, s.Name)
			}
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(voicesCmd)
}
