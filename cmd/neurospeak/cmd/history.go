package cmd

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ZeusXpresss/Neuro-Speak/internal/speaker/history"
)

var (
	historyLimit int
	historyStats bool
	historyClear bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Zeigt die zuletzt gesprochenen Texte",
	Long: `Zeigt den Verlauf der gesprochenen Texte mit Ergebnis (beendet, abgebrochen,
fehlgeschlagen).

Beispiele:
  neurospeak history
  neurospeak history --limit 50
  neurospeak history --stats
  neurospeak history --clear`,
	RunE: runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Anzahl der Einträge")
	historyCmd.Flags().BoolVar(&historyStats, "stats", false, "Nur Anzahl je Ergebnis anzeigen")
	historyCmd.Flags().BoolVar(&historyClear, "clear", false, "Verlauf löschen")
}

func runHistory(cmd *cobra.Command, args []string) error {
	store, err := history.Open(cfg.History.Path)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()

	if historyClear {
		if err := store.Clear(ctx); err != nil {
			return err
		}
		fmt.Println("Verlauf gelöscht")
		return nil
	}

	if historyStats {
		stats, err := store.Statistics(ctx)
		if err != nil {
			return err
		}
		outcomes := make([]string, 0, len(stats))
		for o := range stats {
			outcomes = append(outcomes, o)
		}
		sort.Strings(outcomes)
		for _, o := range outcomes {
			fmt.Printf("%-10s %d\n", o, stats[o])
		}
		return nil
	}

	entries, err := store.List(ctx, historyLimit)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("Verlauf ist leer")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ZEIT\tERGEBNIS\tSÄTZE\tTEXT")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\n",
			e.CreatedAt.Local().Format("2006-01-02 15:04:05"), e.Outcome, e.Sentences, shorten(e.Text, 60))
	}
	return w.Flush()
}

func shorten(s string, n int) string {
	r := []rune(strings.Join(strings.Fields(s), " "))
	if len(r) <= n {
		return string(r)
	}
	return string(r[:n-1]) + "…"
}
