package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ZeusXpresss/Neuro-Speak/pkg/core/config"
	"github.com/ZeusXpresss/Neuro-Speak/pkg/core/logging"
)

var (
	cfgFile string
	verbose bool

	// cfg is loaded before any subcommand runs
	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "neurospeak",
	Short: "Neuro-Speak - Bildschirmtext-Vorleser",
	Long: `Neuro-Speak liest Untertitel und anderen Bildschirmtext vor.

Ein Scanner erkennt Text in einem Bildschirmbereich (Tesseract OCR) und
übergibt ihn über Dateien im Signal-Verzeichnis an den Sprecher, der ihn
satzweise mit Piper synthetisiert und sofort abspielt.

Programme:
  run      - Sprecher mit Terminal-Monitor
  tray     - Sprecher mit Symbol in der Menüleiste
  scan     - Scanner für einen Bildschirmbereich
  send     - Text an einen laufenden Sprecher senden`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config-Datei (default: ./configs/neurospeak.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose Output")
}

func loadConfig(cmd *cobra.Command, args []string) error {
	var err error
	if cfgFile != "" {
		config.LoadDotEnv()
		cfg, err = config.Load(cfgFile)
	} else {
		cfg, err = config.LoadFromEnv()
		if errors.Is(err, config.ErrNotFound) {
			cfg, err = config.Default(), nil
		}
	}
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	level := cfg.General.LogLevel
	if verbose {
		level = "debug"
	}
	logging.Configure(logging.LoggerConfig{
		ServiceName: "neurospeak",
		Level:       level,
		Format:      cfg.General.LogFormat,
		Output:      os.Stderr,
	})
	return nil
}

func printError(msg string, err error) {
	fmt.Fprintf(os.Stderr, "Fehler: %s: %v\n", msg, err)
}
