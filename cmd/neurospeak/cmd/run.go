package cmd

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ZeusXpresss/Neuro-Speak/internal/speaker/playback"
	"github.com/ZeusXpresss/Neuro-Speak/internal/speaker/ui/monitor"
)

var (
	runNoHotkeys bool
	runHeadless  bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Startet den Sprecher mit Terminal-Monitor",
	Long: `Startet den Sprecher-Prozess.

Der Sprecher beobachtet das Signal-Verzeichnis (tts_input.txt, tts_trigger.txt,
tts_cancel.txt) und liest neuen Text satzweise vor. Der Terminal-Monitor zeigt
den erkannten Text und bietet die Bedienelemente.

Beispiele:
  neurospeak run                  # Mit Monitor und globalen Tasten
  neurospeak run --headless       # Ohne Oberfläche
  neurospeak run --no-hotkeys     # Ohne globale Tasten`,
	RunE: runSpeaker,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().BoolVar(&runNoHotkeys, "no-hotkeys", false, "Globale Tasten nicht registrieren")
	runCmd.Flags().BoolVar(&runHeadless, "headless", false, "Ohne Terminal-Monitor laufen")
}

func runSpeaker(cmd *cobra.Command, args []string) error {
	rt, err := newSpeakerRuntime(cfg, runtimeOptions{hotkeys: !runNoHotkeys})
	if err != nil {
		printError("Sprecher konnte nicht gestartet werden", err)
		return err
	}
	defer rt.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if runHeadless {
		return rt.app.Run(ctx)
	}

	bridge := monitor.NewBridge()
	rt.app.SetDisplay(bridge)
	rt.controller.OnStateChange(bridge.StateChanged)

	errCh := make(chan error, 1)
	go func() { errCh <- rt.app.Run(ctx) }()

	stats := func() playback.Stats { return rt.controller.Stats() }
	if err := monitor.Run(ctx, rt.app, bridge, stats); err != nil {
		rt.app.Quit()
		return err
	}
	rt.app.Quit()
	return <-errCh
}
