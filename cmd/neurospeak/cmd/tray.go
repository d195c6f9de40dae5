package cmd

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ZeusXpresss/Neuro-Speak/internal/speaker/ui/tray"
)

var trayNoHotkeys bool

var trayCmd = &cobra.Command{
	Use:   "tray",
	Short: "Startet den Sprecher als Menüleisten-Anwendung",
	Long: `Startet den Sprecher-Prozess mit einem Symbol in der Menüleiste.

Das Symbol zeigt den Zustand (weiß: bereit, grün: spricht, orange: pausiert).
Über das Menü lassen sich Wiedergabe, Zwischenablage, Scan und Ren'Py-Modus
steuern.`,
	RunE: runTray,
}

func init() {
	rootCmd.AddCommand(trayCmd)

	trayCmd.Flags().BoolVar(&trayNoHotkeys, "no-hotkeys", false, "Globale Tasten nicht registrieren")
}

func runTray(cmd *cobra.Command, args []string) error {
	rt, err := newSpeakerRuntime(cfg, runtimeOptions{hotkeys: !trayNoHotkeys})
	if err != nil {
		printError("Sprecher konnte nicht gestartet werden", err)
		return err
	}
	defer rt.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	t := tray.New(rt.app)
	rt.app.SetDisplay(t)
	rt.controller.OnStateChange(t.StateChanged)

	errCh := make(chan error, 1)
	go func() {
		err := rt.app.Run(ctx)
		t.Quit()
		errCh <- err
	}()

	// the tray owns the main goroutine until it quits
	t.Run()
	rt.app.Quit()
	return <-errCh
}
