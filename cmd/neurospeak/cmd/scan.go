package cmd

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ZeusXpresss/Neuro-Speak/internal/scanner"
	"github.com/ZeusXpresss/Neuro-Speak/internal/settings"
	ipc "github.com/ZeusXpresss/Neuro-Speak/internal/speaker/signal"
)

var (
	scanOnce       bool
	scanContinuous bool
	scanROI        string
	scanSaveROI    bool
	scanDebug      bool
	scanSnapshot   bool
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Startet den Scanner für einen Bildschirmbereich",
	Long: `Erkennt weißen Untertiteltext in einem Bildschirmbereich und übergibt ihn
an den Sprecher.

Ohne --once läuft der Scanner mit globalen Tasten: die Scan-Taste (Standard:
Leertaste) stoppt die laufende Ausgabe und sucht bis zu 5 Sekunden nach Text,
die Reset-Taste (Standard: Ctrl+R) lädt den Bereich neu aus den Einstellungen.

Der Bereich wird als BREITExHÖHE+X+Y angegeben.

Beispiele:
  neurospeak scan --roi 1200x120+360+900 --save-roi
  neurospeak scan --once
  neurospeak scan --once --continuous
  neurospeak scan --snapshot`,
	RunE: runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)

	scanCmd.Flags().BoolVar(&scanOnce, "once", false, "Einmal scannen und beenden")
	scanCmd.Flags().BoolVar(&scanContinuous, "continuous", false, "Mit --once: wiederholen bis Text gefunden wird")
	scanCmd.Flags().StringVar(&scanROI, "roi", "", "Bildschirmbereich BREITExHÖHE+X+Y")
	scanCmd.Flags().BoolVar(&scanSaveROI, "save-roi", false, "Bereich in den Einstellungen speichern")
	scanCmd.Flags().BoolVar(&scanDebug, "debug-images", false, "Verarbeitete Bilder speichern")
	scanCmd.Flags().BoolVar(&scanSnapshot, "snapshot", false, "Einmal erfassen, Bild speichern, nichts senden")
}

func runScan(cmd *cobra.Command, args []string) error {
	path := cfg.SettingsPath()
	st, err := settings.Load(path)
	if err != nil {
		printError("Einstellungen konnten nicht geladen werden", err)
	}

	if scanROI != "" {
		roi, err := settings.ParseRect(scanROI)
		if err != nil {
			return err
		}
		if roi.Width < scanner.MinROISize || roi.Height < scanner.MinROISize {
			return fmt.Errorf("region too small: %s (min %dx%d)", roi, scanner.MinROISize, scanner.MinROISize)
		}
		st.ROI = roi
		if scanSaveROI {
			if err := settings.Save(path, st); err != nil {
				return fmt.Errorf("failed to save settings: %w", err)
			}
			fmt.Printf("Bereich gespeichert: %s\n", roi)
		}
	}
	if scanDebug {
		st.SaveDebugImages = true
	}

	ch, err := ipc.NewChannel(cfg.Signal.Dir)
	if err != nil {
		return err
	}
	s := newScanner(cfg, st, ch)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	switch {
	case scanSnapshot:
		text, file, err := s.Snapshot(ctx)
		if file != "" {
			fmt.Printf("Bild gespeichert: %s\n", file)
		}
		return printScanResult(text, err)

	case scanOnce && scanContinuous:
		return printScanResult(s.Continuous(ctx))

	case scanOnce:
		return printScanResult(s.Single(ctx))
	}

	binder, err := newHotkeyBinder()
	if err != nil {
		return fmt.Errorf("hotkey mode unavailable, use --once or --continuous: %w", err)
	}
	runner := scanner.NewRunner(s, binder, path, func(msg string) {
		fmt.Println(msg)
	})
	if !st.ROI.Empty() {
		fmt.Printf("Bereich: %s\n", st.ROI)
	} else {
		fmt.Println("Kein Bereich gesetzt (--roi BREITExHÖHE+X+Y --save-roi)")
	}
	fmt.Printf("Scan-Taste: %s, Bereich neu laden: %s, Beenden: Ctrl+C\n", st.HotkeyContinuousScan, st.HotkeyResetCrop)
	return runner.Run(ctx, st)
}

// printScanResult prints a scan result. Scan errors are shown as their message.
func printScanResult(text string, err error) error {
	var scanErr *scanner.Error
	if errors.As(err, &scanErr) {
		fmt.Println(scanErr.Text)
		return err
	}
	if err != nil {
		return err
	}
	fmt.Println(text)
	return nil
}
