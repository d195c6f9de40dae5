package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	ipc "github.com/ZeusXpresss/Neuro-Speak/internal/speaker/signal"
)

var (
	sendCancel bool
	sendWS     bool
	sendPing   bool
)

var sendCmd = &cobra.Command{
	Use:   "send [text]",
	Short: "Sendet Text an einen laufenden Sprecher",
	Long: `Sendet Text an einen laufenden Sprecher, entweder über das Signal-Verzeichnis
(Textdatei plus Trigger) oder über die WebSocket-Brücke.

Ohne Argument wird der Text von der Standardeingabe gelesen.

Beispiele:
  neurospeak send "Hallo Welt."
  echo "Hallo" | neurospeak send
  neurospeak send --cancel
  neurospeak send --ws "Über die Brücke."`,
	RunE: runSend,
}

func init() {
	rootCmd.AddCommand(sendCmd)

	sendCmd.Flags().BoolVar(&sendCancel, "cancel", false, "Laufende Ausgabe abbrechen")
	sendCmd.Flags().BoolVar(&sendWS, "ws", false, "WebSocket-Brücke statt Dateien verwenden")
	sendCmd.Flags().BoolVar(&sendPing, "ping", false, "Mit --ws: nur Erreichbarkeit prüfen")
}

func runSend(cmd *cobra.Command, args []string) error {
	var text string
	if !sendCancel && !sendPing {
		var err error
		if text, err = readSendText(args, cmd.InOrStdin()); err != nil {
			return err
		}
	}

	if sendWS {
		return sendViaBridge(text)
	}

	ch, err := ipc.NewChannel(cfg.Signal.Dir)
	if err != nil {
		return err
	}
	if sendCancel {
		return ch.RequestCancel()
	}
	return ch.Publish(text)
}

func readSendText(args []string, stdin io.Reader) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	if f, ok := stdin.(*os.File); ok {
		if info, err := f.Stat(); err == nil && info.Mode()&os.ModeCharDevice != 0 {
			return "", errors.New("no text given")
		}
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	return string(data), nil
}

func sendViaBridge(text string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client, err := ipc.Dial(ctx, cfg.Signal.WSAddr)
	if err != nil {
		return err
	}
	defer client.Close()

	switch {
	case sendPing:
		if err := client.Ping(); err != nil {
			return err
		}
		fmt.Printf("Sprecher erreichbar: %s\n", cfg.Signal.WSAddr)
		return nil
	case sendCancel:
		return client.Cancel()
	default:
		return client.Speak(text)
	}
}
