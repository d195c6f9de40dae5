package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ZeusXpresss/Neuro-Speak/internal/settings"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Zeigt oder ändert die Benutzereinstellungen",
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Zeigt die aktuellen Einstellungen",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := settings.Load(cfg.SettingsPath())
		if err != nil {
			printError("Einstellungen konnten nicht gelesen werden, zeige Standardwerte", err)
		}
		data, err := json.MarshalIndent(st, "", "  ")
		if err != nil {
			return err
		}
		fmt.Printf("# %s\n%s\n", cfg.SettingsPath(), data)
		return nil
	},
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Ändert eine Einstellung",
	Long: `Ändert eine Einstellung und speichert sie. Ein laufender Sprecher übernimmt
Tastenkürzel und Intervall erst nach einem Neustart oder über den
Einstellungsdialog.

Schlüssel:
  speak_hotkey, cancel_hotkey, file_watch_interval, renpy_mode,
  hotkey_continuous_scan, hotkey_reset_crop, roi, save_debug_images

Beispiele:
  neurospeak settings set speak_hotkey ctrl+alt+s
  neurospeak settings set renpy_mode false
  neurospeak settings set roi 1200x120+360+900`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := cfg.SettingsPath()
		st, err := settings.Load(path)
		if err != nil {
			return err
		}
		if err := st.Set(args[0], args[1]); err != nil {
			return err
		}
		if err := settings.Save(path, st); err != nil {
			return err
		}
		fmt.Printf("%s = %s\n", args[0], args[1])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(settingsCmd)
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
}
