package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/ZeusXpresss/Neuro-Speak/pkg/core/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Zeigt die Version an",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("Neuro-Speak v%s\n", version.Version)
		fmt.Printf("  Sprecher:   %s\n", version.ComponentVersion("speaker"))
		fmt.Printf("  Scanner:    %s\n", version.ComponentVersion("scanner"))
		fmt.Printf("  Git Commit: %s\n", orDefault(version.GitCommit, "development"))
		fmt.Printf("  Build Date: %s\n", orDefault(version.BuildTime, "unknown"))
		fmt.Printf("  Go Version: %s\n", runtime.Version())
		fmt.Printf("  OS/Arch:    %s/%s\n", runtime.GOOS, runtime.GOARCH)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
