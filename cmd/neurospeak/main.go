package main

import (
	"os"

	"github.com/ZeusXpresss/Neuro-Speak/cmd/neurospeak/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
