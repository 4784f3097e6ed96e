package main

import (
	"os"

	"github.com/MarcSchuh/DKBParsing/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
