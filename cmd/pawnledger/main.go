package main

import (
	"os"

	"pawnledger/internal/adapters/cli"
)

func main() {
	rootCmd := cli.NewRootCommand(cli.DefaultLoader(), os.Stdout)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
