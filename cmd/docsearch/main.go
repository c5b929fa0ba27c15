package main

import (
	"fmt"
	"os"

	"github.com/cloo-solutions/docsearch/internal/cli"
)

var version = "dev"

func main() {
	rootCmd := cli.NewRootCmd(version)
	args := cli.DefaultArgs(os.Args[1:])

	handled, err := cli.HandleHelpJSON(os.Stdout, rootCmd, args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if handled {
		return
	}

	rootCmd.SetArgs(args)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
