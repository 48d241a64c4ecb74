package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mindstash-io/mindstash/internal/cli"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "mindstashd",
		Short: "Mindstash daemon",
		Long:  "Mindstash daemon for running the knowledge capture API server",
	}

	rootCmd.AddCommand(cli.ServeCmd())

	if len(os.Args) == 1 {
		os.Args = append(os.Args, "serve")
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
