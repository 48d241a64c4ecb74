package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/mindstash-io/mindstash/internal/cli/client"
)

var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "mindstash",
		Short: "Mindstash CLI - personal knowledge capture",
		Long: `Mindstash CLI provides commands to capture and browse knowledge items.

Environment variables:
  MINDSTASH_API_URL   API base URL (default: http://localhost:8080)`,
		Version: version,
	}

	// Accept snake_case spellings of flags for script compatibility.
	rootCmd.SetGlobalNormalizationFunc(func(f *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	rootCmd.PersistentFlags().Bool("output", false, "Output as JSON")
	rootCmd.PersistentFlags().String("api-url", "", "API base URL (overrides env and config)")

	rootCmd.AddCommand(client.InitCmd())
	rootCmd.AddCommand(client.AddCmd())
	rootCmd.AddCommand(client.ListCmd())
	rootCmd.AddCommand(client.SearchCmd())
	rootCmd.AddCommand(client.DeleteCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
