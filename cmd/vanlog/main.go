// Vanlog logs van trips to a shared ledger.
//
// Each trip is a driver name plus the odometer readings at start and end;
// the ledger server computes the distance and the CHF cost. Running without
// arguments opens the interactive form. When no ledger URL is configured the
// form first scans the local network for one.
//
// Usage:
//
//	vanlog [command] [flags]
//
// See 'vanlog --help' for available commands.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Stigz/eigernordvan/internal/logging"
	"github.com/Stigz/eigernordvan/internal/version"
)

// errReported marks failures already shown to the user in a result box
var errReported = errors.New("failed")

func main() {
	err := rootCmd.Execute()
	logging.Sync()
	if err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "vanlog",
	Short: "Log van trips to the shared ledger",
	Long: `Log van trips to the shared ledger.

Enter your name and the odometer readings at the start and end of a trip;
the ledger computes the distance and what the trip costs.

If no command is specified, the interactive form launches automatically.`,
	Version:           version.Version,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	RunE:              runForm,
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "vanlog %s (commit: %s)\n", version.Version, version.Commit)
	},
}
