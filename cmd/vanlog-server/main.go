// Vanlog-server is the trip ledger behind the vanlog client.
//
// It accepts trips over HTTP, computes distance and cost, appends them to a
// ledger (memory, Postgres or Redis) and pushes every new entry to websocket
// subscribers and, optionally, to Kafka. The API is advertised on the local
// network via mDNS so clients can find it without configuration.
//
// Usage:
//
//	vanlog-server serve [flags]
//
// Settings come from the environment (VANLOG_PORT, VANLOG_STORE,
// DATABASE_URL, ...); flags override them.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Stigz/eigernordvan/internal/version"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "vanlog-server",
	Short: "Vanlog trip ledger server",
	Long: `A small HTTP service that records van trips.

POST /trip validates a trip, charges it at the configured CHF rate and
appends it to the ledger. GET /trips lists the ledger newest first and
GET /trips/feed streams new entries over a websocket.

For logging trips from the terminal, use the separate 'vanlog' client.`,
	Version:      version.Version,
	SilenceUsage: true,
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "vanlog-server %s (commit: %s)\n", version.Version, version.Commit)
	},
}
