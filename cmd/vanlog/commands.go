package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Stigz/eigernordvan/internal/config"
	"github.com/Stigz/eigernordvan/internal/discovery"
	"github.com/Stigz/eigernordvan/internal/logging"
	"github.com/Stigz/eigernordvan/internal/submission"
	"github.com/Stigz/eigernordvan/internal/trip"
	"github.com/Stigz/eigernordvan/internal/tripclient"
	"github.com/Stigz/eigernordvan/internal/ui"
	"github.com/Stigz/eigernordvan/internal/wizard/tui"
)

// Global flags
var (
	apiURLFlag string
	logLevel   string
)

// Command flags
var (
	userName     string
	startKM      string
	endKM        string
	historyUser  string
	historyLimit int
	scanTimeout  int
	scanSave     bool
)

// clientConfig is loaded once in setup and passed explicitly from there.
var clientConfig *config.Client

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURLFlag, "api-url", "", "Ledger API base URL (overrides config and "+config.EnvAPIURL+")")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	rootCmd.AddCommand(logCmd)
	rootCmd.AddCommand(submitCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(configCmd)
}

func setup(cmd *cobra.Command, args []string) error {
	if err := logging.Initialize(logLevel); err != nil {
		return err
	}

	cfg, err := config.LoadClient()
	if err != nil {
		return err
	}
	clientConfig = cfg
	return nil
}

// apiURL returns the --api-url flag, else the configured URL (which already
// includes the environment override).
func apiURL() string {
	if apiURLFlag != "" {
		return apiURLFlag
	}
	return clientConfig.APIURL
}

func requireAPIURL() (string, error) {
	if url := apiURL(); url != "" {
		return url, nil
	}
	return "", fmt.Errorf("no ledger URL configured; run 'vanlog scan --save', 'vanlog config set-url <url>' or pass --api-url")
}

func newClient(baseURL string) *tripclient.Client {
	client := tripclient.NewClient(baseURL)
	if t := clientConfig.Timeout(); t > 0 {
		client.SetTimeout(t)
	}
	return client
}

// logCmd launches the interactive form
var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Log a trip with the interactive form",
	Long: `Open the interactive trip form.

Tab and shift-tab move between the fields, enter logs the trip. When no
ledger URL is configured the form first scans the local network and
remembers the server you pick.`,
	Example: `  vanlog log
  # Or simply (the form is the default):
  vanlog`,
	RunE: runForm,
}

func runForm(cmd *cobra.Command, args []string) error {
	return tui.Run(tui.Options{
		APIURL:   apiURL(),
		UserName: clientConfig.UserName,
		Timeout:  clientConfig.Timeout(),
		Scanner:  discovery.NewScanner(),
		OnSelect: rememberAPIURL,
	})
}

// rememberAPIURL stores a URL picked in the form so the next run skips the scan
func rememberAPIURL(url string) {
	if err := clientConfig.SetAPIURL(url); err != nil {
		logging.Warn("Not saving picked ledger URL", zap.Error(err))
		return
	}
	if err := clientConfig.Save(); err != nil {
		logging.Warn("Saving config failed", zap.Error(err))
	}
}

// submitCmd logs one trip without the form
var submitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Log a trip from flags",
	Long: `Log a single trip without the interactive form.

The values are sent exactly like form input: empty or unreadable numbers are
sent as null and the ledger reports what is wrong with them.`,
	Example: `  vanlog submit --user Anna --start 12034 --end 12088

  # The driver name defaults to user_name from the config file
  vanlog submit --start 12088 --end 12130.5`,
	RunE: runSubmit,
}

func init() {
	submitCmd.Flags().StringVar(&userName, "user", "", "Driver name (defaults to user_name from config)")
	submitCmd.Flags().StringVar(&startKM, "start", "", "Odometer at the start of the trip (km)")
	submitCmd.Flags().StringVar(&endKM, "end", "", "Odometer at the end of the trip (km)")
}

func runSubmit(cmd *cobra.Command, args []string) error {
	baseURL, err := requireAPIURL()
	if err != nil {
		return err
	}

	user := userName
	if !cmd.Flags().Changed("user") {
		user = clientConfig.UserName
	}

	form := trip.NewFormWith(trip.Draft{UserName: user, StartKM: startKM, EndKM: endKM})
	ctrl := submission.New(baseURL, form, submission.WithTimeout(clientConfig.Timeout()))

	p := ui.NewPrinter(cmd.OutOrStdout())
	p.PrintHeader("Log Trip", "vanlog submit",
		ui.Param{Key: "Ledger", Value: baseURL},
		ui.Param{Key: "Driver", Value: user},
		ui.Param{Key: "Odometer", Value: startKM + " → " + endKM},
	)

	ctrl.Observe(func(s submission.Status) {
		if s.IsLoading() {
			p.Println(ui.TableMutedCellStyle.Render(s.Message))
		}
	})

	status, err := ctrl.Submit(cmd.Context())
	if err != nil {
		return err
	}

	if status.Phase != submission.PhaseSuccess {
		p.PrintError("Trip not logged", errors.New(status.Message), submitHints(status.Err)...)
		return errReported
	}

	p.PrintSuccess(status.Message)
	return nil
}

// submitHints suggests next steps for a failed submission
func submitHints(err error) []string {
	switch {
	case tripclient.IsNetworkError(err):
		return []string{
			"Check that the ledger server is running",
			"Run 'vanlog scan' to find it on the local network",
		}
	case tripclient.IsParseError(err):
		return []string{
			"The server did not answer like a vanlog ledger",
			"Check the ledger URL with 'vanlog config show'",
		}
	case tripclient.IsTransportError(err):
		return []string{
			"Check the ledger URL with 'vanlog config show'",
		}
	}
	return nil
}

// historyCmd lists the ledger
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show logged trips, newest first",
	Example: `  vanlog history
  vanlog history --user Anna --limit 50`,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().StringVar(&historyUser, "user", "", "Only show trips by this driver")
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "Maximum number of trips")
}

func runHistory(cmd *cobra.Command, args []string) error {
	baseURL, err := requireAPIURL()
	if err != nil {
		return err
	}

	entries, err := newClient(baseURL).ListTrips(cmd.Context(), historyUser, historyLimit)
	if err != nil {
		return fmt.Errorf("failed to list trips: %s", tripclient.GetShortErrorMessage(err))
	}

	ui.NewPrinter(cmd.OutOrStdout()).PrintTrips(entries)
	return nil
}

// watchCmd follows the live feed
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print trips as they are logged",
	Long: `Subscribe to the ledger's live feed and print every new trip.

Press Ctrl+C to stop.`,
	RunE: runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	baseURL, err := requireAPIURL()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	p := ui.NewPrinter(cmd.OutOrStdout())
	p.Println(ui.TableMutedCellStyle.Render("Watching " + baseURL + " (Ctrl+C to stop)"))

	err = newClient(baseURL).Watch(ctx, func(entry trip.Entry) error {
		p.PrintFeedLine(entry)
		return nil
	})
	if err != nil {
		return fmt.Errorf("feed closed: %s", tripclient.GetShortErrorMessage(err))
	}
	return nil
}

// scanCmd discovers ledger servers
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Find ledger servers on the local network",
	Long: `Scan for vanlog ledger servers using mDNS/DNS-SD discovery.

With --save the scan stops at the first server that answers and saves it as
the configured ledger URL.`,
	Example: `  vanlog scan
  vanlog scan --timeout 10 --save`,
	RunE: runScan,
}

func init() {
	scanCmd.Flags().IntVar(&scanTimeout, "timeout", int(discovery.DefaultScanTimeout/time.Second), "Scan timeout in seconds")
	scanCmd.Flags().BoolVar(&scanSave, "save", false, "Save the first server found as the ledger URL")
}

func runScan(cmd *cobra.Command, args []string) error {
	p := ui.NewPrinter(cmd.OutOrStdout())
	p.Println(ui.TableMutedCellStyle.Render(fmt.Sprintf("Scanning for %s (timeout: %ds)...", discovery.ServiceType, scanTimeout)))

	scanner := discovery.NewScanner()
	scanner.Timeout = time.Duration(scanTimeout) * time.Second

	if !scanSave {
		endpoints, err := scanner.Scan(cmd.Context())
		if err != nil {
			return fmt.Errorf("scan failed: %w", err)
		}
		p.PrintEndpoints(endpoints)
		return nil
	}

	ep, err := scanner.FindFirst(cmd.Context())
	if errors.Is(err, discovery.ErrNoEndpoint) {
		p.PrintEndpoints(nil)
		return nil
	}
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}
	p.PrintEndpoints([]*discovery.Endpoint{ep})

	url := ep.BaseURL()
	if err := saveAPIURL(url); err != nil {
		return err
	}
	p.PrintSuccess("Ledger URL saved", ui.Param{Key: "URL", Value: url})
	return nil
}

func saveAPIURL(url string) error {
	if err := clientConfig.SetAPIURL(url); err != nil {
		return err
	}
	if err := clientConfig.Save(); err != nil {
		return err
	}
	return nil
}

// configCmd groups config file commands
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change the client configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.GetConfigPath()
		if err != nil {
			return err
		}

		url, source := apiURL(), clientConfig.APIURLSource()
		switch {
		case apiURLFlag != "":
			source = "--api-url"
		case url == "":
			url, source = "(not set)", "-"
		}

		timeout := "default"
		if t := clientConfig.Timeout(); t > 0 {
			timeout = t.String()
		}

		p := ui.NewPrinter(cmd.OutOrStdout())
		p.PrintHeader("Configuration", path,
			ui.Param{Key: "API URL", Value: url},
			ui.Param{Key: "Source", Value: source},
			ui.Param{Key: "User", Value: clientConfig.UserName},
			ui.Param{Key: "Timeout", Value: timeout},
		)
		return nil
	},
}

var configSetURLCmd = &cobra.Command{
	Use:     "set-url <url>",
	Short:   "Set the ledger API base URL",
	Example: `  vanlog config set-url http://192.168.1.20:8080`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := saveAPIURL(args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "api_url set to %s\n", clientConfig.APIURL)
		if os.Getenv(config.EnvAPIURL) != "" {
			fmt.Fprintf(cmd.ErrOrStderr(), "note: %s is set and takes precedence\n", config.EnvAPIURL)
		}
		return nil
	},
}

var configSetUserCmd = &cobra.Command{
	Use:   "set-user <name>",
	Short: "Set the driver name prefilled in the form",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		clientConfig.UserName = args[0]
		if err := clientConfig.Save(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "user_name set to %s\n", args[0])
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetURLCmd)
	configCmd.AddCommand(configSetUserCmd)
}
