// Package ui renders the one-shot terminal output of the vanlog CLI.
//
// The components here follow a "print and exit" pattern: they format
// styled boxes and tables with Lipgloss and write them to an io.Writer.
// The interactive form lives in the wizard/tui package.
//
// # Components
//
//   - Header: command banner showing the operation and its parameters
//   - Result: success, failure or warning box
//   - TripTable: the ledger history as aligned rows
//   - EndpointList: ledger servers found on the local network
//
// # Usage Pattern
//
// Commands create a Printer and call its methods:
//
//	p := ui.NewPrinter(cmd.OutOrStdout())
//	p.PrintHeader("Log Trip", "vanlog submit", ui.Param{Key: "API", Value: url})
//	p.PrintSuccess("Trip logged", ui.Param{Key: "Distance", Value: "54.0 km"})
//
// Widths follow the terminal (see GetTerminalWidth) and are clamped to
// MinTerminalWidth and MaxContentWidth so output stays readable when piped.
package ui
