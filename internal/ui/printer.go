package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/Stigz/eigernordvan/internal/discovery"
	"github.com/Stigz/eigernordvan/internal/trip"
)

// Printer writes UI components to an output stream.
type Printer struct {
	out   io.Writer
	width int
}

// NewPrinter creates a Printer that writes to w.
// If w is nil, os.Stdout is used.
func NewPrinter(w io.Writer) *Printer {
	if w == nil {
		w = os.Stdout
	}
	return &Printer{out: w, width: GetTerminalWidth()}
}

// Width returns the width used by this printer
func (p *Printer) Width() int {
	return p.width
}

// SetWidth overrides the detected terminal width
func (p *Printer) SetWidth(width int) *Printer {
	p.width = width
	return p
}

// Println writes content with a newline
func (p *Printer) Println(content string) {
	_, _ = fmt.Fprintln(p.out, content)
}

// Newline prints an empty line
func (p *Printer) Newline() {
	_, _ = fmt.Fprintln(p.out)
}

// PrintHeader prints a command header box
func (p *Printer) PrintHeader(title, command string, params ...Param) {
	p.Println(NewHeader(title, command, params...).SetWidth(p.width).Render())
}

// PrintSuccess prints a success result box
func (p *Printer) PrintSuccess(title string, details ...Param) {
	p.Println(NewSuccessResult(title, details...).SetWidth(p.width).Render())
}

// PrintWarning prints a warning result box
func (p *Printer) PrintWarning(title string, details ...Param) {
	p.Println(NewWarningResult(title, details...).SetWidth(p.width).Render())
}

// PrintError prints a failure result box with hints
func (p *Printer) PrintError(title string, err error, hints ...string) {
	p.Println(NewFailureResult(title, err, hints...).SetWidth(p.width).Render())
}

// PrintTrips prints the trip history table
func (p *Printer) PrintTrips(entries []trip.Entry) {
	p.Println(RenderTripTable(entries))
}

// PrintFeedLine prints one live feed entry
func (p *Printer) PrintFeedLine(entry trip.Entry) {
	p.Println(RenderFeedLine(entry))
}

// PrintEndpoints prints scan results
func (p *Printer) PrintEndpoints(endpoints []*discovery.Endpoint) {
	p.Println(RenderEndpointList(endpoints))
}
