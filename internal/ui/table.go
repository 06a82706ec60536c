package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/Stigz/eigernordvan/internal/discovery"
	"github.com/Stigz/eigernordvan/internal/trip"
)

// TimeLayout is how trip timestamps are shown in tables and feed lines.
const TimeLayout = "2006-01-02 15:04"

var tripColumns = []column{
	{title: "WHEN", width: 17},
	{title: "DRIVER", width: 14},
	{title: "START", width: 9, right: true},
	{title: "END", width: 9, right: true},
	{title: "KM", width: 7, right: true},
	{title: "CHF", width: 8, right: true},
}

type column struct {
	title string
	width int
	right bool
}

func (c column) format(value string) string {
	if len([]rune(value)) > c.width {
		value = string([]rune(value)[:c.width-1]) + "…"
	}
	if c.right {
		return fmt.Sprintf("%*s", c.width, value)
	}
	return fmt.Sprintf("%-*s", c.width, value)
}

// RenderTripTable renders entries newest first, as listed by the ledger.
func RenderTripTable(entries []trip.Entry) string {
	if len(entries) == 0 {
		return TableMutedCellStyle.Render("  No trips logged yet.")
	}

	header := make([]string, len(tripColumns))
	for i, c := range tripColumns {
		header[i] = c.format(c.title)
	}

	lines := []string{TableHeaderStyle.Render("  " + strings.Join(header, "  "))}

	var totalKM, totalCHF float64
	for _, e := range entries {
		lines = append(lines, TableCellStyle.Render("  "+formatTripRow(e)))
		totalKM += e.DeltaKM
		totalCHF += e.TripCostCHF
	}

	summary := fmt.Sprintf("  %d trips · %.1f km · CHF %.2f", len(entries), totalKM, totalCHF)
	lines = append(lines, "", TableMutedCellStyle.Render(summary))
	return strings.Join(lines, "\n")
}

func formatTripRow(e trip.Entry) string {
	values := []string{
		e.LoggedAt.Local().Format(TimeLayout),
		e.UserName,
		fmt.Sprintf("%.1f", e.StartKM),
		fmt.Sprintf("%.1f", e.EndKM),
		fmt.Sprintf("%.1f", e.DeltaKM),
		fmt.Sprintf("%.2f", e.TripCostCHF),
	}
	cells := make([]string, len(values))
	for i, v := range values {
		cells[i] = tripColumns[i].format(v)
	}
	return strings.Join(cells, "  ")
}

// RenderFeedLine renders one trip pushed over the live feed.
func RenderFeedLine(e trip.Entry) string {
	when := TableMutedCellStyle.Render(e.LoggedAt.Local().Format(time.TimeOnly))
	body := fmt.Sprintf("%s drove %.1f km (CHF %.2f)", e.UserName, e.DeltaKM, e.TripCostCHF)
	return when + "  " + TableCellStyle.Render(body)
}

// RenderEndpointList renders ledger servers found by a network scan.
func RenderEndpointList(endpoints []*discovery.Endpoint) string {
	if len(endpoints) == 0 {
		return TableMutedCellStyle.Render("  No ledger servers found.")
	}
	lines := make([]string, 0, len(endpoints))
	for i, ep := range endpoints {
		line := fmt.Sprintf("  %d. %s", i+1, ep.Instance)
		lines = append(lines, TableCellStyle.Render(line)+"  "+TableMutedCellStyle.Render(ep.BaseURL()))
	}
	return strings.Join(lines, "\n")
}
