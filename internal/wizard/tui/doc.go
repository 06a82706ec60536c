// Package tui implements the interactive trip form of the vanlog CLI.
//
// Built on Bubble Tea, it follows the Model-Update-View pattern with two
// screens coordinated by AppModel:
//
//  1. Discovery (only when no API URL is configured):
//     - Scans the local network for _vanlog._tcp servers (mDNS)
//     - Lists them with bubbles/list; m enters a URL by hand
//     - The chosen URL is handed to Options.OnSelect and opens the form
//
//  2. Form:
//     - Three bubbles/textinput fields (driver, start km, end km)
//     - tab/shift-tab move focus, enter logs the trip
//     - Every keystroke is written through to the trip.Form
//     - A status line shows loading, the confirmation or the error
//     - The most recent ledger entries are listed below the inputs
//
// # Submission Flow
//
// Enter calls submission.Controller.Begin inside Update, so the loading
// state is rendered in the next frame. The HTTP request runs in a tea.Cmd
// (Controller.Execute) and its result comes back as a message that is
// passed to Controller.Resolve on the Update goroutine. Enter is ignored
// while an attempt is loading. After a confirmed trip the controller
// resets the form and the inputs are re-synced from the empty draft; on
// failure the draft is kept so the user can correct it.
//
// # Layout
//
// Every screen renders through RenderApplicationContainer. Until Bubble
// Tea reports the window size, the terminal is queried via internal/ui.
package tui
