package tui

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Stigz/eigernordvan/internal/config"
	"github.com/Stigz/eigernordvan/internal/discovery"
)

// EndpointScanner finds ledger servers. *discovery.Scanner satisfies it.
type EndpointScanner interface {
	Scan(ctx context.Context) ([]*discovery.Endpoint, error)
}

// Messages for async operations
type scanStartMsg struct{}
type scanCompleteMsg struct {
	endpoints []*discovery.Endpoint
	err       error
}
type scanTickMsg time.Time

// discoveryKeyMap defines key bindings for the endpoint list
type discoveryKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Enter  key.Binding
	Rescan key.Binding
	Manual key.Binding
	Quit   key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k discoveryKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Enter, k.Rescan, k.Manual, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k discoveryKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Enter},
		{k.Rescan, k.Manual, k.Quit},
	}
}

// manualModeKeyMap defines key bindings for manual URL entry
type manualModeKeyMap struct {
	Confirm key.Binding
	Cancel  key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (m manualModeKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{m.Confirm, m.Cancel}
}

// FullHelp returns keybindings for the expanded help view
func (m manualModeKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{m.Confirm, m.Cancel}}
}

// endpointItem wraps an Endpoint for use with bubbles/list
type endpointItem struct {
	endpoint *discovery.Endpoint
	manual   string
}

func (e endpointItem) URL() string {
	if e.manual != "" {
		return e.manual
	}
	return e.endpoint.BaseURL()
}

func (e endpointItem) FilterValue() string {
	if e.manual != "" {
		return e.manual
	}
	return e.endpoint.Instance + " " + e.endpoint.Hostname + " " + e.endpoint.IP
}

func (e endpointItem) Title() string {
	if e.manual != "" {
		return "Manual: " + e.manual
	}
	return e.endpoint.Instance
}

func (e endpointItem) Description() string {
	if e.manual != "" {
		return "entered by hand"
	}
	desc := e.endpoint.BaseURL()
	if v := e.endpoint.GetMetadata("version"); v != "" {
		desc += " • v" + v
	}
	return desc
}

// endpointDelegate renders one endpoint per two lines
type endpointDelegate struct{}

func (d endpointDelegate) Height() int  { return 2 }
func (d endpointDelegate) Spacing() int { return 1 }

func (d endpointDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }

func (d endpointDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(endpointItem)
	if !ok {
		return
	}

	title := "  " + it.Title()
	if index == m.Index() {
		title = SelectedMenuItemStyle.Render("→ " + it.Title())
	}
	desc := lipgloss.NewStyle().Foreground(SubtleColor).PaddingLeft(4).Render(it.Description())

	fmt.Fprint(w, title+"\n"+desc)
}

// DiscoveryModel is the server picker shown when no API URL is configured.
type DiscoveryModel struct {
	scanner EndpointScanner

	Scanning      bool
	EndpointList  list.Model
	Selected      bool
	Err           error
	ScanStartTime time.Time
	ScanTimeout   time.Duration

	ManualMode bool
	URLInput   textinput.Model
	InputErr   error

	Width       int
	Height      int
	Spinner     spinner.Model
	ProgressBar progress.Model
	Help        help.Model
	Keys        discoveryKeyMap
	ManualKeys  manualModeKeyMap
}

// NewDiscoveryModel creates the picker around scanner
func NewDiscoveryModel(scanner EndpointScanner, timeout time.Duration) DiscoveryModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	urlInput := textinput.New()
	urlInput.Placeholder = "http://192.168.1.20:8080"
	urlInput.CharLimit = 256
	urlInput.Width = 40

	progressBar := progress.New(progress.WithDefaultGradient())
	progressBar.Width = 40

	endpointList := list.New([]list.Item{}, endpointDelegate{}, 0, 0)
	endpointList.Title = "Ledger servers"
	endpointList.SetShowStatusBar(false)
	endpointList.SetFilteringEnabled(false)
	endpointList.SetShowHelp(false)
	endpointList.Styles.Title = lipgloss.NewStyle().Foreground(PrimaryColor).Bold(true)

	if timeout <= 0 {
		timeout = discovery.DefaultScanTimeout
	}

	return DiscoveryModel{
		scanner:      scanner,
		EndpointList: endpointList,
		ScanTimeout:  timeout,
		URLInput:     urlInput,
		Spinner:      s,
		ProgressBar:  progressBar,
		Help:         help.New(),
		Keys: discoveryKeyMap{
			Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "move up")),
			Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "move down")),
			Enter:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "use server")),
			Rescan: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "rescan")),
			Manual: key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "enter URL")),
			Quit:   key.NewBinding(key.WithKeys("q", "esc"), key.WithHelp("q", "quit")),
		},
		ManualKeys: manualModeKeyMap{
			Confirm: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "confirm")),
			Cancel:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		},
	}
}

// Init starts the first scan
func (m DiscoveryModel) Init() tea.Cmd {
	return m.startScan()
}

func (m DiscoveryModel) startScan() tea.Cmd {
	return tea.Batch(
		func() tea.Msg { return scanStartMsg{} },
		scanEndpoints(m.scanner, m.ScanTimeout),
		m.Spinner.Tick,
		scanTick(),
	)
}

// Update handles messages and updates the model
func (m DiscoveryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.ManualMode {
			return m.updateManualMode(msg)
		}
		return m.updateNormalMode(msg)

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.EndpointList.SetSize(msg.Width-6, msg.Height-10)
		return m, nil

	case scanStartMsg:
		m.Scanning = true
		m.ScanStartTime = time.Now()
		return m, nil

	case scanCompleteMsg:
		m.Scanning = false
		m.Err = msg.err
		items := m.manualItems()
		for _, ep := range msg.endpoints {
			items = append(items, endpointItem{endpoint: ep})
		}
		cmd := m.EndpointList.SetItems(items)
		return m, cmd

	case scanTickMsg:
		if !m.Scanning {
			return m, nil
		}
		return m, scanTick()

	case spinner.TickMsg:
		if !m.Scanning {
			return m, nil
		}
		var cmd tea.Cmd
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m DiscoveryModel) updateNormalMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.Keys.Enter):
		if !m.Scanning && m.EndpointList.SelectedItem() != nil {
			m.Selected = true
		}
		return m, nil

	case key.Matches(msg, m.Keys.Rescan):
		if m.Scanning {
			return m, nil
		}
		m.Err = nil
		return m, m.startScan()

	case key.Matches(msg, m.Keys.Manual):
		m.ManualMode = true
		m.InputErr = nil
		m.URLInput.SetValue("")
		return m, m.URLInput.Focus()
	}

	var cmd tea.Cmd
	if !m.Scanning {
		m.EndpointList, cmd = m.EndpointList.Update(msg)
	}
	return m, cmd
}

func (m DiscoveryModel) updateManualMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.ManualKeys.Cancel):
		m.ManualMode = false
		m.URLInput.Blur()
		return m, nil

	case key.Matches(msg, m.ManualKeys.Confirm):
		// Reuse the config validation so a URL picked here is one `config set-url` accepts
		probe := config.NewClient()
		if err := probe.SetAPIURL(m.URLInput.Value()); err != nil {
			m.InputErr = err
			return m, nil
		}
		item := endpointItem{manual: probe.APIURL}
		items := append([]list.Item{item}, m.EndpointList.Items()...)
		cmd := m.EndpointList.SetItems(items)
		m.EndpointList.Select(0)
		m.ManualMode = false
		m.URLInput.Blur()
		m.Selected = true
		return m, cmd
	}

	var cmd tea.Cmd
	m.URLInput, cmd = m.URLInput.Update(msg)
	return m, cmd
}

func (m DiscoveryModel) manualItems() []list.Item {
	var items []list.Item
	for _, it := range m.EndpointList.Items() {
		if e, ok := it.(endpointItem); ok && e.manual != "" {
			items = append(items, e)
		}
	}
	return items
}

// SelectedURL returns the chosen API base URL, or "" before a choice is made.
func (m DiscoveryModel) SelectedURL() string {
	if !m.Selected {
		return ""
	}
	if it, ok := m.EndpointList.SelectedItem().(endpointItem); ok {
		return it.URL()
	}
	return ""
}

// View renders the discovery screen
func (m DiscoveryModel) View() string {
	var content, helpText string
	switch {
	case m.ManualMode:
		content = m.renderManualEntry()
		helpText = m.Help.View(m.ManualKeys)
	case m.Scanning:
		content = m.renderScanning()
		helpText = "scanning…"
	default:
		content = m.renderResults()
		helpText = m.Help.View(m.Keys)
	}
	return RenderApplicationContainer(content, helpText, m.Width, m.Height)
}

func (m DiscoveryModel) renderScanning() string {
	width, _ := screenSize(m.Width, m.Height)
	elapsed := time.Since(m.ScanStartTime)
	pct := float64(elapsed) / float64(m.ScanTimeout)
	if pct > 1 {
		pct = 1
	}

	content := lipgloss.JoinVertical(lipgloss.Center,
		"",
		TitleStyle.Render(m.Spinner.View()+" SEARCHING FOR LEDGER SERVERS"),
		"",
		SubtitleStyle.Render("Looking for "+discovery.ServiceType+" on the local network"),
		"",
		m.ProgressBar.ViewAs(pct),
		"",
	)
	return lipgloss.Place(width-4, 0, lipgloss.Center, lipgloss.Top, content)
}

func (m DiscoveryModel) renderResults() string {
	var b strings.Builder
	b.WriteString("\n")

	switch {
	case m.Err != nil:
		b.WriteString(RenderError(fmt.Sprintf("Scan failed: %v", m.Err)))
		b.WriteString("\n\n")
		b.WriteString("  Press m to enter the server URL by hand.\n")
	case len(m.EndpointList.Items()) == 0:
		warning := lipgloss.NewStyle().Foreground(WarningColor).Bold(true)
		b.WriteString("  ")
		b.WriteString(warning.Render("⚠ No ledger servers found on your network"))
		b.WriteString("\n\n")
		b.WriteString("  Try:\n")
		b.WriteString("    • Start one with `vanlog-server serve`\n")
		b.WriteString("    • Check that multicast is allowed on this network\n")
		b.WriteString("    • Press m to enter the URL by hand\n")
	default:
		b.WriteString(m.EndpointList.View())
	}

	return b.String()
}

func (m DiscoveryModel) renderManualEntry() string {
	var b strings.Builder
	b.WriteString(RenderTitle("Enter ledger URL"))
	b.WriteString("\n\n")
	b.WriteString("  URL: ")
	b.WriteString(m.URLInput.View())
	b.WriteString("\n\n")
	if m.InputErr != nil {
		b.WriteString(RenderError(m.InputErr.Error()))
		b.WriteString("\n")
	}
	return b.String()
}

func scanEndpoints(scanner EndpointScanner, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout+time.Second)
		defer cancel()
		endpoints, err := scanner.Scan(ctx)
		return scanCompleteMsg{endpoints: endpoints, err: err}
	}
}

func scanTick() tea.Cmd {
	return tea.Tick(250*time.Millisecond, func(t time.Time) tea.Msg {
		return scanTickMsg(t)
	})
}
