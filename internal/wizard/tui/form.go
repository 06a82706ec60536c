package tui

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/Stigz/eigernordvan/internal/logging"
	"github.com/Stigz/eigernordvan/internal/submission"
	"github.com/Stigz/eigernordvan/internal/trip"
	"github.com/Stigz/eigernordvan/internal/ui"
)

// recentLimit is how many ledger entries the form shows below the inputs.
const recentLimit = 5

// HistorySource lists recent ledger entries. *tripclient.Client satisfies it.
type HistorySource interface {
	ListTrips(ctx context.Context, userName string, limit int) ([]trip.Entry, error)
}

// Messages for async operations
type submitResultMsg struct {
	attempt submission.Attempt
	outcome submission.Outcome
}

type recentTripsMsg struct {
	entries []trip.Entry
	err     error
}

// formKeyMap defines key bindings for the trip form
type formKeyMap struct {
	Next   key.Binding
	Prev   key.Binding
	Submit key.Binding
	Back   key.Binding
	Quit   key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k formKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Prev, k.Submit, k.Back, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k formKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Next, k.Prev, k.Submit},
		{k.Back, k.Quit},
	}
}

var fieldLabels = map[trip.Field]string{
	trip.FieldUserName: "Driver",
	trip.FieldStartKM:  "Start km",
	trip.FieldEndKM:    "End km",
}

// FormModel is the trip entry screen. It owns one text input per draft field
// and forwards every edit to the controller's form.
type FormModel struct {
	ctrl    *submission.Controller
	history HistorySource
	apiURL  string
	timeout time.Duration

	Inputs  []textinput.Model
	Focus   int
	Status  submission.Status
	Spinner spinner.Model

	Recent    []trip.Entry
	RecentErr error

	// BackRequested is set when the user asks to pick another server.
	BackRequested bool

	Width  int
	Height int
	Help   help.Model
	Keys   formKeyMap
}

// NewFormModel creates the form screen around ctrl. history may be nil, in
// which case no recent trips are shown.
func NewFormModel(ctrl *submission.Controller, history HistorySource, apiURL string, timeout time.Duration) FormModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	inputs := make([]textinput.Model, len(trip.Fields))
	for i, field := range trip.Fields {
		in := textinput.New()
		in.Prompt = ""
		in.Width = 30
		in.PromptStyle = BlurredInputStyle
		switch field {
		case trip.FieldUserName:
			in.Placeholder = "Your name"
			in.CharLimit = 64
		default:
			in.Placeholder = "0.0"
			in.CharLimit = 12
		}
		inputs[i] = in
	}

	keys := formKeyMap{
		Next: key.NewBinding(
			key.WithKeys("tab", "down"),
			key.WithHelp("tab", "next field"),
		),
		Prev: key.NewBinding(
			key.WithKeys("shift+tab", "up"),
			key.WithHelp("shift+tab", "previous"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "log trip"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "change server"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
	}

	m := FormModel{
		ctrl:    ctrl,
		history: history,
		apiURL:  apiURL,
		timeout: timeout,
		Inputs:  inputs,
		Status:  ctrl.Status(),
		Spinner: s,
		Help:    help.New(),
		Keys:    keys,
	}
	m.syncInputs()
	m.setFocus(m.firstEmptyField())
	return m
}

// Init implements tea.Model
func (m FormModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.fetchRecent())
}

// Update implements tea.Model
func (m FormModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.updateKeys(msg)

	case submitResultMsg:
		status, applied := m.ctrl.Resolve(msg.attempt, msg.outcome)
		if !applied {
			return m, nil
		}
		m.Status = status
		if status.Phase == submission.PhaseSuccess {
			m.syncInputs()
			m.setFocus(m.firstEmptyField())
			return m, m.fetchRecent()
		}
		return m, nil

	case recentTripsMsg:
		m.Recent, m.RecentErr = msg.entries, msg.err
		return m, nil

	case spinner.TickMsg:
		if !m.Status.IsLoading() {
			return m, nil
		}
		var cmd tea.Cmd
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd
	}

	// Cursor blink and other input messages
	var cmd tea.Cmd
	m.Inputs[m.Focus], cmd = m.Inputs[m.Focus].Update(msg)
	return m, cmd
}

func (m FormModel) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.Keys.Next):
		m.setFocus((m.Focus + 1) % len(m.Inputs))
		return m, nil

	case key.Matches(msg, m.Keys.Prev):
		m.setFocus((m.Focus + len(m.Inputs) - 1) % len(m.Inputs))
		return m, nil

	case key.Matches(msg, m.Keys.Submit):
		return m.submit()

	case key.Matches(msg, m.Keys.Back):
		if !m.Status.IsLoading() {
			m.BackRequested = true
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.Inputs[m.Focus], cmd = m.Inputs[m.Focus].Update(msg)
	field := trip.Fields[m.Focus]
	if err := m.ctrl.Form().UpdateField(field, m.Inputs[m.Focus].Value()); err != nil {
		logging.Warn("Dropping form edit", zap.String("field", string(field)), zap.Error(err))
	}
	return m, cmd
}

// submit begins an attempt on the Update goroutine so the loading state is
// visible in the very next frame, then hands the request to a command.
func (m FormModel) submit() (tea.Model, tea.Cmd) {
	attempt, err := m.ctrl.Begin(m.ctrl.Form().Draft())
	if errors.Is(err, submission.ErrSubmissionInFlight) {
		return m, nil
	}
	m.Status = m.ctrl.Status()
	return m, tea.Batch(m.Spinner.Tick, m.execute(attempt))
}

func (m FormModel) execute(attempt submission.Attempt) tea.Cmd {
	ctrl, timeout := m.ctrl, m.timeout
	return func() tea.Msg {
		ctx := context.Background()
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		return submitResultMsg{attempt: attempt, outcome: ctrl.Execute(ctx, attempt)}
	}
}

func (m FormModel) fetchRecent() tea.Cmd {
	if m.history == nil {
		return nil
	}
	history, timeout := m.history, m.timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		entries, err := history.ListTrips(ctx, "", recentLimit)
		return recentTripsMsg{entries: entries, err: err}
	}
}

// syncInputs copies the form's draft into the inputs, e.g. after a reset.
func (m *FormModel) syncInputs() {
	draft := m.ctrl.Form().Draft()
	for i, field := range trip.Fields {
		m.Inputs[i].SetValue(draft.Get(field))
	}
}

func (m *FormModel) setFocus(index int) {
	m.Focus = index
	for i := range m.Inputs {
		if i == index {
			m.Inputs[i].Focus()
			m.Inputs[i].TextStyle = FocusedInputStyle
		} else {
			m.Inputs[i].Blur()
			m.Inputs[i].TextStyle = lipgloss.NewStyle()
		}
	}
}

func (m FormModel) firstEmptyField() int {
	for i := range m.Inputs {
		if m.Inputs[i].Value() == "" {
			return i
		}
	}
	return 0
}

// View implements tea.Model
func (m FormModel) View() string {
	return RenderApplicationContainer(m.buildContent(), m.Help.View(m.Keys), m.Width, m.Height)
}

func (m FormModel) buildContent() string {
	var b strings.Builder

	b.WriteString(RenderTitle("Log a trip"))
	b.WriteString("\n")
	b.WriteString(RenderSubtitle("Ledger: " + m.apiURL))
	b.WriteString("\n\n")

	for i, field := range trip.Fields {
		label := LabelStyle.Render(fieldLabels[field])
		if i == m.Focus {
			label = FocusedLabelStyle.Render(fieldLabels[field])
		}
		b.WriteString(label)
		b.WriteString(m.Inputs[i].View())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.renderStatus())
	b.WriteString("\n")

	if len(m.Recent) > 0 {
		b.WriteString("\n")
		b.WriteString(RenderSubtitle("Recent trips"))
		b.WriteString("\n\n")
		b.WriteString(ui.RenderTripTable(m.Recent))
		b.WriteString("\n")
	}

	return b.String()
}

func (m FormModel) renderStatus() string {
	switch m.Status.Phase {
	case submission.PhaseLoading:
		return LoadingStyle.Render(m.Spinner.View() + " " + m.Status.Message)
	case submission.PhaseSuccess:
		return "  " + RenderSuccess(m.Status.Message)
	case submission.PhaseError:
		return "  " + RenderError(m.Status.Message)
	default:
		return ""
	}
}
