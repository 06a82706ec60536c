package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Stigz/eigernordvan/internal/submission"
	"github.com/Stigz/eigernordvan/internal/trip"
	"github.com/Stigz/eigernordvan/internal/tripclient"
)

// Screen represents the current active screen in the application
type Screen string

const (
	ScreenDiscovery Screen = "discovery"
	ScreenForm      Screen = "form"
)

// Options configures the application
type Options struct {
	// APIURL skips discovery when set
	APIURL string
	// UserName prefills the driver field
	UserName string
	Timeout  time.Duration
	Scanner  EndpointScanner
	// OnSelect is called with the URL chosen on the discovery screen,
	// e.g. to remember it in the config file.
	OnSelect func(url string)
}

// AppModel is the top-level coordinator model that manages screen transitions
type AppModel struct {
	CurrentScreen Screen

	DiscoveryModel DiscoveryModel
	FormModel      FormModel

	APIURL string
	opts   Options

	Width  int
	Height int
}

// NewAppModel creates the application. It opens on the form when an API URL
// is known and on discovery otherwise.
func NewAppModel(opts Options) AppModel {
	m := AppModel{opts: opts, APIURL: opts.APIURL}
	if opts.APIURL != "" {
		m.CurrentScreen = ScreenForm
		m.FormModel = m.newForm(opts.APIURL)
	} else {
		m.CurrentScreen = ScreenDiscovery
		m.DiscoveryModel = NewDiscoveryModel(opts.Scanner, 0)
	}
	return m
}

func (m AppModel) newForm(apiURL string) FormModel {
	client := tripclient.NewClient(apiURL)
	if m.opts.Timeout > 0 {
		client.SetTimeout(m.opts.Timeout)
	}
	form := trip.NewFormWith(trip.Draft{UserName: m.opts.UserName})
	ctrl := submission.NewWithLogger(client, form)
	return NewFormModel(ctrl, client, apiURL, m.opts.Timeout)
}

// Init initializes the application
func (m AppModel) Init() tea.Cmd {
	switch m.CurrentScreen {
	case ScreenDiscovery:
		return m.DiscoveryModel.Init()
	case ScreenForm:
		return m.FormModel.Init()
	default:
		return nil
	}
}

// Update handles all messages and routes them to the appropriate screen
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		// The other screen is rebuilt with this size on transition
		return m.updateCurrentScreen(msg)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	}

	return m.updateCurrentScreen(msg)
}

func (m AppModel) updateCurrentScreen(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m.CurrentScreen {
	case ScreenDiscovery:
		if keyMsg, ok := msg.(tea.KeyMsg); ok && !m.DiscoveryModel.ManualMode {
			if key := keyMsg.String(); key == "q" || key == "esc" {
				return m, tea.Quit
			}
		}

		updated, cmd := m.DiscoveryModel.Update(msg)
		m.DiscoveryModel = updated.(DiscoveryModel)

		if url := m.DiscoveryModel.SelectedURL(); url != "" {
			if m.opts.OnSelect != nil {
				m.opts.OnSelect(url)
			}
			return m.transitionTo(ScreenForm, url)
		}
		return m, cmd

	case ScreenForm:
		updated, cmd := m.FormModel.Update(msg)
		m.FormModel = updated.(FormModel)

		if m.FormModel.BackRequested {
			return m.transitionTo(ScreenDiscovery, "")
		}
		return m, cmd
	}

	return m, nil
}

func (m AppModel) transitionTo(screen Screen, apiURL string) (tea.Model, tea.Cmd) {
	m.CurrentScreen = screen
	size := tea.WindowSizeMsg{Width: m.Width, Height: m.Height}

	switch screen {
	case ScreenDiscovery:
		m.DiscoveryModel = NewDiscoveryModel(m.opts.Scanner, 0)
		d, _ := m.DiscoveryModel.Update(size)
		m.DiscoveryModel = d.(DiscoveryModel)
		return m, m.DiscoveryModel.Init()

	case ScreenForm:
		m.APIURL = apiURL
		m.FormModel = m.newForm(apiURL)
		f, _ := m.FormModel.Update(size)
		m.FormModel = f.(FormModel)
		return m, m.FormModel.Init()
	}

	return m, nil
}

// View renders the current screen
func (m AppModel) View() string {
	switch m.CurrentScreen {
	case ScreenDiscovery:
		return m.DiscoveryModel.View()
	case ScreenForm:
		return m.FormModel.View()
	default:
		return "Unknown screen"
	}
}

// Run starts the interactive program on the alternate screen
func Run(opts Options) error {
	_, err := tea.NewProgram(NewAppModel(opts), tea.WithAltScreen()).Run()
	return err
}
