package tui

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Stigz/eigernordvan/internal/submission"
	"github.com/Stigz/eigernordvan/internal/trip"
	"github.com/Stigz/eigernordvan/internal/tripclient"
)

type stubLogger struct {
	receipt *trip.Receipt
	err     error
	calls   int
	last    trip.Request
}

func (s *stubLogger) LogTrip(ctx context.Context, req trip.Request) (*trip.Receipt, error) {
	s.calls++
	s.last = req
	return s.receipt, s.err
}

type stubHistory struct {
	entries []trip.Entry
	calls   int
}

func (s *stubHistory) ListTrips(ctx context.Context, userName string, limit int) ([]trip.Entry, error) {
	s.calls++
	return s.entries, nil
}

func f64(v float64) *float64 { return &v }

func newTestForm(logger submission.TripLogger, history HistorySource) FormModel {
	ctrl := submission.NewWithLogger(logger, trip.NewForm())
	return NewFormModel(ctrl, history, "http://ledger.test", time.Second)
}

func typeText(t *testing.T, m FormModel, text string) FormModel {
	t.Helper()
	for _, r := range text {
		updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		m = updated.(FormModel)
	}
	return m
}

func press(m FormModel, keyType tea.KeyType) (FormModel, tea.Cmd) {
	updated, cmd := m.Update(tea.KeyMsg{Type: keyType})
	return updated.(FormModel), cmd
}

// collect runs cmd and any batched commands, returning the produced messages.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var msgs []tea.Msg
		for _, c := range batch {
			msgs = append(msgs, collect(c)...)
		}
		return msgs
	}
	return []tea.Msg{msg}
}

func findResult(t *testing.T, cmd tea.Cmd) submitResultMsg {
	t.Helper()
	for _, msg := range collect(cmd) {
		if res, ok := msg.(submitResultMsg); ok {
			return res
		}
	}
	t.Fatal("no submit result produced")
	return submitResultMsg{}
}

func fillDraft(t *testing.T, m FormModel) FormModel {
	t.Helper()
	m = typeText(t, m, "Anna")
	m, _ = press(m, tea.KeyTab)
	m = typeText(t, m, "10")
	m, _ = press(m, tea.KeyTab)
	return typeText(t, m, "64")
}

func TestFormModel_TypingUpdatesDraft(t *testing.T) {
	m := fillDraft(t, newTestForm(&stubLogger{}, nil))

	want := trip.Draft{UserName: "Anna", StartKM: "10", EndKM: "64"}
	if got := m.ctrl.Form().Draft(); got != want {
		t.Errorf("draft = %+v, want %+v", got, want)
	}
}

func TestFormModel_EditingKeepsControllerStatus(t *testing.T) {
	logger := &stubLogger{err: &tripclient.APIError{StatusCode: 400, Message: "end_km must be greater than start_km"}}
	m := fillDraft(t, newTestForm(logger, nil))

	m, cmd := press(m, tea.KeyEnter)
	updated, _ := m.Update(findResult(t, cmd))
	m = updated.(FormModel)

	m = typeText(t, m, "0")

	if got := m.ctrl.Form().Draft().EndKM; got != "640" {
		t.Errorf("end_km = %q, want 640", got)
	}
	if m.Status.Phase != submission.PhaseError || m.Status.Message != "end_km must be greater than start_km" {
		t.Errorf("status after edit = %+v, want the failed attempt", m.Status)
	}
	if got := m.ctrl.Status(); got.Message != m.Status.Message {
		t.Errorf("model status %q differs from controller %q", m.Status.Message, got.Message)
	}
}

func TestFormModel_FocusCycles(t *testing.T) {
	m := newTestForm(&stubLogger{}, nil)

	steps := []struct {
		key  tea.KeyType
		want int
	}{
		{tea.KeyTab, 1},
		{tea.KeyTab, 2},
		{tea.KeyTab, 0},
		{tea.KeyShiftTab, 2},
		{tea.KeyShiftTab, 1},
	}
	for _, step := range steps {
		m, _ = press(m, step.key)
		if m.Focus != step.want {
			t.Fatalf("after %v focus = %d, want %d", step.key, m.Focus, step.want)
		}
		if !m.Inputs[m.Focus].Focused() {
			t.Errorf("input %d should be focused", m.Focus)
		}
	}
}

func TestFormModel_SubmitSuccess(t *testing.T) {
	logger := &stubLogger{receipt: &trip.Receipt{DeltaKM: f64(54), TripCostCHF: f64(32.40)}}
	history := &stubHistory{entries: []trip.Entry{{UserName: "Anna", DeltaKM: 54, TripCostCHF: 32.40}}}
	m := fillDraft(t, newTestForm(logger, history))

	m, cmd := press(m, tea.KeyEnter)
	if !m.Status.IsLoading() {
		t.Fatalf("status after enter = %v, want loading", m.Status.Phase)
	}
	if m.Status.Message != submission.MessageLoading {
		t.Errorf("loading message = %q", m.Status.Message)
	}

	result := findResult(t, cmd)
	if logger.calls != 1 {
		t.Fatalf("LogTrip called %d times, want 1", logger.calls)
	}
	if logger.last.UserName != "Anna" || float64(logger.last.StartKM) != 10 || float64(logger.last.EndKM) != 64 {
		t.Errorf("request = %+v", logger.last)
	}

	updated, cmd := m.Update(result)
	m = updated.(FormModel)

	want := "Trip logged. Distance: 54.0 km · Cost: CHF 32.40"
	if m.Status.Phase != submission.PhaseSuccess || m.Status.Message != want {
		t.Errorf("status = %+v, want success %q", m.Status, want)
	}
	for i, in := range m.Inputs {
		if in.Value() != "" {
			t.Errorf("input %d = %q after reset, want empty", i, in.Value())
		}
	}
	if m.Focus != 0 {
		t.Errorf("focus = %d after reset, want 0", m.Focus)
	}

	for _, msg := range collect(cmd) {
		updated, _ = m.Update(msg)
		m = updated.(FormModel)
	}
	if history.calls != 1 || len(m.Recent) != 1 {
		t.Errorf("recent trips not refreshed: calls=%d recent=%d", history.calls, len(m.Recent))
	}
}

func TestFormModel_SubmitFailureKeepsDraft(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"api message", &tripclient.APIError{StatusCode: 400, Message: "end_km must be greater than start_km"}, "end_km must be greater than start_km"},
		{"api without message", &tripclient.APIError{StatusCode: 500}, submission.MessageFallbackError},
		{"network", tripclient.NewNetworkError("connection refused", errors.New("dial tcp")), submission.MessageNetworkError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := fillDraft(t, newTestForm(&stubLogger{err: tt.err}, nil))

			m, cmd := press(m, tea.KeyEnter)
			updated, _ := m.Update(findResult(t, cmd))
			m = updated.(FormModel)

			if m.Status.Phase != submission.PhaseError || m.Status.Message != tt.want {
				t.Errorf("status = %+v, want error %q", m.Status, tt.want)
			}
			if got := m.Inputs[0].Value(); got != "Anna" {
				t.Errorf("driver input = %q, want draft kept", got)
			}
			if got := m.ctrl.Form().Draft().EndKM; got != "64" {
				t.Errorf("draft end_km = %q, want kept", got)
			}
		})
	}
}

func TestFormModel_EnterIgnoredWhileLoading(t *testing.T) {
	logger := &stubLogger{receipt: &trip.Receipt{DeltaKM: f64(1), TripCostCHF: f64(0.5)}}
	m := fillDraft(t, newTestForm(logger, nil))

	m, first := press(m, tea.KeyEnter)
	m, second := press(m, tea.KeyEnter)
	if second != nil {
		t.Error("second enter while loading should produce no command")
	}

	findResult(t, first)
	if logger.calls != 1 {
		t.Errorf("LogTrip called %d times, want 1", logger.calls)
	}
}

func TestFormModel_StaleResultIgnored(t *testing.T) {
	logger := &stubLogger{receipt: &trip.Receipt{DeltaKM: f64(1), TripCostCHF: f64(0.5)}}
	m := fillDraft(t, newTestForm(logger, nil))

	m, cmd := press(m, tea.KeyEnter)
	result := findResult(t, cmd)

	updated, _ := m.Update(result)
	m = updated.(FormModel)
	m = typeText(t, m, "Ben")

	// A duplicate delivery of the same result must not reset the new draft
	updated, _ = m.Update(result)
	m = updated.(FormModel)

	if got := m.ctrl.Form().Draft().UserName; got != "Ben" {
		t.Errorf("draft user = %q, want %q", got, "Ben")
	}
}

func TestFormModel_EscRequestsBack(t *testing.T) {
	m := newTestForm(&stubLogger{}, nil)
	m, _ = press(m, tea.KeyEsc)
	if !m.BackRequested {
		t.Error("esc should request the server picker")
	}
}

func TestFormModel_PrefilledUserName(t *testing.T) {
	ctrl := submission.NewWithLogger(&stubLogger{}, trip.NewFormWith(trip.Draft{UserName: "Anna"}))
	m := NewFormModel(ctrl, nil, "http://ledger.test", 0)

	if got := m.Inputs[0].Value(); got != "Anna" {
		t.Errorf("driver input = %q, want prefilled", got)
	}
	if m.Focus != 1 {
		t.Errorf("focus = %d, want first empty field", m.Focus)
	}
}
