package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/desertthunder/sentix/internal/chart"
	"github.com/desertthunder/sentix/internal/imports"
	"github.com/desertthunder/sentix/internal/models"
	"github.com/desertthunder/sentix/internal/session"
)

const (
	labelWidth   = 15
	defaultWidth = 80
	barRune      = "█"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	ValidatingView ViewState = iota
	SignedOutView
	DashboardView
)

// Session is the part of [session.Manager] the dashboard reads.
type Session interface {
	Current() session.Snapshot
	Ready() <-chan struct{}
	Subscribe(fn func(session.Snapshot)) (cancel func())
}

// Pipeline is the part of [imports.Pipeline] the dashboard drives.
type Pipeline interface {
	SelectPath(path string) error
	Upload(ctx context.Context, format models.Format) error
	ClearError()
	State() imports.State
	Close()
}

// Model represents the TUI application state.
type Model struct {
	ctx      context.Context
	view     ViewState
	session  Session
	pipeline Pipeline
	snapshot session.Snapshot
	state    imports.State
	width    int
	quitting bool
	spinner  spinner.Model
	input    textinput.Model
	help     help.Model
	keys     keyMap
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, sess Session, pipeline Pipeline) *Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.title.UnsetMarginBottom()

	in := textinput.New()
	in.Placeholder = "path/to/reviews.csv"
	in.Prompt = "File: "
	in.CharLimit = 4096

	return &Model{
		ctx:      ctx,
		view:     ValidatingView,
		session:  sess,
		pipeline: pipeline,
		snapshot: sess.Current(),
		state:    pipeline.State(),
		width:    defaultWidth,
		spinner:  sp,
		input:    in,
		help:     help.New(),
		keys:     newKeyMap(),
	}
}

// Listen forwards session changes to send (usually [tea.Program.Send]) until the returned func is called.
func (m *Model) Listen(send func(tea.Msg)) (cancel func()) {
	return m.session.Subscribe(func(snap session.Snapshot) {
		send(sessionChangedMsg(snap))
	})
}

// Init starts the spinner and waits for the session to settle.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.waitForSession())
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.quitting {
		return m, nil
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKeys(msg)

	case spinner.TickMsg:
		if m.view != ValidatingView {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case Msg:
		return m.handleMsg(msg)
	}

	return m, nil
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgValidated, MsgSessionChanged:
		m.applySnapshot(msg.data.(session.Snapshot))
	case MsgFileSelected, MsgUploadDone:
		m.state = m.pipeline.State()
	}
	return m, nil
}

func (m *Model) applySnapshot(snap session.Snapshot) {
	m.snapshot = snap
	switch {
	case snap.State == session.Validating:
		m.view = ValidatingView
	case snap.IsAuthenticated():
		m.view = DashboardView
	default:
		m.view = SignedOutView
		m.input.Blur()
	}
}

func (m *Model) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	m.pipeline.Close()
	return m, tea.Quit
}

func (m *Model) handleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m.quit()
	}

	if m.input.Focused() {
		switch {
		case key.Matches(msg, m.keys.enter):
			path := strings.TrimSpace(m.input.Value())
			m.input.Blur()
			if path == "" {
				return m, nil
			}
			return m, m.selectFile(path)
		case key.Matches(msg, m.keys.back):
			m.input.Blur()
			return m, nil
		}

		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m.quit()
	case m.view != DashboardView:
		return m, nil
	case key.Matches(msg, m.keys.focus):
		return m, m.input.Focus()
	case key.Matches(msg, m.keys.csv):
		return m, m.upload(models.FormatCSV)
	case key.Matches(msg, m.keys.json):
		return m, m.upload(models.FormatJSON)
	case key.Matches(msg, m.keys.dismiss):
		m.pipeline.ClearError()
		m.state = m.pipeline.State()
	}
	return m, nil
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	switch m.view {
	case ValidatingView:
		return fmt.Sprintf("%s Checking your session...\n", m.spinner.View())
	case SignedOutView:
		return m.renderSignedOut()
	case DashboardView:
		return m.renderDashboard()
	default:
		return ""
	}
}

func (m *Model) waitForSession() tea.Cmd {
	ready := m.session.Ready()
	return func() tea.Msg {
		select {
		case <-ready:
		case <-m.ctx.Done():
		}
		return validatedMsg(m.session.Current())
	}
}

func (m *Model) selectFile(path string) tea.Cmd {
	return func() tea.Msg {
		return fileSelectedMsg(m.pipeline.SelectPath(path))
	}
}

// upload is a no-op while an upload is in flight.
func (m *Model) upload(format models.Format) tea.Cmd {
	if m.state.Busy {
		return nil
	}
	m.state.Busy = true

	return func() tea.Msg {
		return uploadDoneMsg(format, m.pipeline.Upload(m.ctx, format))
	}
}

func (m *Model) renderSignedOut() string {
	title := styles.title.Render("sentix")
	body := styles.warn.Render("You are not signed in.")
	hint := styles.help.Render("Run `sentix auth login` and start the dashboard again.")
	helpView := m.help.ShortHelpView([]key.Binding{m.keys.quit})
	return fmt.Sprintf("%s\n%s\n%s\n\n%s", title, body, hint, helpView)
}

func (m *Model) renderDashboard() string {
	var b strings.Builder

	b.WriteString(styles.title.Render(fmt.Sprintf("Sentiment Analysis · %s", m.snapshot.Username())))
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")

	if sel := m.state.Selected; sel != nil {
		fmt.Fprintf(&b, "Selected: %s (%s, %d bytes)\n", sel.Name, sel.Format, sel.Size())
	} else {
		b.WriteString(styles.help.Render("No file selected. CSV or JSON up to 10MB."))
		b.WriteString("\n")
	}

	if m.state.Busy {
		b.WriteString(styles.warn.Render("Importing..."))
		b.WriteString("\n")
	}
	if m.state.Error != "" {
		b.WriteString(styles.err.Render(m.state.Error))
		b.WriteString("\n")
	}

	if r := m.state.Result; r != nil {
		b.WriteString("\n")
		b.WriteString(styles.ok.Render(fmt.Sprintf("Results for %s", r.FileName)))
		b.WriteString("\n")
		b.WriteString(renderChart(chart.Series(r.Counts), m.width))
	}

	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

// renderChart draws one horizontal bar per category, scaled to the largest value.
func renderChart(series []chart.Slice, width int) string {
	total := chart.Total(series)
	peak := chart.Max(series)
	barWidth := max(width-labelWidth-16, 10)

	var b strings.Builder
	for _, s := range series {
		n := 0
		if peak > 0 && s.Value > 0 {
			n = min(int(float64(s.Value)/float64(peak)*float64(barWidth)), barWidth)
		}
		bar := styles.As(strings.Repeat(barRune, n), lipgloss.Color(s.ColorKey))
		fmt.Fprintf(&b, "%s %s %d (%.1f%%)\n", styles.label.Render(s.Label), bar, s.Value, chart.Percent(s, total))
	}
	fmt.Fprintf(&b, "%s %d reviews\n", styles.label.Render("Total"), total)
	return b.String()
}
