// Package tui provides a Bubble Tea terminal user interface for the
// generation queue.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/gemchajang/suno-batch-generator/internal/events"
	"github.com/gemchajang/suno-batch-generator/internal/model"
	"github.com/gemchajang/suno-batch-generator/internal/queue"
)

// Styles for the TUI
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B")).
			MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ECDC4"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#95E1A3"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFE66D"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A8DADC"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C757D"))

	activeStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#F8B500"))
)

// State represents the current UI state.
type State int

const (
	StateBrowse State = iota
	StateAddTitle
	StateAddStyle
	StateAddLyrics
)

// LogEntry represents a log message in the UI.
type LogEntry struct {
	Message string
	Level   events.Level
}

// Model is the Bubble Tea model for the queue dashboard.
type Model struct {
	state     State
	textInput textinput.Model
	spinner   spinner.Model
	progress  progress.Model

	runner *queue.Runner
	bus    *events.Bus
	busCh  chan events.Event

	queueState *model.QueueState
	logs       []LogEntry
	draft      model.SongInput
	err        error

	width  int
	height int
}

// NewModel creates a new dashboard model over a running queue session.
func NewModel(runner *queue.Runner, bus *events.Bus) Model {
	ti := textinput.New()
	ti.Placeholder = "Song title"
	ti.CharLimit = 80
	ti.Width = 50

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 50

	busCh := make(chan events.Event, 256)
	bus.Subscribe(func(e events.Event) {
		select {
		case busCh <- e:
		default:
		}
	})

	return Model{
		state:      StateBrowse,
		textInput:  ti,
		spinner:    sp,
		progress:   prog,
		runner:     runner,
		bus:        bus,
		busCh:      busCh,
		queueState: runner.Snapshot(),
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.waitForEvent())
}

// Message types
type (
	// BusMsg carries one event from the engine's event bus.
	BusMsg struct {
		Event events.Event
	}
)

// waitForEvent blocks on the bus channel and forwards the next event.
func (m Model) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		return BusMsg{Event: <-m.busCh}
	}
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = msg.Width - 20
		if m.progress.Width > 80 {
			m.progress.Width = 80
		}
		if m.progress.Width < 20 {
			m.progress.Width = 20
		}
		return m, nil

	case tea.KeyMsg:
		if m.state == StateBrowse {
			return m.updateBrowseKeys(msg)
		}
		return m.updateAddKeys(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case BusMsg:
		m.applyEvent(msg.Event)
		cmds = append(cmds, m.waitForEvent())

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		cmds = append(cmds, cmd)
	}

	if m.state != StateBrowse {
		var cmd tea.Cmd
		m.textInput, cmd = m.textInput.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m Model) updateBrowseKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		m.runner.Stop()
		return m, tea.Quit

	case "a":
		m.state = StateAddTitle
		m.draft = model.SongInput{}
		m.textInput.Placeholder = "Song title"
		m.textInput.SetValue("")
		m.textInput.Focus()
		return m, textinput.Blink

	case "s":
		if m.runner.Running() {
			m.runner.Stop()
		} else if err := m.runner.Start(context.Background()); err != nil {
			m.err = err
		}
		m.queueState = m.runner.Snapshot()

	case "c":
		if err := m.runner.Clear(context.Background()); err != nil {
			m.err = err
		}
		m.queueState = m.runner.Snapshot()

	case "x":
		if job := m.queueState.FirstPending(); job != nil {
			if err := m.runner.Skip(context.Background(), job.ID); err != nil {
				m.err = err
			}
		}
		m.queueState = m.runner.Snapshot()
	}
	return m, nil
}

func (m Model) updateAddKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.runner.Stop()
		return m, tea.Quit

	case "esc":
		m.state = StateBrowse
		return m, nil

	case "enter":
		value := m.textInput.Value()
		switch m.state {
		case StateAddTitle:
			if value == "" {
				return m, nil
			}
			m.draft.Title = value
			m.state = StateAddStyle
			m.textInput.Placeholder = "Style of music"
			m.textInput.SetValue("")
			return m, nil

		case StateAddStyle:
			m.draft.Style = value
			m.state = StateAddLyrics
			m.textInput.Placeholder = "Lyrics (empty for instrumental)"
			m.textInput.SetValue("")
			return m, nil

		case StateAddLyrics:
			m.draft.Lyrics = value
			m.draft.Instrumental = value == ""
			if _, err := m.runner.Add(context.Background(), m.draft); err != nil {
				m.err = err
			}
			m.state = StateBrowse
			m.queueState = m.runner.Snapshot()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

func (m *Model) applyEvent(e events.Event) {
	switch e.Kind {
	case events.KindQueue:
		if e.Queue != nil {
			m.queueState = e.Queue
		}
	case events.KindLog:
		m.logs = append(m.logs, LogEntry{Message: e.Message, Level: e.Level})
		if len(m.logs) > 10 {
			m.logs = m.logs[len(m.logs)-10:]
		}
	}
}

// View renders the UI.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("♪ Suno Batch Generator"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Bulk song generation queue"))
	b.WriteString("\n\n")

	if m.state == StateBrowse {
		b.WriteString(m.viewQueue())
	} else {
		b.WriteString(m.viewAdd())
	}

	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render("✗ " + m.err.Error()))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.helpText()))

	return b.String()
}

func (m Model) viewQueue() string {
	var b strings.Builder

	if m.runner.Running() {
		b.WriteString(m.spinner.View())
		b.WriteString(" ")
		b.WriteString(subtitleStyle.Render("Queue running"))
	} else {
		b.WriteString(dimStyle.Render("Queue stopped"))
	}
	b.WriteString("\n\n")

	if len(m.queueState.Jobs) == 0 {
		b.WriteString(dimStyle.Render("  (queue is empty, press a to add a song)"))
		b.WriteString("\n")
	}

	completed := 0
	for _, job := range m.queueState.Jobs {
		if job.Status == model.StatusCompleted {
			completed++
		}
		b.WriteString(m.renderJob(job))
		b.WriteString("\n")
	}

	if total := len(m.queueState.Jobs); total > 0 {
		b.WriteString("\n")
		b.WriteString(m.progress.ViewAs(float64(completed) / float64(total)))
		b.WriteString("\n")
		b.WriteString(infoStyle.Render(fmt.Sprintf("Completed: %d/%d", completed, total)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) renderJob(job *model.Job) string {
	var style lipgloss.Style
	icon := "•"
	switch {
	case job.Status == model.StatusCompleted:
		style, icon = successStyle, "✓"
	case job.Status == model.StatusFailed:
		style, icon = errorStyle, "✗"
	case job.Status == model.StatusSkipped:
		style, icon = dimStyle, "-"
	case job.Status.IsActive():
		style, icon = activeStyle, "▶"
	default:
		style = infoStyle
	}

	line := fmt.Sprintf("  %s %-30s %s", icon, truncate(job.Input.Title, 30), job.Status)
	if job.RetryCount > 0 {
		line += fmt.Sprintf(" (retry %d)", job.RetryCount)
	}
	return style.Render(line)
}

func (m Model) viewAdd() string {
	var b strings.Builder

	labels := map[State]string{
		StateAddTitle:  "Title:",
		StateAddStyle:  "Style:",
		StateAddLyrics: "Lyrics:",
	}
	b.WriteString(subtitleStyle.Render("Add song " + labels[m.state]))
	b.WriteString("\n\n")
	b.WriteString(m.textInput.View())
	b.WriteString("\n")

	if m.draft.Title != "" {
		b.WriteString("\n")
		b.WriteString(dimStyle.Render("  Title: " + m.draft.Title))
		b.WriteString("\n")
	}
	if m.draft.Style != "" {
		b.WriteString(dimStyle.Render("  Style: " + m.draft.Style))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) renderLogs() string {
	var b strings.Builder

	for _, log := range m.logs {
		var style lipgloss.Style
		prefix := "•"
		switch log.Level {
		case events.LevelError:
			style, prefix = errorStyle, "✗"
		case events.LevelWarning:
			style, prefix = warningStyle, "!"
		case events.LevelSuccess:
			style, prefix = successStyle, "✓"
		case events.LevelInfo:
			style, prefix = infoStyle, "›"
		default:
			style = dimStyle
		}
		b.WriteString(style.Render(prefix + " " + log.Message))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) helpText() string {
	if m.state == StateBrowse {
		return "a: add • s: start/stop • x: skip next • c: clear • q: quit"
	}
	return "enter: next field • esc: cancel"
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-1] + "…"
}

// Run starts the dashboard.
func Run(runner *queue.Runner, bus *events.Bus) error {
	p := tea.NewProgram(NewModel(runner, bus), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
