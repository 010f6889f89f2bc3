// Package tui provides a Bubble Tea terminal user interface for nftposter.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/handiism/nftposter/internal/config"
	"github.com/handiism/nftposter/internal/model"
	"github.com/handiism/nftposter/internal/poster"
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

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#4ECDC4")).
			Padding(1, 2)

	focusedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F8B500"))
)

// State represents the current UI state.
type State int

const (
	StateInput State = iota
	StateGenerating
	StateComplete
	StateError
)

// Form fields, in tab order.
const (
	fieldTitle = iota
	fieldDate
	fieldLocation
	fieldImage
	fieldCount
)

// LogEntry represents a log message in the UI.
type LogEntry struct {
	Message string
	Level   poster.ProgressLevel
}

// Model is the Bubble Tea model for the TUI.
type Model struct {
	state    State
	inputs   []textinput.Model
	focus    int
	spinner  spinner.Model
	settings *config.Settings
	logs     []LogEntry
	result   poster.Result
	err      error

	// Generation context
	ctx      context.Context
	cancel   context.CancelFunc
	progress chan poster.ProgressEvent

	// Options
	sports  bool
	day     bool
	verbose bool

	width  int
	height int
}

// NewModel creates a new TUI model.
func NewModel(settings *config.Settings) Model {
	if settings == nil {
		settings = config.DefaultSettings()
	}

	placeholders := [fieldCount]string{
		fieldTitle:    "The Band",
		fieldDate:     "12/05/2025",
		fieldLocation: "Texas",
		fieldImage:    "optional: existing .jpg to skip generation",
	}

	inputs := make([]textinput.Model, fieldCount)
	for i := range inputs {
		ti := textinput.New()
		ti.Placeholder = placeholders[i]
		ti.CharLimit = 200
		ti.Width = 50
		inputs[i] = ti
	}
	inputs[fieldTitle].Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))

	ctx, cancel := context.WithCancel(context.Background())

	return Model{
		state:    StateInput,
		inputs:   inputs,
		spinner:  sp,
		settings: settings,
		logs:     make([]LogEntry, 0),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

// Message types
type (
	// ProgressMsg is sent when the poster manager reports progress.
	ProgressMsg struct {
		Event poster.ProgressEvent
	}

	// DoneMsg is sent when the poster is finished or failed.
	DoneMsg struct {
		Result poster.Result
		Err    error
	}
)

// Event builds the event described by the form.
func (m Model) Event() model.Event {
	e := model.Event{
		Date:      strings.TrimSpace(m.inputs[fieldDate].Value()),
		Location:  strings.TrimSpace(m.inputs[fieldLocation].Value()),
		ImagePath: strings.TrimSpace(m.inputs[fieldImage].Value()),
		TimeOfDay: "night",
	}
	title := strings.TrimSpace(m.inputs[fieldTitle].Value())
	if m.sports {
		e.Match = title
	} else {
		e.Artist = title
	}
	if m.day {
		e.TimeOfDay = "day"
	}
	return e
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.cancel()
			return m, tea.Quit

		case "esc":
			if m.state == StateInput {
				return m, tea.Quit
			}
			if m.state == StateGenerating {
				m.cancel()
				m.state = StateError
				m.err = fmt.Errorf("cancelled by user")
			}

		case "tab", "down":
			if m.state == StateInput {
				m.setFocus((m.focus + 1) % fieldCount)
			}
			return m, nil

		case "shift+tab", "up":
			if m.state == StateInput {
				m.setFocus((m.focus + fieldCount - 1) % fieldCount)
			}
			return m, nil

		case "enter":
			if m.state == StateInput && m.Event().Title() != "" {
				m.state = StateGenerating
				m.progress = make(chan poster.ProgressEvent, 64)
				return m, tea.Batch(m.generate(), m.waitForProgress(), m.spinner.Tick)
			}
			return m, nil

		case "ctrl+t":
			if m.state == StateInput {
				m.sports = !m.sports
			}
			return m, nil

		case "ctrl+n":
			if m.state == StateInput {
				m.day = !m.day
			}
			return m, nil

		case "ctrl+v":
			if m.state == StateInput {
				m.verbose = !m.verbose
			}
			return m, nil

		case "q":
			if m.state == StateComplete || m.state == StateError {
				return m, tea.Quit
			}

		case "r":
			if m.state == StateComplete || m.state == StateError {
				// Reset for a new poster, keeping the form values.
				m.state = StateInput
				m.logs = nil
				m.err = nil
				m.result = poster.Result{}
				m.ctx, m.cancel = context.WithCancel(context.Background())
				m.setFocus(fieldTitle)
				return m, nil
			}
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case ProgressMsg:
		if m.state == StateGenerating {
			cmds = append(cmds, m.waitForProgress())
		}
		// Filter verbose messages if not in verbose mode
		if msg.Event.Level == poster.LevelVerbose && !m.verbose {
			return m, tea.Batch(cmds...)
		}
		m.logs = append(m.logs, LogEntry{
			Message: msg.Event.Message,
			Level:   msg.Event.Level,
		})
		// Keep only last 10 logs
		if len(m.logs) > 10 {
			m.logs = m.logs[len(m.logs)-10:]
		}

	case DoneMsg:
		if m.state != StateGenerating {
			return m, nil
		}
		m.result = msg.Result
		switch {
		case m.ctx.Err() != nil:
			m.state = StateError
			m.err = fmt.Errorf("cancelled by user")
		case msg.Err != nil:
			m.state = StateError
			m.err = msg.Err
		case msg.Result.Err != nil:
			m.state = StateError
			m.err = msg.Result.Err
		default:
			m.state = StateComplete
		}
	}

	// Update the focused input
	if m.state == StateInput {
		var cmd tea.Cmd
		m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) setFocus(i int) {
	m.inputs[m.focus].Blur()
	m.focus = i
	m.inputs[m.focus].Focus()
}

// View renders the UI.
func (m Model) View() string {
	var b strings.Builder

	// Header
	b.WriteString(titleStyle.Render("NFT Poster"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Generate promotional posters for concerts and matches"))
	b.WriteString("\n\n")

	switch m.state {
	case StateInput:
		b.WriteString(m.viewInput())
	case StateGenerating:
		b.WriteString(m.viewGenerating())
	case StateComplete:
		b.WriteString(m.viewComplete())
	case StateError:
		b.WriteString(m.viewError())
	}

	// Footer
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.getHelpText()))

	return b.String()
}

func (m Model) viewInput() string {
	var b strings.Builder

	eventType := "Concert"
	titleLabel := "Artist / band"
	if m.sports {
		eventType = "Sports"
		titleLabel = "Match"
	}
	timeOfDay := "Night"
	if m.day {
		timeOfDay = "Day"
	}

	labels := [fieldCount]string{
		fieldTitle:    titleLabel,
		fieldDate:     "Date",
		fieldLocation: "Location",
		fieldImage:    "Image",
	}

	b.WriteString(subtitleStyle.Render(fmt.Sprintf("Event type: %s", eventType)))
	b.WriteString("\n\n")
	for i, in := range m.inputs {
		label := fmt.Sprintf("%-14s", labels[i])
		if i == m.focus {
			label = focusedStyle.Render(label)
		}
		b.WriteString(label)
		b.WriteString(in.View())
		b.WriteString("\n")
	}
	b.WriteString("\n")

	verboseCheck := "[ ]"
	if m.verbose {
		verboseCheck = "[x]"
	}

	b.WriteString(infoStyle.Render("Options:"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  Event type: %s (ctrl+t)\n", eventType))
	b.WriteString(fmt.Sprintf("  Time of day: %s (ctrl+n)\n", timeOfDay))
	b.WriteString(fmt.Sprintf("  %s Verbose output (ctrl+v)\n", verboseCheck))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("Output directory: %s", m.settings.OutputDir)))
	b.WriteString("\n")

	return b.String()
}

func (m Model) viewGenerating() string {
	var b strings.Builder

	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	b.WriteString(subtitleStyle.Render(fmt.Sprintf("Creating poster for %s...", m.Event().Title())))
	b.WriteString("\n\n")

	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewComplete() string {
	var b strings.Builder

	box := boxStyle.Render(fmt.Sprintf(
		"Poster ready!\n\n"+
			"Image:  %s\n"+
			"Poster: %s",
		m.result.ImagePath,
		m.result.PosterPath,
	))
	b.WriteString(box)

	return b.String()
}

func (m Model) viewError() string {
	var b strings.Builder

	b.WriteString(errorStyle.Render("Error occurred:"))
	b.WriteString("\n\n")
	if m.err != nil {
		b.WriteString(fmt.Sprintf("  %s", m.err.Error()))
	}
	b.WriteString("\n\n")
	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) renderLogs() string {
	var b strings.Builder

	for _, log := range m.logs {
		var style lipgloss.Style
		prefix := "•"
		switch log.Level {
		case poster.LevelError:
			style = errorStyle
			prefix = "✗"
		case poster.LevelWarning:
			style = warningStyle
			prefix = "!"
		case poster.LevelSuccess:
			style = successStyle
			prefix = "✓"
		case poster.LevelInfo:
			style = infoStyle
			prefix = "›"
		default:
			style = dimStyle
		}
		b.WriteString(style.Render(prefix + " " + log.Message))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) getHelpText() string {
	switch m.state {
	case StateInput:
		return "enter: start • tab: next field • ctrl+t: type • ctrl+n: day/night • ctrl+v: verbose • esc: quit"
	case StateGenerating:
		return "esc: cancel"
	case StateComplete, StateError:
		return "r: new poster • q: quit"
	}
	return ""
}

// waitForProgress delivers the next manager progress event as a ProgressMsg.
func (m Model) waitForProgress() tea.Cmd {
	ch := m.progress
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return ProgressMsg{Event: ev}
	}
}

// generate builds a manager and runs the form's event in the background.
func (m Model) generate() tea.Cmd {
	ctx, settings, event, ch := m.ctx, m.settings, m.Event(), m.progress

	return func() tea.Msg {
		defer close(ch)

		manager, err := poster.Build(settings, nil, func(e poster.ProgressEvent) {
			select {
			case ch <- e:
			default: // UI is behind, drop the event
			}
		})
		if err != nil {
			return DoneMsg{Err: err}
		}

		if err := manager.Initialize([]model.Event{event}); err != nil {
			return DoneMsg{Err: err}
		}

		results, err := manager.Run(ctx)
		if len(results) == 0 {
			return DoneMsg{Err: err}
		}
		return DoneMsg{Result: results[0], Err: err}
	}
}

// Run starts the TUI application.
func Run(settings *config.Settings) error {
	p := tea.NewProgram(NewModel(settings), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
