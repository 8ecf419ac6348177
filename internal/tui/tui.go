// Package tui provides the interactive Bubble Tea menu for yoto-maker.
package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/kittenwhisky/yoto-maker/internal/config"
	"github.com/kittenwhisky/yoto-maker/internal/download"
	"github.com/kittenwhisky/yoto-maker/internal/youtube"
)

// State represents the current UI state.
type State int

const (
	StateMenu State = iota
	StateInput
	StateRunning
	StateComplete
	StateError
)

// maxVisibleLogs bounds the log tail shown while a job runs.
const maxVisibleLogs = 12

// Options are the collaborators the menu hands requests to.
type Options struct {
	Settings *config.Settings
	Provider youtube.Provider
	Fetcher  youtube.Fetcher
	Logger   *slog.Logger
	Verbose  bool
}

// LogEntry represents a log message in the UI.
type LogEntry struct {
	Message string
	Level   download.ProgressLevel
}

// Model is the Bubble Tea model for the TUI.
type Model struct {
	opts Options

	state     State
	cursor    int
	action    Action
	prompts   []prompt
	answers   []string
	invalid   string
	textInput textinput.Model
	spinner   spinner.Model
	progress  progress.Model
	logs      []LogEntry
	result    string
	err       error
	canceled  bool

	// Job context, derived from root
	root   context.Context
	ctx    context.Context
	cancel context.CancelFunc
	events chan tea.Msg

	manager *download.Manager

	processed int32
	failed    int32
	total     int32

	width  int
	height int
}

// NewModel creates a new TUI model.
func NewModel(ctx context.Context, opts Options) Model {
	if opts.Settings == nil {
		opts.Settings = config.DefaultSettings()
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}

	ti := textinput.New()
	ti.CharLimit = 1000
	ti.Width = 60

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 50

	jobCtx, cancel := context.WithCancel(ctx)

	return Model{
		opts:      opts,
		state:     StateMenu,
		textInput: ti,
		spinner:   sp,
		progress:  prog,
		root:      ctx,
		ctx:       jobCtx,
		cancel:    cancel,
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// Message types
type (
	// ProgressMsg carries one progress event from the running job.
	ProgressMsg struct {
		Event download.ProgressEvent
	}

	// DoneMsg is sent when the running job returns.
	DoneMsg struct {
		Result string
		Err    error
	}

	// TickMsg is for periodic progress updates.
	TickMsg struct{}
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = min(max(msg.Width-20, 20), 80)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case ProgressMsg:
		if msg.Event.Level != download.LevelVerbose || m.opts.Verbose {
			m.logs = append(m.logs, LogEntry{Message: msg.Event.Message, Level: msg.Event.Level})
		}
		cmds = append(cmds, waitForEvent(m.events))

	case DoneMsg:
		m.refreshCounters()
		switch {
		case m.canceled || errors.Is(msg.Err, context.Canceled):
			m.state = StateError
			m.canceled = true
			m.err = errors.New("cancelled by user")
		case msg.Err != nil:
			m.state = StateError
			m.err = msg.Err
		default:
			m.state = StateComplete
			m.result = msg.Result
		}

	case TickMsg:
		if m.state == StateRunning && m.manager != nil {
			m.refreshCounters()
			var percent float64
			if m.total > 0 {
				percent = float64(m.processed) / float64(m.total)
			}
			cmds = append(cmds, m.progress.SetPercent(percent), tickProgress())
		}

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		cmds = append(cmds, cmd)
	}

	if m.state == StateInput {
		var cmd tea.Cmd
		m.textInput, cmd = m.textInput.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		if m.state == StateRunning {
			m.canceled = true
		}
		m.cancel()
		return m, tea.Quit
	}

	switch m.state {
	case StateMenu:
		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(menuItems)-1 {
				m.cursor++
			}
		case "1", "2":
			m.cursor = int(msg.String()[0] - '1')
			return m.choose()
		case "enter":
			return m.choose()
		case "esc", "q":
			return m, tea.Quit
		}

	case StateInput:
		switch msg.String() {
		case "esc":
			m.state = StateMenu
			m.textInput.Blur()
			return m, nil
		case "enter":
			return m.submit()
		}
		var cmd tea.Cmd
		m.textInput, cmd = m.textInput.Update(msg)
		return m, cmd

	case StateRunning:
		if msg.String() == "esc" {
			m.canceled = true
			m.cancel()
		}

	case StateComplete, StateError:
		switch msg.String() {
		case "q", "esc", "enter":
			return m, tea.Quit
		case "r":
			return m.reset(), nil
		}
	}
	return m, nil
}

// choose opens the prompts for the highlighted menu item.
func (m Model) choose() (tea.Model, tea.Cmd) {
	m.action = menuItems[m.cursor].Action
	m.prompts = promptsFor(m.action, m.opts.Settings.Catalog.DefaultOutput, m.opts.Settings.Download.DefaultOutputDir)
	m.answers = nil
	m.state = StateInput
	m.setPrompt(0)
	return m, textinput.Blink
}

func (m *Model) setPrompt(i int) {
	p := m.prompts[i]
	m.invalid = ""
	m.textInput.SetValue("")
	m.textInput.Placeholder = p.Default
	m.textInput.Focus()
}

// submit validates the current answer and moves on, starting the job after
// the last prompt.
func (m Model) submit() (tea.Model, tea.Cmd) {
	p := m.prompts[len(m.answers)]
	raw := m.textInput.Value()

	if strings.TrimSpace(raw) == "" {
		if p.Required != "" {
			m.invalid = p.Required
			return m, nil
		}
		raw = p.Default
	}
	m.answers = append(m.answers, CleanInput(raw))

	if len(m.answers) < len(m.prompts) {
		m.setPrompt(len(m.answers))
		return m, nil
	}

	m.textInput.Blur()
	return m.start()
}

func (m *Model) refreshCounters() {
	if m.manager != nil {
		m.processed, m.failed, m.total = m.manager.GetProgress()
	}
}

// reset returns to the menu with a fresh job context.
func (m Model) reset() Model {
	m.cancel()
	m.ctx, m.cancel = context.WithCancel(m.root)
	m.state = StateMenu
	m.logs = nil
	m.result = ""
	m.err = nil
	m.canceled = false
	m.manager = nil
	m.events = nil
	m.processed, m.failed, m.total = 0, 0, 0
	return m
}

// tickProgress returns a command to tick progress updates.
func tickProgress() tea.Cmd {
	return tea.Tick(200*time.Millisecond, func(_ time.Time) tea.Msg {
		return TickMsg{}
	})
}

// waitForEvent delivers the next message from a running job. A channel that
// closes without a DoneMsg belongs to a canceled job.
func waitForEvent(events <-chan tea.Msg) tea.Cmd {
	if events == nil {
		return nil
	}
	return func() tea.Msg {
		msg, ok := <-events
		if !ok {
			return DoneMsg{Err: context.Canceled}
		}
		return msg
	}
}

// Run starts the TUI application. It returns context.Canceled when the user
// interrupted a running job and the job's error when the last one failed.
func Run(ctx context.Context, opts Options) error {
	p := tea.NewProgram(NewModel(ctx, opts), tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil {
		if errors.Is(err, tea.ErrProgramKilled) || errors.Is(err, context.Canceled) {
			return context.Canceled
		}
		return fmt.Errorf("run menu: %w", err)
	}

	m, ok := final.(Model)
	if !ok {
		return nil
	}
	if m.canceled {
		return context.Canceled
	}
	if m.state == StateError {
		return m.err
	}
	return nil
}
