// Package tui provides a Bubble Tea terminal user interface for
// nexus-downloader.
package tui

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/modhoard/nexus-downloader/internal/config"
	"github.com/modhoard/nexus-downloader/internal/download"
	"github.com/modhoard/nexus-downloader/internal/model"
)

// Styles for the TUI
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#F8B500")).
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

	cursorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#F8B500"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#4ECDC4")).
			Padding(1, 2)
)

// State represents the current UI state.
type State int

const (
	StateInput State = iota
	StateLoading
	StateSelect
	StateDownloading
	StateComplete
	StateError
)

// LogEntry represents a log message in the UI.
type LogEntry struct {
	Message string
	Level   download.ProgressLevel
}

// eventLog buffers manager progress events produced on the download
// goroutine until the next UI tick drains them.
type eventLog struct {
	mu      sync.Mutex
	entries []LogEntry
}

func (l *eventLog) add(event download.ProgressEvent) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, LogEntry{Message: event.Message, Level: event.Level})
}

func (l *eventLog) drain() []LogEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	entries := l.entries
	l.entries = nil
	return entries
}

// Options configures the TUI.
type Options struct {
	Settings     *config.Settings
	APIKey       string
	ManifestPath string
	Filter       string
	Logger       *zap.Logger
}

// Model is the Bubble Tea model for the TUI.
type Model struct {
	state     State
	textInput textinput.Model
	spinner   spinner.Model
	progress  progress.Model

	opts   Options
	events *eventLog

	manager  *download.Manager
	requests []model.DownloadRequest
	cursor   int

	logs    []LogEntry
	results []download.Result
	err     error

	itemsDone  int32
	itemsTotal int32
	written    int64
	total      int64

	ctx    context.Context
	cancel context.CancelFunc

	width  int
	height int
}

// NewModel creates a new TUI model.
func NewModel(opts Options) Model {
	ti := textinput.New()
	ti.Placeholder = "modlist.wabbajack.json"
	ti.Focus()
	ti.CharLimit = 500
	ti.Width = 60
	if opts.ManifestPath != "" {
		ti.SetValue(opts.ManifestPath)
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#F8B500"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 50

	ctx, cancel := context.WithCancel(context.Background())

	return Model{
		state:     StateInput,
		textInput: ti,
		spinner:   sp,
		progress:  prog,
		opts:      opts,
		events:    &eventLog{},
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

// Message types
type (
	// LoadDoneMsg is sent when manifest extraction completes.
	LoadDoneMsg struct {
		Manager  *download.Manager
		Requests []model.DownloadRequest
		Err      error
	}

	// DownloadDoneMsg is sent when the selected downloads complete.
	DownloadDoneMsg struct {
		Results []download.Result
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
		m.progress.Width = msg.Width - 20
		if m.progress.Width > 80 {
			m.progress.Width = 80
		}
		if m.progress.Width < 20 {
			m.progress.Width = 20
		}
		return m, nil

	case tea.KeyMsg:
		if next, cmd, handled := m.handleKey(msg); handled {
			return next, cmd
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case LoadDoneMsg:
		if msg.Err != nil {
			m.state = StateError
			m.err = msg.Err
		} else if len(msg.Requests) == 0 {
			m.state = StateComplete
			m.manager = msg.Manager
		} else {
			m.manager = msg.Manager
			m.requests = msg.Requests
			m.cursor = 0
			m.state = StateSelect
		}

	case DownloadDoneMsg:
		m.results = msg.Results
		m.drainEvents()
		if m.ctx.Err() != nil {
			m.state = StateError
			m.err = fmt.Errorf("cancelled by user")
		} else {
			m.state = StateComplete
		}

	case TickMsg:
		m.drainEvents()
		if m.manager != nil && m.state == StateDownloading {
			m.itemsDone, m.itemsTotal, m.written, m.total = m.manager.GetProgress()
			cmds = append(cmds, m.progress.SetPercent(m.currentPercent()), m.tickProgress())
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

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	switch msg.String() {
	case "ctrl+c":
		m.cancel()
		return m, tea.Quit, true

	case "esc":
		switch m.state {
		case StateInput, StateSelect, StateComplete, StateError:
			return m, tea.Quit, true
		case StateDownloading, StateLoading:
			m.cancel()
			m.state = StateError
			m.err = fmt.Errorf("cancelled by user")
			return m, nil, true
		}

	case "q":
		// "q" quits everywhere except the path input, where it is just
		// a character.
		switch m.state {
		case StateSelect, StateComplete, StateError:
			return m, tea.Quit, true
		}

	case "enter":
		switch m.state {
		case StateInput:
			if m.textInput.Value() != "" {
				m.state = StateLoading
				return m, tea.Batch(m.loadManifest(), m.spinner.Tick), true
			}
		case StateSelect:
			m.state = StateDownloading
			m.logs = nil
			return m, tea.Batch(m.startDownload(m.cursor, false), m.tickProgress()), true
		}

	case "a":
		if m.state == StateSelect {
			m.state = StateDownloading
			m.logs = nil
			return m, tea.Batch(m.startDownload(0, true), m.tickProgress()), true
		}

	case "up", "k":
		if m.state == StateSelect && m.cursor > 0 {
			m.cursor--
			return m, nil, true
		}

	case "down", "j":
		if m.state == StateSelect && m.cursor < len(m.requests)-1 {
			m.cursor++
			return m, nil, true
		}

	case "r":
		if m.state == StateComplete || m.state == StateError {
			fresh := NewModel(m.opts)
			fresh.width = m.width
			fresh.height = m.height
			return fresh, textinput.Blink, true
		}
	}

	return m, nil, false
}

func (m *Model) drainEvents() {
	m.logs = append(m.logs, m.events.drain()...)
	if len(m.logs) > 10 {
		m.logs = m.logs[len(m.logs)-10:]
	}
}

func (m Model) currentPercent() float64 {
	if m.total > 0 {
		return float64(m.written) / float64(m.total)
	}
	return 0
}

// tickProgress returns a command to tick progress updates.
func (m Model) tickProgress() tea.Cmd {
	return tea.Tick(200*time.Millisecond, func(_ time.Time) tea.Msg {
		return TickMsg{}
	})
}

// loadManifest extracts download candidates and creates the manager.
func (m *Model) loadManifest() tea.Cmd {
	path := m.textInput.Value()
	events := m.events

	return func() tea.Msg {
		manager := download.NewManager(m.opts.Settings, m.opts.APIKey, m.opts.Logger, events.add)
		if err := manager.LoadManifest(path, m.opts.Filter); err != nil {
			return LoadDoneMsg{Err: err}
		}
		return LoadDoneMsg{Manager: manager, Requests: manager.Requests()}
	}
}

// startDownload runs the selected item, or the whole list, in the
// background.
func (m *Model) startDownload(index int, all bool) tea.Cmd {
	manager := m.manager
	ctx := m.ctx
	requests := m.requests

	return func() tea.Msg {
		if !all {
			manager.SetRequests([]model.DownloadRequest{requests[index]})
		}
		results := manager.DownloadAll(ctx, nil)
		return DownloadDoneMsg{Results: results}
	}
}

// View renders the UI.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Nexus Mods Downloader"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("Downloads: %s", m.opts.Settings.DownloadDir)))
	b.WriteString("\n\n")

	switch m.state {
	case StateInput:
		b.WriteString(m.viewInput())
	case StateLoading:
		b.WriteString(m.spinner.View())
		b.WriteString(" ")
		b.WriteString(subtitleStyle.Render("Parsing manifest..."))
		b.WriteString("\n")
	case StateSelect:
		b.WriteString(m.viewSelect())
	case StateDownloading:
		b.WriteString(m.viewDownloading())
	case StateComplete:
		b.WriteString(m.viewComplete())
	case StateError:
		b.WriteString(m.viewError())
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.helpText()))

	return b.String()
}

func (m Model) viewInput() string {
	var b strings.Builder
	b.WriteString(subtitleStyle.Render("Path to Wabbajack modlist JSON:"))
	b.WriteString("\n\n")
	b.WriteString(m.textInput.View())
	b.WriteString("\n")
	if m.opts.Filter != "" {
		b.WriteString("\n")
		b.WriteString(dimStyle.Render(fmt.Sprintf("Filter: %q", m.opts.Filter)))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) viewSelect() string {
	var b strings.Builder

	b.WriteString(successStyle.Render(fmt.Sprintf("Found %d downloadable Nexus files:", len(m.requests))))
	b.WriteString("\n\n")

	for i, req := range m.requests {
		line := fmt.Sprintf("%d. %s (Game: %s, Mod ID: %d)", i+1, req.Filename, req.GameDomain, req.ModID)
		if i == m.cursor {
			b.WriteString(cursorStyle.Render("> " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) viewDownloading() string {
	var b strings.Builder

	if m.itemsTotal > 0 {
		b.WriteString(infoStyle.Render(fmt.Sprintf("File %d of %d", m.itemsDone+1, m.itemsTotal)))
		b.WriteString("\n")
	}

	b.WriteString(m.progress.ViewAs(m.currentPercent()))
	b.WriteString("\n")

	if m.total > 0 {
		b.WriteString(infoStyle.Render(fmt.Sprintf(
			"%.2f / %.2f MB",
			float64(m.written)/1024/1024,
			float64(m.total)/1024/1024,
		)))
	} else {
		b.WriteString(infoStyle.Render(fmt.Sprintf("%.2f MB", float64(m.written)/1024/1024)))
	}
	b.WriteString("\n\n")

	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewComplete() string {
	if len(m.results) == 0 {
		return infoStyle.Render("No downloadable Nexus files found matching the criteria.") + "\n"
	}

	var ok, failed int
	for _, result := range m.results {
		if result.OK() {
			ok++
		} else {
			failed++
		}
	}

	summary := fmt.Sprintf("Done!\n\nDownloaded: %d\nFailed: %d", ok, failed)
	return boxStyle.Render(summary) + "\n\n" + m.renderLogs()
}

func (m Model) viewError() string {
	var b strings.Builder
	b.WriteString(errorStyle.Render("Error:"))
	b.WriteString("\n\n")
	if m.err != nil {
		b.WriteString(fmt.Sprintf("  %s", m.err.Error()))
	}
	b.WriteString("\n")
	return b.String()
}

func (m Model) renderLogs() string {
	var b strings.Builder

	for _, log := range m.logs {
		var style lipgloss.Style
		prefix := "-"
		switch log.Level {
		case download.LevelError:
			style = errorStyle
			prefix = "x"
		case download.LevelWarning:
			style = warningStyle
			prefix = "!"
		case download.LevelSuccess:
			style = successStyle
			prefix = "+"
		case download.LevelInfo:
			style = infoStyle
			prefix = ">"
		default:
			style = dimStyle
		}
		b.WriteString(style.Render(prefix + " " + log.Message))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) helpText() string {
	switch m.state {
	case StateInput:
		return "enter: parse manifest • esc: quit"
	case StateSelect:
		return "enter: download selected • a: download all • j/k: move • q: quit"
	case StateLoading, StateDownloading:
		return "esc: cancel"
	case StateComplete, StateError:
		return "r: start over • q: quit"
	}
	return ""
}

// Run starts the TUI application.
func Run(opts Options) error {
	p := tea.NewProgram(NewModel(opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
