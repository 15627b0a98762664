// Package tui is the interactive debug console: type a question, run it
// through the backend debug endpoint and inspect stats, retrieval, context
// and the assembled prompt pane by pane.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Yates-Labs/novelrag/internal/orchestrator"
	"github.com/Yates-Labs/novelrag/internal/rag"
	"github.com/Yates-Labs/novelrag/internal/render"
)

// clipboardWriteAll is a package-level variable to allow mocking in tests.
var clipboardWriteAll = clipboard.WriteAll

// Pane selects what the viewport shows.
type Pane int

const (
	PaneStats Pane = iota
	PaneRetrieval
	PaneContext
	PanePrompt
	paneCount
)

func (p Pane) String() string {
	switch p {
	case PaneStats:
		return "Stats"
	case PaneRetrieval:
		return "Retrieval"
	case PaneContext:
		return "Context"
	case PanePrompt:
		return "Prompt"
	default:
		return fmt.Sprintf("pane(%d)", int(p))
	}
}

// Options fixes the non-question parts of every query.
type Options struct {
	Novel   string
	Version string
	TopK    int
}

type debugDoneMsg struct {
	result *rag.DebugResult
	err    error
}

type copyDoneMsg struct {
	err error
}

// Model is the Bubble Tea model for the debug console.
type Model struct {
	ctx     context.Context
	client  orchestrator.DebugClient
	session *orchestrator.DebugSession
	opts    Options

	input    textinput.Model
	viewport viewport.Model
	pane     Pane
	status   string
	statusOK bool
	ready    bool
}

// New creates a console bound to session. Requests go through client and
// are scoped to ctx.
func New(ctx context.Context, client orchestrator.DebugClient, session *orchestrator.DebugSession, opts Options) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask about the novel and press Enter"
	ti.Focus()
	ti.CharLimit = 0

	return Model{
		ctx:      ctx,
		client:   client,
		session:  session,
		opts:     opts,
		input:    ti,
		viewport: viewport.New(0, 0),
		pane:     PaneStats,
		status:   "Enter runs a debug request · tab switches panes · ctrl+y copies the prompt · ctrl+r resets",
		statusOK: true,
	}
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key, window and request completion events.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, fh := paneBoxStyle.GetFrameSize()
		_, ih := inputBoxStyle.GetFrameSize()
		reserved := 2 + 1 + ih + 1 + fh // header + tabs, status, input box, frame
		m.viewport.Width = max(20, msg.Width-4)
		m.viewport.Height = max(3, msg.Height-reserved)
		m.refresh()
		return m, nil

	case debugDoneMsg:
		if err := m.session.Finish(msg.result, msg.err); err != nil {
			return m, nil
		}
		if m.session.State() == orchestrator.StateFailed {
			m.setStatus("Error: "+m.session.ErrorMessage(), false)
		} else {
			view, _ := m.session.View()
			m.setStatus(fmt.Sprintf("%d scenes retrieved, %d context blocks, ~%d prompt tokens",
				len(view.Result.RetrievedScenes), len(view.Result.ContextBlocks), view.EstimatedTokens), true)
		}
		m.refresh()
		return m, nil

	case copyDoneMsg:
		if msg.err != nil {
			m.setStatus("Failed to copy full prompt: "+msg.err.Error(), false)
		} else {
			m.setStatus("Copied full prompt to clipboard", true)
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyCtrlD, tea.KeyEsc:
			return m, tea.Quit
		}

		switch msg.String() {
		case "enter":
			return m, m.submit()
		case "tab":
			m.pane = (m.pane + 1) % paneCount
			m.refresh()
			return m, nil
		case "shift+tab":
			m.pane = (m.pane + paneCount - 1) % paneCount
			m.refresh()
			return m, nil
		case "ctrl+y":
			return m, m.copyPrompt()
		case "ctrl+r":
			if m.session.Loading() {
				return m, nil
			}
			m.session.Reset()
			m.input.Reset()
			m.setStatus("Session reset", true)
			m.refresh()
			return m, nil
		case "pgup", "pgdown", "up", "down":
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit starts a debug request for the current input. The network call runs
// in the returned command and its outcome comes back as a debugDoneMsg.
func (m *Model) submit() tea.Cmd {
	if m.session.Loading() {
		return nil
	}

	req, err := m.session.Begin(orchestrator.Query{
		Question: m.input.Value(),
		Novel:    m.opts.Novel,
		Version:  m.opts.Version,
		TopK:     m.opts.TopK,
	})
	if err != nil {
		m.setStatus("Error: "+err.Error(), false)
		return nil
	}

	m.setStatus("Running debug request…", true)
	m.refresh()

	ctx, client := m.ctx, m.client
	return func() tea.Msg {
		result, err := client.Debug(ctx, req)
		return debugDoneMsg{result: result, err: err}
	}
}

func (m *Model) copyPrompt() tea.Cmd {
	view, ok := m.session.View()
	if !ok {
		m.setStatus("Nothing to copy yet", false)
		return nil
	}

	text := view.FullPrompt
	return func() tea.Msg {
		return copyDoneMsg{err: clipboardWriteAll(text)}
	}
}

func (m *Model) setStatus(text string, ok bool) {
	m.status = text
	m.statusOK = ok
}

func (m *Model) refresh() {
	m.viewport.SetContent(m.paneContent())
	m.viewport.GotoTop()
}

func (m Model) paneContent() string {
	switch m.session.State() {
	case orchestrator.StateLoading:
		return "Loading…"
	case orchestrator.StateFailed:
		return render.ErrorStyle.Render(m.session.ErrorMessage())
	}

	view, ok := m.session.View()
	if !ok {
		return "No result yet."
	}

	switch m.pane {
	case PaneRetrieval:
		return render.Retrieval(view.Result.RetrievedScenes)
	case PaneContext:
		return render.ContextBlocks(view.Result.ContextBlocks)
	case PanePrompt:
		return render.Prompt(view)
	default:
		return render.Stats(view.Result.Stats) + "\n\n" + render.TokenSummary(view)
	}
}

// View renders the header, pane tabs, the current pane, the input and the status line.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	header := render.HeaderStyle.Render("novelrag debug console")
	if q := m.session.Query(); q.Novel != "" {
		header += render.ContextStyle.Render(fmt.Sprintf("  novel=%s version=%s", q.Novel, q.Version))
	}

	tabs := make([]string, 0, int(paneCount))
	for p := PaneStats; p < paneCount; p++ {
		if p == m.pane {
			tabs = append(tabs, activeTabStyle.Render(p.String()))
		} else {
			tabs = append(tabs, tabStyle.Render(p.String()))
		}
	}

	status := render.SuccessStyle.Render(m.status)
	if !m.statusOK {
		status = render.ErrorStyle.Render(m.status)
	}

	return strings.Join([]string{
		header,
		lipgloss.JoinHorizontal(lipgloss.Top, tabs...),
		paneBoxStyle.Render(m.viewport.View()),
		inputBoxStyle.Render(m.input.View()),
		status,
	}, "\n")
}

var (
	paneBoxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	inputBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	tabStyle       = lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("#6272A4"))
	activeTabStyle = lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("#F780FF")).Bold(true).Underline(true)
)
