// Package tui implements the terminal chat client: a transcript pane,
// a live todo sidebar, and an input line gated by the session cycle.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"pkt.systems/todoagent/client"
	"pkt.systems/todoagent/schema"
)

type envelopeMsg struct {
	env schema.Envelope
}

type connStateMsg struct {
	state    schema.ConnState
	attempts int
}

type theme struct {
	header    lipgloss.Style
	user      lipgloss.Style
	assistant lipgloss.Style
	errorTurn lipgloss.Style
	streaming lipgloss.Style
	sidebar   lipgloss.Style
	status    lipgloss.Style
	statusBad lipgloss.Style
}

func newTheme() theme {
	return theme{
		header:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205")),
		user:      lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true),
		assistant: lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		errorTurn: lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		streaming: lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Italic(true),
		sidebar:   lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1),
		status:    lipgloss.NewStyle().Foreground(lipgloss.Color("242")),
		statusBad: lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
	}
}

// Model is the bubbletea model for the chat client.
type Model struct {
	ctx     context.Context
	conn    *client.Client
	session *client.Session
	inbound chan tea.Msg

	input      textinput.Model
	transcript viewport.Model
	sidebar    viewport.Model
	spinner    spinner.Model
	theme      theme

	width     int
	height    int
	ready     bool
	statusErr bool
	status    string
	attempts  int
}

// New wires a model to the chat endpoint at serverURL.
func New(ctx context.Context, serverURL string) *Model {
	m := &Model{
		ctx:     ctx,
		inbound: make(chan tea.Msg, 64),
		theme:   newTheme(),
		status:  "connecting",
	}
	m.conn = client.New(client.Options{
		URL: serverURL,
		OnEnvelope: func(env schema.Envelope) {
			m.inbound <- envelopeMsg{env: env}
		},
		OnStateChange: func(state schema.ConnState, attempts int) {
			m.inbound <- connStateMsg{state: state, attempts: attempts}
		},
	})
	m.session = client.NewSession(m.conn.Send, client.NewTodoList())

	input := textinput.New()
	input.Placeholder = "Tell the agent what to do..."
	input.CharLimit = 512
	input.Focus()
	m.input = input

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	m.spinner = sp
	return m
}

// Init starts the connection and the inbound pump.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		m.connectCmd(),
		m.waitInbound(),
	)
}

func (m *Model) connectCmd() tea.Cmd {
	conn := m.conn
	ctx := m.ctx
	return func() tea.Msg {
		// Failures surface through the state-change callback.
		_ = conn.Connect(ctx)
		return nil
	}
}

func (m *Model) waitInbound() tea.Cmd {
	ch := m.inbound
	return func() tea.Msg {
		return <-ch
	}
}

// Update folds one event into the model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		m.ready = true
		m.renderPanes()
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.conn.Disconnect()
			return m, tea.Quit
		case tea.KeyEnter:
			m.submit()
			m.renderPanes()
		default:
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			cmds = append(cmds, cmd)
		}
	case envelopeMsg:
		m.session.Apply(msg.env)
		if msg.env.Type == schema.EnvelopeTodosUpdate && msg.env.Content != "" {
			m.setStatus(msg.env.Content, false)
		}
		m.renderPanes()
		cmds = append(cmds, m.waitInbound())
	case connStateMsg:
		m.session.SetConnState(msg.state)
		m.attempts = msg.attempts
		switch msg.state {
		case schema.ConnConnected:
			m.setStatus("connected", false)
		case schema.ConnConnecting:
			m.setStatus(fmt.Sprintf("connecting (attempt %d)", msg.attempts), false)
		case schema.ConnErrored:
			m.setStatus("connection lost, retrying", true)
		case schema.ConnDisconnected:
			m.setStatus("disconnected", true)
		}
		m.renderPanes()
		cmds = append(cmds, m.waitInbound())
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

func (m *Model) submit() {
	value := m.input.Value()
	err := m.session.Submit(value)
	switch {
	case err == nil:
		m.input.SetValue("")
		m.setStatus("waiting for the agent", false)
	case err == schema.ErrEmptyMessage:
		// Nothing to send.
	case err == schema.ErrSessionBusy:
		m.setStatus("the agent is still answering", true)
	case err == schema.ErrNotConnected:
		m.setStatus("not connected", true)
	default:
		m.setStatus(err.Error(), true)
	}
}

func (m *Model) setStatus(text string, bad bool) {
	m.status = text
	m.statusErr = bad
}

func (m *Model) layout() {
	sidebarWidth := m.width / 3
	if sidebarWidth < 24 {
		sidebarWidth = 24
	}
	mainWidth := m.width - sidebarWidth - 2
	if mainWidth < 20 {
		mainWidth = 20
	}
	paneHeight := m.height - 5
	if paneHeight < 3 {
		paneHeight = 3
	}
	m.transcript = viewport.New(mainWidth, paneHeight)
	m.sidebar = viewport.New(sidebarWidth, paneHeight)
	m.input.Width = m.width - 4
}

func (m *Model) renderPanes() {
	if !m.ready {
		return
	}
	m.transcript.SetContent(m.renderTranscript())
	m.transcript.GotoBottom()
	m.sidebar.SetContent(m.renderSidebar())
}

func (m *Model) renderTranscript() string {
	var b strings.Builder
	for _, turn := range m.session.Turns() {
		switch turn.Role {
		case schema.RoleUser:
			b.WriteString(m.theme.user.Render("you: ") + turn.Content)
		case schema.RoleAssistant:
			b.WriteString(m.theme.assistant.Render("agent: " + turn.Content))
		case schema.RoleError:
			b.WriteString(m.theme.errorTurn.Render("error: " + turn.Content))
		}
		b.WriteString("\n")
	}
	if m.session.State() == schema.SessionStreaming {
		if buf := m.session.StreamingBuffer(); buf != "" {
			b.WriteString(m.theme.streaming.Render("agent: " + buf))
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (m *Model) renderSidebar() string {
	todos := m.session.Todos().Todos()
	if len(todos) == 0 {
		return "no todos yet"
	}
	var b strings.Builder
	for _, todo := range todos {
		fmt.Fprintf(&b, "[%d] %s\n", todo.ID, todo.Title)
		if todo.Description != "" {
			fmt.Fprintf(&b, "    %s\n", todo.Description)
		}
	}
	return b.String()
}

// View renders the full screen.
func (m *Model) View() string {
	if !m.ready {
		return "loading..."
	}
	header := m.theme.header.Render("todoagent")
	panes := lipgloss.JoinHorizontal(
		lipgloss.Top,
		m.transcript.View(),
		m.theme.sidebar.Render(m.sidebar.View()),
	)

	inputLine := m.input.View()
	if m.session.State() != schema.SessionIdle {
		inputLine = m.spinner.View() + " " + m.theme.streaming.Render(string(m.session.State()))
	}

	statusStyle := m.theme.status
	if m.statusErr {
		statusStyle = m.theme.statusBad
	}
	status := statusStyle.Render(m.status)

	return lipgloss.JoinVertical(lipgloss.Left, header, panes, inputLine, status)
}

// Run starts the interactive client and blocks until it exits.
func Run(ctx context.Context, serverURL string) error {
	program := tea.NewProgram(New(ctx, serverURL), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	return err
}
