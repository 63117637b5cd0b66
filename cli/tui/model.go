// Package tui is the interactive question-and-answer shell.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"answerbase/agent"
	apperrors "answerbase/errors"
)

// Session is the shell-facing side of a context-aware agent.
type Session interface {
	agent.Predictor
	agent.Contextual
}

// Renderer turns a response into display text.
type Renderer func(agent.ResponseFormat) string

// Styles used by the shell. Zero styles render plain text.
type Styles struct {
	Header   lipgloss.Style
	Question lipgloss.Style
	Answer   lipgloss.Style
	Status   lipgloss.Style
	Box      lipgloss.Style
}

// DefaultStyles returns the colored look; with color false every style is plain except
// the borders.
func DefaultStyles(color bool) Styles {
	box := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	if !color {
		plain := lipgloss.NewStyle()
		return Styles{Header: plain, Question: plain, Answer: plain, Status: plain, Box: box}
	}
	return Styles{
		Header:   lipgloss.NewStyle().Bold(true),
		Question: lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true),
		Answer:   lipgloss.NewStyle().Foreground(lipgloss.Color("15")),
		Status:   lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Box:      box,
	}
}

// Model is the Bubble Tea model of the shell.
type Model struct {
	session  Session
	render   Renderer
	styles   Styles
	title    string
	input    textinput.Model
	viewport viewport.Model
	lines    []string
	status   string
	ready    bool
}

// New creates the shell around session.
func New(session Session, render Renderer, styles Styles, title string) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask a question, :clear to forget, :history to review, :quit to leave"
	ti.Focus()
	ti.CharLimit = 0
	return Model{
		session:  session,
		render:   render,
		styles:   styles,
		title:    title,
		input:    ti,
		viewport: viewport.New(0, 0),
		status:   "Ready.",
	}
}

// Init starts the cursor blinking.
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key and window events.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, bh := m.styles.Box.GetFrameSize()
		// header, status and the input box
		reserved := 2 + 3 + bh
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = max(3, msg.Height-reserved)
		m.refresh()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD || msg.Type == tea.KeyEsc {
			return m, tea.Quit
		}
		if msg.Type == tea.KeyEnter {
			line := strings.TrimSpace(m.input.Value())
			m.input.SetValue("")
			if line == "" {
				return m, nil
			}
			if line == ":quit" || line == ":q" {
				return m, tea.Quit
			}
			m.handle(line)
			m.refresh()
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handle(line string) {
	switch line {
	case ":clear":
		m.session.ClearContext()
		m.status = "Conversation context cleared."
		return
	case ":history":
		history := m.session.History()
		if len(history) == 0 {
			m.status = "No conversation context yet."
			return
		}
		m.lines = append(m.lines, m.styles.Header.Render("Context:"))
		for i, t := range history {
			m.lines = append(m.lines, fmt.Sprintf("  %d. %s -> %s", i+1, t.Question, t.Response.String()))
		}
		m.status = fmt.Sprintf("%d turns in context.", len(history))
		return
	}

	m.lines = append(m.lines, m.styles.Question.Render("Q: "+line))
	resp, err := m.session.Predict(line)
	switch {
	case err == nil:
		m.lines = append(m.lines, m.styles.Answer.Render(m.render(resp)), "")
		m.session.AddContext(line, resp)
		m.status = fmt.Sprintf("%d turns in context.", len(m.session.History()))
	case apperrors.IsNoMatch(err) || apperrors.IsEmptyQuery(err):
		m.lines = append(m.lines, m.styles.Status.Render("No matching answer found."), "")
		m.status = "No answer; context unchanged."
	default:
		m.lines = append(m.lines, "")
		m.status = "Error: " + err.Error()
	}
}

func (m *Model) refresh() {
	m.viewport.SetContent(strings.Join(m.lines, "\n"))
	m.viewport.GotoBottom()
}

// View renders the transcript, the input box and the status line.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := m.styles.Header.Render(m.title)
	input := m.styles.Box.Render(m.input.View())
	status := m.styles.Status.Render(m.status)
	return header + "\n" + m.viewport.View() + "\n" + input + "\n" + status
}

// Transcript returns the lines shown so far.
func (m Model) Transcript() []string {
	out := make([]string, len(m.lines))
	copy(out, m.lines)
	return out
}
