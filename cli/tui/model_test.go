package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"answerbase/agent"
)

func newSession(t *testing.T) *agent.ContextAgent[*agent.MatchAgent] {
	t.Helper()
	base := agent.NewExactAgent()
	require.NoError(t, base.Train([]agent.TrainingExample{
		{Input: "What is GEL?", Output: agent.Text("A version control system"), Weight: 1},
		{Input: "What is airust?", Output: agent.Markdown("A *modular* AI library"), Weight: 2},
	}))
	session, err := agent.NewContextAgent(base, 2)
	require.NoError(t, err)
	return session
}

func plainRender(r agent.ResponseFormat) string { return r.String() }

func submit(t *testing.T, m Model, line string) Model {
	t.Helper()
	m.input.SetValue(line)
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	return next.(Model)
}

func TestModelAnswersAndRecordsContext(t *testing.T) {
	session := newSession(t)
	m := New(session, plainRender, DefaultStyles(false), "test")

	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	m = next.(Model)

	// the context is rendered into the query, so only the first turn matches exactly
	m = submit(t, m, "What is GEL?")
	assert.Contains(t, strings.Join(m.Transcript(), "\n"), "A version control system")
	require.Len(t, session.History(), 1)
	assert.Equal(t, "What is GEL?", session.History()[0].Question)
	assert.Empty(t, m.input.Value())

	m = submit(t, m, "What is airust?")
	assert.Contains(t, m.Transcript(), "No matching answer found.")
	assert.Len(t, session.History(), 1, "failed turns are not recorded")

	m = submit(t, m, ":clear")
	assert.Empty(t, session.History())

	m = submit(t, m, "What is airust?")
	assert.Contains(t, strings.Join(m.Transcript(), "\n"), "A *modular* AI library")
	assert.Contains(t, m.View(), "1 turns in context.")
}

func TestModelHistoryCommand(t *testing.T) {
	session := newSession(t)
	session.AddContext("earlier", agent.Text("answer"))
	m := New(session, plainRender, DefaultStyles(false), "test")

	m = submit(t, m, ":history")
	assert.Contains(t, m.Transcript(), "  1. earlier -> answer")

	session.ClearContext()
	m = submit(t, m, ":history")
	assert.Equal(t, "No conversation context yet.", m.status)
}

func TestModelQuits(t *testing.T) {
	m := New(newSession(t), plainRender, DefaultStyles(true), "test")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	m.input.SetValue(":quit")
	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestModelViewBeforeResize(t *testing.T) {
	m := New(newSession(t), plainRender, DefaultStyles(false), "test")
	assert.Equal(t, "Loading...", m.View())
}
