package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"answerbase/agent"
	"answerbase/cli/tui"
	"answerbase/format"
)

func newInteractiveCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "interactive [agent]",
		Short: "Start an interactive shell that remembers the recent conversation",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) == 1 {
				name = args[0]
			}
			session, err := a.buildSession(name)
			if err != nil {
				return err
			}
			color := a.cfg.ColorOutput && !a.noColor
			title := fmt.Sprintf("answerbase (%d turns of context)", a.cfg.ContextMaxItems)
			model := tui.New(session, format.Pretty, tui.DefaultStyles(color), title)
			_, err = tea.NewProgram(model,
				tea.WithAltScreen(),
				tea.WithInput(cmd.InOrStdin()),
				tea.WithOutput(cmd.OutOrStdout())).Run()
			return err
		},
	}
}

// buildSession returns a trained context-aware agent. Strategies without history are
// wrapped in a ContextAgent.
func (a *app) buildSession(name string) (tui.Session, error) {
	kb, err := a.loadKnowledge()
	if err != nil {
		return nil, err
	}
	ag, err := a.buildAgent(name, kb)
	if err != nil {
		return nil, err
	}
	if session, ok := ag.(tui.Session); ok {
		return session, nil
	}

	_, opts, err := a.cfg.AgentOptions(a.logger)
	if err != nil {
		return nil, err
	}
	items := opts.ContextItems
	if items == 0 {
		items = agent.DefaultContextItems
	}
	a.logger.Debug("Wrapping agent with conversation context", zap.Int("items", items))
	session, err := agent.NewContextAgent(ag, items,
		agent.WithLogger(a.logger),
		agent.WithContextFormat(opts.ContextFormat))
	if err != nil {
		return nil, err
	}
	return session, nil
}
