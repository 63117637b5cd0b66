// Package cli implements the answerbase command tree.
package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"answerbase/agent"
	"answerbase/config"
	apperrors "answerbase/errors"
	"answerbase/knowledge"
)

// app carries the flags and the state every command shares once the root has run.
type app struct {
	configPath string
	kbPath     string
	logLevel   string
	html       bool
	noColor    bool

	cfg    *config.Config
	logger *zap.Logger
	styles styles
}

type styles struct {
	header lipgloss.Style
	answer lipgloss.Style
	meta   lipgloss.Style
	warn   lipgloss.Style
}

func newStyles(color bool) styles {
	if !color {
		plain := lipgloss.NewStyle()
		return styles{header: plain, answer: plain, meta: plain, warn: plain}
	}
	return styles{
		header: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		answer: lipgloss.NewStyle().Foreground(lipgloss.Color("15")),
		meta:   lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		warn:   lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
	}
}

// NewRootCommand builds the command tree.
func NewRootCommand() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "answerbase",
		Short: "Answer questions from a weighted knowledge base",
		Long: `answerbase answers free-text questions by retrieving the best stored response.

Strategies:
  exact    - normalized string equality
  fuzzy    - edit distance within a bound
  bm25     - Okapi BM25 ranking (alias: tfidf)
  context  - BM25 conditioned on the recent conversation`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(*cobra.Command, []string) { config.Cleanup() },
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "config file (default: config.yaml in . or ./config)")
	flags.StringVar(&a.kbPath, "kb", "", "knowledge file (default: KNOWLEDGE_PATH, else the built-in knowledge)")
	flags.StringVar(&a.logLevel, "log-level", "", "debug, info, warn or error (default: LOG_LEVEL)")
	flags.BoolVar(&a.html, "html", false, "render answers as HTML")
	flags.BoolVar(&a.noColor, "no-color", false, "disable colored output")

	root.AddCommand(
		newQueryCommand(a),
		newInteractiveCommand(a),
		newKnowledgeCommand(a),
		newMergeCommand(a),
		newPDF2KBCommand(a),
	)
	return root
}

// Execute runs the command tree against os.Args.
func Execute() error {
	return NewRootCommand().Execute()
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(nil, a.configPath)
	if err != nil {
		return err
	}
	level := cfg.LogLevel
	if a.logLevel != "" {
		level = a.logLevel
	}
	color := cfg.ColorOutput && !a.noColor

	logger, err := config.InitLogger(level, color)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	a.cfg = cfg
	a.logger = logger
	a.styles = newStyles(color)
	logger.Debug("Configuration loaded",
		zap.String("command", cmd.Name()),
		zap.String("agent_type", cfg.AgentType))
	return nil
}

func (a *app) knowledgePath() string {
	if a.kbPath != "" {
		return a.kbPath
	}
	return a.cfg.KnowledgePath
}

func (a *app) loadKnowledge() (*knowledge.KnowledgeBase, error) {
	path := a.knowledgePath()
	if path == "" {
		a.logger.Debug("Using built-in knowledge")
		return knowledge.FromEmbedded()
	}
	kb, err := knowledge.Load(path)
	if err != nil {
		return nil, err
	}
	a.logger.Info("Knowledge loaded", zap.String("path", path), zap.Int("examples", kb.Len()))
	return kb, nil
}

// buildAgent constructs and trains the strategy. An empty name uses AGENT_TYPE.
func (a *app) buildAgent(name string, kb *knowledge.KnowledgeBase) (agent.Agent, error) {
	strategy, opts, err := a.cfg.AgentOptions(a.logger)
	if err != nil {
		return nil, err
	}
	if name != "" {
		if strategy, err = agent.ParseStrategy(name); err != nil {
			return nil, err
		}
	}
	ag, err := agent.New(strategy, opts)
	if err != nil {
		return nil, err
	}
	if err := ag.Train(kb.Examples()); err != nil {
		return nil, fmt.Errorf("failed to train %s agent: %w", strategy, err)
	}
	return ag, nil
}

// noAnswer reports whether err just means the corpus has nothing for the query.
func noAnswer(err error) bool {
	return apperrors.IsNoMatch(err) || apperrors.IsEmptyQuery(err)
}
