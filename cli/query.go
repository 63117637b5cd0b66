package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"answerbase/agent"
	"answerbase/format"
)

func newQueryCommand(a *app) *cobra.Command {
	var top int
	cmd := &cobra.Command{
		Use:   "query <agent> <question...>",
		Short: "Answer a single question",
		Example: `  answerbase query bm25 "What is airust?"
  answerbase query fuzzy what is ayrast --top 3`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runQuery(cmd.OutOrStdout(), args[0], strings.Join(args[1:], " "), top)
		},
	}
	cmd.Flags().IntVar(&top, "top", 1, "show the best N answers when the strategy can rank")
	return cmd
}

func (a *app) runQuery(out io.Writer, strategy, question string, top int) error {
	kb, err := a.loadKnowledge()
	if err != nil {
		return err
	}
	ag, err := a.buildAgent(strategy, kb)
	if err != nil {
		return err
	}

	var predictions []agent.Prediction
	r, canRank := ag.(agent.Ranker)
	switch {
	case top > 1 && canRank:
		predictions, err = r.PredictTopN(question, top)
	case top > 1:
		a.logger.Warn("Strategy cannot rank, showing the best answer only",
			zap.String("strategy", strategy), zap.Int("top", top))
		predictions, err = predictOne(ag, question)
	default:
		predictions, err = predictOne(ag, question)
	}
	if err != nil {
		if noAnswer(err) {
			a.logger.Debug("No answer", zap.String("question", question), zap.Error(err))
			fmt.Fprintln(out, a.styles.warn.Render("No matching answer found."))
			return nil
		}
		a.logger.Error("Prediction failed", zap.Error(err))
		return err
	}

	for i, p := range predictions {
		if len(predictions) > 1 {
			fmt.Fprintln(out, a.styles.header.Render(fmt.Sprintf("#%d", i+1)))
		}
		if err := a.printAnswer(out, p.Response); err != nil {
			return err
		}
		if p.Index >= 0 {
			fmt.Fprintln(out, a.styles.meta.Render(fmt.Sprintf("confidence %.2f, example %d", p.Confidence, p.Index)))
		}
	}
	return nil
}

func predictOne(ag agent.Agent, question string) ([]agent.Prediction, error) {
	if ca, ok := ag.(agent.ConfidenceAware); ok {
		p, err := ca.PredictWithConfidence(question)
		if err != nil {
			return nil, err
		}
		return []agent.Prediction{p}, nil
	}
	resp, err := ag.Predict(question)
	if err != nil {
		return nil, err
	}
	return []agent.Prediction{{Response: resp, Confidence: 1, Index: -1}}, nil
}

func (a *app) printAnswer(out io.Writer, resp agent.ResponseFormat) error {
	if a.html {
		html, err := format.ToHTML(resp)
		if err != nil {
			return err
		}
		fmt.Fprint(out, html)
		return nil
	}
	fmt.Fprintln(out, a.styles.answer.Render(format.Pretty(resp)))
	return nil
}
