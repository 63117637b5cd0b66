package cli

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"answerbase/agent"
	apperrors "answerbase/errors"
	"answerbase/knowledge"
	"answerbase/utils"
)

func newKnowledgeCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "knowledge",
		Short: "List and edit a knowledge file",
		Long: `List and edit the examples of a knowledge file.

Subcommands:
  list    - List the examples in order
  add     - Append an example and save
  remove  - Remove an example by index and save`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runKnowledgeList(cmd)
		},
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List the examples in order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runKnowledgeList(cmd)
		},
	}

	var weight float64
	var kind string
	add := &cobra.Command{
		Use:   "add <question> <answer>",
		Short: "Append an example and save",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runKnowledgeAdd(cmd, args[0], args[1], kind, weight)
		},
	}
	add.Flags().Float64Var(&weight, "weight", agent.DefaultWeight, "example weight, > 0")
	add.Flags().StringVar(&kind, "format", "text", "answer format: text, markdown or json")

	remove := &cobra.Command{
		Use:   "remove <index>",
		Short: "Remove an example by index and save",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := strconv.Atoi(args[0])
			if err != nil {
				return apperrors.WrapErrorf(apperrors.ErrInvalidArgument, "index %q", args[0])
			}
			return a.runKnowledgeRemove(cmd, index)
		},
	}

	cmd.AddCommand(list, add, remove)
	return cmd
}

func (a *app) runKnowledgeList(cmd *cobra.Command) error {
	kb, err := a.loadKnowledge()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if kb.Len() == 0 {
		fmt.Fprintln(out, a.styles.warn.Render("The knowledge base is empty."))
		return nil
	}

	fmt.Fprintln(out, a.styles.header.Render(fmt.Sprintf("%d examples", kb.Len())))
	fmt.Fprintln(out, strings.Repeat("─", 60))
	for i, ex := range kb.Examples() {
		fmt.Fprintf(out, "%3d. %-40s %s\n", i, truncate(ex.Input, 40),
			a.styles.meta.Render(fmt.Sprintf("%s, weight %.2f", ex.Output.Kind(), ex.Weight)))
	}
	return nil
}

// editableKnowledge loads the knowledge file for modification. A path that does not exist
// yet starts an empty base.
func (a *app) editableKnowledge() (*knowledge.KnowledgeBase, string, error) {
	path := a.knowledgePath()
	if path == "" {
		return nil, "", apperrors.WrapError(apperrors.ErrInvalidArgument,
			"the built-in knowledge is read-only; pass --kb or set KNOWLEDGE_PATH")
	}
	if !utils.VerifyFileExists(path) {
		a.logger.Info("Creating knowledge file", zap.String("path", path))
		return knowledge.New(), path, nil
	}
	kb, err := knowledge.Load(path)
	return kb, path, err
}

func (a *app) runKnowledgeAdd(cmd *cobra.Command, question, answer, kind string, weight float64) error {
	kb, path, err := a.editableKnowledge()
	if err != nil {
		return err
	}
	output, err := parseAnswer(answer, kind)
	if err != nil {
		return err
	}
	if err := kb.AddExample(question, output, weight); err != nil {
		return err
	}
	if err := kb.Save(path); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Added example %d to %s\n", kb.Len()-1, path)
	return nil
}

func (a *app) runKnowledgeRemove(cmd *cobra.Command, index int) error {
	kb, path, err := a.editableKnowledge()
	if err != nil {
		return err
	}
	removed, err := kb.Remove(index)
	if err != nil {
		return err
	}
	if err := kb.Save(path); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Removed example %d (%s) from %s\n", index, truncate(removed.Input, 40), path)
	return nil
}

func parseAnswer(answer, kind string) (agent.ResponseFormat, error) {
	switch strings.ToLower(kind) {
	case "", "text":
		return agent.Text(answer), nil
	case "markdown", "md":
		return agent.Markdown(answer), nil
	case "json":
		var v any
		if err := json.Unmarshal([]byte(answer), &v); err != nil {
			return nil, apperrors.WrapErrorf(apperrors.ErrInvalidArgument, "answer is not valid JSON: %v", err)
		}
		return agent.JSON{Value: v}, nil
	default:
		return nil, apperrors.WrapErrorf(apperrors.ErrInvalidArgument, "unknown answer format %q", kind)
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
