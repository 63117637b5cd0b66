package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"answerbase/knowledge"
)

func newMergeCommand(a *app) *cobra.Command {
	var out string
	var withEmbedded bool
	cmd := &cobra.Command{
		Use:   "merge <dir>",
		Short: "Merge every JSON knowledge file in a directory into one file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := args[0]
			if out == "" {
				out = filepath.Join(dir, "train.json")
			}
			return a.runMerge(cmd, dir, out, withEmbedded)
		},
	}
	cmd.Flags().StringVar(&out, "out", "", "output file (default: <dir>/train.json)")
	cmd.Flags().BoolVar(&withEmbedded, "embedded", false, "append the built-in knowledge as well")
	return cmd
}

func (a *app) runMerge(cmd *cobra.Command, dir, out string, withEmbedded bool) error {
	kb, skipped, err := knowledge.LoadDir(a.logger, dir)
	if err != nil {
		return err
	}
	if withEmbedded {
		if err := kb.MergeEmbedded(); err != nil {
			return err
		}
	}
	if err := kb.Save(out); err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	for _, file := range skipped {
		fmt.Fprintln(w, a.styles.warn.Render("Skipped "+file))
	}
	fmt.Fprintf(w, "Merged %d examples into %s\n", kb.Len(), out)
	a.logger.Info("Knowledge merged",
		zap.String("dir", dir),
		zap.String("out", out),
		zap.Int("examples", kb.Len()),
		zap.Int("skipped", len(skipped)))
	return nil
}
