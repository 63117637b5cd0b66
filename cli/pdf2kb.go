package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"answerbase/pdfloader"
	"answerbase/utils"
)

func newPDF2KBCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "pdf2kb <pdf> [out.json]",
		Short: "Convert a PDF into a knowledge file, one example per chunk",
		Long: `Convert a PDF into a knowledge file. The text is cut into overlapping chunks
(PDF_MIN_CHUNK_SIZE, PDF_MAX_CHUNK_SIZE, PDF_CHUNK_OVERLAP) and each chunk becomes an
example that answers with itself. The output defaults to the PDF name with a .json extension.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := utils.DerivedFilename(args[0], ".json")
			if len(args) == 2 {
				out = args[1]
			}
			loader, err := pdfloader.New(a.logger, a.cfg.PDFConfig())
			if err != nil {
				return err
			}
			kb, err := loader.ToKnowledgeBase(args[0])
			if err != nil {
				return err
			}
			if err := kb.Save(out); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d examples to %s\n", kb.Len(), out)
			return nil
		},
	}
}
