package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"midad/internal/domain"
	"midad/internal/encoder"
	"midad/internal/service"
)

func newAnalyzeCommand(opts *rootOptions) *cobra.Command {
	var (
		lang   string
		prompt string
	)

	cmd := &cobra.Command{
		Use:   "analyze <file>",
		Short: "Summarize a document and generate a quiz",
		Long: `Analyze sends an image or PDF to the configured model provider and prints
the summary and quiz. The result is added to the history.

Examples:
  midad analyze notes.pdf
  midad analyze page.jpg --lang fr
  midad analyze chapter.pdf -o json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := opts.printer(cmd)
			if err != nil {
				return err
			}

			input := &service.AnalyzeInput{Prompt: prompt}
			if lang != "" {
				l, err := domain.ParseLanguage(lang)
				if err != nil {
					return err
				}
				input.Language = l
			}

			src, f, err := encoder.OpenFile(args[0])
			if err != nil {
				return fmt.Errorf("cannot open %s: %w", args[0], err)
			}
			defer func() { _ = f.Close() }()

			if !domain.AllowedContentTypes[src.MediaType] {
				return fmt.Errorf("%w: %s (%s)", domain.ErrUnsupportedFileType, src.Name, src.MediaType)
			}

			a, err := opts.load(cmd)
			if err != nil {
				return err
			}
			if limit := a.Config.Upload.MaxFileSizeMB; limit > 0 {
				if info, err := f.Stat(); err == nil && info.Size() > limit*1024*1024 {
					return fmt.Errorf("%w (max %d MB)", domain.ErrFileTooLarge, limit)
				}
			}
			input.File = src

			out, err := a.Analysis.Analyze(cmd.Context(), input)
			if err != nil {
				if domain.IsAnalysisFailure(err) {
					return errors.New(domain.AnalysisFailedMessage)
				}
				return err
			}

			return p.print(out, func(w io.Writer) { writeResult(w, out) })
		},
	}

	cmd.Flags().StringVarP(&lang, "lang", "l", "", "output language (ar, en, fr); defaults to the stored preference")
	cmd.Flags().StringVar(&prompt, "prompt", "", "replace the default instruction sent with the document")

	return cmd
}
