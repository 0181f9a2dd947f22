package cli

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"midad/internal/export"
	"midad/internal/service"
)

func newHistoryCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "history",
		Aliases: []string{"h"},
		Short:   "Browse past analyses",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List saved analyses, most recent first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := opts.printer(cmd)
			if err != nil {
				return err
			}
			a, err := opts.load(cmd)
			if err != nil {
				return err
			}
			items := a.History.List(cmd.Context())
			return p.print(items, func(w io.Writer) { writeHistoryTable(w, items) })
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show <id>",
		Short: "Show one saved analysis",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := opts.printer(cmd)
			if err != nil {
				return err
			}
			a, err := opts.load(cmd)
			if err != nil {
				return err
			}
			item, err := a.History.Get(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("history item %s: %w", args[0], err)
			}
			return p.print(item, func(w io.Writer) { writeHistoryItem(w, item) })
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a saved analysis",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.load(cmd)
			if err != nil {
				return err
			}
			items, err := a.History.Remove(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s (%d remaining)\n", args[0], len(items))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "check <id> <question-id> <answer>",
		Short: "Check an answer to a quiz question",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := opts.printer(cmd)
			if err != nil {
				return err
			}
			qid, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid question id %q", args[1])
			}
			a, err := opts.load(cmd)
			if err != nil {
				return err
			}
			fb, err := a.History.CheckAnswer(cmd.Context(), &service.CheckAnswerInput{
				HistoryID:  args[0],
				QuestionID: qid,
				Answer:     args[2],
			})
			if err != nil {
				return err
			}
			return p.print(fb, func(w io.Writer) { writeFeedback(w, fb) })
		},
	})

	cmd.AddCommand(newHistoryExportCommand(opts))

	return cmd
}

func newHistoryExportCommand(opts *rootOptions) *cobra.Command {
	var (
		format string
		out    string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the history as CSV or XLSX",
		Long: `Export writes every saved analysis to a spreadsheet. Without --out the
file is named after the current date and written to the working directory.
Use --out - to write CSV to stdout.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := export.ParseFormat(format)
			if err != nil {
				return err
			}
			a, err := opts.load(cmd)
			if err != nil {
				return err
			}

			if out == "-" {
				return a.History.Export(cmd.Context(), f, cmd.OutOrStdout())
			}

			var buf bytes.Buffer
			if err := a.History.Export(cmd.Context(), f, &buf); err != nil {
				return err
			}
			if out == "" {
				out = export.BuildFilename("history", f, time.Now())
			}
			if err := os.WriteFile(out, buf.Bytes(), 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", out, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported history to %s\n", out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "csv", "export format (csv, xlsx)")
	cmd.Flags().StringVar(&out, "out", "", "output path, or - for stdout")

	return cmd
}
