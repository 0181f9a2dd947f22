package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"gopkg.in/yaml.v3"

	"midad/internal/domain"
	"midad/internal/service"
)

const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

type printer struct {
	w      io.Writer
	format string
}

func newPrinter(w io.Writer, format string) (*printer, error) {
	switch f := strings.ToLower(format); f {
	case formatText, formatJSON, formatYAML:
		return &printer{w: w, format: f}, nil
	default:
		return nil, fmt.Errorf("unsupported output format %q; allowed: text, json, yaml", format)
	}
}

// print renders v as JSON or YAML, or calls text for the human format.
func (p *printer) print(v interface{}, text func(w io.Writer)) error {
	switch p.format {
	case formatJSON:
		enc := json.NewEncoder(p.w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case formatYAML:
		enc := yaml.NewEncoder(p.w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		text(p.w)
		return nil
	}
}

func writeResult(w io.Writer, out *service.AnalyzeOutput) {
	writeAnalysis(w, out.HistoryItem.Title, out.Result)
	if out.Saved {
		fmt.Fprintf(w, "\nSaved to history as %s\n", out.HistoryItem.ID)
	} else {
		fmt.Fprintln(w, "\nWarning: the result could not be saved to history")
	}
}

func writeAnalysis(w io.Writer, title string, r *domain.AnalysisResult) {
	fmt.Fprintf(w, "%s\n\n", title)
	fmt.Fprintf(w, "Summary\n%s\n", r.DocumentSummary)

	if r.QuizData != nil && len(r.QuizData.Questions) > 0 {
		fmt.Fprintf(w, "\nQuiz: %s (%d questions)\n", r.QuizData.Title, len(r.QuizData.Questions))
		for _, q := range r.QuizData.Questions {
			writeQuestion(w, q)
		}
	}
	if m := r.Metadata; m != nil {
		fmt.Fprintf(w, "\nWords: %d  Language: %s  Complexity: %s\n", m.WordCount, m.Language, m.ComplexityLevel)
	}
}

func writeQuestion(w io.Writer, q domain.Question) {
	fmt.Fprintf(w, "\n%d. %s\n", q.ID, q.Question)
	for i, opt := range q.Options {
		fmt.Fprintf(w, "   %c) %s\n", 'a'+rune(i), opt)
	}
}

func writeHistoryTable(w io.Writer, items []domain.HistoryItem) {
	if len(items) == 0 {
		fmt.Fprintln(w, "No history yet.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDATE\tTITLE\tQUESTIONS")
	for _, it := range items {
		n := 0
		if it.Data.QuizData != nil {
			n = len(it.Data.QuizData.Questions)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\n", it.ID, formatDate(it.Timestamp), it.Title, n)
	}
	_ = tw.Flush()
}

func writeHistoryItem(w io.Writer, it *domain.HistoryItem) {
	fmt.Fprintf(w, "%s  (%s)\n", it.ID, formatDate(it.Timestamp))
	writeAnalysis(w, it.Title, &it.Data)
}

func writeFeedback(w io.Writer, fb *domain.AnswerFeedback) {
	switch fb.Status {
	case domain.AnswerCorrect:
		fmt.Fprintln(w, "Correct!")
	case domain.AnswerIncorrect:
		fmt.Fprintf(w, "Incorrect. The correct answer is: %s\n", fb.CorrectAnswer)
	default:
		fmt.Fprintln(w, "This question has no valid answer key; none of the options is marked correct.")
	}
	if fb.Explanation != "" {
		fmt.Fprintf(w, "Explanation: %s\n", fb.Explanation)
	}
}

func writePreferences(w io.Writer, p domain.Preferences) {
	fmt.Fprintf(w, "theme:    %s\n", p.Theme)
	fmt.Fprintf(w, "language: %s (%s)\n", p.Language, p.Language.DisplayName())
}

func formatDate(ms int64) string {
	return time.UnixMilli(ms).Local().Format("2006-01-02 15:04")
}
