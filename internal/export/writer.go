// Package export renders history as CSV or XLSX downloads.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"midad/internal/domain"
)

// UTF-8 BOM bytes for Excel compatibility on Windows. Arabic titles and
// summaries render as mojibake without it.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// Format is an export file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ParseFormat validates a format name; empty means CSV.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case "", FormatCSV:
		return FormatCSV, nil
	case FormatXLSX:
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("unsupported export format %q; allowed: csv, xlsx", s)
	}
}

// ContentType returns the MIME type served for f.
func (f Format) ContentType() string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}

// columns defines the history header row.
var columns = []string{
	"ID",
	"Title",
	"Created At",
	"Action",
	"Summary",
	"Quiz Title",
	"Question Count",
	"Word Count",
	"Language",
	"Complexity",
}

// minOptionColumns is the number of option columns always present; quizzes
// normally carry four options per question.
const minOptionColumns = 4

// questionColumns returns the per-question header of XLSX exports with
// optionCount option columns.
func questionColumns(optionCount int) []string {
	cols := make([]string, 0, optionCount+5)
	cols = append(cols, "History ID", "Question ID", "Question")
	for i := 1; i <= optionCount; i++ {
		cols = append(cols, "Option "+strconv.Itoa(i))
	}
	return append(cols, "Correct Answer", "Explanation")
}

// optionColumnCount is the widest option list across items, at least minOptionColumns.
func optionColumnCount(items []domain.HistoryItem) int {
	n := minOptionColumns
	for i := range items {
		if items[i].Data.QuizData == nil {
			continue
		}
		for _, q := range items[i].Data.QuizData.Questions {
			n = max(n, len(q.Options))
		}
	}
	return n
}

// Writer wraps csv.Writer for exporting history as CSV.
type Writer struct {
	csv *csv.Writer
}

// NewWriter creates a Writer that writes CSV to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{csv: csv.NewWriter(w)}
}

// WriteHeader writes the header row.
func (w *Writer) WriteHeader() error {
	return w.csv.Write(columns)
}

// WriteItems converts history items to CSV rows and writes them.
func (w *Writer) WriteItems(items []domain.HistoryItem) error {
	for i := range items {
		if err := w.csv.Write(itemToRow(&items[i])); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes the underlying csv.Writer buffer.
func (w *Writer) Flush() {
	w.csv.Flush()
}

// Error returns any error from the underlying csv.Writer.
func (w *Writer) Error() error {
	return w.csv.Error()
}

// WriteCSV writes BOM, header and all items.
func WriteCSV(out io.Writer, items []domain.HistoryItem) error {
	if _, err := out.Write(BOM); err != nil {
		return err
	}
	w := NewWriter(out)
	if err := w.WriteHeader(); err != nil {
		return err
	}
	if err := w.WriteItems(items); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

// Write renders items in the given format.
func Write(out io.Writer, format Format, items []domain.HistoryItem) error {
	switch format {
	case FormatXLSX:
		return WriteXLSX(out, items)
	default:
		return WriteCSV(out, items)
	}
}

// itemToRow converts one history item to a row matching columns. Quiz and
// metadata columns stay empty when the analysis carried none.
func itemToRow(item *domain.HistoryItem) []string {
	row := make([]string, len(columns))
	row[0] = item.ID
	row[1] = item.Title
	row[2] = formatTimestamp(item.Timestamp)
	row[3] = item.Data.ActionPerformed
	row[4] = item.Data.DocumentSummary

	if q := item.Data.QuizData; q != nil {
		row[5] = q.Title
		row[6] = strconv.Itoa(len(q.Questions))
	}
	if m := item.Data.Metadata; m != nil {
		row[7] = strconv.Itoa(m.WordCount)
		row[8] = m.Language
		row[9] = m.ComplexityLevel
	}
	return row
}

func questionToRow(historyID string, q *domain.Question, optionCount int) []string {
	row := make([]string, 0, optionCount+5)
	row = append(row, historyID, strconv.Itoa(q.ID), q.Question)
	for i := 0; i < optionCount; i++ {
		opt := ""
		if i < len(q.Options) {
			opt = q.Options[i]
		}
		row = append(row, opt)
	}
	return append(row, q.CorrectAnswer, q.Explanation)
}

func formatTimestamp(ms int64) string {
	return time.UnixMilli(ms).UTC().Format(time.RFC3339)
}

// nonAlphanumeric matches characters that are not alphanumeric, hyphen, or underscore.
var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// multiUnderscore matches consecutive underscores.
var multiUnderscore = regexp.MustCompile(`_{2,}`)

// SanitizeFilename cleans a name for use in Content-Disposition.
// Replaces non-alphanumeric chars (except - _) with _, collapses consecutive
// underscores, and truncates to 100 chars.
func SanitizeFilename(name string) string {
	s := nonAlphanumeric.ReplaceAllString(name, "_")
	s = multiUnderscore.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if len(s) > 100 {
		s = s[:100]
	}
	return s
}

// BuildFilename returns {sanitized_name}_{YYYY-MM-DD}.{format}.
func BuildFilename(name string, format Format, now time.Time) string {
	sanitized := SanitizeFilename(name)
	if sanitized == "" {
		sanitized = "history"
	}
	return fmt.Sprintf("%s_%s.%s", sanitized, now.Format("2006-01-02"), format)
}
