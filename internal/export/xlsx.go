package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"midad/internal/domain"
)

const (
	historySheet   = "History"
	questionsSheet = "Questions"
)

// WriteXLSX writes a workbook with one row per history item on the History
// sheet and one row per quiz question on the Questions sheet. The Questions
// sheet widens to fit the longest option list.
func WriteXLSX(out io.Writer, items []domain.HistoryItem) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", historySheet); err != nil {
		return fmt.Errorf("renaming sheet: %w", err)
	}
	if _, err := f.NewSheet(questionsSheet); err != nil {
		return fmt.Errorf("creating questions sheet: %w", err)
	}

	if err := setRow(f, historySheet, 1, columns); err != nil {
		return err
	}
	optionCount := optionColumnCount(items)
	if err := setRow(f, questionsSheet, 1, questionColumns(optionCount)); err != nil {
		return err
	}

	qRow := 2
	for i := range items {
		item := &items[i]
		if err := setRow(f, historySheet, i+2, itemToRow(item)); err != nil {
			return err
		}
		if item.Data.QuizData == nil {
			continue
		}
		for j := range item.Data.QuizData.Questions {
			if err := setRow(f, questionsSheet, qRow, questionToRow(item.ID, &item.Data.QuizData.Questions[j], optionCount)); err != nil {
				return err
			}
			qRow++
		}
	}

	if err := f.Write(out); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
		return fmt.Errorf("writing %s row %d: %w", sheet, row, err)
	}
	return nil
}
