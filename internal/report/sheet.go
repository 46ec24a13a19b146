package report

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
)

const (
	sheetNameSummary  = "summary"
	sheetNameFailures = "failures"
)

// saveFailuresIndexToSheet writes a spreadsheet with the counters of every
// record and one row per failed case, to be reviewed by the team.
func (re *Report) saveFailuresIndexToSheet(path string) error {
	sheet := excelize.NewFile()
	defer sheet.Close()

	idx, err := sheet.NewSheet(sheetNameSummary)
	if err != nil {
		return errors.Wrap(err, "creating summary sheet")
	}
	sheet.SetActiveSheet(idx)
	if err := createSheet(sheet, sheetNameSummary, []string{
		"Index", "Framework", "Test_Type", "Status", "Total", "Passed", "Failed", "Skipped", "Duration", "Success_Rate",
	}); err != nil {
		return err
	}
	rowN := 2
	for _, fw := range re.Frameworks {
		s := fw.Record.Summary
		if err := populateRow(sheet, sheetNameSummary, rowN, []interface{}{
			fw.Index, fw.Record.Framework, string(fw.Record.TestType), fw.View.Status,
			s.Total, s.Passed, s.Failed, s.Skipped, fw.View.Duration, fw.View.SuccessRate,
		}); err != nil {
			return err
		}
		rowN++
	}

	if _, err := sheet.NewSheet(sheetNameFailures); err != nil {
		return errors.Wrap(err, "creating failures sheet")
	}
	if err := createSheet(sheet, sheetNameFailures, []string{
		"Framework", "Test_Type", "Index", "Test_Name", "Duration_ms", "Failure_Message", "Notes_Review",
	}); err != nil {
		return err
	}
	rowN = 2
	for _, fw := range re.Frameworks {
		for i, c := range fw.FailedCases {
			if err := populateRow(sheet, sheetNameFailures, rowN, []interface{}{
				fw.Record.Framework, string(fw.Record.TestType), i + 1, c.Name, c.DurationMs,
				strings.Join(c.FailureMessages, "\n"), "",
			}); err != nil {
				return err
			}
			rowN++
		}
	}

	if err := sheet.SaveAs(path); err != nil {
		return errors.Wrapf(err, "saving %s", path)
	}
	return nil
}

// createSheet writes the header row.
func createSheet(sheet *excelize.File, sheetName string, header []string) error {
	values := make([]interface{}, 0, len(header))
	for _, h := range header {
		values = append(values, h)
	}
	return populateRow(sheet, sheetName, 1, values)
}

// populateRow fills row rowN from column A.
func populateRow(sheet *excelize.File, sheetName string, rowN int, values []interface{}) error {
	for col, v := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, rowN)
		if err != nil {
			return err
		}
		if err := sheet.SetCellValue(sheetName, cell, v); err != nil {
			return errors.Wrapf(err, "writing %s!%s", sheetName, cell)
		}
	}
	return nil
}
