package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const (
	ReportFileNameIndexJSON     = "unified-report.json"
	ReportFileNameHTML          = "report.html"
	ReportFileNameFailuresSheet = "failures-index.xlsx"
	ReportDirRecords            = "records"
)

var reUnsafeName = regexp.MustCompile(`[^A-Za-z0-9_.-]+`)

// recordFileName is the file of the record at idx, for example
// "records/00-vitest.json".
func recordFileName(idx int, framework string) string {
	name := reUnsafeName.ReplaceAllString(framework, "_")
	if name == "" {
		name = "unknown"
	}
	return filepath.Join(ReportDirRecords, fmt.Sprintf("%02d-%s.json", idx, name))
}

// SaveResults writes the report artifacts to dir: the JSON document, one
// JSON file per record, the failures spreadsheet and the HTML page.
func (re *Report) SaveResults(dir string) error {
	if err := os.MkdirAll(filepath.Join(dir, ReportDirRecords), 0o755); err != nil {
		return errors.Wrapf(err, "creating directory %s", dir)
	}

	data, err := re.ShowJSON()
	if err != nil {
		return err
	}
	path := filepath.Join(dir, ReportFileNameIndexJSON)
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		return errors.Wrapf(err, "writing %s", path)
	}
	log.Debugf("Report saved to %s", path)

	for _, fw := range re.Frameworks {
		data, err := json.MarshalIndent(fw.Record, "", "  ")
		if err != nil {
			return errors.Wrapf(err, "encoding record %s", fw.Record.Framework)
		}
		path := filepath.Join(dir, recordFileName(fw.Index, fw.Record.Framework))
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return errors.Wrapf(err, "writing %s", path)
		}
	}

	if err := re.saveFailuresIndexToSheet(filepath.Join(dir, ReportFileNameFailuresSheet)); err != nil {
		return err
	}
	return re.saveChartsPage(filepath.Join(dir, ReportFileNameHTML))
}
