package dialect

import (
	"encoding/json"

	"github.com/redhat-openshift-ecosystem/unified-test-report/pkg/api"
)

type avaReport struct {
	Stats struct {
		TestCount num `json:"testCount"`
		PassCount num `json:"passCount"`
		FailCount num `json:"failCount"`
		SkipCount num `json:"skipCount"`
		Duration  num `json:"duration"`
	} `json:"stats"`
	Tests []struct {
		Title    text `json:"title"`
		Passed   flag `json:"passed"`
		Skipped  flag `json:"skipped"`
		Todo     flag `json:"todo"`
		Duration num  `json:"duration"`
		Error    text `json:"error"`
	} `json:"tests"`
	Coverage json.RawMessage `json:"coverage"`
}

type avaAdapter struct{}

func (a *avaAdapter) Name() string { return "ava" }

func (a *avaAdapter) Parse(content []byte, testType api.TestType) (api.ResultRecord, error) {
	report := avaReport{}
	err := decodeJSON(content, &report, "stats", "tests")
	if !usable(err) {
		return api.ResultRecord{}, err
	}

	rec := api.NewEmptyResult(a.Name(), testType)
	rec.Summary = api.Summary{
		Total:      report.Stats.TestCount.Int(),
		Passed:     report.Stats.PassCount.Int(),
		Failed:     report.Stats.FailCount.Int(),
		Skipped:    report.Stats.SkipCount.Int(),
		DurationMs: report.Stats.Duration.Float(),
	}
	for _, test := range report.Tests {
		status := api.CaseStatusFailed
		switch {
		case bool(test.Skipped || test.Todo):
			status = api.CaseStatusSkipped
		case bool(test.Passed):
			status = api.CaseStatusPassed
		}
		rec.Details = append(rec.Details, api.CaseResult{
			Name:            test.Title.String(),
			Status:          status,
			DurationMs:      test.Duration.Float(),
			FailureMessages: messages(test.Error),
		})
	}
	rec.Coverage = decodeCoverage(report.Coverage)
	return rec, err
}
