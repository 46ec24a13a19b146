package dialect

import (
	"encoding/json"

	"github.com/redhat-openshift-ecosystem/unified-test-report/pkg/api"
)

// vitestReport is the JSON reporter output of vitest, which follows the jest
// --json layout.
type vitestReport struct {
	NumTotalTests   num `json:"numTotalTests"`
	NumPassedTests  num `json:"numPassedTests"`
	NumFailedTests  num `json:"numFailedTests"`
	NumPendingTests num `json:"numPendingTests"`
	TestResults     []struct {
		StartTime        *num `json:"startTime"`
		EndTime          *num `json:"endTime"`
		AssertionResults []struct {
			FullName        text  `json:"fullName"`
			Title           text  `json:"title"`
			Status          text  `json:"status"`
			Duration        num   `json:"duration"`
			FailureMessages texts `json:"failureMessages"`
		} `json:"assertionResults"`
	} `json:"testResults"`
	Coverage json.RawMessage `json:"coverage"`
}

type vitestAdapter struct {
	name string
}

// NewVitestAdapter returns the adapter for the vitest JSON reporter. The same
// layout is produced by jest, registered under its own name.
func NewVitestAdapter(name string) Adapter {
	return &vitestAdapter{name: name}
}

func (a *vitestAdapter) Name() string { return a.name }

func (a *vitestAdapter) Parse(content []byte, testType api.TestType) (api.ResultRecord, error) {
	report := vitestReport{}
	err := decodeJSON(content, &report, "numTotalTests", "numPassedTests", "numFailedTests", "testResults")
	if !usable(err) {
		return api.ResultRecord{}, err
	}

	rec := api.NewEmptyResult(a.name, testType)
	rec.Summary = api.Summary{
		Total:      report.NumTotalTests.Int(),
		Passed:     report.NumPassedTests.Int(),
		Failed:     report.NumFailedTests.Int(),
		Skipped:    report.NumPendingTests.Int(),
		DurationMs: vitestDuration(&report),
	}

	for _, file := range report.TestResults {
		for _, assertion := range file.AssertionResults {
			name := assertion.FullName
			if name == "" {
				name = assertion.Title
			}
			rec.Details = append(rec.Details, api.CaseResult{
				Name:            name.String(),
				Status:          api.ParseCaseStatus(assertion.Status.String()),
				DurationMs:      assertion.Duration.Float(),
				FailureMessages: messages(assertion.FailureMessages...),
			})
		}
	}
	rec.Coverage = decodeCoverage(report.Coverage)
	return rec, err
}

// vitestDuration is the wall time between the earliest file start and the
// latest file end.
func vitestDuration(report *vitestReport) float64 {
	var start, end float64
	found := false
	for _, file := range report.TestResults {
		if file.StartTime == nil || file.EndTime == nil {
			continue
		}
		s, e := file.StartTime.Float(), file.EndTime.Float()
		if !found || s < start {
			start = s
		}
		if !found || e > end {
			end = e
		}
		found = true
	}
	if !found || end < start {
		return 0
	}
	return end - start
}

// usable reports whether a decode error still leaves a usable record.
func usable(err error) bool {
	if err == nil {
		return true
	}
	_, ok := err.(*PartialDataError)
	return ok
}
