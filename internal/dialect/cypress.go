package dialect

import (
	"strings"

	"github.com/redhat-openshift-ecosystem/unified-test-report/pkg/api"
)

// cypressReport covers both the merged reporter layout (passes/failures) and
// the module API run result (totalPassed/totalFailed).
type cypressReport struct {
	TotalTests    num  `json:"totalTests"`
	Passes        *num `json:"passes"`
	TotalPassed   *num `json:"totalPassed"`
	Failures      *num `json:"failures"`
	TotalFailed   *num `json:"totalFailed"`
	Skipped       *num `json:"skipped"`
	TotalSkipped  *num `json:"totalSkipped"`
	TotalPending  *num `json:"totalPending"`
	Duration      *num `json:"duration"`
	TotalDuration *num `json:"totalDuration"`
	Runs          []struct {
		Tests []struct {
			Title        texts `json:"title"`
			State        text  `json:"state"`
			Duration     num   `json:"duration"`
			DisplayError text  `json:"displayError"`
		} `json:"tests"`
	} `json:"runs"`
}

type cypressAdapter struct{}

func (a *cypressAdapter) Name() string { return "cypress" }

func (a *cypressAdapter) Parse(content []byte, testType api.TestType) (api.ResultRecord, error) {
	report := cypressReport{}
	err := decodeJSON(content, &report, "totalTests", "runs")
	if !usable(err) {
		return api.ResultRecord{}, err
	}

	rec := api.NewEmptyResult(a.Name(), testType)
	rec.Summary = api.Summary{
		Total:      report.TotalTests.Int(),
		Passed:     first(report.Passes, report.TotalPassed).Int(),
		Failed:     first(report.Failures, report.TotalFailed).Int(),
		Skipped:    first(report.Skipped, report.TotalSkipped, report.TotalPending).Int(),
		DurationMs: first(report.Duration, report.TotalDuration).Float(),
	}
	for _, run := range report.Runs {
		for _, test := range run.Tests {
			parts := make([]string, 0, len(test.Title))
			for _, t := range test.Title {
				parts = append(parts, t.String())
			}
			name := strings.Join(parts, " ")
			if name == "" {
				name = "Unknown Test"
			}
			rec.Details = append(rec.Details, api.CaseResult{
				Name:            name,
				Status:          api.ParseCaseStatus(test.State.String()),
				DurationMs:      test.Duration.Float(),
				FailureMessages: messages(test.DisplayError),
			})
		}
	}
	return rec, err
}
