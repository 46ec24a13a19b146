package dialect

import (
	"k8s.io/utils/ptr"

	"github.com/redhat-openshift-ecosystem/unified-test-report/pkg/api"
)

type playwrightSpec struct {
	Title text `json:"title"`
	Tests []struct {
		Results []struct {
			Status   text `json:"status"`
			Duration num  `json:"duration"`
			Error    text `json:"error"`
		} `json:"results"`
	} `json:"tests"`
}

type playwrightSuite struct {
	Title  text              `json:"title"`
	Specs  []playwrightSpec  `json:"specs"`
	Suites []playwrightSuite `json:"suites"`
}

type playwrightReport struct {
	Stats struct {
		Total      *num `json:"total"`
		Passed     *num `json:"passed"`
		Failed     *num `json:"failed"`
		Skipped    num  `json:"skipped"`
		Duration   num  `json:"duration"`
		Expected   num  `json:"expected"`
		Unexpected num  `json:"unexpected"`
		Flaky      num  `json:"flaky"`
	} `json:"stats"`
	Suites []playwrightSuite `json:"suites"`
}

type playwrightAdapter struct{}

func (a *playwrightAdapter) Name() string { return "playwright" }

func (a *playwrightAdapter) Parse(content []byte, testType api.TestType) (api.ResultRecord, error) {
	report := playwrightReport{}
	err := decodeJSON(content, &report, "stats", "suites")
	if !usable(err) {
		return api.ResultRecord{}, err
	}

	stats := report.Stats
	// The stock JSON reporter only emits expected/unexpected/flaky counters.
	rec := api.NewEmptyResult(a.Name(), testType)
	rec.Summary = api.Summary{
		Total:      first(stats.Total, ptr.To(stats.Expected+stats.Unexpected+stats.Flaky+stats.Skipped)).Int(),
		Passed:     first(stats.Passed, ptr.To(stats.Expected+stats.Flaky)).Int(),
		Failed:     first(stats.Failed, ptr.To(stats.Unexpected)).Int(),
		Skipped:    stats.Skipped.Int(),
		DurationMs: stats.Duration.Float(),
	}

	for _, spec := range collectPlaywrightSpecs(report.Suites) {
		c := api.CaseResult{
			Name:            spec.Title.String(),
			Status:          api.CaseStatusUnknown,
			FailureMessages: []string{},
		}
		if len(spec.Tests) > 0 && len(spec.Tests[0].Results) > 0 {
			result := spec.Tests[0].Results[0]
			c.Status = api.ParseCaseStatus(result.Status.String())
			c.DurationMs = result.Duration.Float()
			c.FailureMessages = messages(result.Error)
		}
		rec.Details = append(rec.Details, c)
	}
	return rec, err
}

// collectPlaywrightSpecs walks nested suites (file > describe > ...) depth first.
func collectPlaywrightSpecs(suites []playwrightSuite) []playwrightSpec {
	specs := []playwrightSpec{}
	for _, suite := range suites {
		specs = append(specs, suite.Specs...)
		specs = append(specs, collectPlaywrightSpecs(suite.Suites)...)
	}
	return specs
}
