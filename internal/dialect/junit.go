package dialect

import (
	"bytes"

	"github.com/pkg/errors"

	"github.com/redhat-openshift-ecosystem/unified-test-report/pkg/api"
)

type junitAdapter struct{}

func (a *junitAdapter) Name() string { return "junit" }

func (a *junitAdapter) Parse(content []byte, testType api.TestType) (api.ResultRecord, error) {
	if len(bytes.TrimSpace(content)) == 0 {
		return api.ResultRecord{}, errors.Wrap(ErrDecode, "empty content")
	}
	parser, err := api.ParseJUnitXML(content)
	if err != nil {
		return api.ResultRecord{}, errors.Wrap(ErrDecode, err.Error())
	}

	rec := api.NewEmptyResult(a.Name(), testType)
	rec.Summary = api.Summary{
		Total:      parser.Counters.Total,
		Passed:     parser.Counters.Pass,
		Failed:     parser.Counters.Failures,
		Skipped:    parser.Counters.Skipped,
		DurationMs: parser.DurationMs,
	}
	caseTime := 0.0
	for _, tc := range parser.Cases {
		rec.Details = append(rec.Details, api.CaseResult{
			Name:            tc.Name,
			Status:          api.ParseCaseStatus(string(tc.Status)),
			DurationMs:      tc.DurationMs(),
			FailureMessages: tc.FailureMessages(),
		})
		caseTime += tc.DurationMs()
	}
	// some reporters leave the suite time attribute out
	if rec.Summary.DurationMs == 0 {
		rec.Summary.DurationMs = caseTime
	}
	return rec, nil
}
