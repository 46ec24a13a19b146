package dialect

import (
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/redhat-openshift-ecosystem/unified-test-report/pkg/api"
)

type flatCase struct {
	Name     text `json:"name"`
	Status   text `json:"status"`
	Duration num  `json:"duration"`
	Error    text `json:"error"`
}

type flatReport struct {
	Total    num `json:"total"`
	Passed   num `json:"passed"`
	Failed   num `json:"failed"`
	Skipped  num `json:"skipped"`
	Duration num `json:"duration"`
}

// flatAdapter handles the custom reporter layouts that put the counters at
// the top level and list cases under a single key:
//
//	{"total": 2, "passed": 1, "failed": 1, "skipped": 0, "duration": 120,
//	 "tests": [{"name": "...", "status": "passed", "duration": 60, "error": null}]}
type flatAdapter struct {
	name     string
	casesKey string
}

// NewFlatAdapter returns an adapter for the flat layout with cases listed
// under casesKey.
func NewFlatAdapter(name, casesKey string) Adapter {
	return &flatAdapter{name: name, casesKey: casesKey}
}

func (a *flatAdapter) Name() string { return a.name }

func (a *flatAdapter) Parse(content []byte, testType api.TestType) (api.ResultRecord, error) {
	report := flatReport{}
	err := decodeJSON(content, &report, "total", "passed", "failed", a.casesKey)
	if !usable(err) {
		return api.ResultRecord{}, err
	}

	cases := map[string]json.RawMessage{}
	if uerr := json.Unmarshal(content, &cases); uerr != nil {
		return api.ResultRecord{}, errors.Wrapf(ErrDecode, "invalid JSON: %v", uerr)
	}
	list := []flatCase{}
	if raw, ok := cases[a.casesKey]; ok && !isNull(raw) {
		if uerr := json.Unmarshal(raw, &list); uerr != nil {
			return api.ResultRecord{}, errors.Wrapf(ErrDecode, "invalid %s list: %v", a.casesKey, uerr)
		}
	}

	rec := api.NewEmptyResult(a.name, testType)
	rec.Summary = api.Summary{
		Total:      report.Total.Int(),
		Passed:     report.Passed.Int(),
		Failed:     report.Failed.Int(),
		Skipped:    report.Skipped.Int(),
		DurationMs: report.Duration.Float(),
	}
	for _, c := range list {
		rec.Details = append(rec.Details, api.CaseResult{
			Name:            c.Name.String(),
			Status:          api.ParseCaseStatus(c.Status.String()),
			DurationMs:      c.Duration.Float(),
			FailureMessages: messages(c.Error),
		})
	}
	return rec, err
}
