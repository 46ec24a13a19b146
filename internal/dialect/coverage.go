package dialect

import (
	"bytes"
	"encoding/json"

	"github.com/redhat-openshift-ecosystem/unified-test-report/pkg/api"
)

// coverageMetric accepts a bare percentage or an istanbul metric object
// ({"total": 10, "covered": 8, "pct": 80}).
type coverageMetric struct {
	value float64
	set   bool
}

func (m *coverageMetric) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}
	if trimmed[0] == '{' {
		obj := struct {
			Pct *num `json:"pct"`
		}{}
		if err := json.Unmarshal(trimmed, &obj); err != nil || obj.Pct == nil {
			return nil
		}
		m.value, m.set = obj.Pct.Float(), true
		return nil
	}
	var n num
	_ = n.UnmarshalJSON(trimmed)
	m.value, m.set = n.Float(), true
	return nil
}

type coverageSummary struct {
	Statements coverageMetric `json:"statements"`
	Branches   coverageMetric `json:"branches"`
	Functions  coverageMetric `json:"functions"`
	Lines      coverageMetric `json:"lines"`
}

func (s *coverageSummary) any() bool {
	return s.Statements.set || s.Branches.set || s.Functions.set || s.Lines.set
}

func (s *coverageSummary) stats() *api.CoverageStats {
	return &api.CoverageStats{
		Statements: s.Statements.value,
		Branches:   s.Branches.value,
		Functions:  s.Functions.value,
		Lines:      s.Lines.value,
	}
}

// decodeCoverage extracts coverage percentages from the coverage block of a
// report: either a flat summary or an istanbul summary wrapped in "total".
// Unrecognized shapes yield nil.
func decodeCoverage(raw json.RawMessage) *api.CoverageStats {
	if isNull(raw) {
		return nil
	}
	wrapped := struct {
		Total *coverageSummary `json:"total"`
	}{}
	if err := json.Unmarshal(raw, &wrapped); err == nil && wrapped.Total != nil && wrapped.Total.any() {
		return wrapped.Total.stats()
	}
	flat := coverageSummary{}
	if err := json.Unmarshal(raw, &flat); err == nil && flat.any() {
		return flat.stats()
	}
	return nil
}
