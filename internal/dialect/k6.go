package dialect

import (
	"fmt"

	"github.com/redhat-openshift-ecosystem/unified-test-report/pkg/api"
)

// k6Metric accepts both the --summary-export layout, where the statistics
// sit directly on the metric, and the handleSummary layout which nests them
// under "values".
type k6Metric struct {
	Count  *num      `json:"count"`
	Rate   *num      `json:"rate"`
	Avg    *num      `json:"avg"`
	Max    *num      `json:"max"`
	Passes *num      `json:"passes"`
	Fails  *num      `json:"fails"`
	Value  *num      `json:"value"`
	Values *k6Metric `json:"values"`
}

func (m *k6Metric) get(field func(*k6Metric) *num) num {
	if m == nil {
		return 0
	}
	if v := field(m); v != nil {
		return *v
	}
	if m.Values != nil {
		if v := field(m.Values); v != nil {
			return *v
		}
	}
	return 0
}

func (m *k6Metric) count() num { return m.get(func(x *k6Metric) *num { return x.Count }) }
func (m *k6Metric) avg() num { return m.get(func(x *k6Metric) *num { return x.Avg }) }
func (m *k6Metric) max() num { return m.get(func(x *k6Metric) *num { return x.Max }) }
func (m *k6Metric) passes() num { return m.get(func(x *k6Metric) *num { return x.Passes }) }
func (m *k6Metric) fails() num { return m.get(func(x *k6Metric) *num { return x.Fails }) }
func (m *k6Metric) value() num { return m.get(func(x *k6Metric) *num { return x.Value }) }

// rate falls back to value, which is where Rate metrics keep their ratio in
// the export layout.
func (m *k6Metric) rate() num {
	if m == nil {
		return 0
	}
	for _, x := range []*k6Metric{m, m.Values} {
		if x == nil {
			continue
		}
		if x.Rate != nil {
			return *x.Rate
		}
		if x.Value != nil {
			return *x.Value
		}
	}
	return 0
}

type k6Report struct {
	Metrics struct {
		Iterations    *k6Metric `json:"iterations"`
		Checks        *k6Metric `json:"checks"`
		TestDuration  *k6Metric `json:"test_duration"`
		HTTPReqDur    *k6Metric `json:"http_req_duration"`
		HTTPReqs      *k6Metric `json:"http_reqs"`
		HTTPReqFailed *k6Metric `json:"http_req_failed"`
	} `json:"metrics"`
	State struct {
		TestRunDurationMs *num `json:"testRunDurationMs"`
	} `json:"state"`
}

type k6Adapter struct{}

func (a *k6Adapter) Name() string { return "k6" }

func (a *k6Adapter) Parse(content []byte, testType api.TestType) (api.ResultRecord, error) {
	report := k6Report{}
	err := decodeJSON(content, &report, "metrics")
	if !usable(err) {
		return api.ResultRecord{}, err
	}

	metrics := report.Metrics
	duration := metrics.TestDuration.value().Float()
	if metrics.TestDuration == nil && report.State.TestRunDurationMs != nil {
		duration = report.State.TestRunDurationMs.Float()
	}
	fails := metrics.Checks.fails().Int()
	// http_req_failed is a fraction of failed requests
	errorRate := metrics.HTTPReqFailed.rate().Float() * 100

	rec := api.NewEmptyResult(a.Name(), testType)
	rec.Summary = api.Summary{
		Total:      metrics.Iterations.count().Int(),
		Passed:     metrics.Checks.passes().Int(),
		Failed:     fails,
		DurationMs: duration,
	}
	rec.Performance = &api.PerformanceStats{
		AvgResponseTimeMs: metrics.HTTPReqDur.avg().Float(),
		MaxResponseTimeMs: metrics.HTTPReqDur.max().Float(),
		RequestsPerSecond: metrics.HTTPReqs.rate().Float(),
		TotalRequests:     metrics.HTTPReqs.count().Int(),
		ErrorRatePercent:  errorRate,
	}

	c := api.CaseResult{
		Name:            "Performance Test",
		Status:          api.CaseStatusPassed,
		DurationMs:      duration,
		FailureMessages: []string{},
	}
	if fails > 0 {
		c.Status = api.CaseStatusFailed
		c.FailureMessages = append(c.FailureMessages, fmt.Sprintf("%d checks failed", fails))
	}
	if errorRate > 0 {
		c.Status = api.CaseStatusFailed
		c.FailureMessages = append(c.FailureMessages, fmt.Sprintf("http request error rate %.2f%%", errorRate))
	}
	rec.Details = append(rec.Details, c)
	return rec, err
}
