package dialect

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/redhat-openshift-ecosystem/unified-test-report/pkg/api"
)

// gatlingValue is either a plain number or the {total, ok, ko} breakdown
// used throughout stats.json. A plain number is read as the total.
type gatlingValue struct {
	Total num `json:"total"`
	OK    num `json:"ok"`
	KO    num `json:"ko"`
}

func (v *gatlingValue) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		type plain gatlingValue
		p := plain{}
		if err := json.Unmarshal(trimmed, &p); err != nil {
			*v = gatlingValue{}
			return nil
		}
		*v = gatlingValue(p)
		return nil
	}
	*v = gatlingValue{}
	return v.Total.UnmarshalJSON(trimmed)
}

type gatlingStats struct {
	NumberOfRequests              *gatlingValue `json:"numberOfRequests"`
	MeanResponseTime              gatlingValue  `json:"meanResponseTime"`
	MaxResponseTime               gatlingValue  `json:"maxResponseTime"`
	RequestPerSec                 *gatlingValue `json:"requestPerSec"`
	MeanNumberOfRequestsPerSecond *gatlingValue `json:"meanNumberOfRequestsPerSecond"`
	Duration                      num           `json:"duration"`
}

type gatlingReport struct {
	gatlingStats
	Stats *gatlingStats `json:"stats"`
}

type gatlingAdapter struct{}

func (a *gatlingAdapter) Name() string { return "gatling" }

func (a *gatlingAdapter) Parse(content []byte, testType api.TestType) (api.ResultRecord, error) {
	report := gatlingReport{}
	if err := decodeJSON(content, &report); err != nil {
		return api.ResultRecord{}, err
	}
	stats := report.gatlingStats
	if report.Stats != nil {
		duration := stats.Duration
		stats = *report.Stats
		if stats.Duration == 0 {
			stats.Duration = duration
		}
	}

	var err error
	requests := gatlingValue{}
	if stats.NumberOfRequests != nil {
		requests = *stats.NumberOfRequests
	} else {
		err = &PartialDataError{Missing: []string{"numberOfRequests"}}
	}
	rps := gatlingValue{}
	switch {
	case stats.RequestPerSec != nil:
		rps = *stats.RequestPerSec
	case stats.MeanNumberOfRequestsPerSecond != nil:
		rps = *stats.MeanNumberOfRequestsPerSecond
	}

	total, ko := requests.Total.Int(), requests.KO.Int()
	rec := api.NewEmptyResult(a.Name(), testType)
	rec.Summary = api.Summary{
		Total:      total,
		Passed:     requests.OK.Int(),
		Failed:     ko,
		DurationMs: stats.Duration.Float(),
	}
	rec.Performance = &api.PerformanceStats{
		AvgResponseTimeMs: stats.MeanResponseTime.Total.Float(),
		MaxResponseTimeMs: stats.MaxResponseTime.Total.Float(),
		RequestsPerSecond: rps.Total.Float(),
		TotalRequests:     total,
	}
	if total > 0 {
		rec.Performance.ErrorRatePercent = float64(ko) / float64(total) * 100
	}

	c := api.CaseResult{
		Name:            "Gatling Load Test",
		Status:          api.CaseStatusPassed,
		DurationMs:      stats.Duration.Float(),
		FailureMessages: []string{},
	}
	if ko > 0 {
		c.Status = api.CaseStatusFailed
		c.FailureMessages = append(c.FailureMessages, fmt.Sprintf("%d of %d requests failed", ko, total))
	}
	rec.Details = append(rec.Details, c)
	return rec, err
}
