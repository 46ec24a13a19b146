// Package unified folds ResultRecords from several frameworks into one
// api.UnifiedReport.
package unified

import (
	"math"
	"time"

	"k8s.io/utils/ptr"

	"github.com/redhat-openshift-ecosystem/unified-test-report/pkg/api"
)

// Build aggregates records, stamped with the current UTC time.
func Build(records []api.ResultRecord) api.UnifiedReport {
	return BuildAt(time.Now().UTC(), records)
}

// BuildAt aggregates records in input order:
//   - summary counters and durations are summed;
//   - Frameworks keeps the last record seen for each framework name;
//   - response times and error rate keep the worst value, throughput and
//     request counts are summed;
//   - each coverage metric is averaged pairwise with the running value, so
//     the result depends on record order.
//
// Negative, NaN and infinite values are aggregated as zero.
func BuildAt(ts time.Time, records []api.ResultRecord) api.UnifiedReport {
	report := api.UnifiedReport{
		Timestamp:  ts,
		Frameworks: make(map[string]api.ResultRecord, len(records)),
	}

	for _, rec := range records {
		report.Summary.Total += count(rec.Summary.Total)
		report.Summary.Passed += count(rec.Summary.Passed)
		report.Summary.Failed += count(rec.Summary.Failed)
		report.Summary.Skipped += count(rec.Summary.Skipped)
		report.Summary.DurationMs += value(rec.Summary.DurationMs)

		report.Frameworks[rec.Framework] = clone(rec)

		if rec.Performance != nil {
			if report.Performance == nil {
				report.Performance = &api.PerformanceStats{}
			}
			mergePerformance(report.Performance, rec.Performance)
		}
		if rec.Coverage != nil {
			if report.Coverage == nil {
				report.Coverage = &api.CoverageStats{}
			}
			mergeCoverage(report.Coverage, rec.Coverage)
		}
	}
	return report
}

func mergePerformance(acc, p *api.PerformanceStats) {
	acc.AvgResponseTimeMs = math.Max(acc.AvgResponseTimeMs, value(p.AvgResponseTimeMs))
	acc.MaxResponseTimeMs = math.Max(acc.MaxResponseTimeMs, value(p.MaxResponseTimeMs))
	acc.RequestsPerSecond += value(p.RequestsPerSecond)
	acc.TotalRequests += count(p.TotalRequests)
	acc.ErrorRatePercent = math.Max(acc.ErrorRatePercent, value(p.ErrorRatePercent))
}

// mergeCoverage weights the new sample as much as everything seen before.
func mergeCoverage(acc, c *api.CoverageStats) {
	acc.Statements = (acc.Statements + value(c.Statements)) / 2
	acc.Branches = (acc.Branches + value(c.Branches)) / 2
	acc.Functions = (acc.Functions + value(c.Functions)) / 2
	acc.Lines = (acc.Lines + value(c.Lines)) / 2
}

// clone copies rec so the report shares no memory with its inputs.
func clone(rec api.ResultRecord) api.ResultRecord {
	out := rec
	out.Details = make([]api.CaseResult, len(rec.Details))
	for i, c := range rec.Details {
		out.Details[i] = c
		out.Details[i].FailureMessages = append([]string{}, c.FailureMessages...)
	}
	if rec.Coverage != nil {
		out.Coverage = ptr.To(*rec.Coverage)
	}
	if rec.Performance != nil {
		out.Performance = ptr.To(*rec.Performance)
	}
	return out
}

func value(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

func count(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
