// Package report builds the presentation of a batch: the display views, the
// failure classification, the checks and the artifacts saved to disk.
package report

import (
	"encoding/json"
	"time"

	"github.com/montanaflynn/stats"
	"github.com/pkg/errors"

	"github.com/redhat-openshift-ecosystem/unified-test-report/internal/dialect"
	"github.com/redhat-openshift-ecosystem/unified-test-report/internal/display"
	"github.com/redhat-openshift-ecosystem/unified-test-report/internal/failures"
	"github.com/redhat-openshift-ecosystem/unified-test-report/internal/ingest"
	"github.com/redhat-openshift-ecosystem/unified-test-report/internal/metrics"
	"github.com/redhat-openshift-ecosystem/unified-test-report/pkg/api"
)

// Report is the document rendered by the console printer and saved as
// unified-report.json.
type Report struct {
	Timestamp   time.Time           `json:"timestamp"`
	Unified     api.UnifiedReport   `json:"unified"`
	View        display.View        `json:"view"`
	Frameworks  []*ReportFramework  `json:"frameworks"`
	Diagnostics []*ReportDiagnostic `json:"diagnostics"`
	Failures    *ReportFailures     `json:"failures"`
	Checks      *ReportChecks       `json:"checks"`
	Runtime     []metrics.Timer     `json:"runtime,omitempty"`
	Thresholds  Thresholds          `json:"thresholds"`
}

// ReportFramework is one input record with its display form. Index follows
// the order of the inputs, so two reports of the same framework are both
// listed even though the unified report keeps only the last one.
type ReportFramework struct {
	Index  int              `json:"index"`
	View   display.View     `json:"view"`
	Record api.ResultRecord `json:"record"`

	// P95CaseDurationMs is the 95th percentile of the case durations.
	P95CaseDurationMs float64          `json:"p95CaseDurationMs"`
	FailedCases       []api.CaseResult `json:"failedCases"`
}

type ReportDiagnostic struct {
	Kind       dialect.DiagnosticKind `json:"kind"`
	Framework  string                 `json:"framework"`
	TestType   api.TestType           `json:"testType"`
	SourcePath string                 `json:"sourcePath,omitempty"`
	Message    string                 `json:"message"`
}

type ReportFailures struct {
	ErrorCounters failures.ErrorCounter `json:"errorCounters"`
	Tags          failures.TestTags     `json:"tags"`
}

type ReportChecks struct {
	Fail []*SLOOutput `json:"failures"`
	Warn []*SLOOutput `json:"warnings"`
	Pass []*SLOOutput `json:"passes"`
	Skip []*SLOOutput `json:"skips"`
}

// Options tune the report. Zero values use the defaults.
type Options struct {
	Thresholds    *Thresholds
	ErrorPatterns []string
}

// NewReport populates the report of res and runs the checks.
func NewReport(res *ingest.Result, opts *Options) (*Report, error) {
	if res == nil {
		return nil, errors.New("no result to report")
	}
	if opts == nil {
		opts = &Options{}
	}
	th := DefaultThresholds()
	if opts.Thresholds != nil {
		th = *opts.Thresholds
	}
	patterns := opts.ErrorPatterns
	if len(patterns) == 0 {
		patterns = failures.CommonErrorPatterns
	}

	re := &Report{
		Timestamp:   res.Unified.Timestamp,
		Unified:     res.Unified,
		View:        display.FormatUnified(res.Unified),
		Frameworks:  make([]*ReportFramework, 0, len(res.Records)),
		Diagnostics: make([]*ReportDiagnostic, 0, len(res.Diagnostics)),
		Failures: &ReportFailures{
			ErrorCounters: failures.CountRecords(res.Records, patterns),
			Tags:          failures.FailedTestTags(res.Records),
		},
		Thresholds: th,
	}
	for i, rec := range res.Records {
		re.Frameworks = append(re.Frameworks, newReportFramework(i, rec))
	}
	for _, d := range res.Diagnostics {
		rd := &ReportDiagnostic{
			Kind:       d.Kind,
			Framework:  d.Framework,
			TestType:   d.TestType,
			SourcePath: d.SourcePath,
		}
		if d.Err != nil {
			rd.Message = d.Err.Error()
		}
		re.Diagnostics = append(re.Diagnostics, rd)
	}
	if res.Timers != nil {
		re.Runtime = res.Timers.Stages()
	}

	checks := NewCheckSummary(re, th)
	checks.Run()
	re.Checks = &ReportChecks{}
	re.Checks.Pass, re.Checks.Fail, re.Checks.Warn, re.Checks.Skip = checks.GetCheckResults()

	return re, nil
}

func newReportFramework(idx int, rec api.ResultRecord) *ReportFramework {
	rf := &ReportFramework{
		Index:       idx,
		View:        display.Format(rec),
		Record:      rec,
		FailedCases: []api.CaseResult{},
	}
	durations := stats.Float64Data{}
	for _, c := range rec.Details {
		durations = append(durations, c.DurationMs)
		if c.Status == api.CaseStatusFailed {
			rf.FailedCases = append(rf.FailedCases, c)
		}
	}
	if p95, err := stats.Percentile(durations, 95); err == nil {
		rf.P95CaseDurationMs = p95
	}
	return rf
}

// Passed reports whether no check failed.
func (re *Report) Passed() bool {
	return re.Checks == nil || len(re.Checks.Fail) == 0
}

// ShowJSON returns the indented JSON document of the report.
func (re *Report) ShowJSON() (string, error) {
	data, err := json.MarshalIndent(re, "", "  ")
	if err != nil {
		return "", errors.Wrap(err, "encoding report")
	}
	return string(data), nil
}
