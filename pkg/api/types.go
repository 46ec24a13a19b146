// Package api holds the canonical result model shared by every dialect adapter,
// the unified report builder and the display formatter.
package api

import (
	"strings"
	"time"
)

// TestType is the category of a test run. Unknown values are carried verbatim.
type TestType string

const (
	TestTypeUnit        TestType = "unit"
	TestTypeIntegration TestType = "integration"
	TestTypeAPI         TestType = "api"
	TestTypeE2E         TestType = "e2e"
	TestTypePerformance TestType = "performance"
)

// CaseStatus is the normalized outcome of a single test case.
type CaseStatus string

const (
	CaseStatusPassed  CaseStatus = "passed"
	CaseStatusFailed  CaseStatus = "failed"
	CaseStatusSkipped CaseStatus = "skipped"
	CaseStatusUnknown CaseStatus = "unknown"
)

// ParseCaseStatus maps the status spellings used by the supported tools
// to a CaseStatus.
func ParseCaseStatus(s string) CaseStatus {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "passed", "pass", "ok", "success", "expected":
		return CaseStatusPassed
	case "failed", "fail", "failure", "error", "errored", "broken",
		"timedout", "timeout", "interrupted", "unexpected":
		return CaseStatusFailed
	case "skipped", "skip", "pending", "todo", "disabled", "ignored":
		return CaseStatusSkipped
	}
	return CaseStatusUnknown
}

// RawReport is the unparsed output of a test tool, as handed over by the
// ingestion layer. It is never retained after parsing.
type RawReport struct {
	Framework string
	TestType  TestType
	Content   []byte

	// SourcePath is advisory, used only to enrich diagnostics.
	SourcePath string
}

// Summary holds the counters reported by the source tool. Total is passed
// through as reported and is not reconciled with the other counters.
type Summary struct {
	Total      int     `json:"total"`
	Passed     int     `json:"passed"`
	Failed     int     `json:"failed"`
	Skipped    int     `json:"skipped"`
	DurationMs float64 `json:"durationMs"`
}

// CaseResult is one test case outcome within a ResultRecord.
type CaseResult struct {
	Name            string     `json:"name"`
	Status          CaseStatus `json:"status"`
	DurationMs      float64    `json:"durationMs"`
	FailureMessages []string   `json:"failureMessages"`
}

// CoverageStats are percentages in the 0-100 range.
type CoverageStats struct {
	Statements float64 `json:"statements"`
	Branches   float64 `json:"branches"`
	Functions  float64 `json:"functions"`
	Lines      float64 `json:"lines"`
}

// PerformanceStats summarizes a load-test run.
type PerformanceStats struct {
	AvgResponseTimeMs float64 `json:"avgResponseTimeMs"`
	MaxResponseTimeMs float64 `json:"maxResponseTimeMs"`
	RequestsPerSecond float64 `json:"requestsPerSecond"`
	TotalRequests     int     `json:"totalRequests"`
	ErrorRatePercent  float64 `json:"errorRatePercent"`
}

// ResultRecord is the canonical, framework-agnostic result of one report.
// It is built once by an adapter and not modified afterwards.
type ResultRecord struct {
	Framework   string            `json:"framework"`
	TestType    TestType          `json:"testType"`
	Timestamp   time.Time         `json:"timestamp"`
	Summary     Summary           `json:"summary"`
	Details     []CaseResult      `json:"details"`
	Coverage    *CoverageStats    `json:"coverage"`
	Performance *PerformanceStats `json:"performance"`
}

// UnifiedReport aggregates several ResultRecords. Frameworks is keyed by
// framework name; on collision the last record wins.
type UnifiedReport struct {
	Timestamp   time.Time               `json:"timestamp"`
	Summary     Summary                 `json:"summary"`
	Frameworks  map[string]ResultRecord `json:"frameworks"`
	Performance *PerformanceStats       `json:"performance"`
	Coverage    *CoverageStats          `json:"coverage"`
}
