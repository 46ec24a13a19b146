// Description: checks evaluated over a unified report. Each check compares an
// indicator of the batch (failed cases, success rate, coverage, load test
// error rate) with a target, and reports pass, fail, warn or skip.
package report

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/redhat-openshift-ecosystem/unified-test-report/internal/dialect"
)

const (
	CheckResultNamePass CheckResultName = "pass"
	CheckResultNameFail CheckResultName = "fail"
	CheckResultNameWarn CheckResultName = "warn"
	CheckResultNameSkip CheckResultName = "skip"

	CheckID001 string = "UTR-001"
	CheckID002 string = "UTR-002"
	CheckID003 string = "UTR-003"
	CheckID004 string = "UTR-004"
	CheckID005 string = "UTR-005"
	CheckID006 string = "UTR-006"
)

type CheckResultName string

type CheckResult struct {
	Name    CheckResultName `json:"result"`
	Message string          `json:"message"`
	Target  string          `json:"want"`
	Actual  string          `json:"got"`
}

func (cr *CheckResult) String() string {
	return string(cr.Name)
}

// SLOOutput is the serialized form of an evaluated check.
type SLOOutput struct {
	ID  string `json:"id"`
	SLO string `json:"slo"`

	// SLOResult is one of pass|fail|warn|skip.
	SLOResult string `json:"sloResult"`

	// SLITarget is the target value
	SLITarget string `json:"sliTarget"`

	// SLIActual is the indicator measured on the report.
	SLIActual string `json:"sliCurrent"`

	Message string `json:"message"`
}

// Thresholds are the targets of the checks. A zero MinLineCoverage disables
// the coverage check.
type Thresholds struct {
	MinSuccessRate  float64 `json:"minSuccessRate"`
	MinLineCoverage float64 `json:"minLineCoverage"`
	MaxErrorRate    float64 `json:"maxErrorRate"`
}

// DefaultThresholds require every test to pass, and at most 1% of failed
// requests on load tests.
func DefaultThresholds() Thresholds {
	return Thresholds{
		MinSuccessRate: 100,
		MaxErrorRate:   1,
	}
}

type Check struct {
	// ID is the unique identifier for the check, in the format UTR-NNN.
	ID string `json:"id"`

	// Name is the short and descriptive name of the check.
	Name string `json:"name"`

	Description string `json:"description"`

	Result CheckResult `json:"result"`

	Test func() CheckResult `json:"-"`
}

// CheckSummary aggregates the checks.
type CheckSummary struct {
	Checks []*Check `json:"checks"`
}

// NewCheckSummary creates the checks of re. Run evaluates them.
func NewCheckSummary(re *Report, th Thresholds) *CheckSummary {
	checkSum := &CheckSummary{Checks: []*Check{}}

	checkSum.Checks = append(checkSum.Checks, &Check{
		ID:          CheckID001,
		Name:        "All reports must be parsed",
		Description: "Reports that could not be decoded are counted as empty results.",
		Test: func() CheckResult {
			res := CheckResult{Name: CheckResultNameFail, Target: "decode==0,unsupported==0"}
			counts := map[dialect.DiagnosticKind]int{}
			for _, d := range re.Diagnostics {
				counts[d.Kind]++
			}
			decode := counts[dialect.DiagnosticDecode]
			unsupported := counts[dialect.DiagnosticUnsupported]
			partial := counts[dialect.DiagnosticPartialData]
			res.Actual = fmt.Sprintf("decode==%d,unsupported==%d,partial==%d", decode, unsupported, partial)
			if decode+unsupported > 0 {
				log.Debugf("Check Failed - %s: %s", CheckID001, res.Actual)
				return res
			}
			if partial > 0 {
				res.Name = CheckResultNameWarn
				res.Message = "Some reports are missing fields, their records may be incomplete."
				return res
			}
			res.Name = CheckResultNamePass
			return res
		},
	})
	checkSum.Checks = append(checkSum.Checks, &Check{
		ID:          CheckID002,
		Name:        "Reports must contain tests",
		Description: "A report without tests usually means the tool did not run.",
		Test: func() CheckResult {
			res := CheckResult{Name: CheckResultNameFail, Target: "Total>0"}
			res.Actual = fmt.Sprintf("Total==%d", re.Unified.Summary.Total)
			if re.Unified.Summary.Total <= 0 {
				return res
			}
			empty := []string{}
			for _, fw := range re.Frameworks {
				if fw.Record.Summary.Total <= 0 {
					empty = append(empty, fw.Record.Framework)
				}
			}
			if len(empty) > 0 {
				res.Name = CheckResultNameWarn
				res.Message = fmt.Sprintf("Reports without tests: %v", empty)
				return res
			}
			res.Name = CheckResultNamePass
			return res
		},
	})
	checkSum.Checks = append(checkSum.Checks, &Check{
		ID:          CheckID003,
		Name:        "Test cases must not fail",
		Description: "The sum of failed counters across all frameworks must be zero.",
		Test: func() CheckResult {
			res := CheckResult{Name: CheckResultNameFail, Target: "Failed==0"}
			res.Actual = fmt.Sprintf("Failed==%d", re.Unified.Summary.Failed)
			if re.Unified.Summary.Failed > 0 {
				log.Debugf("Check Failed - %s: %s", CheckID003, res.Actual)
				return res
			}
			res.Name = CheckResultNamePass
			return res
		},
	})
	checkSum.Checks = append(checkSum.Checks, &Check{
		ID:          CheckID004,
		Name:        fmt.Sprintf("Success rate must be >= %.1f%%", th.MinSuccessRate),
		Description: "Ratio of passed tests over the total reported by the tools.",
		Test: func() CheckResult {
			res := CheckResult{Name: CheckResultNameFail, Target: fmt.Sprintf(">=%.1f%%", th.MinSuccessRate)}
			s := re.Unified.Summary
			if s.Total <= 0 {
				res.Name = CheckResultNameSkip
				res.Message = "No tests reported."
				return res
			}
			rate := float64(s.Passed) / float64(s.Total) * 100
			res.Actual = fmt.Sprintf("%.3f%%", rate)
			if rate < th.MinSuccessRate {
				log.Debugf("Check Failed - %s: want[>=%.1f] got[%f]", CheckID004, th.MinSuccessRate, rate)
				return res
			}
			res.Name = CheckResultNamePass
			return res
		},
	})
	checkSum.Checks = append(checkSum.Checks, &Check{
		ID:          CheckID005,
		Name:        fmt.Sprintf("Line coverage must be >= %.1f%%", th.MinLineCoverage),
		Description: "Merged line coverage of the frameworks reporting coverage.",
		Test: func() CheckResult {
			res := CheckResult{Name: CheckResultNameSkip, Target: fmt.Sprintf(">=%.1f%%", th.MinLineCoverage)}
			if th.MinLineCoverage <= 0 {
				res.Message = "Coverage threshold is not set."
				return res
			}
			if re.Unified.Coverage == nil {
				res.Message = "No framework reported coverage."
				return res
			}
			res.Actual = fmt.Sprintf("%.2f%%", re.Unified.Coverage.Lines)
			res.Name = CheckResultNamePass
			if re.Unified.Coverage.Lines < th.MinLineCoverage {
				res.Name = CheckResultNameFail
			}
			return res
		},
	})
	checkSum.Checks = append(checkSum.Checks, &Check{
		ID:          CheckID006,
		Name:        fmt.Sprintf("Load test error rate must be <= %.1f%%", th.MaxErrorRate),
		Description: "Highest error rate among the performance reports.",
		Test: func() CheckResult {
			res := CheckResult{Name: CheckResultNameSkip, Target: fmt.Sprintf("<=%.1f%%", th.MaxErrorRate)}
			if re.Unified.Performance == nil {
				res.Message = "No performance report."
				return res
			}
			rate := re.Unified.Performance.ErrorRatePercent
			res.Actual = fmt.Sprintf("%.2f%%", rate)
			res.Name = CheckResultNamePass
			if rate > th.MaxErrorRate {
				log.Debugf("Check Failed - %s: want[<=%.1f] got[%f]", CheckID006, th.MaxErrorRate, rate)
				res.Name = CheckResultNameFail
			}
			return res
		},
	})

	return checkSum
}

func newSLOOutput(check *Check) *SLOOutput {
	return &SLOOutput{
		ID:        check.ID,
		SLO:       check.Name,
		SLOResult: check.Result.String(),
		SLITarget: check.Result.Target,
		SLIActual: check.Result.Actual,
		Message:   check.Result.Message,
	}
}

// GetCheckResults splits the evaluated checks into passes, failures,
// warnings and skips.
func (csum *CheckSummary) GetCheckResults() ([]*SLOOutput, []*SLOOutput, []*SLOOutput, []*SLOOutput) {
	passes := []*SLOOutput{}
	failures := []*SLOOutput{}
	warnings := []*SLOOutput{}
	skips := []*SLOOutput{}
	for _, check := range csum.Checks {
		switch check.Result.Name {
		case CheckResultNameFail:
			failures = append(failures, newSLOOutput(check))
		case CheckResultNameWarn:
			warnings = append(warnings, newSLOOutput(check))
		case CheckResultNameSkip:
			skips = append(skips, newSLOOutput(check))
		default:
			passes = append(passes, newSLOOutput(check))
		}
	}
	return passes, failures, warnings, skips
}

func (csum *CheckSummary) Run() {
	for _, check := range csum.Checks {
		check.Result = check.Test()
	}
}
