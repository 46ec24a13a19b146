// Package display derives the human readable fields shown for records and
// unified reports. It never modifies its input.
package display

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/redhat-openshift-ecosystem/unified-test-report/pkg/api"
)

const (
	StatusSuccess = "success"
	StatusFailure = "failure"

	// TestTypeUnified is the test type shown for aggregated reports.
	TestTypeUnified = "unified"
)

// View is the display form of a record or report.
type View struct {
	SuccessRate string `json:"successRate"`
	Status      string `json:"status"`
	Duration    string `json:"duration"`
	Summary     string `json:"summary"`
	Framework   string `json:"framework"`
	TestType    string `json:"testType"`
}

// Format builds the View of a single record.
func Format(r api.ResultRecord) View {
	v := formatSummary(r.Summary)
	v.Framework = r.Framework
	v.TestType = string(r.TestType)
	return v
}

// FormatUnified builds the View of an aggregated report. Framework lists the
// aggregated frameworks in name order.
func FormatUnified(u api.UnifiedReport) View {
	names := make([]string, 0, len(u.Frameworks))
	for name := range u.Frameworks {
		names = append(names, name)
	}
	sort.Strings(names)

	v := formatSummary(u.Summary)
	v.Framework = strings.Join(names, ", ")
	v.TestType = TestTypeUnified
	return v
}

func formatSummary(s api.Summary) View {
	status := StatusSuccess
	if s.Failed > 0 {
		status = StatusFailure
	}
	return View{
		SuccessRate: SuccessRate(s),
		Status:      status,
		Duration:    FormatDuration(s.DurationMs),
		Summary:     fmt.Sprintf("%d/%d tests passed", s.Passed, s.Total),
	}
}

// SuccessRate returns passed/total as a percentage with one decimal, or "0%"
// when there are no tests.
func SuccessRate(s api.Summary) string {
	if s.Total <= 0 {
		return "0%"
	}
	return oneDecimal(float64(s.Passed)/float64(s.Total)*100) + "%"
}

// FormatDuration renders milliseconds as "850ms", "12.3s" or "4.5m".
func FormatDuration(ms float64) string {
	switch {
	case ms < 1000:
		return strconv.FormatFloat(ms, 'f', -1, 64) + "ms"
	case ms < 60000:
		return oneDecimal(ms/1000) + "s"
	}
	return oneDecimal(ms/60000) + "m"
}

// oneDecimal rounds halves up, so 1.25 renders as "1.3".
func oneDecimal(v float64) string {
	return strconv.FormatFloat(math.Floor(v*10+0.5)/10, 'f', 1, 64)
}
