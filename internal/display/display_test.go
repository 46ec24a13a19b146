package display

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/redhat-openshift-ecosystem/unified-test-report/internal/unified"
	"github.com/redhat-openshift-ecosystem/unified-test-report/pkg/api"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		ms   float64
		want string
	}{
		{ms: 0, want: "0ms"},
		{ms: 12.5, want: "12.5ms"},
		{ms: 999, want: "999ms"},
		{ms: 1000, want: "1.0s"},
		{ms: 1250, want: "1.3s"},
		{ms: 59999, want: "60.0s"},
		{ms: 60000, want: "1.0m"},
		{ms: 90000, want: "1.5m"},
		{ms: 3600000, want: "60.0m"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatDuration(tt.ms))
		})
	}
}

func TestSuccessRate(t *testing.T) {
	tests := []struct {
		name string
		s    api.Summary
		want string
	}{
		{name: "no tests", s: api.Summary{}, want: "0%"},
		{name: "no tests but passes reported", s: api.Summary{Passed: 3}, want: "0%"},
		{name: "all passed", s: api.Summary{Total: 4, Passed: 4}, want: "100.0%"},
		{name: "two thirds", s: api.Summary{Total: 3, Passed: 2}, want: "66.7%"},
		{name: "none passed", s: api.Summary{Total: 5, Failed: 5}, want: "0.0%"},
		{name: "half up", s: api.Summary{Total: 16, Passed: 1}, want: "6.3%"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SuccessRate(tt.s))
		})
	}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		name string
		rec  api.ResultRecord
		want View
	}{
		{
			name: "failing record",
			rec: api.ResultRecord{
				Framework: "vitest",
				TestType:  api.TestTypeUnit,
				Summary:   api.Summary{Total: 3, Passed: 2, Failed: 1, DurationMs: 1500},
			},
			want: View{
				SuccessRate: "66.7%",
				Status:      StatusFailure,
				Duration:    "1.5s",
				Summary:     "2/3 tests passed",
				Framework:   "vitest",
				TestType:    "unit",
			},
		},
		{
			name: "skipped only is success",
			rec: api.ResultRecord{
				Framework: "cypress",
				TestType:  api.TestTypeE2E,
				Summary:   api.Summary{Total: 2, Skipped: 2, DurationMs: 80},
			},
			want: View{
				SuccessRate: "0.0%",
				Status:      StatusSuccess,
				Duration:    "80ms",
				Summary:     "0/2 tests passed",
				Framework:   "cypress",
				TestType:    "e2e",
			},
		},
		{
			name: "empty result",
			rec:  api.NewEmptyResult("k6", api.TestTypePerformance),
			want: View{
				SuccessRate: "0%",
				Status:      StatusSuccess,
				Duration:    "0ms",
				Summary:     "0/0 tests passed",
				Framework:   "k6",
				TestType:    "performance",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := tt.rec
			assert.Equal(t, tt.want, Format(tt.rec))
			assert.Equal(t, before, tt.rec)
		})
	}
}

func TestFormatUnified(t *testing.T) {
	tap := api.NewEmptyResult("tap", api.TestTypeUnit)
	tap.Summary = api.Summary{Total: 3, Passed: 2, Failed: 1, DurationMs: 40000}
	ava := api.NewEmptyResult("ava", api.TestTypeUnit)
	ava.Summary = api.Summary{Total: 1, Passed: 1, DurationMs: 30000}

	u := unified.Build([]api.ResultRecord{tap, ava})
	assert.Equal(t, View{
		SuccessRate: "75.0%",
		Status:      StatusFailure,
		Duration:    "1.2m",
		Summary:     "3/4 tests passed",
		Framework:   "ava, tap",
		TestType:    TestTypeUnified,
	}, FormatUnified(u))
}
