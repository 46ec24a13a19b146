package unified

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k8s.io/utils/ptr"

	"github.com/redhat-openshift-ecosystem/unified-test-report/pkg/api"
)

var ts = time.Date(2024, 5, 29, 10, 0, 0, 0, time.UTC)

func record(framework string, s api.Summary) api.ResultRecord {
	rec := api.NewEmptyResult(framework, api.TestTypeUnit)
	rec.Summary = s
	return rec
}

func withCoverage(framework string, statements float64) api.ResultRecord {
	rec := api.NewEmptyResult(framework, api.TestTypeUnit)
	rec.Coverage = &api.CoverageStats{Statements: statements, Branches: statements, Functions: statements, Lines: statements}
	return rec
}

func TestBuildEmpty(t *testing.T) {
	report := BuildAt(ts, nil)
	assert.Equal(t, ts, report.Timestamp)
	assert.Equal(t, api.Summary{}, report.Summary)
	assert.NotNil(t, report.Frameworks)
	assert.Empty(t, report.Frameworks)
	assert.Nil(t, report.Performance)
	assert.Nil(t, report.Coverage)
}

func TestBuildSingleRecord(t *testing.T) {
	rec := record("vitest", api.Summary{Total: 5, Passed: 3, Failed: 1, Skipped: 1, DurationMs: 1234.5})
	report := BuildAt(ts, []api.ResultRecord{rec})
	assert.Equal(t, rec.Summary, report.Summary)
	assert.Equal(t, rec, report.Frameworks["vitest"])
	assert.Nil(t, report.Performance)
	assert.Nil(t, report.Coverage)
}

func TestBuildIsAdditive(t *testing.T) {
	tests := []struct {
		name string
		a, b api.Summary
	}{
		{
			name: "disjoint counters",
			a:    api.Summary{Total: 10, Passed: 8, Failed: 1, Skipped: 1, DurationMs: 500},
			b:    api.Summary{Total: 3, Passed: 0, Failed: 3, Skipped: 0, DurationMs: 1500.25},
		},
		{
			name: "total not reconciled",
			a:    api.Summary{Total: 7, Passed: 1},
			b:    api.Summary{Total: 0, Passed: 4, Failed: 2},
		},
		{
			name: "zero records",
			a:    api.Summary{},
			b:    api.Summary{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := BuildAt(ts, []api.ResultRecord{record("ava", tt.a), record("tap", tt.b)})
			assert.Equal(t, tt.a.Total+tt.b.Total, report.Summary.Total)
			assert.Equal(t, tt.a.Passed+tt.b.Passed, report.Summary.Passed)
			assert.Equal(t, tt.a.Failed+tt.b.Failed, report.Summary.Failed)
			assert.Equal(t, tt.a.Skipped+tt.b.Skipped, report.Summary.Skipped)
			assert.Equal(t, tt.a.DurationMs+tt.b.DurationMs, report.Summary.DurationMs)
		})
	}
}

func TestBuildFrameworkCollisionLastWins(t *testing.T) {
	first := record("jest", api.Summary{Total: 1, Passed: 1})
	last := record("jest", api.Summary{Total: 2, Failed: 2})
	report := BuildAt(ts, []api.ResultRecord{first, last})
	require.Len(t, report.Frameworks, 1)
	assert.Equal(t, last, report.Frameworks["jest"])
	assert.Equal(t, 3, report.Summary.Total)
}

func TestBuildCoverageIsOrderDependent(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   float64
	}{
		{name: "single", values: []float64{80}, want: 40},
		{name: "ten then twenty", values: []float64{10, 20}, want: 12.5},
		{name: "twenty then ten", values: []float64{20, 10}, want: 10},
		{name: "three samples", values: []float64{40, 40, 40}, want: 35},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records := []api.ResultRecord{}
			for i, v := range tt.values {
				records = append(records, withCoverage(string(rune('a'+i)), v))
			}
			report := BuildAt(ts, records)
			require.NotNil(t, report.Coverage)
			assert.Equal(t, &api.CoverageStats{Statements: tt.want, Branches: tt.want, Functions: tt.want, Lines: tt.want}, report.Coverage)
		})
	}

	forward := BuildAt(ts, []api.ResultRecord{withCoverage("a", 10), withCoverage("b", 20)})
	backward := BuildAt(ts, []api.ResultRecord{withCoverage("b", 20), withCoverage("a", 10)})
	assert.NotEqual(t, forward.Coverage.Statements, backward.Coverage.Statements)
}

func TestBuildCoverageSkipsRecordsWithout(t *testing.T) {
	report := BuildAt(ts, []api.ResultRecord{
		withCoverage("a", 10),
		record("b", api.Summary{Total: 1}),
		withCoverage("c", 20),
	})
	require.NotNil(t, report.Coverage)
	assert.Equal(t, 12.5, report.Coverage.Lines)
}

func TestBuildPerformance(t *testing.T) {
	k6 := api.NewEmptyResult("k6", api.TestTypePerformance)
	k6.Performance = &api.PerformanceStats{
		AvgResponseTimeMs: 120,
		MaxResponseTimeMs: 900,
		RequestsPerSecond: 20,
		TotalRequests:     200,
		ErrorRatePercent:  0.5,
	}
	gatling := api.NewEmptyResult("gatling", api.TestTypePerformance)
	gatling.Performance = &api.PerformanceStats{
		AvgResponseTimeMs: 340,
		MaxResponseTimeMs: 600,
		RequestsPerSecond: 16.5,
		TotalRequests:     1000,
		ErrorRatePercent:  1,
	}
	unit := record("vitest", api.Summary{Total: 1, Passed: 1})

	report := BuildAt(ts, []api.ResultRecord{unit, k6, gatling})
	assert.Equal(t, &api.PerformanceStats{
		AvgResponseTimeMs: 340,
		MaxResponseTimeMs: 900,
		RequestsPerSecond: 36.5,
		TotalRequests:     1200,
		ErrorRatePercent:  1,
	}, report.Performance)
	assert.Nil(t, report.Coverage)
}

func TestBuildTreatsMalformedNumbersAsZero(t *testing.T) {
	bad := record("broken", api.Summary{Total: -3, Passed: -1, DurationMs: math.NaN()})
	bad.Performance = &api.PerformanceStats{
		AvgResponseTimeMs: math.Inf(1),
		MaxResponseTimeMs: -5,
		RequestsPerSecond: math.NaN(),
		TotalRequests:     -10,
		ErrorRatePercent:  math.Inf(-1),
	}
	bad.Coverage = &api.CoverageStats{Statements: math.NaN(), Lines: 50}
	good := record("tap", api.Summary{Total: 2, Passed: 2, DurationMs: 10})

	var report api.UnifiedReport
	require.NotPanics(t, func() { report = BuildAt(ts, []api.ResultRecord{bad, good}) })
	assert.Equal(t, api.Summary{Total: 2, Passed: 2, DurationMs: 10}, report.Summary)
	assert.Equal(t, &api.PerformanceStats{}, report.Performance)
	assert.Equal(t, &api.CoverageStats{Lines: 25}, report.Coverage)
}

func TestBuildDoesNotAliasInputs(t *testing.T) {
	rec := record("vitest", api.Summary{Total: 1, Failed: 1})
	rec.Details = []api.CaseResult{{Name: "a", Status: api.CaseStatusFailed, FailureMessages: []string{"boom"}}}
	rec.Coverage = ptr.To(api.CoverageStats{Lines: 90})

	report := BuildAt(ts, []api.ResultRecord{rec})
	rec.Details[0].FailureMessages[0] = "changed"
	rec.Coverage.Lines = 0

	got := report.Frameworks["vitest"]
	assert.Equal(t, "boom", got.Details[0].FailureMessages[0])
	assert.Equal(t, 90.0, got.Coverage.Lines)
}

func TestBuildStampsUTC(t *testing.T) {
	report := Build([]api.ResultRecord{record("tap", api.Summary{})})
	assert.Equal(t, time.UTC, report.Timestamp.Location())
}
