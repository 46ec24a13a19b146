package api

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCaseStatus(t *testing.T) {
	tests := []struct {
		in   string
		want CaseStatus
	}{
		{"passed", CaseStatusPassed},
		{"PASS", CaseStatusPassed},
		{"failed", CaseStatusFailed},
		{"timedOut", CaseStatusFailed},
		{"broken", CaseStatusFailed},
		{"pending", CaseStatusSkipped},
		{" skipped ", CaseStatusSkipped},
		{"", CaseStatusUnknown},
		{"flaky", CaseStatusUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseCaseStatus(tt.in))
		})
	}
}

func TestNewEmptyResult(t *testing.T) {
	tests := []struct {
		name     string
		testType TestType
		wantPerf bool
	}{
		{name: "unit", testType: TestTypeUnit},
		{name: "e2e", testType: TestTypeE2E},
		{name: "performance", testType: TestTypePerformance, wantPerf: true},
		{name: "unknown type", testType: TestType("smoke")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := NewEmptyResult("k6", tt.testType)
			assert.Equal(t, "k6", rec.Framework)
			assert.Equal(t, tt.testType, rec.TestType)
			assert.Equal(t, Summary{}, rec.Summary)
			assert.NotNil(t, rec.Details)
			assert.Empty(t, rec.Details)
			assert.Nil(t, rec.Coverage)
			if tt.wantPerf {
				require.NotNil(t, rec.Performance)
				assert.Equal(t, PerformanceStats{}, *rec.Performance)
			} else {
				assert.Nil(t, rec.Performance)
			}
		})
	}
}

func TestEmptyResultJSON(t *testing.T) {
	data, err := json.Marshal(NewEmptyResult("vitest", TestTypeUnit))
	require.NoError(t, err)

	got := map[string]interface{}{}
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, []interface{}{}, got["details"])
	assert.Nil(t, got["coverage"])
	assert.Nil(t, got["performance"])
	assert.Contains(t, got, "coverage")
	assert.Contains(t, got, "performance")
}
