package report

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redhat-openshift-ecosystem/unified-test-report/internal/report"
	"github.com/redhat-openshift-ecosystem/unified-test-report/pkg"
	"github.com/redhat-openshift-ecosystem/unified-test-report/pkg/api"
)

const (
	tapReport    = "ok 1 - adds\nnot ok 2 - divides\n# tests 2\n# pass 1\n# fail 1\n"
	karateReport = `{"total":3,"passed":3,"failed":0,"skipped":0,"duration":900,"scenarios":[]}`
)

func writeReports(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tap.txt"), []byte(tapReport), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "karate.json"), []byte(karateReport), 0o644))
	manifest := "reports:\n  - framework: karate\n    testType: api\n    path: karate.json\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "reports.yaml"), []byte(manifest), 0o644))
	return dir
}

func TestLoadSources(t *testing.T) {
	dir := writeReports(t)

	tests := []struct {
		name    string
		input   *Input
		want    []string
		wantErr bool
	}{
		{
			name:  "manifest then inputs",
			input: &Input{manifest: filepath.Join(dir, "reports.yaml"), inputs: []string{"tap:unit:" + filepath.Join(dir, "tap.txt")}},
			want:  []string{filepath.Join(dir, "karate.json"), filepath.Join(dir, "tap.txt")},
		},
		{
			name:    "nothing to process",
			input:   &Input{},
			wantErr: true,
		},
		{
			name:    "invalid input",
			input:   &Input{inputs: []string{"tap"}},
			wantErr: true,
		},
		{
			name:    "missing manifest",
			input:   &Input{manifest: filepath.Join(dir, "absent.yaml")},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := loadSources(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			paths := []string{}
			for _, s := range got {
				paths = append(paths, s.Path)
			}
			assert.Equal(t, tt.want, paths)
		})
	}
}

func TestProcessResultJSON(t *testing.T) {
	dir := writeReports(t)
	input := &Input{
		manifest:   filepath.Join(dir, "reports.yaml"),
		inputs:     []string{"tap:unit:" + filepath.Join(dir, "tap.txt")},
		json:       true,
		thresholds: report.DefaultThresholds(),
	}
	out := &bytes.Buffer{}
	require.NoError(t, processResult(context.Background(), input, &pkg.Config{Workers: 2}, out))

	doc := struct {
		Unified api.UnifiedReport `json:"unified"`
	}{}
	require.NoError(t, json.Unmarshal(out.Bytes(), &doc))
	assert.Equal(t, api.Summary{Total: 5, Passed: 4, Failed: 1, DurationMs: 900}, doc.Unified.Summary)
	assert.Len(t, doc.Unified.Frameworks, 2)
}

func TestProcessResultSaveOnly(t *testing.T) {
	dir := writeReports(t)
	saveTo := filepath.Join(t.TempDir(), "results")
	input := &Input{
		inputs:       []string{"tap:unit:" + filepath.Join(dir, "tap.txt")},
		saveTo:       saveTo,
		saveOnly:     true,
		failOnChecks: true,
		thresholds:   report.DefaultThresholds(),
	}
	out := &bytes.Buffer{}
	err := processResult(context.Background(), input, &pkg.Config{}, out)
	assert.EqualError(t, err, "2 checks failed")
	assert.Empty(t, out.String())

	for _, name := range []string{report.ReportFileNameIndexJSON, report.ReportFileNameHTML, report.ReportFileNameFailuresSheet, filepath.Join("records", "00-tap.json")} {
		assert.FileExists(t, filepath.Join(saveTo, name))
	}
}

func TestProcessResultConsole(t *testing.T) {
	dir := writeReports(t)
	input := &Input{
		manifest:   filepath.Join(dir, "reports.yaml"),
		thresholds: report.DefaultThresholds(),
	}
	out := &bytes.Buffer{}
	require.NoError(t, processResult(context.Background(), input, &pkg.Config{}, out))
	assert.Contains(t, out.String(), "Unified Test Report")
	assert.Contains(t, out.String(), "karate/api")
	assert.Contains(t, out.String(), "3/3 tests passed")
}

func TestProcessResultBadCatalog(t *testing.T) {
	dir := writeReports(t)
	input := &Input{inputs: []string{"tap:unit:" + filepath.Join(dir, "tap.txt")}}
	err := processResult(context.Background(), input, &pkg.Config{CatalogPath: filepath.Join(dir, "absent.yaml")}, &bytes.Buffer{})
	assert.Error(t, err)
}
