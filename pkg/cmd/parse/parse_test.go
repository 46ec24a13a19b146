package parse

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redhat-openshift-ecosystem/unified-test-report/internal/ingest"
	"github.com/redhat-openshift-ecosystem/unified-test-report/pkg"
	"github.com/redhat-openshift-ecosystem/unified-test-report/pkg/api"
)

func TestParseRun(t *testing.T) {
	dir := t.TempDir()
	tap := filepath.Join(dir, "tap.txt")
	require.NoError(t, os.WriteFile(tap, []byte("ok 1 - adds\nok 2 - subtracts\nnot ok 3 - divides\n"), 0o644))

	tests := []struct {
		name        string
		input       parseInput
		src         ingest.Source
		wantSummary api.Summary
		wantView    bool
		wantDiag    bool
		wantErr     bool
	}{
		{
			name:        "record only",
			src:         ingest.Source{Framework: "tap", TestType: api.TestTypeUnit, Path: tap},
			wantSummary: api.Summary{Total: 3, Passed: 2, Failed: 1},
		},
		{
			name:        "with view",
			input:       parseInput{display: true},
			src:         ingest.Source{Framework: "tap", TestType: api.TestTypeUnit, Path: tap},
			wantSummary: api.Summary{Total: 3, Passed: 2, Failed: 1},
			wantView:    true,
		},
		{
			name:     "unknown framework",
			src:      ingest.Source{Framework: "mocha", TestType: api.TestTypeUnit, Path: tap},
			wantDiag: true,
		},
		{
			name:    "strict catalog",
			input:   parseInput{strict: true},
			src:     ingest.Source{Framework: "tap", TestType: api.TestTypePerformance, Path: tap},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := &bytes.Buffer{}
			err := parseRun(&pkg.Config{}, &tt.input, tt.src, out)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)

			got := output{}
			require.NoError(t, json.Unmarshal(out.Bytes(), &got))
			assert.Equal(t, tt.wantSummary, got.Record.Summary)
			assert.Equal(t, tt.wantView, got.View != nil)
			assert.Equal(t, tt.wantDiag, got.Diagnostic != "")
		})
	}
}
