package dialect

import (
	"testing"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redhat-openshift-ecosystem/unified-test-report/internal/catalog"
	"github.com/redhat-openshift-ecosystem/unified-test-report/pkg/api"
)

var fixedNow = time.Date(2024, 5, 29, 10, 0, 0, 0, time.UTC)

func newTestRegistry(t *testing.T) (*Registry, *test.Hook) {
	t.Helper()
	logger, hook := test.NewNullLogger()
	logger.SetLevel(log.DebugLevel)
	r := NewDefaultRegistry(
		WithLogger(logger),
		WithCatalog(catalog.Default()),
		WithClock(func() time.Time { return fixedNow }),
	)
	return r, hook
}

type panicAdapter struct{}

func (panicAdapter) Name() string { return "boom" }
func (panicAdapter) Parse([]byte, api.TestType) (api.ResultRecord, error) {
	panic("unexpected layout")
}

func TestRegistryNames(t *testing.T) {
	r, _ := newTestRegistry(t)
	assert.Equal(t, []string{
		"ava", "cypress", "gatling", "jest", "jmeter", "junit", "k6", "karate",
		"playwright", "restassured", "selenium", "supertest", "tap", "vitest",
	}, r.Names())
}

func TestRegistryRegister(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(&tapAdapter{}))

	err := r.Register(&tapAdapter{})
	assert.EqualError(t, err, "dialect tap already registered")

	err = r.Register(NewFlatAdapter("  ", "tests"))
	assert.Error(t, err)

	a, ok := r.Lookup(" TAP ")
	require.True(t, ok)
	assert.Equal(t, "tap", a.Name())

	_, ok = r.Lookup("mocha")
	assert.False(t, ok)

	assert.Panics(t, func() { r.MustRegister(&tapAdapter{}) })
}

func TestRegistryParseNeverFails(t *testing.T) {
	r, _ := newTestRegistry(t)
	contents := []string{"", "   ", "null", "{", "not json at all", "[]", "42", `"text"`, "<xml", "{}"}
	for _, name := range r.Names() {
		for _, content := range contents {
			for _, tt := range []api.TestType{api.TestTypeUnit, api.TestTypePerformance} {
				raw := api.RawReport{Framework: name, TestType: tt, Content: []byte(content)}
				var rec api.ResultRecord
				require.NotPanics(t, func() { rec = r.Parse(raw) }, "%s %q", name, content)

				assert.Equal(t, name, rec.Framework)
				assert.Equal(t, tt, rec.TestType)
				assert.Equal(t, fixedNow, rec.Timestamp)
				assert.NotNil(t, rec.Details)
				assert.Nil(t, rec.Coverage)
				if content != "{}" {
					want := api.NewEmptyResult(name, tt)
					want.Timestamp = fixedNow
					assert.Equal(t, want, rec, "%s %q", name, content)
				}
			}
		}
	}
}

func TestRegistryParseWithDiagnostic(t *testing.T) {
	tests := []struct {
		name      string
		raw       api.RawReport
		wantKind  DiagnosticKind
		wantErr   error
		wantTotal int
		wantLevel log.Level
	}{
		{
			name:      "valid report",
			raw:       api.RawReport{Framework: "karate", TestType: api.TestTypeAPI, Content: []byte(`{"total":1,"passed":1,"failed":0,"scenarios":[]}`)},
			wantTotal: 1,
		},
		{
			name:      "unknown framework",
			raw:       api.RawReport{Framework: "mocha", TestType: api.TestTypeUnit, Content: []byte(`{}`), SourcePath: "out/mocha.json"},
			wantKind:  DiagnosticUnsupported,
			wantErr:   ErrUnsupportedDialect,
			wantLevel: log.WarnLevel,
		},
		{
			name:      "invalid JSON",
			raw:       api.RawReport{Framework: "vitest", TestType: api.TestTypeUnit, Content: []byte(`{"numTotalTests":`)},
			wantKind:  DiagnosticDecode,
			wantErr:   ErrDecode,
			wantLevel: log.WarnLevel,
		},
		{
			name:      "partial data keeps values",
			raw:       api.RawReport{Framework: "selenium", TestType: api.TestTypeE2E, Content: []byte(`{"total":7}`)},
			wantKind:  DiagnosticPartialData,
			wantTotal: 7,
			wantLevel: log.DebugLevel,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, hook := newTestRegistry(t)
			rec, diag := r.ParseWithDiagnostic(tt.raw)
			assert.Equal(t, tt.wantTotal, rec.Summary.Total)
			assert.Equal(t, fixedNow, rec.Timestamp)
			if tt.wantKind == "" {
				assert.Nil(t, diag)
				return
			}
			require.NotNil(t, diag)
			assert.Equal(t, tt.wantKind, diag.Kind)
			assert.Equal(t, tt.raw.Framework, diag.Framework)
			assert.Equal(t, tt.raw.SourcePath, diag.SourcePath)
			assert.NotEmpty(t, diag.Message())
			if tt.wantErr != nil {
				assert.True(t, errors.Is(diag, tt.wantErr))
			}
			entry := hook.LastEntry()
			require.NotNil(t, entry)
			assert.Equal(t, tt.wantLevel, entry.Level)
			assert.Equal(t, tt.wantKind, entry.Data["kind"])
		})
	}
}

func TestRegistryRecoversAdapterPanic(t *testing.T) {
	r, hook := newTestRegistry(t)
	r.MustRegister(panicAdapter{})

	rec, diag := r.ParseWithDiagnostic(api.RawReport{Framework: "boom", TestType: api.TestTypeUnit, Content: []byte("x")})
	want := api.NewEmptyResult("boom", api.TestTypeUnit)
	want.Timestamp = fixedNow
	assert.Equal(t, want, rec)
	require.NotNil(t, diag)
	assert.Equal(t, DiagnosticDecode, diag.Kind)
	assert.Contains(t, diag.Error(), "unexpected layout")
	assert.Equal(t, log.WarnLevel, hook.LastEntry().Level)
}

func TestRegistryCatalogMismatchIsNotRejected(t *testing.T) {
	r, hook := newTestRegistry(t)
	content := loadFixture(t, "karate.json")

	rec, diag := r.ParseWithDiagnostic(api.RawReport{Framework: "karate", TestType: api.TestTypeE2E, Content: content})
	assert.Nil(t, diag)
	assert.Equal(t, 2, rec.Summary.Total)
	assert.Equal(t, api.TestTypeE2E, rec.TestType)

	found := false
	for _, e := range hook.AllEntries() {
		if e.Level == log.DebugLevel && e.Message == "framework is not listed in the catalog for this test type" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestRegistryParseIsIdempotent(t *testing.T) {
	clock := fixedNow
	logger, _ := test.NewNullLogger()
	r := NewDefaultRegistry(WithLogger(logger), WithClock(func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}))

	fixtures := map[string]string{
		"vitest":     "vitest.json",
		"ava":        "ava.json",
		"tap":        "tap.txt",
		"playwright": "playwright.json",
		"cypress":    "cypress.json",
		"junit":      "junit.xml",
		"k6":         "k6-summary-export.json",
		"jmeter":     "jmeter.jtl",
		"gatling":    "gatling-stats.json",
	}
	for framework, fixture := range fixtures {
		t.Run(framework, func(t *testing.T) {
			raw := api.RawReport{Framework: framework, TestType: api.TestTypeUnit, Content: loadFixture(t, fixture)}
			once := r.Parse(raw)
			again := r.Parse(raw)
			assert.NotEqual(t, once.Timestamp, again.Timestamp)

			again.Timestamp = once.Timestamp
			assert.Equal(t, once, again)
		})
	}
}

func TestRegistryStampsUTC(t *testing.T) {
	logger, _ := test.NewNullLogger()
	r := NewDefaultRegistry(WithLogger(logger))
	rec := r.Parse(api.RawReport{Framework: "tap", TestType: api.TestTypeUnit, Content: []byte("ok 1\n")})
	assert.Equal(t, time.UTC, rec.Timestamp.Location())
	assert.False(t, rec.Timestamp.IsZero())
}
