package dialect

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/redhat-openshift-ecosystem/unified-test-report/internal/catalog"
	"github.com/redhat-openshift-ecosystem/unified-test-report/pkg/api"
)

// Registry maps framework names to adapters.
type Registry struct {
	mu       sync.RWMutex
	adapters map[string]Adapter

	catalog *catalog.Catalog
	logger  log.FieldLogger
	now     func() time.Time
}

type Option func(*Registry)

// WithLogger sets the logger receiving parse diagnostics.
func WithLogger(l log.FieldLogger) Option {
	return func(r *Registry) { r.logger = l }
}

// WithCatalog sets the catalog used to flag frameworks declared for a test
// type they are not listed under. Parsing is not rejected.
func WithCatalog(c *catalog.Catalog) Option {
	return func(r *Registry) { r.catalog = c }
}

// WithClock overrides the clock used to stamp records.
func WithClock(now func() time.Time) Option {
	return func(r *Registry) { r.now = now }
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		adapters: make(map[string]Adapter),
		logger:   log.StandardLogger(),
		now:      func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// NewDefaultRegistry creates a registry with every built-in dialect.
func NewDefaultRegistry(opts ...Option) *Registry {
	r := NewRegistry(opts...)
	for _, a := range Builtins() {
		r.MustRegister(a)
	}
	return r
}

// Register adds an adapter. Names are case-insensitive and must be unique.
func (r *Registry) Register(a Adapter) error {
	name := normalizeName(a.Name())
	if name == "" {
		return errors.New("adapter name must not be empty")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.adapters[name]; exists {
		return errors.Errorf("dialect %s already registered", name)
	}
	r.adapters[name] = a
	return nil
}

// MustRegister is Register that panics on error, for init-time wiring.
func (r *Registry) MustRegister(a Adapter) {
	if err := r.Register(a); err != nil {
		panic(err)
	}
}

// Lookup returns the adapter registered for name.
func (r *Registry) Lookup(name string) (Adapter, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.adapters[normalizeName(name)]
	return a, ok
}

// Names returns the registered framework names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.adapters))
	for name := range r.adapters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Parse converts raw into a ResultRecord. It never fails: problems degrade to
// the empty result for raw's framework and test type.
func (r *Registry) Parse(raw api.RawReport) api.ResultRecord {
	rec, _ := r.ParseWithDiagnostic(raw)
	return rec
}

// ParseWithDiagnostic is Parse, also returning a Diagnostic when the record
// is empty or partial because of a problem with raw.
func (r *Registry) ParseWithDiagnostic(raw api.RawReport) (rec api.ResultRecord, diag *Diagnostic) {
	defer func() {
		if p := recover(); p != nil {
			rec = r.emptyResult(raw)
			diag = r.diagnose(raw, DiagnosticDecode, errors.Wrapf(ErrDecode, "adapter panic: %v", p))
		}
	}()

	if r.catalog != nil && !r.catalog.Supports(raw.TestType, raw.Framework) {
		r.logger.WithFields(log.Fields{
			"framework": raw.Framework,
			"testType":  raw.TestType,
		}).Debug("framework is not listed in the catalog for this test type")
	}

	adapter, ok := r.Lookup(raw.Framework)
	if !ok {
		return r.emptyResult(raw), r.diagnose(raw, DiagnosticUnsupported,
			errors.Wrapf(ErrUnsupportedDialect, "framework %q", raw.Framework))
	}

	rec, err := adapter.Parse(raw.Content, raw.TestType)
	if err != nil {
		partial := &PartialDataError{}
		if errors.As(err, &partial) {
			return r.finalize(rec, adapter, raw), r.diagnose(raw, DiagnosticPartialData, err)
		}
		return r.emptyResult(raw), r.diagnose(raw, DiagnosticDecode, err)
	}
	return r.finalize(rec, adapter, raw), nil
}

// finalize stamps the record and guarantees non-nil sequences.
func (r *Registry) finalize(rec api.ResultRecord, a Adapter, raw api.RawReport) api.ResultRecord {
	rec.Framework = a.Name()
	rec.TestType = raw.TestType
	rec.Timestamp = r.now()
	if rec.Details == nil {
		rec.Details = []api.CaseResult{}
	}
	for i := range rec.Details {
		if rec.Details[i].FailureMessages == nil {
			rec.Details[i].FailureMessages = []string{}
		}
		if rec.Details[i].Status == "" {
			rec.Details[i].Status = api.CaseStatusUnknown
		}
	}
	return rec
}

func (r *Registry) emptyResult(raw api.RawReport) api.ResultRecord {
	rec := api.NewEmptyResult(raw.Framework, raw.TestType)
	rec.Timestamp = r.now()
	return rec
}

func (r *Registry) diagnose(raw api.RawReport, kind DiagnosticKind, err error) *Diagnostic {
	d := &Diagnostic{
		Kind:       kind,
		Framework:  raw.Framework,
		TestType:   raw.TestType,
		SourcePath: raw.SourcePath,
		Err:        err,
	}
	entry := r.logger.WithFields(log.Fields{
		"framework": raw.Framework,
		"testType":  raw.TestType,
		"kind":      kind,
	})
	if raw.SourcePath != "" {
		entry = entry.WithField("path", raw.SourcePath)
	}
	if kind == DiagnosticPartialData {
		entry.Debugf("partial report data: %v", err)
	} else {
		entry.Warnf("unable to parse report, using empty result: %v", err)
	}
	return d
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
