package ingest

import (
	"context"
	"runtime"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/redhat-openshift-ecosystem/unified-test-report/internal/dialect"
	"github.com/redhat-openshift-ecosystem/unified-test-report/internal/metrics"
	"github.com/redhat-openshift-ecosystem/unified-test-report/internal/unified"
	"github.com/redhat-openshift-ecosystem/unified-test-report/pkg/api"
)

// Result is the outcome of a batch.
type Result struct {
	Records     []api.ResultRecord    `json:"records"`
	Diagnostics []*dialect.Diagnostic `json:"diagnostics"`
	Unified     api.UnifiedReport     `json:"unified"`
	Timers      *metrics.Timers       `json:"-"`
}

// ParseAll parses raws concurrently with at most workers goroutines. Record i
// always corresponds to raws[i]. Diagnostics are returned in input order.
// Only context cancellation makes it fail.
func ParseAll(ctx context.Context, reg *dialect.Registry, raws []api.RawReport, workers int) ([]api.ResultRecord, []*dialect.Diagnostic, error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	records := make([]api.ResultRecord, len(raws))
	diags := make([]*dialect.Diagnostic, len(raws))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range raws {
		if err := gctx.Err(); err != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			records[i], diags[i] = reg.ParseWithDiagnostic(raws[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, errors.Wrap(err, "parsing reports")
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, errors.Wrap(err, "parsing reports")
	}

	found := []*dialect.Diagnostic{}
	for _, d := range diags {
		if d != nil {
			found = append(found, d)
		}
	}
	return records, found, nil
}

// Run reads every source, parses the reports and builds the unified report.
// Records keep the order of sources.
func Run(ctx context.Context, reg *dialect.Registry, sources []Source, workers int) (*Result, error) {
	timers := metrics.NewTimers()
	timers.Add("total")

	timers.Set("read")
	raws := make([]api.RawReport, 0, len(sources))
	for _, src := range sources {
		raw, err := ReadRaw(src)
		if err != nil {
			return nil, err
		}
		log.WithFields(log.Fields{
			"framework": src.Framework,
			"testType":  src.TestType,
			"bytes":     len(raw.Content),
		}).Debugf("loaded report %s", src.Path)
		raws = append(raws, raw)
	}

	timers.Set("parse")
	records, diags, err := ParseAll(ctx, reg, raws, workers)
	if err != nil {
		return nil, err
	}

	timers.Set("build")
	report := unified.Build(records)
	timers.Done()

	return &Result{
		Records:     records,
		Diagnostics: diags,
		Unified:     report,
		Timers:      timers,
	}, nil
}
