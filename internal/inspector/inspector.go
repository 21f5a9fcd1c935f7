package inspector

import (
	"context"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/Nao-Mk2/done-log-analyzer/internal/parser"
	"github.com/Nao-Mk2/done-log-analyzer/internal/report"
	"github.com/Nao-Mk2/done-log-analyzer/internal/source"
)

// Result is the outcome of analyzing one source. Err is set when the report
// could not be fully built (no record matched the filter); Report still holds
// the tallies in that case.
type Result struct {
	Source string
	Report *report.Report
	Err    error
}

// Inspector analyzes several sources in parallel, one worker per source.
// Sources share nothing, so each run builds its own store and report.
type Inspector struct {
	sources      []source.Source
	effects      []string
	workers      int
	onDiagnostic func(source string, d parser.Diagnostic)
}

// New creates an Inspector for the sources and effect filter.
func New(sources []source.Source, effects []string) *Inspector {
	return &Inspector{sources: sources, effects: effects, workers: 1}
}

// SetWorkers bounds how many sources are analyzed at once.
func (in *Inspector) SetWorkers(n int) {
	if n < 1 {
		n = 1
	}
	in.workers = n
}

// OnDiagnostic registers a handler for rejected lines. It is called from
// worker goroutines and must be safe for concurrent use.
func (in *Inspector) OnDiagnostic(fn func(source string, d parser.Diagnostic)) {
	in.onDiagnostic = fn
}

// Run reads, parses and analyzes every source. Results are in source order.
// A read failure stops the run; missing data only marks that source's Result.
func (in *Inspector) Run(ctx context.Context) ([]Result, error) {
	if len(in.sources) == 0 {
		return nil, errors.New("no sources configured")
	}
	if len(in.effects) == 0 {
		return nil, errors.New("no effects to analyze")
	}

	results := make([]Result, len(in.sources))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(in.workers)
	for i, src := range in.sources {
		i, src := i, src
		g.Go(func() error {
			res, err := in.analyze(ctx, src)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (in *Inspector) analyze(ctx context.Context, src source.Source) (Result, error) {
	name := src.Name()
	lines, err := src.Lines(ctx)
	if err != nil {
		return Result{}, errors.Wrapf(err, "read %s", name)
	}
	var onReject func(parser.Diagnostic)
	if in.onDiagnostic != nil {
		onReject = func(d parser.Diagnostic) { in.onDiagnostic(name, d) }
	}
	records, stats := parser.LoadLines(lines, onReject)
	rep, err := report.Build(name, records, stats, in.effects)
	if rep == nil {
		return Result{}, err
	}
	return Result{Source: name, Report: rep, Err: err}, nil
}
