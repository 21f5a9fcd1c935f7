package cmd

import (
	"context"
	"io"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/Nao-Mk2/done-log-analyzer/internal/inspector"
	"github.com/Nao-Mk2/done-log-analyzer/internal/logging"
	"github.com/Nao-Mk2/done-log-analyzer/internal/parser"
	"github.com/Nao-Mk2/done-log-analyzer/internal/report"
	"github.com/Nao-Mk2/done-log-analyzer/internal/source"
)

const defaultConcurrency = 4

func addAnalysisFlags(fs *pflag.FlagSet) {
	fs.StringSliceP("effect", "e", nil, "Effect to analyze (repeatable or comma-separated)")
	fs.Int("concurrency", defaultConcurrency, "Maximum inputs analyzed in parallel")
}

func newLogger(cmd *cobra.Command, opts *Options) (*log.Logger, error) {
	logger, err := logging.New(cmd.ErrOrStderr(), opts.LogLevel, opts.LogFormat)
	if err != nil {
		return nil, &exitError{code: exitUsage, err: err}
	}
	return logger, nil
}

// withExtractor wraps every source when --message-path is set.
func withExtractor(opts *Options, sources []source.Source) ([]source.Source, error) {
	if opts.MessagePath == "" {
		return sources, nil
	}
	ex, err := source.NewMessageExtractor(opts.MessagePath)
	if err != nil {
		return nil, &exitError{code: exitUsage, err: err}
	}
	out := make([]source.Source, len(sources))
	for i, s := range sources {
		out[i] = source.Extracted{Source: s, Extractor: ex}
	}
	return out, nil
}

func logDiagnostic(logger *log.Logger) func(string, parser.Diagnostic) {
	return func(src string, d parser.Diagnostic) {
		logger.WithFields(log.Fields{"source": src, "line": d.Line}).
			WithError(d.Err).
			Warn(d.String())
	}
}

// runInspector analyzes the sources and writes one report per source.
// It fails with exitNoData when no source had a record for the effects.
func runInspector(ctx context.Context, out io.Writer, logger *log.Logger, opts *Options, sources []source.Source) error {
	sources, err := withExtractor(opts, sources)
	if err != nil {
		return err
	}
	format, err := report.ParseFormat(opts.Output)
	if err != nil {
		return &exitError{code: exitUsage, err: err}
	}

	insp := inspector.New(sources, opts.Effects)
	insp.SetWorkers(min(max(opts.Concurrency, 1), len(sources)))
	insp.OnDiagnostic(logDiagnostic(logger))
	results, err := insp.Run(ctx)
	if err != nil {
		return err
	}

	reports := make([]*report.Report, 0, len(results))
	empty := 0
	for _, res := range results {
		entry := logger.WithField("source", res.Source)
		entry.WithFields(log.Fields{
			"lines":    res.Report.Input.Lines,
			"parsed":   res.Report.Input.Parsed,
			"rejected": res.Report.Input.Rejected,
			"matched":  res.Report.Matched,
		}).Info("analyzed")
		if res.Err != nil {
			empty++
			entry.WithError(res.Err).Warn("no records matched the effect filter")
		}
		for section, reason := range res.Report.Skipped {
			entry.WithField("section", section).Warn(reason)
		}
		reports = append(reports, res.Report)
	}

	if err := report.Write(out, format, reports...); err != nil {
		return errors.Wrap(err, "write report")
	}
	if empty == len(results) {
		return &exitError{code: exitNoData, err: errors.Errorf("no records for effects %v", opts.Effects)}
	}
	return nil
}
