package cmd

import (
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Nao-Mk2/done-log-analyzer/internal/analysis"
	"github.com/Nao-Mk2/done-log-analyzer/internal/parser"
	"github.com/Nao-Mk2/done-log-analyzer/internal/report"
	"github.com/Nao-Mk2/done-log-analyzer/internal/source"
)

func newOverheadCommand(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "overhead FILE",
		Short: "Compare AI End and Function End timings of the apply stage",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := CollectOptions(v)
			if err := checked(opts.Validate()); err != nil {
				return err
			}
			logger, err := newLogger(cmd, opts)
			if err != nil {
				return err
			}
			format, err := report.ParseFormat(opts.Output)
			if err != nil {
				return &exitError{code: exitUsage, err: err}
			}
			sources, err := withExtractor(opts, []source.Source{source.File{Path: args[0]}})
			if err != nil {
				return err
			}
			src := sources[0]
			lines, err := src.Lines(cmd.Context())
			if err != nil {
				return err
			}

			onReject := logDiagnostic(logger)
			aiEnd, fnEnd, stats := parser.LoadApplyTimings(lines, func(d parser.Diagnostic) { onReject(src.Name(), d) })
			logger.WithFields(log.Fields{
				"source":       src.Name(),
				"parsed":       stats.Parsed,
				"rejected":     stats.Rejected,
				"ai_end":       len(aiEnd),
				"function_end": len(fnEnd),
			}).Info("analyzed")

			o, err := analysis.ApplyOverhead(aiEnd, fnEnd)
			if err != nil {
				if errors.Is(err, analysis.ErrInsufficientData) {
					return &exitError{code: exitNoData, err: err}
				}
				return err
			}
			return report.WriteOverhead(cmd.OutOrStdout(), format, o)
		},
	}
}
