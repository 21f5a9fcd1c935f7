package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Nao-Mk2/done-log-analyzer/internal/source"
)

func newAnalyzeCommand(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze FILE... --effect NAME",
		Short: "Analyze Done logs from local files",
		Long: `Analyze one or more Done log files ("-" reads stdin). Gzip and zstd files are
decompressed automatically. Files are analyzed in parallel and reported separately.`,
		Args: usageArgs(cobra.MinimumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := CollectOptions(v)
			if err := checked(opts.Validate()); err != nil {
				return err
			}
			if err := checked(opts.ValidateEffects()); err != nil {
				return err
			}
			logger, err := newLogger(cmd, opts)
			if err != nil {
				return err
			}
			sources := make([]source.Source, len(args))
			for i, path := range args {
				sources[i] = source.File{Path: path}
			}
			return runInspector(cmd.Context(), cmd.OutOrStdout(), logger, opts, sources)
		},
	}
	addAnalysisFlags(cmd.Flags())
	return cmd
}
