package cmd

import (
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Nao-Mk2/done-log-analyzer/internal/client"
	"github.com/Nao-Mk2/done-log-analyzer/internal/source"
)

func newCloudWatchCommand(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cloudwatch --groups g1,g2 --effect NAME",
		Short: "Analyze Done logs pulled from CloudWatch Logs",
		Long: `Fetch Done lines from one or more CloudWatch Logs groups within a time window
(default: the last 24h) and analyze them as a single input.
Environment: LOG_GROUP_NAMES can provide comma-separated groups; AWS credentials from default sources.`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := CollectOptions(v)
			for _, check := range []func() (string, int){opts.Validate, opts.ValidateEffects, opts.ValidateCloudWatch} {
				if err := checked(check()); err != nil {
					return err
				}
			}
			start, end, err := ResolveTimeWindow(opts.StartRFC3339, opts.EndRFC3339, time.Now())
			if err != nil {
				return usageError("invalid time window: %v", err)
			}
			logger, err := newLogger(cmd, opts)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			cw, err := client.NewCloudWatchClient(ctx, client.NewCloudWatchOptions(client.AuthOptions{
				Region:  opts.Region,
				Profile: opts.Profile,
			})...)
			if err != nil {
				return err
			}
			src := &source.CloudWatch{
				Client:        cw,
				Groups:        ParseGroupsCSV(opts.GroupsCSV),
				FilterPattern: opts.FilterPattern,
				Start:         start,
				End:           end,
				Workers:       opts.Concurrency,
			}
			logger.WithFields(log.Fields{
				"groups": src.Groups,
				"start":  start.UTC().Format(time.RFC3339),
				"end":    end.UTC().Format(time.RFC3339),
			}).Debug("searching cloudwatch logs")
			return runInspector(ctx, cmd.OutOrStdout(), logger, opts, []source.Source{src})
		},
	}
	f := cmd.Flags()
	addAnalysisFlags(f)
	f.String("groups", "", "Comma-separated CloudWatch log group names")
	f.String("region", "", "AWS region (optional; falls back to AWS defaults)")
	f.String("profile", "", "AWS shared config profile (or set AWS_PROFILE)")
	f.String("filter-pattern", source.DefaultFilterPattern, "CloudWatch Logs filter pattern")
	f.String("start", "", "Start time RFC3339 (e.g., 2025-08-30T15:04:05Z)")
	f.String("end", "", "End time RFC3339 (e.g., 2025-08-31T15:04:05Z)")
	return cmd
}
