package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/Nao-Mk2/done-log-analyzer/internal/report"
)

// Options holds CLI options after layering flags, environment and config file.
type Options struct {
	Effects     []string
	Output      string
	Concurrency int
	MessagePath string
	LogLevel    string
	LogFormat   string

	// CloudWatch input
	GroupsCSV     string
	Region        string
	Profile       string
	FilterPattern string
	StartRFC3339  string
	EndRFC3339    string
}

// CollectOptions reads the resolved values out of v.
func CollectOptions(v *viper.Viper) *Options {
	return &Options{
		Effects:       ParseList(v.GetStringSlice("effect")),
		Output:        v.GetString("output"),
		Concurrency:   v.GetInt("concurrency"),
		MessagePath:   v.GetString("message-path"),
		LogLevel:      v.GetString("log-level"),
		LogFormat:     v.GetString("log-format"),
		GroupsCSV:     v.GetString("groups"),
		Region:        v.GetString("region"),
		Profile:       v.GetString("profile"),
		FilterPattern: v.GetString("filter-pattern"),
		StartRFC3339:  v.GetString("start"),
		EndRFC3339:    v.GetString("end"),
	}
}

// Validate checks options shared by every command.
// Returns an error message and exit code; ("", 0) means valid.
func (o *Options) Validate() (string, int) {
	if _, err := report.ParseFormat(o.Output); err != nil {
		return "error: " + err.Error(), exitUsage
	}
	if o.Concurrency < 0 {
		return fmt.Sprintf("error: --concurrency must not be negative, got %d", o.Concurrency), exitUsage
	}
	return "", 0
}

// ValidateEffects requires at least one effect to filter on.
func (o *Options) ValidateEffects() (string, int) {
	if len(o.Effects) == 0 {
		return "error: at least one --effect is required", exitUsage
	}
	return "", 0
}

// ValidateCloudWatch checks the CloudWatch input options.
func (o *Options) ValidateCloudWatch() (string, int) {
	if len(ParseGroupsCSV(o.GroupsCSV)) == 0 {
		return "error: no log groups provided (use --groups or LOG_GROUP_NAMES)", exitUsage
	}
	return "", 0
}

// ParseGroupsCSV splits a comma-separated list, dropping blank entries.
func ParseGroupsCSV(csv string) []string {
	var out []string
	for _, part := range strings.Split(csv, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// ParseList flattens values that may themselves be comma-separated, as
// happens when a list arrives through an environment variable.
func ParseList(values []string) []string {
	var out []string
	for _, v := range values {
		out = append(out, ParseGroupsCSV(v)...)
	}
	return out
}

// defaultWindow is how far back a CloudWatch search reaches when only one
// bound, or none, is given.
const defaultWindow = 24 * time.Hour

// ErrStartAfterEnd is returned for a window whose start is after its end.
var ErrStartAfterEnd = errors.New("start is after end")

// ResolveTimeWindow turns optional RFC3339 bounds into a search window.
// A missing end is now; a missing start is defaultWindow before the end.
func ResolveTimeWindow(startStr, endStr string, now time.Time) (start, end time.Time, err error) {
	end = now
	if endStr != "" {
		if end, err = time.Parse(time.RFC3339, endStr); err != nil {
			return time.Time{}, time.Time{}, errors.Wrapf(err, "parse --end %q", endStr)
		}
	}
	start = end.Add(-defaultWindow)
	if startStr != "" {
		if start, err = time.Parse(time.RFC3339, startStr); err != nil {
			return time.Time{}, time.Time{}, errors.Wrapf(err, "parse --start %q", startStr)
		}
	}
	if start.After(end) {
		return time.Time{}, time.Time{}, errors.WithStack(ErrStartAfterEnd)
	}
	return start, end, nil
}
