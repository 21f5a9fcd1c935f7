package report

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/Nao-Mk2/done-log-analyzer/internal/analysis"
)

// Format is an output encoding for reports.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat validates an output format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatText, FormatJSON, FormatYAML:
		return f, nil
	}
	return "", errors.Errorf("unknown output format %q; expected text, json or yaml", s)
}

var heading = color.New(color.Bold)

// Write encodes the reports to w. JSON and YAML emit a list; text prints the
// console summary of each report in turn.
func Write(w io.Writer, f Format, reports ...*Report) error {
	switch f {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(reports)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(reports); err != nil {
			return err
		}
		return enc.Close()
	case FormatText:
		for _, r := range reports {
			writeText(w, r)
		}
		return nil
	}
	return errors.Errorf("unknown output format %q", f)
}

// WriteOverhead encodes an apply-overhead result.
func WriteOverhead(w io.Writer, f Format, o *analysis.Overhead) error {
	switch f {
	case FormatJSON:
		return json.NewEncoder(w).Encode(o)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		if err := enc.Encode(o); err != nil {
			return err
		}
		return enc.Close()
	case FormatText:
		fmt.Fprintf(w, "AI End: %.3f ms\n", o.AIEnd)
		fmt.Fprintf(w, "Function End: %.3f ms\n", o.FunctionEnd)
		fmt.Fprintf(w, "Overhead: %.3f ms\n", o.Overhead)
		return nil
	}
	return errors.Errorf("unknown output format %q", f)
}

func writeText(w io.Writer, r *Report) {
	heading.Fprintf(w, "== %s ==\n", r.Source)
	fmt.Fprintf(w, "lines: %d | parsed: %d | rejected: %d\n\n", r.Input.Lines, r.Input.Parsed, r.Input.Rejected)

	heading.Fprintln(w, "category")
	for _, c := range r.Categories {
		fmt.Fprintf(w, "%-20s %d\n", c.Name, c.Count)
	}
	fmt.Fprintln(w)
	heading.Fprintln(w, "effect")
	for _, c := range r.Effects {
		fmt.Fprintf(w, "%-20s %d\n", c.Name, c.Count)
	}
	fmt.Fprintln(w)

	label := "[" + strings.Join(r.Filter, ", ") + "]"
	if r.Matched == 0 {
		fmt.Fprintf(w, "%s no matching records\n\n", label)
		return
	}

	if a := r.Arrival; a != nil {
		heading.Fprintf(w, "%s Arrival Process\n", label)
		fmt.Fprintf(w, "EVENTS: %d | MEAN: %v | STD: %v\n\n", a.Events, a.Mean, a.Std)
	}
	if s := r.Service; s != nil {
		heading.Fprintf(w, "%s Service Process\n", label)
		fmt.Fprintf(w, "MEAN: %v | STD: %v | BINS: %d\n\n", s.Mean, s.Std, s.Bins)
	}
	if q := r.Queuing; q != nil {
		heading.Fprintf(w, "%s Queuing Times\n", label)
		ps := make([]string, len(q.Percentiles))
		for i, p := range q.Percentiles {
			ps[i] = fmt.Sprintf("%d%%: %d", p.Rank, p.Value)
		}
		fmt.Fprintf(w, "MEAN: %v | PERCENTILE: %s | BINS: %d\n\n", q.Mean, strings.Join(ps, ", "), q.Bins)
	}
	if st := r.Stages; st != nil {
		heading.Fprintf(w, "%s Processing Times\n", label)
		means := make([]string, len(st))
		for i, s := range st {
			fmt.Fprintf(w, "[%s] MEAN: %8.2f | STD: %8.2f\n", s.Stage.Label(), s.Mean, s.Std)
			means[i] = strconv.FormatFloat(s.Mean, 'f', -1, 64)
		}
		fmt.Fprintln(w, strings.Join(means, ","))
		fmt.Fprintln(w)
	}
	if b := r.Bandwidth; b != nil {
		heading.Fprintf(w, "%s S3 Bandwidth\n", label)
		fmt.Fprintf(w, "[D] MEAN: %8.2f KB/s | STD: %8.2f\n", b.Download.Mean, b.Download.Std)
		fmt.Fprintf(w, "[U] MEAN: %8.2f KB/s | STD: %8.2f\n\n", b.Upload.Mean, b.Upload.Std)
	}
	if len(r.Skipped) > 0 {
		sections := make([]string, 0, len(r.Skipped))
		for s := range r.Skipped {
			sections = append(sections, s)
		}
		sort.Strings(sections)
		heading.Fprintf(w, "%s Skipped\n", label)
		for _, s := range sections {
			fmt.Fprintf(w, "%s: %s\n", s, r.Skipped[s])
		}
		fmt.Fprintln(w)
	}
}
