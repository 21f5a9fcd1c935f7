package report

import (
	"github.com/pkg/errors"

	"github.com/Nao-Mk2/done-log-analyzer/internal/analysis"
	"github.com/Nao-Mk2/done-log-analyzer/internal/model"
	"github.com/Nao-Mk2/done-log-analyzer/internal/parser"
	"github.com/Nao-Mk2/done-log-analyzer/internal/store"
)

// Section names used as keys in Report.Skipped.
const (
	SectionArrival   = "arrival"
	SectionService   = "service"
	SectionQueuing   = "queuing"
	SectionStages    = "stages"
	SectionBandwidth = "bandwidth"
)

// Report is everything computed for one input and one effect filter.
type Report struct {
	Source     string        `json:"source" yaml:"source"`
	Input      parser.Stats  `json:"input" yaml:"input"`
	Categories []store.Count `json:"categories" yaml:"categories"`
	Effects    []store.Count `json:"effects" yaml:"effects"`
	Filter     []string      `json:"filter" yaml:"filter"`
	Matched    int           `json:"matched" yaml:"matched"`

	Arrival   *analysis.Arrival    `json:"arrival,omitempty" yaml:"arrival,omitempty"`
	Service   *analysis.Service    `json:"service,omitempty" yaml:"service,omitempty"` // seconds
	Queuing   *analysis.Queuing    `json:"queuing,omitempty" yaml:"queuing,omitempty"` // milliseconds
	Stages    *analysis.Stages     `json:"stages,omitempty" yaml:"stages,omitempty"`
	Bandwidth *analysis.Throughput `json:"bandwidth,omitempty" yaml:"bandwidth,omitempty"`

	// Skipped maps a section to the reason it could not be computed.
	Skipped map[string]string `json:"skipped,omitempty" yaml:"skipped,omitempty"`
}

// Build tallies all records, narrows them to the given effects and runs every
// analyzer. When no record matches the filter, the report carries only the
// tallies and an *analysis.InsufficientDataError is returned with it.
// Sections that lack data for their own minimum are listed in Skipped.
func Build(source string, all *store.Store, input parser.Stats, effects []string) (*Report, error) {
	r := &Report{
		Source:     source,
		Input:      input,
		Categories: all.Tally(store.Category),
		Effects:    all.Tally(store.Effect),
		Filter:     effects,
	}
	filtered := all.Filter(effects...)
	r.Matched = filtered.Len()
	if r.Matched == 0 {
		return r, &analysis.InsufficientDataError{Analysis: "effect filter", Need: 1, Got: 0}
	}

	records := filtered.Records()
	service := filtered.Durations(model.StageTotal)
	for i := range service {
		service[i] /= 1000
	}

	var err error
	steps := []struct {
		section string
		run     func() error
	}{
		{SectionArrival, func() error { r.Arrival, err = analysis.ArrivalProcess(filtered.Timestamps()); return err }},
		{SectionService, func() error { r.Service, err = analysis.ServiceProcess(service); return err }},
		{SectionQueuing, func() error { r.Queuing, err = analysis.QueuingTime(filtered.Durations(model.StageWait)); return err }},
		{SectionStages, func() error { r.Stages, err = analysis.StageBreakdown(records); return err }},
		{SectionBandwidth, func() error { r.Bandwidth, err = analysis.Bandwidth(records); return err }},
	}
	for _, s := range steps {
		if err := s.run(); err != nil {
			if !errors.Is(err, analysis.ErrInsufficientData) {
				return nil, errors.Wrapf(err, "%s analysis", s.section)
			}
			if r.Skipped == nil {
				r.Skipped = make(map[string]string)
			}
			r.Skipped[s.section] = err.Error()
		}
	}
	return r, nil
}
