package analysis

import (
	"slices"
	"time"
)

// Arrival describes the arrival process of a set of completion instants.
type Arrival struct {
	Events        int       `json:"events" yaml:"events"`
	Series        []float64 `json:"series" yaml:"series"`                 // seconds since the first event, ascending
	InterArrivals []float64 `json:"inter_arrivals" yaml:"inter_arrivals"` // seconds, len(Series)-1 samples
	MeanStd       `yaml:",inline"`
}

// ArrivalProcess sorts the timestamps, rebases them to the first one and
// computes inter-arrival statistics. At least two timestamps are required.
func ArrivalProcess(timestamps []time.Time) (*Arrival, error) {
	if err := needSamples("arrival process", 2, len(timestamps)); err != nil {
		return nil, err
	}
	sorted := slices.Clone(timestamps)
	slices.SortFunc(sorted, func(a, b time.Time) int { return a.Compare(b) })

	series := make([]float64, len(sorted))
	inter := make([]float64, len(sorted)-1)
	for i := 1; i < len(sorted); i++ {
		series[i] = sorted[i].Sub(sorted[0]).Seconds()
		inter[i-1] = sorted[i].Sub(sorted[i-1]).Seconds()
	}
	return &Arrival{
		Events:        len(sorted),
		Series:        series,
		InterArrivals: inter,
		MeanStd:       popMeanStd(inter),
	}, nil
}
