package analysis

import (
	"slices"

	"gonum.org/v1/gonum/stat"
)

// QueuingPercentiles are the ranks reported for queuing time.
var QueuingPercentiles = []int{50, 90, 95, 99}

// Percentile is one rank of a distribution, truncated to an integer.
type Percentile struct {
	Rank  int   `json:"rank" yaml:"rank"`
	Value int64 `json:"value" yaml:"value"`
}

// Queuing summarizes the wait-time sample.
type Queuing struct {
	Sample      []float64    `json:"sample" yaml:"sample"` // ascending
	Mean        float64      `json:"mean" yaml:"mean"`
	Percentiles []Percentile `json:"percentiles" yaml:"percentiles"`
	Bins        int          `json:"bins" yaml:"bins"`
}

// QueuingTime computes mean, percentiles and a histogram bin count (about
// 200ms per bin) over wait durations in milliseconds.
func QueuingTime(waits []float64) (*Queuing, error) {
	if err := needSamples("queuing time", 1, len(waits)); err != nil {
		return nil, err
	}
	sorted := slices.Clone(waits)
	slices.Sort(sorted)

	ps := make([]Percentile, len(QueuingPercentiles))
	for i, rank := range QueuingPercentiles {
		ps[i] = Percentile{Rank: rank, Value: int64(percentile(sorted, float64(rank)))}
	}
	return &Queuing{
		Sample:      sorted,
		Mean:        stat.Mean(sorted, nil),
		Percentiles: ps,
		Bins:        binCount(sorted, 200, 5, 20),
	}, nil
}
