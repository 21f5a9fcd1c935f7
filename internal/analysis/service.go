package analysis

import "slices"

// Service summarizes a service-time sample.
type Service struct {
	Sample  []float64 `json:"sample" yaml:"sample"`
	MeanStd `yaml:",inline"`
	Bins    int `json:"bins" yaml:"bins"`
}

// ServiceProcess computes population statistics over a duration sample and a
// histogram bin count targeting one unit per bin.
func ServiceProcess(sample []float64) (*Service, error) {
	if err := needSamples("service process", 1, len(sample)); err != nil {
		return nil, err
	}
	return &Service{
		Sample:  slices.Clone(sample),
		MeanStd: popMeanStd(sample),
		Bins:    binCount(sample, 1, 2, 20),
	}, nil
}
