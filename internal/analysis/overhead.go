package analysis

import "gonum.org/v1/gonum/stat"

// Overhead compares model time with whole-function time in the apply stage.
type Overhead struct {
	AIEnd       float64 `json:"ai_end_ms" yaml:"ai_end_ms"`
	FunctionEnd float64 `json:"function_end_ms" yaml:"function_end_ms"`
	Overhead    float64 `json:"overhead_ms" yaml:"overhead_ms"`
}

// ApplyOverhead returns the mean AI End and Function End durations and the
// difference between them. Both samples must be non-empty.
func ApplyOverhead(aiEnd, functionEnd []int64) (*Overhead, error) {
	if err := needSamples("apply overhead (AI End)", 1, len(aiEnd)); err != nil {
		return nil, err
	}
	if err := needSamples("apply overhead (Function End)", 1, len(functionEnd)); err != nil {
		return nil, err
	}
	ai := stat.Mean(toFloats(aiEnd), nil)
	fn := stat.Mean(toFloats(functionEnd), nil)
	return &Overhead{AIEnd: ai, FunctionEnd: fn, Overhead: fn - ai}, nil
}

func toFloats(v []int64) []float64 {
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = float64(x)
	}
	return out
}
