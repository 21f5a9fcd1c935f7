package analysis

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// MeanStd is a population mean and standard deviation.
type MeanStd struct {
	Mean float64 `json:"mean" yaml:"mean"`
	Std  float64 `json:"std" yaml:"std"`
}

func popMeanStd(x []float64) MeanStd {
	mean, std := stat.PopMeanStdDev(x, nil)
	return MeanStd{Mean: mean, Std: std}
}

// percentile interpolates linearly between the order statistics around rank
// p/100*(n-1) of an ascending sample. The rank is computed as n*q+(1-q)-1,
// which rounds the same way numpy does; the conversion keeps n*q from being
// fused into a multiply-add.
func percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 1 {
		return sorted[0]
	}
	q := p / 100
	h := float64(float64(n)*q) + (1 - q) - 1
	h = min(max(h, 0), float64(n-1))
	lo := math.Floor(h)
	i := int(lo)
	if i >= n-1 {
		return sorted[n-1]
	}
	a, b := sorted[i], sorted[i+1]
	t := h - lo
	if t >= 0.5 {
		return b - float64((b-a)*(1-t))
	}
	return a + float64((b-a)*t)
}

// binCount sizes a histogram so each bin spans about width units of the
// sample's floor/ceil range, clamped to [lo, hi].
func binCount(sample []float64, width float64, lo, hi int) int {
	minV := math.Floor(floats.Min(sample))
	maxV := math.Ceil(floats.Max(sample))
	n := int(math.Ceil((maxV - minV) / width))
	return min(max(n, lo), hi)
}
