package analysis

import (
	"math"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServiceProcess(t *testing.T) {
	got, err := ServiceProcess([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	require.NoError(t, err)
	assert.InDelta(t, 5.0, got.Mean, 1e-9)
	assert.InDelta(t, 2.0, got.Std, 1e-9)
	assert.Equal(t, 7, got.Bins)
	assert.Len(t, got.Sample, 8)
}

func TestServiceProcess_Bins(t *testing.T) {
	tests := []struct {
		name   string
		sample []float64
		want   int
	}{
		{"spans one unit", []float64{5, 6}, 2},
		{"identical values", []float64{3, 3, 3}, 2},
		{"single value", []float64{4.2}, 2},
		{"fractional extremes widen", []float64{0.2, 3.7}, 4},
		{"capped at twenty", []float64{0, 100}, 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ServiceProcess(tt.sample)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Bins)
		})
	}
}

func TestServiceProcess_Empty(t *testing.T) {
	got, err := ServiceProcess(nil)
	assert.Nil(t, got)
	assert.True(t, errors.Is(err, ErrInsufficientData))
}

func TestServiceProcess_NoNaN(t *testing.T) {
	got, err := ServiceProcess([]float64{1})
	require.NoError(t, err)
	assert.False(t, math.IsNaN(got.Mean))
	assert.False(t, math.IsNaN(got.Std))
	assert.Zero(t, got.Std)
}
