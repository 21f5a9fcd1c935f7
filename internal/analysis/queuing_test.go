package analysis

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueuingTime(t *testing.T) {
	waits := []float64{1000, 900, 800, 700, 600, 500, 400, 300, 200, 100}

	got, err := QueuingTime(waits)
	require.NoError(t, err)

	assert.Equal(t, []float64{100, 200, 300, 400, 500, 600, 700, 800, 900, 1000}, got.Sample)
	assert.InDelta(t, 550.0, got.Mean, 1e-9)
	assert.Equal(t, []Percentile{
		{Rank: 50, Value: 550},
		{Rank: 90, Value: 910},
		{Rank: 95, Value: 955},
		{Rank: 99, Value: 991},
	}, got.Percentiles)
	// ceil(900/200) = 5
	assert.Equal(t, 5, got.Bins)
	// input untouched
	assert.Equal(t, 1000.0, waits[0])
}

func TestQueuingTime_Bins(t *testing.T) {
	tests := []struct {
		name  string
		waits []float64
		want  int
	}{
		{"narrow range floors at five", []float64{10, 20, 30}, 5},
		{"one bin per 200ms", []float64{0, 1201}, 7},
		{"capped at twenty", []float64{0, 60000}, 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := QueuingTime(tt.waits)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Bins)
		})
	}
}

func TestQueuingTime_SingleValue(t *testing.T) {
	got, err := QueuingTime([]float64{42})
	require.NoError(t, err)
	for _, p := range got.Percentiles {
		assert.Equal(t, int64(42), p.Value)
	}
}

func TestQueuingTime_TruncatesPercentiles(t *testing.T) {
	// p50 of [1, 2] is 1.5
	got, err := QueuingTime([]float64{2, 1})
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.Percentiles[0].Value)
}

func TestQueuingTime_Empty(t *testing.T) {
	_, err := QueuingTime([]float64{})
	assert.True(t, errors.Is(err, ErrInsufficientData))
}
