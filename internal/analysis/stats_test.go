package analysis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMean(t *testing.T) {
	assert.Equal(t, 2.0, Mean([]float64{1, 2, 3}))
	assert.Equal(t, -1.5, Mean([]float64{-3, 0}))
	assert.True(t, math.IsNaN(Mean(nil)))
}

func TestMedian(t *testing.T) {
	tests := []struct {
		name string
		in   []float64
		want float64
	}{
		{"odd length", []float64{5, 1, 3}, 3},
		{"even length averages middles", []float64{4, 1, 3, 2}, 2.5},
		{"single value", []float64{7}, 7},
		{"duplicates", []float64{2, 2, 2, 9}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Median(tt.in))
		})
	}

	assert.True(t, math.IsNaN(Median(nil)))
}

func TestMedian_DoesNotMutateInput(t *testing.T) {
	in := []float64{3, 1, 2}
	Median(in)
	assert.Equal(t, []float64{3, 1, 2}, in)
}

func TestStdDev(t *testing.T) {
	// Sample standard deviation, n-1 denominator.
	assert.InDelta(t, 1.0, StdDev([]float64{1, 2, 3}), 1e-12)
	assert.True(t, math.IsNaN(StdDev([]float64{5})))
	assert.True(t, math.IsNaN(StdDev(nil)))
}

func TestQuantile(t *testing.T) {
	xs := []float64{1, 2, 3, 4}
	assert.Equal(t, 1.0, Quantile(xs, 0))
	assert.InDelta(t, 1.75, Quantile(xs, 0.25), 1e-12)
	assert.InDelta(t, 2.5, Quantile(xs, 0.5), 1e-12)
	assert.Equal(t, 4.0, Quantile(xs, 1))
	assert.True(t, math.IsNaN(Quantile(nil, 0.5)))
}

func TestMinMax(t *testing.T) {
	min, max := MinMax([]float64{3, -1, 7, 0})
	assert.Equal(t, -1.0, min)
	assert.Equal(t, 7.0, max)

	min, max = MinMax(nil)
	assert.True(t, math.IsNaN(min))
	assert.True(t, math.IsNaN(max))
}

func TestCorrelation(t *testing.T) {
	t.Run("perfect positive", func(t *testing.T) {
		assert.InDelta(t, 1.0, Correlation([]float64{1, 2, 3}, []float64{2, 4, 6}), 1e-12)
	})

	t.Run("perfect negative", func(t *testing.T) {
		assert.InDelta(t, -1.0, Correlation([]float64{1, 2, 3}, []float64{3, 2, 1}), 1e-12)
	})

	t.Run("pairwise deletion of missing values", func(t *testing.T) {
		a := []float64{1, math.NaN(), 2, 3}
		b := []float64{2, 5, 4, 6}
		assert.InDelta(t, 1.0, Correlation(a, b), 1e-12)
	})

	t.Run("too few complete pairs", func(t *testing.T) {
		a := []float64{1, math.NaN()}
		b := []float64{2, 3}
		assert.True(t, math.IsNaN(Correlation(a, b)))
	})

	t.Run("zero variance", func(t *testing.T) {
		assert.True(t, math.IsNaN(Correlation([]float64{1, 1, 1}, []float64{1, 2, 3})))
	})
}
