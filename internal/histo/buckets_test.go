package histo

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuckets(t *testing.T) {
	tests := []struct {
		name     string
		vals     []float64
		lows     []float64
		expected []Bucket
	}{
		{
			name: "values spread across breakpoints",
			vals: []float64{5, 1, 3, 8, 2},
			lows: []float64{2, 4, 6},
			expected: []Bucket{
				{Low: 1, Count: 1}, // 1
				{Low: 2, Count: 2}, // 2, 3
				{Low: 4, Count: 1}, // 5
				{Low: 6, Count: 1}, // 8
			},
		},
		{
			name: "all values below first breakpoint",
			vals: []float64{0.1, 0.2},
			lows: []float64{1, 2},
			expected: []Bucket{
				{Low: 0.1, Count: 2},
				{Low: 1, Count: 0},
				{Low: 2, Count: 0},
			},
		},
		{
			name: "all values above top breakpoint",
			vals: []float64{10, 20},
			lows: []float64{1, 2},
			expected: []Bucket{
				{Low: 10, Count: 0},
				{Low: 1, Count: 0},
				{Low: 2, Count: 2},
			},
		},
		{
			name: "empty values",
			vals: nil,
			lows: []float64{1, 2},
			expected: []Bucket{
				{Low: 0, Count: 0},
				{Low: 1, Count: 0},
				{Low: 2, Count: 0},
			},
		},
		{
			name: "no breakpoints",
			vals: []float64{3, 1},
			lows: nil,
			expected: []Bucket{
				{Low: 1, Count: 2},
			},
		},
		{
			name: "value equal to breakpoint lands in upper bucket",
			vals: []float64{2},
			lows: []float64{2},
			expected: []Bucket{
				{Low: 2, Count: 0},
				{Low: 2, Count: 1},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Buckets(tt.vals, tt.lows)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestBucketsCountsEveryValue(t *testing.T) {
	vals := []float64{9, 4, 7, 0, 2, 5, 5, 3}
	got := Buckets(vals, []float64{2, 4, 6, 8})

	total := 0
	for _, b := range got {
		total += b.Count
	}
	assert.Equal(t, len(vals), total)
}

func TestBucketsSortsInput(t *testing.T) {
	vals := []float64{3, 1, 2}
	Buckets(vals, []float64{2})
	assert.True(t, sort.Float64sAreSorted(vals))
}
