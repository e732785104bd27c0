// Package histo summarizes value lists into simple breakpoint histograms.
package histo

import "sort"

// Bucket is one histogram bucket: the count of values at or above Low and
// below the next bucket's Low.
type Bucket struct {
	Low   float64 `json:"low"`
	Count int     `json:"count"`
}

// Buckets summarizes vals into a histogram with breakpoints in lows.
// lows must be in ascending order. The first bucket is labelled with the
// smallest value and counts everything below the first breakpoint; the last
// bucket counts everything at or above the final breakpoint.
//
// Side effect: sorts vals in place.
func Buckets(vals []float64, lows []float64) []Bucket {
	sort.Float64s(vals)

	result := make([]Bucket, 0, len(lows)+1)
	low := 0.0
	if len(vals) > 0 {
		low = vals[0]
	}

	i := 0
	for _, next := range lows {
		cnt := 0
		for i < len(vals) && vals[i] < next {
			cnt++
			i++
		}
		result = append(result, Bucket{Low: low, Count: cnt})
		low = next
	}
	// Everything at or above the top breakpoint.
	result = append(result, Bucket{Low: low, Count: len(vals) - i})
	return result
}
