package cluster

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// SilhouetteSamples returns the silhouette of every row. Rows in singleton
// clusters score 0. It returns nil when the number of distinct labels is not
// in [2, n-1], where the coefficient is undefined.
func SilhouetteSamples(x [][]float64, labels []int) []float64 {
	n := len(x)
	sizes := make(map[int]int)
	for _, l := range labels {
		sizes[l]++
	}
	if len(sizes) < 2 || len(sizes) > n-1 {
		return nil
	}

	out := make([]float64, n)
	sums := make(map[int]float64, len(sizes))
	for i := range x {
		clear(sums)
		for j := range x {
			if i == j {
				continue
			}
			sums[labels[j]] += floats.Distance(x[i], x[j], 2)
		}
		own := labels[i]
		if sizes[own] == 1 {
			continue
		}
		a := sums[own] / float64(sizes[own]-1)
		b := math.Inf(1)
		for l, size := range sizes {
			if l == own {
				continue
			}
			b = math.Min(b, sums[l]/float64(size))
		}
		if m := math.Max(a, b); m > 0 {
			out[i] = (b - a) / m
		}
	}
	return out
}

// Silhouette returns the mean silhouette coefficient, or nil when undefined.
func Silhouette(x [][]float64, labels []int) *float64 {
	samples := SilhouetteSamples(x, labels)
	if samples == nil {
		return nil
	}
	mean := floats.Sum(samples) / float64(len(samples))
	return &mean
}
