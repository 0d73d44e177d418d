package cluster

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// kmeansResult is one k-means solution.
type kmeansResult struct {
	labels     []int
	centroids  [][]float64
	inertia    float64
	iterations int
}

// kmeans runs nInit seeded k-means++ restarts and keeps the lowest inertia.
// The first restart wins ties.
func kmeans(x [][]float64, k, nInit, maxIter int, relTol float64, rng *rand.Rand) kmeansResult {
	tol := relTol * meanVariance(x)
	var best kmeansResult
	for run := 0; run < nInit; run++ {
		centers := seedPlusPlus(x, k, rng)
		res := lloyd(x, centers, maxIter, tol)
		if run == 0 || res.inertia < best.inertia {
			best = res
		}
	}
	return best
}

func meanVariance(x [][]float64) float64 {
	if len(x) == 0 {
		return 0
	}
	p := len(x[0])
	col := make([]float64, len(x))
	var sum float64
	for j := 0; j < p; j++ {
		for i, row := range x {
			col[i] = row[j]
		}
		sum += stat.PopVariance(col, nil)
	}
	return sum / float64(p)
}

// seedPlusPlus picks k initial centers with greedy k-means++: each step
// samples 2+ln(k) candidates proportionally to their squared distance and
// keeps the one that lowers the potential most.
func seedPlusPlus(x [][]float64, k int, rng *rand.Rand) [][]float64 {
	n := len(x)
	trials := 2 + int(math.Log(float64(k)))
	centers := make([][]float64, 0, k)
	centers = append(centers, clone(x[rng.Intn(n)]))

	closest := make([]float64, n)
	for i, row := range x {
		closest[i] = sqDist(row, centers[0])
	}
	potential := floats.Sum(closest)
	cum := make([]float64, n)

	for len(centers) < k {
		floats.CumSum(cum, closest)
		bestIdx, bestPot := -1, math.Inf(1)
		var bestDist []float64
		for t := 0; t < trials; t++ {
			idx := searchCum(cum, rng.Float64()*potential)
			dist := make([]float64, n)
			for i, row := range x {
				dist[i] = math.Min(closest[i], sqDist(row, x[idx]))
			}
			if pot := floats.Sum(dist); pot < bestPot {
				bestIdx, bestPot, bestDist = idx, pot, dist
			}
		}
		centers = append(centers, clone(x[bestIdx]))
		closest, potential = bestDist, bestPot
	}
	return centers
}

func searchCum(cum []float64, r float64) int {
	for i, c := range cum {
		if c >= r {
			return i
		}
	}
	return len(cum) - 1
}

// lloyd iterates assignment and update until the squared centroid shift
// drops to tol or maxIter is reached, then assigns once more against the
// final centers. The last relocated labels are kept when that final
// assignment would leave a cluster empty, as it does for repeated rows.
func lloyd(x [][]float64, centers [][]float64, maxIter int, tol float64) kmeansResult {
	k, p := len(centers), len(x[0])
	labels := make([]int, len(x))
	iter := 0
	for iter < maxIter {
		iter++
		assign(x, centers, labels)

		next := make([][]float64, k)
		counts := make([]int, k)
		for c := range next {
			next[c] = make([]float64, p)
		}
		for i, row := range x {
			floats.Add(next[labels[i]], row)
			counts[labels[i]]++
		}
		for c := range next {
			if counts[c] > 0 {
				floats.Scale(1/float64(counts[c]), next[c])
			}
		}
		relocateEmpty(x, labels, centers, next, counts)

		var shift float64
		for c := range next {
			shift += sqDist(centers[c], next[c])
		}
		centers = next
		if shift <= tol {
			break
		}
	}
	final := make([]int, len(x))
	inertia := assign(x, centers, final)
	if covers(final, k) {
		labels = final
	} else {
		inertia = 0
		for i, row := range x {
			inertia += sqDist(row, centers[labels[i]])
		}
	}
	return kmeansResult{labels: labels, centroids: centers, inertia: inertia, iterations: iter}
}

// covers reports whether every one of the k clusters has a member.
func covers(labels []int, k int) bool {
	seen := make([]bool, k)
	n := 0
	for _, l := range labels {
		if !seen[l] {
			seen[l] = true
			n++
		}
	}
	return n == k
}

// relocateEmpty moves each empty cluster onto the point farthest from its
// current center, taking distinct points in decreasing distance order.
func relocateEmpty(x [][]float64, labels []int, old, next [][]float64, counts []int) {
	var empty []int
	for c, n := range counts {
		if n == 0 {
			empty = append(empty, c)
		}
	}
	if len(empty) == 0 {
		return
	}
	dist := make([]float64, len(x))
	for i, row := range x {
		dist[i] = sqDist(row, old[labels[i]])
	}
	used := make(map[int]bool, len(empty))
	for _, c := range empty {
		far := -1
		for i := range x {
			if used[i] || counts[labels[i]] <= 1 {
				continue
			}
			if far < 0 || dist[i] > dist[far] {
				far = i
			}
		}
		if far < 0 {
			continue
		}
		used[far] = true
		from := labels[far]
		copy(next[c], x[far])
		counts[c] = 1
		// Remove the point from its old cluster mean.
		n := float64(counts[from])
		for j := range next[from] {
			next[from][j] = (next[from][j]*n - x[far][j]) / (n - 1)
		}
		counts[from]--
		labels[far] = c
	}
}

// assign labels every row with its nearest center and returns the inertia.
func assign(x [][]float64, centers [][]float64, labels []int) float64 {
	var inertia float64
	for i, row := range x {
		best, bestD := 0, math.Inf(1)
		for c, ctr := range centers {
			if d := sqDist(row, ctr); d < bestD {
				best, bestD = c, d
			}
		}
		labels[i] = best
		inertia += bestD
	}
	return inertia
}

func sqDist(a, b []float64) float64 {
	d := floats.Distance(a, b, 2)
	return d * d
}

func clone(v []float64) []float64 {
	return append([]float64(nil), v...)
}
