package services

import (
	"itinerary-route-service/internal/domain"
	"itinerary-route-service/internal/geo"
	"math"
)

// exactSequenceLimit is the largest candidate count solved exactly.
// Beyond it the O(2^n * n^2) dynamic program is replaced by a
// nearest-neighbor construction improved with 2-opt.
const exactSequenceLimit = 7

// OrderByDistance produces a visit order over points (as indices)
// minimizing total great-circle travel distance from start. The
// sequencer is budget-agnostic geometry optimization; budget trimming
// happens later in the pipeline.
func OrderByDistance(start domain.Coordinates, points []domain.Coordinates) []int {
	n := len(points)
	if n == 0 {
		return nil
	}
	if n == 1 {
		return []int{0}
	}

	fromStart, between := distanceTables(start, points)

	if n <= exactSequenceLimit {
		return exactOrder(fromStart, between)
	}

	order := nearestNeighborOrder(fromStart, between)
	return twoOptImprove(order, fromStart, between)
}

// PathLengthKm computes the total great-circle length of visiting
// points in the given order, starting from start.
func PathLengthKm(start domain.Coordinates, points []domain.Coordinates, order []int) float64 {
	if len(order) == 0 {
		return 0
	}
	total := geo.Haversine(start, points[order[0]])
	for i := 1; i < len(order); i++ {
		total += geo.Haversine(points[order[i-1]], points[order[i]])
	}
	return total
}

func distanceTables(start domain.Coordinates, points []domain.Coordinates) ([]float64, [][]float64) {
	n := len(points)
	fromStart := make([]float64, n)
	between := make([][]float64, n)
	for i := range points {
		fromStart[i] = geo.Haversine(start, points[i])
		between[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d := geo.Haversine(points[i], points[j])
			between[i][j] = d
			between[j][i] = d
		}
	}
	return fromStart, between
}

// exactOrder solves the open-path ordering exactly with bitmask dynamic
// programming: dp[mask][j] is the cheapest way to visit exactly the
// points in mask ending at j. The start point is a virtual node outside
// the mask.
func exactOrder(fromStart []float64, between [][]float64) []int {
	n := len(fromStart)
	full := (1 << n) - 1

	dp := make([][]float64, 1<<n)
	parent := make([][]int, 1<<n)
	for mask := 0; mask <= full; mask++ {
		dp[mask] = make([]float64, n)
		parent[mask] = make([]int, n)
		for j := 0; j < n; j++ {
			dp[mask][j] = math.Inf(1)
			parent[mask][j] = -1
		}
	}

	for j := 0; j < n; j++ {
		dp[1<<j][j] = fromStart[j]
	}

	for mask := 1; mask <= full; mask++ {
		for j := 0; j < n; j++ {
			if mask&(1<<j) == 0 || math.IsInf(dp[mask][j], 1) {
				continue
			}
			for k := 0; k < n; k++ {
				if mask&(1<<k) != 0 {
					continue
				}
				next := mask | (1 << k)
				cand := dp[mask][j] + between[j][k]
				if cand < dp[next][k] {
					dp[next][k] = cand
					parent[next][k] = j
				}
			}
		}
	}

	// The path is open: it ends at whichever point closes cheapest.
	last := 0
	for j := 1; j < n; j++ {
		if dp[full][j] < dp[full][last] {
			last = j
		}
	}

	order := make([]int, n)
	mask := full
	j := last
	for i := n - 1; i >= 0; i-- {
		order[i] = j
		p := parent[mask][j]
		mask ^= 1 << j
		j = p
	}
	return order
}

// nearestNeighborOrder greedily extends the path with the closest
// unvisited point. Ties break toward the lower index for determinism.
func nearestNeighborOrder(fromStart []float64, between [][]float64) []int {
	n := len(fromStart)
	visited := make([]bool, n)
	order := make([]int, 0, n)

	current := -1 // -1 means "at the start point"
	for len(order) < n {
		best := -1
		bestDist := math.Inf(1)
		for j := 0; j < n; j++ {
			if visited[j] {
				continue
			}
			var d float64
			if current == -1 {
				d = fromStart[j]
			} else {
				d = between[current][j]
			}
			if d < bestDist {
				bestDist = d
				best = j
			}
		}
		visited[best] = true
		order = append(order, best)
		current = best
	}
	return order
}

// twoOptImprove applies first-improvement 2-opt to the open path:
// reverse a segment [i..k] whenever doing so strictly shortens the
// total length. Pass count is bounded, with a higher allowance for
// small inputs.
func twoOptImprove(order []int, fromStart []float64, between [][]float64) []int {
	n := len(order)
	const eps = 1e-10

	maxPasses := 30
	if n <= 15 {
		maxPasses = 120
	}

	dist := func(a, b int) float64 {
		if a == -1 {
			return fromStart[b]
		}
		return between[a][b]
	}

	for pass := 0; pass < maxPasses; pass++ {
		improved := false

		for i := 0; i < n-1 && !improved; i++ {
			pred := -1
			if i > 0 {
				pred = order[i-1]
			}
			for k := i + 1; k < n; k++ {
				// Removing edges (pred,i) and (k,succ), adding
				// (pred,k) and (i,succ); succ is absent when the
				// segment reaches the end of the open path.
				delta := dist(pred, order[k]) - dist(pred, order[i])
				if k+1 < n {
					succ := order[k+1]
					delta += between[order[i]][succ] - between[order[k]][succ]
				}

				if delta < -eps {
					reverse(order, i, k)
					improved = true
					break
				}
			}
		}

		if !improved {
			break
		}
	}

	return order
}

func reverse(order []int, i, k int) {
	for i < k {
		order[i], order[k] = order[k], order[i]
		i++
		k--
	}
}
