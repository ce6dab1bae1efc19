package route

import "github.com/kobold/advplanner/pkg/ids"

// maxTwoOptIterations caps the 2-opt local search the way the teacher's
// ForceDirectedEmbedder.simulateForces caps its force-simulation loop: a
// fixed iteration budget plus an early exit once the current pass finds no
// improving move, rather than iterating to a fixed-point with no ceiling.
const maxTwoOptIterations = 100

// distanceFunc abstracts the all-pairs distance lookup tsp.go needs, so
// this file doesn't depend on pathfind.AllPairs directly.
type distanceFunc func(from, to ids.Id) int

// nearestNeighborTour builds a path starting at start and visiting every
// room in stops exactly once, always stepping to the nearest unvisited
// stop. Ties are broken by stops' slice order (spec.md §4.5 step 3:
// "ties broken by index-lexicographic order") — callers pass stops in a
// stable, meaningful order (pathfind.SortedRoomOrder) for that guarantee
// to read naturally.
func nearestNeighborTour(dist distanceFunc, start ids.Id, stops []ids.Id) []ids.Id {
	visited := make(map[ids.Id]bool, len(stops))
	tour := make([]ids.Id, 0, len(stops)+1)
	tour = append(tour, start)

	current := start
	for len(visited) < len(stops) {
		best := -1
		bestDist := 0
		for i, s := range stops {
			if visited[s] {
				continue
			}
			d := dist(current, s)
			if best == -1 || d < bestDist {
				best = i
				bestDist = d
			}
		}
		if best == -1 {
			break
		}
		next := stops[best]
		visited[next] = true
		tour = append(tour, next)
		current = next
	}
	return tour
}

// twoOptImprove runs capped 2-opt local search over tour, whose element 0
// (the start room) is held fixed. Returns the improved tour and the
// number of iterations actually run, for Metrics.TSPIterations.
func twoOptImprove(dist distanceFunc, tour []ids.Id) ([]ids.Id, int) {
	n := len(tour)
	if n < 4 {
		return tour, 0
	}
	out := append([]ids.Id(nil), tour...)

	iterations := 0
	for iterations < maxTwoOptIterations {
		iterations++
		improved := false
		for i := 1; i < n-1 && !improved; i++ {
			for j := i + 1; j < n; j++ {
				before := dist(out[i-1], out[i])
				after := dist(out[i-1], out[j])
				if j+1 < n {
					before += dist(out[j], out[j+1])
					after += dist(out[i], out[j+1])
				}
				if after < before {
					reverse(out, i, j)
					improved = true
					break
				}
			}
		}
		if !improved {
			break
		}
	}
	return out, iterations
}

func reverse(tour []ids.Id, i, j int) {
	for i < j {
		tour[i], tour[j] = tour[j], tour[i]
		i++
		j--
	}
}

// tourCost sums pairwise distances in tour order (spec.md §4.5 step 3).
func tourCost(dist distanceFunc, tour []ids.Id) int {
	cost := 0
	for i := 0; i+1 < len(tour); i++ {
		cost += dist(tour[i], tour[i+1])
	}
	return cost
}
