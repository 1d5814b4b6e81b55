package priority

import (
	"math"
	"sort"
)

// DefaultMaxBoost is the boost given to the most recently changed file.
const DefaultMaxBoost = 50

// RecencyMap maps a relative path to its last change as a Unix timestamp.
type RecencyMap map[string]uint64

// Recency holds per-path recency boosts. The zero value carries no signal.
type Recency struct {
	boosts map[string]int
	active bool
}

// NoRecency returns the no-signal value: every boost is 0.
func NoRecency() Recency {
	return Recency{}
}

// RankRecency rank-normalises times into boosts in [0, maxBoost].
// The oldest path gets 0 and the newest maxBoost; paths in between scale
// linearly by rank, not by timestamp distance. Fewer than two paths yield
// zero boosts. Equal timestamps are ranked by path.
func RankRecency(times RecencyMap, maxBoost int) Recency {
	if len(times) == 0 {
		return NoRecency()
	}

	paths := make([]string, 0, len(times))
	for p := range times {
		paths = append(paths, p)
	}
	sort.Slice(paths, func(i, j int) bool {
		ti, tj := times[paths[i]], times[paths[j]]
		if ti != tj {
			return ti < tj
		}
		return paths[i] < paths[j]
	})

	boosts := make(map[string]int, len(paths))
	lastIndex := len(paths) - 1
	if lastIndex < 1 {
		for _, p := range paths {
			boosts[p] = 0
		}
		return Recency{boosts: boosts, active: true}
	}

	for i, p := range paths {
		rank := float64(i) / float64(lastIndex)
		boosts[p] = int(math.Round(rank * float64(maxBoost)))
	}
	return Recency{boosts: boosts, active: true}
}

// Active reports whether a version-history signal is present.
func (r Recency) Active() bool {
	return r.active
}

// Boost returns the boost for path, 0 when path is unknown or there is no signal.
func (r Recency) Boost(path string) int {
	return r.boosts[path]
}
