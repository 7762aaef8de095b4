package usecase

import (
	"sort"

	"budget-reconciler/internal/domain"
)

// maxSubsetStates caps the reachable-sum table of ClosestSubset.
const maxSubsetStates = 1 << 16

// Subset is a non-contiguous selection of transactions.
type Subset struct {
	Sum     int64
	Indices []int
}

// ClosestSubset searches the last window transactions of txs for the subset
// whose sum is nearest to target, preferring the larger sum on ties. It is a
// reachable-sum table, so cost is bounded by window and maxSubsetStates rather
// than 2^window.
func ClosestSubset(txs []domain.Transaction, target int64, window int) (Subset, bool) {
	if window <= 0 || len(txs) == 0 {
		return Subset{}, false
	}
	offset := 0
	if len(txs) > window {
		offset = len(txs) - window
	}

	reach := map[int64][]int{0: nil}
	for i := offset; i < len(txs); i++ {
		amount := txs[i].Amount
		sums := make([]int64, 0, len(reach))
		for s := range reach {
			sums = append(sums, s)
		}
		sort.Slice(sums, func(a, b int) bool { return sums[a] < sums[b] })
		for _, s := range sums {
			next := s + amount
			if _, ok := reach[next]; ok || len(reach) >= maxSubsetStates {
				continue
			}
			picked := make([]int, len(reach[s]), len(reach[s])+1)
			copy(picked, reach[s])
			reach[next] = append(picked, i)
		}
	}

	var (
		best  Subset
		found bool
	)
	for s, idx := range reach {
		if len(idx) == 0 {
			continue
		}
		if !found || closer(s, best.Sum, target) {
			best, found = Subset{Sum: s, Indices: idx}, true
		}
	}
	return best, found
}

func closer(candidate, current, target int64) bool {
	dc, dr := abs64(target-candidate), abs64(target-current)
	if dc != dr {
		return dc < dr
	}
	return candidate > current
}

func abs64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
