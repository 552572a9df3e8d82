package knowledge

import (
	"container/heap"

	"github.com/nprevot/hitman/pkg/board"
)

// distItem is one entry in the Dijkstra frontier: a cell and its current
// best-known cost to reach target.
type distItem struct {
	Coord board.Coord
	Cost  int
}

// distHeap is a min-heap of distItem by Cost, mirroring the comboHeap
// pattern used elsewhere in the corpus for container/heap-backed search.
type distHeap []distItem

func (h distHeap) Len() int            { return len(h) }
func (h distHeap) Less(i, j int) bool  { return h[i].Cost < h[j].Cost }
func (h distHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *distHeap) Push(x any)         { *h = append(*h, x.(distItem)) }
func (h *distHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

// MinimumPenaltyMap returns, for every cell reachable from target through
// non-forbidden cells, the cheapest-penalty cost to reach target from that
// cell: Dijkstra on the graph where edge (u->v) costs 1+risk(v), seeded by
// risk(target) itself (spec §4.4). SAT-backed risk queries are used only
// for cells in focusSet, to bound solver calls to where the caller actually
// needs the extra precision (typically the agent's immediate neighbors).
func (kb *Base) MinimumPenaltyMap(target board.Coord, focusSet []board.Coord) (map[board.Coord]int, error) {
	focus := make(map[board.Coord]bool, len(focusSet))
	for _, c := range focusSet {
		focus[c] = true
	}

	seedRisk, err := kb.Risk(target.I, target.J, focus[target])
	if err != nil {
		return nil, err
	}

	dist := map[board.Coord]int{target: seedRisk}
	h := &distHeap{{Coord: target, Cost: seedRisk}}
	heap.Init(h)

	for h.Len() > 0 {
		cur := heap.Pop(h).(distItem)
		if best, ok := dist[cur.Coord]; ok && cur.Cost > best {
			continue // stale entry, a cheaper path was already found
		}
		for _, n := range kb.Board.Neighbors(cur.Coord.I, cur.Coord.J) {
			if kb.Board.MustCell(n.I, n.J).Forbidden() {
				continue
			}
			r, err := kb.Risk(n.I, n.J, focus[n])
			if err != nil {
				return nil, err
			}
			candidate := cur.Cost + 1 + r
			if old, ok := dist[n]; !ok || candidate < old {
				dist[n] = candidate
				heap.Push(h, distItem{Coord: n, Cost: candidate})
			}
		}
	}
	return dist, nil
}
