package plan

import (
	"container/heap"

	"github.com/nprevot/hitman/pkg/board"
)

// hItem is one entry in the heuristic's Dijkstra frontier.
type hItem struct {
	Coord board.Coord
	Cost  int
}

// hHeap is a min-heap of hItem by Cost, mirroring the distHeap pattern used
// for the Phase-1 penalty map.
type hHeap []hItem

func (h hHeap) Len() int           { return len(h) }
func (h hHeap) Less(i, j int) bool { return h[i].Cost < h[j].Cost }
func (h hHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *hHeap) Push(x any)        { *h = append(*h, x.(hItem)) }
func (h *hHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

// Heuristic estimates the remaining penalty to reach target from pos, on
// the fully-known board b given the emptied set and whether the suit is
// currently worn (spec §4.6). It is Dijkstra run backward from target: a
// step from u onto its neighbour v costs 1 + (5*SeenByGuards(v) if the suit
// is off) + killBonus(v), where killBonus(v) is 20 + 100*(guards+guests
// seen at u) when v holds a non-emptied guard the planner could virtually
// neutralize in passing. pos itself is never charged, since its penalty is
// already in the state's g-score. Walls are impassable. No step costs more
// than Apply charges for the same move (turns are left out), so this never
// overestimates the remaining penalty.
func Heuristic(b *board.Board, target, pos board.Coord, emptied map[board.Coord]bool, suitOn bool) int {
	dist := map[board.Coord]int{target: 0}
	h := &hHeap{{Coord: target, Cost: 0}}
	heap.Init(h)

	for h.Len() > 0 {
		cur := heap.Pop(h).(hItem)
		if best, ok := dist[cur.Coord]; ok && cur.Cost > best {
			continue
		}
		if cur.Coord == pos {
			break
		}
		curCell := b.MustCell(cur.Coord.I, cur.Coord.J)
		for _, n := range b.Neighbors(cur.Coord.I, cur.Coord.J) {
			nCell := b.MustCell(n.I, n.J)
			if nCell.Content() == board.Wall {
				continue
			}

			// The agent walks n -> cur, so the charges are those of entering cur.
			killBonus := 0
			if curCell.Content() == board.Guard && !emptied[cur.Coord] {
				killBonus = 20 + 100*(SeenByGuards(b, n, emptied)+SeenByCivil(b, n, emptied))
			}
			seenCost := 0
			if !suitOn {
				seenCost = 5 * SeenByGuards(b, cur.Coord, emptied)
			}

			candidate := cur.Cost + 1 + seenCost + killBonus
			if old, ok := dist[n]; !ok || candidate < old {
				dist[n] = candidate
				heap.Push(h, hItem{Coord: n, Cost: candidate})
			}
		}
	}

	if d, ok := dist[pos]; ok {
		return d
	}
	return 1 << 30
}
