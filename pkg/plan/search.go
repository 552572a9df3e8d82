package plan

import (
	"container/heap"
	"fmt"

	"github.com/nprevot/hitman/internal/herr"
	"github.com/nprevot/hitman/pkg/board"
)

// GoalKind names one of the four Phase-2 sub-goals (spec §4.6).
type GoalKind int

const (
	GetWeapon GoalKind = iota
	ReachTarget
	ReturnHome
	GetSuit
)

func (g GoalKind) String() string {
	switch g {
	case GetWeapon:
		return "get_weapon"
	case ReachTarget:
		return "kill_target"
	case ReturnHome:
		return "return_home"
	case GetSuit:
		return "get_suit"
	default:
		return fmt.Sprintf("goal(%d)", int(g))
	}
}

func goalAchieved(s *State, goal GoalKind) bool {
	switch goal {
	case GetWeapon:
		return s.HasWeapon
	case ReachTarget:
		return s.IsTargetDown
	case ReturnHome:
		return s.Position == (board.Coord{})
	case GetSuit:
		return s.HasSuit
	default:
		return false
	}
}

func locateContent(b *board.Board, content board.Content) (board.Coord, error) {
	for i := 0; i < b.Cols(); i++ {
		for j := 0; j < b.Rows(); j++ {
			if b.MustCell(i, j).Content() == content {
				return board.Coord{I: i, J: j}, nil
			}
		}
	}
	return board.Coord{}, fmt.Errorf("board has no %s cell: %w", content, herr.ErrInvalidArgument)
}

// goalCell locates the cell the heuristic should aim for to satisfy goal.
// kill_target aims at the target's own cell; the heuristic adds nothing for
// the kill action itself (its kill-bonus term covers only guards
// neutralized in passing).
func goalCell(b *board.Board, goal GoalKind) (board.Coord, error) {
	switch goal {
	case GetWeapon:
		return locateContent(b, board.Rope)
	case ReachTarget:
		return locateContent(b, board.Target)
	case ReturnHome:
		return board.Coord{}, nil
	case GetSuit:
		return locateContent(b, board.Suit)
	default:
		return board.Coord{}, fmt.Errorf("unknown goal kind %d: %w", int(goal), herr.ErrInvalidArgument)
	}
}

// astarItem is one entry in the A* open list.
type astarItem struct {
	State  *State
	FScore int
	seq    int // insertion order, to break FScore ties FIFO
}

type astarHeap []astarItem

func (h astarHeap) Len() int { return len(h) }
func (h astarHeap) Less(i, j int) bool {
	if h[i].FScore != h[j].FScore {
		return h[i].FScore < h[j].FScore
	}
	return h[i].seq < h[j].seq
}
func (h astarHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *astarHeap) Push(x any)   { *h = append(*h, x.(astarItem)) }
func (h *astarHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

// Search runs A* from s0 over the fully-known board b until goal is
// satisfied, returning the lowest-penalty terminal state found (spec
// §4.6). States are deduplicated by their canonical key (position, facing,
// flags, and emptied set — penalties and history stripped): a state is
// marked visited only once popped off the open list, so a cheaper
// duplicate already in the heap is never shadowed by a costlier one
// generated later, matching the heuristic's admissibility guarantee of
// finding the optimal terminal state. Returns an herr.ErrInvalidArgument
// error if the board has no cell for goal (no rope, target or suit), and
// herr.ErrUnreachable if the open list empties before goal is satisfied.
func Search(s0 *State, b *board.Board, goal GoalKind) (*State, error) {
	if goalAchieved(s0, goal) {
		return s0, nil
	}
	target, err := goalCell(b, goal)
	if err != nil {
		return nil, err
	}

	visited := map[stateKey]bool{s0.key(): true}
	open := &astarHeap{}
	heap.Init(open)
	seq := 0
	push := func(s *State) {
		hCost := Heuristic(b, target, s.Position, s.Emptied, s.IsSuitOn)
		heap.Push(open, astarItem{State: s, FScore: s.Penalties + hCost, seq: seq})
		seq++
	}

	for _, next := range Successors(s0, b) {
		if !visited[next.key()] {
			push(next)
		}
	}

	for open.Len() > 0 {
		top := heap.Pop(open).(astarItem)
		cur := top.State
		k := cur.key()
		if visited[k] {
			continue // a cheaper duplicate already expanded this state
		}
		visited[k] = true
		if goalAchieved(cur, goal) {
			return cur, nil
		}
		for _, next := range Successors(cur, b) {
			if !visited[next.key()] {
				push(next)
			}
		}
	}
	return nil, herr.ErrUnreachable
}
