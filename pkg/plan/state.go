// Package plan implements Phase 2: A* search over a compound game state on
// a fully-known board, producing the action sequence that acquires a
// weapon, kills the target, and returns home at minimum penalty (spec
// §4.6).
package plan

import (
	"fmt"
	"sort"
	"strings"

	"github.com/nprevot/hitman/pkg/board"
)

// Action is one entry of the planner's action alphabet.
type Action int

const (
	Move Action = iota
	TurnCW
	TurnCCW
	KillTarget
	NeutralizeGuard
	NeutralizeGuest
	TakeSuit
	TakeWeapon
	PutOnSuit
)

func (a Action) String() string {
	switch a {
	case Move:
		return "move"
	case TurnCW:
		return "turn_clockwise"
	case TurnCCW:
		return "turn_anti_clockwise"
	case KillTarget:
		return "kill_target"
	case NeutralizeGuard:
		return "neutralize_guard"
	case NeutralizeGuest:
		return "neutralize_guest"
	case TakeSuit:
		return "take_suit"
	case TakeWeapon:
		return "take_weapon"
	case PutOnSuit:
		return "put_on_suit"
	default:
		return fmt.Sprintf("action(%d)", int(a))
	}
}

var allActions = [...]Action{Move, TurnCW, TurnCCW, KillTarget, NeutralizeGuard, NeutralizeGuest, TakeSuit, TakeWeapon, PutOnSuit}

// State is a planner-visible game state: compound and immutable by
// convention — every transition goes through Apply, which clones rather
// than mutates.
type State struct {
	Position     board.Coord
	Facing       board.Direction
	HasWeapon    bool
	HasSuit      bool
	IsSuitOn     bool
	IsTargetDown bool
	Emptied      map[board.Coord]bool
	Penalties    int
	History      []Action
}

// NewState builds the initial Phase-2 state from a referee position/facing,
// with no emptied cells and zero accumulated penalty.
func NewState(pos board.Coord, facing board.Direction) *State {
	return &State{Position: pos, Facing: facing, Emptied: make(map[board.Coord]bool)}
}

// Clone returns a deep copy: a new Emptied map and a new History slice, so
// mutating the clone never affects the original.
func (s *State) Clone() *State {
	emptied := make(map[board.Coord]bool, len(s.Emptied))
	for c := range s.Emptied {
		emptied[c] = true
	}
	history := make([]Action, len(s.History))
	copy(history, s.History)
	clone := *s
	clone.Emptied = emptied
	clone.History = history
	return &clone
}

// stateKey is the canonical, comparable identity of a state for the
// visited set: penalties and history are stripped, since two paths to the
// same compound state are interchangeable going forward (spec §4.6).
type stateKey struct {
	Position  board.Coord
	Facing    board.Direction
	HasWeapon bool
	HasSuit   bool
	IsSuitOn  bool
	IsTargetDown bool
	Emptied   string
}

func (s *State) key() stateKey {
	coords := make([]board.Coord, 0, len(s.Emptied))
	for c := range s.Emptied {
		coords = append(coords, c)
	}
	sort.Slice(coords, func(i, j int) bool {
		if coords[i].I != coords[j].I {
			return coords[i].I < coords[j].I
		}
		return coords[i].J < coords[j].J
	})
	var sb strings.Builder
	for _, c := range coords {
		fmt.Fprintf(&sb, "%d,%d;", c.I, c.J)
	}
	return stateKey{
		Position:     s.Position,
		Facing:       s.Facing,
		HasWeapon:    s.HasWeapon,
		HasSuit:      s.HasSuit,
		IsSuitOn:     s.IsSuitOn,
		IsTargetDown: s.IsTargetDown,
		Emptied:      sb.String(),
	}
}

// Apply simulates one action from s against the fully-known board b,
// returning the resulting state or nil if the action is illegal (spec
// §4.6). Every legal action costs 1 base penalty; witness and kill/
// neutralize/suit surcharges are added on top, and, unless the suit is
// worn, the seen-by-guards surcharge is assessed at the resulting position.
func Apply(action Action, s *State, b *board.Board) *State {
	next := s.Clone()
	next.Penalties++

	seenGuards := SeenByGuards(b, s.Position, s.Emptied)
	seenCivil := SeenByCivil(b, s.Position, s.Emptied)
	seenTotal := seenGuards + seenCivil

	ok := false
	switch action {
	case Move:
		di, dj := s.Facing.Delta()
		dest := board.Coord{I: s.Position.I + di, J: s.Position.J + dj}
		if b.InBounds(dest.I, dest.J) {
			cell := b.MustCell(dest.I, dest.J)
			if !cell.Forbidden() || next.Emptied[dest] {
				next.Position = dest
				ok = true
			}
		}

	case TurnCW:
		next.Facing = s.Facing.TurnCW()
		ok = true

	case TurnCCW:
		next.Facing = s.Facing.TurnCCW()
		ok = true

	case KillTarget:
		cell := b.MustCell(s.Position.I, s.Position.J)
		if s.HasWeapon && cell.Content() == board.Target {
			next.Emptied[s.Position] = true
			next.IsTargetDown = true
			next.Penalties += 100 * seenTotal
			ok = true
		}

	case NeutralizeGuard, NeutralizeGuest:
		want := board.Guard
		if action == NeutralizeGuest {
			want = board.Guest
		}
		di, dj := s.Facing.Delta()
		ahead := board.Coord{I: s.Position.I + di, J: s.Position.J + dj}
		if b.InBounds(ahead.I, ahead.J) {
			cell := b.MustCell(ahead.I, ahead.J)
			if cell.Content() == want && !s.Emptied[ahead] {
				if facing, has := cell.Facing(); !has || facing != s.Facing.Opposite() {
					next.Emptied[ahead] = true
					next.Penalties += 20 + 100*seenTotal
					ok = true
				}
			}
		}

	case TakeSuit:
		cell := b.MustCell(s.Position.I, s.Position.J)
		if !s.HasSuit && cell.Content() == board.Suit {
			next.Emptied[s.Position] = true
			next.HasSuit = true
			ok = true
		}

	case TakeWeapon:
		cell := b.MustCell(s.Position.I, s.Position.J)
		if !s.HasWeapon && cell.Content() == board.Rope {
			next.Emptied[s.Position] = true
			next.HasWeapon = true
			ok = true
		}

	case PutOnSuit:
		if s.HasSuit {
			next.IsSuitOn = true
			next.Penalties += 100 * seenTotal
			ok = true
		}
	}

	if !ok {
		return nil
	}
	if !next.IsSuitOn {
		next.Penalties += 5 * SeenByGuards(b, next.Position, next.Emptied)
	}
	next.History = append(next.History, action)
	return next
}

// Successors returns every state reachable from s in one legal action.
func Successors(s *State, b *board.Board) []*State {
	out := make([]*State, 0, len(allActions))
	for _, a := range allActions {
		if next := Apply(a, s, b); next != nil {
			out = append(out, next)
		}
	}
	return out
}
