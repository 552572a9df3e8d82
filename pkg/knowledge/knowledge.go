// Package knowledge merges referee observations into a Board and an
// append-only CNF clause log, and answers risk/distance queries over the
// resulting uncertain state.
package knowledge

import (
	"fmt"

	"github.com/nprevot/hitman/pkg/board"
	"github.com/nprevot/hitman/pkg/clauses"
)

// PendingPair is the hypothesis "exactly one of A, B holds a guard facing
// Direction", queued when penalty evidence identifies a direction with two
// still-unknown collinear candidates.
type PendingPair struct {
	A, B      board.Coord
	Direction board.Direction
}

// Vision is one entry of a referee status's vision list.
type Vision struct {
	Pos     board.Coord
	Content board.Content
	Facing  board.Direction // only meaningful when Content.IsPerson()
}

// Status mirrors the referee's per-action report (spec §6).
type Status struct {
	Position  board.Coord
	Facing    board.Direction
	Vision    []Vision
	Hear      int
	Penalties int
}

// SATMode controls when Risk is allowed to fall back on a solver query.
type SATMode int

const (
	SATAuto SATMode = iota
	SATAlways
	SATNever
)

// ParseSATMode maps a --sat-style flag value to a SATMode, defaulting "" to
// SATAuto so it can double as a form field default.
func ParseSATMode(s string) (SATMode, error) {
	switch s {
	case "", "auto":
		return SATAuto, nil
	case "sat":
		return SATAlways, nil
	case "no_sat":
		return SATNever, nil
	default:
		return 0, fmt.Errorf("unrecognized SAT mode %q", s)
	}
}

type visitKey struct {
	Pos    board.Coord
	Facing board.Direction
}

// Base is the knowledge base: the board it annotates, its CNF log, and the
// bookkeeping (visited sets, penalty map, pending pairs) the three evidence
// channels in Update need to avoid redundant work.
type Base struct {
	Board *board.Board

	clauses []clauses.Clause
	numVars int
	satMode SATMode

	visitedPositions map[board.Coord]bool
	visitedStates    map[visitKey]bool
	hearingDone      map[board.Coord]bool
	penaltyMap       map[board.Coord]int
	pending          []PendingPair
	prevPenalties    int
}

// New builds a knowledge base over b, seeded with the one clause set that
// does not come from observation: no cell may be both a guest and a guard.
func New(b *board.Board, mode SATMode) *Base {
	kb := &Base{
		Board:            b,
		numVars:          2 * b.Cols() * b.Rows(),
		satMode:          mode,
		visitedPositions: make(map[board.Coord]bool),
		visitedStates:    make(map[visitKey]bool),
		hearingDone:      make(map[board.Coord]bool),
		penaltyMap:       make(map[board.Coord]int),
	}
	kb.clauses = initialClauses(b)
	return kb
}

func initialClauses(b *board.Board) []clauses.Clause {
	var guestVars, guardVars []int
	for i := 0; i < b.Cols(); i++ {
		for j := 0; j < b.Rows(); j++ {
			gv, _ := b.CellToVar(i, j, board.Guest)
			gdv, _ := b.CellToVar(i, j, board.Guard)
			guestVars = append(guestVars, gv)
			guardVars = append(guardVars, gdv)
		}
	}
	return clauses.PairwiseExclude(guestVars, guardVars)
}

// Clauses returns the current base clause log (append-only; never mutated
// by a Risk query).
func (kb *Base) Clauses() []clauses.Clause { return kb.clauses }

// NumVars returns 2*M*N, the variable count the solver needs.
func (kb *Base) NumVars() int { return kb.numVars }

// PenaltyMapEntry reports the known per-visit guard-sighting count for a
// cell, if it has been visited.
func (kb *Base) PenaltyMapEntry(c board.Coord) (int, bool) {
	m, ok := kb.penaltyMap[c]
	return m, ok
}

func (kb *Base) addClauses(cs []clauses.Clause) {
	kb.clauses = append(kb.clauses, cs...)
}

// withExtra returns a defensive copy of the base clause log plus one extra
// clause, never aliasing kb.clauses's backing array — the scoped
// clone-and-restore pattern §5 requires for hypothetical SAT queries.
func (kb *Base) withExtra(extra clauses.Clause) []clauses.Clause {
	out := make([]clauses.Clause, len(kb.clauses)+1)
	copy(out, kb.clauses)
	out[len(kb.clauses)] = extra
	return out
}

// Update folds one referee status into the board and clause log: penalty
// evidence, then vision, then hearing (spec §4.3). Each channel gates
// itself on its own "first visit" bookkeeping so calling Update after every
// action is always safe to repeat.
func (kb *Base) Update(status Status) error {
	if err := kb.updatePenalties(status); err != nil {
		return fmt.Errorf("update penalties: %w", err)
	}
	if err := kb.updateVision(status); err != nil {
		return fmt.Errorf("update vision: %w", err)
	}
	if err := kb.updateHearing(status); err != nil {
		return fmt.Errorf("update hearing: %w", err)
	}
	return nil
}

func (kb *Base) updatePenalties(status Status) error {
	pos := status.Position

	delta := (status.Penalties - kb.prevPenalties) - 1
	kb.prevPenalties = status.Penalties

	if kb.visitedPositions[pos] {
		return nil
	}
	kb.visitedPositions[pos] = true

	seenCount := delta / 5
	if seenCount < 0 {
		seenCount = 0
	}
	kb.penaltyMap[pos] = seenCount
	if seenCount == 0 {
		return nil
	}

	candidates := kb.Board.GuardCandidates(pos.I, pos.J)
	var allVars []int
	nonEmptyDirs := 0
	for _, d := range board.Directions() {
		cs := candidates[d]
		if len(cs) > 0 {
			nonEmptyDirs++
		}
		for _, c := range cs {
			v, err := kb.Board.CellToVar(c.I, c.J, board.Guard)
			if err != nil {
				return err
			}
			allVars = append(allVars, v)
		}
	}
	atLeastSeen, err := clauses.AtLeast(seenCount, allVars)
	if err != nil {
		return fmt.Errorf("penalty-derived guard count: %w", err)
	}
	kb.addClauses(atLeastSeen)

	if nonEmptyDirs != seenCount {
		return nil
	}
	for _, d := range board.Directions() {
		cs := candidates[d]
		if len(cs) == 0 {
			continue
		}
		var dirVars []int
		for _, c := range cs {
			v, err := kb.Board.CellToVar(c.I, c.J, board.Guard)
			if err != nil {
				return err
			}
			dirVars = append(dirVars, v)
		}
		atLeastOne, err := clauses.AtLeast(1, dirVars)
		if err != nil {
			return fmt.Errorf("per-direction guard presence: %w", err)
		}
		kb.addClauses(atLeastOne)
		if len(cs) == 1 {
			if err := kb.commitGuard(cs[0], d); err != nil {
				return err
			}
		} else {
			kb.pending = append(kb.pending, PendingPair{A: cs[0], B: cs[1], Direction: d})
		}
	}
	return nil
}

func (kb *Base) updateVision(status Status) error {
	key := visitKey{Pos: status.Position, Facing: status.Facing}
	if kb.visitedStates[key] {
		return nil
	}
	kb.visitedStates[key] = true

	for _, v := range status.Vision {
		cell, err := kb.Board.Cell(v.Pos.I, v.Pos.J)
		if err != nil {
			return err
		}
		if cell.Known() {
			continue
		}
		if err := kb.Board.SetContent(v.Pos.I, v.Pos.J, v.Content, v.Facing); err != nil {
			return err
		}
		guestVar, err := kb.Board.CellToVar(v.Pos.I, v.Pos.J, board.Guest)
		if err != nil {
			return err
		}
		guardVar, err := kb.Board.CellToVar(v.Pos.I, v.Pos.J, board.Guard)
		if err != nil {
			return err
		}
		switch v.Content {
		case board.Guest:
			kb.addClauses([]clauses.Clause{{clauses.Literal(guestVar)}, {clauses.Literal(-guardVar)}})
			kb.Board.DecrementUnknownGuests()
		case board.Guard:
			kb.addClauses([]clauses.Clause{{clauses.Literal(guardVar)}, {clauses.Literal(-guestVar)}})
			kb.Board.DecrementUnknownGuards()
		default:
			kb.addClauses([]clauses.Clause{{clauses.Literal(-guestVar)}, {clauses.Literal(-guardVar)}})
		}
	}
	kb.resolvePendingPairs()
	return nil
}

func (kb *Base) updateHearing(status Status) error {
	pos := status.Position
	if kb.hearingDone[pos] {
		return nil
	}
	kb.hearingDone[pos] = true

	h := status.Hear
	if h > 5 {
		h = 5
	}

	audible := kb.Board.AudibleCells(pos.I, pos.J)
	var unknownVars []int
	knownPersons := 0
	for _, c := range audible {
		cell := kb.Board.MustCell(c.I, c.J)
		if cell.Known() {
			if cell.Content().IsPerson() {
				knownPersons++
			}
			continue
		}
		gv, err := kb.Board.CellToVar(c.I, c.J, board.Guest)
		if err != nil {
			return err
		}
		gdv, err := kb.Board.CellToVar(c.I, c.J, board.Guard)
		if err != nil {
			return err
		}
		unknownVars = append(unknownVars, gv, gdv)
	}

	if h < 5 {
		h -= knownPersons
		if h < 0 {
			h = 0
		}
		exactly, err := clauses.Exactly(h, unknownVars)
		if err != nil {
			return fmt.Errorf("hearing-derived person count: %w", err)
		}
		kb.addClauses(exactly)
	} else {
		atLeast, err := clauses.AtLeast(5, unknownVars)
		if err != nil {
			return fmt.Errorf("hearing-derived person count: %w", err)
		}
		kb.addClauses(atLeast)
	}
	return nil
}

// commitGuard sets a still-unknown cell's content to a guard facing d,
// asserts the corresponding unit clause, and decrements the unknown-guard
// counter. A no-op if the cell turned out to already be known (e.g. a
// pending pair whose other member was independently resolved first).
func (kb *Base) commitGuard(c board.Coord, d board.Direction) error {
	cell, err := kb.Board.Cell(c.I, c.J)
	if err != nil {
		return err
	}
	if cell.Known() {
		return nil
	}
	if err := kb.Board.SetContent(c.I, c.J, board.Guard, d); err != nil {
		return err
	}
	v, err := kb.Board.CellToVar(c.I, c.J, board.Guard)
	if err != nil {
		return err
	}
	kb.addClauses([]clauses.Clause{{clauses.Literal(v)}})
	kb.Board.DecrementUnknownGuards()
	kb.resolvePendingPairs()
	return nil
}

// isAssertedGuard reports whether a known cell is the guard a pending
// pair's hypothesis names: a guard facing d, not merely any guard.
func isAssertedGuard(cell board.Cell, d board.Direction) bool {
	if cell.Content() != board.Guard {
		return false
	}
	facing, ok := cell.Facing()
	return ok && facing == d
}

// resolvePendingPairs commits the other member of any pending pair whose
// first member turned out not to be the asserted guard (a guard facing
// the pair's direction).
func (kb *Base) resolvePendingPairs() {
	var remaining []PendingPair
	for _, p := range kb.pending {
		aCell := kb.Board.MustCell(p.A.I, p.A.J)
		bCell := kb.Board.MustCell(p.B.I, p.B.J)
		switch {
		case aCell.Known() && !isAssertedGuard(aCell, p.Direction):
			kb.commitGuard(p.B, p.Direction)
		case bCell.Known() && !isAssertedGuard(bCell, p.Direction):
			kb.commitGuard(p.A, p.Direction)
		case aCell.Known() || bCell.Known():
			// one side is already the asserted guard; nothing left to do.
		default:
			remaining = append(remaining, p)
		}
	}
	kb.pending = remaining
}
