package knowledge

import (
	"github.com/nprevot/hitman/internal/satsolver"
	"github.com/nprevot/hitman/pkg/board"
	"github.com/nprevot/hitman/pkg/clauses"
)

// Risk ranks how dangerous it is to stand on (i,j), encoding the pair
// (guaranteed-guards, possible-guards) as 4*min+max so that sorting by the
// integer sorts primarily by guaranteed danger and secondarily by
// possibility (spec §4.4). wantSAT is the caller's preference; the
// base's SATMode can force it on or off regardless.
func (kb *Base) Risk(i, j int, wantSAT bool) (int, error) {
	cell, err := kb.Board.Cell(i, j)
	if err != nil {
		return 0, err
	}
	if cell.Content() == board.Guest {
		return 0, nil
	}
	if m, ok := kb.penaltyMap[board.Coord{I: i, J: j}]; ok {
		return 5 * m, nil
	}

	useSAT := wantSAT
	switch kb.satMode {
	case SATAlways:
		useSAT = true
	case SATNever:
		useSAT = false
	}

	sumMin, sumMax := 0, 0
	candidates := kb.Board.GuardCandidates(i, j)
	for _, d := range board.Directions() {
		min, max, err := kb.directionRisk(candidates[d], d, useSAT)
		if err != nil {
			return 0, err
		}
		sumMin += min
		sumMax += max
	}

	if cell.Content() == board.Unknown && kb.Board.UnknownGuestsLeft() > 0 {
		sumMin = 0
	}
	return 4*sumMin + sumMax, nil
}

func (kb *Base) directionRisk(candidates []board.Coord, d board.Direction, useSAT bool) (min, max int, err error) {
	for _, c := range candidates {
		cell := kb.Board.MustCell(c.I, c.J)
		if cell.Content() == board.Guard {
			if facing, ok := cell.Facing(); ok && facing == d {
				return 1, 1, nil
			}
		}
	}

	for _, c := range candidates {
		cell := kb.Board.MustCell(c.I, c.J)
		if cell.ProvenNotGuard() {
			continue
		}
		if useSAT && cell.Content() == board.Unknown {
			guardVar, err := kb.Board.CellToVar(c.I, c.J, board.Guard)
			if err != nil {
				return 0, 0, err
			}
			sat, err := satsolver.Satisfiable(kb.withExtra(clauses.Clause{clauses.Literal(guardVar)}), kb.numVars)
			if err != nil {
				return 0, 0, err
			}
			if !sat {
				if err := kb.Board.ProveNotGuard(c.I, c.J); err != nil {
					return 0, 0, err
				}
				continue
			}
			return 0, 1, nil
		}
		return 0, 1, nil
	}
	return 0, 0, nil
}
