package board

import (
	"fmt"

	"github.com/nprevot/hitman/internal/herr"
)

// CellToVar maps a (i,j,kind) triple to its SAT variable number: guest
// variables occupy 1..M*N, guard variables occupy M*N+1..2*M*N, both in
// row-major (i*N+j) order within their block.
func (b *Board) CellToVar(i, j int, kind Content) (int, error) {
	if kind != Guest && kind != Guard {
		return 0, fmt.Errorf("var kind must be guest or guard, got %s: %w", kind, herr.ErrInvalidArgument)
	}
	if !b.InBounds(i, j) {
		return 0, errOutOfBounds(i, j)
	}
	base := i*b.rows + j + 1
	if kind == Guard {
		base += b.cols * b.rows
	}
	return base, nil
}

// VarToCell is the inverse of CellToVar.
func (b *Board) VarToCell(v int) (i, j int, kind Content, err error) {
	total := b.cols * b.rows
	switch {
	case v >= 1 && v <= total:
		kind = Guest
		v0 := v - 1
		return v0 / b.rows, v0 % b.rows, kind, nil
	case v > total && v <= 2*total:
		kind = Guard
		v0 := v - 1 - total
		return v0 / b.rows, v0 % b.rows, kind, nil
	default:
		return 0, 0, Unknown, fmt.Errorf("var %d out of range [1,%d]: %w", v, 2*total, herr.ErrInvalidArgument)
	}
}

func errOutOfBounds(i, j int) error {
	return fmt.Errorf("cell (%d,%d) out of bounds: %w", i, j, herr.ErrInvalidArgument)
}

func errUnreachable(from, to Coord) error {
	return fmt.Errorf("no path from %v to %v: %w", from, to, herr.ErrUnreachable)
}
