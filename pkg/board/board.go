package board

import (
	"fmt"
	"strings"

	"github.com/nprevot/hitman/internal/herr"
)

// Board is the M (columns) x N (rows) grid, fixed for the lifetime of a run.
// Cell content is mutated only through the knowledge updater (pkg/knowledge)
// during Phase 1 and frozen once Phase 1 ends.
type Board struct {
	cols, rows int
	cells      [][]Cell // cells[i][j]

	unknownGuestsLeft int
	unknownGuardsLeft int
}

// New creates an M x N board where every cell starts Unknown, with the given
// total guest and guard counts used to drive the known-person counters.
func New(cols, rows, guestCount, guardCount int) *Board {
	cells := make([][]Cell, cols)
	for i := range cells {
		cells[i] = make([]Cell, rows)
	}
	return &Board{
		cols:              cols,
		rows:              rows,
		cells:             cells,
		unknownGuestsLeft: guestCount,
		unknownGuardsLeft: guardCount,
	}
}

// Cols returns M, the board width.
func (b *Board) Cols() int { return b.cols }

// Rows returns N, the board height.
func (b *Board) Rows() int { return b.rows }

// InBounds reports whether (i,j) is on the board.
func (b *Board) InBounds(i, j int) bool {
	return i >= 0 && i < b.cols && j >= 0 && j < b.rows
}

// Cell returns the cell at (i,j).
func (b *Board) Cell(i, j int) (Cell, error) {
	if !b.InBounds(i, j) {
		return Cell{}, fmt.Errorf("cell (%d,%d) out of bounds %dx%d: %w", i, j, b.cols, b.rows, herr.ErrInvalidArgument)
	}
	return b.cells[i][j], nil
}

// MustCell returns the cell at (i,j), panicking if out of bounds. Used
// internally once a caller has already bounds-checked via InBounds.
func (b *Board) MustCell(i, j int) Cell {
	c, err := b.Cell(i, j)
	if err != nil {
		panic(err)
	}
	return c
}

// SetContent sets a cell's content (and facing, for persons). It overwrites
// whatever the cell held before; a second write to a known cell is not
// refused.
func (b *Board) SetContent(i, j int, content Content, facing Direction) error {
	if !b.InBounds(i, j) {
		return fmt.Errorf("cell (%d,%d) out of bounds: %w", i, j, herr.ErrInvalidArgument)
	}
	return b.cells[i][j].setContent(content, facing)
}

// Erase resets a cell to Empty, used by Phase-2 transitions after a kill,
// neutralize, or pickup.
func (b *Board) Erase(i, j int) error {
	if !b.InBounds(i, j) {
		return fmt.Errorf("cell (%d,%d) out of bounds: %w", i, j, herr.ErrInvalidArgument)
	}
	b.cells[i][j].erase()
	return nil
}

// ProveNotGuard sets the monotone proven-not-guard flag on a cell.
func (b *Board) ProveNotGuard(i, j int) error {
	if !b.InBounds(i, j) {
		return fmt.Errorf("cell (%d,%d) out of bounds: %w", i, j, herr.ErrInvalidArgument)
	}
	b.cells[i][j].proveNotGuard()
	return nil
}

// UnknownGuestsLeft returns the current unidentified-guest counter.
func (b *Board) UnknownGuestsLeft() int { return b.unknownGuestsLeft }

// UnknownGuardsLeft returns the current unidentified-guard counter.
func (b *Board) UnknownGuardsLeft() int { return b.unknownGuardsLeft }

// DecrementUnknownGuests decrements the unidentified-guest counter on a
// positive identification. Reaching zero records nothing on the remaining
// cells: Cell has no proven-not-guest flag, and only the guard proof is
// consumed elsewhere (§4.3).
func (b *Board) DecrementUnknownGuests() {
	if b.unknownGuestsLeft > 0 {
		b.unknownGuestsLeft--
	}
	if b.unknownGuestsLeft == 0 {
		b.markAllUnknownProvenNotGuest()
	}
}

// DecrementUnknownGuards decrements the unidentified-guard counter on a
// positive identification. When it reaches zero, every still-unknown cell
// is marked proven-not-guard.
func (b *Board) DecrementUnknownGuards() {
	if b.unknownGuardsLeft > 0 {
		b.unknownGuardsLeft--
	}
	if b.unknownGuardsLeft == 0 {
		b.markAllUnknownProvenNotGuard()
	}
}

func (b *Board) markAllUnknownProvenNotGuard() {
	for i := range b.cells {
		for j := range b.cells[i] {
			if b.cells[i][j].content == Unknown {
				b.cells[i][j].proveNotGuard()
			}
		}
	}
}

// markAllUnknownProvenNotGuest is the guest-side counterpart of
// markAllUnknownProvenNotGuard; it stores nothing, since Cell has no field
// for a guest proof (only the guard proof is consumed by risk scoring).
func (b *Board) markAllUnknownProvenNotGuest() {
	// No consumer currently reads a "proven not guest" flag (§4.3 only
	// specifies proven_not_guard is consumed elsewhere); recorded as a
	// no-op placeholder to keep the symmetric call site self-documenting.
}

// AllKnown reports whether every cell's content has been determined.
func (b *Board) AllKnown() bool {
	for i := range b.cells {
		for j := range b.cells[i] {
			if b.cells[i][j].content == Unknown {
				return false
			}
		}
	}
	return true
}

// UnknownCells returns the coordinates of every cell still Unknown.
func (b *Board) UnknownCells() []Coord {
	var out []Coord
	for i := 0; i < b.cols; i++ {
		for j := 0; j < b.rows; j++ {
			if b.cells[i][j].content == Unknown {
				out = append(out, Coord{i, j})
			}
		}
	}
	return out
}

var glyphs = map[Content]byte{
	Unknown: '?',
	Empty:   '.',
	Wall:    '#',
	Rope:    'R',
	Suit:    'S',
	Target:  'T',
	Guard:   'G',
	Guest:   'g',
}

// Render draws the board as a grid of single-character glyphs, one row of
// text per board row (J descending, so the top of the printed grid is
// J=rows-1), for cmd/hitman's --display mode.
func (b *Board) Render() string {
	var sb strings.Builder
	for j := b.rows - 1; j >= 0; j-- {
		for i := 0; i < b.cols; i++ {
			sb.WriteByte(glyphs[b.cells[i][j].content])
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Neighbors returns the up-to-four orthogonal in-bounds cells around (i,j).
func (b *Board) Neighbors(i, j int) []Coord {
	candidates := [4]Coord{{i - 1, j}, {i + 1, j}, {i, j - 1}, {i, j + 1}}
	out := make([]Coord, 0, 4)
	for _, c := range candidates {
		if b.InBounds(c.I, c.J) {
			out = append(out, c)
		}
	}
	return out
}
