package plan

import "github.com/nprevot/hitman/pkg/board"

// SeenByGuards counts the guards that would witness the agent standing at
// pos, on the fully-known board b with emptied cells removed (spec §4.6).
// Standing on a live (non-emptied) guest blocks every guard's view, per the
// disguise rule. Otherwise, for each direction d a guard must stand
// opposite d from pos to see it: its distance-1 cell must be empty (or
// emptied) before the distance-2 cell is checked, since any other content
// there blocks the line of sight entirely.
func SeenByGuards(b *board.Board, pos board.Coord, emptied map[board.Coord]bool) int {
	if cell := b.MustCell(pos.I, pos.J); cell.Content() == board.Guest && !emptied[pos] {
		return 0
	}

	count := 0
	for _, d := range board.Directions() {
		di, dj := d.Opposite().Delta()
		first := board.Coord{I: pos.I + di, J: pos.J + dj}
		if !b.InBounds(first.I, first.J) {
			continue
		}
		firstCell := b.MustCell(first.I, first.J)
		firstClear := emptied[first] || firstCell.Content() == board.Empty
		if !firstClear {
			if firstCell.Content() == board.Guard && !emptied[first] {
				if facing, ok := firstCell.Facing(); ok && facing == d {
					count++
				}
			}
			continue
		}

		second := board.Coord{I: first.I + di, J: first.J + dj}
		if !b.InBounds(second.I, second.J) {
			continue
		}
		secondCell := b.MustCell(second.I, second.J)
		if secondCell.Content() == board.Guard && !emptied[second] {
			if facing, ok := secondCell.Facing(); ok && facing == d {
				count++
			}
		}
	}
	return count
}

// SeenByCivil counts the guests that would witness the agent standing at
// pos (spec §4.6). Guests only see distance-1, with no blocking chain:
// standing on a live guest also reads as one witness (it sees itself being
// impersonated).
func SeenByCivil(b *board.Board, pos board.Coord, emptied map[board.Coord]bool) int {
	if cell := b.MustCell(pos.I, pos.J); cell.Content() == board.Guest && !emptied[pos] {
		return 1
	}

	count := 0
	for _, d := range board.Directions() {
		di, dj := d.Opposite().Delta()
		c := board.Coord{I: pos.I + di, J: pos.J + dj}
		if !b.InBounds(c.I, c.J) {
			continue
		}
		cell := b.MustCell(c.I, c.J)
		if cell.Content() == board.Guest && !emptied[c] {
			if facing, ok := cell.Facing(); ok && facing == d {
				count++
			}
		}
	}
	return count
}
