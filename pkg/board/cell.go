// Package board models the grid world: cell contents, the four-directional
// geometry the knowledge updater and risk scorer query, and the
// position<->SAT-variable bijection the knowledge base is built on.
package board

import "fmt"

// Content is the tagged-union content of a cell.
type Content int

const (
	Unknown Content = iota
	Empty
	Wall
	Rope
	Suit
	Target
	Guard
	Guest
)

func (c Content) String() string {
	switch c {
	case Unknown:
		return "unknown"
	case Empty:
		return "empty"
	case Wall:
		return "wall"
	case Rope:
		return "rope"
	case Suit:
		return "suit"
	case Target:
		return "target"
	case Guard:
		return "guard"
	case Guest:
		return "guest"
	default:
		return fmt.Sprintf("content(%d)", int(c))
	}
}

// IsPerson reports whether the content is a guard or guest, the only
// variants that carry a facing direction.
func (c Content) IsPerson() bool { return c == Guard || c == Guest }

// Direction is a compass direction, also used as a facing.
type Direction int

const (
	North Direction = iota // "up", +j
	East                   // "right", +i
	South                  // "down", -j
	West                   // "left", -i
)

var directions = [4]Direction{North, East, South, West}

// Directions returns the four compass directions in a fixed order.
func Directions() [4]Direction { return directions }

func (d Direction) String() string {
	switch d {
	case North:
		return "N"
	case East:
		return "E"
	case South:
		return "S"
	case West:
		return "W"
	default:
		return fmt.Sprintf("dir(%d)", int(d))
	}
}

// Opposite returns the reverse direction.
func (d Direction) Opposite() Direction {
	switch d {
	case North:
		return South
	case South:
		return North
	case East:
		return West
	default:
		return East
	}
}

// TurnCW returns the direction one quarter-turn clockwise (as seen from
// above: N->E->S->W->N).
func (d Direction) TurnCW() Direction {
	return (d + 1) % 4
}

// TurnCCW returns the direction one quarter-turn counter-clockwise.
func (d Direction) TurnCCW() Direction {
	return (d + 3) % 4
}

// Delta returns the (di, dj) unit step for moving one cell in this
// direction: right=+i, up=+j, left=-i, down=-j.
func (d Direction) Delta() (di, dj int) {
	switch d {
	case North:
		return 0, 1
	case East:
		return 1, 0
	case South:
		return 0, -1
	case West:
		return -1, 0
	default:
		return 0, 0
	}
}

// Coord is a board position.
type Coord struct{ I, J int }

// Cell is one board square: content, facing (only meaningful for persons),
// and the monotone proven-not-guard flag.
type Cell struct {
	content        Content
	facing         Direction
	hasFacing      bool
	provenNotGuard bool
}

// Content returns the cell's content tag.
func (c Cell) Content() Content { return c.content }

// Facing returns the cell's facing direction and whether it has one (only
// guard/guest cells do).
func (c Cell) Facing() (Direction, bool) { return c.facing, c.hasFacing }

// Known reports whether the cell's content has been determined.
func (c Cell) Known() bool { return c.content != Unknown }

// ProvenNotGuard reports the monotone "this cell cannot contain a guard" flag.
func (c Cell) ProvenNotGuard() bool { return c.provenNotGuard }

// Forbidden reports whether the agent may not stand on this cell in Phase 1:
// known walls and known guards.
func (c Cell) Forbidden() bool { return c.content == Wall || c.content == Guard }

// setContent overwrites the cell's content and facing unconditionally; it
// does not refuse a second write to an already-known cell.
func (c *Cell) setContent(content Content, facing Direction) error {
	if content.IsPerson() {
		c.facing = facing
		c.hasFacing = true
	} else {
		c.hasFacing = false
	}
	c.content = content
	return nil
}

// erase resets a cell's content to Empty, used by Phase-2 transitions after
// a kill, neutralize, or pickup.
func (c *Cell) erase() {
	c.content = Empty
	c.hasFacing = false
}

// proveNotGuard sets the proven-not-guard flag. Monotone: never clears it.
func (c *Cell) proveNotGuard() {
	c.provenNotGuard = true
}
