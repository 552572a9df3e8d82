package memory

import "github.com/nprevot/hitman/pkg/board"

// Scenario is a hand-built ground-truth board plus the agent's starting
// position, used both by this package's own tests and by cmd/hitman's
// --scenario flag when --referee is left empty (spec §8).
type Scenario struct {
	Name       string
	Ground     *board.Board
	Start      board.Coord
	Facing     board.Direction
	GuardCount int
	CivilCount int
}

// Scenario1EmptyBoard is spec §8 scenario 1: a 2x2 empty board, start
// (0,0) facing East. Phase 1 should reveal all three unknown cells
// without penalty; score = 2*2*2 - 0 = 8.
func Scenario1EmptyBoard() Scenario {
	b := board.New(2, 2, 0, 0)
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			b.SetContent(i, j, board.Empty, board.North)
		}
	}
	return Scenario{Name: "empty-2x2", Ground: b, Start: board.Coord{I: 0, J: 0}, Facing: board.East}
}

// Scenario2GuardNearStart is spec §8 scenario 2: a 3x3 board with a guard
// at (2,1) facing West, start (0,0) facing East. The agent must not step
// onto (1,1) before proving (2,1) safe.
func Scenario2GuardNearStart() Scenario {
	b := board.New(3, 3, 0, 1)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			b.SetContent(i, j, board.Empty, board.North)
		}
	}
	b.SetContent(2, 1, board.Guard, board.West)
	return Scenario{Name: "guard-near-start", Ground: b, Start: board.Coord{I: 0, J: 0}, Facing: board.East, GuardCount: 1}
}

// Scenario4Phase2Trivial is spec §8 scenario 4: a 3x3 board, rope at
// (1,0), target at (2,2), no guards.
func Scenario4Phase2Trivial() Scenario {
	b := board.New(3, 3, 0, 0)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			b.SetContent(i, j, board.Empty, board.North)
		}
	}
	b.SetContent(1, 0, board.Rope, board.North)
	b.SetContent(2, 2, board.Target, board.North)
	return Scenario{Name: "phase2-trivial", Ground: b, Start: board.Coord{I: 0, J: 0}, Facing: board.East}
}

// Scenario5GuardInPath is spec §8 scenario 5: a guard faces away from the
// only path to the target on a 1-wide corridor with no detour, so the
// planner has to neutralize it (cost +20) to get through.
func Scenario5GuardInPath() Scenario {
	b := board.New(3, 1, 0, 1)
	b.SetContent(0, 0, board.Rope, board.North) // the weapon lies on the start cell
	b.SetContent(1, 0, board.Guard, board.North) // faces away from the agent's east-facing approach
	b.SetContent(2, 0, board.Target, board.North)
	return Scenario{Name: "guard-in-path", Ground: b, Start: board.Coord{I: 0, J: 0}, Facing: board.East, GuardCount: 1}
}

// Scenario6CostumeOption is spec §8 scenario 6: the suit sits just north
// of the start, off the route to the weapon, and a guard watches (2,0), the
// only crossing point on the way to the weapon and back. The detour for the
// suit does not pay off within the weapon leg alone, so the default
// sequence never takes it (24 penalty); fetching and wearing it first saves
// 5 penalty on both crossings of the watched cell, so costume_combinations
// picks the suit-at-start variant (22 penalty).
func Scenario6CostumeOption() Scenario {
	b := board.New(6, 2, 0, 1)
	for i := 0; i < 6; i++ {
		for j := 0; j < 2; j++ {
			b.SetContent(i, j, board.Empty, board.North)
		}
	}
	b.SetContent(0, 1, board.Suit, board.North)
	b.SetContent(2, 1, board.Guard, board.South) // the only crossing at i=2 is watched from here
	b.SetContent(3, 0, board.Rope, board.North)
	b.SetContent(5, 0, board.Target, board.North)
	return Scenario{Name: "costume-option", Ground: b, Start: board.Coord{I: 0, J: 0}, Facing: board.East, GuardCount: 1}
}
