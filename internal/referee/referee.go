// Package referee defines the external oracle interface the agent drives:
// the synchronous operations of spec §6, returning a status record after
// every action.
package referee

import "github.com/nprevot/hitman/pkg/board"

// Observation is one entry of a status's vision list: a seen cell and its
// revealed content (and facing, for persons).
type Observation struct {
	Pos     board.Coord
	Content board.Content
	Facing  board.Direction
}

// Status mirrors the fields a referee reports after every action (spec
// §6). Cols/Rows/GuardCount/CivilCount/FinalScore are only guaranteed to be
// set by the operations that first report them (StartPhase1, EndPhase1,
// EndPhase2); an implementation may fill them on other statuses too.
type Status struct {
	Cols, Rows int
	GuardCount int
	CivilCount int

	Position    board.Coord
	Orientation board.Direction
	Vision      []Observation
	Hear        int
	Penalties   int
	FinalScore  int
}

// Referee is the adjudicating oracle: it supplies observations and
// verifies submissions. Out of scope for this module's core (spec §1); the
// agent only ever talks to it through this interface.
type Referee interface {
	StartPhase1() (Status, error)
	Move() (Status, error)
	TurnClockwise() (Status, error)
	TurnAntiClockwise() (Status, error)
	SendContent(submission map[board.Coord]board.Content) (bool, error)
	EndPhase1() (Status, error)

	StartPhase2() (Status, error)
	KillTarget() (Status, error)
	NeutralizeGuard() (Status, error)
	NeutralizeCivil() (Status, error)
	TakeSuit() (Status, error)
	TakeWeapon() (Status, error)
	PutOnSuit() (Status, error)
	EndPhase2() (Status, error)
}
