// Package memory provides an in-process referee.Referee that adjudicates
// against a hidden ground-truth board, for local runs and tests that have
// no network referee to talk to (spec §6).
package memory

import (
	"fmt"

	"github.com/nprevot/hitman/internal/herr"
	"github.com/nprevot/hitman/internal/referee"
	"github.com/nprevot/hitman/pkg/board"
	"github.com/nprevot/hitman/pkg/plan"
)

type runPhase int

const (
	notStarted runPhase = iota
	inPhase1
	phase1Done
	inPhase2
	phase2Done
)

// Referee drives every action through plan.Apply against the hidden
// ground-truth board, so Phase-1 movement/turning and Phase-2's full
// action alphabet share one rule implementation. Phase 1 never empties a
// cell, so plan.Apply's emptied-set exception never fires there; it
// reduces to a plain forbidden-cell check, matching the referee's phase-1
// contract exactly.
type Referee struct {
	ground     *board.Board
	guardCount int
	civilCount int

	state *plan.State
	phase runPhase
}

var _ referee.Referee = (*Referee)(nil)

// New builds a memory referee. start/facing are the agent's initial
// position and orientation; guardCount/civilCount are reported verbatim in
// start_phase1's status.
func New(ground *board.Board, start board.Coord, facing board.Direction, guardCount, civilCount int) *Referee {
	return &Referee{
		ground:     ground,
		guardCount: guardCount,
		civilCount: civilCount,
		state:      plan.NewState(start, facing),
	}
}

func (r *Referee) observe(c board.Coord) referee.Observation {
	if r.state.Emptied[c] {
		return referee.Observation{Pos: c, Content: board.Empty}
	}
	cell := r.ground.MustCell(c.I, c.J)
	facing, _ := cell.Facing()
	return referee.Observation{Pos: c, Content: cell.Content(), Facing: facing}
}

// visibleFrom reports the agent's own cell plus up to 3 cells ahead,
// truncating at the first non-empty, non-emptied cell: that cell (a wall
// or guard included) is reported, everything past it is not.
func (r *Referee) visibleFrom(pos board.Coord, facing board.Direction) []referee.Observation {
	obs := []referee.Observation{r.observe(pos)}
	di, dj := facing.Delta()
	for dist := 1; dist <= 3; dist++ {
		c := board.Coord{I: pos.I + di*dist, J: pos.J + dj*dist}
		if !r.ground.InBounds(c.I, c.J) {
			break
		}
		o := r.observe(c)
		obs = append(obs, o)
		if o.Content != board.Empty {
			break
		}
	}
	return obs
}

// hearAt counts live (non-emptied) persons in the 5x5 audible square,
// saturating at 5.
func (r *Referee) hearAt(pos board.Coord) int {
	count := 0
	for _, c := range r.ground.AudibleCells(pos.I, pos.J) {
		if r.state.Emptied[c] {
			continue
		}
		if r.ground.MustCell(c.I, c.J).Content().IsPerson() {
			count++
		}
	}
	if count > 5 {
		count = 5
	}
	return count
}

func (r *Referee) status() referee.Status {
	return referee.Status{
		Cols:        r.ground.Cols(),
		Rows:        r.ground.Rows(),
		GuardCount:  r.guardCount,
		CivilCount:  r.civilCount,
		Position:    r.state.Position,
		Orientation: r.state.Facing,
		Vision:      r.visibleFrom(r.state.Position, r.state.Facing),
		Hear:        r.hearAt(r.state.Position),
		Penalties:   r.state.Penalties,
	}
}

func (r *Referee) requireActive() error {
	if r.phase != inPhase1 && r.phase != inPhase2 {
		return fmt.Errorf("action attempted with no phase active: %w", herr.ErrStateUninitialized)
	}
	return nil
}

func (r *Referee) apply(action plan.Action) (referee.Status, error) {
	if err := r.requireActive(); err != nil {
		return referee.Status{}, err
	}
	next := plan.Apply(action, r.state, r.ground)
	if next == nil {
		return referee.Status{}, fmt.Errorf("%s is illegal from the current state: %w", action, herr.ErrInvalidArgument)
	}
	r.state = next
	return r.status(), nil
}

// StartPhase1 begins the run at the position New was constructed with.
func (r *Referee) StartPhase1() (referee.Status, error) {
	if r.phase != notStarted {
		return referee.Status{}, fmt.Errorf("start_phase1 called twice: %w", herr.ErrInvalidArgument)
	}
	r.phase = inPhase1
	return r.status(), nil
}

func (r *Referee) Move() (referee.Status, error)             { return r.apply(plan.Move) }
func (r *Referee) TurnClockwise() (referee.Status, error)     { return r.apply(plan.TurnCW) }
func (r *Referee) TurnAntiClockwise() (referee.Status, error) { return r.apply(plan.TurnCCW) }

// SendContent compares submission against the hidden ground truth cell by
// cell; any mismatch or omission rejects the submission.
func (r *Referee) SendContent(submission map[board.Coord]board.Content) (bool, error) {
	if r.phase != inPhase1 {
		return false, fmt.Errorf("send_content called outside phase 1: %w", herr.ErrInvalidArgument)
	}
	for i := 0; i < r.ground.Cols(); i++ {
		for j := 0; j < r.ground.Rows(); j++ {
			got, ok := submission[board.Coord{I: i, J: j}]
			if !ok || got != r.ground.MustCell(i, j).Content() {
				return false, nil
			}
		}
	}
	return true, nil
}

// EndPhase1 reports the phase-1 score: 2*cols*rows minus accumulated
// penalties (spec §8 scenario 1).
func (r *Referee) EndPhase1() (referee.Status, error) {
	if r.phase != inPhase1 {
		return referee.Status{}, fmt.Errorf("end_phase1 called outside phase 1: %w", herr.ErrInvalidArgument)
	}
	r.phase = phase1Done
	st := r.status()
	st.FinalScore = 2*r.ground.Cols()*r.ground.Rows() - r.state.Penalties
	return st, nil
}

// StartPhase2 hands control to the planner; the agent's position/facing
// and penalty total carry over from phase 1 unchanged.
func (r *Referee) StartPhase2() (referee.Status, error) {
	if r.phase != phase1Done {
		return referee.Status{}, fmt.Errorf("start_phase2 called before phase 1 ended: %w", herr.ErrInvalidArgument)
	}
	r.phase = inPhase2
	return r.status(), nil
}

func (r *Referee) KillTarget() (referee.Status, error)      { return r.apply(plan.KillTarget) }
func (r *Referee) NeutralizeGuard() (referee.Status, error) { return r.apply(plan.NeutralizeGuard) }
func (r *Referee) NeutralizeCivil() (referee.Status, error) { return r.apply(plan.NeutralizeGuest) }
func (r *Referee) TakeSuit() (referee.Status, error)        { return r.apply(plan.TakeSuit) }
func (r *Referee) TakeWeapon() (referee.Status, error)      { return r.apply(plan.TakeWeapon) }
func (r *Referee) PutOnSuit() (referee.Status, error)       { return r.apply(plan.PutOnSuit) }

// EndPhase2 reports the phase-2 score as negated accumulated penalties,
// mirroring the sign convention of the original scoring scheme.
func (r *Referee) EndPhase2() (referee.Status, error) {
	if r.phase != inPhase2 {
		return referee.Status{}, fmt.Errorf("end_phase2 called outside phase 2: %w", herr.ErrInvalidArgument)
	}
	r.phase = phase2Done
	st := r.status()
	st.FinalScore = -r.state.Penalties
	return st, nil
}
