// Package explore drives Phase 1: an unknown-board controller that picks
// the cheapest still-unknown cell to resolve, walks toward a cell with
// line of sight to it, and turns to reveal its content (spec §4.5).
package explore

import (
	"errors"
	"fmt"

	"github.com/nprevot/hitman/internal/herr"
	"github.com/nprevot/hitman/internal/referee"
	"github.com/nprevot/hitman/pkg/board"
	"github.com/nprevot/hitman/pkg/knowledge"
)

// Controller holds the live game position alongside the knowledge base it
// keeps in sync with every referee action.
type Controller struct {
	ref   referee.Referee
	kb    *knowledge.Base
	board *board.Board

	pos    board.Coord
	facing board.Direction
}

// StartPhase1 starts a run: it asks the referee for the initial status,
// builds a fresh board and knowledge base sized from it, and folds the
// initial observation in.
func StartPhase1(ref referee.Referee, mode knowledge.SATMode) (*Controller, error) {
	st, err := ref.StartPhase1()
	if err != nil {
		return nil, err
	}
	b := board.New(st.Cols, st.Rows, st.CivilCount, st.GuardCount)
	kb := knowledge.New(b, mode)
	c := &Controller{ref: ref, kb: kb, board: b, pos: st.Position, facing: st.Orientation}
	if err := c.applyStatus(st); err != nil {
		return nil, err
	}
	return c, nil
}

// Knowledge returns the controller's knowledge base, for callers (e.g. the
// phase-2 handoff) that need the fully-resolved board once Run returns.
func (c *Controller) Knowledge() *knowledge.Base { return c.kb }

// Position returns the agent's current cell and facing.
func (c *Controller) Position() (board.Coord, board.Direction) { return c.pos, c.facing }

// Run drives next_goal/explore to completion: until every cell is known or
// no unknown cell remains reachable, pick a goal and resolve it. A goal
// that turns out unreachable via line of sight is skipped, not fatal; the
// skip set resets each time a goal is resolved, since a newly-revealed cell
// can open a path that was previously blocked.
func (c *Controller) Run() error {
	skip := make(map[board.Coord]bool)
	for !c.board.AllKnown() {
		goal, ok, err := c.nextGoal(skip)
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		if err := c.Explore(goal); err != nil {
			if errors.Is(err, herr.ErrUnreachable) {
				skip[goal] = true
				continue
			}
			return err
		}
		skip = make(map[board.Coord]bool)
	}
	return nil
}

// NextGoal runs minimum_penalty_map seeded at the agent's own position and
// returns the cheapest still-unknown cell, tie-broken by min_distance.
func (c *Controller) NextGoal() (board.Coord, bool, error) {
	return c.nextGoal(nil)
}

func (c *Controller) nextGoal(skip map[board.Coord]bool) (board.Coord, bool, error) {
	unknown := c.board.UnknownCells()
	if len(unknown) == 0 {
		return board.Coord{}, false, nil
	}
	dist, err := c.kb.MinimumPenaltyMap(c.pos, c.board.Neighbors(c.pos.I, c.pos.J))
	if err != nil {
		return board.Coord{}, false, err
	}

	var best board.Coord
	bestCost, bestDist := 0, 0
	found := false
	for _, u := range unknown {
		if skip[u] {
			continue
		}
		cost, ok := dist[u]
		if !ok {
			continue
		}
		d, err := c.board.MinDistance(c.pos, u)
		if err != nil {
			continue
		}
		if !found || cost < bestCost || (cost == bestCost && d < bestDist) {
			best, bestCost, bestDist, found = u, cost, d, true
		}
	}
	if !found {
		return board.Coord{}, false, nil
	}
	return best, true, nil
}

// Explore walks toward goal and turns to reveal it, per spec §4.5: compute
// goal's vantage set (the union of sight_line(goal,d) over all d); while
// not on a vantage and goal is still unknown, take next_step; once on a
// vantage, turn_toward(goal). If goal is still unknown afterward and the
// agent didn't evade, that vantage is blocked (a wall discovered along the
// sight line) — recompute the vantage set and keep trying; if the vantage
// set is ever empty, the goal is unreachable.
func (c *Controller) Explore(goal board.Coord) error {
	for {
		if c.board.MustCell(goal.I, goal.J).Content() != board.Unknown {
			return nil
		}
		vantages := c.vantagesOf(goal)
		if len(vantages) == 0 {
			return herr.ErrUnreachable
		}

		for !c.onVantage(vantages) && c.board.MustCell(goal.I, goal.J).Content() == board.Unknown {
			next, err := c.nextStep(vantages)
			if err != nil {
				return err
			}
			evaded, facing, err := c.turnToward(next, vantages)
			if err != nil {
				return err
			}
			if evaded || !facing {
				continue
			}
			if err := c.move(); err != nil {
				return err
			}
		}
		if c.board.MustCell(goal.I, goal.J).Content() != board.Unknown {
			return nil
		}
		if !c.onVantage(vantages) {
			// the while loop above exited for another reason (shouldn't
			// happen); recompute and retry.
			continue
		}

		// A vantage can lie up to three cells from goal along a straight
		// line; turnToward takes the adjacent cell in goal's direction.
		look := c.pos
		switch {
		case goal.I > c.pos.I:
			look.I++
		case goal.I < c.pos.I:
			look.I--
		case goal.J > c.pos.J:
			look.J++
		case goal.J < c.pos.J:
			look.J--
		}
		evaded, facing, err := c.turnToward(look, vantages)
		if err != nil {
			return err
		}
		if evaded {
			continue
		}
		if facing && c.board.MustCell(goal.I, goal.J).Content() != board.Unknown {
			return nil
		}
		// vantage didn't resolve the goal (a closer blocker was revealed
		// along the sight line); loop to recompute the vantage set.
	}
}

func (c *Controller) onVantage(vantages []board.Coord) bool {
	for _, v := range vantages {
		if v == c.pos {
			return true
		}
	}
	return false
}

func (c *Controller) vantagesOf(goal board.Coord) []board.Coord {
	seen := make(map[board.Coord]bool)
	var out []board.Coord
	for _, d := range board.Directions() {
		for _, v := range c.board.SightLine(goal.I, goal.J, d) {
			if !seen[v] {
				seen[v] = true
				out = append(out, v)
			}
		}
	}
	return out
}

// nextStep picks the non-forbidden neighbor minimizing, over all vantages,
// minimum_penalty_map(vantage, neighbors)[neighbor]; ties break on
// min_distance from the agent.
func (c *Controller) nextStep(vantages []board.Coord) (board.Coord, error) {
	neighbors := c.board.Neighbors(c.pos.I, c.pos.J)

	var best board.Coord
	bestCost, bestDist := 0, 0
	found := false
	for _, v := range vantages {
		dist, err := c.kb.MinimumPenaltyMap(v, neighbors)
		if err != nil {
			return board.Coord{}, err
		}
		for _, n := range neighbors {
			if c.board.MustCell(n.I, n.J).Forbidden() {
				continue
			}
			cost, ok := dist[n]
			if !ok {
				continue
			}
			d, err := c.board.MinDistance(c.pos, n)
			if err != nil {
				continue
			}
			if !found || cost < bestCost || (cost == bestCost && d < bestDist) {
				best, bestCost, bestDist, found = n, cost, d, true
			}
		}
	}
	if !found {
		return board.Coord{}, herr.ErrUnreachable
	}
	return best, nil
}

// turnToward executes one action (a quarter turn, a self-preservation
// move, or a two-quarter rotation) toward facing target, which must be
// orthogonally adjacent to the agent's position. evaded reports whether it
// moved instead of turning; facingTarget reports whether the agent faces
// target once the call returns.
func (c *Controller) turnToward(target board.Coord, vantages []board.Coord) (evaded, facingTarget bool, err error) {
	wantDir, err := directionBetween(c.pos, target)
	if err != nil {
		return false, false, err
	}
	if c.facing == wantDir {
		return false, true, nil
	}

	if c.isBeingSeen() {
		di, dj := c.facing.Delta()
		ahead := board.Coord{I: c.pos.I + di, J: c.pos.J + dj}
		if c.board.InBounds(ahead.I, ahead.J) && !c.board.MustCell(ahead.I, ahead.J).Forbidden() {
			aheadRisk, err := c.kb.Risk(ahead.I, ahead.J, true)
			if err != nil {
				return false, false, err
			}
			hereRisk, err := c.kb.Risk(c.pos.I, c.pos.J, true)
			if err != nil {
				return false, false, err
			}
			if aheadRisk < hereRisk && c.anyVantageSafe(vantages) {
				if err := c.move(); err != nil {
					return false, false, err
				}
				return true, false, nil
			}
		}
	}

	diff := (int(wantDir) - int(c.facing) + 4) % 4
	switch diff {
	case 1:
		if err := c.turnCW(); err != nil {
			return false, false, err
		}
	case 3:
		if err := c.turnCCW(); err != nil {
			return false, false, err
		}
	default: // directly opposite: a two-quarter rotation
		if c.countUnknownOnSide(c.facing.TurnCW()) >= c.countUnknownOnSide(c.facing.TurnCCW()) {
			if err := c.turnCW(); err != nil {
				return false, false, err
			}
			if err := c.turnCW(); err != nil {
				return false, false, err
			}
		} else {
			if err := c.turnCCW(); err != nil {
				return false, false, err
			}
			if err := c.turnCCW(); err != nil {
				return false, false, err
			}
		}
	}
	return false, c.facing == wantDir, nil
}

func (c *Controller) isBeingSeen() bool {
	m, ok := c.kb.PenaltyMapEntry(c.pos)
	return ok && m > 0
}

func (c *Controller) anyVantageSafe(vantages []board.Coord) bool {
	for _, v := range vantages {
		if v == c.pos {
			continue
		}
		m, ok := c.kb.PenaltyMapEntry(v)
		if !ok || m == 0 {
			return true
		}
	}
	return false
}

// countUnknownOnSide counts unknown cells lying on the d side of the
// agent's position, used to pick which way a two-quarter rotation scans.
func (c *Controller) countUnknownOnSide(d board.Direction) int {
	di, dj := d.Delta()
	count := 0
	for _, u := range c.board.UnknownCells() {
		if (u.I-c.pos.I)*di+(u.J-c.pos.J)*dj > 0 {
			count++
		}
	}
	return count
}

func directionBetween(a, b board.Coord) (board.Direction, error) {
	for _, d := range board.Directions() {
		di, dj := d.Delta()
		if a.I+di == b.I && a.J+dj == b.J {
			return d, nil
		}
	}
	return 0, fmt.Errorf("cells %v and %v are not adjacent: %w", a, b, herr.ErrInvalidArgument)
}

func (c *Controller) move() error {
	st, err := c.ref.Move()
	if err != nil {
		return err
	}
	c.pos = st.Position
	c.facing = st.Orientation
	return c.applyStatus(st)
}

func (c *Controller) turnCW() error {
	st, err := c.ref.TurnClockwise()
	if err != nil {
		return err
	}
	c.pos = st.Position
	c.facing = st.Orientation
	return c.applyStatus(st)
}

func (c *Controller) turnCCW() error {
	st, err := c.ref.TurnAntiClockwise()
	if err != nil {
		return err
	}
	c.pos = st.Position
	c.facing = st.Orientation
	return c.applyStatus(st)
}

func (c *Controller) applyStatus(st referee.Status) error {
	vision := make([]knowledge.Vision, len(st.Vision))
	for i, v := range st.Vision {
		vision[i] = knowledge.Vision{Pos: v.Pos, Content: v.Content, Facing: v.Facing}
	}
	return c.kb.Update(knowledge.Status{
		Position:  st.Position,
		Facing:    st.Orientation,
		Vision:    vision,
		Hear:      st.Hear,
		Penalties: st.Penalties,
	})
}

// Submit sends the fully-resolved board to the referee and ends Phase 1.
func (c *Controller) Submit() (referee.Status, error) {
	submission := make(map[board.Coord]board.Content)
	for i := 0; i < c.board.Cols(); i++ {
		for j := 0; j < c.board.Rows(); j++ {
			submission[board.Coord{I: i, J: j}] = c.board.MustCell(i, j).Content()
		}
	}
	ok, err := c.ref.SendContent(submission)
	if err != nil {
		return referee.Status{}, err
	}
	if !ok {
		return referee.Status{}, herr.ErrSubmissionRejected
	}
	return c.ref.EndPhase1()
}
