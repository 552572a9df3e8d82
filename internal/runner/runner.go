// Package runner drives one referee through a full phase-1-then-phase-2
// pass. It is the shared core behind cmd/hitman's CLI loop and
// cmd/hitmand's background-goroutine run service, so the two never carry
// two independent copies of the action dispatch table.
package runner

import (
	"fmt"

	"github.com/nprevot/hitman/internal/referee"
	"github.com/nprevot/hitman/pkg/board"
	"github.com/nprevot/hitman/pkg/explore"
	"github.com/nprevot/hitman/pkg/knowledge"
	"github.com/nprevot/hitman/pkg/plan"
)

// Result summarizes one completed phase-1-then-phase-2 pass.
type Result struct {
	Phase1Score int
	Phase2Score int
	Board       *board.Board
	History     []plan.Action
}

// Hooks lets a caller observe a run without coupling the driving loop to
// any one transport (a terminal, a WebSocket hub, ...). Any field may be
// left nil.
type Hooks struct {
	// OnPhase fires once before phase 1 starts ("phase1") and once before
	// phase 2 starts ("phase2").
	OnPhase func(phase string)
	// OnBoardKnown fires once, right after phase 1 submits, with the now
	// fully-revealed board phase 2 will plan against.
	OnBoardKnown func(b *board.Board)
	// OnAction fires after every phase-2 action is replayed against ref.
	OnAction func(action plan.Action, status referee.Status, b *board.Board)
}

// Options configures a run.
type Options struct {
	SATMode knowledge.SATMode
	Costume bool // use PlanWithCostumeCombinations instead of Plan
}

// Run explores an unknown board, submits the revealed layout, plans a
// phase-2 action sequence, and replays it against ref one action at a
// time.
func Run(ref referee.Referee, opts Options, hooks Hooks) (*Result, error) {
	if hooks.OnPhase != nil {
		hooks.OnPhase("phase1")
	}

	c, err := explore.StartPhase1(ref, opts.SATMode)
	if err != nil {
		return nil, fmt.Errorf("start_phase1: %w", err)
	}
	if err := c.Run(); err != nil {
		return nil, fmt.Errorf("phase 1 exploration: %w", err)
	}

	phase1, err := c.Submit()
	if err != nil {
		return nil, fmt.Errorf("submit phase 1: %w", err)
	}

	b := c.Knowledge().Board
	if hooks.OnBoardKnown != nil {
		hooks.OnBoardKnown(b)
	}

	if hooks.OnPhase != nil {
		hooks.OnPhase("phase2")
	}
	phase2Start, err := ref.StartPhase2()
	if err != nil {
		return nil, fmt.Errorf("start_phase2: %w", err)
	}

	s0 := plan.NewState(phase2Start.Position, phase2Start.Orientation)
	var final *plan.State
	if opts.Costume {
		final, err = plan.PlanWithCostumeCombinations(s0, b)
	} else {
		final, err = plan.Plan(s0, b)
	}
	if err != nil {
		return nil, fmt.Errorf("phase 2 planning: %w", err)
	}

	if err := replay(ref, final.History, b, hooks); err != nil {
		return nil, fmt.Errorf("phase 2 replay: %w", err)
	}

	phase2, err := ref.EndPhase2()
	if err != nil {
		return nil, fmt.Errorf("end_phase2: %w", err)
	}

	return &Result{
		Phase1Score: phase1.FinalScore,
		Phase2Score: phase2.FinalScore,
		Board:       b,
		History:     final.History,
	}, nil
}

func replay(ref referee.Referee, history []plan.Action, b *board.Board, hooks Hooks) error {
	for _, action := range history {
		status, err := dispatch(ref, action)
		if err != nil {
			return fmt.Errorf("%s: %w", action, err)
		}
		if hooks.OnAction != nil {
			hooks.OnAction(action, status, b)
		}
	}
	return nil
}

func dispatch(ref referee.Referee, action plan.Action) (referee.Status, error) {
	switch action {
	case plan.Move:
		return ref.Move()
	case plan.TurnCW:
		return ref.TurnClockwise()
	case plan.TurnCCW:
		return ref.TurnAntiClockwise()
	case plan.KillTarget:
		return ref.KillTarget()
	case plan.NeutralizeGuard:
		return ref.NeutralizeGuard()
	case plan.NeutralizeGuest:
		return ref.NeutralizeCivil()
	case plan.TakeSuit:
		return ref.TakeSuit()
	case plan.TakeWeapon:
		return ref.TakeWeapon()
	case plan.PutOnSuit:
		return ref.PutOnSuit()
	default:
		return referee.Status{}, fmt.Errorf("no referee call wired for action %s", action)
	}
}
