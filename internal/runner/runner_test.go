package runner

import (
	"testing"

	"github.com/nprevot/hitman/internal/referee"
	"github.com/nprevot/hitman/internal/referee/memory"
	"github.com/nprevot/hitman/pkg/board"
	"github.com/nprevot/hitman/pkg/knowledge"
	"github.com/nprevot/hitman/pkg/plan"
)

func TestRunDrivesScenarioToCompletion(t *testing.T) {
	sc := memory.Scenario4Phase2Trivial()
	ref := memory.New(sc.Ground, sc.Start, sc.Facing, sc.GuardCount, sc.CivilCount)

	var phases []string
	var actionCount int
	var sawBoard *board.Board
	hooks := Hooks{
		OnPhase:      func(phase string) { phases = append(phases, phase) },
		OnBoardKnown: func(b *board.Board) { sawBoard = b },
		OnAction:     func(a plan.Action, _ referee.Status, _ *board.Board) { actionCount++ },
	}

	result, err := Run(ref, Options{SATMode: knowledge.SATAuto}, hooks)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(phases) != 2 || phases[0] != "phase1" || phases[1] != "phase2" {
		t.Fatalf("phases = %v, want [phase1 phase2]", phases)
	}
	if sawBoard == nil {
		t.Fatal("expected OnBoardKnown to fire with the revealed board")
	}
	if actionCount != len(result.History) {
		t.Fatalf("OnAction fired %d times, want %d (len of History)", actionCount, len(result.History))
	}
	if result.Phase1Score <= 0 {
		t.Fatalf("Phase1Score = %d, want > 0 for a guard-free board", result.Phase1Score)
	}
}

func TestRunWithCostumeOptionUsesPlanWithCostumeCombinations(t *testing.T) {
	sc := memory.Scenario6CostumeOption()
	ref := memory.New(sc.Ground, sc.Start, sc.Facing, sc.GuardCount, sc.CivilCount)

	result, err := Run(ref, Options{SATMode: knowledge.SATAuto, Costume: true}, Hooks{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if -result.Phase2Score != 22 {
		t.Fatalf("final penalties = %d, want 22 (the costume-combination optimum)", -result.Phase2Score)
	}
}

func TestDispatchRejectsUnknownAction(t *testing.T) {
	sc := memory.Scenario1EmptyBoard()
	ref := memory.New(sc.Ground, sc.Start, sc.Facing, sc.GuardCount, sc.CivilCount)
	if _, err := dispatch(ref, plan.Action(-1)); err == nil {
		t.Fatal("expected an error for an unrecognized action")
	}
}
