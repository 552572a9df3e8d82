package memory

import (
	"testing"

	"github.com/nprevot/hitman/pkg/board"
	"github.com/nprevot/hitman/pkg/explore"
	"github.com/nprevot/hitman/pkg/knowledge"
	"github.com/nprevot/hitman/pkg/plan"
)

func TestScenario1EmptyBoardPhase1ScoresEight(t *testing.T) {
	sc := Scenario1EmptyBoard()
	ref := New(sc.Ground, sc.Start, sc.Facing, sc.GuardCount, sc.CivilCount)

	c, err := explore.StartPhase1(ref, knowledge.SATNever)
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Run(); err != nil {
		t.Fatal(err)
	}
	if !c.Knowledge().Board.AllKnown() {
		t.Fatal("expected every cell resolved")
	}
	st, err := c.Submit()
	if err != nil {
		t.Fatal(err)
	}
	if st.FinalScore != 8 {
		t.Fatalf("FinalScore = %d, want 8", st.FinalScore)
	}
}

func TestScenario2GuardProvenBeforeSteppingAdjacent(t *testing.T) {
	sc := Scenario2GuardNearStart()
	ref := New(sc.Ground, sc.Start, sc.Facing, sc.GuardCount, sc.CivilCount)

	c, err := explore.StartPhase1(ref, knowledge.SATAuto)
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Run(); err != nil {
		t.Fatal(err)
	}
	if !c.Knowledge().Board.AllKnown() {
		t.Fatal("expected every cell resolved")
	}
	guardCell := c.Knowledge().Board.MustCell(2, 1)
	if guardCell.Content() != board.Guard {
		t.Fatalf("(2,1) content = %s, want guard", guardCell.Content())
	}
	facing, ok := guardCell.Facing()
	if !ok || facing != board.West {
		t.Fatalf("(2,1) facing = (%s,%v), want (W,true)", facing, ok)
	}
}

func TestScenario4Phase2TrivialPaysOnlyActionCosts(t *testing.T) {
	sc := Scenario4Phase2Trivial()
	s0 := plan.NewState(sc.Start, sc.Facing)

	final, err := plan.Plan(s0, sc.Ground)
	if err != nil {
		t.Fatal(err)
	}
	if !final.HasWeapon || !final.IsTargetDown {
		t.Fatalf("expected weapon taken and target down, got %+v", final)
	}
	if final.Position != sc.Start {
		t.Fatalf("final position = %v, want %v", final.Position, sc.Start)
	}
	// No guards on this board, so every point of penalty is an action
	// (move/turn/kill), never a witness or visibility surcharge.
	if final.Penalties != len(final.History) {
		t.Fatalf("penalties = %d, want %d (one per action, no witnesses on a guard-free board)", final.Penalties, len(final.History))
	}
}

func TestScenario5GuardInPathGetsNeutralizedNotDetoured(t *testing.T) {
	sc := Scenario5GuardInPath()
	s0 := plan.NewState(sc.Start, sc.Facing)

	final, err := plan.Search(s0, sc.Ground, plan.ReachTarget)
	if err != nil {
		t.Fatal(err)
	}
	if !final.IsTargetDown {
		t.Fatal("expected the target to be reached")
	}
	neutralized := false
	for _, a := range final.History {
		if a == plan.NeutralizeGuard {
			neutralized = true
		}
	}
	if !neutralized {
		t.Fatalf("expected the corridor's only guard to be neutralized on a 1-wide board with no detour available; history=%v", final.History)
	}
}

func TestScenario6CostumeOptionBeatsTheDefaultSequence(t *testing.T) {
	sc := Scenario6CostumeOption()
	s0 := plan.NewState(sc.Start, sc.Facing)

	basic, err := plan.Plan(s0, sc.Ground)
	if err != nil {
		t.Fatal(err)
	}
	if basic.Penalties != 24 {
		t.Fatalf("default sequence penalties = %d, want 24", basic.Penalties)
	}

	withCostume, err := plan.PlanWithCostumeCombinations(s0, sc.Ground)
	if err != nil {
		t.Fatal(err)
	}
	if withCostume.Penalties != 22 {
		t.Fatalf("costume_combinations penalties = %d, want 22", withCostume.Penalties)
	}
	if withCostume.Penalties >= basic.Penalties {
		t.Fatalf("costume_combinations should beat the default sequence: %d vs %d", withCostume.Penalties, basic.Penalties)
	}

	tookSuitFirst := false
	for _, a := range withCostume.History {
		switch a {
		case plan.TakeSuit:
			tookSuitFirst = true
		case plan.TakeWeapon:
			if !tookSuitFirst {
				t.Fatalf("expected the suit to be taken before the weapon; history=%v", withCostume.History)
			}
		}
	}
	if !tookSuitFirst {
		t.Fatalf("expected the winning plan to take the suit at all; history=%v", withCostume.History)
	}
}
