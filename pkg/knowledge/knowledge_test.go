package knowledge

import (
	"testing"

	"github.com/nprevot/hitman/pkg/board"
)

func newEmptyBoard(cols, rows, guests, guards int) *board.Board {
	b := board.New(cols, rows, guests, guards)
	return b
}

func TestParseSATMode(t *testing.T) {
	tests := []struct {
		in   string
		want SATMode
	}{
		{"", SATAuto},
		{"auto", SATAuto},
		{"sat", SATAlways},
		{"no_sat", SATNever},
	}
	for _, tt := range tests {
		got, err := ParseSATMode(tt.in)
		if err != nil {
			t.Fatalf("ParseSATMode(%q): %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseSATMode(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseSATModeRejectsUnknownValue(t *testing.T) {
	if _, err := ParseSATMode("bogus"); err == nil {
		t.Fatal("expected an error for an unrecognized SAT mode")
	}
}

func TestUpdatePenaltiesGatesOnFirstVisit(t *testing.T) {
	b := newEmptyBoard(3, 3, 0, 1)
	kb := New(b, SATAuto)

	status := Status{Position: board.Coord{I: 1, J: 1}, Facing: board.North, Penalties: 0}
	if err := kb.Update(status); err != nil {
		t.Fatal(err)
	}
	if m, ok := kb.PenaltyMapEntry(board.Coord{I: 1, J: 1}); !ok || m != 0 {
		t.Fatalf("penalty map entry = (%d,%v), want (0,true)", m, ok)
	}

	// Revisiting the same cell with a changed penalty count must not
	// re-derive a second entry.
	status.Penalties = 50
	if err := kb.Update(status); err != nil {
		t.Fatal(err)
	}
	if m, _ := kb.PenaltyMapEntry(board.Coord{I: 1, J: 1}); m != 0 {
		t.Fatalf("penalty map entry changed on a revisit: got %d, want 0", m)
	}
}

func TestUpdatePenaltiesAttributesDeltaToLastActionAcrossARevisit(t *testing.T) {
	// A turn-in-place revisit seen by one guard (+5) must not bleed into the
	// seenCount computed for the next first-visited cell.
	b := newEmptyBoard(3, 3, 0, 2)
	kb := New(b, SATAuto)

	a := board.Coord{I: 1, J: 1}
	bb := board.Coord{I: 1, J: 2}

	if err := kb.Update(Status{Position: a, Facing: board.North, Penalties: 0}); err != nil {
		t.Fatal(err)
	}

	// Turn in place at a, revisited, seen by one guard: +1 turn, +5 sighting.
	if err := kb.Update(Status{Position: a, Facing: board.East, Penalties: 6}); err != nil {
		t.Fatal(err)
	}

	// Move to b, first visit, seen by one guard: +1 move, +5 sighting.
	if err := kb.Update(Status{Position: bb, Facing: board.East, Penalties: 12}); err != nil {
		t.Fatal(err)
	}

	m, ok := kb.PenaltyMapEntry(bb)
	if !ok {
		t.Fatal("expected a penalty map entry for b")
	}
	if m != 1 {
		t.Fatalf("penalty map entry for b = %d, want 1 (the revisit's sighting must not carry over)", m)
	}
}

func TestUpdatePenaltiesSingleCandidateCommitsGuard(t *testing.T) {
	// 3x3 board, agent at the (0,0) corner: north and east have no in-bounds
	// guard-candidate cells at all. Wall off south's distance-2 cell and
	// west's direction entirely, leaving south with exactly one candidate.
	b := newEmptyBoard(3, 3, 0, 1)
	b.SetContent(0, 2, board.Wall, board.North) // blocks south's distance-2 candidate
	b.SetContent(1, 0, board.Wall, board.North) // blocks west's direction entirely
	kb := New(b, SATAuto)

	status := Status{Position: board.Coord{I: 0, J: 0}, Facing: board.East, Penalties: 6}
	if err := kb.Update(status); err != nil {
		t.Fatal(err)
	}
	cell := b.MustCell(0, 1)
	if cell.Content() != board.Guard {
		t.Fatalf("expected the sole candidate to be committed as a guard, content = %s", cell.Content())
	}
	facing, ok := cell.Facing()
	if !ok || facing != board.South {
		t.Fatalf("committed guard facing = (%s,%v), want (S,true)", facing, ok)
	}
}

func TestUpdateVisionRevealsAndDecrements(t *testing.T) {
	b := newEmptyBoard(2, 2, 1, 0)
	kb := New(b, SATAuto)
	status := Status{
		Position: board.Coord{I: 0, J: 0},
		Facing:   board.North,
		Vision: []Vision{
			{Pos: board.Coord{I: 1, J: 0}, Content: board.Guest, Facing: board.West},
		},
	}
	if err := kb.Update(status); err != nil {
		t.Fatal(err)
	}
	if b.UnknownGuestsLeft() != 0 {
		t.Fatalf("UnknownGuestsLeft = %d, want 0", b.UnknownGuestsLeft())
	}
	if b.MustCell(1, 0).Content() != board.Guest {
		t.Fatal("expected (1,0) to be revealed as a guest")
	}
}

func TestUpdateHearingSaturatesAtFive(t *testing.T) {
	b := newEmptyBoard(3, 3, 0, 0)
	kb := New(b, SATAuto)
	before := len(kb.Clauses())
	status := Status{Position: board.Coord{I: 1, J: 1}, Facing: board.North, Hear: 7}
	if err := kb.Update(status); err != nil {
		t.Fatal(err)
	}
	if len(kb.Clauses()) <= before {
		t.Fatal("expected hearing evidence to add at least one clause")
	}
}

func TestRiskIsZeroForKnownGuest(t *testing.T) {
	b := newEmptyBoard(3, 3, 1, 0)
	b.SetContent(1, 1, board.Guest, board.North)
	kb := New(b, SATAuto)
	r, err := kb.Risk(1, 1, false)
	if err != nil {
		t.Fatal(err)
	}
	if r != 0 {
		t.Fatalf("Risk of a known guest cell = %d, want 0", r)
	}
}

func TestRiskUsesPenaltyMapWhenVisited(t *testing.T) {
	b := newEmptyBoard(3, 3, 0, 0)
	kb := New(b, SATAuto)
	kb.penaltyMap[board.Coord{I: 1, J: 1}] = 2
	r, err := kb.Risk(1, 1, false)
	if err != nil {
		t.Fatal(err)
	}
	if r != 10 {
		t.Fatalf("Risk of a visited cell with 2 seeing guards = %d, want 10", r)
	}
}

func TestPendingPairResolvedByLaterVision(t *testing.T) {
	// 3x4 board; north of (1,3) has two in-bounds candidates, (1,2) and
	// (1,1). Wall off east and west's single candidates so north is the
	// only direction contributing to the observed guard count, forcing a
	// pending pair instead of an immediate commit.
	b := newEmptyBoard(3, 4, 0, 1)
	b.SetContent(0, 3, board.Wall, board.North)
	b.SetContent(2, 3, board.Wall, board.North)
	kb := New(b, SATAuto)

	status := Status{Position: board.Coord{I: 1, J: 3}, Facing: board.East, Penalties: 6}
	if err := kb.Update(status); err != nil {
		t.Fatal(err)
	}
	if len(kb.pending) != 1 {
		t.Fatalf("pending pairs = %d, want 1", len(kb.pending))
	}

	status2 := Status{
		Position: board.Coord{I: 1, J: 3},
		Facing:   board.South, // different facing: a fresh vision state
		Vision: []Vision{
			{Pos: board.Coord{I: 1, J: 2}, Content: board.Empty},
		},
		Penalties: 6,
	}
	if err := kb.Update(status2); err != nil {
		t.Fatal(err)
	}
	cell := b.MustCell(1, 1)
	if cell.Content() != board.Guard {
		t.Fatalf("expected the other pending-pair member to be committed as a guard, content = %s", cell.Content())
	}
	if facing, ok := cell.Facing(); !ok || facing != board.North {
		t.Fatalf("committed guard facing = (%s,%v), want (N,true)", facing, ok)
	}
	if len(kb.pending) != 0 {
		t.Fatalf("pending pairs after resolution = %d, want 0", len(kb.pending))
	}
}

func TestPendingPairResolvedWhenRevealedMemberIsGuardFacingDifferentDirection(t *testing.T) {
	// Same setup as TestPendingPairResolvedByLaterVision, but the closer
	// candidate turns out to be a guard facing a direction other than the
	// pair's hypothesis (north). It is not the asserted guard, so the
	// other member must still be committed.
	b := newEmptyBoard(3, 4, 0, 2)
	b.SetContent(0, 3, board.Wall, board.North)
	b.SetContent(2, 3, board.Wall, board.North)
	kb := New(b, SATAuto)

	status := Status{Position: board.Coord{I: 1, J: 3}, Facing: board.East, Penalties: 6}
	if err := kb.Update(status); err != nil {
		t.Fatal(err)
	}
	if len(kb.pending) != 1 {
		t.Fatalf("pending pairs = %d, want 1", len(kb.pending))
	}

	status2 := Status{
		Position: board.Coord{I: 1, J: 3},
		Facing:   board.South,
		Vision: []Vision{
			{Pos: board.Coord{I: 1, J: 2}, Content: board.Guard, Facing: board.East},
		},
		Penalties: 6,
	}
	if err := kb.Update(status2); err != nil {
		t.Fatal(err)
	}

	other := b.MustCell(1, 1)
	if other.Content() != board.Guard {
		t.Fatalf("expected the other pending-pair member to be committed as a guard, content = %s", other.Content())
	}
	if facing, ok := other.Facing(); !ok || facing != board.North {
		t.Fatalf("committed guard facing = (%s,%v), want (N,true)", facing, ok)
	}
	if len(kb.pending) != 0 {
		t.Fatalf("pending pairs after resolution = %d, want 0", len(kb.pending))
	}
}

func TestMinimumPenaltyMapSeedsTargetWithItsOwnRisk(t *testing.T) {
	b := newEmptyBoard(3, 3, 0, 0)
	kb := New(b, SATAuto)
	kb.penaltyMap[board.Coord{I: 2, J: 2}] = 1
	dist, err := kb.MinimumPenaltyMap(board.Coord{I: 2, J: 2}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if dist[board.Coord{I: 2, J: 2}] != 5 {
		t.Fatalf("seeded target cost = %d, want 5", dist[board.Coord{I: 2, J: 2}])
	}
	if _, ok := dist[board.Coord{I: 0, J: 0}]; !ok {
		t.Fatal("expected (0,0) to be reachable on an open board")
	}
}
