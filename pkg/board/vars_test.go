package board

import "testing"

func TestCellToVarVarToCellRoundTrip(t *testing.T) {
	b := New(4, 3, 0, 0)
	for i := 0; i < 4; i++ {
		for j := 0; j < 3; j++ {
			for _, kind := range []Content{Guest, Guard} {
				v, err := b.CellToVar(i, j, kind)
				if err != nil {
					t.Fatalf("CellToVar(%d,%d,%s): %v", i, j, kind, err)
				}
				gi, gj, gkind, err := b.VarToCell(v)
				if err != nil {
					t.Fatalf("VarToCell(%d): %v", v, err)
				}
				if gi != i || gj != j || gkind != kind {
					t.Fatalf("round trip mismatch: got (%d,%d,%s), want (%d,%d,%s)", gi, gj, gkind, i, j, kind)
				}
			}
		}
	}
}

func TestCellToVarRanges(t *testing.T) {
	b := New(4, 3, 0, 0)
	guestMax, err := b.CellToVar(3, 2, Guest)
	if err != nil {
		t.Fatal(err)
	}
	if guestMax != 12 {
		t.Fatalf("guest var for last cell = %d, want 12", guestMax)
	}
	guardMin, err := b.CellToVar(0, 0, Guard)
	if err != nil {
		t.Fatal(err)
	}
	if guardMin != 13 {
		t.Fatalf("guard var for (0,0) = %d, want 13", guardMin)
	}
}

func TestCellToVarRejectsNonPersonContent(t *testing.T) {
	b := New(4, 3, 0, 0)
	if _, err := b.CellToVar(0, 0, Wall); err == nil {
		t.Fatal("expected error for non-person content")
	}
}

func TestVarToCellRejectsOutOfRange(t *testing.T) {
	b := New(4, 3, 0, 0)
	if _, _, _, err := b.VarToCell(0); err == nil {
		t.Fatal("expected error for var 0")
	}
	if _, _, _, err := b.VarToCell(25); err == nil {
		t.Fatal("expected error for var past the guard block")
	}
}
