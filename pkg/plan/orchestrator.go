package plan

import (
	"fmt"

	"github.com/nprevot/hitman/internal/herr"
	"github.com/nprevot/hitman/pkg/board"
)

// wearSuit puts the suit on a state that already holds it. Donning never
// requires travel, so this is a direct Apply rather than a Search: the
// agent is already wherever it picked the suit up.
func wearSuit(s *State, b *board.Board) (*State, error) {
	if s.IsSuitOn {
		return s, nil
	}
	next := Apply(PutOnSuit, s, b)
	if next == nil {
		return nil, fmt.Errorf("put_on_suit rejected after get_suit goal reached: %w", herr.ErrInvalidArgument)
	}
	return next, nil
}

// Plan runs the default Phase-2 sequence: get the weapon, kill the target,
// return home (spec §4.6). Each stage searches forward from the previous
// stage's resulting state.
func Plan(s0 *State, b *board.Board) (*State, error) {
	s1, err := Search(s0, b, GetWeapon)
	if err != nil {
		return nil, err
	}
	s2, err := Search(s1, b, ReachTarget)
	if err != nil {
		return nil, err
	}
	return Search(s2, b, ReturnHome)
}

// PlanWithCostumeCombinations runs the default sequence plus three variants
// that force an early suit pickup and don it — before the weapon, between
// the weapon and the kill, and between the kill and the return home — and
// returns whichever complete sequence accrues the least total penalty (spec
// §4.6). Taking and wearing the suit is never free, so comparing these
// variants against the unforced default is the only way to tell whether a
// detour for it pays for itself in skipped witness surcharges later on.
func PlanWithCostumeCombinations(s0 *State, b *board.Board) (*State, error) {
	s1, err := Search(s0, b, GetWeapon)
	if err != nil {
		return nil, err
	}
	s2, err := Search(s1, b, ReachTarget)
	if err != nil {
		return nil, err
	}
	best, err := Search(s2, b, ReturnHome)
	if err != nil {
		return nil, err
	}

	// Suit taken after the kill, before returning home.
	if s3, err := Search(s2, b, GetSuit); err == nil {
		if worn, err := wearSuit(s3, b); err == nil {
			if final, err := Search(worn, b, ReturnHome); err == nil && final.Penalties < best.Penalties {
				best = final
			}
		}
	}

	// Suit taken after the weapon, before the kill.
	if s2alt, err := Search(s1, b, GetSuit); err == nil {
		if worn, err := wearSuit(s2alt, b); err == nil {
			if s3, err := Search(worn, b, ReachTarget); err == nil {
				if final, err := Search(s3, b, ReturnHome); err == nil && final.Penalties < best.Penalties {
					best = final
				}
			}
		}
	}

	// Suit taken at the very start, before the weapon.
	if s1alt, err := Search(s0, b, GetSuit); err == nil {
		if worn, err := wearSuit(s1alt, b); err == nil {
			if s2alt, err := Search(worn, b, GetWeapon); err == nil {
				if s3, err := Search(s2alt, b, ReachTarget); err == nil {
					if final, err := Search(s3, b, ReturnHome); err == nil && final.Penalties < best.Penalties {
						best = final
					}
				}
			}
		}
	}

	return best, nil
}
