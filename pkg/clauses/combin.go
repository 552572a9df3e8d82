// Package clauses builds CNF clauses for "at-least/at-most/exactly N true
// among a set of propositional variables" constraints, using combinatorial
// (not polynomial-auxiliary-variable) encodings.
package clauses

import (
	"fmt"

	"gonum.org/v1/gonum/stat/combin"

	"github.com/nprevot/hitman/internal/herr"
)

// Literal is a signed propositional variable: a positive int v asserts the
// variable is true, a negative int -v asserts it is false.
type Literal int

// Clause is a disjunction of literals.
type Clause []Literal

// AtLeast returns clauses asserting that at least n of the variables in v
// are true. Every (len(v)-n+1)-subset of v must contain a true literal: if
// fewer than n were true, some such subset would be entirely false.
//
// Precondition: 0 <= n <= len(v); violating it is a programmer fault.
// AtLeast(0, v) is always satisfied and returns no clauses.
func AtLeast(n int, v []int) ([]Clause, error) {
	if n < 0 || n > len(v) {
		return nil, fmt.Errorf("at_least(%d, %d vars): %w", n, len(v), herr.ErrInvalidArgument)
	}
	if n == 0 {
		return nil, nil
	}
	k := len(v) - (n - 1)
	return subsetsAsClauses(v, k, false), nil
}

// AtMost returns clauses asserting that at most n of the variables in v are
// true. Every (n+1)-subset of v must contain a false literal: if more than n
// were true, some such subset would be entirely true.
//
// Precondition: 0 <= n <= len(v); violating it is a programmer fault.
// AtMost(len(v), v) is always satisfied and returns no clauses.
func AtMost(n int, v []int) ([]Clause, error) {
	if n < 0 || n > len(v) {
		return nil, fmt.Errorf("at_most(%d, %d vars): %w", n, len(v), herr.ErrInvalidArgument)
	}
	if n == len(v) {
		return nil, nil
	}
	k := n + 1
	return subsetsAsClauses(v, k, true), nil
}

// Exactly returns clauses asserting that exactly n of the variables in v are
// true: the union of AtLeast(n, v) and AtMost(n, v).
func Exactly(n int, v []int) ([]Clause, error) {
	least, err := AtLeast(n, v)
	if err != nil {
		return nil, err
	}
	most, err := AtMost(n, v)
	if err != nil {
		return nil, err
	}
	out := make([]Clause, 0, len(least)+len(most))
	out = append(out, least...)
	out = append(out, most...)
	return out, nil
}

// PairwiseExclude returns, for each index i, a clause (¬v1[i] ∨ ¬v2[i])
// forbidding the two variables at that index from both being true. v1 and
// v2 must have equal length.
func PairwiseExclude(v1, v2 []int) []Clause {
	n := len(v1)
	out := make([]Clause, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, Clause{Literal(-v1[i]), Literal(-v2[i])})
	}
	return out
}

// subsetsAsClauses enumerates every k-subset of v and turns each into a
// clause. When negate is true every literal in the clause is negated (used
// by AtMost); otherwise literals are positive (used by AtLeast).
func subsetsAsClauses(v []int, k int, negate bool) []Clause {
	m := len(v)
	if k <= 0 || k > m {
		return nil
	}
	idxSets := combin.Combinations(m, k)
	out := make([]Clause, 0, len(idxSets))
	for _, idxs := range idxSets {
		clause := make(Clause, 0, k)
		for _, idx := range idxs {
			lit := Literal(v[idx])
			if negate {
				lit = -lit
			}
			clause = append(clause, lit)
		}
		out = append(out, clause)
	}
	return out
}
