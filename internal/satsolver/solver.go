// Package satsolver adapts github.com/rhartert/yass to the Literal/Clause
// vocabulary used by pkg/clauses and pkg/knowledge. A fresh yass.Solver is
// built for every query: the knowledge base never mutates a live solver in
// place, so "ask a hypothetical question, then forget it" falls out of
// simply discarding the solver when the query returns rather than needing
// explicit clone/restore bookkeeping.
package satsolver

import (
	"fmt"

	"github.com/rhartert/yass"

	"github.com/nprevot/hitman/internal/herr"
	"github.com/nprevot/hitman/pkg/clauses"
)

// Satisfiable builds a solver with numVars variables, asserts every clause,
// and reports whether the formula is satisfiable. It is the workhorse
// behind risk scoring (§4.4): callers add one extra unit clause per
// hypothesis and ask whether the rest of the knowledge base still holds.
func Satisfiable(cs []clauses.Clause, numVars int) (bool, error) {
	s := yass.NewDefaultSolver()
	for i := 0; i < numVars; i++ {
		s.AddVariable()
	}
	for _, c := range cs {
		lits := make([]yass.Literal, len(c))
		for i, lit := range c {
			v := int(lit)
			if v < 0 {
				v = -v
			}
			if v < 1 || v > numVars {
				return false, fmt.Errorf("clause references var %d outside [1,%d]: %w", v, numVars, herr.ErrInvalidArgument)
			}
			if lit < 0 {
				lits[i] = s.NegativeLiteral(v - 1)
			} else {
				lits[i] = s.PositiveLiteral(v - 1)
			}
		}
		if err := s.AddClause(lits); err != nil {
			return false, fmt.Errorf("add clause %v: %w", c, err)
		}
	}

	switch s.Solve() {
	case yass.True:
		return true, nil
	case yass.False:
		return false, nil
	default:
		return false, fmt.Errorf("solver returned an undetermined result: %w", herr.ErrLogicalContradiction)
	}
}

// MustBeTrue reports whether every model of cs assigns var a positive
// value, i.e. whether the negation of var is unsatisfiable given cs. Used
// to check whether a cell is provably a guard/guest rather than merely
// possibly one.
func MustBeTrue(cs []clauses.Clause, numVars int, v int) (bool, error) {
	negated := append(append([]clauses.Clause{}, cs...), clauses.Clause{clauses.Literal(-v)})
	sat, err := Satisfiable(negated, numVars)
	if err != nil {
		return false, err
	}
	return !sat, nil
}
