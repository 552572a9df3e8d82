// Package herr defines the sentinel error kinds shared across the agent,
// matching the failure semantics of the knowledge base, board, and planner.
package herr

import "errors"

var (
	// ErrInvalidArgument marks an out-of-bounds cell, malformed content, or
	// a sat_mode outside {auto, sat, no_sat}. Programmer fault; abort.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrStateUninitialized marks an operation attempted before start_phase1.
	ErrStateUninitialized = errors.New("state not initialized")

	// ErrUnreachable marks a min_distance or explore call that cannot reach
	// its target cell.
	ErrUnreachable = errors.New("unreachable")

	// ErrLogicalContradiction marks the SAT solver reporting unsat on a
	// committed unit clause — a programmer fault that should never happen
	// in correct play.
	ErrLogicalContradiction = errors.New("logical contradiction")

	// ErrSubmissionRejected marks send_content returning false.
	ErrSubmissionRejected = errors.New("submission rejected")
)
