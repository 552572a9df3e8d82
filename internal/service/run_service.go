// Package service implements cmd/hitmand's run-launching business logic:
// starting a background run, broadcasting its progress, and persisting its
// outcome.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nprevot/hitman/internal/logger"
	"github.com/nprevot/hitman/internal/referee"
	"github.com/nprevot/hitman/internal/referee/memory"
	"github.com/nprevot/hitman/internal/runhub"
	"github.com/nprevot/hitman/internal/runner"
	"github.com/nprevot/hitman/internal/store"
	"github.com/nprevot/hitman/pkg/board"
	"github.com/nprevot/hitman/pkg/knowledge"
	"github.com/nprevot/hitman/pkg/plan"
)

// ErrUnknownScenario is returned by Launch for an unrecognized scenario name.
var ErrUnknownScenario = errors.New("unknown scenario")

// RunService launches Phase-1+Phase-2 runs against in-process demo
// scenarios, broadcasting progress over a Hub and persisting the outcome.
type RunService struct {
	hub       *runhub.Hub
	cache     *store.Client
	runStore  *store.RunStore
	scenarios map[string]func() memory.Scenario
}

// NewRunService wires a Hub, an optional Redis progress cache, an optional
// Postgres run store, and the set of launchable demo scenarios.
func NewRunService(hub *runhub.Hub, cache *store.Client, runStore *store.RunStore, scenarios map[string]func() memory.Scenario) *RunService {
	return &RunService{hub: hub, cache: cache, runStore: runStore, scenarios: scenarios}
}

// LaunchRequest describes one run to start.
type LaunchRequest struct {
	ScenarioName string
	SATMode      knowledge.SATMode
	Costume      bool
	CallerID     string
}

// Launch validates the scenario name, starts the run in a background
// goroutine, and returns its ID immediately. Callers observe progress via
// the Hub's run channel or by polling GetRun.
func (s *RunService) Launch(ctx context.Context, req LaunchRequest) (string, error) {
	build, ok := s.scenarios[req.ScenarioName]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownScenario, req.ScenarioName)
	}
	sc := build()
	runID := logger.NewRunID()
	ref := memory.New(sc.Ground, sc.Start, sc.Facing, sc.GuardCount, sc.CivilCount)

	go s.drive(runID, ref, req)
	return runID, nil
}

func (s *RunService) drive(runID string, ref referee.Referee, req LaunchRequest) {
	ctx := logger.WithRunID(context.Background(), runID)
	log := logger.ForRun(ctx)
	started := time.Now()

	actionSeq := 0
	hooks := runner.Hooks{
		OnPhase: func(phase string) {
			if s.cache != nil {
				if err := s.cache.SetPhase(ctx, runID, phase); err != nil {
					log.Warn().Err(err).Msg("failed to cache run phase")
				}
			}
			s.hub.BroadcastRunEvent(runID, runhub.EventPhaseChanged, map[string]string{"phase": phase})
		},
		OnAction: func(action plan.Action, status referee.Status, _ *board.Board) {
			actionSeq++
			s.hub.BroadcastRunEvent(runID, runhub.EventActionTaken, map[string]any{
				"seq":       actionSeq,
				"action":    action.String(),
				"penalties": status.Penalties,
			})
		},
	}

	result, err := runner.Run(ref, runner.Options{SATMode: req.SATMode, Costume: req.Costume}, hooks)
	finished := time.Now()
	if err != nil {
		log.Error().Err(err).Msg("run failed")
	}

	summary := store.RunSummary{
		RunID:        runID,
		SubmissionOK: err == nil,
		StartedAt:    started,
		FinishedAt:   finished,
	}
	if result != nil {
		summary.Cols, summary.Rows = result.Board.Cols(), result.Board.Rows()
		summary.TotalPenalties = -result.Phase2Score
		summary.ActionCount = len(result.History)
	}

	if s.runStore != nil {
		if serr := s.runStore.SaveRun(context.Background(), summary); serr != nil {
			log.Error().Err(serr).Msg("failed to save run summary")
		}
	}
	if s.cache != nil {
		if cerr := s.cache.ClearRun(context.Background(), runID); cerr != nil {
			log.Warn().Err(cerr).Msg("failed to clear cached run progress")
		}
	}

	s.hub.BroadcastRunEvent(runID, runhub.EventRunCompleted, map[string]any{
		"ok":              summary.SubmissionOK,
		"total_penalties": summary.TotalPenalties,
		"action_count":    summary.ActionCount,
	})
}

// GetRun fetches a persisted run summary, or nil if none exists with that ID.
func (s *RunService) GetRun(ctx context.Context, runID string) (*store.RunSummary, error) {
	if s.runStore == nil {
		return nil, fmt.Errorf("run store not configured")
	}
	return s.runStore.GetRun(ctx, runID)
}
