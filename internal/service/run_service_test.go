package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/nprevot/hitman/internal/referee/memory"
	"github.com/nprevot/hitman/internal/runhub"
	"github.com/nprevot/hitman/pkg/knowledge"
)

func demoScenarios() map[string]func() memory.Scenario {
	return map[string]func() memory.Scenario{
		"empty-2x2": memory.Scenario1EmptyBoard,
	}
}

func TestLaunchRejectsUnknownScenario(t *testing.T) {
	svc := NewRunService(runhub.NewHub(), nil, nil, demoScenarios())
	if _, err := svc.Launch(context.Background(), LaunchRequest{ScenarioName: "nope"}); !errors.Is(err, ErrUnknownScenario) {
		t.Fatalf("expected ErrUnknownScenario, got %v", err)
	}
}

func TestLaunchBroadcastsPhasesAndCompletion(t *testing.T) {
	hub := runhub.NewHub()
	svc := NewRunService(hub, nil, nil, demoScenarios())

	runID, err := svc.Launch(context.Background(), LaunchRequest{ScenarioName: "empty-2x2", SATMode: knowledge.SATAuto})
	if err != nil {
		t.Fatalf("Launch: %v", err)
	}
	if runID == "" {
		t.Fatal("expected a non-empty run ID")
	}

	conn := runhub.NewTestConn("watcher", 64)
	hub.Register(conn)
	defer hub.Unregister(conn)
	hub.Subscribe(conn, runID)

	sawPhase2 := false
	sawCompletion := false
	deadline := time.After(5 * time.Second)
	for !sawCompletion {
		select {
		case raw := <-conn.Recv():
			var event runhub.WSEvent
			if err := json.Unmarshal(raw, &event); err != nil {
				t.Fatalf("unmarshal event: %v", err)
			}
			switch event.Type {
			case runhub.EventPhaseChanged:
				if data, ok := event.Data.(map[string]any); ok && data["phase"] == "phase2" {
					sawPhase2 = true
				}
			case runhub.EventRunCompleted:
				sawCompletion = true
			}
		case <-deadline:
			t.Fatal("timed out waiting for the run to complete")
		}
	}
	if !sawPhase2 {
		t.Fatal("expected a phase_changed event for phase2")
	}
}

func TestGetRunWithoutAStoreReturnsAnError(t *testing.T) {
	svc := NewRunService(runhub.NewHub(), nil, nil, demoScenarios())
	if _, err := svc.GetRun(context.Background(), "whatever"); err == nil {
		t.Fatal("expected an error when no run store is configured")
	}
}
