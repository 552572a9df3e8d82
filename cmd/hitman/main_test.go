package main

import (
	"testing"

	"github.com/nprevot/hitman/pkg/knowledge"
)

func TestParseSATMode(t *testing.T) {
	tests := []struct {
		in   string
		want knowledge.SATMode
	}{
		{"auto", knowledge.SATAuto},
		{"sat", knowledge.SATAlways},
		{"no_sat", knowledge.SATNever},
	}
	for _, tt := range tests {
		got, err := parseSATMode(tt.in)
		if err != nil {
			t.Fatalf("parseSATMode(%q): %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("parseSATMode(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseSATModeRejectsUnknownValue(t *testing.T) {
	if _, err := parseSATMode("bogus"); err == nil {
		t.Fatal("expected an error for an unrecognized --sat value")
	}
}

func TestBuildRefereeUnknownScenario(t *testing.T) {
	if _, err := buildReferee("", "", "", "", "not-a-real-scenario"); err == nil {
		t.Fatal("expected an error for an unrecognized --scenario value")
	}
}

func TestBuildRefereeDemoScenario(t *testing.T) {
	ref, err := buildReferee("", "", "", "", "empty-2x2")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := ref.StartPhase1(); err != nil {
		t.Fatalf("expected the demo referee to start phase 1: %v", err)
	}
}

func TestBuildRefereeRemoteMintsTokenFromSecret(t *testing.T) {
	ref, err := buildReferee("http://127.0.0.1:0", "", "dev-secret", "test-caller", "")
	if err != nil {
		t.Fatal(err)
	}
	if ref == nil {
		t.Fatal("expected a non-nil client referee")
	}
}
