package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/nprevot/hitman/internal/auth"
	"github.com/nprevot/hitman/internal/logger"
	"github.com/nprevot/hitman/internal/referee"
	"github.com/nprevot/hitman/internal/referee/memory"
	"github.com/nprevot/hitman/internal/refereeclient"
	"github.com/nprevot/hitman/internal/runner"
	"github.com/nprevot/hitman/pkg/board"
	"github.com/nprevot/hitman/pkg/knowledge"
	"github.com/nprevot/hitman/pkg/plan"
)

var demoScenarios = map[string]func() memory.Scenario{
	"empty-2x2":        memory.Scenario1EmptyBoard,
	"guard-near-start": memory.Scenario2GuardNearStart,
	"phase2-trivial":   memory.Scenario4Phase2Trivial,
	"guard-in-path":    memory.Scenario5GuardInPath,
	"costume-option":   memory.Scenario6CostumeOption,
}

func main() {
	satFlag := flag.String("sat", "auto", "SAT fallback mode: auto, sat, no_sat")
	display := flag.Bool("display", true, "print the board once phase 1 resolves it and after every phase-2 action")
	temp := flag.Bool("temp", true, "pause briefly between displayed actions")
	costume := flag.Bool("costume_combinaisons", false, "try forcing an early suit pickup in phase 2 and keep the cheapest result")
	refereeURL := flag.String("referee", "", "remote referee base URL; empty runs against an in-process demo scenario")
	token := flag.String("token", "", "bearer token for --referee")
	jwtSecret := flag.String("jwt-secret", "", "mint a bearer token with this secret instead of --token")
	callerID := flag.String("caller-id", "hitman-cli", "caller identity used when minting a token via --jwt-secret")
	scenario := flag.String("scenario", "empty-2x2", "demo scenario when --referee is unset: "+scenarioNames())
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	logger.Init()
	if *debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	if !*display {
		*temp = false
	}

	satMode, err := parseSATMode(*satFlag)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid --sat value")
	}

	ref, err := buildReferee(*refereeURL, *token, *jwtSecret, *callerID, *scenario)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to set up referee")
	}

	if err := run(ref, satMode, *costume, *display, *temp); err != nil {
		log.Fatal().Err(err).Msg("run failed")
	}
}

func scenarioNames() string {
	s := ""
	for name := range demoScenarios {
		if s != "" {
			s += ", "
		}
		s += name
	}
	return s
}

func parseSATMode(s string) (knowledge.SATMode, error) {
	return knowledge.ParseSATMode(s)
}

func buildReferee(url, token, jwtSecret, callerID, scenarioName string) (referee.Referee, error) {
	if url != "" {
		if jwtSecret != "" {
			mgr := auth.NewJWTManager(jwtSecret)
			minted, err := mgr.GenerateAccessToken(callerID)
			if err != nil {
				return nil, fmt.Errorf("mint access token: %w", err)
			}
			token = minted
		}
		return refereeclient.New(url, token), nil
	}

	build, ok := demoScenarios[scenarioName]
	if !ok {
		return nil, fmt.Errorf("unknown demo scenario %q (available: %s)", scenarioName, scenarioNames())
	}
	sc := build()
	return memory.New(sc.Ground, sc.Start, sc.Facing, sc.GuardCount, sc.CivilCount), nil
}

// run drives a full phase-1-then-phase-2 pass against ref. When display is
// set it prints the board once phase 1 has resolved it and after every
// phase-2 action; phase-1 actions are not printed.
func run(ref referee.Referee, satMode knowledge.SATMode, costume, display, temp bool) error {
	hooks := runner.Hooks{
		OnBoardKnown: func(b *board.Board) { showBoard(b, display) },
		OnAction: func(_ plan.Action, _ referee.Status, b *board.Board) {
			showBoard(b, display)
			if temp {
				time.Sleep(250 * time.Millisecond)
			}
		},
	}

	result, err := runner.Run(ref, runner.Options{SATMode: satMode, Costume: costume}, hooks)
	if err != nil {
		return err
	}
	log.Info().Int("score", result.Phase1Score).Msg("phase 1 complete")
	log.Info().Int("score", result.Phase2Score).Msg("phase 2 complete")
	return nil
}

func showBoard(b *board.Board, display bool) {
	if !display {
		return
	}
	fmt.Fprint(os.Stdout, b.Render())
}
