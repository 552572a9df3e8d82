package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/nprevot/hitman/internal/auth"
	"github.com/nprevot/hitman/internal/config"
	"github.com/nprevot/hitman/internal/handler"
	"github.com/nprevot/hitman/internal/logger"
	"github.com/nprevot/hitman/internal/middleware"
	"github.com/nprevot/hitman/internal/referee/memory"
	"github.com/nprevot/hitman/internal/runhub"
	"github.com/nprevot/hitman/internal/service"
	"github.com/nprevot/hitman/internal/store"
)

var demoScenarios = map[string]func() memory.Scenario{
	"empty-2x2":        memory.Scenario1EmptyBoard,
	"guard-near-start": memory.Scenario2GuardNearStart,
	"phase2-trivial":   memory.Scenario4Phase2Trivial,
	"guard-in-path":    memory.Scenario5GuardInPath,
	"costume-option":   memory.Scenario6CostumeOption,
}

func main() {
	logger.Init()
	cfg := config.Load()
	log.Info().Str("refereeURL", cfg.RefereeURL).Msg("config loaded")

	// Postgres run history is optional: cmd/hitmand still launches and
	// observes runs live over WebSocket without it, but GetRun then always
	// fails, since finished runs are only looked up in the store.
	var runStore *store.RunStore
	db, err := store.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Warn().Err(err).Msg("database connection failed, run history will not be persisted")
	} else {
		defer db.Close()
		runStore = store.NewRunStore(db)
		if err := runStore.EnsureSchema(context.Background()); err != nil {
			log.Warn().Err(err).Msg("failed to ensure run-history schema")
		}
	}

	// Redis caches the current phase of each running scan; nothing in this
	// binary reads the cached value back.
	var cache *store.Client
	redisClient, err := store.NewClient(cfg.RedisURL)
	if err != nil {
		log.Warn().Err(err).Msg("redis connection failed, live progress will not be cached")
	} else {
		defer redisClient.Close()
		cache = redisClient
	}

	jwtMgr := auth.NewJWTManager(cfg.JWTSecret)
	googleOAuth := auth.NewGoogleOAuth(
		os.Getenv("GOOGLE_CLIENT_ID"),
		os.Getenv("GOOGLE_CLIENT_SECRET"),
		os.Getenv("GOOGLE_REDIRECT_URL"),
	)

	hub := runhub.NewHub()
	runSvc := service.NewRunService(hub, cache, runStore, demoScenarios)

	authHandler := handler.NewAuthHandler(googleOAuth, jwtMgr)
	runHandler := handler.NewRunHandler(runSvc)
	wsHandler := runhub.NewHandler(hub, jwtMgr)

	mux := http.NewServeMux()
	authMw := auth.Middleware(jwtMgr)

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	mux.HandleFunc("GET /auth/google/login", authHandler.GoogleLogin)
	mux.HandleFunc("GET /auth/google/callback", authHandler.GoogleCallback)
	mux.HandleFunc("POST /auth/refresh", authHandler.RefreshToken)
	mux.HandleFunc("GET /auth/dev", authHandler.DevLogin)

	api := http.NewServeMux()
	api.HandleFunc("POST /runs", runHandler.LaunchRun)
	api.HandleFunc("GET /runs/{id}", runHandler.GetRun)

	mux.Handle("/api/v1/", http.StripPrefix("/api/v1", authMw(api)))
	mux.HandleFunc("GET /api/v1/ws", wsHandler.ServeWS)

	root := middleware.Chain(mux, middleware.Logger, middleware.CORS("*"), middleware.JSON)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      root,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server shutdown error")
	}
	log.Info().Msg("server stopped")
}
