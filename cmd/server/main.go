package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Rrens/ai-debate/internal/api"
	"github.com/Rrens/ai-debate/internal/api/handler"
	"github.com/Rrens/ai-debate/internal/bus"
	"github.com/Rrens/ai-debate/internal/config"
	"github.com/Rrens/ai-debate/internal/debate"
	"github.com/Rrens/ai-debate/internal/domain"
	"github.com/Rrens/ai-debate/internal/llm"
	"github.com/Rrens/ai-debate/internal/llm/anthropic"
	"github.com/Rrens/ai-debate/internal/llm/deepseek"
	"github.com/Rrens/ai-debate/internal/llm/gemini"
	"github.com/Rrens/ai-debate/internal/llm/ollama"
	"github.com/Rrens/ai-debate/internal/llm/openai"
	"github.com/Rrens/ai-debate/internal/llm/openrouter"
	"github.com/Rrens/ai-debate/internal/logging"
	"github.com/Rrens/ai-debate/internal/repository/mongo"
	"github.com/Rrens/ai-debate/internal/repository/postgres"
	"github.com/Rrens/ai-debate/internal/repository/redis"
	"github.com/Rrens/ai-debate/internal/repository/sqlite"
	"github.com/Rrens/ai-debate/internal/service"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load .env file - try multiple locations
	envLoaded := ""
	for _, p := range []string{".env", "../.env", "../../.env"} {
		if err := godotenv.Load(p); err == nil {
			envLoaded = p
			break
		}
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logCloser, err := logging.Setup(cfg.Logging, os.Getenv("ENV") == "production")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to set up logging: %v\n", err)
		os.Exit(1)
	}
	defer logCloser.Close()

	if envLoaded != "" {
		log.Debug().Str("path", envLoaded).Msg("loaded .env")
	}

	log.Info().
		Str("host", cfg.Server.Host).
		Int("port", cfg.Server.Port).
		Int("max_turns", cfg.Debate.MaxTurns).
		Str("bus", cfg.Bus.Driver).
		Str("archive", cfg.Archive.Driver).
		Msg("Starting AI debate server")

	ctx := context.Background()
	ready := map[string]handler.Pinger{}

	// Menu storage
	var menuRepo domain.MenuRepository
	switch cfg.Database.Driver {
	case "postgres":
		if err := postgres.RunMigrations(cfg.Database.DSN()); err != nil {
			log.Fatal().Err(err).Msg("Failed to migrate database")
		}
		db, err := postgres.NewDB(ctx, cfg.Database)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to database")
		}
		defer db.Close()
		menuRepo = postgres.NewMenuRepository(db)
	default:
		db, err := sqlite.Open(ctx, cfg.Database.Path)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to open database")
		}
		defer db.Close()
		if err := db.Migrate(); err != nil {
			log.Fatal().Err(err).Msg("Failed to migrate database")
		}
		menuRepo = sqlite.NewMenuRepository(db)
	}
	ready["database"] = menuRepo

	// Redis backs the bus, the archive and the rate limiter when any of them asks for it
	var redisClient *redis.Client
	if cfg.NeedsRedis() {
		redisClient, err = redis.NewClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		defer redisClient.Close()
		ready["redis"] = redisClient
	}

	// Update channel
	var (
		publisher  domain.EventPublisher
		subscriber domain.EventSubscriber
	)
	switch cfg.Bus.Driver {
	case "redis":
		b := redis.NewBus(redisClient, cfg.Bus.BufferSize)
		publisher, subscriber = b, b
	default:
		b := bus.NewMemory(cfg.Bus.BufferSize)
		publisher, subscriber = b, b
	}

	// Finished debate archive
	var archive domain.DebateArchive
	switch cfg.Archive.Driver {
	case "redis":
		archive = redis.NewArchive(redisClient, cfg.Archive.TTL)
	case "mongo":
		a, err := mongo.Connect(ctx, cfg.Mongo)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to MongoDB")
		}
		defer func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = a.Close(closeCtx)
		}()
		archive = a
		ready["mongo"] = a
	}

	// LLM providers
	llmRouter := llm.NewRouter(cfg.LLM.DefaultProvider)
	llmRouter.RegisterProvider(openrouter.NewProvider(cfg.LLM.OpenRouter, cfg.LLM.Timeout))
	llmRouter.RegisterProvider(openai.NewProvider(cfg.LLM.OpenAI.APIKey, cfg.LLM.OpenAI.Model))
	llmRouter.RegisterProvider(anthropic.NewProvider(cfg.LLM.Anthropic.APIKey, cfg.LLM.Anthropic.Model))
	llmRouter.RegisterProvider(deepseek.NewProvider(cfg.LLM.DeepSeek.APIKey, cfg.LLM.DeepSeek.Model))
	llmRouter.RegisterProvider(gemini.NewProvider(cfg.LLM.Gemini))
	llmRouter.RegisterProvider(ollama.NewProvider(cfg.LLM.Ollama.Host, cfg.LLM.Ollama.DefaultModel))

	log.Info().Strs("providers", llmRouter.ListProviders()).Msg("LLM providers configured")

	personas, err := debate.LoadPersonas(cfg.Debate)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid debate personas")
	}

	// Debate core
	registry := debate.NewMemoryRegistry()
	orchestrator := debate.NewOrchestrator(registry, llmRouter, publisher, archive, personas, debate.Options{
		MaxOutputTokens: cfg.Debate.MaxOutputTokens,
		Temperature:     cfg.Debate.Temperature,
		TurnDelay:       cfg.Debate.TurnDelay,
	})
	runner := debate.NewRunner(orchestrator)
	issuer := debate.NewIssuer(cfg.Debate.MaxTurns, cfg.Debate.MaxTopicLength)

	deps := api.Dependencies{
		Config:     cfg,
		Debates:    service.NewDebateService(issuer, runner, runner, registry, archive, cfg.Debate.SyncTimeout),
		Menus:      service.NewMenuService(menuRepo),
		Subscriber: subscriber,
		LLM:        llmRouter,
		Personas:   orchestrator.Personas(),
		Ready:      ready,
	}
	if cfg.Security.RateLimit.Enabled {
		deps.RateLimiter = redis.NewRateLimiter(redisClient,
			cfg.Security.RateLimit.RequestsPerMinute, cfg.Security.RateLimit.Burst)
	}

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      api.NewRouter(deps),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().Msgf("Server listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	// Stop debates first so subscribers receive their terminal update
	if err := runner.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Debates did not stop in time")
	}
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}
