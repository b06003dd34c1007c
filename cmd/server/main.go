package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"googlemaps.github.io/maps"

	"task-companion-service/internal/adapters/ai"
	rediscache "task-companion-service/internal/adapters/cache"
	"task-companion-service/internal/adapters/geocode"
	"task-companion-service/internal/adapters/repositories"
	"task-companion-service/internal/api"
	"task-companion-service/internal/config"
	"task-companion-service/internal/metrics"
	"task-companion-service/internal/ports"
	"task-companion-service/internal/services"
)

const (
	envLocal = "local"
	envDev   = "development"
	envProd  = "production"
)

// main is the application composition root. It wires concrete adapters
// (Postgres, Redis, OpenAI, Google Maps) behind ports and starts the HTTP
// server plus the background enrichment worker.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	logger := setupLogger(cfg.Env)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.NewMetrics(reg)

	pool, err := repositories.NewDatabase(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := repositories.InitSchema(ctx, pool); err != nil {
		logger.Error("failed to initialize schema", "error", err)
		os.Exit(1)
	}

	taskRepo := repositories.NewPostgresTaskRepository(pool)
	convRepo := repositories.NewPostgresConversationRepository(pool)
	patternRepo := repositories.NewPostgresPatternRepository(pool)
	suggestionRepo := repositories.NewPostgresSuggestionRepository(pool)
	emotionRepo := repositories.NewPostgresEmotionRepository(pool)

	// Optional integrations below: the assistant degrades to heuristics
	// without the model, plans fall back to pseudo-coordinates without the
	// geocoder, and suggestion reads skip the cache without Redis.

	var suggestionCache ports.SuggestionCache
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := client.Ping(ctx).Err(); err != nil {
			logger.Warn("redis unreachable, suggestion cache disabled", "error", err)
		} else {
			suggestionCache = rediscache.NewRedisSuggestionCache(client)
			defer client.Close()
		}
	}

	var completer ports.ChatCompleter
	var transcriber ports.Transcriber
	if cfg.OpenAIKey != "" {
		client, err := ai.NewOpenAIClient(cfg.OpenAIKey,
			ai.WithChatModel(cfg.OpenAIModel),
			ai.WithAudioModel(cfg.WhisperModel),
		)
		if err != nil {
			logger.Error("failed to create OpenAI client", "error", err)
			os.Exit(1)
		}
		completer = client
		transcriber = client
	} else {
		logger.Info("OPENAI_API_KEY not set, using heuristic extraction")
	}

	contextSvc := services.NewContextService(logger, taskRepo, convRepo, patternRepo)
	assistant := services.NewAssistant(logger, taskRepo, convRepo, emotionRepo, contextSvc,
		completer, transcriber, appMetrics)
	proactive := services.NewProactiveService(logger, taskRepo, patternRepo, suggestionRepo,
		suggestionCache, appMetrics, cfg.SuggestionCacheTTL)

	if cfg.GoogleMapsKey != "" {
		mapsClient, err := maps.NewClient(maps.WithAPIKey(cfg.GoogleMapsKey))
		if err != nil {
			logger.Error("failed to create Google Maps client", "error", err)
			os.Exit(1)
		}
		geocoder := geocode.NewGoogleGeocoder(mapsClient, logger, cfg.RegionSuffix)
		enrichment := services.NewEnrichmentService(logger, taskRepo, geocoder, appMetrics,
			cfg.GeocodeWorkers, cfg.GeocodeInterval)
		go enrichment.Run(ctx)
	} else {
		logger.Info("GOOGLE_MAPS_API_KEY not set, coordinate enrichment disabled")
	}

	router := api.NewRouter(api.Deps{
		Log:       logger,
		DB:        pool,
		Tasks:     taskRepo,
		Assistant: assistant,
		Proactive: proactive,
		Metrics:   appMetrics,
		Registry:  reg,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", "error", err)
	}
	logger.Info("server stopped")
}

// setupLogger selects the log handler for the environment: readable text
// locally, JSON elsewhere.
func setupLogger(env string) *slog.Logger {
	switch env {
	case envLocal:
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level:     slog.LevelDebug,
			AddSource: true,
		}))
	case envProd:
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelWarn,
		}))
	case envDev:
		fallthrough
	default:
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))
	}
}
