package main

import (
	"context"
	"os"

	"ordermatch-backend/comparison"
	"ordermatch-backend/config"
	"ordermatch-backend/extraction"
	"ordermatch-backend/handlers"
	"ordermatch-backend/logger"
	"ordermatch-backend/metrics"
	"ordermatch-backend/repository"
	"ordermatch-backend/service"
	"ordermatch-backend/storage"

	"github.com/gin-gonic/gin"
	"github.com/google/generative-ai-go/genai"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/time/rate"
	"google.golang.org/api/option"
)

func main() {
	cfg := config.Load()
	log := logger.Init("ordermatch", cfg.LogLevel)
	gin.SetMode(gin.ReleaseMode)

	m := metrics.NewMetrics(prometheus.DefaultRegisterer)

	// Initialize Gemini client
	geminiClient, err := initGemini(cfg.GeminiAPIKey)
	if err != nil {
		log.Error("Failed to initialize Gemini", "error", err)
		os.Exit(1)
	}
	defer geminiClient.Close()

	engine := comparison.NewEngine(
		comparison.WithPolicy(cfg.Policy()),
		comparison.WithSummarizer(extraction.NewGeminiSummarizer(geminiClient, cfg.GeminiModel)),
		comparison.WithFallbackHook(func(err error) {
			m.SummaryFallbacks.Inc()
			log.Warn("Summary unavailable, using fallback text", "error", err)
		}),
	)

	opts := []service.ComparisonServiceOption{
		service.WithEngine(engine),
		service.WithExtractor(extraction.NewGeminiExtractor(geminiClient, cfg.GeminiModel)),
		service.WithReportCacheTTL(cfg.ReportCacheTTL),
		service.WithMetrics(m),
	}

	// History is optional; without a database the service only keeps the report cache
	if cfg.DatabaseURL != "" {
		db, err := initPostgres(cfg.DatabaseURL)
		if err != nil {
			log.Error("Failed to initialize Postgres", "error", err)
			os.Exit(1)
		}
		defer db.Close()

		documentStorage, err := storage.NewStorageFromEnv()
		if err != nil {
			log.Error("Failed to initialize storage", "error", err)
			os.Exit(1)
		}
		log.Info("Comparison history enabled")

		opts = append(opts,
			service.WithStorage(documentStorage),
			service.WithComparisonRepository(repository.NewComparisonRepository(db)),
			service.WithDocumentRepository(repository.NewDocumentRepository(db)),
		)
	} else {
		log.Info("DATABASE_URL not set, comparison history disabled")
	}

	comparisonService := service.NewComparisonService(opts...)

	var limiter *rate.Limiter
	if cfg.RateLimitRPS > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst)
	}

	r := handlers.NewRouter(handlers.RouterConfig{
		ComparisonService: comparisonService,
		MaxUploadBytes:    cfg.MaxUploadBytes,
		Limiter:           limiter,
		Gatherer:          prometheus.DefaultGatherer,
	})

	log.Info("Server starting", "port", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Error("Failed to start server", "error", err)
		os.Exit(1)
	}
}

func initPostgres(connString string) (*pgxpool.Pool, error) {
	ctx := context.Background()

	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	logger.L.Info("Postgres connection established")
	return pool, nil
}

func initGemini(apiKey string) (*genai.Client, error) {
	client, err := genai.NewClient(context.Background(), option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}

	logger.L.Info("Gemini client initialized")
	return client, nil
}
