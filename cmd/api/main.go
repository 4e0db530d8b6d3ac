// Package main implements the Seeze extraction API server.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"golang.org/x/time/rate"

	"github.com/SeezeAI/seeze-engine/engine/catalog"
	"github.com/SeezeAI/seeze-engine/engine/extract"
	"github.com/SeezeAI/seeze-engine/pkg/metrics"
	"github.com/SeezeAI/seeze-engine/pkg/mid"
)

// Config holds all environment-based configuration.
type Config struct {
	Port           string
	CatalogSource  string // "file" or "graph"
	CatalogPath    string
	ModelAliasPath string
	TrimAliasPath  string
	Neo4jURL       string
	Neo4jUser      string
	Neo4jPass      string
	CORSOrigin     string
	RateRPS        float64
	RateBurst      int
	BatchWorkers   int
}

func loadConfig() Config {
	return Config{
		Port:           envOr("PORT", "8080"),
		CatalogSource:  envOr("CATALOG_SOURCE", "file"),
		CatalogPath:    envOr("CATALOG_PATH", "data/catalog.json"),
		ModelAliasPath: envOr("MODEL_ALIAS_PATH", ""),
		TrimAliasPath:  envOr("TRIM_ALIAS_PATH", ""),
		Neo4jURL:       envOr("NEO4J_URL", "neo4j://localhost:7687"),
		Neo4jUser:      envOr("NEO4J_USER", "neo4j"),
		Neo4jPass:      envOr("NEO4J_PASS", "password"),
		CORSOrigin:     envOr("CORS_ORIGIN", "*"),
		RateRPS:        envFloatOr("RATE_RPS", 50),
		RateBurst:      envIntOr("RATE_BURST", 100),
		BatchWorkers:   envIntOr("BATCH_WORKERS", 8),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloatOr(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg := loadConfig()

	if err := run(cfg, logger); err != nil {
		logger.Error("server exited with error", "err", err)
		os.Exit(1)
	}
}

func run(cfg Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cat, err := loadCatalog(ctx, cfg)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}
	logger.Info("catalog loaded",
		"makes", len(cat.Makes()),
		"models", len(cat.AllModels()),
		"trims", len(cat.AllTrims()),
	)

	engine := extract.New(cat, extract.WithLogger(logger))
	reg := metrics.New()

	handler := mid.Chain(newMux(engine, reg, cfg.BatchWorkers),
		mid.Recover(logger),
		mid.Logger(logger),
		mid.RequestID(),
		mid.CORS(cfg.CORSOrigin),
		mid.RateLimit(rate.NewLimiter(rate.Limit(cfg.RateRPS), cfg.RateBurst)),
		mid.OTel("seeze-api"),
	)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("api server starting", "port", cfg.Port)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return err
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutCtx)
}

func loadCatalog(ctx context.Context, cfg Config) (*catalog.Catalog, error) {
	switch cfg.CatalogSource {
	case "graph":
		driver, err := neo4j.NewDriverWithContext(cfg.Neo4jURL, neo4j.BasicAuth(cfg.Neo4jUser, cfg.Neo4jPass, ""))
		if err != nil {
			return nil, fmt.Errorf("neo4j driver: %w", err)
		}
		defer driver.Close(ctx)

		modelAliases, closeM, err := openOptional(cfg.ModelAliasPath)
		if err != nil {
			return nil, err
		}
		defer closeM()
		trimAliases, closeT, err := openOptional(cfg.TrimAliasPath)
		if err != nil {
			return nil, err
		}
		defer closeT()
		return catalog.LoadGraph(ctx, driver, modelAliases, trimAliases)
	default:
		return catalog.LoadFiles(cfg.CatalogPath, cfg.ModelAliasPath, cfg.TrimAliasPath)
	}
}

// openOptional opens path for reading, treating "" as no reader at all.
func openOptional(path string) (io.Reader, func(), error) {
	if path == "" {
		return nil, func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { f.Close() }, nil
}
