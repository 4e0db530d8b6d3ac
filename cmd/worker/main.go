// Command worker answers extraction requests over NATS. Replicas share a
// queue group, so running more workers spreads load without duplicating
// replies.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	"github.com/SeezeAI/seeze-engine/engine/catalog"
	"github.com/SeezeAI/seeze-engine/engine/domain"
	"github.com/SeezeAI/seeze-engine/engine/extract"
	"github.com/SeezeAI/seeze-engine/pkg/fn"
	"github.com/SeezeAI/seeze-engine/pkg/metrics"
	"github.com/SeezeAI/seeze-engine/pkg/natsutil"
)

const (
	extractSubject = "engine.extract"
	queueGroup     = "extractors"
)

// ExtractRequest is the NATS request payload.
type ExtractRequest struct {
	ID   string `json:"id,omitempty"`
	Text string `json:"text"`
}

// ExtractReply is the NATS reply payload.
type ExtractReply struct {
	ID     string        `json:"id"`
	Result domain.Result `json:"result"`
}

var met = metrics.New()

var (
	mRequests = met.Counter("seeze_worker_requests_total", "Extraction requests handled")
	mMisses   = met.Counter("seeze_worker_misses_total", "Requests with no field resolved")
	mLatency  = met.Histogram("seeze_worker_extract_seconds", "Per-request extraction time", nil)
)

func main() {
	var (
		natsURL        = flag.String("nats", nats.DefaultURL, "NATS server URL")
		catalogPath    = flag.String("catalog", "data/catalog.json", "catalog hierarchy JSON")
		modelAliasPath = flag.String("model-aliases", "", "model alias JSON")
		trimAliasPath  = flag.String("trim-aliases", "", "trim alias JSON")
		metricsPort    = flag.Int("metrics-port", 9092, "metrics HTTP port")
	)
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	if err := run(*natsURL, *catalogPath, *modelAliasPath, *trimAliasPath, *metricsPort, logger); err != nil {
		logger.Error("worker exited with error", "err", err)
		os.Exit(1)
	}
}

func run(natsURL, catalogPath, modelAliasPath, trimAliasPath string, metricsPort int, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cat, err := catalog.LoadFiles(catalogPath, modelAliasPath, trimAliasPath)
	if err != nil {
		return err
	}
	logger.Info("catalog loaded", "makes", len(cat.Makes()), "models", len(cat.AllModels()))

	engine := extract.New(cat, extract.WithLogger(logger))

	nc, err := fn.Retry(ctx, fn.DefaultRetry, func(context.Context) fn.Result[*nats.Conn] {
		return fn.FromPair(nats.Connect(natsURL))
	}).Unwrap()
	if err != nil {
		return err
	}
	defer nc.Close()

	met.ServeAsync(metricsPort, logger)

	sub, err := natsutil.Serve(nc, extractSubject, queueGroup, func(_ context.Context, req ExtractRequest) ExtractReply {
		return handle(engine, req)
	})
	if err != nil {
		return err
	}
	defer sub.Unsubscribe()

	logger.Info("worker listening", "subject", extractSubject, "queue", queueGroup)
	<-ctx.Done()
	logger.Info("shutdown signal received")

	drainCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	done := make(chan struct{})
	go func() {
		nc.Drain()
		close(done)
	}()
	select {
	case <-done:
	case <-drainCtx.Done():
	}
	return nil
}

func handle(engine *extract.Engine, req ExtractRequest) ExtractReply {
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	start := time.Now()
	res := engine.Extract(req.Text)
	mLatency.Since(start)
	mRequests.Inc()
	if !res.HasMake() && !res.HasModel() && !res.HasTrim() {
		mMisses.Inc()
	}
	return ExtractReply{ID: req.ID, Result: res}
}
