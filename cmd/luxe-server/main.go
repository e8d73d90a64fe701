package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"github.com/harshimysarla/LuxeAI/internal/config"
	"github.com/harshimysarla/LuxeAI/internal/db"
	"github.com/harshimysarla/LuxeAI/internal/httpapi"
	"github.com/harshimysarla/LuxeAI/internal/logger"
	"github.com/harshimysarla/LuxeAI/internal/lounge/eligibility"
	"github.com/harshimysarla/LuxeAI/internal/lounge/face"
	"github.com/harshimysarla/LuxeAI/internal/lounge/service"
	"github.com/harshimysarla/LuxeAI/internal/lounge/store/sqlite"
	"github.com/harshimysarla/LuxeAI/internal/metrics"
)

const startupProbeTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("luxe-server exited", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logger.SetupDefault(os.Stdout, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Storage
	sqlDB, err := db.Open(ctx, db.Config{Path: cfg.DBPath, Env: cfg.Env})
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	writer := db.NewWorker(sqlDB)
	defer writer.Close()

	if cfg.SeedDev && !cfg.IsProduction() {
		if err := db.SeedDev(ctx, writer); err != nil {
			return err
		}
	}
	st := sqlite.New(sqlDB, writer)

	// Metrics
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.NewCollector(reg)

	// Face model
	ex, err := openExtractor(ctx, cfg)
	if err != nil {
		return err
	}
	if c, ok := ex.(interface{ Close() error }); ok {
		defer c.Close()
	}
	if cfg.FaceExtractor == face.KindDeterministic {
		log.Warn("deterministic face extractor selected; signatures do not identify people")
	}
	instrumented := service.InstrumentExtractor(ex, m)

	// Services
	registry := service.NewLoungeRegistry(st)
	accessSvc := service.NewAccessService(service.AccessDeps{
		Facts:          st,
		Entries:        st,
		Decider:        eligibility.New(instrumented, eligibility.Config{Threshold: cfg.SimilarityThreshold}),
		Metrics:        m,
		Logger:         log,
		Model:          cfg.FaceModel,
		ExtractTimeout: cfg.ExtractTimeout,
	})
	enrollSvc := service.NewEnrollmentService(service.EnrollmentDeps{
		Identities:     st,
		Signatures:     st,
		Extractor:      instrumented,
		Model:          cfg.FaceModel,
		Logger:         log,
		ExtractTimeout: cfg.ExtractTimeout,
	})

	pruner := service.NewEntryLogPruner(st, service.PrunerConfig{
		RetentionDays: cfg.EntryLogRetentionDays,
		IntervalHours: cfg.PruneIntervalHours,
	}, log)
	pruner.Start(ctx)
	defer pruner.Stop()

	// HTTP
	srv := httpapi.NewServer(httpapi.Dependencies{
		Logger:              log,
		Addr:                cfg.HTTPAddr,
		Production:          cfg.IsProduction(),
		MaxImageBytes:       cfg.MaxImageBytes,
		VerifyRatePerMinute: cfg.VerifyRatePerMinute,
		AccessService:       accessSvc,
		EnrollmentService:   enrollSvc,
		IdentityService:     service.NewIdentityService(st),
		BookingService:      service.NewBookingService(st, registry, m, log),
		LoungeRegistry:      registry,
		AdminService:        service.NewAdminService(st, cfg.BookingFee),
		MetricsHandler:      metrics.Handler(reg),
		Ready:               readiness(sqlDB.PingContext, ex),
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("listening",
			slog.String("addr", cfg.HTTPAddr),
			slog.String("env", cfg.Env),
			slog.String("extractor", cfg.FaceExtractor),
			slog.Float64("threshold", cfg.SimilarityThreshold),
		)
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		log.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// openExtractor builds the configured extractor and probes its model
// backend. An unreachable model is a deployment fault, so startup fails.
func openExtractor(ctx context.Context, cfg config.Config) (face.Extractor, error) {
	ex, err := face.New(face.Options{
		Kind:            cfg.FaceExtractor,
		Production:      cfg.IsProduction(),
		Model:           cfg.FaceModel,
		Dim:             cfg.SignatureDim,
		DeepFaceURL:     cfg.DeepFaceURL,
		DetectorBackend: cfg.DetectorBackend,
		GRPCAddr:        cfg.EmbedderGRPCAddr,
	})
	if err != nil {
		return nil, err
	}

	probeCtx, cancel := context.WithTimeout(ctx, startupProbeTimeout)
	defer cancel()
	if err := face.Probe(probeCtx, ex); err != nil {
		if c, ok := ex.(interface{ Close() error }); ok {
			_ = c.Close()
		}
		return nil, fmt.Errorf("face model %s: %w", cfg.FaceExtractor, err)
	}
	return ex, nil
}

// readiness checks the database and, when the extractor can probe its
// sidecar, the model.
func readiness(ping func(context.Context) error, ex face.Extractor) func(context.Context) error {
	return func(ctx context.Context) error {
		if err := ping(ctx); err != nil {
			return err
		}
		return face.Probe(ctx, ex)
	}
}
