package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/viralforge/forensics-engine/internal/adapters/cache"
	grpcadapter "github.com/viralforge/forensics-engine/internal/adapters/grpc"
	httpadapter "github.com/viralforge/forensics-engine/internal/adapters/http"
	"github.com/viralforge/forensics-engine/internal/adapters/scheduler"
	"github.com/viralforge/forensics-engine/internal/application"
	"github.com/viralforge/forensics-engine/internal/domain"
	"github.com/viralforge/forensics-engine/internal/ports"
	"google.golang.org/grpc"
)

type Runtime struct {
	cfg        Config
	logger     *slog.Logger
	httpServer *http.Server
	grpcServer *grpc.Server
	grpcLis    net.Listener
	scheduler  *scheduler.Scheduler
	cleanupFn  func(context.Context)
}

func NewRuntime(ctx context.Context, configPath string) (*Runtime, error) {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})).With("service", cfg.ServiceID)
	slog.SetDefault(logger)

	service, err := application.NewService(application.Dependencies{
		Config: application.Config{
			ServiceName:    cfg.ServiceID,
			RequestTimeout: cfg.RequestTimeout,
			Benford: domain.BenfordConfig{
				MinSampleSize:      cfg.BenfordMinSampleSize,
				ChiSquareThreshold: cfg.BenfordChiSquareThreshold,
			},
			Entropy: domain.EntropyConfig{
				OrganicMinBits:     cfg.EntropyOrganicMinBits,
				BotFarmMaxBits:     cfg.EntropyBotFarmMaxBits,
				DuplicationBound:   cfg.EntropyDuplicationBound,
				LowComplexityBelow: cfg.EntropyLowComplexityBelow,
			},
			Fraud: domain.FraudConfig{
				DistributionWeight: cfg.FraudDistributionWeight,
				EntropyWeight:      cfg.FraudEntropyWeight,
				AuxiliaryWeight:    cfg.FraudAuxiliaryWeight,
				GrowthSpikeFactor:  cfg.FraudGrowthSpikeFactor,
			},
			Pricing: domain.PricingConfig{
				Seed:               cfg.PricingSeed,
				Samples:            cfg.PricingSamples,
				MinPrice:           cfg.PricingMinPrice,
				ValuationTolerance: cfg.PricingValuationTolerance,
				MarketRatePer1000:  cfg.PricingMarketRatePer1000,
				NicheFactors:       cfg.PricingNicheFactors,
				ModelVersion:       cfg.PricingModelVersion,
			},
			BrandFit: domain.BrandFitConfig{
				MaxTopics: cfg.BrandFitMaxTopics,
			},
		},
	})
	if err != nil {
		return nil, err
	}

	var limiter ports.RateLimiter
	var sweeper scheduler.Sweeper
	cleanup := func(context.Context) {}
	if cfg.RedisURL != "" {
		redisClient, err := cache.Connect(ctx, cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		limiter = cache.NewRedisRateLimiter(redisClient, cfg.RateLimitPerMinute, time.Minute)
		cleanup = func(context.Context) { _ = redisClient.Close() }
	} else {
		logger.WarnContext(ctx, "no redis configured, using in-process rate limiter")
		memLimiter := cache.NewMemoryRateLimiter(cfg.RateLimitPerMinute, time.Minute)
		limiter = memLimiter
		sweeper = memLimiter
	}

	handler := httpadapter.NewHandler(service)
	router := httpadapter.NewRouter(handler, limiter)
	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	grpcServer := newGRPCServer(service)
	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.GRPCPort))
	if err != nil {
		cleanup(ctx)
		return nil, err
	}

	sched := scheduler.New(logger)
	if err := sched.AddRecalibration(cfg.RecalibrateSchedule, service); err != nil {
		cleanup(ctx)
		_ = lis.Close()
		return nil, err
	}
	if sweeper != nil {
		if err := sched.AddSweep(cfg.SweepSchedule, sweeper); err != nil {
			cleanup(ctx)
			_ = lis.Close()
			return nil, err
		}
	}

	return &Runtime{
		cfg:        cfg,
		logger:     logger,
		httpServer: httpServer,
		grpcServer: grpcServer,
		grpcLis:    lis,
		scheduler:  sched,
		cleanupFn:  cleanup,
	}, nil
}

// newGRPCServer wires the mesh-internal surface. The forensics server is the
// process's health.v1 implementation; registering it exactly once matters
// because grpc-go treats a duplicate service registration as fatal.
func newGRPCServer(service *application.Service) *grpc.Server {
	srv := grpc.NewServer()
	grpcadapter.Register(srv, grpcadapter.NewForensicsInternalServer(service))
	return srv
}

func (r *Runtime) RunAPI(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	errCh := make(chan error, 2)

	r.scheduler.Start()
	go func() {
		if err := r.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	go func() {
		if err := r.grpcServer.Serve(r.grpcLis); err != nil {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		r.logger.ErrorContext(ctx, "runtime failure", "error", err)
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	r.scheduler.Stop()
	_ = r.httpServer.Shutdown(shutdownCtx)
	r.grpcServer.GracefulStop()
	r.cleanupFn(shutdownCtx)
	return nil
}
