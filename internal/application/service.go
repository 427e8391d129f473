package application

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/viralforge/forensics-engine/internal/domain"
)

// NewService wires the analysis engine, applying the documented defaults for
// any threshold or weight the config leaves at zero, and fits the initial
// pricing model.
func NewService(deps Dependencies) (*Service, error) {
	cfg := deps.Config
	if cfg.ServiceName == "" {
		cfg.ServiceName = "forensics-engine"
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 8 * time.Second
	}
	if cfg.Benford.MinSampleSize <= 0 {
		cfg.Benford.MinSampleSize = 30
	}
	if cfg.Benford.ChiSquareThreshold <= 0 {
		cfg.Benford.ChiSquareThreshold = 15.51
	}
	if cfg.Entropy.OrganicMinBits <= 0 {
		cfg.Entropy.OrganicMinBits = 3.5
	}
	if cfg.Entropy.BotFarmMaxBits <= 0 {
		cfg.Entropy.BotFarmMaxBits = 1.5
	}
	if cfg.Entropy.DuplicationBound <= 0 {
		cfg.Entropy.DuplicationBound = 0.30
	}
	if cfg.Entropy.LowComplexityBelow <= 0 {
		cfg.Entropy.LowComplexityBelow = 6.0
	}
	if cfg.Fraud.DistributionWeight <= 0 {
		cfg.Fraud.DistributionWeight = 0.40
	}
	if cfg.Fraud.EntropyWeight <= 0 {
		cfg.Fraud.EntropyWeight = 0.30
	}
	if cfg.Fraud.AuxiliaryWeight <= 0 {
		cfg.Fraud.AuxiliaryWeight = 0.30
	}
	if cfg.Fraud.GrowthSpikeFactor <= 0 {
		cfg.Fraud.GrowthSpikeFactor = 2.0
	}
	if cfg.Fraud.DuplicationBound <= 0 {
		cfg.Fraud.DuplicationBound = cfg.Entropy.DuplicationBound
	}
	if cfg.Fraud.LowComplexityBelow <= 0 {
		cfg.Fraud.LowComplexityBelow = cfg.Entropy.LowComplexityBelow
	}
	if cfg.Pricing.Seed == 0 {
		cfg.Pricing.Seed = 42
	}
	if cfg.Pricing.Samples <= 0 {
		cfg.Pricing.Samples = 1000
	}
	if cfg.Pricing.MinPrice <= 0 {
		cfg.Pricing.MinPrice = 50
	}
	if cfg.Pricing.ValuationTolerance <= 0 {
		cfg.Pricing.ValuationTolerance = 0.20
	}
	if cfg.Pricing.MarketRatePer1000 <= 0 {
		cfg.Pricing.MarketRatePer1000 = 10
	}
	if cfg.Pricing.ModelVersion == "" {
		cfg.Pricing.ModelVersion = "ols_v1"
	}
	if cfg.BrandFit.MaxTopics <= 0 {
		cfg.BrandFit.MaxTopics = 10
	}

	s := &Service{cfg: cfg, nowFn: func() time.Time { return time.Now().UTC() }}
	model, err := domain.TrainPriceModel(cfg.Pricing)
	if err != nil {
		return nil, err
	}
	s.model.Store(model)
	return s, nil
}

// RecalibratePricing refits the pricing model from the current config and
// swaps it in atomically. In-flight requests keep the model they started
// with.
func (s *Service) RecalibratePricing(ctx context.Context) error {
	model, err := domain.TrainPriceModel(s.cfg.Pricing)
	if err != nil {
		return err
	}
	s.model.Swap(model)
	serviceLogger().InfoContext(ctx, "pricing model recalibrated",
		"operation", "pricing_recalibration",
		"outcome", "success",
		"fraud_coefficient", model.FraudCoefficient(),
	)
	return nil
}

// Ready reports whether the engine can answer analysis requests: the pricing
// model must be fitted.
func (s *Service) Ready() bool {
	return s.model.Load() != nil
}

func serviceLogger() *slog.Logger {
	return slog.Default().With(
		"module", "application",
		"layer", "service",
	)
}

// deadlineErr translates context expiry into the engine's retryable timeout
// error; other context errors pass through.
func deadlineErr(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return domain.ErrTimeout
	}
	return err
}
