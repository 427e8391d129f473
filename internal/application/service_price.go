package application

import (
	"context"

	"github.com/viralforge/forensics-engine/internal/domain"
)

// EstimatePrice runs the pricing model for one quote. The computation is
// cheap, but it still honors the request deadline so a caller cancelling the
// request never receives a late answer.
func (s *Service) EstimatePrice(ctx context.Context, in PriceInput) (domain.PriceEstimate, error) {
	if in.Reach < 0 || in.EngagementRate < 0 {
		return domain.PriceEstimate{}, domain.ErrInvalidInput
	}
	if in.FraudScore < 0 || in.FraudScore > 100 {
		return domain.PriceEstimate{}, domain.ErrInvalidInput
	}
	if in.MarketRate != nil && *in.MarketRate < 0 {
		return domain.PriceEstimate{}, domain.ErrInvalidInput
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.RequestTimeout)
	defer cancel()
	if err := ctx.Err(); err != nil {
		return domain.PriceEstimate{}, deadlineErr(err)
	}

	marketRate := 0.0
	if in.MarketRate != nil {
		marketRate = *in.MarketRate
	}
	estimate := s.model.Load().Predict(in.Reach, in.EngagementRate, in.FraudScore, in.Niche, marketRate)

	if err := ctx.Err(); err != nil {
		return domain.PriceEstimate{}, deadlineErr(err)
	}
	return estimate, nil
}
