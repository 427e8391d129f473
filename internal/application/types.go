package application

import (
	"sync/atomic"
	"time"

	"github.com/viralforge/forensics-engine/internal/domain"
)

type Config struct {
	ServiceName string
	// RequestTimeout is the wall-clock budget for one request's analyses.
	// The dashboard aborts client-side at 8s, so the engine answers first.
	RequestTimeout time.Duration
	Benford        domain.BenfordConfig
	Entropy        domain.EntropyConfig
	Fraud          domain.FraudConfig
	Pricing        domain.PricingConfig
	BrandFit       domain.BrandFitConfig
}

type ForensicsInput struct {
	Metrics           []int64
	Comments          []string
	Reach             *int64
	EngagementRate    *float64
	FakeFollowerRatio *float64
	WeeklyFollowers   []int64
}

type PriceInput struct {
	Reach          int64
	EngagementRate float64
	FraudScore     float64
	Niche          string
	MarketRate     *float64
}

type BrandFitInput struct {
	Bio      string
	Captions []string
	Keywords []string
}

type Service struct {
	cfg   Config
	model atomic.Pointer[domain.PriceModel]
	nowFn func() time.Time
}

type Dependencies struct {
	Config Config
}
