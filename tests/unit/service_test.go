package unit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/viralforge/forensics-engine/internal/application"
	"github.com/viralforge/forensics-engine/internal/domain"
)

func newTestService(t *testing.T) *application.Service {
	t.Helper()
	svc, err := application.NewService(application.Dependencies{Config: application.Config{}})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	return svc
}

func ptrF(v float64) *float64 { return &v }
func ptrI(v int64) *int64     { return &v }

func narrowBandMetrics(n int) []int64 {
	metrics := make([]int64, 0, n)
	for i := 0; i < n; i++ {
		metrics = append(metrics, int64(5000+i*10))
	}
	return metrics
}

func TestAnalyzeForensicsSuspiciousProfile(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	comments := make([]string, 15)
	for i := range comments {
		comments[i] = "first comment gang"
	}
	report, err := svc.AnalyzeForensics(context.Background(), application.ForensicsInput{
		Metrics:           narrowBandMetrics(60),
		Comments:          comments,
		Reach:             ptrI(500_000),
		EngagementRate:    ptrF(0.4),
		FakeFollowerRatio: ptrF(0.55),
		WeeklyFollowers:   []int64{10_000, 11_000, 45_000},
	})
	if err != nil {
		t.Fatalf("analyze forensics: %v", err)
	}
	if !report.Distribution.Suspicious {
		t.Fatalf("expected distribution flagged, chi-square %.2f", report.Distribution.ChiSquare)
	}
	if report.Entropy.Verdict != domain.VerdictBotFarm {
		t.Fatalf("expected Bot-Farm verdict, got %s", report.Entropy.Verdict)
	}
	if report.Fraud.CompositeScore < 70 {
		t.Fatalf("expected composite at least 70 with every signal hot, got %d", report.Fraud.CompositeScore)
	}
	if len(report.Fraud.DegradedSignals) != 0 {
		t.Fatalf("expected no degraded signals, got %v", report.Fraud.DegradedSignals)
	}
}

func TestAnalyzeForensicsDegradedMode(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	comments := make([]string, 15)
	for i := range comments {
		comments[i] = "first comment gang"
	}
	report, err := svc.AnalyzeForensics(context.Background(), application.ForensicsInput{
		Metrics:  narrowBandMetrics(60),
		Comments: comments,
	})
	if err != nil {
		t.Fatalf("analyze forensics: %v", err)
	}
	if len(report.Fraud.DegradedSignals) != 3 {
		t.Fatalf("expected all auxiliary signals reported missing, got %v", report.Fraud.DegradedSignals)
	}
	// Distribution and entropy alone still carry the verdict.
	if report.Fraud.CompositeScore < 70 {
		t.Fatalf("expected high composite from core signals, got %d", report.Fraud.CompositeScore)
	}
}

func TestAnalyzeForensicsValidation(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.AnalyzeForensics(ctx, application.ForensicsInput{Comments: []string{"hi"}}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for empty metrics, got %v", err)
	}
	if _, err := svc.AnalyzeForensics(ctx, application.ForensicsInput{Metrics: []int64{100, -5}, Comments: []string{"hi"}}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for negative metric, got %v", err)
	}
	if _, err := svc.AnalyzeForensics(ctx, application.ForensicsInput{Metrics: narrowBandMetrics(60)}); !errors.Is(err, domain.ErrInsufficientData) {
		t.Fatalf("expected ErrInsufficientData for empty comments, got %v", err)
	}
	if _, err := svc.AnalyzeForensics(ctx, application.ForensicsInput{
		Metrics:           narrowBandMetrics(60),
		Comments:          []string{"hi"},
		FakeFollowerRatio: ptrF(1.4),
	}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for ratio above 1, got %v", err)
	}
	if _, err := svc.AnalyzeForensics(ctx, application.ForensicsInput{
		Metrics:  []int64{100, 200, 300},
		Comments: []string{"hi"},
	}); !errors.Is(err, domain.ErrInsufficientData) {
		t.Fatalf("expected ErrInsufficientData for tiny metric sample, got %v", err)
	}
}

func TestAnalyzeForensicsExpiredDeadline(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	<-ctx.Done()

	_, err := svc.AnalyzeForensics(ctx, application.ForensicsInput{
		Metrics:  narrowBandMetrics(60),
		Comments: []string{"hello there"},
	})
	if !errors.Is(err, domain.ErrTimeout) {
		t.Fatalf("expected ErrTimeout on expired deadline, got %v", err)
	}

	// The failure is per-request: the same service answers the next caller.
	if _, err := svc.AnalyzeForensics(context.Background(), application.ForensicsInput{
		Metrics:  narrowBandMetrics(60),
		Comments: []string{"hello there"},
	}); err != nil {
		t.Fatalf("expected fresh request to succeed, got %v", err)
	}
}

func TestEstimatePriceFraudDiscount(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	ctx := context.Background()

	flagged, err := svc.EstimatePrice(ctx, application.PriceInput{Reach: 35_000, EngagementRate: 1.2, FraudScore: 72, Niche: "Fashion"})
	if err != nil {
		t.Fatalf("estimate flagged: %v", err)
	}
	clean, err := svc.EstimatePrice(ctx, application.PriceInput{Reach: 35_000, EngagementRate: 1.2, FraudScore: 10, Niche: "Fashion"})
	if err != nil {
		t.Fatalf("estimate clean: %v", err)
	}
	if flagged.EstimatedPrice >= clean.EstimatedPrice {
		t.Fatalf("expected fraud discount: flagged %.2f, clean %.2f", flagged.EstimatedPrice, clean.EstimatedPrice)
	}
	if flagged.MarketRate != 350 {
		t.Fatalf("expected derived market rate 350, got %.2f", flagged.MarketRate)
	}
	if flagged.ModelVersion != "ols_v1" {
		t.Fatalf("expected model version ols_v1, got %q", flagged.ModelVersion)
	}
}

func TestEstimatePriceValidation(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	ctx := context.Background()

	cases := []application.PriceInput{
		{Reach: -1, EngagementRate: 2},
		{Reach: 1000, EngagementRate: -0.1},
		{Reach: 1000, EngagementRate: 2, FraudScore: 101},
		{Reach: 1000, EngagementRate: 2, FraudScore: -1},
		{Reach: 1000, EngagementRate: 2, MarketRate: ptrF(-10)},
	}
	for i, in := range cases {
		if _, err := svc.EstimatePrice(ctx, in); !errors.Is(err, domain.ErrInvalidInput) {
			t.Fatalf("case %d: expected ErrInvalidInput, got %v", i, err)
		}
	}
}

func TestEstimatePriceCallerMarketRateWins(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	got, err := svc.EstimatePrice(context.Background(), application.PriceInput{
		Reach:          120_000,
		EngagementRate: 3.4,
		FraudScore:     20,
		MarketRate:     ptrF(99_999),
	})
	if err != nil {
		t.Fatalf("estimate price: %v", err)
	}
	if got.MarketRate != 99_999 {
		t.Fatalf("expected caller market rate honored, got %.2f", got.MarketRate)
	}
	if got.Valuation != domain.ValuationOvervalued {
		t.Fatalf("expected an absurd asking price classified Overvalued, got %s", got.Valuation)
	}
}

func TestMatchBrandFitScenario(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	got, err := svc.MatchBrandFit(context.Background(), application.BrandFitInput{
		Bio:      "Gym rat. Protein shakes and heavy lifting.",
		Captions: []string{"leg day again", "meal prep sunday"},
		Keywords: []string{"Minimalist", "Sustainable", "Luxury", "Neutral"},
	})
	if err != nil {
		t.Fatalf("match brand fit: %v", err)
	}
	if got.Score != 0 {
		t.Fatalf("expected zero fit, got %d", got.Score)
	}
	if len(got.Matches) != 0 {
		t.Fatalf("expected no matches, got %v", got.Matches)
	}
}

func TestMatchBrandFitValidation(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	if _, err := svc.MatchBrandFit(context.Background(), application.BrandFitInput{
		Bio:      "bio",
		Keywords: []string{"  ", ""},
	}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for blank keywords, got %v", err)
	}
}

func TestRecalibratePricingKeepsServing(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	ctx := context.Background()

	before, err := svc.EstimatePrice(ctx, application.PriceInput{Reach: 120_000, EngagementRate: 3.4, FraudScore: 20})
	if err != nil {
		t.Fatalf("estimate before: %v", err)
	}
	if err := svc.RecalibratePricing(ctx); err != nil {
		t.Fatalf("recalibrate: %v", err)
	}
	after, err := svc.EstimatePrice(ctx, application.PriceInput{Reach: 120_000, EngagementRate: 3.4, FraudScore: 20})
	if err != nil {
		t.Fatalf("estimate after: %v", err)
	}
	// Same seed, same synthetic market, same answer.
	if before.EstimatedPrice != after.EstimatedPrice {
		t.Fatalf("expected identical estimate after recalibration: %.4f vs %.4f", before.EstimatedPrice, after.EstimatedPrice)
	}
}
