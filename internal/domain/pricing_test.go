package domain

import (
	"math"
	"testing"
)

func pricingTestConfig() PricingConfig {
	return PricingConfig{
		Seed:               42,
		Samples:            1000,
		MinPrice:           50,
		ValuationTolerance: 0.20,
		MarketRatePer1000:  10,
		NicheFactors:       map[string]float64{"fashion": 1.2, "tech": 1.3},
		ModelVersion:       "ols_v1",
	}
}

func TestTrainPriceModelFitsNegativeFraudCoefficient(t *testing.T) {
	t.Parallel()

	model, err := TrainPriceModel(pricingTestConfig())
	if err != nil {
		t.Fatalf("train price model: %v", err)
	}
	if model.FraudCoefficient() >= 0 {
		t.Fatalf("expected negative fraud coefficient, got %.4f", model.FraudCoefficient())
	}
}

func TestTrainPriceModelDeterministicForSeed(t *testing.T) {
	t.Parallel()

	a, err := TrainPriceModel(pricingTestConfig())
	if err != nil {
		t.Fatalf("train price model: %v", err)
	}
	b, err := TrainPriceModel(pricingTestConfig())
	if err != nil {
		t.Fatalf("train price model: %v", err)
	}
	pa := a.Estimate(120_000, 3.4, 20, "")
	pb := b.Estimate(120_000, 3.4, 20, "")
	if pa != pb {
		t.Fatalf("expected identical estimates for identical seed, got %.4f and %.4f", pa, pb)
	}
}

func TestTrainPriceModelRejectsTinyMarket(t *testing.T) {
	t.Parallel()

	cfg := pricingTestConfig()
	cfg.Samples = 5
	if _, err := TrainPriceModel(cfg); err != ErrModelFit {
		t.Fatalf("expected ErrModelFit for tiny market, got %v", err)
	}
}

func TestEstimateFraudDiscountsPrice(t *testing.T) {
	t.Parallel()

	model, err := TrainPriceModel(pricingTestConfig())
	if err != nil {
		t.Fatalf("train price model: %v", err)
	}
	clean := model.Estimate(35_000, 1.2, 10, "Fashion")
	flagged := model.Estimate(35_000, 1.2, 72, "Fashion")
	if flagged >= clean {
		t.Fatalf("expected fraud score 72 to price below fraud score 10: %.2f vs %.2f", flagged, clean)
	}
}

func TestEstimateZeroReachPricesAtZero(t *testing.T) {
	t.Parallel()

	model, err := TrainPriceModel(pricingTestConfig())
	if err != nil {
		t.Fatalf("train price model: %v", err)
	}
	if got := model.Estimate(0, 5.0, 0, ""); got != 0 {
		t.Fatalf("expected zero price for zero reach, got %.2f", got)
	}
}

func TestEstimateFloorsAtMinPrice(t *testing.T) {
	t.Parallel()

	model, err := TrainPriceModel(pricingTestConfig())
	if err != nil {
		t.Fatalf("train price model: %v", err)
	}
	// Tiny audience, minimal engagement, maximal fraud: the raw regression
	// output is far below the floor.
	if got := model.Estimate(1_000, 0.5, 100, ""); got != 50 {
		t.Fatalf("expected floor price 50, got %.2f", got)
	}
}

func TestEstimateAppliesNicheFactor(t *testing.T) {
	t.Parallel()

	model, err := TrainPriceModel(pricingTestConfig())
	if err != nil {
		t.Fatalf("train price model: %v", err)
	}
	plain := model.Estimate(200_000, 4.0, 10, "gardening")
	fashion := model.Estimate(200_000, 4.0, 10, "  Fashion ")
	if math.Abs(fashion-plain*1.2) > 1e-9 {
		t.Fatalf("expected fashion factor 1.2 applied: plain %.2f, fashion %.2f", plain, fashion)
	}
}

func TestPredictDerivesMarketRateFromReach(t *testing.T) {
	t.Parallel()

	model, err := TrainPriceModel(pricingTestConfig())
	if err != nil {
		t.Fatalf("train price model: %v", err)
	}
	got := model.Predict(35_000, 1.2, 72, "Fashion", 0)
	if got.MarketRate != 350 {
		t.Fatalf("expected derived market rate 350, got %.2f", got.MarketRate)
	}
	if got.ModelVersion != "ols_v1" {
		t.Fatalf("expected model version carried through, got %q", got.ModelVersion)
	}
}

func TestPredictValuationBands(t *testing.T) {
	t.Parallel()

	model, err := TrainPriceModel(pricingTestConfig())
	if err != nil {
		t.Fatalf("train price model: %v", err)
	}
	estimate := model.Estimate(120_000, 3.4, 20, "")

	cases := []struct {
		marketRate float64
		want       Valuation
	}{
		{estimate / 1.5, ValuationUndervalued}, // asking far below fair value
		{estimate, ValuationFair},
		{estimate * 1.19, ValuationFair}, // inside the 20% band
		{estimate * 1.5, ValuationOvervalued},
	}
	for _, c := range cases {
		got := model.Predict(120_000, 3.4, 20, "", c.marketRate)
		if got.Valuation != c.want {
			t.Fatalf("market rate %.2f against estimate %.2f: expected %s, got %s",
				c.marketRate, estimate, c.want, got.Valuation)
		}
	}
}

func TestPredictZeroReachWithAskingPriceIsOvervalued(t *testing.T) {
	t.Parallel()

	model, err := TrainPriceModel(pricingTestConfig())
	if err != nil {
		t.Fatalf("train price model: %v", err)
	}
	withAsk := model.Predict(0, 2.0, 0, "", 500)
	if withAsk.Valuation != ValuationOvervalued {
		t.Fatalf("expected any asking price on zero reach to be Overvalued, got %s", withAsk.Valuation)
	}
	noAsk := model.Predict(0, 2.0, 0, "", 0)
	if noAsk.Valuation != ValuationFair {
		t.Fatalf("expected zero reach with no asking price to be Fair, got %s", noAsk.Valuation)
	}
}
