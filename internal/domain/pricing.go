package domain

import (
	"math"
	"math/rand"
	"strings"
)

type Valuation string

const (
	ValuationUndervalued Valuation = "Undervalued"
	ValuationOvervalued  Valuation = "Overvalued"
	ValuationFair        Valuation = "Fair"
)

type PricingConfig struct {
	// Seed and Samples control the synthetic market the model is fitted
	// against. A fixed seed keeps the fit reproducible across restarts.
	Seed    int64
	Samples int
	// MinPrice floors any non-zero estimate; nobody posts for less.
	MinPrice float64
	// ValuationTolerance is the symmetric band around the market rate
	// inside which a quote counts as Fair.
	ValuationTolerance float64
	// MarketRatePer1000 is the vanity baseline in dollars per 1000
	// followers used when the caller supplies no market rate.
	MarketRatePer1000 float64
	// NicheFactors multiply the estimate per content category. Unknown
	// niches use 1.0.
	NicheFactors map[string]float64
	ModelVersion string
}

// PriceEstimate is the valuation of one sponsorship quote.
type PriceEstimate struct {
	EstimatedPrice float64
	MarketRate     float64
	Valuation      Valuation
	ModelVersion   string
}

// PriceModel is a linear regression over standardized (reach, engagement
// rate, fraud score) features, fitted by ordinary least squares on a
// synthetic market. Immutable after fitting; safe for concurrent use.
type PriceModel struct {
	cfg       PricingConfig
	coef      [3]float64
	intercept float64
	mean      [3]float64
	std       [3]float64
}

// TrainPriceModel generates the synthetic market and solves the normal
// equations. The market's ground-truth curve discounts price in fraud score,
// so the fitted fraud coefficient must come out negative; a fit that loses
// that property is rejected rather than served.
func TrainPriceModel(cfg PricingConfig) (*PriceModel, error) {
	if cfg.Samples < 10 {
		return nil, ErrModelFit
	}
	rng := rand.New(rand.NewSource(cfg.Seed))

	n := cfg.Samples
	features := make([][3]float64, n)
	target := make([]float64, n)
	for i := 0; i < n; i++ {
		reach := float64(1000 + rng.Intn(999_000))
		eng := 0.5 + rng.Float64()*9.5
		fraud := rng.Float64() * 100
		price := reach * 0.015 * (1 + eng/5) * (1 - fraud/150)
		price += rng.NormFloat64() * 50
		if price < cfg.MinPrice {
			price = cfg.MinPrice
		}
		features[i] = [3]float64{reach, eng, fraud}
		target[i] = price
	}

	m := &PriceModel{cfg: cfg}
	m.standardize(features)

	// With standardized, centered features the intercept decouples from
	// the slopes: it is just the target mean, and the slopes solve the
	// 3x3 system (Z^T Z) w = Z^T (y - mean(y)).
	yMean := 0.0
	for _, y := range target {
		yMean += y
	}
	yMean /= float64(n)
	m.intercept = yMean

	var a [3][3]float64
	var b [3]float64
	for i := 0; i < n; i++ {
		var z [3]float64
		for j := 0; j < 3; j++ {
			z[j] = (features[i][j] - m.mean[j]) / m.std[j]
		}
		for j := 0; j < 3; j++ {
			for k := 0; k < 3; k++ {
				a[j][k] += z[j] * z[k]
			}
			b[j] += z[j] * (target[i] - yMean)
		}
	}
	coef, ok := solve3(a, b)
	if !ok {
		return nil, ErrModelFit
	}
	m.coef = coef

	if m.coef[2] >= 0 {
		return nil, ErrModelFit
	}
	return m, nil
}

func (m *PriceModel) standardize(features [][3]float64) {
	n := float64(len(features))
	for j := 0; j < 3; j++ {
		sum := 0.0
		for _, f := range features {
			sum += f[j]
		}
		m.mean[j] = sum / n
		varsum := 0.0
		for _, f := range features {
			d := f[j] - m.mean[j]
			varsum += d * d
		}
		m.std[j] = math.Sqrt(varsum / n)
		if m.std[j] == 0 {
			m.std[j] = 1
		}
	}
}

// Estimate predicts a fair price. Zero reach prices at zero: there is no
// audience to sell.
func (m *PriceModel) Estimate(reach int64, engagementRate, fraudScore float64, niche string) float64 {
	if reach == 0 {
		return 0
	}
	z := [3]float64{
		(float64(reach) - m.mean[0]) / m.std[0],
		(engagementRate - m.mean[1]) / m.std[1],
		(fraudScore - m.mean[2]) / m.std[2],
	}
	price := m.intercept
	for j := 0; j < 3; j++ {
		price += m.coef[j] * z[j]
	}
	if price < m.cfg.MinPrice {
		price = m.cfg.MinPrice
	}
	return price * m.nicheFactor(niche)
}

// Predict estimates the fair price and classifies the quote against the
// market rate. A caller-supplied positive market rate wins over the vanity
// baseline.
func (m *PriceModel) Predict(reach int64, engagementRate, fraudScore float64, niche string, marketRate float64) PriceEstimate {
	if marketRate <= 0 {
		marketRate = float64(reach) / 1000 * m.cfg.MarketRatePer1000
	}
	estimate := m.Estimate(reach, engagementRate, fraudScore, niche)
	return PriceEstimate{
		EstimatedPrice: estimate,
		MarketRate:     marketRate,
		Valuation:      m.classify(estimate, marketRate),
		ModelVersion:   m.cfg.ModelVersion,
	}
}

func (m *PriceModel) classify(estimate, marketRate float64) Valuation {
	if estimate == 0 {
		// Zero reach: nothing to value, unless money is being asked for it.
		if marketRate > 0 {
			return ValuationOvervalued
		}
		return ValuationFair
	}
	eps := m.cfg.ValuationTolerance
	switch {
	case estimate > marketRate*(1+eps):
		return ValuationUndervalued
	case estimate < marketRate*(1-eps):
		return ValuationOvervalued
	default:
		return ValuationFair
	}
}

func (m *PriceModel) nicheFactor(niche string) float64 {
	if f, ok := m.cfg.NicheFactors[strings.ToLower(strings.TrimSpace(niche))]; ok {
		return f
	}
	return 1.0
}

// FraudCoefficient exposes the fitted fraud slope for sanity checks and
// recalibration logging.
func (m *PriceModel) FraudCoefficient() float64 { return m.coef[2] }

func solve3(a [3][3]float64, b [3]float64) ([3]float64, bool) {
	// Gaussian elimination with partial pivoting on the 3x3 system.
	for col := 0; col < 3; col++ {
		pivot := col
		for row := col + 1; row < 3; row++ {
			if math.Abs(a[row][col]) > math.Abs(a[pivot][col]) {
				pivot = row
			}
		}
		if math.Abs(a[pivot][col]) < 1e-12 {
			return [3]float64{}, false
		}
		a[col], a[pivot] = a[pivot], a[col]
		b[col], b[pivot] = b[pivot], b[col]
		for row := col + 1; row < 3; row++ {
			factor := a[row][col] / a[col][col]
			for k := col; k < 3; k++ {
				a[row][k] -= factor * a[col][k]
			}
			b[row] -= factor * b[col]
		}
	}
	var x [3]float64
	for row := 2; row >= 0; row-- {
		sum := b[row]
		for k := row + 1; k < 3; k++ {
			sum -= a[row][k] * x[k]
		}
		x[row] = sum / a[row][row]
	}
	return x, true
}
