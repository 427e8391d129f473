package domain

import "math"

type BenfordConfig struct {
	// MinSampleSize is the smallest number of usable (positive) values for
	// which the chi-square fit is considered statistically valid.
	MinSampleSize int
	// ChiSquareThreshold is the suspicion cutoff. 15.51 is the critical
	// value for 8 degrees of freedom at p=0.05.
	ChiSquareThreshold float64
}

// DigitBucket is one row of the dashboard chart: observed and expected
// frequency for a leading digit, both in percent.
type DigitBucket struct {
	Digit    int
	Observed float64
	Expected float64
}

// DigitDistribution is the outcome of first-digit analysis over an
// engagement sample. Immutable once computed.
type DigitDistribution struct {
	Buckets    [9]DigitBucket
	SampleSize int
	ChiSquare  float64
	Suspicious bool
	// RiskScore is ChiSquare mapped into [0,1) via x/(x+threshold):
	// bounded, smooth, and strictly increasing in the fit distance.
	RiskScore float64
}

// BenfordExpected returns the theoretical leading-digit frequency
// log10(1 + 1/d) for d in 1..9.
func BenfordExpected(digit int) float64 {
	return math.Log10(1 + 1/float64(digit))
}

func leadingDigit(v int64) int {
	for v >= 10 {
		v /= 10
	}
	return int(v)
}

// AnalyzeDistribution tests the leading digits of an engagement sample
// against Benford's law. Zero values carry no leading digit and are excluded
// from the denominator rather than counted as digit-zero observations.
func AnalyzeDistribution(values []int64, cfg BenfordConfig) (DigitDistribution, error) {
	var counts [9]int
	usable := 0
	for _, v := range values {
		if v <= 0 {
			continue
		}
		counts[leadingDigit(v)-1]++
		usable++
	}
	if usable < cfg.MinSampleSize {
		return DigitDistribution{}, ErrInsufficientData
	}

	dist := DigitDistribution{SampleSize: usable}
	chi := 0.0
	for d := 1; d <= 9; d++ {
		expectedFreq := BenfordExpected(d)
		observedFreq := float64(counts[d-1]) / float64(usable)
		expectedCount := expectedFreq * float64(usable)
		diff := float64(counts[d-1]) - expectedCount
		chi += diff * diff / expectedCount
		dist.Buckets[d-1] = DigitBucket{
			Digit:    d,
			Observed: observedFreq * 100,
			Expected: expectedFreq * 100,
		}
	}
	dist.ChiSquare = chi
	dist.Suspicious = chi > cfg.ChiSquareThreshold
	dist.RiskScore = chi / (chi + cfg.ChiSquareThreshold)
	return dist, nil
}
