package domain

import "math"

const (
	FlagDistributionAnomaly  = "Distribution Anomaly"
	FlagLowComplexityComment = "Low Complexity Comments"
	FlagEngagementPods       = "Engagement Pods"
	FlagFakeFollowerSpike    = "Fake Follower Spike"
)

// Names reported in DegradedSignals when an auxiliary input is absent.
const (
	SignalFakeFollowerRatio = "fake_follower_ratio"
	SignalEngagementRate    = "engagement_rate"
	SignalGrowthCurve       = "growth_curve"
)

type FraudConfig struct {
	// Weights of the three signal groups in the composite. Renormalized
	// over the groups actually present, so the documented defaults
	// (0.40 distribution / 0.30 entropy / 0.30 auxiliary) hold whenever
	// every signal arrives.
	DistributionWeight float64
	EntropyWeight      float64
	AuxiliaryWeight    float64
	// GrowthSpikeFactor is the week-over-week relative jump above which a
	// follower curve is treated as a purchased spike.
	GrowthSpikeFactor float64
	// DuplicationBound is the duplicate-comment fraction beyond which the
	// corpus looks like a coordinated engagement pod.
	DuplicationBound float64
	// LowComplexityBelow mirrors EntropyConfig: the 0-10 complexity under
	// which comment text is flagged.
	LowComplexityBelow float64
}

// AuxiliarySignals are caller-supplied context the engine cannot derive from
// the sample itself. Nil pointers mean "not provided", which triggers
// degraded weighting, never an assumed zero risk.
type AuxiliarySignals struct {
	FakeFollowerRatio *float64
	EngagementRate    *float64
	Reach             *int64
	WeeklyFollowers   []int64
}

// FraudAssessment is the composite verdict over all available signals.
type FraudAssessment struct {
	CompositeScore  int
	Flags           []string
	AnomalyDetected bool
	EntropyVerdict  EntropyVerdict
	// DegradedSignals lists auxiliary inputs that were missing. Non-empty
	// means the composite was computed with renormalized weights.
	DegradedSignals []string
}

// ForensicsReport aggregates the per-request forensic analyses.
type ForensicsReport struct {
	Distribution DigitDistribution
	Entropy      EntropyResult
	Fraud        FraudAssessment
}

// AssessFraud combines the distribution and entropy analyses with whatever
// auxiliary signals were supplied into a 0-100 composite. The composite is
// non-decreasing in every individual risk input.
func AssessFraud(dist DigitDistribution, ent EntropyResult, aux AuxiliarySignals, cfg FraudConfig) FraudAssessment {
	assessment := FraudAssessment{
		AnomalyDetected: dist.Suspicious,
		EntropyVerdict:  ent.Verdict,
		Flags:           []string{},
		DegradedSignals: []string{},
	}

	if dist.Suspicious {
		assessment.Flags = append(assessment.Flags, FlagDistributionAnomaly)
	}
	if ent.NormalizedComplexity < cfg.LowComplexityBelow {
		assessment.Flags = append(assessment.Flags, FlagLowComplexityComment)
	}
	if ent.DuplicationRatio > cfg.DuplicationBound {
		assessment.Flags = append(assessment.Flags, FlagEngagementPods)
	}

	weightedSum := cfg.DistributionWeight*dist.RiskScore + cfg.EntropyWeight*ent.RiskScore
	weightTotal := cfg.DistributionWeight + cfg.EntropyWeight

	auxRisk, auxPresent, missing, auxFlags := auxiliaryRisk(aux, cfg)
	assessment.Flags = append(assessment.Flags, auxFlags...)
	assessment.DegradedSignals = missing
	if auxPresent {
		weightedSum += cfg.AuxiliaryWeight * auxRisk
		weightTotal += cfg.AuxiliaryWeight
	}

	if weightTotal > 0 {
		assessment.CompositeScore = int(math.Round(100 * weightedSum / weightTotal))
	}
	if assessment.CompositeScore > 100 {
		assessment.CompositeScore = 100
	}
	return assessment
}

// auxiliaryRisk averages the auxiliary risk components that are present and
// reports the ones that are not. Engagement-rate risk only penalizes rates
// below the healthy band for the account's reach: purchased audiences
// engage less than real ones.
func auxiliaryRisk(aux AuxiliarySignals, cfg FraudConfig) (risk float64, present bool, missing []string, flags []string) {
	missing = []string{}
	flags = []string{}
	sum := 0.0
	n := 0

	if aux.FakeFollowerRatio != nil {
		sum += clamp01(*aux.FakeFollowerRatio)
		n++
	} else {
		missing = append(missing, SignalFakeFollowerRatio)
	}

	if aux.EngagementRate != nil && aux.Reach != nil {
		expected := expectedEngagementRate(*aux.Reach)
		if *aux.EngagementRate < expected {
			sum += clamp01((expected - *aux.EngagementRate) / expected)
		}
		n++
	} else {
		missing = append(missing, SignalEngagementRate)
	}

	if len(aux.WeeklyFollowers) >= 2 {
		jump := maxRelativeJump(aux.WeeklyFollowers)
		sum += jump / (jump + cfg.GrowthSpikeFactor)
		if jump > cfg.GrowthSpikeFactor {
			flags = append(flags, FlagFakeFollowerSpike)
		}
		n++
	} else {
		missing = append(missing, SignalGrowthCurve)
	}

	if n == 0 {
		return 0, false, missing, flags
	}
	return sum / float64(n), true, missing, flags
}

// expectedEngagementRate is the lower edge of the healthy engagement band in
// percent for a given reach. Larger audiences engage proportionally less.
func expectedEngagementRate(reach int64) float64 {
	switch {
	case reach < 10_000:
		return 4.0
	case reach < 100_000:
		return 2.0
	default:
		return 1.0
	}
}

func maxRelativeJump(weekly []int64) float64 {
	maxJump := 0.0
	for i := 1; i < len(weekly); i++ {
		prev := weekly[i-1]
		if prev < 1 {
			prev = 1
		}
		jump := float64(weekly[i]-weekly[i-1]) / float64(prev)
		if jump > maxJump {
			maxJump = jump
		}
	}
	return maxJump
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
