package bootstrap

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	ServiceID           string
	HTTPPort            int
	GRPCPort            int
	RedisURL            string
	RateLimitPerMinute  int
	RequestTimeout      time.Duration
	RecalibrateSchedule string
	SweepSchedule       string

	BenfordMinSampleSize      int
	BenfordChiSquareThreshold float64

	EntropyOrganicMinBits     float64
	EntropyBotFarmMaxBits     float64
	EntropyDuplicationBound   float64
	EntropyLowComplexityBelow float64

	FraudDistributionWeight float64
	FraudEntropyWeight      float64
	FraudAuxiliaryWeight    float64
	FraudGrowthSpikeFactor  float64

	PricingSeed               int64
	PricingSamples            int
	PricingMinPrice           float64
	PricingValuationTolerance float64
	PricingMarketRatePer1000  float64
	PricingModelVersion       string
	PricingNicheFactors       map[string]float64

	BrandFitMaxTopics int
}

type configFile struct {
	Service struct {
		ID       string `yaml:"id"`
		HTTPPort int    `yaml:"http_port"`
		GRPCPort int    `yaml:"grpc_port"`
	} `yaml:"service"`
	Limits struct {
		RateLimitPerMinute int `yaml:"rate_limit_per_minute"`
		RequestTimeoutMS   int `yaml:"request_timeout_ms"`
	} `yaml:"limits"`
	Schedules struct {
		Recalibrate string `yaml:"recalibrate"`
		Sweep       string `yaml:"sweep"`
	} `yaml:"schedules"`
	Benford struct {
		MinSampleSize      int     `yaml:"min_sample_size"`
		ChiSquareThreshold float64 `yaml:"chi_square_threshold"`
	} `yaml:"benford"`
	Entropy struct {
		OrganicMinBits     float64 `yaml:"organic_min_bits"`
		BotFarmMaxBits     float64 `yaml:"bot_farm_max_bits"`
		DuplicationBound   float64 `yaml:"duplication_bound"`
		LowComplexityBelow float64 `yaml:"low_complexity_below"`
	} `yaml:"entropy"`
	Fraud struct {
		DistributionWeight float64 `yaml:"distribution_weight"`
		EntropyWeight      float64 `yaml:"entropy_weight"`
		AuxiliaryWeight    float64 `yaml:"auxiliary_weight"`
		GrowthSpikeFactor  float64 `yaml:"growth_spike_factor"`
	} `yaml:"fraud"`
	Pricing struct {
		Seed               int64              `yaml:"seed"`
		Samples            int                `yaml:"samples"`
		MinPrice           float64            `yaml:"min_price"`
		ValuationTolerance float64            `yaml:"valuation_tolerance"`
		MarketRatePer1000  float64            `yaml:"market_rate_per_1000"`
		ModelVersion       string             `yaml:"model_version"`
		NicheFactors       map[string]float64 `yaml:"niche_factors"`
	} `yaml:"pricing"`
	BrandFit struct {
		MaxTopics int `yaml:"max_topics"`
	} `yaml:"brand_fit"`
}

func LoadConfig(path string) (Config, error) {
	cfg := Config{
		ServiceID:           "forensics-engine",
		HTTPPort:            8000,
		GRPCPort:            9090,
		RateLimitPerMinute:  60,
		RequestTimeout:      8 * time.Second,
		RecalibrateSchedule: "@hourly",
		SweepSchedule:       "@every 5m",
	}
	if raw, err := os.ReadFile(path); err == nil {
		var f configFile
		if err := yaml.Unmarshal(raw, &f); err != nil {
			return Config{}, fmt.Errorf("parse config file: %w", err)
		}
		if f.Service.ID != "" {
			cfg.ServiceID = f.Service.ID
		}
		if f.Service.HTTPPort > 0 {
			cfg.HTTPPort = f.Service.HTTPPort
		}
		if f.Service.GRPCPort > 0 {
			cfg.GRPCPort = f.Service.GRPCPort
		}
		if f.Limits.RateLimitPerMinute > 0 {
			cfg.RateLimitPerMinute = f.Limits.RateLimitPerMinute
		}
		if f.Limits.RequestTimeoutMS > 0 {
			cfg.RequestTimeout = time.Duration(f.Limits.RequestTimeoutMS) * time.Millisecond
		}
		if f.Schedules.Recalibrate != "" {
			cfg.RecalibrateSchedule = f.Schedules.Recalibrate
		}
		if f.Schedules.Sweep != "" {
			cfg.SweepSchedule = f.Schedules.Sweep
		}
		cfg.BenfordMinSampleSize = f.Benford.MinSampleSize
		cfg.BenfordChiSquareThreshold = f.Benford.ChiSquareThreshold
		cfg.EntropyOrganicMinBits = f.Entropy.OrganicMinBits
		cfg.EntropyBotFarmMaxBits = f.Entropy.BotFarmMaxBits
		cfg.EntropyDuplicationBound = f.Entropy.DuplicationBound
		cfg.EntropyLowComplexityBelow = f.Entropy.LowComplexityBelow
		cfg.FraudDistributionWeight = f.Fraud.DistributionWeight
		cfg.FraudEntropyWeight = f.Fraud.EntropyWeight
		cfg.FraudAuxiliaryWeight = f.Fraud.AuxiliaryWeight
		cfg.FraudGrowthSpikeFactor = f.Fraud.GrowthSpikeFactor
		cfg.PricingSeed = f.Pricing.Seed
		cfg.PricingSamples = f.Pricing.Samples
		cfg.PricingMinPrice = f.Pricing.MinPrice
		cfg.PricingValuationTolerance = f.Pricing.ValuationTolerance
		cfg.PricingMarketRatePer1000 = f.Pricing.MarketRatePer1000
		cfg.PricingModelVersion = f.Pricing.ModelVersion
		cfg.PricingNicheFactors = f.Pricing.NicheFactors
		cfg.BrandFitMaxTopics = f.BrandFit.MaxTopics
	}
	cfg.ServiceID = envOrDefault("SERVICE_ID", cfg.ServiceID)
	cfg.RedisURL = envOrDefault("REDIS_URL", cfg.RedisURL)
	cfg.HTTPPort = envInt("HTTP_PORT", cfg.HTTPPort)
	cfg.GRPCPort = envInt("GRPC_PORT", cfg.GRPCPort)
	cfg.RateLimitPerMinute = envInt("RATE_LIMIT_PER_MINUTE", cfg.RateLimitPerMinute)
	cfg.RequestTimeout = time.Duration(envInt("REQUEST_TIMEOUT_MS", int(cfg.RequestTimeout.Milliseconds()))) * time.Millisecond
	cfg.RecalibrateSchedule = envOrDefault("RECALIBRATE_SCHEDULE", cfg.RecalibrateSchedule)
	cfg.SweepSchedule = envOrDefault("SWEEP_SCHEDULE", cfg.SweepSchedule)
	cfg.BenfordMinSampleSize = envInt("BENFORD_MIN_SAMPLE_SIZE", cfg.BenfordMinSampleSize)
	cfg.BenfordChiSquareThreshold = envFloat("BENFORD_CHI_SQUARE_THRESHOLD", cfg.BenfordChiSquareThreshold)
	cfg.EntropyOrganicMinBits = envFloat("ENTROPY_ORGANIC_MIN_BITS", cfg.EntropyOrganicMinBits)
	cfg.EntropyBotFarmMaxBits = envFloat("ENTROPY_BOT_FARM_MAX_BITS", cfg.EntropyBotFarmMaxBits)
	cfg.EntropyDuplicationBound = envFloat("ENTROPY_DUPLICATION_BOUND", cfg.EntropyDuplicationBound)
	cfg.EntropyLowComplexityBelow = envFloat("ENTROPY_LOW_COMPLEXITY_BELOW", cfg.EntropyLowComplexityBelow)
	cfg.FraudDistributionWeight = envFloat("FRAUD_DISTRIBUTION_WEIGHT", cfg.FraudDistributionWeight)
	cfg.FraudEntropyWeight = envFloat("FRAUD_ENTROPY_WEIGHT", cfg.FraudEntropyWeight)
	cfg.FraudAuxiliaryWeight = envFloat("FRAUD_AUXILIARY_WEIGHT", cfg.FraudAuxiliaryWeight)
	cfg.FraudGrowthSpikeFactor = envFloat("FRAUD_GROWTH_SPIKE_FACTOR", cfg.FraudGrowthSpikeFactor)
	cfg.PricingSeed = int64(envInt("PRICING_SEED", int(cfg.PricingSeed)))
	cfg.PricingSamples = envInt("PRICING_SAMPLES", cfg.PricingSamples)
	cfg.PricingMinPrice = envFloat("PRICING_MIN_PRICE", cfg.PricingMinPrice)
	cfg.PricingValuationTolerance = envFloat("PRICING_VALUATION_TOLERANCE", cfg.PricingValuationTolerance)
	cfg.PricingMarketRatePer1000 = envFloat("PRICING_MARKET_RATE_PER_1000", cfg.PricingMarketRatePer1000)
	cfg.PricingModelVersion = envOrDefault("PRICING_MODEL_VERSION", cfg.PricingModelVersion)
	cfg.BrandFitMaxTopics = envInt("BRAND_FIT_MAX_TOPICS", cfg.BrandFitMaxTopics)
	return cfg, nil
}

func envOrDefault(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}

func envInt(name string, fallback int) int {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

func envFloat(name string, fallback float64) float64 {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fallback
	}
	return v
}
