package contracts

// Request and response shapes for the three analysis operations. Success
// bodies are the bare result object: the dashboard reads fields off the top
// level. Errors use the envelope below.

type ForensicsRequest struct {
	Metrics           []int64  `json:"metrics"`
	Comments          []string `json:"comments"`
	Reach             *int64   `json:"reach,omitempty"`
	EngagementRate    *float64 `json:"engagement_rate,omitempty"`
	FakeFollowerRatio *float64 `json:"fake_follower_ratio,omitempty"`
	WeeklyFollowers   []int64  `json:"weekly_followers,omitempty"`
}

type DigitBucket struct {
	Digit    int     `json:"digit"`
	Observed float64 `json:"observed"`
	Expected float64 `json:"expected"`
}

type BenfordSection struct {
	ChiSquare    float64       `json:"chi_square"`
	IsSuspicious bool          `json:"is_suspicious"`
	ChartData    []DigitBucket `json:"chart_data"`
}

type EntropySection struct {
	Score            float64 `json:"score"`
	NormalizedScore  float64 `json:"normalized_score"`
	Verdict          string  `json:"verdict"`
	DuplicationRatio float64 `json:"duplication_ratio"`
}

type FraudSection struct {
	CompositeScore  int      `json:"composite_score"`
	Flags           []string `json:"flags"`
	AnomalyDetected bool     `json:"anomaly_detected"`
	EntropyVerdict  string   `json:"entropy_verdict"`
	DegradedSignals []string `json:"degraded_signals"`
}

type ForensicsResponse struct {
	Benford BenfordSection `json:"benford"`
	Entropy EntropySection `json:"entropy"`
	Fraud   FraudSection   `json:"fraud"`
}

type PriceRequest struct {
	Reach          int64    `json:"reach"`
	EngagementRate float64  `json:"engagement_rate"`
	FraudScore     float64  `json:"fraud_score"`
	Niche          string   `json:"niche"`
	MarketRate     *float64 `json:"market_rate,omitempty"`
}

type PriceResponse struct {
	EstimatedPrice int64  `json:"estimated_price"`
	MarketRate     int64  `json:"market_rate"`
	Valuation      string `json:"valuation"`
	ModelVersion   string `json:"model_version"`
}

type BrandFitRequest struct {
	InfluencerBio  string   `json:"influencer_bio"`
	RecentCaptions []string `json:"recent_captions"`
	BrandKeywords  []string `json:"brand_keywords"`
}

type BrandFitResponse struct {
	Score           int      `json:"score"`
	Matches         []string `json:"matches"`
	ExtractedTopics []string `json:"extracted_topics"`
}

type ErrorPayload struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

type ErrorResponse struct {
	Status string       `json:"status"`
	Error  ErrorPayload `json:"error"`
}

type HealthResponse struct {
	Status string `json:"status"`
}
