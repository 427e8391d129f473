package http

import (
	"encoding/json"
	"math"
	"net/http"
	"strings"

	"github.com/viralforge/forensics-engine/internal/application"
	"github.com/viralforge/forensics-engine/internal/contracts"
	"github.com/viralforge/forensics-engine/internal/domain"
)

type Handler struct{ service *application.Service }

func NewHandler(service *application.Service) *Handler { return &Handler{service: service} }

func (h *Handler) analyzeForensics(w http.ResponseWriter, r *http.Request) {
	var req contracts.ForensicsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error(), requestIDFromContext(r.Context()))
		return
	}
	report, err := h.service.AnalyzeForensics(r.Context(), application.ForensicsInput{
		Metrics:           req.Metrics,
		Comments:          req.Comments,
		Reach:             req.Reach,
		EngagementRate:    req.EngagementRate,
		FakeFollowerRatio: req.FakeFollowerRatio,
		WeeklyFollowers:   req.WeeklyFollowers,
	})
	if err != nil {
		status, code := mapDomainError(err)
		logHTTPOperationError(r.Context(), "analyze_forensics", status, code, err)
		writeError(w, status, code, err.Error(), requestIDFromContext(r.Context()))
		return
	}
	writeJSON(w, http.StatusOK, forensicsResponse(report))
}

func (h *Handler) predictPrice(w http.ResponseWriter, r *http.Request) {
	var req contracts.PriceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error(), requestIDFromContext(r.Context()))
		return
	}
	estimate, err := h.service.EstimatePrice(r.Context(), application.PriceInput{
		Reach:          req.Reach,
		EngagementRate: req.EngagementRate,
		FraudScore:     req.FraudScore,
		Niche:          strings.TrimSpace(req.Niche),
		MarketRate:     req.MarketRate,
	})
	if err != nil {
		status, code := mapDomainError(err)
		logHTTPOperationError(r.Context(), "predict_price", status, code, err)
		writeError(w, status, code, err.Error(), requestIDFromContext(r.Context()))
		return
	}
	writeJSON(w, http.StatusOK, contracts.PriceResponse{
		EstimatedPrice: int64(math.Round(estimate.EstimatedPrice)),
		MarketRate:     int64(math.Round(estimate.MarketRate)),
		Valuation:      string(estimate.Valuation),
		ModelVersion:   estimate.ModelVersion,
	})
}

func (h *Handler) analyzeBrandFit(w http.ResponseWriter, r *http.Request) {
	var req contracts.BrandFitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error(), requestIDFromContext(r.Context()))
		return
	}
	match, err := h.service.MatchBrandFit(r.Context(), application.BrandFitInput{
		Bio:      req.InfluencerBio,
		Captions: req.RecentCaptions,
		Keywords: req.BrandKeywords,
	})
	if err != nil {
		status, code := mapDomainError(err)
		logHTTPOperationError(r.Context(), "analyze_brand_fit", status, code, err)
		writeError(w, status, code, err.Error(), requestIDFromContext(r.Context()))
		return
	}
	writeJSON(w, http.StatusOK, contracts.BrandFitResponse{
		Score:           match.Score,
		Matches:         match.Matches,
		ExtractedTopics: match.ExtractedTopics,
	})
}

func forensicsResponse(report domain.ForensicsReport) contracts.ForensicsResponse {
	chart := make([]contracts.DigitBucket, 0, len(report.Distribution.Buckets))
	for _, b := range report.Distribution.Buckets {
		chart = append(chart, contracts.DigitBucket{Digit: b.Digit, Observed: b.Observed, Expected: b.Expected})
	}
	return contracts.ForensicsResponse{
		Benford: contracts.BenfordSection{
			ChiSquare:    report.Distribution.ChiSquare,
			IsSuspicious: report.Distribution.Suspicious,
			ChartData:    chart,
		},
		Entropy: contracts.EntropySection{
			Score:            report.Entropy.Score,
			NormalizedScore:  report.Entropy.NormalizedComplexity,
			Verdict:          string(report.Entropy.Verdict),
			DuplicationRatio: report.Entropy.DuplicationRatio,
		},
		Fraud: contracts.FraudSection{
			CompositeScore:  report.Fraud.CompositeScore,
			Flags:           report.Fraud.Flags,
			AnomalyDetected: report.Fraud.AnomalyDetected,
			EntropyVerdict:  string(report.Fraud.EntropyVerdict),
			DegradedSignals: report.Fraud.DegradedSignals,
		},
	}
}
