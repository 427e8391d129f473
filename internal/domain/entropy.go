package domain

import (
	"math"
	"strings"
)

type EntropyVerdict string

const (
	VerdictOrganic    EntropyVerdict = "Organic"
	VerdictSuspicious EntropyVerdict = "Suspicious"
	VerdictBotFarm    EntropyVerdict = "Bot-Farm"
)

type EntropyConfig struct {
	// OrganicMinBits is the corpus entropy at or above which (with low
	// duplication) engagement reads as organic.
	OrganicMinBits float64
	// BotFarmMaxBits: below this the corpus is automated regardless of
	// duplication.
	BotFarmMaxBits float64
	// DuplicationBound: duplicate fraction above which the corpus is a
	// bot farm even when entropy is middling.
	DuplicationBound float64
	// LowComplexityBelow flags comment text whose normalized character
	// complexity (0-10 scale) falls under this value.
	LowComplexityBelow float64
}

// EntropyResult is the linguistic analysis of a comment corpus.
type EntropyResult struct {
	// Score is Shannon entropy in bits over the frequency distribution of
	// normalized comment strings. A corpus of identical comments scores
	// exactly zero; n distinct uniformly-used comments score log2(n).
	Score float64
	// CharEntropyBits is character-level entropy of the whole corpus,
	// the classic language-complexity measure.
	CharEntropyBits float64
	// NormalizedComplexity rescales CharEntropyBits to 0-10 against the
	// ~4.5 bits typical of natural English text.
	NormalizedComplexity float64
	// DuplicationRatio is the fraction of comments whose normalized form
	// occurs more than once in the corpus.
	DuplicationRatio float64
	Verdict          EntropyVerdict
	DistinctComments int
	TotalComments    int
	// RiskScore blends inverted entropy and duplication into [0,1],
	// monotone in both.
	RiskScore float64
}

// NormalizeComment case-folds and collapses whitespace. Punctuation and
// emoji stay in place: they are symbols too, and their repetition is signal.
func NormalizeComment(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// ScoreComments computes corpus-level and character-level entropy plus the
// duplication ratio, and classifies the corpus.
func ScoreComments(comments []string, cfg EntropyConfig) (EntropyResult, error) {
	freq := make(map[string]int)
	normalized := make([]string, 0, len(comments))
	for _, c := range comments {
		n := NormalizeComment(c)
		if n == "" {
			continue
		}
		normalized = append(normalized, n)
		freq[n]++
	}
	total := len(normalized)
	if total == 0 {
		return EntropyResult{}, ErrInsufficientData
	}

	score := 0.0
	duplicated := 0
	for _, count := range freq {
		p := float64(count) / float64(total)
		score -= p * math.Log2(p)
		if count > 1 {
			duplicated += count
		}
	}
	dupRatio := float64(duplicated) / float64(total)

	charBits := charEntropy(strings.Join(normalized, " "))
	complexity := math.Min(10, charBits/4.5*10)

	verdict := VerdictSuspicious
	switch {
	case score < cfg.BotFarmMaxBits || dupRatio > cfg.DuplicationBound:
		verdict = VerdictBotFarm
	case score >= cfg.OrganicMinBits && dupRatio <= cfg.DuplicationBound:
		verdict = VerdictOrganic
	}

	inverted := 1.0
	if cfg.OrganicMinBits > 0 {
		inverted = 1 - math.Min(score/cfg.OrganicMinBits, 1)
	}

	return EntropyResult{
		Score:                score,
		CharEntropyBits:      charBits,
		NormalizedComplexity: complexity,
		DuplicationRatio:     dupRatio,
		Verdict:              verdict,
		DistinctComments:     len(freq),
		TotalComments:        total,
		RiskScore:            0.5*inverted + 0.5*dupRatio,
	}, nil
}

func charEntropy(text string) float64 {
	if text == "" {
		return 0
	}
	freq := make(map[rune]int)
	total := 0
	for _, r := range text {
		freq[r]++
		total++
	}
	h := 0.0
	for _, count := range freq {
		p := float64(count) / float64(total)
		h -= p * math.Log2(p)
	}
	return h
}
