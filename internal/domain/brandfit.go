package domain

import (
	"math"
	"sort"
	"strings"
	"unicode"
)

type BrandFitConfig struct {
	// MaxTopics caps the extracted-topic list returned to the caller.
	MaxTopics int
}

// AestheticMatch is the overlap between an influencer's voice and a brand's
// keyword set. Matches is always a subset of the supplied keywords.
type AestheticMatch struct {
	Score           int
	Matches         []string
	ExtractedTopics []string
}

var stopwords = map[string]bool{
	"and": true, "are": true, "but": true, "for": true, "from": true,
	"get": true, "have": true, "her": true, "his": true, "its": true,
	"just": true, "like": true, "love": true, "more": true, "new": true,
	"not": true, "our": true, "out": true, "she": true, "the": true,
	"this": true, "that": true, "very": true, "was": true, "with": true,
	"you": true, "your": true,
}

// MatchBrand scores a brand keyword set against the influencer's bio and
// recent captions. Scoring is recall-oriented: what fraction of the brand's
// vocabulary does the influencer already speak.
func MatchBrand(bio string, captions []string, keywords []string, cfg BrandFitConfig) (AestheticMatch, error) {
	if len(keywords) == 0 {
		return AestheticMatch{}, ErrInvalidInput
	}

	corpus := bio + " " + strings.Join(captions, " ")
	tokens := tokenize(corpus)

	terms := make(map[string]int)
	for i, t := range tokens {
		terms[t]++
		if i+1 < len(tokens) {
			terms[t+" "+tokens[i+1]]++
		}
	}

	// Keywords go through the same tokenizer as the corpus, so punctuated
	// or stopword-padded forms ("eco-friendly", "the label") line up with
	// the terms they produce on the influencer side.
	matches := []string{}
	seen := make(map[string]bool)
	for _, kw := range keywords {
		norm := strings.Join(tokenize(kw), " ")
		if norm == "" || seen[norm] {
			continue
		}
		seen[norm] = true
		if terms[norm] > 0 {
			matches = append(matches, kw)
		}
	}

	score := int(math.Round(100 * float64(len(matches)) / float64(len(keywords))))
	if score > 100 {
		score = 100
	}

	return AestheticMatch{
		Score:           score,
		Matches:         matches,
		ExtractedTopics: topTopics(tokens, cfg.MaxTopics),
	}, nil
}

func tokenize(text string) []string {
	raw := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	tokens := make([]string, 0, len(raw))
	for _, t := range raw {
		if len(t) < 3 || stopwords[t] {
			continue
		}
		tokens = append(tokens, t)
	}
	return tokens
}

// topTopics returns the most frequent unigrams, count-descending with an
// alphabetical tiebreak so output is stable.
func topTopics(tokens []string, limit int) []string {
	counts := make(map[string]int)
	for _, t := range tokens {
		counts[t]++
	}
	topics := make([]string, 0, len(counts))
	for t := range counts {
		topics = append(topics, t)
	}
	sort.Slice(topics, func(i, j int) bool {
		if counts[topics[i]] != counts[topics[j]] {
			return counts[topics[i]] > counts[topics[j]]
		}
		return topics[i] < topics[j]
	})
	if limit > 0 && len(topics) > limit {
		topics = topics[:limit]
	}
	return topics
}
