// Package scoring computes source relevance and task confidence. All functions are pure.
package scoring

import (
	"sort"
	"strings"
	"unicode"

	"research-agent/internal/domain/entity"
)

const (
	// ReliableThreshold is the relevance a source must exceed to be used for synthesis.
	ReliableThreshold    = 0.1
	// MinPartialConfidence is reported when a task produced findings without reliable sources.
	MinPartialConfidence = 0.05

	trustedTLDBonus    = 0.3
	newsOutletBonus    = 0.2
	longContentBonus   = 0.2
	mediumContentBonus = 0.1
	titleBonus         = 0.1
	keywordWeight      = 0.2

	longContentChars   = 1000
	mediumContentChars = 500
	minTitleChars      = 10

	perSourceWeight  = 0.2
	sourceCountCap   = 0.6
	relevanceWeight  = 0.4
	simulatedPenalty = 0.5
	fallbackPenalty  = 0.75
)

var trustedSuffixes = []string{".edu", ".gov", ".org"}

var newsOutlets = []string{"bbc", "reuters", "cnn", "nytimes", "apnews", "theguardian"}

var stopWords = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "with": {}, "what": {}, "how": {}, "are": {}, "why": {},
	"this": {}, "that": {}, "from": {}, "into": {}, "about": {}, "its": {}, "was": {}, "were": {},
}

// Relevance scores src against query in [0, 1]. It is monotonic in each bonus: trusted
// domains, content length bands, a descriptive title and title keyword overlap.
func Relevance(src entity.ExtractedSource, query string) float64 {
	score := 0.0

	domain := strings.ToLower(src.Domain)
	for _, suffix := range trustedSuffixes {
		if strings.HasSuffix(domain, suffix) {
			score += trustedTLDBonus
			break
		}
	}
	for _, outlet := range newsOutlets {
		if strings.Contains(domain, outlet) {
			score += newsOutletBonus
			break
		}
	}

	switch n := len([]rune(src.Text)); {
	case n > longContentChars:
		score += longContentBonus
	case n > mediumContentChars:
		score += mediumContentBonus
	}

	if len([]rune(strings.TrimSpace(src.Title))) > minTitleChars {
		score += titleBonus
	}

	score += keywordWeight * KeywordOverlap(src.Title, query)

	if score > 1 {
		return 1
	}
	return score
}

// KeywordOverlap is the share of query keywords that appear in title.
func KeywordOverlap(title, query string) float64 {
	keywords := Keywords(query)
	if len(keywords) == 0 {
		return 0
	}
	titleWords := make(map[string]struct{})
	for _, w := range Keywords(title) {
		titleWords[w] = struct{}{}
	}
	hits := 0
	for _, k := range keywords {
		if _, ok := titleWords[k]; ok {
			hits++
		}
	}
	return float64(hits) / float64(len(keywords))
}

// Keywords lower-cases s and returns its distinct words longer than two characters,
// excluding common stop words, in order of first appearance.
func Keywords(s string) []string {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	seen := make(map[string]struct{}, len(fields))
	result := make([]string, 0, len(fields))
	for _, f := range fields {
		if len([]rune(f)) <= 2 {
			continue
		}
		if _, ok := stopWords[f]; ok {
			continue
		}
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		result = append(result, f)
	}
	return result
}

// Reliable returns the sources whose relevance exceeds ReliableThreshold, ordered by
// relevance descending and then by search rank ascending.
func Reliable(sources []entity.ExtractedSource) []entity.ExtractedSource {
	result := make([]entity.ExtractedSource, 0, len(sources))
	for _, s := range sources {
		if s.Relevance > ReliableThreshold {
			result = append(result, s)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		if result[i].Relevance != result[j].Relevance {
			return result[i].Relevance > result[j].Relevance
		}
		return result[i].Rank < result[j].Rank
	})
	return result
}

func MeanRelevance(sources []entity.ExtractedSource) float64 {
	if len(sources) == 0 {
		return 0
	}
	total := 0.0
	for _, s := range sources {
		total += s.Relevance
	}
	return total / float64(len(sources))
}

type ConfidenceInput struct {
	ReliableSources   int
	MeanRelevance     float64
	SimulatedSearch   bool
	FallbackSynthesis bool
}

// Confidence grows with the number of reliable sources and their mean relevance and is
// capped at entity.MaxConfidence. Simulated search and fallback synthesis lower it; a task
// without reliable sources reports MinPartialConfidence.
func Confidence(in ConfidenceInput) float64 {
	if in.ReliableSources <= 0 {
		return MinPartialConfidence
	}

	countPart := float64(in.ReliableSources) * perSourceWeight
	if countPart > sourceCountCap {
		countPart = sourceCountCap
	}
	mean := in.MeanRelevance
	if mean < 0 {
		mean = 0
	}
	if mean > 1 {
		mean = 1
	}

	c := countPart + mean*relevanceWeight
	if in.SimulatedSearch {
		c *= simulatedPenalty
	}
	if in.FallbackSynthesis {
		c *= fallbackPenalty
	}

	if c < MinPartialConfidence {
		c = MinPartialConfidence
	}
	if c > entity.MaxConfidence {
		c = entity.MaxConfidence
	}
	return c
}
