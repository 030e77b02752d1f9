package queryengine

import (
	"math"
	"strings"
)

// Multi-layer scoring weights. The multi-layer strategy is coarser than the
// combined one: a raw substring hit is a certain match, a full feature
// subset carries most of the remaining weight, and the similarity metrics
// only fine-tune.
const (
	multiLayerSubsetBoost   = 0.6
	multiLayerJaccardWeight = 0.3
	multiLayerCosineWeight  = 0.1
)

// Scorer produces a confidence score and a match threshold for a
// (question, keyword) pair. Immutable and safe for concurrent use.
type Scorer struct {
	cfg ScoringConfig
}

// NewScorer returns a Scorer for the given scoring configuration.
func NewScorer(cfg ScoringConfig) *Scorer {
	return &Scorer{cfg: cfg}
}

// Score compares the question's features against one keyword's features and
// returns (combined score, threshold). The keyword is considered matched
// when combined > threshold, strictly.
//
// keywordTokenCount is the keyword's normalized token count; one- and
// two-token keywords get the stricter short-keyword threshold under the
// combined mode.
func (s *Scorer) Score(query, keyword Features, rawQuery, rawKeyword string, keywordTokenCount int) (float64, float64) {
	if s.cfg.Mode == ScoreModeMultiLayer {
		return s.scoreMultiLayer(query, keyword, rawQuery, rawKeyword)
	}
	return s.scoreCombined(query, keyword, rawQuery, rawKeyword, keywordTokenCount)
}

func (s *Scorer) scoreCombined(query, keyword Features, rawQuery, rawKeyword string, keywordTokenCount int) (float64, float64) {
	exact := ExactMatchBonus(rawQuery, rawKeyword, s.cfg.ExactMatchBoost)
	j := Jaccard(query.Set, keyword.Set)
	c := Cosine(query.Freq, keyword.Freq)
	penalty := SizePenalty(query.Set, keyword.Set, s.cfg.MinSizeRatio)

	weighted := j*s.cfg.JaccardWeight + c*s.cfg.CosineWeight
	combined := math.Min(1.0, weighted*penalty+exact)

	threshold := s.cfg.BaseThreshold
	if keywordTokenCount <= 2 {
		threshold = s.cfg.ShortKeywordThreshold
	}
	return combined, threshold
}

func (s *Scorer) scoreMultiLayer(query, keyword Features, rawQuery, rawKeyword string) (float64, float64) {
	if strings.Contains(strings.ToLower(rawQuery), strings.ToLower(rawKeyword)) {
		return 1.0, s.cfg.BaseThreshold
	}

	score := 0.0
	if len(keyword.Set) > 0 && isSubset(keyword.Set, query.Set) {
		score += multiLayerSubsetBoost
	}
	score += Jaccard(query.Set, keyword.Set) * multiLayerJaccardWeight
	score += Cosine(query.Freq, keyword.Freq) * multiLayerCosineWeight

	return math.Min(1.0, score), s.cfg.BaseThreshold
}

// isSubset reports whether every element of a is in b.
func isSubset(a, b map[string]struct{}) bool {
	if len(a) > len(b) {
		return false
	}
	for k := range a {
		if _, ok := b[k]; !ok {
			return false
		}
	}
	return true
}
