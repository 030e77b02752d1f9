package queryengine

import (
	"log/slog"
	"math"
	"sort"
	"strings"
)

// KeywordAnalysis is the per-question output of the Analyzer.
type KeywordAnalysis struct {
	// HasLightRAGKeywords is true when at least one configured keyword or
	// topic phrase matched; it gates the router's fast SQL path.
	HasLightRAGKeywords bool

	// MatchedKeywords holds every matched phrase, flat-list and topic
	// phrases alike, sorted for determinism.
	MatchedKeywords []string

	// SuggestedTopic is the best eligible topic, or empty when no topic
	// reached its match threshold.
	SuggestedTopic string

	// Confidence is the suggested topic's confidence in [0, 1]; zero when
	// there is no suggested topic.
	Confidence float64

	// MatchScores maps each matched phrase to its combined score.
	MatchScores map[string]float64
}

// keywordEntry caches the precomputed features of one configured phrase.
// The configuration is static, so features are built once at construction
// instead of on every question.
type keywordEntry struct {
	raw        string
	features   Features
	tokenCount int
}

// topicEntry is a topic pattern with precomputed keyword features.
type topicEntry struct {
	pattern  TopicPattern
	keywords []keywordEntry
}

// Analyzer scores a question against the configured keyword list and topic
// pattern table. Construct once, share freely.
type Analyzer struct {
	cfg        *Config
	normalizer *Normalizer
	scorer     *Scorer
	keywords   []keywordEntry
	topics     []topicEntry
}

// NewAnalyzer validates the configuration and precomputes keyword features.
// A nil stemmer selects the PorterStemmer.
func NewAnalyzer(cfg *Config, stemmer Stemmer) (*Analyzer, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}

	a := &Analyzer{
		cfg:        cfg,
		normalizer: NewNormalizer(stemmer),
		scorer:     NewScorer(cfg.Scoring),
	}

	a.keywords = make([]keywordEntry, 0, len(cfg.Keywords))
	for _, kw := range cfg.Keywords {
		a.keywords = append(a.keywords, a.buildEntry(kw))
	}

	a.topics = make([]topicEntry, 0, len(cfg.Topics))
	for _, pattern := range cfg.Topics {
		entry := topicEntry{pattern: pattern}
		for _, kw := range pattern.Keywords {
			entry.keywords = append(entry.keywords, a.buildEntry(kw))
		}
		a.topics = append(a.topics, entry)
	}

	return a, nil
}

func (a *Analyzer) buildEntry(phrase string) keywordEntry {
	return keywordEntry{
		raw:        phrase,
		features:   a.normalizer.ExtractFeatures(phrase),
		tokenCount: len(a.normalizer.Normalize(phrase, true)),
	}
}

// Config returns the analyzer's configuration. Callers must not mutate it.
func (a *Analyzer) Config() *Config {
	return a.cfg
}

// Analyze scores the question against every configured keyword and topic
// pattern and returns the aggregate analysis. The result is deterministic
// for a fixed configuration and stemmer: matched keywords are sorted and
// topics are visited in declaration order, with ties keeping the earlier
// topic.
func (a *Analyzer) Analyze(question string) (*KeywordAnalysis, error) {
	queryFeatures := a.normalizer.ExtractFeatures(question)

	matchScores := make(map[string]float64)
	record := func(phrase string, score float64) {
		if prev, ok := matchScores[phrase]; !ok || score > prev {
			matchScores[phrase] = score
		}
	}

	for _, kw := range a.keywords {
		combined, threshold := a.scorer.Score(queryFeatures, kw.features, question, kw.raw, kw.tokenCount)
		if combined > threshold {
			record(kw.raw, combined)
		}
	}

	bestTopic := ""
	bestConf := 0.0
	for _, topic := range a.topics {
		if len(topic.pattern.Keywords) == 0 {
			// Normally rejected at construction; re-checked here because a
			// malformed pattern must fail the whole analysis, not skew it.
			return nil, ErrInvalidConfig{Field: "Topics." + topic.pattern.Name + ".Keywords", Value: "empty"}
		}

		topicScore := 0.0
		topicMatches := 0
		for _, kw := range topic.keywords {
			combined, threshold := a.scorer.Score(queryFeatures, kw.features, question, kw.raw, kw.tokenCount)
			if combined > threshold {
				topicScore += combined
				topicMatches++
				record(kw.raw, combined)
			}
		}

		if topicMatches >= topic.pattern.Threshold {
			conf := math.Min(1.0, topicScore/math.Max(1, float64(len(topic.pattern.Keywords))))
			if conf > bestConf {
				bestConf = conf
				bestTopic = topic.pattern.Name
			}
		}
	}

	matched := make([]string, 0, len(matchScores))
	for phrase := range matchScores {
		matched = append(matched, phrase)
	}
	sort.Strings(matched)

	analysis := &KeywordAnalysis{
		HasLightRAGKeywords: len(matched) > 0,
		MatchedKeywords:     matched,
		SuggestedTopic:      bestTopic,
		Confidence:          bestConf,
		MatchScores:         matchScores,
	}

	slog.Debug("keyword analysis",
		"matched", strings.Join(matched, ","),
		"topic", bestTopic,
		"confidence", bestConf)

	return analysis, nil
}
