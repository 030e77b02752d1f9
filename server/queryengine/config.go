package queryengine

import (
	"fmt"
)

// ScoreMode selects the keyword scoring strategy.
type ScoreMode string

const (
	// ScoreModeCombined blends Jaccard and cosine similarity with a size
	// penalty and exact-match bonus. Default.
	ScoreModeCombined ScoreMode = "combined"
	// ScoreModeMultiLayer is an alternative strategy layering substring,
	// subset and similarity checks with a fixed threshold.
	ScoreModeMultiLayer ScoreMode = "multilayer"
)

// Config holds the routing engine configuration: scoring parameters, the
// flat keyword list used by the fast routing gate, and the topic pattern
// table. It is loaded once at startup and never mutated afterward.
type Config struct {
	Scoring ScoringConfig `json:"scoring" yaml:"scoring"`

	// Keywords is the flat list of phrases whose presence signals that the
	// question concerns labor-law material rather than plain wage lookups.
	Keywords []string `json:"keywords" yaml:"keywords"`

	// Topics is the ordered topic pattern table. Order matters: when two
	// topics reach the same confidence, the earlier one wins.
	Topics []TopicPattern `json:"topics" yaml:"topics"`
}

// ScoringConfig carries the keyword match scoring parameters.
type ScoringConfig struct {
	Mode ScoreMode `json:"mode" yaml:"mode"`

	// Weights for the combined similarity blend.
	JaccardWeight float64 `json:"jaccardWeight" yaml:"jaccardWeight"`
	CosineWeight  float64 `json:"cosineWeight" yaml:"cosineWeight"`

	// BaseThreshold applies to keywords of three or more tokens;
	// ShortKeywordThreshold applies to keywords of one or two tokens,
	// which otherwise match too eagerly.
	BaseThreshold         float64 `json:"baseThreshold" yaml:"baseThreshold"`
	ShortKeywordThreshold float64 `json:"shortKeywordThreshold" yaml:"shortKeywordThreshold"`

	// ExactMatchBoost is the additive bonus for raw substring agreement;
	// full equality or a word-bounded phrase hit earns 1.5x this value.
	ExactMatchBoost float64 `json:"exactMatchBoost" yaml:"exactMatchBoost"`

	// MinSizeRatio is the feature-set size ratio below which the steepest
	// size penalty band applies.
	MinSizeRatio float64 `json:"minSizeRatio" yaml:"minSizeRatio"`
}

// TopicPattern names a regulatory topic and the keyword phrases that
// indicate it. Threshold is the minimum number of distinct keyword matches
// required before the topic is eligible for suggestion.
type TopicPattern struct {
	Name      string   `json:"name" yaml:"name"`
	Category  string   `json:"category" yaml:"category"`
	Keywords  []string `json:"keywords" yaml:"keywords"`
	Threshold int      `json:"threshold" yaml:"threshold"`
}

// Topic categories. Grouping is cosmetic outside of the routing prompt,
// where the taxonomy is presented per category.
const (
	CategoryEmploymentTypes = "employment_types"
	CategoryLaborLaws       = "labor_laws"
)

// DefaultConfig returns the stock configuration: the flat keyword list and
// the eight-topic pattern table for US minimum-wage regulation.
func DefaultConfig() *Config {
	return &Config{
		Scoring: ScoringConfig{
			Mode:                  ScoreModeCombined,
			JaccardWeight:         0.65,
			CosineWeight:          0.35,
			BaseThreshold:         0.4,
			ShortKeywordThreshold: 0.5,
			ExactMatchBoost:       0.30,
			MinSizeRatio:          0.3,
		},
		Keywords: []string{
			// Employment types
			"agricultural", "farm", "farmer", "agriculture", "non-farm",
			"entertainment", "performer", "actor", "musician",
			"door-to-door", "sales", "salesperson", "commission",

			// Labor laws
			"rest period", "break", "meal period", "lunch", "dinner break",
			"prevailing wage", "davis bacon", "public contract",
			"payday", "pay frequency", "payment schedule", "pay period",

			// General indicators
			"law", "regulation", "requirement", "rule", "legal", "compliance",
			"overtime", "hours worked", "workweek",
		},
		Topics: []TopicPattern{
			{
				Name:     "Agricultural Employment",
				Category: CategoryEmploymentTypes,
				Keywords: []string{
					"agricultural", "farm", "agriculture", "farming", "crop", "harvest",
				},
				Threshold: 1,
			},
			{
				Name:     "Non-farm Employment",
				Category: CategoryEmploymentTypes,
				Keywords: []string{
					"non-farm", "non farm", "nonfarm", "general employment",
				},
				Threshold: 1,
			},
			{
				Name:     "Entertainment",
				Category: CategoryEmploymentTypes,
				Keywords: []string{
					"entertainment", "performer", "actor", "musician", "artist",
					"theatrical", "stage", "performance", "concert", "show", "production",
				},
				Threshold: 1,
			},
			{
				Name:     "Door-to-Door Sales",
				Category: CategoryEmploymentTypes,
				Keywords: []string{
					"door-to-door", "door to door", "sales", "salesperson",
					"commission", "direct selling", "outside sales",
				},
				Threshold: 1,
			},
			{
				Name:     "Minimum Paid Rest Periods",
				Category: CategoryLaborLaws,
				Keywords: []string{
					"rest period", "break", "rest break", "work period",
					"rest time", "break period", "rest requirement",
				},
				Threshold: 2,
			},
			{
				Name:     "Minimum Meal Periods",
				Category: CategoryLaborLaws,
				Keywords: []string{
					"meal period", "lunch", "dinner break", "meal break",
					"meal time", "lunch period", "dining period",
				},
				Threshold: 2,
			},
			{
				Name:     "Prevailing Wages",
				Category: CategoryLaborLaws,
				Keywords: []string{
					"prevailing wage", "davis bacon", "government contract",
					"federal contract", "public works", "prevailing rate",
				},
				Threshold: 1,
			},
			{
				Name:     "Payday Requirements",
				Category: CategoryLaborLaws,
				Keywords: []string{
					"payday", "pay frequency", "payment schedule", "pay period",
					"wage payment", "pay timing", "paycheck frequency",
				},
				Threshold: 1,
			},
		},
	}
}

// ValidateConfig checks configuration invariants. Topic thresholds below 1
// are normalized up to 1 rather than rejected, so a fractional threshold
// configured upstream effectively means "at least one match".
func ValidateConfig(config *Config) error {
	if config == nil {
		return ErrInvalidConfig{Field: "config", Value: nil}
	}

	s := &config.Scoring
	if s.Mode == "" {
		s.Mode = ScoreModeCombined
	}
	if s.Mode != ScoreModeCombined && s.Mode != ScoreModeMultiLayer {
		return ErrInvalidConfig{Field: "Scoring.Mode", Value: s.Mode}
	}
	if s.JaccardWeight < 0 || s.JaccardWeight > 1 {
		return ErrInvalidConfig{Field: "Scoring.JaccardWeight", Value: s.JaccardWeight}
	}
	if s.CosineWeight < 0 || s.CosineWeight > 1 {
		return ErrInvalidConfig{Field: "Scoring.CosineWeight", Value: s.CosineWeight}
	}
	if s.BaseThreshold <= 0 || s.BaseThreshold >= 1 {
		return ErrInvalidConfig{Field: "Scoring.BaseThreshold", Value: s.BaseThreshold}
	}
	if s.ShortKeywordThreshold <= 0 || s.ShortKeywordThreshold >= 1 {
		return ErrInvalidConfig{Field: "Scoring.ShortKeywordThreshold", Value: s.ShortKeywordThreshold}
	}
	if s.ExactMatchBoost < 0 || s.ExactMatchBoost > 1 {
		return ErrInvalidConfig{Field: "Scoring.ExactMatchBoost", Value: s.ExactMatchBoost}
	}
	if s.MinSizeRatio <= 0 || s.MinSizeRatio >= 0.5 {
		return ErrInvalidConfig{Field: "Scoring.MinSizeRatio", Value: s.MinSizeRatio}
	}

	if len(config.Keywords) == 0 {
		return ErrInvalidConfig{Field: "Keywords", Value: "empty"}
	}

	seen := make(map[string]struct{}, len(config.Topics))
	for i := range config.Topics {
		t := &config.Topics[i]
		if t.Name == "" {
			return ErrInvalidConfig{Field: fmt.Sprintf("Topics[%d].Name", i), Value: ""}
		}
		if _, dup := seen[t.Name]; dup {
			return ErrInvalidConfig{Field: fmt.Sprintf("Topics[%d].Name", i), Value: t.Name}
		}
		seen[t.Name] = struct{}{}
		if len(t.Keywords) == 0 {
			return ErrInvalidConfig{Field: fmt.Sprintf("Topics[%d].Keywords", i), Value: "empty"}
		}
		if t.Threshold < 1 {
			t.Threshold = 1
		}
	}

	return nil
}

// TopicNames returns the configured topic names in declaration order.
func (c *Config) TopicNames() []string {
	names := make([]string, 0, len(c.Topics))
	for _, t := range c.Topics {
		names = append(names, t.Name)
	}
	return names
}

// ErrInvalidConfig reports a configuration field that failed validation.
type ErrInvalidConfig struct {
	Field string
	Value interface{}
}

func (e ErrInvalidConfig) Error() string {
	return fmt.Sprintf("invalid config field '%s': %v", e.Field, e.Value)
}
