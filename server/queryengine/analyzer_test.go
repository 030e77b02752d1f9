package queryengine

import (
	"math"
	"reflect"
	"sort"
	"testing"
)

func newTestAnalyzer(t *testing.T) *Analyzer {
	t.Helper()
	a, err := NewAnalyzer(nil, nil)
	if err != nil {
		t.Fatalf("NewAnalyzer: %v", err)
	}
	return a
}

func TestAnalyzePlainWageQuestion(t *testing.T) {
	a := newTestAnalyzer(t)

	analysis, err := a.Analyze("What is the minimum wage in California?")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if analysis.HasLightRAGKeywords {
		t.Errorf("plain wage question matched keywords: %v", analysis.MatchedKeywords)
	}
	if analysis.SuggestedTopic != "" {
		t.Errorf("suggested topic = %q, want none", analysis.SuggestedTopic)
	}
	if analysis.Confidence != 0 {
		t.Errorf("confidence = %v, want 0", analysis.Confidence)
	}
}

func TestAnalyzeAgriculturalQuestion(t *testing.T) {
	a := newTestAnalyzer(t)

	analysis, err := a.Analyze("Do agricultural workers have different minimum wage rules?")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if !analysis.HasLightRAGKeywords {
		t.Fatal("expected keyword signal")
	}
	if !reflect.DeepEqual(analysis.MatchedKeywords, []string{"agricultural"}) {
		t.Errorf("matched = %v, want [agricultural]", analysis.MatchedKeywords)
	}
	if analysis.SuggestedTopic != "Agricultural Employment" {
		t.Errorf("suggested topic = %q, want Agricultural Employment", analysis.SuggestedTopic)
	}

	// Word-bounded phrase bonus 0.45 plus the similarity terms over an
	// 11-feature question and a 1-feature keyword.
	score := analysis.MatchScores["agricultural"]
	if math.Abs(score-0.5573) > 1e-3 {
		t.Errorf("score = %v, want ~0.5573", score)
	}
	wantConf := score / 6.0
	if math.Abs(analysis.Confidence-wantConf) > 1e-9 {
		t.Errorf("confidence = %v, want %v", analysis.Confidence, wantConf)
	}
}

func TestAnalyzeRestBreakQuestion(t *testing.T) {
	a := newTestAnalyzer(t)

	analysis, err := a.Analyze("What are the rest break requirements in California?")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if analysis.SuggestedTopic != "Minimum Paid Rest Periods" {
		t.Fatalf("suggested topic = %q, want Minimum Paid Rest Periods", analysis.SuggestedTopic)
	}
	if !reflect.DeepEqual(analysis.MatchedKeywords, []string{"break", "rest break"}) {
		t.Errorf("matched = %v, want [break, rest break]", analysis.MatchedKeywords)
	}
	// Two matches were needed: the topic's threshold is 2.
	if analysis.Confidence <= 0 || analysis.Confidence > 1 {
		t.Errorf("confidence = %v, out of range", analysis.Confidence)
	}
}

// A keyword below its threshold must not count toward any topic: "requirement"
// is a raw substring of "requirements" but its combined score stays under the
// short-keyword threshold in a question this long.
func TestAnalyzeSubthresholdKeywordIgnored(t *testing.T) {
	a := newTestAnalyzer(t)

	analysis, err := a.Analyze("What are the rest break requirements in California?")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if _, ok := analysis.MatchScores["requirement"]; ok {
		t.Errorf("sub-threshold keyword leaked into matches: %v", analysis.MatchScores)
	}
}

func TestAnalyzeMatchedKeywordsSorted(t *testing.T) {
	a := newTestAnalyzer(t)

	analysis, err := a.Analyze("Are there rest break rules for farm and agricultural workers?")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if !sort.StringsAreSorted(analysis.MatchedKeywords) {
		t.Errorf("matched keywords not sorted: %v", analysis.MatchedKeywords)
	}
	if len(analysis.MatchedKeywords) != len(analysis.MatchScores) {
		t.Errorf("matched list and score map sizes differ: %d vs %d",
			len(analysis.MatchedKeywords), len(analysis.MatchScores))
	}
}

func TestAnalyzeDeterministic(t *testing.T) {
	a := newTestAnalyzer(t)

	const question = "When must employers pay their workers? Is there a payday law?"
	first, err := a.Analyze(question)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	for i := 0; i < 10; i++ {
		again, err := a.Analyze(question)
		if err != nil {
			t.Fatalf("Analyze: %v", err)
		}
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("run %d differs:\nfirst: %+v\nagain: %+v", i, first, again)
		}
	}
}

func TestAnalyzeEmptyQuestion(t *testing.T) {
	a := newTestAnalyzer(t)

	analysis, err := a.Analyze("")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if analysis.HasLightRAGKeywords {
		t.Error("empty question produced keyword matches")
	}
	if analysis.SuggestedTopic != "" {
		t.Errorf("suggested topic = %q, want none", analysis.SuggestedTopic)
	}
}

// Earlier topics win ties. Two synthetic topics share one keyword, so both
// reach identical confidence; the analyzer must keep the first.
func TestAnalyzeTieBreakByDeclarationOrder(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Keywords = []string{"zoning"}
	cfg.Topics = []TopicPattern{
		{Name: "First", Category: CategoryLaborLaws, Keywords: []string{"zoning"}, Threshold: 1},
		{Name: "Second", Category: CategoryLaborLaws, Keywords: []string{"zoning"}, Threshold: 1},
	}

	a, err := NewAnalyzer(cfg, nil)
	if err != nil {
		t.Fatalf("NewAnalyzer: %v", err)
	}
	analysis, err := a.Analyze("zoning")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if analysis.SuggestedTopic != "First" {
		t.Errorf("suggested topic = %q, want First", analysis.SuggestedTopic)
	}
}

func TestAnalyzeTopicThresholdGate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Keywords = []string{"meal period"}
	cfg.Topics = []TopicPattern{
		{
			Name:      "Meals",
			Category:  CategoryLaborLaws,
			Keywords:  []string{"meal period", "lunch", "dinner break"},
			Threshold: 2,
		},
	}

	a, err := NewAnalyzer(cfg, nil)
	if err != nil {
		t.Fatalf("NewAnalyzer: %v", err)
	}

	// One matching phrase is below the threshold of two.
	one, err := a.Analyze("meal period")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if one.SuggestedTopic != "" {
		t.Errorf("one match suggested topic %q, want none", one.SuggestedTopic)
	}
	if !one.HasLightRAGKeywords {
		t.Error("matched phrase should still set the keyword signal")
	}

	// Two matching phrases reach it.
	two, err := a.Analyze("meal period and lunch")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if two.SuggestedTopic != "Meals" {
		t.Errorf("suggested topic = %q, want Meals", two.SuggestedTopic)
	}
}

func TestNewAnalyzerRejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Scoring.Mode = "fuzzy"
	if _, err := NewAnalyzer(cfg, nil); err == nil {
		t.Fatal("expected error for invalid mode")
	}
}
