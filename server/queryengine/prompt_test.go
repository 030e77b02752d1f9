package queryengine

import (
	"strings"
	"testing"
)

func TestRoutingPrompt(t *testing.T) {
	cfg := DefaultConfig()
	prompt := RoutingPrompt(cfg)

	for _, want := range []string{`"sql"`, `"lightrag"`, `"hybrid"`} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing route %s", want)
		}
	}

	for _, topic := range cfg.TopicNames() {
		if !strings.Contains(prompt, topic) {
			t.Errorf("prompt missing topic %q", topic)
		}
	}

	// Categories appear as group headers, employment types first.
	et := strings.Index(prompt, CategoryEmploymentTypes+":")
	ll := strings.Index(prompt, CategoryLaborLaws+":")
	if et < 0 || ll < 0 {
		t.Fatalf("prompt missing category headers (%d, %d)", et, ll)
	}
	if et > ll {
		t.Error("employment_types should precede labor_laws")
	}

	if !strings.Contains(prompt, "ROUTING EXAMPLES:") {
		t.Error("prompt missing worked examples")
	}
	if !strings.Contains(prompt, `{"route": "sql|lightrag|hybrid"`) {
		t.Error("prompt missing output format instruction")
	}
}

func TestRoutingPromptGroupsByCategoryOnce(t *testing.T) {
	prompt := RoutingPrompt(DefaultConfig())

	if n := strings.Count(prompt, CategoryEmploymentTypes+":"); n != 1 {
		t.Errorf("employment_types header appears %d times, want 1", n)
	}
	if n := strings.Count(prompt, CategoryLaborLaws+":"); n != 1 {
		t.Errorf("labor_laws header appears %d times, want 1", n)
	}
}
