package queryengine

import (
	"encoding/json"
	"regexp"
	"strings"
)

// LLMs asked for "only JSON" still wrap it in markdown fences or prose
// often enough that strict parsing would be the rare path. ExtractJSON
// tolerates both.

var (
	jsonFenceRe  = regexp.MustCompile("```(?:json)?\\s*")
	jsonObjectRe = regexp.MustCompile(`(?s)\{.*\}`)
)

// ExtractJSON finds and unmarshals the first top-level JSON object in text
// into out. It strips markdown code fences first, then scans for the
// outermost brace pair. Returns false when no parseable object exists.
func ExtractJSON(text string, out interface{}) bool {
	cleaned := jsonFenceRe.ReplaceAllString(text, "")
	match := jsonObjectRe.FindString(cleaned)
	if match == "" {
		return false
	}
	return json.Unmarshal([]byte(match), out) == nil
}

// firstN returns up to n leading elements of items joined by ", ".
func firstN(items []string, n int) string {
	if len(items) > n {
		items = items[:n]
	}
	return strings.Join(items, ", ")
}
