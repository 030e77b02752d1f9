package pipeline

import "strings"

// validStates is the 50 states plus the federal row published in the
// source tables.
var validStates = []string{
	"Alabama", "Alaska", "Arizona", "Arkansas", "California", "Colorado",
	"Connecticut", "Delaware", "Florida", "Georgia", "Hawaii", "Idaho",
	"Illinois", "Indiana", "Iowa", "Kansas", "Kentucky", "Louisiana",
	"Maine", "Maryland", "Massachusetts", "Michigan", "Minnesota",
	"Mississippi", "Missouri", "Montana", "Nebraska", "Nevada",
	"New Hampshire", "New Jersey", "New Mexico", "New York",
	"North Carolina", "North Dakota", "Ohio", "Oklahoma", "Oregon",
	"Pennsylvania", "Rhode Island", "South Carolina", "South Dakota",
	"Tennessee", "Texas", "Utah", "Vermont", "Virginia", "Washington",
	"West Virginia", "Wisconsin", "Wyoming", "Federal",
}

var stateByLower = func() map[string]string {
	m := make(map[string]string, len(validStates))
	for _, s := range validStates {
		m[strings.ToLower(s)] = s
	}
	return m
}()

// CanonicalState returns the canonical spelling of a state name, matching
// case-insensitively. ok is false for anything not in the state list.
func CanonicalState(name string) (string, bool) {
	canonical, ok := stateByLower[strings.ToLower(strings.TrimSpace(name))]
	return canonical, ok
}

// ValidStates returns the full canonical state list.
func ValidStates() []string {
	out := make([]string, len(validStates))
	copy(out, validStates)
	return out
}

// ExtractStates finds every state name mentioned in the question, in state
// list order. Multi-word names match as phrases, so "New York" never also
// matches "York".
func ExtractStates(question string) []string {
	lower := strings.ToLower(question)
	var found []string
	for _, state := range validStates {
		if containsWord(lower, strings.ToLower(state)) {
			found = append(found, state)
		}
	}
	return found
}

func containsWord(haystack, needle string) bool {
	for start := 0; ; {
		idx := strings.Index(haystack[start:], needle)
		if idx < 0 {
			return false
		}
		idx += start
		end := idx + len(needle)
		beforeOK := idx == 0 || !isLetter(haystack[idx-1])
		afterOK := end == len(haystack) || !isLetter(haystack[end])
		if beforeOK && afterOK {
			return true
		}
		start = idx + 1
	}
}

func isLetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}
