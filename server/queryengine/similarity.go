package queryengine

import (
	"math"
	"strings"
)

// Similarity primitives. All functions are pure and total: empty inputs
// produce 0.0 instead of an error, and every result lands in [0, 1].

// Jaccard returns |a ∩ b| / |a ∪ b|, or 0 when either set is empty.
func Jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0.0
	}
	intersection := 0
	for k := range a {
		if _, ok := b[k]; ok {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	if union == 0 {
		return 0.0
	}
	return float64(intersection) / float64(union)
}

// Cosine returns the normalized dot product of two frequency vectors, or 0
// when they share no keys or either magnitude is zero.
func Cosine(a, b map[string]int) float64 {
	dot := 0.0
	shared := false
	for k, av := range a {
		if bv, ok := b[k]; ok {
			dot += float64(av) * float64(bv)
			shared = true
		}
	}
	if !shared {
		return 0.0
	}

	magA := 0.0
	for _, v := range a {
		magA += float64(v) * float64(v)
	}
	magB := 0.0
	for _, v := range b {
		magB += float64(v) * float64(v)
	}
	denom := math.Sqrt(magA) * math.Sqrt(magB)
	if denom == 0 {
		return 0.0
	}
	return dot / denom
}

// SizePenalty dampens scores when one feature set dwarfs the other, so a
// one-word keyword does not match a long question on set overlap alone.
//
// ratio < minSizeRatio:   0.5 + 0.5*(ratio/minSizeRatio)
// ratio < 0.5:            0.8 + 0.2*ratio
// otherwise:              1.0
//
// The curve is continuous at the first breakpoint and steps from 0.9 to
// 1.0 at ratio == 0.5. The step is intentional; callers and tests rely on
// sets of at least half the other's size being unpenalized.
func SizePenalty(a, b map[string]struct{}, minSizeRatio float64) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0.0
	}
	smaller, larger := len(a), len(b)
	if smaller > larger {
		smaller, larger = larger, smaller
	}
	ratio := float64(smaller) / float64(larger)

	switch {
	case ratio < minSizeRatio:
		return 0.5 + 0.5*(ratio/minSizeRatio)
	case ratio < 0.5:
		return 0.8 + 0.2*ratio
	default:
		return 1.0
	}
}

// ExactMatchBonus rewards raw-string agreement between the question and a
// keyword, bypassing tokenization entirely. Full case-insensitive equality,
// or the keyword occurring in the question as a whole word-bounded phrase,
// earns 1.5x the boost; a bare substring relation in either direction earns
// the plain boost. The boundary check keeps "law" from firing inside
// "Delaware" at full strength.
func ExactMatchBonus(query, keyword string, boost float64) float64 {
	if query == "" || keyword == "" {
		return 0.0
	}
	q := strings.ToLower(query)
	k := strings.ToLower(keyword)
	switch {
	case q == k || containsWholePhrase(q, k):
		return boost * 1.5
	case strings.Contains(q, k) || strings.Contains(k, q):
		return boost
	default:
		return 0.0
	}
}

// containsWholePhrase reports whether phrase occurs in text delimited by
// non-word characters on both sides.
func containsWholePhrase(text, phrase string) bool {
	if phrase == "" {
		return false
	}
	for start := 0; start <= len(text)-len(phrase); {
		i := strings.Index(text[start:], phrase)
		if i < 0 {
			return false
		}
		i += start
		end := i + len(phrase)
		leftOK := i == 0 || !isWordByte(text[i-1])
		rightOK := end == len(text) || !isWordByte(text[end])
		if leftOK && rightOK {
			return true
		}
		start = i + 1
	}
	return false
}

func isWordByte(b byte) bool {
	return b == '_' ||
		(b >= 'a' && b <= 'z') ||
		(b >= 'A' && b <= 'Z') ||
		(b >= '0' && b <= '9')
}
