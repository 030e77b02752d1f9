// Package queryengine decides how a user question about minimum-wage data
// should be answered: from the structured wage database (sql), from the
// regulatory knowledge base (lightrag), or from both (hybrid).
//
// The package is stateless across calls. All mutable state lives inside a
// single invocation; the keyword/topic configuration is read-only after
// construction, so an Analyzer or QueryRouter is safe for concurrent use.
package queryengine

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/kljensen/snowball/english"
	"golang.org/x/text/unicode/norm"
)

// nonWordRe folds every character that is not a word character, whitespace
// or hyphen into a space. Hyphens stay so that phrases like "door-to-door"
// survive tokenization intact.
var nonWordRe = regexp.MustCompile(`[^\w\s-]`)

// stopwords are common English function words dropped during normalization.
// Tokens of length <= 2 are dropped unconditionally, so the short entries
// only matter for documentation of intent.
var stopwords = map[string]struct{}{}

func init() {
	for _, w := range []string{
		"the", "a", "an", "and", "or", "but", "if", "then", "else", "when",
		"at", "by", "for", "with", "about", "against", "between", "into",
		"through", "during", "before", "after", "above", "below", "from",
		"out", "over", "under", "again", "further", "once", "here", "there",
		"all", "any", "both", "each", "few", "more", "most", "other", "some",
		"such", "only", "own", "same", "than", "too", "very", "can", "will",
		"just", "what", "which", "who", "whom", "this", "that", "these",
		"those", "is", "are", "was", "were", "has", "have", "had", "does",
		"did", "how", "why", "where",
	} {
		stopwords[w] = struct{}{}
	}
}

// Stemmer reduces a word to an approximate root form so that morphological
// variants ("farming", "farmer") land on the same token.
//
// The two implementations produce slightly different roots; a process picks
// one at startup and keeps it, and tests pin a specific implementation.
type Stemmer interface {
	Stem(word string) string
}

// PorterStemmer is the preferred Stemmer, backed by the snowball english
// (Porter2) algorithm.
type PorterStemmer struct{}

// Stem implements Stemmer.
func (PorterStemmer) Stem(word string) string {
	return english.Stem(word, false)
}

// suffixStripOrder is checked in order; the first suffix that fits wins.
var suffixStripOrder = []string{
	"iness", "ation", "ement", "ment", "ness", "tion",
	"able", "ible", "ing", "ed", "er", "ly", "al", "s",
}

// SuffixStemmer is a lightweight fallback Stemmer that strips one suffix
// from a fixed ordered list. A suffix is stripped only when the word is
// longer than the suffix plus two characters, which keeps short roots from
// collapsing ("red" is not stemmed to "r").
type SuffixStemmer struct{}

// Stem implements Stemmer.
func (SuffixStemmer) Stem(word string) string {
	w := strings.ToLower(word)
	for _, suffix := range suffixStripOrder {
		if len(w) > len(suffix)+2 && strings.HasSuffix(w, suffix) {
			return w[:len(w)-len(suffix)]
		}
	}
	return w
}

// Features is the token representation of a text: the set of distinct
// normalized unigrams and bigrams, and the frequency of each. The key sets
// of Set and Freq are always identical.
type Features struct {
	Set  map[string]struct{}
	Freq map[string]int
}

// Normalizer turns raw text into normalized token sequences and feature
// sets. It is immutable after construction and safe for concurrent use.
type Normalizer struct {
	stemmer Stemmer
}

// NewNormalizer returns a Normalizer using the given stemmer. A nil stemmer
// selects the PorterStemmer.
func NewNormalizer(stemmer Stemmer) *Normalizer {
	if stemmer == nil {
		stemmer = PorterStemmer{}
	}
	return &Normalizer{stemmer: stemmer}
}

// stripDiacritics removes combining marks after NFKD decomposition, so
// "São Paulo" and "Sao Paulo" normalize identically.
func stripDiacritics(s string) string {
	decomposed := norm.NFKD.String(s)
	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Normalize lowercases and de-accents text, folds punctuation to spaces,
// drops short tokens (and stopwords when removeStopwords is set), and stems
// every surviving token. Duplicates and order are preserved so bigrams can
// be derived from the result.
func (n *Normalizer) Normalize(text string, removeStopwords bool) []string {
	cleaned := strings.ToLower(stripDiacritics(text))
	cleaned = nonWordRe.ReplaceAllString(cleaned, " ")

	fields := strings.Fields(cleaned)
	tokens := make([]string, 0, len(fields))
	for _, tok := range fields {
		if len(tok) <= 2 {
			continue
		}
		if removeStopwords {
			if _, ok := stopwords[tok]; ok {
				continue
			}
		}
		tokens = append(tokens, n.stemmer.Stem(tok))
	}
	return tokens
}

// Bigrams joins each adjacent token pair with a single space. Fewer than
// two tokens yield an empty result.
func Bigrams(tokens []string) []string {
	if len(tokens) < 2 {
		return nil
	}
	out := make([]string, 0, len(tokens)-1)
	for i := 0; i+1 < len(tokens); i++ {
		out = append(out, tokens[i]+" "+tokens[i+1])
	}
	return out
}

// ExtractFeatures normalizes text with stopword removal and returns the
// combined unigram+bigram feature set and frequency map. Bigrams carry
// their own frequency entries, independent of their constituent unigrams.
func (n *Normalizer) ExtractFeatures(text string) Features {
	tokens := n.Normalize(text, true)
	all := make([]string, 0, len(tokens)*2)
	all = append(all, tokens...)
	all = append(all, Bigrams(tokens)...)

	f := Features{
		Set:  make(map[string]struct{}, len(all)),
		Freq: make(map[string]int, len(all)),
	}
	for _, t := range all {
		f.Set[t] = struct{}{}
		f.Freq[t]++
	}
	return f
}
