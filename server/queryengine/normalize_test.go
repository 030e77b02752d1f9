package queryengine

import (
	"reflect"
	"testing"
)

func TestNormalizeBasic(t *testing.T) {
	n := NewNormalizer(SuffixStemmer{})

	tests := []struct {
		name            string
		text            string
		removeStopwords bool
		want            []string
	}{
		{
			name:            "stopwords and short tokens dropped",
			text:            "What is the minimum wage?",
			removeStopwords: true,
			want:            []string{"minimum", "wage"},
		},
		{
			name:            "stopwords kept when disabled",
			text:            "the minimum wage",
			removeStopwords: false,
			want:            []string{"the", "minimum", "wage"},
		},
		{
			name:            "punctuation folds to spaces, hyphens survive",
			text:            "door-to-door sales, today!",
			removeStopwords: true,
			want:            []string{"door-to-door", "sale", "today"},
		},
		{
			name:            "diacritics stripped",
			text:            "Résumé café",
			removeStopwords: false,
			want:            []string{"resume", "cafe"},
		},
		{
			name:            "empty input",
			text:            "",
			removeStopwords: true,
			want:            []string{},
		},
		{
			name:            "only short tokens",
			text:            "a an to of",
			removeStopwords: false,
			want:            []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := n.Normalize(tt.text, tt.removeStopwords)
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Normalize(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestPorterStemmer(t *testing.T) {
	s := PorterStemmer{}
	tests := []struct {
		word string
		want string
	}{
		{"running", "run"},
		{"farming", "farm"},
		{"rules", "rule"},
		{"agricultural", "agricultur"},
		{"wage", "wage"},
	}
	for _, tt := range tests {
		if got := s.Stem(tt.word); got != tt.want {
			t.Errorf("Stem(%q) = %q, want %q", tt.word, got, tt.want)
		}
	}
}

func TestSuffixStemmer(t *testing.T) {
	s := SuffixStemmer{}
	tests := []struct {
		word string
		want string
	}{
		{"happiness", "happ"}, // "iness" wins over "ness"
		{"regulation", "regul"},
		{"agreement", "agre"},
		{"payment", "pay"},
		{"kindness", "kind"},
		{"worked", "work"},
		{"farmer", "farm"},
		{"quickly", "quick"},
		{"seasonal", "season"},
		{"rules", "rule"},
		{"sing", "sing"}, // too short for "ing"
		{"red", "red"},
		{"Breaks", "break"},
	}
	for _, tt := range tests {
		if got := s.Stem(tt.word); got != tt.want {
			t.Errorf("Stem(%q) = %q, want %q", tt.word, got, tt.want)
		}
	}
}

func TestBigrams(t *testing.T) {
	tests := []struct {
		name   string
		tokens []string
		want   []string
	}{
		{"three tokens", []string{"a", "b", "c"}, []string{"a b", "b c"}},
		{"two tokens", []string{"rest", "break"}, []string{"rest break"}},
		{"one token", []string{"wage"}, nil},
		{"empty", nil, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Bigrams(tt.tokens)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Bigrams(%v) = %v, want %v", tt.tokens, got, tt.want)
			}
		})
	}
}

func TestExtractFeatures(t *testing.T) {
	n := NewNormalizer(SuffixStemmer{})

	f := n.ExtractFeatures("rest break rules")
	wantSet := []string{"rest", "break", "rule", "rest break", "break rule"}
	if len(f.Set) != len(wantSet) {
		t.Fatalf("feature set size = %d, want %d (%v)", len(f.Set), len(wantSet), f.Set)
	}
	for _, feat := range wantSet {
		if _, ok := f.Set[feat]; !ok {
			t.Errorf("feature set missing %q", feat)
		}
		if f.Freq[feat] != 1 {
			t.Errorf("Freq[%q] = %d, want 1", feat, f.Freq[feat])
		}
	}
}

func TestExtractFeaturesFrequencies(t *testing.T) {
	n := NewNormalizer(SuffixStemmer{})

	f := n.ExtractFeatures("break break break")
	if f.Freq["break"] != 3 {
		t.Errorf("Freq[break] = %d, want 3", f.Freq["break"])
	}
	if f.Freq["break break"] != 2 {
		t.Errorf("Freq[break break] = %d, want 2", f.Freq["break break"])
	}
	if len(f.Set) != 2 {
		t.Errorf("feature set size = %d, want 2", len(f.Set))
	}
	if len(f.Set) != len(f.Freq) {
		t.Errorf("Set and Freq key counts differ: %d vs %d", len(f.Set), len(f.Freq))
	}
}

func TestExtractFeaturesEmpty(t *testing.T) {
	n := NewNormalizer(nil)
	f := n.ExtractFeatures("")
	if len(f.Set) != 0 || len(f.Freq) != 0 {
		t.Errorf("expected empty features, got %v / %v", f.Set, f.Freq)
	}
}
