package fuzzy

import (
	"testing"
)

func TestNormalizeTitle(t *testing.T) {
	n := NewNormalizer()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "Plain title",
			input:    "Bohemian Rhapsody",
			expected: "bohemian rhapsody",
		},
		{
			name:     "Strips featuring annotation",
			input:    "Without Me (feat. Halsey)",
			expected: "without me",
		},
		{
			name:     "Strips ft. annotation",
			input:    "Lose Yourself ft. Someone",
			expected: "lose yourself",
		},
		{
			name:     "Strips remaster suffix",
			input:    "Come Together (2019 Remaster)",
			expected: "come together",
		},
		{
			name:     "Strips punctuation",
			input:    "What's Up?",
			expected: "what s up",
		},
		{
			name:     "Folds accented characters",
			input:    "Déjà Vu",
			expected: "deja vu",
		},
		{
			name:     "Collapses whitespace",
			input:    "  Two   Words  ",
			expected: "two words",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := n.NormalizeTitle(tt.input)
			if result != tt.expected {
				t.Errorf("NormalizeTitle(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestNormalizeArtist(t *testing.T) {
	n := NewNormalizer()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "Lowercases",
			input:    "Daft Punk",
			expected: "daft punk",
		},
		{
			name:     "Unifies and spelling",
			input:    "Simon and Garfunkel",
			expected: "simon & garfunkel",
		},
		{
			name:     "Folds diacritics",
			input:    "Беломорс",
			expected: "беломорс",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := n.NormalizeArtist(tt.input)
			if result != tt.expected {
				t.Errorf("NormalizeArtist(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestQuery(t *testing.T) {
	n := NewNormalizer()

	query := n.Query("Rick Astley", "Never Gonna Give You Up (Official Video)")
	expected := "rick astley never gonna give you up official video"
	if query != expected {
		t.Errorf("Query() = %q, want %q", query, expected)
	}
}

func TestSimilarity(t *testing.T) {
	n := NewNormalizer()

	tests := []struct {
		name string
		s1   string
		s2   string
		min  float64
		max  float64
	}{
		{
			name: "Identical strings",
			s1:   "hello world",
			s2:   "hello world",
			min:  1.0,
			max:  1.0,
		},
		{
			name: "Empty string",
			s1:   "",
			s2:   "hello",
			min:  0.0,
			max:  0.0,
		},
		{
			name: "Close strings score high",
			s1:   "never gonna give you up",
			s2:   "never gonna give you up remastered",
			min:  0.6,
			max:  1.0,
		},
		{
			name: "Unrelated strings score low",
			s1:   "aaaa",
			s2:   "zzzz",
			min:  0.0,
			max:  0.1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := n.Similarity(tt.s1, tt.s2)
			if result < tt.min || result > tt.max {
				t.Errorf("Similarity(%q, %q) = %v, want in [%v, %v]", tt.s1, tt.s2, result, tt.min, tt.max)
			}
		})
	}
}

func TestTokenSetRatio(t *testing.T) {
	n := NewNormalizer()

	tests := []struct {
		name string
		s1   string
		s2   string
		min  float64
		max  float64
	}{
		{
			name: "Same tokens different order",
			s1:   "give you up never gonna",
			s2:   "never gonna give you up",
			min:  1.0,
			max:  1.0,
		},
		{
			name: "Partial overlap",
			s1:   "never gonna give you up",
			s2:   "never gonna let you down",
			min:  0.4,
			max:  0.8,
		},
		{
			name: "No overlap",
			s1:   "one two",
			s2:   "three four",
			min:  0.0,
			max:  0.0,
		},
		{
			name: "Empty input",
			s1:   "",
			s2:   "anything",
			min:  0.0,
			max:  0.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := n.TokenSetRatio(tt.s1, tt.s2)
			if result < tt.min || result > tt.max {
				t.Errorf("TokenSetRatio(%q, %q) = %v, want in [%v, %v]", tt.s1, tt.s2, result, tt.min, tt.max)
			}
		})
	}
}
