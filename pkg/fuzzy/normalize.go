// Package fuzzy provides text normalization and similarity scoring for
// matching the same track across streaming-platform catalogs.
package fuzzy

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var (
	featRegex = regexp.MustCompile(`(?i)\s*[\(\[]?\s*(?:feat\.?|ft\.?|featuring)\s+[^\)\]]*[\)\]]?\s*`)
	// Remix and live markers are deliberately NOT stripped: they signal
	// a different recording and must depress the match score.
	versionRegex    = regexp.MustCompile(`(?i)\s*[\(\[][^\)\]]*(remaster|deluxe|album version|bonus track)[^\)\]]*[\)\]]\s*`)
	punctRegex      = regexp.MustCompile(`[^\p{L}\p{N}\s]+`)
	whitespaceRegex = regexp.MustCompile(`\s+`)
)

// Normalizer folds track titles and artist names into a canonical form
// suitable for cross-catalog comparison.
type Normalizer struct{}

func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

// NormalizeArtist canonicalizes an artist name: Unicode folding,
// punctuation stripping, lowercase, and common collaboration spellings.
func (n *Normalizer) NormalizeArtist(artist string) string {
	artist = n.basicNormalize(artist)

	artist = strings.ReplaceAll(artist, " and ", " & ")
	artist = strings.ReplaceAll(artist, " x ", " & ")

	return artist
}

// NormalizeTitle canonicalizes a track title, stripping featuring
// annotations and version/remaster suffixes that differ per catalog.
func (n *Normalizer) NormalizeTitle(title string) string {
	title = featRegex.ReplaceAllString(title, " ")
	title = versionRegex.ReplaceAllString(title, " ")
	title = n.basicNormalize(title)

	return title
}

// Query builds the normalized search query sent to target platforms.
func (n *Normalizer) Query(artist, title string) string {
	return strings.TrimSpace(n.NormalizeArtist(artist) + " " + n.NormalizeTitle(title))
}

func (n *Normalizer) basicNormalize(text string) string {
	text = norm.NFKD.String(text)

	var result strings.Builder
	for _, r := range text {
		if !unicode.IsMark(r) {
			result.WriteRune(r)
		}
	}
	text = result.String()

	text = punctRegex.ReplaceAllString(text, " ")
	text = whitespaceRegex.ReplaceAllString(text, " ")

	text = strings.ToLower(text)
	text = strings.TrimSpace(text)

	return text
}

// Similarity returns a ratio in [0,1] based on the longest common
// subsequence of two already-normalized strings.
func (n *Normalizer) Similarity(s1, s2 string) float64 {
	if s1 == s2 {
		return 1.0
	}

	if len(s1) == 0 || len(s2) == 0 {
		return 0.0
	}

	return float64(n.longestCommonSubsequence(s1, s2)) / float64(max(len(s1), len(s2)))
}

// TokenSetRatio returns the overlap ratio of the word sets of two
// already-normalized strings. Word order and duplicates are ignored,
// which tolerates catalogs that swap "Artist - Title" ordering.
func (n *Normalizer) TokenSetRatio(s1, s2 string) float64 {
	set1 := tokenSet(s1)
	set2 := tokenSet(s2)

	if len(set1) == 0 || len(set2) == 0 {
		return 0.0
	}

	common := 0
	for tok := range set1 {
		if _, ok := set2[tok]; ok {
			common++
		}
	}

	return float64(common) / float64(max(len(set1), len(set2)))
}

// TokenContainment returns the fraction of query tokens present in
// text. Unlike TokenSetRatio it is asymmetric: extra words in text do
// not lower the score, which suits checking whether a search hit
// covers slug-derived query terms.
func (n *Normalizer) TokenContainment(query, text string) float64 {
	queryTokens := tokenSet(query)
	textTokens := tokenSet(text)

	if len(queryTokens) == 0 {
		return 0.0
	}

	found := 0
	for tok := range queryTokens {
		if _, ok := textTokens[tok]; ok {
			found++
		}
	}

	return float64(found) / float64(len(queryTokens))
}

func tokenSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, tok := range strings.Fields(s) {
		set[tok] = struct{}{}
	}
	return set
}

func (n *Normalizer) longestCommonSubsequence(s1, s2 string) int {
	m, l := len(s1), len(s2)
	dp := make([][]int, m+1)
	for i := range dp {
		dp[i] = make([]int, l+1)
	}

	for i := 1; i <= m; i++ {
		for j := 1; j <= l; j++ {
			if s1[i-1] == s2[j-1] {
				dp[i][j] = dp[i-1][j-1] + 1
			} else {
				dp[i][j] = max(dp[i-1][j], dp[i][j-1])
			}
		}
	}

	return dp[m][l]
}
