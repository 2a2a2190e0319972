package resolver

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"tonelink/pkg/fuzzy"
)

const (
	// titleWeight and artistWeight combine the two similarity scores.
	// Title dominates since artist spellings vary more across catalogs.
	titleWeight  = 0.6
	artistWeight = 0.4
	// lcsWeight and tokenWeight blend character-level and word-level
	// similarity within each field.
	lcsWeight   = 0.5
	tokenWeight = 0.5
)

// Matcher finds the equivalent of a canonical track on one target
// platform: normalized search, candidate scoring, threshold gate.
type Matcher struct {
	normalizer *fuzzy.Normalizer
	threshold  float64
	timeout    time.Duration
	logger     *zap.Logger
}

func NewMatcher(threshold float64, timeout time.Duration, logger *zap.Logger) *Matcher {
	return &Matcher{
		normalizer: fuzzy.NewNormalizer(),
		threshold:  threshold,
		timeout:    timeout,
		logger:     logger,
	}
}

// Match searches the target platform and returns its link entry. It
// never returns an error: any failure, timeout, or below-threshold
// best candidate degrades to an unmatched entry for that platform
// alone.
func (m *Matcher) Match(ctx context.Context, target Adapter, track *CanonicalTrack) PlatformLink {
	link := PlatformLink{
		Platform: target.Platform(),
		Visible:  true,
	}

	query := m.normalizer.Query(track.Artist, track.Title)
	if query == "" {
		return link
	}

	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	candidates, err := target.Search(ctx, query)
	if err != nil {
		if !errors.Is(err, ErrSearchUnsupported) {
			m.logger.Debug("Platform search failed",
				zap.String("platform", string(target.Platform())),
				zap.Error(err))
		}
		return link
	}

	best, score := m.Best(track, candidates)
	if best == nil || score < m.threshold {
		m.logger.Debug("No candidate above threshold",
			zap.String("platform", string(target.Platform())),
			zap.Float64("best_score", score),
			zap.Int("candidates", len(candidates)))
		return link
	}

	link.URL = best.URL
	link.Matched = true
	return link
}

// Best scores all candidates against the canonical track and returns
// the highest-scoring one.
func (m *Matcher) Best(track *CanonicalTrack, candidates []Candidate) (*Candidate, float64) {
	var best *Candidate
	bestScore := 0.0

	for i := range candidates {
		score := m.Score(track, &candidates[i])
		if score > bestScore {
			best = &candidates[i]
			bestScore = score
		}
	}

	return best, bestScore
}

// Score rates how likely a candidate is the same release as the
// canonical track, in [0,1].
func (m *Matcher) Score(track *CanonicalTrack, candidate *Candidate) float64 {
	titleSim := m.fieldSimilarity(
		m.normalizer.NormalizeTitle(track.Title),
		m.normalizer.NormalizeTitle(candidate.Title),
	)
	artistSim := m.fieldSimilarity(
		m.normalizer.NormalizeArtist(track.Artist),
		m.normalizer.NormalizeArtist(candidate.Artist),
	)

	// Some catalogs fold the artist into the title field. Give the
	// candidate the benefit of the doubt when its artist field is empty
	// but its title contains the artist tokens.
	if candidate.Artist == "" {
		combined := m.normalizer.NormalizeTitle(candidate.Title)
		artistSim = m.normalizer.TokenSetRatio(
			m.normalizer.NormalizeArtist(track.Artist), combined)
	}

	return titleWeight*titleSim + artistWeight*artistSim
}

// RelevanceGate reports whether a source-platform search hit is close
// enough to the query terms to accept as canonical metadata. Prevents
// confidently resolving a wrong track from garbled slug input.
func (m *Matcher) RelevanceGate(terms string, candidate *Candidate) bool {
	normTerms := m.normalizer.NormalizeTitle(terms)
	haystack := m.normalizer.NormalizeTitle(candidate.Artist + " " + candidate.Title)
	return m.normalizer.TokenContainment(normTerms, haystack) >= m.threshold
}

func (m *Matcher) fieldSimilarity(a, b string) float64 {
	if a == "" && b == "" {
		return 0.0
	}
	return lcsWeight*m.normalizer.Similarity(a, b) + tokenWeight*m.normalizer.TokenSetRatio(a, b)
}
