package resolver

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"tonelink/internal/core"
)

// Resolver runs the full pipeline: classify the URL, fetch canonical
// metadata from the source platform, fan out searches to every other
// platform concurrently, and assemble the ordered link list.
type Resolver struct {
	registry *Registry
	matcher  *Matcher
	cache    Cache
	cfg      *core.ResolverConfig
	logger   *zap.Logger
}

func New(registry *Registry, matcher *Matcher, cache Cache, cfg *core.ResolverConfig, logger *zap.Logger) *Resolver {
	return &Resolver{
		registry: registry,
		matcher:  matcher,
		cache:    cache,
		cfg:      cfg,
		logger:   logger,
	}
}

// Resolve turns a streaming-service URL into canonical metadata plus
// one link entry per supported platform. Classification and source
// fetch failures are terminal; per-platform match failures degrade to
// unmatched entries.
func (r *Resolver) Resolve(ctx context.Context, rawURL string) (*ResultData, error) {
	classification, err := r.registry.Classify(rawURL)
	if err != nil {
		return nil, err
	}

	key := cacheKey(classification, rawURL)
	if data, ok := r.cache.Get(key); ok {
		r.logger.Debug("Cache hit", zap.String("key", key))
		return data, nil
	}

	track, err := r.fetchCanonical(ctx, classification)
	if err != nil {
		return nil, err
	}

	links := r.matchTargets(ctx, track)
	data := r.aggregate(track, links)
	r.cache.Add(key, data)

	r.logger.Info("Resolved track",
		zap.String("source", string(track.SourcePlatform)),
		zap.String("title", track.Title),
		zap.String("artist", track.Artist),
		zap.Int("matched", countMatched(data.Platforms)))

	return data, nil
}

// fetchCanonical retrieves authoritative metadata from the source
// platform, by native ID when available, otherwise by a gated search
// on the classifier's fallback terms.
func (r *Resolver) fetchCanonical(ctx context.Context, c *Classification) (*CanonicalTrack, error) {
	adapter, ok := r.registry.Adapter(c.Platform)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnrecognizedPlatform, c.Platform)
	}

	ctx, cancel := context.WithTimeout(ctx, r.cfg.SourceTimeout)
	defer cancel()

	if c.NativeID != "" {
		track, err := adapter.FetchByID(ctx, c.NativeID)
		if err != nil {
			return nil, sourceError(err)
		}
		return r.validateTrack(track)
	}

	candidates, err := adapter.Search(ctx, c.SearchTerms)
	if err != nil {
		return nil, sourceError(err)
	}
	if len(candidates) == 0 {
		return nil, fmt.Errorf("%w: no results for %q", ErrNoMatch, c.SearchTerms)
	}

	top := &candidates[0]
	if !r.matcher.RelevanceGate(c.SearchTerms, top) {
		return nil, fmt.Errorf("%w: top result not relevant to %q", ErrNoMatch, c.SearchTerms)
	}

	return r.validateTrack(&CanonicalTrack{
		SourcePlatform: c.Platform,
		SourceURL:      top.URL,
		NativeID:       top.NativeID,
		Title:          top.Title,
		Artist:         top.Artist,
		Cover:          top.Cover,
	})
}

// validateTrack enforces the canonical-track invariant: resolution
// only succeeds with a non-empty title and artist.
func (r *Resolver) validateTrack(track *CanonicalTrack) (*CanonicalTrack, error) {
	if track == nil || strings.TrimSpace(track.Title) == "" || strings.TrimSpace(track.Artist) == "" {
		return nil, fmt.Errorf("%w: source returned no usable metadata", ErrNoMatch)
	}
	return track, nil
}

// matchTargets fans out one concurrent search per target platform.
// Each goroutine writes its own pre-sized slot, so no locking is
// needed, and the matcher guarantees per-platform isolation.
func (r *Resolver) matchTargets(ctx context.Context, track *CanonicalTrack) []PlatformLink {
	links := make([]PlatformLink, len(PlatformPriority))

	var g errgroup.Group
	for _, target := range r.registry.Targets(track.SourcePlatform) {
		slot := priorityIndex[target.Platform()]
		g.Go(func() error {
			links[slot] = r.matcher.Match(ctx, target, track)
			return nil
		})
	}
	_ = g.Wait()

	// The source platform's own canonical link is always a match.
	links[priorityIndex[track.SourcePlatform]] = PlatformLink{
		Platform: track.SourcePlatform,
		URL:      track.SourceURL,
		Matched:  true,
		Visible:  true,
	}

	return links
}

// aggregate orders the link list: source platform first, then the
// remaining platforms in fixed priority order, exactly one entry each.
func (r *Resolver) aggregate(track *CanonicalTrack, links []PlatformLink) *ResultData {
	ordered := make([]PlatformLink, 0, len(links))
	ordered = append(ordered, links[priorityIndex[track.SourcePlatform]])
	for i, link := range links {
		if PlatformPriority[i] == track.SourcePlatform {
			continue
		}
		// Slots for unmatched targets may be zero-valued when their
		// goroutines never ran; normalize them.
		if link.Platform == "" {
			link = PlatformLink{Platform: PlatformPriority[i], Visible: true}
		}
		ordered = append(ordered, link)
	}

	return &ResultData{
		Title:     track.Title,
		Artist:    track.Artist,
		Cover:     track.Cover,
		Platforms: ordered,
	}
}

// cacheKey prefers the stable (platform, nativeID) pair; slug-derived
// resolutions fall back to the normalized raw URL.
func cacheKey(c *Classification, rawURL string) string {
	if c.NativeID != "" {
		return string(c.Platform) + ":" + c.NativeID
	}
	return "url:" + strings.ToLower(strings.TrimSpace(rawURL))
}

// sourceError maps transport failures to ErrSourceUnavailable and
// empty results to ErrNoMatch for the caller-facing taxonomy.
func sourceError(err error) error {
	if errors.Is(err, ErrSearchUnsupported) {
		return fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}

	msg := err.Error()
	if strings.Contains(msg, "no track") || strings.Contains(msg, "no video") ||
		strings.Contains(msg, "could not extract") || strings.Contains(msg, "not found") {
		return fmt.Errorf("%w: %v", ErrNoMatch, err)
	}

	return fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
}

func countMatched(links []PlatformLink) int {
	n := 0
	for _, link := range links {
		if link.Matched {
			n++
		}
	}
	return n
}
