package resolver

import (
	"fmt"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"tonelink/internal/core"
)

// Registry owns one adapter per supported platform, in priority order.
// Adding a platform means adding an adapter file and one entry here.
type Registry struct {
	adapters []Adapter
	byName   map[Platform]Adapter
}

// NewRegistry builds the full adapter set from service configuration.
// Adapters missing credentials still classify and parse URLs; their
// network operations fail gracefully and degrade to unmatched entries.
func NewRegistry(cfg *core.Config, logger *zap.Logger) *Registry {
	return newRegistry(
		NewSpotifyAdapter(&cfg.Spotify, logger.Named("spotify")),
		NewAppleMusicAdapter(logger.Named("applemusic")),
		NewYouTubeMusicAdapter(&cfg.YouTube, logger.Named("youtube")),
		NewYandexMusicAdapter(logger.Named("yandex")),
		NewVKAdapter(logger.Named("vk")),
		NewDeezerAdapter(logger.Named("deezer")),
		NewTidalAdapter(&cfg.Tidal, logger.Named("tidal")),
		NewSoundCloudAdapter(&cfg.SoundCloud, logger.Named("soundcloud")),
		NewAmazonMusicAdapter(logger.Named("amazonmusic")),
		NewPandoraAdapter(logger.Named("pandora")),
	)
}

func newRegistry(adapters ...Adapter) *Registry {
	byName := make(map[Platform]Adapter, len(adapters))
	for _, a := range adapters {
		byName[a.Platform()] = a
	}
	return &Registry{adapters: adapters, byName: byName}
}

// Adapter returns the adapter for a platform.
func (r *Registry) Adapter(p Platform) (Adapter, bool) {
	a, ok := r.byName[p]
	return a, ok
}

// Targets returns every adapter except the source platform's, in
// priority order.
func (r *Registry) Targets(source Platform) []Adapter {
	targets := make([]Adapter, 0, len(r.adapters)-1)
	for _, a := range r.adapters {
		if a.Platform() != source {
			targets = append(targets, a)
		}
	}
	return targets
}

// Classify identifies the owning platform of a raw URL and extracts a
// native track ID or fallback search terms. No network calls happen
// here; shortened redirect-style links are left to the fetch step.
func (r *Registry) Classify(rawURL string) (*Classification, error) {
	trimmed := strings.TrimSpace(rawURL)
	if trimmed == "" {
		return nil, fmt.Errorf("%w: empty URL", ErrInvalidURL)
	}

	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("%w: scheme %q", ErrInvalidURL, u.Scheme)
	}

	if u.Hostname() == "" {
		return nil, fmt.Errorf("%w: missing host", ErrInvalidURL)
	}

	for _, a := range r.adapters {
		if !a.MatchesURL(u) {
			continue
		}

		nativeID, terms, err := a.ParseURL(u)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrNoMatch, err)
		}

		return &Classification{
			Platform:    a.Platform(),
			NativeID:    nativeID,
			SearchTerms: terms,
		}, nil
	}

	return nil, fmt.Errorf("%w: %s", ErrUnrecognizedPlatform, u.Hostname())
}
