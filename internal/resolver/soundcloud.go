package resolver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"tonelink/internal/core"
)

const (
	// soundcloudOEmbedURL is the keyless oEmbed metadata endpoint.
	soundcloudOEmbedURL = "https://soundcloud.com/oembed"
	// soundcloudSearchURL is the internal search API; it requires a
	// client ID.
	soundcloudSearchURL = "https://api-v2.soundcloud.com/search/tracks"
	// soundcloudSearchLimit caps search results per query.
	soundcloudSearchLimit = 5
)

type soundcloudOEmbedResponse struct {
	Title        string `json:"title"`
	AuthorName   string `json:"author_name"`
	ThumbnailURL string `json:"thumbnail_url"`
}

type soundcloudSearchResponse struct {
	Collection []struct {
		ID           int64  `json:"id"`
		Title        string `json:"title"`
		PermalinkURL string `json:"permalink_url"`
		ArtworkURL   string `json:"artwork_url"`
		User         struct {
			Username string `json:"username"`
		} `json:"user"`
	} `json:"collection"`
}

// SoundCloudAdapter serves SoundCloud. Track URLs carry no numeric ID,
// so the permalink path doubles as the native identifier. Searches
// need a configured client ID.
type SoundCloudAdapter struct {
	cfg       *core.SoundCloudConfig
	client    *http.Client
	logger    *zap.Logger
	oembedURL string
	searchURL string
}

func NewSoundCloudAdapter(cfg *core.SoundCloudConfig, logger *zap.Logger) *SoundCloudAdapter {
	return &SoundCloudAdapter{
		cfg:       cfg,
		client:    newHTTPClient(),
		logger:    logger,
		oembedURL: soundcloudOEmbedURL,
		searchURL: soundcloudSearchURL,
	}
}

func (a *SoundCloudAdapter) Platform() Platform {
	return PlatformSoundCloud
}

func (a *SoundCloudAdapter) MatchesURL(u *url.URL) bool {
	hostname := strings.ToLower(u.Hostname())
	switch hostname {
	case "soundcloud.com", "www.soundcloud.com", "m.soundcloud.com", "on.soundcloud.com":
		return true
	}
	return false
}

// ParseURL uses the {user}/{track} permalink path as the native ID.
func (a *SoundCloudAdapter) ParseURL(u *url.URL) (string, string, error) {
	path := strings.Trim(u.Path, "/")
	parts := strings.Split(path, "/")

	// A track permalink is exactly user/track; single-segment paths are
	// profiles or opaque short-link tokens.
	if len(parts) == 2 && parts[0] != "" && parts[1] != "" {
		return path, "", nil
	}

	if len(parts) >= 2 {
		// Longer paths (sets, reposts) still carry a readable slug.
		if terms := slugTerms(parts[len(parts)-1]); terms != "" {
			return "", terms, nil
		}
	}

	return "", "", errors.New("no track permalink in SoundCloud URL")
}

func (a *SoundCloudAdapter) FetchByID(ctx context.Context, id string) (*CanonicalTrack, error) {
	sourceURL := fmt.Sprintf("https://soundcloud.com/%s", id)
	reqURL := fmt.Sprintf("%s?url=%s&format=json", a.oembedURL, url.QueryEscape(sourceURL))

	var oembed soundcloudOEmbedResponse
	if err := fetchJSON(ctx, a.client, reqURL, "SoundCloud oEmbed API", &oembed); err != nil {
		return nil, err
	}

	title := oembed.Title
	artist := oembed.AuthorName
	// oEmbed titles follow "Track by Artist".
	if t, by, ok := splitTitleArtist(oembed.Title); ok {
		title = t
		artist = by
	}

	if title == "" {
		return nil, errors.New("no track metadata in SoundCloud oEmbed response")
	}

	return &CanonicalTrack{
		SourcePlatform: PlatformSoundCloud,
		SourceURL:      sourceURL,
		NativeID:       id,
		Title:          title,
		Artist:         artist,
		Cover:          oembed.ThumbnailURL,
	}, nil
}

func (a *SoundCloudAdapter) Search(ctx context.Context, query string) ([]Candidate, error) {
	if a.cfg.ClientID == "" {
		return nil, fmt.Errorf("%w: soundcloud client ID not configured", ErrSearchUnsupported)
	}

	reqURL := fmt.Sprintf("%s?q=%s&limit=%d&client_id=%s",
		a.searchURL, url.QueryEscape(query), soundcloudSearchLimit, url.QueryEscape(a.cfg.ClientID))

	var searchResp soundcloudSearchResponse
	if err := fetchJSON(ctx, a.client, reqURL, "SoundCloud search", &searchResp); err != nil {
		return nil, err
	}

	candidates := make([]Candidate, 0, len(searchResp.Collection))
	for _, item := range searchResp.Collection {
		if item.PermalinkURL == "" {
			continue
		}
		candidates = append(candidates, Candidate{
			NativeID: fmt.Sprintf("%d", item.ID),
			Title:    item.Title,
			Artist:   item.User.Username,
			Cover:    item.ArtworkURL,
			URL:      item.PermalinkURL,
		})
	}

	return candidates, nil
}
