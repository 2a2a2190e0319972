package resolver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"
)

// AmazonMusicAdapter serves Amazon Music. There is no public catalog
// API, so metadata comes from OpenGraph scraping of the shared page
// and target matching always degrades to an unmatched entry.
type AmazonMusicAdapter struct {
	client *http.Client
	logger *zap.Logger
}

func NewAmazonMusicAdapter(logger *zap.Logger) *AmazonMusicAdapter {
	return &AmazonMusicAdapter{
		client: newHTTPClient(),
		logger: logger,
	}
}

func (a *AmazonMusicAdapter) Platform() Platform {
	return PlatformAmazonMusic
}

func (a *AmazonMusicAdapter) MatchesURL(u *url.URL) bool {
	// Regional storefronts: music.amazon.com, music.amazon.de, ...
	return strings.HasPrefix(strings.ToLower(u.Hostname()), "music.amazon.")
}

// ParseURL extracts the track ASIN from ?trackAsin= album links or
// /tracks/{asin} paths. The native ID keeps the full shareable path
// since playback URLs are storefront-relative.
func (a *AmazonMusicAdapter) ParseURL(u *url.URL) (string, string, error) {
	if asin := u.Query().Get("trackAsin"); asin != "" {
		return strings.Trim(u.Path, "/") + "?trackAsin=" + asin, "", nil
	}

	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i, part := range parts {
		if part == "tracks" && i+1 < len(parts) {
			return strings.Trim(u.Path, "/"), "", nil
		}
	}

	// Album pages without a track selector: search by slug when present.
	for i, part := range parts {
		if part == "albums" && i+2 < len(parts) {
			if terms := slugTerms(parts[i+2]); terms != "" {
				return "", terms, nil
			}
		}
	}

	return "", "", errors.New("no track ASIN in Amazon Music URL")
}

func (a *AmazonMusicAdapter) FetchByID(ctx context.Context, id string) (*CanonicalTrack, error) {
	sourceURL := fmt.Sprintf("https://music.amazon.com/%s", id)

	doc, err := fetchHTML(ctx, a.client, sourceURL, "Amazon Music")
	if err != nil {
		return nil, err
	}

	meta := extractPageMetadata(doc, " | Amazon Music")
	if meta.Title == "" {
		return nil, errors.New("could not extract track metadata from Amazon Music page")
	}

	return &CanonicalTrack{
		SourcePlatform: PlatformAmazonMusic,
		SourceURL:      sourceURL,
		NativeID:       id,
		Title:          meta.Title,
		Artist:         meta.Artist,
		Cover:          meta.Cover,
	}, nil
}

func (a *AmazonMusicAdapter) Search(_ context.Context, _ string) ([]Candidate, error) {
	return nil, fmt.Errorf("%w: amazon music has no public catalog search", ErrSearchUnsupported)
}
