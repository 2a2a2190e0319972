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
	// tidalBrowseURL is the public track page used for metadata scraping.
	tidalBrowseURL = "https://tidal.com/browse/track"
	// tidalSearchURL is the Tidal search API; it requires an app token.
	tidalSearchURL = "https://api.tidal.com/v1/search/tracks"
	// tidalSearchLimit caps search results per query.
	tidalSearchLimit = 5
)

type tidalSearchResponse struct {
	Items []struct {
		ID      int64  `json:"id"`
		Title   string `json:"title"`
		URL     string `json:"url"`
		Artists []struct {
			Name string `json:"name"`
		} `json:"artists"`
		Album struct {
			Cover string `json:"cover"`
		} `json:"album"`
	} `json:"items"`
}

// TidalAdapter serves Tidal. Metadata fetches scrape the public track
// page; searches need a configured app token and degrade to unmatched
// entries without one.
type TidalAdapter struct {
	cfg       *core.TidalConfig
	client    *http.Client
	logger    *zap.Logger
	browseURL string
	searchURL string
}

func NewTidalAdapter(cfg *core.TidalConfig, logger *zap.Logger) *TidalAdapter {
	return &TidalAdapter{
		cfg:       cfg,
		client:    newHTTPClient(),
		logger:    logger,
		browseURL: tidalBrowseURL,
		searchURL: tidalSearchURL,
	}
}

func (a *TidalAdapter) Platform() Platform {
	return PlatformTidal
}

func (a *TidalAdapter) MatchesURL(u *url.URL) bool {
	hostname := strings.ToLower(u.Hostname())
	switch hostname {
	case "tidal.com", "www.tidal.com", "listen.tidal.com":
		return true
	}
	return false
}

// ParseURL extracts the numeric track ID from /track/{id} and
// /browse/track/{id} paths.
func (a *TidalAdapter) ParseURL(u *url.URL) (string, string, error) {
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i, part := range parts {
		if part == "track" && i+1 < len(parts) && slugDigitsRegex.MatchString(parts[i+1]) {
			return parts[i+1], "", nil
		}
	}

	return "", "", errors.New("no track ID in Tidal URL (only /track/ links are supported)")
}

func (a *TidalAdapter) FetchByID(ctx context.Context, id string) (*CanonicalTrack, error) {
	sourceURL := fmt.Sprintf("%s/%s", a.browseURL, url.PathEscape(id))

	doc, err := fetchHTML(ctx, a.client, sourceURL, "Tidal")
	if err != nil {
		return nil, err
	}

	meta := extractPageMetadata(doc, " | TIDAL")
	if meta.Title == "" {
		return nil, errors.New("could not extract track metadata from Tidal page")
	}

	return &CanonicalTrack{
		SourcePlatform: PlatformTidal,
		SourceURL:      sourceURL,
		NativeID:       id,
		Title:          meta.Title,
		Artist:         meta.Artist,
		Cover:          meta.Cover,
	}, nil
}

func (a *TidalAdapter) Search(ctx context.Context, query string) ([]Candidate, error) {
	if a.cfg.Token == "" {
		return nil, fmt.Errorf("%w: tidal token not configured", ErrSearchUnsupported)
	}

	reqURL := fmt.Sprintf("%s?query=%s&limit=%d&countryCode=US&token=%s",
		a.searchURL, url.QueryEscape(query), tidalSearchLimit, url.QueryEscape(a.cfg.Token))

	var searchResp tidalSearchResponse
	if err := fetchJSON(ctx, a.client, reqURL, "Tidal search", &searchResp); err != nil {
		return nil, err
	}

	candidates := make([]Candidate, 0, len(searchResp.Items))
	for _, item := range searchResp.Items {
		trackURL := item.URL
		if trackURL == "" {
			trackURL = fmt.Sprintf("%s/%d", a.browseURL, item.ID)
		}

		names := make([]string, 0, len(item.Artists))
		for _, artist := range item.Artists {
			names = append(names, artist.Name)
		}

		candidates = append(candidates, Candidate{
			NativeID: fmt.Sprintf("%d", item.ID),
			Title:    item.Title,
			Artist:   strings.Join(names, ", "),
			Cover:    tidalCoverURL(item.Album.Cover),
			URL:      trackURL,
		})
	}

	return candidates, nil
}

// tidalCoverURL expands a cover UUID ("aaaa-bbbb-...") into the CDN
// image URL.
func tidalCoverURL(cover string) string {
	if cover == "" {
		return ""
	}
	return fmt.Sprintf("https://resources.tidal.com/images/%s/640x640.jpg",
		strings.ReplaceAll(cover, "-", "/"))
}
