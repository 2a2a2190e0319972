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

const (
	// yandexBaseURL is the public Yandex Music site, used both for
	// canonical links and OpenGraph metadata fetches.
	yandexBaseURL = "https://music.yandex.ru"
	// yandexSearchPath is the site's public search handler.
	yandexSearchPath = "/handlers/music-search.jsx"
	// yandexSearchLimit caps search results per query.
	yandexSearchLimit = 5
)

type yandexSearchResponse struct {
	Tracks struct {
		Items []yandexTrack `json:"items"`
	} `json:"tracks"`
}

type yandexTrack struct {
	ID      int64  `json:"id"`
	Title   string `json:"title"`
	Artists []struct {
		Name string `json:"name"`
	} `json:"artists"`
	Albums []struct {
		ID       int64  `json:"id"`
		CoverURI string `json:"coverUri"`
	} `json:"albums"`
}

// YandexMusicAdapter serves Yandex Music. Metadata fetches scrape the
// public track page's OpenGraph tags; searches use the site's JSON
// search handler.
type YandexMusicAdapter struct {
	client  *http.Client
	logger  *zap.Logger
	baseURL string
}

func NewYandexMusicAdapter(logger *zap.Logger) *YandexMusicAdapter {
	return &YandexMusicAdapter{
		client:  newHTTPClient(),
		logger:  logger,
		baseURL: yandexBaseURL,
	}
}

func (a *YandexMusicAdapter) Platform() Platform {
	return PlatformYandex
}

func (a *YandexMusicAdapter) MatchesURL(u *url.URL) bool {
	hostname := strings.ToLower(u.Hostname())
	switch hostname {
	case "music.yandex.ru", "music.yandex.com", "music.yandex.by", "music.yandex.kz":
		return true
	}
	return false
}

// ParseURL extracts the track ID from /album/{aid}/track/{tid} and
// bare /track/{tid} paths.
func (a *YandexMusicAdapter) ParseURL(u *url.URL) (string, string, error) {
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i, part := range parts {
		if part == "track" && i+1 < len(parts) && slugDigitsRegex.MatchString(parts[i+1]) {
			return parts[i+1], "", nil
		}
	}

	return "", "", errors.New("no track ID in Yandex Music URL")
}

func (a *YandexMusicAdapter) FetchByID(ctx context.Context, id string) (*CanonicalTrack, error) {
	sourceURL := fmt.Sprintf("%s/track/%s", a.baseURL, url.PathEscape(id))

	doc, err := fetchHTML(ctx, a.client, sourceURL, "Yandex Music")
	if err != nil {
		return nil, err
	}

	meta := extractPageMetadata(doc, " — Яндекс Музыка")
	if meta.Title == "" {
		return nil, errors.New("could not extract track metadata from Yandex Music page")
	}

	return &CanonicalTrack{
		SourcePlatform: PlatformYandex,
		SourceURL:      sourceURL,
		NativeID:       id,
		Title:          meta.Title,
		Artist:         meta.Artist,
		Cover:          meta.Cover,
	}, nil
}

func (a *YandexMusicAdapter) Search(ctx context.Context, query string) ([]Candidate, error) {
	reqURL := fmt.Sprintf("%s%s?text=%s&type=tracks", a.baseURL, yandexSearchPath, url.QueryEscape(query))

	var searchResp yandexSearchResponse
	if err := fetchJSON(ctx, a.client, reqURL, "Yandex Music search", &searchResp); err != nil {
		return nil, err
	}

	items := searchResp.Tracks.Items
	if len(items) > yandexSearchLimit {
		items = items[:yandexSearchLimit]
	}

	candidates := make([]Candidate, 0, len(items))
	for _, track := range items {
		candidates = append(candidates, Candidate{
			NativeID: fmt.Sprintf("%d", track.ID),
			Title:    track.Title,
			Artist:   joinYandexArtists(track),
			Cover:    yandexCover(track),
			URL:      a.trackURL(track),
		})
	}

	return candidates, nil
}

// trackURL builds the canonical album-scoped track link when an album
// is known, matching what the web player uses.
func (a *YandexMusicAdapter) trackURL(track yandexTrack) string {
	if len(track.Albums) > 0 {
		return fmt.Sprintf("%s/album/%d/track/%d", a.baseURL, track.Albums[0].ID, track.ID)
	}
	return fmt.Sprintf("%s/track/%d", a.baseURL, track.ID)
}

func joinYandexArtists(track yandexTrack) string {
	names := make([]string, 0, len(track.Artists))
	for _, artist := range track.Artists {
		names = append(names, artist.Name)
	}
	return strings.Join(names, ", ")
}

// yandexCover expands the coverUri template ("avatars.yandex.net/.../%%")
// into a concrete image URL.
func yandexCover(track yandexTrack) string {
	if len(track.Albums) == 0 || track.Albums[0].CoverURI == "" {
		return ""
	}
	cover := strings.Replace(track.Albums[0].CoverURI, "%%", "400x400", 1)
	return "https://" + cover
}
