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
	// itunesLookupURL is the iTunes/Apple Music track lookup endpoint.
	itunesLookupURL = "https://itunes.apple.com/lookup"
	// itunesSearchURL is the iTunes/Apple Music catalog search endpoint.
	itunesSearchURL = "https://itunes.apple.com/search"
	// itunesSearchLimit caps search results per query.
	itunesSearchLimit = 5
)

// itunesResponse is the shared envelope of iTunes lookup and search
// responses.
type itunesResponse struct {
	ResultCount int                `json:"resultCount"`
	Results     []itunesTrackEntry `json:"results"`
}

type itunesTrackEntry struct {
	TrackID       int64  `json:"trackId"`
	TrackName     string `json:"trackName"`
	ArtistName    string `json:"artistName"`
	TrackViewURL  string `json:"trackViewUrl"`
	ArtworkURL100 string `json:"artworkUrl100"`
}

// AppleMusicAdapter serves Apple Music through the public iTunes API.
type AppleMusicAdapter struct {
	client    *http.Client
	logger    *zap.Logger
	lookupURL string
	searchURL string
}

func NewAppleMusicAdapter(logger *zap.Logger) *AppleMusicAdapter {
	return &AppleMusicAdapter{
		client:    newHTTPClient(),
		logger:    logger,
		lookupURL: itunesLookupURL,
		searchURL: itunesSearchURL,
	}
}

func (a *AppleMusicAdapter) Platform() Platform {
	return PlatformAppleMusic
}

func (a *AppleMusicAdapter) MatchesURL(u *url.URL) bool {
	hostname := strings.ToLower(u.Hostname())
	switch hostname {
	case "music.apple.com", "itunes.apple.com", "geo.music.apple.com":
		return true
	}
	return false
}

// ParseURL extracts the track ID from ?i= album links or /song/ paths.
// Album links without a track selector fall back to slug search terms.
func (a *AppleMusicAdapter) ParseURL(u *url.URL) (string, string, error) {
	if trackID := u.Query().Get("i"); trackID != "" {
		return trackID, "", nil
	}

	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i, part := range parts {
		if part != "song" || i+1 >= len(parts) {
			continue
		}
		// Path is /{storefront}/song/{slug}/{id}; the ID is the last
		// numeric segment after "song".
		last := parts[len(parts)-1]
		if slugDigitsRegex.MatchString(last) {
			return last, "", nil
		}
	}

	// Album or artist page without a track selector: use the readable
	// slug as search terms instead of failing.
	for i, part := range parts {
		if (part == "album" || part == "artist") && i+1 < len(parts) {
			if terms := slugTerms(parts[i+1]); terms != "" {
				return "", terms, nil
			}
		}
	}

	return "", "", errors.New("no track ID in Apple Music URL")
}

func (a *AppleMusicAdapter) FetchByID(ctx context.Context, id string) (*CanonicalTrack, error) {
	reqURL := fmt.Sprintf("%s?id=%s&entity=song", a.lookupURL, url.QueryEscape(id))

	var lookupResp itunesResponse
	if err := fetchJSON(ctx, a.client, reqURL, "iTunes API", &lookupResp); err != nil {
		return nil, err
	}

	if lookupResp.ResultCount == 0 || len(lookupResp.Results) == 0 {
		return nil, errors.New("no track found for Apple Music ID")
	}

	entry := lookupResp.Results[0]
	return &CanonicalTrack{
		SourcePlatform: PlatformAppleMusic,
		SourceURL:      entry.TrackViewURL,
		NativeID:       fmt.Sprintf("%d", entry.TrackID),
		Title:          entry.TrackName,
		Artist:         entry.ArtistName,
		Cover:          entry.ArtworkURL100,
	}, nil
}

func (a *AppleMusicAdapter) Search(ctx context.Context, query string) ([]Candidate, error) {
	reqURL := fmt.Sprintf("%s?term=%s&media=music&entity=song&limit=%d",
		a.searchURL, url.QueryEscape(query), itunesSearchLimit)

	var searchResp itunesResponse
	if err := fetchJSON(ctx, a.client, reqURL, "iTunes API", &searchResp); err != nil {
		return nil, err
	}

	candidates := make([]Candidate, 0, len(searchResp.Results))
	for _, entry := range searchResp.Results {
		if entry.TrackViewURL == "" {
			continue
		}
		candidates = append(candidates, Candidate{
			NativeID: fmt.Sprintf("%d", entry.TrackID),
			Title:    entry.TrackName,
			Artist:   entry.ArtistName,
			Cover:    entry.ArtworkURL100,
			URL:      entry.TrackViewURL,
		})
	}

	return candidates, nil
}
