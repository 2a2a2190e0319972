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
	// deezerAPIURL is the public Deezer API base.
	deezerAPIURL = "https://api.deezer.com"
	// deezerSearchLimit caps search results per query.
	deezerSearchLimit = 5
)

type deezerTrack struct {
	ID     int64  `json:"id"`
	Title  string `json:"title"`
	Link   string `json:"link"`
	Artist struct {
		Name string `json:"name"`
	} `json:"artist"`
	Album struct {
		CoverBig    string `json:"cover_big"`
		CoverMedium string `json:"cover_medium"`
	} `json:"album"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

type deezerSearchResponse struct {
	Data []deezerTrack `json:"data"`
}

// DeezerAdapter serves Deezer through its public, keyless JSON API.
type DeezerAdapter struct {
	client *http.Client
	logger *zap.Logger
	apiURL string
}

func NewDeezerAdapter(logger *zap.Logger) *DeezerAdapter {
	return &DeezerAdapter{
		client: newHTTPClient(),
		logger: logger,
		apiURL: deezerAPIURL,
	}
}

func (a *DeezerAdapter) Platform() Platform {
	return PlatformDeezer
}

func (a *DeezerAdapter) MatchesURL(u *url.URL) bool {
	hostname := strings.ToLower(u.Hostname())
	return hostname == "deezer.com" || hostname == "www.deezer.com"
}

// ParseURL extracts the numeric track ID from /track/{id} paths,
// tolerating a leading locale segment like /en/.
func (a *DeezerAdapter) ParseURL(u *url.URL) (string, string, error) {
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i, part := range parts {
		if part == "track" && i+1 < len(parts) && slugDigitsRegex.MatchString(parts[i+1]) {
			return parts[i+1], "", nil
		}
	}

	return "", "", errors.New("no track ID in Deezer URL (only /track/ links are supported)")
}

func (a *DeezerAdapter) FetchByID(ctx context.Context, id string) (*CanonicalTrack, error) {
	reqURL := fmt.Sprintf("%s/track/%s", a.apiURL, url.PathEscape(id))

	var track deezerTrack
	if err := fetchJSON(ctx, a.client, reqURL, "Deezer API", &track); err != nil {
		return nil, err
	}

	// Deezer answers 200 with an error object for unknown IDs.
	if track.Error != nil {
		return nil, fmt.Errorf("no track found for Deezer ID: %s", track.Error.Message)
	}
	if track.Title == "" {
		return nil, errors.New("no track found for Deezer ID")
	}

	return &CanonicalTrack{
		SourcePlatform: PlatformDeezer,
		SourceURL:      track.Link,
		NativeID:       fmt.Sprintf("%d", track.ID),
		Title:          track.Title,
		Artist:         track.Artist.Name,
		Cover:          deezerCover(track),
	}, nil
}

func (a *DeezerAdapter) Search(ctx context.Context, query string) ([]Candidate, error) {
	reqURL := fmt.Sprintf("%s/search/track?q=%s&limit=%d", a.apiURL, url.QueryEscape(query), deezerSearchLimit)

	var searchResp deezerSearchResponse
	if err := fetchJSON(ctx, a.client, reqURL, "Deezer API", &searchResp); err != nil {
		return nil, err
	}

	candidates := make([]Candidate, 0, len(searchResp.Data))
	for _, track := range searchResp.Data {
		if track.Link == "" {
			continue
		}
		candidates = append(candidates, Candidate{
			NativeID: fmt.Sprintf("%d", track.ID),
			Title:    track.Title,
			Artist:   track.Artist.Name,
			Cover:    deezerCover(track),
			URL:      track.Link,
		})
	}

	return candidates, nil
}

func deezerCover(track deezerTrack) string {
	if track.Album.CoverBig != "" {
		return track.Album.CoverBig
	}
	return track.Album.CoverMedium
}
