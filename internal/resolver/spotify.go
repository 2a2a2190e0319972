package resolver

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"sync"

	"github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"go.uber.org/zap"
	"golang.org/x/oauth2/clientcredentials"

	"tonelink/internal/core"
)

const (
	// spotifyIDLength is the length of a Spotify track ID.
	spotifyIDLength = 22
	// spotifySearchLimit caps search results per query.
	spotifySearchLimit = 5
)

var spotifyIDRegex = regexp.MustCompile(`^[a-zA-Z0-9]+$`)

// SpotifyAdapter serves the Spotify platform through the Web API using
// the client-credentials flow. Without configured credentials it still
// recognizes and parses URLs; lookups and searches fail gracefully.
type SpotifyAdapter struct {
	cfg    *core.SpotifyConfig
	logger *zap.Logger

	mu     sync.Mutex
	client *spotify.Client
}

func NewSpotifyAdapter(cfg *core.SpotifyConfig, logger *zap.Logger) *SpotifyAdapter {
	return &SpotifyAdapter{
		cfg:    cfg,
		logger: logger,
	}
}

func (a *SpotifyAdapter) Platform() Platform {
	return PlatformSpotify
}

func (a *SpotifyAdapter) MatchesURL(u *url.URL) bool {
	hostname := strings.ToLower(u.Hostname())
	return hostname == "open.spotify.com" || hostname == "play.spotify.com"
}

// ParseURL extracts the track ID from /track/{id} paths, tolerating
// regional segments like /intl-de/.
func (a *SpotifyAdapter) ParseURL(u *url.URL) (string, string, error) {
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i, part := range parts {
		if part != "track" || i+1 >= len(parts) {
			continue
		}
		id := parts[i+1]
		if len(id) == spotifyIDLength && spotifyIDRegex.MatchString(id) {
			return id, "", nil
		}
	}

	return "", "", errors.New("no track ID in Spotify URL (only /track/ links are supported)")
}

func (a *SpotifyAdapter) FetchByID(ctx context.Context, id string) (*CanonicalTrack, error) {
	client, err := a.api()
	if err != nil {
		return nil, err
	}

	track, err := client.GetTrack(ctx, spotify.ID(id))
	if err != nil {
		return nil, fmt.Errorf("spotify track lookup failed: %w", err)
	}

	return &CanonicalTrack{
		SourcePlatform: PlatformSpotify,
		SourceURL:      fmt.Sprintf("https://open.spotify.com/track/%s", track.ID),
		NativeID:       string(track.ID),
		Title:          track.Name,
		Artist:         joinSpotifyArtists(track.Artists),
		Cover:          spotifyCover(track.Album),
	}, nil
}

func (a *SpotifyAdapter) Search(ctx context.Context, query string) ([]Candidate, error) {
	client, err := a.api()
	if err != nil {
		return nil, err
	}

	results, err := client.Search(ctx, query, spotify.SearchTypeTrack, spotify.Limit(spotifySearchLimit))
	if err != nil {
		return nil, fmt.Errorf("spotify search failed: %w", err)
	}

	if results.Tracks == nil || len(results.Tracks.Tracks) == 0 {
		return nil, nil
	}

	candidates := make([]Candidate, 0, len(results.Tracks.Tracks))
	for i := range results.Tracks.Tracks {
		track := &results.Tracks.Tracks[i]
		candidates = append(candidates, Candidate{
			NativeID: string(track.ID),
			Title:    track.Name,
			Artist:   joinSpotifyArtists(track.Artists),
			Cover:    spotifyCover(track.Album),
			URL:      fmt.Sprintf("https://open.spotify.com/track/%s", track.ID),
		})
	}

	return candidates, nil
}

// api lazily builds the authenticated client. The client-credentials
// token source refreshes itself; only construction needs guarding.
func (a *SpotifyAdapter) api() (*spotify.Client, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.client != nil {
		return a.client, nil
	}

	if a.cfg.ClientID == "" || a.cfg.ClientSecret == "" {
		return nil, fmt.Errorf("%w: spotify credentials not configured", ErrSearchUnsupported)
	}

	authConfig := &clientcredentials.Config{
		ClientID:     a.cfg.ClientID,
		ClientSecret: a.cfg.ClientSecret,
		TokenURL:     spotifyauth.TokenURL,
	}

	// The token source outlives the request that triggered construction,
	// so it must not inherit that request's cancellation.
	a.client = spotify.New(authConfig.Client(context.Background()))
	a.logger.Debug("Spotify client initialized")

	return a.client, nil
}

func joinSpotifyArtists(artists []spotify.SimpleArtist) string {
	names := make([]string, 0, len(artists))
	for _, artist := range artists {
		names = append(names, artist.Name)
	}
	return strings.Join(names, ", ")
}

func spotifyCover(album spotify.SimpleAlbum) string {
	if len(album.Images) == 0 {
		return ""
	}
	return album.Images[0].URL
}
