package resolver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	"tonelink/internal/core"
)

const (
	// youtubeOEmbedURL is the keyless metadata endpoint used when no
	// Data API key is configured.
	youtubeOEmbedURL = "https://www.youtube.com/oembed"
	// youtubeSearchLimit caps search results per query.
	youtubeSearchLimit = 5
	// youtubeMusicCategoryID restricts Data API searches to music.
	youtubeMusicCategoryID = "10"
)

// youtubeOEmbedResponse is the subset of the oEmbed payload we use.
type youtubeOEmbedResponse struct {
	Title        string `json:"title"`
	AuthorName   string `json:"author_name"`
	ThumbnailURL string `json:"thumbnail_url"`
}

// YouTubeMusicAdapter serves YouTube and YouTube Music links. Searches
// require a Data API key; metadata fetches fall back to the keyless
// oEmbed endpoint so YouTube URLs resolve as sources either way.
type YouTubeMusicAdapter struct {
	cfg       *core.YouTubeConfig
	client    *http.Client
	logger    *zap.Logger
	oembedURL string

	// newService is swapped in tests to avoid real API construction.
	newService func(ctx context.Context) (*youtube.Service, error)
}

func NewYouTubeMusicAdapter(cfg *core.YouTubeConfig, logger *zap.Logger) *YouTubeMusicAdapter {
	return &YouTubeMusicAdapter{
		cfg:       cfg,
		client:    newHTTPClient(),
		logger:    logger,
		oembedURL: youtubeOEmbedURL,
		newService: func(ctx context.Context) (*youtube.Service, error) {
			return youtube.NewService(ctx, option.WithAPIKey(cfg.APIKey))
		},
	}
}

func (a *YouTubeMusicAdapter) Platform() Platform {
	return PlatformYouTubeMusic
}

func (a *YouTubeMusicAdapter) MatchesURL(u *url.URL) bool {
	hostname := strings.ToLower(u.Hostname())
	switch hostname {
	case "music.youtube.com", "youtube.com", "www.youtube.com", "m.youtube.com", "youtu.be":
		return true
	}
	return false
}

// ParseURL extracts the video ID from watch URLs and youtu.be short
// links.
func (a *YouTubeMusicAdapter) ParseURL(u *url.URL) (string, string, error) {
	if strings.ToLower(u.Hostname()) == "youtu.be" {
		if id := strings.Trim(u.Path, "/"); id != "" {
			return id, "", nil
		}
		return "", "", errors.New("no video ID in youtu.be URL")
	}

	if id := u.Query().Get("v"); id != "" {
		return id, "", nil
	}

	return "", "", errors.New("no video ID in YouTube URL")
}

func (a *YouTubeMusicAdapter) FetchByID(ctx context.Context, id string) (*CanonicalTrack, error) {
	sourceURL := fmt.Sprintf("https://music.youtube.com/watch?v=%s", id)

	if a.cfg.APIKey != "" {
		track, err := a.fetchViaDataAPI(ctx, id, sourceURL)
		if err == nil {
			return track, nil
		}
		a.logger.Debug("Data API lookup failed, falling back to oEmbed", zap.Error(err))
	}

	return a.fetchViaOEmbed(ctx, id, sourceURL)
}

func (a *YouTubeMusicAdapter) fetchViaDataAPI(ctx context.Context, id, sourceURL string) (*CanonicalTrack, error) {
	service, err := a.newService(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create YouTube service: %w", err)
	}

	response, err := service.Videos.List([]string{"snippet"}).Id(id).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("youtube video lookup failed: %w", err)
	}

	if len(response.Items) == 0 {
		return nil, errors.New("no video found for YouTube ID")
	}

	snippet := response.Items[0].Snippet
	title, artist := splitVideoTitle(snippet.Title, snippet.ChannelTitle)

	return &CanonicalTrack{
		SourcePlatform: PlatformYouTubeMusic,
		SourceURL:      sourceURL,
		NativeID:       id,
		Title:          title,
		Artist:         artist,
		Cover:          bestSnippetThumbnail(snippet.Thumbnails),
	}, nil
}

func (a *YouTubeMusicAdapter) fetchViaOEmbed(ctx context.Context, id, sourceURL string) (*CanonicalTrack, error) {
	videoURL := fmt.Sprintf("https://www.youtube.com/watch?v=%s", id)
	reqURL := fmt.Sprintf("%s?url=%s&format=json", a.oembedURL, url.QueryEscape(videoURL))

	var oembed youtubeOEmbedResponse
	if err := fetchJSON(ctx, a.client, reqURL, "YouTube oEmbed API", &oembed); err != nil {
		return nil, err
	}

	title, artist := splitVideoTitle(oembed.Title, oembed.AuthorName)

	return &CanonicalTrack{
		SourcePlatform: PlatformYouTubeMusic,
		SourceURL:      sourceURL,
		NativeID:       id,
		Title:          title,
		Artist:         artist,
		Cover:          oembed.ThumbnailURL,
	}, nil
}

func (a *YouTubeMusicAdapter) Search(ctx context.Context, query string) ([]Candidate, error) {
	if a.cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: youtube API key not configured", ErrSearchUnsupported)
	}

	service, err := a.newService(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create YouTube service: %w", err)
	}

	response, err := service.Search.List([]string{"id", "snippet"}).
		Q(query).
		Type("video").
		VideoCategoryId(youtubeMusicCategoryID).
		MaxResults(youtubeSearchLimit).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("youtube search failed: %w", err)
	}

	candidates := make([]Candidate, 0, len(response.Items))
	for _, item := range response.Items {
		if item.Id == nil || item.Id.VideoId == "" || item.Snippet == nil {
			continue
		}

		title, artist := splitVideoTitle(item.Snippet.Title, item.Snippet.ChannelTitle)
		candidates = append(candidates, Candidate{
			NativeID: item.Id.VideoId,
			Title:    title,
			Artist:   artist,
			Cover:    bestSnippetThumbnail(item.Snippet.Thumbnails),
			URL:      fmt.Sprintf("https://music.youtube.com/watch?v=%s", item.Id.VideoId),
		})
	}

	return candidates, nil
}

// splitVideoTitle derives track title and artist from a video title
// plus channel name. Topic and VEVO channels are auto-generated artist
// channels; otherwise "Artist - Title" splits in the video title win.
func splitVideoTitle(videoTitle, channelTitle string) (title, artist string) {
	title = strings.TrimSpace(videoTitle)

	if strings.HasSuffix(channelTitle, " - Topic") {
		return title, strings.TrimSuffix(channelTitle, " - Topic")
	}
	if strings.HasSuffix(channelTitle, "VEVO") {
		artist = strings.TrimSuffix(channelTitle, "VEVO")
	}

	if strings.Contains(title, " - ") {
		parts := strings.SplitN(title, " - ", 2)
		return strings.TrimSpace(parts[1]), strings.TrimSpace(parts[0])
	}

	if artist == "" {
		artist = channelTitle
	}
	return title, artist
}

func bestSnippetThumbnail(thumbs *youtube.ThumbnailDetails) string {
	if thumbs == nil {
		return ""
	}
	for _, t := range []*youtube.Thumbnail{thumbs.Maxres, thumbs.High, thumbs.Medium, thumbs.Default} {
		if t != nil && t.Url != "" {
			return t.Url
		}
	}
	return ""
}
