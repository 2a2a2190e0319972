package resolver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"go.uber.org/zap"
)

// vkAudioRegex matches /audio{ownerID}_{trackID} paths.
var vkAudioRegex = regexp.MustCompile(`^audio(-?\d+_\d+)$`)

// VKAdapter serves VK Music. VK exposes no public catalog API, so only
// URL recognition and best-effort OpenGraph scraping are available;
// target matching on VK always degrades to an unmatched entry.
type VKAdapter struct {
	client  *http.Client
	logger  *zap.Logger
	baseURL string
}

func NewVKAdapter(logger *zap.Logger) *VKAdapter {
	return &VKAdapter{
		client:  newHTTPClient(),
		logger:  logger,
		baseURL: "https://vk.com",
	}
}

func (a *VKAdapter) Platform() Platform {
	return PlatformVK
}

func (a *VKAdapter) MatchesURL(u *url.URL) bool {
	hostname := strings.ToLower(u.Hostname())
	switch hostname {
	case "vk.com", "www.vk.com", "m.vk.com", "vk.ru":
		return true
	}
	return false
}

// ParseURL extracts the owner_track pair from /audio{owner}_{id} links.
// Other music paths fall back to slug terms.
func (a *VKAdapter) ParseURL(u *url.URL) (string, string, error) {
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	for _, part := range parts {
		if m := vkAudioRegex.FindStringSubmatch(part); len(m) > 1 {
			return m[1], "", nil
		}
	}

	if len(parts) > 0 {
		if terms := slugTerms(parts[len(parts)-1]); terms != "" {
			return "", terms, nil
		}
	}

	return "", "", errors.New("no audio ID in VK URL")
}

func (a *VKAdapter) FetchByID(ctx context.Context, id string) (*CanonicalTrack, error) {
	sourceURL := fmt.Sprintf("%s/audio%s", a.baseURL, id)

	doc, err := fetchHTML(ctx, a.client, sourceURL, "VK")
	if err != nil {
		return nil, err
	}

	meta := extractPageMetadata(doc, " | VK")
	if meta.Title == "" {
		return nil, errors.New("could not extract track metadata from VK page")
	}

	return &CanonicalTrack{
		SourcePlatform: PlatformVK,
		SourceURL:      sourceURL,
		NativeID:       id,
		Title:          meta.Title,
		Artist:         meta.Artist,
		Cover:          meta.Cover,
	}, nil
}

func (a *VKAdapter) Search(_ context.Context, _ string) ([]Candidate, error) {
	return nil, fmt.Errorf("%w: vk has no public catalog search", ErrSearchUnsupported)
}
