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

// PandoraAdapter serves Pandora. Like Amazon Music there is no public
// catalog API: metadata comes from OpenGraph scraping and target
// matching always degrades to an unmatched entry.
type PandoraAdapter struct {
	client *http.Client
	logger *zap.Logger
}

func NewPandoraAdapter(logger *zap.Logger) *PandoraAdapter {
	return &PandoraAdapter{
		client: newHTTPClient(),
		logger: logger,
	}
}

func (a *PandoraAdapter) Platform() Platform {
	return PlatformPandora
}

func (a *PandoraAdapter) MatchesURL(u *url.URL) bool {
	hostname := strings.ToLower(u.Hostname())
	return hostname == "pandora.com" || hostname == "www.pandora.com"
}

// ParseURL handles /artist/{artist}/{album}/{track}/TR{id} song pages.
// The shareable path is the native ID; shorter artist/album paths fall
// back to slug search terms.
func (a *PandoraAdapter) ParseURL(u *url.URL) (string, string, error) {
	path := strings.Trim(u.Path, "/")
	parts := strings.Split(path, "/")

	if len(parts) >= 2 && parts[0] == "artist" {
		last := parts[len(parts)-1]
		if strings.HasPrefix(last, "TR") {
			return path, "", nil
		}

		// Artist or album page: build terms from the readable slugs.
		var terms []string
		for _, part := range parts[1:] {
			if t := slugTerms(part); t != "" {
				terms = append(terms, t)
			}
		}
		if len(terms) > 0 {
			return "", strings.Join(terms, " "), nil
		}
	}

	return "", "", errors.New("no track path in Pandora URL")
}

func (a *PandoraAdapter) FetchByID(ctx context.Context, id string) (*CanonicalTrack, error) {
	sourceURL := fmt.Sprintf("https://www.pandora.com/%s", id)

	doc, err := fetchHTML(ctx, a.client, sourceURL, "Pandora")
	if err != nil {
		return nil, err
	}

	meta := extractPageMetadata(doc, " | Pandora")
	if meta.Title == "" {
		return nil, errors.New("could not extract track metadata from Pandora page")
	}

	return &CanonicalTrack{
		SourcePlatform: PlatformPandora,
		SourceURL:      sourceURL,
		NativeID:       id,
		Title:          meta.Title,
		Artist:         meta.Artist,
		Cover:          meta.Cover,
	}, nil
}

func (a *PandoraAdapter) Search(_ context.Context, _ string) ([]Candidate, error) {
	return nil, fmt.Errorf("%w: pandora has no public catalog search", ErrSearchUnsupported)
}
