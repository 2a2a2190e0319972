package resolver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"
)

const (
	// browserUserAgent is sent on page-scraping requests; several
	// platforms serve stripped-down markup to unknown clients.
	browserUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 " +
		"(KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	// htmlAcceptHeader is the accept header for page-scraping requests.
	htmlAcceptHeader = "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8"
	// maxHTMLReadSize limits how much of a page we read; metadata tags
	// sit in the document head.
	maxHTMLReadSize = 131072
	// maxRedirects caps redirect chains on outbound requests.
	maxRedirects = 3
	// defaultClientTimeout is a transport-level safety net; per-call
	// deadlines come from the request context.
	defaultClientTimeout = 15 * time.Second
)

// ErrTooManyRedirects is returned when an outbound request exceeds the
// redirect cap.
var ErrTooManyRedirects = errors.New("too many redirects")

var (
	ogTitleRegex    = regexp.MustCompile(`<meta\s+(?:property|name)="og:title"\s+content="([^"]*)"`)
	ogDescRegex     = regexp.MustCompile(`<meta\s+(?:property|name)="og:description"\s+content="([^"]*)"`)
	ogImageRegex    = regexp.MustCompile(`<meta\s+(?:property|name)="og:image"\s+content="([^"]*)"`)
	titleTagRegex   = regexp.MustCompile(`<title>([^<]+)</title>`)
	whitespaceOnly  = regexp.MustCompile(`^\s*$`)
	slugDigitsRegex = regexp.MustCompile(`^\d+$`)
)

// newHTTPClient builds the HTTP client shared by scraping adapters,
// with a redirect cap and a transport-level timeout.
func newHTTPClient() *http.Client {
	return &http.Client{
		Timeout: defaultClientTimeout,
		CheckRedirect: func(_ *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return ErrTooManyRedirects
			}
			return nil
		},
	}
}

// fetchHTML fetches a page with browser-like headers and a read limit.
func fetchHTML(ctx context.Context, client *http.Client, pageURL, serviceName string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, http.NoBody)
	if err != nil {
		return "", err
	}

	req.Header.Set("User-Agent", browserUserAgent)
	req.Header.Set("Accept", htmlAcceptHeader)

	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%s returned status %d", serviceName, resp.StatusCode)
	}

	bodyBytes, err := io.ReadAll(io.LimitReader(resp.Body, maxHTMLReadSize))
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	return string(bodyBytes), nil
}

// fetchJSON performs a GET request and decodes a JSON response body.
func fetchJSON(ctx context.Context, client *http.Client, reqURL, serviceName string, dest any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return err
	}

	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s returned status %d", serviceName, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", serviceName, err)
	}

	return nil
}

// pageMetadata holds track info scraped from OpenGraph tags.
type pageMetadata struct {
	Title  string
	Artist string
	Cover  string
}

// extractPageMetadata pulls track title, artist, and cover art from
// OpenGraph meta tags, falling back to the <title> tag. Artist is
// derived from og:description phrasing ("Song by Artist on ...") or a
// "Title - Artist" split in the page title.
func extractPageMetadata(doc, serviceSuffix string) pageMetadata {
	var meta pageMetadata

	if m := ogTitleRegex.FindStringSubmatch(doc); len(m) > 1 {
		meta.Title = html.UnescapeString(m[1])
	}
	if m := ogImageRegex.FindStringSubmatch(doc); len(m) > 1 {
		meta.Cover = html.UnescapeString(m[1])
	}
	if m := ogDescRegex.FindStringSubmatch(doc); len(m) > 1 {
		meta.Artist = artistFromDescription(html.UnescapeString(m[1]))
	}

	if meta.Title != "" {
		// og:title often carries "Title - Artist" or "Title by Artist".
		if title, artist, ok := splitTitleArtist(meta.Title); ok {
			meta.Title = title
			if meta.Artist == "" {
				meta.Artist = artist
			}
		}
		return meta
	}

	if m := titleTagRegex.FindStringSubmatch(doc); len(m) > 1 {
		titleText := strings.TrimSpace(html.UnescapeString(m[1]))
		if serviceSuffix != "" {
			titleText = strings.TrimSpace(strings.TrimSuffix(titleText, serviceSuffix))
		}
		if title, artist, ok := splitTitleArtist(titleText); ok {
			meta.Title = title
			if meta.Artist == "" {
				meta.Artist = artist
			}
		} else {
			meta.Title = titleText
		}
	}

	return meta
}

// artistFromDescription extracts an artist name from description text
// like "Listen to Song by Artist on Platform".
func artistFromDescription(desc string) string {
	lower := strings.ToLower(desc)
	idx := strings.Index(lower, " by ")
	if idx < 0 {
		return ""
	}

	artist := desc[idx+len(" by "):]
	// Cut trailing "on Platform" / sentence remainder.
	for _, stop := range []string{" on ", ". ", " | "} {
		if cut := strings.Index(strings.ToLower(artist), stop); cut >= 0 {
			artist = artist[:cut]
		}
	}

	return strings.TrimSpace(artist)
}

// splitTitleArtist splits "Title - Artist" / "Title – Artist" /
// "Title by Artist" strings.
func splitTitleArtist(text string) (title, artist string, ok bool) {
	for _, sep := range []string{" – ", " - ", " by "} {
		if strings.Contains(text, sep) {
			parts := strings.SplitN(text, sep, 2)
			title = strings.TrimSpace(parts[0])
			artist = strings.TrimSpace(parts[1])
			if title != "" && artist != "" {
				return title, artist, true
			}
		}
	}
	return "", "", false
}

// slugTerms turns a readable URL slug into search terms:
// "never-gonna-give-you-up" becomes "never gonna give you up".
// Pure-numeric segments are dropped since they carry no search value.
func slugTerms(slug string) string {
	var words []string
	for _, part := range strings.FieldsFunc(slug, func(r rune) bool {
		return r == '-' || r == '_' || r == '+'
	}) {
		if slugDigitsRegex.MatchString(part) || whitespaceOnly.MatchString(part) {
			continue
		}
		words = append(words, part)
	}
	return strings.Join(words, " ")
}

