package resolver

import (
	"context"
	"net/url"
)

// Adapter is the per-platform capability set: URL recognition and
// parsing (no network), metadata lookup by native ID, and catalog
// search. All platform-specific HTTP and response-shape details stay
// behind this interface, so an API change on one platform touches
// exactly one file.
type Adapter interface {
	// Platform returns the platform this adapter serves.
	Platform() Platform

	// MatchesURL reports whether the URL host belongs to this platform.
	MatchesURL(u *url.URL) bool

	// ParseURL extracts a native track ID from the URL path, or falls
	// back to readable search terms when the path carries a slug but no
	// parseable ID. Never performs network I/O.
	ParseURL(u *url.URL) (nativeID, searchTerms string, err error)

	// FetchByID retrieves canonical track metadata for a native ID.
	FetchByID(ctx context.Context, id string) (*CanonicalTrack, error)

	// Search queries the platform catalog. Adapters without a usable
	// search API return ErrSearchUnsupported.
	Search(ctx context.Context, query string) ([]Candidate, error)
}
