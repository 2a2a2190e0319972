package resolver

import (
	"errors"
)

var (
	// ErrInvalidURL means the input is empty or not a syntactically
	// valid HTTP(S) URL. Rejected before classification.
	ErrInvalidURL = errors.New("invalid track URL")

	// ErrUnrecognizedPlatform means the URL host belongs to no
	// supported streaming platform.
	ErrUnrecognizedPlatform = errors.New("unrecognized streaming platform")

	// ErrSourceUnavailable means the source platform could not be
	// reached or answered with a server error. The caller may retry.
	ErrSourceUnavailable = errors.New("source platform unavailable")

	// ErrNoMatch means the source platform returned nothing usable for
	// the given URL: unknown ID, empty search result, or a best hit
	// below the relevance threshold.
	ErrNoMatch = errors.New("track not found on source platform")

	// ErrSearchUnsupported is returned by adapters whose platform has
	// no usable catalog search API (or is missing credentials for it).
	// The matcher degrades such targets to an unmatched entry.
	ErrSearchUnsupported = errors.New("platform search not supported")
)
