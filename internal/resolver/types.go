// Package resolver implements cross-platform music link resolution: it
// classifies a streaming-service URL, fetches canonical track metadata
// from the source platform, and finds equivalent links on every other
// supported platform.
package resolver

// Platform identifies a supported streaming service. The string values
// are part of the wire contract with the page editor and are persisted
// verbatim inside music block content.
type Platform string

const (
	PlatformSpotify      Platform = "spotify"
	PlatformAppleMusic   Platform = "appleMusic"
	PlatformYouTubeMusic Platform = "youtubeMusic"
	PlatformYandex       Platform = "yandex"
	PlatformVK           Platform = "vk"
	PlatformDeezer       Platform = "deezer"
	PlatformTidal        Platform = "tidal"
	PlatformSoundCloud   Platform = "soundcloud"
	PlatformAmazonMusic  Platform = "amazonMusic"
	PlatformPandora      Platform = "pandora"
)

// PlatformPriority is the fixed output ordering of platform links.
// The final result list always follows this order regardless of which
// platform lookups finish first.
var PlatformPriority = []Platform{
	PlatformSpotify,
	PlatformAppleMusic,
	PlatformYouTubeMusic,
	PlatformYandex,
	PlatformVK,
	PlatformDeezer,
	PlatformTidal,
	PlatformSoundCloud,
	PlatformAmazonMusic,
	PlatformPandora,
}

// priorityIndex maps a platform to its slot in the output list.
var priorityIndex = func() map[Platform]int {
	idx := make(map[Platform]int, len(PlatformPriority))
	for i, p := range PlatformPriority {
		idx[p] = i
	}
	return idx
}()

// CanonicalTrack is the authoritative metadata for a release, derived
// from the source-platform URL. It lives only for the duration of one
// resolution.
type CanonicalTrack struct {
	SourcePlatform Platform
	SourceURL      string // canonical public URL on the source platform
	NativeID       string
	Title          string
	Artist         string
	Cover          string
}

// Candidate is a single search result from a platform catalog.
type Candidate struct {
	NativeID string
	Title    string
	Artist   string
	Cover    string
	URL      string
}

// Classification is the outcome of inspecting a URL without touching
// the network: the owning platform plus either a native track ID or
// fallback search terms extracted from a readable slug.
type Classification struct {
	Platform    Platform
	NativeID    string
	SearchTerms string
}

// PlatformLink is one entry of the resolved platform list. URL is
// omitted when no confident match was found. Visible is a display flag
// consumed by the page editor; the resolver always emits true.
type PlatformLink struct {
	Platform Platform `json:"platform"`
	URL      string   `json:"url,omitempty"`
	Matched  bool     `json:"matched"`
	Visible  bool     `json:"visible"`
}

// ResultData is the payload persisted verbatim as the content of a
// music block once the user accepts it in the editor.
type ResultData struct {
	Title     string         `json:"title"`
	Artist    string         `json:"artist"`
	Cover     string         `json:"cover,omitempty"`
	Platforms []PlatformLink `json:"platforms"`
}
