// Package core holds shared configuration types for the tonelink service.
package core

import (
	"time"
)

const (
	// DefaultMatchThreshold is the minimum combined title/artist similarity
	// required to accept a cross-platform search candidate.
	DefaultMatchThreshold = 0.72
	// DefaultSourceTimeout bounds the source-platform metadata fetch.
	DefaultSourceTimeout = 10 * time.Second
	// DefaultSearchTimeout bounds each target-platform search call.
	DefaultSearchTimeout = 8 * time.Second
	// DefaultCacheSize is the number of resolved URLs kept in the LRU cache.
	DefaultCacheSize = 512
	// DefaultCacheTTL bounds how long a cached resolution stays valid.
	DefaultCacheTTL = 15 * time.Minute
)

type Config struct {
	Server     ServerConfig
	Resolver   ResolverConfig
	Spotify    SpotifyConfig
	YouTube    YouTubeConfig
	Tidal      TidalConfig
	SoundCloud SoundCloudConfig
	Log        LogConfig
}

type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type ResolverConfig struct {
	SourceTimeout  time.Duration
	SearchTimeout  time.Duration
	MatchThreshold float64
	CacheSize      int
	CacheTTL       time.Duration
}

type SpotifyConfig struct {
	ClientID     string
	ClientSecret string
}

type YouTubeConfig struct {
	APIKey string
}

type TidalConfig struct {
	Token string
}

type SoundCloudConfig struct {
	ClientID string
}

type LogConfig struct {
	Level  string
	Format string
}

func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:         "0.0.0.0",
			Port:         8080,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		Resolver: ResolverConfig{
			SourceTimeout:  DefaultSourceTimeout,
			SearchTimeout:  DefaultSearchTimeout,
			MatchThreshold: DefaultMatchThreshold,
			CacheSize:      DefaultCacheSize,
			CacheTTL:       DefaultCacheTTL,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}
