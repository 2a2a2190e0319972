package core

import (
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Server.Port != 8080 {
		t.Errorf("default port = %d", cfg.Server.Port)
	}
	if cfg.Resolver.MatchThreshold != DefaultMatchThreshold {
		t.Errorf("default match threshold = %v", cfg.Resolver.MatchThreshold)
	}
	if cfg.Resolver.SourceTimeout != 10*time.Second {
		t.Errorf("default source timeout = %v", cfg.Resolver.SourceTimeout)
	}
	if cfg.Resolver.CacheSize != DefaultCacheSize || cfg.Resolver.CacheTTL != DefaultCacheTTL {
		t.Errorf("default cache settings = %d/%v", cfg.Resolver.CacheSize, cfg.Resolver.CacheTTL)
	}
	if cfg.Log.Level != "info" || cfg.Log.Format != "json" {
		t.Errorf("default log settings = %s/%s", cfg.Log.Level, cfg.Log.Format)
	}

	// Credentials default to empty; adapters degrade without them.
	if cfg.Spotify.ClientID != "" || cfg.YouTube.APIKey != "" {
		t.Error("credential defaults must be empty")
	}
}
