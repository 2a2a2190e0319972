// Package main provides the tonelink service entry point.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"

	"tonelink/internal/core"
	httpserver "tonelink/internal/http"
	"tonelink/internal/resolver"
)

var (
	cfgFile string
	config  *core.Config
	logger  *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "tonelink",
	Short: "tonelink - cross-platform music link resolver",
	Long: `tonelink resolves a streaming-service track URL into canonical metadata
plus equivalent links on every supported platform, serving the music
block editor of the link-in-bio product.`,
	RunE: runServer,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .env)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("server-host", "0.0.0.0", "HTTP server host")
	rootCmd.PersistentFlags().Int("server-port", 8080, "HTTP server port")
	rootCmd.PersistentFlags().String("spotify-client-id", "", "Spotify client ID")
	rootCmd.PersistentFlags().String("spotify-client-secret", "", "Spotify client secret")
	rootCmd.PersistentFlags().String("youtube-api-key", "", "YouTube Data API key")
	rootCmd.PersistentFlags().String("tidal-token", "", "Tidal app token")
	rootCmd.PersistentFlags().String("soundcloud-client-id", "", "SoundCloud client ID")
	rootCmd.PersistentFlags().Float64("match-threshold", core.DefaultMatchThreshold, "similarity threshold for accepting a cross-platform match")
	rootCmd.PersistentFlags().Duration("source-timeout", core.DefaultSourceTimeout, "timeout for the source metadata fetch")
	rootCmd.PersistentFlags().Duration("search-timeout", core.DefaultSearchTimeout, "timeout per target platform search")
	rootCmd.PersistentFlags().Int("cache-size", core.DefaultCacheSize, "resolution cache size (0 disables caching)")
	rootCmd.PersistentFlags().Duration("cache-ttl", core.DefaultCacheTTL, "resolution cache TTL")

	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to bind flags: %v\n", err)
		os.Exit(1)
	}
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(".env")
		viper.SetConfigType("env")
	}

	viper.SetEnvPrefix("TONELINK")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fmt.Fprintf(os.Stderr, "Error reading config file: %v\n", err)
			os.Exit(1)
		}
	}

	config = buildConfig()
	logger = buildLogger(config.Log.Level)
}

func buildConfig() *core.Config {
	cfg := core.DefaultConfig()

	if host := viper.GetString("server-host"); host != "" {
		cfg.Server.Host = host
	}
	if port := viper.GetInt("server-port"); port != 0 {
		cfg.Server.Port = port
	}

	cfg.Spotify.ClientID = viper.GetString("spotify-client-id")
	cfg.Spotify.ClientSecret = viper.GetString("spotify-client-secret")
	cfg.YouTube.APIKey = viper.GetString("youtube-api-key")
	cfg.Tidal.Token = viper.GetString("tidal-token")
	cfg.SoundCloud.ClientID = viper.GetString("soundcloud-client-id")

	if threshold := viper.GetFloat64("match-threshold"); threshold > 0 {
		cfg.Resolver.MatchThreshold = threshold
	}
	if timeout := viper.GetDuration("source-timeout"); timeout > 0 {
		cfg.Resolver.SourceTimeout = timeout
	}
	if timeout := viper.GetDuration("search-timeout"); timeout > 0 {
		cfg.Resolver.SearchTimeout = timeout
	}
	cfg.Resolver.CacheSize = viper.GetInt("cache-size")
	if ttl := viper.GetDuration("cache-ttl"); ttl > 0 {
		cfg.Resolver.CacheTTL = ttl
	}

	cfg.Log.Level = viper.GetString("log-level")

	return cfg
}

func buildLogger(level string) *zap.Logger {
	var zapLevel zapcore.Level
	switch strings.ToLower(level) {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		zapLevel = zapcore.InfoLevel
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapLevel)

	builtLogger, err := cfg.Build()
	if err != nil {
		panic(fmt.Sprintf("Failed to build logger: %v", err))
	}

	return builtLogger
}

func runServer(_ *cobra.Command, _ []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger.Info("Starting tonelink",
		zap.Float64("match_threshold", config.Resolver.MatchThreshold),
		zap.Bool("spotify_configured", config.Spotify.ClientID != ""),
		zap.Bool("youtube_configured", config.YouTube.APIKey != ""))

	if err := validateConfig(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	if config.Spotify.ClientID == "" {
		logger.Warn("Spotify credentials not configured; Spotify lookups and matches will be skipped")
	}
	if config.YouTube.APIKey == "" {
		logger.Warn("YouTube API key not configured; YouTube matches will be skipped")
	}

	registry := resolver.NewRegistry(config, logger.Named("platform"))
	matcher := resolver.NewMatcher(
		config.Resolver.MatchThreshold,
		config.Resolver.SearchTimeout,
		logger.Named("matcher"),
	)

	var cache resolver.Cache = resolver.NopCache{}
	if config.Resolver.CacheSize > 0 {
		cache = resolver.NewLRUCache(config.Resolver.CacheSize, config.Resolver.CacheTTL)
	}

	musicResolver := resolver.New(registry, matcher, cache, &config.Resolver, logger.Named("resolver"))
	httpServer := httpserver.NewServer(&config.Server, musicResolver, logger.Named("http"))

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return httpServer.Start(gCtx)
	})

	logger.Info("tonelink started",
		zap.String("http_addr", fmt.Sprintf("%s:%d", config.Server.Host, config.Server.Port)))

	if err := g.Wait(); err != nil {
		logger.Error("tonelink stopped with error", zap.Error(err))
		return err
	}

	logger.Info("tonelink stopped gracefully")
	return nil
}

func validateConfig() error {
	if config.Server.Port <= 0 || config.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", config.Server.Port)
	}

	if config.Resolver.MatchThreshold <= 0 || config.Resolver.MatchThreshold > 1 {
		return fmt.Errorf("match threshold must be in (0,1], got %v", config.Resolver.MatchThreshold)
	}

	if config.Resolver.SourceTimeout < time.Second || config.Resolver.SearchTimeout < time.Second {
		return fmt.Errorf("timeouts must be at least one second")
	}

	return nil
}
