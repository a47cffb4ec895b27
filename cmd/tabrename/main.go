package main

import (
	"fmt"
	"os"

	"github.com/haukened/tabrename/internal/titles/common/log"
	"github.com/haukened/tabrename/internal/titles/config"
	"github.com/haukened/tabrename/internal/titles/repos/kvstore"
	"github.com/haukened/tabrename/internal/titles/repos/kvstore/bolt"
	"github.com/haukened/tabrename/internal/titles/repos/kvstore/memory"
	"github.com/haukened/tabrename/internal/titles/repos/kvstore/sqlite"
	"github.com/haukened/tabrename/internal/titles/repos/patterncache"
	"github.com/haukened/tabrename/internal/titles/services/rewriter"
	"github.com/haukened/tabrename/internal/titles/services/rules"
)

const (
	// Version information
	version = "0.1.0-dev"
	appName = "tabrename"
)

// Application holds the wired rule store and services.
type Application struct {
	config   *config.AppConfig
	store    kvstore.Store
	cache    patterncache.Cache
	rules    *rules.Service
	rewriter *rewriter.Rewriter
}

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// buildApplication constructs all components and wires them together
func buildApplication(cfg *config.AppConfig) (*Application, error) {
	logger := log.GetLogger()

	repos, err := buildRepositories(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to build repositories: %w", err)
	}

	rulesService := rules.New(rules.Options{
		Store:  repos.store,
		Logger: logger,
	})
	rw := rewriter.New(rewriter.Options{
		Store:        repos.store,
		Cache:        repos.cache,
		Logger:       logger,
		Strict:       cfg.StrictMatch,
		MatchTimeout: cfg.RegexTimeout,
	})

	return &Application{
		config:   cfg,
		store:    repos.store,
		cache:    repos.cache,
		rules:    rulesService,
		rewriter: rw,
	}, nil
}

// repositories holds all repository implementations
type repositories struct {
	store kvstore.Store
	cache patterncache.Cache
}

// buildRepositories opens the configured store and the compiled-regex cache
func buildRepositories(cfg *config.AppConfig, logger log.Logger) (*repositories, error) {
	store, err := openStore(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s store: %w", cfg.StoreBackend, err)
	}
	logger.Debug(map[string]any{
		"backend": cfg.StoreBackend,
		"path":    cfg.StorePath,
	}, "Rule store opened")

	// Safely convert uint to int with bounds check
	cacheSize := cfg.CacheSize
	if cacheSize > uint(^uint(0)>>1) {
		_ = store.Close()
		return nil, fmt.Errorf("cache size too large: %d (max %d)", cacheSize, ^uint(0)>>1)
	}
	cache, err := patterncache.New(int(cacheSize))
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to create pattern cache: %w", err)
	}
	logger.Debug(map[string]any{
		"type": "LRU",
		"size": cfg.CacheSize,
	}, "Pattern cache configured")

	return &repositories{store: store, cache: cache}, nil
}

func openStore(cfg *config.AppConfig) (kvstore.Store, error) {
	switch cfg.StoreBackend {
	case kvstore.BackendMemory:
		return memory.New(nil), nil
	case kvstore.BackendBolt:
		return bolt.New(cfg.StorePath)
	case kvstore.BackendSQLite:
		return sqlite.New(cfg.StorePath)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}

// Close releases the store.
func (app *Application) Close() error {
	hits, misses, evictions := app.cache.Stats()
	log.Debug(map[string]any{
		"size":      app.cache.Len(),
		"hits":      hits,
		"misses":    misses,
		"evictions": evictions,
	}, "Pattern cache stats")
	return app.store.Close()
}
