package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/samvad-hq/samvad-post-curator/internal/archive"
	"github.com/samvad-hq/samvad-post-curator/internal/config"
	"github.com/samvad-hq/samvad-post-curator/internal/curator"
	"github.com/samvad-hq/samvad-post-curator/internal/domain"
	"github.com/samvad-hq/samvad-post-curator/internal/extractor"
	"github.com/samvad-hq/samvad-post-curator/internal/logger"
	"github.com/samvad-hq/samvad-post-curator/internal/schedule"
	"github.com/samvad-hq/samvad-post-curator/internal/storage"
	"github.com/samvad-hq/samvad-post-curator/pkg/httpclient"
)

// WorkspaceOptions overrides collaborators, mostly for tests.
type WorkspaceOptions struct {
	Fetcher  extractor.Fetcher
	Store    storage.Options
	Recorder schedule.Recorder
}

// Workspace bundles the core components over one open store: scrape,
// curate, archive and schedule.
type Workspace struct {
	Store    storage.Store
	Archive  *archive.Archive
	Schedule *schedule.Manager
	Scraper  *extractor.Scraper
	Curator  *curator.Curator

	log logger.Logger
}

// OpenWorkspace opens the configured store and loads the post queue from it.
func OpenWorkspace(ctx context.Context, cfg *config.Config, log logger.Logger, opts WorkspaceOptions) (*Workspace, error) {
	if cfg == nil {
		return nil, errors.New("config must not be nil")
	}
	log = logger.Ensure(log)

	store, err := storage.NewStore(cfg.StorageType, cfg.BBoltPath, opts.Store)
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}
	log.DebugObj("storage initialized", "storage_config", map[string]any{
		"type": cfg.StorageType,
		"path": cfg.BBoltPath,
	})

	fetcher := opts.Fetcher
	if fetcher == nil {
		client := httpclient.NewRestyClient(httpclient.Options{
			Timeout:   cfg.FetchTimeout,
			UserAgent: cfg.FetchUserAgent,
		})
		fetcher = extractor.NewHTTPFetcher(client, extractor.FetchOptions{
			Timeout:      cfg.FetchTimeout,
			ProxyPrefix:  cfg.FetchProxyPrefix,
			MaxBodyBytes: cfg.FetchMaxBodyBytes,
		})
	}

	var schedOpts []schedule.Option
	if opts.Recorder != nil {
		schedOpts = append(schedOpts, schedule.WithRecorder(opts.Recorder))
	}
	if opts.Store.Now != nil {
		schedOpts = append(schedOpts, schedule.WithClock(opts.Store.Now))
	}
	manager := schedule.New(store.Posts(), log, schedOpts...)
	if err := manager.Load(ctx); err != nil {
		_ = store.Close()
		return nil, err
	}

	return &Workspace{
		Store:    store,
		Archive:  archive.New(store.Scrapes(), log),
		Schedule: manager,
		Scraper:  extractor.NewScraper(fetcher, extractor.DefaultPolicy(), log),
		Curator:  curator.New(),
		log:      log,
	}, nil
}

// Stats summarises archived and scheduled work for the dashboard.
func (w *Workspace) Stats(ctx context.Context) (domain.Stats, error) {
	scrapes, err := w.Archive.Count(ctx)
	if err != nil {
		return domain.Stats{}, err
	}
	stats := w.Schedule.Counts()
	stats.TotalScrapes = scrapes
	return stats, nil
}

// Close releases the store.
func (w *Workspace) Close() error {
	if w == nil || w.Store == nil {
		return nil
	}
	if err := w.Store.Close(); err != nil {
		w.log.ErrorObj("storage close failed", "error", err)
		return err
	}
	return nil
}
