package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/inventory-cli/internal/engine"
	"github.com/sells-group/inventory-cli/internal/resilience"
	"github.com/sells-group/inventory-cli/internal/runner"
	"github.com/sells-group/inventory-cli/internal/store"
	anthropicpkg "github.com/sells-group/inventory-cli/pkg/anthropic"
	"github.com/sells-group/inventory-cli/pkg/firecrawl"
	"github.com/sells-group/inventory-cli/pkg/scrapegraph"
)

// initEngine assembles the extraction engine from configuration. ScrapeGraphAI
// is the primary engine; Firecrawl plus Anthropic forms the fallback. When
// both are configured they are chained so a primary failure falls through.
func initEngine() (engine.Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var engines []engine.Engine

	if cfg.ScrapeGraph.Key != "" {
		opts := []scrapegraph.Option{scrapegraph.WithBaseURL(cfg.ScrapeGraph.BaseURL)}
		if cfg.Proxy.Server != "" {
			opts = append(opts, scrapegraph.WithProxy(cfg.Proxy.Server, cfg.Proxy.Username, cfg.Proxy.Password))
		}
		client := scrapegraph.NewClient(cfg.ScrapeGraph.Key, opts...)
		engines = append(engines, engine.NewScrapeGraphEngine(client, engine.SessionCookies{
			SessionID: cfg.Session.ID,
			AuthToken: cfg.Session.AuthToken,
		}))
	}

	if cfg.Firecrawl.Key != "" && cfg.Anthropic.Key != "" {
		fc := firecrawl.NewClient(cfg.Firecrawl.Key, firecrawl.WithBaseURL(cfg.Firecrawl.BaseURL))
		llm := anthropicpkg.NewClient(cfg.Anthropic.Key)
		engines = append(engines, engine.NewFirecrawlEngine(fc, llm, cfg.Anthropic.Model))
	}

	if len(engines) == 1 {
		return engines[0], nil
	}
	return engine.NewChain(engines...), nil
}

// initStore opens the run-history backend. An empty driver means history is
// disabled and a nil store is returned.
func initStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "":
		return nil, nil
	case "sqlite":
		dsn := cfg.Store.DatabaseURL
		if dsn == "" {
			dsn = "inventory.db"
		}
		return store.NewSQLite(dsn)
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL)
	default:
		return nil, eris.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
}

// requireStore is initStore for commands that only make sense with history
// enabled.
func requireStore(ctx context.Context) (store.Store, error) {
	st, err := initStore(ctx)
	if err != nil {
		return nil, err
	}
	if st == nil {
		return nil, eris.New("run history is disabled: set store.driver to sqlite or postgres")
	}
	return st, nil
}

// runnerOptions builds runner options from configuration plus an optional
// store handle.
func runnerOptions(st store.Store) runner.Options {
	return runner.Options{
		Policy: resilience.FromConfig(
			cfg.Scrape.MaxAttempts,
			cfg.Scrape.InitialDelaySecs,
			cfg.Scrape.MaxDelaySecs,
			cfg.Scrape.BackoffMultiplier,
		),
		ItemDelay: secondsToDuration(cfg.Scrape.ItemDelaySecs),
		OutDir:    cfg.Output.Dir,
		Prefix:    cfg.Output.Prefix,
		Store:     st,
	}
}

func secondsToDuration(secs int) time.Duration {
	if secs <= 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}
