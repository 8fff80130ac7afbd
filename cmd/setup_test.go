package main

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/inventory-cli/internal/config"
)

func withConfig(t *testing.T, c *config.Config) {
	t.Helper()
	prev := cfg
	cfg = c
	t.Cleanup(func() { cfg = prev })
}

func TestInitEngine(t *testing.T) {
	tests := []struct {
		name     string
		cfg      *config.Config
		wantName string
		wantErr  bool
	}{
		{
			name:     "scrapegraph only",
			cfg:      &config.Config{ScrapeGraph: config.ScrapeGraphConfig{Key: "sg"}},
			wantName: "scrapegraph",
		},
		{
			name: "firecrawl fallback only",
			cfg: &config.Config{
				Firecrawl: config.FirecrawlConfig{Key: "fc"},
				Anthropic: config.AnthropicConfig{Key: "an", Model: "claude-haiku-4-5-20251001"},
			},
			wantName: "firecrawl",
		},
		{
			name: "both engines chained",
			cfg: &config.Config{
				ScrapeGraph: config.ScrapeGraphConfig{Key: "sg"},
				Firecrawl:   config.FirecrawlConfig{Key: "fc"},
				Anthropic:   config.AnthropicConfig{Key: "an"},
			},
			wantName: "chain",
		},
		{
			name:    "nothing configured",
			cfg:     &config.Config{},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withConfig(t, tt.cfg)

			eng, err := initEngine()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, eng.Name())
		})
	}
}

func TestInitStoreDisabled(t *testing.T) {
	withConfig(t, &config.Config{})

	st, err := initStore(context.Background())
	require.NoError(t, err)
	assert.Nil(t, st)

	_, err = requireStore(context.Background())
	assert.Error(t, err)
}

func TestInitStoreSQLite(t *testing.T) {
	withConfig(t, &config.Config{
		Store: config.StoreConfig{
			Driver:      "sqlite",
			DatabaseURL: filepath.Join(t.TempDir(), "runs.db"),
		},
	})

	st, err := initStore(context.Background())
	require.NoError(t, err)
	require.NotNil(t, st)
	defer st.Close()

	require.NoError(t, st.Migrate(context.Background()))
}

func TestInitStoreUnsupportedDriver(t *testing.T) {
	withConfig(t, &config.Config{Store: config.StoreConfig{Driver: "mysql"}})

	_, err := initStore(context.Background())
	assert.Error(t, err)
}

func TestRunnerOptions(t *testing.T) {
	withConfig(t, &config.Config{
		Output: config.OutputConfig{Dir: "out", Prefix: "mobilesentrix"},
		Scrape: config.ScrapeConfig{
			MaxAttempts:       3,
			InitialDelaySecs:  5,
			BackoffMultiplier: 2.0,
			ItemDelaySecs:     5,
		},
	})

	opts := runnerOptions(nil)
	assert.Equal(t, "out", opts.OutDir)
	assert.Equal(t, "mobilesentrix", opts.Prefix)
	assert.Equal(t, 3, opts.Policy.MaxAttempts)
	assert.Equal(t, 5*time.Second, opts.Policy.InitialDelay)
	assert.Equal(t, 2.0, opts.Policy.Multiplier)
	assert.Equal(t, 5*time.Second, opts.ItemDelay)
	assert.Nil(t, opts.Store)
}

func TestSecondsToDuration(t *testing.T) {
	assert.Equal(t, time.Duration(0), secondsToDuration(0))
	assert.Equal(t, time.Duration(0), secondsToDuration(-1))
	assert.Equal(t, 30*time.Second, secondsToDuration(30))
}
