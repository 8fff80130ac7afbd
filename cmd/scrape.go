package main

import (
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/inventory-cli/internal/runner"
)

var (
	scrapeCategories []string
	scrapeOutDir     string
	scrapePrefix     string
)

var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Scrape a batch of categories",
	Long:  "Processes each configured category in order, retrying failures with exponential backoff, and writes one dated JSON artifact per successful category.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		eng, err := initEngine()
		if err != nil {
			return err
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		if st != nil {
			defer st.Close() //nolint:errcheck
			if err := st.Migrate(ctx); err != nil {
				return eris.Wrap(err, "migrate store")
			}
		}

		opts := runnerOptions(st)
		if scrapeOutDir != "" {
			opts.OutDir = scrapeOutDir
		}
		if scrapePrefix != "" {
			opts.Prefix = scrapePrefix
		}

		categories := cfg.Categories
		if len(scrapeCategories) > 0 {
			categories = scrapeCategories
		}

		summary := runner.New(eng, opts).RunBatch(ctx, categories)

		if summary.Failed > 0 {
			zap.L().Warn("batch finished with failures",
				zap.Int("failed", summary.Failed),
				zap.Int("total", summary.Total),
			)
			return eris.Errorf("%d of %d categories failed", summary.Failed, summary.Total)
		}
		return nil
	},
}

func init() {
	scrapeCmd.Flags().StringSliceVar(&scrapeCategories, "categories", nil, "categories to scrape (defaults to configured list)")
	scrapeCmd.Flags().StringVar(&scrapeOutDir, "out", "", "artifact output directory")
	scrapeCmd.Flags().StringVar(&scrapePrefix, "prefix", "", "artifact name prefix")
	rootCmd.AddCommand(scrapeCmd)
}
