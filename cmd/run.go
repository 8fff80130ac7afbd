package main

import (
	"encoding/json"
	"os"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/inventory-cli/internal/runner"
)

var (
	runCategory string
	runOutDir   string
	runPrefix   string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Scrape a single category",
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
		if runOutDir != "" {
			opts.OutDir = runOutDir
		}
		if runPrefix != "" {
			opts.Prefix = runPrefix
		}

		inv, path, err := runner.New(eng, opts).RunItem(ctx, runCategory)
		if err != nil {
			return eris.Wrap(err, "scrape category")
		}

		zap.L().Info("category scraped",
			zap.String("category", runCategory),
			zap.Int("items", len(inv.Items)),
			zap.String("artifact", path),
		)

		// Print the inventory JSON to stdout
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(inv)
	},
}

func init() {
	runCmd.Flags().StringVar(&runCategory, "category", "", "category name or URL (required)")
	runCmd.Flags().StringVar(&runOutDir, "out", "", "artifact output directory")
	runCmd.Flags().StringVar(&runPrefix, "prefix", "", "artifact name prefix")
	_ = runCmd.MarkFlagRequired("category")
	rootCmd.AddCommand(runCmd)
}
