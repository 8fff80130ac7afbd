// Package runner executes scrape work items with bounded retry and writes
// one JSON artifact per successful category.
package runner

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/inventory-cli/internal/engine"
	"github.com/sells-group/inventory-cli/internal/model"
	"github.com/sells-group/inventory-cli/internal/resilience"
	"github.com/sells-group/inventory-cli/internal/store"
)

// Options configures a Runner.
type Options struct {
	// Policy is the per-item retry policy.
	Policy resilience.Policy

	// ItemDelay throttles the batch: consecutive work items start at least
	// ItemDelay apart. Zero disables throttling.
	ItemDelay time.Duration

	// OutDir is the artifact output directory.
	OutDir string

	// Prefix is the artifact name prefix.
	Prefix string

	// Store, when non-nil, records one run row per work item.
	Store store.Store

	// Now is the clock used for artifact naming. Defaults to time.Now.
	Now func() time.Time
}

// Summary reports the outcome of a batch.
type Summary struct {
	Total     int
	Succeeded int
	Failed    int
}

// Runner drives one engine over a batch of categories. Work items are
// processed strictly in order, one at a time; a failed item never aborts
// the batch.
type Runner struct {
	engine  engine.Engine
	opts    Options
	limiter *rate.Limiter
}

// New creates a Runner for the given engine.
func New(e engine.Engine, opts Options) *Runner {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	r := &Runner{engine: e, opts: opts}
	if opts.ItemDelay > 0 {
		r.limiter = rate.NewLimiter(rate.Every(opts.ItemDelay), 1)
	}
	return r
}

// RunBatch processes every category exactly once, isolating failures per
// item. Terminal per-item errors (retries exhausted, persistence failures)
// are logged and counted; nothing escapes to the caller. Only context
// cancellation stops the batch early.
func (r *Runner) RunBatch(ctx context.Context, categories []string) Summary {
	s := Summary{Total: len(categories)}

	zap.L().Info("starting batch",
		zap.Int("categories", len(categories)),
		zap.String("engine", r.engine.Name()),
	)

	for _, category := range categories {
		if r.limiter != nil {
			if err := r.limiter.Wait(ctx); err != nil {
				zap.L().Warn("batch interrupted", zap.Error(err))
				s.Failed = s.Total - s.Succeeded
				return s
			}
		}

		if _, _, err := r.RunItem(ctx, category); err != nil {
			s.Failed++
			zap.L().Error("category failed",
				zap.String("category", category),
				zap.String("error_category", string(classify(err))),
				zap.Error(err),
			)
			continue
		}
		s.Succeeded++
	}

	zap.L().Info("batch complete",
		zap.Int("total", s.Total),
		zap.Int("succeeded", s.Succeeded),
		zap.Int("failed", s.Failed),
	)
	return s
}

// RunItem processes one category: retry the engine call per the policy, then
// persist the result. Returns the extracted inventory and the artifact path.
func (r *Runner) RunItem(ctx context.Context, category string) (*model.Inventory, string, error) {
	log := zap.L().With(zap.String("category", category))
	log.Info("scraping category")

	var runID string
	if r.opts.Store != nil {
		if run, err := r.opts.Store.CreateRun(ctx, category); err != nil {
			log.Warn("record run start failed", zap.Error(err))
		} else {
			runID = run.ID
		}
	}

	p := r.opts.Policy
	var attempts int
	onError, onWait := resilience.AttemptLogger(category)
	p.OnError = func(attempt int, err error) {
		attempts = attempt
		onError(attempt, err)
	}
	p.OnWait = onWait

	start := r.opts.Now()
	inv, err := resilience.Do(ctx, p, func(ctx context.Context) (*model.Inventory, error) {
		return r.engine.Extract(ctx, category)
	})
	if err != nil {
		r.recordFailure(ctx, runID, attempts, err)
		return nil, "", err
	}
	if attempts == 0 {
		attempts = 1
	} else {
		attempts++
	}

	path, err := WriteArtifact(r.opts.OutDir, ArtifactName(r.opts.Prefix, category, r.opts.Now()), inv)
	if err != nil {
		r.recordFailure(ctx, runID, attempts, err)
		return nil, "", err
	}

	log.Info("category scraped",
		zap.Int("items", len(inv.Items)),
		zap.Int("attempts", attempts),
		zap.Duration("duration", r.opts.Now().Sub(start)),
		zap.String("artifact", path),
	)

	if r.opts.Store != nil && runID != "" {
		if err := r.opts.Store.CompleteRun(ctx, runID, attempts, len(inv.Items), path); err != nil {
			log.Warn("record run completion failed", zap.Error(err))
		}
	}

	return inv, path, nil
}

func (r *Runner) recordFailure(ctx context.Context, runID string, attempts int, cause error) {
	if r.opts.Store == nil || runID == "" {
		return
	}
	if err := r.opts.Store.FailRun(ctx, runID, attempts, classify(cause), cause.Error()); err != nil {
		zap.L().Warn("record run failure failed", zap.Error(err))
	}
}

func classify(err error) model.ErrorCategory {
	if resilience.IsTransient(err) {
		return model.ErrorCategoryTransient
	}
	return model.ErrorCategoryPermanent
}
