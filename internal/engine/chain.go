package engine

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/inventory-cli/internal/model"
)

// Chain tries engines in priority order, returning the first success.
type Chain struct {
	engines []Engine
}

// NewChain creates a Chain. Engines are tried in order; the first successful
// extraction is returned.
func NewChain(engines ...Engine) *Chain {
	return &Chain{engines: engines}
}

// Name implements Engine.
func (c *Chain) Name() string { return "chain" }

// Extract tries each engine in order for a single category.
// Returns the first successful result, or an error if all fail.
func (c *Chain) Extract(ctx context.Context, category string) (*model.Inventory, error) {
	var lastErr error
	for _, e := range c.engines {
		inv, err := e.Extract(ctx, category)
		if err == nil && inv != nil {
			return inv, nil
		}
		if err != nil {
			zap.L().Debug("engine failed, trying next",
				zap.String("engine", e.Name()),
				zap.String("category", category),
				zap.Error(err),
			)
			lastErr = err
		}
		if ctx.Err() != nil {
			break
		}
	}
	if lastErr != nil {
		return nil, eris.Wrap(lastErr, "engine: all engines failed")
	}
	return nil, eris.Errorf("engine: no engine configured for category: %s", category)
}
