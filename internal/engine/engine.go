// Package engine defines the boundary to external scrape-and-extract
// services. Implementations own page fetching, anti-bot handling, pagination,
// and LLM extraction; callers treat them as opaque.
package engine

import (
	"context"

	"github.com/sells-group/inventory-cli/internal/model"
)

// Engine turns one category page into structured inventory.
type Engine interface {
	Extract(ctx context.Context, category string) (*model.Inventory, error)
	Name() string
}
