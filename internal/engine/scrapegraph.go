package engine

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/rotisserie/eris"

	"github.com/sells-group/inventory-cli/internal/model"
	"github.com/sells-group/inventory-cli/internal/resilience"
	"github.com/sells-group/inventory-cli/pkg/scrapegraph"
)

// SessionCookies carry the authenticated session against a protected target.
type SessionCookies struct {
	SessionID string
	AuthToken string
}

// ScrapeGraphEngine delegates the full scrape-and-extract to the hosted
// ScrapeGraphAI service. One call fetches the category page and returns
// structured inventory matching the schema.
type ScrapeGraphEngine struct {
	client  scrapegraph.Client
	cookies SessionCookies
}

// NewScrapeGraphEngine creates a ScrapeGraphEngine from a client.
func NewScrapeGraphEngine(client scrapegraph.Client, cookies SessionCookies) *ScrapeGraphEngine {
	return &ScrapeGraphEngine{client: client, cookies: cookies}
}

// Name implements Engine.
func (e *ScrapeGraphEngine) Name() string { return "scrapegraph" }

// Extract implements Engine.
func (e *ScrapeGraphEngine) Extract(ctx context.Context, category string) (*model.Inventory, error) {
	req := scrapegraph.SmartScrapeRequest{
		WebsiteURL:   category,
		UserPrompt:   extractionPrompt,
		OutputSchema: json.RawMessage(inventorySchemaJSON),
		Headers:      defaultHeaders,
	}
	if e.cookies.SessionID != "" || e.cookies.AuthToken != "" {
		req.Cookies = map[string]string{}
		if e.cookies.SessionID != "" {
			req.Cookies["session_id"] = e.cookies.SessionID
		}
		if e.cookies.AuthToken != "" {
			req.Cookies["auth_token"] = e.cookies.AuthToken
		}
	}

	resp, err := e.client.SmartScrape(ctx, req)
	if err != nil {
		return nil, markTransient(eris.Wrapf(err, "engine: scrapegraph extract %s", category))
	}
	if !resp.Completed() {
		if resp.Error != "" {
			return nil, eris.Errorf("engine: scrapegraph extract %s: %s", category, resp.Error)
		}
		return nil, eris.Errorf("engine: scrapegraph extract %s: status %s", category, resp.Status)
	}

	var inv model.Inventory
	if err := json.Unmarshal(resp.Result, &inv); err != nil {
		return nil, eris.Wrapf(err, "engine: scrapegraph decode result for %s", category)
	}
	inv.Normalize()
	return &inv, nil
}

// markTransient tags errors whose HTTP status indicates a temporary
// server-side condition, so terminal failures are classified correctly.
func markTransient(err error) error {
	var sgErr *scrapegraph.APIError
	if errors.As(err, &sgErr) && resilience.IsTransientHTTPStatus(sgErr.StatusCode) {
		return resilience.NewTransientError(err, sgErr.StatusCode)
	}
	return err
}
