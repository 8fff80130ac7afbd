package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rotisserie/eris"

	"github.com/sells-group/inventory-cli/internal/model"
	"github.com/sells-group/inventory-cli/internal/resilience"
	"github.com/sells-group/inventory-cli/pkg/anthropic"
	"github.com/sells-group/inventory-cli/pkg/firecrawl"
)

const extractSystemPrompt = "You are extracting structured retail inventory data from web pages. Return valid JSON matching the requested schema. Use null for fields not found."

const extractPageTemplate = `%s

Output JSON schema:
%s

Page URL: %s
Page content:
%s

Return valid JSON matching the schema above, with all extracted products under "items".`

// FirecrawlEngine is the fallback engine: Firecrawl fetches the rendered
// category page as markdown, then an Anthropic model extracts inventory
// records matching the schema.
type FirecrawlEngine struct {
	scraper firecrawl.Client
	llm     anthropic.Client
	model   string
}

// NewFirecrawlEngine creates a FirecrawlEngine.
func NewFirecrawlEngine(scraper firecrawl.Client, llm anthropic.Client, llmModel string) *FirecrawlEngine {
	return &FirecrawlEngine{scraper: scraper, llm: llm, model: llmModel}
}

// Name implements Engine.
func (e *FirecrawlEngine) Name() string { return "firecrawl" }

// Extract implements Engine.
func (e *FirecrawlEngine) Extract(ctx context.Context, category string) (*model.Inventory, error) {
	page, err := e.scraper.Scrape(ctx, firecrawl.ScrapeRequest{
		URL:     category,
		Formats: []string{"markdown"},
		Headers: defaultHeaders,
	})
	if err != nil {
		return nil, markPageTransient(eris.Wrapf(err, "engine: firecrawl fetch %s", category))
	}
	if !page.Success || page.Data.Markdown == "" {
		return nil, eris.Errorf("engine: firecrawl fetch %s: empty page", category)
	}

	prompt := fmt.Sprintf(extractPageTemplate,
		extractionPrompt,
		inventorySchemaJSON,
		page.Data.URL,
		page.Data.Markdown,
	)

	resp, err := e.llm.CreateMessage(ctx, anthropic.MessageRequest{
		Model:     e.model,
		MaxTokens: 8192,
		System:    extractSystemPrompt,
		Messages: []anthropic.Message{
			{Role: "user", Content: prompt},
		},
	})
	if err != nil {
		return nil, eris.Wrapf(err, "engine: llm extract %s", category)
	}
	resp.Usage.LogUsage(e.model, category)

	cleaned := cleanJSON(resp.Text())
	var inv model.Inventory
	if err := json.Unmarshal([]byte(cleaned), &inv); err != nil {
		return nil, eris.Wrapf(err, "engine: llm decode result for %s", category)
	}
	inv.Normalize()
	return &inv, nil
}

func markPageTransient(err error) error {
	var fcErr *firecrawl.APIError
	if errors.As(err, &fcErr) && resilience.IsTransientHTTPStatus(fcErr.StatusCode) {
		return resilience.NewTransientError(err, fcErr.StatusCode)
	}
	return err
}
