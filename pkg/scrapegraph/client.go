// Package scrapegraph is a thin client for the hosted ScrapeGraphAI API.
package scrapegraph

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rotisserie/eris"
)

// Default base URL for the ScrapeGraphAI v1 API.
const defaultBaseURL = "https://api.scrapegraphai.com/v1"

// Client defines the ScrapeGraphAI operations used by the pipeline.
type Client interface {
	SmartScrape(ctx context.Context, req SmartScrapeRequest) (*SmartScrapeResponse, error)
}

// SmartScrapeRequest is the body for POST /smartscraper. The service fetches
// the page (rendering, anti-bot handling, pagination included) and extracts
// data matching OutputSchema according to UserPrompt.
type SmartScrapeRequest struct {
	WebsiteURL   string            `json:"website_url"`
	UserPrompt   string            `json:"user_prompt"`
	OutputSchema json.RawMessage   `json:"output_schema,omitempty"`
	Headers      map[string]string `json:"headers,omitempty"`
	Cookies      map[string]string `json:"cookies,omitempty"`
}

// SmartScrapeResponse is the response from POST /smartscraper.
type SmartScrapeResponse struct {
	RequestID string          `json:"request_id"`
	Status    string          `json:"status"`
	Result    json.RawMessage `json:"result"`
	Error     string          `json:"error,omitempty"`
}

// Completed reports whether the extraction finished successfully.
func (r *SmartScrapeResponse) Completed() bool {
	return r.Status == "completed"
}

// APIError is returned when the service responds with a non-2xx status.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("scrapegraph: HTTP %d: %s", e.StatusCode, e.Body)
}

// Option configures the httpClient.
type Option func(*httpClient)

// WithBaseURL overrides the default base URL.
func WithBaseURL(u string) Option {
	return func(c *httpClient) {
		c.baseURL = u
	}
}

// WithHTTPClient sets a custom *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithProxy routes requests through the given proxy server. Credentials are
// embedded in the proxy URL when supplied.
func WithProxy(server, username, password string) Option {
	return func(c *httpClient) {
		if server == "" {
			return
		}
		proxyURL, err := url.Parse(server)
		if err != nil {
			return
		}
		if username != "" {
			proxyURL.User = url.UserPassword(username, password)
		}
		transport := &http.Transport{
			Proxy:               http.ProxyURL(proxyURL),
			MaxIdleConnsPerHost: 20,
			IdleConnTimeout:     90 * time.Second,
		}
		c.http.Transport = transport
	}
}

// httpClient implements Client using net/http.
type httpClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// NewClient creates a new ScrapeGraphAI client.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http: &http.Client{
			// Smart scrapes render pages and run extraction server-side;
			// they are slow by nature.
			Timeout: 5 * time.Minute,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 20,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *httpClient) SmartScrape(ctx context.Context, req SmartScrapeRequest) (*SmartScrapeResponse, error) {
	var resp SmartScrapeResponse
	if err := c.post(ctx, "/smartscraper", req, &resp); err != nil {
		return nil, eris.Wrap(err, "scrapegraph: smart scrape")
	}
	return &resp, nil
}

func (c *httpClient) post(ctx context.Context, path string, body any, out any) error {
	buf, err := json.Marshal(body)
	if err != nil {
		return eris.Wrap(err, "marshal request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(buf))
	if err != nil {
		return eris.Wrap(err, "create request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("SGAI-APIKEY", c.apiKey)

	return c.do(req, out)
}

func (c *httpClient) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return eris.Wrap(err, "execute request")
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return eris.Wrap(err, "read response body")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{
			StatusCode: resp.StatusCode,
			Body:       string(data),
		}
	}

	if err := json.Unmarshal(data, out); err != nil {
		return eris.Wrap(err, "decode response")
	}

	return nil
}
