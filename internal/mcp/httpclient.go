package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/HIkaru827/musclegram/internal/models"
)

// HTTPClient implements DataSource by calling the MuscleGram REST API.
// Used for remote MCP mode where the binary runs locally (stdio) but
// data lives on the remote server (accessed over Tailscale).
type HTTPClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// Compile-time check: HTTPClient satisfies DataSource.
var _ DataSource = (*HTTPClient)(nil)

// NewHTTPClient creates an HTTPClient targeting the given base URL.
func NewHTTPClient(baseURL, apiKey string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// getJSON issues an authenticated GET on behalf of userID and decodes the
// response into out.
func (c *HTTPClient) getJSON(ctx context.Context, userID, path string, params url.Values, out any) error {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("httpclient: create request: %w", err)
	}
	req.Header.Set("X-API-Key", c.apiKey)
	req.Header.Set("X-User-ID", userID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("httpclient: %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("httpclient: read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("httpclient: %s returned %d: %s", path, resp.StatusCode, body)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("httpclient: decode %s: %w", path, err)
	}
	return nil
}

func (c *HTTPClient) PRs(ctx context.Context, userID string, f models.PRFilter) ([]models.PRRecord, error) {
	params := url.Values{}
	if f.Exercise != "" {
		params.Set("exercise", f.Exercise)
	}
	if f.Type != "" {
		params.Set("type", string(f.Type))
	}
	var recs []models.PRRecord
	if err := c.getJSON(ctx, userID, "/api/v1/prs", params, &recs); err != nil {
		return nil, err
	}
	return recs, nil
}

func (c *HTTPClient) WeeklyPRs(ctx context.Context, userID string) ([]models.PRRecord, error) {
	var recs []models.PRRecord
	if err := c.getJSON(ctx, userID, "/api/v1/prs/weekly", nil, &recs); err != nil {
		return nil, err
	}
	return recs, nil
}

func (c *HTTPClient) PRTrend(ctx context.Context, userID, exercise string, prType models.PRType, limit int) ([]models.PRRecord, error) {
	params := url.Values{}
	params.Set("exercise", exercise)
	params.Set("type", string(prType))
	params.Set("limit", strconv.Itoa(limit))

	var recs []models.PRRecord
	if err := c.getJSON(ctx, userID, "/api/v1/prs/trend", params, &recs); err != nil {
		return nil, err
	}
	return recs, nil
}

func (c *HTTPClient) Recommendations(ctx context.Context, userID string) ([]models.NextRecommendation, error) {
	var recs []models.NextRecommendation
	if err := c.getJSON(ctx, userID, "/api/v1/recommendations", nil, &recs); err != nil {
		return nil, err
	}
	return recs, nil
}

func (c *HTTPClient) Stats(ctx context.Context, userID string) (*models.DataStats, error) {
	var stats models.DataStats
	if err := c.getJSON(ctx, userID, "/api/v1/stats", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}
