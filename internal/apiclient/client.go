package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/yourusername/quant-share/internal/models"
)

// Client is a typed client for the result sharing API.
type Client struct {
	baseURL string
	http    *RateLimitedHTTPClient
}

// ListParams mirrors the query parameters of GET /shared-results.
type ListParams struct {
	Query          string
	Limit          int
	Offset         int
	MinTotalReturn *float64
	MaxDrawdown    *float64
	MinSharpeRatio *float64
	SortBy         string
}

// ListResult is one page of shared results plus the total match count.
type ListResult struct {
	Results []*models.SharedResult
	Total   int
	Count   int
}

// APIError is a non-2xx response from the service.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (status %d): %s", e.StatusCode, e.Message)
}

// NewClient creates a client for the service at baseURL.
func NewClient(baseURL string, cfg HTTPClientConfig, logger *log.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    NewRateLimitedHTTPClient(cfg, logger),
	}
}

// ShareResult submits one result and returns the server-assigned id.
func (c *Client) ShareResult(ctx context.Context, result *models.SharedResult) (string, error) {
	body, err := json.Marshal(result)
	if err != nil {
		return "", fmt.Errorf("failed to encode result: %w", err)
	}

	resp, err := c.http.Post(ctx, c.baseURL+"/share-result", "application/json", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", apiError(resp)
	}

	var parsed struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("failed to decode share response: %w", err)
	}
	return parsed.Data.ID, nil
}

// ListResults fetches one page of results matching the given parameters.
func (c *Client) ListResults(ctx context.Context, params ListParams) (*ListResult, error) {
	values := url.Values{}
	if params.Query != "" {
		values.Set("query", params.Query)
	}
	if params.Limit > 0 {
		values.Set("limit", strconv.Itoa(params.Limit))
	}
	if params.Offset > 0 {
		values.Set("offset", strconv.Itoa(params.Offset))
	}
	if params.MinTotalReturn != nil {
		values.Set("min_total_return", formatFloat(*params.MinTotalReturn))
	}
	if params.MaxDrawdown != nil {
		values.Set("max_drawdown", formatFloat(*params.MaxDrawdown))
	}
	if params.MinSharpeRatio != nil {
		values.Set("min_sharpe_ratio", formatFloat(*params.MinSharpeRatio))
	}
	if params.SortBy != "" {
		values.Set("sort_by", params.SortBy)
	}

	endpoint := c.baseURL + "/shared-results"
	if encoded := values.Encode(); encoded != "" {
		endpoint += "?" + encoded
	}

	resp, err := c.http.Get(ctx, endpoint)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apiError(resp)
	}

	var parsed struct {
		Data  []*models.SharedResult `json:"data"`
		Total int                    `json:"total"`
		Count int                    `json:"count"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode list response: %w", err)
	}
	return &ListResult{Results: parsed.Data, Total: parsed.Total, Count: parsed.Count}, nil
}

// RateResult overwrites the rating of a stored result.
func (c *Client) RateResult(ctx context.Context, id string, rating float64) error {
	body, err := json.Marshal(map[string]interface{}{"id": id, "rating": rating})
	if err != nil {
		return fmt.Errorf("failed to encode rating request: %w", err)
	}

	resp, err := c.http.Post(ctx, c.baseURL+"/rate-result", "application/json", bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return apiError(resp)
	}
	return nil
}

// Health checks the /health endpoint.
func (c *Client) Health(ctx context.Context) error {
	resp, err := c.http.Get(ctx, c.baseURL+"/health")
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return apiError(resp)
	}
	return nil
}

// Close releases the underlying HTTP client resources.
func (c *Client) Close() error {
	return c.http.Close()
}

func apiError(resp *http.Response) error {
	var parsed struct {
		Error string `json:"error"`
	}
	data, _ := io.ReadAll(resp.Body)
	if err := json.Unmarshal(data, &parsed); err != nil || parsed.Error == "" {
		parsed.Error = strings.TrimSpace(string(data))
	}
	return &APIError{StatusCode: resp.StatusCode, Message: parsed.Error}
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
