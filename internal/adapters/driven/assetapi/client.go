package assetapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"

	"github.com/custodia-labs/campus-assist/internal/core/domain"
	"github.com/custodia-labs/campus-assist/internal/core/ports/driven"
)

// Ensure Client implements AssetAPI
var _ driven.AssetAPI = (*Client)(nil)

const (
	serviceName = "asset api"

	// DefaultTimeout bounds a single search request
	DefaultTimeout = 5 * time.Second

	previewLength = 100
)

// Config holds the backend connection settings
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	APIKey     string
	RetryCount int
}

// Client calls the backend asset search endpoint
type Client struct {
	client *resty.Client
}

// NewClient creates an asset API client
func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("%w: asset api base url is required", domain.ErrInvalidConfig)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout).
		SetHeader("Accept", "application/json").
		SetRetryCount(cfg.RetryCount).
		SetRetryWaitTime(100 * time.Millisecond).
		SetRetryMaxWaitTime(time.Second)
	if cfg.APIKey != "" {
		client.SetAuthToken(cfg.APIKey)
	}
	client.AddRetryCondition(retryCondition)

	return &Client{client: client}, nil
}

// retryCondition retries transport failures and 5xx responses
func retryCondition(r *resty.Response, err error) bool {
	if err != nil {
		return true
	}
	if r == nil {
		return false
	}
	return r.StatusCode() >= http.StatusInternalServerError
}

// Search queries GET /search with the non-empty lookup fields
func (c *Client) Search(ctx context.Context, query domain.AssetQuery) (*domain.AssetSearchResponse, error) {
	params := map[string]string{}
	if query.IdentificationNum != "" {
		params["identification_num"] = query.IdentificationNum
	}
	if query.AssetID != "" {
		params["asset_id"] = query.AssetID
	}
	if query.AssetName != "" {
		params["asset_name"] = query.AssetName
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(params).
		Get("/search")
	if err != nil {
		return nil, classifyError(err)
	}
	if resp.IsError() || resp.StatusCode() >= 300 {
		return nil, &domain.StatusError{Service: serviceName, StatusCode: resp.StatusCode()}
	}

	return parseResponse(resp.Body())
}

// parseResponse reads the results list from a search payload.
// A missing, null or empty results field means nothing matched.
func parseResponse(body []byte) (*domain.AssetSearchResponse, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: invalid json (response preview: %q)", domain.ErrMalformedOutput, preview(body))
	}
	doc := gjson.ParseBytes(body)
	if !doc.IsObject() {
		return nil, fmt.Errorf("%w: expected a json object (response preview: %q)", domain.ErrMalformedOutput, preview(body))
	}

	out := &domain.AssetSearchResponse{
		Results: []json.RawMessage{},
		Raw:     json.RawMessage(body),
	}

	results := doc.Get("results")
	switch {
	case results.IsArray():
		for _, r := range results.Array() {
			out.Results = append(out.Results, json.RawMessage(r.Raw))
		}
	case results.Exists() && results.Bool(), results.IsObject():
		out.Results = append(out.Results, json.RawMessage(results.Raw))
	}
	return out, nil
}

func preview(body []byte) string {
	s := string(body)
	if r := []rune(s); len(r) > previewLength {
		return string(r[:previewLength])
	}
	return s
}

func classifyError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %s: %v", domain.ErrTimeout, serviceName, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %s: %v", domain.ErrTimeout, serviceName, err)
	}
	return fmt.Errorf("%w: %s: %v", domain.ErrServiceUnavailable, serviceName, err)
}
