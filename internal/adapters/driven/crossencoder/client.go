package crossencoder

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/custodia-labs/campus-assist/internal/core/domain"
	"github.com/custodia-labs/campus-assist/internal/core/ports/driven"
)

// Ensure Client implements CrossEncoder and Loader implements CrossEncoderLoader
var (
	_ driven.CrossEncoder       = (*Client)(nil)
	_ driven.CrossEncoderLoader = (*Loader)(nil)
)

const serviceName = "cross-encoder"

// Client scores pairs against a text-embeddings-inference style /rerank endpoint
type Client struct {
	baseURL string
	model   string
	client  *http.Client
}

// Loader resolves model names to scoring endpoints.
// Endpoints maps a model name to its server; models not listed use DefaultURL.
type Loader struct {
	DefaultURL string
	Endpoints  map[string]string
	Timeout    time.Duration
}

// NewLoader creates a loader that sends every model to baseURL
func NewLoader(baseURL string, timeout time.Duration) *Loader {
	return &Loader{DefaultURL: baseURL, Timeout: timeout}
}

// Load checks the scoring server is up and serves the requested model.
// A server that reports a different model id is a configuration error.
func (l *Loader) Load(ctx context.Context, model string) (driven.CrossEncoder, error) {
	if model == "" {
		return nil, fmt.Errorf("%w: cross-encoder model is required", domain.ErrInvalidConfig)
	}

	baseURL := l.DefaultURL
	if u, ok := l.Endpoints[model]; ok {
		baseURL = u
	}
	if baseURL == "" {
		return nil, fmt.Errorf("%w: no endpoint for cross-encoder model %s", domain.ErrInvalidConfig, model)
	}

	timeout := l.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		client:  &http.Client{Timeout: timeout},
	}

	body, err := c.do(ctx, http.MethodGet, "/info", nil)
	if err != nil {
		return nil, err
	}

	served := gjson.GetBytes(body, "model_id").String()
	if served != "" && served != model {
		return nil, fmt.Errorf("%w: endpoint %s serves %s, not %s", domain.ErrInvalidConfig, c.baseURL, served, model)
	}
	return c, nil
}

// Model returns the scoring model name
func (c *Client) Model() string {
	return c.model
}

// rerankRequest is the request body for the /rerank endpoint
type rerankRequest struct {
	Query     string   `json:"query"`
	Texts     []string `json:"texts"`
	RawScores bool     `json:"raw_scores"`
}

// rerankScore is one entry of the /rerank response
type rerankScore struct {
	Index int      `json:"index"`
	Score *float64 `json:"score"`
}

// Score returns one raw relevance score per text, in input order
func (c *Client) Score(ctx context.Context, query string, texts []string) ([]float64, error) {
	if len(texts) == 0 {
		return []float64{}, nil
	}

	payload, err := json.Marshal(rerankRequest{Query: query, Texts: texts, RawScores: true})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	body, err := c.do(ctx, http.MethodPost, "/rerank", payload)
	if err != nil {
		return nil, err
	}

	var entries []rerankScore
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, fmt.Errorf("%w: failed to parse rerank response: %v", domain.ErrMalformedOutput, err)
	}
	if len(entries) != len(texts) {
		return nil, fmt.Errorf("%w: got %d scores for %d texts", domain.ErrMalformedOutput, len(entries), len(texts))
	}

	// The server sorts by score; put results back in input order.
	scores := make([]float64, len(texts))
	seen := make([]bool, len(texts))
	for _, e := range entries {
		if e.Index < 0 || e.Index >= len(texts) || seen[e.Index] || e.Score == nil {
			return nil, fmt.Errorf("%w: invalid rerank entry for index %d", domain.ErrMalformedOutput, e.Index)
		}
		scores[e.Index] = *e.Score
		seen[e.Index] = true
	}
	return scores, nil
}

// do sends a request and returns the body of a 2xx response
func (c *Client) do(ctx context.Context, method, path string, payload []byte) ([]byte, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", domain.ErrInvalidConfig, err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, classifyError(path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, classifyError(path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &domain.StatusError{Service: serviceName, StatusCode: resp.StatusCode}
	}
	return body, nil
}

func classifyError(op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %s %s: %v", domain.ErrTimeout, serviceName, op, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %s %s: %v", domain.ErrTimeout, serviceName, op, err)
	}
	return fmt.Errorf("%w: %s %s: %v", domain.ErrServiceUnavailable, serviceName, op, err)
}
