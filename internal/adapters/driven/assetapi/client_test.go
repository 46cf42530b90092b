package assetapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/campus-assist/internal/core/domain"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, cfg Config) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg.BaseURL = srv.URL + "/"
	client, err := NewClient(cfg)
	require.NoError(t, err)
	return client
}

func TestNewClient_RequiresBaseURL(t *testing.T) {
	_, err := NewClient(Config{})
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)
}

func TestSearch_SendsOnlySetFields(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "데스크탑", q.Get("asset_name"))
		assert.Equal(t, "A-1234", q.Get("asset_id"))
		assert.False(t, q.Has("identification_num"))
		assert.Equal(t, "Bearer backend-key", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"results":[{"asset_id":"A-1234","status":"운용"}],"count":1}`))
	}, Config{APIKey: "backend-key"})

	resp, err := client.Search(context.Background(), domain.AssetQuery{AssetName: "데스크탑", AssetID: "A-1234"})
	require.NoError(t, err)
	require.True(t, resp.Found())
	assert.JSONEq(t, `{"asset_id":"A-1234","status":"운용"}`, string(resp.Results[0]))
	assert.JSONEq(t, `{"results":[{"asset_id":"A-1234","status":"운용"}],"count":1}`, string(resp.Raw))
}

func TestSearch_NotFound(t *testing.T) {
	for _, body := range []string{`{"results":[]}`, `{"results":null}`, `{}`} {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(body))
		}, Config{})

		resp, err := client.Search(context.Background(), domain.AssetQuery{AssetID: "A-1"})
		require.NoError(t, err, body)
		assert.False(t, resp.Found(), body)
	}
}

func TestSearch_MalformedJSON(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>gateway</html>"))
	}, Config{})

	_, err := client.Search(context.Background(), domain.AssetQuery{AssetID: "A-1"})
	assert.ErrorIs(t, err, domain.ErrMalformedOutput)
	assert.Contains(t, err.Error(), "gateway")
}

func TestSearch_NonObject(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[1,2,3]`))
	}, Config{})

	_, err := client.Search(context.Background(), domain.AssetQuery{AssetID: "A-1"})
	assert.ErrorIs(t, err, domain.ErrMalformedOutput)
}

func TestSearch_StatusError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}, Config{})

	_, err := client.Search(context.Background(), domain.AssetQuery{AssetID: "A-1"})
	var statusErr *domain.StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusBadGateway, statusErr.StatusCode)
	assert.ErrorIs(t, err, domain.ErrServiceUnavailable)
}

func TestSearch_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"results":[{"asset_id":"A-1"}]}`))
	}, Config{RetryCount: 2})

	resp, err := client.Search(context.Background(), domain.AssetQuery{AssetID: "A-1"})
	require.NoError(t, err)
	assert.True(t, resp.Found())
	assert.Equal(t, int32(2), calls.Load())
}

func TestSearch_Timeout(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		_, _ = w.Write([]byte(`{"results":[]}`))
	}, Config{Timeout: 20 * time.Millisecond})

	_, err := client.Search(context.Background(), domain.AssetQuery{AssetID: "A-1"})
	assert.ErrorIs(t, err, domain.ErrTimeout)
}

func TestSearch_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	client, err := NewClient(Config{BaseURL: url})
	require.NoError(t, err)

	_, err = client.Search(context.Background(), domain.AssetQuery{AssetID: "A-1"})
	assert.ErrorIs(t, err, domain.ErrServiceUnavailable)
}
