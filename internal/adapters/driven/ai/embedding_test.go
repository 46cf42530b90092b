package ai

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/campus-assist/internal/core/domain"
)

// fakeEmbedder returns a vector derived from text length and counts calls
type fakeEmbedder struct {
	queryCalls int
	lastQuery  string
	err        error
	short      bool
}

func (f *fakeEmbedder) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([][]float32, 0, len(texts))
	for _, t := range texts {
		out = append(out, []float32{float32(len(t)), 1})
	}
	if f.short {
		out = out[:len(out)-1]
	}
	return out, nil
}

func (f *fakeEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	f.queryCalls++
	f.lastQuery = text
	if f.err != nil {
		return nil, f.err
	}
	return []float32{float32(len(text)), 1}, nil
}

func TestEmbedder_EmbedQueryCaches(t *testing.T) {
	impl := &fakeEmbedder{}
	e, err := NewEmbedder(impl, "text-embedding-3-small", 0, 8)
	require.NoError(t, err)

	first, err := e.EmbedQuery(context.Background(), "노트북 반납")
	require.NoError(t, err)
	first[0] = 999 // caller mutation must not leak into the cache

	second, err := e.EmbedQuery(context.Background(), " 노트북 반납 ")
	require.NoError(t, err)

	assert.Equal(t, 1, impl.queryCalls)
	assert.NotEqual(t, float32(999), second[0])
	assert.Equal(t, 1536, e.Dimensions())
	assert.Equal(t, "text-embedding-3-small", e.Model())
}

func TestEmbedder_EmbedQueryTrimsInput(t *testing.T) {
	impl := &fakeEmbedder{}
	e, err := NewEmbedder(impl, "m", 2, 8)
	require.NoError(t, err)

	vector, err := e.EmbedQuery(context.Background(), "  프로젝터 \n")
	require.NoError(t, err)

	assert.Equal(t, "프로젝터", impl.lastQuery)
	cached, err := e.EmbedQuery(context.Background(), "프로젝터")
	require.NoError(t, err)
	assert.Equal(t, vector, cached)
	assert.Equal(t, 1, impl.queryCalls)
}

func TestEmbedder_NoCache(t *testing.T) {
	impl := &fakeEmbedder{}
	e, err := NewEmbedder(impl, "custom", 64, 0)
	require.NoError(t, err)

	_, _ = e.EmbedQuery(context.Background(), "q")
	_, _ = e.EmbedQuery(context.Background(), "q")

	assert.Equal(t, 2, impl.queryCalls)
	assert.Equal(t, 64, e.Dimensions())
}

func TestEmbedder_Embed(t *testing.T) {
	e, err := NewEmbedder(&fakeEmbedder{}, "m", 2, 0)
	require.NoError(t, err)

	vectors, err := e.Embed(context.Background(), []string{"a", "bb"})
	require.NoError(t, err)
	assert.Equal(t, [][]float32{{1, 1}, {2, 1}}, vectors)

	vectors, err = e.Embed(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, vectors)

	e, err = NewEmbedder(&fakeEmbedder{short: true}, "m", 2, 0)
	require.NoError(t, err)
	_, err = e.Embed(context.Background(), []string{"a", "b"})
	assert.ErrorIs(t, err, domain.ErrMalformedOutput)
}

func TestEmbedder_Errors(t *testing.T) {
	e, err := NewEmbedder(&fakeEmbedder{err: context.DeadlineExceeded}, "m", 2, 4)
	require.NoError(t, err)

	_, err = e.EmbedQuery(context.Background(), "q")
	assert.ErrorIs(t, err, domain.ErrTimeout)
	assert.ErrorIs(t, e.HealthCheck(context.Background()), domain.ErrTimeout)

	e, err = NewEmbedder(&fakeEmbedder{err: errors.New("bad request")}, "m", 2, 4)
	require.NoError(t, err)
	_, err = e.EmbedQuery(context.Background(), "q")
	assert.Error(t, err)
	assert.False(t, domain.IsTransient(err))

	_, err = NewEmbedder(nil, "m", 2, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)
}

func TestEmbedder_Close(t *testing.T) {
	impl := &fakeEmbedder{}
	e, err := NewEmbedder(impl, "m", 2, 4)
	require.NoError(t, err)

	_, _ = e.EmbedQuery(context.Background(), "q")
	require.NoError(t, e.Close())
	_, _ = e.EmbedQuery(context.Background(), "q")

	assert.Equal(t, 2, impl.queryCalls)
}
