package rag

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sandevgo/twinbot/internal/config"
	"github.com/sandevgo/twinbot/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEmbedder(url string) *Embedder {
	return NewEmbedder(&config.EmbeddingConfig{BaseURL: url + "/v1/", Model: "text-embedding-3-small", APIKey: "sk"})
}

func TestEmbedder_EmbedBatchReordersByIndex(t *testing.T) {
	var got embeddingRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/embeddings", r.URL.Path)
		assert.Equal(t, "Bearer sk", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"data":[
			{"index":1,"embedding":[0,1]},
			{"index":0,"embedding":[1,0]}
		]}`))
	}))
	defer srv.Close()

	vectors, err := newTestEmbedder(srv.URL).EmbedBatch(context.Background(), []string{"first", "second"})
	require.NoError(t, err)

	assert.Equal(t, "text-embedding-3-small", got.Model)
	assert.Equal(t, []string{"first", "second"}, got.Input)
	assert.Equal(t, [][]float32{{1, 0}, {0, 1}}, vectors)
}

func TestEmbedder_Embed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":[{"index":0,"embedding":[0.5,0.5]}]}`))
	}))
	defer srv.Close()

	v, err := newTestEmbedder(srv.URL).Embed(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, []float32{0.5, 0.5}, v)
}

func TestEmbedder_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{name: "rate limited", status: http.StatusTooManyRequests, body: `slow down`},
		{name: "missing vector", status: http.StatusOK, body: `{"data":[{"index":0,"embedding":[1]}]}`},
		{name: "index out of range", status: http.StatusOK, body: `{"data":[{"index":5,"embedding":[1]}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := newTestEmbedder(srv.URL).EmbedBatch(context.Background(), []string{"a", "b"})
			require.Error(t, err)
			assert.True(t, core.IsProviderError(err))
		})
	}
}

func TestEmbedder_EmptyBatch(t *testing.T) {
	vectors, err := newTestEmbedder("http://unused").EmbedBatch(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, vectors)
}

func TestTokenizer(t *testing.T) {
	tok := NewTokenizer()

	assert.Equal(t, 0, tok.CountTokens(""))
	assert.Positive(t, tok.CountTokens("I study computer science."))

	short := "Graduating in May 2026."
	assert.Equal(t, short, tok.Truncate(short, 100))

	long := strings.Repeat("calendar ", 2000)
	cut := tok.Truncate(long, 10)
	assert.Less(t, len(cut), len(long))
	assert.LessOrEqual(t, tok.CountTokens(cut), 12)
}
