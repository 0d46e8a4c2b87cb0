package processing

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func embeddingServer(t *testing.T, dim int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/embeddings", r.URL.Path)
		json.NewEncoder(w).Encode(embedResponse{Embedding: make([]float32, dim)})
	}))
}

func TestEmbedChunks(t *testing.T) {
	srv := embeddingServer(t, EmbeddingDim)
	defer srv.Close()

	e := NewEmbedder(srv.URL, "nomic-embed-text")
	embs, err := e.EmbedChunks(context.Background(), []string{"uno", "dos"})
	require.NoError(t, err)
	require.Len(t, embs, 2)
	assert.Len(t, embs[0], EmbeddingDim)
}

func TestEmbedChunksRejectsEmptyInput(t *testing.T) {
	e := NewEmbedder("http://unused", "m")
	_, err := e.EmbedChunks(context.Background(), nil)
	assert.Error(t, err)
}

func TestQueryEmbeddingChecksDimension(t *testing.T) {
	srv := embeddingServer(t, 64)
	defer srv.Close()

	e := NewEmbedder(srv.URL, "nomic-embed-text")
	_, err := e.QueryEmbedding(context.Background(), "consulta")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected embedding dim")

	_, err = e.QueryEmbedding(context.Background(), "")
	assert.Error(t, err)
}
