package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOllamaJoinsStreamedChunks(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate", r.URL.Path)

		var req ollamaRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "llama3", req.Model)

		enc := json.NewEncoder(w)
		enc.Encode(ollamaResponse{Response: "La motivación "})
		enc.Encode(ollamaResponse{Response: "es un constructo."})
		enc.Encode(ollamaResponse{Done: true})
	}))
	defer srv.Close()

	o := NewOllama(srv.URL, "llama3")
	out, err := o.Invoke(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, "La motivación es un constructo.", out)
}

func TestOllamaSurfacesServerErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer srv.Close()

	o := NewOllama(srv.URL, "missing")
	_, err := o.Invoke(context.Background(), "prompt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model not found")
}
