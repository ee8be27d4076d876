package embedding

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func embedServer(t *testing.T, dim int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		vec := make([]float32, dim)
		for i := range vec {
			vec[i] = float32(i) * 0.01
		}
		resp := map[string]any{
			"object": "list",
			"data": []map[string]any{
				{"object": "embedding", "index": 0, "embedding": vec},
			},
			"model": "text-embedding-3-small",
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
}

func TestNewOpenAI_RequiresAPIKey(t *testing.T) {
	_, err := NewOpenAI("", "", "", 0)
	assert.Error(t, err)
}

func TestNewOpenAI_Defaults(t *testing.T) {
	e, err := NewOpenAI("test-key", "", "", 0)
	require.NoError(t, err)
	assert.Equal(t, 1536, e.Dimension())
}

func TestOpenAI_Embed(t *testing.T) {
	srv := embedServer(t, 8)
	defer srv.Close()

	e, err := NewOpenAI("test-key", srv.URL, "text-embedding-3-small", 8)
	require.NoError(t, err)

	vec, err := e.Embed(context.Background(), "quarterly earnings beat expectations")
	require.NoError(t, err)
	assert.Len(t, vec, 8)
}

func TestOpenAI_Embed_DimensionMismatch(t *testing.T) {
	srv := embedServer(t, 4)
	defer srv.Close()

	e, err := NewOpenAI("test-key", srv.URL, "text-embedding-3-small", 8)
	require.NoError(t, err)

	_, err = e.Embed(context.Background(), "some text")
	assert.ErrorContains(t, err, "dimension mismatch")
}
