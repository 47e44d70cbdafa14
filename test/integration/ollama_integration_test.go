package integration

import (
	"net/http"
	"os"
	"testing"
	"time"

	"career-coach-be/pkg/embedding"

	"github.com/stretchr/testify/assert"
)

// Requires a local Ollama instance with nomic-embed-text pulled.
// Skips automatically when the server is unreachable.

func ollamaAvailable(baseURL string) bool {
	client := http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(baseURL + "/api/tags")
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == 200
}

func TestOllamaEmbedding(t *testing.T) {
	baseURL := os.Getenv("OLLAMA_BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}

	if !ollamaAvailable(baseURL) {
		t.Skip("Skipping integration test: Ollama not reachable at " + baseURL)
	}

	provider := embedding.NewOllamaProvider(baseURL, os.Getenv("OLLAMA_EMBEDDING_MODEL"))

	t.Run("Document embedding", func(t *testing.T) {
		resp, err := provider.Generate("The STAR method structures behavioral interview answers.", "RETRIEVAL_DOCUMENT")
		assert.NoError(t, err)
		assert.NotNil(t, resp)
		assert.NotEmpty(t, resp.Embedding.Values)
		t.Logf("Embedding dimensions: %d", len(resp.Embedding.Values))
	})

	t.Run("Query and document embeddings differ", func(t *testing.T) {
		doc, err := provider.Generate("salary negotiation tips", "RETRIEVAL_DOCUMENT")
		assert.NoError(t, err)

		query, err := provider.Generate("salary negotiation tips", "RETRIEVAL_QUERY")
		assert.NoError(t, err)

		assert.Equal(t, len(doc.Embedding.Values), len(query.Embedding.Values))
	})
}
