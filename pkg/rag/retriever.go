package rag

import (
	"context"
	"fmt"

	"career-coach-be/internal/pkg/logger"
	"career-coach-be/internal/repository/contract"
	"career-coach-be/pkg/coach/agent"
	"career-coach-be/pkg/embedding"
)

// similarityThreshold filters out chunks with weak cosine similarity so the
// knowledge agent does not stitch unrelated guide text into an answer.
const similarityThreshold = 0.3

// KnowledgeRetriever answers similarity queries over the knowledge_chunks
// table using pgvector cosine distance.
type KnowledgeRetriever struct {
	chunks            contract.KnowledgeChunkRepository
	embeddingProvider embedding.EmbeddingProvider
	logger            logger.ILogger
}

func NewKnowledgeRetriever(chunks contract.KnowledgeChunkRepository, embeddingProvider embedding.EmbeddingProvider, log logger.ILogger) *KnowledgeRetriever {
	return &KnowledgeRetriever{
		chunks:            chunks,
		embeddingProvider: embeddingProvider,
		logger:            log,
	}
}

func (r *KnowledgeRetriever) Query(ctx context.Context, text string, k int) ([]agent.Snippet, error) {
	if text == "" {
		return []agent.Snippet{}, nil
	}

	resp, err := r.embeddingProvider.Generate(text, "RETRIEVAL_QUERY")
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	scored, err := r.chunks.SearchSimilarWithScore(ctx, resp.Embedding.Values, k, similarityThreshold)
	if err != nil {
		return nil, fmt.Errorf("search chunks: %w", err)
	}

	snippets := make([]agent.Snippet, 0, len(scored))
	for _, sc := range scored {
		if sc.Chunk == nil {
			continue
		}
		snippets = append(snippets, agent.Snippet{
			Content: sc.Chunk.Content,
			Source:  sc.Chunk.Source,
			Score:   sc.Similarity,
		})
	}

	r.logger.Debug("rag", "knowledge retrieval done", map[string]interface{}{
		"hits": len(snippets),
		"k":    k,
	})
	return snippets, nil
}
