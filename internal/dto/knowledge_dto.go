package dto

import "github.com/google/uuid"

type CreateKnowledgeDocumentRequest struct {
	Title   string `json:"title" validate:"required"`
	Source  string `json:"source" validate:"required"`
	Content string `json:"content" validate:"required"`
}

type CreateKnowledgeDocumentResponse struct {
	Id     uuid.UUID `json:"id"`
	Status string    `json:"status"`
}

type KnowledgeDocumentResponse struct {
	Id     uuid.UUID `json:"id"`
	Title  string    `json:"title"`
	Source string    `json:"source"`
	Status string    `json:"status"`
	Chunks int64     `json:"chunks"`
}

type KnowledgeQueryRequest struct {
	Query string `json:"query" validate:"required"`
	TopK  int    `json:"top_k"`
}

type KnowledgeSnippetDTO struct {
	Content string  `json:"content"`
	Source  string  `json:"source"`
	Score   float64 `json:"score"`
}

type KnowledgeQueryResponse struct {
	Answer   string                `json:"answer"`
	Sources  []string              `json:"sources"`
	Snippets []KnowledgeSnippetDTO `json:"snippets"`
}
