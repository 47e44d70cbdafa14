package entity

import (
	"time"

	"github.com/google/uuid"
)

type KnowledgeDocument struct {
	Id        uuid.UUID
	Title     string
	Source    string
	Content   string
	Status    string
	CreatedAt time.Time
	UpdatedAt *time.Time
	DeletedAt *time.Time
	IsDeleted bool
}

type KnowledgeChunk struct {
	Id             uuid.UUID
	DocumentId     uuid.UUID
	Content        string
	Source         string
	EmbeddingValue []float32
	ChunkIndex     int
	CreatedAt      time.Time
	UpdatedAt      *time.Time
	DeletedAt      *time.Time
	IsDeleted      bool
}
