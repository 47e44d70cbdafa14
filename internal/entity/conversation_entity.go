package entity

import (
	"time"

	"github.com/google/uuid"
)

type Conversation struct {
	Id         uuid.UUID
	UserId     string
	SessionId  string
	Query      string
	Response   string
	Intent     string
	Specialist string
	Metadata   map[string]any
	CreatedAt  time.Time
	UpdatedAt  *time.Time
	DeletedAt  *time.Time
	IsDeleted  bool
}
