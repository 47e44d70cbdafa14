package entity

import (
	"time"

	"github.com/google/uuid"
)

type InterviewSession struct {
	Id           uuid.UUID
	UserId       string
	SessionId    string
	TargetRole   string
	Status       string
	Questions    []map[string]any
	Answers      []map[string]any
	AverageScore *float64
	OverallLevel string
	SummaryText  string
	EmailedAt    *time.Time
	CreatedAt    time.Time
	UpdatedAt    *time.Time
	DeletedAt    *time.Time
	IsDeleted    bool
}
