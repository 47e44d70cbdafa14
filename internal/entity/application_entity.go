package entity

import (
	"time"

	"github.com/google/uuid"
)

type ApplicationEvent struct {
	Status string    `json:"status"`
	Note   string    `json:"note,omitempty"`
	At     time.Time `json:"at"`
}

type Application struct {
	Id        uuid.UUID
	UserId    string
	Company   string
	Role      string
	Status    string
	Location  string
	Notes     string
	History   []ApplicationEvent
	AppliedAt time.Time
	CreatedAt time.Time
	UpdatedAt *time.Time
	DeletedAt *time.Time
	IsDeleted bool
}
