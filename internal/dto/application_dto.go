package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateApplicationRequest struct {
	UserID   string `json:"user_id" validate:"required"`
	Company  string `json:"company" validate:"required"`
	Role     string `json:"role" validate:"required"`
	Location string `json:"location"`
	Notes    string `json:"notes"`
}

type CreateApplicationResponse struct {
	Id uuid.UUID `json:"id"`
}

type UpdateApplicationStatusRequest struct {
	Id     uuid.UUID `json:"-"`
	UserID string    `json:"user_id" validate:"required"`
	Status string    `json:"status" validate:"required"`
	Note   string    `json:"note"`
}

type ApplicationResponse struct {
	Id        uuid.UUID               `json:"id"`
	Company   string                  `json:"company"`
	Role      string                  `json:"role"`
	Status    string                  `json:"status"`
	Location  string                  `json:"location,omitempty"`
	Notes     string                  `json:"notes,omitempty"`
	History   []ApplicationEventDTO   `json:"history,omitempty"`
	AppliedAt time.Time               `json:"applied_at"`
}

type ApplicationEventDTO struct {
	Status string    `json:"status"`
	Note   string    `json:"note,omitempty"`
	At     time.Time `json:"at"`
}
