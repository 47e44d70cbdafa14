package dto

import "github.com/google/uuid"

type CreateUserRequest struct {
	Email    string `json:"email" validate:"required,email"`
	FullName string `json:"full_name" validate:"required"`
}

type CreateUserResponse struct {
	Id uuid.UUID `json:"id"`
}

type UserResponse struct {
	Id       uuid.UUID              `json:"id"`
	Email    string                 `json:"email"`
	FullName string                 `json:"full_name"`
	Profile  map[string]interface{} `json:"profile"`
}

type UpdateProfileRequest struct {
	Id      uuid.UUID              `json:"-"`
	Profile map[string]interface{} `json:"profile" validate:"required"`
}

type UserContextResponse struct {
	UserID              string                   `json:"user_id"`
	Profile             map[string]interface{}   `json:"profile"`
	RecentConversations []map[string]interface{} `json:"recent_conversations"`
}

type UserInsightsResponse struct {
	UserID             string         `json:"user_id"`
	TotalConversations int64          `json:"total_conversations"`
	IntentCounts       map[string]int `json:"intent_counts"`
	SpecialistCounts   map[string]int `json:"specialist_counts"`
	TopIntent          string         `json:"top_intent"`
	LastActiveAt       string         `json:"last_active_at,omitempty"`
}
