package contract

import (
	"context"

	"career-coach-be/internal/entity"
	"career-coach-be/internal/repository/specification"

	"github.com/google/uuid"
)

type ConversationRepository interface {
	Create(ctx context.Context, conversation *entity.Conversation) error
	Update(ctx context.Context, conversation *entity.Conversation) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Conversation, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Conversation, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)

	// FindRecentByUser returns the newest conversations for a user,
	// newest first.
	FindRecentByUser(ctx context.Context, userId string, limit int) ([]*entity.Conversation, error)
}
