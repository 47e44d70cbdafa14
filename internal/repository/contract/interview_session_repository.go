package contract

import (
	"context"

	"career-coach-be/internal/entity"
	"career-coach-be/internal/repository/specification"

	"github.com/google/uuid"
)

type InterviewSessionRepository interface {
	Create(ctx context.Context, session *entity.InterviewSession) error
	Update(ctx context.Context, session *entity.InterviewSession) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.InterviewSession, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.InterviewSession, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)

	// FindActiveBySession returns the active interview for a chat session,
	// or nil when none is running.
	FindActiveBySession(ctx context.Context, sessionId string) (*entity.InterviewSession, error)
}
