package service

import (
	"context"
	"time"

	"career-coach-be/internal/entity"
	"career-coach-be/internal/repository/specification"
	"career-coach-be/internal/repository/unitofwork"
	"career-coach-be/pkg/coach/agent"

	"github.com/google/uuid"
)

// memoryStoreService adapts the relational repositories to the memory
// gateway. Users are keyed by external string ids: when the id parses as a
// UUID it is matched against users.id, otherwise against users.email.
type memoryStoreService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewMemoryStoreService(uowFactory unitofwork.RepositoryFactory) agent.MemoryStore {
	return &memoryStoreService{
		uowFactory: uowFactory,
	}
}

func (s *memoryStoreService) findUser(ctx context.Context, userID string) (*entity.User, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if id, err := uuid.Parse(userID); err == nil {
		return uow.UserRepository().FindOne(ctx, specification.ByID{ID: id})
	}
	return uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: userID})
}

func (s *memoryStoreService) GetProfile(ctx context.Context, userID string) (map[string]interface{}, error) {
	user, err := s.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil || user.Profile == nil {
		return map[string]interface{}{}, nil
	}
	return user.Profile, nil
}

func (s *memoryStoreService) GetRecentConversations(ctx context.Context, userID string, limit int) ([]map[string]interface{}, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	conversations, err := uow.ConversationRepository().FindRecentByUser(ctx, userID, limit)
	if err != nil {
		return nil, err
	}

	out := make([]map[string]interface{}, 0, len(conversations))
	for _, c := range conversations {
		out = append(out, map[string]interface{}{
			"session_id": c.SessionId,
			"message":    c.Query,
			"response":   c.Response,
			"intent":     c.Intent,
			"agent_used": c.Specialist,
			"created_at": c.CreatedAt.Format(time.RFC3339),
		})
	}
	return out, nil
}

func (s *memoryStoreService) SaveConversation(ctx context.Context, rec agent.ConversationRecord) (string, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	conversation := entity.Conversation{
		Id:         uuid.New(),
		UserId:     rec.UserID,
		SessionId:  rec.SessionID,
		Query:      rec.Message,
		Response:   rec.Response,
		Intent:     rec.Intent,
		Specialist: rec.AgentUsed,
		Metadata:   rec.Metadata,
		CreatedAt:  time.Now(),
	}
	if err := uow.ConversationRepository().Create(ctx, &conversation); err != nil {
		return "", err
	}
	return conversation.Id.String(), nil
}

func (s *memoryStoreService) SaveProfile(ctx context.Context, userID string, profile map[string]interface{}) error {
	user, err := s.findUser(ctx, userID)
	if err != nil {
		return err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if user == nil {
		// First contact: register a shadow user so the profile survives.
		email := userID
		if _, err := uuid.Parse(userID); err == nil {
			email = userID + "@unknown.local"
		}
		user = &entity.User{
			Id:        uuid.New(),
			Email:     email,
			FullName:  userID,
			Profile:   profile,
			CreatedAt: time.Now(),
		}
		return uow.UserRepository().Create(ctx, user)
	}

	user.Profile = profile
	return uow.UserRepository().Update(ctx, user)
}
