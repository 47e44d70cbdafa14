package service

import (
	"context"
	"fmt"
	"time"

	"career-coach-be/internal/dto"
	"career-coach-be/internal/entity"
	"career-coach-be/internal/repository/specification"
	"career-coach-be/internal/repository/unitofwork"
	"career-coach-be/pkg/coach/state"

	"github.com/google/uuid"
)

type IUserService interface {
	Create(ctx context.Context, req *dto.CreateUserRequest) (*dto.CreateUserResponse, error)
	Show(ctx context.Context, id uuid.UUID) (*dto.UserResponse, error)
	UpdateProfile(ctx context.Context, req *dto.UpdateProfileRequest) (*dto.UserResponse, error)
	Context(ctx context.Context, userKey string) (*dto.UserContextResponse, error)
	Insights(ctx context.Context, userKey string) (*dto.UserInsightsResponse, error)
}

type userService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewUserService(uowFactory unitofwork.RepositoryFactory) IUserService {
	return &userService{uowFactory: uowFactory}
}

func (s *userService) Create(ctx context.Context, req *dto.CreateUserRequest) (*dto.CreateUserResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	existing, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: req.Email})
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("email %s is already registered", req.Email)
	}

	user := entity.User{
		Id:        uuid.New(),
		Email:     req.Email,
		FullName:  req.FullName,
		Profile:   map[string]any{},
		CreatedAt: time.Now(),
	}
	if err := uow.UserRepository().Create(ctx, &user); err != nil {
		return nil, err
	}

	return &dto.CreateUserResponse{Id: user.Id}, nil
}

func (s *userService) Show(ctx context.Context, id uuid.UUID) (*dto.UserResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, nil
	}

	return &dto.UserResponse{
		Id:       user.Id,
		Email:    user.Email,
		FullName: user.FullName,
		Profile:  user.Profile,
	}, nil
}

// UpdateProfile merges the submitted fields into the stored profile using
// the same merge rules the memory gateway applies, so manual edits and
// inferred updates compose predictably.
func (s *userService) UpdateProfile(ctx context.Context, req *dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: req.Id})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, nil
	}

	user.Profile = state.MergeProfile(user.Profile, req.Profile)
	if err := uow.UserRepository().Update(ctx, user); err != nil {
		return nil, err
	}

	return &dto.UserResponse{
		Id:       user.Id,
		Email:    user.Email,
		FullName: user.FullName,
		Profile:  user.Profile,
	}, nil
}

func (s *userService) findByKey(ctx context.Context, userKey string) (*entity.User, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if id, err := uuid.Parse(userKey); err == nil {
		return uow.UserRepository().FindOne(ctx, specification.ByID{ID: id})
	}
	return uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: userKey})
}

// Context returns the same view of a user the memory gateway loads before
// routing: stored profile plus the most recent conversations.
func (s *userService) Context(ctx context.Context, userKey string) (*dto.UserContextResponse, error) {
	user, err := s.findByKey(ctx, userKey)
	if err != nil {
		return nil, err
	}

	profile := map[string]any{}
	if user != nil && user.Profile != nil {
		profile = user.Profile
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	conversations, err := uow.ConversationRepository().FindRecentByUser(ctx, userKey, 10)
	if err != nil {
		return nil, err
	}

	recent := make([]map[string]any, 0, len(conversations))
	for _, c := range conversations {
		recent = append(recent, map[string]any{
			"session_id": c.SessionId,
			"message":    c.Query,
			"response":   c.Response,
			"intent":     c.Intent,
			"agent_used": c.Specialist,
			"created_at": c.CreatedAt.Format(time.RFC3339),
		})
	}

	return &dto.UserContextResponse{
		UserID:              userKey,
		Profile:             profile,
		RecentConversations: recent,
	}, nil
}

// Insights aggregates conversation history into per-intent and
// per-specialist counts.
func (s *userService) Insights(ctx context.Context, userKey string) (*dto.UserInsightsResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	total, err := uow.ConversationRepository().Count(ctx, specification.ByUserId{UserId: userKey})
	if err != nil {
		return nil, err
	}

	conversations, err := uow.ConversationRepository().FindRecentByUser(ctx, userKey, 100)
	if err != nil {
		return nil, err
	}

	insights := &dto.UserInsightsResponse{
		UserID:             userKey,
		TotalConversations: total,
		IntentCounts:       map[string]int{},
		SpecialistCounts:   map[string]int{},
	}

	topCount := 0
	for _, c := range conversations {
		insights.IntentCounts[c.Intent]++
		insights.SpecialistCounts[c.Specialist]++
		if insights.IntentCounts[c.Intent] > topCount {
			topCount = insights.IntentCounts[c.Intent]
			insights.TopIntent = c.Intent
		}
	}
	if len(conversations) > 0 {
		insights.LastActiveAt = conversations[0].CreatedAt.Format(time.RFC3339)
	}

	return insights, nil
}
