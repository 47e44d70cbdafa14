package service

import (
	"context"
	"strings"

	"career-coach-be/internal/pkg/logger"
	"career-coach-be/pkg/coach/agent"
	"career-coach-be/pkg/coach/state"
	"career-coach-be/pkg/events"
	pkgNats "career-coach-be/pkg/nats"
)

// IProfileSyncService keeps lightweight activity facts in the user profile
// by consuming pipeline events off the NATS stream, so the request path
// never blocks on profile bookkeeping.
type IProfileSyncService interface {
	Start() error
}

type profileSyncService struct {
	subscriber *pkgNats.Subscriber
	store      agent.MemoryStore
	logger     logger.ILogger
}

func NewProfileSyncService(subscriber *pkgNats.Subscriber, store agent.MemoryStore, log logger.ILogger) IProfileSyncService {
	return &profileSyncService{
		subscriber: subscriber,
		store:      store,
		logger:     log,
	}
}

func (s *profileSyncService) Start() error {
	if s.subscriber == nil {
		s.logger.Warn("profile_sync", "no NATS subscriber configured, profile sync disabled", nil)
		return nil
	}

	if err := s.subscriber.Subscribe("events.>", "profile-sync", s.handleEvent); err != nil {
		return err
	}
	return nil
}

func (s *profileSyncService) handleEvent(ctx context.Context, event events.Event) error {
	data := event.Payload()
	userID, _ := data["user_id"].(string)
	if userID == "" {
		return nil
	}

	// Subjects arrive as "events.<TYPE>"
	updates := map[string]interface{}{}
	switch {
	case strings.HasSuffix(event.EventType(), events.TypeInterviewCompleted):
		if role, ok := data["role"].(string); ok && role != "" {
			updates["last_interview_role"] = role
		}
		if score, ok := data["score"].(float64); ok {
			updates["last_interview_score"] = score
		}
	default:
		if intentLabel, ok := data["intent"].(string); ok && intentLabel != "" {
			updates["last_intent"] = intentLabel
		}
	}

	if len(updates) == 0 {
		return nil
	}

	profile, err := s.store.GetProfile(ctx, userID)
	if err != nil {
		return err
	}

	merged := state.MergeProfile(profile, updates)
	if err := s.store.SaveProfile(ctx, userID, merged); err != nil {
		return err
	}

	s.logger.Debug("profile_sync", "profile updated from event", map[string]interface{}{
		"user_id": userID,
		"type":    event.EventType(),
	})
	return nil
}
