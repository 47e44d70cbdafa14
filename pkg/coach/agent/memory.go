package agent

import (
	"context"
	"fmt"
	"strings"

	"career-coach-be/internal/pkg/logger"
	"career-coach-be/pkg/coach/intent"
	"career-coach-be/pkg/coach/state"
	"career-coach-be/pkg/llm"
	"career-coach-be/pkg/utils"
)

// ConversationRecord is one persisted turn.
type ConversationRecord struct {
	UserID    string
	SessionID string
	Message   string
	Response  string
	Intent    string
	AgentUsed string
	Metadata  map[string]interface{}
}

// MemoryStore is the persistence capability the memory gateway depends on.
// Reads that find nothing return empty values, not errors.
type MemoryStore interface {
	GetProfile(ctx context.Context, userID string) (map[string]interface{}, error)
	GetRecentConversations(ctx context.Context, userID string, limit int) ([]map[string]interface{}, error)
	SaveConversation(ctx context.Context, rec ConversationRecord) (string, error)
	SaveProfile(ctx context.Context, userID string, profile map[string]interface{}) error
}

const recentConversationLimit = 5

// specialistPriority is the scan order used to tag a turn with the
// specialist that handled it.
var specialistPriority = []string{
	intent.AgentResume,
	intent.AgentInterview,
	intent.AgentJobSearch,
	intent.AgentKnowledge,
}

// MemoryAgent loads user context before routing and persists the turn
// after synthesis. It is designed to never block the pipeline: every
// failure is downgraded to debug metadata.
type MemoryAgent struct {
	store       MemoryStore
	llmProvider llm.LLMProvider
	logger      logger.ILogger
}

func NewMemoryAgent(store MemoryStore, llmProvider llm.LLMProvider, log logger.ILogger) *MemoryAgent {
	return &MemoryAgent{
		store:       store,
		llmProvider: llmProvider,
		logger:      log,
	}
}

// LoadContext fetches the profile and recent conversations. On any storage
// failure it returns all-empty defaults; downstream stages treat an absent
// profile as a new user, not an error.
func (a *MemoryAgent) LoadContext(ctx context.Context, userID string) state.Update {
	update := state.Update{AgentUsed: "memory_load"}

	profile, err := a.store.GetProfile(ctx, userID)
	if err != nil {
		a.logger.Warn("MemoryAgent", "profile load failed", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
		update.DebugInfo = map[string]interface{}{"memory_load_error": err.Error()}
		update.UserProfile = map[string]interface{}{}
		update.ConversationHistory = []map[string]interface{}{}
		return update
	}

	history, err := a.store.GetRecentConversations(ctx, userID, recentConversationLimit)
	if err != nil {
		a.logger.Warn("MemoryAgent", "history load failed", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
		update.DebugInfo = map[string]interface{}{"memory_history_error": err.Error()}
		history = []map[string]interface{}{}
	}

	if profile == nil {
		profile = map[string]interface{}{}
	}
	update.UserProfile = profile
	update.ConversationHistory = history
	update.SharedContext = summarizeContext(profile, history)
	return update
}

// PersistTurn writes the conversation record and merges extracted profile
// insights. Both halves fail independently and silently.
func (a *MemoryAgent) PersistTurn(ctx context.Context, s *state.State) state.Update {
	update := state.Update{
		AgentUsed:       "memory_save",
		SessionComplete: true,
		DebugInfo:       map[string]interface{}{},
	}

	specialist := InferSpecialist(s.AgentsUsed)

	conversationID, err := a.store.SaveConversation(ctx, ConversationRecord{
		UserID:    s.UserID,
		SessionID: s.SessionID,
		Message:   s.UserQuery,
		Response:  s.Response,
		Intent:    s.Intent,
		AgentUsed: specialist,
		Metadata: map[string]interface{}{
			"confidence":  s.Confidence,
			"agents_used": s.AgentsUsed,
		},
	})
	if err != nil {
		a.logger.Warn("MemoryAgent", "conversation save failed", map[string]interface{}{
			"user_id": s.UserID,
			"error":   err.Error(),
		})
		update.DebugInfo["memory_save_error"] = err.Error()
	} else {
		update.DebugInfo["conversation_id"] = conversationID
	}

	updates, err := a.ExtractProfileUpdates(ctx, s.UserQuery, s.Response, s.Intent)
	if err != nil {
		update.DebugInfo["profile_extract_error"] = err.Error()
		return update
	}
	if len(updates) == 0 {
		return update
	}

	merged := state.MergeProfile(s.UserProfile, updates)
	if err := a.store.SaveProfile(ctx, s.UserID, merged); err != nil {
		a.logger.Warn("MemoryAgent", "profile save failed", map[string]interface{}{
			"user_id": s.UserID,
			"error":   err.Error(),
		})
		update.DebugInfo["profile_save_error"] = err.Error()
		return update
	}

	update.ProfileUpdates = updates
	return update
}

// ExtractProfileUpdates asks the LLM for durable facts about the user from
// this turn (skills, target roles, preferences). Empty map means nothing
// worth persisting.
func (a *MemoryAgent) ExtractProfileUpdates(ctx context.Context, query, response, intentLabel string) (map[string]interface{}, error) {
	prompt := fmt.Sprintf(`Extract durable career-profile facts about the user from this exchange.
Only include facts the user stated about THEMSELVES. Omit empty fields.

Intent: %s
User: %s
Assistant: %s

Respond with ONLY valid JSON (empty object if nothing to record):
{
  "skills": ["..."],
  "experience_level": "...",
  "target_roles": ["..."],
  "location_preferences": ["..."],
  "career_goals": ["..."]
}`, intentLabel, query, response)

	llmResp, err := a.llmProvider.Generate(ctx, prompt, llm.WithTemperature(0.1))
	if err != nil {
		return nil, fmt.Errorf("profile extraction: %w", err)
	}

	var updates map[string]interface{}
	if err := utils.ExtractJSON(llmResp, &updates); err != nil {
		return nil, fmt.Errorf("profile extraction parse: %w", err)
	}

	// Drop empty values so merges stay idempotent and clean.
	for k, v := range updates {
		switch t := v.(type) {
		case string:
			if strings.TrimSpace(t) == "" {
				delete(updates, k)
			}
		case []interface{}:
			if len(t) == 0 {
				delete(updates, k)
			}
		case nil:
			delete(updates, k)
		}
	}
	return updates, nil
}

// InferSpecialist scans the audit trail in priority order for the
// specialist that handled the turn, defaulting to "general".
func InferSpecialist(agentsUsed []string) string {
	for _, candidate := range specialistPriority {
		for _, agent := range agentsUsed {
			if agent == candidate {
				return candidate
			}
		}
	}
	return "general"
}

func summarizeContext(profile map[string]interface{}, history []map[string]interface{}) string {
	var sb strings.Builder

	if len(profile) == 0 {
		sb.WriteString("New user, no stored profile.")
	} else {
		sb.WriteString("Known profile: ")
		first := true
		for _, key := range []string{"skills", "experience_level", "target_roles", "location_preferences", "career_goals"} {
			if v, ok := profile[key]; ok {
				if !first {
					sb.WriteString("; ")
				}
				fmt.Fprintf(&sb, "%s=%v", key, v)
				first = false
			}
		}
	}

	if len(history) > 0 {
		sb.WriteString(" Recent topics:")
		for _, h := range history {
			if it, ok := h["intent"].(string); ok && it != "" {
				fmt.Fprintf(&sb, " %s", it)
			}
		}
		sb.WriteString(".")
	}

	return sb.String()
}
