package agent

import (
	"context"
	"errors"
	"testing"

	"career-coach-be/internal/pkg/logger"
	"career-coach-be/pkg/coach/state"
	"career-coach-be/pkg/llm"
)

type fakeLLM struct {
	response string
	err      error
}

func (f *fakeLLM) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	return f.response, f.err
}

func (f *fakeLLM) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return f.response, f.err
}

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }
func (nopLogger) GetLogs(level string, limit, offset int) ([]logger.LogEntry, error) {
	return nil, nil
}
func (nopLogger) GetLogById(id string) (*logger.LogEntry, error) { return nil, nil }

type fakeMemoryStore struct {
	profile       map[string]interface{}
	history       []map[string]interface{}
	profileErr    error
	savedRecords  []ConversationRecord
	savedProfiles []map[string]interface{}
}

func (f *fakeMemoryStore) GetProfile(ctx context.Context, userID string) (map[string]interface{}, error) {
	return f.profile, f.profileErr
}

func (f *fakeMemoryStore) GetRecentConversations(ctx context.Context, userID string, limit int) ([]map[string]interface{}, error) {
	return f.history, nil
}

func (f *fakeMemoryStore) SaveConversation(ctx context.Context, rec ConversationRecord) (string, error) {
	f.savedRecords = append(f.savedRecords, rec)
	return "conv-1", nil
}

func (f *fakeMemoryStore) SaveProfile(ctx context.Context, userID string, profile map[string]interface{}) error {
	f.savedProfiles = append(f.savedProfiles, profile)
	return nil
}

func TestInferSpecialist(t *testing.T) {
	tests := []struct {
		name       string
		agentsUsed []string
		want       string
	}{
		{"resume turn", []string{"memory_load", "router", "resume", "summary", "memory_save"}, "resume"},
		{"interview turn", []string{"memory_load", "router", "interview", "summary"}, "interview"},
		{"no specialist", []string{"memory_load", "router", "summary"}, "general"},
		{"empty trail", nil, "general"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := InferSpecialist(tt.agentsUsed); got != tt.want {
				t.Errorf("InferSpecialist = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLoadContextStorageFailureDegrades(t *testing.T) {
	store := &fakeMemoryStore{profileErr: errors.New("db down")}
	a := NewMemoryAgent(store, &fakeLLM{}, nopLogger{})

	update := a.LoadContext(context.Background(), "user-1")

	if update.AgentUsed != "memory_load" {
		t.Errorf("AgentUsed = %q, want memory_load", update.AgentUsed)
	}
	if update.UserProfile == nil || len(update.UserProfile) != 0 {
		t.Errorf("UserProfile = %v, want empty non-nil map", update.UserProfile)
	}
	if update.DebugInfo["memory_load_error"] == nil {
		t.Error("storage failure not recorded in debug metadata")
	}
}

func TestLoadContextSummarizesKnownUser(t *testing.T) {
	store := &fakeMemoryStore{
		profile: map[string]interface{}{"skills": []interface{}{"Go"}},
		history: []map[string]interface{}{{"intent": "job_search"}},
	}
	a := NewMemoryAgent(store, &fakeLLM{}, nopLogger{})

	update := a.LoadContext(context.Background(), "user-1")

	if update.SharedContext == "" {
		t.Fatal("SharedContext empty for a known user")
	}
	if update.UserProfile["skills"] == nil {
		t.Error("profile not loaded into the update")
	}
}

func TestPersistTurnTagsSpecialistAndSavesProfile(t *testing.T) {
	store := &fakeMemoryStore{profile: map[string]interface{}{}}
	a := NewMemoryAgent(store, &fakeLLM{
		response: `{"skills": ["Go", "Kubernetes"], "target_roles": ["Backend Engineer"]}`,
	}, nopLogger{})

	s := state.New("I know Go and Kubernetes, looking for backend roles", "user-1", "sess-1")
	s.Intent = "job_search"
	s.Response = "Here are some openings."
	s.AgentsUsed = []string{"memory_load", "router", "job_search", "summary"}

	update := a.PersistTurn(context.Background(), s)

	if len(store.savedRecords) != 1 {
		t.Fatalf("saved %d conversation records, want 1", len(store.savedRecords))
	}
	if store.savedRecords[0].AgentUsed != "job_search" {
		t.Errorf("record AgentUsed = %q, want job_search", store.savedRecords[0].AgentUsed)
	}
	if len(store.savedProfiles) != 1 {
		t.Fatalf("saved %d profiles, want 1", len(store.savedProfiles))
	}
	if update.ProfileUpdates == nil {
		t.Error("extracted profile updates not surfaced in the update")
	}
	if update.DebugInfo["conversation_id"] != "conv-1" {
		t.Errorf("conversation_id = %v, want conv-1", update.DebugInfo["conversation_id"])
	}
}

func TestPersistTurnNoUpdatesSkipsProfilesave(t *testing.T) {
	store := &fakeMemoryStore{}
	a := NewMemoryAgent(store, &fakeLLM{response: `{}`}, nopLogger{})

	s := state.New("thanks!", "user-1", "sess-1")
	s.Response = "You're welcome."

	a.PersistTurn(context.Background(), s)

	if len(store.savedProfiles) != 0 {
		t.Errorf("profile saved despite empty extraction: %v", store.savedProfiles)
	}
}

func TestExtractProfileUpdatesDropsEmptyValues(t *testing.T) {
	a := NewMemoryAgent(&fakeMemoryStore{}, &fakeLLM{
		response: `{"skills": [], "experience_level": " ", "target_roles": ["SRE"], "career_goals": null}`,
	}, nopLogger{})

	updates, err := a.ExtractProfileUpdates(context.Background(), "q", "r", "career_advice")
	if err != nil {
		t.Fatalf("ExtractProfileUpdates error: %v", err)
	}

	if len(updates) != 1 {
		t.Errorf("updates = %v, want only target_roles to survive", updates)
	}
	if updates["target_roles"] == nil {
		t.Error("target_roles dropped, want kept")
	}
}
