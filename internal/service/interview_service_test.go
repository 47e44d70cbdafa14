package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"career-coach-be/internal/constant"
	"career-coach-be/internal/dto"
	"career-coach-be/internal/entity"
	"career-coach-be/internal/pkg/logger"
	"career-coach-be/internal/repository/contract"
	"career-coach-be/internal/repository/memory"
	"career-coach-be/internal/repository/specification"
	"career-coach-be/internal/repository/unitofwork"
	"career-coach-be/pkg/coach/agent"
	"career-coach-be/pkg/coach/intent"
	"career-coach-be/pkg/llm"
	"career-coach-be/pkg/store"

	"github.com/google/uuid"
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

type fakeInterviewSessionRepo struct {
	session *entity.InterviewSession
	updates int
}

func (r *fakeInterviewSessionRepo) Create(ctx context.Context, session *entity.InterviewSession) error {
	r.session = session
	return nil
}

func (r *fakeInterviewSessionRepo) Update(ctx context.Context, session *entity.InterviewSession) error {
	r.session = session
	r.updates++
	return nil
}

func (r *fakeInterviewSessionRepo) Delete(ctx context.Context, id uuid.UUID) error { return nil }

func (r *fakeInterviewSessionRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.InterviewSession, error) {
	return r.session, nil
}

func (r *fakeInterviewSessionRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.InterviewSession, error) {
	return nil, nil
}

func (r *fakeInterviewSessionRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return 0, nil
}

func (r *fakeInterviewSessionRepo) FindActiveBySession(ctx context.Context, sessionId string) (*entity.InterviewSession, error) {
	if r.session != nil && r.session.SessionId == sessionId && r.session.Status == constant.InterviewStatusActive {
		return r.session, nil
	}
	return nil, nil
}

type fakeUnitOfWork struct {
	interviews *fakeInterviewSessionRepo
}

func (u *fakeUnitOfWork) Begin(ctx context.Context) error { return nil }
func (u *fakeUnitOfWork) Commit() error                   { return nil }
func (u *fakeUnitOfWork) Rollback() error                 { return nil }

func (u *fakeUnitOfWork) UserRepository() contract.UserRepository                 { return nil }
func (u *fakeUnitOfWork) ConversationRepository() contract.ConversationRepository { return nil }
func (u *fakeUnitOfWork) InterviewSessionRepository() contract.InterviewSessionRepository {
	return u.interviews
}
func (u *fakeUnitOfWork) ApplicationRepository() contract.ApplicationRepository { return nil }
func (u *fakeUnitOfWork) KnowledgeDocumentRepository() contract.KnowledgeDocumentRepository {
	return nil
}
func (u *fakeUnitOfWork) KnowledgeChunkRepository() contract.KnowledgeChunkRepository { return nil }

type fakeUowFactory struct {
	uow *fakeUnitOfWork
}

func (f *fakeUowFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork { return f.uow }

func activeInterviewSession(sessionID string, questionCount int) *entity.InterviewSession {
	questions := make([]map[string]any, questionCount)
	texts := []string{
		"Tell me about yourself.",
		"Describe a challenging project.",
		"Where do you see yourself in five years?",
	}
	for i := range questions {
		questions[i] = map[string]any{
			"id":   []string{"q1", "q2", "q3"}[i],
			"text": texts[i],
		}
	}
	return &entity.InterviewSession{
		Id:         uuid.New(),
		UserId:     "u1",
		SessionId:  sessionID,
		TargetRole: "Backend Engineer",
		Status:     constant.InterviewStatusActive,
		Questions:  questions,
		Answers:    []map[string]any{},
		CreatedAt:  time.Now(),
	}
}

func newTestInterviewService(repo *fakeInterviewSessionRepo, sessions *memory.SessionRepository) IInterviewService {
	interviewAgent := agent.NewInterviewAgent(&fakeLLM{err: errors.New("model offline")}, nopLogger{})
	factory := &fakeUowFactory{uow: &fakeUnitOfWork{interviews: repo}}
	return NewInterviewService(interviewAgent, factory, sessions, nil, nil, nopLogger{})
}

func TestAnswerStoresTextAndNestedEvaluation(t *testing.T) {
	repo := &fakeInterviewSessionRepo{session: activeInterviewSession("s1", 2)}
	sessions := memory.NewSessionRepository()
	svc := newTestInterviewService(repo, sessions)

	resp, err := svc.Answer(context.Background(), &dto.AnswerInterviewRequest{
		UserID:    "u1",
		SessionID: "s1",
		Answer:    "I built a billing system from scratch.",
	})
	if err != nil {
		t.Fatalf("Answer() error = %v", err)
	}

	if resp.Finished {
		t.Error("Finished = true after 1 of 2 answers")
	}
	if id, _ := resp.NextQuestion["id"].(string); id != "q2" {
		t.Errorf("next question id = %q, want q2", id)
	}

	stored := repo.session.Answers[0]
	if stored["text"] != "I built a billing system from scratch." {
		t.Errorf("stored text = %v", stored["text"])
	}
	eval, ok := stored["evaluation"].(map[string]interface{})
	if !ok {
		t.Fatalf("stored evaluation is %T, want nested map", stored["evaluation"])
	}
	if _, ok := eval["score"]; !ok {
		t.Error("stored evaluation has no score")
	}
	if repo.session.Status != constant.InterviewStatusActive {
		t.Errorf("status = %q after a mid-session answer, want active", repo.session.Status)
	}
}

func TestAnswerFinalQuestionCompletesSession(t *testing.T) {
	repo := &fakeInterviewSessionRepo{session: activeInterviewSession("s1", 2)}
	sessions := memory.NewSessionRepository()
	sessions.Save(&store.Session{
		ID:                 "s1",
		UserID:             "u1",
		State:              store.StateInterviewing,
		ContinuationIntent: intent.IntentInterviewAnswer,
	})
	svc := newTestInterviewService(repo, sessions)

	for _, answer := range []string{"First answer.", "Second answer."} {
		if _, err := svc.Answer(context.Background(), &dto.AnswerInterviewRequest{
			UserID:    "u1",
			SessionID: "s1",
			Answer:    answer,
		}); err != nil {
			t.Fatalf("Answer() error = %v", err)
		}
	}

	// Both fallback evaluations score 5.0, so the aggregate must be 5.0.
	if repo.session.Status != constant.InterviewStatusCompleted {
		t.Errorf("status = %q, want completed", repo.session.Status)
	}
	if repo.session.AverageScore == nil || *repo.session.AverageScore != 5.0 {
		t.Errorf("persisted average = %v, want 5.0", repo.session.AverageScore)
	}
	if repo.session.OverallLevel != "developing" {
		t.Errorf("level = %q, want developing", repo.session.OverallLevel)
	}
	if repo.session.SummaryText == "" {
		t.Error("no session summary persisted")
	}

	sess, found := sessions.Get("s1")
	if !found {
		t.Fatal("session record disappeared")
	}
	if sess.State != store.StateOpen || sess.ContinuationIntent != "" {
		t.Errorf("override not disarmed: state=%q continuation=%q", sess.State, sess.ContinuationIntent)
	}
}

func TestAnswerFinalQuestionReturnsSummary(t *testing.T) {
	repo := &fakeInterviewSessionRepo{session: activeInterviewSession("s1", 1)}
	svc := newTestInterviewService(repo, memory.NewSessionRepository())

	resp, err := svc.Answer(context.Background(), &dto.AnswerInterviewRequest{
		UserID:    "u1",
		SessionID: "s1",
		Answer:    "Only answer.",
	})
	if err != nil {
		t.Fatalf("Answer() error = %v", err)
	}

	if !resp.Finished {
		t.Fatal("Finished = false after the last answer")
	}
	if resp.Summary == nil {
		t.Fatal("no summary on the final answer")
	}
	if resp.AverageScore != 5.0 {
		t.Errorf("AverageScore = %v, want 5.0", resp.AverageScore)
	}
	if resp.OverallLevel != "developing" {
		t.Errorf("OverallLevel = %q, want developing", resp.OverallLevel)
	}
	if resp.NextQuestion != nil {
		t.Error("final answer still carries a next question")
	}
}

func TestFinishUsesAggregateScore(t *testing.T) {
	session := activeInterviewSession("s1", 2)
	session.Answers = []map[string]any{
		{"question_id": "q1", "text": "A", "evaluation": map[string]interface{}{"score": 8.0}},
		{"question_id": "q2", "text": "B", "evaluation": map[string]interface{}{"score": 6.0}},
	}
	repo := &fakeInterviewSessionRepo{session: session}
	svc := newTestInterviewService(repo, memory.NewSessionRepository())

	resp, err := svc.Finish(context.Background(), &dto.FinishInterviewRequest{
		UserID:    "u1",
		SessionID: "s1",
	})
	if err != nil {
		t.Fatalf("Finish() error = %v", err)
	}

	if resp.AverageScore != 7.0 {
		t.Errorf("AverageScore = %v, want 7.0", resp.AverageScore)
	}
	if resp.OverallLevel != "competent" {
		t.Errorf("OverallLevel = %q, want competent", resp.OverallLevel)
	}
	if repo.session.AverageScore == nil || *repo.session.AverageScore != 7.0 {
		t.Errorf("persisted average = %v, want 7.0", repo.session.AverageScore)
	}
}

func TestRecordEvaluatedAnswersCompletesWhenAllAnswered(t *testing.T) {
	repo := &fakeInterviewSessionRepo{session: activeInterviewSession("s1", 1)}
	sessions := memory.NewSessionRepository()
	sessions.Save(&store.Session{
		ID:                 "s1",
		UserID:             "u1",
		State:              store.StateInterviewing,
		ContinuationIntent: intent.IntentInterviewAnswer,
	})
	svc := newTestInterviewService(repo, sessions)

	finished, err := svc.RecordEvaluatedAnswers(context.Background(), "s1", []map[string]interface{}{
		{"question_id": "q1", "text": "Done.", "evaluation": map[string]interface{}{"score": 9.0}},
	})
	if err != nil {
		t.Fatalf("RecordEvaluatedAnswers() error = %v", err)
	}

	if !finished {
		t.Error("finished = false with every question answered")
	}
	if repo.session.Status != constant.InterviewStatusCompleted {
		t.Errorf("status = %q, want completed", repo.session.Status)
	}
	if repo.session.OverallLevel != "exceptional" {
		t.Errorf("level = %q, want exceptional", repo.session.OverallLevel)
	}
	if sess, _ := sessions.Get("s1"); sess.State != store.StateOpen {
		t.Errorf("override not disarmed, state = %q", sess.State)
	}
}

func TestRecordEvaluatedAnswersDropsScratchEntries(t *testing.T) {
	repo := &fakeInterviewSessionRepo{session: activeInterviewSession("s1", 2)}
	svc := newTestInterviewService(repo, memory.NewSessionRepository())

	finished, err := svc.RecordEvaluatedAnswers(context.Background(), "s1", []map[string]interface{}{
		{"question_id": "q1", "text": "Real.", "evaluation": map[string]interface{}{"score": 7.0}},
		{"question_id": "q2", "text": "Never evaluated."},
	})
	if err != nil {
		t.Fatalf("RecordEvaluatedAnswers() error = %v", err)
	}

	if finished {
		t.Error("finished = true with an unanswered question")
	}
	if len(repo.session.Answers) != 1 {
		t.Errorf("kept %d answers, want 1", len(repo.session.Answers))
	}
	if repo.session.Status != constant.InterviewStatusActive {
		t.Errorf("status = %q, want active", repo.session.Status)
	}
}
