package service

import (
	"context"
	"errors"
	"testing"

	"career-coach-be/internal/constant"
	"career-coach-be/internal/dto"
	"career-coach-be/internal/repository/memory"
	"career-coach-be/pkg/coach/agent"
	"career-coach-be/pkg/coach/intent"
	"career-coach-be/pkg/coach/state"
	"career-coach-be/pkg/coach/workflow"
	"career-coach-be/pkg/store"
)

// fakeRouter returns a fixed classification, honoring the session override
// the same way the real classifier does.
type fakeRouter struct {
	intent      string
	confidence  float64
	calls       int
	lastSession intent.SessionContext
}

func (f *fakeRouter) Classify(ctx context.Context, query, userContext string, session intent.SessionContext) intent.Classification {
	f.calls++
	f.lastSession = session
	if session.Active {
		return intent.Classification{
			Intent:     session.ContinuationIntent,
			Confidence: intent.SessionOverrideConfidence,
			Method:     intent.MethodSessionOverride,
		}
	}
	return intent.Classification{
		Intent:     f.intent,
		Confidence: f.confidence,
		Method:     intent.MethodLLM,
	}
}

// recordingSpecialist captures the turn record it was handed.
type recordingSpecialist struct {
	name string
	seen *state.State
}

func (r *recordingSpecialist) Handle(ctx context.Context, s *state.State) state.Update {
	r.seen = s
	return state.Update{
		AgentUsed:      r.name,
		ResumeAnalysis: map[string]interface{}{"overall_score": 7.0},
	}
}

type noopGateway struct{}

func (noopGateway) LoadContext(ctx context.Context, userID string) state.Update {
	return state.Update{AgentUsed: "memory_load"}
}
func (noopGateway) PersistTurn(ctx context.Context, s *state.State) state.Update {
	return state.Update{AgentUsed: "memory_save"}
}

type staticSynthesizer struct{}

func (staticSynthesizer) Synthesize(ctx context.Context, s *state.State) state.Update {
	return state.Update{AgentUsed: "summary", Response: "here is what I found"}
}

func TestAskSeedsTaskFieldsIntoTurn(t *testing.T) {
	router := &fakeRouter{intent: intent.IntentResumeAnalysis, confidence: 0.9}
	resume := &recordingSpecialist{name: "resume"}
	wf := workflow.New(router, resume, resume, resume, resume, noopGateway{}, staticSynthesizer{}, nopLogger{})

	svc := NewCoachService(wf, &fakeUowFactory{uow: &fakeUnitOfWork{interviews: &fakeInterviewSessionRepo{}}},
		memory.NewSessionRepository(), nil, nil, nopLogger{})

	resp, err := svc.Ask(context.Background(), &dto.AskRequest{
		UserID:      "u1",
		Query:       "take a look at my CV",
		ResumeText:  "Ten years building Go services.",
		JobLocation: "Berlin",
	})
	if err != nil {
		t.Fatalf("Ask() error = %v", err)
	}

	if resume.seen == nil {
		t.Fatal("specialist never ran")
	}
	if resume.seen.ResumeText != "Ten years building Go services." {
		t.Errorf("specialist saw resume text %q", resume.seen.ResumeText)
	}
	if resume.seen.JobSearchLocation != "Berlin" {
		t.Errorf("specialist saw location %q, want Berlin", resume.seen.JobSearchLocation)
	}
	if resp.ResumeAnalysis == nil {
		t.Error("response carries no specialist payload")
	}
	if resp.Error != "" {
		t.Errorf("unexpected error: %q", resp.Error)
	}
}

func TestAskAlwaysRunsOrchestrator(t *testing.T) {
	router := &fakeRouter{intent: intent.IntentUnknown, confidence: 0.5}
	spec := &recordingSpecialist{name: "resume"}
	wf := workflow.New(router, spec, spec, spec, spec, noopGateway{}, staticSynthesizer{}, nopLogger{})

	svc := NewCoachService(wf, &fakeUowFactory{uow: &fakeUnitOfWork{interviews: &fakeInterviewSessionRepo{}}},
		memory.NewSessionRepository(), nil, nil, nopLogger{})

	resp, err := svc.Ask(context.Background(), &dto.AskRequest{UserID: "u1", Query: "hello"})
	if err != nil {
		t.Fatalf("Ask() error = %v", err)
	}

	if router.calls != 1 {
		t.Errorf("router ran %d times, want 1", router.calls)
	}
	found := false
	for _, a := range resp.AgentsUsed {
		if a == "router" {
			found = true
		}
	}
	if !found {
		t.Errorf("audit trail %v has no router entry", resp.AgentsUsed)
	}
}

func TestAskMidInterviewEvaluatesAnswer(t *testing.T) {
	repo := &fakeInterviewSessionRepo{session: activeInterviewSession("s1", 1)}
	factory := &fakeUowFactory{uow: &fakeUnitOfWork{interviews: repo}}
	sessions := memory.NewSessionRepository()
	sessions.Save(&store.Session{
		ID:                 "s1",
		UserID:             "u1",
		State:              store.StateInterviewing,
		ContinuationIntent: intent.IntentInterviewAnswer,
	})

	interviewAgent := agent.NewInterviewAgent(&fakeLLM{err: errors.New("model offline")}, nopLogger{})
	interviewSvc := NewInterviewService(interviewAgent, factory, sessions, nil, nil, nopLogger{})

	router := &fakeRouter{}
	other := &recordingSpecialist{name: "resume"}
	wf := workflow.New(router, other, interviewAgent, other, other, noopGateway{}, staticSynthesizer{}, nopLogger{})

	svc := NewCoachService(wf, factory, sessions, interviewSvc, nil, nopLogger{})

	resp, err := svc.Ask(context.Background(), &dto.AskRequest{
		UserID:    "u1",
		SessionID: "s1",
		Query:     "Last year our team led a large data migration under a hard deadline.",
	})
	if err != nil {
		t.Fatalf("Ask() error = %v", err)
	}

	if resp.Intent != intent.IntentInterviewAnswer {
		t.Fatalf("intent = %q, want interview_answer", resp.Intent)
	}
	if resp.Error != "" {
		t.Fatalf("continuation turn errored: %q", resp.Error)
	}
	if resp.InterviewFeedback == nil {
		t.Fatal("no evaluation came back for the free-text answer")
	}

	// Single-question session: this answer finishes the interview.
	if resp.Debug["interview_finished"] != true {
		t.Error("interview_finished flag not set")
	}
	if !resp.SessionComplete {
		t.Error("SessionComplete = false after the final answer")
	}
	if repo.session.Status != constant.InterviewStatusCompleted {
		t.Errorf("persisted status = %q, want completed", repo.session.Status)
	}
	if len(repo.session.Answers) != 1 {
		t.Fatalf("persisted %d answers, want 1", len(repo.session.Answers))
	}
	if repo.session.Answers[0]["evaluation"] == nil {
		t.Error("persisted answer has no evaluation")
	}

	if sess, _ := sessions.Get("s1"); sess.State != store.StateOpen || sess.ContinuationIntent != "" {
		t.Errorf("override not disarmed: state=%q continuation=%q", sess.State, sess.ContinuationIntent)
	}
}

func TestResumeServiceWorkflowFlag(t *testing.T) {
	router := &fakeRouter{intent: intent.IntentCareerAdvice, confidence: 0.9}
	resume := &recordingSpecialist{name: "resume"}
	wf := workflow.New(router, resume, resume, resume, resume, noopGateway{}, staticSynthesizer{}, nopLogger{})

	resumeAgent := agent.NewResumeAgent(&fakeLLM{err: errors.New("model offline")}, nopLogger{})

	t.Run("flag set routes through the orchestrator", func(t *testing.T) {
		svc := NewResumeService(resumeAgent, wf, true)
		resp, err := svc.Analyze(context.Background(), &dto.AnalyzeResumeRequest{
			UserID:     "u1",
			ResumeText: "Ten years building Go services.",
		})
		if err != nil {
			t.Fatalf("Analyze() error = %v", err)
		}
		if router.calls != 1 {
			t.Errorf("router ran %d times, want 1", router.calls)
		}
		if !router.lastSession.Active || router.lastSession.ContinuationIntent != intent.IntentResumeAnalysis {
			t.Errorf("routing override = %+v, want pinned resume_analysis", router.lastSession)
		}
		if resp.Analysis == nil {
			t.Error("no analysis returned")
		}
	})

	t.Run("flag unset calls the specialist directly", func(t *testing.T) {
		router.calls = 0
		svc := NewResumeService(resumeAgent, wf, false)
		resp, err := svc.Analyze(context.Background(), &dto.AnalyzeResumeRequest{
			UserID:     "u1",
			ResumeText: "Ten years building Go services.",
		})
		if err != nil {
			t.Fatalf("Analyze() error = %v", err)
		}
		if router.calls != 0 {
			t.Errorf("router ran %d times on the direct path, want 0", router.calls)
		}
		if resp.Analysis == nil {
			t.Error("no analysis returned")
		}
	})
}
