package workflow

import (
	"context"
	"reflect"
	"strings"
	"testing"

	"career-coach-be/internal/pkg/logger"
	"career-coach-be/pkg/coach/intent"
	"career-coach-be/pkg/coach/state"
)

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

type fakeClassifier struct {
	result intent.Classification
	panics bool
}

func (f *fakeClassifier) Classify(ctx context.Context, query, userContext string, session intent.SessionContext) intent.Classification {
	if f.panics {
		panic("classifier exploded")
	}
	return f.result
}

type fakeSpecialist struct {
	name   string
	update state.Update
	panics bool
	calls  int
}

func (f *fakeSpecialist) Handle(ctx context.Context, s *state.State) state.Update {
	f.calls++
	if f.panics {
		panic(f.name + " exploded")
	}
	u := f.update
	u.AgentUsed = f.name
	return u
}

type fakeMemory struct {
	loadUpdate state.Update
	saveCalled bool
	lastState  *state.State
}

func (f *fakeMemory) LoadContext(ctx context.Context, userID string) state.Update {
	u := f.loadUpdate
	u.AgentUsed = "memory_load"
	return u
}

func (f *fakeMemory) PersistTurn(ctx context.Context, s *state.State) state.Update {
	f.saveCalled = true
	f.lastState = s
	return state.Update{AgentUsed: "memory_save"}
}

type fakeSynthesizer struct{}

func (fakeSynthesizer) Synthesize(ctx context.Context, s *state.State) state.Update {
	return state.Update{
		Response:        "final response",
		SessionComplete: true,
		AgentUsed:       intent.AgentSummary,
	}
}

func newTestWorkflow(classifier Classifier, specialists map[string]*fakeSpecialist, memory MemoryGateway) *Workflow {
	get := func(name string) Specialist {
		if s, ok := specialists[name]; ok {
			return s
		}
		return &fakeSpecialist{name: name}
	}
	return New(
		classifier,
		get(intent.AgentResume),
		get(intent.AgentInterview),
		get(intent.AgentJobSearch),
		get(intent.AgentKnowledge),
		memory,
		fakeSynthesizer{},
		nopLogger{},
	)
}

func TestRunAuditTrailOrder(t *testing.T) {
	resume := &fakeSpecialist{name: intent.AgentResume}
	memory := &fakeMemory{}
	w := newTestWorkflow(
		&fakeClassifier{result: intent.Classification{Intent: intent.IntentResumeAnalysis, Confidence: 0.9, Method: intent.MethodLLM}},
		map[string]*fakeSpecialist{intent.AgentResume: resume},
		memory,
	)

	final := w.Run(context.Background(), state.New("review my resume", "u1", "s1"), intent.SessionContext{})

	want := []string{"memory_load", "router", "resume", "summary", "memory_save"}
	if !reflect.DeepEqual(final.AgentsUsed, want) {
		t.Errorf("AgentsUsed = %v, want %v", final.AgentsUsed, want)
	}
	if resume.calls != 1 {
		t.Errorf("resume specialist called %d times, want 1", resume.calls)
	}
	if !final.SessionComplete {
		t.Error("final state not marked complete")
	}
	if final.ProcessingTime <= 0 {
		t.Error("ProcessingTime not recorded")
	}
}

func TestRunUnknownIntentSkipsSpecialists(t *testing.T) {
	specialists := map[string]*fakeSpecialist{
		intent.AgentResume:    {name: intent.AgentResume},
		intent.AgentInterview: {name: intent.AgentInterview},
		intent.AgentJobSearch: {name: intent.AgentJobSearch},
		intent.AgentKnowledge: {name: intent.AgentKnowledge},
	}
	w := newTestWorkflow(
		&fakeClassifier{result: intent.Classification{Intent: intent.IntentUnknown, Confidence: 0.3}},
		specialists,
		&fakeMemory{},
	)

	final := w.Run(context.Background(), state.New("asdfgh", "u1", "s1"), intent.SessionContext{})

	for name, s := range specialists {
		if s.calls != 0 {
			t.Errorf("specialist %s called %d times for unknown intent, want 0", name, s.calls)
		}
	}
	if final.Response != "final response" {
		t.Errorf("Response = %q, want synthesis output", final.Response)
	}
}

func TestRunSpecialistPanicDegrades(t *testing.T) {
	memory := &fakeMemory{}
	w := newTestWorkflow(
		&fakeClassifier{result: intent.Classification{Intent: intent.IntentJobSearch, Confidence: 0.9}},
		map[string]*fakeSpecialist{
			intent.AgentJobSearch: {name: intent.AgentJobSearch, panics: true},
		},
		memory,
	)

	final := w.Run(context.Background(), state.New("find jobs", "u1", "s1"), intent.SessionContext{})

	// Pipeline continues: the panic becomes an error message, and both
	// synthesis and persistence still run.
	if final.ErrorMessage == "" {
		t.Error("specialist panic did not surface as ErrorMessage")
	}
	if !final.Touched(intent.AgentSummary) {
		t.Error("summary did not run after specialist panic")
	}
	if !memory.saveCalled {
		t.Error("memory_save did not run after specialist panic")
	}
	if !final.SessionComplete {
		t.Error("turn not marked complete after specialist panic")
	}
}

func TestRunTopLevelPanicReturnsErrorState(t *testing.T) {
	w := newTestWorkflow(&fakeClassifier{panics: true}, nil, &fakeMemory{})

	final := w.Run(context.Background(), state.New("anything", "u1", "s1"), intent.SessionContext{})

	if final == nil {
		t.Fatal("Run returned nil after panic")
	}
	if !final.SessionComplete {
		t.Error("panic recovery did not complete the turn")
	}
	if !strings.Contains(final.ErrorMessage, "classifier exploded") {
		t.Errorf("ErrorMessage = %q, want the panic cause", final.ErrorMessage)
	}
	if final.Response == "" {
		t.Error("panic recovery left an empty user response")
	}
}

func TestRunMemoryContextFlowsToSpecialist(t *testing.T) {
	var seenProfile map[string]interface{}
	knowledge := &fakeSpecialist{name: intent.AgentKnowledge}
	memory := &fakeMemory{
		loadUpdate: state.Update{
			UserProfile:   map[string]interface{}{"target_role": "Backend Engineer"},
			SharedContext: "returning user",
		},
	}
	w := New(
		&fakeClassifier{result: intent.Classification{Intent: intent.IntentCareerAdvice, Confidence: 0.8}},
		&fakeSpecialist{name: intent.AgentResume},
		&fakeSpecialist{name: intent.AgentInterview},
		&fakeSpecialist{name: intent.AgentJobSearch},
		specialistFunc(func(ctx context.Context, s *state.State) state.Update {
			seenProfile = s.UserProfile
			u := knowledge.update
			u.AgentUsed = intent.AgentKnowledge
			return u
		}),
		memory,
		fakeSynthesizer{},
		nopLogger{},
	)

	w.Run(context.Background(), state.New("salary tips", "u1", "s1"), intent.SessionContext{})

	if seenProfile["target_role"] != "Backend Engineer" {
		t.Errorf("specialist saw profile %v, want memory-loaded context", seenProfile)
	}
}

type specialistFunc func(ctx context.Context, s *state.State) state.Update

func (f specialistFunc) Handle(ctx context.Context, s *state.State) state.Update { return f(ctx, s) }
