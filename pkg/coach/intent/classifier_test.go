package intent

import (
	"context"
	"errors"
	"testing"

	"career-coach-be/internal/pkg/logger"
	"career-coach-be/pkg/llm"
)

// fakeLLM returns a canned response or error for every call.
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

func TestClassifyByKeywords(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		want     string
		wantConf float64
	}{
		{"resume review", "Can you review my resume?", IntentResumeAnalysis, 0.85},
		{"resume improvement wins over resume", "Please improve my resume bullet points", IntentResumeImprovement, 0.85},
		{"interview start beats practice", "start interview for backend engineer", IntentInterviewStart, 0.90},
		{"interview practice", "I need to practice for my interview", IntentInterviewPractice, 0.85},
		{"job search", "find job openings in Jakarta", IntentJobSearch, 0.85},
		{"career advice", "any tips on how to negotiate salary?", IntentCareerAdvice, 0.80},
		{"application tracking", "what's the status of my application?", IntentApplicationTracking, 0.85},
		{"no match", "hello there", IntentUnknown, 0.5},
		{"empty input", "", IntentUnknown, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, conf := ClassifyByKeywords(tt.text)
			if got != tt.want {
				t.Errorf("intent = %q, want %q", got, tt.want)
			}
			if conf != tt.wantConf {
				t.Errorf("confidence = %v, want %v", conf, tt.wantConf)
			}
		})
	}
}

func TestContainsBreakOut(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"stop interview please", true},
		{"I want to switch to resume review", true},
		{"Find job openings instead", true},
		{"My answer is that I would add an index", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := ContainsBreakOut(tt.text); got != tt.want {
			t.Errorf("ContainsBreakOut(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}

func TestAgentFor(t *testing.T) {
	tests := []struct {
		intent string
		want   string
	}{
		{IntentResumeAnalysis, AgentResume},
		{IntentResumeImprovement, AgentResume},
		{IntentInterviewStart, AgentInterview},
		{IntentInterviewAnswer, AgentInterview},
		{IntentJobSearch, AgentJobSearch},
		{IntentCareerAdvice, AgentKnowledge},
		{IntentGeneralQuestion, AgentKnowledge},
		{IntentUnknown, AgentSummary},
		{"bogus", AgentSummary},
	}

	for _, tt := range tests {
		if got := AgentFor(tt.intent); got != tt.want {
			t.Errorf("AgentFor(%q) = %q, want %q", tt.intent, got, tt.want)
		}
	}
}

func TestClassifySessionOverride(t *testing.T) {
	// The LLM must not even be consulted when the override fires.
	c := NewClassifier(&fakeLLM{err: errors.New("must not be called")}, nopLogger{})

	got := c.Classify(context.Background(), "I would use a worker pool", "",
		SessionContext{Active: true, ContinuationIntent: IntentInterviewAnswer})

	if got.Method != MethodSessionOverride {
		t.Errorf("method = %q, want %q", got.Method, MethodSessionOverride)
	}
	if got.Intent != IntentInterviewAnswer {
		t.Errorf("intent = %q, want %q", got.Intent, IntentInterviewAnswer)
	}
	if got.Confidence != SessionOverrideConfidence {
		t.Errorf("confidence = %v, want %v", got.Confidence, SessionOverrideConfidence)
	}
}

func TestClassifyBreakOutDisablesOverride(t *testing.T) {
	c := NewClassifier(&fakeLLM{err: errors.New("llm down")}, nopLogger{})

	got := c.Classify(context.Background(), "switch to job hunting for me", "",
		SessionContext{Active: true, ContinuationIntent: IntentInterviewAnswer})

	if got.Method == MethodSessionOverride {
		t.Fatal("break-out phrase did not disable the session override")
	}
	if got.Intent != IntentJobSearch {
		t.Errorf("intent = %q, want %q via keyword fallback", got.Intent, IntentJobSearch)
	}
}

func TestClassifyInvalidContinuationIntent(t *testing.T) {
	c := NewClassifier(&fakeLLM{}, nopLogger{})

	got := c.Classify(context.Background(), "yes", "",
		SessionContext{Active: true, ContinuationIntent: "not_a_real_intent"})

	if got.Intent != IntentInterviewAnswer {
		t.Errorf("intent = %q, want default continuation %q", got.Intent, IntentInterviewAnswer)
	}
}

func TestClassifyKeywordFallbackOnLLMFailure(t *testing.T) {
	c := NewClassifier(&fakeLLM{err: errors.New("connection refused")}, nopLogger{})

	got := c.Classify(context.Background(), "review my resume please", "", SessionContext{})

	if got.Method != MethodKeywordFallback {
		t.Errorf("method = %q, want %q", got.Method, MethodKeywordFallback)
	}
	if got.Intent != IntentResumeAnalysis {
		t.Errorf("intent = %q, want %q", got.Intent, IntentResumeAnalysis)
	}
}

func TestClassifyHighConfidenceLLMWins(t *testing.T) {
	c := NewClassifier(&fakeLLM{
		response: `{"intent": "career_advice", "confidence": 0.92, "reasoning": "asks for guidance"}`,
	}, nopLogger{})

	got := c.Classify(context.Background(), "review my resume please", "", SessionContext{})

	// Keyword table would say resume_analysis, but the gate only opens
	// below the threshold.
	if got.Method != MethodLLM {
		t.Errorf("method = %q, want %q", got.Method, MethodLLM)
	}
	if got.Intent != IntentCareerAdvice {
		t.Errorf("intent = %q, want %q", got.Intent, IntentCareerAdvice)
	}
}

func TestClassifyConfidenceGateLetsKeywordsWin(t *testing.T) {
	c := NewClassifier(&fakeLLM{
		response: `{"intent": "general_question", "confidence": 0.4, "reasoning": "unsure"}`,
	}, nopLogger{})

	got := c.Classify(context.Background(), "find job openings in Jakarta", "", SessionContext{})

	if got.Method != MethodKeywordFallback {
		t.Errorf("method = %q, want %q", got.Method, MethodKeywordFallback)
	}
	if got.Intent != IntentJobSearch {
		t.Errorf("intent = %q, want %q", got.Intent, IntentJobSearch)
	}
	if got.Confidence != 0.85 {
		t.Errorf("confidence = %v, want keyword confidence 0.85", got.Confidence)
	}
}

func TestClassifyOutOfVocabularyLabel(t *testing.T) {
	c := NewClassifier(&fakeLLM{
		response: `{"intent": "order_pizza", "confidence": 0.99, "reasoning": "hungry"}`,
	}, nopLogger{})

	got := c.Classify(context.Background(), "tips for salary negotiation", "", SessionContext{})

	// The bogus label is coerced to unknown at zero confidence, so the
	// keyword table takes over.
	if got.Intent != IntentCareerAdvice {
		t.Errorf("intent = %q, want %q", got.Intent, IntentCareerAdvice)
	}
	if got.Method != MethodKeywordFallback {
		t.Errorf("method = %q, want %q", got.Method, MethodKeywordFallback)
	}
}

func TestClassifyConfidenceClamped(t *testing.T) {
	c := NewClassifier(&fakeLLM{
		response: `{"intent": "job_search", "confidence": 3.5, "reasoning": "very sure"}`,
	}, nopLogger{})

	got := c.Classify(context.Background(), "anything", "", SessionContext{})

	if got.Confidence != 1.0 {
		t.Errorf("confidence = %v, want clamped 1.0", got.Confidence)
	}
}
