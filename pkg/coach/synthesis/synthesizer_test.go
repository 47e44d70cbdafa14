package synthesis

import (
	"context"
	"errors"
	"strings"
	"testing"

	"career-coach-be/internal/pkg/logger"
	"career-coach-be/pkg/coach/intent"
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

func TestSynthesizeLLMPath(t *testing.T) {
	s := NewSynthesizer(&fakeLLM{response: "  Here is your coaching reply.  "}, nopLogger{})

	st := state.New("review my resume", "u1", "s1")
	st.Intent = intent.IntentResumeAnalysis

	update := s.Synthesize(context.Background(), st)

	if update.Response != "Here is your coaching reply." {
		t.Errorf("Response = %q, want trimmed LLM output", update.Response)
	}
	if !update.SessionComplete {
		t.Error("Synthesize did not mark the turn complete")
	}
	if update.AgentUsed != intent.AgentSummary {
		t.Errorf("AgentUsed = %q, want %q", update.AgentUsed, intent.AgentSummary)
	}
	if update.DebugInfo["synthesis_method"] != MethodLLM {
		t.Errorf("synthesis_method = %v, want %q", update.DebugInfo["synthesis_method"], MethodLLM)
	}
}

func TestSynthesizeTemplateFallbackOnError(t *testing.T) {
	s := NewSynthesizer(&fakeLLM{err: errors.New("model offline")}, nopLogger{})

	st := state.New("find jobs", "u1", "s1")
	st.Intent = intent.IntentJobSearch
	st.JobResults = []map[string]interface{}{
		{"title": "Backend Engineer", "company": "Acme", "location": "Jakarta"},
	}

	update := s.Synthesize(context.Background(), st)

	if update.DebugInfo["synthesis_method"] != MethodTemplate {
		t.Fatalf("synthesis_method = %v, want %q", update.DebugInfo["synthesis_method"], MethodTemplate)
	}
	if !strings.Contains(update.Response, "Backend Engineer") || !strings.Contains(update.Response, "Acme") {
		t.Errorf("template response %q missing the job listing data", update.Response)
	}
}

func TestSynthesizeTemplateFallbackOnEmptyOutput(t *testing.T) {
	s := NewSynthesizer(&fakeLLM{response: "   "}, nopLogger{})

	st := state.New("what is the STAR method?", "u1", "s1")
	st.Intent = intent.IntentGeneralQuestion
	st.KnowledgeAnswer = "STAR stands for Situation, Task, Action, Result."
	st.KnowledgeSources = []string{"career-guides/star-method"}

	update := s.Synthesize(context.Background(), st)

	if update.DebugInfo["synthesis_method"] != MethodTemplate {
		t.Fatalf("blank LLM output did not trigger the template fallback")
	}
	if !strings.Contains(update.Response, "STAR stands for") {
		t.Errorf("template response %q missing the knowledge answer", update.Response)
	}
	if !strings.Contains(update.Response, "career-guides/star-method") {
		t.Errorf("template response %q missing the sources", update.Response)
	}
}

func TestSynthesizeErrorStateTemplate(t *testing.T) {
	s := NewSynthesizer(&fakeLLM{err: errors.New("model offline")}, nopLogger{})

	st := state.New("review my resume", "u1", "s1")
	st.Intent = intent.IntentResumeAnalysis
	st.ErrorMessage = "resume text was empty"

	update := s.Synthesize(context.Background(), st)

	if !strings.Contains(update.Response, "resume text was empty") {
		t.Errorf("error template %q does not surface the failure", update.Response)
	}
}

func TestSynthesizeGenericTemplateWhenNothingToSay(t *testing.T) {
	s := NewSynthesizer(&fakeLLM{err: errors.New("model offline")}, nopLogger{})

	st := state.New("hmm", "u1", "s1")
	st.Intent = intent.IntentUnknown

	update := s.Synthesize(context.Background(), st)

	if update.Response == "" {
		t.Error("generic fallback produced an empty response")
	}
}
