package synthesis

import (
	"context"
	"fmt"
	"strings"

	"career-coach-be/internal/pkg/logger"
	"career-coach-be/pkg/coach/intent"
	"career-coach-be/pkg/coach/state"
	"career-coach-be/pkg/llm"
)

// Synthesis methods recorded in debug metadata.
const (
	MethodLLM      = "llm"
	MethodTemplate = "template"
)

// Synthesizer converts structured specialist output into one polished
// user-facing response. Generation failures fall back to deterministic
// per-intent templates; the fallback itself never fails.
type Synthesizer struct {
	llmProvider llm.LLMProvider
	logger      logger.ILogger
}

func NewSynthesizer(llmProvider llm.LLMProvider, log logger.ILogger) *Synthesizer {
	return &Synthesizer{
		llmProvider: llmProvider,
		logger:      log,
	}
}

// Synthesize renders the final response. It always marks the turn complete
// and appends "summary" to the audit trail, whichever path produced the
// text.
func (s *Synthesizer) Synthesize(ctx context.Context, st *state.State) state.Update {
	agentOutput := gatherAgentOutput(st)
	userContext := gatherUserContext(st)

	response, method := s.generate(ctx, st, agentOutput, userContext)

	return state.Update{
		Response:        response,
		SessionComplete: true,
		AgentUsed:       intent.AgentSummary,
		DebugInfo: map[string]interface{}{
			"synthesis_method": method,
		},
	}
}

func (s *Synthesizer) generate(ctx context.Context, st *state.State, agentOutput, userContext string) (string, string) {
	prompt := fmt.Sprintf(`You are a friendly, expert career coach writing the final reply of this turn.

User asked: %s
Resolved intent: %s

Specialist findings:
%s

User context:
%s

Write a Markdown reply of roughly 150-400 words: conversational tone,
reference the concrete data above, never mention internal systems or
stages, and end with one clear call to action for the user.`,
		st.UserQuery, st.Intent, agentOutput, userContext)

	response, err := s.llmProvider.Generate(ctx, prompt, llm.WithTemperature(0.6))
	if err != nil || strings.TrimSpace(response) == "" {
		if err != nil {
			s.logger.Warn("Synthesizer", "generation failed, using template fallback", map[string]interface{}{
				"error": err.Error(),
			})
		}
		return renderTemplate(st), MethodTemplate
	}

	return strings.TrimSpace(response), MethodLLM
}

// gatherAgentOutput bundles the intent-specific structured output into one
// textual block. Error states are always appended regardless of intent.
func gatherAgentOutput(st *state.State) string {
	var sb strings.Builder

	switch intent.AgentFor(st.Intent) {
	case intent.AgentResume:
		if st.ResumeAnalysis != nil {
			fmt.Fprintf(&sb, "Resume analysis: %v\n", st.ResumeAnalysis)
		}
		if st.ResumeSuggestions != nil {
			fmt.Fprintf(&sb, "Improvement suggestions: %v\n", st.ResumeSuggestions)
		}
	case intent.AgentInterview:
		if len(st.InterviewQuestions) > 0 {
			fmt.Fprintf(&sb, "Interview questions (%s, %s):\n", st.InterviewRole, st.InterviewLevel)
			for i, q := range st.InterviewQuestions {
				fmt.Fprintf(&sb, "%d. %v\n", i+1, q["text"])
			}
		}
		if st.InterviewFeedback != nil {
			fmt.Fprintf(&sb, "Answer feedback: %v\n", st.InterviewFeedback)
		}
	case intent.AgentJobSearch:
		if len(st.JobResults) > 0 {
			sb.WriteString("Job listings:\n")
			limit := len(st.JobResults)
			if limit > 5 {
				limit = 5
			}
			for _, job := range st.JobResults[:limit] {
				fmt.Fprintf(&sb, "- %v at %v (%v)\n", job["title"], job["company"], job["location"])
				if ma, ok := job["matching_analysis"]; ok {
					fmt.Fprintf(&sb, "  match: %v\n", ma)
				}
			}
		}
	case intent.AgentKnowledge:
		if st.KnowledgeAnswer != "" {
			fmt.Fprintf(&sb, "Answer: %s\n", st.KnowledgeAnswer)
		}
		if len(st.KnowledgeSources) > 0 {
			fmt.Fprintf(&sb, "Sources: %s\n", strings.Join(st.KnowledgeSources, ", "))
		}
	}

	if st.ErrorMessage != "" {
		fmt.Fprintf(&sb, "ERROR: %s\n", st.ErrorMessage)
	}

	if sb.Len() == 0 {
		sb.WriteString("(no specialist output)")
	}
	return sb.String()
}

func gatherUserContext(st *state.State) string {
	var sb strings.Builder

	if len(st.UserProfile) > 0 {
		fmt.Fprintf(&sb, "Profile: %v\n", st.UserProfile)
	} else {
		sb.WriteString("No stored profile for this user.\n")
	}
	if st.SharedContext != "" {
		fmt.Fprintf(&sb, "Notes: %s\n", st.SharedContext)
	}
	return sb.String()
}

// renderTemplate is the deterministic fallback renderer. It must never
// panic; missing fields degrade to a generic prompt for more input.
func renderTemplate(st *state.State) string {
	if st.ErrorMessage != "" {
		return fmt.Sprintf("I ran into a problem with that request: %s", st.ErrorMessage)
	}

	switch intent.AgentFor(st.Intent) {
	case intent.AgentResume:
		if st.ResumeAnalysis != nil {
			score := st.ResumeAnalysis["overall_score"]
			return fmt.Sprintf(
				"I reviewed your resume and scored it %v/10.\n\nStrengths: %v\n\nAreas to improve: %v\n\nWant me to rewrite the weakest sections for you?",
				score, st.ResumeAnalysis["strengths"], st.ResumeAnalysis["weaknesses"])
		}
	case intent.AgentInterview:
		if st.InterviewFeedback != nil {
			return fmt.Sprintf(
				"Here's my feedback on your answer (score %v/10): %v\n\nReady for the next question?",
				st.InterviewFeedback["score"], st.InterviewFeedback["feedback"])
		}
		if len(st.InterviewQuestions) > 0 {
			var sb strings.Builder
			sb.WriteString("Here are your interview questions:\n")
			for i, q := range st.InterviewQuestions {
				fmt.Fprintf(&sb, "%d. %v\n", i+1, q["text"])
			}
			sb.WriteString("\nAnswer the first one when you're ready.")
			return sb.String()
		}
	case intent.AgentJobSearch:
		if len(st.JobResults) > 0 {
			var sb strings.Builder
			sb.WriteString("I found these openings for you:\n")
			for _, job := range st.JobResults {
				fmt.Fprintf(&sb, "- %v at %v (%v)\n", job["title"], job["company"], job["location"])
			}
			sb.WriteString("\nWant details on any of these?")
			return sb.String()
		}
	case intent.AgentKnowledge:
		if st.KnowledgeAnswer != "" {
			answer := st.KnowledgeAnswer
			if len(st.KnowledgeSources) > 0 {
				answer += "\n\nSources: " + strings.Join(st.KnowledgeSources, ", ")
			}
			return answer
		}
	}

	return "I'm your career coach! Ask me something specific: a resume review, interview practice, a job search, or any career question."
}
