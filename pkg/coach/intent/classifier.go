package intent

import (
	"context"
	"fmt"
	"strings"

	"career-coach-be/internal/pkg/logger"
	"career-coach-be/pkg/llm"
	"career-coach-be/pkg/utils"
)

// Classification methods recorded on every result.
const (
	MethodLLM             = "llm"
	MethodKeywordFallback = "keyword_fallback"
	MethodSessionOverride = "session_override"
)

// ConfidenceThreshold is the gate below which the LLM result is
// cross-checked against the keyword table.
const ConfidenceThreshold = 0.7

// SessionOverrideConfidence is the fixed confidence assigned to the
// continuation intent when a multi-turn session is active.
const SessionOverrideConfidence = 0.95

// Classification is a resolved user intention.
type Classification struct {
	Intent     string  `json:"intent"`
	Confidence float64 `json:"confidence"`
	Reasoning  string  `json:"reasoning"`
	Method     string  `json:"method"`
}

// SessionContext carries the multi-turn session signal into classification.
type SessionContext struct {
	Active             bool
	ContinuationIntent string // e.g. interview_answer mid-interview
}

// Classifier resolves free text into the closed intent vocabulary using an
// LLM primary with a deterministic keyword fallback behind a confidence
// gate, and a session override that takes absolute precedence.
type Classifier struct {
	llmProvider llm.LLMProvider
	logger      logger.ILogger
}

func NewClassifier(llmProvider llm.LLMProvider, log logger.ILogger) *Classifier {
	return &Classifier{
		llmProvider: llmProvider,
		logger:      log,
	}
}

// Classify resolves the query. It never returns an error: every failure
// path degrades to the keyword table, and every result carries an intent
// from the closed vocabulary with confidence clamped to [0,1].
func (c *Classifier) Classify(ctx context.Context, query, userContext string, session SessionContext) Classification {
	// 1. Session short-circuit: an active multi-turn session continues
	// unless the user explicitly breaks out. Runs before anything else.
	if session.Active && !ContainsBreakOut(query) {
		continuation := session.ContinuationIntent
		if !IsValid(continuation) {
			continuation = IntentInterviewAnswer
		}
		return Classification{
			Intent:     continuation,
			Confidence: SessionOverrideConfidence,
			Reasoning:  "active session continues unless the user breaks out",
			Method:     MethodSessionOverride,
		}
	}

	// 2. Primary classification via LLM.
	primary, err := c.classifyLLM(ctx, query, userContext)
	if err != nil {
		c.logger.Warn("Classifier", "LLM classification failed, using keyword fallback", map[string]interface{}{
			"error": err.Error(),
		})
		kwIntent, kwConf := ClassifyByKeywords(query)
		return Classification{
			Intent:     kwIntent,
			Confidence: clamp01(kwConf),
			Reasoning:  "keyword match after LLM failure",
			Method:     MethodKeywordFallback,
		}
	}

	// 3. Confidence gate: below the threshold, let the keyword table
	// compete and keep whichever result is more confident.
	if primary.Confidence < ConfidenceThreshold {
		kwIntent, kwConf := ClassifyByKeywords(query)
		if kwConf > primary.Confidence {
			c.logger.Debug("Classifier", "keyword fallback won the confidence gate", map[string]interface{}{
				"llm_intent":     primary.Intent,
				"llm_conf":       primary.Confidence,
				"keyword_intent": kwIntent,
				"keyword_conf":   kwConf,
			})
			return Classification{
				Intent:     kwIntent,
				Confidence: clamp01(kwConf),
				Reasoning:  "keyword match outscored low-confidence LLM result",
				Method:     MethodKeywordFallback,
			}
		}
	}

	primary.Confidence = clamp01(primary.Confidence)
	primary.Method = MethodLLM
	return primary
}

func (c *Classifier) classifyLLM(ctx context.Context, query, userContext string) (Classification, error) {
	prompt := c.buildPrompt(query, userContext)

	response, err := c.llmProvider.Generate(ctx, prompt, llm.WithTemperature(0.0))
	if err != nil {
		return Classification{}, fmt.Errorf("intent generation: %w", err)
	}

	var parsed Classification
	if err := utils.ExtractJSON(response, &parsed); err != nil {
		return Classification{}, fmt.Errorf("intent parse: %w", err)
	}

	parsed.Intent = strings.ToLower(strings.TrimSpace(parsed.Intent))
	if !IsValid(parsed.Intent) {
		// Out-of-vocabulary label gets no confidence credit.
		parsed.Intent = IntentUnknown
		parsed.Confidence = 0
	}

	return parsed, nil
}

func (c *Classifier) buildPrompt(query, userContext string) string {
	var prompt strings.Builder

	prompt.WriteString("<system>\n")
	prompt.WriteString("You are an intent classifier for a career coaching assistant.\n")
	prompt.WriteString("You do NOT answer the user. You only classify what they want.\n")
	prompt.WriteString("</system>\n\n")

	if userContext != "" {
		prompt.WriteString("<user_context>\n")
		prompt.WriteString(userContext)
		prompt.WriteString("\n</user_context>\n\n")
	}

	prompt.WriteString("<user_query>\n")
	prompt.WriteString(query)
	prompt.WriteString("\n</user_query>\n\n")

	prompt.WriteString("<intent_definitions>\n")
	prompt.WriteString("Choose exactly ONE intent:\n\n")
	prompt.WriteString("resume_analysis: user wants their resume/CV reviewed or scored\n")
	prompt.WriteString("resume_improvement: user wants their resume rewritten or improved\n")
	prompt.WriteString("interview_start: user wants to begin a new mock interview session\n")
	prompt.WriteString("interview_practice: user wants interview preparation or practice questions\n")
	prompt.WriteString("interview_answer: user is answering an interview question already posed\n")
	prompt.WriteString("job_search: user wants to find jobs, openings, or companies hiring\n")
	prompt.WriteString("career_advice: user wants guidance, tips, negotiation or growth advice\n")
	prompt.WriteString("application_tracking: user asks about tracking or the status of applications\n")
	prompt.WriteString("general_question: any other career-related question\n")
	prompt.WriteString("unknown: truly uninterpretable input\n\n")
	prompt.WriteString("Prefer career_advice or general_question over unknown for ambiguous\n")
	prompt.WriteString("but plausibly career-related queries.\n")
	prompt.WriteString("</intent_definitions>\n\n")

	prompt.WriteString("<output_format>\n")
	prompt.WriteString("Respond with ONLY valid JSON:\n")
	prompt.WriteString("{\n")
	prompt.WriteString("  \"intent\": \"one of the labels above\",\n")
	prompt.WriteString("  \"confidence\": 0.95,\n")
	prompt.WriteString("  \"reasoning\": \"Brief explanation\"\n")
	prompt.WriteString("}\n")
	prompt.WriteString("</output_format>")

	return prompt.String()
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
