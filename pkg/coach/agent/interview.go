package agent

import (
	"context"
	"fmt"
	"strings"
	"time"

	"career-coach-be/internal/pkg/logger"
	"career-coach-be/pkg/coach/intent"
	"career-coach-be/pkg/coach/state"
	"career-coach-be/pkg/llm"
	"career-coach-be/pkg/utils"
)

// InterviewAgent runs mock interviews: question generation, per-answer
// evaluation, and whole-session summaries.
type InterviewAgent struct {
	llmProvider llm.LLMProvider
	logger      logger.ILogger
}

func NewInterviewAgent(llmProvider llm.LLMProvider, log logger.ILogger) *InterviewAgent {
	return &InterviewAgent{
		llmProvider: llmProvider,
		logger:      log,
	}
}

func (a *InterviewAgent) Handle(ctx context.Context, s *state.State) state.Update {
	started := time.Now()
	update := state.Update{AgentUsed: intent.AgentInterview}

	var mode string
	switch s.Intent {
	case intent.IntentInterviewAnswer:
		mode = "evaluate"
		a.handleAnswer(ctx, s, &update)
	default:
		mode = "generate"
		a.handleGenerate(ctx, s, &update)
	}

	if update.DebugInfo == nil {
		update.DebugInfo = map[string]interface{}{}
	}
	update.DebugInfo["interview_mode"] = mode
	update.DebugInfo["interview_ms"] = time.Since(started).Milliseconds()
	return update
}

func (a *InterviewAgent) handleGenerate(ctx context.Context, s *state.State, update *state.Update) {
	role := s.InterviewRole
	if role == "" {
		role = "Software Developer"
	}
	level := s.InterviewLevel
	if level == "" {
		level = "mid"
	}

	questions := a.GenerateQuestions(ctx, role, level, 5)
	update.InterviewQuestions = questions
	update.InterviewRole = role
	update.InterviewLevel = level
}

func (a *InterviewAgent) handleAnswer(ctx context.Context, s *state.State, update *state.Update) {
	// Find the most recent unevaluated answer.
	var pending map[string]interface{}
	for i := len(s.InterviewAnswers) - 1; i >= 0; i-- {
		if s.InterviewAnswers[i]["evaluation"] == nil {
			pending = s.InterviewAnswers[i]
			break
		}
	}
	if pending == nil {
		update.ErrorMessage = "There is no pending interview answer to evaluate. Start an interview session first."
		return
	}

	questionID, _ := pending["question_id"].(string)
	question := FindQuestion(s.InterviewQuestions, questionID)
	if question == nil {
		update.ErrorMessage = "I couldn't find the interview question for that answer."
		return
	}

	answerText, _ := pending["text"].(string)
	evaluation := a.EvaluateAnswer(ctx, question, answerText)

	answers := make([]map[string]interface{}, len(s.InterviewAnswers))
	copy(answers, s.InterviewAnswers)
	pending["evaluation"] = evaluation

	update.InterviewAnswers = answers
	update.InterviewFeedback = evaluation
}

// FindQuestion locates the question with the given id among the session's
// known questions, falling back to the first question when no id matches.
func FindQuestion(questions []map[string]interface{}, questionID string) map[string]interface{} {
	if len(questions) == 0 {
		return nil
	}
	for _, q := range questions {
		if id, _ := q["id"].(string); id == questionID && questionID != "" {
			return q
		}
	}
	return questions[0]
}

// GenerateQuestions asks the LLM for interview questions, degrading to a
// fixed behavioral set when generation or parsing fails.
func (a *InterviewAgent) GenerateQuestions(ctx context.Context, role, level string, count int) []map[string]interface{} {
	if count <= 0 {
		count = 5
	}

	prompt := fmt.Sprintf(`You are an experienced technical interviewer.

Generate %d interview questions for a %s-level %s candidate.
Mix behavioral and role-specific questions, increasing in difficulty.

Respond with ONLY a valid JSON array:
[
  {"id": "q1", "text": "...", "category": "behavioral", "difficulty": "easy", "key_points": ["..."]}
]`, count, level, role)

	response, err := a.llmProvider.Generate(ctx, prompt, llm.WithTemperature(0.6))
	if err != nil {
		a.logger.Warn("InterviewAgent", "question generation failed, using fallback set", map[string]interface{}{
			"error": err.Error(),
		})
		return fallbackQuestions()
	}

	var questions []map[string]interface{}
	if err := utils.ExtractJSON(response, &questions); err != nil || len(questions) == 0 {
		a.logger.Warn("InterviewAgent", "question parse failed, using fallback set", nil)
		return fallbackQuestions()
	}

	for i, q := range questions {
		if _, ok := q["id"].(string); !ok {
			q["id"] = fmt.Sprintf("q%d", i+1)
		}
	}
	return questions
}

// EvaluateAnswer scores one answer against its question. Never fails: on
// LLM trouble it returns a neutral score with STAR-method guidance.
func (a *InterviewAgent) EvaluateAnswer(ctx context.Context, question map[string]interface{}, answer string) map[string]interface{} {
	questionText, _ := question["text"].(string)
	keyPoints := ""
	if kp, ok := question["key_points"]; ok {
		keyPoints = fmt.Sprintf("Key points the answer should cover: %v\n", kp)
	}

	prompt := fmt.Sprintf(`You are an experienced interviewer evaluating a candidate's answer.

Question: %s
%sAnswer: %s

Respond with ONLY valid JSON:
{
  "score": 7.0,
  "strengths": ["..."],
  "improvements": ["..."],
  "suggested_answer": "...",
  "feedback": "..."
}
score is 0-10.`, questionText, keyPoints, answer)

	response, err := a.llmProvider.Generate(ctx, prompt, llm.WithTemperature(0.3))
	if err != nil {
		a.logger.Warn("InterviewAgent", "answer evaluation failed, using neutral fallback", map[string]interface{}{
			"error": err.Error(),
		})
		return fallbackEvaluation()
	}

	var evaluation map[string]interface{}
	if err := utils.ExtractJSON(response, &evaluation); err != nil {
		return fallbackEvaluation()
	}

	normalizeScore(evaluation, "score")
	return evaluation
}

// SessionSummary aggregates all evaluated answers into a final report.
func (a *InterviewAgent) SessionSummary(ctx context.Context, role string, questions, answers []map[string]interface{}) map[string]interface{} {
	var sb strings.Builder
	var total float64
	var scored int

	for i, ans := range answers {
		questionID, _ := ans["question_id"].(string)
		q := FindQuestion(questions, questionID)
		if q != nil {
			fmt.Fprintf(&sb, "Q%d: %v\n", i+1, q["text"])
		}
		fmt.Fprintf(&sb, "A%d: %v\n", i+1, ans["text"])
		if eval, ok := ans["evaluation"].(map[string]interface{}); ok {
			if score, ok := toFloat(eval["score"]); ok {
				fmt.Fprintf(&sb, "Score: %.1f\n", score)
				total += score
				scored++
			}
		}
		sb.WriteString("\n")
	}

	average := 0.0
	if scored > 0 {
		average = total / float64(scored)
	}

	prompt := fmt.Sprintf(`You are an interview coach writing a final session report for a %s candidate.

Transcript with per-answer scores:
%s
Respond with ONLY valid JSON:
{
  "overall_score": %.1f,
  "performance_level": "%s",
  "key_strengths": ["..."],
  "areas_to_improve": ["..."],
  "next_steps": ["..."],
  "summary": "..."
}`, role, sb.String(), average, ScoreToLevel(average))

	response, err := a.llmProvider.Generate(ctx, prompt, llm.WithTemperature(0.4))
	if err == nil {
		var summary map[string]interface{}
		if err := utils.ExtractJSON(response, &summary); err == nil {
			normalizeScore(summary, "overall_score")
			return summary
		}
	}

	a.logger.Warn("InterviewAgent", "session summary generation failed, using computed averages", nil)
	return map[string]interface{}{
		"overall_score":     average,
		"performance_level": ScoreToLevel(average),
		"key_strengths":     []interface{}{},
		"areas_to_improve":  []interface{}{},
		"next_steps":        []interface{}{"Review each question's feedback and practice again"},
		"summary":           fmt.Sprintf("You answered %d question(s) with an average score of %.1f/10.", scored, average),
	}
}

// ScoreToLevel buckets a 0-10 score into a performance level.
func ScoreToLevel(score float64) string {
	switch {
	case score >= 9.0:
		return "exceptional"
	case score >= 7.5:
		return "strong"
	case score >= 6.0:
		return "competent"
	case score >= 4.0:
		return "developing"
	default:
		return "needs_improvement"
	}
}

func fallbackQuestions() []map[string]interface{} {
	behavioral := []string{
		"Tell me about yourself and your background.",
		"Describe a challenging project you worked on and how you handled it.",
		"Tell me about a time you disagreed with a teammate. How was it resolved?",
		"What is your greatest professional strength, with an example?",
		"Where do you see yourself in five years?",
	}

	questions := make([]map[string]interface{}, len(behavioral))
	for i, text := range behavioral {
		questions[i] = map[string]interface{}{
			"id":         fmt.Sprintf("q%d", i+1),
			"text":       text,
			"category":   "behavioral",
			"difficulty": "medium",
			"key_points": []interface{}{"structure", "specific example", "outcome"},
		}
	}
	return questions
}

func fallbackEvaluation() map[string]interface{} {
	return map[string]interface{}{
		"score":      5.0,
		"strengths":  []interface{}{"You provided an answer to the question"},
		"improvements": []interface{}{
			"Structure your answer with the STAR method: Situation, Task, Action, Result",
			"Include a concrete example with measurable outcomes",
		},
		"suggested_answer": "",
		"feedback":         "Automated evaluation was unavailable; the neutral score reflects that, not your answer quality.",
	}
}
