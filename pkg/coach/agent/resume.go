package agent

import (
	"context"
	"fmt"
	"time"

	"career-coach-be/internal/pkg/logger"
	"career-coach-be/pkg/coach/intent"
	"career-coach-be/pkg/coach/state"
	"career-coach-be/pkg/llm"
	"career-coach-be/pkg/utils"
)

// ResumeAgent critiques and rewrites resumes. Two operating modes selected
// by the fine-grained intent: analyze only, or analyze plus improvement
// suggestions.
type ResumeAgent struct {
	llmProvider llm.LLMProvider
	logger      logger.ILogger
}

func NewResumeAgent(llmProvider llm.LLMProvider, log logger.ILogger) *ResumeAgent {
	return &ResumeAgent{
		llmProvider: llmProvider,
		logger:      log,
	}
}

// Handle implements the specialist contract: read the resume slot, produce
// a partial update, never panic across the workflow boundary.
func (a *ResumeAgent) Handle(ctx context.Context, s *state.State) state.Update {
	started := time.Now()
	update := state.Update{AgentUsed: intent.AgentResume}

	if s.ResumeText == "" {
		update.ErrorMessage = "I need your resume text to review it. Please paste your resume and try again."
		return update
	}

	analysis, err := a.Analyze(ctx, s.ResumeText, s.JobDescription)
	if err != nil {
		// Analyze already degraded to its fallback shape; a non-nil
		// error here means even that failed.
		update.DebugInfo = map[string]interface{}{"resume_error": err.Error()}
		update.ErrorMessage = "I couldn't analyze your resume right now. Please try again in a moment."
		return update
	}
	update.ResumeAnalysis = analysis

	mode := "analyze"
	if s.Intent == intent.IntentResumeImprovement {
		mode = "analyze+improve"
		suggestions, err := a.SuggestImprovements(ctx, s.ResumeText, analysis)
		if err != nil {
			// Suggestions are additive; keep the analysis and note
			// the failure out of band.
			a.logger.Warn("ResumeAgent", "improvement suggestions failed", map[string]interface{}{
				"error": err.Error(),
			})
			update.DebugInfo = map[string]interface{}{"resume_suggestions_error": err.Error()}
		} else {
			update.ResumeSuggestions = suggestions
		}
	}

	if update.DebugInfo == nil {
		update.DebugInfo = map[string]interface{}{}
	}
	update.DebugInfo["resume_mode"] = mode
	update.DebugInfo["resume_ms"] = time.Since(started).Milliseconds()
	return update
}

// Analyze scores a resume. On LLM or parse failure it returns a degraded
// analysis payload instead of an error so the turn can still complete.
func (a *ResumeAgent) Analyze(ctx context.Context, resumeText, jobDescription string) (map[string]interface{}, error) {
	prompt := buildResumeAnalysisPrompt(resumeText, jobDescription)

	response, err := a.llmProvider.Generate(ctx, prompt, llm.WithTemperature(0.2))
	if err != nil {
		a.logger.Warn("ResumeAgent", "analysis generation failed", map[string]interface{}{"error": err.Error()})
		return errorAnalysis(err), nil
	}

	var analysis map[string]interface{}
	if err := utils.ExtractJSON(response, &analysis); err != nil {
		a.logger.Warn("ResumeAgent", "analysis parse failed", map[string]interface{}{"error": err.Error()})
		return errorAnalysis(err), nil
	}

	normalizeScore(analysis, "overall_score")
	return analysis, nil
}

// SuggestImprovements produces the canonical improvements payload:
// improved_summary, improved_bullets [{original, improved, reasoning}],
// additional_suggestions, priority_actions.
func (a *ResumeAgent) SuggestImprovements(ctx context.Context, resumeText string, analysis map[string]interface{}) (map[string]interface{}, error) {
	prompt := buildResumeImprovementPrompt(resumeText, analysis)

	response, err := a.llmProvider.Generate(ctx, prompt, llm.WithTemperature(0.4))
	if err != nil {
		return nil, fmt.Errorf("improvement generation: %w", err)
	}

	var suggestions map[string]interface{}
	if err := utils.ExtractJSON(response, &suggestions); err != nil {
		return nil, fmt.Errorf("improvement parse: %w", err)
	}

	return suggestions, nil
}

// errorAnalysis is the degraded analysis shape returned when generation or
// parsing fails: still structurally complete so the synthesizer has
// something to render.
func errorAnalysis(cause error) map[string]interface{} {
	return map[string]interface{}{
		"overall_score": 5.0,
		"strengths":     []interface{}{"Resume received and readable"},
		"weaknesses":    []interface{}{"Automated analysis was unavailable for this attempt"},
		"recommendations": []interface{}{
			"Please retry the analysis in a moment",
			"Ensure the resume text is plain text without unusual formatting",
		},
		"ats_compatibility": map[string]interface{}{
			"score":       5.0,
			"issues":      []interface{}{},
			"suggestions": []interface{}{},
		},
		"keyword_analysis": map[string]interface{}{
			"present":       []interface{}{},
			"missing":       []interface{}{},
			"density_notes": "not evaluated",
		},
		"section_feedback": map[string]interface{}{},
		"analysis_error":   cause.Error(),
	}
}

// normalizeScore clamps a numeric score field into [0,10] when present.
func normalizeScore(m map[string]interface{}, key string) {
	v, ok := m[key]
	if !ok {
		m[key] = 5.0
		return
	}
	f, ok := toFloat(v)
	if !ok {
		m[key] = 5.0
		return
	}
	if f < 0 {
		f = 0
	}
	if f > 10 {
		f = 10
	}
	m[key] = f
}

func toFloat(v interface{}) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	}
	return 0, false
}

func buildResumeAnalysisPrompt(resumeText, jobDescription string) string {
	jdSection := ""
	if jobDescription != "" {
		jdSection = fmt.Sprintf("\nTarget job description:\n%s\n", jobDescription)
	}

	return fmt.Sprintf(`You are an expert resume reviewer and ATS specialist.

Analyze the following resume.%s
Resume:
%s

Respond with ONLY valid JSON:
{
  "overall_score": 7.5,
  "strengths": ["..."],
  "weaknesses": ["..."],
  "recommendations": ["..."],
  "ats_compatibility": {"score": 7.0, "issues": ["..."], "suggestions": ["..."]},
  "keyword_analysis": {"present": ["..."], "missing": ["..."], "density_notes": "..."},
  "section_feedback": {"summary": "...", "experience": "...", "skills": "..."}
}
overall_score is 1-10.`, jdSection, resumeText)
}

func buildResumeImprovementPrompt(resumeText string, analysis map[string]interface{}) string {
	weaknesses := ""
	if w, ok := analysis["weaknesses"]; ok {
		weaknesses = fmt.Sprintf("Known weaknesses: %v\n", w)
	}

	return fmt.Sprintf(`You are an expert resume writer.

%sRewrite the weakest parts of this resume.

Resume:
%s

Respond with ONLY valid JSON:
{
  "improved_summary": "...",
  "improved_bullets": [{"original": "...", "improved": "...", "reasoning": "..."}],
  "additional_suggestions": ["..."],
  "priority_actions": ["..."]
}`, weaknesses, resumeText)
}
