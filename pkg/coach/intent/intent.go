package intent

// Closed intent vocabulary. Every classification result resolves to one of
// these labels; anything else is coerced to IntentUnknown.
const (
	IntentResumeAnalysis      = "resume_analysis"
	IntentResumeImprovement   = "resume_improvement"
	IntentInterviewPractice   = "interview_practice"
	IntentInterviewStart      = "interview_start"
	IntentInterviewAnswer     = "interview_answer"
	IntentJobSearch           = "job_search"
	IntentCareerAdvice        = "career_advice"
	IntentApplicationTracking = "application_tracking"
	IntentGeneralQuestion     = "general_question"
	IntentUnknown             = "unknown"
)

// Specialist node names used for routing and the audit trail.
const (
	AgentResume    = "resume"
	AgentInterview = "interview"
	AgentJobSearch = "job_search"
	AgentKnowledge = "knowledge"
	AgentSummary   = "summary"
)

// Vocabulary lists every valid intent label.
var Vocabulary = []string{
	IntentResumeAnalysis,
	IntentResumeImprovement,
	IntentInterviewPractice,
	IntentInterviewStart,
	IntentInterviewAnswer,
	IntentJobSearch,
	IntentCareerAdvice,
	IntentApplicationTracking,
	IntentGeneralQuestion,
	IntentUnknown,
}

var vocabularySet = func() map[string]bool {
	m := make(map[string]bool, len(Vocabulary))
	for _, v := range Vocabulary {
		m[v] = true
	}
	return m
}()

// IsValid reports whether label is a member of the closed vocabulary.
func IsValid(label string) bool {
	return vocabularySet[label]
}

// intentToAgent maps each intent to the specialist that handles it.
// Unknown has no specialist; the workflow routes it straight to summary.
var intentToAgent = map[string]string{
	IntentResumeAnalysis:      AgentResume,
	IntentResumeImprovement:   AgentResume,
	IntentInterviewPractice:   AgentInterview,
	IntentInterviewStart:      AgentInterview,
	IntentInterviewAnswer:     AgentInterview,
	IntentJobSearch:           AgentJobSearch,
	IntentCareerAdvice:        AgentKnowledge,
	IntentApplicationTracking: AgentKnowledge,
	IntentGeneralQuestion:     AgentKnowledge,
}

// AgentFor returns the specialist node for an intent, or AgentSummary when
// no specialist is mapped (the defensive default edge).
func AgentFor(label string) string {
	if agent, ok := intentToAgent[label]; ok {
		return agent
	}
	return AgentSummary
}
