package intent

import "strings"

// KeywordRule maps a keyword group to an intent at a fixed confidence.
// Rules are evaluated top to bottom, first match wins, so the most specific
// patterns must come before the broader ones.
type KeywordRule struct {
	Keywords   []string
	Intent     string
	Confidence float64
}

// KeywordRules is the deterministic fallback classifier's rule table.
var KeywordRules = []KeywordRule{
	{[]string{"improve my resume", "rewrite", "bullet points", "better resume"}, IntentResumeImprovement, 0.85},
	{[]string{"resume", "cv", "review my", "analyze my"}, IntentResumeAnalysis, 0.85},
	{[]string{"start interview", "begin interview", "new interview session"}, IntentInterviewStart, 0.90},
	{[]string{"interview", "practice", "mock interview", "prepare for interview"}, IntentInterviewPractice, 0.85},
	{[]string{"job", "search", "find job", "opportunities", "openings", "hiring"}, IntentJobSearch, 0.85},
	{[]string{"advice", "tips", "guide", "how to", "how do i", "negotiate", "salary"}, IntentCareerAdvice, 0.80},
	{[]string{"application", "track", "status", "applied", "follow up"}, IntentApplicationTracking, 0.85},
}

// breakOutPhrases are explicit signals that a user inside a multi-turn
// session wants to switch tasks, disabling the session override.
var breakOutPhrases = []string{
	"search for job",
	"find job",
	"review my resume",
	"analyze my resume",
	"career advice",
	"help me with",
	"i want to",
	"switch to",
	"stop interview",
	"end session",
	"start new",
}

// ClassifyByKeywords runs the rule table against the lowercased input.
// No match resolves to unknown at 0.5.
func ClassifyByKeywords(text string) (string, float64) {
	lowered := strings.ToLower(text)
	for _, rule := range KeywordRules {
		for _, kw := range rule.Keywords {
			if strings.Contains(lowered, kw) {
				return rule.Intent, rule.Confidence
			}
		}
	}
	return IntentUnknown, 0.5
}

// ContainsBreakOut reports whether the input carries an explicit
// task-switch signal.
func ContainsBreakOut(text string) bool {
	lowered := strings.ToLower(text)
	for _, phrase := range breakOutPhrases {
		if strings.Contains(lowered, phrase) {
			return true
		}
	}
	return false
}
