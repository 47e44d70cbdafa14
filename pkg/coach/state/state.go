package state

import (
	"fmt"
	"strings"
)

// State is the single mutable record threaded through every workflow stage
// for one user turn. Each stage reads a subset of fields and returns an
// Update merged into the record; nothing outside the workflow mutates it.
type State struct {
	// Identity
	UserQuery string
	UserID    string
	SessionID string

	// Routing
	Intent     string
	Confidence float64

	// Resume slot
	ResumeText        string
	JobDescription    string
	ResumeAnalysis    map[string]interface{}
	ResumeSuggestions map[string]interface{}

	// Interview slot
	InterviewRole      string
	InterviewLevel     string
	InterviewQuestions []map[string]interface{}
	InterviewAnswers   []map[string]interface{}
	InterviewFeedback  map[string]interface{}
	InterviewSessionID string

	// Job search slot
	JobSearchQuery    string
	JobSearchLocation string
	JobSearchLevel    string
	JobResults        []map[string]interface{}

	// Knowledge slot
	KnowledgeQuery   string
	KnowledgeContext string
	KnowledgeSources []string
	KnowledgeAnswer  string

	// Cross-cutting user context
	UserProfile         map[string]interface{}
	ConversationHistory []map[string]interface{}
	ProfileUpdates      map[string]interface{}

	// Inter-stage scratch
	SharedContext string

	// Output
	Response        string
	NextAction      string
	SessionComplete bool

	// Bookkeeping
	ProcessingTime float64
	AgentsUsed     []string
	ErrorMessage   string
	DebugInfo      map[string]interface{}
}

// New creates a fresh turn record with all optional fields empty.
func New(userQuery, userID, sessionID string) *State {
	return &State{
		UserQuery:  userQuery,
		UserID:     userID,
		SessionID:  sessionID,
		AgentsUsed: []string{},
		DebugInfo:  map[string]interface{}{},
	}
}

// Update is a partial state update returned by one workflow stage.
// Nil maps/slices and empty strings mean "leave the field alone"; the only
// booleans in the record are one-way (false -> true), so a set flag is
// always an intentional write.
type Update struct {
	Intent     string
	Confidence *float64

	ResumeText        string
	JobDescription    string
	ResumeAnalysis    map[string]interface{}
	ResumeSuggestions map[string]interface{}

	InterviewRole      string
	InterviewLevel     string
	InterviewQuestions []map[string]interface{}
	InterviewAnswers   []map[string]interface{}
	InterviewFeedback  map[string]interface{}
	InterviewSessionID string

	JobSearchQuery    string
	JobSearchLocation string
	JobSearchLevel    string
	JobResults        []map[string]interface{}

	KnowledgeQuery   string
	KnowledgeContext string
	KnowledgeSources []string
	KnowledgeAnswer  string

	UserProfile         map[string]interface{}
	ConversationHistory []map[string]interface{}
	ProfileUpdates      map[string]interface{}

	SharedContext string

	Response        string
	NextAction      string
	SessionComplete bool

	ProcessingTime float64
	AgentUsed      string // appended to the audit trail
	ErrorMessage   string
	DebugInfo      map[string]interface{}
}

// Conf wraps a confidence value for use in an Update.
func Conf(v float64) *float64 { return &v }

// Merge folds a partial update into the record. The audit trail is strictly
// append-only; DebugInfo merges key-wise.
func (s *State) Merge(u Update) {
	if u.Intent != "" {
		s.Intent = u.Intent
	}
	if u.Confidence != nil {
		s.Confidence = clamp01(*u.Confidence)
	}

	if u.ResumeText != "" {
		s.ResumeText = u.ResumeText
	}
	if u.JobDescription != "" {
		s.JobDescription = u.JobDescription
	}
	if u.ResumeAnalysis != nil {
		s.ResumeAnalysis = u.ResumeAnalysis
	}
	if u.ResumeSuggestions != nil {
		s.ResumeSuggestions = u.ResumeSuggestions
	}

	if u.InterviewRole != "" {
		s.InterviewRole = u.InterviewRole
	}
	if u.InterviewLevel != "" {
		s.InterviewLevel = u.InterviewLevel
	}
	if u.InterviewQuestions != nil {
		s.InterviewQuestions = u.InterviewQuestions
	}
	if u.InterviewAnswers != nil {
		s.InterviewAnswers = u.InterviewAnswers
	}
	if u.InterviewFeedback != nil {
		s.InterviewFeedback = u.InterviewFeedback
	}
	if u.InterviewSessionID != "" {
		s.InterviewSessionID = u.InterviewSessionID
	}

	if u.JobSearchQuery != "" {
		s.JobSearchQuery = u.JobSearchQuery
	}
	if u.JobSearchLocation != "" {
		s.JobSearchLocation = u.JobSearchLocation
	}
	if u.JobSearchLevel != "" {
		s.JobSearchLevel = u.JobSearchLevel
	}
	if u.JobResults != nil {
		s.JobResults = u.JobResults
	}

	if u.KnowledgeQuery != "" {
		s.KnowledgeQuery = u.KnowledgeQuery
	}
	if u.KnowledgeContext != "" {
		s.KnowledgeContext = u.KnowledgeContext
	}
	if u.KnowledgeSources != nil {
		s.KnowledgeSources = u.KnowledgeSources
	}
	if u.KnowledgeAnswer != "" {
		s.KnowledgeAnswer = u.KnowledgeAnswer
	}

	if u.UserProfile != nil {
		s.UserProfile = u.UserProfile
	}
	if u.ConversationHistory != nil {
		s.ConversationHistory = u.ConversationHistory
	}
	if u.ProfileUpdates != nil {
		s.ProfileUpdates = u.ProfileUpdates
	}

	if u.SharedContext != "" {
		s.SharedContext = u.SharedContext
	}

	if u.Response != "" {
		s.Response = u.Response
	}
	if u.NextAction != "" {
		s.NextAction = u.NextAction
	}
	if u.SessionComplete {
		s.SessionComplete = true
	}

	if u.ProcessingTime > 0 {
		s.ProcessingTime = u.ProcessingTime
	}
	if u.AgentUsed != "" {
		s.AgentsUsed = append(s.AgentsUsed, u.AgentUsed)
	}
	if u.ErrorMessage != "" {
		s.ErrorMessage = u.ErrorMessage
	}
	for k, v := range u.DebugInfo {
		if s.DebugInfo == nil {
			s.DebugInfo = map[string]interface{}{}
		}
		s.DebugInfo[k] = v
	}
}

// Touched reports whether a component name is in the audit trail.
func (s *State) Touched(agent string) bool {
	for _, a := range s.AgentsUsed {
		if a == agent {
			return true
		}
	}
	return false
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

// MergeProfile folds insight data into a profile snapshot: map fields merge
// key-wise, list fields union-deduplicate (case-insensitive, first-seen
// order preserved), scalar fields overwrite. Merging the same updates twice
// yields the same profile as merging once.
func MergeProfile(profile, updates map[string]interface{}) map[string]interface{} {
	merged := map[string]interface{}{}
	for k, v := range profile {
		merged[k] = v
	}

	for k, v := range updates {
		existing, ok := merged[k]
		if !ok {
			merged[k] = v
			continue
		}

		switch newVal := v.(type) {
		case map[string]interface{}:
			if oldMap, ok := existing.(map[string]interface{}); ok {
				merged[k] = MergeProfile(oldMap, newVal)
			} else {
				merged[k] = newVal
			}
		case []interface{}:
			if oldList, ok := existing.([]interface{}); ok {
				merged[k] = unionList(oldList, newVal)
			} else {
				merged[k] = newVal
			}
		default:
			merged[k] = newVal
		}
	}

	return merged
}

func unionList(a, b []interface{}) []interface{} {
	seen := map[string]bool{}
	out := make([]interface{}, 0, len(a)+len(b))

	add := func(v interface{}) {
		key := dedupKey(v)
		if seen[key] {
			return
		}
		seen[key] = true
		out = append(out, v)
	}

	for _, v := range a {
		add(v)
	}
	for _, v := range b {
		add(v)
	}
	return out
}

func dedupKey(v interface{}) string {
	if s, ok := v.(string); ok {
		return "s:" + strings.ToLower(strings.TrimSpace(s))
	}
	// Non-string list members are rare (numbers mostly); a cheap printf
	// key is good enough for dedup purposes.
	return "v:" + strings.ToLower(fmt.Sprint(v))
}
