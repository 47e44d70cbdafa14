package dto

type AskRequest struct {
	UserID    string `json:"user_id" validate:"required"`
	SessionID string `json:"session_id"`
	Query     string `json:"query" validate:"required"`

	// Optional task-specific fields, seeded into the turn record so the
	// routed specialist does not have to ask for them.
	ResumeText         string `json:"resume_text"`
	JobDescription     string `json:"job_description"`
	InterviewRole      string `json:"interview_role"`
	InterviewLevel     string `json:"interview_level"`
	InterviewSessionID string `json:"interview_session_id"`
	JobLocation        string `json:"job_location"`
	JobLevel           string `json:"job_level"`
	KnowledgeQuery     string `json:"knowledge_query"`
}

type AskResponse struct {
	SessionID      string                 `json:"session_id"`
	Intent         string                 `json:"intent"`
	Confidence     float64                `json:"confidence"`
	Response       string                 `json:"response"`
	AgentsUsed     []string               `json:"agents_used"`
	ProcessingTime float64                `json:"processing_time"`
	Error          string                 `json:"error,omitempty"`
	Debug          map[string]interface{} `json:"debug,omitempty"`

	// Specialist payload for whichever slot the turn populated.
	ResumeAnalysis     map[string]interface{}   `json:"resume_analysis,omitempty"`
	ResumeSuggestions  map[string]interface{}   `json:"resume_suggestions,omitempty"`
	InterviewQuestions []map[string]interface{} `json:"interview_questions,omitempty"`
	InterviewFeedback  map[string]interface{}   `json:"interview_feedback,omitempty"`
	JobResults         []map[string]interface{} `json:"job_results,omitempty"`
	KnowledgeAnswer    string                   `json:"knowledge_answer,omitempty"`
	KnowledgeSources   []string                 `json:"knowledge_sources,omitempty"`
	SessionComplete    bool                     `json:"session_complete"`
}

type ConversationHistoryItem struct {
	SessionID  string  `json:"session_id"`
	Query      string  `json:"query"`
	Response   string  `json:"response"`
	Intent     string  `json:"intent"`
	Specialist string  `json:"specialist"`
	CreatedAt  string  `json:"created_at"`
	Confidence float64 `json:"confidence"`
}

type PublishIngestDocumentMessage struct {
	DocumentID string `json:"document_id"`
}
