package dto

import "github.com/google/uuid"

type StartInterviewRequest struct {
	UserID        string `json:"user_id" validate:"required"`
	SessionID     string `json:"session_id"`
	TargetRole    string `json:"target_role" validate:"required"`
	Level         string `json:"level"`
	QuestionCount int    `json:"question_count"`
}

type StartInterviewResponse struct {
	InterviewID uuid.UUID                `json:"interview_id"`
	SessionID   string                   `json:"session_id"`
	Questions   []map[string]interface{} `json:"questions"`
}

type AnswerInterviewRequest struct {
	UserID     string `json:"user_id" validate:"required"`
	SessionID  string `json:"session_id" validate:"required"`
	QuestionID string `json:"question_id"`
	Answer     string `json:"answer" validate:"required"`
}

type AnswerInterviewResponse struct {
	Evaluation   map[string]interface{} `json:"evaluation"`
	NextQuestion map[string]interface{} `json:"next_question,omitempty"`
	Finished     bool                   `json:"finished"`

	// Populated only on the final answer, when the session completes.
	Summary      map[string]interface{} `json:"summary,omitempty"`
	AverageScore float64                `json:"average_score,omitempty"`
	OverallLevel string                 `json:"overall_level,omitempty"`
}

type FinishInterviewRequest struct {
	UserID    string `json:"user_id" validate:"required"`
	SessionID string `json:"session_id" validate:"required"`
	Email     string `json:"email"`
}

type InterviewQuestionsResponse struct {
	Role      string                   `json:"role"`
	Level     string                   `json:"level"`
	Questions []map[string]interface{} `json:"questions"`
}

type FinishInterviewResponse struct {
	AverageScore float64 `json:"average_score"`
	OverallLevel string  `json:"overall_level"`
	Summary      string  `json:"summary"`
	Emailed      bool    `json:"emailed"`
}
