package events

import "time"

// Event type codes emitted by the coaching pipeline.
const (
	TypeConversationCompleted = "CONVERSATION_COMPLETED"
	TypeInterviewCompleted    = "INTERVIEW_COMPLETED"
	TypeDocumentIngested      = "DOCUMENT_INGESTED"
)

// NewConversationCompleted is emitted after a turn finishes the workflow;
// the profile-sync worker consumes it to merge profile insights offline.
func NewConversationCompleted(userID, sessionID, intentLabel, query, response string) Event {
	return BaseEvent{
		Type: TypeConversationCompleted,
		Data: map[string]interface{}{
			"user_id":    userID,
			"session_id": sessionID,
			"intent":     intentLabel,
			"query":      query,
			"response":   response,
		},
		OccurredAt: time.Now(),
	}
}

// NewInterviewCompleted is emitted when every question of an interview
// session has a matching evaluated answer.
func NewInterviewCompleted(userID, sessionID, role string, score float64) Event {
	return BaseEvent{
		Type: TypeInterviewCompleted,
		Data: map[string]interface{}{
			"user_id":    userID,
			"session_id": sessionID,
			"role":       role,
			"score":      score,
		},
		OccurredAt: time.Now(),
	}
}

// NewDocumentIngested is emitted after a knowledge document's chunks have
// been embedded and stored.
func NewDocumentIngested(documentID string, chunks int) Event {
	return BaseEvent{
		Type: TypeDocumentIngested,
		Data: map[string]interface{}{
			"document_id": documentID,
			"chunks":      chunks,
		},
		OccurredAt: time.Now(),
	}
}
