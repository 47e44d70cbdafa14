package store

// Session represents the active coaching session state in memory.
type Session struct {
	ID     string `json:"id"` // chat session id
	UserID string `json:"user_id"`
	State  string `json:"state"` // "OPEN" | "INTERVIEWING"

	// Intent to assume for follow-up turns while a guided flow
	// (currently only mock interviews) is running.
	ContinuationIntent string `json:"continuation_intent"`

	// Metadata for last interaction
	LastQuery  string `json:"last_query"`
	LastIntent string `json:"last_intent"`
	TurnCount  int    `json:"turn_count"`
}

const (
	StateOpen         = "OPEN"
	StateInterviewing = "INTERVIEWING"
)
