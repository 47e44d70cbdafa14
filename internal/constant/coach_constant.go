package constant

const (
	// Interview session lifecycle
	InterviewStatusActive    = "active"
	InterviewStatusCompleted = "completed"
	InterviewStatusAbandoned = "abandoned"

	// Knowledge document ingestion lifecycle
	DocumentStatusPending = "pending"
	DocumentStatusReady   = "ready"
	DocumentStatusFailed  = "failed"

	// Application pipeline statuses
	ApplicationStatusApplied   = "applied"
	ApplicationStatusScreening = "screening"
	ApplicationStatusInterview = "interview"
	ApplicationStatusOffer     = "offer"
	ApplicationStatusRejected  = "rejected"
	ApplicationStatusWithdrawn = "withdrawn"
)

// ApplicationStatuses lists every valid pipeline status.
var ApplicationStatuses = []string{
	ApplicationStatusApplied,
	ApplicationStatusScreening,
	ApplicationStatusInterview,
	ApplicationStatusOffer,
	ApplicationStatusRejected,
	ApplicationStatusWithdrawn,
}

func IsValidApplicationStatus(status string) bool {
	for _, s := range ApplicationStatuses {
		if s == status {
			return true
		}
	}
	return false
}
