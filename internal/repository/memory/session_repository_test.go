package memory

import (
	"testing"

	"career-coach-be/pkg/store"

	"github.com/stretchr/testify/assert"
)

func TestSessionRepositoryRoundTrip(t *testing.T) {
	repo := NewSessionRepository()

	session := &store.Session{
		ID:                 "sess-1",
		UserID:             "user-1",
		State:              store.StateInterviewing,
		ContinuationIntent: "interview_answer",
		TurnCount:          3,
	}
	repo.Save(session)

	got, found := repo.Get("sess-1")
	assert.True(t, found)
	assert.Equal(t, store.StateInterviewing, got.State)
	assert.Equal(t, "interview_answer", got.ContinuationIntent)
	assert.Equal(t, 3, got.TurnCount)
}

func TestSessionRepositoryMiss(t *testing.T) {
	repo := NewSessionRepository()

	got, found := repo.Get("nope")
	assert.False(t, found)
	assert.Nil(t, got)
}

func TestSessionRepositoryDelete(t *testing.T) {
	repo := NewSessionRepository()
	repo.Save(&store.Session{ID: "sess-2", State: store.StateOpen})

	repo.Delete("sess-2")

	_, found := repo.Get("sess-2")
	assert.False(t, found)
}
