package specification

import "gorm.io/gorm"

// ByUserId filters rows owned by the given user identifier.
type ByUserId struct {
	UserId string
}

func (s ByUserId) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("user_id = ?", s.UserId)
}

// BySessionId filters rows belonging to a chat session.
type BySessionId struct {
	SessionId string
}

func (s BySessionId) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("session_id = ?", s.SessionId)
}

// ByStatus filters by status column.
type ByStatus struct {
	Status string
}

func (s ByStatus) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status = ?", s.Status)
}

// ByEmail filters users by email.
type ByEmail struct {
	Email string
}

func (s ByEmail) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("email = ?", s.Email)
}

// ByIntent filters conversations by classified intent.
type ByIntent struct {
	Intent string
}

func (s ByIntent) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("intent = ?", s.Intent)
}
