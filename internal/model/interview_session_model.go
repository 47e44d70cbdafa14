package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type InterviewSession struct {
	Id            uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId        string         `gorm:"type:varchar(255);not null;index"`
	SessionId     string         `gorm:"type:varchar(255);not null;index"`
	TargetRole    string         `gorm:"type:varchar(255)"`
	Status        string         `gorm:"type:varchar(50);not null;default:'active'"`
	Questions     datatypes.JSON `gorm:"type:jsonb"`
	Answers       datatypes.JSON `gorm:"type:jsonb"`
	AverageScore  *float64
	OverallLevel  string `gorm:"type:varchar(50)"`
	SummaryText   string `gorm:"type:text"`
	EmailedAt     *time.Time
	CreatedAt     time.Time      `gorm:"autoCreateTime"`
	UpdatedAt     time.Time      `gorm:"autoUpdateTime"`
	DeletedAt     gorm.DeletedAt `gorm:"index"`
}

func (InterviewSession) TableName() string {
	return "interview_sessions"
}
