package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Conversation struct {
	Id         uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId     string         `gorm:"type:varchar(255);not null;index"`
	SessionId  string         `gorm:"type:varchar(255);not null;index"`
	Query      string         `gorm:"type:text;not null"`
	Response   string         `gorm:"type:text"`
	Intent     string         `gorm:"type:varchar(50);not null;default:'unknown'"`
	Specialist string         `gorm:"type:varchar(50);not null;default:'general'"`
	Metadata   datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt  time.Time      `gorm:"autoCreateTime"`
	UpdatedAt  time.Time      `gorm:"autoUpdateTime"`
	DeletedAt  gorm.DeletedAt `gorm:"index"`
}

func (Conversation) TableName() string {
	return "conversations"
}
