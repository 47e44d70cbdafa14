package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Application struct {
	Id        uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId    string         `gorm:"type:varchar(255);not null;index"`
	Company   string         `gorm:"type:varchar(255);not null"`
	Role      string         `gorm:"type:varchar(255);not null"`
	Status    string         `gorm:"type:varchar(50);not null;default:'applied'"`
	Location  string         `gorm:"type:varchar(255)"`
	Notes     string         `gorm:"type:text"`
	History   datatypes.JSON `gorm:"type:jsonb"`
	AppliedAt time.Time
	CreatedAt time.Time      `gorm:"autoCreateTime"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (Application) TableName() string {
	return "applications"
}
