package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ContactHistory struct {
	Id            uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ContactId     uuid.UUID      `gorm:"type:uuid;not null;index"`
	CreatedAt     time.Time      `gorm:"type:timestamptz;default:now()"`
	ChangedBy     string         `gorm:"type:text"`
	Reason        string         `gorm:"type:text"`
	ChangedFields datatypes.JSON `gorm:"type:jsonb"`
}

func (ContactHistory) TableName() string {
	return "contact_history"
}
