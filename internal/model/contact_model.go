package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/datatypes"
)

type Contact struct {
	Id          uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CreatedAt   time.Time      `gorm:"type:timestamptz;default:now();index"`
	Name        string         `gorm:"type:text;not null"`
	Summary     string         `gorm:"type:text;not null"`
	KeyPoints   pq.StringArray `gorm:"type:text[]"`
	Priority    *int           `gorm:"type:integer;index"`
	ActionTag   *string        `gorm:"type:text"`
	Notes       *string        `gorm:"type:text"`
	ContactInfo datatypes.JSON `gorm:"type:jsonb"`
}

func (Contact) TableName() string {
	return "contacts"
}
