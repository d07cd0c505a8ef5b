package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type ContactHistory struct {
	Id            uuid.UUID
	ContactId     uuid.UUID
	CreatedAt     time.Time
	ChangedBy     string
	Reason        string
	ChangedFields json.RawMessage
}
