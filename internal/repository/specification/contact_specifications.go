package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ContactDisplayOrder mirrors the backend read order. The store re-sorts
// with unprioritized contacts last.
type ContactDisplayOrder struct{}

func (s ContactDisplayOrder) Apply(db *gorm.DB) *gorm.DB {
	return db.Order("priority ASC NULLS FIRST").Order("created_at DESC")
}

type ByContactID struct {
	ContactID uuid.UUID
}

func (s ByContactID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("contact_id = ?", s.ContactID)
}
