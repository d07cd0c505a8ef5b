package entity

import (
	"time"

	"github.com/google/uuid"
)

const (
	PriorityHigh   = 1
	PriorityMedium = 2
	PriorityLow    = 3
)

type ContactInfo struct {
	Email    string `json:"email,omitempty"`
	LinkedIn string `json:"linkedin,omitempty"`
	Website  string `json:"website,omitempty"`
}

func (c ContactInfo) IsEmpty() bool {
	return c == ContactInfo{}
}

type Contact struct {
	Id          uuid.UUID
	CreatedAt   time.Time
	Name        string
	Summary     string
	KeyPoints   []string
	Priority    *int
	ActionTag   *string
	Notes       *string
	ContactInfo ContactInfo
}

// Clone returns a deep copy; the store hands out clones so callers never
// share slices or pointers with its snapshot.
func (c Contact) Clone() Contact {
	out := c
	if c.KeyPoints != nil {
		out.KeyPoints = append([]string(nil), c.KeyPoints...)
	}
	out.Priority = clonePtr(c.Priority)
	out.ActionTag = clonePtr(c.ActionTag)
	out.Notes = clonePtr(c.Notes)
	return out
}

// ContactInsert is the payload for a new contact. Priority, ActionTag and
// ContactInfo are always empty when produced by extraction.
type ContactInsert struct {
	Name        string      `json:"name"`
	Summary     string      `json:"summary"`
	KeyPoints   []string    `json:"key_points"`
	Priority    *int        `json:"priority"`
	ActionTag   *string     `json:"action_tag"`
	Notes       *string     `json:"notes"`
	ContactInfo ContactInfo `json:"contact_info"`
}

// ContactPatch is a partial update. Unset fields are left untouched.
type ContactPatch struct {
	Priority    Nullable[int]
	ActionTag   Nullable[string]
	Notes       Nullable[string]
	ContactInfo Nullable[ContactInfo]
}

func (p ContactPatch) IsEmpty() bool {
	return !p.Priority.Set && !p.ActionTag.Set && !p.Notes.Set && !p.ContactInfo.Set
}

// Apply writes the set fields onto c.
func (p ContactPatch) Apply(c *Contact) {
	if p.Priority.Set {
		c.Priority = clonePtr(p.Priority.Value)
	}
	if p.ActionTag.Set {
		c.ActionTag = clonePtr(p.ActionTag.Value)
	}
	if p.Notes.Set {
		c.Notes = clonePtr(p.Notes.Value)
	}
	if p.ContactInfo.Set {
		if p.ContactInfo.Value == nil {
			c.ContactInfo = ContactInfo{}
		} else {
			c.ContactInfo = *p.ContactInfo.Value
		}
	}
}

// NextPriority cycles P1 -> P2 -> P3 -> none -> P1.
func NextPriority(current *int) *int {
	next := PriorityHigh
	if current != nil {
		switch *current {
		case PriorityHigh:
			next = PriorityMedium
		case PriorityMedium:
			next = PriorityLow
		case PriorityLow:
			return nil
		}
	}
	return &next
}

func ValidPriority(p int) bool {
	return p >= PriorityHigh && p <= PriorityLow
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
