package dto

import (
	"encoding/json"
	"time"

	"ai-crm-be/internal/entity"
	"ai-crm-be/pkg/notes"

	"github.com/google/uuid"
)

type ContactResponse struct {
	Id          uuid.UUID          `json:"id"`
	CreatedAt   time.Time          `json:"created_at"`
	Name        string             `json:"name"`
	Summary     string             `json:"summary"`
	KeyPoints   []string           `json:"key_points"`
	Priority    *int               `json:"priority"`
	ActionTag   *string            `json:"action_tag"`
	Notes       *string            `json:"notes"`
	ContactInfo entity.ContactInfo `json:"contact_info"`
}

type ContactListResponse struct {
	Contacts []*ContactResponse `json:"contacts"`
	Total    int                `json:"total"`
}

type ExtractContactsRequest struct {
	Text string `json:"text" validate:"required,max=50000"`
}

type ExtractContactsResponse struct {
	Created []*ContactResponse `json:"created"`
	Count   int                `json:"count"`
}

// UpdateContactRequest carries only the fields the client changed. A key
// present with null clears the field; an absent key leaves it untouched.
type UpdateContactRequest struct {
	Priority    entity.Nullable[int]                `json:"priority"`
	ActionTag   entity.Nullable[string]             `json:"action_tag"`
	Notes       entity.Nullable[string]             `json:"notes"`
	ContactInfo entity.Nullable[entity.ContactInfo] `json:"contact_info"`
}

type ContactHistoryResponse struct {
	Id            uuid.UUID       `json:"id"`
	ContactId     uuid.UUID       `json:"contact_id"`
	CreatedAt     time.Time       `json:"created_at"`
	ChangedBy     string          `json:"changed_by"`
	Reason        string          `json:"reason"`
	ChangedFields json.RawMessage `json:"changed_fields"`
}

type FormattedNotesResponse struct {
	ContactId uuid.UUID     `json:"contact_id"`
	Blocks    []notes.Block `json:"blocks"`
}

// ContactEventMessage travels over the in-process bus, the websocket feed
// and NATS.
type ContactEventMessage struct {
	Type       string      `json:"type"`
	ContactIds []uuid.UUID `json:"contact_ids"`
	OccurredAt time.Time   `json:"occurred_at"`
}

type HealthResponse struct {
	Status         string `json:"status"`
	ContactsLoaded bool   `json:"contacts_loaded"`
	Contacts       int    `json:"contacts"`
	LiveClients    int    `json:"live_clients"`
}
