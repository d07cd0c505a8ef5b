package contactstore

import (
	"slices"

	"ai-crm-be/internal/entity"
)

// unprioritizedRank places contacts without a priority after P3.
const unprioritizedRank = 4

func rank(c entity.Contact) int {
	if c.Priority == nil {
		return unprioritizedRank
	}
	return *c.Priority
}

// Compare orders by priority ascending (none last), then newest first.
func Compare(a, b entity.Contact) int {
	if ra, rb := rank(a), rank(b); ra != rb {
		return ra - rb
	}
	return b.CreatedAt.Compare(a.CreatedAt)
}

func SortContacts(contacts []entity.Contact) {
	slices.SortStableFunc(contacts, Compare)
}
