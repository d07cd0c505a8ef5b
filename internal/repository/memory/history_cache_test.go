package memory

import (
	"testing"
	"time"

	"ai-crm-be/internal/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestHistoryCache(t *testing.T) {
	c := NewHistoryCache(time.Minute)
	id := uuid.New()

	_, ok := c.Get(id)
	assert.False(t, ok)

	entries := []entity.ContactHistory{{Id: uuid.New(), ContactId: id, Reason: "edit"}}
	c.Save(id, entries)

	got, ok := c.Get(id)
	assert.True(t, ok)
	assert.Equal(t, entries, got)

	c.Invalidate(id)
	_, ok = c.Get(id)
	assert.False(t, ok)

	c.Save(id, nil)
	got, ok = c.Get(id)
	assert.True(t, ok)
	assert.Empty(t, got)

	c.Flush()
	_, ok = c.Get(id)
	assert.False(t, ok)
}
