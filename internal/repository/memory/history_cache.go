package memory

import (
	"time"

	"ai-crm-be/internal/entity"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// HistoryCache holds contact history pages keyed by contact id. Entries
// are dropped whenever the contact changes.
type HistoryCache struct {
	cache *cache.Cache
}

func NewHistoryCache(ttl time.Duration) *HistoryCache {
	return &HistoryCache{
		cache: cache.New(ttl, 2*ttl),
	}
}

func (r *HistoryCache) Save(contactID uuid.UUID, entries []entity.ContactHistory) {
	r.cache.Set(contactID.String(), entries, cache.DefaultExpiration)
}

func (r *HistoryCache) Get(contactID uuid.UUID) ([]entity.ContactHistory, bool) {
	if x, found := r.cache.Get(contactID.String()); found {
		return x.([]entity.ContactHistory), true
	}
	return nil, false
}

func (r *HistoryCache) Invalidate(contactID uuid.UUID) {
	r.cache.Delete(contactID.String())
}

func (r *HistoryCache) Flush() {
	r.cache.Flush()
}
