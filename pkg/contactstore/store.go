// Package contactstore keeps the in-memory, always-sorted view of the
// contact table and applies mutations optimistically against a Backend.
package contactstore

import (
	"context"
	"slices"
	"sync"

	"ai-crm-be/internal/entity"
	"ai-crm-be/internal/pkg/logger"
	"ai-crm-be/pkg/crmerr"

	"github.com/google/uuid"
)

const logModule = "ContactStore"

// Backend is the durable owner of record.
type Backend interface {
	List(ctx context.Context) ([]entity.Contact, error)
	InsertMany(ctx context.Context, inserts []entity.ContactInsert) ([]entity.Contact, error)
	Update(ctx context.Context, id uuid.UUID, patch entity.ContactPatch) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type Store struct {
	backend Backend
	logger  logger.ILogger

	// writeMu is held from snapshot to commit or restore so a rollback
	// never overwrites another mutation's committed change.
	writeMu sync.Mutex

	mu       sync.Mutex
	contacts []entity.Contact
	loaded   bool
	// loadTicket is the newest Load issued; older results are discarded.
	loadTicket uint64
}

func New(backend Backend, log logger.ILogger) *Store {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &Store{backend: backend, logger: log}
}

// Load replaces the whole set. On failure the store is left empty and
// unloaded and the classified error is returned.
func (s *Store) Load(ctx context.Context) error {
	s.mu.Lock()
	s.loadTicket++
	ticket := s.loadTicket
	s.mu.Unlock()

	rows, err := s.backend.List(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if ticket != s.loadTicket {
		s.logger.Warn(logModule, "Discarding superseded load", map[string]interface{}{
			"ticket": ticket,
			"latest": s.loadTicket,
		})
		return nil
	}

	if err != nil {
		s.contacts = nil
		s.loaded = false
		classified := crmerr.Classify("load contacts", err)
		s.logger.Error(logModule, "Failed to load contacts", map[string]interface{}{
			"error":  err.Error(),
			"kind":   crmerr.KindOf(classified),
			"schema": crmerr.SchemaOf(classified),
		})
		return classified
	}

	s.contacts = cloneAll(rows)
	SortContacts(s.contacts)
	s.loaded = true
	s.logger.Info(logModule, "Contacts loaded", map[string]interface{}{"count": len(s.contacts)})
	return nil
}

// InsertMany creates the contacts remotely first; nothing changes locally
// unless the whole batch succeeded.
func (s *Store) InsertMany(ctx context.Context, inserts []entity.ContactInsert) ([]entity.Contact, error) {
	if len(inserts) == 0 {
		return nil, nil
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	created, err := s.backend.InsertMany(ctx, inserts)
	if err != nil {
		return nil, crmerr.Classify("insert contacts", err)
	}

	if len(created) == 0 {
		s.logger.Warn(logModule, "Backend returned no rows after insert, reloading", map[string]interface{}{"requested": len(inserts)})
		if err := s.Load(ctx); err != nil {
			return nil, err
		}
		return nil, nil
	}

	s.mu.Lock()
	s.contacts = append(s.contacts, cloneAll(created)...)
	SortContacts(s.contacts)
	s.mu.Unlock()

	return cloneAll(created), nil
}

// Update applies patch locally, commits it, and restores the exact prior
// list if the backend rejects it.
func (s *Store) Update(ctx context.Context, id uuid.UUID, patch entity.ContactPatch) (entity.Contact, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	idx := s.indexOf(id)
	if idx < 0 {
		s.mu.Unlock()
		return entity.Contact{}, crmerr.Newf(crmerr.KindNotFound, "update contact", "contact %s not found", id)
	}
	if patch.IsEmpty() {
		current := s.contacts[idx].Clone()
		s.mu.Unlock()
		return current, nil
	}

	snapshot := cloneAll(s.contacts)
	ticket := s.loadTicket
	patch.Apply(&s.contacts[idx])
	updated := s.contacts[idx].Clone()
	SortContacts(s.contacts)
	s.mu.Unlock()

	if err := s.backend.Update(ctx, id, patch); err != nil {
		s.restore(snapshot, ticket)
		s.logger.Error(logModule, "Update rejected, rolled back", map[string]interface{}{
			"contact_id": id.String(),
			"error":      err.Error(),
		})
		return entity.Contact{}, &crmerr.Error{
			Kind:   crmerr.KindUpdateFailed,
			Schema: crmerr.DetectSchemaIssue(err),
			Op:     "update contact",
			Err:    err,
		}
	}
	return updated, nil
}

// Delete removes the contact locally, commits, and restores the exact prior
// list on failure.
func (s *Store) Delete(ctx context.Context, id uuid.UUID) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	idx := s.indexOf(id)
	if idx < 0 {
		s.mu.Unlock()
		return crmerr.Newf(crmerr.KindNotFound, "delete contact", "contact %s not found", id)
	}
	snapshot := cloneAll(s.contacts)
	ticket := s.loadTicket
	s.contacts = slices.Delete(s.contacts, idx, idx+1)
	s.mu.Unlock()

	if err := s.backend.Delete(ctx, id); err != nil {
		s.restore(snapshot, ticket)
		s.logger.Error(logModule, "Delete rejected, rolled back", map[string]interface{}{
			"contact_id": id.String(),
			"error":      err.Error(),
		})
		return crmerr.New(crmerr.KindDeleteFailed, "delete contact", err)
	}
	return nil
}

// Contacts returns a deep copy of the sorted list.
func (s *Store) Contacts() []entity.Contact {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneAll(s.contacts)
}

func (s *Store) Get(id uuid.UUID) (entity.Contact, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.indexOf(id)
	if idx < 0 {
		return entity.Contact{}, false
	}
	return s.contacts[idx].Clone(), true
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.contacts)
}

func (s *Store) Loaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loaded
}

// restore puts back snapshot unless a Load was issued after it was taken;
// the reloaded set is newer than anything the snapshot holds.
func (s *Store) restore(snapshot []entity.Contact, ticket uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ticket != s.loadTicket {
		return
	}
	s.contacts = snapshot
}

func (s *Store) indexOf(id uuid.UUID) int {
	return slices.IndexFunc(s.contacts, func(c entity.Contact) bool { return c.Id == id })
}

func cloneAll(in []entity.Contact) []entity.Contact {
	if in == nil {
		return nil
	}
	out := make([]entity.Contact, len(in))
	for i, c := range in {
		out[i] = c.Clone()
	}
	return out
}
