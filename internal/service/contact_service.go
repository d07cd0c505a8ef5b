package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"ai-crm-be/internal/dto"
	"ai-crm-be/internal/entity"
	"ai-crm-be/internal/pkg/logger"
	"ai-crm-be/internal/repository/memory"
	"ai-crm-be/internal/repository/specification"
	"ai-crm-be/internal/repository/unitofwork"
	"ai-crm-be/pkg/contactstore"
	"ai-crm-be/pkg/crmerr"
	"ai-crm-be/pkg/events"
	"ai-crm-be/pkg/notes"

	"github.com/google/uuid"
)

const contactLogModule = "ContactService"

type Extractor interface {
	Extract(ctx context.Context, text string) ([]entity.ContactInsert, error)
}

type IContactService interface {
	List(ctx context.Context) (*dto.ContactListResponse, error)
	Reload(ctx context.Context) (*dto.ContactListResponse, error)
	Show(ctx context.Context, id uuid.UUID) (*dto.ContactResponse, error)
	Extract(ctx context.Context, req *dto.ExtractContactsRequest) (*dto.ExtractContactsResponse, error)
	Update(ctx context.Context, id uuid.UUID, req *dto.UpdateContactRequest) (*dto.ContactResponse, error)
	CyclePriority(ctx context.Context, id uuid.UUID) (*dto.ContactResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	History(ctx context.Context, id uuid.UUID) ([]*dto.ContactHistoryResponse, error)
	FormattedNotes(ctx context.Context, id uuid.UUID) (*dto.FormattedNotesResponse, error)
	Health() *dto.HealthResponse
	HandleRemoteChange(ctx context.Context, message []byte)
}

type contactService struct {
	store            *contactstore.Store
	extractor        Extractor
	uowFactory       unitofwork.RepositoryFactory
	historyCache     *memory.HistoryCache
	publisherService IPublisherService
	logger           logger.ILogger
}

func NewContactService(
	store *contactstore.Store,
	extractor Extractor,
	uowFactory unitofwork.RepositoryFactory,
	historyCache *memory.HistoryCache,
	publisherService IPublisherService,
	log logger.ILogger,
) IContactService {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &contactService{
		store:            store,
		extractor:        extractor,
		uowFactory:       uowFactory,
		historyCache:     historyCache,
		publisherService: publisherService,
		logger:           log,
	}
}

func (s *contactService) List(ctx context.Context) (*dto.ContactListResponse, error) {
	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	return toListResponse(s.store.Contacts()), nil
}

func (s *contactService) Reload(ctx context.Context) (*dto.ContactListResponse, error) {
	if err := s.store.Load(ctx); err != nil {
		return nil, err
	}
	if s.historyCache != nil {
		s.historyCache.Flush()
	}
	s.publish(ctx, events.ContactsReloaded, nil)
	return toListResponse(s.store.Contacts()), nil
}

func (s *contactService) Show(ctx context.Context, id uuid.UUID) (*dto.ContactResponse, error) {
	contact, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	return toContactResponse(contact), nil
}

func (s *contactService) Extract(ctx context.Context, req *dto.ExtractContactsRequest) (*dto.ExtractContactsResponse, error) {
	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}

	inserts, err := s.extractor.Extract(ctx, req.Text)
	if err != nil {
		return nil, err
	}

	res := &dto.ExtractContactsResponse{Created: make([]*dto.ContactResponse, 0)}
	if len(inserts) == 0 {
		s.logger.Info(contactLogModule, "No contacts found in text", map[string]interface{}{"text_len": len(req.Text)})
		return res, nil
	}

	created, err := s.store.InsertMany(ctx, inserts)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(created))
	for _, c := range created {
		res.Created = append(res.Created, toContactResponse(c))
		ids = append(ids, c.Id)
	}
	res.Count = len(res.Created)

	s.publish(ctx, events.ContactCreated, ids)
	return res, nil
}

func (s *contactService) Update(ctx context.Context, id uuid.UUID, req *dto.UpdateContactRequest) (*dto.ContactResponse, error) {
	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}

	patch, err := buildPatch(req)
	if err != nil {
		return nil, err
	}
	return s.applyPatch(ctx, id, patch)
}

// CyclePriority steps P1 -> P2 -> P3 -> none -> P1.
func (s *contactService) CyclePriority(ctx context.Context, id uuid.UUID) (*dto.ContactResponse, error) {
	contact, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	next := entity.NextPriority(contact.Priority)
	return s.applyPatch(ctx, id, entity.ContactPatch{
		Priority: entity.Nullable[int]{Set: true, Value: next},
	})
}

func (s *contactService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.ensureLoaded(ctx); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	if s.historyCache != nil {
		s.historyCache.Invalidate(id)
	}
	s.publish(ctx, events.ContactDeleted, []uuid.UUID{id})
	return nil
}

// History is newest first.
func (s *contactService) History(ctx context.Context, id uuid.UUID) ([]*dto.ContactHistoryResponse, error) {
	if s.historyCache != nil {
		if cached, ok := s.historyCache.Get(id); ok {
			return toHistoryResponses(cached), nil
		}
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	entries, err := uow.ContactHistoryRepository().FindAll(ctx,
		specification.ByContactID{ContactID: id},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		s.logger.Error(contactLogModule, "Failed to load history", map[string]interface{}{
			"contact_id": id.String(),
			"error":      err.Error(),
		})
		return nil, crmerr.Classify("load history", err)
	}

	if s.historyCache != nil {
		s.historyCache.Save(id, entries)
	}
	return toHistoryResponses(entries), nil
}

func (s *contactService) FormattedNotes(ctx context.Context, id uuid.UUID) (*dto.FormattedNotesResponse, error) {
	contact, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	raw := ""
	if contact.Notes != nil {
		raw = *contact.Notes
	}
	return &dto.FormattedNotesResponse{
		ContactId: contact.Id,
		Blocks:    notes.Format(raw),
	}, nil
}

func (s *contactService) Health() *dto.HealthResponse {
	loaded := s.store.Loaded()
	status := "ok"
	if !loaded {
		status = "degraded"
	}
	return &dto.HealthResponse{
		Status:         status,
		ContactsLoaded: loaded,
		Contacts:       s.store.Len(),
	}
}

// HandleRemoteChange reloads after another instance changed the table.
func (s *contactService) HandleRemoteChange(ctx context.Context, message []byte) {
	var envelope struct {
		Data dto.ContactEventMessage `json:"data"`
	}
	_ = json.Unmarshal(message, &envelope)

	s.logger.Info(contactLogModule, "Remote change received, reloading", map[string]interface{}{
		"event_type": envelope.Data.Type,
		"contacts":   len(envelope.Data.ContactIds),
	})

	if s.historyCache != nil {
		s.historyCache.Flush()
	}
	if err := s.store.Load(ctx); err != nil {
		s.logger.Warn(contactLogModule, "Reload after remote change failed", map[string]interface{}{"error": err.Error()})
	}
}

func (s *contactService) applyPatch(ctx context.Context, id uuid.UUID, patch entity.ContactPatch) (*dto.ContactResponse, error) {
	updated, err := s.store.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	if patch.IsEmpty() {
		return toContactResponse(updated), nil
	}

	if s.historyCache != nil {
		s.historyCache.Invalidate(id)
	}
	s.publish(ctx, events.ContactUpdated, []uuid.UUID{id})
	return toContactResponse(updated), nil
}

func (s *contactService) ensureLoaded(ctx context.Context) error {
	if s.store.Loaded() {
		return nil
	}
	return s.store.Load(ctx)
}

func (s *contactService) find(ctx context.Context, id uuid.UUID) (entity.Contact, error) {
	if err := s.ensureLoaded(ctx); err != nil {
		return entity.Contact{}, err
	}
	contact, ok := s.store.Get(id)
	if !ok {
		return entity.Contact{}, crmerr.Newf(crmerr.KindNotFound, "find contact", "contact %s not found", id)
	}
	return contact, nil
}

// publish is best effort; the change is already committed.
func (s *contactService) publish(ctx context.Context, eventType string, ids []uuid.UUID) {
	if s.publisherService == nil {
		return
	}
	if ids == nil {
		ids = []uuid.UUID{}
	}
	payload, err := json.Marshal(dto.ContactEventMessage{
		Type:       eventType,
		ContactIds: ids,
		OccurredAt: time.Now().UTC(),
	})
	if err != nil {
		return
	}
	if err := s.publisherService.Publish(ctx, payload); err != nil {
		s.logger.Warn(contactLogModule, "Failed to publish contact event", map[string]interface{}{
			"event_type": eventType,
			"error":      err.Error(),
		})
	}
}

// buildPatch validates the request. The action tag is trimmed and an empty
// tag clears the field.
func buildPatch(req *dto.UpdateContactRequest) (entity.ContactPatch, error) {
	patch := entity.ContactPatch{
		Priority:    req.Priority,
		Notes:       req.Notes,
		ContactInfo: req.ContactInfo,
	}

	if req.Priority.Set && req.Priority.Value != nil && !entity.ValidPriority(*req.Priority.Value) {
		return entity.ContactPatch{}, crmerr.Newf(crmerr.KindValidation, "update contact", "priority must be 1, 2, 3 or null, got %d", *req.Priority.Value)
	}

	if req.ActionTag.Set {
		patch.ActionTag = entity.Null[string]()
		if req.ActionTag.Value != nil {
			if tag := strings.TrimSpace(*req.ActionTag.Value); tag != "" {
				patch.ActionTag = entity.Some(tag)
			}
		}
	}

	if req.ContactInfo.Set && req.ContactInfo.Value != nil {
		info := entity.ContactInfo{
			Email:    strings.TrimSpace(req.ContactInfo.Value.Email),
			LinkedIn: strings.TrimSpace(req.ContactInfo.Value.LinkedIn),
			Website:  strings.TrimSpace(req.ContactInfo.Value.Website),
		}
		patch.ContactInfo = entity.Some(info)
	}

	return patch, nil
}

func toContactResponse(c entity.Contact) *dto.ContactResponse {
	keyPoints := c.KeyPoints
	if keyPoints == nil {
		keyPoints = []string{}
	}
	return &dto.ContactResponse{
		Id:          c.Id,
		CreatedAt:   c.CreatedAt,
		Name:        c.Name,
		Summary:     c.Summary,
		KeyPoints:   keyPoints,
		Priority:    c.Priority,
		ActionTag:   c.ActionTag,
		Notes:       c.Notes,
		ContactInfo: c.ContactInfo,
	}
}

func toListResponse(contacts []entity.Contact) *dto.ContactListResponse {
	res := &dto.ContactListResponse{Contacts: make([]*dto.ContactResponse, 0, len(contacts))}
	for _, c := range contacts {
		res.Contacts = append(res.Contacts, toContactResponse(c))
	}
	res.Total = len(res.Contacts)
	return res
}

func toHistoryResponses(entries []entity.ContactHistory) []*dto.ContactHistoryResponse {
	res := make([]*dto.ContactHistoryResponse, 0, len(entries))
	for _, h := range entries {
		res = append(res, &dto.ContactHistoryResponse{
			Id:            h.Id,
			ContactId:     h.ContactId,
			CreatedAt:     h.CreatedAt,
			ChangedBy:     h.ChangedBy,
			Reason:        h.Reason,
			ChangedFields: h.ChangedFields,
		})
	}
	return res
}
