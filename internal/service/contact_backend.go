package service

import (
	"context"
	"sort"
	"strings"

	"ai-crm-be/internal/entity"
	"ai-crm-be/internal/mapper"
	"ai-crm-be/internal/pkg/logger"
	"ai-crm-be/internal/repository/specification"
	"ai-crm-be/internal/repository/unitofwork"
	"ai-crm-be/pkg/contactstore"

	"github.com/google/uuid"
)

const (
	defaultActor     = "crm-api"
	logModuleBackend = "ContactBackend"
)

type actorKey struct{}

// ContextWithActor tags ctx with who is making a change; it ends up in
// contact_history.changed_by.
func ContextWithActor(ctx context.Context, actor string) context.Context {
	if actor == "" {
		return ctx
	}
	return context.WithValue(ctx, actorKey{}, actor)
}

func actorFrom(ctx context.Context) string {
	if actor, ok := ctx.Value(actorKey{}).(string); ok && actor != "" {
		return actor
	}
	return defaultActor
}

// contactBackend is the Postgres side of the contact store.
type contactBackend struct {
	uowFactory unitofwork.RepositoryFactory
	mapper     *mapper.ContactMapper
	logger     logger.ILogger
}

func NewContactBackend(uowFactory unitofwork.RepositoryFactory, log logger.ILogger) contactstore.Backend {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &contactBackend{
		uowFactory: uowFactory,
		mapper:     mapper.NewContactMapper(),
		logger:     log,
	}
}

func (b *contactBackend) List(ctx context.Context) ([]entity.Contact, error) {
	uow := b.uowFactory.NewUnitOfWork(ctx)
	return uow.ContactRepository().FindAll(ctx, specification.ContactDisplayOrder{})
}

// InsertMany is all-or-nothing.
func (b *contactBackend) InsertMany(ctx context.Context, inserts []entity.ContactInsert) ([]entity.Contact, error) {
	uow := b.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	created, err := uow.ContactRepository().CreateMany(ctx, inserts)
	if err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}
	return created, nil
}

// Update writes the patch. The history row is best-effort: contact_history
// may be absent and a failed audit write never fails the update.
func (b *contactBackend) Update(ctx context.Context, id uuid.UUID, patch entity.ContactPatch) error {
	uow := b.uowFactory.NewUnitOfWork(ctx)
	if err := uow.ContactRepository().Update(ctx, id, patch); err != nil {
		return err
	}

	history := entity.ContactHistory{
		ContactId:     id,
		ChangedBy:     actorFrom(ctx),
		Reason:        changeReason(patch),
		ChangedFields: []byte(b.mapper.ChangedFields(patch)),
	}
	if err := uow.ContactHistoryRepository().Create(ctx, &history); err != nil {
		b.logger.Warn(logModuleBackend, "Failed to record contact history", map[string]interface{}{
			"contact_id": id.String(),
			"error":      err.Error(),
		})
	}
	return nil
}

func (b *contactBackend) Delete(ctx context.Context, id uuid.UUID) error {
	uow := b.uowFactory.NewUnitOfWork(ctx)
	return uow.ContactRepository().Delete(ctx, id)
}

func changeReason(patch entity.ContactPatch) string {
	var fields []string
	if patch.Priority.Set {
		fields = append(fields, "priority")
	}
	if patch.ActionTag.Set {
		fields = append(fields, "action_tag")
	}
	if patch.Notes.Set {
		fields = append(fields, "notes")
	}
	if patch.ContactInfo.Set {
		fields = append(fields, "contact_info")
	}
	sort.Strings(fields)
	return "updated " + strings.Join(fields, ", ")
}
