package contract

import (
	"context"

	"ai-crm-be/internal/entity"
	"ai-crm-be/internal/repository/specification"

	"github.com/google/uuid"
)

type ContactRepository interface {
	CreateMany(ctx context.Context, inserts []entity.ContactInsert) ([]entity.Contact, error)
	Update(ctx context.Context, id uuid.UUID, patch entity.ContactPatch) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]entity.Contact, error)
}
