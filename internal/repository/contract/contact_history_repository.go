package contract

import (
	"context"

	"ai-crm-be/internal/entity"
	"ai-crm-be/internal/repository/specification"
)

type ContactHistoryRepository interface {
	Create(ctx context.Context, history *entity.ContactHistory) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]entity.ContactHistory, error)
}
