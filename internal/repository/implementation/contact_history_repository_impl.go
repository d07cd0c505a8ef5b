package implementation

import (
	"context"

	"ai-crm-be/internal/entity"
	"ai-crm-be/internal/mapper"
	"ai-crm-be/internal/model"
	"ai-crm-be/internal/repository/contract"
	"ai-crm-be/internal/repository/specification"

	"gorm.io/gorm"
)

type ContactHistoryRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ContactHistoryMapper
}

func NewContactHistoryRepository(db *gorm.DB) contract.ContactHistoryRepository {
	return &ContactHistoryRepositoryImpl{
		db:     db,
		mapper: mapper.NewContactHistoryMapper(),
	}
}

func (r *ContactHistoryRepositoryImpl) Create(ctx context.Context, history *entity.ContactHistory) error {
	m := r.mapper.ToModel(history)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*history = *r.mapper.ToEntity(m)
	return nil
}

func (r *ContactHistoryRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]entity.ContactHistory, error) {
	var rows []*model.ContactHistory
	query := r.db.WithContext(ctx)
	for _, spec := range specs {
		query = spec.Apply(query)
	}
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(rows), nil
}
