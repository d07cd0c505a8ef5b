package implementation

import (
	"context"
	"fmt"

	"ai-crm-be/internal/entity"
	"ai-crm-be/internal/mapper"
	"ai-crm-be/internal/model"
	"ai-crm-be/internal/repository/contract"
	"ai-crm-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ContactRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ContactMapper
}

func NewContactRepository(db *gorm.DB) contract.ContactRepository {
	return &ContactRepositoryImpl{
		db:     db,
		mapper: mapper.NewContactMapper(),
	}
}

func (r *ContactRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

// CreateMany inserts the batch in one statement; Postgres returns the
// generated id and created_at for every row.
func (r *ContactRepositoryImpl) CreateMany(ctx context.Context, inserts []entity.ContactInsert) ([]entity.Contact, error) {
	if len(inserts) == 0 {
		return []entity.Contact{}, nil
	}
	models := r.mapper.InsertsToModels(inserts)
	if err := r.db.WithContext(ctx).Create(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *ContactRepositoryImpl) Update(ctx context.Context, id uuid.UUID, patch entity.ContactPatch) error {
	updates := r.mapper.PatchToUpdates(patch)
	if len(updates) == 0 {
		return nil
	}
	result := r.db.WithContext(ctx).Model(&model.Contact{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("contact %s: %w", id, gorm.ErrRecordNotFound)
	}
	return nil
}

func (r *ContactRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Contact{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("contact %s: %w", id, gorm.ErrRecordNotFound)
	}
	return nil
}

func (r *ContactRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]entity.Contact, error) {
	var models []*model.Contact
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}
