package mapper

import (
	"encoding/json"

	"ai-crm-be/internal/entity"
	"ai-crm-be/internal/model"

	"gorm.io/datatypes"
)

type ContactHistoryMapper struct{}

func NewContactHistoryMapper() *ContactHistoryMapper {
	return &ContactHistoryMapper{}
}

func (m *ContactHistoryMapper) ToEntity(h *model.ContactHistory) *entity.ContactHistory {
	if h == nil {
		return nil
	}
	fields := json.RawMessage(h.ChangedFields)
	if len(fields) == 0 || string(fields) == "null" {
		fields = json.RawMessage("{}")
	}
	return &entity.ContactHistory{
		Id:            h.Id,
		ContactId:     h.ContactId,
		CreatedAt:     h.CreatedAt,
		ChangedBy:     h.ChangedBy,
		Reason:        h.Reason,
		ChangedFields: fields,
	}
}

func (m *ContactHistoryMapper) ToModel(h *entity.ContactHistory) *model.ContactHistory {
	if h == nil {
		return nil
	}
	return &model.ContactHistory{
		Id:            h.Id,
		ContactId:     h.ContactId,
		CreatedAt:     h.CreatedAt,
		ChangedBy:     h.ChangedBy,
		Reason:        h.Reason,
		ChangedFields: datatypes.JSON(h.ChangedFields),
	}
}

func (m *ContactHistoryMapper) ToEntities(rows []*model.ContactHistory) []entity.ContactHistory {
	entities := make([]entity.ContactHistory, 0, len(rows))
	for _, h := range rows {
		entities = append(entities, *m.ToEntity(h))
	}
	return entities
}
