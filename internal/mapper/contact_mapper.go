package mapper

import (
	"encoding/json"

	"ai-crm-be/internal/entity"
	"ai-crm-be/internal/model"

	"github.com/lib/pq"
	"gorm.io/datatypes"
)

type ContactMapper struct{}

func NewContactMapper() *ContactMapper {
	return &ContactMapper{}
}

func (m *ContactMapper) ToEntity(c *model.Contact) *entity.Contact {
	if c == nil {
		return nil
	}

	keyPoints := []string(c.KeyPoints)
	if keyPoints == nil {
		keyPoints = []string{}
	}

	return &entity.Contact{
		Id:          c.Id,
		CreatedAt:   c.CreatedAt,
		Name:        c.Name,
		Summary:     c.Summary,
		KeyPoints:   keyPoints,
		Priority:    c.Priority,
		ActionTag:   c.ActionTag,
		Notes:       c.Notes,
		ContactInfo: m.decodeInfo(c.ContactInfo),
	}
}

func (m *ContactMapper) ToEntities(contacts []*model.Contact) []entity.Contact {
	entities := make([]entity.Contact, 0, len(contacts))
	for _, c := range contacts {
		entities = append(entities, *m.ToEntity(c))
	}
	return entities
}

// InsertToModel leaves Id and CreatedAt zero so the database defaults apply.
func (m *ContactMapper) InsertToModel(in entity.ContactInsert) *model.Contact {
	keyPoints := in.KeyPoints
	if keyPoints == nil {
		keyPoints = []string{}
	}
	return &model.Contact{
		Name:        in.Name,
		Summary:     in.Summary,
		KeyPoints:   pq.StringArray(keyPoints),
		Priority:    in.Priority,
		ActionTag:   in.ActionTag,
		Notes:       in.Notes,
		ContactInfo: m.encodeInfo(in.ContactInfo),
	}
}

func (m *ContactMapper) InsertsToModels(inserts []entity.ContactInsert) []*model.Contact {
	models := make([]*model.Contact, len(inserts))
	for i, in := range inserts {
		models[i] = m.InsertToModel(in)
	}
	return models
}

// PatchToUpdates builds the column map for a partial update. Null values
// are kept as nil so GORM writes SQL NULL.
func (m *ContactMapper) PatchToUpdates(p entity.ContactPatch) map[string]interface{} {
	updates := make(map[string]interface{})
	if p.Priority.Set {
		if p.Priority.Value == nil {
			updates["priority"] = nil
		} else {
			updates["priority"] = *p.Priority.Value
		}
	}
	if p.ActionTag.Set {
		if p.ActionTag.Value == nil {
			updates["action_tag"] = nil
		} else {
			updates["action_tag"] = *p.ActionTag.Value
		}
	}
	if p.Notes.Set {
		if p.Notes.Value == nil {
			updates["notes"] = nil
		} else {
			updates["notes"] = *p.Notes.Value
		}
	}
	if p.ContactInfo.Set {
		if p.ContactInfo.Value == nil {
			updates["contact_info"] = nil
		} else {
			updates["contact_info"] = m.encodeInfo(*p.ContactInfo.Value)
		}
	}
	return updates
}

// ChangedFields renders the patch as the JSON stored in contact_history.
func (m *ContactMapper) ChangedFields(p entity.ContactPatch) datatypes.JSON {
	fields := make(map[string]interface{})
	if p.Priority.Set {
		fields["priority"] = p.Priority
	}
	if p.ActionTag.Set {
		fields["action_tag"] = p.ActionTag
	}
	if p.Notes.Set {
		fields["notes"] = p.Notes
	}
	if p.ContactInfo.Set {
		fields["contact_info"] = p.ContactInfo
	}
	raw, err := json.Marshal(fields)
	if err != nil {
		return datatypes.JSON("{}")
	}
	return datatypes.JSON(raw)
}

func (m *ContactMapper) encodeInfo(info entity.ContactInfo) datatypes.JSON {
	raw, err := json.Marshal(info)
	if err != nil {
		return datatypes.JSON("{}")
	}
	return datatypes.JSON(raw)
}

// decodeInfo treats NULL and malformed JSON as an empty object.
func (m *ContactMapper) decodeInfo(raw datatypes.JSON) entity.ContactInfo {
	var info entity.ContactInfo
	if len(raw) == 0 {
		return info
	}
	if err := json.Unmarshal(raw, &info); err != nil {
		return entity.ContactInfo{}
	}
	return info
}
