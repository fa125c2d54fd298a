package mapper

import (
	"collabnote-be/internal/entity"
	"collabnote-be/internal/model"
)

type RevisionMapper struct{}

func NewRevisionMapper() *RevisionMapper {
	return &RevisionMapper{}
}

// ToEntity leaves Tags empty; tags live in their own table.
func (m *RevisionMapper) ToEntity(r *model.Revision) *entity.Revision {
	if r == nil {
		return nil
	}
	return &entity.Revision{
		Uuid:           r.Uuid,
		NoteId:         r.NoteId,
		NoteType:       entity.NoteType(r.NoteType),
		Content:        r.Content,
		Patch:          r.Patch,
		Title:          r.Title,
		Description:    r.Description,
		YjsStateVector: r.YjsStateVector,
		CreatedAt:      r.CreatedAt,
	}
}

func (m *RevisionMapper) ToModel(r *entity.Revision) *model.Revision {
	if r == nil {
		return nil
	}
	return &model.Revision{
		Uuid:           r.Uuid,
		NoteId:         r.NoteId,
		NoteType:       string(r.NoteType),
		Content:        r.Content,
		Patch:          r.Patch,
		Title:          r.Title,
		Description:    r.Description,
		YjsStateVector: r.YjsStateVector,
		CreatedAt:      r.CreatedAt,
	}
}

func (m *RevisionMapper) ToEntities(revisions []*model.Revision) []*entity.Revision {
	entities := make([]*entity.Revision, len(revisions))
	for i, r := range revisions {
		entities[i] = m.ToEntity(r)
	}
	return entities
}
