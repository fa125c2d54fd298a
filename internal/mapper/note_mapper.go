package mapper

import (
	"collabnote-be/internal/entity"
	"collabnote-be/internal/model"
)

type NoteMapper struct{}

func NewNoteMapper() *NoteMapper {
	return &NoteMapper{}
}

func (m *NoteMapper) ToEntity(n *model.Note) *entity.Note {
	if n == nil {
		return nil
	}
	return &entity.Note{
		Id:        n.Id,
		OwnerId:   n.OwnerId,
		Version:   n.Version,
		CreatedAt: n.CreatedAt,
	}
}

func (m *NoteMapper) ToModel(n *entity.Note) *model.Note {
	if n == nil {
		return nil
	}
	return &model.Note{
		Id:        n.Id,
		OwnerId:   n.OwnerId,
		Version:   n.Version,
		CreatedAt: n.CreatedAt,
	}
}

func (m *NoteMapper) ToEntities(notes []*model.Note) []*entity.Note {
	entities := make([]*entity.Note, len(notes))
	for i, n := range notes {
		entities[i] = m.ToEntity(n)
	}
	return entities
}

type AliasMapper struct{}

func NewAliasMapper() *AliasMapper {
	return &AliasMapper{}
}

func (m *AliasMapper) ToEntity(a *model.Alias) *entity.Alias {
	if a == nil {
		return nil
	}
	return &entity.Alias{
		Alias:     a.Alias,
		NoteId:    a.NoteId,
		IsPrimary: a.IsPrimary != nil && *a.IsPrimary,
		CreatedAt: a.CreatedAt,
	}
}

// ToModel stores secondary aliases with a NULL primary flag.
func (m *AliasMapper) ToModel(a *entity.Alias) *model.Alias {
	if a == nil {
		return nil
	}
	var isPrimary *bool
	if a.IsPrimary {
		t := true
		isPrimary = &t
	}
	return &model.Alias{
		Alias:     a.Alias,
		NoteId:    a.NoteId,
		IsPrimary: isPrimary,
		CreatedAt: a.CreatedAt,
	}
}

func (m *AliasMapper) ToEntities(aliases []*model.Alias) []*entity.Alias {
	entities := make([]*entity.Alias, len(aliases))
	for i, a := range aliases {
		entities[i] = m.ToEntity(a)
	}
	return entities
}
