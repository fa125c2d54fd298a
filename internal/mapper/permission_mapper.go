package mapper

import (
	"collabnote-be/internal/entity"
	"collabnote-be/internal/model"
)

type PermissionMapper struct{}

func NewPermissionMapper() *PermissionMapper {
	return &PermissionMapper{}
}

func (m *PermissionMapper) GroupToEntity(g *model.Group) *entity.Group {
	if g == nil {
		return nil
	}
	return &entity.Group{
		Id:          g.Id,
		Name:        g.Name,
		DisplayName: g.DisplayName,
		IsSpecial:   g.IsSpecial,
	}
}

func (m *PermissionMapper) GroupToModel(g *entity.Group) *model.Group {
	if g == nil {
		return nil
	}
	return &model.Group{
		Id:          g.Id,
		Name:        g.Name,
		DisplayName: g.DisplayName,
		IsSpecial:   g.IsSpecial,
	}
}

func (m *PermissionMapper) GroupPermissionToEntity(p *model.GroupPermission) *entity.GroupPermission {
	if p == nil {
		return nil
	}
	e := &entity.GroupPermission{NoteId: p.NoteId, GroupId: p.GroupId, CanEdit: p.CanEdit}
	if p.Group != nil {
		e.GroupName = p.Group.Name
	}
	return e
}

func (m *PermissionMapper) GroupPermissionToModel(p *entity.GroupPermission) *model.GroupPermission {
	return &model.GroupPermission{NoteId: p.NoteId, GroupId: p.GroupId, CanEdit: p.CanEdit}
}

func (m *PermissionMapper) UserPermissionToEntity(p *model.UserPermission) *entity.UserPermission {
	if p == nil {
		return nil
	}
	e := &entity.UserPermission{NoteId: p.NoteId, UserId: p.UserId, CanEdit: p.CanEdit}
	if p.User != nil {
		e.Username = p.User.Username
	}
	return e
}

func (m *PermissionMapper) UserPermissionToModel(p *entity.UserPermission) *model.UserPermission {
	return &model.UserPermission{NoteId: p.NoteId, UserId: p.UserId, CanEdit: p.CanEdit}
}
