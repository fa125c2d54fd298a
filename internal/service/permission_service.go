package service

import (
	"context"

	"collabnote-be/internal/config"
	"collabnote-be/internal/entity"
	"collabnote-be/internal/pkg/apperror"
	"collabnote-be/internal/pkg/logger"
	"collabnote-be/internal/repository/specification"
	"collabnote-be/internal/repository/unitofwork"
	"collabnote-be/pkg/events"
)

// DefaultGrant is one group grant written when a note is created.
type DefaultGrant struct {
	GroupName string
	CanEdit   bool
}

// ResolveDefaultGrants turns the configured defaults into grants, everyone
// first. Deny produces no grant.
func ResolveDefaultGrants(defaults config.DefaultPermissions) []DefaultGrant {
	pairs := []struct {
		group string
		level config.PermissionLevel
	}{
		{entity.SpecialGroupEveryone, defaults.Everyone},
		{entity.SpecialGroupLoggedIn, defaults.LoggedIn},
	}

	grants := make([]DefaultGrant, 0, len(pairs))
	for _, p := range pairs {
		if p.level <= config.PermissionDeny {
			continue
		}
		grants = append(grants, DefaultGrant{GroupName: p.group, CanEdit: p.level >= config.PermissionWrite})
	}
	return grants
}

type IPermissionService interface {
	ApplyDefaultPermissions(ctx context.Context, uow unitofwork.UnitOfWork, noteId uint) error
	SetGroupPermission(ctx context.Context, uow unitofwork.UnitOfWork, noteId, groupId uint, canEdit bool) error

	GrantGroup(ctx context.Context, noteId uint, groupName string, canEdit bool) error
	RevokeGroup(ctx context.Context, noteId uint, groupName string) error
	GrantUser(ctx context.Context, noteId uint, username string, canEdit bool) error
	RevokeUser(ctx context.Context, noteId uint, username string) error
	DetermineNotePermission(ctx context.Context, userId *uint, noteId uint) (config.PermissionLevel, error)
	ChangeOwner(ctx context.Context, noteId uint, newOwnerId *uint) error
	GetPermissions(ctx context.Context, noteId uint) ([]*entity.GroupPermission, []*entity.UserPermission, error)
}

type permissionService struct {
	uowFactory   unitofwork.RepositoryFactory
	groupService IGroupService
	defaults     config.DefaultPermissions
	emitter      events.Emitter
	logger       logger.ILogger
}

func NewPermissionService(
	uowFactory unitofwork.RepositoryFactory,
	groupService IGroupService,
	defaults config.DefaultPermissions,
	emitter events.Emitter,
	log logger.ILogger,
) IPermissionService {
	return &permissionService{
		uowFactory:   uowFactory,
		groupService: groupService,
		defaults:     defaults,
		emitter:      emitter,
		logger:       log,
	}
}

func (s *permissionService) ApplyDefaultPermissions(ctx context.Context, uow unitofwork.UnitOfWork, noteId uint) error {
	for _, grant := range ResolveDefaultGrants(s.defaults) {
		groupId, err := s.groupService.GetGroupIdByName(ctx, uow, grant.GroupName)
		if err != nil {
			return err
		}
		if err := s.SetGroupPermission(ctx, uow, noteId, groupId, grant.CanEdit); err != nil {
			return err
		}
	}
	return nil
}

func (s *permissionService) SetGroupPermission(ctx context.Context, uow unitofwork.UnitOfWork, noteId, groupId uint, canEdit bool) error {
	return uow.PermissionRepository().UpsertGroupPermission(ctx, &entity.GroupPermission{
		NoteId:  noteId,
		GroupId: groupId,
		CanEdit: canEdit,
	})
}

func (s *permissionService) GrantGroup(ctx context.Context, noteId uint, groupName string, canEdit bool) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := s.requireNote(ctx, uow, noteId); err != nil {
		return err
	}
	groupId, err := s.groupService.GetGroupIdByName(ctx, uow, groupName)
	if err != nil {
		return err
	}
	if err := s.SetGroupPermission(ctx, uow, noteId, groupId, canEdit); err != nil {
		return err
	}
	if err := uow.Commit(); err != nil {
		return err
	}
	s.changed(ctx, noteId)
	return nil
}

func (s *permissionService) RevokeGroup(ctx context.Context, noteId uint, groupName string) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	groupId, err := s.groupService.GetGroupIdByName(ctx, uow, groupName)
	if err != nil {
		return err
	}
	affected, err := uow.PermissionRepository().DeleteGroupPermission(ctx, noteId, groupId)
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperror.NotInDB("group %q has no permission on note %d", groupName, noteId)
	}
	s.changed(ctx, noteId)
	return nil
}

func (s *permissionService) GrantUser(ctx context.Context, noteId uint, username string, canEdit bool) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := s.requireNote(ctx, uow, noteId); err != nil {
		return err
	}
	user, err := s.findUser(ctx, uow, username)
	if err != nil {
		return err
	}
	err = uow.PermissionRepository().UpsertUserPermission(ctx, &entity.UserPermission{
		NoteId:  noteId,
		UserId:  user.Id,
		CanEdit: canEdit,
	})
	if err != nil {
		return err
	}
	if err := uow.Commit(); err != nil {
		return err
	}
	s.changed(ctx, noteId)
	return nil
}

func (s *permissionService) RevokeUser(ctx context.Context, noteId uint, username string) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := s.findUser(ctx, uow, username)
	if err != nil {
		return err
	}
	affected, err := uow.PermissionRepository().DeleteUserPermission(ctx, noteId, user.Id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperror.NotInDB("user %q has no permission on note %d", username, noteId)
	}
	s.changed(ctx, noteId)
	return nil
}

// DetermineNotePermission returns Full for the owner, otherwise the highest
// level among the user's grant and the special group grants that apply.
func (s *permissionService) DetermineNotePermission(ctx context.Context, userId *uint, noteId uint) (config.PermissionLevel, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	note, err := uow.NoteRepository().FindOne(ctx, specification.ByID{ID: noteId})
	if err != nil {
		return config.PermissionInvalid, err
	}
	if note == nil {
		return config.PermissionInvalid, apperror.NotInDB("note %d not found", noteId)
	}
	if userId != nil && note.OwnerId != nil && *note.OwnerId == *userId {
		return config.PermissionFull, nil
	}

	groupGrants, err := uow.PermissionRepository().FindGroupPermissions(ctx, noteId)
	if err != nil {
		return config.PermissionInvalid, err
	}
	level := config.PermissionDeny
	for _, g := range groupGrants {
		applies := g.GroupName == entity.SpecialGroupEveryone ||
			(userId != nil && g.GroupName == entity.SpecialGroupLoggedIn)
		if applies {
			level = maxLevel(level, grantLevel(g.CanEdit))
		}
	}

	if userId != nil {
		userGrants, err := uow.PermissionRepository().FindUserPermissions(ctx, noteId)
		if err != nil {
			return config.PermissionInvalid, err
		}
		for _, u := range userGrants {
			if u.UserId == *userId {
				level = maxLevel(level, grantLevel(u.CanEdit))
			}
		}
	}
	return level, nil
}

func (s *permissionService) ChangeOwner(ctx context.Context, noteId uint, newOwnerId *uint) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	affected, err := uow.NoteRepository().UpdateOwner(ctx, noteId, newOwnerId)
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperror.NotInDB("note %d not found", noteId)
	}
	s.logger.Info("PERMISSION", "Note owner changed", map[string]interface{}{"note_id": noteId, "owner_id": newOwnerId})
	s.changed(ctx, noteId)
	return nil
}

func (s *permissionService) GetPermissions(ctx context.Context, noteId uint) ([]*entity.GroupPermission, []*entity.UserPermission, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	groups, err := uow.PermissionRepository().FindGroupPermissions(ctx, noteId)
	if err != nil {
		return nil, nil, err
	}
	users, err := uow.PermissionRepository().FindUserPermissions(ctx, noteId)
	if err != nil {
		return nil, nil, err
	}
	return groups, users, nil
}

func (s *permissionService) changed(ctx context.Context, noteId uint) {
	s.emitter.Emit(ctx, events.NewNoteEvent(events.NotePermissionsChanged, noteId))
}

func (s *permissionService) requireNote(ctx context.Context, uow unitofwork.UnitOfWork, noteId uint) error {
	note, err := uow.NoteRepository().FindOne(ctx, specification.ByID{ID: noteId})
	if err != nil {
		return err
	}
	if note == nil {
		return apperror.NotInDB("note %d not found", noteId)
	}
	return nil
}

func (s *permissionService) findUser(ctx context.Context, uow unitofwork.UnitOfWork, username string) (*entity.User, error) {
	user, err := uow.UserRepository().FindOne(ctx, specification.ByUsername{Username: username})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.NotInDB("user %q not found", username)
	}
	return user, nil
}

func grantLevel(canEdit bool) config.PermissionLevel {
	if canEdit {
		return config.PermissionWrite
	}
	return config.PermissionRead
}

func maxLevel(a, b config.PermissionLevel) config.PermissionLevel {
	if a > b {
		return a
	}
	return b
}
