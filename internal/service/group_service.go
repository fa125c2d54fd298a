package service

import (
	"context"
	"errors"

	"collabnote-be/internal/entity"
	"collabnote-be/internal/pkg/apperror"
	"collabnote-be/internal/pkg/logger"
	"collabnote-be/internal/repository/specification"
	"collabnote-be/internal/repository/unitofwork"
)

type IGroupService interface {
	GetGroupIdByName(ctx context.Context, uow unitofwork.UnitOfWork, name string) (uint, error)
	EnsureSpecialGroups(ctx context.Context) error
	CreateGroup(ctx context.Context, name, displayName string) (*entity.Group, error)
}

type groupService struct {
	uowFactory unitofwork.RepositoryFactory
	logger     logger.ILogger
}

func NewGroupService(uowFactory unitofwork.RepositoryFactory, log logger.ILogger) IGroupService {
	return &groupService{
		uowFactory: uowFactory,
		logger:     log,
	}
}

func (s *groupService) GetGroupIdByName(ctx context.Context, uow unitofwork.UnitOfWork, name string) (uint, error) {
	group, err := uow.GroupRepository().FindOne(ctx, specification.ByGroupName{Name: name})
	if err != nil {
		return 0, err
	}
	if group == nil {
		return 0, apperror.NotInDB("group %q not found", name)
	}
	return group.Id, nil
}

func (s *groupService) EnsureSpecialGroups(ctx context.Context) error {
	special := []entity.Group{
		{Name: entity.SpecialGroupEveryone, DisplayName: "Everyone", IsSpecial: true},
		{Name: entity.SpecialGroupLoggedIn, DisplayName: "Logged-in users", IsSpecial: true},
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	for i := range special {
		existing, err := uow.GroupRepository().FindOne(ctx, specification.ByGroupName{Name: special[i].Name})
		if err != nil {
			return err
		}
		if existing != nil {
			continue
		}
		err = uow.GroupRepository().Create(ctx, &special[i])
		var dup *apperror.AlreadyInDBError
		if err != nil && !errors.As(err, &dup) {
			return err
		}
		s.logger.Info("GROUP", "Special group created", map[string]interface{}{"name": special[i].Name})
	}
	return nil
}

func (s *groupService) CreateGroup(ctx context.Context, name, displayName string) (*entity.Group, error) {
	group := &entity.Group{Name: name, DisplayName: displayName}
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.GroupRepository().Create(ctx, group); err != nil {
		return nil, err
	}
	return group, nil
}
