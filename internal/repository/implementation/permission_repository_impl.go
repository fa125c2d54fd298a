package implementation

import (
	"context"
	"errors"
	"fmt"

	"collabnote-be/internal/entity"
	"collabnote-be/internal/mapper"
	"collabnote-be/internal/model"
	"collabnote-be/internal/pkg/apperror"
	"collabnote-be/internal/repository/contract"
	"collabnote-be/internal/repository/specification"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GroupRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.PermissionMapper
}

func NewGroupRepository(db *gorm.DB) contract.GroupRepository {
	return &GroupRepositoryImpl{
		db:     db,
		mapper: mapper.NewPermissionMapper(),
	}
}

func (r *GroupRepositoryImpl) Create(ctx context.Context, group *entity.Group) error {
	m := r.mapper.GroupToModel(group)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return &apperror.AlreadyInDBError{Message: fmt.Sprintf("group %q already exists", group.Name)}
		}
		return err
	}
	*group = *r.mapper.GroupToEntity(m)
	return nil
}

func (r *GroupRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Group, error) {
	var m model.Group
	query := r.db.WithContext(ctx)
	for _, spec := range specs {
		query = spec.Apply(query)
	}
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.GroupToEntity(&m), nil
}

type PermissionRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.PermissionMapper
}

func NewPermissionRepository(db *gorm.DB) contract.PermissionRepository {
	return &PermissionRepositoryImpl{
		db:     db,
		mapper: mapper.NewPermissionMapper(),
	}
}

func (r *PermissionRepositoryImpl) UpsertGroupPermission(ctx context.Context, permission *entity.GroupPermission) error {
	m := r.mapper.GroupPermissionToModel(permission)
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "note_id"}, {Name: "group_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"can_edit"}),
	}).Create(m).Error
}

func (r *PermissionRepositoryImpl) DeleteGroupPermission(ctx context.Context, noteId, groupId uint) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("note_id = ? AND group_id = ?", noteId, groupId).
		Delete(&model.GroupPermission{})
	return result.RowsAffected, result.Error
}

func (r *PermissionRepositoryImpl) UpsertUserPermission(ctx context.Context, permission *entity.UserPermission) error {
	m := r.mapper.UserPermissionToModel(permission)
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "note_id"}, {Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"can_edit"}),
	}).Create(m).Error
}

func (r *PermissionRepositoryImpl) DeleteUserPermission(ctx context.Context, noteId, userId uint) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("note_id = ? AND user_id = ?", noteId, userId).
		Delete(&model.UserPermission{})
	return result.RowsAffected, result.Error
}

func (r *PermissionRepositoryImpl) FindGroupPermissions(ctx context.Context, noteId uint) ([]*entity.GroupPermission, error) {
	var models []*model.GroupPermission
	err := r.db.WithContext(ctx).
		Preload("Group").
		Where("note_id = ?", noteId).
		Order("group_id ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	permissions := make([]*entity.GroupPermission, len(models))
	for i, m := range models {
		permissions[i] = r.mapper.GroupPermissionToEntity(m)
	}
	return permissions, nil
}

func (r *PermissionRepositoryImpl) FindUserPermissions(ctx context.Context, noteId uint) ([]*entity.UserPermission, error) {
	var models []*model.UserPermission
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("note_id = ?", noteId).
		Order("user_id ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	permissions := make([]*entity.UserPermission, len(models))
	for i, m := range models {
		permissions[i] = r.mapper.UserPermissionToEntity(m)
	}
	return permissions, nil
}
