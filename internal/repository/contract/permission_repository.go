package contract

import (
	"context"

	"collabnote-be/internal/entity"
	"collabnote-be/internal/repository/specification"
)

type GroupRepository interface {
	Create(ctx context.Context, group *entity.Group) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Group, error)
}

type PermissionRepository interface {
	UpsertGroupPermission(ctx context.Context, permission *entity.GroupPermission) error
	DeleteGroupPermission(ctx context.Context, noteId, groupId uint) (int64, error)
	UpsertUserPermission(ctx context.Context, permission *entity.UserPermission) error
	DeleteUserPermission(ctx context.Context, noteId, userId uint) (int64, error)
	FindGroupPermissions(ctx context.Context, noteId uint) ([]*entity.GroupPermission, error)
	FindUserPermissions(ctx context.Context, noteId uint) ([]*entity.UserPermission, error)
}
