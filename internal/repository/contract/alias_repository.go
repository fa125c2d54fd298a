package contract

import (
	"context"

	"collabnote-be/internal/entity"
	"collabnote-be/internal/repository/specification"
)

type AliasRepository interface {
	Create(ctx context.Context, alias *entity.Alias) error
	Exists(ctx context.Context, alias string) (bool, error)
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Alias, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Alias, error)
	// SetPrimary demotes the current primary alias of noteId and promotes alias.
	SetPrimary(ctx context.Context, noteId uint, alias string) (int64, error)
	Delete(ctx context.Context, alias string) (int64, error)
}
