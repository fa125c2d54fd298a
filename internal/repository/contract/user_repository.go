package contract

import (
	"context"
	"time"

	"collabnote-be/internal/entity"
	"collabnote-be/internal/repository/specification"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.User, error)

	SetPinned(ctx context.Context, userId, noteId uint, pinned bool) error
	RecordVisit(ctx context.Context, userId, noteId uint, at time.Time) error
	FindNoteStates(ctx context.Context, userId uint, noteIds []uint) (map[uint]*entity.UserNoteState, error)
}
