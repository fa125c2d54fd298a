package contract

import (
	"context"

	"collabnote-be/internal/entity"
	"collabnote-be/internal/repository/specification"
)

type NoteRepository interface {
	// Create assigns the generated id to note.Id; a zero id means the store returned no identity.
	Create(ctx context.Context, note *entity.Note) error
	// Delete removes the note and everything it owns, returning the number of note rows removed.
	Delete(ctx context.Context, id uint) (int64, error)
	UpdateOwner(ctx context.Context, id uint, ownerId *uint) (int64, error)
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Note, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Note, error)
	FindIds(ctx context.Context, specs ...specification.Specification) ([]uint, error)
}
