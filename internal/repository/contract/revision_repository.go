package contract

import (
	"context"
	"time"

	"collabnote-be/internal/entity"
	"collabnote-be/internal/repository/specification"

	"github.com/google/uuid"
)

type RevisionRepository interface {
	// Create inserts the revision row only; tags go through CreateTags.
	Create(ctx context.Context, revision *entity.Revision) (int64, error)
	CreateTags(ctx context.Context, tags []entity.RevisionTag) error
	// FindOne and FindAll load tags as well.
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Revision, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Revision, error)
	FindLatestByNoteId(ctx context.Context, noteId uint) (*entity.Revision, error)
	FindOldestByNoteId(ctx context.Context, noteId uint) (*entity.Revision, error)
	FindNoteIdsWithRevisionsBefore(ctx context.Context, cutoff time.Time) ([]uint, error)
	DeleteByUuids(ctx context.Context, uuids []uuid.UUID) (int64, error)
	ClearPatch(ctx context.Context, revisionUuid uuid.UUID) (int64, error)
}
