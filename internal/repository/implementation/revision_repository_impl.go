package implementation

import (
	"context"
	"errors"
	"time"

	"collabnote-be/internal/entity"
	"collabnote-be/internal/mapper"
	"collabnote-be/internal/model"
	"collabnote-be/internal/repository/contract"
	"collabnote-be/internal/repository/scope"
	"collabnote-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RevisionRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.RevisionMapper
}

func NewRevisionRepository(db *gorm.DB) contract.RevisionRepository {
	return &RevisionRepositoryImpl{
		db:     db,
		mapper: mapper.NewRevisionMapper(),
	}
}

func (r *RevisionRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *RevisionRepositoryImpl) Create(ctx context.Context, revision *entity.Revision) (int64, error) {
	m := r.mapper.ToModel(revision)
	result := r.db.WithContext(ctx).Create(m)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func (r *RevisionRepositoryImpl) CreateTags(ctx context.Context, tags []entity.RevisionTag) error {
	if len(tags) == 0 {
		return nil
	}
	models := make([]model.RevisionTag, len(tags))
	for i, t := range tags {
		models[i] = model.RevisionTag{Tag: t.Tag, RevisionUuid: t.RevisionUuid}
	}
	return r.db.WithContext(ctx).Create(&models).Error
}

func (r *RevisionRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Revision, error) {
	var m model.Revision
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	revision := r.mapper.ToEntity(&m)
	if err := r.attachTags(ctx, revision); err != nil {
		return nil, err
	}
	return revision, nil
}

func (r *RevisionRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Revision, error) {
	var models []*model.Revision
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	revisions := r.mapper.ToEntities(models)
	if err := r.attachTags(ctx, revisions...); err != nil {
		return nil, err
	}
	return revisions, nil
}

func (r *RevisionRepositoryImpl) FindLatestByNoteId(ctx context.Context, noteId uint) (*entity.Revision, error) {
	return r.FindOne(ctx,
		specification.RevisionByNoteID{NoteID: noteId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
}

func (r *RevisionRepositoryImpl) FindOldestByNoteId(ctx context.Context, noteId uint) (*entity.Revision, error) {
	return r.FindOne(ctx,
		specification.RevisionByNoteID{NoteID: noteId},
		specification.OrderBy{Field: "created_at", Desc: false},
	)
}

func (r *RevisionRepositoryImpl) FindNoteIdsWithRevisionsBefore(ctx context.Context, cutoff time.Time) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).
		Model(&model.Revision{}).
		Scopes(scope.CreatedBefore(cutoff)).
		Distinct("note_id").
		Order("note_id ASC").
		Pluck("note_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *RevisionRepositoryImpl) DeleteByUuids(ctx context.Context, uuids []uuid.UUID) (int64, error) {
	if len(uuids) == 0 {
		return 0, nil
	}
	db := r.db.WithContext(ctx)
	if err := db.Where("revision_uuid IN ?", uuids).Delete(&model.RevisionTag{}).Error; err != nil {
		return 0, err
	}
	result := db.Where("uuid IN ?", uuids).Delete(&model.Revision{})
	return result.RowsAffected, result.Error
}

func (r *RevisionRepositoryImpl) ClearPatch(ctx context.Context, revisionUuid uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&model.Revision{}).
		Where("uuid = ?", revisionUuid).
		Update("patch", nil)
	return result.RowsAffected, result.Error
}

func (r *RevisionRepositoryImpl) attachTags(ctx context.Context, revisions ...*entity.Revision) error {
	if len(revisions) == 0 {
		return nil
	}
	uuids := make([]uuid.UUID, len(revisions))
	for i, rev := range revisions {
		uuids[i] = rev.Uuid
	}

	var tags []model.RevisionTag
	if err := r.db.WithContext(ctx).Where("revision_uuid IN ?", uuids).Order("tag ASC").Find(&tags).Error; err != nil {
		return err
	}

	byRevision := make(map[uuid.UUID][]string, len(revisions))
	for _, t := range tags {
		byRevision[t.RevisionUuid] = append(byRevision[t.RevisionUuid], t.Tag)
	}
	for _, rev := range revisions {
		rev.Tags = byRevision[rev.Uuid]
		if rev.Tags == nil {
			rev.Tags = []string{}
		}
	}
	return nil
}
