package implementation

import (
	"context"
	"errors"

	"collabnote-be/internal/entity"
	"collabnote-be/internal/mapper"
	"collabnote-be/internal/model"
	"collabnote-be/internal/repository/contract"
	"collabnote-be/internal/repository/specification"

	"gorm.io/gorm"
)

type NoteRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.NoteMapper
}

func NewNoteRepository(db *gorm.DB) contract.NoteRepository {
	return &NoteRepositoryImpl{
		db:     db,
		mapper: mapper.NewNoteMapper(),
	}
}

func (r *NoteRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *NoteRepositoryImpl) Create(ctx context.Context, note *entity.Note) error {
	m := r.mapper.ToModel(note)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*note = *r.mapper.ToEntity(m)
	return nil
}

// Delete removes dependent rows explicitly so the result does not rely on
// the driver enforcing ON DELETE CASCADE. Callers run it inside a transaction.
func (r *NoteRepositoryImpl) Delete(ctx context.Context, id uint) (int64, error) {
	db := r.db.WithContext(ctx)

	revisionUuids := db.Model(&model.Revision{}).Select("uuid").Where("note_id = ?", id)
	if err := db.Where("revision_uuid IN (?)", revisionUuids).Delete(&model.RevisionTag{}).Error; err != nil {
		return 0, err
	}
	children := []interface{}{
		&model.Revision{},
		&model.Alias{},
		&model.GroupPermission{},
		&model.UserPermission{},
		&model.UserNoteState{},
	}
	for _, child := range children {
		if err := db.Where("note_id = ?", id).Delete(child).Error; err != nil {
			return 0, err
		}
	}

	result := db.Delete(&model.Note{}, id)
	return result.RowsAffected, result.Error
}

func (r *NoteRepositoryImpl) UpdateOwner(ctx context.Context, id uint, ownerId *uint) (int64, error) {
	result := r.db.WithContext(ctx).Model(&model.Note{}).Where("id = ?", id).Update("owner_id", ownerId)
	return result.RowsAffected, result.Error
}

func (r *NoteRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Note, error) {
	var m model.Note
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *NoteRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Note, error) {
	var models []*model.Note
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *NoteRepositoryImpl) FindIds(ctx context.Context, specs ...specification.Specification) ([]uint, error) {
	var ids []uint
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.Note{}), specs...)
	if err := query.Order("notes.id ASC").Pluck("notes.id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}
