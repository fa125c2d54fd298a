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
	"collabnote-be/internal/repository/scope"
	"collabnote-be/internal/repository/specification"

	"gorm.io/gorm"
)

type AliasRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.AliasMapper
}

func NewAliasRepository(db *gorm.DB) contract.AliasRepository {
	return &AliasRepositoryImpl{
		db:     db,
		mapper: mapper.NewAliasMapper(),
	}
}

func (r *AliasRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *AliasRepositoryImpl) Create(ctx context.Context, alias *entity.Alias) error {
	m := r.mapper.ToModel(alias)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return &apperror.AlreadyInDBError{Message: fmt.Sprintf("alias %q is already in use", alias.Alias)}
		}
		return err
	}
	*alias = *r.mapper.ToEntity(m)
	return nil
}

func (r *AliasRepositoryImpl) Exists(ctx context.Context, alias string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Alias{}).Where("alias = ?", alias).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *AliasRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Alias, error) {
	var m model.Alias
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *AliasRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Alias, error) {
	var models []*model.Alias
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Scopes(scope.OrderByCreatedAsc).Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *AliasRepositoryImpl) SetPrimary(ctx context.Context, noteId uint, alias string) (int64, error) {
	db := r.db.WithContext(ctx)
	if err := db.Model(&model.Alias{}).Where("note_id = ?", noteId).Update("is_primary", nil).Error; err != nil {
		return 0, err
	}
	result := db.Model(&model.Alias{}).Where("note_id = ? AND alias = ?", noteId, alias).Update("is_primary", true)
	return result.RowsAffected, result.Error
}

func (r *AliasRepositoryImpl) Delete(ctx context.Context, alias string) (int64, error) {
	result := r.db.WithContext(ctx).Where("alias = ?", alias).Delete(&model.Alias{})
	return result.RowsAffected, result.Error
}
