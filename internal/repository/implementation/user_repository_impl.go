package implementation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"collabnote-be/internal/entity"
	"collabnote-be/internal/mapper"
	"collabnote-be/internal/model"
	"collabnote-be/internal/pkg/apperror"
	"collabnote-be/internal/repository/contract"
	"collabnote-be/internal/repository/specification"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.UserMapper
}

func NewUserRepository(db *gorm.DB) contract.UserRepository {
	return &UserRepositoryImpl{
		db:     db,
		mapper: mapper.NewUserMapper(),
	}
}

func (r *UserRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *UserRepositoryImpl) Create(ctx context.Context, user *entity.User) error {
	modelUser := r.mapper.ToModel(user)
	if err := r.db.WithContext(ctx).Create(modelUser).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return &apperror.AlreadyInDBError{Message: fmt.Sprintf("username %q is taken", user.Username)}
		}
		return err
	}
	*user = *r.mapper.ToEntity(modelUser)
	return nil
}

func (r *UserRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error) {
	var modelUser model.User
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)

	if err := query.First(&modelUser).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return r.mapper.ToEntity(&modelUser), nil
}

func (r *UserRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.User, error) {
	var modelUsers []*model.User
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&modelUsers).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(modelUsers), nil
}

func (r *UserRepositoryImpl) SetPinned(ctx context.Context, userId, noteId uint, pinned bool) error {
	state := &model.UserNoteState{UserId: userId, NoteId: noteId, IsPinned: pinned}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "note_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"is_pinned"}),
	}).Create(state).Error
}

func (r *UserRepositoryImpl) RecordVisit(ctx context.Context, userId, noteId uint, at time.Time) error {
	state := &model.UserNoteState{UserId: userId, NoteId: noteId, LastVisitedAt: &at}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "note_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"last_visited_at"}),
	}).Create(state).Error
}

func (r *UserRepositoryImpl) FindNoteStates(ctx context.Context, userId uint, noteIds []uint) (map[uint]*entity.UserNoteState, error) {
	states := make(map[uint]*entity.UserNoteState, len(noteIds))
	if len(noteIds) == 0 {
		return states, nil
	}
	var models []*model.UserNoteState
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND note_id IN ?", userId, noteIds).
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	for _, m := range models {
		states[m.NoteId] = r.mapper.StateToEntity(m)
	}
	return states, nil
}
