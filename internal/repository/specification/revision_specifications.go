package specification

import (
	"time"

	"collabnote-be/internal/repository/scope"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RevisionByUuid struct {
	Uuid uuid.UUID
}

func (s RevisionByUuid) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("uuid = ?", s.Uuid)
}

type RevisionByNoteID struct {
	NoteID uint
}

func (s RevisionByNoteID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("note_id = ?", s.NoteID)
}

type RevisionCreatedBefore struct {
	Cutoff time.Time
}

func (s RevisionCreatedBefore) Apply(db *gorm.DB) *gorm.DB {
	return db.Scopes(scope.CreatedBefore(s.Cutoff))
}
