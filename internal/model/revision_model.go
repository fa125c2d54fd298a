package model

import (
	"time"

	"github.com/google/uuid"
)

type Revision struct {
	Uuid           uuid.UUID `gorm:"type:uuid;primaryKey"`
	NoteId         uint      `gorm:"not null;index"`
	Note           *Note     `gorm:"foreignKey:NoteId;constraint:OnDelete:CASCADE"`
	NoteType       string    `gorm:"type:varchar(20);not null"`
	Content        string    `gorm:"type:text;not null"`
	Patch          *string   `gorm:"type:text"`
	Title          string    `gorm:"type:text"`
	Description    string    `gorm:"type:text"`
	YjsStateVector []byte
	CreatedAt      time.Time `gorm:"not null;index"`
}

func (Revision) TableName() string {
	return "revisions"
}

type RevisionTag struct {
	Tag          string    `gorm:"type:text;primaryKey"`
	RevisionUuid uuid.UUID `gorm:"type:uuid;primaryKey"`
	Revision     *Revision `gorm:"foreignKey:RevisionUuid;references:Uuid;constraint:OnDelete:CASCADE"`
}

func (RevisionTag) TableName() string {
	return "revision_tags"
}
