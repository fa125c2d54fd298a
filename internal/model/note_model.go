package model

import (
	"time"
)

type Note struct {
	Id        uint      `gorm:"primaryKey;autoIncrement"`
	OwnerId   *uint     `gorm:"index"`
	Owner     *User     `gorm:"foreignKey:OwnerId;constraint:OnDelete:SET NULL"`
	Version   int       `gorm:"not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (Note) TableName() string {
	return "notes"
}

// Alias rows with IsPrimary NULL are secondary; the unique index allows
// one primary (true) per note and any number of NULLs.
type Alias struct {
	Alias     string    `gorm:"type:varchar(255);primaryKey"`
	NoteId    uint      `gorm:"not null;index;uniqueIndex:idx_aliases_note_primary,priority:1"`
	Note      *Note     `gorm:"foreignKey:NoteId;constraint:OnDelete:CASCADE"`
	IsPrimary *bool     `gorm:"uniqueIndex:idx_aliases_note_primary,priority:2"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (Alias) TableName() string {
	return "aliases"
}
