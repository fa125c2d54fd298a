package specification

import "gorm.io/gorm"

type AliasByName struct {
	Alias string
}

func (s AliasByName) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("alias = ?", s.Alias)
}

type AliasByNoteID struct {
	NoteID uint
}

func (s AliasByNoteID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("note_id = ?", s.NoteID)
}

type PrimaryAlias struct{}

func (s PrimaryAlias) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("is_primary = ?", true)
}
