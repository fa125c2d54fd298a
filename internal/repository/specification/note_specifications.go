package specification

import (
	"gorm.io/gorm"
)

type NoteOwnedByUser struct {
	UserID uint
}

func (s NoteOwnedByUser) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("notes.owner_id = ?", s.UserID)
}

// NoteSharedWithUser matches notes with an explicit user grant that the user does not own.
type NoteSharedWithUser struct {
	UserID uint
}

func (s NoteSharedWithUser) Apply(db *gorm.DB) *gorm.DB {
	return db.
		Where("notes.id IN (SELECT note_id FROM user_permissions WHERE user_id = ?)", s.UserID).
		Where("(notes.owner_id IS NULL OR notes.owner_id <> ?)", s.UserID)
}

// NoteVisibleToGroup matches notes the named group holds any grant on.
type NoteVisibleToGroup struct {
	GroupName string
}

func (s NoteVisibleToGroup) Apply(db *gorm.DB) *gorm.DB {
	return db.Where(`notes.id IN (
		SELECT group_permissions.note_id FROM group_permissions
		JOIN permission_groups ON permission_groups.id = group_permissions.group_id
		WHERE permission_groups.name = ?)`, s.GroupName)
}

type NotePinnedByUser struct {
	UserID uint
}

func (s NotePinnedByUser) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("notes.id IN (SELECT note_id FROM user_note_states WHERE user_id = ? AND is_pinned = ?)", s.UserID, true)
}
