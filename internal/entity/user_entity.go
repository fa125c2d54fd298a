package entity

import (
	"time"
)

type User struct {
	Id           uint
	Username     string
	DisplayName  string
	PasswordHash *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserNoteState keeps the per-user explore data of a note.
type UserNoteState struct {
	UserId        uint
	NoteId        uint
	IsPinned      bool
	LastVisitedAt *time.Time
}
