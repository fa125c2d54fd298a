package entity

import (
	"time"
)

// NoteVersionCurrent is the storage format version of notes created by this backend.
// Version 1 identifies notes imported from the legacy format.
const NoteVersionCurrent = 2

type NoteType string

const (
	NoteTypeDocument NoteType = "document"
	NoteTypeSlide    NoteType = "slide"
)

func (t NoteType) IsValid() bool {
	return t == NoteTypeDocument || t == NoteTypeSlide
}

type Note struct {
	Id        uint
	OwnerId   *uint // nil for orphaned notes
	Version   int
	CreatedAt time.Time
}

type Alias struct {
	Alias     string
	NoteId    uint
	IsPrimary bool
	CreatedAt time.Time
}
