package entity

import (
	"time"

	"github.com/google/uuid"
)

// Revision is an immutable snapshot of a note's content.
type Revision struct {
	Uuid           uuid.UUID
	NoteId         uint
	NoteType       NoteType
	Content        string
	Patch          *string // nil for self-contained revisions
	Title          string
	Description    string
	Tags           []string
	YjsStateVector []byte
	CreatedAt      time.Time
}

type RevisionTag struct {
	Tag          string
	RevisionUuid uuid.UUID
}
