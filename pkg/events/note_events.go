package events

import "time"

const (
	NoteCreated            = "NOTE_CREATED"
	NoteDeleted            = "NOTE_DELETED"
	NoteUpdated            = "NOTE_UPDATED"
	NotePermissionsChanged = "NOTE_PERMISSIONS_CHANGED"
	NoteAliasesChanged     = "NOTE_ALIASES_CHANGED"
)

// NoteEventTypes lists every note lifecycle event.
var NoteEventTypes = []string{NoteCreated, NoteDeleted, NoteUpdated, NotePermissionsChanged, NoteAliasesChanged}

func NewNoteEvent(eventType string, noteId uint) BaseEvent {
	return BaseEvent{
		Type:       eventType,
		Data:       map[string]interface{}{"note_id": noteId},
		OccurredAt: time.Now().UTC(),
	}
}

// NoteIdOf reads note_id from a payload, which may have passed through JSON.
func NoteIdOf(e Event) (uint, bool) {
	switch v := e.Payload()["note_id"].(type) {
	case uint:
		return v, true
	case float64:
		return uint(v), v >= 0
	case int:
		return uint(v), v >= 0
	}
	return 0, false
}
