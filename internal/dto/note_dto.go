package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateNoteRequest struct {
	Content string  `json:"content"`
	Alias   *string `json:"alias" validate:"omitempty,max=255"`
}

type CreateNoteResponse struct {
	Id           uint   `json:"id"`
	PrimaryAlias string `json:"primary_alias"`
}

type UpdateNoteContentRequest struct {
	Content string `json:"content"`
}

type UpdateNoteContentResponse struct {
	RevisionUuid uuid.UUID `json:"revision_uuid"`
}

type NoteContentResponse struct {
	Content string `json:"content"`
}

type GroupPermissionEntry struct {
	GroupName string `json:"group_name"`
	CanEdit   bool   `json:"can_edit"`
}

type UserPermissionEntry struct {
	Username string `json:"username"`
	CanEdit  bool   `json:"can_edit"`
}

type NotePermissions struct {
	Owner  *string                `json:"owner"`
	Groups []GroupPermissionEntry `json:"groups"`
	Users  []UserPermissionEntry  `json:"users"`
}

type NoteMetadataResponse struct {
	Id           uint            `json:"id"`
	Aliases      []string        `json:"aliases"`
	PrimaryAlias string          `json:"primary_alias"`
	Title        string          `json:"title"`
	Description  string          `json:"description"`
	Tags         []string        `json:"tags"`
	Type         string          `json:"type"`
	Version      int             `json:"version"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
	Permissions  NotePermissions `json:"permissions"`
}

type SetPermissionRequest struct {
	CanEdit bool `json:"can_edit"`
}
