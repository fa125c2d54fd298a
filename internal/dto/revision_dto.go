package dto

import (
	"time"

	"github.com/google/uuid"
)

type RevisionMetadataResponse struct {
	Uuid        uuid.UUID `json:"uuid"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Tags        []string  `json:"tags"`
	Type        string    `json:"type"`
	Length      int       `json:"length"`
	CreatedAt   time.Time `json:"created_at"`
}

type RevisionResponse struct {
	RevisionMetadataResponse
	Content string  `json:"content"`
	Patch   *string `json:"patch"`
}

type PurgeRevisionsResponse struct {
	Deleted int64 `json:"deleted"`
}
