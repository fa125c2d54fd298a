package dto

type CreateAliasRequest struct {
	NoteAlias string `json:"note_alias" validate:"required"`
	NewAlias  string `json:"new_alias" validate:"required,max=255"`
}

type AliasResponse struct {
	Alias     string `json:"alias"`
	IsPrimary bool   `json:"is_primary"`
}
