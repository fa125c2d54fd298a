package unitofwork

import (
	"context"

	"collabnote-be/internal/repository/contract"
)

// UnitOfWork scopes repositories to one transaction. Outside Begin/Commit
// the accessors operate on the plain connection.
type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	NoteRepository() contract.NoteRepository
	AliasRepository() contract.AliasRepository
	RevisionRepository() contract.RevisionRepository
	GroupRepository() contract.GroupRepository
	PermissionRepository() contract.PermissionRepository
	UserRepository() contract.UserRepository
}
