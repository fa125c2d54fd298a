// Package apperror holds the error kinds the note workflow reports to its callers.
// Callers match them with errors.As; the HTTP layer maps each kind to a status code.
package apperror

import "fmt"

// MaximumDocumentLengthExceededError is raised before any write happens.
type MaximumDocumentLengthExceededError struct {
	Length    int
	MaxLength int
}

func (e *MaximumDocumentLengthExceededError) Error() string {
	return fmt.Sprintf("document is %d characters long, the maximum is %d", e.Length, e.MaxLength)
}

// NotInDBError means an operation targeting a specific record matched nothing.
type NotInDBError struct {
	Message string
}

func (e *NotInDBError) Error() string {
	return e.Message
}

func NotInDB(format string, args ...interface{}) *NotInDBError {
	return &NotInDBError{Message: fmt.Sprintf(format, args...)}
}

// GenericDBError signals a store contract violation, e.g. an insert that returned no identity.
type GenericDBError struct {
	Message string
	Err     error
}

func (e *GenericDBError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *GenericDBError) Unwrap() error {
	return e.Err
}

func GenericDB(message string, err error) *GenericDBError {
	return &GenericDBError{Message: message, Err: err}
}

type AlreadyInDBError struct {
	Message string
}

func (e *AlreadyInDBError) Error() string {
	return e.Message
}

type ForbiddenAliasError struct {
	Alias  string
	Reason string
}

func (e *ForbiddenAliasError) Error() string {
	return fmt.Sprintf("alias %q is not allowed: %s", e.Alias, e.Reason)
}

type PrimaryAliasDeletionForbiddenError struct {
	Alias string
}

func (e *PrimaryAliasDeletionForbiddenError) Error() string {
	return fmt.Sprintf("alias %q is the primary alias and cannot be removed", e.Alias)
}

type PermissionDeniedError struct {
	Message string
}

func (e *PermissionDeniedError) Error() string {
	return e.Message
}

// UnauthorizedError covers bad credentials and missing or expired sessions.
type UnauthorizedError struct {
	Message string
}

func (e *UnauthorizedError) Error() string {
	return e.Message
}
