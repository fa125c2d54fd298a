package serverutils

import (
	"errors"
	"net/http"

	"collabnote-be/internal/pkg/apperror"

	"github.com/gofiber/fiber/v2"
)

// StatusFor maps domain errors to HTTP status codes.
func StatusFor(err error) int {
	var (
		fiberErr     *fiber.Error
		validation   *ValidationError
		tooLong      *apperror.MaximumDocumentLengthExceededError
		forbidden    *apperror.ForbiddenAliasError
		primaryAlias *apperror.PrimaryAliasDeletionForbiddenError
		unauthorized *apperror.UnauthorizedError
		denied       *apperror.PermissionDeniedError
		notFound     *apperror.NotInDBError
		conflict     *apperror.AlreadyInDBError
	)
	switch {
	case errors.As(err, &fiberErr):
		return fiberErr.Code
	case errors.As(err, &validation), errors.As(err, &tooLong), errors.As(err, &forbidden), errors.As(err, &primaryAlias):
		return http.StatusBadRequest
	case errors.As(err, &unauthorized):
		return http.StatusUnauthorized
	case errors.As(err, &denied):
		return http.StatusForbidden
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &conflict):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// ErrorHandlerMiddleware renders errors returned by handlers as the JSON envelope.
// Internal errors are not echoed to the client.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}
		status := StatusFor(err)
		message := err.Error()
		if status == http.StatusInternalServerError {
			message = "internal server error"
		}
		return ctx.Status(status).JSON(ErrorResponse(status, message))
	}
}
