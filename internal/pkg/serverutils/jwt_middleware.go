package serverutils

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
)

const (
	localUserId    = "user_id"
	localSessionId = "session_id"
)

// TokenVerifier resolves a bearer token to its user and session.
type TokenVerifier func(ctx context.Context, token string) (userId uint, sessionId string, err error)

func bearerToken(ctx *fiber.Ctx) (string, bool) {
	authHeader := ctx.Get("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") || len(authHeader) == len("Bearer ") {
		return "", false
	}
	return authHeader[len("Bearer "):], true
}

// JwtMiddleware rejects requests without a valid token and live session.
func JwtMiddleware(verify TokenVerifier) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		token, ok := bearerToken(ctx)
		if !ok {
			return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse(fiber.StatusUnauthorized, "Missing token"))
		}
		userId, sessionId, err := verify(ctx.UserContext(), token)
		if err != nil {
			status := StatusFor(err)
			return ctx.Status(status).JSON(ErrorResponse(status, err.Error()))
		}
		ctx.Locals(localUserId, userId)
		ctx.Locals(localSessionId, sessionId)
		return ctx.Next()
	}
}

// OptionalJwtMiddleware lets anonymous requests through; a bad token is
// treated as anonymous.
func OptionalJwtMiddleware(verify TokenVerifier) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		if token, ok := bearerToken(ctx); ok {
			if userId, sessionId, err := verify(ctx.UserContext(), token); err == nil {
				ctx.Locals(localUserId, userId)
				ctx.Locals(localSessionId, sessionId)
			}
		}
		return ctx.Next()
	}
}

// UserId returns nil for anonymous requests.
func UserId(ctx *fiber.Ctx) *uint {
	if id, ok := ctx.Locals(localUserId).(uint); ok {
		return &id
	}
	return nil
}

func SessionId(ctx *fiber.Ctx) string {
	id, _ := ctx.Locals(localSessionId).(string)
	return id
}
