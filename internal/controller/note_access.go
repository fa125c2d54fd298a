package controller

import (
	"fmt"

	"collabnote-be/internal/config"
	"collabnote-be/internal/pkg/apperror"
	"collabnote-be/internal/pkg/serverutils"
	"collabnote-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

// noteAccess resolves the :alias route parameter and checks the caller's level.
type noteAccess struct {
	aliasService      service.IAliasService
	permissionService service.IPermissionService
}

func (a noteAccess) resolve(ctx *fiber.Ctx, required config.PermissionLevel) (uint, error) {
	alias := ctx.Params("alias")
	noteId, err := a.aliasService.GetNoteIdByAlias(ctx.UserContext(), alias)
	if err != nil {
		return 0, err
	}
	level, err := a.permissionService.DetermineNotePermission(ctx.UserContext(), serverutils.UserId(ctx), noteId)
	if err != nil {
		return 0, err
	}
	if level < required {
		return 0, &apperror.PermissionDeniedError{Message: fmt.Sprintf("%s access to note %q required", required, alias)}
	}
	return noteId, nil
}
