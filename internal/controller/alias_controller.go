package controller

import (
	"collabnote-be/internal/config"
	"collabnote-be/internal/dto"
	"collabnote-be/internal/pkg/apperror"
	"collabnote-be/internal/pkg/serverutils"
	"collabnote-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IAliasController interface {
	RegisterRoutes(r fiber.Router)
	Create(ctx *fiber.Ctx) error
	MakePrimary(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
}

type aliasController struct {
	aliasService      service.IAliasService
	permissionService service.IPermissionService
	access            noteAccess
	auth              fiber.Handler
}

func NewAliasController(aliasService service.IAliasService, permissionService service.IPermissionService, auth fiber.Handler) IAliasController {
	return &aliasController{
		aliasService:      aliasService,
		permissionService: permissionService,
		access:            noteAccess{aliasService: aliasService, permissionService: permissionService},
		auth:              auth,
	}
}

func (c *aliasController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/alias/v1")
	h.Use(c.auth)
	h.Post("", c.Create)
	h.Put(":alias/primary", c.MakePrimary)
	h.Delete(":alias", c.Delete)
}

func (c *aliasController) Create(ctx *fiber.Ctx) error {
	var req dto.CreateAliasRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	noteId, err := c.aliasService.GetNoteIdByAlias(ctx.UserContext(), req.NoteAlias)
	if err != nil {
		return err
	}
	if err := c.requireOwner(ctx, noteId, req.NoteAlias); err != nil {
		return err
	}

	alias, err := c.aliasService.CreateAlias(ctx.UserContext(), noteId, req.NewAlias)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success create alias", dto.AliasResponse{
		Alias:     alias.Alias,
		IsPrimary: alias.IsPrimary,
	}))
}

func (c *aliasController) MakePrimary(ctx *fiber.Ctx) error {
	noteId, err := c.access.resolve(ctx, config.PermissionFull)
	if err != nil {
		return err
	}
	alias := ctx.Params("alias")
	if err := c.aliasService.MakeAliasPrimary(ctx.UserContext(), noteId, alias); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success make alias primary", dto.AliasResponse{Alias: alias, IsPrimary: true}))
}

func (c *aliasController) Delete(ctx *fiber.Ctx) error {
	noteId, err := c.access.resolve(ctx, config.PermissionFull)
	if err != nil {
		return err
	}
	if err := c.aliasService.RemoveAlias(ctx.UserContext(), noteId, ctx.Params("alias")); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Success delete alias", nil))
}

func (c *aliasController) requireOwner(ctx *fiber.Ctx, noteId uint, alias string) error {
	level, err := c.permissionService.DetermineNotePermission(ctx.UserContext(), serverutils.UserId(ctx), noteId)
	if err != nil {
		return err
	}
	if level < config.PermissionFull {
		return &apperror.PermissionDeniedError{Message: "only the owner can add aliases to " + alias}
	}
	return nil
}
