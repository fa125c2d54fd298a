package controller

import (
	"unicode/utf8"

	"collabnote-be/internal/config"
	"collabnote-be/internal/dto"
	"collabnote-be/internal/entity"
	"collabnote-be/internal/pkg/serverutils"
	"collabnote-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type INoteController interface {
	RegisterRoutes(r fiber.Router)
	Create(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	GetContent(ctx *fiber.Ctx) error
	UpdateContent(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
	ListRevisions(ctx *fiber.Ctx) error
	ShowRevision(ctx *fiber.Ctx) error
	PurgeRevisions(ctx *fiber.Ctx) error
	SetGroupPermission(ctx *fiber.Ctx) error
	RemoveGroupPermission(ctx *fiber.Ctx) error
	SetUserPermission(ctx *fiber.Ctx) error
	RemoveUserPermission(ctx *fiber.Ctx) error
}

type noteController struct {
	noteService       service.INoteService
	revisionService   service.IRevisionService
	permissionService service.IPermissionService
	aliasService      service.IAliasService
	exploreService    service.IExploreService
	access            noteAccess
	auth              fiber.Handler
	optionalAuth      fiber.Handler
}

func NewNoteController(
	noteService service.INoteService,
	revisionService service.IRevisionService,
	permissionService service.IPermissionService,
	aliasService service.IAliasService,
	exploreService service.IExploreService,
	auth fiber.Handler,
	optionalAuth fiber.Handler,
) INoteController {
	return &noteController{
		noteService:       noteService,
		revisionService:   revisionService,
		permissionService: permissionService,
		aliasService:      aliasService,
		exploreService:    exploreService,
		access:            noteAccess{aliasService: aliasService, permissionService: permissionService},
		auth:              auth,
		optionalAuth:      optionalAuth,
	}
}

func (c *noteController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/note/v1")
	h.Post("", c.optionalAuth, c.Create)
	h.Get(":alias", c.optionalAuth, c.Show)
	h.Delete(":alias", c.auth, c.Delete)
	h.Get(":alias/content", c.optionalAuth, c.GetContent)
	h.Put(":alias/content", c.optionalAuth, c.UpdateContent)

	h.Get(":alias/revisions", c.optionalAuth, c.ListRevisions)
	h.Get(":alias/revisions/:uuid", c.optionalAuth, c.ShowRevision)
	h.Delete(":alias/revisions", c.auth, c.PurgeRevisions)

	h.Put(":alias/permissions/groups/:group", c.auth, c.SetGroupPermission)
	h.Delete(":alias/permissions/groups/:group", c.auth, c.RemoveGroupPermission)
	h.Put(":alias/permissions/users/:username", c.auth, c.SetUserPermission)
	h.Delete(":alias/permissions/users/:username", c.auth, c.RemoveUserPermission)
}

func (c *noteController) Create(ctx *fiber.Ctx) error {
	var req dto.CreateNoteRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	noteId, err := c.noteService.CreateNote(ctx.UserContext(), req.Content, serverutils.UserId(ctx), req.Alias)
	if err != nil {
		return err
	}
	primary, err := c.aliasService.GetPrimaryAlias(ctx.UserContext(), noteId)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success create note", dto.CreateNoteResponse{
		Id:           noteId,
		PrimaryAlias: primary,
	}))
}

func (c *noteController) Show(ctx *fiber.Ctx) error {
	noteId, err := c.access.resolve(ctx, config.PermissionRead)
	if err != nil {
		return err
	}
	res, err := c.noteService.GetNoteMetadata(ctx.UserContext(), noteId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success show note", res))
}

func (c *noteController) GetContent(ctx *fiber.Ctx) error {
	noteId, err := c.access.resolve(ctx, config.PermissionRead)
	if err != nil {
		return err
	}
	content, err := c.noteService.GetNoteContent(ctx.UserContext(), noteId)
	if err != nil {
		return err
	}
	if userId := serverutils.UserId(ctx); userId != nil {
		if err := c.exploreService.RecordVisit(ctx.UserContext(), *userId, noteId); err != nil {
			return err
		}
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get note content", dto.NoteContentResponse{Content: content}))
}

func (c *noteController) UpdateContent(ctx *fiber.Ctx) error {
	noteId, err := c.access.resolve(ctx, config.PermissionWrite)
	if err != nil {
		return err
	}
	var req dto.UpdateNoteContentRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := c.noteService.CheckDocumentLength(req.Content); err != nil {
		return err
	}

	revisionUuid, err := c.noteService.UpdateNote(ctx.UserContext(), noteId, req.Content)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success update note", dto.UpdateNoteContentResponse{RevisionUuid: revisionUuid}))
}

func (c *noteController) Delete(ctx *fiber.Ctx) error {
	noteId, err := c.access.resolve(ctx, config.PermissionFull)
	if err != nil {
		return err
	}
	if err := c.noteService.DeleteNote(ctx.UserContext(), noteId); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Success delete note", nil))
}

func (c *noteController) ListRevisions(ctx *fiber.Ctx) error {
	noteId, err := c.access.resolve(ctx, config.PermissionRead)
	if err != nil {
		return err
	}
	revisions, err := c.revisionService.GetAllRevisionMetadata(ctx.UserContext(), noteId)
	if err != nil {
		return err
	}
	res := make([]dto.RevisionMetadataResponse, len(revisions))
	for i, rev := range revisions {
		res[i] = toRevisionMetadata(rev)
	}
	return ctx.JSON(serverutils.SuccessResponse("Success list revisions", res))
}

func (c *noteController) ShowRevision(ctx *fiber.Ctx) error {
	noteId, err := c.access.resolve(ctx, config.PermissionRead)
	if err != nil {
		return err
	}
	revisionUuid, err := uuid.Parse(ctx.Params("uuid"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid revision id")
	}
	rev, err := c.revisionService.GetRevision(ctx.UserContext(), noteId, revisionUuid)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success show revision", dto.RevisionResponse{
		RevisionMetadataResponse: toRevisionMetadata(rev),
		Content:                  rev.Content,
		Patch:                    rev.Patch,
	}))
}

func (c *noteController) PurgeRevisions(ctx *fiber.Ctx) error {
	noteId, err := c.access.resolve(ctx, config.PermissionFull)
	if err != nil {
		return err
	}
	deleted, err := c.revisionService.PurgeRevisions(ctx.UserContext(), noteId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success purge revisions", dto.PurgeRevisionsResponse{Deleted: deleted}))
}

func (c *noteController) SetGroupPermission(ctx *fiber.Ctx) error {
	noteId, err := c.access.resolve(ctx, config.PermissionFull)
	if err != nil {
		return err
	}
	var req dto.SetPermissionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := c.permissionService.GrantGroup(ctx.UserContext(), noteId, ctx.Params("group"), req.CanEdit); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Success set group permission", nil))
}

func (c *noteController) RemoveGroupPermission(ctx *fiber.Ctx) error {
	noteId, err := c.access.resolve(ctx, config.PermissionFull)
	if err != nil {
		return err
	}
	if err := c.permissionService.RevokeGroup(ctx.UserContext(), noteId, ctx.Params("group")); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Success remove group permission", nil))
}

func (c *noteController) SetUserPermission(ctx *fiber.Ctx) error {
	noteId, err := c.access.resolve(ctx, config.PermissionFull)
	if err != nil {
		return err
	}
	var req dto.SetPermissionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := c.permissionService.GrantUser(ctx.UserContext(), noteId, ctx.Params("username"), req.CanEdit); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Success set user permission", nil))
}

func (c *noteController) RemoveUserPermission(ctx *fiber.Ctx) error {
	noteId, err := c.access.resolve(ctx, config.PermissionFull)
	if err != nil {
		return err
	}
	if err := c.permissionService.RevokeUser(ctx.UserContext(), noteId, ctx.Params("username")); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Success remove user permission", nil))
}

func toRevisionMetadata(rev *entity.Revision) dto.RevisionMetadataResponse {
	return dto.RevisionMetadataResponse{
		Uuid:        rev.Uuid,
		Title:       rev.Title,
		Description: rev.Description,
		Tags:        rev.Tags,
		Type:        string(rev.NoteType),
		Length:      utf8.RuneCountInString(rev.Content),
		CreatedAt:   rev.CreatedAt,
	}
}
