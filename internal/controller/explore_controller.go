package controller

import (
	"net/url"

	"collabnote-be/internal/config"
	"collabnote-be/internal/pkg/serverutils"
	"collabnote-be/internal/service"
	"collabnote-be/pkg/explore"

	"github.com/gofiber/fiber/v2"
)

type IExploreController interface {
	RegisterRoutes(r fiber.Router)
	My(ctx *fiber.Ctx) error
	Shared(ctx *fiber.Ctx) error
	Public(ctx *fiber.Ctx) error
	Pinned(ctx *fiber.Ctx) error
	Pin(ctx *fiber.Ctx) error
	Unpin(ctx *fiber.Ctx) error
}

type exploreController struct {
	exploreService service.IExploreService
	access         noteAccess
	auth           fiber.Handler
	optionalAuth   fiber.Handler
}

func NewExploreController(
	exploreService service.IExploreService,
	aliasService service.IAliasService,
	permissionService service.IPermissionService,
	auth fiber.Handler,
	optionalAuth fiber.Handler,
) IExploreController {
	return &exploreController{
		exploreService: exploreService,
		access:         noteAccess{aliasService: aliasService, permissionService: permissionService},
		auth:           auth,
		optionalAuth:   optionalAuth,
	}
}

func (c *exploreController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/explore/v1")
	h.Get("my", c.auth, c.My)
	h.Get("shared", c.auth, c.Shared)
	h.Get("public", c.optionalAuth, c.Public)
	h.Get("pinned", c.auth, c.Pinned)
	h.Put("pinned/:alias", c.auth, c.Pin)
	h.Delete("pinned/:alias", c.auth, c.Unpin)
}

func parseExploreQuery(ctx *fiber.Ctx) (explore.Query, error) {
	values := url.Values{}
	for key, value := range ctx.Queries() {
		values.Set(key, value)
	}
	q, err := explore.ParseQuery(values)
	if err != nil {
		return explore.Query{}, fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return q, nil
}

func (c *exploreController) My(ctx *fiber.Ctx) error {
	q, err := parseExploreQuery(ctx)
	if err != nil {
		return err
	}
	res, err := c.exploreService.GetMyNotes(ctx.UserContext(), *serverutils.UserId(ctx), q)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success list my notes", res))
}

func (c *exploreController) Shared(ctx *fiber.Ctx) error {
	q, err := parseExploreQuery(ctx)
	if err != nil {
		return err
	}
	res, err := c.exploreService.GetSharedNotes(ctx.UserContext(), *serverutils.UserId(ctx), q)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success list shared notes", res))
}

func (c *exploreController) Public(ctx *fiber.Ctx) error {
	q, err := parseExploreQuery(ctx)
	if err != nil {
		return err
	}
	res, err := c.exploreService.GetPublicNotes(ctx.UserContext(), serverutils.UserId(ctx), q)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success list public notes", res))
}

func (c *exploreController) Pinned(ctx *fiber.Ctx) error {
	q, err := parseExploreQuery(ctx)
	if err != nil {
		return err
	}
	res, err := c.exploreService.GetPinnedNotes(ctx.UserContext(), *serverutils.UserId(ctx), q)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success list pinned notes", res))
}

func (c *exploreController) Pin(ctx *fiber.Ctx) error {
	return c.setPinned(ctx, true)
}

func (c *exploreController) Unpin(ctx *fiber.Ctx) error {
	return c.setPinned(ctx, false)
}

func (c *exploreController) setPinned(ctx *fiber.Ctx, pinned bool) error {
	noteId, err := c.access.resolve(ctx, config.PermissionRead)
	if err != nil {
		return err
	}
	if err := c.exploreService.SetPinned(ctx.UserContext(), *serverutils.UserId(ctx), noteId, pinned); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Success update pin", nil))
}
