package bootstrap

import (
	"context"
	"fmt"
	"log"
	"time"

	"collabnote-be/internal/config"
	"collabnote-be/internal/controller"
	"collabnote-be/internal/pkg/logger"
	"collabnote-be/internal/pkg/serverutils"
	"collabnote-be/internal/repository/memory"
	"collabnote-be/internal/repository/unitofwork"
	"collabnote-be/internal/service"
	"collabnote-be/internal/session"
	"collabnote-be/pkg/events"
	pktNats "collabnote-be/pkg/nats"

	"gorm.io/gorm"
)

const exploreCacheTTL = 30 * time.Second

type Container struct {
	// Controllers
	AuthController    controller.IAuthController
	NoteController    controller.INoteController
	AliasController   controller.IAliasController
	ExploreController controller.IExploreController

	// Services used outside HTTP handlers
	GroupService    service.IGroupService
	RevisionService service.IRevisionService

	Logger logger.ILogger

	bus      *events.Bus
	sessions *session.RedisStore
	natsPub  *pktNats.Publisher
}

func NewContainer(db *gorm.DB, cfg *config.Config) (*Container, error) {
	// 1. Core facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event bus
	bus := events.NewBus(logger.NewWatermillAdapter(sysLogger))

	// 3. Infrastructure
	sessions, err := session.NewRedisStore(cfg.App.RedisURL)
	if err != nil {
		bus.Close()
		return nil, fmt.Errorf("session store: %w", err)
	}

	// Resources acquired from here on are released by c.Close on failure.
	c := &Container{Logger: sysLogger, bus: bus, sessions: sessions}

	if cfg.App.NatsURL != "" {
		natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		} else {
			c.natsPub = natsPub
			relay := service.NewEventRelay(natsPub, logger.NewIsolatedLogger("logs/event_relay.log"))
			if err := relay.Register(bus); err != nil {
				c.Close()
				return nil, fmt.Errorf("event relay: %w", err)
			}
		}
	}

	// 4. Services
	groupService := service.NewGroupService(uowFactory, sysLogger)
	if err := groupService.EnsureSpecialGroups(context.Background()); err != nil {
		c.Close()
		return nil, fmt.Errorf("special groups: %w", err)
	}

	// The explore cache is flushed synchronously before the bus sees an event.
	exploreService := service.NewExploreService(uowFactory, memory.NewExploreCache(exploreCacheTTL), sysLogger)
	emitter := events.Emitters{exploreService.Invalidator(), bus}

	aliasService := service.NewAliasService(uowFactory, cfg.Note, emitter, sysLogger)
	permissionService := service.NewPermissionService(uowFactory, groupService, cfg.Note.DefaultPermissions, emitter, sysLogger)
	revisionService := service.NewRevisionService(uowFactory, cfg.Note.RevisionRetentionDays, sysLogger)
	noteService := service.NewNoteService(
		uowFactory,
		aliasService,
		permissionService,
		revisionService,
		emitter,
		cfg.Note,
		sysLogger,
	)

	authService := service.NewAuthService(uowFactory, sessions, cfg.Auth.JWTSecret, cfg.Auth.SessionTTL, sysLogger)

	// 5. Middlewares
	verify := func(ctx context.Context, token string) (uint, string, error) {
		claims, err := authService.VerifyToken(ctx, token)
		if err != nil {
			return 0, "", err
		}
		return claims.UserId, claims.SessionId, nil
	}
	auth := serverutils.JwtMiddleware(verify)
	optionalAuth := serverutils.OptionalJwtMiddleware(verify)

	// 6. Controllers
	c.AuthController = controller.NewAuthController(authService, auth)
	c.NoteController = controller.NewNoteController(
		noteService,
		revisionService,
		permissionService,
		aliasService,
		exploreService,
		auth,
		optionalAuth,
	)
	c.AliasController = controller.NewAliasController(aliasService, permissionService, auth)
	c.ExploreController = controller.NewExploreController(exploreService, aliasService, permissionService, auth, optionalAuth)
	c.GroupService = groupService
	c.RevisionService = revisionService
	return c, nil
}

// Close releases the bus, the broker connection and the session store.
func (c *Container) Close() {
	c.bus.Close()
	if c.natsPub != nil {
		c.natsPub.Close()
	}
	if err := c.sessions.Close(); err != nil {
		log.Printf("[WARN] Failed to close session store: %v", err)
	}
	_ = c.Logger.Sync()
}
