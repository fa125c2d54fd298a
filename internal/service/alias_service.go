package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"collabnote-be/internal/config"
	"collabnote-be/internal/entity"
	"collabnote-be/internal/pkg/apperror"
	"collabnote-be/internal/pkg/logger"
	"collabnote-be/internal/repository/specification"
	"collabnote-be/internal/repository/unitofwork"
	"collabnote-be/pkg/events"

	"github.com/google/uuid"
	"github.com/lithammer/shortuuid/v3"
)

var aliasPattern = regexp.MustCompile(`^[a-zA-Z0-9._~-]{1,255}$`)

type IAliasService interface {
	// EnsureAliasIsAvailable and AddAlias join the caller's transaction.
	EnsureAliasIsAvailable(ctx context.Context, uow unitofwork.UnitOfWork, alias string) error
	GenerateRandomAlias() string
	AddAlias(ctx context.Context, uow unitofwork.UnitOfWork, noteId uint, alias string) (*entity.Alias, error)

	CreateAlias(ctx context.Context, noteId uint, alias string) (*entity.Alias, error)
	MakeAliasPrimary(ctx context.Context, noteId uint, alias string) error
	RemoveAlias(ctx context.Context, noteId uint, alias string) error
	GetNoteIdByAlias(ctx context.Context, alias string) (uint, error)
	GetPrimaryAlias(ctx context.Context, noteId uint) (string, error)
	GetAllAliases(ctx context.Context, noteId uint) ([]*entity.Alias, error)
}

type aliasService struct {
	uowFactory unitofwork.RepositoryFactory
	forbidden  map[string]struct{}
	emitter    events.Emitter
	logger     logger.ILogger
}

func NewAliasService(uowFactory unitofwork.RepositoryFactory, cfg config.NoteConfig, emitter events.Emitter, log logger.ILogger) IAliasService {
	forbidden := make(map[string]struct{}, len(cfg.ForbiddenAliases))
	for _, alias := range cfg.ForbiddenAliases {
		forbidden[strings.ToLower(alias)] = struct{}{}
	}
	return &aliasService{
		uowFactory: uowFactory,
		forbidden:  forbidden,
		emitter:    emitter,
		logger:     log,
	}
}

func (s *aliasService) checkGrammar(alias string) error {
	if !aliasPattern.MatchString(alias) {
		return &apperror.ForbiddenAliasError{Alias: alias, Reason: "only letters, digits and . _ ~ - are allowed"}
	}
	if _, ok := s.forbidden[strings.ToLower(alias)]; ok {
		return &apperror.ForbiddenAliasError{Alias: alias, Reason: "the alias is reserved"}
	}
	if _, err := uuid.Parse(alias); err == nil {
		return &apperror.ForbiddenAliasError{Alias: alias, Reason: "the alias must not look like a revision id"}
	}
	return nil
}

func (s *aliasService) EnsureAliasIsAvailable(ctx context.Context, uow unitofwork.UnitOfWork, alias string) error {
	if err := s.checkGrammar(alias); err != nil {
		return err
	}
	exists, err := uow.AliasRepository().Exists(ctx, alias)
	if err != nil {
		return err
	}
	if exists {
		return &apperror.AlreadyInDBError{Message: fmt.Sprintf("alias %q is already in use", alias)}
	}
	return nil
}

func (s *aliasService) GenerateRandomAlias() string {
	return strings.ToLower(shortuuid.New())
}

// AddAlias makes the alias primary when the note has none yet.
func (s *aliasService) AddAlias(ctx context.Context, uow unitofwork.UnitOfWork, noteId uint, alias string) (*entity.Alias, error) {
	primary, err := uow.AliasRepository().FindOne(ctx,
		specification.AliasByNoteID{NoteID: noteId},
		specification.PrimaryAlias{},
	)
	if err != nil {
		return nil, err
	}

	a := &entity.Alias{
		Alias:     alias,
		NoteId:    noteId,
		IsPrimary: primary == nil,
	}
	if err := uow.AliasRepository().Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *aliasService) CreateAlias(ctx context.Context, noteId uint, alias string) (*entity.Alias, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := s.EnsureAliasIsAvailable(ctx, uow, alias); err != nil {
		return nil, err
	}
	created, err := s.AddAlias(ctx, uow, noteId, alias)
	if err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.logger.Info("ALIAS", "Alias added", map[string]interface{}{"note_id": noteId, "alias": alias})
	s.emitter.Emit(ctx, events.NewNoteEvent(events.NoteAliasesChanged, noteId))
	return created, nil
}

func (s *aliasService) MakeAliasPrimary(ctx context.Context, noteId uint, alias string) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	affected, err := uow.AliasRepository().SetPrimary(ctx, noteId, alias)
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperror.NotInDB("alias %q does not belong to note %d", alias, noteId)
	}
	if err := uow.Commit(); err != nil {
		return err
	}
	s.emitter.Emit(ctx, events.NewNoteEvent(events.NoteAliasesChanged, noteId))
	return nil
}

func (s *aliasService) RemoveAlias(ctx context.Context, noteId uint, alias string) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	existing, err := uow.AliasRepository().FindOne(ctx,
		specification.AliasByName{Alias: alias},
		specification.AliasByNoteID{NoteID: noteId},
	)
	if err != nil {
		return err
	}
	if existing == nil {
		return apperror.NotInDB("alias %q does not belong to note %d", alias, noteId)
	}
	if existing.IsPrimary {
		return &apperror.PrimaryAliasDeletionForbiddenError{Alias: alias}
	}

	affected, err := uow.AliasRepository().Delete(ctx, alias)
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperror.NotInDB("alias %q not found", alias)
	}
	s.emitter.Emit(ctx, events.NewNoteEvent(events.NoteAliasesChanged, noteId))
	return nil
}

func (s *aliasService) GetNoteIdByAlias(ctx context.Context, alias string) (uint, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	found, err := uow.AliasRepository().FindOne(ctx, specification.AliasByName{Alias: alias})
	if err != nil {
		return 0, err
	}
	if found == nil {
		return 0, apperror.NotInDB("no note with alias %q", alias)
	}
	return found.NoteId, nil
}

func (s *aliasService) GetPrimaryAlias(ctx context.Context, noteId uint) (string, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	found, err := uow.AliasRepository().FindOne(ctx,
		specification.AliasByNoteID{NoteID: noteId},
		specification.PrimaryAlias{},
	)
	if err != nil {
		return "", err
	}
	if found == nil {
		return "", apperror.NotInDB("note %d has no primary alias", noteId)
	}
	return found.Alias, nil
}

func (s *aliasService) GetAllAliases(ctx context.Context, noteId uint) ([]*entity.Alias, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.AliasRepository().FindAll(ctx, specification.AliasByNoteID{NoteID: noteId})
}
