package service

import (
	"context"
	"unicode/utf8"

	"collabnote-be/internal/config"
	"collabnote-be/internal/dto"
	"collabnote-be/internal/entity"
	"collabnote-be/internal/pkg/apperror"
	"collabnote-be/internal/pkg/logger"
	"collabnote-be/internal/repository/specification"
	"collabnote-be/internal/repository/unitofwork"
	"collabnote-be/pkg/events"

	"github.com/google/uuid"
)

type INoteService interface {
	CreateNote(ctx context.Context, content string, ownerId *uint, requestedAlias *string) (uint, error)
	DeleteNote(ctx context.Context, noteId uint) error
	UpdateNote(ctx context.Context, noteId uint, content string) (uuid.UUID, error)
	CheckDocumentLength(content string) error

	GetUserNoteIds(ctx context.Context, ownerId uint) ([]uint, error)
	GetNoteIdByAlias(ctx context.Context, alias string) (uint, error)
	GetNoteMetadata(ctx context.Context, noteId uint) (*dto.NoteMetadataResponse, error)
	GetNoteContent(ctx context.Context, noteId uint) (string, error)
}

type noteService struct {
	uowFactory        unitofwork.RepositoryFactory
	aliasService      IAliasService
	permissionService IPermissionService
	revisionService   IRevisionService
	emitter           events.Emitter
	cfg               config.NoteConfig
	logger            logger.ILogger
}

func NewNoteService(
	uowFactory unitofwork.RepositoryFactory,
	aliasService IAliasService,
	permissionService IPermissionService,
	revisionService IRevisionService,
	emitter events.Emitter,
	cfg config.NoteConfig,
	log logger.ILogger,
) INoteService {
	return &noteService{
		uowFactory:        uowFactory,
		aliasService:      aliasService,
		permissionService: permissionService,
		revisionService:   revisionService,
		emitter:           emitter,
		cfg:               cfg,
		logger:            log,
	}
}

// CheckDocumentLength counts characters, not bytes.
func (s *noteService) CheckDocumentLength(content string) error {
	if length := utf8.RuneCountInString(content); length > s.cfg.MaxDocumentLength {
		return &apperror.MaximumDocumentLengthExceededError{Length: length, MaxLength: s.cfg.MaxDocumentLength}
	}
	return nil
}

// CreateNote writes the note, its primary alias, the default group grants and
// the initial revision in one transaction, then emits NOTE_CREATED.
func (s *noteService) CreateNote(ctx context.Context, content string, ownerId *uint, requestedAlias *string) (uint, error) {
	if err := s.CheckDocumentLength(content); err != nil {
		return 0, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return 0, err
	}
	defer uow.Rollback()

	note := &entity.Note{
		OwnerId: ownerId,
		Version: entity.NoteVersionCurrent,
	}
	if err := uow.NoteRepository().Create(ctx, note); err != nil {
		return 0, err
	}
	if note.Id == 0 {
		return 0, apperror.GenericDB("note insert returned no id", nil)
	}

	var alias string
	if requestedAlias != nil {
		if err := s.aliasService.EnsureAliasIsAvailable(ctx, uow, *requestedAlias); err != nil {
			return 0, err
		}
		alias = *requestedAlias
	} else {
		alias = s.aliasService.GenerateRandomAlias()
	}
	if _, err := s.aliasService.AddAlias(ctx, uow, note.Id, alias); err != nil {
		return 0, err
	}

	if err := s.permissionService.ApplyDefaultPermissions(ctx, uow, note.Id); err != nil {
		return 0, err
	}

	if _, err := s.revisionService.InnerCreateRevision(ctx, uow, note.Id, content, true); err != nil {
		return 0, err
	}

	if err := uow.Commit(); err != nil {
		return 0, err
	}

	s.emitter.Emit(ctx, events.NewNoteEvent(events.NoteCreated, note.Id))
	s.logger.Info("NOTE", "Note created", map[string]interface{}{"note_id": note.Id, "alias": alias})
	return note.Id, nil
}

func (s *noteService) DeleteNote(ctx context.Context, noteId uint) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	affected, err := uow.NoteRepository().Delete(ctx, noteId)
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperror.NotInDB("note %d not found", noteId)
	}
	if err := uow.Commit(); err != nil {
		return err
	}

	s.emitter.Emit(ctx, events.NewNoteEvent(events.NoteDeleted, noteId))
	s.logger.Info("NOTE", "Note deleted", map[string]interface{}{"note_id": noteId})
	return nil
}

// UpdateNote stores content as a new revision. Callers check the length.
func (s *noteService) UpdateNote(ctx context.Context, noteId uint, content string) (uuid.UUID, error) {
	revisionId, err := s.revisionService.CreateRevision(ctx, noteId, content)
	if err != nil {
		return uuid.Nil, err
	}
	s.emitter.Emit(ctx, events.NewNoteEvent(events.NoteUpdated, noteId))
	return revisionId, nil
}

func (s *noteService) GetUserNoteIds(ctx context.Context, ownerId uint) ([]uint, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.NoteRepository().FindIds(ctx, specification.NoteOwnedByUser{UserID: ownerId})
}

func (s *noteService) GetNoteIdByAlias(ctx context.Context, alias string) (uint, error) {
	return s.aliasService.GetNoteIdByAlias(ctx, alias)
}

func (s *noteService) GetNoteContent(ctx context.Context, noteId uint) (string, error) {
	revision, err := s.revisionService.GetLatestRevision(ctx, noteId)
	if err != nil {
		return "", err
	}
	return revision.Content, nil
}

func (s *noteService) GetNoteMetadata(ctx context.Context, noteId uint) (*dto.NoteMetadataResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	note, err := uow.NoteRepository().FindOne(ctx, specification.ByID{ID: noteId})
	if err != nil {
		return nil, err
	}
	if note == nil {
		return nil, apperror.NotInDB("note %d not found", noteId)
	}

	aliases, err := s.aliasService.GetAllAliases(ctx, noteId)
	if err != nil {
		return nil, err
	}
	latest, err := s.revisionService.GetLatestRevision(ctx, noteId)
	if err != nil {
		return nil, err
	}
	groups, users, err := s.permissionService.GetPermissions(ctx, noteId)
	if err != nil {
		return nil, err
	}

	res := &dto.NoteMetadataResponse{
		Id:          note.Id,
		Aliases:     make([]string, 0, len(aliases)),
		Title:       latest.Title,
		Description: latest.Description,
		Tags:        latest.Tags,
		Type:        string(latest.NoteType),
		Version:     note.Version,
		CreatedAt:   note.CreatedAt,
		UpdatedAt:   latest.CreatedAt,
		Permissions: dto.NotePermissions{
			Groups: make([]dto.GroupPermissionEntry, 0, len(groups)),
			Users:  make([]dto.UserPermissionEntry, 0, len(users)),
		},
	}
	for _, a := range aliases {
		res.Aliases = append(res.Aliases, a.Alias)
		if a.IsPrimary {
			res.PrimaryAlias = a.Alias
		}
	}
	for _, g := range groups {
		res.Permissions.Groups = append(res.Permissions.Groups, dto.GroupPermissionEntry{GroupName: g.GroupName, CanEdit: g.CanEdit})
	}
	for _, u := range users {
		res.Permissions.Users = append(res.Permissions.Users, dto.UserPermissionEntry{Username: u.Username, CanEdit: u.CanEdit})
	}

	if note.OwnerId != nil {
		owner, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: *note.OwnerId})
		if err != nil {
			return nil, err
		}
		if owner != nil {
			res.Permissions.Owner = &owner.Username
		}
	}
	return res, nil
}
