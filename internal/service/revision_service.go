package service

import (
	"context"
	"time"

	"collabnote-be/internal/entity"
	"collabnote-be/internal/pkg/apperror"
	"collabnote-be/internal/pkg/logger"
	"collabnote-be/internal/repository/specification"
	"collabnote-be/internal/repository/unitofwork"
	"collabnote-be/pkg/metadata"
	"collabnote-be/pkg/patch"

	"github.com/google/uuid"
)

// PruneResult summarises one retention sweep.
type PruneResult struct {
	NotesScanned       int
	RevisionsDeleted   int64
	RevisionsRewritten int64
}

type IRevisionService interface {
	// InnerCreateRevision runs inside the caller's transaction.
	InnerCreateRevision(ctx context.Context, uow unitofwork.UnitOfWork, noteId uint, content string, isInitial bool) (uuid.UUID, error)
	CreateRevision(ctx context.Context, noteId uint, content string) (uuid.UUID, error)
	RemoveOldRevisions(ctx context.Context) (*PruneResult, error)

	GetRevision(ctx context.Context, noteId uint, revisionUuid uuid.UUID) (*entity.Revision, error)
	GetAllRevisionMetadata(ctx context.Context, noteId uint) ([]*entity.Revision, error)
	GetLatestRevision(ctx context.Context, noteId uint) (*entity.Revision, error)
	PurgeRevisions(ctx context.Context, noteId uint) (int64, error)
}

type revisionService struct {
	uowFactory    unitofwork.RepositoryFactory
	retentionDays int
	logger        logger.ILogger
	now           func() time.Time
}

func NewRevisionService(uowFactory unitofwork.RepositoryFactory, retentionDays int, log logger.ILogger) IRevisionService {
	return &revisionService{
		uowFactory:    uowFactory,
		retentionDays: retentionDays,
		logger:        log,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

func (s *revisionService) InnerCreateRevision(ctx context.Context, uow unitofwork.UnitOfWork, noteId uint, content string, isInitial bool) (uuid.UUID, error) {
	repo := uow.RevisionRepository()

	previous, err := repo.FindLatestByNoteId(ctx, noteId)
	if err != nil {
		return uuid.Nil, err
	}

	meta := metadata.Extract(content, isInitial)

	noteType := entity.NoteTypeDocument
	switch {
	case meta.NoteType != nil:
		noteType = entity.NoteType(*meta.NoteType)
	case previous != nil:
		noteType = previous.NoteType
	}

	var patchText *string
	if previous != nil {
		p := patch.Make(previous.Content, content)
		patchText = &p
	}

	revision := &entity.Revision{
		Uuid:        uuid.New(),
		NoteId:      noteId,
		NoteType:    noteType,
		Content:     content,
		Patch:       patchText,
		Title:       meta.Title,
		Description: meta.Description,
		// Filled by the realtime layer once it snapshots the document.
		YjsStateVector: nil,
		CreatedAt:      s.now(),
	}
	inserted, err := repo.Create(ctx, revision)
	if err != nil {
		return uuid.Nil, err
	}
	if inserted == 0 {
		return uuid.Nil, apperror.GenericDB("revision insert returned no row", nil)
	}

	if len(meta.Tags) > 0 {
		tags := make([]entity.RevisionTag, len(meta.Tags))
		for i, tag := range meta.Tags {
			tags[i] = entity.RevisionTag{Tag: tag, RevisionUuid: revision.Uuid}
		}
		if err := repo.CreateTags(ctx, tags); err != nil {
			return uuid.Nil, err
		}
	}

	return revision.Uuid, nil
}

func (s *revisionService) CreateRevision(ctx context.Context, noteId uint, content string) (uuid.UUID, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return uuid.Nil, err
	}
	defer uow.Rollback()

	id, err := s.InnerCreateRevision(ctx, uow, noteId, content, false)
	if err != nil {
		return uuid.Nil, err
	}
	if err := uow.Commit(); err != nil {
		return uuid.Nil, err
	}
	return id, nil
}

// RemoveOldRevisions deletes revisions older than the retention window,
// keeping the newest revision of every note. Each note is pruned in its own
// transaction; a failure stops the sweep and leaves earlier notes pruned.
func (s *revisionService) RemoveOldRevisions(ctx context.Context) (*PruneResult, error) {
	result := &PruneResult{}
	if s.retentionDays <= 0 {
		return result, nil
	}
	cutoff := s.now().AddDate(0, 0, -s.retentionDays)

	uow := s.uowFactory.NewUnitOfWork(ctx)
	noteIds, err := uow.RevisionRepository().FindNoteIdsWithRevisionsBefore(ctx, cutoff)
	if err != nil {
		return result, err
	}

	for _, noteId := range noteIds {
		deleted, rewritten, err := s.pruneNote(ctx, noteId, cutoff)
		if err != nil {
			s.logger.Error("REVISION", "Pruning failed", map[string]interface{}{"note_id": noteId, "error": err.Error()})
			return result, err
		}
		result.NotesScanned++
		result.RevisionsDeleted += deleted
		result.RevisionsRewritten += rewritten
	}

	s.logger.Info("REVISION", "Old revisions removed", map[string]interface{}{
		"cutoff":    cutoff,
		"notes":     result.NotesScanned,
		"deleted":   result.RevisionsDeleted,
		"rewritten": result.RevisionsRewritten,
	})
	return result, nil
}

func (s *revisionService) pruneNote(ctx context.Context, noteId uint, cutoff time.Time) (int64, int64, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return 0, 0, err
	}
	defer uow.Rollback()

	repo := uow.RevisionRepository()
	latest, err := repo.FindLatestByNoteId(ctx, noteId)
	if err != nil {
		return 0, 0, err
	}
	if latest == nil {
		return 0, 0, uow.Commit()
	}

	old, err := repo.FindAll(ctx,
		specification.RevisionByNoteID{NoteID: noteId},
		specification.RevisionCreatedBefore{Cutoff: cutoff},
	)
	if err != nil {
		return 0, 0, err
	}
	doomed := make([]uuid.UUID, 0, len(old))
	for _, rev := range old {
		if rev.Uuid != latest.Uuid {
			doomed = append(doomed, rev.Uuid)
		}
	}
	if len(doomed) == 0 {
		return 0, 0, uow.Commit()
	}

	deleted, err := repo.DeleteByUuids(ctx, doomed)
	if err != nil {
		return 0, 0, err
	}

	// Every deleted revision is older than every kept one, so only the oldest
	// survivor can have lost its predecessor.
	rewritten, err := s.makeSelfContained(ctx, uow, noteId)
	if err != nil {
		return 0, 0, err
	}

	if err := uow.Commit(); err != nil {
		return 0, 0, err
	}
	return deleted, rewritten, nil
}

// makeSelfContained clears the patch of the oldest revision of a note.
func (s *revisionService) makeSelfContained(ctx context.Context, uow unitofwork.UnitOfWork, noteId uint) (int64, error) {
	oldest, err := uow.RevisionRepository().FindOldestByNoteId(ctx, noteId)
	if err != nil || oldest == nil || oldest.Patch == nil {
		return 0, err
	}
	return uow.RevisionRepository().ClearPatch(ctx, oldest.Uuid)
}

func (s *revisionService) GetRevision(ctx context.Context, noteId uint, revisionUuid uuid.UUID) (*entity.Revision, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	revision, err := uow.RevisionRepository().FindOne(ctx,
		specification.RevisionByUuid{Uuid: revisionUuid},
		specification.RevisionByNoteID{NoteID: noteId},
	)
	if err != nil {
		return nil, err
	}
	if revision == nil {
		return nil, apperror.NotInDB("revision %s of note %d not found", revisionUuid, noteId)
	}
	return revision, nil
}

// GetAllRevisionMetadata lists revisions newest first.
func (s *revisionService) GetAllRevisionMetadata(ctx context.Context, noteId uint) ([]*entity.Revision, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.RevisionRepository().FindAll(ctx,
		specification.RevisionByNoteID{NoteID: noteId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
}

func (s *revisionService) GetLatestRevision(ctx context.Context, noteId uint) (*entity.Revision, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	revision, err := uow.RevisionRepository().FindLatestByNoteId(ctx, noteId)
	if err != nil {
		return nil, err
	}
	if revision == nil {
		return nil, apperror.NotInDB("note %d has no revisions", noteId)
	}
	return revision, nil
}

// PurgeRevisions keeps only the latest revision and makes it self-contained.
func (s *revisionService) PurgeRevisions(ctx context.Context, noteId uint) (int64, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return 0, err
	}
	defer uow.Rollback()

	repo := uow.RevisionRepository()
	all, err := repo.FindAll(ctx, specification.RevisionByNoteID{NoteID: noteId})
	if err != nil {
		return 0, err
	}
	latest, err := repo.FindLatestByNoteId(ctx, noteId)
	if err != nil {
		return 0, err
	}
	if latest == nil {
		return 0, apperror.NotInDB("note %d has no revisions", noteId)
	}

	doomed := make([]uuid.UUID, 0, len(all))
	for _, rev := range all {
		if rev.Uuid != latest.Uuid {
			doomed = append(doomed, rev.Uuid)
		}
	}
	deleted, err := repo.DeleteByUuids(ctx, doomed)
	if err != nil {
		return 0, err
	}
	if _, err := s.makeSelfContained(ctx, uow, noteId); err != nil {
		return 0, err
	}
	if err := uow.Commit(); err != nil {
		return 0, err
	}
	return deleted, nil
}
