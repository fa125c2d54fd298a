package service

import (
	"context"
	"fmt"
	"time"

	"collabnote-be/internal/entity"
	"collabnote-be/internal/pkg/apperror"
	"collabnote-be/internal/pkg/logger"
	"collabnote-be/internal/repository/memory"
	"collabnote-be/internal/repository/specification"
	"collabnote-be/internal/repository/unitofwork"
	"collabnote-be/pkg/events"
	"collabnote-be/pkg/explore"
)

type exploreScope string

const (
	scopeMy     exploreScope = "my"
	scopeShared exploreScope = "shared"
	scopePublic exploreScope = "public"
	scopePinned exploreScope = "pinned"
)

type IExploreService interface {
	GetMyNotes(ctx context.Context, userId uint, q explore.Query) ([]explore.Entry, error)
	GetSharedNotes(ctx context.Context, userId uint, q explore.Query) ([]explore.Entry, error)
	GetPublicNotes(ctx context.Context, userId *uint, q explore.Query) ([]explore.Entry, error)
	GetPinnedNotes(ctx context.Context, userId uint, q explore.Query) ([]explore.Entry, error)
	SetPinned(ctx context.Context, userId, noteId uint, pinned bool) error
	RecordVisit(ctx context.Context, userId, noteId uint) error
	// Invalidator flushes cached lists on every note lifecycle event. It runs
	// on the emitting goroutine, so a caller sees fresh lists right after a change.
	Invalidator() events.Emitter
}

type exploreService struct {
	uowFactory unitofwork.RepositoryFactory
	cache      *memory.ExploreCache
	logger     logger.ILogger
}

func NewExploreService(uowFactory unitofwork.RepositoryFactory, cache *memory.ExploreCache, log logger.ILogger) IExploreService {
	return &exploreService{
		uowFactory: uowFactory,
		cache:      cache,
		logger:     log,
	}
}

func (s *exploreService) GetMyNotes(ctx context.Context, userId uint, q explore.Query) ([]explore.Entry, error) {
	return s.list(ctx, scopeMy, &userId, q, specification.NoteOwnedByUser{UserID: userId})
}

func (s *exploreService) GetSharedNotes(ctx context.Context, userId uint, q explore.Query) ([]explore.Entry, error) {
	return s.list(ctx, scopeShared, &userId, q, specification.NoteSharedWithUser{UserID: userId})
}

func (s *exploreService) GetPublicNotes(ctx context.Context, userId *uint, q explore.Query) ([]explore.Entry, error) {
	return s.list(ctx, scopePublic, userId, q, specification.NoteVisibleToGroup{GroupName: entity.SpecialGroupEveryone})
}

func (s *exploreService) GetPinnedNotes(ctx context.Context, userId uint, q explore.Query) ([]explore.Entry, error) {
	return s.list(ctx, scopePinned, &userId, q, specification.NotePinnedByUser{UserID: userId})
}

func (s *exploreService) SetPinned(ctx context.Context, userId, noteId uint, pinned bool) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	note, err := uow.NoteRepository().FindOne(ctx, specification.ByID{ID: noteId})
	if err != nil {
		return err
	}
	if note == nil {
		return apperror.NotInDB("note %d not found", noteId)
	}
	if err := uow.UserRepository().SetPinned(ctx, userId, noteId, pinned); err != nil {
		return err
	}
	s.cache.Flush()
	return nil
}

func (s *exploreService) RecordVisit(ctx context.Context, userId, noteId uint) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.UserRepository().RecordVisit(ctx, userId, noteId, time.Now().UTC())
}

func (s *exploreService) Invalidator() events.Emitter {
	watched := make(map[string]struct{}, len(events.NoteEventTypes))
	for _, eventType := range events.NoteEventTypes {
		watched[eventType] = struct{}{}
	}
	return events.EmitterFunc(func(ctx context.Context, event events.Event) {
		if _, ok := watched[event.EventType()]; !ok {
			return
		}
		s.cache.Flush()
		s.logger.Debug("EXPLORE", "Explore cache flushed", map[string]interface{}{"event": event.EventType()})
	})
}

func (s *exploreService) list(ctx context.Context, scope exploreScope, userId *uint, q explore.Query, filter specification.Specification) ([]explore.Entry, error) {
	var uid uint
	if userId != nil {
		uid = *userId
	}
	key := fmt.Sprintf("%s:%d:%s", scope, uid, q.Encode())
	if cached, ok := s.cache.Get(key); ok {
		return cached, nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	noteIds, err := uow.NoteRepository().FindIds(ctx, filter)
	if err != nil {
		return nil, err
	}

	states := map[uint]*entity.UserNoteState{}
	if userId != nil {
		states, err = uow.UserRepository().FindNoteStates(ctx, uid, noteIds)
		if err != nil {
			return nil, err
		}
	}

	entries := make([]explore.Entry, 0, len(noteIds))
	for _, noteId := range noteIds {
		entry, err := s.buildEntry(ctx, uow, noteId, states[noteId])
		if err != nil {
			return nil, err
		}
		if entry != nil {
			entries = append(entries, *entry)
		}
	}

	entries = explore.Apply(entries, q)
	s.cache.Save(key, entries)
	return entries, nil
}

// buildEntry returns nil for notes without a primary alias or revision.
func (s *exploreService) buildEntry(ctx context.Context, uow unitofwork.UnitOfWork, noteId uint, state *entity.UserNoteState) (*explore.Entry, error) {
	note, err := uow.NoteRepository().FindOne(ctx, specification.ByID{ID: noteId})
	if err != nil || note == nil {
		return nil, err
	}
	alias, err := uow.AliasRepository().FindOne(ctx,
		specification.AliasByNoteID{NoteID: noteId},
		specification.PrimaryAlias{},
	)
	if err != nil || alias == nil {
		return nil, err
	}
	latest, err := uow.RevisionRepository().FindLatestByNoteId(ctx, noteId)
	if err != nil || latest == nil {
		return nil, err
	}

	entry := &explore.Entry{
		PrimaryAddress: alias.Alias,
		Title:          latest.Title,
		Type:           string(latest.NoteType),
		Tags:           latest.Tags,
		LastChangedAt:  latest.CreatedAt,
		CreatedAt:      note.CreatedAt,
	}
	if state != nil {
		entry.IsPinned = state.IsPinned
		entry.LastVisitedAt = state.LastVisitedAt
	}
	if note.OwnerId != nil {
		owner, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: *note.OwnerId})
		if err != nil {
			return nil, err
		}
		if owner != nil {
			entry.Owner = &owner.Username
		}
	}
	return entry, nil
}
