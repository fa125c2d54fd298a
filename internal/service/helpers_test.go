package service

import (
	"context"
	"sync"
	"testing"

	"collabnote-be/internal/config"
	"collabnote-be/internal/entity"
	"collabnote-be/internal/pkg/logger"
	"collabnote-be/internal/pkg/testutil"
	"collabnote-be/internal/repository/contract"
	"collabnote-be/internal/repository/unitofwork"
	"collabnote-be/pkg/events"

	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

func testNoteConfig() config.NoteConfig {
	return config.NoteConfig{
		MaxDocumentLength:     100,
		RevisionRetentionDays: 30,
		ForbiddenAliases:      []string{"new", "explore"},
		DefaultPermissions: config.DefaultPermissions{
			Everyone: config.PermissionRead,
			LoggedIn: config.PermissionWrite,
		},
	}
}

type testEnv struct {
	db          *gorm.DB
	uowFactory  unitofwork.RepositoryFactory
	emitter     *captureEmitter
	groups      IGroupService
	aliases     IAliasService
	permissions IPermissionService
	revisions   *revisionService
	notes       INoteService
}

func newTestEnv(t *testing.T, cfg config.NoteConfig) *testEnv {
	t.Helper()
	db := testutil.NewSQLite(t)
	return newTestEnvWithFactory(db, unitofwork.NewRepositoryFactory(db), cfg)
}

// newTestEnvWithFactory wires the services over uowFactory. Events reach the
// capture emitter first, then each of extra.
func newTestEnvWithFactory(db *gorm.DB, uowFactory unitofwork.RepositoryFactory, cfg config.NoteConfig, extra ...events.Emitter) *testEnv {
	log := logger.NewNopLogger()
	capture := &captureEmitter{}
	emitter := append(events.Emitters{capture}, extra...)
	env := &testEnv{
		db:         db,
		uowFactory: uowFactory,
		emitter:    capture,
		groups:     NewGroupService(uowFactory, log),
		aliases:    NewAliasService(uowFactory, cfg, emitter, log),
		revisions:  NewRevisionService(uowFactory, cfg.RevisionRetentionDays, log).(*revisionService),
	}
	env.permissions = NewPermissionService(uowFactory, env.groups, cfg.DefaultPermissions, emitter, log)
	env.notes = NewNoteService(uowFactory, env.aliases, env.permissions, env.revisions, emitter, cfg, log)
	return env
}

// captureEmitter records emitted events in order.
type captureEmitter struct {
	mu     sync.Mutex
	events []events.Event
}

func (e *captureEmitter) Emit(_ context.Context, event events.Event) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, event)
}

func (e *captureEmitter) ofType(eventType string) []events.Event {
	e.mu.Lock()
	defer e.mu.Unlock()
	var out []events.Event
	for _, ev := range e.events {
		if ev.EventType() == eventType {
			out = append(out, ev)
		}
	}
	return out
}

// stubFactory hands out units of work whose repositories can be swapped.
type stubFactory struct {
	inner     unitofwork.RepositoryFactory
	notes     func(contract.NoteRepository) contract.NoteRepository
	revisions func(contract.RevisionRepository) contract.RevisionRepository
}

func (f *stubFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &stubUow{UnitOfWork: f.inner.NewUnitOfWork(ctx), factory: f}
}

type stubUow struct {
	unitofwork.UnitOfWork
	factory *stubFactory
}

func (u *stubUow) NoteRepository() contract.NoteRepository {
	repo := u.UnitOfWork.NoteRepository()
	if u.factory.notes != nil {
		return u.factory.notes(repo)
	}
	return repo
}

func (u *stubUow) RevisionRepository() contract.RevisionRepository {
	repo := u.UnitOfWork.RevisionRepository()
	if u.factory.revisions != nil {
		return u.factory.revisions(repo)
	}
	return repo
}

// noIdentityNoteRepo accepts inserts without assigning an id.
type noIdentityNoteRepo struct {
	contract.NoteRepository
}

func (noIdentityNoteRepo) Create(context.Context, *entity.Note) error {
	return nil
}

// noRowRevisionRepo reports zero inserted rows.
type noRowRevisionRepo struct {
	contract.RevisionRepository
}

func (noRowRevisionRepo) Create(context.Context, *entity.Revision) (int64, error) {
	return 0, nil
}

// countingRevisionRepo counts CreateTags calls.
type countingRevisionRepo struct {
	contract.RevisionRepository
	tagCalls *int
}

func (r countingRevisionRepo) CreateTags(ctx context.Context, tags []entity.RevisionTag) error {
	*r.tagCalls++
	return r.RevisionRepository.CreateTags(ctx, tags)
}

type mockAliasService struct {
	mock.Mock
}

func (m *mockAliasService) EnsureAliasIsAvailable(ctx context.Context, uow unitofwork.UnitOfWork, alias string) error {
	return m.Called(ctx, uow, alias).Error(0)
}

func (m *mockAliasService) GenerateRandomAlias() string {
	return m.Called().String(0)
}

func (m *mockAliasService) AddAlias(ctx context.Context, uow unitofwork.UnitOfWork, noteId uint, alias string) (*entity.Alias, error) {
	args := m.Called(ctx, uow, noteId, alias)
	a, _ := args.Get(0).(*entity.Alias)
	return a, args.Error(1)
}

func (m *mockAliasService) CreateAlias(ctx context.Context, noteId uint, alias string) (*entity.Alias, error) {
	args := m.Called(ctx, noteId, alias)
	a, _ := args.Get(0).(*entity.Alias)
	return a, args.Error(1)
}

func (m *mockAliasService) MakeAliasPrimary(ctx context.Context, noteId uint, alias string) error {
	return m.Called(ctx, noteId, alias).Error(0)
}

func (m *mockAliasService) RemoveAlias(ctx context.Context, noteId uint, alias string) error {
	return m.Called(ctx, noteId, alias).Error(0)
}

func (m *mockAliasService) GetNoteIdByAlias(ctx context.Context, alias string) (uint, error) {
	args := m.Called(ctx, alias)
	return args.Get(0).(uint), args.Error(1)
}

func (m *mockAliasService) GetPrimaryAlias(ctx context.Context, noteId uint) (string, error) {
	args := m.Called(ctx, noteId)
	return args.String(0), args.Error(1)
}

func (m *mockAliasService) GetAllAliases(ctx context.Context, noteId uint) ([]*entity.Alias, error) {
	args := m.Called(ctx, noteId)
	a, _ := args.Get(0).([]*entity.Alias)
	return a, args.Error(1)
}

type mockGroupService struct {
	mock.Mock
}

func (m *mockGroupService) GetGroupIdByName(ctx context.Context, uow unitofwork.UnitOfWork, name string) (uint, error) {
	args := m.Called(ctx, uow, name)
	return args.Get(0).(uint), args.Error(1)
}

func (m *mockGroupService) EnsureSpecialGroups(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *mockGroupService) CreateGroup(ctx context.Context, name, displayName string) (*entity.Group, error) {
	args := m.Called(ctx, name, displayName)
	g, _ := args.Get(0).(*entity.Group)
	return g, args.Error(1)
}
