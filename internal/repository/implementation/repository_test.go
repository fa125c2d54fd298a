package implementation

import (
	"context"
	"testing"
	"time"

	"collabnote-be/internal/entity"
	"collabnote-be/internal/model"
	"collabnote-be/internal/pkg/apperror"
	"collabnote-be/internal/pkg/testutil"
	"collabnote-be/internal/repository/specification"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedNote(t *testing.T, db *gorm.DB, ownerId *uint) *entity.Note {
	t.Helper()
	note := &entity.Note{OwnerId: ownerId, Version: entity.NoteVersionCurrent}
	require.NoError(t, NewNoteRepository(db).Create(context.Background(), note))
	require.NotZero(t, note.Id)
	return note
}

func seedRevision(t *testing.T, db *gorm.DB, noteId uint, createdAt time.Time, tags ...string) uuid.UUID {
	t.Helper()
	ctx := context.Background()
	repo := NewRevisionRepository(db)
	rev := &entity.Revision{
		Uuid:      uuid.New(),
		NoteId:    noteId,
		NoteType:  entity.NoteTypeDocument,
		Content:   "# note",
		Title:     "note",
		CreatedAt: createdAt,
	}
	rows, err := repo.Create(ctx, rev)
	require.NoError(t, err)
	require.EqualValues(t, 1, rows)

	tagRows := make([]entity.RevisionTag, len(tags))
	for i, tag := range tags {
		tagRows[i] = entity.RevisionTag{Tag: tag, RevisionUuid: rev.Uuid}
	}
	require.NoError(t, repo.CreateTags(ctx, tagRows))
	return rev.Uuid
}

func TestNoteRepository_DeleteRemovesDependents(t *testing.T) {
	db := testutil.NewSQLite(t)
	ctx := context.Background()
	userId := testutil.CreateUser(t, db, "alice")
	note := seedNote(t, db, &userId)
	other := seedNote(t, db, &userId)

	seedRevision(t, db, note.Id, time.Now(), "a", "b")
	seedRevision(t, db, other.Id, time.Now(), "c")
	require.NoError(t, NewAliasRepository(db).Create(ctx, &entity.Alias{Alias: "doomed", NoteId: note.Id, IsPrimary: true}))
	perms := NewPermissionRepository(db)
	require.NoError(t, perms.UpsertUserPermission(ctx, &entity.UserPermission{NoteId: note.Id, UserId: userId, CanEdit: true}))
	require.NoError(t, perms.UpsertGroupPermission(ctx, &entity.GroupPermission{
		NoteId: note.Id, GroupId: testutil.GroupId(t, db, entity.SpecialGroupEveryone),
	}))
	require.NoError(t, NewUserRepository(db).SetPinned(ctx, userId, note.Id, true))

	rows, err := NewNoteRepository(db).Delete(ctx, note.Id)
	require.NoError(t, err)
	assert.EqualValues(t, 1, rows)

	assert.EqualValues(t, 1, testutil.Count(t, db, &model.Note{}))
	assert.EqualValues(t, 1, testutil.Count(t, db, &model.Revision{}))
	assert.EqualValues(t, 1, testutil.Count(t, db, &model.RevisionTag{}))
	assert.Zero(t, testutil.Count(t, db, &model.Alias{}))
	assert.Zero(t, testutil.Count(t, db, &model.UserPermission{}))
	assert.Zero(t, testutil.Count(t, db, &model.GroupPermission{}))
	assert.Zero(t, testutil.Count(t, db, &model.UserNoteState{}))

	rows, err = NewNoteRepository(db).Delete(ctx, note.Id)
	require.NoError(t, err)
	assert.Zero(t, rows)
}

func TestNoteRepository_FindOneMissing(t *testing.T) {
	db := testutil.NewSQLite(t)

	note, err := NewNoteRepository(db).FindOne(context.Background(), specification.ByID{ID: 42})
	require.NoError(t, err)
	assert.Nil(t, note)
}

func TestNoteRepository_UpdateOwnerAndFindIds(t *testing.T) {
	db := testutil.NewSQLite(t)
	ctx := context.Background()
	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")
	repo := NewNoteRepository(db)

	first := seedNote(t, db, &alice)
	second := seedNote(t, db, &alice)
	seedNote(t, db, nil)

	rows, err := repo.UpdateOwner(ctx, second.Id, &bob)
	require.NoError(t, err)
	assert.EqualValues(t, 1, rows)

	ids, err := repo.FindIds(ctx, specification.NoteOwnedByUser{UserID: alice})
	require.NoError(t, err)
	assert.Equal(t, []uint{first.Id}, ids)

	ids, err = repo.FindIds(ctx, specification.NoteOwnedByUser{UserID: bob})
	require.NoError(t, err)
	assert.Equal(t, []uint{second.Id}, ids)
}

func TestAliasRepository_PrimarySwitchAndDuplicates(t *testing.T) {
	db := testutil.NewSQLite(t)
	ctx := context.Background()
	note := seedNote(t, db, nil)
	repo := NewAliasRepository(db)

	require.NoError(t, repo.Create(ctx, &entity.Alias{Alias: "first", NoteId: note.Id, IsPrimary: true}))
	require.NoError(t, repo.Create(ctx, &entity.Alias{Alias: "second", NoteId: note.Id}))

	err := repo.Create(ctx, &entity.Alias{Alias: "first", NoteId: note.Id})
	var dup *apperror.AlreadyInDBError
	assert.ErrorAs(t, err, &dup)

	rows, err := repo.SetPrimary(ctx, note.Id, "second")
	require.NoError(t, err)
	assert.EqualValues(t, 1, rows)

	primary, err := repo.FindOne(ctx, specification.AliasByNoteID{NoteID: note.Id}, specification.PrimaryAlias{})
	require.NoError(t, err)
	require.NotNil(t, primary)
	assert.Equal(t, "second", primary.Alias)

	all, err := repo.FindAll(ctx, specification.AliasByNoteID{NoteID: note.Id})
	require.NoError(t, err)
	require.Len(t, all, 2)
	for _, a := range all {
		assert.Equal(t, a.Alias == "second", a.IsPrimary, a.Alias)
	}

	exists, err := repo.Exists(ctx, "first")
	require.NoError(t, err)
	assert.True(t, exists)

	rows, err = repo.Delete(ctx, "first")
	require.NoError(t, err)
	assert.EqualValues(t, 1, rows)

	exists, err = repo.Exists(ctx, "first")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestRevisionRepository_OrderingTagsAndPruneHelpers(t *testing.T) {
	db := testutil.NewSQLite(t)
	ctx := context.Background()
	note := seedNote(t, db, nil)
	repo := NewRevisionRepository(db)

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	oldest := seedRevision(t, db, note.Id, base, "zeta", "alpha")
	middle := seedRevision(t, db, note.Id, base.Add(24*time.Hour))
	latest := seedRevision(t, db, note.Id, base.Add(48*time.Hour), "beta")

	rev, err := repo.FindLatestByNoteId(ctx, note.Id)
	require.NoError(t, err)
	assert.Equal(t, latest, rev.Uuid)
	assert.Equal(t, []string{"beta"}, rev.Tags)

	rev, err = repo.FindOldestByNoteId(ctx, note.Id)
	require.NoError(t, err)
	assert.Equal(t, oldest, rev.Uuid)
	assert.Equal(t, []string{"alpha", "zeta"}, rev.Tags)

	rev, err = repo.FindOne(ctx, specification.RevisionByUuid{Uuid: middle})
	require.NoError(t, err)
	assert.Empty(t, rev.Tags)
	assert.NotNil(t, rev.Tags)

	ids, err := repo.FindNoteIdsWithRevisionsBefore(ctx, base.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, []uint{note.Id}, ids)

	ids, err = repo.FindNoteIdsWithRevisionsBefore(ctx, base)
	require.NoError(t, err)
	assert.Empty(t, ids)

	patch := "@@ -1 +1 @@"
	require.NoError(t, db.Model(&model.Revision{}).Where("uuid = ?", latest).Update("patch", patch).Error)
	rows, err := repo.ClearPatch(ctx, latest)
	require.NoError(t, err)
	assert.EqualValues(t, 1, rows)
	rev, err = repo.FindOne(ctx, specification.RevisionByUuid{Uuid: latest})
	require.NoError(t, err)
	assert.Nil(t, rev.Patch)

	rows, err = repo.DeleteByUuids(ctx, []uuid.UUID{oldest, middle})
	require.NoError(t, err)
	assert.EqualValues(t, 2, rows)
	assert.EqualValues(t, 1, testutil.Count(t, db, &model.RevisionTag{}))

	rows, err = repo.DeleteByUuids(ctx, nil)
	require.NoError(t, err)
	assert.Zero(t, rows)
}

func TestPermissionRepository_UpsertOverwrites(t *testing.T) {
	db := testutil.NewSQLite(t)
	ctx := context.Background()
	userId := testutil.CreateUser(t, db, "carol")
	note := seedNote(t, db, nil)
	repo := NewPermissionRepository(db)

	require.NoError(t, repo.UpsertUserPermission(ctx, &entity.UserPermission{NoteId: note.Id, UserId: userId}))
	require.NoError(t, repo.UpsertUserPermission(ctx, &entity.UserPermission{NoteId: note.Id, UserId: userId, CanEdit: true}))

	perms, err := repo.FindUserPermissions(ctx, note.Id)
	require.NoError(t, err)
	require.Len(t, perms, 1)
	assert.True(t, perms[0].CanEdit)
	assert.Equal(t, "carol", perms[0].Username)

	rows, err := repo.DeleteUserPermission(ctx, note.Id, userId)
	require.NoError(t, err)
	assert.EqualValues(t, 1, rows)

	rows, err = repo.DeleteUserPermission(ctx, note.Id, userId)
	require.NoError(t, err)
	assert.Zero(t, rows)
}
