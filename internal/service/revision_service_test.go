package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"testing"
	"time"

	"collabnote-be/internal/entity"
	"collabnote-be/internal/model"
	"collabnote-be/internal/pkg/apperror"
	"collabnote-be/internal/pkg/testutil"
	"collabnote-be/internal/repository/contract"
	"collabnote-be/internal/repository/specification"
	"collabnote-be/internal/repository/unitofwork"
	"collabnote-be/pkg/patch"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

var pruneNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

// createNoteWithHistory creates a note whose revisions were written the given
// number of days before pruneNow, oldest first.
func createNoteWithHistory(t testing.TB, env *testEnv, ages []int, contents []string) uint {
	t.Helper()
	ctx := context.Background()

	env.revisions.now = func() time.Time { return pruneNow.AddDate(0, 0, -ages[0]) }
	noteId, err := env.notes.CreateNote(ctx, contents[0], nil, nil)
	require.NoError(t, err)

	for i := 1; i < len(ages); i++ {
		age := ages[i]
		env.revisions.now = func() time.Time { return pruneNow.AddDate(0, 0, -age) }
		_, err := env.revisions.CreateRevision(ctx, noteId, contents[i])
		require.NoError(t, err)
	}
	env.revisions.now = func() time.Time { return pruneNow }
	return noteId
}

func revisionsOldestFirst(t testing.TB, env *testEnv, noteId uint) []*entity.Revision {
	t.Helper()
	uow := env.uowFactory.NewUnitOfWork(context.Background())
	revisions, err := uow.RevisionRepository().FindAll(context.Background(),
		specification.RevisionByNoteID{NoteID: noteId},
		specification.OrderBy{Field: "created_at"},
	)
	require.NoError(t, err)
	return revisions
}

func TestInnerCreateRevisionInsertsOneTagRowPerTag(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []string
	}{
		{"no tags", "# Plain", nil},
		{"one tag", "---\ntags: solo\n---\n", []string{"solo"}},
		{"duplicates collapse", "---\ntags: [b, a, b, c]\n---\n", []string{"a", "b", "c"}},
		{"long tag", "---\ntags: " + strings.Repeat("x", 300) + "\n---\n", []string{strings.Repeat("x", 300)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			db := testutil.NewSQLite(t)
			require.NoError(t, db.Create(&model.Note{Version: 2}).Error)

			tagCalls := 0
			factory := &stubFactory{
				inner: unitofwork.NewRepositoryFactory(db),
				revisions: func(r contract.RevisionRepository) contract.RevisionRepository {
					return countingRevisionRepo{RevisionRepository: r, tagCalls: &tagCalls}
				},
			}
			env := newTestEnvWithFactory(db, factory, testNoteConfig())

			uow := factory.NewUnitOfWork(ctx)
			require.NoError(t, uow.Begin(ctx))
			revisionUuid, err := env.revisions.InnerCreateRevision(ctx, uow, 1, tt.content, true)
			require.NoError(t, err)
			require.NoError(t, uow.Commit())

			var rows []model.RevisionTag
			require.NoError(t, db.Order("tag").Find(&rows).Error)
			assert.Len(t, rows, len(tt.want))
			for i, row := range rows {
				assert.Equal(t, tt.want[i], row.Tag)
				assert.Equal(t, revisionUuid, row.RevisionUuid)
			}
			if len(tt.want) == 0 {
				assert.Zero(t, tagCalls)
			} else {
				assert.Equal(t, 1, tagCalls)
			}
		})
	}
}

func TestInnerCreateRevisionJoinsCallerTransaction(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, testNoteConfig())
	require.NoError(t, env.db.Create(&model.Note{Version: 2}).Error)

	uow := env.uowFactory.NewUnitOfWork(ctx)
	require.NoError(t, uow.Begin(ctx))
	_, err := env.revisions.InnerCreateRevision(ctx, uow, 1, "---\ntags: [t]\n---\n", true)
	require.NoError(t, err)
	require.NoError(t, uow.Rollback())

	assert.Zero(t, testutil.Count(t, env.db, &model.Revision{}))
	assert.Zero(t, testutil.Count(t, env.db, &model.RevisionTag{}))
}

func TestCreateRevisionFailsWhenInsertReturnsNoRow(t *testing.T) {
	db := testutil.NewSQLite(t)
	require.NoError(t, db.Create(&model.Note{Version: 2}).Error)
	factory := &stubFactory{
		inner:     unitofwork.NewRepositoryFactory(db),
		revisions: func(r contract.RevisionRepository) contract.RevisionRepository { return noRowRevisionRepo{r} },
	}
	env := newTestEnvWithFactory(db, factory, testNoteConfig())

	_, err := env.revisions.CreateRevision(context.Background(), 1, "content")

	var generic *apperror.GenericDBError
	require.ErrorAs(t, err, &generic)
	assert.Zero(t, testutil.Count(t, db, &model.Revision{}))
}

func TestRevisionPatchesReconstructContent(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, testNoteConfig())
	contents := []string{"# A\n", "# A\nline one\n", "# B\nline one\nline two\n"}
	noteId := createNoteWithHistory(t, env, []int{3, 2, 1}, contents)

	revisions := revisionsOldestFirst(t, env, noteId)
	require.Len(t, revisions, 3)
	assert.Nil(t, revisions[0].Patch)

	var patches []string
	for _, rev := range revisions[1:] {
		require.NotNil(t, rev.Patch)
		patches = append(patches, *rev.Patch)
	}
	got, err := patch.ReconstructContent(revisions[0].Content, patches...)
	require.NoError(t, err)
	assert.Equal(t, contents[2], got)

	latest, err := env.revisions.GetLatestRevision(ctx, noteId)
	require.NoError(t, err)
	assert.Equal(t, "B", latest.Title)

	listed, err := env.revisions.GetAllRevisionMetadata(ctx, noteId)
	require.NoError(t, err)
	require.Len(t, listed, 3)
	assert.Equal(t, latest.Uuid, listed[0].Uuid)
}

func TestGetRevisionOfAnotherNote(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, testNoteConfig())

	first, err := env.notes.CreateNote(ctx, "one", nil, nil)
	require.NoError(t, err)
	second, err := env.notes.CreateNote(ctx, "two", nil, nil)
	require.NoError(t, err)

	latest, err := env.revisions.GetLatestRevision(ctx, first)
	require.NoError(t, err)

	_, err = env.revisions.GetRevision(ctx, second, latest.Uuid)
	var notFound *apperror.NotInDBError
	assert.ErrorAs(t, err, &notFound)

	_, err = env.revisions.GetRevision(ctx, first, uuid.New())
	assert.ErrorAs(t, err, &notFound)
}

func TestRemoveOldRevisions(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, testNoteConfig())
	contents := []string{"v0\n", "v0\nv1\n", "v0\nv1\nv2\n", "v1\nv2\nv3\n", "v3\nv4\n"}
	noteId := createNoteWithHistory(t, env, []int{100, 60, 40, 10, 1}, contents)

	result, err := env.revisions.RemoveOldRevisions(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, result.NotesScanned)
	assert.Equal(t, int64(3), result.RevisionsDeleted)
	assert.Equal(t, int64(1), result.RevisionsRewritten)

	remaining := revisionsOldestFirst(t, env, noteId)
	require.Len(t, remaining, 2)
	assert.Equal(t, contents[3], remaining[0].Content)
	assert.Nil(t, remaining[0].Patch)
	require.NotNil(t, remaining[1].Patch)

	got, err := patch.Apply(remaining[0].Content, *remaining[1].Patch)
	require.NoError(t, err)
	assert.Equal(t, contents[4], got)

	again, err := env.revisions.RemoveOldRevisions(ctx)
	require.NoError(t, err)
	assert.Zero(t, again.RevisionsDeleted)
	assert.Zero(t, again.RevisionsRewritten)
}

func TestRemoveOldRevisionsKeepsNewestEvenWhenExpired(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, testNoteConfig())
	noteId := createNoteWithHistory(t, env, []int{400, 300, 200}, []string{"a", "b", "c"})

	result, err := env.revisions.RemoveOldRevisions(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), result.RevisionsDeleted)
	assert.Equal(t, int64(1), result.RevisionsRewritten)

	remaining := revisionsOldestFirst(t, env, noteId)
	require.Len(t, remaining, 1)
	assert.Equal(t, "c", remaining[0].Content)
	assert.Nil(t, remaining[0].Patch)

	content, err := env.notes.GetNoteContent(ctx, noteId)
	require.NoError(t, err)
	assert.Equal(t, "c", content)
}

func TestRemoveOldRevisionsLeavesTagsOfKeptRevisions(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, testNoteConfig())
	noteId := createNoteWithHistory(t, env, []int{90, 5}, []string{
		"---\ntags: [old]\n---\n",
		"---\ntags: [new]\n---\n",
	})

	_, err := env.revisions.RemoveOldRevisions(ctx)
	require.NoError(t, err)

	remaining := revisionsOldestFirst(t, env, noteId)
	require.Len(t, remaining, 1)
	assert.Equal(t, []string{"new"}, remaining[0].Tags)
	assert.Equal(t, int64(1), testutil.Count(t, env.db, &model.RevisionTag{}))
}

func TestRemoveOldRevisionsDisabled(t *testing.T) {
	cfg := testNoteConfig()
	cfg.RevisionRetentionDays = 0
	env := newTestEnv(t, cfg)
	createNoteWithHistory(t, env, []int{500, 400}, []string{"a", "b"})

	result, err := env.revisions.RemoveOldRevisions(context.Background())
	require.NoError(t, err)
	assert.Zero(t, result.RevisionsDeleted)
	assert.Equal(t, int64(2), testutil.Count(t, env.db, &model.Revision{}))
}

func TestRemoveOldRevisionsProperties(t *testing.T) {
	env := newTestEnv(t, testNoteConfig())
	retention := testNoteConfig().RevisionRetentionDays

	rapid.Check(t, func(rt *rapid.T) {
		ages := rapid.SliceOfNDistinct(rapid.IntRange(0, 120), 1, 6, rapid.ID[int]).Draw(rt, "ages")
		sort.Sort(sort.Reverse(sort.IntSlice(ages)))
		contents := make([]string, len(ages))
		for i := range contents {
			contents[i] = fmt.Sprintf("rev %d\n%s", i, rapid.StringMatching(`[a-c\n]{0,20}`).Draw(rt, fmt.Sprintf("body%d", i)))
		}

		noteId := createNoteWithHistory(t, env, ages, contents)

		expectDeleted := 0
		for i, age := range ages {
			if i < len(ages)-1 && age > retention {
				expectDeleted++
			}
		}

		result, err := env.revisions.RemoveOldRevisions(context.Background())
		if err != nil {
			rt.Fatalf("prune: %v", err)
		}
		if result.RevisionsDeleted != int64(expectDeleted) {
			rt.Fatalf("deleted %d revisions, want %d", result.RevisionsDeleted, expectDeleted)
		}

		remaining := revisionsOldestFirst(t, env, noteId)
		if len(remaining) != len(ages)-expectDeleted {
			rt.Fatalf("%d revisions left, want %d", len(remaining), len(ages)-expectDeleted)
		}
		if remaining[len(remaining)-1].Content != contents[len(contents)-1] {
			rt.Fatalf("newest revision was not kept")
		}
		if remaining[0].Patch != nil {
			rt.Fatalf("oldest remaining revision still has a patch")
		}
		content := remaining[0].Content
		for _, rev := range remaining[1:] {
			if rev.Patch == nil {
				rt.Fatalf("revision %s lost its patch", rev.Uuid)
			}
			next, err := patch.Apply(content, *rev.Patch)
			if err != nil || next != rev.Content {
				rt.Fatalf("revision %s is not reconstructible", rev.Uuid)
			}
			content = next
		}

		again, err := env.revisions.RemoveOldRevisions(context.Background())
		if err != nil {
			rt.Fatalf("second prune: %v", err)
		}
		if again.RevisionsDeleted != 0 || again.RevisionsRewritten != 0 {
			rt.Fatalf("second prune changed %d/%d rows", again.RevisionsDeleted, again.RevisionsRewritten)
		}
	})
}

func TestPurgeRevisions(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, testNoteConfig())
	noteId := createNoteWithHistory(t, env, []int{3, 2, 1}, []string{"a", "ab", "abc"})

	deleted, err := env.revisions.PurgeRevisions(ctx, noteId)
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	remaining := revisionsOldestFirst(t, env, noteId)
	require.Len(t, remaining, 1)
	assert.Equal(t, "abc", remaining[0].Content)
	assert.Nil(t, remaining[0].Patch)

	_, err = env.revisions.PurgeRevisions(ctx, noteId+1)
	var notFound *apperror.NotInDBError
	assert.ErrorAs(t, err, &notFound)
}
