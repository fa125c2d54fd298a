package service

import (
	"context"
	"testing"

	"collabnote-be/internal/pkg/apperror"
	"collabnote-be/pkg/events"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureAliasIsAvailable(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, testNoteConfig())
	_, err := env.notes.CreateNote(ctx, "", nil, strPtr("existing"))
	require.NoError(t, err)

	tests := []struct {
		name      string
		alias     string
		forbidden bool
		taken     bool
	}{
		{name: "free", alias: "free-alias"},
		{name: "all allowed characters", alias: "a.B_c~d-9"},
		{name: "taken", alias: "existing", taken: true},
		{name: "taken check is case-sensitive", alias: "Existing"},
		{name: "empty", alias: "", forbidden: true},
		{name: "space", alias: "with space", forbidden: true},
		{name: "slash", alias: "a/b", forbidden: true},
		{name: "reserved", alias: "new", forbidden: true},
		{name: "reserved in other case", alias: "NEW", forbidden: true},
		{name: "looks like a uuid", alias: uuid.NewString(), forbidden: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uow := env.uowFactory.NewUnitOfWork(ctx)
			err := env.aliases.EnsureAliasIsAvailable(ctx, uow, tt.alias)

			var forbidden *apperror.ForbiddenAliasError
			var already *apperror.AlreadyInDBError
			switch {
			case tt.forbidden:
				assert.ErrorAs(t, err, &forbidden)
			case tt.taken:
				assert.ErrorAs(t, err, &already)
			default:
				assert.NoError(t, err)
			}
		})
	}
}

func TestGenerateRandomAliasIsValidAndUnique(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, testNoteConfig())
	uow := env.uowFactory.NewUnitOfWork(ctx)

	seen := map[string]struct{}{}
	for i := 0; i < 50; i++ {
		alias := env.aliases.GenerateRandomAlias()
		require.NoError(t, env.aliases.EnsureAliasIsAvailable(ctx, uow, alias))
		_, dup := seen[alias]
		require.False(t, dup)
		seen[alias] = struct{}{}
	}
}

func TestAliasLifecycle(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, testNoteConfig())

	noteId, err := env.notes.CreateNote(ctx, "", nil, strPtr("first"))
	require.NoError(t, err)

	second, err := env.aliases.CreateAlias(ctx, noteId, "second")
	require.NoError(t, err)
	assert.False(t, second.IsPrimary)

	id, err := env.aliases.GetNoteIdByAlias(ctx, "second")
	require.NoError(t, err)
	assert.Equal(t, noteId, id)

	var primaryErr *apperror.PrimaryAliasDeletionForbiddenError
	assert.ErrorAs(t, env.aliases.RemoveAlias(ctx, noteId, "first"), &primaryErr)

	require.NoError(t, env.aliases.MakeAliasPrimary(ctx, noteId, "second"))
	primary, err := env.aliases.GetPrimaryAlias(ctx, noteId)
	require.NoError(t, err)
	assert.Equal(t, "second", primary)

	all, err := env.aliases.GetAllAliases(ctx, noteId)
	require.NoError(t, err)
	primaries := 0
	for _, a := range all {
		if a.IsPrimary {
			primaries++
		}
	}
	assert.Equal(t, 1, primaries)

	require.NoError(t, env.aliases.RemoveAlias(ctx, noteId, "first"))
	_, err = env.aliases.GetNoteIdByAlias(ctx, "first")
	var notFound *apperror.NotInDBError
	assert.ErrorAs(t, err, &notFound)

	changed := env.emitter.ofType(events.NoteAliasesChanged)
	require.Len(t, changed, 3)
	for _, e := range changed {
		id, _ := events.NoteIdOf(e)
		assert.Equal(t, noteId, id)
	}
}

func TestAliasBelongsToOneNote(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, testNoteConfig())

	first, err := env.notes.CreateNote(ctx, "", nil, strPtr("mine"))
	require.NoError(t, err)
	other, err := env.notes.CreateNote(ctx, "", nil, strPtr("theirs"))
	require.NoError(t, err)

	var notFound *apperror.NotInDBError
	assert.ErrorAs(t, env.aliases.MakeAliasPrimary(ctx, first, "theirs"), &notFound)
	assert.ErrorAs(t, env.aliases.RemoveAlias(ctx, first, "theirs"), &notFound)

	_, err = env.aliases.CreateAlias(ctx, other, "mine")
	var already *apperror.AlreadyInDBError
	assert.ErrorAs(t, err, &already)
}
