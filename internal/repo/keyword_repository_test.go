package repo

import (
	"context"
	"testing"

	"DocShelf/internal/apperr"
	"DocShelf/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeywordRepository_CreateRename(t *testing.T) {
	db := newTestDB(t)
	r := NewKeywordRepository(db)
	ctx := context.Background()

	k := &model.Keyword{Name: "urgent"}
	require.NoError(t, r.Create(ctx, k))
	require.NoError(t, r.Create(ctx, &model.Keyword{Name: "draft"}))

	assert.ErrorIs(t, r.Create(ctx, &model.Keyword{Name: "urgent"}), apperr.ErrConflict)

	got, err := r.Rename(ctx, k.ID, "hot")
	require.NoError(t, err)
	assert.Equal(t, "hot", got.Name)

	_, err = r.Rename(ctx, k.ID, "draft")
	assert.ErrorIs(t, err, apperr.ErrConflict)

	_, err = r.Rename(ctx, "missing", "x")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestKeywordRepository_DeleteDetachesFiles(t *testing.T) {
	db := newTestDB(t)
	r := NewKeywordRepository(db)
	files := NewFileRepository(db)
	fx := seedFiles(t, db)
	ctx := context.Background()

	require.NoError(t, r.Delete(ctx, fx.urgent.ID))

	_, err := r.GetByID(ctx, fx.urgent.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	// файлы остались, метка с них снята
	a, err := files.GetByName(ctx, "a.txt")
	require.NoError(t, err)
	assert.Equal(t, []string{fx.draft.ID}, a.KeywordIDs())
	b, err := files.GetByName(ctx, "b.txt")
	require.NoError(t, err)
	assert.Empty(t, b.Keywords)

	assert.ErrorIs(t, r.Delete(ctx, fx.urgent.ID), apperr.ErrNotFound)
}

func TestKeywordRepository_Counts(t *testing.T) {
	db := newTestDB(t)
	r := NewKeywordRepository(db)
	fx := seedFiles(t, db)
	ctx := context.Background()

	unused := &model.Keyword{Name: "archive"}
	require.NoError(t, r.Create(ctx, unused))

	list, err := r.ListWithCounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, []model.KeywordWithCount{
		{ID: unused.ID, Name: "archive", Files: 0},
		{ID: fx.draft.ID, Name: "draft", Files: 2},
		{ID: fx.urgent.ID, Name: "urgent", Files: 2},
	}, list)

	n, err := r.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	n, err = r.CountUnused(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	top, err := r.Top(ctx, 2)
	require.NoError(t, err)
	require.Len(t, top, 2)
	// равные счётчики упорядочены по имени
	assert.Equal(t, "draft", top[0].Name)
	assert.Equal(t, "urgent", top[1].Name)
}
