package service

import (
	"context"
	"testing"

	"DocShelf/internal/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeywordService(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()

	list, err := env.keywords.List(ctx)
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)

	k, err := env.keywords.Create(ctx, "  invoice ")
	require.NoError(t, err)
	assert.Equal(t, "invoice", k.Name)

	_, err = env.keywords.Create(ctx, "invoice")
	assert.ErrorIs(t, err, apperr.ErrConflict)
	_, err = env.keywords.Create(ctx, "")
	assert.ErrorIs(t, err, apperr.ErrValidation)

	other, err := env.keywords.Create(ctx, "archive")
	require.NoError(t, err)

	renamed, err := env.keywords.Rename(ctx, k.ID, "bill")
	require.NoError(t, err)
	assert.Equal(t, "bill", renamed.Name)

	_, err = env.keywords.Rename(ctx, k.ID, "archive")
	assert.ErrorIs(t, err, apperr.ErrConflict)
	_, err = env.keywords.Rename(ctx, k.ID, " ")
	assert.ErrorIs(t, err, apperr.ErrValidation)
	_, err = env.keywords.Rename(ctx, "missing", "x")
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	// удаление используемой метки разрешено
	f, err := env.files.Create(ctx, FileInput{Name: "a.txt", Path: "k", KeywordIDs: []string{k.ID, other.ID}})
	require.NoError(t, err)
	require.NoError(t, env.keywords.Delete(ctx, k.ID))

	got, err := env.files.Get(ctx, f.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{other.ID}, got.KeywordIDs())

	list, err = env.keywords.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "archive", list[0].Name)
	assert.Equal(t, int64(1), list[0].Files)

	assert.ErrorIs(t, env.keywords.Delete(ctx, k.ID), apperr.ErrNotFound)
}
