package service

import (
	"context"
	"testing"

	"DocShelf/internal/apperr"
	"DocShelf/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mkdir(t *testing.T, env *testEnv, name string, parent *model.FolderWithCounts) *model.FolderWithCounts {
	t.Helper()
	in := FolderInput{Name: name}
	if parent != nil {
		in.ParentID = &parent.ID
	}
	f, err := env.folders.Create(context.Background(), in)
	require.NoError(t, err)
	return f
}

func TestFolderService_Create(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()

	f, err := env.folders.Create(ctx, FolderInput{Name: "  Contracts  "})
	require.NoError(t, err)
	assert.Equal(t, "Contracts", f.Name)
	assert.Nil(t, f.ParentID)
	assert.Equal(t, &model.FolderCounts{}, f.Counts)

	_, err = env.folders.Create(ctx, FolderInput{Name: "   "})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = env.folders.Create(ctx, FolderInput{Name: "a/b"})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = env.folders.Create(ctx, FolderInput{Name: "X", ParentID: ptrStr("missing")})
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	// корневые соседи тоже уникальны
	_, err = env.folders.Create(ctx, FolderInput{Name: "Contracts"})
	assert.ErrorIs(t, err, apperr.ErrConflict)

	// пустой parentId равен корню
	_, err = env.folders.Create(ctx, FolderInput{Name: "Contracts", ParentID: ptrStr("")})
	assert.ErrorIs(t, err, apperr.ErrConflict)

	// то же имя под другим родителем допустимо
	sub, err := env.folders.Create(ctx, FolderInput{Name: "Contracts", ParentID: &f.ID})
	require.NoError(t, err)
	assert.Equal(t, f.ID, *sub.ParentID)
}

func TestFolderService_RenameCycleGuard(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()

	a := mkdir(t, env, "A", nil)
	b := mkdir(t, env, "B", a)
	c := mkdir(t, env, "C", b)

	_, err := env.folders.Rename(ctx, a.ID, FolderInput{Name: "A", ParentID: &b.ID})
	assert.ErrorIs(t, err, apperr.ErrIntegrity)
	assert.Contains(t, err.Error(), "descendant")

	_, err = env.folders.Rename(ctx, a.ID, FolderInput{Name: "A", ParentID: &c.ID})
	assert.ErrorIs(t, err, apperr.ErrIntegrity)

	_, err = env.folders.Rename(ctx, a.ID, FolderInput{Name: "A", ParentID: &a.ID})
	assert.ErrorIs(t, err, apperr.ErrIntegrity)
	assert.Contains(t, err.Error(), "itself")

	// дерево не изменилось
	path, err := env.folders.Path(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, []model.PathEntry{{ID: a.ID, Name: "A"}, {ID: b.ID, Name: "B"}, {ID: c.ID, Name: "C"}}, path)
}

func TestFolderService_RenameAndMove(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()

	a := mkdir(t, env, "A", nil)
	b := mkdir(t, env, "B", a)
	mkdir(t, env, "Other", nil)

	// перенос B в корень с новым именем
	moved, err := env.folders.Rename(ctx, b.ID, FolderInput{Name: "B2"})
	require.NoError(t, err)
	assert.Equal(t, "B2", moved.Name)
	assert.Nil(t, moved.ParentID)
	require.NotNil(t, moved.Counts)

	// возврат под A
	moved, err = env.folders.Rename(ctx, b.ID, FolderInput{Name: "B2", ParentID: &a.ID})
	require.NoError(t, err)
	require.NotNil(t, moved.ParentID)
	assert.Equal(t, a.ID, *moved.ParentID)

	// переименование в себя же допустимо
	_, err = env.folders.Rename(ctx, b.ID, FolderInput{Name: "B2", ParentID: &a.ID})
	require.NoError(t, err)

	_, err = env.folders.Rename(ctx, a.ID, FolderInput{Name: "Other"})
	assert.ErrorIs(t, err, apperr.ErrConflict)

	_, err = env.folders.Rename(ctx, "missing", FolderInput{Name: "Z"})
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = env.folders.Rename(ctx, a.ID, FolderInput{Name: "A", ParentID: ptrStr("missing")})
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = env.folders.Rename(ctx, a.ID, FolderInput{Name: ""})
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestFolderService_Delete(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()

	empty := mkdir(t, env, "Empty", nil)
	require.NoError(t, env.folders.Delete(ctx, empty.ID))

	full := mkdir(t, env, "Full", nil)
	_, err := env.files.Upload(ctx, UploadRequest{
		Files:    []UploadItem{{Name: "a.txt", Data: []byte("a")}},
		FolderID: &full.ID,
	})
	require.NoError(t, err)
	assert.ErrorIs(t, env.folders.Delete(ctx, full.ID), apperr.ErrIntegrity)

	parent := mkdir(t, env, "Parent", nil)
	mkdir(t, env, "Kid", parent)
	assert.ErrorIs(t, env.folders.Delete(ctx, parent.ID), apperr.ErrIntegrity)

	assert.ErrorIs(t, env.folders.Delete(ctx, "missing"), apperr.ErrNotFound)

	all, err := env.folders.ListAll(ctx, false)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

// a{b{d}, c}: файлы a=1, b=2, c=3, d=4
func TestFolderService_ListChildrenCounts(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()

	a := mkdir(t, env, "a", nil)
	b := mkdir(t, env, "b", a)
	c := mkdir(t, env, "c", a)
	d := mkdir(t, env, "d", b)

	put := func(folder *model.FolderWithCounts, n int) {
		for i := 0; i < n; i++ {
			_, err := env.files.Upload(ctx, UploadRequest{
				Files:    []UploadItem{{Name: folder.Name + ".txt", Data: []byte("x")}},
				FolderID: &folder.ID,
			})
			require.NoError(t, err)
		}
	}
	put(a, 1)
	put(b, 2)
	put(c, 3)
	put(d, 4)

	roots, err := env.folders.ListChildren(ctx, nil, true)
	require.NoError(t, err)
	require.Len(t, roots, 1)
	assert.Equal(t, &model.FolderCounts{Files: 10, Children: 2, Folders: 3}, roots[0].Counts)

	kids, err := env.folders.ListChildren(ctx, &a.ID, true)
	require.NoError(t, err)
	require.Len(t, kids, 2)
	assert.Equal(t, "b", kids[0].Name)
	assert.Equal(t, &model.FolderCounts{Files: 6, Children: 1, Folders: 1}, kids[0].Counts)
	assert.Equal(t, &model.FolderCounts{Files: 3}, kids[1].Counts)

	// рекурсивный счётчик = прямые файлы + сумма рекурсивных счётчиков детей
	assert.Equal(t, roots[0].Counts.Files, int64(1)+kids[0].Counts.Files+kids[1].Counts.Files)

	kids, err = env.folders.ListChildren(ctx, &a.ID, false)
	require.NoError(t, err)
	require.Len(t, kids, 2)
	assert.Nil(t, kids[0].Counts)

	_, err = env.folders.ListChildren(ctx, ptrStr("missing"), true)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	desc, err := env.folders.DescendantIDs(ctx, a.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{b.ID, c.ID, d.ID}, desc)

	scope, err := env.folders.Scope(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{b.ID, d.ID}, scope)
}

func TestFolderService_Get(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()

	a := mkdir(t, env, "a", nil)
	b := mkdir(t, env, "b", a)
	mkdir(t, env, "c", b)
	_, err := env.files.Upload(ctx, UploadRequest{
		Files:    []UploadItem{{Name: "in-b.txt", Data: []byte("x")}},
		FolderID: &b.ID,
	})
	require.NoError(t, err)

	d, err := env.folders.Get(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "b", d.Name)
	require.NotNil(t, d.ParentRef)
	assert.Equal(t, model.FolderRef{ID: a.ID, Name: "a"}, *d.ParentRef)
	assert.Equal(t, &model.FolderCounts{Files: 1, Children: 1, Folders: 1}, d.Counts)
	require.Len(t, d.Children, 1)
	assert.Equal(t, "c", d.Children[0].Name)
	require.Len(t, d.Files, 1)
	assert.Equal(t, "in-b.txt", d.Files[0].Name)

	root, err := env.folders.Get(ctx, a.ID)
	require.NoError(t, err)
	assert.Nil(t, root.ParentRef)

	_, err = env.folders.Get(ctx, "missing")
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = env.folders.Path(ctx, "missing")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}
