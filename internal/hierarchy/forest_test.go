package hierarchy

import (
	"testing"

	"DocShelf/internal/apperr"
	"DocShelf/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(s string) *string { return &s }

// fixture: три уровня
//
//	a
//	├── b
//	│   └── d
//	└── c
//	e
func fixture() []model.Folder {
	return []model.Folder{
		{ID: "a", Name: "A"},
		{ID: "c", Name: "C", ParentID: ptr("a")},
		{ID: "b", Name: "B", ParentID: ptr("a")},
		{ID: "d", Name: "D", ParentID: ptr("b")},
		{ID: "e", Name: "E"},
	}
}

func TestForest_ChildrenSortedByName(t *testing.T) {
	f := Build(fixture())

	roots := f.Children(nil)
	if assert.Len(t, roots, 2) {
		assert.Equal(t, "a", roots[0].ID)
		assert.Equal(t, "e", roots[1].ID)
	}

	kids := f.Children(ptr("a"))
	if assert.Len(t, kids, 2) {
		assert.Equal(t, "B", kids[0].Name)
		assert.Equal(t, "C", kids[1].Name)
	}
	assert.Empty(t, f.Children(ptr("d")))
	assert.Equal(t, 5, f.Len())
}

func TestForest_Descendants(t *testing.T) {
	f := Build(fixture())

	desc, err := f.Descendants("a")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"b", "c", "d"}, desc)
	assert.NotContains(t, desc, "a")

	desc, err = f.Descendants("d")
	require.NoError(t, err)
	assert.Empty(t, desc)

	_, err = f.Descendants("missing")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

// Множество потомков замкнуто относительно связи «родитель»: если X в множестве
// и Y.parent == X, то Y тоже в множестве.
func TestForest_DescendantsClosedUnderParent(t *testing.T) {
	folders := fixture()
	f := Build(folders)
	for _, root := range folders {
		desc, err := f.Descendants(root.ID)
		require.NoError(t, err)
		set := map[string]bool{root.ID: true}
		for _, d := range desc {
			set[d] = true
		}
		for _, y := range folders {
			if y.ParentID != nil && set[*y.ParentID] {
				assert.True(t, set[y.ID], "folder %s must be in scope of %s", y.ID, root.ID)
			}
		}
	}
}

func TestForest_IsDescendantAndScope(t *testing.T) {
	f := Build(fixture())

	ok, err := f.IsDescendant("a", "d")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = f.IsDescendant("b", "c")
	require.NoError(t, err)
	assert.False(t, ok)

	scope, err := f.Scope("b")
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "d"}, scope)
}

func TestForest_Path(t *testing.T) {
	f := Build(fixture())

	p, err := f.Path("d")
	require.NoError(t, err)
	assert.Equal(t, []model.PathEntry{{ID: "a", Name: "A"}, {ID: "b", Name: "B"}, {ID: "d", Name: "D"}}, p)

	p, err = f.Path("e")
	require.NoError(t, err)
	assert.Equal(t, []model.PathEntry{{ID: "e", Name: "E"}}, p)

	_, err = f.Path("nope")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestForest_PathBrokenChain(t *testing.T) {
	f := Build([]model.Folder{{ID: "x", Name: "X", ParentID: ptr("ghost")}})
	_, err := f.Path("x")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

// Рекурсивный счётчик файлов папки равен прямым файлам плюс сумме рекурсивных
// счётчиков её прямых детей.
func TestForest_CountsInduction(t *testing.T) {
	f := Build(fixture())
	direct := map[string]int64{"a": 1, "b": 2, "c": 3, "d": 4, "e": 5}

	for _, fl := range fixture() {
		c, err := f.Counts(fl.ID, direct)
		require.NoError(t, err)

		sum := direct[fl.ID]
		for _, child := range f.Children(&fl.ID) {
			cc, err := f.Counts(child.ID, direct)
			require.NoError(t, err)
			sum += cc.Files
		}
		assert.Equal(t, sum, c.Files, "folder %s", fl.ID)
	}

	c, err := f.Counts("a", direct)
	require.NoError(t, err)
	assert.Equal(t, model.FolderCounts{Files: 10, Children: 2, Folders: 3}, c)
}

func TestForest_CorruptCycleTerminates(t *testing.T) {
	f := Build([]model.Folder{
		{ID: "p", Name: "P", ParentID: ptr("q")},
		{ID: "q", Name: "Q", ParentID: ptr("p")},
	})

	_, err := f.Descendants("p")
	assert.ErrorIs(t, err, apperr.ErrIntegrity)

	_, err = f.Path("p")
	assert.ErrorIs(t, err, apperr.ErrIntegrity)
}

func TestForest_DepthCap(t *testing.T) {
	var folders []model.Folder
	var parent *string
	for i := 0; i <= MaxDepth+1; i++ {
		id := string(rune('a'+i%26)) + string(rune('0'+i/26%10)) + string(rune('0'+i/260))
		folders = append(folders, model.Folder{ID: id, Name: id, ParentID: parent})
		p := id
		parent = &p
	}
	f := Build(folders)
	_, err := f.Descendants(folders[0].ID)
	assert.ErrorIs(t, err, apperr.ErrIntegrity)
}

func TestForest_WithCountsAndAll(t *testing.T) {
	f := Build(fixture())
	res, err := f.WithCounts(f.Children(nil), map[string]int64{"d": 7})
	require.NoError(t, err)
	if assert.Len(t, res, 2) {
		require.NotNil(t, res[0].Counts)
		assert.Equal(t, int64(7), res[0].Counts.Files)
		assert.Equal(t, int64(0), res[1].Counts.Files)
	}

	all := f.All()
	if assert.Len(t, all, 5) {
		assert.Equal(t, "A", all[0].Name)
		assert.Equal(t, "E", all[4].Name)
	}
}
