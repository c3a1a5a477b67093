// Package hierarchy строит лес папок в памяти и отвечает на вопросы о нём:
// потомки, путь до корня, агрегаты по поддереву.
//
// Лес собирается из полного списка папок один раз на операцию, после чего все обходы
// идут по карте смежности без обращений к хранилищу.
package hierarchy

import (
	"sort"

	"DocShelf/internal/apperr"
	"DocShelf/internal/model"
)

// MaxDepth ограничивает глубину обхода. Инвариант «нет циклов» проверяется только при
// записи, поэтому чтение не должно зацикливаться на повреждённых данных.
const MaxDepth = 256

// Forest: снимок дерева папок.
type Forest struct {
	byID     map[string]model.Folder
	children map[string][]string // parentID ("" для корня) -> id детей, отсортированы по имени
}

// Build строит лес из плоского списка папок.
func Build(folders []model.Folder) *Forest {
	f := &Forest{
		byID:     make(map[string]model.Folder, len(folders)),
		children: make(map[string][]string),
	}
	for _, fl := range folders {
		f.byID[fl.ID] = fl
	}
	for _, fl := range folders {
		key := parentKey(fl.ParentID)
		f.children[key] = append(f.children[key], fl.ID)
	}
	for key, ids := range f.children {
		sort.SliceStable(ids, func(i, j int) bool {
			a, b := f.byID[ids[i]], f.byID[ids[j]]
			if a.Name != b.Name {
				return a.Name < b.Name
			}
			return a.ID < b.ID
		})
		f.children[key] = ids
	}
	return f
}

func parentKey(parentID *string) string {
	if parentID == nil {
		return ""
	}
	return *parentID
}

// Len возвращает число папок в снимке.
func (f *Forest) Len() int { return len(f.byID) }

// Get возвращает папку по id.
func (f *Forest) Get(id string) (model.Folder, bool) {
	fl, ok := f.byID[id]
	return fl, ok
}

// Children возвращает прямых детей parentID (nil: верхний уровень), по имени.
func (f *Forest) Children(parentID *string) []model.Folder {
	ids := f.children[parentKey(parentID)]
	res := make([]model.Folder, 0, len(ids))
	for _, id := range ids {
		res = append(res, f.byID[id])
	}
	return res
}

// Descendants возвращает id всех папок, вложенных в id на любую глубину (обход в ширину).
// Сам id в результат не входит. Для неизвестного id возвращается NotFoundError.
func (f *Forest) Descendants(id string) ([]string, error) {
	if _, ok := f.byID[id]; !ok {
		return nil, apperr.NotFound("folder %q not found", id)
	}
	seen := map[string]struct{}{id: {}}
	var res []string
	level := []string{id}
	for depth := 0; len(level) > 0; depth++ {
		if depth >= MaxDepth {
			return nil, apperr.Integrity("folder %q: hierarchy deeper than %d levels, data is corrupt", id, MaxDepth)
		}
		var next []string
		for _, cur := range level {
			for _, child := range f.children[cur] {
				if _, dup := seen[child]; dup {
					return nil, apperr.Integrity("folder %q: cycle detected at %q", id, child)
				}
				seen[child] = struct{}{}
				res = append(res, child)
				next = append(next, child)
			}
		}
		level = next
	}
	return res, nil
}

// IsDescendant сообщает, лежит ли candidate внутри поддерева id.
func (f *Forest) IsDescendant(id, candidate string) (bool, error) {
	desc, err := f.Descendants(id)
	if err != nil {
		return false, err
	}
	for _, d := range desc {
		if d == candidate {
			return true, nil
		}
	}
	return false, nil
}

// Scope возвращает {id} ∪ Descendants(id).
func (f *Forest) Scope(id string) ([]string, error) {
	desc, err := f.Descendants(id)
	if err != nil {
		return nil, err
	}
	return append([]string{id}, desc...), nil
}

// Path возвращает цепочку от корня до id включительно.
func (f *Forest) Path(id string) ([]model.PathEntry, error) {
	cur, ok := f.byID[id]
	if !ok {
		return nil, apperr.NotFound("folder %q not found", id)
	}
	var rev []model.PathEntry
	for steps := 0; ; steps++ {
		if steps >= MaxDepth {
			return nil, apperr.Integrity("folder %q: ancestor chain longer than %d, data is corrupt", id, MaxDepth)
		}
		rev = append(rev, model.PathEntry{ID: cur.ID, Name: cur.Name})
		if cur.ParentID == nil {
			break
		}
		parent, ok := f.byID[*cur.ParentID]
		if !ok {
			return nil, apperr.NotFound("folder %q: parent %q not found", cur.ID, *cur.ParentID)
		}
		cur = parent
	}
	path := make([]model.PathEntry, len(rev))
	for i := range rev {
		path[len(rev)-1-i] = rev[i]
	}
	return path, nil
}

// Counts считает агрегаты по папке id. directFiles: число файлов, лежащих
// непосредственно в каждой папке (ключ: id папки).
func (f *Forest) Counts(id string, directFiles map[string]int64) (model.FolderCounts, error) {
	scope, err := f.Scope(id)
	if err != nil {
		return model.FolderCounts{}, err
	}
	var files int64
	for _, fid := range scope {
		files += directFiles[fid]
	}
	return model.FolderCounts{
		Files:    files,
		Children: int64(len(f.children[id])),
		Folders:  int64(len(scope) - 1),
	}, nil
}

// WithCounts дополняет папки агрегатами.
func (f *Forest) WithCounts(folders []model.Folder, directFiles map[string]int64) ([]model.FolderWithCounts, error) {
	res := make([]model.FolderWithCounts, 0, len(folders))
	for _, fl := range folders {
		c, err := f.Counts(fl.ID, directFiles)
		if err != nil {
			return nil, err
		}
		res = append(res, model.FolderWithCounts{Folder: fl, Counts: &c})
	}
	return res, nil
}

// All возвращает все папки, отсортированные по имени.
func (f *Forest) All() []model.Folder {
	res := make([]model.Folder, 0, len(f.byID))
	for _, fl := range f.byID {
		res = append(res, fl)
	}
	sort.Slice(res, func(i, j int) bool {
		if res[i].Name != res[j].Name {
			return res[i].Name < res[j].Name
		}
		return res[i].ID < res[j].ID
	})
	return res
}
