package service

import (
	"context"
	"strings"

	"DocShelf/internal/apperr"
	"DocShelf/internal/hierarchy"
	"DocShelf/internal/model"
	"DocShelf/internal/repo"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// FolderInput: имя и родитель папки при создании или переносе.
type FolderInput struct {
	Name     string  `json:"name"`
	ParentID *string `json:"parentId"`
}

// Validate нормализует и проверяет ввод.
func (in *FolderInput) Validate() error {
	in.Name = strings.TrimSpace(in.Name)
	in.ParentID = normalizeID(in.ParentID)
	return asValidation(validation.ValidateStruct(in,
		validation.Field(&in.Name, nameRules()...),
	))
}

// FolderDetails: папка вместе с родителем, подпапками и файлами первого уровня.
type FolderDetails struct {
	model.FolderWithCounts
	ParentRef *model.FolderRef         `json:"parent"`
	Children  []model.FolderWithCounts `json:"children"`
	Files     []model.File             `json:"files"`
}

// FolderService управляет лесом папок. Состояния не хранит: каждая операция
// заново читает папки и строит лес в памяти.
type FolderService struct {
	folders repo.FolderRepository
	files   repo.FileRepository
}

func NewFolderService(folders repo.FolderRepository, files repo.FileRepository) *FolderService {
	return &FolderService{folders: folders, files: files}
}

func (s *FolderService) forest(ctx context.Context) (*hierarchy.Forest, error) {
	all, err := s.folders.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return hierarchy.Build(all), nil
}

func (s *FolderService) withCounts(ctx context.Context, f *hierarchy.Forest, folders []model.Folder) ([]model.FolderWithCounts, error) {
	direct, err := s.files.CountByFolder(ctx)
	if err != nil {
		return nil, err
	}
	return f.WithCounts(folders, direct)
}

func plain(folders []model.Folder) []model.FolderWithCounts {
	res := make([]model.FolderWithCounts, 0, len(folders))
	for _, fl := range folders {
		res = append(res, model.FolderWithCounts{Folder: fl})
	}
	return res
}

// Create создаёт папку. Свежая папка возвращается с нулевыми агрегатами.
func (s *FolderService) Create(ctx context.Context, in FolderInput) (*model.FolderWithCounts, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if in.ParentID != nil {
		if _, err := s.folders.GetByID(ctx, *in.ParentID); err != nil {
			if repo.IsNotFound(err) {
				return nil, apperr.NotFound("parent folder %q not found", *in.ParentID)
			}
			return nil, err
		}
	}
	// NULL в уникальном индексе не участвует, поэтому соседей проверяем явно
	sib, err := s.folders.FindSibling(ctx, in.ParentID, in.Name)
	if err != nil {
		return nil, err
	}
	if sib != nil {
		return nil, apperr.Conflict("folder", "folder name %q already exists in this location", in.Name)
	}

	f := &model.Folder{Name: in.Name, ParentID: in.ParentID}
	if err := s.folders.Create(ctx, f); err != nil {
		return nil, err
	}
	return &model.FolderWithCounts{Folder: *f, Counts: &model.FolderCounts{}}, nil
}

// Rename меняет имя и/или родителя папки. Проверка на цикл выполняется по дереву
// до изменения.
func (s *FolderService) Rename(ctx context.Context, id string, in FolderInput) (*model.FolderWithCounts, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if in.ParentID != nil && *in.ParentID == id {
		return nil, apperr.Integrity("cannot move folder to itself")
	}

	forest, err := s.forest(ctx)
	if err != nil {
		return nil, err
	}
	cur, ok := forest.Get(id)
	if !ok {
		return nil, apperr.NotFound("folder %q not found", id)
	}
	if in.ParentID != nil {
		desc, err := forest.IsDescendant(id, *in.ParentID)
		if err != nil {
			return nil, err
		}
		if desc {
			return nil, apperr.Integrity("cannot move folder to its own descendant")
		}
		if _, ok := forest.Get(*in.ParentID); !ok {
			return nil, apperr.NotFound("parent folder %q not found", *in.ParentID)
		}
	}

	sib, err := s.folders.FindSibling(ctx, in.ParentID, in.Name)
	if err != nil {
		return nil, err
	}
	if sib != nil && sib.ID != id {
		return nil, apperr.Conflict("folder", "folder name %q already exists in this location", in.Name)
	}

	cur.Name = in.Name
	cur.ParentID = in.ParentID
	if err := s.folders.Update(ctx, &cur); err != nil {
		return nil, err
	}

	updated, err := s.forest(ctx)
	if err != nil {
		return nil, err
	}
	fl, ok := updated.Get(id)
	if !ok {
		return nil, apperr.NotFound("folder %q not found", id)
	}
	res, err := s.withCounts(ctx, updated, []model.Folder{fl})
	if err != nil {
		return nil, err
	}
	return &res[0], nil
}

// Delete удаляет пустую папку. Удаление не рекурсивное.
func (s *FolderService) Delete(ctx context.Context, id string) error {
	return s.folders.DeleteIfEmpty(ctx, id)
}

// Get возвращает папку с агрегатами, ссылкой на родителя, подпапками и файлами.
func (s *FolderService) Get(ctx context.Context, id string) (*FolderDetails, error) {
	forest, err := s.forest(ctx)
	if err != nil {
		return nil, err
	}
	fl, ok := forest.Get(id)
	if !ok {
		return nil, apperr.NotFound("folder %q not found", id)
	}
	direct, err := s.files.CountByFolder(ctx)
	if err != nil {
		return nil, err
	}
	self, err := forest.WithCounts([]model.Folder{fl}, direct)
	if err != nil {
		return nil, err
	}
	children, err := forest.WithCounts(forest.Children(&fl.ID), direct)
	if err != nil {
		return nil, err
	}
	files, err := s.files.ListInFolder(ctx, id)
	if err != nil {
		return nil, err
	}

	d := &FolderDetails{FolderWithCounts: self[0], Children: children, Files: files}
	if fl.ParentID != nil {
		if p, ok := forest.Get(*fl.ParentID); ok {
			d.ParentRef = &model.FolderRef{ID: p.ID, Name: p.Name}
		}
	}
	return d, nil
}

// ListChildren возвращает прямых детей parentID (nil: верхний уровень) по имени.
func (s *FolderService) ListChildren(ctx context.Context, parentID *string, withCounts bool) ([]model.FolderWithCounts, error) {
	parentID = normalizeID(parentID)
	forest, err := s.forest(ctx)
	if err != nil {
		return nil, err
	}
	if parentID != nil {
		if _, ok := forest.Get(*parentID); !ok {
			return nil, apperr.NotFound("folder %q not found", *parentID)
		}
	}
	children := forest.Children(parentID)
	if !withCounts {
		return plain(children), nil
	}
	return s.withCounts(ctx, forest, children)
}

// ListAll возвращает все папки по имени, для построения полного дерева на клиенте.
func (s *FolderService) ListAll(ctx context.Context, withCounts bool) ([]model.FolderWithCounts, error) {
	forest, err := s.forest(ctx)
	if err != nil {
		return nil, err
	}
	if !withCounts {
		return plain(forest.All()), nil
	}
	return s.withCounts(ctx, forest, forest.All())
}

// Path возвращает «хлебные крошки» от корня до папки.
func (s *FolderService) Path(ctx context.Context, id string) ([]model.PathEntry, error) {
	forest, err := s.forest(ctx)
	if err != nil {
		return nil, err
	}
	return forest.Path(id)
}

// DescendantIDs возвращает id всех вложенных папок, без самой папки.
func (s *FolderService) DescendantIDs(ctx context.Context, id string) ([]string, error) {
	forest, err := s.forest(ctx)
	if err != nil {
		return nil, err
	}
	return forest.Descendants(id)
}

// Scope возвращает папку вместе со всеми вложенными.
func (s *FolderService) Scope(ctx context.Context, id string) ([]string, error) {
	forest, err := s.forest(ctx)
	if err != nil {
		return nil, err
	}
	return forest.Scope(id)
}
