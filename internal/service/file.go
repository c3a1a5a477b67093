package service

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"DocShelf/internal/apperr"
	"DocShelf/internal/hierarchy"
	"DocShelf/internal/model"
	"DocShelf/internal/repo"
	"DocShelf/internal/storage"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"go.uber.org/zap"
)

// maxRenameAttempts ограничивает перебор суффиксов _N при совпадении имён.
const maxRenameAttempts = 1000

// FileInput: поля записи файла при создании и редактировании.
type FileInput struct {
	Name        string     `json:"name"`
	FolderID    *string    `json:"folderId"`
	KeywordIDs  []string   `json:"keywordIds"`
	DateTexte   *time.Time `json:"dateTexte"`
	Commentaire *string    `json:"commentaire"`
	// Path: ключ в хранилище блобов; задаётся только при создании.
	Path string `json:"-"`
}

// Validate нормализует и проверяет ввод.
func (in *FileInput) Validate() error {
	in.Name = strings.TrimSpace(in.Name)
	in.FolderID = normalizeID(in.FolderID)
	if in.Commentaire != nil && strings.TrimSpace(*in.Commentaire) == "" {
		in.Commentaire = nil
	}
	return asValidation(validation.ValidateStruct(in,
		validation.Field(&in.Name, nameRules()...),
	))
}

func (in FileInput) fields() repo.FileFields {
	return repo.FileFields{
		Name:        in.Name,
		FolderID:    in.FolderID,
		DateTexte:   in.DateTexte,
		Commentaire: in.Commentaire,
	}
}

// SearchMode: как сочетаются выбранные метки.
type SearchMode string

const (
	// ModeAND: файл должен нести все метки.
	ModeAND SearchMode = "AND"
	// ModeOR: хотя бы одну.
	ModeOR SearchMode = "OR"
)

// SearchQuery: фильтр поиска файлов. Нулевые поля не ограничивают выборку.
type SearchQuery struct {
	Text       string
	KeywordIDs []string
	Mode       SearchMode
	// FolderID ограничивает поиск папкой и всеми вложенными.
	FolderID *string
	// DateFrom включительно; DateTo включает весь указанный день.
	DateFrom  *time.Time
	DateTo    *time.Time
	SortBy    string
	SortOrder string
}

func (q SearchQuery) filter() (repo.SearchFilter, error) {
	sf := repo.SearchFilter{Text: q.Text, KeywordIDs: q.KeywordIDs}

	switch SearchMode(strings.ToUpper(string(q.Mode))) {
	case "", ModeOR:
	case ModeAND:
		sf.MatchAll = true
	default:
		return sf, apperr.Validation("invalid search mode %q, expected AND or OR", q.Mode)
	}

	sortBy := q.SortBy
	if sortBy == "" {
		sortBy = "name"
	}
	if sf.SortColumn = repo.SortColumn(sortBy); sf.SortColumn == "" {
		return sf, apperr.Validation("invalid sort field %q", q.SortBy)
	}
	switch strings.ToLower(q.SortOrder) {
	case "", "asc":
	case "desc":
		sf.Desc = true
	default:
		return sf, apperr.Validation("invalid sort order %q, expected asc or desc", q.SortOrder)
	}

	if q.DateFrom != nil {
		from := q.DateFrom.UTC()
		sf.DateFrom = &from
	}
	if q.DateTo != nil {
		t := q.DateTo.UTC()
		next := time.Date(t.Year(), t.Month(), t.Day()+1, 0, 0, 0, 0, time.UTC)
		sf.DateBefore = &next
	}
	return sf, nil
}

// UploadItem описывает один загружаемый файл. Name содержит желаемое имя (своё или исходное).
type UploadItem struct {
	Name string
	Data []byte
}

// UploadRequest: пакет файлов с общими метаданными.
type UploadRequest struct {
	Files       []UploadItem
	FolderID    *string
	KeywordIDs  []string
	DateTexte   *time.Time
	Commentaire *string
}

// Content: содержимое файла для выдачи клиенту.
type Content struct {
	File        *model.File
	Data        []byte
	ContentType string
}

// FileService ведёт каталог файлов: записи, метки, поиск и байты в хранилище.
type FileService struct {
	files   repo.FileRepository
	folders repo.FolderRepository
	blobs   storage.BlobStore
	policy  storage.Policy
	logger  *zap.SugaredLogger
}

func NewFileService(files repo.FileRepository, folders repo.FolderRepository, blobs storage.BlobStore, policy storage.Policy, logger *zap.SugaredLogger) *FileService {
	return &FileService{files: files, folders: folders, blobs: blobs, policy: policy, logger: logger}
}

func (s *FileService) checkFolder(ctx context.Context, folderID *string) error {
	if folderID == nil {
		return nil
	}
	if _, err := s.folders.GetByID(ctx, *folderID); err != nil {
		return err
	}
	return nil
}

// Create сохраняет запись о файле, байты которого уже лежат под in.Path.
// Совпадение имени с любым другим файлом даёт ConflictError.
func (s *FileService) Create(ctx context.Context, in FileInput) (*model.File, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if in.Path == "" {
		return nil, apperr.Validation("storage key is required")
	}
	if err := s.checkFolder(ctx, in.FolderID); err != nil {
		return nil, err
	}
	f := &model.File{
		Name:        in.Name,
		Path:        in.Path,
		FolderID:    in.FolderID,
		DateTexte:   in.DateTexte,
		Commentaire: in.Commentaire,
	}
	if err := s.files.Create(ctx, f, in.KeywordIDs); err != nil {
		return nil, err
	}
	return f, nil
}

// Update перезаписывает метаданные файла; набор меток заменяется целиком.
func (s *FileService) Update(ctx context.Context, id string, in FileInput) (*model.File, error) {
	if _, err := s.files.GetByID(ctx, id); err != nil {
		return nil, err
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	taken, err := s.files.NameTaken(ctx, in.Name, id)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperr.Conflict("file", "file name %q already exists", in.Name)
	}
	if err := s.checkFolder(ctx, in.FolderID); err != nil {
		return nil, err
	}
	return s.files.Update(ctx, id, in.fields(), in.KeywordIDs)
}

// Delete удаляет запись, затем байты. Ошибка хранилища блобов только логируется:
// источник истины: база.
func (s *FileService) Delete(ctx context.Context, id string) error {
	f, err := s.files.Delete(ctx, id)
	if err != nil {
		return err
	}
	s.removeBlob(ctx, f.Path, f.Name)
	return nil
}

func (s *FileService) removeBlob(ctx context.Context, key, name string) {
	ok, err := s.blobs.Delete(ctx, key)
	if err != nil {
		s.logger.Warnw("failed to delete blob", "key", key, "file", name, "error", err)
		return
	}
	if !ok {
		s.logger.Warnw("blob already absent", "key", key, "file", name)
	}
}

// Get возвращает файл с метками и папкой.
func (s *FileService) Get(ctx context.Context, id string) (*model.File, error) {
	return s.files.GetByID(ctx, id)
}

// Search возвращает все файлы, подходящие под запрос.
func (s *FileService) Search(ctx context.Context, q SearchQuery) ([]model.File, error) {
	sf, err := q.filter()
	if err != nil {
		return nil, err
	}
	if folderID := normalizeID(q.FolderID); folderID != nil {
		all, err := s.folders.ListAll(ctx)
		if err != nil {
			return nil, err
		}
		scope, err := hierarchy.Build(all).Scope(*folderID)
		if err != nil {
			return nil, err
		}
		sf.FolderIDs = scope
	}
	res, err := s.files.Search(ctx, sf)
	if err != nil {
		return nil, err
	}
	if res == nil {
		res = []model.File{}
	}
	return res, nil
}

// Upload сохраняет пакет файлов. Байты каждого файла пишутся до записи в базу;
// при занятом имени запись повторяется с суффиксом base_N.ext.
// Ошибка на очередном файле прерывает пакет, уже сохранённые файлы остаются.
func (s *FileService) Upload(ctx context.Context, req UploadRequest) ([]model.File, error) {
	if len(req.Files) == 0 {
		return nil, apperr.Validation("no files provided")
	}
	folderID := normalizeID(req.FolderID)
	if err := s.checkFolder(ctx, folderID); err != nil {
		return nil, err
	}

	res := make([]model.File, 0, len(req.Files))
	for _, item := range req.Files {
		name := strings.TrimSpace(item.Name)
		if err := validateName(name); err != nil {
			return res, err
		}
		if err := s.policy.Check(name, int64(len(item.Data))); err != nil {
			return res, err
		}

		key, err := s.blobs.Put(ctx, name, item.Data)
		if err != nil {
			return res, fmt.Errorf("store %q: %w", name, err)
		}
		f, err := s.createUnique(ctx, FileInput{
			Name:        name,
			FolderID:    folderID,
			KeywordIDs:  req.KeywordIDs,
			DateTexte:   req.DateTexte,
			Commentaire: req.Commentaire,
			Path:        key,
		})
		if err != nil {
			s.removeBlob(ctx, key, name)
			return res, err
		}
		s.logger.Infow("file uploaded", "id", f.ID, "name", f.Name, "size", len(item.Data))
		res = append(res, *f)
	}
	return res, nil
}

func (s *FileService) createUnique(ctx context.Context, in FileInput) (*model.File, error) {
	orig := in.Name
	ext := filepath.Ext(orig)
	if utf8.RuneCountInString(ext) > maxNameLength/2 {
		ext = ""
	}
	base := strings.TrimSuffix(orig, ext)
	for n := 1; ; n++ {
		f, err := s.Create(ctx, in)
		if err == nil {
			return f, nil
		}
		if !errors.Is(err, apperr.ErrConflict) {
			return nil, err
		}
		if n > maxRenameAttempts {
			return nil, apperr.Conflict("file", "no free name for %q after %d attempts", orig, maxRenameAttempts)
		}
		in.Name = suffixedName(base, ext, n)
	}
}

// suffixedName строит base_N.ext, укорачивая base так, чтобы имя
// не вышло за maxNameLength символов.
func suffixedName(base, ext string, n int) string {
	suffix := fmt.Sprintf("_%d%s", n, ext)
	room := maxNameLength - utf8.RuneCountInString(suffix)
	if r := []rune(base); len(r) > room {
		base = string(r[:room])
	}
	return base + suffix
}

// Open находит файл по имени и читает его байты.
func (s *FileService) Open(ctx context.Context, name string) (*Content, error) {
	f, err := s.files.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}
	data, err := s.blobs.Get(ctx, f.Path)
	if err != nil {
		if errors.Is(err, storage.ErrBlobNotFound) {
			return nil, apperr.NotFound("content of file %q not found", name)
		}
		return nil, err
	}
	return &Content{File: f, Data: data, ContentType: storage.ContentType(f.Name)}, nil
}
