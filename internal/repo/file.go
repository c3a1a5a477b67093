package repo

import (
	"context"
	"errors"
	"strings"
	"time"

	"DocShelf/internal/apperr"
	"DocShelf/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FileFields: изменяемые поля записи файла.
type FileFields struct {
	Name        string
	FolderID    *string
	DateTexte   *time.Time
	Commentaire *string
}

// SearchFilter: предикаты выборки файлов на уровне хранилища.
// Нулевые значения означают «без фильтра».
type SearchFilter struct {
	Text       string
	KeywordIDs []string
	// MatchAll=true требует все метки (AND), false хотя бы одну (OR).
	MatchAll bool
	// FolderIDs == nil: без ограничения по папкам.
	FolderIDs []string
	// DateFrom включительно, DateBefore: строго меньше.
	DateFrom   *time.Time
	DateBefore *time.Time
	SortColumn string
	Desc       bool
}

// FileRepository: доступ к файлам каталога и их меткам.
type FileRepository interface {
	// Create сохраняет запись и привязывает существующие метки из keywordIDs
	// (неизвестные id пропускаются). Занятое имя даёт ConflictError.
	Create(ctx context.Context, f *model.File, keywordIDs []string) error
	GetByID(ctx context.Context, id string) (*model.File, error)
	GetByName(ctx context.Context, name string) (*model.File, error)
	// NameTaken сообщает, занято ли имя другим файлом (exceptID исключается).
	NameTaken(ctx context.Context, name, exceptID string) (bool, error)
	// Update перезаписывает поля и полностью заменяет набор меток.
	Update(ctx context.Context, id string, fields FileFields, keywordIDs []string) (*model.File, error)
	// Delete удаляет запись вместе со связями и возвращает удалённую запись.
	Delete(ctx context.Context, id string) (*model.File, error)
	Search(ctx context.Context, f SearchFilter) ([]model.File, error)
	// ListInFolder возвращает файлы, лежащие непосредственно в папке, по имени.
	ListInFolder(ctx context.Context, folderID string) ([]model.File, error)

	// CountByFolder: число файлов непосредственно в каждой папке.
	CountByFolder(ctx context.Context) (map[string]int64, error)
	Count(ctx context.Context) (int64, error)
	CountCreatedSince(ctx context.Context, since time.Time) (int64, error)
	CountWithoutKeywords(ctx context.Context) (int64, error)
}

type fileRepo struct {
	db *gorm.DB
}

// NewFileRepository создаёт реализацию репозитория файлов.
func NewFileRepository(db *gorm.DB) FileRepository {
	return &fileRepo{db: db}
}

// sortColumns: допустимые поля сортировки.
var sortColumns = map[string]string{
	"name":      "name",
	"createdAt": "created_at",
	"dateTexte": "date_texte",
}

// SortColumn возвращает колонку для поля сортировки API или "" для неизвестного поля.
func SortColumn(field string) string {
	return sortColumns[field]
}

func withRelations(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Keywords", func(db *gorm.DB) *gorm.DB { return db.Order("keywords.name ASC") }).
		Preload("Folder")
}

func findKeywords(tx *gorm.DB, ids []string) ([]model.Keyword, error) {
	ids = validIDs(ids)
	if len(ids) == 0 {
		return nil, nil
	}
	var kws []model.Keyword
	if err := tx.Where("id IN ?", ids).Find(&kws).Error; err != nil {
		return nil, err
	}
	return kws, nil
}

func (r *fileRepo) Create(ctx context.Context, f *model.File, keywordIDs []string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		kws, err := findKeywords(tx, keywordIDs)
		if err != nil {
			return err
		}
		f.Keywords = kws
		f.DateTexte = utc(f.DateTexte)
		if err := tx.Omit("Folder", "Keywords.*").Create(f).Error; err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		if isDuplicate(err) {
			return apperr.Conflict("file", "file name %q already exists", f.Name)
		}
		return err
	}
	got, err := r.GetByID(ctx, f.ID)
	if err != nil {
		return err
	}
	*f = *got
	return nil
}

func (r *fileRepo) GetByID(ctx context.Context, id string) (*model.File, error) {
	if !validID(id) {
		return nil, apperr.NotFound("file %q not found", id)
	}
	var f model.File
	if err := withRelations(r.db.WithContext(ctx)).First(&f, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "file %q not found", id)
	}
	return &f, nil
}

func (r *fileRepo) GetByName(ctx context.Context, name string) (*model.File, error) {
	var f model.File
	if err := withRelations(r.db.WithContext(ctx)).First(&f, "name = ?", name).Error; err != nil {
		return nil, notFound(err, "file %q not found", name)
	}
	return &f, nil
}

func (r *fileRepo) NameTaken(ctx context.Context, name, exceptID string) (bool, error) {
	var n int64
	q := r.db.WithContext(ctx).Model(&model.File{}).Where("name = ?", name)
	if exceptID != "" {
		q = q.Where("id <> ?", exceptID)
	}
	if err := q.Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *fileRepo) Update(ctx context.Context, id string, fields FileFields, keywordIDs []string) (*model.File, error) {
	if !validID(id) {
		return nil, apperr.NotFound("file %q not found", id)
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cur model.File
		if err := tx.First(&cur, "id = ?", id).Error; err != nil {
			return notFound(err, "file %q not found", id)
		}
		if err := tx.Model(&cur).Updates(map[string]any{
			"name":        fields.Name,
			"name_fold":   model.FoldName(fields.Name),
			"folder_id":   fields.FolderID,
			"date_texte":  utc(fields.DateTexte),
			"commentaire": fields.Commentaire,
		}).Error; err != nil {
			return err
		}
		kws, err := findKeywords(tx, keywordIDs)
		if err != nil {
			return err
		}
		assoc := tx.Model(&cur).Association("Keywords")
		if len(kws) == 0 {
			return assoc.Clear()
		}
		return assoc.Replace(kws)
	})
	if err != nil {
		if isDuplicate(err) {
			return nil, apperr.Conflict("file", "file name %q already exists", fields.Name)
		}
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *fileRepo) Delete(ctx context.Context, id string) (*model.File, error) {
	if !validID(id) {
		return nil, apperr.NotFound("file %q not found", id)
	}
	var f model.File
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&f, "id = ?", id).Error; err != nil {
			return notFound(err, "file %q not found", id)
		}
		if err := tx.Model(&f).Association("Keywords").Clear(); err != nil {
			return err
		}
		return tx.Delete(&model.File{}, "id = ?", id).Error
	})
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *fileRepo) Search(ctx context.Context, sf SearchFilter) ([]model.File, error) {
	q := withRelations(r.db.WithContext(ctx)).Model(&model.File{})

	if text := strings.TrimSpace(sf.Text); text != "" {
		q = q.Where(`files.name_fold LIKE ? ESCAPE '\'`, "%"+escapeLike(model.FoldName(text))+"%")
	}
	if sf.FolderIDs != nil {
		ids := validIDs(sf.FolderIDs)
		if len(ids) == 0 {
			return []model.File{}, nil
		}
		q = q.Where("files.folder_id IN ?", ids)
	}
	if len(sf.KeywordIDs) > 0 {
		if sf.MatchAll {
			for _, kid := range sf.KeywordIDs {
				if !validID(kid) {
					return []model.File{}, nil
				}
				q = q.Where("EXISTS (SELECT 1 FROM file_keywords fk WHERE fk.file_id = files.id AND fk.keyword_id = ?)", kid)
			}
		} else {
			ids := validIDs(sf.KeywordIDs)
			if len(ids) == 0 {
				return []model.File{}, nil
			}
			q = q.Where("EXISTS (SELECT 1 FROM file_keywords fk WHERE fk.file_id = files.id AND fk.keyword_id IN ?)", ids)
		}
	}
	if sf.DateFrom != nil {
		q = q.Where("files.date_texte >= ?", sf.DateFrom.UTC())
	}
	if sf.DateBefore != nil {
		q = q.Where("files.date_texte < ?", sf.DateBefore.UTC())
	}

	col := sf.SortColumn
	if col == "" {
		col = "name"
	}
	q = q.Order(clause.OrderByColumn{Column: clause.Column{Table: "files", Name: col}, Desc: sf.Desc}).
		Order(clause.OrderByColumn{Column: clause.Column{Table: "files", Name: "id"}})

	var res []model.File
	if err := q.Find(&res).Error; err != nil {
		return nil, err
	}
	return res, nil
}

func (r *fileRepo) ListInFolder(ctx context.Context, folderID string) ([]model.File, error) {
	var res []model.File
	if !validID(folderID) {
		return res, nil
	}
	err := withRelations(r.db.WithContext(ctx)).
		Where("folder_id = ?", folderID).
		Order("name ASC").
		Find(&res).Error
	return res, err
}

func (r *fileRepo) CountByFolder(ctx context.Context) (map[string]int64, error) {
	var rows []struct {
		FolderID string
		N        int64
	}
	err := r.db.WithContext(ctx).Model(&model.File{}).
		Select("folder_id, COUNT(*) AS n").
		Where("folder_id IS NOT NULL").
		Group("folder_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	res := make(map[string]int64, len(rows))
	for _, row := range rows {
		res[row.FolderID] = row.N
	}
	return res, nil
}

func (r *fileRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.File{}).Count(&n).Error
	return n, err
}

func (r *fileRepo) CountCreatedSince(ctx context.Context, since time.Time) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.File{}).Where("created_at >= ?", since.UTC()).Count(&n).Error
	return n, err
}

func (r *fileRepo) CountWithoutKeywords(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.File{}).
		Where("NOT EXISTS (SELECT 1 FROM file_keywords fk WHERE fk.file_id = files.id)").
		Count(&n).Error
	return n, err
}

// utc приводит дату к UTC: в SQLite даты сравниваются как строки.
func utc(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}

// IsNotFound: удобная проверка для вызывающих слоёв.
func IsNotFound(err error) bool {
	return errors.Is(err, apperr.ErrNotFound)
}
