package repo

import (
	"context"

	"DocShelf/internal/apperr"
	"DocShelf/internal/model"

	"gorm.io/gorm"
)

// KeywordRepository: доступ к меткам.
type KeywordRepository interface {
	Create(ctx context.Context, k *model.Keyword) error
	GetByID(ctx context.Context, id string) (*model.Keyword, error)
	Rename(ctx context.Context, id, name string) (*model.Keyword, error)
	// Delete удаляет метку безусловно, предварительно отвязав её от всех файлов.
	Delete(ctx context.Context, id string) error
	// ListWithCounts возвращает все метки по имени вместе с числом файлов.
	ListWithCounts(ctx context.Context) ([]model.KeywordWithCount, error)
	// CountFiles: число файлов с меткой id.
	CountFiles(ctx context.Context, id string) (int64, error)
	Count(ctx context.Context) (int64, error)
	CountUnused(ctx context.Context) (int64, error)
	// Top возвращает n самых используемых меток.
	Top(ctx context.Context, n int) ([]model.KeywordWithCount, error)
}

type keywordRepo struct {
	db *gorm.DB
}

// NewKeywordRepository создаёт реализацию репозитория меток.
func NewKeywordRepository(db *gorm.DB) KeywordRepository {
	return &keywordRepo{db: db}
}

func (r *keywordRepo) Create(ctx context.Context, k *model.Keyword) error {
	if err := r.db.WithContext(ctx).Create(k).Error; err != nil {
		if isDuplicate(err) {
			return apperr.Conflict("keyword", "keyword %q already exists", k.Name)
		}
		return err
	}
	return nil
}

func (r *keywordRepo) GetByID(ctx context.Context, id string) (*model.Keyword, error) {
	if !validID(id) {
		return nil, apperr.NotFound("keyword %q not found", id)
	}
	var k model.Keyword
	if err := r.db.WithContext(ctx).First(&k, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "keyword %q not found", id)
	}
	return &k, nil
}

func (r *keywordRepo) Rename(ctx context.Context, id, name string) (*model.Keyword, error) {
	if !validID(id) {
		return nil, apperr.NotFound("keyword %q not found", id)
	}
	tx := r.db.WithContext(ctx).Model(&model.Keyword{}).Where("id = ?", id).Update("name", name)
	if tx.Error != nil {
		if isDuplicate(tx.Error) {
			return nil, apperr.Conflict("keyword", "keyword %q already exists", name)
		}
		return nil, tx.Error
	}
	if tx.RowsAffected == 0 {
		return nil, apperr.NotFound("keyword %q not found", id)
	}
	return r.GetByID(ctx, id)
}

func (r *keywordRepo) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return apperr.NotFound("keyword %q not found", id)
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var k model.Keyword
		if err := tx.First(&k, "id = ?", id).Error; err != nil {
			return notFound(err, "keyword %q not found", id)
		}
		if err := tx.Exec("DELETE FROM file_keywords WHERE keyword_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Keyword{}, "id = ?", id).Error
	})
}

func (r *keywordRepo) withCounts() *gorm.DB {
	return r.db.Model(&model.Keyword{}).
		Select("keywords.id, keywords.name, COUNT(fk.file_id) AS files").
		Joins("LEFT JOIN file_keywords fk ON fk.keyword_id = keywords.id").
		Group("keywords.id, keywords.name")
}

func (r *keywordRepo) ListWithCounts(ctx context.Context) ([]model.KeywordWithCount, error) {
	var res []model.KeywordWithCount
	err := r.withCounts().WithContext(ctx).Order("keywords.name ASC").Scan(&res).Error
	return res, err
}

func (r *keywordRepo) CountFiles(ctx context.Context, id string) (int64, error) {
	var n int64
	if !validID(id) {
		return 0, nil
	}
	err := r.db.WithContext(ctx).Table("file_keywords").Where("keyword_id = ?", id).Count(&n).Error
	return n, err
}

func (r *keywordRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Keyword{}).Count(&n).Error
	return n, err
}

func (r *keywordRepo) CountUnused(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Keyword{}).
		Where("NOT EXISTS (SELECT 1 FROM file_keywords fk WHERE fk.keyword_id = keywords.id)").
		Count(&n).Error
	return n, err
}

func (r *keywordRepo) Top(ctx context.Context, n int) ([]model.KeywordWithCount, error) {
	var res []model.KeywordWithCount
	err := r.withCounts().WithContext(ctx).
		Order("files DESC").Order("keywords.name ASC").
		Limit(n).
		Scan(&res).Error
	return res, err
}
