package repo

import (
	"context"
	"errors"

	"DocShelf/internal/apperr"
	"DocShelf/internal/model"

	"gorm.io/gorm"
)

// FolderRepository: доступ к папкам.
type FolderRepository interface {
	// Create сохраняет новую папку. Совпадение имени у соседей даёт ConflictError.
	Create(ctx context.Context, f *model.Folder) error
	// GetByID возвращает папку или NotFoundError.
	GetByID(ctx context.Context, id string) (*model.Folder, error)
	// Update записывает имя и родителя папки.
	Update(ctx context.Context, f *model.Folder) error
	// DeleteIfEmpty удаляет папку, только если в ней нет подпапок и файлов.
	// Проверка и удаление выполняются в одной транзакции.
	DeleteIfEmpty(ctx context.Context, id string) error

	// ListAll возвращает все папки (лес строится в памяти).
	ListAll(ctx context.Context) ([]model.Folder, error)
	// FindSibling ищет папку с именем name у родителя parentID (nil: верхний уровень).
	// Возвращает nil, nil, если такой нет.
	FindSibling(ctx context.Context, parentID *string, name string) (*model.Folder, error)

	Count(ctx context.Context) (int64, error)
	// CountEmpty считает папки без файлов и без подпапок.
	CountEmpty(ctx context.Context) (int64, error)
}

type folderRepo struct {
	db *gorm.DB
}

// NewFolderRepository создаёт реализацию репозитория папок.
func NewFolderRepository(db *gorm.DB) FolderRepository {
	return &folderRepo{db: db}
}

func (r *folderRepo) Create(ctx context.Context, f *model.Folder) error {
	if err := r.db.WithContext(ctx).Omit("Parent").Create(f).Error; err != nil {
		if isDuplicate(err) {
			return apperr.Conflict("folder", "folder name %q already exists in this location", f.Name)
		}
		return err
	}
	return nil
}

func (r *folderRepo) GetByID(ctx context.Context, id string) (*model.Folder, error) {
	if !validID(id) {
		return nil, apperr.NotFound("folder %q not found", id)
	}
	var f model.Folder
	if err := r.db.WithContext(ctx).First(&f, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "folder %q not found", id)
	}
	return &f, nil
}

func (r *folderRepo) Update(ctx context.Context, f *model.Folder) error {
	if !validID(f.ID) {
		return apperr.NotFound("folder %q not found", f.ID)
	}
	tx := r.db.WithContext(ctx).Model(&model.Folder{}).Where("id = ?", f.ID).
		Updates(map[string]any{"name": f.Name, "parent_id": f.ParentID})
	if tx.Error != nil {
		if isDuplicate(tx.Error) {
			return apperr.Conflict("folder", "folder name %q already exists in this location", f.Name)
		}
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return apperr.NotFound("folder %q not found", f.ID)
	}
	return nil
}

func (r *folderRepo) DeleteIfEmpty(ctx context.Context, id string) error {
	if !validID(id) {
		return apperr.NotFound("folder %q not found", id)
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var f model.Folder
		if err := tx.First(&f, "id = ?", id).Error; err != nil {
			return notFound(err, "folder %q not found", id)
		}
		var children, files int64
		if err := tx.Model(&model.Folder{}).Where("parent_id = ?", id).Count(&children).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.File{}).Where("folder_id = ?", id).Count(&files).Error; err != nil {
			return err
		}
		if children > 0 || files > 0 {
			return apperr.Integrity("cannot delete folder that contains files or subfolders")
		}
		return tx.Delete(&model.Folder{}, "id = ?", id).Error
	})
}

func (r *folderRepo) ListAll(ctx context.Context) ([]model.Folder, error) {
	var res []model.Folder
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&res).Error; err != nil {
		return nil, err
	}
	return res, nil
}

func (r *folderRepo) FindSibling(ctx context.Context, parentID *string, name string) (*model.Folder, error) {
	q := r.db.WithContext(ctx).Where("name = ?", name)
	if parentID == nil {
		q = q.Where("parent_id IS NULL")
	} else {
		if !validID(*parentID) {
			return nil, nil
		}
		q = q.Where("parent_id = ?", *parentID)
	}
	var f model.Folder
	err := q.First(&f).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *folderRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Folder{}).Count(&n).Error
	return n, err
}

func (r *folderRepo) CountEmpty(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Folder{}).
		Where("NOT EXISTS (SELECT 1 FROM files WHERE files.folder_id = folders.id)").
		Where("NOT EXISTS (SELECT 1 FROM folders AS c WHERE c.parent_id = folders.id)").
		Count(&n).Error
	return n, err
}
