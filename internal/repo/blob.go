package repo

import (
	"context"
	"errors"
	"path/filepath"

	"DocShelf/internal/model"
	"DocShelf/internal/storage"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BlobRepository хранит содержимое файлов прямо в БД (таблица blobs).
// Реализует storage.BlobStore.
type BlobRepository interface {
	storage.BlobStore
	// CreateIfAbsent пытается создать запись. Если существует: ничего не делает.
	// Возвращает created=true если запись была создана в этой операции.
	CreateIfAbsent(ctx context.Context, id string, data []byte) (created bool, err error)
}

type blobRepo struct {
	db *gorm.DB
}

var _ storage.BlobStore = (*blobRepo)(nil)

// NewBlobRepository создаёт реализацию репозитория для Blob.
func NewBlobRepository(db *gorm.DB) BlobRepository {
	return &blobRepo{db: db}
}

// CreateIfAbsent создает Blob в БД, если его ещё нет.
func (r *blobRepo) CreateIfAbsent(ctx context.Context, id string, data []byte) (bool, error) {
	b := &model.Blob{ID: id, Data: data}
	tx := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoNothing: true,
	}).Create(b)
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

// Put сохраняет байты под новым ключом (uuid + расширение исходного имени).
func (r *blobRepo) Put(ctx context.Context, name string, data []byte) (string, error) {
	key := uuid.NewString() + filepath.Ext(name)
	if _, err := r.CreateIfAbsent(ctx, key, data); err != nil {
		return "", err
	}
	return key, nil
}

func (r *blobRepo) Get(ctx context.Context, key string) ([]byte, error) {
	var b model.Blob
	if err := r.db.WithContext(ctx).First(&b, "id = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, storage.ErrBlobNotFound
		}
		return nil, err
	}
	return b.Data, nil
}

func (r *blobRepo) Delete(ctx context.Context, key string) (bool, error) {
	tx := r.db.WithContext(ctx).Delete(&model.Blob{}, "id = ?", key)
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}
