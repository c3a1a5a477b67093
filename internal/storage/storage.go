// Package storage хранит байты загруженных файлов вне базы данных.
package storage

import (
	"context"
	"errors"
)

// ErrBlobNotFound: по ключу ничего не хранится.
var ErrBlobNotFound = errors.New("blob not found")

// BlobStore: непрозрачное хранилище байтов по ключу.
type BlobStore interface {
	// Put сохраняет данные и возвращает ключ хранения. name: исходное имя файла,
	// из него берётся расширение.
	Put(ctx context.Context, name string, data []byte) (string, error)
	// Get возвращает данные или ErrBlobNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
	// Delete удаляет данные. false: если по ключу уже ничего не было.
	Delete(ctx context.Context, key string) (bool, error)
}
