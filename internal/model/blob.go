package model

import "time"

// Blob: содержимое файла, хранимое в БД (бэкенд BLOB_STORE=db).
type Blob struct {
	ID        string    `gorm:"primaryKey"`
	Data      []byte    `gorm:"not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}
