package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Keyword: метка, которой помечаются файлы (связь многие-ко-многим).
type Keyword struct {
	ID        string    `gorm:"primaryKey;type:uuid" json:"id"`
	Name      string    `gorm:"not null;uniqueIndex" json:"name"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"-"`
}

// BeforeCreate выдаёт UUID, если он не задан вызывающим.
func (k *Keyword) BeforeCreate(*gorm.DB) error {
	if k.ID == "" {
		k.ID = uuid.NewString()
	}
	return nil
}

// KeywordWithCount: метка с числом помеченных файлов.
type KeywordWithCount struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Files int64  `json:"fileCount"`
}
