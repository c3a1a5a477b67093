package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Folder: папка каталога. ParentID == nil означает папку верхнего уровня.
type Folder struct {
	ID       string  `gorm:"primaryKey;type:uuid" json:"id"`
	Name     string  `gorm:"not null;uniqueIndex:idx_folders_parent_name,priority:2" json:"name"`
	ParentID *string `gorm:"type:uuid;uniqueIndex:idx_folders_parent_name,priority:1" json:"parentId"`

	Parent *Folder `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

// BeforeCreate выдаёт UUID, если он не задан вызывающим.
func (f *Folder) BeforeCreate(*gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	return nil
}

// FolderCounts: агрегаты по папке.
//
// Files считается рекурсивно (сама папка и все потомки), Children: только прямые
// подпапки, Folders: все вложенные папки на любой глубине.
type FolderCounts struct {
	Files    int64 `json:"files"`
	Children int64 `json:"children"`
	Folders  int64 `json:"folders"`
}

// FolderWithCounts: папка вместе с агрегатами (nil, если их не запрашивали).
type FolderWithCounts struct {
	Folder
	Counts *FolderCounts `json:"_count,omitempty"`
}

// PathEntry: элемент «хлебных крошек».
type PathEntry struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// FolderRef: краткая ссылка на папку в ответах.
type FolderRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
