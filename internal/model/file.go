package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// File: запись каталога о загруженном файле.
// Имя уникально глобально, а не в пределах папки.
type File struct {
	ID   string `gorm:"primaryKey;type:uuid" json:"id"`
	Name string `gorm:"not null;uniqueIndex" json:"name"`
	// NameFold: имя в нижнем регистре для поиска, LOWER() в SQLite не знает Unicode.
	NameFold string `gorm:"not null;default:'';index" json:"-"`
	// Path: ключ, под которым байты лежат в хранилище блобов.
	Path string `gorm:"not null" json:"path"`

	FolderID *string `gorm:"type:uuid;index" json:"folderId"`
	Folder   *Folder `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"folder,omitempty"`

	DateTexte   *time.Time `gorm:"index" json:"dateTexte"`
	Commentaire *string    `json:"commentaire"`

	Keywords []Keyword `gorm:"many2many:file_keywords;constraint:OnDelete:CASCADE" json:"keywords"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

// BeforeCreate выдаёт UUID, если он не задан вызывающим.
func (f *File) BeforeCreate(*gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	return nil
}

// BeforeSave держит NameFold в согласии с Name.
func (f *File) BeforeSave(*gorm.DB) error {
	f.NameFold = FoldName(f.Name)
	return nil
}

// FoldName приводит имя к виду, по которому идёт поиск.
func FoldName(name string) string {
	return strings.ToLower(name)
}

// KeywordIDs возвращает идентификаторы меток файла.
func (f *File) KeywordIDs() []string {
	ids := make([]string, 0, len(f.Keywords))
	for _, k := range f.Keywords {
		ids = append(ids, k.ID)
	}
	return ids
}
