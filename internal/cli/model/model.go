// Package model: представления ответов сервера на стороне CLI.
package model

import "time"

type Counts struct {
	Files    int64 `json:"files"`
	Children int64 `json:"children"`
	Folders  int64 `json:"folders"`
}

type Folder struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	ParentID *string `json:"parentId"`
	Counts   *Counts `json:"_count,omitempty"`
}

type FolderRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// FolderDetails: папка вместе с родителем, подпапками и файлами.
type FolderDetails struct {
	Folder
	Parent   *FolderRef `json:"parent"`
	Children []Folder   `json:"children"`
	Files    []File     `json:"files"`
}

type Keyword struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	FileCount int64  `json:"fileCount"`
}

type File struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	FolderID    *string    `json:"folderId"`
	Folder      *Folder    `json:"folder,omitempty"`
	DateTexte   *time.Time `json:"dateTexte"`
	Commentaire *string    `json:"commentaire"`
	Keywords    []Keyword  `json:"keywords"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// KeywordIDs возвращает id меток файла в исходном порядке.
func (f File) KeywordIDs() []string {
	ids := make([]string, 0, len(f.Keywords))
	for _, k := range f.Keywords {
		ids = append(ids, k.ID)
	}
	return ids
}

type Stats struct {
	TotalFiles           int64     `json:"totalFiles"`
	TotalKeywords        int64     `json:"totalKeywords"`
	TotalFolders         int64     `json:"totalFolders"`
	RecentFiles          int64     `json:"recentFiles"`
	FilesWithoutKeywords int64     `json:"filesWithoutKeywords"`
	UnusedKeywords       int64     `json:"unusedKeywords"`
	EmptyFolders         int64     `json:"emptyFolders"`
	TopKeywords          []Keyword `json:"topKeywords"`
}
