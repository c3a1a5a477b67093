package service

import (
	"context"
	"time"

	"DocShelf/internal/model"
	"DocShelf/internal/repo"
)

const (
	recentWindow = 7 * 24 * time.Hour
	topKeywordsN = 5
)

// DashboardStats: сводка для панели администратора.
type DashboardStats struct {
	TotalFiles           int64                    `json:"totalFiles"`
	TotalKeywords        int64                    `json:"totalKeywords"`
	TotalFolders         int64                    `json:"totalFolders"`
	RecentFiles          int64                    `json:"recentFiles"`
	FilesWithoutKeywords int64                    `json:"filesWithoutKeywords"`
	UnusedKeywords       int64                    `json:"unusedKeywords"`
	EmptyFolders         int64                    `json:"emptyFolders"`
	TopKeywords          []model.KeywordWithCount `json:"topKeywords"`
}

// StatsService считает сводную статистику каталога.
type StatsService struct {
	files    repo.FileRepository
	folders  repo.FolderRepository
	keywords repo.KeywordRepository
	now      func() time.Time
}

func NewStatsService(files repo.FileRepository, folders repo.FolderRepository, keywords repo.KeywordRepository) *StatsService {
	return &StatsService{files: files, folders: folders, keywords: keywords, now: time.Now}
}

func (s *StatsService) Dashboard(ctx context.Context) (*DashboardStats, error) {
	var (
		st  DashboardStats
		err error
	)
	if st.TotalFiles, err = s.files.Count(ctx); err != nil {
		return nil, err
	}
	if st.TotalKeywords, err = s.keywords.Count(ctx); err != nil {
		return nil, err
	}
	if st.TotalFolders, err = s.folders.Count(ctx); err != nil {
		return nil, err
	}
	if st.RecentFiles, err = s.files.CountCreatedSince(ctx, s.now().Add(-recentWindow)); err != nil {
		return nil, err
	}
	if st.FilesWithoutKeywords, err = s.files.CountWithoutKeywords(ctx); err != nil {
		return nil, err
	}
	if st.UnusedKeywords, err = s.keywords.CountUnused(ctx); err != nil {
		return nil, err
	}
	if st.EmptyFolders, err = s.folders.CountEmpty(ctx); err != nil {
		return nil, err
	}
	if st.TopKeywords, err = s.keywords.Top(ctx, topKeywordsN); err != nil {
		return nil, err
	}
	if st.TopKeywords == nil {
		st.TopKeywords = []model.KeywordWithCount{}
	}
	return &st, nil
}
