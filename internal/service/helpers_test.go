package service

import (
	"testing"

	"DocShelf/internal/repo"
	"DocShelf/internal/storage"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// testEnv: сервисы поверх изолированной SQLite в памяти и хранилища блобов в памяти.
type testEnv struct {
	folders  *FolderService
	files    *FileService
	keywords *KeywordService
	stats    *StatsService
	blobs    *storage.MemStore
	logs     *observer.ObservedLogs
}

func newEnv(t *testing.T) *testEnv {
	return newEnvWithPolicy(t, storage.Policy{})
}

func newEnvWithPolicy(t *testing.T, policy storage.Policy) *testEnv {
	t.Helper()
	db, err := repo.InitDB("file:" + uuid.NewString() + "?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("init db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql.DB: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })

	core, logs := observer.New(zapcore.DebugLevel)
	logger := zap.New(core).Sugar()

	folderRepo := repo.NewFolderRepository(db)
	fileRepo := repo.NewFileRepository(db)
	keywordRepo := repo.NewKeywordRepository(db)
	blobs := storage.NewMemStore()

	return &testEnv{
		folders:  NewFolderService(folderRepo, fileRepo),
		files:    NewFileService(fileRepo, folderRepo, blobs, policy, logger),
		keywords: NewKeywordService(keywordRepo),
		stats:    NewStatsService(fileRepo, folderRepo, keywordRepo),
		blobs:    blobs,
		logs:     logs,
	}
}

func ptrStr(s string) *string { return &s }
