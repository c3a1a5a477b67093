package commands

import (
	"bytes"
	"net/http/httptest"
	"path/filepath"
	"runtime"
	"testing"

	"DocShelf/internal/config"
	"DocShelf/internal/handlers"
	"DocShelf/internal/repo"
	"DocShelf/internal/service"
	"DocShelf/internal/storage"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// withTempConfig переопределяет пользовательские каталоги на время теста,
// чтобы токен по умолчанию создавался в temp.
func withTempConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if runtime.GOOS == "windows" {
		t.Setenv("APPDATA", dir)
	} else {
		t.Setenv("XDG_CONFIG_HOME", dir)
	}
	return dir
}

// testConfig: конфиг клиента с отдельным файлом токена.
func testConfig(t *testing.T, serverURL string) *config.Config {
	t.Helper()
	return &config.Config{ServerURL: serverURL, TokenFile: filepath.Join(t.TempDir(), "token")}
}

// перехват stdout на время теста
func withStdoutCapture(t *testing.T, fn func()) string {
	t.Helper()
	old := Out
	var buf bytes.Buffer
	Out = &buf
	defer func() { Out = old }()
	fn()
	return buf.String()
}

const (
	backendAdmin    = "admin@example.com"
	backendPassword = "secret"
)

// newBackend поднимает настоящий HTTP-сервер каталога поверх in-memory SQLite.
func newBackend(t *testing.T) *httptest.Server {
	t.Helper()
	db, err := repo.InitDB("file:" + uuid.NewString() + "?mode=memory&cache=shared")
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)

	cfg := &config.Config{
		AuthSecret:    "cli-test-secret",
		AdminEmail:    backendAdmin,
		AdminPassword: backendPassword,
		BlobMaxSizeMB: 1,
	}
	logger := zap.NewNop().Sugar()
	folders := repo.NewFolderRepository(db)
	files := repo.NewFileRepository(db)
	keywords := repo.NewKeywordRepository(db)

	h := handlers.NewHandler(handlers.Services{
		Auth:     service.NewAuthService(service.AdminCredentials{Email: cfg.AdminEmail, Password: cfg.AdminPassword}),
		Folders:  service.NewFolderService(folders, files),
		Files:    service.NewFileService(files, folders, storage.NewMemStore(), storage.Policy{}, logger),
		Keywords: service.NewKeywordService(keywords),
		Stats:    service.NewStatsService(files, folders, keywords),
	}, logger, cfg)

	ts := httptest.NewServer(h.Router)
	t.Cleanup(func() {
		ts.Close()
		_ = sqlDB.Close()
	})
	return ts
}
