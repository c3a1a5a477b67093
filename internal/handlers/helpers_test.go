package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"DocShelf/internal/config"
	"DocShelf/internal/handlers"
	"DocShelf/internal/middleware"
	"DocShelf/internal/model"
	"DocShelf/internal/repo"
	"DocShelf/internal/service"
	"DocShelf/internal/storage"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testServer struct {
	router http.Handler
	cfg    *config.Config
	blobs  *storage.MemStore
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	db, err := repo.InitDB("file:" + uuid.NewString() + "?mode=memory&cache=shared")
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	cfg := &config.Config{
		AuthSecret:    "test-secret",
		AdminEmail:    "admin@example.com",
		AdminPassword: "secret",
		BlobMaxSizeMB:  1,
		UploadMaxFiles: 3,
		CORSOrigins:   []string{"http://ui.local"},
	}
	logger := zap.NewNop().Sugar()

	folders := repo.NewFolderRepository(db)
	files := repo.NewFileRepository(db)
	keywords := repo.NewKeywordRepository(db)
	blobs := storage.NewMemStore()

	h := handlers.NewHandler(handlers.Services{
		Auth: service.NewAuthService(service.AdminCredentials{
			Email:    cfg.AdminEmail,
			Password: cfg.AdminPassword,
		}),
		Folders:  service.NewFolderService(folders, files),
		Files:    service.NewFileService(files, folders, blobs, storage.Policy{}, logger),
		Keywords: service.NewKeywordService(keywords),
		Stats:    service.NewStatsService(files, folders, keywords),
	}, logger, cfg)
	return &testServer{router: h.Router, cfg: cfg, blobs: blobs}
}

// do выполняет запрос от имени role ("": анонимно).
func (s *testServer) do(t *testing.T, role model.Role, method, target string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if role != "" {
		rr := httptest.NewRecorder()
		require.NoError(t, middleware.SetLoginCookie(rr, role, s.cfg.AuthSecret))
		for _, c := range rr.Result().Cookies() {
			req.AddCookie(c)
		}
	}
	rr := httptest.NewRecorder()
	s.router.ServeHTTP(rr, req)
	return rr
}

func (s *testServer) doJSON(t *testing.T, role model.Role, method, target string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(b)
	}
	return s.do(t, role, method, target, body, "application/json")
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), rr.Body.String())
	return v
}

type errBody struct {
	Error string `json:"error"`
}
