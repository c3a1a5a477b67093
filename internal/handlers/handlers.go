package handlers

import (
	"net/http"

	"DocShelf/internal/config"
	"DocShelf/internal/middleware"
	"DocShelf/internal/model"
	"DocShelf/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

type Handler struct {
	Router chi.Router
}

// Services: зависимости HTTP-слоя.
type Services struct {
	Auth     *service.AuthService
	Folders  *service.FolderService
	Files    *service.FileService
	Keywords *service.KeywordService
	Stats    *service.StatsService
}

// NewHandler разводящий для хендлеров
func NewHandler(svc Services, logger *zap.SugaredLogger, config *config.Config) *Handler {
	r := chi.NewRouter()

	if len(config.CORSOrigins) > 0 {
		r.Use(cors.New(cors.Options{
			AllowedOrigins:   config.CORSOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowedHeaders:   []string{"Content-Type"},
			AllowCredentials: true,
		}).Handler)
	}
	r.Use(middleware.WithGzip)
	r.Use(middleware.WithLogging)
	r.Use(middleware.WithAuth(config.AuthSecret))

	authHandler := NewAuthHandler(svc.Auth, logger, config)
	folderHandler := NewFolderHandler(svc.Folders, logger)
	keywordHandler := NewKeywordHandler(svc.Keywords, logger)
	fileHandler := NewFileHandler(svc.Files, logger, config)
	statsHandler := NewStatsHandler(svc.Stats, logger)

	anyRole := middleware.RequireRole(model.RoleAdmin, model.RoleUser)
	adminOnly := middleware.RequireRole(model.RoleAdmin)

	// Auth routes
	r.Post("/api/auth/admin", authHandler.AdminLogin)
	r.Post("/api/auth/user", authHandler.UserLogin)
	r.Post("/api/auth/logout", authHandler.Logout)
	r.Get("/api/auth/status", authHandler.Status)

	r.Route("/api/folders", func(r chi.Router) {
		r.With(anyRole).Get("/", folderHandler.List)
		r.With(adminOnly).Post("/", folderHandler.Create)
		r.With(anyRole).Get("/{id}", folderHandler.Get)
		r.With(anyRole).Get("/{id}/path", folderHandler.Path)
		r.With(adminOnly).Put("/{id}", folderHandler.Update)
		r.With(adminOnly).Delete("/{id}", folderHandler.Delete)
	})

	r.Route("/api/keywords", func(r chi.Router) {
		r.With(anyRole).Get("/", keywordHandler.List)
		r.With(adminOnly).Post("/", keywordHandler.Create)
		r.With(adminOnly).Put("/{id}", keywordHandler.Update)
		r.With(adminOnly).Delete("/{id}", keywordHandler.Delete)
	})

	r.Route("/api/files", func(r chi.Router) {
		r.Use(anyRole)
		r.Get("/", fileHandler.Search)
		r.Post("/", fileHandler.Upload)
		r.Get("/serve/{name}", fileHandler.Serve)
		r.Get("/{id}", fileHandler.Get)
		r.Put("/{id}", fileHandler.Update)
		r.Delete("/{id}", fileHandler.Delete)
	})

	r.With(adminOnly).Get("/api/dashboard/stats", statsHandler.Dashboard)

	return &Handler{Router: r}
}
