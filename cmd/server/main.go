package main

import (
	"net/http"

	"DocShelf/internal/config"
	"DocShelf/internal/handlers"
	"DocShelf/internal/middleware"
	"DocShelf/internal/repo"
	"DocShelf/internal/service"
	"DocShelf/internal/storage"

	"go.uber.org/zap"
)

func main() {
	cfg := config.NewConfig()

	// создаём предустановленный регистратор zap
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}

	sugar := logger.Sugar()
	middleware.SetLogger(sugar) // передаём логгер в middleware
	//сброс буфера логгера
	defer func() {
		if err := logger.Sync(); err != nil {
			sugar.Errorw("Failed to sync logger", "error", err)
		}
	}()

	gormDB, err := repo.InitDB(cfg.DatabaseDSN)
	if err != nil {
		sugar.Fatalw("failed to initialize database", "error", err)
	}

	var blobs storage.BlobStore
	switch cfg.BlobStore {
	case config.BlobStoreDB:
		blobs = repo.NewBlobRepository(gormDB)
	default:
		fs, err := storage.NewFSStore(cfg.UploadDir)
		if err != nil {
			sugar.Fatalw("failed to prepare upload dir", "dir", cfg.UploadDir, "error", err)
		}
		blobs = fs
	}

	policy := storage.Policy{}
	if cfg.StoragePolicy != "" {
		policy, err = storage.LoadPolicy(cfg.StoragePolicy)
		if err != nil {
			sugar.Fatalw("failed to load storage policy", "path", cfg.StoragePolicy, "error", err)
		}
	}
	if policy.MaxFileSize == 0 {
		policy.MaxFileSize = cfg.MaxUploadBytes()
	}

	folderRepo := repo.NewFolderRepository(gormDB)
	fileRepo := repo.NewFileRepository(gormDB)
	keywordRepo := repo.NewKeywordRepository(gormDB)

	authService := service.NewAuthService(service.AdminCredentials{
		Email:        cfg.AdminEmail,
		Password:     cfg.AdminPassword,
		PasswordHash: cfg.AdminPasswordHash,
	})
	if cfg.AdminEmail == "" {
		sugar.Warnw("admin credentials are not configured, admin login disabled")
	}

	h := handlers.NewHandler(handlers.Services{
		Auth:     authService,
		Folders:  service.NewFolderService(folderRepo, fileRepo),
		Files:    service.NewFileService(fileRepo, folderRepo, blobs, policy, sugar),
		Keywords: service.NewKeywordService(keywordRepo),
		Stats:    service.NewStatsService(fileRepo, folderRepo, keywordRepo),
	}, sugar, cfg)

	addr := cfg.BaseURL

	sugar.Infow(
		"Starting server",
		"addr", addr,
	)

	sugar.Infow("Config",
		"BaseURL", cfg.BaseURL,
		"BlobStore", cfg.BlobStore,
		"UploadDir", cfg.UploadDir,
		"MaxFileSize", policy.MaxFileSize,
		"CORSOrigins", cfg.CORSOrigins,
	)

	if err := http.ListenAndServe(addr, h.Router); err != nil {
		sugar.Fatalw("Server failed", "error", err)
	}
}
