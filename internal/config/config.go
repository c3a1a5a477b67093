package config

import (
	"flag"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// Бэкенды хранилища блобов.
const (
	BlobStoreFS = "fs"
	BlobStoreDB = "db"
)

type Config struct {
	// Server-side settings
	DatabaseDSN       string   `env:"DATABASE_URI"`
	AuthSecret        string   `env:"AUTH_SECRET"`
	AdminEmail        string   `env:"ADMIN_EMAIL"`
	AdminPassword     string   `env:"ADMIN_PASSWORD"`
	AdminPasswordHash string   `env:"ADMIN_PASSWORD_HASH"`
	UploadDir         string   `env:"UPLOAD_DIR"`
	BlobStore         string   `env:"BLOB_STORE"`
	BlobMaxSizeMB     int      `env:"BLOB_MAX_MB"`
	UploadMaxFiles    int      `env:"UPLOAD_MAX_FILES"`
	StoragePolicy     string   `env:"STORAGE_POLICY"`
	CORSOrigins       []string `env:"CORS_ORIGINS" envSeparator:","`

	// Shared settings
	BaseURL     string `env:"BASE_URL"`
	EnableHTTPS bool   `env:"ENABLE_HTTPS"`

	// Client-side settings
	ServerURL string `env:"-"`
	TokenFile string `env:"TOKEN_FILE"`
	Version   bool   `env:"-"` // show client version and exit (flag only)
}

// MaxUploadBytes: предел размера одного загружаемого файла.
func (c *Config) MaxUploadBytes() int64 {
	return int64(c.BlobMaxSizeMB) << 20
}

// DefaultUploadMaxFiles: сколько файлов принимается одной загрузкой по умолчанию.
const DefaultUploadMaxFiles = 20

// multipartOverhead: запас на заголовки частей и текстовые поля формы.
const multipartOverhead = 1 << 20

// MaxUploadFiles: предел числа файлов в одном запросе загрузки.
func (c *Config) MaxUploadFiles() int {
	if c.UploadMaxFiles <= 0 {
		return DefaultUploadMaxFiles
	}
	return c.UploadMaxFiles
}

// MaxUploadRequestBytes: предел тела запроса загрузки целиком.
func (c *Config) MaxUploadRequestBytes() int64 {
	return c.MaxUploadBytes()*int64(c.MaxUploadFiles()) + multipartOverhead
}

func NewConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{}
	_ = env.Parse(cfg)

	// флаги перекрывают значения из env
	// Server flags
	flag.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "строка подключения к БД (postgres DSN или sqlite://path)")
	flag.StringVar(&cfg.AuthSecret, "auth-secret", cfg.AuthSecret, "секрет для подписи JWT")
	flag.StringVar(&cfg.UploadDir, "upload-dir", cfg.UploadDir, "каталог для загруженных файлов")
	flag.StringVar(&cfg.BlobStore, "blob-store", cfg.BlobStore, "хранилище файлов: fs или db")
	flag.IntVar(&cfg.BlobMaxSizeMB, "blob-max-mb", cfg.BlobMaxSizeMB, "максимальный размер файла, МБ")
	flag.IntVar(&cfg.UploadMaxFiles, "upload-max-files", cfg.UploadMaxFiles, "максимум файлов в одной загрузке")
	flag.StringVar(&cfg.StoragePolicy, "storage-policy", cfg.StoragePolicy, "YAML с политикой загрузки")
	// Shared/client flags
	flag.StringVar(&cfg.BaseURL, "base-url", cfg.BaseURL, "address of the DocShelf server (host:port)")
	flag.BoolVar(&cfg.EnableHTTPS, "https", cfg.EnableHTTPS, "enable HTTPS (client: prefer https scheme for BaseURL)")
	// Client flags
	flag.StringVar(&cfg.TokenFile, "token-file", cfg.TokenFile, "path to auth token file (client, default: <config dir>/DocShelf/auth_token)")
	flag.BoolVar(&cfg.Version, "version", cfg.Version, "Show client version and exit")

	flag.Parse()

	// Defaults
	if cfg.AuthSecret == "" {
		cfg.AuthSecret = "dev-secret-key"
	}
	if cfg.UploadDir == "" {
		cfg.UploadDir = filepath.Join("data", "uploads")
	}
	cfg.BlobStore = strings.ToLower(strings.TrimSpace(cfg.BlobStore))
	if cfg.BlobStore != BlobStoreDB {
		cfg.BlobStore = BlobStoreFS
	}
	if cfg.BlobMaxSizeMB <= 0 {
		cfg.BlobMaxSizeMB = 50
	}
	if cfg.UploadMaxFiles <= 0 {
		cfg.UploadMaxFiles = DefaultUploadMaxFiles
	}
	origins := cfg.CORSOrigins[:0]
	for _, o := range cfg.CORSOrigins {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	cfg.CORSOrigins = origins

	// validate BaseURL: must be in "address:port" (no scheme, no path). Otherwise use default.
	hostPortRe := regexp.MustCompile(`^[A-Za-z0-9\.\-]+:\d{1,5}$`)
	if !hostPortRe.MatchString(cfg.BaseURL) {
		cfg.BaseURL = "localhost:8081"
	}

	if cfg.EnableHTTPS {
		cfg.ServerURL = "https://" + cfg.BaseURL
	} else {
		cfg.ServerURL = "http://" + cfg.BaseURL
	}

	return cfg
}
