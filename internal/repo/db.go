package repo

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"DocShelf/internal/apperr"
	"DocShelf/internal/model"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"
)

// DefaultSQLiteDSN используется, когда DATABASE_URI не задан.
const DefaultSQLiteDSN = "file:docshelf.db"

// InitDB открывает подключение (postgres или sqlite: по виду DSN) и применяет миграции.
func InitDB(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(Dialector(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
		// время храним в UTC: в SQLite даты сравниваются как строки
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Dialector выбирает драйвер gorm по строке подключения.
//
//	postgres://..., postgresql://..., "host=... user=..." -> postgres
//	sqlite://path, file:path, path, ""                    -> sqlite (modernc, без cgo)
func Dialector(dsn string) gorm.Dialector {
	dsn = strings.TrimSpace(dsn)
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") || strings.Contains(dsn, "host=") {
		return postgres.Open(dsn)
	}
	return gormsqlite.Dialector{DriverName: "sqlite", DSN: sqliteDSN(dsn)}
}

func sqliteDSN(dsn string) string {
	dsn = strings.TrimPrefix(dsn, "sqlite://")
	if dsn == "" {
		dsn = DefaultSQLiteDSN
	}
	// внешние ключи в SQLite по умолчанию выключены
	if !strings.Contains(dsn, "foreign_keys") {
		sep := "?"
		if strings.Contains(dsn, "?") {
			sep = "&"
		}
		dsn += sep + "_pragma=foreign_keys(1)"
	}
	return dsn
}

// Migrate создаёт/обновляет таблицы всех моделей.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(model.All()...); err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}
	return nil
}

// isDuplicate распознаёт нарушение уникальности независимо от драйвера.
func isDuplicate(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || strings.Contains(msg, "duplicate key value")
}

// notFound переводит gorm.ErrRecordNotFound в доменную ошибку.
func notFound(err error, format string, args ...any) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound(format, args...)
	}
	return err
}

// escapeLike экранирует спецсимволы шаблона LIKE.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// validID сообщает, похож ли id на UUID в каноническом виде.
// Postgres отвергает всё прочее ошибкой 22P02 ещё до поиска строки.
func validID(id string) bool {
	if len(id) != 36 {
		return false
	}
	_, err := uuid.Parse(id)
	return err == nil
}

// validIDs отбрасывает id, которые не могут существовать в базе.
func validIDs(ids []string) []string {
	res := make([]string, 0, len(ids))
	for _, id := range ids {
		if validID(id) {
			res = append(res, id)
		}
	}
	return res
}
