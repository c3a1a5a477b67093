package fs

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"DocShelf/internal/cli/repo"
)

// appDir: подкаталог в пользовательском конфиг-каталоге.
const appDir = "DocShelf"

// ErrNoToken совпадает с repo.ErrNoToken.
var ErrNoToken = repo.ErrNoToken

var _ repo.TokenStore = AuthFSStore{}

// AuthFSStore: файловое хранилище токена сессии для CLI.
// Пустой Path означает <UserConfigDir>/DocShelf/auth_token.
type AuthFSStore struct {
	Path string
}

func configDir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	p := filepath.Join(dir, appDir)
	if err := os.MkdirAll(p, 0o700); err != nil {
		return "", err
	}
	return p, nil
}

func (s AuthFSStore) tokenPath() (string, error) {
	if s.Path != "" {
		if err := os.MkdirAll(filepath.Dir(s.Path), 0o700); err != nil {
			return "", err
		}
		return s.Path, nil
	}
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "auth_token"), nil
}

// Save сохраняет auth‑токен в файл.
func (s AuthFSStore) Save(token string) error {
	if token == "" {
		return errors.New("empty token")
	}
	p, err := s.tokenPath()
	if err != nil {
		return err
	}
	return os.WriteFile(p, []byte(token), 0o600)
}

// Load читает auth‑токен из файла.
func (s AuthFSStore) Load() (string, error) {
	p, err := s.tokenPath()
	if err != nil {
		return "", err
	}
	b, err := os.ReadFile(p)
	if errors.Is(err, os.ErrNotExist) {
		return "", ErrNoToken
	}
	if err != nil {
		return "", err
	}
	// обрезаем завершающие переводы строки/пробелы
	tok := strings.TrimRight(string(b), " \t\r\n")
	if tok == "" {
		return "", ErrNoToken
	}
	return tok, nil
}

// Clear удаляет сохранённый токен. Отсутствие файла ошибкой не считается.
func (s AuthFSStore) Clear() error {
	p, err := s.tokenPath()
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
