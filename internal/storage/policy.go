package storage

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"DocShelf/internal/apperr"

	"gopkg.in/yaml.v3"
)

// Policy: ограничения на загружаемые файлы.
// Пустой AllowedExtensions означает «разрешено всё, что не заблокировано».
type Policy struct {
	MaxFileSize       int64    `yaml:"max_file_size"`
	AllowedExtensions []string `yaml:"allowed_extensions"`
	BlockedExtensions []string `yaml:"blocked_extensions"`
}

type policyFile struct {
	Validation Policy `yaml:"validation"`
}

// LoadPolicy читает YAML вида
//
//	validation:
//	  max_file_size: 10485760
//	  allowed_extensions: [pdf, txt]
//	  blocked_extensions: [exe]
func LoadPolicy(path string) (Policy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Policy{}, fmt.Errorf("failed to read storage policy: %w", err)
	}
	var pf policyFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return Policy{}, fmt.Errorf("failed to parse storage policy: %w", err)
	}
	return pf.Validation, nil
}

// Extension возвращает расширение без точки в нижнем регистре.
func Extension(name string) string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), ".")
}

// Check проверяет имя и размер файла.
func (p Policy) Check(name string, size int64) error {
	if p.MaxFileSize > 0 && size > p.MaxFileSize {
		return apperr.Validation("file %q exceeds maximum allowed size of %d bytes", name, p.MaxFileSize)
	}
	ext := Extension(name)
	for _, b := range p.BlockedExtensions {
		if strings.EqualFold(ext, strings.TrimPrefix(b, ".")) {
			return apperr.Validation("file type .%s is not allowed", ext)
		}
	}
	if len(p.AllowedExtensions) == 0 {
		return nil
	}
	for _, a := range p.AllowedExtensions {
		if strings.EqualFold(ext, strings.TrimPrefix(a, ".")) {
			return nil
		}
	}
	return apperr.Validation("file type .%s is not allowed", ext)
}

// ContentType определяет MIME-тип по расширению имени.
func ContentType(name string) string {
	if ct := mime.TypeByExtension(strings.ToLower(filepath.Ext(name))); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
