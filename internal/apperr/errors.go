// Package apperr описывает доменные ошибки каталога: валидация, отсутствие записи,
// конфликт уникальности и нарушение структуры дерева папок.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel-ошибки для errors.Is.
var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("already exists")
	ErrIntegrity  = errors.New("integrity violation")
)

// HTTPError: ошибка, которую можно отдать клиенту с конкретным статусом.
type HTTPError interface {
	error
	StatusCode() int
}

type (
	// ValidationError: некорректный или отсутствующий ввод (например, пустое имя).
	ValidationError struct{ Message string }

	// NotFoundError: ссылка на несуществующую сущность.
	NotFoundError struct{ Message string }

	// ConflictError: нарушение уникальности имени.
	ConflictError struct {
		Message  string
		Resource string
	}

	// IntegrityError описывает структурное нарушение: цикл при перемещении папки,
	// удаление непустой папки, битая цепочка родителей.
	IntegrityError struct{ Message string }
)

func (e *ValidationError) Error() string { return e.Message }
func (e *NotFoundError) Error() string   { return e.Message }
func (e *ConflictError) Error() string   { return e.Message }
func (e *IntegrityError) Error() string  { return e.Message }

func (e *ValidationError) StatusCode() int { return http.StatusBadRequest }
func (e *NotFoundError) StatusCode() int   { return http.StatusNotFound }
func (e *ConflictError) StatusCode() int   { return http.StatusConflict }
func (e *IntegrityError) StatusCode() int  { return http.StatusBadRequest }

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }
func (e *NotFoundError) Is(target error) bool   { return target == ErrNotFound }
func (e *ConflictError) Is(target error) bool   { return target == ErrConflict }
func (e *IntegrityError) Is(target error) bool  { return target == ErrIntegrity }

// Validation создаёт ValidationError с форматированным сообщением.
func Validation(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// NotFound создаёт NotFoundError с форматированным сообщением.
func NotFound(format string, args ...any) error {
	return &NotFoundError{Message: fmt.Sprintf(format, args...)}
}

// Conflict создаёт ConflictError для указанного типа ресурса.
func Conflict(resource, format string, args ...any) error {
	return &ConflictError{Resource: resource, Message: fmt.Sprintf(format, args...)}
}

// Integrity создаёт IntegrityError с форматированным сообщением.
func Integrity(format string, args ...any) error {
	return &IntegrityError{Message: fmt.Sprintf(format, args...)}
}

// Status возвращает HTTP-статус для ошибки. Для неизвестных ошибок: 500.
func Status(err error) int {
	var he HTTPError
	if errors.As(err, &he) {
		return he.StatusCode()
	}
	return http.StatusInternalServerError
}
