package service

import (
	"errors"
	"regexp"
	"strings"

	"DocShelf/internal/apperr"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// maxNameLength: предел длины имени папки, файла или метки.
const maxNameLength = 255

// plainName запрещает разделители пути: имя файла участвует в URL выдачи.
var plainName = regexp.MustCompile(`^[^/\\]+$`)

// nameRules: общие правила для имён сущностей каталога.
func nameRules() []validation.Rule {
	return []validation.Rule{
		validation.Required.Error("name is required"),
		validation.Length(1, maxNameLength),
		validation.Match(plainName).Error("name must not contain path separators"),
	}
}

// validateName проверяет одиночное имя.
func validateName(name string) error {
	return asValidation(validation.Validate(name, nameRules()...))
}

// asValidation переводит ошибки ozzo-validation в доменную ValidationError.
func asValidation(err error) error {
	if err == nil {
		return nil
	}
	var ie validation.InternalError
	if errors.As(err, &ie) {
		return err
	}
	return apperr.Validation("%s", err.Error())
}

// normalizeID превращает пустую строку в nil: "" и отсутствие id равнозначны.
func normalizeID(id *string) *string {
	if id == nil {
		return nil
	}
	v := strings.TrimSpace(*id)
	if v == "" {
		return nil
	}
	return &v
}
