package service

import (
	"crypto/subtle"
	"errors"
	"strings"

	"DocShelf/internal/model"

	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrInvalidCredentials: неверная почта или пароль администратора.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrAdminNotConfigured: учётные данные администратора не заданы.
	ErrAdminNotConfigured = errors.New("admin credentials not configured")
)

// AdminCredentials: учётные данные администратора из конфигурации.
// Если задан PasswordHash (bcrypt), Password игнорируется.
type AdminCredentials struct {
	Email        string
	Password     string
	PasswordHash string
}

// AuthService выдаёт роль по предъявленным данным. Саму сессию (cookie) ставит
// HTTP-слой.
type AuthService struct {
	admin AdminCredentials
}

func NewAuthService(admin AdminCredentials) *AuthService {
	return &AuthService{admin: admin}
}

// AdminLogin проверяет почту и пароль администратора.
func (s *AuthService) AdminLogin(email, password string) (model.Role, error) {
	if s.admin.Email == "" || (s.admin.Password == "" && s.admin.PasswordHash == "") {
		return "", ErrAdminNotConfigured
	}
	if !strings.EqualFold(strings.TrimSpace(email), s.admin.Email) {
		return "", ErrInvalidCredentials
	}
	if s.admin.PasswordHash != "" {
		if err := bcrypt.CompareHashAndPassword([]byte(s.admin.PasswordHash), []byte(password)); err != nil {
			return "", ErrInvalidCredentials
		}
		return model.RoleAdmin, nil
	}
	if subtle.ConstantTimeCompare([]byte(password), []byte(s.admin.Password)) != 1 {
		return "", ErrInvalidCredentials
	}
	return model.RoleAdmin, nil
}

// UserLogin выдаёт ограниченную роль пользователя без пароля.
func (s *AuthService) UserLogin() model.Role {
	return model.RoleUser
}
