package handlers

import (
	"errors"
	"net/http"

	"DocShelf/internal/config"
	"DocShelf/internal/middleware"
	"DocShelf/internal/model"
	"DocShelf/internal/service"

	"go.uber.org/zap"
)

// AuthHandler выдаёт и снимает сессии.
type AuthHandler struct {
	AuthService *service.AuthService
	Logger      *zap.SugaredLogger
	Config      *config.Config
}

func NewAuthHandler(authService *service.AuthService, logger *zap.SugaredLogger, cfg *config.Config) *AuthHandler {
	return &AuthHandler{AuthService: authService, Logger: logger, Config: cfg}
}

type adminLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) startSession(w http.ResponseWriter, r *http.Request, role model.Role) {
	if err := middleware.SetLoginCookie(w, role, h.Config.AuthSecret); err != nil {
		writeError(w, h.Logger, r, err)
		return
	}
	h.Logger.Infow("session started", "role", role)
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "role": role})
}

// AdminLogin проверяет учётные данные администратора.
func (h *AuthHandler) AdminLogin(w http.ResponseWriter, r *http.Request) {
	var req adminLoginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.Logger, r, err)
		return
	}
	role, err := h.AuthService.AdminLogin(req.Email, req.Password)
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		h.Logger.Warnw("admin login rejected", "email", req.Email)
		writeMessage(w, http.StatusUnauthorized, "invalid credentials")
		return
	case errors.Is(err, service.ErrAdminNotConfigured):
		h.Logger.Errorw("admin login attempted but credentials are not configured")
		writeMessage(w, http.StatusInternalServerError, "admin credentials not configured")
		return
	case err != nil:
		writeError(w, h.Logger, r, err)
		return
	}
	h.startSession(w, r, role)
}

// UserLogin открывает сессию с ограниченной ролью.
func (h *AuthHandler) UserLogin(w http.ResponseWriter, r *http.Request) {
	h.startSession(w, r, h.AuthService.UserLogin())
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	middleware.ClearLoginCookie(w)
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// Status возвращает роль текущей сессии.
func (h *AuthHandler) Status(w http.ResponseWriter, r *http.Request) {
	role, ok := middleware.GetRoleFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "not authenticated")
		return
	}
	writeJSON(w, http.StatusOK, map[string]model.Role{"role": role})
}
