package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"DocShelf/internal/model"

	"github.com/golang-jwt/jwt/v5"
)

// CookieName: cookie с подписанным токеном сессии.
const CookieName = "auth_token"

// tokenTTL: срок жизни сессии.
const tokenTTL = 365 * 24 * time.Hour

type ctxKey struct{}

type claims struct {
	Role model.Role `json:"role"`
	jwt.RegisteredClaims
}

// SetLoginCookie подписывает токен с ролью и ставит его в cookie.
func SetLoginCookie(w http.ResponseWriter, role model.Role, secret string) error {
	if !role.Valid() {
		return errors.New("unknown role")
	}
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
		},
	})
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    signed,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(tokenTTL.Seconds()),
	})
	return nil
}

// ClearLoginCookie удаляет cookie сессии.
func ClearLoginCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}

func parseRole(raw, secret string) (model.Role, bool) {
	var c claims
	token, err := jwt.ParseWithClaims(raw, &c, func(t *jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid || !c.Role.Valid() {
		return "", false
	}
	return c.Role, true
}

// WithAuth кладёт роль из валидной cookie в контекст запроса.
// Запрос без cookie или с невалидным токеном проходит дальше анонимным.
func WithAuth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if c, err := r.Cookie(CookieName); err == nil && c.Value != "" {
				if role, ok := parseRole(c.Value, secret); ok {
					r = r.WithContext(WithRole(r.Context(), role))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// WithRole возвращает контекст с ролью вызывающего.
func WithRole(ctx context.Context, role model.Role) context.Context {
	return context.WithValue(ctx, ctxKey{}, role)
}

// GetRoleFromContext возвращает роль вызывающего, если он аутентифицирован.
func GetRoleFromContext(ctx context.Context) (model.Role, bool) {
	role, ok := ctx.Value(ctxKey{}).(model.Role)
	return role, ok
}

// RequireRole пропускает только перечисленные роли: 401 без сессии, 403 при чужой роли.
func RequireRole(roles ...model.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, ok := GetRoleFromContext(r.Context())
			if !ok {
				writeJSONError(w, http.StatusUnauthorized, "not authenticated")
				return
			}
			for _, allowed := range roles {
				if role == allowed {
					next.ServeHTTP(w, r)
					return
				}
			}
			writeJSONError(w, http.StatusForbidden, "forbidden")
		})
	}
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
