package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"DocShelf/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cookiesFor(t *testing.T, role model.Role, secret string) []*http.Cookie {
	t.Helper()
	rr := httptest.NewRecorder()
	require.NoError(t, SetLoginCookie(rr, role, secret))
	return rr.Result().Cookies()
}

// Тест: SetLoginCookie + WithAuth кладут роль в контекст
func TestWithAuth_ValidCookieSetsRole(t *testing.T) {
	const secret = "test-secret"

	var got model.Role
	h := WithAuth(secret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		role, ok := GetRoleFromContext(r.Context())
		if !ok {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		got = role
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range cookiesFor(t, model.RoleAdmin, secret) {
		assert.Equal(t, CookieName, c.Name)
		assert.True(t, c.HttpOnly)
		req.AddCookie(c)
	}

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, model.RoleAdmin, got)
}

// Тест: без cookie роль не устанавливается
func TestWithAuth_NoCookieLeavesAnonymous(t *testing.T) {
	h := WithAuth("any-secret")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := GetRoleFromContext(r.Context()); ok {
			t.Fatalf("role must not be set without cookie")
		}
		w.WriteHeader(http.StatusOK)
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
}

// Тест: токен подписан другим секретом или cookie подделана вручную
func TestWithAuth_InvalidToken(t *testing.T) {
	h := WithAuth("secret-B")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := GetRoleFromContext(r.Context()); ok {
			t.Fatalf("role must not be set with invalid token")
		}
		w.WriteHeader(http.StatusOK)
	}))

	for _, cookies := range [][]*http.Cookie{
		cookiesFor(t, model.RoleAdmin, "secret-A"),
		{{Name: CookieName, Value: "admin"}},
	} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		for _, c := range cookies {
			req.AddCookie(c)
		}
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusOK, rr.Code)
	}
}

func TestSetLoginCookie_UnknownRole(t *testing.T) {
	assert.Error(t, SetLoginCookie(httptest.NewRecorder(), model.Role("root"), "s"))
}

func TestClearLoginCookie(t *testing.T) {
	rr := httptest.NewRecorder()
	ClearLoginCookie(rr)
	cookies := rr.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, CookieName, cookies[0].Name)
	assert.Less(t, cookies[0].MaxAge, 0)
}

func TestRequireRole(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) })
	adminOnly := RequireRole(model.RoleAdmin)(ok)
	anyone := RequireRole(model.RoleAdmin, model.RoleUser)(ok)

	cases := []struct {
		name string
		h    http.Handler
		role model.Role
		want int
	}{
		{"anonymous", adminOnly, "", http.StatusUnauthorized},
		{"user on admin route", adminOnly, model.RoleUser, http.StatusForbidden},
		{"admin on admin route", adminOnly, model.RoleAdmin, http.StatusNoContent},
		{"user on shared route", anyone, model.RoleUser, http.StatusNoContent},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.role != "" {
				req = req.WithContext(WithRole(req.Context(), tc.role))
			}
			rr := httptest.NewRecorder()
			tc.h.ServeHTTP(rr, req)
			assert.Equal(t, tc.want, rr.Code)
			if tc.want >= 400 {
				assert.Contains(t, rr.Body.String(), `"error"`)
			}
		})
	}
}
