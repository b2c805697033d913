package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saulo-duarte/visionboard-lambda/internal/auth"
)

func TestOptionalAuth(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	auth.Init()

	var owner string
	h := auth.OptionalAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		owner = auth.OwnerFromContext(r.Context())
	}))

	t.Run("Anonymous", func(t *testing.T) {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, auth.AnonymousOwner, owner)
	})

	t.Run("BearerToken", func(t *testing.T) {
		token, err := auth.GenerateJWT(testUserID, testRole, time.Minute)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		h.ServeHTTP(httptest.NewRecorder(), req)
		assert.Equal(t, testUserID, owner)
	})

	t.Run("CookieToken", func(t *testing.T) {
		token, err := auth.GenerateJWT("cookie-user", testRole, time.Minute)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: "jwt", Value: token})
		h.ServeHTTP(httptest.NewRecorder(), req)
		assert.Equal(t, "cookie-user", owner)
	})

	t.Run("InvalidTokenFallsBackToAnonymous", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer garbage")
		h.ServeHTTP(httptest.NewRecorder(), req)
		assert.Equal(t, auth.AnonymousOwner, owner)
	})
}

func TestAuthMiddleware(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	auth.Init()

	h := auth.AuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := auth.GetUserClaimsFromContext(r.Context())
		require.NoError(t, err)
		w.Write([]byte(claims.UserID))
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	token, err := auth.GenerateJWT(testUserID, testRole, time.Minute)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, testUserID, rec.Body.String())
}

func TestLogoutClearsCookie(t *testing.T) {
	rec := httptest.NewRecorder()
	auth.NewHandler("", false).Logout(rec, httptest.NewRequest(http.MethodPost, "/auth/logout", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "jwt", cookies[0].Name)
	assert.Equal(t, -1, cookies[0].MaxAge)
}
