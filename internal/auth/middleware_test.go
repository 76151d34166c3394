package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gdg-garage/event-attendance-api/internal/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionMiddleware_SlidingSession(t *testing.T) {
	cfg := &config.Config{JWTSecret: "test-secret"}
	handler := NewAuthHandler(cfg, nil)

	serve := func(t *testing.T, cookie *http.Cookie) *httptest.ResponseRecorder {
		t.Helper()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if cookie != nil {
			req.AddCookie(cookie)
		}
		rr := httptest.NewRecorder()
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})
		handler.SessionMiddleware(next).ServeHTTP(rr, req)
		return rr
	}

	tokenExpiringIn := func(t *testing.T, d time.Duration) string {
		t.Helper()
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"user_id": uint(1),
			"exp":     time.Now().Add(d).Unix(),
		}).SignedString([]byte(cfg.JWTSecret))
		require.NoError(t, err)
		return token
	}

	sessionCookie := func(rr *httptest.ResponseRecorder) *http.Cookie {
		for _, c := range rr.Result().Cookies() {
			if c.Name == CookieName {
				return c
			}
		}
		return nil
	}

	t.Run("TokenRenewed", func(t *testing.T) {
		// 11 hours left is below TokenDuration/2.
		old := tokenExpiringIn(t, 11*time.Hour)
		rr := serve(t, &http.Cookie{Name: CookieName, Value: old})

		assert.Equal(t, http.StatusOK, rr.Code)
		renewed := sessionCookie(rr)
		require.NotNil(t, renewed)
		assert.NotEqual(t, old, renewed.Value)
	})

	t.Run("TokenNotRenewed", func(t *testing.T) {
		rr := serve(t, &http.Cookie{Name: CookieName, Value: tokenExpiringIn(t, 13*time.Hour)})

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Nil(t, sessionCookie(rr))
	})

	t.Run("AnonymousPassesThrough", func(t *testing.T) {
		rr := serve(t, nil)
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Nil(t, sessionCookie(rr))
	})

	t.Run("InvalidTokenPassesThrough", func(t *testing.T) {
		rr := serve(t, &http.Cookie{Name: CookieName, Value: "garbage"})
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Nil(t, sessionCookie(rr))
	})
}
