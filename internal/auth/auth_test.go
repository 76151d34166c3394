package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gdg-garage/event-attendance-api/internal/config"
	"github.com/gdg-garage/event-attendance-api/internal/database/dbtest"
	"github.com/gdg-garage/event-attendance-api/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func newHandler(t *testing.T) (*AuthHandler, models.User) {
	t.Helper()
	db := dbtest.New(t)

	user := models.User{
		DiscordID: "123456",
		Username:  "testuser",
		Email:     "test@example.com",
		Avatar:    "avatar_url",
	}
	require.NoError(t, db.Create(&user).Error)

	cfg := &config.Config{JWTSecret: "test-secret", SuperuserDiscordIDs: []string{"42"}}
	return NewAuthHandler(cfg, db), user
}

func TestHandleMe(t *testing.T) {
	handler, user := newHandler(t)

	t.Run("Authenticated", func(t *testing.T) {
		token, err := handler.GenerateToken(user.ID)
		require.NoError(t, err)

		resp, err := handler.HandleMe(context.Background(), &AuthInput{Cookie: "theme=dark; auth_token=" + token})
		require.NoError(t, err)
		assert.Equal(t, user.Username, resp.Body.Username)
		assert.Equal(t, user.Email, resp.Body.Email)
		assert.False(t, resp.Body.IsSuperuser)
	})

	t.Run("Unauthenticated", func(t *testing.T) {
		_, err := handler.HandleMe(context.Background(), &AuthInput{})
		assert.Error(t, err)
	})
}

func TestAuthorize(t *testing.T) {
	handler, user := newHandler(t)
	ctx := context.Background()
	token, err := handler.GenerateToken(user.ID)
	require.NoError(t, err)

	t.Run("Bearer", func(t *testing.T) {
		id, err := handler.Authorize(ctx, AuthInput{Authorization: "Bearer " + token})
		require.NoError(t, err)
		assert.Equal(t, user.ID, id)
	})

	t.Run("WrongSecret", func(t *testing.T) {
		forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"user_id": user.ID,
			"exp":     time.Now().Add(time.Hour).Unix(),
		}).SignedString([]byte("other-secret"))
		require.NoError(t, err)

		_, err = handler.Authorize(ctx, AuthInput{Authorization: "Bearer " + forged})
		assert.ErrorIs(t, err, ErrUnauthenticated)
	})

	t.Run("ExpiredToken", func(t *testing.T) {
		stale, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"user_id": user.ID,
			"exp":     time.Now().Add(-time.Minute).Unix(),
		}).SignedString([]byte("test-secret"))
		require.NoError(t, err)

		_, err = handler.Authorize(ctx, AuthInput{Cookie: "auth_token=" + stale})
		assert.ErrorIs(t, err, ErrUnauthenticated)
	})

	t.Run("APIKey", func(t *testing.T) {
		key := models.APIKey{UserID: user.ID, Key: "kiosk-key", Name: "desk 1"}
		require.NoError(t, handler.db.Create(&key).Error)

		id, err := handler.Authorize(ctx, AuthInput{APIKey: "kiosk-key"})
		require.NoError(t, err)
		assert.Equal(t, user.ID, id)

		require.NoError(t, handler.db.First(&key, key.ID).Error)
		assert.NotNil(t, key.LastUsedAt)
	})

	t.Run("ExpiredAPIKey", func(t *testing.T) {
		past := time.Now().Add(-time.Hour)
		key := models.APIKey{UserID: user.ID, Key: "old-key", ExpiresAt: &past}
		require.NoError(t, handler.db.Create(&key).Error)

		_, err := handler.Authorize(ctx, AuthInput{APIKey: "old-key"})
		assert.ErrorIs(t, err, ErrAPIKeyExpired)
	})

	t.Run("UnknownAPIKey", func(t *testing.T) {
		_, err := handler.Authorize(ctx, AuthInput{APIKey: "nope", Authorization: "Bearer " + token})
		assert.ErrorIs(t, err, ErrUnauthenticated, "an API key is never combined with other credentials")
	})

	t.Run("OtherCookiesOnly", func(t *testing.T) {
		_, err := handler.Authorize(ctx, AuthInput{Cookie: "theme=dark"})
		assert.ErrorIs(t, err, ErrUnauthenticated)
	})
}

func TestHandleCallback(t *testing.T) {
	handler, _ := newHandler(t)

	discord := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/token":
			json.NewEncoder(w).Encode(map[string]any{"access_token": "discord-token", "token_type": "Bearer"})
		case "/users/@me":
			assert.Equal(t, "Bearer discord-token", r.Header.Get("Authorization"))
			json.NewEncoder(w).Encode(map[string]string{"id": "42", "username": "organiser", "email": "org@example.com"})
		default:
			http.NotFound(w, r)
		}
	}))
	defer discord.Close()

	handler.oauthConfig.Endpoint = oauth2.Endpoint{TokenURL: discord.URL + "/token", AuthStyle: oauth2.AuthStyleInParams}
	handler.userAPI = discord.URL + "/users/@me"

	t.Run("MissingCode", func(t *testing.T) {
		rr := httptest.NewRecorder()
		handler.HandleCallback(rr, httptest.NewRequest(http.MethodGet, "/auth/discord/callback", nil))
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("CreatesSuperuser", func(t *testing.T) {
		rr := httptest.NewRecorder()
		handler.HandleCallback(rr, httptest.NewRequest(http.MethodGet, "/auth/discord/callback?code=abc", nil))
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

		var user models.User
		require.NoError(t, handler.db.Where("discord_id = ?", "42").First(&user).Error)
		assert.Equal(t, "organiser", user.Username)
		assert.True(t, user.IsSuperuser)

		var session *http.Cookie
		for _, c := range rr.Result().Cookies() {
			if c.Name == CookieName {
				session = c
			}
		}
		require.NotNil(t, session)
		id, _, err := handler.ParseToken(session.Value)
		require.NoError(t, err)
		assert.Equal(t, user.ID, id)
	})
}

func TestHandleLogin(t *testing.T) {
	handler, _ := newHandler(t)

	rr := httptest.NewRecorder()
	handler.HandleLogin(rr, httptest.NewRequest(http.MethodGet, "/auth/discord/login", nil))
	assert.Equal(t, http.StatusTemporaryRedirect, rr.Code)
	assert.Contains(t, rr.Header().Get("Location"), DiscordAuthorizeEndpoint)
}
