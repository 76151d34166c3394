package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gdg-garage/event-attendance-api/internal/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrAPIKeyExpired   = errors.New("api key expired")
)

// AuthInput carries the credentials a staff request may present. Embed it in huma inputs.
type AuthInput struct {
	Cookie        string `header:"Cookie"`
	Authorization string `header:"Authorization"`
	APIKey        string `header:"X-API-KEY"`
}

// Authorize resolves the staff user behind a request: API key first, then bearer token, then cookie.
func (h *AuthHandler) Authorize(ctx context.Context, input AuthInput) (uint, error) {
	if input.APIKey != "" {
		return h.authorizeAPIKey(ctx, input.APIKey)
	}

	if bearer, ok := strings.CutPrefix(input.Authorization, "Bearer "); ok {
		userID, _, err := h.ParseToken(strings.TrimSpace(bearer))
		if err != nil {
			return 0, ErrUnauthenticated
		}
		return userID, nil
	}

	if input.Cookie != "" {
		cookies, err := http.ParseCookie(input.Cookie)
		if err != nil {
			return 0, ErrUnauthenticated
		}
		for _, c := range cookies {
			if c.Name != CookieName {
				continue
			}
			userID, _, err := h.ParseToken(c.Value)
			if err != nil {
				return 0, ErrUnauthenticated
			}
			return userID, nil
		}
	}

	return 0, ErrUnauthenticated
}

func (h *AuthHandler) authorizeAPIKey(ctx context.Context, key string) (uint, error) {
	var apiKey models.APIKey
	if err := h.db.WithContext(ctx).Where("key = ?", key).First(&apiKey).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrUnauthenticated
		}
		return 0, err
	}

	now := time.Now()
	if apiKey.Expired(now) {
		return 0, ErrAPIKeyExpired
	}

	if err := h.db.WithContext(ctx).Model(&apiKey).Update("last_used_at", now).Error; err != nil {
		zap.L().Warn("failed to record api key use", zap.Uint("api_key_id", apiKey.ID), zap.Error(err))
	}
	return apiKey.UserID, nil
}

// CurrentUser authorizes the request and loads the staff user.
func (h *AuthHandler) CurrentUser(ctx context.Context, input AuthInput) (models.User, error) {
	var user models.User
	userID, err := h.Authorize(ctx, input)
	if err != nil {
		return user, err
	}
	if err := h.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return user, ErrUnauthenticated
		}
		return user, err
	}
	return user, nil
}

// SessionMiddleware renews the session cookie once it is past half its lifetime.
// It never rejects a request; authorization happens per operation.
func (h *AuthHandler) SessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if cookie, err := r.Cookie(CookieName); err == nil {
			if userID, exp, err := h.ParseToken(cookie.Value); err == nil && time.Until(exp) < TokenDuration/2 {
				if token, err := h.GenerateToken(userID); err == nil {
					setSessionCookie(w, token)
				}
			}
		}
		next.ServeHTTP(w, r)
	})
}

type MeOutput struct {
	Body struct {
		ID          uint   `json:"id"`
		DiscordID   string `json:"discord_id"`
		Username    string `json:"username"`
		Email       string `json:"email"`
		Avatar      string `json:"avatar"`
		IsSuperuser bool   `json:"is_superuser"`
	}
}

func (h *AuthHandler) HandleMe(ctx context.Context, input *AuthInput) (*MeOutput, error) {
	user, err := h.CurrentUser(ctx, *input)
	if err != nil {
		if errors.Is(err, ErrUnauthenticated) || errors.Is(err, ErrAPIKeyExpired) {
			return nil, huma.Error401Unauthorized("Unauthorized")
		}
		return nil, huma.Error500InternalServerError("Failed to load user")
	}

	resp := &MeOutput{}
	resp.Body.ID = user.ID
	resp.Body.DiscordID = user.DiscordID
	resp.Body.Username = user.Username
	resp.Body.Email = user.Email
	resp.Body.Avatar = user.Avatar
	resp.Body.IsSuperuser = user.IsSuperuser
	return resp, nil
}
