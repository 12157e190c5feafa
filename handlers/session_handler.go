package handlers

import (
	"context"
	"net/http"
	"time"

	tokens "catalog/jwt"
	"catalog/middleware"
	"catalog/view"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
)

// 沒有exp的token保留在黑名單的時間
const revokeFallbackTTL = 24 * time.Hour

type Revoker interface {
	Revoke(ctx context.Context, token string, ttl time.Duration) error
}

type SessionHandler struct {
	revocations Revoker
	view        view.Renderer
	log         *logrus.Logger
	now         func() time.Time
}

func NewSessionHandler(revocations Revoker, renderer view.Renderer, logger *logrus.Logger) *SessionHandler {
	return &SessionHandler{
		revocations: revocations,
		view:        renderer,
		log:         logger,
		now:         time.Now,
	}
}

// 登出：將Bearer Token加入黑名單並清除session
func (h *SessionHandler) Logout(c *gin.Context) {
	if token := c.GetString(middleware.TokenKey); token != "" {
		ttl := revokeFallbackTTL
		if claims, ok := c.Get(middleware.ClaimsKey); ok {
			if mapClaims, ok := claims.(jwt.MapClaims); ok {
				if remaining, err := tokens.TimeToExpiry(mapClaims, h.now()); err == nil {
					ttl = remaining
				}
			}
		}

		if err := h.revocations.Revoke(c.Request.Context(), token, ttl); err != nil {
			h.log.WithError(err).Error("無法登出Token")
			h.view.Render(c, message(http.StatusInternalServerError, "operation_not_executed", "Could not log out"))
			return
		}
	}

	sess := sessions.Default(c)
	sess.Clear()
	if err := sess.Save(); err != nil {
		h.log.WithError(err).Warn("無法清除session")
	}

	h.view.Render(c, message(http.StatusOK, "logged_out", "Logged out"))
}
