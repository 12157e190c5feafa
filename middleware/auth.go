package middleware

import (
	"context"
	"strings"

	"catalog/models"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
)

const (
	IdentityKey = "IdentityToken"
	TokenKey    = "Token"
	ClaimsKey   = "TokenClaims"

	SessionUserIDKey = "userId"
)

type TokenVerifier interface {
	Verify(tokenString string) (jwt.MapClaims, error)
}

type RevocationChecker interface {
	IsRevoked(ctx context.Context, token string) (bool, error)
}

// AuthMiddleware 解析請求者身分，不中止請求；無法辨識時視為匿名
func AuthMiddleware(verifier TokenVerifier, revocations RevocationChecker, log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))

		if token != "" {
			claims, err := verifier.Verify(token)
			if err != nil {
				log.WithError(err).Warn("無法驗證Token")
				c.Next()
				return
			}

			if revocations != nil {
				revoked, err := revocations.IsRevoked(c.Request.Context(), token)
				if err != nil {
					log.WithError(err).Error("無法檢查Token是否已登出")
					c.Next()
					return
				}
				if revoked {
					log.Info("Token已登出")
					c.Next()
					return
				}
			}

			c.Set(TokenKey, token)
			c.Set(ClaimsKey, claims)
			c.Set(IdentityKey, models.IdentityToken(claims))
			c.Next()
			return
		}

		//沒有Bearer Token時改用session
		sess := sessions.Default(c)
		if userID := sess.Get(SessionUserIDKey); userID != nil {
			c.Set(IdentityKey, models.IdentityToken{models.UserIDClaim: userID})
		}
		c.Next()
	}
}

// GetIdentity 取得請求者身分，匿名時回傳空的token
func GetIdentity(c *gin.Context) models.IdentityToken {
	if v, exists := c.Get(IdentityKey); exists {
		if token, ok := v.(models.IdentityToken); ok {
			return token
		}
	}
	return models.IdentityToken{}
}
