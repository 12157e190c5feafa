package middleware

import (
	"context"

	"catalog/models"
	"catalog/store"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// AuthorizationGate 決定請求者能否新增、修改、刪除商品。
// 只有userStatus在允許清單內才放行，未知的身分一律拒絕。
type AuthorizationGate struct {
	users   store.UserStore
	allowed map[models.UserStatus]struct{}
	log     *logrus.Logger
}

// NewAuthorizationGate allowed為空時只允許管理員
func NewAuthorizationGate(users store.UserStore, log *logrus.Logger, allowed ...models.UserStatus) *AuthorizationGate {
	if len(allowed) == 0 {
		allowed = []models.UserStatus{models.StatusAdmin}
	}
	set := make(map[models.UserStatus]struct{}, len(allowed))
	for _, status := range allowed {
		set[status] = struct{}{}
	}
	return &AuthorizationGate{users: users, allowed: set, log: log}
}

func (g *AuthorizationGate) Allow(ctx context.Context, token models.IdentityToken) bool {
	userID, ok := token.UserID()
	if !ok {
		return false
	}

	user, err := g.users.FindUserByID(ctx, userID)
	if err != nil {
		if !errors.Is(err, store.ErrUserNotFound) {
			g.log.WithError(err).WithField("userID", userID).Error("查詢使用者失敗")
		}
		return false
	}

	if _, ok := g.allowed[user.UserStatus]; !ok {
		g.log.WithFields(logrus.Fields{
			"userID": userID,
			"status": user.UserStatus.String(),
		}).Info("沒有權限")
		return false
	}
	return true
}
