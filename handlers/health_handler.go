package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Pinger 由*sql.DB實作
type Pinger interface {
	PingContext(ctx context.Context) error
}

// 檢查資料庫連線
func HealthHandler(db Pinger, log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			log.WithError(err).Error("資料庫連線異常")
			c.JSON(http.StatusServiceUnavailable, gin.H{"ok": false})
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}
