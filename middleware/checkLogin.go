package middleware

import (
	"net/http"

	"catalog/view"

	"github.com/gin-gonic/gin"
)

// 檢查是否有登入，沒有則中止請求
func CheckLoginMiddleware(renderer view.Renderer) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := GetIdentity(c).UserID(); !ok {
			renderer.Render(c, view.Result{
				Status:   http.StatusUnauthorized,
				Template: "unauthorized_user",
				Data:     gin.H{"message": "Error: Unauthorized user"},
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
