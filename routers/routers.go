package routers

import (
	"net/http"

	"catalog/handlers"
	"catalog/middleware"
	"catalog/view"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const sessionName = "catalog_session"

type Dependencies struct {
	Products      *handlers.ProductHandler
	Sessions      *handlers.SessionHandler
	Health        gin.HandlerFunc
	View          view.Renderer
	Verifier      middleware.TokenVerifier
	Revocations   middleware.RevocationChecker
	SessionSecret string
	Log           *logrus.Logger
}

func cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "Authorization, "+middleware.RequestIDHeader)
		c.Next()
	}
}

func SetupRouters(deps Dependencies) (*gin.Engine, error) {
	//建立Gin路由器
	router := gin.New()
	router.Use(middleware.RequestLogger(deps.Log), gin.Recovery(), cors())
	if err := router.SetTrustedProxies(nil); err != nil {
		return nil, err
	}

	router.OPTIONS("/*path", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	router.GET("/health", deps.Health)

	sessionStore := cookie.NewStore([]byte(deps.SessionSecret))
	sessionStore.Options(sessions.Options{Path: "/", HttpOnly: true, SameSite: http.SameSiteLaxMode})

	api := router.Group("/api/v1")
	api.Use(
		sessions.Sessions(sessionName, sessionStore),
		middleware.AuthMiddleware(deps.Verifier, deps.Revocations, deps.Log),
	)
	RegisterProductRoutes(api, deps.Products)

	////需要登入
	api.POST("/logout", middleware.CheckLoginMiddleware(deps.View), deps.Sessions.Logout)

	return router, nil
}

// RegisterProductRoutes 查詢無須權限，異動由handler檢查admin權限
func RegisterProductRoutes(group *gin.RouterGroup, h *handlers.ProductHandler) {
	//查詢商品列表
	group.GET("/products", h.GetAll)
	//依分類查詢商品
	group.GET("/products/category", h.GetByCategory)
	//新增商品
	group.POST("/products", h.Create)
	//修改商品
	group.PATCH("/products/:productId", h.Update)
	group.PUT("/products/:productId", h.Update)
	//刪除商品
	group.DELETE("/products/:productId", h.Delete)
}
