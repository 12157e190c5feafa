package main

import (
	"catalog/config"
	"catalog/handlers"
	"catalog/jwt"
	"catalog/middleware"
	"catalog/routers"
	"catalog/store"
	"catalog/view"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("無法讀取設定檔: " + err.Error())
	}

	log := config.NewLogger(cfg.Log)
	gin.SetMode(cfg.Server.Mode)

	db, err := config.SetupMySQLConnection(cfg.Database, log)
	if err != nil {
		log.WithError(err).Fatal("無法連接到資料庫")
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.WithError(err).Fatal("無法取得資料庫連線")
	}
	defer func() {
		_ = sqlDB.Close()
	}()

	rdb := config.SetupRedisConnection(cfg.Redis)
	defer rdb.Close()

	verifier, err := jwt.NewVerifier(cfg.Auth.PublicKeyPath)
	if err != nil {
		log.WithError(err).Fatal("無法讀取公鑰")
	}

	renderer, err := view.New(cfg.View.Mode)
	if err != nil {
		log.WithError(err).Fatal("無法建立view")
	}

	products := store.NewGormProductStore(db, log)
	users := store.NewGormUserStore(db)
	revocations := store.NewRedisRevocationStore(rdb)
	gate := middleware.NewAuthorizationGate(users, log, cfg.AllowedStatuses()...)

	router, err := routers.SetupRouters(routers.Dependencies{
		Products:      handlers.NewProductHandler(products, gate, renderer, log),
		Sessions:      handlers.NewSessionHandler(revocations, renderer, log),
		Health:        handlers.HealthHandler(sqlDB, log),
		View:          renderer,
		Verifier:      verifier,
		Revocations:   revocations,
		SessionSecret: cfg.Auth.SessionSecret,
		Log:           log,
	})
	if err != nil {
		log.WithError(err).Fatal("無法建立路由")
	}

	log.WithField("addr", cfg.Server.Addr).Info("服務啟動")
	if err := router.Run(cfg.Server.Addr); err != nil {
		log.WithError(err).Error("服務停止")
	}
}
