package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"wealth-tracker/auth"
	"wealth-tracker/cache"
	"wealth-tracker/config"
	"wealth-tracker/database"
	"wealth-tracker/handlers"
	"wealth-tracker/logger"
	"wealth-tracker/middleware"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log := logger.New("")
		log.Fatal().Err(err).Msg("load config")
	}
	log := logger.New(cfg.LogLevel)
	ctx := logger.WithContext(context.Background(), log)

	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("init database")
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal().Err(err).Msg("get database instance")
	}
	defer sqlDB.Close()

	rdb, err := config.InitRedis(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("init redis")
	}
	defer rdb.Close()

	store := database.New(db)
	if err := store.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("migrate")
	}

	prices := cache.NewPriceCache(rdb, cfg.PriceCacheTTL)
	store.SetPriceInvalidator(prices)

	issuer := auth.NewTokenIssuer(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	h := handlers.New(store, prices, auth.NewService(db, rdb, issuer))

	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger(log))
	h.Register(router)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}
	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("serve")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown")
	}
}
