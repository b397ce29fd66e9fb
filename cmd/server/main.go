package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"myflix-api/internal/config"
	apphttp "myflix-api/internal/http"
	"myflix-api/internal/logging"
	"myflix-api/internal/repository/backend"
	"myflix-api/internal/service"
)

func main() {
	bootLogger := logging.New("info", "text")

	cfg, err := config.Load()
	if err != nil {
		bootLogger.Fatalf("load config: %v", err)
	}
	logger := logging.New(cfg.Log.Level, cfg.Log.Format)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := backend.Open(ctx, cfg)
	if err != nil {
		logger.Fatalf("open %s store: %v", cfg.Database.Driver, err)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := store.Close(closeCtx); err != nil {
			logger.Warnf("close store: %v", err)
		}
	}()
	logger.WithField("driver", cfg.Database.Driver).Info("document store ready")

	movieService := service.NewMovieService(store.Movies, cfg.Cache.TTL)
	userService := service.NewUserService(store.Users, cfg.Auth.BcryptCost)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(apphttp.RequestLogger(logger), apphttp.Recovery(logger))
	handler := apphttp.NewHandler(movieService, userService, logger, apphttp.Options{
		Health:  store.Ping,
		Metrics: cfg.Server.Metrics,
	})
	handler.RegisterRoutes(router)

	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: router,
	}

	go func() {
		logger.Infof("listening on %s", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Errorf("http server: %v", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warnf("http shutdown: %v", err)
	}

	logger.Info("bye")
}
