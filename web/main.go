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
	"go.uber.org/zap"

	"axiapac.com/portal/config"
	"axiapac.com/portal/core"
	"axiapac.com/portal/logging"
	"axiapac.com/portal/reports"
	reportshandler "axiapac.com/portal/web/handlers/reports"
	"axiapac.com/portal/web/middlewares"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logging.Must(cfg.Env)
	defer log.Sync()

	if err := run(cfg, log); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dsn, err := cfg.DatabaseDSN(ctx)
	if err != nil {
		return err
	}
	dm, err := core.New(cfg.DBDriver, dsn, cfg.DBMaxConnections, core.ParseLogLevel(cfg.DBLogLevel))
	if err != nil {
		return err
	}
	defer dm.Close()

	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	secret, err := cfg.Secret()
	if err != nil {
		return err
	}

	service := reports.NewService(core.NewSource(dm), reports.WithLogger(log), reports.WithLocation(loc))

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), middlewares.RequestLogger(log))

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	api := r.Group("/api")
	if secret != nil {
		api.Use(middlewares.Authentication(secret))
	} else {
		log.Warn("SIGNING_SECRET is not set, /api is not protected")
	}
	reportshandler.Register(api, service, log)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", zap.String("addr", cfg.HTTPAddr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
