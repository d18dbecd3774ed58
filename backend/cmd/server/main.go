/*
 * @Author: NEFU AB-IN
 * @Date: 2026-10-14 16:10:31
 * @FilePath: \dashboard-catalog\backend\cmd\server\main.go
 * @LastEditTime: 2026-10-15 12:05:40
 */
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dashboard-catalog/backend/internal/app"
	"dashboard-catalog/backend/internal/bootstrap"
	"dashboard-catalog/backend/internal/config"
	"dashboard-catalog/backend/internal/infra/logger"
	"dashboard-catalog/backend/internal/infra/metrics"

	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 10 * time.Second

func main() {
	os.Exit(run())
}

// run 返回进程退出码，所有 defer 都在 os.Exit 之前执行。
func run() int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config failed: %v\n", err)
		return 1
	}

	zapLogger, err := logger.Init(logger.OptionsFromEnv())
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger failed: %v\n", err)
		return 1
	}
	defer logger.Sync()
	sugar := zapLogger.Sugar()

	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}
	metrics.MustRegister()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	resources, err := app.InitResources(ctx, cfg, sugar)
	if err != nil {
		sugar.Errorw("init resources failed", "error", err)
		return 1
	}
	defer func() {
		if cerr := resources.Close(); cerr != nil {
			sugar.Warnw("close resources failed", "error", cerr)
		}
	}()

	application, err := bootstrap.BuildApplication(ctx, sugar, resources)
	if err != nil {
		sugar.Errorw("build application failed", "error", err)
		return 1
	}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           application.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		sugar.Infow("http server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	exitCode := 0
	select {
	case <-ctx.Done():
		sugar.Infow("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			sugar.Errorw("http server stopped", "error", err)
			exitCode = 1
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		sugar.Warnw("graceful shutdown failed", "error", err)
	}
	return exitCode
}
