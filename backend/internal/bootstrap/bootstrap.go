/*
 * @Author: NEFU AB-IN
 * @Date: 2026-10-14 15:52:13
 * @FilePath: \dashboard-catalog\backend\internal\bootstrap\bootstrap.go
 * @LastEditTime: 2026-10-14 19:02:36
 */
package bootstrap

import (
	"context"
	"fmt"
	"net/http"

	"dashboard-catalog/backend/internal/app"
	domain "dashboard-catalog/backend/internal/domain/dashboard"
	"dashboard-catalog/backend/internal/handler"
	"dashboard-catalog/backend/internal/infra/ratelimit"
	"dashboard-catalog/backend/internal/middleware"
	"dashboard-catalog/backend/internal/repository"
	"dashboard-catalog/backend/internal/server"
	dashboardsvc "dashboard-catalog/backend/internal/service/dashboard"

	"go.uber.org/zap"
)

// Application 汇总装配完成的服务组件。
type Application struct {
	Resources  *app.Resources
	Repository *repository.DashboardRepository
	Service    *dashboardsvc.Service
	Router     http.Handler
}

// BuildApplication 建表并装配 repository → service → handler → router。
func BuildApplication(ctx context.Context, logger *zap.SugaredLogger, resources *app.Resources) (*Application, error) {
	cfg := resources.Config

	schema, err := domain.SchemaFor(cfg.Variant)
	if err != nil {
		return nil, err
	}

	repo := repository.NewDashboardRepository(resources.DB)
	if err := repo.AutoMigrate(ctx); err != nil {
		return nil, fmt.Errorf("migrate dashboards: %w", err)
	}

	service := dashboardsvc.NewService(repo, schema)
	dashboardHandler := handler.NewDashboardHandler(service)

	router := server.NewRouter(server.RouterOptions{
		DashboardHandler: dashboardHandler,
		RateLimiter:      newRateLimiter(resources, logger),
		FrontendOrigin:   cfg.FrontendOrigin,
	})

	logger.Infow("application ready", "variant", schema.Variant, "origin", cfg.FrontendOrigin)
	return &Application{
		Resources:  resources,
		Repository: repo,
		Service:    service,
		Router:     router,
	}, nil
}

// newRateLimiter 未开启限流时返回 nil；有 Redis 时多实例共享计数，否则退化为内存计数。
func newRateLimiter(resources *app.Resources, logger *zap.SugaredLogger) *middleware.RateLimitMiddleware {
	cfg := resources.Config.RateLimit
	if cfg.PerWindow <= 0 {
		return nil
	}

	policy := ratelimit.Policy{Limit: cfg.PerWindow, Window: cfg.Window}
	var limiter ratelimit.Limiter
	if resources.Redis != nil {
		limiter = ratelimit.NewRedisLimiter(resources.Redis, "dashboards:ratelimit", policy)
	} else {
		limiter = ratelimit.NewMemoryLimiter(policy)
		logger.Infow("using in-memory rate limiter; counters are per instance")
	}
	return middleware.NewRateLimitMiddleware(limiter)
}
