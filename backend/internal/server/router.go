/*
 * @Author: NEFU AB-IN
 * @Date: 2026-10-14 13:15:26
 * @FilePath: \dashboard-catalog\backend\internal\server\router.go
 * @LastEditTime: 2026-10-14 18:55:19
 */
package server

import (
	"fmt"
	"strings"
	"time"

	"dashboard-catalog/backend/internal/config"
	"dashboard-catalog/backend/internal/handler"
	"dashboard-catalog/backend/internal/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RouterOptions 汇总构建路由所需的依赖。
type RouterOptions struct {
	DashboardHandler *handler.DashboardHandler
	RateLimiter      *middleware.RateLimitMiddleware
	// FrontendOrigin 为 "*" 时放行所有来源，否则按逗号分隔的白名单匹配。
	FrontendOrigin string
	DisableMetrics bool
}

// NewRouter 构建应用的 Gin Engine，汇总所有 REST 接口与公共中间件配置。
func NewRouter(opts RouterOptions) *gin.Engine {
	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		Formatter: gin.LogFormatter(func(params gin.LogFormatterParams) string {
			return fmt.Sprintf("%s - [%s] \"%s %s\" %d %s %s\n",
				params.ClientIP,
				params.TimeStamp.Format(time.RFC3339),
				params.Method,
				params.Path,
				params.StatusCode,
				params.Latency,
				params.Request.Header.Get(middleware.RequestIDHeader),
			)
		}),
		SkipPaths: []string{"/api/health"},
	}))

	if !opts.DisableMetrics {
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	// CORS 只作用于 /api/*，来源白名单在启动时确定。挂在 engine 上以便未注册的 OPTIONS 预检也能命中。
	r.Use(apiOnly(cors.New(corsConfig(opts.FrontendOrigin))))

	api := r.Group("/api")
	if opts.RateLimiter != nil {
		api.Use(opts.RateLimiter.Handle())
	}

	if h := opts.DashboardHandler; h != nil {
		api.GET("/health", h.Health)
		api.GET("/options", h.Options)

		dashboards := api.Group("/dashboards")
		dashboards.GET("", h.List)
		dashboards.POST("", h.Create)
		dashboards.PUT("/:id", h.Update)
	}

	return r
}

func apiOnly(next gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api/") {
			next(c)
			return
		}
		c.Next()
	}
}

func corsConfig(origin string) cors.Config {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", "Content-Type", middleware.RequestIDHeader},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}

	allowAll, origins := config.ParseOrigins(origin)
	if allowAll || len(origins) == 0 {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	return cfg
}
