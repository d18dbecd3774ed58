/*
 * @Author: NEFU AB-IN
 * @Date: 2026-10-14 09:05:12
 * @FilePath: \dashboard-catalog\backend\internal\config\config.go
 * @LastEditTime: 2026-10-15 11:02:18
 */
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"dashboard-catalog/backend/internal/domain/dashboard"

	"github.com/go-playground/validator/v10"
)

const (
	defaultPort            = "5000"
	defaultFrontendOrigin  = "*"
	defaultSQLitePath      = "data/dashboards.db"
	defaultConnMaxLifetime = 280 * time.Second
	defaultMaxOpenConns    = 25
	defaultMaxIdleConns    = 10
	defaultRateLimitWindow = time.Minute
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("origins", func(fl validator.FieldLevel) bool {
		return validOrigins(fl.Field().String())
	})
	return v
}

// Config 汇总服务运行所需的全部配置，启动时读取一次，之后只读。
type Config struct {
	Port           string            `validate:"required,numeric"`
	FrontendOrigin string            `validate:"required,origins"`
	Variant        dashboard.Variant `validate:"oneof=standard extended"`
	DatabaseURL    string
	SQLitePath     string `validate:"required_without=DatabaseURL"`
	DB             PoolConfig
	Redis          RedisConfig
	RateLimit      RateLimitConfig
}

// PoolConfig 控制数据库连接池。
type PoolConfig struct {
	ConnMaxLifetime time.Duration `validate:"gt=0"`
	MaxOpenConns    int           `validate:"gte=1"`
	MaxIdleConns    int           `validate:"gte=0"`
}

// RedisConfig 为空 Endpoint 时不连接 Redis。
type RedisConfig struct {
	Endpoint string
	Password string
	DB       int `validate:"gte=0"`
}

// RateLimitConfig 描述按 IP 的固定窗口限流，PerWindow 为 0 表示关闭。
type RateLimitConfig struct {
	PerWindow int           `validate:"gte=0"`
	Window    time.Duration `validate:"gt=0"`
}

// Load 读取 env 文件与环境变量并校验。
func Load() (Config, error) {
	LoadEnvFiles()

	variant, err := dashboard.ParseVariant(os.Getenv("SCHEMA_VARIANT"))
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Port:           envOrDefault("PORT", defaultPort),
		FrontendOrigin: envOrDefault("FRONTEND_ORIGIN", defaultFrontendOrigin),
		Variant:        variant,
		DatabaseURL:    strings.TrimSpace(os.Getenv("DATABASE_URL")),
		SQLitePath:     envOrDefault("SQLITE_PATH", defaultSQLitePath),
		DB: PoolConfig{
			ConnMaxLifetime: defaultConnMaxLifetime,
			MaxOpenConns:    defaultMaxOpenConns,
			MaxIdleConns:    defaultMaxIdleConns,
		},
		Redis: RedisConfig{
			Endpoint: strings.TrimSpace(os.Getenv("REDIS_ENDPOINT")),
			Password: os.Getenv("REDIS_PASSWORD"),
		},
		RateLimit: RateLimitConfig{
			Window: defaultRateLimitWindow,
		},
	}

	var parseErr error
	setErr := func(err error) {
		if parseErr == nil {
			parseErr = err
		}
	}

	if v, err := durationEnv("DB_CONN_MAX_LIFETIME"); err != nil {
		setErr(err)
	} else if v > 0 {
		cfg.DB.ConnMaxLifetime = v
	}
	if v, ok, err := intEnv("DB_MAX_OPEN_CONNS"); err != nil {
		setErr(err)
	} else if ok {
		cfg.DB.MaxOpenConns = v
	}
	if v, ok, err := intEnv("DB_MAX_IDLE_CONNS"); err != nil {
		setErr(err)
	} else if ok {
		cfg.DB.MaxIdleConns = v
	}
	if v, ok, err := intEnv("REDIS_DB"); err != nil {
		setErr(err)
	} else if ok {
		cfg.Redis.DB = v
	}
	if v, ok, err := intEnv("RATE_LIMIT_PER_MINUTE"); err != nil {
		setErr(err)
	} else if ok {
		cfg.RateLimit.PerWindow = v
	}
	if v, err := durationEnv("RATE_LIMIT_WINDOW"); err != nil {
		setErr(err)
	} else if v > 0 {
		cfg.RateLimit.Window = v
	}

	if parseErr != nil {
		return Config{}, parseErr
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate 校验结构体 tag 约束。
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Addr 返回 HTTP 监听地址。
func (c Config) Addr() string {
	return ":" + c.Port
}

// ParseOrigins 解析 FRONTEND_ORIGIN：出现 "*" 时放行所有来源，否则返回逗号分隔的白名单（去掉末尾斜杠）。
func ParseOrigins(raw string) (allowAll bool, origins []string) {
	for _, item := range strings.Split(raw, ",") {
		trimmed := strings.TrimRight(strings.TrimSpace(item), "/")
		if trimmed == "" {
			continue
		}
		if trimmed == "*" {
			return true, nil
		}
		origins = append(origins, trimmed)
	}
	return false, origins
}

// validOrigins 要求白名单非空且每一项都带 http:// 或 https://。
func validOrigins(raw string) bool {
	allowAll, origins := ParseOrigins(raw)
	if allowAll {
		return true
	}
	if len(origins) == 0 {
		return false
	}
	for _, origin := range origins {
		if !strings.HasPrefix(origin, "http://") && !strings.HasPrefix(origin, "https://") {
			return false
		}
	}
	return true
}

func envOrDefault(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func intEnv(key string) (int, bool, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return 0, false, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, true, nil
}

// durationEnv 支持 Go duration 字符串，纯数字按秒处理。
func durationEnv(key string) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return 0, nil
	}
	if secs, err := strconv.Atoi(raw); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
