/*
 * @Author: NEFU AB-IN
 * @Date: 2026-10-14 15:30:47
 * @FilePath: \dashboard-catalog\backend\internal\app\app.go
 * @LastEditTime: 2026-10-14 15:30:47
 */
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"dashboard-catalog/backend/internal/config"
	"dashboard-catalog/backend/internal/infra/client"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Resources 持有进程级的外部连接，启动时创建一次，退出时统一释放。
type Resources struct {
	Config config.Config
	DB     *gorm.DB
	SQL    *sql.DB
	Redis  *redis.Client
}

// InitResources 打开数据库连接池，配置了 REDIS_ENDPOINT 时同时连接 Redis。
func InitResources(ctx context.Context, cfg config.Config, logger *zap.SugaredLogger) (*Resources, error) {
	dbCfg, err := DatabaseConfigFrom(cfg)
	if err != nil {
		return nil, err
	}

	gormDB, sqlDB, err := client.OpenDatabase(dbCfg)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	logger.Infow("database connected", "driver", dbCfg.Driver, "host", dbCfg.MySQL.Host, "database", dbCfg.MySQL.Database, "sqlite_path", dbCfg.SQLitePath)

	resources := &Resources{Config: cfg, DB: gormDB, SQL: sqlDB}

	if cfg.Redis.Endpoint != "" {
		opts, err := client.NewRedisOptions(cfg.Redis.Endpoint, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			_ = resources.Close()
			return nil, err
		}
		rdb, err := client.NewRedisClient(ctx, opts)
		if err != nil {
			_ = resources.Close()
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		resources.Redis = rdb
		logger.Infow("redis connected", "addr", rdb.Options().Addr)
	}

	return resources, nil
}

// DatabaseConfigFrom 优先使用 DATABASE_URL，未配置时落到本地 SQLite 文件。
func DatabaseConfigFrom(cfg config.Config) (client.DatabaseConfig, error) {
	var (
		dbCfg client.DatabaseConfig
		err   error
	)
	if cfg.DatabaseURL != "" {
		dbCfg, err = client.ParseDatabaseURL(cfg.DatabaseURL)
		if err != nil {
			return client.DatabaseConfig{}, err
		}
	} else {
		dbCfg = client.DatabaseConfig{Driver: client.DriverSQLite, SQLitePath: cfg.SQLitePath}
	}

	dbCfg.Pool = client.PoolOptions{
		ConnMaxLifetime: cfg.DB.ConnMaxLifetime,
		MaxOpenConns:    cfg.DB.MaxOpenConns,
		MaxIdleConns:    cfg.DB.MaxIdleConns,
	}
	return dbCfg, nil
}

// Close 依次关闭 Redis 与数据库，返回合并后的错误。
func (r *Resources) Close() error {
	if r == nil {
		return nil
	}
	var errs []error
	if r.Redis != nil {
		if err := r.Redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close redis: %w", err))
		}
	}
	if r.SQL != nil {
		if err := r.SQL.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close database: %w", err))
		}
	}
	return errors.Join(errs...)
}
