/*
 * @Author: NEFU AB-IN
 * @Date: 2026-10-14 09:20:11
 * @FilePath: \dashboard-catalog\backend\internal\infra\client\database.go
 * @LastEditTime: 2026-10-15 10:40:12
 */
package client

import (
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/mattn/go-sqlite3"
	mysqlDriver "gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"
)

// SQLiteUnicodeLower 是注册到每个 SQLite 连接上的函数，按 Unicode 规则转小写；内置 LOWER 只处理 ASCII。
const SQLiteUnicodeLower = "unicode_lower"

const sqliteDriverName = "sqlite3_dashboards"

var registerSQLiteOnce sync.Once

const (
	defaultMySQLPort       = 3306
	defaultMySQLParams     = "charset=utf8mb4&parseTime=true&loc=UTC"
	defaultConnMaxLifetime = 280 * time.Second
	defaultMaxOpenConns    = 25
	defaultMaxIdleConns    = 10
)

// MySQLConfig 描述 MySQL 连接所需的字段，通常由 DATABASE_URL 解析得到。
type MySQLConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	Database string
	Params   string
}

// PoolOptions 控制连接池行为：空闲连接在 ConnMaxLifetime 后回收。
type PoolOptions struct {
	ConnMaxLifetime time.Duration
	MaxOpenConns    int
	MaxIdleConns    int
}

// DatabaseConfig 汇总打开数据库所需的全部信息。
type DatabaseConfig struct {
	Driver     string
	MySQL      MySQLConfig
	SQLitePath string
	Pool       PoolOptions
	LogLevel   gormlogger.LogLevel
}

// ParseDatabaseURL 解析 mysql://、mysql+pymysql://、sqlite:// 形式的连接串。
func ParseDatabaseURL(raw string) (DatabaseConfig, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return DatabaseConfig{}, fmt.Errorf("database url is empty")
	}

	if strings.HasPrefix(raw, "sqlite://") {
		path := strings.TrimPrefix(raw, "sqlite:///")
		if path == raw {
			path = strings.TrimPrefix(raw, "sqlite://")
		}
		if path == "" {
			return DatabaseConfig{}, fmt.Errorf("sqlite path is required")
		}
		return DatabaseConfig{Driver: DriverSQLite, SQLitePath: path}, nil
	}

	u, err := url.Parse(raw)
	if err != nil {
		return DatabaseConfig{}, fmt.Errorf("parse database url: %w", err)
	}

	scheme := strings.ToLower(u.Scheme)
	if scheme != "mysql" && !strings.HasPrefix(scheme, "mysql+") {
		return DatabaseConfig{}, fmt.Errorf("unsupported database scheme %q", u.Scheme)
	}

	cfg := MySQLConfig{
		Host:     u.Hostname(),
		Port:     defaultMySQLPort,
		Database: strings.TrimPrefix(u.Path, "/"),
		Params:   normaliseMySQLParams(u.Query()),
	}
	if u.User != nil {
		cfg.Username = u.User.Username()
		cfg.Password, _ = u.User.Password()
	}
	if portStr := u.Port(); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return DatabaseConfig{}, fmt.Errorf("invalid mysql port: %w", err)
		}
		cfg.Port = port
	}

	return DatabaseConfig{Driver: DriverMySQL, MySQL: cfg}, nil
}

// normaliseMySQLParams 保证 parseTime 开启，未指定参数时使用默认值。
func normaliseMySQLParams(query url.Values) string {
	if len(query) == 0 {
		return defaultMySQLParams
	}
	if query.Get("parseTime") == "" {
		query.Set("parseTime", "true")
	}
	return query.Encode()
}

func validateMySQLConfig(cfg MySQLConfig) error {
	if cfg.Host == "" {
		return fmt.Errorf("mysql host is required")
	}
	if cfg.Username == "" {
		return fmt.Errorf("mysql username is required")
	}
	if cfg.Database == "" {
		return fmt.Errorf("mysql database is required")
	}
	return nil
}

// BuildMySQLDSN 在通过校验后拼接 go-sql-driver 使用的 DSN。
func BuildMySQLDSN(cfg MySQLConfig) (string, error) {
	if err := validateMySQLConfig(cfg); err != nil {
		return "", err
	}

	params := cfg.Params
	if params == "" {
		params = defaultMySQLParams
	}
	port := cfg.Port
	if port == 0 {
		port = defaultMySQLPort
	}

	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?%s",
		cfg.Username,
		cfg.Password,
		cfg.Host,
		port,
		cfg.Database,
		params,
	), nil
}

// OpenDatabase 根据驱动创建 GORM 连接，配置连接池并 Ping 一次确认可用。
func OpenDatabase(cfg DatabaseConfig) (*gorm.DB, *sql.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case DriverMySQL:
		dsn, err := BuildMySQLDSN(cfg.MySQL)
		if err != nil {
			return nil, nil, err
		}
		dialector = mysqlDriver.Open(dsn)
	case DriverSQLite:
		if err := ensureDir(filepath.Dir(cfg.SQLitePath)); err != nil {
			return nil, nil, fmt.Errorf("create sqlite dir: %w", err)
		}
		registerSQLiteDriver()
		dialector = sqlite.New(sqlite.Config{DriverName: sqliteDriverName, DSN: cfg.SQLitePath})
	default:
		return nil, nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	gormDB, err := gorm.Open(dialector, NewGormConfig(cfg.LogLevel))
	if err != nil {
		return nil, nil, fmt.Errorf("open gorm %s: %w", cfg.Driver, err)
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, nil, fmt.Errorf("get sql db: %w", err)
	}

	applyPool(sqlDB, cfg.Pool)
	if cfg.Driver == DriverSQLite {
		// SQLite 只允许单写连接，避免 database is locked。
		sqlDB.SetMaxOpenConns(1)
	}

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, nil, fmt.Errorf("ping %s: %w", cfg.Driver, err)
	}

	return gormDB, sqlDB, nil
}

// OpenSQLite 打开 SQLite（包括 file::memory: 形式），用于本地模式与测试。
func OpenSQLite(dsn string) (*gorm.DB, error) {
	gormDB, _, err := OpenDatabase(DatabaseConfig{
		Driver:     DriverSQLite,
		SQLitePath: dsn,
		LogLevel:   gormlogger.Silent,
	})
	return gormDB, err
}

// NewGormConfig 统一 GORM 配置：时间戳使用 UTC，驱动错误翻译为 gorm 通用错误。
func NewGormConfig(level gormlogger.LogLevel) *gorm.Config {
	if level == 0 {
		level = gormlogger.Warn
	}
	return &gorm.Config{
		Logger:         gormlogger.Default.LogMode(level),
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}
}

func applyPool(db *sql.DB, opts PoolOptions) {
	if opts.ConnMaxLifetime <= 0 {
		opts.ConnMaxLifetime = defaultConnMaxLifetime
	}
	if opts.MaxOpenConns <= 0 {
		opts.MaxOpenConns = defaultMaxOpenConns
	}
	if opts.MaxIdleConns <= 0 {
		opts.MaxIdleConns = defaultMaxIdleConns
	}
	db.SetConnMaxLifetime(opts.ConnMaxLifetime)
	db.SetMaxOpenConns(opts.MaxOpenConns)
	db.SetMaxIdleConns(opts.MaxIdleConns)
}

func registerSQLiteDriver() {
	registerSQLiteOnce.Do(func() {
		sql.Register(sqliteDriverName, &sqlite3.SQLiteDriver{
			ConnectHook: func(conn *sqlite3.SQLiteConn) error {
				return conn.RegisterFunc(SQLiteUnicodeLower, strings.ToLower, true)
			},
		})
	})
}

// ensureDir 若目录不存在则创建；内存库与当前目录无需处理。
func ensureDir(dir string) error {
	if dir == "" || dir == "." || strings.HasPrefix(dir, "file:") {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
