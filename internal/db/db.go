package db

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	_ "github.com/lib/pq"
	"github.com/pagecontent/internal/logging"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	// DriverPostgres 使用 lib/pq 连接 Postgres。
	DriverPostgres = "postgres"
	// DriverSQLite 使用本地 sqlite 文件，适合开发与测试。
	DriverSQLite = "sqlite"
)

// Options 描述打开数据库连接所需的参数。
type Options struct {
	Driver      string
	DSN         string
	AutoMigrate bool
	Logger      *zap.Logger
}

// Open 打开数据库连接，并在需要时执行自动迁移。
// sqlite 的 DSN 为空时回退到默认文件 pagecontent.db。
func Open(opts Options) (*gorm.DB, error) {
	dialector, err := dialectorFor(opts)
	if err != nil {
		return nil, err
	}

	gdb, err := gorm.Open(dialector, &gorm.Config{Logger: gormLogger(opts.Logger)})
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", opts.Driver, err)
	}

	if opts.AutoMigrate {
		if err := Migrate(gdb); err != nil {
			closeQuietly(gdb)
			return nil, err
		}
	}

	return gdb, nil
}

// OpenWithRetry keeps calling Open and Ping with exponential backoff until
// the database answers or maxElapsed passes. Only used at startup.
func OpenWithRetry(ctx context.Context, opts Options, maxElapsed time.Duration) (*gorm.DB, error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	if _, err := dialectorFor(opts); err != nil {
		return nil, err
	}

	// backoff treats a zero MaxElapsedTime as "retry forever".
	if maxElapsed <= 0 {
		maxElapsed = time.Nanosecond
	}
	policy := backoff.NewExponentialBackOff()
	policy.MaxElapsedTime = maxElapsed

	var gdb *gorm.DB
	operation := func() error {
		conn, err := Open(opts)
		if err != nil {
			return err
		}
		if err := Ping(ctx, conn); err != nil {
			closeQuietly(conn)
			return err
		}
		gdb = conn
		return nil
	}
	notify := func(err error, wait time.Duration) {
		log.Warn("database not ready, retrying",
			zap.String("driver", opts.Driver),
			zap.Duration("wait", wait),
			zap.Error(err),
		)
	}

	if err := backoff.RetryNotify(operation, backoff.WithContext(policy, ctx), notify); err != nil {
		return nil, err
	}
	return gdb, nil
}

// Migrate creates or updates the content tables.
func Migrate(gdb *gorm.DB) error {
	if err := gdb.AutoMigrate(&Page{}, &PageLayout{}); err != nil {
		return fmt.Errorf("migrate content tables: %w", err)
	}
	return nil
}

// Ping checks the connection pool can reach the database.
func Ping(ctx context.Context, gdb *gorm.DB) error {
	if gdb == nil {
		return errors.New("database not initialized")
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func dialectorFor(opts Options) (gorm.Dialector, error) {
	switch strings.ToLower(strings.TrimSpace(opts.Driver)) {
	case DriverPostgres:
		dsn := strings.TrimSpace(opts.DSN)
		if dsn == "" {
			return nil, errors.New("postgres dsn is required")
		}
		// DriverName routes database/sql through lib/pq.
		return postgres.New(postgres.Config{DriverName: "postgres", DSN: dsn}), nil
	case DriverSQLite, "":
		path := strings.TrimSpace(opts.DSN)
		if path == "" {
			path = "pagecontent.db"
		}
		if !strings.HasPrefix(path, "file:") {
			if err := ensureParentDir(path); err != nil {
				return nil, err
			}
		}
		return sqlite.Open(path), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", opts.Driver)
	}
}

func gormLogger(log *zap.Logger) logger.Interface {
	if log == nil {
		return logger.Default.LogMode(logger.Silent)
	}
	return logger.New(logging.NewPrintfAdapter(log.Named("gorm")), logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  logger.Warn,
		IgnoreRecordNotFoundError: true,
	})
}

func closeQuietly(gdb *gorm.DB) {
	if sqlDB, err := gdb.DB(); err == nil {
		sqlDB.Close()
	}
}

func ensureParentDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}

	info, err := os.Stat(dir)
	if err == nil {
		if !info.IsDir() {
			return errors.New("database path parent is not a directory")
		}
		return nil
	}

	if os.IsNotExist(err) {
		return os.MkdirAll(dir, 0o755)
	}

	return err
}
