package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pagecontent/internal/db"
)

var (
	ErrTenantMissing      = errors.New("TENANT_ID is required")
	ErrUnsupportedDriver  = errors.New("unsupported database driver")
	ErrDatabaseURLMissing = errors.New("DATABASE_URL is required for postgres")
)

// AppConfig 汇总运行服务所需的基础配置。
type AppConfig struct {
	ListenAddr     string
	Port           string
	TenantID       string
	HomePageNames  []string
	DatabaseDriver string
	DatabaseURL    string
	DatabasePath   string
	AutoMigrate    bool
	ConnectTimeout time.Duration
	GinMode        string
	APIPrefix      string
	StaticDir      string
	LogLevel       string
}

// Load 从环境变量读取应用配置，并为缺失项提供安全的默认值。
func Load() AppConfig {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	listenAddr := strings.TrimSpace(os.Getenv("LISTEN_ADDR"))
	if listenAddr == "" {
		listenAddr = fmt.Sprintf(":%s", port)
	}

	tenantID := strings.TrimSpace(os.Getenv("TENANT_ID"))
	if tenantID == "" {
		tenantID = strings.TrimSpace(os.Getenv("CMS_TENANT"))
	}

	homePageNames := splitList(os.Getenv("HOME_PAGE_NAMES"))
	if len(homePageNames) == 0 {
		homePageNames = []string{"Homepage"}
	}

	databaseURL := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	databaseDriver := strings.ToLower(strings.TrimSpace(os.Getenv("DATABASE_DRIVER")))
	if databaseDriver == "" {
		if databaseURL != "" {
			databaseDriver = db.DriverPostgres
		} else {
			databaseDriver = db.DriverSQLite
		}
	}

	databasePath := strings.TrimSpace(os.Getenv("DATABASE_PATH"))
	if databasePath == "" {
		databasePath = "pagecontent.db"
	}

	autoMigrate := true
	if raw := strings.TrimSpace(os.Getenv("DATABASE_AUTO_MIGRATE")); raw != "" {
		if parsed, err := strconv.ParseBool(raw); err == nil {
			autoMigrate = parsed
		}
	}

	connectTimeout := 30 * time.Second
	if raw := strings.TrimSpace(os.Getenv("DATABASE_CONNECT_TIMEOUT")); raw != "" {
		if parsed, err := time.ParseDuration(raw); err == nil && parsed >= 0 {
			connectTimeout = parsed
		}
	}

	ginMode := strings.TrimSpace(os.Getenv("GIN_MODE"))
	if ginMode == "" {
		ginMode = "release"
	}

	apiPrefix := normalizePrefix(os.Getenv("API_PREFIX"))

	staticDir := strings.TrimSpace(os.Getenv("STATIC_DIR"))
	if staticDir == "" {
		staticDir = "dist"
	}

	logLevel := strings.ToLower(strings.TrimSpace(os.Getenv("LOG_LEVEL")))
	if logLevel == "" {
		logLevel = "info"
	}

	return AppConfig{
		ListenAddr:     listenAddr,
		Port:           port,
		TenantID:       tenantID,
		HomePageNames:  homePageNames,
		DatabaseDriver: databaseDriver,
		DatabaseURL:    databaseURL,
		DatabasePath:   databasePath,
		AutoMigrate:    autoMigrate,
		ConnectTimeout: connectTimeout,
		GinMode:        ginMode,
		APIPrefix:      apiPrefix,
		StaticDir:      staticDir,
		LogLevel:       logLevel,
	}
}

// Validate 在启动阶段检查必需配置，任何一项缺失都应终止进程。
func (c AppConfig) Validate() error {
	if strings.TrimSpace(c.TenantID) == "" {
		return ErrTenantMissing
	}

	switch c.DatabaseDriver {
	case db.DriverPostgres:
		if strings.TrimSpace(c.DatabaseURL) == "" {
			return ErrDatabaseURLMissing
		}
	case db.DriverSQLite:
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedDriver, c.DatabaseDriver)
	}

	return nil
}

// DatabaseDSN returns the connection string for the configured driver.
func (c AppConfig) DatabaseDSN() string {
	if c.DatabaseDriver == db.DriverPostgres {
		return c.DatabaseURL
	}
	return c.DatabasePath
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		values = append(values, trimmed)
	}
	return values
}

func normalizePrefix(raw string) string {
	prefix := strings.Trim(strings.TrimSpace(raw), "/")
	if prefix == "" {
		return "/api"
	}
	return "/" + prefix
}
