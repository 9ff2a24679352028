package handler

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/pagecontent/internal/logging"
	"github.com/pagecontent/internal/metrics"
	"github.com/pagecontent/internal/service"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// PageResolver is the content lookup the handlers depend on.
type PageResolver interface {
	Resolve(ctx context.Context, token string) (*service.PageContent, error)
	ResolveHome(ctx context.Context) (*service.PageContent, error)
	List(ctx context.Context) ([]service.PageSummary, error)
}

// Options carries the optional collaborators of an API.
type Options struct {
	Logger    *zap.Logger
	Metrics   *metrics.Recorder
	Tenant    string
	APIPrefix string
	StaticDir string
}

// API bundles shared dependencies for HTTP handlers.
type API struct {
	db        *gorm.DB
	pages     PageResolver
	metrics   *metrics.Recorder
	logger    *zap.Logger
	tenant    string
	apiPrefix string
	staticDir string
}

// NewAPI constructs a handler set with shared services.
func NewAPI(gdb *gorm.DB, pages PageResolver, opts Options) *API {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	prefix := "/" + strings.Trim(strings.TrimSpace(opts.APIPrefix), "/")
	if prefix == "/" {
		prefix = "/api"
	}

	staticDir := strings.TrimSpace(opts.StaticDir)
	if staticDir == "" {
		staticDir = "dist"
	}

	return &API{
		db:        gdb,
		pages:     pages,
		metrics:   opts.Metrics,
		logger:    logger,
		tenant:    opts.Tenant,
		apiPrefix: prefix,
		staticDir: staticDir,
	}
}

// APIPrefix is the path prefix JSON endpoints are mounted under.
func (a *API) APIPrefix() string {
	return a.apiPrefix
}

// Metrics returns the recorder, which may be nil.
func (a *API) Metrics() *metrics.Recorder {
	return a.metrics
}

// requestLogger returns the request-scoped logger set by the router
// middleware, falling back to the API logger.
func (a *API) requestLogger(c *gin.Context) *zap.Logger {
	if c.Request != nil {
		if logger, ok := logging.Lookup(c.Request.Context()); ok {
			return logger
		}
	}
	return a.logger
}
