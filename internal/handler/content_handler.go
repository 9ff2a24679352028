package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pagecontent/internal/metrics"
	"github.com/pagecontent/internal/service"
	"go.uber.org/zap"
)

const (
	endpointHome = "home"
	endpointPage = "page"
)

// GetHomeContent serves the tenant's home page.
func (a *API) GetHomeContent(c *gin.Context) {
	a.serveContent(c, endpointHome, service.HomeToken, func(ctx context.Context) (*service.PageContent, error) {
		return a.pages.ResolveHome(ctx)
	})
}

// GetPageContent serves the page addressed by the :slug parameter. The slug
// "home" is resolved like GetHomeContent.
func (a *API) GetPageContent(c *gin.Context) {
	slug := c.Param("slug")
	a.serveContent(c, endpointPage, slug, func(ctx context.Context) (*service.PageContent, error) {
		return a.pages.Resolve(ctx, slug)
	})
}

// ListPages returns slug, name and title of every tenant page.
func (a *API) ListPages(c *gin.Context) {
	pages, err := a.pages.List(c.Request.Context())
	if err != nil {
		a.requestLogger(c).Error("list pages failed", zap.String("tenant", a.tenant), zap.Error(err))
		respondErrorDetails(c, http.StatusInternalServerError, "Failed to list pages", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"pages": pages})
}

func (a *API) serveContent(c *gin.Context, endpoint, token string, resolve func(context.Context) (*service.PageContent, error)) {
	start := time.Now()
	content, err := resolve(c.Request.Context())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPageNotFound):
			a.metrics.Observe(endpoint, metrics.OutcomeNotFound, time.Since(start))
			respondError(c, http.StatusNotFound, "Page not found")
		case errors.Is(err, service.ErrLayoutNotFound):
			a.metrics.Observe(endpoint, metrics.OutcomeNotFound, time.Since(start))
			respondError(c, http.StatusNotFound, "Page layout not found")
		default:
			a.metrics.Observe(endpoint, metrics.OutcomeError, time.Since(start))
			a.requestLogger(c).Error("resolve page content failed",
				zap.String("tenant", a.tenant),
				zap.String("slug", token),
				zap.Error(err),
			)
			respondErrorDetails(c, http.StatusInternalServerError, "Failed to fetch page content", err)
		}
		return
	}

	a.metrics.Observe(endpoint, metrics.OutcomeOK, time.Since(start))
	c.JSON(http.StatusOK, content)
}
