package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pagecontent/internal/db"
	"go.uber.org/zap"
)

// HealthCheck 提供负载均衡与监控系统使用的健康检查端点。
func (a *API) HealthCheck(c *gin.Context) {
	if err := db.Ping(c.Request.Context(), a.db); err != nil {
		a.requestLogger(c).Warn("health check failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "error",
			"tenant":  a.tenant,
			"message": "database unreachable",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"tenant":   a.tenant,
		"database": "up",
	})
}

// MetricsHandler exposes Prometheus metrics when a recorder is configured.
func (a *API) MetricsHandler(c *gin.Context) {
	if a.metrics == nil {
		respondError(c, http.StatusNotFound, "Not found")
		return
	}
	a.metrics.Handler().ServeHTTP(c.Writer, c.Request)
}
