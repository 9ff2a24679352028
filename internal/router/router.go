package router

import (
	"github.com/gin-gonic/gin"
	"github.com/pagecontent/internal/handler"
	"go.uber.org/zap"
)

// SetupRouter 配置 Gin 引擎和路由
func SetupRouter(api *handler.API, logger *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(requestLogger(logger), gin.CustomRecovery(api.RecoverPanic))
	r.RedirectTrailingSlash = false

	r.GET("/health", api.HealthCheck)
	r.GET("/metrics", api.MetricsHandler)

	// 内容接口
	content := r.Group(api.APIPrefix())
	{
		content.GET("/home-content", api.GetHomeContent)
		content.GET("/page-content/:slug", api.GetPageContent)
		content.GET("/pages", api.ListPages)
	}

	// 其余 GET 请求交给前端路由
	r.NoRoute(api.ServeSPA)

	return r
}
