package server

import (
	"acc-wallet-core/internal/handler"
	"acc-wallet-core/pkg/monitor"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewHTTPRouter 初始化并返回一个 Gin Engine。
func NewHTTPRouter(wh *handler.WalletHandler) *gin.Engine {
	// 1. 创建 Engine (使用默认中间件: Logger, Recovery)
	r := gin.Default()

	// 2. 注册通用中间件
	r.Use(monitor.PrometheusMiddleware())

	// 3. 注册基础路由
	r.GET("/health", handler.HealthCheck)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 4. 注册 API 路由组
	api := r.Group("/api/v1")
	{
		wallet := api.Group("/wallet")
		{
			wallet.POST("/sign", wh.Sign)
			wallet.POST("/pending", wh.FindPending)
			wallet.POST("/pending/check", wh.CheckPending)
			wallet.POST("/passphrase", wh.SetPassphrase)
			wallet.POST("/keys/import", wh.ImportKey)
			wallet.POST("/keys/generate", wh.GenerateKey)
			wallet.DELETE("/keys", wh.ClearKeys)
		}
	}

	return r
}
