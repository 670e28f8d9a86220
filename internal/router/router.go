package router

import (
	"fmt"
	"strings"

	"github.com/greenmart-next/internal/cache"
	"github.com/greenmart-next/internal/config"
	adminhandlers "github.com/greenmart-next/internal/http/handlers/admin"
	publichandlers "github.com/greenmart-next/internal/http/handlers/public"
	"github.com/greenmart-next/internal/logger"
	"github.com/greenmart-next/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	// 初始化 Handler（按前台/管理端分组）
	publicHandler := publichandlers.New(c)
	adminHandler := adminhandlers.New(c)
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "gm"
	}
	redisClient := cache.Client()
	trackRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:track", redisPrefix),
		WindowSeconds: cfg.Security.TrackRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.TrackRateLimit.MaxRequests,
	}

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	// API 路由组
	apiV1 := r.Group("/api/v1")
	{
		// 公开接口
		public := apiV1.Group("/public")
		{
			public.GET("/products", publicHandler.GetProducts)
			public.GET("/products/:id", publicHandler.GetProduct)
			public.POST("/products/:id/view", RateLimitMiddleware(redisClient, trackRule, KeyByIPAndParam("id")), publicHandler.TrackView)
			public.POST("/products/:id/add-to-cart", RateLimitMiddleware(redisClient, trackRule, KeyByIPAndParam("id")), publicHandler.TrackAddToCart)
		}

		// 结算协作接口（预占/释放/确认购买）
		checkout := apiV1.Group("/checkout")
		{
			checkout.POST("/reserve", publicHandler.ReserveStock)
			checkout.POST("/release", publicHandler.ReleaseStock)
			checkout.POST("/purchase", publicHandler.ConfirmPurchase)
		}

		// 管理端接口
		admin := apiV1.Group("/admin")
		{
			// 商品管理
			admin.POST("/products", adminHandler.CreateProduct)
			admin.PUT("/products/:id", adminHandler.UpdateProduct)
			admin.DELETE("/products/:id", adminHandler.DeleteProduct)
			admin.POST("/products/bulk-prices", adminHandler.BulkUpdatePrices)

			// 库存管理
			admin.PUT("/products/:id/inventory", adminHandler.UpdateInventory)
			admin.POST("/inventory/bulk", adminHandler.BulkUpdateInventory)

			// 运营统计喂入
			admin.POST("/products/:id/feature", adminHandler.FeatureInStream)
			admin.PUT("/products/:id/rating", adminHandler.SetRating)
		}
	}

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}
