package router

import (
	"fmt"
	"strings"

	"github.com/jishi-next/internal/cache"
	"github.com/jishi-next/internal/config"
	adminhandlers "github.com/jishi-next/internal/http/handlers/admin"
	publichandlers "github.com/jishi-next/internal/http/handlers/public"
	"github.com/jishi-next/internal/logger"
	"github.com/jishi-next/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	// 初始化 Handler（按前台/后台分组）
	publicHandler := publichandlers.New(c)
	adminHandler := adminhandlers.New(c)

	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "jishi"
	}
	redisClient := cache.Client()
	loginRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:login", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
	}
	registerRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:register", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
	}

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	// 静态文件服务（上传的图片）
	uploadDir := strings.TrimSpace(cfg.Upload.Dir)
	if uploadDir == "" {
		uploadDir = "./uploads"
	}
	r.Static("/uploads", uploadDir)

	api := r.Group("/api")
	{
		// 公开目录接口
		api.GET("/products", publicHandler.ListProducts)
		api.GET("/products/:slug", publicHandler.GetProductBySlug)
		api.GET("/categories", publicHandler.GetCategoryTree)
		api.GET("/categories/featured", publicHandler.ListFeaturedCategories)
		api.GET("/categories/:slug", publicHandler.GetCategoryBySlug)
		api.GET("/sellers", publicHandler.ListSellers)
		api.GET("/sellers/:id", publicHandler.GetSeller)
		api.GET("/captcha/image", publicHandler.GetImageCaptcha)

		// 推广跳转（匿名可访问，记录点击后 302）
		api.GET("/affiliate/track/:code", publicHandler.TrackAffiliateRedirect)

		// 认证接口
		auth := api.Group("/auth")
		{
			auth.POST("/register", RateLimitMiddleware(redisClient, registerRule, KeyByIP), publicHandler.Register)
			auth.POST("/login", RateLimitMiddleware(redisClient, loginRule, KeyByIPAndJSONField("email")), publicHandler.Login)
			auth.POST("/verify-email", publicHandler.VerifyEmail)
			auth.POST("/forgot-password", publicHandler.ForgotPassword)
			auth.POST("/reset-password", publicHandler.ResetPassword)
		}

		// 退出登录只需要有效令牌
		api.POST("/auth/logout", JWTAuthMiddleware(cfg.JWT.SecretKey, c.UserRepo), publicHandler.Logout)

		// 需登录接口（JWT + 角色策略）
		authorized := api.Group("")
		authorized.Use(JWTAuthMiddleware(cfg.JWT.SecretKey, c.UserRepo), RBACMiddleware(c.AuthzService))
		{
			authorized.GET("/me", publicHandler.Me)
			authorized.GET("/me/profile", publicHandler.GetMyProfile)
			authorized.PUT("/me/profile", publicHandler.UpdateMyProfile)
			authorized.PUT("/me/password", publicHandler.ChangePassword)

			authorized.GET("/cart", publicHandler.ListCart)
			authorized.DELETE("/cart", publicHandler.ClearCart)
			authorized.POST("/cart/items", publicHandler.AddCartItem)
			authorized.PUT("/cart/items/:product_id", publicHandler.UpdateCartItem)
			authorized.DELETE("/cart/items/:product_id", publicHandler.RemoveCartItem)

			authorized.POST("/orders", publicHandler.CreateOrder)
			authorized.GET("/orders", publicHandler.ListMyOrders)
			authorized.GET("/orders/:id", publicHandler.GetOrder)
			authorized.PUT("/orders/:id/cancel", publicHandler.CancelOrder)

			// 商品审核（仅管理员策略放行）
			authorized.POST("/products/:id/approve", adminHandler.ApproveProduct)
			authorized.POST("/products/:id/reject", adminHandler.RejectProduct)

			authorized.POST("/upload", publicHandler.UploadFile)

			// 卖家接口
			seller := authorized.Group("/seller")
			{
				seller.GET("/dashboard", publicHandler.SellerDashboard)
				seller.GET("/profile", publicHandler.GetSellerProfile)
				seller.PUT("/profile", publicHandler.UpdateSellerProfile)
				seller.GET("/products", publicHandler.ListSellerProducts)
				seller.POST("/products", publicHandler.CreateProduct)
				seller.PUT("/products/:id", publicHandler.UpdateProduct)
				seller.DELETE("/products/:id", publicHandler.DeleteProduct)
				seller.POST("/products/:id/images", publicHandler.AddProductImage)
				seller.DELETE("/products/:id/images/:image_id", publicHandler.RemoveProductImage)
				seller.GET("/orders", publicHandler.ListSellerOrders)
			}

			// 推广者接口
			affiliate := authorized.Group("/affiliate")
			{
				affiliate.POST("/links", publicHandler.CreateAffiliateLink)
				affiliate.GET("/links", publicHandler.ListAffiliateLinks)
				affiliate.GET("/links/performance", publicHandler.AffiliateLinkPerformance)
				affiliate.GET("/dashboard-stats", publicHandler.AffiliateDashboardStats)
				affiliate.GET("/profile", publicHandler.GetAffiliateProfile)
				affiliate.PUT("/profile", publicHandler.UpdateAffiliateProfile)
				affiliate.GET("/products", publicHandler.AffiliateCatalog)
			}

			// 管理员接口
			admin := authorized.Group("/admin")
			{
				admin.GET("/dashboard", adminHandler.Dashboard)

				admin.GET("/users", adminHandler.ListUsers)
				admin.GET("/users/:id", adminHandler.GetUser)
				admin.PUT("/users/:id/status", adminHandler.SetUserStatus)
				admin.PUT("/users/:id/role", adminHandler.ChangeUserRole)
				admin.DELETE("/users/:id", adminHandler.DeleteUser)

				admin.GET("/products/pending", adminHandler.ListPendingProducts)
				admin.DELETE("/products/:id", adminHandler.DeleteProduct)

				admin.POST("/categories", adminHandler.CreateCategory)
				admin.PUT("/categories/:id", adminHandler.UpdateCategory)
				admin.DELETE("/categories/:id", adminHandler.DeleteCategory)

				admin.GET("/sellers", adminHandler.ListSellerProfiles)
				admin.PUT("/sellers/:id/verify", adminHandler.VerifySeller)
				admin.GET("/affiliates", adminHandler.ListAffiliateProfiles)

				admin.GET("/orders", adminHandler.ListOrders)
				admin.PATCH("/orders/:id", adminHandler.UpdateOrderStatus)
				admin.PUT("/orders/:id/cancel", adminHandler.CancelOrder)

				admin.POST("/flags", adminHandler.CreateFlag)
				admin.GET("/flags", adminHandler.ListFlags)
				admin.PUT("/flags/:id", adminHandler.ReviewFlag)
			}
		}
	}

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}
