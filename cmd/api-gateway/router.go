// Package main 是应用程序入口
package main

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/injapanfood/injapanfood-backend/internal/common/config"
	"github.com/injapanfood/injapanfood-backend/internal/common/jwt"
	"github.com/injapanfood/injapanfood-backend/internal/common/metrics"
	commonMiddleware "github.com/injapanfood/injapanfood-backend/internal/common/middleware"
	adminHandler "github.com/injapanfood/injapanfood-backend/internal/handler/admin"
	authHandler "github.com/injapanfood/injapanfood-backend/internal/handler/auth"
	mallHandler "github.com/injapanfood/injapanfood-backend/internal/handler/mall"
	marketingHandler "github.com/injapanfood/injapanfood-backend/internal/handler/marketing"
	userHandler "github.com/injapanfood/injapanfood-backend/internal/handler/user"
	"github.com/injapanfood/injapanfood-backend/internal/middleware"
	"github.com/injapanfood/injapanfood-backend/internal/repository"
	"github.com/injapanfood/injapanfood-backend/internal/scheduler"
	adminService "github.com/injapanfood/injapanfood-backend/internal/service/admin"
	authService "github.com/injapanfood/injapanfood-backend/internal/service/auth"
	mallService "github.com/injapanfood/injapanfood-backend/internal/service/mall"
	marketingService "github.com/injapanfood/injapanfood-backend/internal/service/marketing"
	orderService "github.com/injapanfood/injapanfood-backend/internal/service/order"
	userService "github.com/injapanfood/injapanfood-backend/internal/service/user"
)

// setupRouter 设置路由，返回定时任务处理器供调度器使用
func setupRouter(
	r *gin.Engine,
	cfg *config.Config,
	logger *zap.Logger,
	db *gorm.DB,
	redisClient *redis.Client,
) *scheduler.TaskHandler {
	// 创建 JWT 管理器
	jwtManager := jwt.NewManager(&jwt.Config{
		Secret:            cfg.JWT.Secret,
		AccessExpireTime:  cfg.JWT.AccessTokenDuration(),
		RefreshExpireTime: cfg.JWT.RefreshTokenDuration(),
		Issuer:            cfg.JWT.Issuer,
	})

	// 初始化仓储
	userRepo := repository.NewUserRepository(db)
	addressRepo := repository.NewAddressRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	productRepo := repository.NewProductRepository(db)
	bundleRepo := repository.NewBundleRepository(db)
	cartRepo := repository.NewCartRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	couponRepo := repository.NewCouponRepository(db)
	usageRepo := repository.NewCouponUsageRepository(db)
	adminRepo := repository.NewAdminRepository(db)
	operationLogRepo := repository.NewOperationLogRepository(db)

	// 初始化服务
	authSvc := authService.NewAuthService(userRepo, jwtManager)
	userSvc := userService.NewUserService(userRepo)
	addressSvc := userService.NewAddressService(addressRepo)

	productSvc := mallService.NewProductService(productRepo, categoryRepo, bundleRepo)
	cartSvc := mallService.NewCartService(cartRepo, productRepo)

	couponSvc := marketingService.NewCouponService(couponRepo, usageRepo, redisClient)
	redemptionSvc := marketingService.NewRedemptionService(db, couponRepo, usageRepo)
	couponAdminSvc := marketingService.NewCouponAdminService(couponRepo, couponSvc)

	calculator := orderService.NewDiscountCalculator(couponSvc)
	checkoutSvc := orderService.NewCheckoutService(db, orderRepo, cartRepo, productRepo, addressRepo, calculator, redemptionSvc)

	adminAuthSvc := adminService.NewAdminAuthService(adminRepo, jwtManager)
	productAdminSvc := adminService.NewProductAdminService(productRepo, categoryRepo, bundleRepo)
	orderAdminSvc := adminService.NewOrderAdminService(orderRepo)
	userAdminSvc := adminService.NewUserAdminService(userRepo, orderRepo, usageRepo)
	dashboardSvc := adminService.NewDashboardService(db, orderRepo)
	operationLogSvc := adminService.NewOperationLogService(operationLogRepo)

	// 初始化处理器
	authH := authHandler.NewHandler(authSvc)
	userH := userHandler.NewHandler(userSvc)
	addressH := userHandler.NewAddressHandler(addressSvc)
	productH := mallHandler.NewProductHandler(productSvc)
	cartH := mallHandler.NewCartHandler(cartSvc)
	orderH := mallHandler.NewOrderHandler(checkoutSvc)
	couponH := marketingHandler.NewCouponHandler(couponSvc, redemptionSvc)

	adminAuthH := adminHandler.NewAuthHandler(adminAuthSvc)
	adminMarketingH := adminHandler.NewMarketingHandler(couponAdminSvc, redemptionSvc)
	adminProductH := adminHandler.NewProductHandler(productAdminSvc)
	adminOrderH := adminHandler.NewOrderHandler(orderAdminSvc)
	adminUserH := adminHandler.NewUserHandler(userAdminSvc)
	adminDashboardH := adminHandler.NewDashboardHandler(dashboardSvc)
	adminSystemH := adminHandler.NewSystemHandler(operationLogSvc)

	// 全局中间件
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.RealIP())
	r.Use(middleware.CORS(nil))
	r.Use(middleware.AccessLog(logger))

	// Prometheus 指标
	if cfg.Metrics.Enabled {
		m := metrics.Init("injapanfood")
		r.Use(m.Middleware())
		r.GET(cfg.Metrics.Path, metrics.Handler())
	}

	// 全局限流
	if cfg.RateLimit.Enabled {
		r.Use(middleware.RateLimit(middleware.DefaultRateLimitConfig(redisClient)))
	}

	// 健康检查（不需要认证）
	r.GET("/health", healthHandler)
	r.GET("/ping", pingHandler)
	r.GET("/ready", readyHandler(db, redisClient))

	// Swagger 文档
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// API v1 路由组
	v1 := r.Group("/api/v1")
	{
		// 公开接口（无需认证）
		public := v1.Group("")
		{
			authH.RegisterRoutes(public)

			// 商品目录
			public.GET("/categories", productH.GetCategories)
			public.GET("/products", productH.GetProducts)
			public.GET("/products/hot", productH.GetHotProducts)
			public.GET("/products/new", productH.GetNewProducts)
			public.GET("/products/code/:code", productH.GetProductByCode)
			public.GET("/products/:id", productH.GetProductDetail)
			public.GET("/bundles", productH.GetBundles)
			public.GET("/bundles/:id", productH.GetBundleDetail)

			// 优惠券：列表公开，校验允许游客（登录后按用户维度校验）
			public.GET("/coupons", couponH.GetActiveCoupons)
			validate := public.Group("")
			validate.Use(middleware.OptionalAuth(jwtManager))
			if cfg.RateLimit.Enabled {
				validate.Use(middleware.CouponRateLimit(redisClient, 30))
			}
			validate.POST("/coupons/validate", couponH.ValidateCoupon)
		}

		// 用户端接口（需要用户认证）
		user := v1.Group("")
		user.Use(middleware.UserAuth(jwtManager))
		{
			authH.RegisterProtectedRoutes(user)
			userH.RegisterRoutes(user)

			// 收货地址
			addresses := user.Group("/user/addresses")
			{
				addresses.POST("", addressH.Create)
				addresses.GET("", addressH.List)
				addresses.GET("/default", addressH.GetDefault)
				addresses.GET("/:id", addressH.GetByID)
				addresses.PUT("/:id", addressH.Update)
				addresses.DELETE("/:id", addressH.Delete)
				addresses.PUT("/:id/default", addressH.SetDefault)
			}

			// 购物车
			cart := user.Group("/cart")
			{
				cart.GET("", cartH.GetCart)
				cart.POST("", cartH.AddItem)
				cart.GET("/count", cartH.GetCartCount)
				cart.POST("/batch-remove", cartH.RemoveItems)
				cart.PUT("/select-all", cartH.SelectAll)
				cart.PUT("/:id", cartH.UpdateItem)
				cart.DELETE("/:id", cartH.RemoveItem)
				cart.DELETE("", cartH.ClearCart)
			}

			// 结算与订单
			user.GET("/checkout/preview", orderH.PreviewCheckout)
			orders := user.Group("/orders")
			{
				orders.POST("", orderH.CreateOrder)
				orders.GET("", orderH.GetOrders)
				orders.GET("/:id", orderH.GetOrderDetail)
				orders.POST("/:id/pay", orderH.PayOrder)
				orders.POST("/:id/cancel", orderH.CancelOrder)
			}

			// 我的优惠券核销记录
			user.GET("/coupons/usages", couponH.GetMyUsages)
		}
	}

	// 管理后台 API
	opLogger := commonMiddleware.NewOperationLogger(operationLogRepo)
	admin := r.Group("/api/admin")
	{
		// 管理员登录（公开）
		adminAuthH.RegisterRoutes(admin)

		// 需要管理员认证
		adminAuth := admin.Group("")
		adminAuth.Use(middleware.AdminAuth(jwtManager))
		adminAuth.Use(opLogger.Log())
		{
			adminAuthH.RegisterProtectedRoutes(adminAuth)

			// 优惠券管理
			coupons := adminAuth.Group("/coupons")
			{
				coupons.POST("", adminMarketingH.CreateCoupon)
				coupons.GET("", adminMarketingH.ListCoupons)
				coupons.GET("/:id", adminMarketingH.GetCoupon)
				coupons.PUT("/:id", adminMarketingH.UpdateCoupon)
				coupons.PUT("/:id/active", adminMarketingH.SetCouponActive)
				coupons.DELETE("/:id", adminMarketingH.DeleteCoupon)
				coupons.GET("/:id/usages", adminMarketingH.GetCouponUsages)
			}

			// 商品管理
			products := adminAuth.Group("/products")
			{
				products.POST("", adminProductH.CreateProduct)
				products.GET("", adminProductH.ListProducts)
				products.GET("/:id", adminProductH.GetProduct)
				products.PUT("/:id", adminProductH.UpdateProduct)
				products.PUT("/:id/status", adminProductH.SetProductStatus)
				products.DELETE("/:id", adminProductH.DeleteProduct)
			}

			// 分类管理
			categories := adminAuth.Group("/categories")
			{
				categories.POST("", adminProductH.CreateCategory)
				categories.PUT("/:id", adminProductH.UpdateCategory)
				categories.DELETE("/:id", adminProductH.DeleteCategory)
			}

			// 套装管理
			bundles := adminAuth.Group("/bundles")
			{
				bundles.POST("", adminProductH.CreateBundle)
				bundles.GET("", adminProductH.ListBundles)
				bundles.PUT("/:id/items", adminProductH.UpdateBundleItems)
				bundles.PUT("/:id/status", adminProductH.SetBundleStatus)
				bundles.DELETE("/:id", adminProductH.DeleteBundle)
			}

			// 订单管理
			orders := adminAuth.Group("/orders")
			{
				orders.GET("", adminOrderH.ListOrders)
				orders.GET("/counts", adminOrderH.CountOrdersByStatus)
				orders.GET("/:id", adminOrderH.GetOrder)
				orders.POST("/:id/ship", adminOrderH.ShipOrder)
				orders.POST("/:id/deliver", adminOrderH.DeliverOrder)
				orders.POST("/:id/complete", adminOrderH.CompleteOrder)
			}

			// 用户管理
			users := adminAuth.Group("/users")
			{
				users.GET("", adminUserH.ListUsers)
				users.GET("/:id", adminUserH.GetUserDetail)
				users.PUT("/:id/status", adminUserH.SetUserStatus)
			}

			// 看板
			dashboard := adminAuth.Group("/dashboard")
			{
				dashboard.GET("/stats", adminDashboardH.GetStats)
				dashboard.GET("/coupons/:id", adminDashboardH.GetCouponStats)
				dashboard.GET("/sales-trend", adminDashboardH.GetSalesTrend)
			}

			// 系统管理：操作日志
			system := adminAuth.Group("/system")
			{
				system.GET("/operation-logs", adminSystemH.ListOperationLogs)
				system.GET("/operation-logs/stats", adminSystemH.GetModuleStats)
				system.GET("/operation-logs/:target_type/:target_id", adminSystemH.ListTargetLogs)
			}

			// 管理员账号管理（仅超级管理员）
			super := adminAuth.Group("")
			super.Use(middleware.RequireSuperAdmin())
			{
				super.POST("/admins", adminAuthH.CreateAdmin)
				super.GET("/admins", adminAuthH.ListAdmins)
				super.PUT("/admins/:id/status", adminAuthH.SetAdminStatus)
				super.DELETE("/system/operation-logs", adminSystemH.CleanupOperationLogs)
			}
		}
	}

	// 404 处理
	r.NoRoute(func(c *gin.Context) {
		c.JSON(404, gin.H{
			"code":    404,
			"message": "接口不存在",
		})
	})

	return scheduler.NewTaskHandler(couponRepo, checkoutSvc)
}
