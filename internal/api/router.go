package api

import (
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/d60-Lab/waimai/config"
	_ "github.com/d60-Lab/waimai/docs"
	"github.com/d60-Lab/waimai/internal/api/handler"
	"github.com/d60-Lab/waimai/internal/api/middleware"
	"github.com/d60-Lab/waimai/pkg/auth"
	"github.com/d60-Lab/waimai/pkg/idempotency"
)

// NewRouter 组装中间件与路由。idem 为 nil 时不启用幂等键。
func NewRouter(cfg *config.Config, tokens *auth.Manager, h *handler.Handler, idem *idempotency.Store) (*gin.Engine, error) {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	if err := handler.RegisterValidators(); err != nil {
		return nil, err
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Sentry())
	r.Use(middleware.RequestID())
	r.Use(otelgin.Middleware(cfg.Tracing.ServiceName))
	r.Use(middleware.Logger())
	r.Use(middleware.ReportErrors())
	r.Use(gzip.Gzip(gzip.DefaultCompression))
	if cfg.RateLimit.Enabled {
		r.Use(middleware.RateLimit(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
	}

	r.GET("/health", h.Health)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api")
	{
		authGroup := api.Group("/auth")
		authGroup.POST("/register", h.Register)
		authGroup.POST("/login", h.Login)

		api.GET("/merchants", h.ListMerchants)
		api.GET("/merchants/:id/products", h.ListMerchantProducts)
		api.GET("/categories", h.ListCategories)
	}

	authed := api.Group("")
	authed.Use(middleware.Auth(tokens))
	idemMW := middleware.Idempotency(idem)
	{
		orders := authed.Group("/orders")
		orders.POST("", idemMW, h.CreateOrder)
		orders.GET("/my", h.MyOrders)
		orders.GET("/:id", h.GetMyOrder)

		authed.POST("/payments/:orderId/pay", idemMW, h.Pay)

		authed.GET("/addresses", h.ListAddresses)
		authed.POST("/addresses", h.CreateAddress)
	}

	merchant := authed.Group("/merchant")
	merchant.Use(middleware.RequireRole(auth.RoleMerchant))
	{
		merchant.GET("/orders", h.MerchantOrders)
		merchant.GET("/orders/:id", h.MerchantGetOrder)
		merchant.PUT("/orders/:id/status", h.MerchantUpdateOrderStatus)

		merchant.GET("/products", h.MerchantProducts)
		merchant.POST("/products", h.MerchantCreateProduct)
		merchant.PUT("/products/:id", h.MerchantUpdateProduct)
		merchant.PUT("/products/:id/availability", h.MerchantToggleProduct)
	}

	admin := authed.Group("/admin")
	admin.Use(middleware.RequireRole(auth.RoleAdmin))
	{
		admin.GET("/orders", h.AdminListOrders)
		admin.PUT("/orders/:id/status", h.AdminUpdateOrderStatus)
		admin.GET("/orders/:id/logs", h.AdminOrderLogs)
		admin.GET("/statistics", h.Statistics)
		admin.GET("/users", h.AdminListUsers)

		admin.GET("/products", h.AdminListProducts)
		admin.POST("/products", h.AdminCreateProduct)
		admin.PUT("/products/:id", h.AdminUpdateProduct)
		admin.PUT("/products/:id/availability", h.AdminToggleProduct)
	}

	return r, nil
}
