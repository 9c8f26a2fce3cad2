package router

import (
	"fmt"
	"strings"

	"github.com/vitrine-next/internal/cache"
	"github.com/vitrine-next/internal/config"
	publichandlers "github.com/vitrine-next/internal/http/handlers/public"
	"github.com/vitrine-next/internal/logger"
	"github.com/vitrine-next/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter wires middleware and routes
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	publicHandler := publichandlers.NewHandler(c.CheckoutService, c.PricingConfigService)
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "vn"
	}
	redisClient := cache.Client()
	checkoutRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:checkout", redisPrefix),
		WindowSeconds: cfg.Security.CheckoutRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.CheckoutRateLimit.MaxRequests,
	}

	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	apiV1 := r.Group("/api/v1")
	{
		public := apiV1.Group("/public")
		{
			public.GET("/pricing-config", publicHandler.PricingConfig)
			public.GET("/installment-plans", publicHandler.InstallmentPlans)
		}

		guest := apiV1.Group("/guest")
		{
			guest.POST("/checkout/quote", publicHandler.Quote)
			guest.POST("/checkout/payment-intent",
				RateLimitMiddleware(redisClient, checkoutRule, KeyByIPAndJSONField("order_id")),
				publicHandler.CreateGuestPaymentIntent,
			)
			guest.GET("/orders/by-order-no/:order_no", publicHandler.GetGuestOrder)
		}

		user := apiV1.Group("")
		user.Use(UserJWTAuthMiddleware(cfg.JWT.SecretKey, c.UserRepo))
		{
			user.POST("/checkout/quote", publicHandler.Quote)
			user.POST("/checkout/payment-intent",
				RateLimitMiddleware(redisClient, checkoutRule, KeyByIPAndJSONField("order_id")),
				publicHandler.CreatePaymentIntent,
			)
		}
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}
