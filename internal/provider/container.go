package provider

import (
	"time"

	"github.com/vitrine-next/internal/cache"
	"github.com/vitrine-next/internal/config"
	"github.com/vitrine-next/internal/constants"
	"github.com/vitrine-next/internal/logger"
	"github.com/vitrine-next/internal/models"
	"github.com/vitrine-next/internal/payment"
	"github.com/vitrine-next/internal/queue"
	"github.com/vitrine-next/internal/repository"
	"github.com/vitrine-next/internal/service"
)

// Container dependency injection container
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	UserRepo          repository.UserRepository
	ProductRepo       repository.ProductRepository
	VariantRepo       repository.VariantRepository
	PricingConfigRepo repository.PricingConfigRepository
	CouponRepo        repository.CouponRepository
	OrderRepo         repository.OrderRepository
	ReservationRepo   repository.ReservationRepository
	DivergenceRepo    repository.DivergenceRepository

	// Services
	PricingConfigService *service.PricingConfigService
	CouponService        *service.CouponService
	CheckoutService      *service.CheckoutService
}

// NewContainer builds the container
func NewContainer(cfg *config.Config) *Container {
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
	}

	c.initRepositories()
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.UserRepo = repository.NewUserRepository(db)
	c.ProductRepo = repository.NewProductRepository(db)
	c.VariantRepo = repository.NewVariantRepository(db)
	c.PricingConfigRepo = repository.NewPricingConfigRepository(db)
	c.CouponRepo = repository.NewCouponRepository(db)
	c.OrderRepo = repository.NewOrderRepository(db)
	c.ReservationRepo = repository.NewReservationRepository(db)
	c.DivergenceRepo = repository.NewDivergenceRepository(db)
}

func (c *Container) initServices() {
	c.PricingConfigService = service.NewPricingConfigService(
		c.PricingConfigRepo,
		time.Duration(c.Config.Checkout.PricingConfigCacheTTL)*time.Second,
	)
	c.CouponService = service.NewCouponService(c.CouponRepo)

	gateways := map[string]payment.Gateway{
		constants.PaymentMethodCard: payment.NewStripeCardGateway(c.Config.Gateway.Stripe),
		constants.PaymentMethodPix:  payment.NewMercadoPagoPixGateway(c.Config.Gateway.MercadoPago),
	}

	c.CheckoutService = service.NewCheckoutService(
		c.OrderRepo,
		c.VariantRepo,
		c.ReservationRepo,
		c.DivergenceRepo,
		c.PricingConfigService,
		c.CouponService,
		gateways,
		c.QueueClient,
		time.Duration(c.Config.Checkout.ReservationExpireMinutes)*time.Minute,
	)
}
