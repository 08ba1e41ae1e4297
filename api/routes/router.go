package routes

import (
	"net/http"
	"time"

	"eventhive/internal/bookings"
	"eventhive/internal/catalog"
	"eventhive/internal/checkout"
	"eventhive/internal/notifications"
	"eventhive/internal/payments"
	"eventhive/internal/shared/config"
	"eventhive/internal/shared/middleware"
	"eventhive/internal/tickets"
	"eventhive/pkg/cache"
	"eventhive/pkg/ratelimit"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Dependencies carries the shared infrastructure the router wires the
// feature packages onto.
type Dependencies struct {
	DB          *gorm.DB
	RedisClient *redis.Client
	Config      *config.Config
	Producer    notifications.Producer
}

// SetupRouter builds the gin engine and wires every feature package:
// repositories, then services, then controllers, then routes.
func SetupRouter(engine *gin.Engine, deps *Dependencies) {
	cacheService := cache.NewService(deps.RedisClient)

	var limiter *ratelimit.RateLimiter
	if deps.Config.RateLimit.Enabled {
		limiter = ratelimit.NewRateLimiter(deps.RedisClient, &ratelimit.Config{
			Enabled:          deps.Config.RateLimit.Enabled,
			WindowDuration:   deps.Config.RateLimit.WindowDuration,
			DefaultRequests:  deps.Config.RateLimit.DefaultRequests,
			CheckoutRequests: deps.Config.RateLimit.CheckoutRequests,
			WebhookRequests:  deps.Config.RateLimit.WebhookRequests,
			WhitelistedIPs:   deps.Config.RateLimit.WhitelistedIPs,
		})
	}

	// Repositories
	catalogRepo := catalog.NewRepository(deps.DB)
	ticketRepo := tickets.NewRepository(deps.DB)
	bookingRepo := bookings.NewRepository(deps.DB, catalogRepo)

	// Core collaborators
	verifier := payments.NewVerifier(deps.Config.Gateway.KeySecret)
	gateway := payments.NewRazorpayGateway(
		deps.Config.Gateway.BaseURL,
		deps.Config.Gateway.KeyID,
		deps.Config.Gateway.KeySecret,
		deps.Config.Gateway.Timeout,
	)
	sessions := checkout.NewSessionStore(cacheService, deps.Config.Redis.CheckoutSessionTTL)
	issuer := tickets.NewIssuer(ticketRepo, deps.Config.Ticket.VerificationSecret, deps.Config.BaseURL)

	// Services
	catalogService := catalog.NewService(catalogRepo, cacheService, deps.Config.Redis.CatalogCacheTTL)
	bookingService := bookings.NewService(bookingRepo, catalogRepo, sessions, verifier, issuer, deps.Producer)
	checkoutService := checkout.NewService(catalogService, gateway, sessions, bookingService, deps.Config.Gateway.KeyID)

	// Controllers
	catalogController := catalog.NewController(catalogService)
	checkoutController := checkout.NewController(checkoutService)
	bookingController := bookings.NewController(bookingService)
	ticketController := tickets.NewController(issuer)

	// Health endpoints
	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "time": time.Now().UTC()})
	})
	engine.GET("/health/ready", func(c *gin.Context) {
		sqlDB, err := deps.DB.DB()
		if err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "database unavailable"})
			return
		}
		if err := cacheService.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "redis unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	// Public ticket verification lives at the engine root
	tickets.SetupTicketRoutes(engine, ticketController)

	authMiddleware := middleware.JWTAuth(deps.Config)

	var checkoutLimiter, webhookLimiter gin.HandlerFunc
	if limiter != nil {
		checkoutLimiter = ratelimit.Middleware(limiter, deps.Config.RateLimit.CheckoutRequests)
		webhookLimiter = ratelimit.Middleware(limiter, deps.Config.RateLimit.WebhookRequests)
	}

	api := engine.Group(deps.Config.GetAPIBasePath())
	{
		catalog.SetupCatalogRoutes(api, catalogController)
		checkout.SetupCheckoutRoutes(api, checkoutController, authMiddleware, checkoutLimiter)
		bookings.SetupBookingRoutes(api, bookingController, authMiddleware, webhookLimiter)
	}
}
