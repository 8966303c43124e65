package app

import (
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"inride/internal/handler"
	"inride/internal/middleware"
)

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	AuthHandler     *handler.AuthHandler
	CustomerHandler *handler.CustomerHandler
	DriverHandler   *handler.DriverHandler
	BookingHandler  *handler.BookingHandler
	AdminHandler    *handler.AdminHandler
	LocationHandler *handler.LocationHandler
	RedisClient     *redis.Client
	NewRelicApp     *newrelic.Application
	Registry        *prometheus.Registry
}

// NewRouter creates a new Gin router with all routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(gin.Logger())
	router.Use(middleware.CORS())

	if deps.NewRelicApp != nil {
		router.Use(nrgin.Middleware(deps.NewRelicApp))
	}

	router.Use(middleware.Idempotency(deps.RedisClient))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{})))

	v1 := router.Group("/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/login", deps.AuthHandler.Login)
			auth.POST("/otp/send", deps.AuthHandler.SendOTP)
			auth.POST("/otp/verify", deps.AuthHandler.VerifyOTP)
		}

		customers := v1.Group("/customers")
		{
			customers.POST("/register", deps.CustomerHandler.Register)
			customers.GET("/:id", deps.CustomerHandler.Get)
			customers.GET("/:id/bookings", deps.CustomerHandler.Bookings)
			customers.POST("/:id/topup", deps.CustomerHandler.TopUp)
		}

		drivers := v1.Group("/drivers")
		{
			drivers.POST("/register", deps.DriverHandler.Register)
			drivers.GET("", deps.DriverHandler.List)
			drivers.GET("/:id", deps.DriverHandler.Get)
			drivers.GET("/:id/open-bookings", deps.DriverHandler.OpenBookings)
			drivers.POST("/:id/topup", deps.DriverHandler.TopUp)
			drivers.POST("/:id/location", deps.DriverHandler.UpdateLocation)
			drivers.GET("/:id/location", deps.DriverHandler.Location)
		}

		bookings := v1.Group("/bookings")
		{
			bookings.POST("", deps.BookingHandler.Create)
			bookings.GET("/:id", deps.BookingHandler.Get)
			bookings.POST("/:id/offers", deps.BookingHandler.SubmitOffer)
			bookings.POST("/:id/accept", deps.BookingHandler.AcceptOffer)
			bookings.POST("/:id/reached-pickup", deps.BookingHandler.ReachedPickup)
			bookings.POST("/:id/start", deps.BookingHandler.Start)
			bookings.POST("/:id/complete", deps.BookingHandler.Complete)
			bookings.POST("/:id/cancel", deps.BookingHandler.Cancel)
			bookings.POST("/:id/rate", deps.BookingHandler.Rate)
		}

		admin := v1.Group("/admin")
		{
			admin.POST("/admins", deps.AdminHandler.CreateAdmin)
			admin.POST("/drivers/:id/approve", deps.AdminHandler.ApproveDriver)
			admin.POST("/drivers/:id/reject", deps.AdminHandler.RejectDriver)
			admin.DELETE("/drivers/:id", deps.AdminHandler.DeleteDriver)
			admin.GET("/bookings", deps.AdminHandler.Bookings)
			admin.GET("/platform/balance", deps.AdminHandler.PlatformBalance)
		}

		locations := v1.Group("/locations")
		{
			locations.GET("/search", deps.LocationHandler.Search)
			locations.GET("/geocode", deps.LocationHandler.Geocode)
			locations.GET("/reverse", deps.LocationHandler.Reverse)
		}
	}

	return router
}
