package router

import (
	"github.com/gin-gonic/gin"
	"github.com/ikkim/fyyur-backend/config"
	"github.com/ikkim/fyyur-backend/internal/app/controller"
	apperrors "github.com/ikkim/fyyur-backend/internal/errors"
	"github.com/ikkim/fyyur-backend/internal/middleware"
	"github.com/ikkim/fyyur-backend/internal/render"
)

type Router struct {
	homeController   *controller.HomeController
	venueController  *controller.VenueController
	artistController *controller.ArtistController
	showController   *controller.ShowController
	uploadController *controller.UploadController
	healthController *controller.HealthController
	flashStore       middleware.FlashStore
	metrics          *middleware.Metrics
	renderer         *render.Renderer
	config           *config.Config
}

func NewRouter(
	homeController *controller.HomeController,
	venueController *controller.VenueController,
	artistController *controller.ArtistController,
	showController *controller.ShowController,
	uploadController *controller.UploadController,
	healthController *controller.HealthController,
	flashStore middleware.FlashStore,
	metrics *middleware.Metrics,
	renderer *render.Renderer,
	cfg *config.Config,
) *Router {
	return &Router{
		homeController:   homeController,
		venueController:  venueController,
		artistController: artistController,
		showController:   showController,
		uploadController: uploadController,
		healthController: healthController,
		flashStore:       flashStore,
		metrics:          metrics,
		renderer:         renderer,
		config:           cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()
	router.HTMLRender = r.renderer

	router.Use(middleware.LoggingMiddleware())
	// Metrics wraps recovery so recovered panics are counted as 500s.
	if r.metrics != nil {
		router.Use(r.metrics.Middleware())
	}
	router.Use(middleware.RecoveryMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))
	router.Use(middleware.FlashMiddleware(r.flashStore))

	router.GET("/health", r.healthController.Health)
	if r.metrics != nil && r.config.Metrics.Enabled {
		router.GET(r.config.Metrics.Path, gin.WrapH(r.metrics.Handler()))
	}

	router.GET("/", r.homeController.Home)

	venues := router.Group("/venues")
	{
		venues.GET("", r.venueController.ListVenues)
		venues.POST("/search", r.venueController.SearchVenues)
		venues.GET("/create", r.venueController.CreateVenueForm)
		venues.POST("/create", r.venueController.CreateVenue)
		venues.GET("/:id", r.venueController.ShowVenue)
		venues.DELETE("/:id", r.venueController.DeleteVenue)
		venues.POST("/:id/delete", r.venueController.DeleteVenue)
		venues.GET("/:id/edit", r.venueController.EditVenueForm)
		venues.POST("/:id/edit", r.venueController.EditVenue)
	}

	artists := router.Group("/artists")
	{
		artists.GET("", r.artistController.ListArtists)
		artists.POST("/search", r.artistController.SearchArtists)
		artists.GET("/create", r.artistController.CreateArtistForm)
		artists.POST("/create", r.artistController.CreateArtist)
		artists.GET("/:id", r.artistController.ShowArtist)
		artists.GET("/:id/edit", r.artistController.EditArtistForm)
		artists.POST("/:id/edit", r.artistController.EditArtist)
	}

	shows := router.Group("/shows")
	{
		shows.GET("", r.showController.ListShows)
		shows.GET("/export", r.showController.ExportShows)
		shows.GET("/create", r.showController.CreateShowForm)
		shows.POST("/create", r.showController.CreateShow)
	}

	router.POST("/uploads/presigned-url", r.uploadController.GeneratePresignedURL)

	router.NoRoute(func(c *gin.Context) {
		apperrors.NotFound(c, apperrors.ResourceNotFound, "")
	})

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed && origin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Vary", "Origin")
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-Request-ID, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
