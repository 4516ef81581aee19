package controller

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/fyyur-backend/internal/app/service"
	apperrors "github.com/ikkim/fyyur-backend/internal/errors"
	"github.com/ikkim/fyyur-backend/internal/middleware"
	"gorm.io/gorm"
)

const recentListings = 10

type HomeController struct {
	venueService  service.VenueService
	artistService service.ArtistService
}

func NewHomeController(venueService service.VenueService, artistService service.ArtistService) *HomeController {
	return &HomeController{venueService: venueService, artistService: artistService}
}

type HomeResponse struct {
	Flashes []middleware.Flash       `json:"flashes"`
	Venues  []service.ListingSummary `json:"venues"`
	Artists []service.ListingSummary `json:"artists"`
}

// Home shows pending notices and the newest listings. It is the redirect
// target after a create, so JSON clients receive and consume the notices
// here as well.
// GET /
func (ctrl *HomeController) Home(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	ctx := c.Request.Context()

	venues, err := ctrl.venueService.RecentVenues(ctx, recentListings)
	if err != nil {
		log.Error("Failed to load recent venues", err, nil)
		apperrors.InternalError(c, "")
		return
	}
	artists, err := ctrl.artistService.RecentArtists(ctx, recentListings)
	if err != nil {
		log.Error("Failed to load recent artists", err, nil)
		apperrors.InternalError(c, "")
		return
	}

	if wantsHTML(c) {
		respond(c, http.StatusOK, "pages/home.html", gin.H{"Venues": venues, "Artists": artists}, nil)
		return
	}
	c.JSON(http.StatusOK, HomeResponse{
		Flashes: middleware.Flashes(c),
		Venues:  venues,
		Artists: artists,
	})
}

type HealthController struct {
	db *gorm.DB
}

func NewHealthController(db *gorm.DB) *HealthController {
	return &HealthController{db: db}
}

// Health reports liveness and whether the database answers a ping.
// GET /health
func (ctrl *HealthController) Health(c *gin.Context) {
	status := http.StatusOK
	database := "up"
	if err := ctrl.ping(c.Request.Context()); err != nil {
		middleware.GetLoggerFromContext(c).Error("Database ping failed", err, nil)
		status = http.StatusServiceUnavailable
		database = "down"
	}

	c.JSON(status, gin.H{
		"status":   http.StatusText(status),
		"database": database,
		"message":  "Fyyur is running",
	})
}

func (ctrl *HealthController) ping(ctx context.Context) error {
	sqlDB, err := ctrl.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
