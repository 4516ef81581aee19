package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/fyyur-backend/config"
	"github.com/ikkim/fyyur-backend/internal/app/controller"
	"github.com/ikkim/fyyur-backend/internal/app/repository"
	"github.com/ikkim/fyyur-backend/internal/app/service"
	"github.com/ikkim/fyyur-backend/internal/db"
	"github.com/ikkim/fyyur-backend/internal/middleware"
	"github.com/ikkim/fyyur-backend/internal/render"
	"github.com/ikkim/fyyur-backend/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRouter(t *testing.T, metricsEnabled bool) *gin.Engine {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})
	require.NoError(t, validation.Register())

	venueRepo := repository.NewVenueRepository(testDB)
	artistRepo := repository.NewArtistRepository(testDB)
	showRepo := repository.NewShowRepository(testDB)
	genreRepo := repository.NewGenreRepository(testDB)

	venueService := service.NewVenueService(venueRepo, genreRepo, nil)
	artistService := service.NewArtistService(artistRepo, genreRepo, nil)
	showService := service.NewShowService(testDB, showRepo, venueRepo, artistRepo)

	var metrics *middleware.Metrics
	if metricsEnabled {
		metrics = middleware.NewMetrics()
	}

	renderer, err := render.New()
	require.NoError(t, err)

	cfg := &config.Config{
		Server:  config.ServerConfig{GinMode: gin.TestMode},
		CORS:    config.CORSConfig{AllowedOrigins: []string{"http://localhost:5000"}},
		Metrics: config.MetricsConfig{Enabled: metricsEnabled, Path: "/metrics"},
	}

	r := NewRouter(
		controller.NewHomeController(venueService, artistService),
		controller.NewVenueController(venueService, metrics),
		controller.NewArtistController(artistService, metrics),
		controller.NewShowController(showService, metrics),
		controller.NewUploadController(nil),
		controller.NewHealthController(testDB),
		middleware.NewCookieFlashStore("fyyur_flash"),
		metrics,
		renderer,
		cfg,
	)
	return r.Setup()
}

func TestRouter_Routes(t *testing.T) {
	engine := setupRouter(t, true)

	tests := []struct {
		name       string
		method     string
		path       string
		accept     string
		wantStatus int
	}{
		{"Home page", http.MethodGet, "/", "", http.StatusOK},
		{"Health", http.MethodGet, "/health", gin.MIMEJSON, http.StatusOK},
		{"Metrics", http.MethodGet, "/metrics", "", http.StatusOK},
		{"Venues", http.MethodGet, "/venues", "", http.StatusOK},
		{"New venue form", http.MethodGet, "/venues/create", "", http.StatusOK},
		{"Missing venue", http.MethodGet, "/venues/42", gin.MIMEJSON, http.StatusNotFound},
		{"Delete missing venue", http.MethodDelete, "/venues/42", gin.MIMEJSON, http.StatusNotFound},
		{"Artists", http.MethodGet, "/artists", "", http.StatusOK},
		{"New artist form", http.MethodGet, "/artists/create", "", http.StatusOK},
		{"Shows", http.MethodGet, "/shows", "", http.StatusOK},
		{"Export shows", http.MethodGet, "/shows/export", "", http.StatusOK},
		{"New show form", http.MethodGet, "/shows/create", "", http.StatusOK},
		{"Uploads without storage", http.MethodPost, "/uploads/presigned-url", gin.MIMEJSON, http.StatusServiceUnavailable},
		{"Unknown page", http.MethodGet, "/nope", "", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.accept != "" {
				req.Header.Set("Accept", tt.accept)
			}
			w := httptest.NewRecorder()
			engine.ServeHTTP(w, req)
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestRouter_PanicsAreCounted(t *testing.T) {
	engine := setupRouter(t, true)
	engine.GET("/boom", func(c *gin.Context) {
		panic("boom")
	})

	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	req.Header.Set("Accept", gin.MIMEJSON)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	require.Equal(t, http.StatusInternalServerError, w.Code)

	w = httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `fyyur_http_requests_total{method="GET",route="/boom",status="500"} 1`)
}

func TestRouter_NotFoundPage(t *testing.T) {
	engine := setupRouter(t, false)

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope", nil))
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), "404")

	w = httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCORSMiddleware(t *testing.T) {
	engine := setupRouter(t, false)

	tests := []struct {
		name       string
		method     string
		origin     string
		wantOrigin string
		wantStatus int
	}{
		{"Allowed origin", http.MethodGet, "http://localhost:5000", "http://localhost:5000", http.StatusOK},
		{"Other origin", http.MethodGet, "http://evil.example", "", http.StatusOK},
		{"Preflight", http.MethodOptions, "http://localhost:5000", "http://localhost:5000", http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/health", nil)
			req.Header.Set("Origin", tt.origin)
			w := httptest.NewRecorder()
			engine.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantOrigin, w.Header().Get("Access-Control-Allow-Origin"))
		})
	}
}
