package controller

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/fyyur-backend/internal/app/service"
	apperrors "github.com/ikkim/fyyur-backend/internal/errors"
	"github.com/ikkim/fyyur-backend/internal/middleware"
	"github.com/ikkim/fyyur-backend/internal/validation"
)

type ArtistController struct {
	artistService service.ArtistService
	metrics       *middleware.Metrics
}

func NewArtistController(artistService service.ArtistService, metrics *middleware.Metrics) *ArtistController {
	return &ArtistController{artistService: artistService, metrics: metrics}
}

// GET /artists
func (ctrl *ArtistController) ListArtists(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	artists, err := ctrl.artistService.ListArtists(c.Request.Context())
	if err != nil {
		log.Error("Failed to list artists", err, nil)
		apperrors.InternalError(c, "")
		return
	}

	log.Info("Artists listed", map[string]interface{}{
		"count": len(artists),
	})

	respond(c, http.StatusOK, "pages/artists.html", gin.H{"Artists": artists}, artists)
}

// POST /artists/search
func (ctrl *ArtistController) SearchArtists(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var form SearchForm
	if err := c.ShouldBind(&form); err != nil {
		log.Warn("Invalid artist search", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "The search could not be read")
		return
	}

	result, err := ctrl.artistService.SearchArtists(c.Request.Context(), form.SearchTerm)
	if err != nil {
		log.Error("Failed to search artists", err, map[string]interface{}{
			"search_term": form.SearchTerm,
		})
		apperrors.InternalError(c, "")
		return
	}

	respond(c, http.StatusOK, "pages/search_artists.html",
		gin.H{"Results": result, "SearchTerm": form.SearchTerm},
		SearchResponse{Count: result.Count, Data: result.Data, SearchTerm: form.SearchTerm},
	)
}

// GET /artists/:id
func (ctrl *ArtistController) ShowArtist(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseID(c)
	if !ok {
		apperrors.NotFound(c, apperrors.ArtistNotFound, "")
		return
	}

	detail, err := ctrl.artistService.GetArtistDetail(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrArtistNotFound) {
			log.Warn("Artist not found", map[string]interface{}{
				"artist_id": id,
			})
			apperrors.NotFound(c, apperrors.ArtistNotFound, "Artist not found")
			return
		}
		log.Error("Failed to fetch artist", err, map[string]interface{}{
			"artist_id": id,
		})
		apperrors.InternalError(c, "")
		return
	}

	respond(c, http.StatusOK, "pages/show_artist.html", gin.H{"Artist": detail}, detail)
}

// GET /artists/create
func (ctrl *ArtistController) CreateArtistForm(c *gin.Context) {
	respondForm(c, http.StatusOK, "forms/new_artist.html", 0, ArtistForm{}, nil)
}

// POST /artists/create
func (ctrl *ArtistController) CreateArtist(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var form ArtistForm
	if err := c.ShouldBind(&form); err != nil {
		fields := validation.FieldErrors(err)
		log.Warn("Invalid artist form", map[string]interface{}{
			"fields": fields,
		})
		respondForm(c, http.StatusBadRequest, "forms/new_artist.html", 0, form, fields)
		return
	}

	artist, err := ctrl.artistService.CreateArtist(c.Request.Context(), form.Input())
	if err != nil {
		if fields, ok := validationFields(err); ok {
			respondForm(c, http.StatusBadRequest, "forms/new_artist.html", 0, form, fields)
			return
		}
		log.Error("Failed to create artist", err, map[string]interface{}{
			"name": form.Name,
		})
		info := apperrors.ParseError(err, "create artist")
		middleware.AddFlash(c, middleware.FlashError, fmt.Sprintf("An error occurred. Artist %s could not be listed.", form.Name))
		respondForm(c, http.StatusInternalServerError, "forms/new_artist.html", 0, form, map[string]string{"form": info.Message})
		return
	}

	ctrl.metrics.RecordListing("artist", "create")
	log.Info("Artist listed", map[string]interface{}{
		"artist_id": artist.ID,
	})

	middleware.AddFlash(c, middleware.FlashSuccess, fmt.Sprintf("Artist %s was successfully listed!", artist.Name))
	redirect(c, "/")
}

// GET /artists/:id/edit
func (ctrl *ArtistController) EditArtistForm(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseID(c)
	if !ok {
		apperrors.NotFound(c, apperrors.ArtistNotFound, "")
		return
	}

	artist, err := ctrl.artistService.GetArtist(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrArtistNotFound) {
			apperrors.NotFound(c, apperrors.ArtistNotFound, "Artist not found")
			return
		}
		log.Error("Failed to fetch artist for edit", err, map[string]interface{}{
			"artist_id": id,
		})
		apperrors.InternalError(c, "")
		return
	}

	respondForm(c, http.StatusOK, "forms/edit_artist.html", id, artistFormFrom(artist), nil)
}

// POST /artists/:id/edit
func (ctrl *ArtistController) EditArtist(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseID(c)
	if !ok {
		apperrors.NotFound(c, apperrors.ArtistNotFound, "")
		return
	}

	if _, err := ctrl.artistService.GetArtist(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrArtistNotFound) {
			apperrors.NotFound(c, apperrors.ArtistNotFound, "Artist not found")
			return
		}
		log.Error("Failed to fetch artist for edit", err, map[string]interface{}{
			"artist_id": id,
		})
		apperrors.InternalError(c, "")
		return
	}

	var form ArtistForm
	if err := c.ShouldBind(&form); err != nil {
		fields := validation.FieldErrors(err)
		log.Warn("Invalid artist form", map[string]interface{}{
			"artist_id": id,
			"fields":    fields,
		})
		respondForm(c, http.StatusBadRequest, "forms/edit_artist.html", id, form, fields)
		return
	}

	artist, err := ctrl.artistService.UpdateArtist(c.Request.Context(), id, form.Input())
	if err != nil {
		if fields, ok := validationFields(err); ok {
			respondForm(c, http.StatusBadRequest, "forms/edit_artist.html", id, form, fields)
			return
		}
		if errors.Is(err, service.ErrArtistNotFound) {
			apperrors.NotFound(c, apperrors.ArtistNotFound, "Artist not found")
			return
		}
		log.Error("Failed to update artist", err, map[string]interface{}{
			"artist_id": id,
		})
		info := apperrors.ParseError(err, "update artist")
		middleware.AddFlash(c, middleware.FlashError, fmt.Sprintf("An error occurred. Artist %s could not be updated.", form.Name))
		respondForm(c, http.StatusInternalServerError, "forms/edit_artist.html", id, form, map[string]string{"form": info.Message})
		return
	}

	ctrl.metrics.RecordListing("artist", "update")
	middleware.AddFlash(c, middleware.FlashSuccess, fmt.Sprintf("Artist %s was successfully updated!", artist.Name))
	redirect(c, fmt.Sprintf("/artists/%d", id))
}
