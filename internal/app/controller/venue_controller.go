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

type VenueController struct {
	venueService service.VenueService
	metrics      *middleware.Metrics
}

func NewVenueController(venueService service.VenueService, metrics *middleware.Metrics) *VenueController {
	return &VenueController{venueService: venueService, metrics: metrics}
}

// ListVenues groups venues by city and state.
// GET /venues
func (ctrl *VenueController) ListVenues(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	areas, err := ctrl.venueService.ListVenueGroupsByLocation(c.Request.Context())
	if err != nil {
		log.Error("Failed to list venues", err, nil)
		apperrors.InternalError(c, "")
		return
	}

	log.Info("Venues listed", map[string]interface{}{
		"areas": len(areas),
	})

	respond(c, http.StatusOK, "pages/venues.html", gin.H{"Areas": areas}, areas)
}

// SearchVenues matches venue names case-insensitively.
// POST /venues/search
func (ctrl *VenueController) SearchVenues(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var form SearchForm
	if err := c.ShouldBind(&form); err != nil {
		log.Warn("Invalid venue search", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "The search could not be read")
		return
	}

	result, err := ctrl.venueService.SearchVenues(c.Request.Context(), form.SearchTerm)
	if err != nil {
		log.Error("Failed to search venues", err, map[string]interface{}{
			"search_term": form.SearchTerm,
		})
		apperrors.InternalError(c, "")
		return
	}

	respond(c, http.StatusOK, "pages/search_venues.html",
		gin.H{"Results": result, "SearchTerm": form.SearchTerm},
		SearchResponse{Count: result.Count, Data: result.Data, SearchTerm: form.SearchTerm},
	)
}

// ShowVenue renders one venue with its past and upcoming shows.
// GET /venues/:id
func (ctrl *VenueController) ShowVenue(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseID(c)
	if !ok {
		apperrors.NotFound(c, apperrors.VenueNotFound, "")
		return
	}

	detail, err := ctrl.venueService.GetVenueDetail(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrVenueNotFound) {
			log.Warn("Venue not found", map[string]interface{}{
				"venue_id": id,
			})
			apperrors.NotFound(c, apperrors.VenueNotFound, "Venue not found")
			return
		}
		log.Error("Failed to fetch venue", err, map[string]interface{}{
			"venue_id": id,
		})
		apperrors.InternalError(c, "")
		return
	}

	respond(c, http.StatusOK, "pages/show_venue.html", gin.H{"Venue": detail}, detail)
}

// CreateVenueForm renders an empty venue form.
// GET /venues/create
func (ctrl *VenueController) CreateVenueForm(c *gin.Context) {
	respondForm(c, http.StatusOK, "forms/new_venue.html", 0, VenueForm{}, nil)
}

// CreateVenue lists a new venue.
// POST /venues/create
func (ctrl *VenueController) CreateVenue(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var form VenueForm
	if err := c.ShouldBind(&form); err != nil {
		fields := validation.FieldErrors(err)
		log.Warn("Invalid venue form", map[string]interface{}{
			"fields": fields,
		})
		respondForm(c, http.StatusBadRequest, "forms/new_venue.html", 0, form, fields)
		return
	}

	venue, err := ctrl.venueService.CreateVenue(c.Request.Context(), form.Input())
	if err != nil {
		if fields, ok := validationFields(err); ok {
			respondForm(c, http.StatusBadRequest, "forms/new_venue.html", 0, form, fields)
			return
		}
		log.Error("Failed to create venue", err, map[string]interface{}{
			"name": form.Name,
		})
		info := apperrors.ParseError(err, "create venue")
		middleware.AddFlash(c, middleware.FlashError, fmt.Sprintf("An error occurred. Venue %s could not be listed.", form.Name))
		respondForm(c, http.StatusInternalServerError, "forms/new_venue.html", 0, form, map[string]string{"form": info.Message})
		return
	}

	ctrl.metrics.RecordListing("venue", "create")
	log.Info("Venue listed", map[string]interface{}{
		"venue_id": venue.ID,
	})

	middleware.AddFlash(c, middleware.FlashSuccess, fmt.Sprintf("Venue %s was successfully listed!", venue.Name))
	redirect(c, "/")
}

// EditVenueForm renders the venue form filled with the stored values.
// GET /venues/:id/edit
func (ctrl *VenueController) EditVenueForm(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseID(c)
	if !ok {
		apperrors.NotFound(c, apperrors.VenueNotFound, "")
		return
	}

	venue, err := ctrl.venueService.GetVenue(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrVenueNotFound) {
			apperrors.NotFound(c, apperrors.VenueNotFound, "Venue not found")
			return
		}
		log.Error("Failed to fetch venue for edit", err, map[string]interface{}{
			"venue_id": id,
		})
		apperrors.InternalError(c, "")
		return
	}

	respondForm(c, http.StatusOK, "forms/edit_venue.html", id, venueFormFrom(venue), nil)
}

// EditVenue replaces every editable field of a venue.
// POST /venues/:id/edit
func (ctrl *VenueController) EditVenue(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseID(c)
	if !ok {
		apperrors.NotFound(c, apperrors.VenueNotFound, "")
		return
	}

	if _, err := ctrl.venueService.GetVenue(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrVenueNotFound) {
			apperrors.NotFound(c, apperrors.VenueNotFound, "Venue not found")
			return
		}
		log.Error("Failed to fetch venue for edit", err, map[string]interface{}{
			"venue_id": id,
		})
		apperrors.InternalError(c, "")
		return
	}

	var form VenueForm
	if err := c.ShouldBind(&form); err != nil {
		fields := validation.FieldErrors(err)
		log.Warn("Invalid venue form", map[string]interface{}{
			"venue_id": id,
			"fields":   fields,
		})
		respondForm(c, http.StatusBadRequest, "forms/edit_venue.html", id, form, fields)
		return
	}

	venue, err := ctrl.venueService.UpdateVenue(c.Request.Context(), id, form.Input())
	if err != nil {
		if fields, ok := validationFields(err); ok {
			respondForm(c, http.StatusBadRequest, "forms/edit_venue.html", id, form, fields)
			return
		}
		if errors.Is(err, service.ErrVenueNotFound) {
			apperrors.NotFound(c, apperrors.VenueNotFound, "Venue not found")
			return
		}
		log.Error("Failed to update venue", err, map[string]interface{}{
			"venue_id": id,
		})
		info := apperrors.ParseError(err, "update venue")
		middleware.AddFlash(c, middleware.FlashError, fmt.Sprintf("An error occurred. Venue %s could not be updated.", form.Name))
		respondForm(c, http.StatusInternalServerError, "forms/edit_venue.html", id, form, map[string]string{"form": info.Message})
		return
	}

	ctrl.metrics.RecordListing("venue", "update")
	middleware.AddFlash(c, middleware.FlashSuccess, fmt.Sprintf("Venue %s was successfully updated!", venue.Name))
	redirect(c, fmt.Sprintf("/venues/%d", id))
}

// DeleteVenue removes a venue together with its shows.
// DELETE /venues/:id and POST /venues/:id/delete
func (ctrl *VenueController) DeleteVenue(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseID(c)
	if !ok {
		apperrors.NotFound(c, apperrors.VenueNotFound, "")
		return
	}

	venue, err := ctrl.venueService.DeleteVenue(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrVenueNotFound) {
			log.Warn("Venue to delete not found", map[string]interface{}{
				"venue_id": id,
			})
			apperrors.NotFound(c, apperrors.VenueNotFound, "Venue not found")
			return
		}
		log.Error("Failed to delete venue", err, map[string]interface{}{
			"venue_id": id,
		})
		middleware.AddFlash(c, middleware.FlashError, fmt.Sprintf("An error occurred. Venue %d could not be deleted.", id))
		redirect(c, fmt.Sprintf("/venues/%d", id))
		return
	}

	ctrl.metrics.RecordListing("venue", "delete")
	middleware.AddFlash(c, middleware.FlashSuccess, fmt.Sprintf("Venue %s was successfully deleted!", venue.Name))
	redirect(c, "/venues")
}
