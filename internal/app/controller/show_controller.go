package controller

import (
	"bytes"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/fyyur-backend/internal/app/service"
	apperrors "github.com/ikkim/fyyur-backend/internal/errors"
	"github.com/ikkim/fyyur-backend/internal/middleware"
	"github.com/ikkim/fyyur-backend/internal/spreadsheet"
	"github.com/ikkim/fyyur-backend/internal/validation"
)

type ShowController struct {
	showService service.ShowService
	metrics     *middleware.Metrics
}

func NewShowController(showService service.ShowService, metrics *middleware.Metrics) *ShowController {
	return &ShowController{showService: showService, metrics: metrics}
}

// GET /shows
func (ctrl *ShowController) ListShows(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	shows, err := ctrl.showService.ListShows(c.Request.Context())
	if err != nil {
		log.Error("Failed to list shows", err, nil)
		apperrors.InternalError(c, "")
		return
	}

	log.Info("Shows listed", map[string]interface{}{
		"count": len(shows),
	})

	respond(c, http.StatusOK, "pages/shows.html", gin.H{"Shows": shows}, shows)
}

// ExportShows downloads every show as a workbook.
// GET /shows/export
func (ctrl *ShowController) ExportShows(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	shows, err := ctrl.showService.ListShows(c.Request.Context())
	if err != nil {
		log.Error("Failed to list shows for export", err, nil)
		apperrors.InternalError(c, "")
		return
	}

	var buf bytes.Buffer
	if err := spreadsheet.WriteShows(&buf, shows); err != nil {
		log.Error("Failed to write show workbook", err, map[string]interface{}{
			"count": len(shows),
		})
		apperrors.RespondWithError(c, http.StatusInternalServerError, apperrors.ShowExportFailed, "The show list could not be exported")
		return
	}

	log.Info("Shows exported", map[string]interface{}{
		"count": len(shows),
		"bytes": buf.Len(),
	})

	c.Header("Content-Disposition", `attachment; filename="shows.xlsx"`)
	c.Data(http.StatusOK, spreadsheet.ContentType, buf.Bytes())
}

// GET /shows/create
func (ctrl *ShowController) CreateShowForm(c *gin.Context) {
	respondForm(c, http.StatusOK, "forms/new_show.html", 0, ShowForm{}, nil)
}

// POST /shows/create
func (ctrl *ShowController) CreateShow(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var form ShowForm
	if err := c.ShouldBind(&form); err != nil {
		fields := validation.FieldErrors(err)
		log.Warn("Invalid show form", map[string]interface{}{
			"fields": fields,
		})
		respondForm(c, http.StatusBadRequest, "forms/new_show.html", 0, form, fields)
		return
	}

	input, fields := showInput(form)
	if len(fields) > 0 {
		log.Warn("Invalid show form", map[string]interface{}{
			"fields": fields,
		})
		respondForm(c, http.StatusBadRequest, "forms/new_show.html", 0, form, fields)
		return
	}

	show, err := ctrl.showService.CreateShow(c.Request.Context(), input)
	if err != nil {
		if fields, ok := validationFields(err); ok {
			respondForm(c, http.StatusBadRequest, "forms/new_show.html", 0, form, fields)
			return
		}
		log.Error("Failed to create show", err, map[string]interface{}{
			"venue_id":  input.VenueID,
			"artist_id": input.ArtistID,
		})
		info := apperrors.ParseError(err, "create show")
		middleware.AddFlash(c, middleware.FlashError, "An error occurred. Show could not be listed.")
		respondForm(c, http.StatusInternalServerError, "forms/new_show.html", 0, form, map[string]string{"form": info.Message})
		return
	}

	ctrl.metrics.RecordListing("show", "create")
	log.Info("Show listed", map[string]interface{}{
		"show_id": show.ID,
	})

	middleware.AddFlash(c, middleware.FlashSuccess, "Show was successfully listed!")
	redirect(c, "/")
}

// showInput converts the text fields of the form. Problems are reported
// per field.
func showInput(form ShowForm) (service.ShowInput, map[string]string) {
	fields := make(map[string]string)
	var input service.ShowInput

	if id, err := strconv.ParseUint(form.VenueID, 10, 32); err != nil || id == 0 {
		fields["venue_id"] = "Enter a valid venue ID"
	} else {
		input.VenueID = uint(id)
	}

	if id, err := strconv.ParseUint(form.ArtistID, 10, 32); err != nil || id == 0 {
		fields["artist_id"] = "Enter a valid artist ID"
	} else {
		input.ArtistID = uint(id)
	}

	if start, err := service.ParseStartTime(form.StartTime); err != nil {
		fields["start_time"] = "Enter a time like 2035-04-01 20:00:00"
	} else {
		input.StartTime = start
	}

	return input, fields
}
