package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/fyyur-backend/internal/app/service"
	apperrors "github.com/ikkim/fyyur-backend/internal/errors"
	"github.com/ikkim/fyyur-backend/internal/middleware"
)

// wantsHTML reports whether the client negotiated a rendered page.
func wantsHTML(c *gin.Context) bool {
	return c.NegotiateFormat(apperrors.Offered...) == gin.MIMEHTML
}

// respond renders htmlName with data for browsers and jsonData for API
// clients. Pending flash notices are consumed only when a page is rendered.
func respond(c *gin.Context, status int, htmlName string, data gin.H, jsonData any) {
	if wantsHTML(c) {
		if data == nil {
			data = gin.H{}
		}
		data["Flashes"] = middleware.Flashes(c)
		c.HTML(status, htmlName, data)
		return
	}
	c.JSON(status, jsonData)
}

// respondForm re-renders a form with its submitted values and per-field
// problems. API clients get the field map.
func respondForm(c *gin.Context, status int, htmlName string, id uint, form any, fields map[string]string) {
	if fields == nil {
		fields = map[string]string{}
	}
	data := gin.H{
		"ID":     id,
		"Form":   form,
		"Errors": fields,
	}

	switch {
	case status == http.StatusBadRequest:
		respond(c, status, htmlName, data, apperrors.ValidationErrorResponse{
			Error:   apperrors.ValidationInvalidInput,
			Message: "Some fields are invalid",
			Fields:  fields,
		})
	case status >= http.StatusInternalServerError:
		respond(c, status, htmlName, data, apperrors.ErrorResponse{
			Error:   apperrors.InternalDatabase,
			Message: "The listing could not be saved",
		})
	default:
		respond(c, status, htmlName, data, form)
	}
}

// parseID reads the :id path parameter. Anything that is not a positive
// integer names no record, so the caller answers 404.
func parseID(c *gin.Context) (uint, bool) {
	raw := c.Param("id")
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		middleware.GetLoggerFromContext(c).Warn("Invalid listing ID", map[string]interface{}{
			"id": raw,
		})
		return 0, false
	}
	return uint(id), true
}

// validationFields extracts the field map from a service validation error.
func validationFields(err error) (map[string]string, bool) {
	var verr *service.ValidationError
	if errors.As(err, &verr) {
		return verr.Fields, true
	}
	return nil, false
}

func redirect(c *gin.Context, location string) {
	c.Redirect(http.StatusSeeOther, location)
}

// SearchResponse is a search result echoed with the term that produced it.
type SearchResponse struct {
	Count      int                      `json:"count"`
	Data       []service.ListingSummary `json:"data"`
	SearchTerm string                   `json:"search_term"`
}
