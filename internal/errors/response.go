package errors

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Offered lists the response formats every page supports. HTML comes first
// so browsers that send no Accept header get a page.
var Offered = []string{gin.MIMEHTML, gin.MIMEJSON}

// ErrorResponse is the JSON body of every error.
type ErrorResponse struct {
	Error   string `json:"error"`   // error code for clients to branch on
	Message string `json:"message"` // human readable message
}

// ValidationErrorResponse carries per-field problems.
type ValidationErrorResponse struct {
	Error   string            `json:"error"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// errorPage picks the template used for HTML error responses.
func errorPage(statusCode int) string {
	if statusCode >= http.StatusInternalServerError {
		return "errors/500.html"
	}
	return "errors/404.html"
}

// RespondWithError renders the error page or a JSON body depending on the
// Accept header.
func RespondWithError(c *gin.Context, statusCode int, errorCode string, message string) {
	c.Negotiate(statusCode, gin.Negotiate{
		Offered:  Offered,
		HTMLName: errorPage(statusCode),
		HTMLData: gin.H{
			"Title":   http.StatusText(statusCode),
			"Status":  statusCode,
			"Code":    errorCode,
			"Message": message,
		},
		JSONData: ErrorResponse{
			Error:   errorCode,
			Message: message,
		},
	})
}

// Shorthands for common responses.

func BadRequest(c *gin.Context, errorCode string, message string) {
	RespondWithError(c, http.StatusBadRequest, errorCode, message)
}

func NotFound(c *gin.Context, errorCode string, message string) {
	if message == "" {
		message = "The requested page could not be found"
	}
	RespondWithError(c, http.StatusNotFound, errorCode, message)
}

func ServiceUnavailable(c *gin.Context, errorCode string, message string) {
	RespondWithError(c, http.StatusServiceUnavailable, errorCode, message)
}

func InternalError(c *gin.Context, message string) {
	if message == "" {
		message = "Something went wrong on our end. Please try again"
	}
	RespondWithError(c, http.StatusInternalServerError, InternalServerError, message)
}

// RespondWithValidationError is used by JSON-only endpoints. Form pages
// re-render themselves with the field map instead.
func RespondWithValidationError(c *gin.Context, fields map[string]string) {
	c.JSON(http.StatusBadRequest, ValidationErrorResponse{
		Error:   ValidationInvalidInput,
		Message: "Some fields are invalid",
		Fields:  fields,
	})
}
