package errors

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// SQLSTATE codes reported by postgres for constraint violations.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgNotNullViolation    = "23502"
	pgCheckViolation      = "23514"
)

// ErrorInfo is the classified form of an error.
type ErrorInfo struct {
	Code    string // see codes.go
	Message string // safe to show to the user
}

// ParseError classifies err into a code and a user facing message. context
// names the operation, e.g. "create venue", and picks the wording. Driver
// details are never copied into the message.
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{
			Code:    InternalServerError,
			Message: "Something went wrong on our end",
		}
	}

	// 1. gorm sentinels
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorInfo{
			Code:    notFoundCode(context),
			Message: getNotFoundMessage(context),
		}
	}

	// 2. postgres errors carry a SQLSTATE code
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return parseDuplicateKeyError(pgErr.ConstraintName, context)
		case pgForeignKeyViolation:
			return parseForeignKeyError(pgErr.ConstraintName+" "+pgErr.Detail, context)
		case pgNotNullViolation:
			return parseNotNullError(pgErr.ColumnName)
		case pgCheckViolation:
			return ErrorInfo{Code: ValidationInvalidInput, Message: "One of the values is not allowed"}
		}
	}

	// 3. text fallbacks for sqlite and wrapped driver errors
	errLower := strings.ToLower(err.Error())

	if strings.Contains(errLower, "duplicate key") || strings.Contains(errLower, "unique constraint") {
		return parseDuplicateKeyError(errLower, context)
	}
	if strings.Contains(errLower, "foreign key constraint") {
		return parseForeignKeyError(errLower, context)
	}
	if strings.Contains(errLower, "not null constraint") || strings.Contains(errLower, "violates not-null constraint") {
		return parseNotNullError(errLower)
	}

	// 4. network and connection errors
	if strings.Contains(errLower, "connection refused") ||
		strings.Contains(errLower, "no such host") ||
		strings.Contains(errLower, "timeout") {
		return ErrorInfo{
			Code:    InternalDatabase,
			Message: "The database is unavailable. Please try again shortly",
		}
	}

	// 5. fallback
	return ErrorInfo{
		Code:    failureCode(context),
		Message: getDefaultErrorMessage(context),
	}
}

func parseDuplicateKeyError(detail string, context string) ErrorInfo {
	detail = strings.ToLower(detail)

	if strings.Contains(detail, "genre") {
		return ErrorInfo{
			Code:    ResourceAlreadyExists,
			Message: "That genre is already attached",
		}
	}
	if strings.Contains(detail, "pkey") || strings.Contains(detail, "primary key") {
		return ErrorInfo{
			Code:    ResourceAlreadyExists,
			Message: "This record already exists. Please try again",
		}
	}

	return ErrorInfo{
		Code:    ResourceAlreadyExists,
		Message: "This record already exists",
	}
}

func parseForeignKeyError(detail string, context string) ErrorInfo {
	detail = strings.ToLower(detail)

	if strings.Contains(detail, "still referenced") {
		return ErrorInfo{
			Code:    ResourceConflict,
			Message: "Other records still depend on this " + subject(context),
		}
	}
	if strings.Contains(detail, "venue") {
		return ErrorInfo{Code: ShowInvalidVenue, Message: "The selected venue does not exist"}
	}
	if strings.Contains(detail, "artist") {
		return ErrorInfo{Code: ShowInvalidArtist, Message: "The selected artist does not exist"}
	}

	return ErrorInfo{
		Code:    ResourceNotFound,
		Message: "A referenced record does not exist",
	}
}

func parseNotNullError(detail string) ErrorInfo {
	detail = strings.ToLower(detail)

	for _, field := range []string{"name", "city", "state", "address", "start_time"} {
		if strings.Contains(detail, field) {
			return ErrorInfo{
				Code:    ValidationRequired,
				Message: strings.ReplaceAll(field, "_", " ") + " is required",
			}
		}
	}

	return ErrorInfo{
		Code:    ValidationRequired,
		Message: "A required field is missing",
	}
}

func subject(context string) string {
	contextLower := strings.ToLower(context)
	switch {
	case strings.Contains(contextLower, "venue"):
		return "venue"
	case strings.Contains(contextLower, "artist"):
		return "artist"
	case strings.Contains(contextLower, "show"):
		return "show"
	}
	return "record"
}

func notFoundCode(context string) string {
	switch subject(context) {
	case "venue":
		return VenueNotFound
	case "artist":
		return ArtistNotFound
	}
	return ResourceNotFound
}

func getNotFoundMessage(context string) string {
	switch subject(context) {
	case "venue":
		return "Venue not found"
	case "artist":
		return "Artist not found"
	case "show":
		return "Show not found"
	}
	return "The requested page could not be found"
}

func failureCode(context string) string {
	contextLower := strings.ToLower(context)
	kind := subject(context)

	switch {
	case kind == "venue" && strings.Contains(contextLower, "create"):
		return VenueCreateFailed
	case kind == "venue" && strings.Contains(contextLower, "update"):
		return VenueUpdateFailed
	case kind == "venue" && strings.Contains(contextLower, "delete"):
		return VenueDeleteFailed
	case kind == "artist" && strings.Contains(contextLower, "create"):
		return ArtistCreateFailed
	case kind == "artist" && strings.Contains(contextLower, "update"):
		return ArtistUpdateFailed
	case kind == "show" && strings.Contains(contextLower, "create"):
		return ShowCreateFailed
	}
	return InternalServerError
}

func getDefaultErrorMessage(context string) string {
	contextLower := strings.ToLower(context)

	if strings.Contains(contextLower, "create") {
		return "The " + subject(context) + " could not be listed. Please try again"
	}
	if strings.Contains(contextLower, "update") {
		return "The " + subject(context) + " could not be updated. Please try again"
	}
	if strings.Contains(contextLower, "delete") {
		return "The " + subject(context) + " could not be deleted. Please try again"
	}

	return "Something went wrong on our end. Please try again"
}
