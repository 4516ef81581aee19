package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestParseError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		context  string
		wantCode string
		wantMsg  string
	}{
		{
			name:     "nil error",
			err:      nil,
			context:  "create venue",
			wantCode: InternalServerError,
		},
		{
			name:     "venue not found",
			err:      fmt.Errorf("lookup: %w", gorm.ErrRecordNotFound),
			context:  "get venue",
			wantCode: VenueNotFound,
			wantMsg:  "Venue not found",
		},
		{
			name:     "artist not found",
			err:      gorm.ErrRecordNotFound,
			context:  "update artist",
			wantCode: ArtistNotFound,
			wantMsg:  "Artist not found",
		},
		{
			name:     "postgres foreign key on venue",
			err:      &pgconn.PgError{Code: "23503", ConstraintName: "fk_venues_shows"},
			context:  "create show",
			wantCode: ShowInvalidVenue,
		},
		{
			name:     "postgres foreign key on artist",
			err:      fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23503", ConstraintName: "fk_artists_shows"}),
			context:  "create show",
			wantCode: ShowInvalidArtist,
		},
		{
			name:     "postgres unique violation",
			err:      &pgconn.PgError{Code: "23505", ConstraintName: "venues_pkey"},
			context:  "create venue",
			wantCode: ResourceAlreadyExists,
		},
		{
			name:     "postgres not null",
			err:      &pgconn.PgError{Code: "23502", ColumnName: "city"},
			context:  "create artist",
			wantCode: ValidationRequired,
			wantMsg:  "city is required",
		},
		{
			name:     "sqlite foreign key",
			err:      errors.New("FOREIGN KEY constraint failed"),
			context:  "create show",
			wantCode: ResourceNotFound,
		},
		{
			name:     "sqlite unique on genres",
			err:      errors.New("UNIQUE constraint failed: genres.name"),
			context:  "seed genres",
			wantCode: ResourceAlreadyExists,
			wantMsg:  "That genre is already attached",
		},
		{
			name:     "sqlite not null",
			err:      errors.New("NOT NULL constraint failed: shows.start_time"),
			context:  "create show",
			wantCode: ValidationRequired,
			wantMsg:  "start time is required",
		},
		{
			name:     "connection refused",
			err:      errors.New("dial tcp 127.0.0.1:5432: connect: connection refused"),
			context:  "list venues",
			wantCode: InternalDatabase,
		},
		{
			name:     "unknown error while creating venue",
			err:      errors.New("boom"),
			context:  "create venue",
			wantCode: VenueCreateFailed,
			wantMsg:  "The venue could not be listed. Please try again",
		},
		{
			name:     "unknown error while deleting venue",
			err:      errors.New("boom"),
			context:  "delete venue",
			wantCode: VenueDeleteFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := ParseError(tt.err, tt.context)
			assert.Equal(t, tt.wantCode, info.Code)
			assert.NotEmpty(t, info.Message)
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, info.Message)
			}
		})
	}
}

func TestRespondWithError_JSON(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/venues/99", nil)
	c.Request.Header.Set("Accept", "application/json")

	NotFound(c, VenueNotFound, "")

	assert.Equal(t, http.StatusNotFound, w.Code)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, VenueNotFound, body.Error)
	assert.Equal(t, "The requested page could not be found", body.Message)
}

func TestRespondWithValidationError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	RespondWithValidationError(c, map[string]string{"folder": "must be venues or artists"})

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var body ValidationErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, ValidationInvalidInput, body.Error)
	assert.Equal(t, "must be venues or artists", body.Fields["folder"])
}
