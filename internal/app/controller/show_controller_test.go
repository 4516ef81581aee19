package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/fyyur-backend/internal/app/model"
	"github.com/ikkim/fyyur-backend/internal/app/service"
	apperrors "github.com/ikkim/fyyur-backend/internal/errors"
	"github.com/ikkim/fyyur-backend/internal/spreadsheet"
	"github.com/ikkim/fyyur-backend/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestShowController_CreateShow(t *testing.T) {
	f := setupControllerTest(t, nil)
	venue := f.mustVenue(t, "The Musical Hop", "San Francisco", "CA")
	artist := f.mustArtist(t, "Guns N Petals")
	venueID := strconv.Itoa(int(venue.ID))
	artistID := strconv.Itoa(int(artist.ID))

	tests := []struct {
		name       string
		form       url.Values
		wantStatus int
		wantFields []string
	}{
		{
			name:       "Valid show",
			form:       url.Values{"venue_id": {venueID}, "artist_id": {artistID}, "start_time": {"2035-04-01 20:00:00"}},
			wantStatus: http.StatusSeeOther,
		},
		{
			name:       "Unknown venue",
			form:       url.Values{"venue_id": {"9999"}, "artist_id": {artistID}, "start_time": {"2035-04-01 20:00:00"}},
			wantStatus: http.StatusBadRequest,
			wantFields: []string{"venue_id"},
		},
		{
			name:       "Unknown artist",
			form:       url.Values{"venue_id": {venueID}, "artist_id": {"9999"}, "start_time": {"2035-04-01 20:00:00"}},
			wantStatus: http.StatusBadRequest,
			wantFields: []string{"artist_id"},
		},
		{
			name:       "Bad start time",
			form:       url.Values{"venue_id": {venueID}, "artist_id": {artistID}, "start_time": {"next friday"}},
			wantStatus: http.StatusBadRequest,
			wantFields: []string{"start_time"},
		},
		{
			name:       "Non numeric ids",
			form:       url.Values{"venue_id": {"hop"}, "artist_id": {""}, "start_time": {"2035-04-01 20:00:00"}},
			wantStatus: http.StatusBadRequest,
			wantFields: []string{"venue_id", "artist_id"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var before int64
			f.db.Model(&model.Show{}).Count(&before)

			w := f.do(http.MethodPost, "/shows/create", tt.form, gin.MIMEJSON)
			require.Equal(t, tt.wantStatus, w.Code)

			var after int64
			f.db.Model(&model.Show{}).Count(&after)

			if tt.wantStatus == http.StatusSeeOther {
				assert.Equal(t, "/", w.Header().Get("Location"))
				assert.Equal(t, before+1, after)
				flashes := f.homeFlashes(t, w)
				require.Len(t, flashes, 1)
				assert.Equal(t, "Show was successfully listed!", flashes[0].Message)
				return
			}

			var resp apperrors.ValidationErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			for _, field := range tt.wantFields {
				assert.Contains(t, resp.Fields, field)
			}
			assert.Equal(t, before, after)
		})
	}
}

func TestShowController_CreateShowForm(t *testing.T) {
	f := setupControllerTest(t, nil)

	w := f.do(http.MethodGet, "/shows/create", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `name="start_time"`)
	assert.Contains(t, w.Body.String(), `action="/shows/create"`)
}

func TestShowController_ListAndExport(t *testing.T) {
	f := setupControllerTest(t, nil)
	venue := f.mustVenue(t, "The Musical Hop", "San Francisco", "CA")
	artist := f.mustArtist(t, "Guns N Petals")
	start := time.Date(2019, 5, 21, 21, 30, 0, 0, time.UTC)
	f.mustShow(t, venue.ID, artist.ID, start)

	var shows []service.ShowListing
	w := f.getJSON(t, "/shows", &shows)
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, shows, 1)
	assert.Equal(t, "The Musical Hop", shows[0].VenueName)
	assert.Equal(t, "Guns N Petals", shows[0].ArtistName)
	assert.True(t, start.Equal(shows[0].StartTime))

	html := f.do(http.MethodGet, "/shows", nil, "")
	assert.Contains(t, html.Body.String(), "Tue May 21, 2019 9:30PM")

	w = f.do(http.MethodGet, "/shows/export", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, spreadsheet.ContentType, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "shows.xlsx")

	book, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	defer book.Close()
	rows, err := book.GetRows(spreadsheet.SheetShows)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "2019-05-21 21:30:00", rows[1][0])
}

type fakeUploader struct {
	err error
}

func (u *fakeUploader) PresignImageUpload(_ context.Context, folder, filename, _ string) (*storage.PresignedURLResponse, error) {
	if u.err != nil {
		return nil, u.err
	}
	key := folder + "/" + filename
	return &storage.PresignedURLResponse{
		UploadURL: "https://fyyur-images.s3.us-west-2.amazonaws.com/" + key + "?X-Amz-Signature=abc",
		FileURL:   "https://fyyur-images.s3.us-west-2.amazonaws.com/" + key,
		Key:       key,
	}, nil
}

func postJSON(f *controllerFixture, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", gin.MIMEJSON)
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func TestUploadController_GeneratePresignedURL(t *testing.T) {
	validBody := `{"filename":"hop.png","content_type":"image/png","folder":"venues"}`

	tests := []struct {
		name       string
		uploader   storage.ImageUploader
		body       string
		wantStatus int
		wantCode   string
	}{
		{"Storage not configured", nil, validBody, http.StatusServiceUnavailable, apperrors.UploadUnavailable},
		{"Success", &fakeUploader{}, validBody, http.StatusOK, ""},
		{"Missing folder", &fakeUploader{}, `{"filename":"hop.png","content_type":"image/png"}`, http.StatusBadRequest, apperrors.ValidationInvalidInput},
		{"Bad content type", &fakeUploader{err: storage.ErrContentTypeNotAllowed}, validBody, http.StatusBadRequest, apperrors.UploadInvalidFileType},
		{"Bad folder", &fakeUploader{err: storage.ErrFolderNotAllowed}, validBody, http.StatusBadRequest, apperrors.UploadInvalidFolder},
		{"Presign failure", &fakeUploader{err: errors.New("boom")}, validBody, http.StatusInternalServerError, apperrors.UploadFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setupControllerTest(t, tt.uploader)

			w := postJSON(f, "/uploads/presigned-url", tt.body)
			require.Equal(t, tt.wantStatus, w.Code)

			if tt.wantStatus == http.StatusOK {
				var resp storage.PresignedURLResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				assert.Equal(t, "venues/hop.png", resp.Key)
				assert.Contains(t, resp.UploadURL, "X-Amz-Signature")
				return
			}

			var resp apperrors.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantCode, resp.Error)
		})
	}
}
