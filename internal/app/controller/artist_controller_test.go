package controller

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/fyyur-backend/internal/app/model"
	"github.com/ikkim/fyyur-backend/internal/app/service"
	apperrors "github.com/ikkim/fyyur-backend/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArtistController_CreateArtist(t *testing.T) {
	f := setupControllerTest(t, nil)

	w := f.do(http.MethodPost, "/artists/create", artistForm("Guns N Petals"), "")
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	var artist model.Artist
	require.NoError(t, f.db.Preload("Genres").First(&artist).Error)
	assert.Equal(t, "Guns N Petals", artist.Name)
	assert.True(t, artist.SeekingVenue)
	assert.Equal(t, []string{"Rock n Roll"}, model.GenreNames(artist.Genres))

	flashes := f.homeFlashes(t, w)
	require.Len(t, flashes, 1)
	assert.Equal(t, "Artist Guns N Petals was successfully listed!", flashes[0].Message)
	assert.Equal(t, float64(1), listingCount(t, f, "artist", "create"))
}

func TestArtistController_CreateArtist_Invalid(t *testing.T) {
	f := setupControllerTest(t, nil)
	form := artistForm("Guns N Petals")
	form.Del("name")
	form.Set("image_link", "not a url")

	w := f.do(http.MethodPost, "/artists/create", form, gin.MIMEJSON)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp apperrors.ValidationErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "This field is required", resp.Fields["name"])
	assert.Equal(t, "Enter a valid URL", resp.Fields["image_link"])

	var count int64
	f.db.Model(&model.Artist{}).Count(&count)
	assert.Zero(t, count)
	assert.Zero(t, listingCount(t, f, "artist", "create"))
}

func TestArtistController_ListAndSearch(t *testing.T) {
	f := setupControllerTest(t, nil)
	petals := f.mustArtist(t, "Guns N Petals")
	f.mustArtist(t, "Matt Quevedo")
	f.mustArtist(t, "The Wild Sax Band")

	var artists []service.ArtistSummary
	w := f.getJSON(t, "/artists", &artists)
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, artists, 3)
	assert.Contains(t, artists, service.ArtistSummary{ID: petals.ID, Name: "Guns N Petals"})

	w = f.do(http.MethodPost, "/artists/search", url.Values{"search_term": {"A"}}, gin.MIMEJSON)
	require.Equal(t, http.StatusOK, w.Code)
	var resp SearchResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 3, resp.Count)

	w = f.do(http.MethodPost, "/artists/search", url.Values{"search_term": {"band"}}, gin.MIMEJSON)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Count)
	assert.Equal(t, "The Wild Sax Band", resp.Data[0].Name)
}

func TestArtistController_ShowArtist(t *testing.T) {
	f := setupControllerTest(t, nil)
	venue := f.mustVenue(t, "The Musical Hop", "San Francisco", "CA")
	artist := f.mustArtist(t, "Guns N Petals")
	f.mustShow(t, venue.ID, artist.ID, testNow.Add(-time.Hour))
	f.mustShow(t, venue.ID, artist.ID, testNow.Add(time.Hour))

	var detail service.ArtistDetail
	w := f.getJSON(t, fmt.Sprintf("/artists/%d", artist.ID), &detail)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, detail.PastShowsCount)
	assert.Equal(t, 1, detail.UpcomingShowsCount)
	assert.Equal(t, "The Musical Hop", detail.UpcomingShows[0].VenueName)

	html := f.do(http.MethodGet, fmt.Sprintf("/artists/%d", artist.ID), nil, "")
	assert.Equal(t, http.StatusOK, html.Code)
	assert.Contains(t, html.Body.String(), "Guns N Petals")

	w = f.getJSON(t, "/artists/9999", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestArtistController_EditArtist(t *testing.T) {
	f := setupControllerTest(t, nil)
	artist := f.mustArtist(t, "Guns N Petals")
	path := fmt.Sprintf("/artists/%d/edit", artist.ID)

	html := f.do(http.MethodGet, path, nil, "")
	require.Equal(t, http.StatusOK, html.Code)
	assert.Contains(t, html.Body.String(), `value="Guns N Petals"`)
	assert.Contains(t, html.Body.String(), `<option value="Rock n Roll" selected>`)

	update := artistForm("Guns N Petals")
	update.Set("city", "Oakland")
	update.Set("phone", "326-123-5001")
	update["genres"] = []string{"Rock n Roll", "Funk"}
	update.Set("seeking_description", "Looking for shows in the Bay Area")

	w := f.do(http.MethodPost, path, update, "")
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, fmt.Sprintf("/artists/%d", artist.ID), w.Header().Get("Location"))

	var stored model.Artist
	require.NoError(t, f.db.Preload("Genres").First(&stored, artist.ID).Error)
	assert.Equal(t, "Oakland", stored.City)
	assert.Equal(t, "326-123-5001", stored.Phone)
	assert.Equal(t, "Looking for shows in the Bay Area", stored.SeekingDescription)
	assert.True(t, stored.SeekingVenue)
	assert.Equal(t, []string{"Funk", "Rock n Roll"}, model.GenreNames(stored.Genres))

	flashes := f.homeFlashes(t, w)
	require.Len(t, flashes, 1)
	assert.Equal(t, "Artist Guns N Petals was successfully updated!", flashes[0].Message)

	missing := f.do(http.MethodPost, "/artists/9999/edit", update, gin.MIMEJSON)
	assert.Equal(t, http.StatusNotFound, missing.Code)
}
