package service

import (
	"context"
	"testing"
	"time"

	"github.com/ikkim/fyyur-backend/internal/app/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArtistService_ListArtists(t *testing.T) {
	f := setupServiceTest(t)

	artists, err := f.artists.ListArtists(context.Background())
	require.NoError(t, err)
	assert.Empty(t, artists)

	f.mustArtist(t, "The Wild Sax Band")
	f.mustArtist(t, "Guns N Petals")

	artists, err = f.artists.ListArtists(context.Background())
	require.NoError(t, err)
	require.Len(t, artists, 2)
	assert.Equal(t, "Guns N Petals", artists[0].Name)
	assert.Equal(t, "The Wild Sax Band", artists[1].Name)
}

func TestArtistService_SearchArtists(t *testing.T) {
	f := setupServiceTest(t)
	ctx := context.Background()

	guns := f.mustArtist(t, "Guns N Petals")
	f.mustArtist(t, "Matt Quevedo")
	f.mustArtist(t, "The Wild Sax Band")
	venue := f.mustVenue(t, "The Musical Hop", "San Francisco", "CA")
	f.mustShow(t, venue.ID, guns.ID, fixedNow.Add(time.Hour))
	f.mustShow(t, venue.ID, guns.ID, fixedNow.Add(2*time.Hour))

	result, err := f.artists.SearchArtists(ctx, "A")
	require.NoError(t, err)
	assert.Equal(t, 3, result.Count)

	result, err = f.artists.SearchArtists(ctx, "petals")
	require.NoError(t, err)
	require.Equal(t, 1, result.Count)
	assert.Equal(t, int64(2), result.Data[0].NumUpcomingShows)

	result, err = f.artists.SearchArtists(ctx, "Orchestra")
	require.NoError(t, err)
	assert.Equal(t, 0, result.Count)
	assert.Empty(t, result.Data)
}

func TestArtistService_GetArtistDetail(t *testing.T) {
	f := setupServiceTest(t)
	ctx := context.Background()

	artist := f.mustArtist(t, "Matt Quevedo")
	venue := f.mustVenue(t, "Park Square Live Music & Coffee", "San Francisco", "CA")
	f.mustShow(t, venue.ID, artist.ID, fixedNow.Add(-48*time.Hour))
	f.mustShow(t, venue.ID, artist.ID, fixedNow)

	detail, err := f.artists.GetArtistDetail(ctx, artist.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, detail.PastShowsCount)
	assert.Equal(t, 0, detail.UpcomingShowsCount)
	assert.Equal(t, "Park Square Live Music & Coffee", detail.PastShows[0].VenueName)
	assert.NotNil(t, detail.UpcomingShows)

	_, err = f.artists.GetArtistDetail(ctx, 404)
	assert.ErrorIs(t, err, ErrArtistNotFound)
}

func TestArtistService_UpdateArtist(t *testing.T) {
	f := setupServiceTest(t)
	ctx := context.Background()

	target := f.mustArtist(t, "Guns N Petals")
	bystander := f.mustArtist(t, "The Wild Sax Band")

	_, err := f.artists.UpdateArtist(ctx, target.ID, ArtistInput{
		Name:               "Guns N Roses",
		City:               "Los Angeles",
		State:              "ca",
		Phone:              "326-123-5000",
		ImageLink:          "https://example.com/gnr.jpg",
		FacebookLink:       "https://www.facebook.com/GunsNPetals",
		Website:            "https://www.gunsnpetalsband.com",
		Genres:             []string{"Rock n Roll", "Heavy Metal"},
		SeekingVenue:       true,
		SeekingDescription: "Looking for shows to perform at in the LA area!",
	})
	require.NoError(t, err)

	stored, err := f.artists.GetArtist(ctx, target.ID)
	require.NoError(t, err)
	assert.Equal(t, "Guns N Roses", stored.Name)
	assert.Equal(t, "Los Angeles", stored.City)
	assert.Equal(t, "CA", stored.State)
	assert.Equal(t, "326-123-5000", stored.Phone)
	assert.Equal(t, "https://example.com/gnr.jpg", stored.ImageLink)
	assert.Equal(t, "https://www.facebook.com/GunsNPetals", stored.FacebookLink)
	assert.Equal(t, "https://www.gunsnpetalsband.com", stored.Website)
	assert.True(t, stored.SeekingVenue)
	assert.Equal(t, "Looking for shows to perform at in the LA area!", stored.SeekingDescription)
	assert.Equal(t, []string{"Heavy Metal", "Rock n Roll"}, model.GenreNames(stored.Genres))

	other, err := f.artists.GetArtist(ctx, bystander.ID)
	require.NoError(t, err)
	assert.Equal(t, "The Wild Sax Band", other.Name)
	assert.Equal(t, "San Francisco", other.City)
	assert.False(t, other.SeekingVenue)
	assert.Equal(t, []string{"Rock n Roll"}, model.GenreNames(other.Genres))
}

func TestArtistService_UpdateArtist_Errors(t *testing.T) {
	f := setupServiceTest(t)
	ctx := context.Background()

	artist := f.mustArtist(t, "Matt Quevedo")

	_, err := f.artists.UpdateArtist(ctx, 9999, validArtistInput("Nobody"))
	assert.ErrorIs(t, err, ErrArtistNotFound)

	invalid := validArtistInput("")
	_, err = f.artists.UpdateArtist(ctx, artist.ID, invalid)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "name")

	stored, err := f.artists.GetArtist(ctx, artist.ID)
	require.NoError(t, err)
	assert.Equal(t, "Matt Quevedo", stored.Name)
}

func TestArtistService_RecentArtists(t *testing.T) {
	f := setupServiceTest(t)

	for _, name := range []string{"A", "B", "C"} {
		f.mustArtist(t, name)
	}

	recent, err := f.artists.RecentArtists(context.Background(), 10)
	require.NoError(t, err)
	assert.Len(t, recent, 3)
}

func TestArtistService_CreateArtist_RejectsMalformedFields(t *testing.T) {
	f := setupServiceTest(t)
	ctx := context.Background()

	input := validArtistInput("Guns N Petals")
	input.State = "ZZZZ"
	input.Phone = "abc"
	input.Website = "::nope"

	artist, err := f.artists.CreateArtist(ctx, input)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Nil(t, artist)
	assert.Contains(t, verr.Fields, "state")
	assert.Contains(t, verr.Fields, "phone")
	assert.Contains(t, verr.Fields, "website_link")

	var count int64
	f.db.Model(&model.Artist{}).Count(&count)
	assert.Zero(t, count)
}
