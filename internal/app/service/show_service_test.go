package service

import (
	"context"
	"testing"
	"time"

	"github.com/ikkim/fyyur-backend/internal/app/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShowService_CreateShow(t *testing.T) {
	f := setupServiceTest(t)
	ctx := context.Background()

	venue := f.mustVenue(t, "The Musical Hop", "San Francisco", "CA")
	artist := f.mustArtist(t, "Guns N Petals")
	start := time.Date(2035, 4, 1, 20, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		input      ShowInput
		wantFields []string
	}{
		{
			name:  "Valid show",
			input: ShowInput{VenueID: venue.ID, ArtistID: artist.ID, StartTime: start},
		},
		{
			name:       "Unknown venue",
			input:      ShowInput{VenueID: 9999, ArtistID: artist.ID, StartTime: start},
			wantFields: []string{"venue_id"},
		},
		{
			name:       "Unknown venue and artist",
			input:      ShowInput{VenueID: 9999, ArtistID: 8888, StartTime: start},
			wantFields: []string{"venue_id", "artist_id"},
		},
		{
			name:       "Missing everything",
			input:      ShowInput{},
			wantFields: []string{"venue_id", "artist_id", "start_time"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var before int64
			f.db.Model(&model.Show{}).Count(&before)

			show, err := f.shows.CreateShow(ctx, tt.input)

			var after int64
			f.db.Model(&model.Show{}).Count(&after)

			if len(tt.wantFields) > 0 {
				var verr *ValidationError
				require.ErrorAs(t, err, &verr)
				assert.Len(t, verr.Fields, len(tt.wantFields))
				for _, field := range tt.wantFields {
					assert.Contains(t, verr.Fields, field)
				}
				assert.Nil(t, show)
				assert.Equal(t, before, after)
				return
			}

			require.NoError(t, err)
			assert.NotZero(t, show.ID)
			assert.Equal(t, before+1, after)
		})
	}
}

func TestShowService_ListShows(t *testing.T) {
	f := setupServiceTest(t)
	ctx := context.Background()

	shows, err := f.shows.ListShows(ctx)
	require.NoError(t, err)
	assert.Empty(t, shows)

	venue := f.mustVenue(t, "The Dueling Pianos Bar", "New York", "NY")
	artist := f.mustArtist(t, "The Wild Sax Band")
	f.mustShow(t, venue.ID, artist.ID, time.Date(2035, 4, 15, 20, 0, 0, 0, time.UTC))
	f.mustShow(t, venue.ID, artist.ID, time.Date(2035, 4, 8, 20, 0, 0, 0, time.UTC))

	shows, err = f.shows.ListShows(ctx)
	require.NoError(t, err)
	require.Len(t, shows, 2)
	assert.Equal(t, ShowListing{
		VenueID:    venue.ID,
		VenueName:  "The Dueling Pianos Bar",
		ArtistID:   artist.ID,
		ArtistName: "The Wild Sax Band",
		StartTime:  time.Date(2035, 4, 8, 20, 0, 0, 0, time.UTC),
	}, shows[0])
	assert.Equal(t, time.Date(2035, 4, 15, 20, 0, 0, 0, time.UTC), shows[1].StartTime)
}

func TestValidationError_Error(t *testing.T) {
	verr := newValidationError()
	assert.False(t, verr.HasErrors())

	verr.Add("name", "This field is required")
	verr.Add("city", "This field is required")
	assert.True(t, verr.HasErrors())
	assert.Equal(t, "validation failed: city: This field is required, name: This field is required", verr.Error())
}

func TestParseStartTime(t *testing.T) {
	want := time.Date(2035, 4, 1, 20, 0, 0, 0, time.UTC)

	tests := []struct {
		input   string
		want    time.Time
		wantErr bool
	}{
		{"2035-04-01 20:00:00", want, false},
		{"2035-04-01T20:00", want, false},
		{"2035-04-01T22:00:00+02:00", want, false},
		{" 2035-04-01 20:00 ", want, false},
		{"next tuesday", time.Time{}, true},
		{"", time.Time{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseStartTime(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got))
			assert.Equal(t, time.UTC, got.Location())
		})
	}
}
