package service

import (
	"context"
	"time"

	"github.com/ikkim/fyyur-backend/internal/app/model"
	"github.com/ikkim/fyyur-backend/internal/app/repository"
	"github.com/ikkim/fyyur-backend/pkg/logger"
	"gorm.io/gorm"
)

type ShowInput struct {
	VenueID   uint
	ArtistID  uint
	StartTime time.Time
}

type ShowService interface {
	ListShows(ctx context.Context) ([]ShowListing, error)
	CreateShow(ctx context.Context, input ShowInput) (*model.Show, error)
}

type showService struct {
	db         *gorm.DB
	showRepo   repository.ShowRepository
	venueRepo  repository.VenueRepository
	artistRepo repository.ArtistRepository
}

func NewShowService(
	db *gorm.DB,
	showRepo repository.ShowRepository,
	venueRepo repository.VenueRepository,
	artistRepo repository.ArtistRepository,
) ShowService {
	return &showService{
		db:         db,
		showRepo:   showRepo,
		venueRepo:  venueRepo,
		artistRepo: artistRepo,
	}
}

func (s *showService) ListShows(ctx context.Context) ([]ShowListing, error) {
	shows, err := s.showRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]ShowListing, 0, len(shows))
	for _, show := range shows {
		out = append(out, ShowListing{
			VenueID:         show.VenueID,
			VenueName:       show.Venue.Name,
			ArtistID:        show.ArtistID,
			ArtistName:      show.Artist.Name,
			ArtistImageLink: show.Artist.ImageLink,
			StartTime:       show.StartTime.UTC(),
		})
	}
	return out, nil
}

// CreateShow inserts a show after confirming, in the same transaction, that
// both the venue and the artist exist. Unknown references come back as a
// *ValidationError.
func (s *showService) CreateShow(ctx context.Context, input ShowInput) (*model.Show, error) {
	verr := newValidationError()
	if input.VenueID == 0 {
		verr.Add("venue_id", "This field is required")
	}
	if input.ArtistID == 0 {
		verr.Add("artist_id", "This field is required")
	}
	if input.StartTime.IsZero() {
		verr.Add("start_time", "This field is required")
	}
	if verr.HasErrors() {
		return nil, verr
	}

	show := &model.Show{
		VenueID:   input.VenueID,
		ArtistID:  input.ArtistID,
		StartTime: input.StartTime.UTC(),
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		venueExists, err := s.venueRepo.WithTx(tx).Exists(ctx, input.VenueID)
		if err != nil {
			return err
		}
		if !venueExists {
			verr.Add("venue_id", "Venue does not exist")
		}

		artistExists, err := s.artistRepo.WithTx(tx).Exists(ctx, input.ArtistID)
		if err != nil {
			return err
		}
		if !artistExists {
			verr.Add("artist_id", "Artist does not exist")
		}

		if verr.HasErrors() {
			return verr
		}
		return s.showRepo.WithTx(tx).Create(ctx, show)
	})
	if err != nil {
		if verr.HasErrors() {
			logger.Warn("Show references rejected", map[string]interface{}{
				"venue_id":  input.VenueID,
				"artist_id": input.ArtistID,
				"fields":    verr.Fields,
			})
			return nil, verr
		}
		logger.Error("Failed to create show", err, map[string]interface{}{
			"venue_id":  input.VenueID,
			"artist_id": input.ArtistID,
		})
		return nil, err
	}

	logger.Info("Show created", map[string]interface{}{
		"show_id":    show.ID,
		"venue_id":   show.VenueID,
		"artist_id":  show.ArtistID,
		"start_time": show.StartTime,
	})
	return show, nil
}
