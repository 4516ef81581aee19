package service

import (
	"context"
	"errors"
	"strings"

	"github.com/ikkim/fyyur-backend/internal/app/model"
	"github.com/ikkim/fyyur-backend/internal/app/repository"
	"github.com/ikkim/fyyur-backend/pkg/logger"
	"gorm.io/gorm"
)

var ErrArtistNotFound = errors.New("artist not found")

type ArtistInput struct {
	Name               string
	City               string
	State              string
	Phone              string
	ImageLink          string
	FacebookLink       string
	Website            string
	Genres             []string
	SeekingVenue       bool
	SeekingDescription string
}

type ArtistService interface {
	ListArtists(ctx context.Context) ([]ArtistSummary, error)
	SearchArtists(ctx context.Context, term string) (*SearchResult, error)
	GetArtistDetail(ctx context.Context, id uint) (*ArtistDetail, error)
	GetArtist(ctx context.Context, id uint) (*model.Artist, error)
	CreateArtist(ctx context.Context, input ArtistInput) (*model.Artist, error)
	UpdateArtist(ctx context.Context, id uint, input ArtistInput) (*model.Artist, error)
	RecentArtists(ctx context.Context, limit int) ([]ListingSummary, error)
}

type artistService struct {
	artistRepo repository.ArtistRepository
	genreRepo  repository.GenreRepository
	clock      Clock
}

func NewArtistService(artistRepo repository.ArtistRepository, genreRepo repository.GenreRepository, clock Clock) ArtistService {
	if clock == nil {
		clock = SystemClock
	}
	return &artistService{
		artistRepo: artistRepo,
		genreRepo:  genreRepo,
		clock:      clock,
	}
}

func (s *artistService) ListArtists(ctx context.Context) ([]ArtistSummary, error) {
	artists, err := s.artistRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]ArtistSummary, 0, len(artists))
	for _, a := range artists {
		out = append(out, ArtistSummary{ID: a.ID, Name: a.Name})
	}
	return out, nil
}

func (s *artistService) SearchArtists(ctx context.Context, term string) (*SearchResult, error) {
	artists, err := s.artistRepo.SearchByName(ctx, term)
	if err != nil {
		return nil, err
	}

	counts, err := s.artistRepo.CountUpcomingShows(ctx, artistIDs(artists), s.clock().UTC())
	if err != nil {
		return nil, err
	}

	result := &SearchResult{Count: len(artists), Data: make([]ListingSummary, 0, len(artists))}
	for _, a := range artists {
		result.Data = append(result.Data, summarize(a.ID, a.Name, counts))
	}

	logger.Info("Artist search completed", map[string]interface{}{
		"term":  term,
		"count": result.Count,
	})
	return result, nil
}

func (s *artistService) GetArtistDetail(ctx context.Context, id uint) (*ArtistDetail, error) {
	artist, err := s.artistRepo.FindDetailByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Artist not found", map[string]interface{}{
				"artist_id": id,
			})
			return nil, ErrArtistNotFound
		}
		return nil, err
	}

	now := s.clock().UTC()
	detail := &ArtistDetail{
		ID:                 artist.ID,
		Name:               artist.Name,
		Genres:             model.GenreNames(artist.Genres),
		City:               artist.City,
		State:              artist.State,
		Phone:              artist.Phone,
		Website:            artist.Website,
		FacebookLink:       artist.FacebookLink,
		SeekingVenue:       artist.SeekingVenue,
		SeekingDescription: artist.SeekingDescription,
		ImageLink:          artist.ImageLink,
		PastShows:          []ArtistShow{},
		UpcomingShows:      []ArtistShow{},
	}

	for _, show := range artist.Shows {
		entry := ArtistShow{
			VenueID:        show.VenueID,
			VenueName:      show.Venue.Name,
			VenueImageLink: show.Venue.ImageLink,
			StartTime:      show.StartTime.UTC(),
		}
		switch {
		case show.IsPast(now):
			detail.PastShows = append(detail.PastShows, entry)
		case show.IsUpcoming(now):
			detail.UpcomingShows = append(detail.UpcomingShows, entry)
		}
	}
	detail.PastShowsCount = len(detail.PastShows)
	detail.UpcomingShowsCount = len(detail.UpcomingShows)

	return detail, nil
}

func (s *artistService) GetArtist(ctx context.Context, id uint) (*model.Artist, error) {
	artist, err := s.artistRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrArtistNotFound
		}
		return nil, err
	}
	return artist, nil
}

func (s *artistService) CreateArtist(ctx context.Context, input ArtistInput) (*model.Artist, error) {
	artist, err := s.buildArtist(ctx, input)
	if err != nil {
		return nil, err
	}

	if err := s.artistRepo.Create(ctx, artist); err != nil {
		logger.Error("Failed to create artist", err, map[string]interface{}{
			"name": artist.Name,
		})
		return nil, err
	}

	logger.Info("Artist created", map[string]interface{}{
		"artist_id": artist.ID,
		"name":      artist.Name,
	})
	return artist, nil
}

func (s *artistService) UpdateArtist(ctx context.Context, id uint, input ArtistInput) (*model.Artist, error) {
	artist, err := s.buildArtist(ctx, input)
	if err != nil {
		return nil, err
	}
	artist.ID = id

	if err := s.artistRepo.Update(ctx, artist); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Artist to update not found", map[string]interface{}{
				"artist_id": id,
			})
			return nil, ErrArtistNotFound
		}
		logger.Error("Failed to update artist", err, map[string]interface{}{
			"artist_id": id,
		})
		return nil, err
	}

	logger.Info("Artist updated", map[string]interface{}{
		"artist_id": id,
		"name":      artist.Name,
	})
	return artist, nil
}

func (s *artistService) RecentArtists(ctx context.Context, limit int) ([]ListingSummary, error) {
	artists, err := s.artistRepo.FindRecent(ctx, limit)
	if err != nil {
		return nil, err
	}

	counts, err := s.artistRepo.CountUpcomingShows(ctx, artistIDs(artists), s.clock().UTC())
	if err != nil {
		return nil, err
	}

	out := make([]ListingSummary, 0, len(artists))
	for _, a := range artists {
		out = append(out, summarize(a.ID, a.Name, counts))
	}
	return out, nil
}

// Validate checks the fields that need no store lookup: required values
// and the state, phone and link formats. Genres are checked on save.
func (input ArtistInput) Validate() *ValidationError {
	verr := newValidationError()
	checkRequired(verr, map[string]string{
		"name":  input.Name,
		"city":  input.City,
		"state": input.State,
	})
	checkFormats(verr, contactRules(input.State, input.Phone, input.ImageLink, input.FacebookLink, input.Website))
	return verr
}

func (s *artistService) buildArtist(ctx context.Context, input ArtistInput) (*model.Artist, error) {
	verr := input.Validate()

	genres, err := resolveGenres(ctx, s.genreRepo, input.Genres, verr)
	if err != nil {
		return nil, err
	}
	if verr.HasErrors() {
		logger.Warn("Artist input rejected", map[string]interface{}{
			"fields": verr.Fields,
		})
		return nil, verr
	}

	return &model.Artist{
		Name:               strings.TrimSpace(input.Name),
		City:               strings.TrimSpace(input.City),
		State:              strings.ToUpper(strings.TrimSpace(input.State)),
		Phone:              strings.TrimSpace(input.Phone),
		ImageLink:          strings.TrimSpace(input.ImageLink),
		FacebookLink:       strings.TrimSpace(input.FacebookLink),
		Website:            strings.TrimSpace(input.Website),
		SeekingVenue:       input.SeekingVenue,
		SeekingDescription: strings.TrimSpace(input.SeekingDescription),
		Genres:             genres,
	}, nil
}

func artistIDs(artists []model.Artist) []uint {
	ids := make([]uint, 0, len(artists))
	for _, a := range artists {
		ids = append(ids, a.ID)
	}
	return ids
}
