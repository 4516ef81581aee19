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

var ErrVenueNotFound = errors.New("venue not found")

// VenueInput is the full set of editable venue fields.
type VenueInput struct {
	Name               string
	City               string
	State              string
	Address            string
	Phone              string
	ImageLink          string
	FacebookLink       string
	Website            string
	Genres             []string
	SeekingTalent      bool
	SeekingDescription string
}

type VenueService interface {
	ListVenueGroupsByLocation(ctx context.Context) ([]VenueArea, error)
	SearchVenues(ctx context.Context, term string) (*SearchResult, error)
	GetVenueDetail(ctx context.Context, id uint) (*VenueDetail, error)
	GetVenue(ctx context.Context, id uint) (*model.Venue, error)
	CreateVenue(ctx context.Context, input VenueInput) (*model.Venue, error)
	UpdateVenue(ctx context.Context, id uint, input VenueInput) (*model.Venue, error)
	DeleteVenue(ctx context.Context, id uint) (*model.Venue, error)
	RecentVenues(ctx context.Context, limit int) ([]ListingSummary, error)
}

type venueService struct {
	venueRepo repository.VenueRepository
	genreRepo repository.GenreRepository
	clock     Clock
}

func NewVenueService(venueRepo repository.VenueRepository, genreRepo repository.GenreRepository, clock Clock) VenueService {
	if clock == nil {
		clock = SystemClock
	}
	return &venueService{
		venueRepo: venueRepo,
		genreRepo: genreRepo,
		clock:     clock,
	}
}

func (s *venueService) ListVenueGroupsByLocation(ctx context.Context) ([]VenueArea, error) {
	locations, err := s.venueRepo.ListLocations(ctx)
	if err != nil {
		return nil, err
	}

	venues, err := s.venueRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	counts, err := s.venueRepo.CountUpcomingShows(ctx, venueIDs(venues), s.clock().UTC())
	if err != nil {
		logger.Error("Failed to count upcoming venue shows", err)
		return nil, err
	}

	areas := make([]VenueArea, len(locations))
	index := make(map[string]int, len(locations))
	for i, loc := range locations {
		areas[i] = VenueArea{
			City:   loc.City,
			State:  loc.State,
			Venues: make([]ListingSummary, 0, loc.VenueCount),
		}
		index[loc.State+"\x00"+loc.City] = i
	}

	for _, v := range venues {
		i, ok := index[v.State+"\x00"+v.City]
		if !ok {
			// Inserted between the two reads.
			areas = append(areas, VenueArea{City: v.City, State: v.State})
			i = len(areas) - 1
			index[v.State+"\x00"+v.City] = i
		}
		areas[i].Venues = append(areas[i].Venues, summarize(v.ID, v.Name, counts))
	}

	logger.Info("Venue areas listed", map[string]interface{}{
		"areas":  len(areas),
		"venues": len(venues),
	})
	return areas, nil
}

func (s *venueService) SearchVenues(ctx context.Context, term string) (*SearchResult, error) {
	venues, err := s.venueRepo.SearchByName(ctx, term)
	if err != nil {
		return nil, err
	}

	counts, err := s.venueRepo.CountUpcomingShows(ctx, venueIDs(venues), s.clock().UTC())
	if err != nil {
		return nil, err
	}

	result := &SearchResult{Count: len(venues), Data: make([]ListingSummary, 0, len(venues))}
	for _, v := range venues {
		result.Data = append(result.Data, summarize(v.ID, v.Name, counts))
	}

	logger.Info("Venue search completed", map[string]interface{}{
		"term":  term,
		"count": result.Count,
	})
	return result, nil
}

func (s *venueService) GetVenueDetail(ctx context.Context, id uint) (*VenueDetail, error) {
	venue, err := s.venueRepo.FindDetailByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Venue not found", map[string]interface{}{
				"venue_id": id,
			})
			return nil, ErrVenueNotFound
		}
		return nil, err
	}

	now := s.clock().UTC()
	detail := &VenueDetail{
		ID:                 venue.ID,
		Name:               venue.Name,
		Genres:             model.GenreNames(venue.Genres),
		Address:            venue.Address,
		City:               venue.City,
		State:              venue.State,
		Phone:              venue.Phone,
		Website:            venue.Website,
		FacebookLink:       venue.FacebookLink,
		SeekingTalent:      venue.SeekingTalent,
		SeekingDescription: venue.SeekingDescription,
		ImageLink:          venue.ImageLink,
		PastShows:          []VenueShow{},
		UpcomingShows:      []VenueShow{},
	}

	for _, show := range venue.Shows {
		entry := VenueShow{
			ArtistID:        show.ArtistID,
			ArtistName:      show.Artist.Name,
			ArtistImageLink: show.Artist.ImageLink,
			StartTime:       show.StartTime.UTC(),
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

func (s *venueService) GetVenue(ctx context.Context, id uint) (*model.Venue, error) {
	venue, err := s.venueRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVenueNotFound
		}
		return nil, err
	}
	return venue, nil
}

func (s *venueService) CreateVenue(ctx context.Context, input VenueInput) (*model.Venue, error) {
	venue, err := s.buildVenue(ctx, input)
	if err != nil {
		return nil, err
	}

	if err := s.venueRepo.Create(ctx, venue); err != nil {
		logger.Error("Failed to create venue", err, map[string]interface{}{
			"name": venue.Name,
		})
		return nil, err
	}

	logger.Info("Venue created", map[string]interface{}{
		"venue_id": venue.ID,
		"name":     venue.Name,
	})
	return venue, nil
}

func (s *venueService) UpdateVenue(ctx context.Context, id uint, input VenueInput) (*model.Venue, error) {
	venue, err := s.buildVenue(ctx, input)
	if err != nil {
		return nil, err
	}
	venue.ID = id

	if err := s.venueRepo.Update(ctx, venue); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Venue to update not found", map[string]interface{}{
				"venue_id": id,
			})
			return nil, ErrVenueNotFound
		}
		logger.Error("Failed to update venue", err, map[string]interface{}{
			"venue_id": id,
		})
		return nil, err
	}

	logger.Info("Venue updated", map[string]interface{}{
		"venue_id": id,
		"name":     venue.Name,
	})
	return venue, nil
}

// DeleteVenue removes the venue and every show held there. The returned
// venue carries the name for the confirmation message.
func (s *venueService) DeleteVenue(ctx context.Context, id uint) (*model.Venue, error) {
	venue, err := s.venueRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVenueNotFound
		}
		return nil, err
	}

	removed, err := s.venueRepo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVenueNotFound
		}
		logger.Error("Failed to delete venue", err, map[string]interface{}{
			"venue_id": id,
		})
		return nil, err
	}

	logger.Info("Venue deleted", map[string]interface{}{
		"venue_id":      id,
		"removed_shows": removed,
	})
	return venue, nil
}

func (s *venueService) RecentVenues(ctx context.Context, limit int) ([]ListingSummary, error) {
	venues, err := s.venueRepo.FindRecent(ctx, limit)
	if err != nil {
		return nil, err
	}

	counts, err := s.venueRepo.CountUpcomingShows(ctx, venueIDs(venues), s.clock().UTC())
	if err != nil {
		return nil, err
	}

	out := make([]ListingSummary, 0, len(venues))
	for _, v := range venues {
		out = append(out, summarize(v.ID, v.Name, counts))
	}
	return out, nil
}

// Validate checks the fields that need no store lookup: required values
// and the state, phone and link formats. Genres are checked on save.
func (input VenueInput) Validate() *ValidationError {
	verr := newValidationError()
	checkRequired(verr, map[string]string{
		"name":    input.Name,
		"city":    input.City,
		"state":   input.State,
		"address": input.Address,
	})
	checkFormats(verr, contactRules(input.State, input.Phone, input.ImageLink, input.FacebookLink, input.Website))
	return verr
}

func (s *venueService) buildVenue(ctx context.Context, input VenueInput) (*model.Venue, error) {
	verr := input.Validate()

	genres, err := resolveGenres(ctx, s.genreRepo, input.Genres, verr)
	if err != nil {
		return nil, err
	}
	if verr.HasErrors() {
		logger.Warn("Venue input rejected", map[string]interface{}{
			"fields": verr.Fields,
		})
		return nil, verr
	}

	return &model.Venue{
		Name:               strings.TrimSpace(input.Name),
		City:               strings.TrimSpace(input.City),
		State:              strings.ToUpper(strings.TrimSpace(input.State)),
		Address:            strings.TrimSpace(input.Address),
		Phone:              strings.TrimSpace(input.Phone),
		ImageLink:          strings.TrimSpace(input.ImageLink),
		FacebookLink:       strings.TrimSpace(input.FacebookLink),
		Website:            strings.TrimSpace(input.Website),
		SeekingTalent:      input.SeekingTalent,
		SeekingDescription: strings.TrimSpace(input.SeekingDescription),
		Genres:             genres,
	}, nil
}

func venueIDs(venues []model.Venue) []uint {
	ids := make([]uint, 0, len(venues))
	for _, v := range venues {
		ids = append(ids, v.ID)
	}
	return ids
}
