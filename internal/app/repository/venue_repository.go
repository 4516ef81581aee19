package repository

import (
	"context"
	"time"

	"github.com/ikkim/fyyur-backend/internal/app/model"
	"github.com/ikkim/fyyur-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// VenueLocation is one distinct (state, city) pair with its venue count.
type VenueLocation struct {
	State      string
	City       string
	VenueCount int64
}

type VenueRepository interface {
	WithTx(tx *gorm.DB) VenueRepository
	Create(ctx context.Context, venue *model.Venue) error
	Update(ctx context.Context, venue *model.Venue) error
	Delete(ctx context.Context, id uint) (int64, error)
	FindByID(ctx context.Context, id uint) (*model.Venue, error)
	FindDetailByID(ctx context.Context, id uint) (*model.Venue, error)
	Exists(ctx context.Context, id uint) (bool, error)
	FindAll(ctx context.Context) ([]model.Venue, error)
	SearchByName(ctx context.Context, term string) ([]model.Venue, error)
	FindRecent(ctx context.Context, limit int) ([]model.Venue, error)
	ListLocations(ctx context.Context) ([]VenueLocation, error)
	CountUpcomingShows(ctx context.Context, ids []uint, now time.Time) (map[uint]int64, error)
}

type venueRepository struct {
	db *gorm.DB
}

func NewVenueRepository(db *gorm.DB) VenueRepository {
	return &venueRepository{db: db}
}

func (r *venueRepository) WithTx(tx *gorm.DB) VenueRepository {
	return &venueRepository{db: tx}
}

// Create inserts the venue and its genre links in one transaction.
func (r *venueRepository) Create(ctx context.Context, venue *model.Venue) error {
	logger.Debug("Creating venue in database", map[string]interface{}{
		"name":  venue.Name,
		"city":  venue.City,
		"state": venue.State,
	})

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Omit("Genres.*", "Shows").Create(venue).Error
	})
	if err != nil {
		logger.Error("Failed to create venue in database", err, map[string]interface{}{
			"name": venue.Name,
		})
		return err
	}

	logger.Debug("Venue created in database", map[string]interface{}{
		"venue_id": venue.ID,
		"name":     venue.Name,
	})
	return nil
}

// Update overwrites every column of an existing venue and replaces its
// genre set. It returns gorm.ErrRecordNotFound when the venue is missing.
func (r *venueRepository) Update(ctx context.Context, venue *model.Venue) error {
	logger.Debug("Updating venue in database", map[string]interface{}{
		"venue_id": venue.ID,
		"name":     venue.Name,
	})

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current model.Venue
		if err := tx.Select("id", "created_at").First(&current, venue.ID).Error; err != nil {
			return err
		}
		venue.CreatedAt = current.CreatedAt

		if err := tx.Model(&model.Venue{ID: venue.ID}).
			Select("*").
			Omit("id", "created_at", clause.Associations).
			Updates(venue).Error; err != nil {
			return err
		}

		return tx.Model(&model.Venue{ID: venue.ID}).Association("Genres").Replace(venue.Genres)
	})
	if err != nil {
		logger.Error("Failed to update venue in database", err, map[string]interface{}{
			"venue_id": venue.ID,
		})
		return err
	}

	logger.Debug("Venue updated in database", map[string]interface{}{
		"venue_id": venue.ID,
	})
	return nil
}

// Delete removes the venue together with its shows and genre links, so no
// show is ever left pointing at a missing venue. It reports how many shows
// were removed.
func (r *venueRepository) Delete(ctx context.Context, id uint) (int64, error) {
	logger.Debug("Deleting venue from database", map[string]interface{}{
		"venue_id": id,
	})

	var removedShows int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var venue model.Venue
		if err := tx.Select("id").First(&venue, id).Error; err != nil {
			return err
		}

		res := tx.Where("venue_id = ?", id).Delete(&model.Show{})
		if res.Error != nil {
			return res.Error
		}
		removedShows = res.RowsAffected

		if err := tx.Model(&venue).Association("Genres").Clear(); err != nil {
			return err
		}
		return tx.Delete(&venue).Error
	})
	if err != nil {
		logger.Error("Failed to delete venue from database", err, map[string]interface{}{
			"venue_id": id,
		})
		return 0, err
	}

	logger.Debug("Venue deleted from database", map[string]interface{}{
		"venue_id":      id,
		"removed_shows": removedShows,
	})
	return removedShows, nil
}

func (r *venueRepository) FindByID(ctx context.Context, id uint) (*model.Venue, error) {
	var venue model.Venue
	if err := r.db.WithContext(ctx).Preload("Genres").First(&venue, id).Error; err != nil {
		logger.Debug("Venue lookup failed", map[string]interface{}{
			"venue_id": id,
			"error":    err.Error(),
		})
		return nil, err
	}
	return &venue, nil
}

// FindDetailByID loads the venue with genres and every show, each show
// carrying its artist.
func (r *venueRepository) FindDetailByID(ctx context.Context, id uint) (*model.Venue, error) {
	var venue model.Venue
	err := r.db.WithContext(ctx).
		Preload("Genres").
		Preload("Shows", func(db *gorm.DB) *gorm.DB {
			return db.Order("start_time ASC")
		}).
		Preload("Shows.Artist").
		First(&venue, id).Error
	if err != nil {
		logger.Debug("Venue detail lookup failed", map[string]interface{}{
			"venue_id": id,
			"error":    err.Error(),
		})
		return nil, err
	}
	return &venue, nil
}

func (r *venueRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Venue{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *venueRepository) FindAll(ctx context.Context) ([]model.Venue, error) {
	var venues []model.Venue
	if err := r.db.WithContext(ctx).
		Order("state ASC, city ASC, name ASC").
		Find(&venues).Error; err != nil {
		logger.Error("Failed to list venues", err)
		return nil, err
	}
	return venues, nil
}

func (r *venueRepository) SearchByName(ctx context.Context, term string) ([]model.Venue, error) {
	logger.Debug("Searching venues by name", map[string]interface{}{
		"term": term,
	})

	var venues []model.Venue
	if err := r.db.WithContext(ctx).
		Where(nameLikeClause, containsPattern(term)).
		Order("name ASC").
		Find(&venues).Error; err != nil {
		logger.Error("Failed to search venues", err, map[string]interface{}{
			"term": term,
		})
		return nil, err
	}
	return venues, nil
}

func (r *venueRepository) FindRecent(ctx context.Context, limit int) ([]model.Venue, error) {
	var venues []model.Venue
	if err := r.db.WithContext(ctx).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&venues).Error; err != nil {
		return nil, err
	}
	return venues, nil
}

func (r *venueRepository) ListLocations(ctx context.Context) ([]VenueLocation, error) {
	var locations []VenueLocation
	if err := r.db.WithContext(ctx).Model(&model.Venue{}).
		Select("state, city, COUNT(*) AS venue_count").
		Group("state, city").
		Order("state ASC, city ASC").
		Scan(&locations).Error; err != nil {
		logger.Error("Failed to list venue locations", err)
		return nil, err
	}
	return locations, nil
}

func (r *venueRepository) CountUpcomingShows(ctx context.Context, ids []uint, now time.Time) (map[uint]int64, error) {
	return countUpcomingShows(ctx, r.db, "venue_id", ids, now)
}
