package repository

import (
	"context"
	"time"

	"github.com/ikkim/fyyur-backend/internal/app/model"
	"github.com/ikkim/fyyur-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ArtistRepository interface {
	WithTx(tx *gorm.DB) ArtistRepository
	Create(ctx context.Context, artist *model.Artist) error
	Update(ctx context.Context, artist *model.Artist) error
	FindByID(ctx context.Context, id uint) (*model.Artist, error)
	FindDetailByID(ctx context.Context, id uint) (*model.Artist, error)
	Exists(ctx context.Context, id uint) (bool, error)
	FindAll(ctx context.Context) ([]model.Artist, error)
	SearchByName(ctx context.Context, term string) ([]model.Artist, error)
	FindRecent(ctx context.Context, limit int) ([]model.Artist, error)
	CountUpcomingShows(ctx context.Context, ids []uint, now time.Time) (map[uint]int64, error)
}

type artistRepository struct {
	db *gorm.DB
}

func NewArtistRepository(db *gorm.DB) ArtistRepository {
	return &artistRepository{db: db}
}

func (r *artistRepository) WithTx(tx *gorm.DB) ArtistRepository {
	return &artistRepository{db: tx}
}

func (r *artistRepository) Create(ctx context.Context, artist *model.Artist) error {
	logger.Debug("Creating artist in database", map[string]interface{}{
		"name": artist.Name,
		"city": artist.City,
	})

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Omit("Genres.*", "Shows").Create(artist).Error
	})
	if err != nil {
		logger.Error("Failed to create artist in database", err, map[string]interface{}{
			"name": artist.Name,
		})
		return err
	}

	logger.Debug("Artist created in database", map[string]interface{}{
		"artist_id": artist.ID,
		"name":      artist.Name,
	})
	return nil
}

// Update overwrites every column of an existing artist and replaces its
// genre set. It returns gorm.ErrRecordNotFound when the artist is missing.
func (r *artistRepository) Update(ctx context.Context, artist *model.Artist) error {
	logger.Debug("Updating artist in database", map[string]interface{}{
		"artist_id": artist.ID,
		"name":      artist.Name,
	})

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current model.Artist
		if err := tx.Select("id", "created_at").First(&current, artist.ID).Error; err != nil {
			return err
		}
		artist.CreatedAt = current.CreatedAt

		if err := tx.Model(&model.Artist{ID: artist.ID}).
			Select("*").
			Omit("id", "created_at", clause.Associations).
			Updates(artist).Error; err != nil {
			return err
		}

		return tx.Model(&model.Artist{ID: artist.ID}).Association("Genres").Replace(artist.Genres)
	})
	if err != nil {
		logger.Error("Failed to update artist in database", err, map[string]interface{}{
			"artist_id": artist.ID,
		})
		return err
	}

	logger.Debug("Artist updated in database", map[string]interface{}{
		"artist_id": artist.ID,
	})
	return nil
}

func (r *artistRepository) FindByID(ctx context.Context, id uint) (*model.Artist, error) {
	var artist model.Artist
	if err := r.db.WithContext(ctx).Preload("Genres").First(&artist, id).Error; err != nil {
		logger.Debug("Artist lookup failed", map[string]interface{}{
			"artist_id": id,
			"error":     err.Error(),
		})
		return nil, err
	}
	return &artist, nil
}

// FindDetailByID loads the artist with genres and every show, each show
// carrying its venue.
func (r *artistRepository) FindDetailByID(ctx context.Context, id uint) (*model.Artist, error) {
	var artist model.Artist
	err := r.db.WithContext(ctx).
		Preload("Genres").
		Preload("Shows", func(db *gorm.DB) *gorm.DB {
			return db.Order("start_time ASC")
		}).
		Preload("Shows.Venue").
		First(&artist, id).Error
	if err != nil {
		logger.Debug("Artist detail lookup failed", map[string]interface{}{
			"artist_id": id,
			"error":     err.Error(),
		})
		return nil, err
	}
	return &artist, nil
}

func (r *artistRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Artist{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindAll returns id and name only, ordered by name.
func (r *artistRepository) FindAll(ctx context.Context) ([]model.Artist, error) {
	var artists []model.Artist
	if err := r.db.WithContext(ctx).
		Select("id", "name").
		Order("name ASC").
		Find(&artists).Error; err != nil {
		logger.Error("Failed to list artists", err)
		return nil, err
	}
	return artists, nil
}

func (r *artistRepository) SearchByName(ctx context.Context, term string) ([]model.Artist, error) {
	logger.Debug("Searching artists by name", map[string]interface{}{
		"term": term,
	})

	var artists []model.Artist
	if err := r.db.WithContext(ctx).
		Where(nameLikeClause, containsPattern(term)).
		Order("name ASC").
		Find(&artists).Error; err != nil {
		logger.Error("Failed to search artists", err, map[string]interface{}{
			"term": term,
		})
		return nil, err
	}
	return artists, nil
}

func (r *artistRepository) FindRecent(ctx context.Context, limit int) ([]model.Artist, error) {
	var artists []model.Artist
	if err := r.db.WithContext(ctx).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&artists).Error; err != nil {
		return nil, err
	}
	return artists, nil
}

func (r *artistRepository) CountUpcomingShows(ctx context.Context, ids []uint, now time.Time) (map[uint]int64, error) {
	return countUpcomingShows(ctx, r.db, "artist_id", ids, now)
}
