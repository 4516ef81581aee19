package repository

import (
	"context"

	"github.com/ikkim/fyyur-backend/internal/app/model"
	"github.com/ikkim/fyyur-backend/pkg/logger"
	"gorm.io/gorm"
)

type ShowRepository interface {
	WithTx(tx *gorm.DB) ShowRepository
	Create(ctx context.Context, show *model.Show) error
	FindAll(ctx context.Context) ([]model.Show, error)
}

type showRepository struct {
	db *gorm.DB
}

func NewShowRepository(db *gorm.DB) ShowRepository {
	return &showRepository{db: db}
}

func (r *showRepository) WithTx(tx *gorm.DB) ShowRepository {
	return &showRepository{db: tx}
}

func (r *showRepository) Create(ctx context.Context, show *model.Show) error {
	logger.Debug("Creating show in database", map[string]interface{}{
		"venue_id":   show.VenueID,
		"artist_id":  show.ArtistID,
		"start_time": show.StartTime,
	})

	if err := r.db.WithContext(ctx).Omit("Venue", "Artist").Create(show).Error; err != nil {
		logger.Error("Failed to create show in database", err, map[string]interface{}{
			"venue_id":  show.VenueID,
			"artist_id": show.ArtistID,
		})
		return err
	}

	logger.Debug("Show created in database", map[string]interface{}{
		"show_id": show.ID,
	})
	return nil
}

// FindAll returns every show with its venue and artist, earliest first.
func (r *showRepository) FindAll(ctx context.Context) ([]model.Show, error) {
	var shows []model.Show
	if err := r.db.WithContext(ctx).
		Preload("Venue").
		Preload("Artist").
		Order("start_time ASC, id ASC").
		Find(&shows).Error; err != nil {
		logger.Error("Failed to list shows", err)
		return nil, err
	}
	return shows, nil
}
