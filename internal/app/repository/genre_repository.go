package repository

import (
	"context"

	"github.com/ikkim/fyyur-backend/internal/app/model"
	"github.com/ikkim/fyyur-backend/pkg/logger"
	"gorm.io/gorm"
)

type GenreRepository interface {
	FindAll(ctx context.Context) ([]model.Genre, error)
	FindByNames(ctx context.Context, names []string) ([]model.Genre, error)
}

type genreRepository struct {
	db *gorm.DB
}

func NewGenreRepository(db *gorm.DB) GenreRepository {
	return &genreRepository{db: db}
}

func (r *genreRepository) FindAll(ctx context.Context) ([]model.Genre, error) {
	var genres []model.Genre
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&genres).Error; err != nil {
		logger.Error("Failed to list genres", err)
		return nil, err
	}
	return genres, nil
}

// FindByNames returns the genre rows whose name is in names. Unknown names
// are silently absent from the result; callers compare lengths.
func (r *genreRepository) FindByNames(ctx context.Context, names []string) ([]model.Genre, error) {
	if len(names) == 0 {
		return []model.Genre{}, nil
	}

	var genres []model.Genre
	if err := r.db.WithContext(ctx).Where("name IN ?", names).Find(&genres).Error; err != nil {
		logger.Error("Failed to find genres by name", err, map[string]interface{}{
			"names": names,
		})
		return nil, err
	}
	return genres, nil
}
