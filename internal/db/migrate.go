package db

import (
	"fmt"
	"time"

	"github.com/ikkim/fyyur-backend/internal/app/model"
	"github.com/ikkim/fyyur-backend/pkg/logger"
	"gorm.io/gorm"
)

// Models lists every table in dependency order.
func Models() []interface{} {
	return []interface{}{
		&model.Genre{},
		&model.Venue{},
		&model.Artist{},
		&model.Show{},
	}
}

// Migrate creates or updates the schema and seeds the genre table.
func Migrate(db *gorm.DB) error {
	logger.Info("Running database migrations...")

	models := Models()
	if err := db.AutoMigrate(models...); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	if err := SeedGenres(db); err != nil {
		logger.Error("Failed to seed genres during migration", err)
		return err
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"models_count": len(models),
	})
	return nil
}

// SeedGenres inserts any genre from model.AllGenres that is not yet present.
func SeedGenres(db *gorm.DB) error {
	var existing []model.Genre
	if err := db.Find(&existing).Error; err != nil {
		return err
	}

	have := make(map[model.GenreName]bool, len(existing))
	for _, g := range existing {
		have[g.Name] = true
	}

	inserted := 0
	for _, name := range model.AllGenres {
		if have[name] {
			continue
		}
		if err := db.Create(&model.Genre{Name: name}).Error; err != nil {
			logger.Error("Failed to create genre", err, map[string]interface{}{
				"genre": name,
			})
			return err
		}
		inserted++
	}

	if inserted > 0 {
		logger.Info("Genres seeded", map[string]interface{}{
			"inserted": inserted,
		})
	}
	return nil
}

// SeedSampleData loads the demo venues, artists and shows when the venues
// table is empty. Show times are fixed so two shows are in the past and
// three far in the future.
func SeedSampleData(db *gorm.DB) error {
	var count int64
	if err := db.Model(&model.Venue{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		logger.Info("Sample data already present, skipping...", map[string]interface{}{
			"existing_venues": count,
		})
		return nil
	}

	logger.Info("Seeding sample venues, artists and shows...")

	return db.Transaction(func(tx *gorm.DB) error {
		genres := func(names ...model.GenreName) ([]model.Genre, error) {
			var found []model.Genre
			if err := tx.Where("name IN ?", names).Find(&found).Error; err != nil {
				return nil, err
			}
			if len(found) != len(names) {
				return nil, fmt.Errorf("expected %d genres, found %d", len(names), len(found))
			}
			return found, nil
		}

		venues := []struct {
			venue  model.Venue
			genres []model.GenreName
		}{
			{
				venue: model.Venue{
					Name: "The Musical Hop", City: "San Francisco", State: "CA",
					Address: "1015 Folsom Street", Phone: "123-123-1234",
					Website:            "https://www.themusicalhop.com",
					FacebookLink:       "https://www.facebook.com/TheMusicalHop",
					SeekingTalent:      true,
					SeekingDescription: "We are on the lookout for a local artist to play every two weeks. Please call us.",
					ImageLink:          "https://images.unsplash.com/photo-1543900694-133f37abaaa5?auto=format&fit=crop&w=400&q=60",
				},
				genres: []model.GenreName{model.GenreJazz, model.GenreReggae, model.GenreClassical, model.GenreFolk},
			},
			{
				venue: model.Venue{
					Name: "The Dueling Pianos Bar", City: "New York", State: "NY",
					Address: "335 Delancey Street", Phone: "914-003-1132",
					Website:      "https://www.theduelingpianos.com",
					FacebookLink: "https://www.facebook.com/theduelingpianos",
					ImageLink:    "https://images.unsplash.com/photo-1497032205916-ac775f0649ae?auto=format&fit=crop&w=750&q=80",
				},
				genres: []model.GenreName{model.GenreClassical, model.GenreRnB, model.GenreHipHop},
			},
			{
				venue: model.Venue{
					Name: "Park Square Live Music & Coffee", City: "San Francisco", State: "CA",
					Address: "34 Whiskey Moore Ave", Phone: "415-000-1234",
					Website:      "https://www.parksquarelivemusicandcoffee.com",
					FacebookLink: "https://www.facebook.com/ParkSquareLiveMusicAndCoffee",
					ImageLink:    "https://images.unsplash.com/photo-1485686531765-ba63b07845a7?auto=format&fit=crop&w=747&q=80",
				},
				genres: []model.GenreName{model.GenreRockNRoll, model.GenreJazz, model.GenreClassical, model.GenreFolk},
			},
		}

		artists := []struct {
			artist model.Artist
			genres []model.GenreName
		}{
			{
				artist: model.Artist{
					Name: "Guns N Petals", City: "San Francisco", State: "CA", Phone: "326-123-5000",
					Website:            "https://www.gunsnpetalsband.com",
					FacebookLink:       "https://www.facebook.com/GunsNPetals",
					SeekingVenue:       true,
					SeekingDescription: "Looking for shows to perform at in the San Francisco Bay Area!",
					ImageLink:          "https://images.unsplash.com/photo-1549213783-8284d0336c4f?auto=format&fit=crop&w=300&q=80",
				},
				genres: []model.GenreName{model.GenreRockNRoll},
			},
			{
				artist: model.Artist{
					Name: "Matt Quevedo", City: "New York", State: "NY", Phone: "300-400-5000",
					FacebookLink: "https://www.facebook.com/mattquevedo923251523",
					ImageLink:    "https://images.unsplash.com/photo-1495223153807-b916f75de8c5?auto=format&fit=crop&w=334&q=80",
				},
				genres: []model.GenreName{model.GenreJazz},
			},
			{
				artist: model.Artist{
					Name: "The Wild Sax Band", City: "San Francisco", State: "CA", Phone: "432-325-5432",
					ImageLink: "https://images.unsplash.com/photo-1558369981-f9ca78462e61?auto=format&fit=crop&w=794&q=80",
				},
				genres: []model.GenreName{model.GenreJazz, model.GenreClassical},
			},
		}

		venueIDs := make([]uint, 0, len(venues))
		for _, v := range venues {
			g, err := genres(v.genres...)
			if err != nil {
				return err
			}
			venue := v.venue
			venue.Genres = g
			if err := tx.Create(&venue).Error; err != nil {
				return err
			}
			venueIDs = append(venueIDs, venue.ID)
		}

		artistIDs := make([]uint, 0, len(artists))
		for _, a := range artists {
			g, err := genres(a.genres...)
			if err != nil {
				return err
			}
			artist := a.artist
			artist.Genres = g
			if err := tx.Create(&artist).Error; err != nil {
				return err
			}
			artistIDs = append(artistIDs, artist.ID)
		}

		shows := []model.Show{
			{VenueID: venueIDs[0], ArtistID: artistIDs[0], StartTime: time.Date(2019, 5, 21, 21, 30, 0, 0, time.UTC)},
			{VenueID: venueIDs[2], ArtistID: artistIDs[1], StartTime: time.Date(2019, 6, 15, 23, 0, 0, 0, time.UTC)},
			{VenueID: venueIDs[2], ArtistID: artistIDs[2], StartTime: time.Date(2035, 4, 1, 20, 0, 0, 0, time.UTC)},
			{VenueID: venueIDs[2], ArtistID: artistIDs[2], StartTime: time.Date(2035, 4, 8, 20, 0, 0, 0, time.UTC)},
			{VenueID: venueIDs[2], ArtistID: artistIDs[2], StartTime: time.Date(2035, 4, 15, 20, 0, 0, 0, time.UTC)},
		}
		if err := tx.Create(&shows).Error; err != nil {
			return err
		}

		logger.Info("Sample data seeded successfully", map[string]interface{}{
			"venues":  len(venueIDs),
			"artists": len(artistIDs),
			"shows":   len(shows),
		})
		return nil
	})
}
