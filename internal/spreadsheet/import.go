package spreadsheet

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/ikkim/fyyur-backend/internal/app/model"
	"github.com/ikkim/fyyur-backend/internal/app/repository"
	"github.com/ikkim/fyyur-backend/internal/app/service"
	"github.com/ikkim/fyyur-backend/pkg/logger"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// VenueRow is one line of the Venues sheet. Genres hold a comma separated
// list in the workbook.
type VenueRow struct {
	Line               int
	Name               string
	City               string
	State              string
	Address            string
	Phone              string
	Genres             []string
	ImageLink          string
	FacebookLink       string
	Website            string
	SeekingTalent      bool
	SeekingDescription string
}

type ArtistRow struct {
	Line               int
	Name               string
	City               string
	State              string
	Phone              string
	Genres             []string
	ImageLink          string
	FacebookLink       string
	Website            string
	SeekingVenue       bool
	SeekingDescription string
}

// input carries the row through the same field checks as the venue form.
func (row VenueRow) input() service.VenueInput {
	return service.VenueInput{
		Name:               row.Name,
		City:               row.City,
		State:              row.State,
		Address:            row.Address,
		Phone:              row.Phone,
		ImageLink:          row.ImageLink,
		FacebookLink:       row.FacebookLink,
		Website:            row.Website,
		Genres:             row.Genres,
		SeekingTalent:      row.SeekingTalent,
		SeekingDescription: row.SeekingDescription,
	}
}

func (row ArtistRow) input() service.ArtistInput {
	return service.ArtistInput{
		Name:               row.Name,
		City:               row.City,
		State:              row.State,
		Phone:              row.Phone,
		ImageLink:          row.ImageLink,
		FacebookLink:       row.FacebookLink,
		Website:            row.Website,
		Genres:             row.Genres,
		SeekingVenue:       row.SeekingVenue,
		SeekingDescription: row.SeekingDescription,
	}
}

// ShowRow references its venue and artist by name.
type ShowRow struct {
	Line       int
	VenueName  string
	ArtistName string
	StartTime  time.Time
}

type Workbook struct {
	Venues  []VenueRow
	Artists []ArtistRow
	Shows   []ShowRow
}

// ReadWorkbook parses the Venues, Artists and Shows sheets. Each sheet is
// optional; its first row must be a header naming the columns.
func ReadWorkbook(r io.Reader) (*Workbook, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	wb := &Workbook{}

	venueRows, err := sheetRecords(f, SheetVenues)
	if err != nil {
		return nil, err
	}
	for _, rec := range venueRows {
		wb.Venues = append(wb.Venues, VenueRow{
			Line:               rec.line,
			Name:               rec.get("name"),
			City:               rec.get("city"),
			State:              strings.ToUpper(rec.get("state")),
			Address:            rec.get("address"),
			Phone:              rec.get("phone"),
			Genres:             splitList(rec.get("genres")),
			ImageLink:          rec.get("image_link"),
			FacebookLink:       rec.get("facebook_link"),
			Website:            rec.get("website"),
			SeekingTalent:      parseFlag(rec.get("seeking_talent")),
			SeekingDescription: rec.get("seeking_description"),
		})
	}

	artistRows, err := sheetRecords(f, SheetArtists)
	if err != nil {
		return nil, err
	}
	for _, rec := range artistRows {
		wb.Artists = append(wb.Artists, ArtistRow{
			Line:               rec.line,
			Name:               rec.get("name"),
			City:               rec.get("city"),
			State:              strings.ToUpper(rec.get("state")),
			Phone:              rec.get("phone"),
			Genres:             splitList(rec.get("genres")),
			ImageLink:          rec.get("image_link"),
			FacebookLink:       rec.get("facebook_link"),
			Website:            rec.get("website"),
			SeekingVenue:       parseFlag(rec.get("seeking_venue")),
			SeekingDescription: rec.get("seeking_description"),
		})
	}

	showRows, err := sheetRecords(f, SheetShows)
	if err != nil {
		return nil, err
	}
	for _, rec := range showRows {
		start, err := service.ParseStartTime(rec.get("start_time"))
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", SheetShows, rec.line, err)
		}
		wb.Shows = append(wb.Shows, ShowRow{
			Line:       rec.line,
			VenueName:  rec.get("venue"),
			ArtistName: rec.get("artist"),
			StartTime:  start,
		})
	}

	return wb, nil
}

type record struct {
	line   int
	values map[string]string
}

func (r record) get(column string) string {
	return r.values[column]
}

// sheetRecords returns the non-blank data rows of sheet keyed by the
// normalized header. A missing sheet yields no records.
func sheetRecords(f *excelize.File, sheet string) ([]record, error) {
	if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		return nil, nil
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s sheet: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	header := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		header[i] = normalizeHeader(h)
	}

	var records []record
	for i, row := range rows[1:] {
		values := make(map[string]string, len(header))
		blank := true
		for col, cell := range row {
			if col >= len(header) || header[col] == "" {
				continue
			}
			cell = strings.TrimSpace(cell)
			if cell != "" {
				blank = false
			}
			values[header[col]] = cell
		}
		if blank {
			continue
		}
		records = append(records, record{line: i + 2, values: values})
	}
	return records, nil
}

func normalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	h = strings.ReplaceAll(h, " ", "_")
	switch h {
	case "website_link":
		return "website"
	case "venue_name":
		return "venue"
	case "artist_name":
		return "artist"
	}
	return h
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parseFlag(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "y", "yes", "true", "1", "x":
		return true
	}
	return false
}

// ImportResult counts the rows written per sheet.
type ImportResult struct {
	Venues  int
	Artists int
	Shows   int
}

// Importer writes a Workbook through the repositories, one transaction per
// sheet. A bad row aborts its whole sheet.
type Importer struct {
	db         *gorm.DB
	venueRepo  repository.VenueRepository
	artistRepo repository.ArtistRepository
	showRepo   repository.ShowRepository
	genreRepo  repository.GenreRepository
}

func NewImporter(db *gorm.DB) *Importer {
	return &Importer{
		db:         db,
		venueRepo:  repository.NewVenueRepository(db),
		artistRepo: repository.NewArtistRepository(db),
		showRepo:   repository.NewShowRepository(db),
		genreRepo:  repository.NewGenreRepository(db),
	}
}

func (im *Importer) Import(ctx context.Context, wb *Workbook) (*ImportResult, error) {
	genres, err := im.genreRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	genreByName := make(map[string]model.Genre, len(genres))
	for _, g := range genres {
		genreByName[string(g.Name)] = g
	}

	result := &ImportResult{}

	if len(wb.Venues) > 0 {
		err := im.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			repo := im.venueRepo.WithTx(tx)
			for _, row := range wb.Venues {
				if err := requireCells(SheetVenues, row.Line, map[string]string{
					"name": row.Name, "city": row.City, "state": row.State, "address": row.Address,
				}); err != nil {
					return err
				}
				if verr := row.input().Validate(); verr.HasErrors() {
					return fmt.Errorf("%s row %d: %w", SheetVenues, row.Line, verr)
				}
				linked, err := lookupGenres(SheetVenues, row.Line, row.Genres, genreByName)
				if err != nil {
					return err
				}
				venue := &model.Venue{
					Name:               row.Name,
					City:               row.City,
					State:              row.State,
					Address:            row.Address,
					Phone:              row.Phone,
					ImageLink:          row.ImageLink,
					FacebookLink:       row.FacebookLink,
					Website:            row.Website,
					SeekingTalent:      row.SeekingTalent,
					SeekingDescription: row.SeekingDescription,
					Genres:             linked,
				}
				if err := repo.Create(ctx, venue); err != nil {
					return fmt.Errorf("%s row %d: %w", SheetVenues, row.Line, err)
				}
			}
			return nil
		})
		if err != nil {
			return result, err
		}
		result.Venues = len(wb.Venues)
		logger.Info("Venues imported", map[string]interface{}{"count": result.Venues})
	}

	if len(wb.Artists) > 0 {
		err := im.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			repo := im.artistRepo.WithTx(tx)
			for _, row := range wb.Artists {
				if err := requireCells(SheetArtists, row.Line, map[string]string{
					"name": row.Name, "city": row.City, "state": row.State,
				}); err != nil {
					return err
				}
				if verr := row.input().Validate(); verr.HasErrors() {
					return fmt.Errorf("%s row %d: %w", SheetArtists, row.Line, verr)
				}
				linked, err := lookupGenres(SheetArtists, row.Line, row.Genres, genreByName)
				if err != nil {
					return err
				}
				artist := &model.Artist{
					Name:               row.Name,
					City:               row.City,
					State:              row.State,
					Phone:              row.Phone,
					ImageLink:          row.ImageLink,
					FacebookLink:       row.FacebookLink,
					Website:            row.Website,
					SeekingVenue:       row.SeekingVenue,
					SeekingDescription: row.SeekingDescription,
					Genres:             linked,
				}
				if err := repo.Create(ctx, artist); err != nil {
					return fmt.Errorf("%s row %d: %w", SheetArtists, row.Line, err)
				}
			}
			return nil
		})
		if err != nil {
			return result, err
		}
		result.Artists = len(wb.Artists)
		logger.Info("Artists imported", map[string]interface{}{"count": result.Artists})
	}

	if len(wb.Shows) > 0 {
		err := im.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			venueIDs, artistIDs, err := im.nameIndex(ctx, tx)
			if err != nil {
				return err
			}
			repo := im.showRepo.WithTx(tx)
			for _, row := range wb.Shows {
				venueID, ok := venueIDs[strings.ToLower(row.VenueName)]
				if !ok {
					return fmt.Errorf("%s row %d: unknown venue %q", SheetShows, row.Line, row.VenueName)
				}
				artistID, ok := artistIDs[strings.ToLower(row.ArtistName)]
				if !ok {
					return fmt.Errorf("%s row %d: unknown artist %q", SheetShows, row.Line, row.ArtistName)
				}
				show := &model.Show{VenueID: venueID, ArtistID: artistID, StartTime: row.StartTime}
				if err := repo.Create(ctx, show); err != nil {
					return fmt.Errorf("%s row %d: %w", SheetShows, row.Line, err)
				}
			}
			return nil
		})
		if err != nil {
			return result, err
		}
		result.Shows = len(wb.Shows)
		logger.Info("Shows imported", map[string]interface{}{"count": result.Shows})
	}

	return result, nil
}

// nameIndex maps lower-cased names to ids. When names repeat the first id
// in listing order wins.
func (im *Importer) nameIndex(ctx context.Context, tx *gorm.DB) (map[string]uint, map[string]uint, error) {
	venues, err := im.venueRepo.WithTx(tx).FindAll(ctx)
	if err != nil {
		return nil, nil, err
	}
	artists, err := im.artistRepo.WithTx(tx).FindAll(ctx)
	if err != nil {
		return nil, nil, err
	}

	venueIDs := make(map[string]uint, len(venues))
	for _, v := range venues {
		key := strings.ToLower(v.Name)
		if _, exists := venueIDs[key]; !exists {
			venueIDs[key] = v.ID
		}
	}
	artistIDs := make(map[string]uint, len(artists))
	for _, a := range artists {
		key := strings.ToLower(a.Name)
		if _, exists := artistIDs[key]; !exists {
			artistIDs[key] = a.ID
		}
	}
	return venueIDs, artistIDs, nil
}

func requireCells(sheet string, line int, cells map[string]string) error {
	for column, value := range cells {
		if value == "" {
			return fmt.Errorf("%s row %d: %s is required", sheet, line, column)
		}
	}
	return nil
}

func lookupGenres(sheet string, line int, names []string, byName map[string]model.Genre) ([]model.Genre, error) {
	if len(names) == 0 {
		return nil, fmt.Errorf("%s row %d: at least one genre is required", sheet, line)
	}
	out := make([]model.Genre, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		g, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("%s row %d: unknown genre %q", sheet, line, name)
		}
		if seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, g)
	}
	return out, nil
}
