// Package spreadsheet reads and writes the XLSX workbooks used to bulk load
// listings and to export the show calendar.
package spreadsheet

import (
	"fmt"
	"io"

	"github.com/ikkim/fyyur-backend/internal/app/service"
	"github.com/xuri/excelize/v2"
)

const (
	SheetVenues  = "Venues"
	SheetArtists = "Artists"
	SheetShows   = "Shows"

	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	timeLayout = "2006-01-02 15:04:05"
)

var showExportHeader = []interface{}{"Start Time (UTC)", "Venue ID", "Venue", "Artist ID", "Artist"}

// WriteShows writes shows to w as a single sheet workbook, one row per show
// in the given order.
func WriteShows(w io.Writer, shows []service.ShowListing) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetShows); err != nil {
		return err
	}

	if err := f.SetSheetRow(SheetShows, "A1", &showExportHeader); err != nil {
		return err
	}

	for i, show := range shows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{
			show.StartTime.UTC().Format(timeLayout),
			show.VenueID,
			show.VenueName,
			show.ArtistID,
			show.ArtistName,
		}
		if err := f.SetSheetRow(SheetShows, cell, &row); err != nil {
			return fmt.Errorf("write show row %d: %w", i+2, err)
		}
	}

	if err := f.SetColWidth(SheetShows, "A", "A", 22); err != nil {
		return err
	}
	if err := f.SetColWidth(SheetShows, "C", "E", 32); err != nil {
		return err
	}

	_, err := f.WriteTo(w)
	return err
}
