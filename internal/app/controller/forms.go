package controller

import (
	"strings"

	"github.com/ikkim/fyyur-backend/internal/app/model"
	"github.com/ikkim/fyyur-backend/internal/app/service"
)

// VenueForm is the venue create/edit form. Checkboxes arrive as "y" when
// ticked and are absent otherwise.
type VenueForm struct {
	Name               string   `form:"name" json:"name" binding:"required"`
	City               string   `form:"city" json:"city" binding:"required"`
	State              string   `form:"state" json:"state" binding:"required,state"`
	Address            string   `form:"address" json:"address" binding:"required"`
	Phone              string   `form:"phone" json:"phone" binding:"omitempty,phone"`
	ImageLink          string   `form:"image_link" json:"image_link" binding:"omitempty,url"`
	FacebookLink       string   `form:"facebook_link" json:"facebook_link" binding:"omitempty,url"`
	WebsiteLink        string   `form:"website_link" json:"website_link" binding:"omitempty,url"`
	Genres             []string `form:"genres" json:"genres" binding:"required,min=1,dive,genre"`
	SeekingTalent      string   `form:"seeking_talent" json:"seeking_talent"`
	SeekingDescription string   `form:"seeking_description" json:"seeking_description"`
}

func (f VenueForm) IsSeeking() bool {
	return checked(f.SeekingTalent)
}

func (f VenueForm) Input() service.VenueInput {
	return service.VenueInput{
		Name:               f.Name,
		City:               f.City,
		State:              f.State,
		Address:            f.Address,
		Phone:              f.Phone,
		ImageLink:          f.ImageLink,
		FacebookLink:       f.FacebookLink,
		Website:            f.WebsiteLink,
		Genres:             f.Genres,
		SeekingTalent:      f.IsSeeking(),
		SeekingDescription: f.SeekingDescription,
	}
}

func venueFormFrom(v *model.Venue) VenueForm {
	return VenueForm{
		Name:               v.Name,
		City:               v.City,
		State:              v.State,
		Address:            v.Address,
		Phone:              v.Phone,
		ImageLink:          v.ImageLink,
		FacebookLink:       v.FacebookLink,
		WebsiteLink:        v.Website,
		Genres:             model.GenreNames(v.Genres),
		SeekingTalent:      checkbox(v.SeekingTalent),
		SeekingDescription: v.SeekingDescription,
	}
}

type ArtistForm struct {
	Name               string   `form:"name" json:"name" binding:"required"`
	City               string   `form:"city" json:"city" binding:"required"`
	State              string   `form:"state" json:"state" binding:"required,state"`
	Phone              string   `form:"phone" json:"phone" binding:"omitempty,phone"`
	ImageLink          string   `form:"image_link" json:"image_link" binding:"omitempty,url"`
	FacebookLink       string   `form:"facebook_link" json:"facebook_link" binding:"omitempty,url"`
	WebsiteLink        string   `form:"website_link" json:"website_link" binding:"omitempty,url"`
	Genres             []string `form:"genres" json:"genres" binding:"required,min=1,dive,genre"`
	SeekingVenue       string   `form:"seeking_venue" json:"seeking_venue"`
	SeekingDescription string   `form:"seeking_description" json:"seeking_description"`
}

func (f ArtistForm) IsSeeking() bool {
	return checked(f.SeekingVenue)
}

func (f ArtistForm) Input() service.ArtistInput {
	return service.ArtistInput{
		Name:               f.Name,
		City:               f.City,
		State:              f.State,
		Phone:              f.Phone,
		ImageLink:          f.ImageLink,
		FacebookLink:       f.FacebookLink,
		Website:            f.WebsiteLink,
		Genres:             f.Genres,
		SeekingVenue:       f.IsSeeking(),
		SeekingDescription: f.SeekingDescription,
	}
}

func artistFormFrom(a *model.Artist) ArtistForm {
	return ArtistForm{
		Name:               a.Name,
		City:               a.City,
		State:              a.State,
		Phone:              a.Phone,
		ImageLink:          a.ImageLink,
		FacebookLink:       a.FacebookLink,
		WebsiteLink:        a.Website,
		Genres:             model.GenreNames(a.Genres),
		SeekingVenue:       checkbox(a.SeekingVenue),
		SeekingDescription: a.SeekingDescription,
	}
}

// ShowForm keeps ids and time as text so a bad value is reported on its
// field instead of failing the whole bind.
type ShowForm struct {
	ArtistID  string `form:"artist_id" json:"artist_id" binding:"required,numeric"`
	VenueID   string `form:"venue_id" json:"venue_id" binding:"required,numeric"`
	StartTime string `form:"start_time" json:"start_time" binding:"required"`
}

type SearchForm struct {
	SearchTerm string `form:"search_term" json:"search_term"`
}

func checked(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "y", "yes", "on", "true", "1":
		return true
	}
	return false
}

func checkbox(b bool) string {
	if b {
		return "y"
	}
	return ""
}
