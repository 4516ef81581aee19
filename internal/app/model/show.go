package model

import "time"

// Show books one artist at one venue at a start time.
type Show struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	StartTime time.Time `gorm:"not null;index" json:"start_time"`
	VenueID   uint      `gorm:"not null;index" json:"venue_id"`
	ArtistID  uint      `gorm:"not null;index" json:"artist_id"`
	Venue     Venue     `gorm:"foreignKey:VenueID" json:"-"`
	Artist    Artist    `gorm:"foreignKey:ArtistID" json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

func (Show) TableName() string {
	return "shows"
}

// IsPast reports whether the show started strictly before now.
func (s Show) IsPast(now time.Time) bool {
	return s.StartTime.Before(now)
}

// IsUpcoming reports whether the show starts strictly after now. A show
// starting exactly at now is neither past nor upcoming.
func (s Show) IsUpcoming(now time.Time) bool {
	return s.StartTime.After(now)
}
