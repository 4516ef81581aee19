package model

import "time"

type Artist struct {
	ID                 uint      `gorm:"primarykey" json:"id"`
	Name               string    `gorm:"not null;index" json:"name"`
	City               string    `gorm:"type:varchar(120);not null" json:"city"`
	State              string    `gorm:"type:varchar(2);not null" json:"state"`
	Phone              string    `gorm:"type:varchar(20)" json:"phone"`
	ImageLink          string    `gorm:"type:varchar(500)" json:"image_link"`
	FacebookLink       string    `gorm:"type:varchar(500)" json:"facebook_link"`
	Website            string    `gorm:"type:varchar(500)" json:"website"`
	SeekingVenue       bool      `gorm:"default:false" json:"seeking_venue"`
	SeekingDescription string    `gorm:"type:text" json:"seeking_description"`
	Genres             []Genre   `gorm:"many2many:artist_genres;constraint:OnDelete:CASCADE" json:"genres,omitempty"`
	Shows              []Show    `gorm:"foreignKey:ArtistID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

func (Artist) TableName() string {
	return "artists"
}
