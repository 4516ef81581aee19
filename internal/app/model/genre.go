package model

import "time"

// GenreName is one of the closed set of musical styles a venue or artist
// can be tagged with.
type GenreName string

const (
	GenreAlternative    GenreName = "Alternative"
	GenreBlues          GenreName = "Blues"
	GenreClassical      GenreName = "Classical"
	GenreCountry        GenreName = "Country"
	GenreElectronic     GenreName = "Electronic"
	GenreFolk           GenreName = "Folk"
	GenreFunk           GenreName = "Funk"
	GenreHipHop         GenreName = "Hip-Hop"
	GenreHeavyMetal     GenreName = "Heavy Metal"
	GenreInstrumental   GenreName = "Instrumental"
	GenreJazz           GenreName = "Jazz"
	GenreMusicalTheatre GenreName = "Musical Theatre"
	GenrePop            GenreName = "Pop"
	GenrePunk           GenreName = "Punk"
	GenreRnB            GenreName = "R&B"
	GenreReggae         GenreName = "Reggae"
	GenreRockNRoll      GenreName = "Rock n Roll"
	GenreSoul           GenreName = "Soul"
	GenreOther          GenreName = "Other"
)

// AllGenres lists every genre in display order.
var AllGenres = []GenreName{
	GenreAlternative, GenreBlues, GenreClassical, GenreCountry, GenreElectronic,
	GenreFolk, GenreFunk, GenreHipHop, GenreHeavyMetal, GenreInstrumental,
	GenreJazz, GenreMusicalTheatre, GenrePop, GenrePunk, GenreRnB,
	GenreReggae, GenreRockNRoll, GenreSoul, GenreOther,
}

// IsValidGenre reports whether name belongs to AllGenres.
func IsValidGenre(name string) bool {
	for _, g := range AllGenres {
		if string(g) == name {
			return true
		}
	}
	return false
}

// Genre is a row of the seeded genres table.
type Genre struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Name      GenreName `gorm:"type:varchar(50);uniqueIndex;not null" json:"name"`
	CreatedAt time.Time `json:"-"`
}

func (Genre) TableName() string {
	return "genres"
}

// GenreNames flattens a loaded association into display names, preserving
// the canonical AllGenres order.
func GenreNames(genres []Genre) []string {
	present := make(map[GenreName]bool, len(genres))
	for _, g := range genres {
		present[g.Name] = true
	}
	names := make([]string, 0, len(genres))
	for _, g := range AllGenres {
		if present[g] {
			names = append(names, string(g))
		}
	}
	return names
}
