package service

import (
	"context"
	"strings"

	"github.com/ikkim/fyyur-backend/internal/app/model"
	"github.com/ikkim/fyyur-backend/internal/app/repository"
	"github.com/ikkim/fyyur-backend/internal/validation"
)

// resolveGenres turns submitted genre names into seeded rows. Unknown or
// missing names are recorded on verr under the "genres" field.
func resolveGenres(ctx context.Context, repo repository.GenreRepository, names []string, verr *ValidationError) ([]model.Genre, error) {
	names = dedupeTrimmed(names)
	if len(names) == 0 {
		verr.Add("genres", "Select at least one genre")
		return nil, nil
	}

	var unknown []string
	for _, name := range names {
		if !model.IsValidGenre(name) {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		verr.Add("genres", "Unknown genre: "+strings.Join(unknown, ", "))
		return nil, nil
	}

	genres, err := repo.FindByNames(ctx, names)
	if err != nil {
		return nil, err
	}
	if len(genres) != len(names) {
		verr.Add("genres", "Genre list is out of date, reload the form")
		return nil, nil
	}
	return genres, nil
}

// checkRequired records a "required" error for each blank value.
func checkRequired(verr *ValidationError, fields map[string]string) {
	for field, value := range fields {
		if strings.TrimSpace(value) == "" {
			verr.Add(field, "This field is required")
		}
	}
}

// formatRule pairs a submitted value with the validator tags it must pass.
type formatRule struct {
	value string
	tag   string
}

// checkFormats records a problem for each value that fails its rule. Fields
// that already carry an error are left alone.
func checkFormats(verr *ValidationError, rules map[string]formatRule) {
	for field, rule := range rules {
		if _, failed := verr.Fields[field]; failed {
			continue
		}
		if msg := validation.Check(strings.TrimSpace(rule.value), rule.tag); msg != "" {
			verr.Add(field, msg)
		}
	}
}

// contactRules are the format checks shared by venues and artists.
func contactRules(state, phone, imageLink, facebookLink, website string) map[string]formatRule {
	return map[string]formatRule{
		"state":         {state, "omitempty,state"},
		"phone":         {phone, "omitempty,phone"},
		"image_link":    {imageLink, "omitempty,url"},
		"facebook_link": {facebookLink, "omitempty,url"},
		"website_link":  {website, "omitempty,url"},
	}
}
