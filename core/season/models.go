package season

import (
	"time"

	"github.com/aimelive/mcsa-awards/core"
)

// Season names
const (
	Season1 = "SEASON_1"
	Season2 = "SEASON_2"
	Season3 = "SEASON_3"
)

var AllNames = []string{Season1, Season2, Season3}

type Season struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	Name      string    `bson:"name" json:"name"`
	Date      time.Time `bson:"date" json:"date"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// Counts carries the number of related records.
type Counts struct {
	Performances int `json:"performances"`
	Awards       int `json:"awards"`
}

// Detail is a season joined with its related counts. The related content
// itself is composed at the API layer from the performance and award
// services.
type Detail struct {
	Season
	Counts *Counts `json:"_count,omitempty"`
}

// NewSeason contains information needed to create a new Season.
type NewSeason struct {
	Name string `json:"name" validate:"required,oneof=SEASON_1 SEASON_2 SEASON_3"`
	Date string `json:"date" validate:"required"`
}

func (ns *NewSeason) Validate() error {
	if err := core.Validate.Struct(ns); err != nil {
		return err
	}
	if _, err := time.Parse(time.RFC3339, ns.Date); err != nil {
		if _, err := time.Parse("2006-01-02", ns.Date); err != nil {
			return core.NewValidationError(nil, core.FieldError{Field: "date", Error: "must be a valid date string"})
		}
	}
	return nil
}

// ParsedDate returns the parsed Date; Validate must have succeeded.
func (ns *NewSeason) ParsedDate() time.Time {
	if t, err := time.Parse(time.RFC3339, ns.Date); err == nil {
		return t
	}
	t, _ := time.Parse("2006-01-02", ns.Date)
	return t
}

// UpdateSeason defines what information may be provided to modify a Season.
type UpdateSeason struct {
	Date string `json:"date" validate:"omitempty"`
}

func (us *UpdateSeason) IsEmpty() bool { return us.Date == "" }

func (us *UpdateSeason) Validate() error {
	if us.Date == "" {
		return nil
	}
	if _, err := time.Parse(time.RFC3339, us.Date); err != nil {
		if _, err := time.Parse("2006-01-02", us.Date); err != nil {
			return core.NewValidationError(nil, core.FieldError{Field: "date", Error: "must be a valid date string"})
		}
	}
	return nil
}

// ParsedDate returns the parsed Date; Validate must have succeeded.
func (us *UpdateSeason) ParsedDate() time.Time {
	if t, err := time.Parse(time.RFC3339, us.Date); err == nil {
		return t
	}
	t, _ := time.Parse("2006-01-02", us.Date)
	return t
}
