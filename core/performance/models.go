package performance

import (
	"time"

	"github.com/aimelive/mcsa-awards/core"
	"github.com/aimelive/mcsa-awards/core/profile"
)

type Performance struct {
	ID            string    `bson:"_id,omitempty" json:"id"`
	Title         string    `bson:"title" json:"title"`
	Description   string    `bson:"description" json:"description"`
	SeasonName    string    `bson:"seasonName" json:"seasonName"`
	VideoURL      string    `bson:"videoUrl" json:"videoUrl"`
	Duration      string    `bson:"duration" json:"duration"`
	Images        []string  `bson:"images" json:"images"`
	UserProfileID string    `bson:"userProfileId" json:"userProfileId"`
	CreatedAt     time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time `bson:"updatedAt" json:"updatedAt"`
}

// Detail is a performance joined with its owning profile.
type Detail struct {
	Performance
	UserProfile *profile.Profile `json:"userProfile,omitempty"`
}

// NewPerformance contains information needed to create a new Performance.
// Images are raw sources; they are replaced by hosted urls before persisting.
type NewPerformance struct {
	Title         string   `json:"title" validate:"required,min=20,max=100"`
	Description   string   `json:"description" validate:"required,min=50,max=300"`
	SeasonName    string   `json:"seasonName" validate:"required,oneof=SEASON_1 SEASON_2 SEASON_3"`
	VideoURL      string   `json:"videoUrl" validate:"required,youtube_url"`
	Duration      string   `json:"duration" validate:"required,duration"`
	Images        []string `json:"images" validate:"required,min=3,max=5,unique,dive,required"`
	UserProfileID string   `json:"userProfileId" validate:"required,objectid"`
}

func (np *NewPerformance) Validate() error {
	np.Title = core.CleanString(np.Title)
	np.Description = core.CleanString(np.Description)
	return core.Validate.Struct(np)
}

// UpdatePerformance defines the fields that may be modified; images are
// managed through the dedicated add/remove image operations.
type UpdatePerformance struct {
	Title       string `json:"title" validate:"omitempty,min=20,max=100"`
	Description string `json:"description" validate:"omitempty,min=50,max=300"`
	SeasonName  string `json:"seasonName" validate:"omitempty,oneof=SEASON_1 SEASON_2 SEASON_3"`
	VideoURL    string `json:"videoUrl" validate:"omitempty,youtube_url"`
	Duration    string `json:"duration" validate:"omitempty,duration"`
}

func (up *UpdatePerformance) Validate() error {
	up.Title = core.CleanString(up.Title)
	up.Description = core.CleanString(up.Description)
	return core.Validate.Struct(up)
}

// ImageRef carries a single raw image source (add) or hosted url (remove).
type ImageRef struct {
	Image string `json:"image" validate:"required"`
}

func (ir *ImageRef) Validate() error {
	ir.Image = core.CleanString(ir.Image)
	return core.Validate.Struct(ir)
}
