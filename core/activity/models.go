package activity

import (
	"time"

	"github.com/aimelive/mcsa-awards/core"
	"github.com/aimelive/mcsa-awards/core/profile"
)

type Activity struct {
	ID            string    `bson:"_id,omitempty" json:"id"`
	Title         string    `bson:"title" json:"title"`
	Caption       string    `bson:"caption" json:"caption"`
	Images        []string  `bson:"images" json:"images"`
	UserProfileID string    `bson:"userProfileId" json:"userProfileId"`
	CreatedAt     time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time `bson:"updatedAt" json:"updatedAt"`
}

// Detail is an activity joined with its owning profile.
type Detail struct {
	Activity
	UserProfile *profile.Profile `json:"userProfile,omitempty"`
}

// NewActivity contains information needed to create a new Activity.
// Images are raw sources; they are replaced by hosted urls before persisting.
type NewActivity struct {
	Title         string   `json:"title" validate:"required,min=20,max=100"`
	Caption       string   `json:"caption" validate:"required,min=50,max=300"`
	Images        []string `json:"images" validate:"required,min=3,max=5,unique,dive,required"`
	UserProfileID string   `json:"userProfileId" validate:"required,objectid"`
}

func (na *NewActivity) Validate() error {
	na.Title = core.CleanString(na.Title)
	na.Caption = core.CleanString(na.Caption)
	return core.Validate.Struct(na)
}

// UpdateActivity defines the text fields that may be modified; images are
// managed through the dedicated add/remove image operations.
type UpdateActivity struct {
	Title   string `json:"title" validate:"omitempty,min=20,max=100"`
	Caption string `json:"caption" validate:"omitempty,min=50,max=300"`
}

func (ua *UpdateActivity) Validate() error {
	ua.Title = core.CleanString(ua.Title)
	ua.Caption = core.CleanString(ua.Caption)
	return core.Validate.Struct(ua)
}

// ImageRef carries a single raw image source (add) or hosted url (remove).
type ImageRef struct {
	Image string `json:"image" validate:"required"`
}

func (ir *ImageRef) Validate() error {
	ir.Image = core.CleanString(ir.Image)
	return core.Validate.Struct(ir)
}
