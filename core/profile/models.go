package profile

import (
	"time"

	"github.com/aimelive/mcsa-awards/core"
)

type Profile struct {
	ID          string    `bson:"_id,omitempty" json:"id"`
	Username    string    `bson:"username" json:"username"`
	Bio         string    `bson:"bio" json:"bio"`
	PhoneNumber string    `bson:"phoneNumber,omitempty" json:"phoneNumber,omitempty"`
	ProfilePic  string    `bson:"profilePic,omitempty" json:"profilePic,omitempty"`
	UserID      string    `bson:"userId" json:"userId"`
	CreatedAt   time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time `bson:"updatedAt" json:"updatedAt"`
}

// Counts carries the number of related records, returned on detail reads.
type Counts struct {
	Performances int `json:"performances"`
	Activities   int `json:"activities"`
	Awards       int `json:"awards"`
}

// NewProfile contains information needed to create a user's Profile.
// Image is a raw source; it is replaced by a hosted url before persisting.
type NewProfile struct {
	Username    string `json:"username" validate:"required,alphanum,min=5,max=20"`
	Bio         string `json:"bio" validate:"required,min=3,max=300"`
	Image       string `json:"image" validate:"required"`
	PhoneNumber string `json:"phoneNumber" validate:"omitempty,phone_rw"`
}

func (np *NewProfile) Validate() error {
	np.Username = core.CleanString(np.Username, true)
	np.Bio = core.CleanString(np.Bio)
	return core.Validate.Struct(np)
}

// UpdateProfile defines what information may be provided to modify a Profile.
type UpdateProfile struct {
	Username    string `json:"username" validate:"omitempty,alphanum,min=5,max=20"`
	Bio         string `json:"bio" validate:"omitempty,min=3,max=300"`
	Image       string `json:"image"`
	PhoneNumber string `json:"phoneNumber" validate:"omitempty,phone_rw"`
}

func (up *UpdateProfile) Validate() error {
	up.Username = core.CleanString(up.Username, true)
	up.Bio = core.CleanString(up.Bio)
	return core.Validate.Struct(up)
}
