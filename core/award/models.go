package award

import (
	"time"

	"github.com/aimelive/mcsa-awards/core"
	"github.com/aimelive/mcsa-awards/core/profile"
	"github.com/aimelive/mcsa-awards/core/season"
)

// Categories
const (
	CategorySinger  = "Singer"
	CategoryDancer  = "Dancer"
	CategoryFashion = "Fashion"
	CategoryComedy  = "Comedy"
	CategoryModel   = "Model"
)

var AllCategories = []string{CategorySinger, CategoryDancer, CategoryFashion, CategoryComedy, CategoryModel}

// MaxCertificateDownloads is the per-award certificate download allowance.
// Decremented on each download, never replenished automatically.
const MaxCertificateDownloads = 5

type Award struct {
	ID                          string     `bson:"_id,omitempty" json:"id"`
	Title                       string     `bson:"title" json:"title"`
	Caption                     string     `bson:"caption" json:"caption"`
	Category                    string     `bson:"category" json:"category"`
	UserProfileID               string     `bson:"userProfileId" json:"userProfileId"`
	SeasonName                  string     `bson:"seasonName" json:"seasonName"`
	FeaturedPhoto               string     `bson:"featuredPhoto,omitempty" json:"featuredPhoto,omitempty"`
	CertificateDownloads        int        `bson:"certificateDownloads" json:"certificateDownloads"`
	CertificateLastDownloadedAt *time.Time `bson:"certificateLastDownloadedAt,omitempty" json:"certificateLastDownloadedAt,omitempty"`
	CreatedAt                   time.Time  `bson:"createdAt" json:"createdAt"`
	UpdatedAt                   time.Time  `bson:"updatedAt" json:"updatedAt"`
}

// Detail is an award joined with its season and owning profile.
type Detail struct {
	Award
	Season      *season.Season   `json:"season,omitempty"`
	UserProfile *profile.Profile `json:"userProfile,omitempty"`
}

// NewAward contains information needed to create a new Award.
// Image is a raw source; it is replaced by a hosted url before persisting.
type NewAward struct {
	Title         string `json:"title" validate:"required,min=20,max=100"`
	Caption       string `json:"caption" validate:"required,min=50,max=300"`
	Category      string `json:"category" validate:"required,oneof=Singer Dancer Fashion Comedy Model"`
	UserProfileID string `json:"userProfileId" validate:"required,objectid"`
	SeasonName    string `json:"seasonName" validate:"required,oneof=SEASON_1 SEASON_2 SEASON_3"`
	Image         string `json:"image" validate:"required"`
}

func (na *NewAward) Validate() error {
	na.Title = core.CleanString(na.Title)
	na.Caption = core.CleanString(na.Caption)
	return core.Validate.Struct(na)
}

// UpdateAward defines what information may be provided to modify an Award.
type UpdateAward struct {
	Title      string `json:"title" validate:"omitempty,min=20,max=100"`
	Caption    string `json:"caption" validate:"omitempty,min=50,max=300"`
	Category   string `json:"category" validate:"omitempty,oneof=Singer Dancer Fashion Comedy Model"`
	SeasonName string `json:"seasonName" validate:"omitempty,oneof=SEASON_1 SEASON_2 SEASON_3"`
	Image      string `json:"image"`
}

func (ua *UpdateAward) Validate() error {
	ua.Title = core.CleanString(ua.Title)
	ua.Caption = core.CleanString(ua.Caption)
	return core.Validate.Struct(ua)
}
