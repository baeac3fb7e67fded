package user

import (
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/aimelive/mcsa-awards/core"
	"github.com/aimelive/mcsa-awards/core/activity"
	"github.com/aimelive/mcsa-awards/core/award"
	"github.com/aimelive/mcsa-awards/core/performance"
	"github.com/aimelive/mcsa-awards/core/profile"
)

// Roles
const (
	RoleUser       = "USER"
	RoleAdmin      = "ADMIN"
	RoleSuperAdmin = "SUPER_ADMIN"
)

// Statuses
const (
	StatusActive    = "ACTIVE"
	StatusInactive  = "INACTIVE"
	StatusSuspended = "SUSPENDED"
)

var (
	AllRoles    = []string{RoleUser, RoleAdmin, RoleSuperAdmin}
	AllStatuses = []string{StatusActive, StatusInactive, StatusSuspended}
)

// RoleSatisfies reports whether `role` grants access to an endpoint requiring
// `required`. SUPER_ADMIN satisfies any requirement.
func RoleSatisfies(role, required string) bool {
	if role == RoleSuperAdmin {
		return true
	}
	return role == required
}

type User struct {
	ID           string    `bson:"_id,omitempty" json:"id"`
	FirstName    string    `bson:"firstName" json:"firstName"`
	LastName     string    `bson:"lastName,omitempty" json:"lastName,omitempty"`
	Email        string    `bson:"email" json:"email"`
	PasswordHash []byte    `bson:"password,omitempty" json:"-"`
	Role         string    `bson:"role" json:"role"`
	Status       string    `bson:"status" json:"status"`
	Verified     bool      `bson:"verified" json:"verified"`
	CreatedAt    time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time `bson:"updatedAt" json:"updatedAt"`

	// joined on list and login reads
	Profile *profile.Profile `bson:"profile,omitempty" json:"profile,omitempty"`
}

func (u *User) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return nil
}

func (u *User) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(pwd))
}

func (u *User) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

func (u *User) IsAdmin() bool { return u.Role == RoleAdmin || u.Role == RoleSuperAdmin }

// ProfileDetail is a profile joined with its related content, newest first.
type ProfileDetail struct {
	profile.Profile
	Performances []performance.Performance `json:"performances"`
	Activities   []activity.Activity       `json:"activities"`
	Awards       []award.Award             `json:"awards"`
}

// Detail is a user joined with their full profile, returned on detail reads.
type Detail struct {
	User
	ProfileDetail *ProfileDetail `json:"profile,omitempty"`
}

// ProfileInfo is a profile joined with its owner and related counts.
type ProfileInfo struct {
	profile.Profile
	User   *User           `json:"user,omitempty"`
	Counts *profile.Counts `json:"_count,omitempty"`
}

// NewUser contains information needed to create a new User.
type NewUser struct {
	FirstName string `json:"firstName" validate:"required,alpha,min=3,max=20"`
	LastName  string `json:"lastName" validate:"omitempty,alpha,min=3,max=20"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"omitempty,strong_password"`
}

func (nu *NewUser) Validate() error {
	nu.FirstName = core.CleanString(nu.FirstName)
	nu.LastName = core.CleanString(nu.LastName)
	nu.Email = core.CleanString(nu.Email, true)
	return core.Validate.Struct(nu)
}

// UpdateUser defines what information may be provided to modify an existing User.
type UpdateUser struct {
	FirstName string `json:"firstName" validate:"omitempty,alpha,min=3,max=20"`
	LastName  string `json:"lastName" validate:"omitempty,alpha,min=3,max=20"`
	Email     string `json:"email" validate:"omitempty,email"`
	Password  string `json:"password" validate:"omitempty,strong_password"`
	Role      string `json:"role" validate:"omitempty,oneof=USER ADMIN SUPER_ADMIN"`
	Status    string `json:"status" validate:"omitempty,oneof=ACTIVE INACTIVE SUSPENDED"`
	Verified  *bool  `json:"verified"`
}

func (uu *UpdateUser) IsEmpty() bool {
	return uu.FirstName == "" && uu.LastName == "" && uu.Email == "" &&
		uu.Password == "" && uu.Role == "" && uu.Status == "" && uu.Verified == nil
}

func (uu *UpdateUser) Validate() error {
	uu.FirstName = core.CleanString(uu.FirstName)
	uu.LastName = core.CleanString(uu.LastName)
	uu.Email = core.CleanString(uu.Email, true)
	return core.Validate.Struct(uu)
}

// Login contains the credentials to sign in to the admin dashboard.
type Login struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (l *Login) Validate() error {
	l.Email = core.CleanString(l.Email, true)
	return core.Validate.Struct(l)
}

// QueryFilter scopes user listings to what the viewer may see.
type QueryFilter struct {
	ViewerID   string
	ViewerRole string
}
