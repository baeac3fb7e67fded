package user

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/aimelive/mcsa-awards/core"
	"github.com/aimelive/mcsa-awards/core/images"
	"github.com/aimelive/mcsa-awards/core/profile"
)

var (
	ErrProfileExists   = core.NewAPIError(http.StatusConflict, "Profile already exists")
	ErrProfileNotFound = core.NewAPIError(http.StatusNotFound, "Profile not found!")
)

type (
	// ProfileChanges is the set of profile fields the persistence layer may
	// modify; zero values are left untouched.
	ProfileChanges struct {
		Username    string
		Bio         string
		PhoneNumber string
		ProfilePic  string
		UpdatedAt   time.Time
	}

	ProfileRepository interface {
		// CreateProfile persists p in a transaction that also verifies the
		// owning user exists; a missing user aborts the whole write.
		CreateProfile(ctx context.Context, p profile.Profile) (profile.Profile, error)
		QueryProfiles(ctx context.Context) ([]profile.Profile, error)
		GetProfileByID(ctx context.Context, id string) (ProfileInfo, error)
		GetProfileByUserID(ctx context.Context, userID string) (ProfileInfo, error)
		UpdateProfileByUserID(ctx context.Context, userID string, changes ProfileChanges) (profile.Profile, error)
	}

	ProfileService struct {
		repo   ProfileRepository
		images *images.Lifecycle
	}
)

func NewProfileService(repo ProfileRepository, lc *images.Lifecycle) *ProfileService {
	return &ProfileService{repo: repo, images: lc}
}

// CreateProfile creates a profile for an existing user with no profile. The
// picture is uploaded first; a failed persist queues it for deletion.
func (svc *ProfileService) CreateProfile(ctx context.Context, userID string, np profile.NewProfile) (profile.Profile, error) {
	pic, err := svc.images.Upload(ctx, np.Image)
	if err != nil {
		return profile.Profile{}, err
	}

	now := time.Now().UTC()
	p := profile.Profile{
		Username:    np.Username,
		Bio:         np.Bio,
		PhoneNumber: np.PhoneNumber,
		ProfilePic:  pic,
		UserID:      userID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	created, err := svc.repo.CreateProfile(ctx, p)
	if err != nil {
		svc.images.Release(pic)
		if core.IsNotFound(err) {
			return profile.Profile{}, ErrNotFound
		}
		if core.IsConflict(err, "userId") {
			return profile.Profile{}, ErrProfileExists
		}
		return profile.Profile{}, err
	}
	return created, nil
}

func (svc *ProfileService) QueryProfiles(ctx context.Context) ([]profile.Profile, error) {
	return svc.repo.QueryProfiles(ctx)
}

func (svc *ProfileService) GetProfileByID(ctx context.Context, id string) (ProfileInfo, error) {
	info, err := svc.repo.GetProfileByID(ctx, id)
	if err != nil {
		if core.IsNotFound(err) {
			return ProfileInfo{}, ErrProfileNotFound
		}
		return ProfileInfo{}, err
	}
	return info, nil
}

func (svc *ProfileService) GetProfileByUserID(ctx context.Context, userID string) (ProfileInfo, error) {
	info, err := svc.repo.GetProfileByUserID(ctx, userID)
	if err != nil {
		if core.IsNotFound(err) {
			return ProfileInfo{}, core.NewAPIError(http.StatusNotFound,
				fmt.Sprintf("Profile with this user Id '%s' isn't  found in our system", userID))
		}
		return ProfileInfo{}, err
	}
	return info, nil
}

// UpdateProfile modifies a user's profile; a raw image in up replaces the
// profile picture. The fresh upload is queued for deletion if the persist
// fails, the previous picture once the swap has succeeded.
func (svc *ProfileService) UpdateProfile(ctx context.Context, userID string, up profile.UpdateProfile) (profile.Profile, error) {
	var oldPic, newPic string
	if up.Image != "" {
		prev, err := svc.repo.GetProfileByUserID(ctx, userID)
		if err != nil {
			if core.IsNotFound(err) {
				return profile.Profile{}, ErrProfileNotFound
			}
			return profile.Profile{}, err
		}
		oldPic = prev.ProfilePic

		newPic, err = svc.images.Upload(ctx, up.Image)
		if err != nil {
			return profile.Profile{}, err
		}
	}

	changes := ProfileChanges{
		Username:    up.Username,
		Bio:         up.Bio,
		PhoneNumber: up.PhoneNumber,
		ProfilePic:  newPic,
		UpdatedAt:   time.Now().UTC(),
	}
	updated, err := svc.repo.UpdateProfileByUserID(ctx, userID, changes)
	if err != nil {
		svc.images.Release(newPic)
		if core.IsNotFound(err) {
			return profile.Profile{}, ErrProfileNotFound
		}
		return profile.Profile{}, err
	}
	if newPic != "" && oldPic != "" && oldPic != newPic {
		svc.images.Release(oldPic)
	}
	return updated, nil
}
