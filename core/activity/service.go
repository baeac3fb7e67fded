package activity

import (
	"context"
	"net/http"
	"time"

	"github.com/pkg/errors"

	"github.com/aimelive/mcsa-awards/core"
	"github.com/aimelive/mcsa-awards/core/images"
)

var (
	ErrProfileMissing  = core.NewAPIError(http.StatusNotFound, "The profile does not exist.")
	ErrNotFound        = core.NewAPIError(http.StatusNotFound, "Activity not found in our system")
	ErrEditNotFound    = core.NewAPIError(http.StatusNotFound, "Activity trying to edit does not exist.")
	ErrTooManyImages   = core.NewAPIError(http.StatusForbidden, "Activity should have no more than 5 images")
	ErrImageNotPresent = core.NewAPIError(http.StatusBadRequest, "This image does not already includes in this activity images")
	ErrBelowMinimum    = core.NewAPIError(http.StatusBadRequest, "Activity can not have less than 3 images")
)

type (
	Repository interface {
		// CreateActivity persists act in a transaction that also verifies the
		// owning profile exists; a missing profile aborts the whole write.
		CreateActivity(ctx context.Context, act Activity) (Activity, error)
		QueryActivities(ctx context.Context, profileID string) ([]Activity, error)
		GetActivityByID(ctx context.Context, id string) (Activity, error)
		GetActivityDetail(ctx context.Context, id string) (Detail, error)
		UpdateActivity(ctx context.Context, id string, ua UpdateActivity) (Activity, error)
		DeleteActivity(ctx context.Context, id string) (Activity, error)
		// AppendActivityImage performs an atomic array-append update.
		AppendActivityImage(ctx context.Context, id, url string) (Activity, error)
		// SetActivityImages replaces the whole image array.
		SetActivityImages(ctx context.Context, id string, urls []string) (Activity, error)
	}

	Service struct {
		repo   Repository
		images *images.Lifecycle
	}
)

func NewService(repo Repository, lc *images.Lifecycle) *Service {
	return &Service{repo: repo, images: lc}
}

func (svc *Service) Create(ctx context.Context, na NewActivity) (Activity, error) {
	now := time.Now().UTC()

	var created Activity
	_, err := svc.images.UploadThenPersist(ctx, na.Images, func(urls []string) error {
		act := Activity{
			Title:         na.Title,
			Caption:       na.Caption,
			Images:        urls,
			UserProfileID: na.UserProfileID,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		var perr error
		created, perr = svc.repo.CreateActivity(ctx, act)
		return perr
	})
	if err != nil {
		if core.IsNotFound(err) {
			return Activity{}, ErrProfileMissing
		}
		return Activity{}, err
	}
	return created, nil
}

func (svc *Service) Query(ctx context.Context, profileID string) ([]Activity, error) {
	return svc.repo.QueryActivities(ctx, profileID)
}

func (svc *Service) GetByID(ctx context.Context, id string) (Detail, error) {
	detail, err := svc.repo.GetActivityDetail(ctx, id)
	if err != nil {
		if core.IsNotFound(err) {
			return Detail{}, ErrNotFound
		}
		return Detail{}, err
	}
	return detail, nil
}

func (svc *Service) Update(ctx context.Context, id string, ua UpdateActivity) (Activity, error) {
	act, err := svc.repo.UpdateActivity(ctx, id, ua)
	if err != nil {
		if core.IsNotFound(err) {
			return Activity{}, ErrEditNotFound
		}
		return Activity{}, err
	}
	return act, nil
}

// Delete removes the activity and queues every owned image for deletion.
func (svc *Service) Delete(ctx context.Context, id string) (Activity, error) {
	act, err := svc.repo.DeleteActivity(ctx, id)
	if err != nil {
		if core.IsNotFound(err) {
			return Activity{}, ErrNotFound
		}
		return Activity{}, err
	}
	svc.images.Release(act.Images...)
	return act, nil
}

func (svc *Service) AddImage(ctx context.Context, id, source string) (Activity, error) {
	act, err := svc.repo.GetActivityByID(ctx, id)
	if err != nil {
		if core.IsNotFound(err) {
			return Activity{}, ErrEditNotFound
		}
		return Activity{}, err
	}

	var updated Activity
	_, err = svc.images.AddImage(ctx, source, len(act.Images), func(url string) error {
		var perr error
		updated, perr = svc.repo.AppendActivityImage(ctx, id, url)
		return perr
	})
	if err != nil {
		switch {
		case errors.Is(err, images.ErrTooManyImages):
			return Activity{}, ErrTooManyImages
		case core.IsNotFound(err):
			return Activity{}, ErrEditNotFound
		}
		return Activity{}, err
	}
	return updated, nil
}

func (svc *Service) RemoveImage(ctx context.Context, id, target string) (Activity, error) {
	act, err := svc.repo.GetActivityByID(ctx, id)
	if err != nil {
		if core.IsNotFound(err) {
			return Activity{}, core.NewAPIError(http.StatusNotFound, "Activity not found!")
		}
		return Activity{}, err
	}

	remainder, err := svc.images.RemoveImage(act.Images, target)
	if err != nil {
		switch {
		case errors.Is(err, images.ErrImageNotPresent):
			return Activity{}, ErrImageNotPresent
		case errors.Is(err, images.ErrBelowMinimum):
			return Activity{}, ErrBelowMinimum
		}
		return Activity{}, err
	}

	updated, err := svc.repo.SetActivityImages(ctx, id, remainder)
	if err != nil {
		if core.IsNotFound(err) {
			return Activity{}, ErrEditNotFound
		}
		return Activity{}, err
	}
	svc.images.Release(target)
	return updated, nil
}
