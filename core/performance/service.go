package performance

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
	ErrNotFound        = core.NewAPIError(http.StatusNotFound, "Performance not found in our system")
	ErrEditNotFound    = core.NewAPIError(http.StatusNotFound, "Performance trying to edit does not exist.")
	ErrTooManyImages   = core.NewAPIError(http.StatusForbidden, "Performance should have no more than 5 images")
	ErrImageNotPresent = core.NewAPIError(http.StatusBadRequest, "This image does not already includes in this performance images")
	ErrBelowMinimum    = core.NewAPIError(http.StatusBadRequest, "Performance can not have less than 3 images")
)

type (
	// QueryFilter narrows performance listings; zero values match everything.
	QueryFilter struct {
		ProfileID  string
		SeasonName string
	}

	Repository interface {
		// CreatePerformance persists p in a transaction that also verifies the
		// owning profile exists; a missing profile aborts the whole write.
		CreatePerformance(ctx context.Context, p Performance) (Performance, error)
		QueryPerformances(ctx context.Context, filter QueryFilter) ([]Performance, error)
		GetPerformanceByID(ctx context.Context, id string) (Performance, error)
		GetPerformanceDetail(ctx context.Context, id string) (Detail, error)
		UpdatePerformance(ctx context.Context, id string, up UpdatePerformance) (Performance, error)
		DeletePerformance(ctx context.Context, id string) (Performance, error)
		// AppendPerformanceImage performs an atomic array-append update.
		AppendPerformanceImage(ctx context.Context, id, url string) (Performance, error)
		// SetPerformanceImages replaces the whole image array.
		SetPerformanceImages(ctx context.Context, id string, urls []string) (Performance, error)
	}

	Service struct {
		repo   Repository
		images *images.Lifecycle
	}
)

func NewService(repo Repository, lc *images.Lifecycle) *Service {
	return &Service{repo: repo, images: lc}
}

func (svc *Service) Create(ctx context.Context, np NewPerformance) (Performance, error) {
	now := time.Now().UTC()

	var created Performance
	_, err := svc.images.UploadThenPersist(ctx, np.Images, func(urls []string) error {
		p := Performance{
			Title:         np.Title,
			Description:   np.Description,
			SeasonName:    np.SeasonName,
			VideoURL:      np.VideoURL,
			Duration:      np.Duration,
			Images:        urls,
			UserProfileID: np.UserProfileID,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		var perr error
		created, perr = svc.repo.CreatePerformance(ctx, p)
		return perr
	})
	if err != nil {
		if core.IsNotFound(err) {
			return Performance{}, ErrProfileMissing
		}
		return Performance{}, err
	}
	return created, nil
}

func (svc *Service) Query(ctx context.Context, filter QueryFilter) ([]Performance, error) {
	return svc.repo.QueryPerformances(ctx, filter)
}

func (svc *Service) GetByID(ctx context.Context, id string) (Detail, error) {
	detail, err := svc.repo.GetPerformanceDetail(ctx, id)
	if err != nil {
		if core.IsNotFound(err) {
			return Detail{}, ErrNotFound
		}
		return Detail{}, err
	}
	return detail, nil
}

func (svc *Service) Update(ctx context.Context, id string, up UpdatePerformance) (Performance, error) {
	p, err := svc.repo.UpdatePerformance(ctx, id, up)
	if err != nil {
		if core.IsNotFound(err) {
			return Performance{}, ErrEditNotFound
		}
		return Performance{}, err
	}
	return p, nil
}

// Delete removes the performance and queues every owned image for deletion.
func (svc *Service) Delete(ctx context.Context, id string) (Performance, error) {
	p, err := svc.repo.DeletePerformance(ctx, id)
	if err != nil {
		if core.IsNotFound(err) {
			return Performance{}, ErrNotFound
		}
		return Performance{}, err
	}
	svc.images.Release(p.Images...)
	return p, nil
}

func (svc *Service) AddImage(ctx context.Context, id, source string) (Performance, error) {
	p, err := svc.repo.GetPerformanceByID(ctx, id)
	if err != nil {
		if core.IsNotFound(err) {
			return Performance{}, ErrEditNotFound
		}
		return Performance{}, err
	}

	var updated Performance
	_, err = svc.images.AddImage(ctx, source, len(p.Images), func(url string) error {
		var perr error
		updated, perr = svc.repo.AppendPerformanceImage(ctx, id, url)
		return perr
	})
	if err != nil {
		switch {
		case errors.Is(err, images.ErrTooManyImages):
			return Performance{}, ErrTooManyImages
		case core.IsNotFound(err):
			return Performance{}, ErrEditNotFound
		}
		return Performance{}, err
	}
	return updated, nil
}

func (svc *Service) RemoveImage(ctx context.Context, id, target string) (Performance, error) {
	p, err := svc.repo.GetPerformanceByID(ctx, id)
	if err != nil {
		if core.IsNotFound(err) {
			return Performance{}, core.NewAPIError(http.StatusNotFound, "Performance not found!")
		}
		return Performance{}, err
	}

	remainder, err := svc.images.RemoveImage(p.Images, target)
	if err != nil {
		switch {
		case errors.Is(err, images.ErrImageNotPresent):
			return Performance{}, ErrImageNotPresent
		case errors.Is(err, images.ErrBelowMinimum):
			return Performance{}, ErrBelowMinimum
		}
		return Performance{}, err
	}

	updated, err := svc.repo.SetPerformanceImages(ctx, id, remainder)
	if err != nil {
		if core.IsNotFound(err) {
			return Performance{}, ErrEditNotFound
		}
		return Performance{}, err
	}
	svc.images.Release(target)
	return updated, nil
}
