package award

import (
	"context"
	"net/http"
	"time"

	"github.com/aimelive/mcsa-awards/core"
	"github.com/aimelive/mcsa-awards/core/images"
)

var (
	ErrParentMissing = core.NewAPIError(http.StatusNotFound,
		"Sorry, season or user profile Id you're trying to add does not exist in our system. please try again or contact an admin for help.")
	ErrNotFound            = core.NewAPIError(http.StatusNotFound, "Award not found.")
	ErrEditNotFound        = core.NewAPIError(http.StatusNotFound, "Award trying to edit does not exist.")
	ErrCertificateNotFound = core.NewAPIError(http.StatusNotFound, "Certificate not found!")
	ErrQuotaExhausted      = core.NewAPIError(http.StatusForbidden,
		"This certificate has been downloaded 5 times, please contact an admin for help.")
)

type (
	// QueryFilter narrows award listings; zero values match everything.
	QueryFilter struct {
		ProfileID  string
		SeasonName string
	}

	// CertificateStamp records a consumed certificate download.
	CertificateStamp struct {
		Remaining    int
		DownloadedAt time.Time
	}

	Repository interface {
		// CreateAward persists a in a transaction that also verifies both the
		// owning profile and the referenced season exist; either missing
		// aborts the whole write.
		CreateAward(ctx context.Context, a Award) (Award, error)
		QueryAwards(ctx context.Context, filter QueryFilter) ([]Award, error)
		GetAwardByID(ctx context.Context, id string) (Award, error)
		GetAwardDetail(ctx context.Context, id string) (Detail, error)
		UpdateAward(ctx context.Context, id string, ua UpdateAward, featuredPhoto string) (Award, error)
		StampCertificateDownload(ctx context.Context, id string, stamp CertificateStamp) (Award, error)
		DeleteAward(ctx context.Context, id string) (Award, error)
	}

	Service struct {
		repo   Repository
		images *images.Lifecycle
	}
)

func NewService(repo Repository, lc *images.Lifecycle) *Service {
	return &Service{repo: repo, images: lc}
}

func (svc *Service) Create(ctx context.Context, na NewAward) (Award, error) {
	now := time.Now().UTC()

	var created Award
	_, err := svc.images.UploadThenPersist(ctx, []string{na.Image}, func(urls []string) error {
		a := Award{
			Title:                na.Title,
			Caption:              na.Caption,
			Category:             na.Category,
			UserProfileID:        na.UserProfileID,
			SeasonName:           na.SeasonName,
			FeaturedPhoto:        urls[0],
			CertificateDownloads: MaxCertificateDownloads,
			CreatedAt:            now,
			UpdatedAt:            now,
		}
		var perr error
		created, perr = svc.repo.CreateAward(ctx, a)
		return perr
	})
	if err != nil {
		if core.IsNotFound(err) {
			return Award{}, ErrParentMissing
		}
		return Award{}, err
	}
	return created, nil
}

func (svc *Service) Query(ctx context.Context, filter QueryFilter) ([]Award, error) {
	return svc.repo.QueryAwards(ctx, filter)
}

func (svc *Service) GetByID(ctx context.Context, id string) (Detail, error) {
	detail, err := svc.repo.GetAwardDetail(ctx, id)
	if err != nil {
		if core.IsNotFound(err) {
			return Detail{}, ErrNotFound
		}
		return Detail{}, err
	}
	return detail, nil
}

// Update modifies the award; a raw image in ua replaces the featured photo.
// The fresh upload is queued for deletion if the persist fails, the previous
// photo once the swap has succeeded.
func (svc *Service) Update(ctx context.Context, id string, ua UpdateAward) (Award, error) {
	var oldPhoto, newPhoto string
	if ua.Image != "" {
		prev, err := svc.repo.GetAwardByID(ctx, id)
		if err != nil {
			if core.IsNotFound(err) {
				return Award{}, ErrEditNotFound
			}
			return Award{}, err
		}
		oldPhoto = prev.FeaturedPhoto

		newPhoto, err = svc.images.Upload(ctx, ua.Image)
		if err != nil {
			return Award{}, err
		}
	}

	updated, err := svc.repo.UpdateAward(ctx, id, ua, newPhoto)
	if err != nil {
		svc.images.Release(newPhoto)
		if core.IsNotFound(err) {
			return Award{}, ErrEditNotFound
		}
		return Award{}, err
	}
	if newPhoto != "" && oldPhoto != "" && oldPhoto != newPhoto {
		svc.images.Release(oldPhoto)
	}
	return updated, nil
}

// DownloadCertificate consumes one certificate download and stamps the time.
// The allowance starts at MaxCertificateDownloads and is never replenished.
func (svc *Service) DownloadCertificate(ctx context.Context, id string) (Award, error) {
	a, err := svc.repo.GetAwardByID(ctx, id)
	if err != nil {
		if core.IsNotFound(err) {
			return Award{}, ErrCertificateNotFound
		}
		return Award{}, err
	}
	if a.CertificateDownloads == 0 {
		return Award{}, ErrQuotaExhausted
	}

	stamp := CertificateStamp{
		Remaining:    a.CertificateDownloads - 1,
		DownloadedAt: time.Now().UTC(),
	}
	updated, err := svc.repo.StampCertificateDownload(ctx, id, stamp)
	if err != nil {
		if core.IsNotFound(err) {
			return Award{}, ErrCertificateNotFound
		}
		return Award{}, err
	}
	return updated, nil
}

// Delete removes the award and queues its featured photo for deletion.
func (svc *Service) Delete(ctx context.Context, id string) (Award, error) {
	a, err := svc.repo.DeleteAward(ctx, id)
	if err != nil {
		if core.IsNotFound(err) {
			return Award{}, ErrNotFound
		}
		return Award{}, err
	}
	svc.images.Release(a.FeaturedPhoto)
	return a, nil
}
