package season

import (
	"context"
	"net/http"
	"time"

	"github.com/aimelive/mcsa-awards/core"
)

var (
	ErrAlreadyExists = core.NewAPIError(http.StatusConflict, "Event season already exists")
	ErrNoChanges     = core.NewAPIError(http.StatusBadRequest, "No changes made")
)

type (
	Repository interface {
		CreateSeason(ctx context.Context, s Season) (Season, error)
		QuerySeasons(ctx context.Context) ([]Detail, error)
		GetSeasonByName(ctx context.Context, name string) (Detail, error)
		UpdateSeason(ctx context.Context, name string, date time.Time) (Season, error)
		DeleteSeason(ctx context.Context, name string) (Season, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Create(ctx context.Context, ns NewSeason) (Season, error) {
	now := time.Now().UTC()
	s := Season{
		Name:      ns.Name,
		Date:      ns.ParsedDate(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	created, err := svc.repo.CreateSeason(ctx, s)
	if err != nil {
		if core.IsConflict(err, "name") {
			return Season{}, ErrAlreadyExists
		}
		return Season{}, err
	}
	return created, nil
}

func (svc *Service) Query(ctx context.Context) ([]Detail, error) {
	return svc.repo.QuerySeasons(ctx)
}

func (svc *Service) GetByName(ctx context.Context, name string) (Detail, error) {
	detail, err := svc.repo.GetSeasonByName(ctx, name)
	if err != nil {
		if core.IsNotFound(err) {
			return Detail{}, core.NewAPIError(http.StatusNotFound, name+" not found in our system")
		}
		return Detail{}, err
	}
	return detail, nil
}

func (svc *Service) Update(ctx context.Context, name string, us UpdateSeason) (Season, error) {
	if us.IsEmpty() {
		return Season{}, ErrNoChanges
	}
	s, err := svc.repo.UpdateSeason(ctx, name, us.ParsedDate())
	if err != nil {
		if core.IsNotFound(err) {
			return Season{}, core.NewAPIError(http.StatusNotFound, name+" not found in our system")
		}
		return Season{}, err
	}
	return s, nil
}

func (svc *Service) Delete(ctx context.Context, name string) (Season, error) {
	s, err := svc.repo.DeleteSeason(ctx, name)
	if err != nil {
		if core.IsNotFound(err) {
			return Season{}, core.NewAPIError(http.StatusNotFound, name+" not found in our system")
		}
		return Season{}, err
	}
	return s, nil
}
