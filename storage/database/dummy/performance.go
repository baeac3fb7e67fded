package dummydb

import (
	"context"
	"sort"
	"time"

	"github.com/aimelive/mcsa-awards/core"
	"github.com/aimelive/mcsa-awards/core/performance"
)

type performanceRepository struct {
	db *DB
}

var _ performance.Repository = (*performanceRepository)(nil) // interface compliance check

func NewPerformanceRepository(db *DB) performance.Repository {
	return &performanceRepository{db: db}
}

func (repo *performanceRepository) CreatePerformance(ctx context.Context, p performance.Performance) (performance.Performance, error) {
	repo.db.profile.RLock()
	_, profileExists := repo.db.profile.table[p.UserProfileID]
	repo.db.profile.RUnlock()
	if !profileExists {
		return performance.Performance{}, &core.NotFoundError{Entity: "profile"}
	}

	repo.db.performance.Lock()
	defer repo.db.performance.Unlock()

	p.ID = newID()
	repo.db.performance.table[p.ID] = &p
	return p, nil
}

func (repo *performanceRepository) QueryPerformances(ctx context.Context, filter performance.QueryFilter) ([]performance.Performance, error) {
	repo.db.performance.RLock()
	defer repo.db.performance.RUnlock()

	perfs := []performance.Performance{}
	for _, p := range repo.db.performance.table {
		if filter.ProfileID != "" && p.UserProfileID != filter.ProfileID {
			continue
		}
		if filter.SeasonName != "" && p.SeasonName != filter.SeasonName {
			continue
		}
		perfs = append(perfs, *p)
	}
	sort.Slice(perfs, func(i, j int) bool { return perfs[i].CreatedAt.After(perfs[j].CreatedAt) })
	return perfs, nil
}

func (repo *performanceRepository) GetPerformanceByID(ctx context.Context, id string) (performance.Performance, error) {
	repo.db.performance.RLock()
	defer repo.db.performance.RUnlock()

	if p, ok := repo.db.performance.table[id]; ok {
		return *p, nil
	}
	return performance.Performance{}, &core.NotFoundError{Entity: "performance"}
}

func (repo *performanceRepository) GetPerformanceDetail(ctx context.Context, id string) (performance.Detail, error) {
	p, err := repo.GetPerformanceByID(ctx, id)
	if err != nil {
		return performance.Detail{}, err
	}
	detail := performance.Detail{Performance: p}

	repo.db.profile.RLock()
	if prof, ok := repo.db.profile.table[p.UserProfileID]; ok {
		found := *prof
		detail.UserProfile = &found
	}
	repo.db.profile.RUnlock()
	return detail, nil
}

func (repo *performanceRepository) UpdatePerformance(ctx context.Context, id string, up performance.UpdatePerformance) (performance.Performance, error) {
	repo.db.performance.Lock()
	defer repo.db.performance.Unlock()

	p, ok := repo.db.performance.table[id]
	if !ok {
		return performance.Performance{}, &core.NotFoundError{Entity: "performance"}
	}
	if up.Title != "" {
		p.Title = up.Title
	}
	if up.Description != "" {
		p.Description = up.Description
	}
	if up.SeasonName != "" {
		p.SeasonName = up.SeasonName
	}
	if up.VideoURL != "" {
		p.VideoURL = up.VideoURL
	}
	if up.Duration != "" {
		p.Duration = up.Duration
	}
	p.UpdatedAt = time.Now().UTC()
	return *p, nil
}

func (repo *performanceRepository) DeletePerformance(ctx context.Context, id string) (performance.Performance, error) {
	repo.db.performance.Lock()
	defer repo.db.performance.Unlock()

	p, ok := repo.db.performance.table[id]
	if !ok {
		return performance.Performance{}, &core.NotFoundError{Entity: "performance"}
	}
	deleted := *p
	delete(repo.db.performance.table, id)
	return deleted, nil
}

func (repo *performanceRepository) AppendPerformanceImage(ctx context.Context, id, url string) (performance.Performance, error) {
	repo.db.performance.Lock()
	defer repo.db.performance.Unlock()

	p, ok := repo.db.performance.table[id]
	if !ok {
		return performance.Performance{}, &core.NotFoundError{Entity: "performance"}
	}
	p.Images = append(p.Images, url)
	p.UpdatedAt = time.Now().UTC()
	return *p, nil
}

func (repo *performanceRepository) SetPerformanceImages(ctx context.Context, id string, urls []string) (performance.Performance, error) {
	repo.db.performance.Lock()
	defer repo.db.performance.Unlock()

	p, ok := repo.db.performance.table[id]
	if !ok {
		return performance.Performance{}, &core.NotFoundError{Entity: "performance"}
	}
	p.Images = urls
	p.UpdatedAt = time.Now().UTC()
	return *p, nil
}
