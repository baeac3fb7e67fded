package dummydb

import (
	"context"
	"sort"
	"time"

	"github.com/aimelive/mcsa-awards/core"
	"github.com/aimelive/mcsa-awards/core/award"
)

type awardRepository struct {
	db *DB
}

var _ award.Repository = (*awardRepository)(nil) // interface compliance check

func NewAwardRepository(db *DB) award.Repository {
	return &awardRepository{db: db}
}

func (repo *awardRepository) CreateAward(ctx context.Context, a award.Award) (award.Award, error) {
	repo.db.profile.RLock()
	_, profileExists := repo.db.profile.table[a.UserProfileID]
	repo.db.profile.RUnlock()
	if !profileExists {
		return award.Award{}, &core.NotFoundError{Entity: "profile"}
	}

	seasonExists := false
	repo.db.season.RLock()
	for _, s := range repo.db.season.table {
		if s.Name == a.SeasonName {
			seasonExists = true
			break
		}
	}
	repo.db.season.RUnlock()
	if !seasonExists {
		return award.Award{}, &core.NotFoundError{Entity: "season"}
	}

	repo.db.award.Lock()
	defer repo.db.award.Unlock()

	a.ID = newID()
	repo.db.award.table[a.ID] = &a
	return a, nil
}

func (repo *awardRepository) QueryAwards(ctx context.Context, filter award.QueryFilter) ([]award.Award, error) {
	repo.db.award.RLock()
	defer repo.db.award.RUnlock()

	awards := []award.Award{}
	for _, a := range repo.db.award.table {
		if filter.ProfileID != "" && a.UserProfileID != filter.ProfileID {
			continue
		}
		if filter.SeasonName != "" && a.SeasonName != filter.SeasonName {
			continue
		}
		awards = append(awards, *a)
	}
	sort.Slice(awards, func(i, j int) bool { return awards[i].CreatedAt.After(awards[j].CreatedAt) })
	return awards, nil
}

func (repo *awardRepository) GetAwardByID(ctx context.Context, id string) (award.Award, error) {
	repo.db.award.RLock()
	defer repo.db.award.RUnlock()

	if a, ok := repo.db.award.table[id]; ok {
		return *a, nil
	}
	return award.Award{}, &core.NotFoundError{Entity: "award"}
}

func (repo *awardRepository) GetAwardDetail(ctx context.Context, id string) (award.Detail, error) {
	a, err := repo.GetAwardByID(ctx, id)
	if err != nil {
		return award.Detail{}, err
	}
	detail := award.Detail{Award: a}

	repo.db.season.RLock()
	for _, s := range repo.db.season.table {
		if s.Name == a.SeasonName {
			found := *s
			detail.Season = &found
			break
		}
	}
	repo.db.season.RUnlock()

	repo.db.profile.RLock()
	if prof, ok := repo.db.profile.table[a.UserProfileID]; ok {
		found := *prof
		detail.UserProfile = &found
	}
	repo.db.profile.RUnlock()
	return detail, nil
}

func (repo *awardRepository) UpdateAward(ctx context.Context, id string, ua award.UpdateAward, featuredPhoto string) (award.Award, error) {
	repo.db.award.Lock()
	defer repo.db.award.Unlock()

	a, ok := repo.db.award.table[id]
	if !ok {
		return award.Award{}, &core.NotFoundError{Entity: "award"}
	}
	if ua.Title != "" {
		a.Title = ua.Title
	}
	if ua.Caption != "" {
		a.Caption = ua.Caption
	}
	if ua.Category != "" {
		a.Category = ua.Category
	}
	if ua.SeasonName != "" {
		a.SeasonName = ua.SeasonName
	}
	if featuredPhoto != "" {
		a.FeaturedPhoto = featuredPhoto
	}
	a.UpdatedAt = time.Now().UTC()
	return *a, nil
}

func (repo *awardRepository) StampCertificateDownload(ctx context.Context, id string, stamp award.CertificateStamp) (award.Award, error) {
	repo.db.award.Lock()
	defer repo.db.award.Unlock()

	a, ok := repo.db.award.table[id]
	if !ok {
		return award.Award{}, &core.NotFoundError{Entity: "award"}
	}
	a.CertificateDownloads = stamp.Remaining
	downloadedAt := stamp.DownloadedAt
	a.CertificateLastDownloadedAt = &downloadedAt
	a.UpdatedAt = time.Now().UTC()
	return *a, nil
}

func (repo *awardRepository) DeleteAward(ctx context.Context, id string) (award.Award, error) {
	repo.db.award.Lock()
	defer repo.db.award.Unlock()

	a, ok := repo.db.award.table[id]
	if !ok {
		return award.Award{}, &core.NotFoundError{Entity: "award"}
	}
	deleted := *a
	delete(repo.db.award.table, id)
	return deleted, nil
}
