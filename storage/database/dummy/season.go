package dummydb

import (
	"context"
	"sort"
	"time"

	"github.com/aimelive/mcsa-awards/core"
	"github.com/aimelive/mcsa-awards/core/season"
)

type seasonRepository struct {
	db *DB
}

var _ season.Repository = (*seasonRepository)(nil) // interface compliance check

func NewSeasonRepository(db *DB) season.Repository {
	return &seasonRepository{db: db}
}

func (repo *seasonRepository) CreateSeason(ctx context.Context, s season.Season) (season.Season, error) {
	repo.db.season.Lock()
	defer repo.db.season.Unlock()

	for _, existing := range repo.db.season.table {
		if existing.Name == s.Name {
			return season.Season{}, &core.ConflictError{Field: "name"}
		}
	}
	s.ID = newID()
	repo.db.season.table[s.ID] = &s
	return s, nil
}

func (repo *seasonRepository) QuerySeasons(ctx context.Context) ([]season.Detail, error) {
	repo.db.season.RLock()
	seasons := make([]season.Season, 0, len(repo.db.season.table))
	for _, s := range repo.db.season.table {
		seasons = append(seasons, *s)
	}
	repo.db.season.RUnlock()

	sort.Slice(seasons, func(i, j int) bool { return seasons[i].Date.After(seasons[j].Date) })

	details := make([]season.Detail, 0, len(seasons))
	for _, s := range seasons {
		counts := repo.countForSeason(s.Name)
		details = append(details, season.Detail{Season: s, Counts: &counts})
	}
	return details, nil
}

func (repo *seasonRepository) GetSeasonByName(ctx context.Context, name string) (season.Detail, error) {
	repo.db.season.RLock()
	for _, s := range repo.db.season.table {
		if s.Name == name {
			found := *s
			repo.db.season.RUnlock()
			counts := repo.countForSeason(found.Name)
			return season.Detail{Season: found, Counts: &counts}, nil
		}
	}
	repo.db.season.RUnlock()
	return season.Detail{}, &core.NotFoundError{Entity: "season"}
}

func (repo *seasonRepository) countForSeason(name string) season.Counts {
	counts := season.Counts{}
	repo.db.performance.RLock()
	for _, p := range repo.db.performance.table {
		if p.SeasonName == name {
			counts.Performances++
		}
	}
	repo.db.performance.RUnlock()
	repo.db.award.RLock()
	for _, a := range repo.db.award.table {
		if a.SeasonName == name {
			counts.Awards++
		}
	}
	repo.db.award.RUnlock()
	return counts
}

func (repo *seasonRepository) UpdateSeason(ctx context.Context, name string, date time.Time) (season.Season, error) {
	repo.db.season.Lock()
	defer repo.db.season.Unlock()

	for _, s := range repo.db.season.table {
		if s.Name == name {
			s.Date = date
			s.UpdatedAt = time.Now().UTC()
			return *s, nil
		}
	}
	return season.Season{}, &core.NotFoundError{Entity: "season"}
}

func (repo *seasonRepository) DeleteSeason(ctx context.Context, name string) (season.Season, error) {
	repo.db.season.Lock()
	defer repo.db.season.Unlock()

	for id, s := range repo.db.season.table {
		if s.Name == name {
			deleted := *s
			delete(repo.db.season.table, id)
			return deleted, nil
		}
	}
	return season.Season{}, &core.NotFoundError{Entity: "season"}
}
