package dummydb

import (
	"context"
	"sort"
	"time"

	"github.com/aimelive/mcsa-awards/core"
	"github.com/aimelive/mcsa-awards/core/activity"
)

type activityRepository struct {
	db *DB
}

var _ activity.Repository = (*activityRepository)(nil) // interface compliance check

func NewActivityRepository(db *DB) activity.Repository {
	return &activityRepository{db: db}
}

func (repo *activityRepository) CreateActivity(ctx context.Context, act activity.Activity) (activity.Activity, error) {
	repo.db.profile.RLock()
	_, profileExists := repo.db.profile.table[act.UserProfileID]
	repo.db.profile.RUnlock()
	if !profileExists {
		return activity.Activity{}, &core.NotFoundError{Entity: "profile"}
	}

	repo.db.activity.Lock()
	defer repo.db.activity.Unlock()

	act.ID = newID()
	repo.db.activity.table[act.ID] = &act
	return act, nil
}

func (repo *activityRepository) QueryActivities(ctx context.Context, profileID string) ([]activity.Activity, error) {
	repo.db.activity.RLock()
	defer repo.db.activity.RUnlock()

	acts := []activity.Activity{}
	for _, act := range repo.db.activity.table {
		if profileID != "" && act.UserProfileID != profileID {
			continue
		}
		acts = append(acts, *act)
	}
	sort.Slice(acts, func(i, j int) bool { return acts[i].CreatedAt.After(acts[j].CreatedAt) })
	return acts, nil
}

func (repo *activityRepository) GetActivityByID(ctx context.Context, id string) (activity.Activity, error) {
	repo.db.activity.RLock()
	defer repo.db.activity.RUnlock()

	if act, ok := repo.db.activity.table[id]; ok {
		return *act, nil
	}
	return activity.Activity{}, &core.NotFoundError{Entity: "activity"}
}

func (repo *activityRepository) GetActivityDetail(ctx context.Context, id string) (activity.Detail, error) {
	act, err := repo.GetActivityByID(ctx, id)
	if err != nil {
		return activity.Detail{}, err
	}
	detail := activity.Detail{Activity: act}

	repo.db.profile.RLock()
	if prof, ok := repo.db.profile.table[act.UserProfileID]; ok {
		found := *prof
		detail.UserProfile = &found
	}
	repo.db.profile.RUnlock()
	return detail, nil
}

func (repo *activityRepository) UpdateActivity(ctx context.Context, id string, ua activity.UpdateActivity) (activity.Activity, error) {
	repo.db.activity.Lock()
	defer repo.db.activity.Unlock()

	act, ok := repo.db.activity.table[id]
	if !ok {
		return activity.Activity{}, &core.NotFoundError{Entity: "activity"}
	}
	if ua.Title != "" {
		act.Title = ua.Title
	}
	if ua.Caption != "" {
		act.Caption = ua.Caption
	}
	act.UpdatedAt = time.Now().UTC()
	return *act, nil
}

func (repo *activityRepository) DeleteActivity(ctx context.Context, id string) (activity.Activity, error) {
	repo.db.activity.Lock()
	defer repo.db.activity.Unlock()

	act, ok := repo.db.activity.table[id]
	if !ok {
		return activity.Activity{}, &core.NotFoundError{Entity: "activity"}
	}
	deleted := *act
	delete(repo.db.activity.table, id)
	return deleted, nil
}

func (repo *activityRepository) AppendActivityImage(ctx context.Context, id, url string) (activity.Activity, error) {
	repo.db.activity.Lock()
	defer repo.db.activity.Unlock()

	act, ok := repo.db.activity.table[id]
	if !ok {
		return activity.Activity{}, &core.NotFoundError{Entity: "activity"}
	}
	act.Images = append(act.Images, url)
	act.UpdatedAt = time.Now().UTC()
	return *act, nil
}

func (repo *activityRepository) SetActivityImages(ctx context.Context, id string, urls []string) (activity.Activity, error) {
	repo.db.activity.Lock()
	defer repo.db.activity.Unlock()

	act, ok := repo.db.activity.table[id]
	if !ok {
		return activity.Activity{}, &core.NotFoundError{Entity: "activity"}
	}
	act.Images = urls
	act.UpdatedAt = time.Now().UTC()
	return *act, nil
}
