package dummydb

import (
	"context"
	"sort"

	"github.com/aimelive/mcsa-awards/core"
	"github.com/aimelive/mcsa-awards/core/profile"
	"github.com/aimelive/mcsa-awards/core/user"
)

type profileRepository struct {
	db *DB
}

var _ user.ProfileRepository = (*profileRepository)(nil) // interface compliance check

func NewProfileRepository(db *DB) user.ProfileRepository {
	return &profileRepository{db: db}
}

func (repo *profileRepository) CreateProfile(ctx context.Context, p profile.Profile) (profile.Profile, error) {
	repo.db.user.RLock()
	_, userExists := repo.db.user.table[p.UserID]
	repo.db.user.RUnlock()
	if !userExists {
		return profile.Profile{}, &core.NotFoundError{Entity: "user"}
	}

	repo.db.profile.Lock()
	defer repo.db.profile.Unlock()

	for _, existing := range repo.db.profile.table {
		if existing.UserID == p.UserID {
			return profile.Profile{}, &core.ConflictError{Field: "userId"}
		}
	}
	p.ID = newID()
	repo.db.profile.table[p.ID] = &p
	return p, nil
}

func (repo *profileRepository) QueryProfiles(ctx context.Context) ([]profile.Profile, error) {
	repo.db.profile.RLock()
	defer repo.db.profile.RUnlock()

	profiles := make([]profile.Profile, 0, len(repo.db.profile.table))
	for _, prof := range repo.db.profile.table {
		profiles = append(profiles, *prof)
	}
	sort.Slice(profiles, func(i, j int) bool {
		return profiles[i].CreatedAt.After(profiles[j].CreatedAt)
	})
	return profiles, nil
}

func (repo *profileRepository) GetProfileByID(ctx context.Context, id string) (user.ProfileInfo, error) {
	repo.db.profile.RLock()
	prof, ok := repo.db.profile.table[id]
	if !ok {
		repo.db.profile.RUnlock()
		return user.ProfileInfo{}, &core.NotFoundError{Entity: "profile"}
	}
	found := *prof
	repo.db.profile.RUnlock()
	return repo.buildInfo(found), nil
}

func (repo *profileRepository) GetProfileByUserID(ctx context.Context, userID string) (user.ProfileInfo, error) {
	repo.db.profile.RLock()
	for _, prof := range repo.db.profile.table {
		if prof.UserID == userID {
			found := *prof
			repo.db.profile.RUnlock()
			return repo.buildInfo(found), nil
		}
	}
	repo.db.profile.RUnlock()
	return user.ProfileInfo{}, &core.NotFoundError{Entity: "profile"}
}

func (repo *profileRepository) buildInfo(prof profile.Profile) user.ProfileInfo {
	info := user.ProfileInfo{Profile: prof}

	repo.db.user.RLock()
	if owner, ok := repo.db.user.table[prof.UserID]; ok {
		found := *owner
		info.User = &found
	}
	repo.db.user.RUnlock()

	counts := profile.Counts{}
	repo.db.performance.RLock()
	for _, p := range repo.db.performance.table {
		if p.UserProfileID == prof.ID {
			counts.Performances++
		}
	}
	repo.db.performance.RUnlock()
	repo.db.activity.RLock()
	for _, act := range repo.db.activity.table {
		if act.UserProfileID == prof.ID {
			counts.Activities++
		}
	}
	repo.db.activity.RUnlock()
	repo.db.award.RLock()
	for _, a := range repo.db.award.table {
		if a.UserProfileID == prof.ID {
			counts.Awards++
		}
	}
	repo.db.award.RUnlock()

	info.Counts = &counts
	return info
}

func (repo *profileRepository) UpdateProfileByUserID(ctx context.Context, userID string, changes user.ProfileChanges) (profile.Profile, error) {
	repo.db.profile.Lock()
	defer repo.db.profile.Unlock()

	for _, prof := range repo.db.profile.table {
		if prof.UserID != userID {
			continue
		}
		if changes.Username != "" {
			prof.Username = changes.Username
		}
		if changes.Bio != "" {
			prof.Bio = changes.Bio
		}
		if changes.PhoneNumber != "" {
			prof.PhoneNumber = changes.PhoneNumber
		}
		if changes.ProfilePic != "" {
			prof.ProfilePic = changes.ProfilePic
		}
		prof.UpdatedAt = changes.UpdatedAt
		return *prof, nil
	}
	return profile.Profile{}, &core.NotFoundError{Entity: "profile"}
}
