package dummydb

import (
	"context"
	"sort"

	"github.com/aimelive/mcsa-awards/core"
	"github.com/aimelive/mcsa-awards/core/activity"
	"github.com/aimelive/mcsa-awards/core/award"
	"github.com/aimelive/mcsa-awards/core/performance"
	"github.com/aimelive/mcsa-awards/core/user"
)

type userRepository struct {
	db *DB
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(db *DB) user.Repository {
	return &userRepository{db: db}
}

func (repo *userRepository) query() []user.User {
	users := make([]user.User, 0, len(repo.db.user.table))
	for _, usr := range repo.db.user.table {
		users = append(users, *usr)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].CreatedAt.After(users[j].CreatedAt) })
	return users
}

func (repo *userRepository) CreateUser(ctx context.Context, usr user.User) (user.User, error) {
	repo.db.user.Lock()
	defer repo.db.user.Unlock()

	for _, existing := range repo.db.user.table {
		if existing.Email == usr.Email {
			return user.User{}, &core.ConflictError{Field: "email"}
		}
	}
	usr.ID = newID()
	repo.db.user.table[usr.ID] = &usr
	return usr, nil
}

func (repo *userRepository) GetUserByID(ctx context.Context, id string) (user.User, error) {
	repo.db.user.RLock()
	defer repo.db.user.RUnlock()

	if usr, ok := repo.db.user.table[id]; ok {
		return *usr, nil
	}
	return user.User{}, &core.NotFoundError{Entity: "user"}
}

func (repo *userRepository) GetUserByEmail(ctx context.Context, email string) (user.User, error) {
	repo.db.user.RLock()
	defer repo.db.user.RUnlock()

	for _, usr := range repo.db.user.table {
		if usr.Email == email {
			found := *usr
			repo.attachProfile(&found)
			return found, nil
		}
	}
	return user.User{}, &core.NotFoundError{Entity: "user"}
}

func (repo *userRepository) GetUserDetail(ctx context.Context, id string) (user.Detail, error) {
	usr, err := repo.GetUserByID(ctx, id)
	if err != nil {
		return user.Detail{}, err
	}
	detail := user.Detail{User: usr}

	repo.db.profile.RLock()
	defer repo.db.profile.RUnlock()
	for _, prof := range repo.db.profile.table {
		if prof.UserID != usr.ID {
			continue
		}
		pd := user.ProfileDetail{
			Profile:      *prof,
			Performances: []performance.Performance{},
			Activities:   []activity.Activity{},
			Awards:       []award.Award{},
		}

		repo.db.performance.RLock()
		for _, p := range repo.db.performance.table {
			if p.UserProfileID == prof.ID {
				pd.Performances = append(pd.Performances, *p)
			}
		}
		repo.db.performance.RUnlock()

		repo.db.activity.RLock()
		for _, act := range repo.db.activity.table {
			if act.UserProfileID == prof.ID {
				pd.Activities = append(pd.Activities, *act)
			}
		}
		repo.db.activity.RUnlock()

		repo.db.award.RLock()
		for _, a := range repo.db.award.table {
			if a.UserProfileID == prof.ID {
				pd.Awards = append(pd.Awards, *a)
			}
		}
		repo.db.award.RUnlock()

		sort.Slice(pd.Performances, func(i, j int) bool {
			return pd.Performances[i].CreatedAt.After(pd.Performances[j].CreatedAt)
		})
		sort.Slice(pd.Activities, func(i, j int) bool {
			return pd.Activities[i].CreatedAt.After(pd.Activities[j].CreatedAt)
		})
		sort.Slice(pd.Awards, func(i, j int) bool {
			return pd.Awards[i].CreatedAt.After(pd.Awards[j].CreatedAt)
		})

		detail.ProfileDetail = &pd
		break
	}
	return detail, nil
}

func (repo *userRepository) QueryUsers(ctx context.Context, filter user.QueryFilter) ([]user.User, error) {
	repo.db.user.RLock()
	defer repo.db.user.RUnlock()

	users := []user.User{}
	for _, usr := range repo.query() {
		if filter.ViewerRole != user.RoleSuperAdmin {
			if usr.Role != user.RoleUser && usr.ID != filter.ViewerID {
				continue
			}
		}
		repo.attachProfile(&usr)
		users = append(users, usr)
		if len(users) == 50 {
			break
		}
	}
	return users, nil
}

func (repo *userRepository) UpdateUser(ctx context.Context, id string, changes user.Changes) (user.User, error) {
	repo.db.user.Lock()
	defer repo.db.user.Unlock()

	usr, ok := repo.db.user.table[id]
	if !ok {
		return user.User{}, &core.NotFoundError{Entity: "user"}
	}
	if changes.Email != "" && changes.Email != usr.Email {
		for _, existing := range repo.db.user.table {
			if existing.Email == changes.Email {
				return user.User{}, &core.ConflictError{Field: "email"}
			}
		}
		usr.Email = changes.Email
	}
	if changes.FirstName != "" {
		usr.FirstName = changes.FirstName
	}
	if changes.LastName != "" {
		usr.LastName = changes.LastName
	}
	if len(changes.PasswordHash) > 0 {
		usr.PasswordHash = changes.PasswordHash
	}
	if changes.Role != "" {
		usr.Role = changes.Role
	}
	if changes.Status != "" {
		usr.Status = changes.Status
	}
	if changes.Verified != nil {
		usr.Verified = *changes.Verified
	}
	usr.UpdatedAt = changes.UpdatedAt
	return *usr, nil
}

func (repo *userRepository) DeleteUser(ctx context.Context, id string, guard func(user.User) error) (user.User, error) {
	repo.db.user.Lock()
	defer repo.db.user.Unlock()

	usr, ok := repo.db.user.table[id]
	if !ok {
		return user.User{}, &core.NotFoundError{Entity: "user"}
	}
	if err := guard(*usr); err != nil {
		return user.User{}, err
	}
	deleted := *usr
	repo.attachProfile(&deleted)

	repo.db.profile.Lock()
	for pid, prof := range repo.db.profile.table {
		if prof.UserID == id {
			delete(repo.db.profile.table, pid)
		}
	}
	repo.db.profile.Unlock()

	delete(repo.db.user.table, id)
	return deleted, nil
}

func (repo *userRepository) attachProfile(usr *user.User) {
	repo.db.profile.RLock()
	defer repo.db.profile.RUnlock()

	for _, prof := range repo.db.profile.table {
		if prof.UserID == usr.ID {
			found := *prof
			usr.Profile = &found
			return
		}
	}
}
