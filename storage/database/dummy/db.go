package dummydb

import (
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/aimelive/mcsa-awards/core/activity"
	"github.com/aimelive/mcsa-awards/core/award"
	"github.com/aimelive/mcsa-awards/core/performance"
	"github.com/aimelive/mcsa-awards/core/profile"
	"github.com/aimelive/mcsa-awards/core/season"
	"github.com/aimelive/mcsa-awards/core/user"
)

type (
	DB struct {
		user        *userTable
		profile     *profileTable
		season      *seasonTable
		activity    *activityTable
		performance *performanceTable
		award       *awardTable
	}

	userTable struct {
		sync.RWMutex
		table map[string]*user.User
	}

	profileTable struct {
		sync.RWMutex
		table map[string]*profile.Profile
	}

	seasonTable struct {
		sync.RWMutex
		table map[string]*season.Season
	}

	activityTable struct {
		sync.RWMutex
		table map[string]*activity.Activity
	}

	performanceTable struct {
		sync.RWMutex
		table map[string]*performance.Performance
	}

	awardTable struct {
		sync.RWMutex
		table map[string]*award.Award
	}
)

func Open() (*DB, error) {
	db := &DB{
		user:        &userTable{table: make(map[string]*user.User)},
		profile:     &profileTable{table: make(map[string]*profile.Profile)},
		season:      &seasonTable{table: make(map[string]*season.Season)},
		activity:    &activityTable{table: make(map[string]*activity.Activity)},
		performance: &performanceTable{table: make(map[string]*performance.Performance)},
		award:       &awardTable{table: make(map[string]*award.Award)},
	}
	return db, nil
}

func newID() string { return primitive.NewObjectID().Hex() }
