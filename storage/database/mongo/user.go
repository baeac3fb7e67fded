package mongodb

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/aimelive/mcsa-awards/core/activity"
	"github.com/aimelive/mcsa-awards/core/award"
	"github.com/aimelive/mcsa-awards/core/performance"
	"github.com/aimelive/mcsa-awards/core/profile"
	"github.com/aimelive/mcsa-awards/core/user"
)

const userListLimit = 50

type userRepository struct {
	db *mongo.Database
}

var _ user.Repository = (*userRepository)(nil)

func NewUserRepository(db *mongo.Database) user.Repository {
	return &userRepository{db: db}
}

func (repo *userRepository) users() *mongo.Collection {
	return repo.db.Collection(usersCollection)
}

func (repo *userRepository) CreateUser(ctx context.Context, usr user.User) (user.User, error) {
	usr.ID = newID()
	if _, err := repo.users().InsertOne(ctx, usr); err != nil {
		return user.User{}, mapErr(err, "user")
	}
	return usr, nil
}

func (repo *userRepository) GetUserByID(ctx context.Context, id string) (user.User, error) {
	if err := checkID("user", id); err != nil {
		return user.User{}, err
	}
	var usr user.User
	err := repo.users().FindOne(ctx, bson.M{"_id": id}).Decode(&usr)
	if err != nil {
		return user.User{}, mapErr(err, "user")
	}
	return usr, nil
}

func (repo *userRepository) GetUserByEmail(ctx context.Context, email string) (user.User, error) {
	var usr user.User
	err := repo.users().FindOne(ctx, bson.M{"email": email}).Decode(&usr)
	if err != nil {
		return user.User{}, mapErr(err, "user")
	}
	if err := repo.attachProfile(ctx, &usr); err != nil {
		return user.User{}, err
	}
	return usr, nil
}

func (repo *userRepository) GetUserDetail(ctx context.Context, id string) (user.Detail, error) {
	usr, err := repo.GetUserByID(ctx, id)
	if err != nil {
		return user.Detail{}, err
	}
	detail := user.Detail{User: usr}

	var prof profile.Profile
	err = repo.db.Collection(profilesCollection).
		FindOne(ctx, bson.M{"userId": usr.ID}).Decode(&prof)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return detail, nil
		}
		return user.Detail{}, err
	}

	pd := user.ProfileDetail{
		Profile:      prof,
		Performances: []performance.Performance{},
		Activities:   []activity.Activity{},
		Awards:       []award.Award{},
	}
	newestFirst := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	owned := bson.M{"userProfileId": prof.ID}

	cur, err := repo.db.Collection(performancesCollection).Find(ctx, owned, newestFirst)
	if err != nil {
		return user.Detail{}, err
	}
	if err := cur.All(ctx, &pd.Performances); err != nil {
		return user.Detail{}, err
	}
	cur, err = repo.db.Collection(activitiesCollection).Find(ctx, owned, newestFirst)
	if err != nil {
		return user.Detail{}, err
	}
	if err := cur.All(ctx, &pd.Activities); err != nil {
		return user.Detail{}, err
	}
	cur, err = repo.db.Collection(awardsCollection).Find(ctx, owned, newestFirst)
	if err != nil {
		return user.Detail{}, err
	}
	if err := cur.All(ctx, &pd.Awards); err != nil {
		return user.Detail{}, err
	}

	detail.ProfileDetail = &pd
	return detail, nil
}

func (repo *userRepository) QueryUsers(ctx context.Context, filter user.QueryFilter) ([]user.User, error) {
	match := bson.M{}
	if filter.ViewerRole != user.RoleSuperAdmin {
		// admins see the USER accounts plus their own account
		match["$or"] = bson.A{
			bson.M{"role": user.RoleUser},
			bson.M{"_id": filter.ViewerID},
		}
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(userListLimit)

	cur, err := repo.users().Find(ctx, match, opts)
	if err != nil {
		return nil, err
	}
	users := []user.User{}
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}

	// join profiles in one extra query instead of a lookup pipeline
	ids := make([]string, 0, len(users))
	for _, usr := range users {
		ids = append(ids, usr.ID)
	}
	if len(ids) == 0 {
		return users, nil
	}
	cur, err = repo.db.Collection(profilesCollection).Find(ctx, bson.M{"userId": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	var profiles []profile.Profile
	if err := cur.All(ctx, &profiles); err != nil {
		return nil, err
	}
	byUser := make(map[string]profile.Profile, len(profiles))
	for _, prof := range profiles {
		byUser[prof.UserID] = prof
	}
	for i := range users {
		if prof, ok := byUser[users[i].ID]; ok {
			users[i].Profile = &prof
		}
	}
	return users, nil
}

func (repo *userRepository) UpdateUser(ctx context.Context, id string, changes user.Changes) (user.User, error) {
	if err := checkID("user", id); err != nil {
		return user.User{}, err
	}
	set := bson.M{"updatedAt": changes.UpdatedAt}
	if changes.FirstName != "" {
		set["firstName"] = changes.FirstName
	}
	if changes.LastName != "" {
		set["lastName"] = changes.LastName
	}
	if changes.Email != "" {
		set["email"] = changes.Email
	}
	if len(changes.PasswordHash) > 0 {
		set["password"] = changes.PasswordHash
	}
	if changes.Role != "" {
		set["role"] = changes.Role
	}
	if changes.Status != "" {
		set["status"] = changes.Status
	}
	if changes.Verified != nil {
		set["verified"] = *changes.Verified
	}

	after := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var usr user.User
	err := repo.users().
		FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, after).
		Decode(&usr)
	if err != nil {
		return user.User{}, mapErr(err, "user")
	}
	return usr, nil
}

func (repo *userRepository) DeleteUser(ctx context.Context, id string, guard func(user.User) error) (user.User, error) {
	if err := checkID("user", id); err != nil {
		return user.User{}, err
	}
	var deleted user.User
	err := withTx(ctx, repo.db, func(sc mongo.SessionContext) error {
		if err := repo.users().FindOne(sc, bson.M{"_id": id}).Decode(&deleted); err != nil {
			return mapErr(err, "user")
		}
		if err := guard(deleted); err != nil {
			return err
		}
		if err := repo.attachProfile(sc, &deleted); err != nil {
			return err
		}
		if deleted.Profile != nil {
			_, err := repo.db.Collection(profilesCollection).
				DeleteOne(sc, bson.M{"_id": deleted.Profile.ID})
			if err != nil {
				return err
			}
		}
		_, err := repo.users().DeleteOne(sc, bson.M{"_id": id})
		return err
	})
	if err != nil {
		return user.User{}, err
	}
	return deleted, nil
}

func (repo *userRepository) attachProfile(ctx context.Context, usr *user.User) error {
	var prof profile.Profile
	err := repo.db.Collection(profilesCollection).
		FindOne(ctx, bson.M{"userId": usr.ID}).Decode(&prof)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil
		}
		return err
	}
	usr.Profile = &prof
	return nil
}
