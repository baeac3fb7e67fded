package mongodb

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/aimelive/mcsa-awards/core"
	"github.com/aimelive/mcsa-awards/core/profile"
	"github.com/aimelive/mcsa-awards/core/user"
)

type profileRepository struct {
	db *mongo.Database
}

var _ user.ProfileRepository = (*profileRepository)(nil)

func NewProfileRepository(db *mongo.Database) user.ProfileRepository {
	return &profileRepository{db: db}
}

func (repo *profileRepository) profiles() *mongo.Collection {
	return repo.db.Collection(profilesCollection)
}

func (repo *profileRepository) CreateProfile(ctx context.Context, p profile.Profile) (profile.Profile, error) {
	if err := checkID("user", p.UserID); err != nil {
		return profile.Profile{}, err
	}
	p.ID = newID()
	err := withTx(ctx, repo.db, func(sc mongo.SessionContext) error {
		n, err := repo.db.Collection(usersCollection).
			CountDocuments(sc, bson.M{"_id": p.UserID})
		if err != nil {
			return err
		}
		if n == 0 {
			return &core.NotFoundError{Entity: "user"}
		}
		_, err = repo.profiles().InsertOne(sc, p)
		return mapErr(err, "profile")
	})
	if err != nil {
		return profile.Profile{}, err
	}
	return p, nil
}

func (repo *profileRepository) QueryProfiles(ctx context.Context) ([]profile.Profile, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cur, err := repo.profiles().Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	profiles := []profile.Profile{}
	if err := cur.All(ctx, &profiles); err != nil {
		return nil, err
	}
	return profiles, nil
}

func (repo *profileRepository) GetProfileByID(ctx context.Context, id string) (user.ProfileInfo, error) {
	if err := checkID("profile", id); err != nil {
		return user.ProfileInfo{}, err
	}
	return repo.getProfileInfo(ctx, bson.M{"_id": id})
}

func (repo *profileRepository) GetProfileByUserID(ctx context.Context, userID string) (user.ProfileInfo, error) {
	if err := checkID("profile", userID); err != nil {
		return user.ProfileInfo{}, err
	}
	return repo.getProfileInfo(ctx, bson.M{"userId": userID})
}

func (repo *profileRepository) getProfileInfo(ctx context.Context, filter bson.M) (user.ProfileInfo, error) {
	var prof profile.Profile
	if err := repo.profiles().FindOne(ctx, filter).Decode(&prof); err != nil {
		return user.ProfileInfo{}, mapErr(err, "profile")
	}
	info := user.ProfileInfo{Profile: prof}

	var owner user.User
	err := repo.db.Collection(usersCollection).
		FindOne(ctx, bson.M{"_id": prof.UserID}).Decode(&owner)
	if err != nil && err != mongo.ErrNoDocuments {
		return user.ProfileInfo{}, err
	}
	if err == nil {
		info.User = &owner
	}

	counts := profile.Counts{}
	owned := bson.M{"userProfileId": prof.ID}
	for coll, dst := range map[string]*int{
		performancesCollection: &counts.Performances,
		activitiesCollection:   &counts.Activities,
		awardsCollection:       &counts.Awards,
	} {
		n, err := repo.db.Collection(coll).CountDocuments(ctx, owned)
		if err != nil {
			return user.ProfileInfo{}, err
		}
		*dst = int(n)
	}
	info.Counts = &counts
	return info, nil
}

func (repo *profileRepository) UpdateProfileByUserID(ctx context.Context, userID string, changes user.ProfileChanges) (profile.Profile, error) {
	if err := checkID("profile", userID); err != nil {
		return profile.Profile{}, err
	}
	set := bson.M{"updatedAt": changes.UpdatedAt}
	if changes.Username != "" {
		set["username"] = changes.Username
	}
	if changes.Bio != "" {
		set["bio"] = changes.Bio
	}
	if changes.PhoneNumber != "" {
		set["phoneNumber"] = changes.PhoneNumber
	}
	if changes.ProfilePic != "" {
		set["profilePic"] = changes.ProfilePic
	}

	after := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var prof profile.Profile
	err := repo.profiles().
		FindOneAndUpdate(ctx, bson.M{"userId": userID}, bson.M{"$set": set}, after).
		Decode(&prof)
	if err != nil {
		return profile.Profile{}, mapErr(err, "profile")
	}
	return prof, nil
}
