package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/aimelive/mcsa-awards/core"
	"github.com/aimelive/mcsa-awards/core/activity"
	"github.com/aimelive/mcsa-awards/core/profile"
)

type activityRepository struct {
	db *mongo.Database
}

var _ activity.Repository = (*activityRepository)(nil)

func NewActivityRepository(db *mongo.Database) activity.Repository {
	return &activityRepository{db: db}
}

func (repo *activityRepository) activities() *mongo.Collection {
	return repo.db.Collection(activitiesCollection)
}

func (repo *activityRepository) CreateActivity(ctx context.Context, act activity.Activity) (activity.Activity, error) {
	if err := checkID("profile", act.UserProfileID); err != nil {
		return activity.Activity{}, err
	}
	act.ID = newID()
	err := withTx(ctx, repo.db, func(sc mongo.SessionContext) error {
		n, err := repo.db.Collection(profilesCollection).
			CountDocuments(sc, bson.M{"_id": act.UserProfileID})
		if err != nil {
			return err
		}
		if n == 0 {
			return &core.NotFoundError{Entity: "profile"}
		}
		_, err = repo.activities().InsertOne(sc, act)
		return err
	})
	if err != nil {
		return activity.Activity{}, err
	}
	return act, nil
}

func (repo *activityRepository) QueryActivities(ctx context.Context, profileID string) ([]activity.Activity, error) {
	match := bson.M{}
	if profileID != "" {
		match["userProfileId"] = profileID
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cur, err := repo.activities().Find(ctx, match, opts)
	if err != nil {
		return nil, err
	}
	acts := []activity.Activity{}
	if err := cur.All(ctx, &acts); err != nil {
		return nil, err
	}
	return acts, nil
}

func (repo *activityRepository) GetActivityByID(ctx context.Context, id string) (activity.Activity, error) {
	if err := checkID("activity", id); err != nil {
		return activity.Activity{}, err
	}
	var act activity.Activity
	if err := repo.activities().FindOne(ctx, bson.M{"_id": id}).Decode(&act); err != nil {
		return activity.Activity{}, mapErr(err, "activity")
	}
	return act, nil
}

func (repo *activityRepository) GetActivityDetail(ctx context.Context, id string) (activity.Detail, error) {
	act, err := repo.GetActivityByID(ctx, id)
	if err != nil {
		return activity.Detail{}, err
	}
	detail := activity.Detail{Activity: act}

	var prof profile.Profile
	err = repo.db.Collection(profilesCollection).
		FindOne(ctx, bson.M{"_id": act.UserProfileID}).Decode(&prof)
	if err != nil && err != mongo.ErrNoDocuments {
		return activity.Detail{}, err
	}
	if err == nil {
		detail.UserProfile = &prof
	}
	return detail, nil
}

func (repo *activityRepository) UpdateActivity(ctx context.Context, id string, ua activity.UpdateActivity) (activity.Activity, error) {
	if err := checkID("activity", id); err != nil {
		return activity.Activity{}, err
	}
	set := bson.M{"updatedAt": time.Now().UTC()}
	if ua.Title != "" {
		set["title"] = ua.Title
	}
	if ua.Caption != "" {
		set["caption"] = ua.Caption
	}
	return repo.findOneAndUpdate(ctx, id, bson.M{"$set": set})
}

func (repo *activityRepository) DeleteActivity(ctx context.Context, id string) (activity.Activity, error) {
	if err := checkID("activity", id); err != nil {
		return activity.Activity{}, err
	}
	var act activity.Activity
	if err := repo.activities().FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&act); err != nil {
		return activity.Activity{}, mapErr(err, "activity")
	}
	return act, nil
}

func (repo *activityRepository) AppendActivityImage(ctx context.Context, id, url string) (activity.Activity, error) {
	if err := checkID("activity", id); err != nil {
		return activity.Activity{}, err
	}
	update := bson.M{
		"$push": bson.M{"images": url},
		"$set":  bson.M{"updatedAt": time.Now().UTC()},
	}
	return repo.findOneAndUpdate(ctx, id, update)
}

func (repo *activityRepository) SetActivityImages(ctx context.Context, id string, urls []string) (activity.Activity, error) {
	if err := checkID("activity", id); err != nil {
		return activity.Activity{}, err
	}
	update := bson.M{
		"$set": bson.M{"images": urls, "updatedAt": time.Now().UTC()},
	}
	return repo.findOneAndUpdate(ctx, id, update)
}

func (repo *activityRepository) findOneAndUpdate(ctx context.Context, id string, update bson.M) (activity.Activity, error) {
	after := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var act activity.Activity
	err := repo.activities().
		FindOneAndUpdate(ctx, bson.M{"_id": id}, update, after).
		Decode(&act)
	if err != nil {
		return activity.Activity{}, mapErr(err, "activity")
	}
	return act, nil
}
