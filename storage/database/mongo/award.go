package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/aimelive/mcsa-awards/core"
	"github.com/aimelive/mcsa-awards/core/award"
	"github.com/aimelive/mcsa-awards/core/profile"
	"github.com/aimelive/mcsa-awards/core/season"
)

type awardRepository struct {
	db *mongo.Database
}

var _ award.Repository = (*awardRepository)(nil)

func NewAwardRepository(db *mongo.Database) award.Repository {
	return &awardRepository{db: db}
}

func (repo *awardRepository) awards() *mongo.Collection {
	return repo.db.Collection(awardsCollection)
}

func (repo *awardRepository) CreateAward(ctx context.Context, a award.Award) (award.Award, error) {
	if err := checkID("profile", a.UserProfileID); err != nil {
		return award.Award{}, err
	}
	a.ID = newID()
	err := withTx(ctx, repo.db, func(sc mongo.SessionContext) error {
		n, err := repo.db.Collection(profilesCollection).
			CountDocuments(sc, bson.M{"_id": a.UserProfileID})
		if err != nil {
			return err
		}
		if n == 0 {
			return &core.NotFoundError{Entity: "profile"}
		}
		n, err = repo.db.Collection(seasonsCollection).
			CountDocuments(sc, bson.M{"name": a.SeasonName})
		if err != nil {
			return err
		}
		if n == 0 {
			return &core.NotFoundError{Entity: "season"}
		}
		_, err = repo.awards().InsertOne(sc, a)
		return err
	})
	if err != nil {
		return award.Award{}, err
	}
	return a, nil
}

func (repo *awardRepository) QueryAwards(ctx context.Context, filter award.QueryFilter) ([]award.Award, error) {
	match := bson.M{}
	if filter.ProfileID != "" {
		match["userProfileId"] = filter.ProfileID
	}
	if filter.SeasonName != "" {
		match["seasonName"] = filter.SeasonName
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cur, err := repo.awards().Find(ctx, match, opts)
	if err != nil {
		return nil, err
	}
	awards := []award.Award{}
	if err := cur.All(ctx, &awards); err != nil {
		return nil, err
	}
	return awards, nil
}

func (repo *awardRepository) GetAwardByID(ctx context.Context, id string) (award.Award, error) {
	if err := checkID("award", id); err != nil {
		return award.Award{}, err
	}
	var a award.Award
	if err := repo.awards().FindOne(ctx, bson.M{"_id": id}).Decode(&a); err != nil {
		return award.Award{}, mapErr(err, "award")
	}
	return a, nil
}

func (repo *awardRepository) GetAwardDetail(ctx context.Context, id string) (award.Detail, error) {
	a, err := repo.GetAwardByID(ctx, id)
	if err != nil {
		return award.Detail{}, err
	}
	detail := award.Detail{Award: a}

	var s season.Season
	err = repo.db.Collection(seasonsCollection).
		FindOne(ctx, bson.M{"name": a.SeasonName}).Decode(&s)
	if err != nil && err != mongo.ErrNoDocuments {
		return award.Detail{}, err
	}
	if err == nil {
		detail.Season = &s
	}

	var prof profile.Profile
	err = repo.db.Collection(profilesCollection).
		FindOne(ctx, bson.M{"_id": a.UserProfileID}).Decode(&prof)
	if err != nil && err != mongo.ErrNoDocuments {
		return award.Detail{}, err
	}
	if err == nil {
		detail.UserProfile = &prof
	}
	return detail, nil
}

func (repo *awardRepository) UpdateAward(ctx context.Context, id string, ua award.UpdateAward, featuredPhoto string) (award.Award, error) {
	if err := checkID("award", id); err != nil {
		return award.Award{}, err
	}
	set := bson.M{"updatedAt": time.Now().UTC()}
	if ua.Title != "" {
		set["title"] = ua.Title
	}
	if ua.Caption != "" {
		set["caption"] = ua.Caption
	}
	if ua.Category != "" {
		set["category"] = ua.Category
	}
	if ua.SeasonName != "" {
		set["seasonName"] = ua.SeasonName
	}
	if featuredPhoto != "" {
		set["featuredPhoto"] = featuredPhoto
	}
	return repo.findOneAndUpdate(ctx, id, bson.M{"$set": set})
}

func (repo *awardRepository) StampCertificateDownload(ctx context.Context, id string, stamp award.CertificateStamp) (award.Award, error) {
	if err := checkID("award", id); err != nil {
		return award.Award{}, err
	}
	update := bson.M{"$set": bson.M{
		"certificateDownloads":        stamp.Remaining,
		"certificateLastDownloadedAt": stamp.DownloadedAt,
		"updatedAt":                   time.Now().UTC(),
	}}
	return repo.findOneAndUpdate(ctx, id, update)
}

func (repo *awardRepository) DeleteAward(ctx context.Context, id string) (award.Award, error) {
	if err := checkID("award", id); err != nil {
		return award.Award{}, err
	}
	var a award.Award
	if err := repo.awards().FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&a); err != nil {
		return award.Award{}, mapErr(err, "award")
	}
	return a, nil
}

func (repo *awardRepository) findOneAndUpdate(ctx context.Context, id string, update bson.M) (award.Award, error) {
	after := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var a award.Award
	err := repo.awards().
		FindOneAndUpdate(ctx, bson.M{"_id": id}, update, after).
		Decode(&a)
	if err != nil {
		return award.Award{}, mapErr(err, "award")
	}
	return a, nil
}
