package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/aimelive/mcsa-awards/core"
	"github.com/aimelive/mcsa-awards/core/performance"
	"github.com/aimelive/mcsa-awards/core/profile"
)

type performanceRepository struct {
	db *mongo.Database
}

var _ performance.Repository = (*performanceRepository)(nil)

func NewPerformanceRepository(db *mongo.Database) performance.Repository {
	return &performanceRepository{db: db}
}

func (repo *performanceRepository) performances() *mongo.Collection {
	return repo.db.Collection(performancesCollection)
}

func (repo *performanceRepository) CreatePerformance(ctx context.Context, p performance.Performance) (performance.Performance, error) {
	if err := checkID("profile", p.UserProfileID); err != nil {
		return performance.Performance{}, err
	}
	p.ID = newID()
	err := withTx(ctx, repo.db, func(sc mongo.SessionContext) error {
		n, err := repo.db.Collection(profilesCollection).
			CountDocuments(sc, bson.M{"_id": p.UserProfileID})
		if err != nil {
			return err
		}
		if n == 0 {
			return &core.NotFoundError{Entity: "profile"}
		}
		_, err = repo.performances().InsertOne(sc, p)
		return err
	})
	if err != nil {
		return performance.Performance{}, err
	}
	return p, nil
}

func (repo *performanceRepository) QueryPerformances(ctx context.Context, filter performance.QueryFilter) ([]performance.Performance, error) {
	match := bson.M{}
	if filter.ProfileID != "" {
		match["userProfileId"] = filter.ProfileID
	}
	if filter.SeasonName != "" {
		match["seasonName"] = filter.SeasonName
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cur, err := repo.performances().Find(ctx, match, opts)
	if err != nil {
		return nil, err
	}
	perfs := []performance.Performance{}
	if err := cur.All(ctx, &perfs); err != nil {
		return nil, err
	}
	return perfs, nil
}

func (repo *performanceRepository) GetPerformanceByID(ctx context.Context, id string) (performance.Performance, error) {
	if err := checkID("performance", id); err != nil {
		return performance.Performance{}, err
	}
	var p performance.Performance
	if err := repo.performances().FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		return performance.Performance{}, mapErr(err, "performance")
	}
	return p, nil
}

func (repo *performanceRepository) GetPerformanceDetail(ctx context.Context, id string) (performance.Detail, error) {
	p, err := repo.GetPerformanceByID(ctx, id)
	if err != nil {
		return performance.Detail{}, err
	}
	detail := performance.Detail{Performance: p}

	var prof profile.Profile
	err = repo.db.Collection(profilesCollection).
		FindOne(ctx, bson.M{"_id": p.UserProfileID}).Decode(&prof)
	if err != nil && err != mongo.ErrNoDocuments {
		return performance.Detail{}, err
	}
	if err == nil {
		detail.UserProfile = &prof
	}
	return detail, nil
}

func (repo *performanceRepository) UpdatePerformance(ctx context.Context, id string, up performance.UpdatePerformance) (performance.Performance, error) {
	if err := checkID("performance", id); err != nil {
		return performance.Performance{}, err
	}
	set := bson.M{"updatedAt": time.Now().UTC()}
	if up.Title != "" {
		set["title"] = up.Title
	}
	if up.Description != "" {
		set["description"] = up.Description
	}
	if up.SeasonName != "" {
		set["seasonName"] = up.SeasonName
	}
	if up.VideoURL != "" {
		set["videoUrl"] = up.VideoURL
	}
	if up.Duration != "" {
		set["duration"] = up.Duration
	}
	return repo.findOneAndUpdate(ctx, id, bson.M{"$set": set})
}

func (repo *performanceRepository) DeletePerformance(ctx context.Context, id string) (performance.Performance, error) {
	if err := checkID("performance", id); err != nil {
		return performance.Performance{}, err
	}
	var p performance.Performance
	if err := repo.performances().FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		return performance.Performance{}, mapErr(err, "performance")
	}
	return p, nil
}

func (repo *performanceRepository) AppendPerformanceImage(ctx context.Context, id, url string) (performance.Performance, error) {
	if err := checkID("performance", id); err != nil {
		return performance.Performance{}, err
	}
	update := bson.M{
		"$push": bson.M{"images": url},
		"$set":  bson.M{"updatedAt": time.Now().UTC()},
	}
	return repo.findOneAndUpdate(ctx, id, update)
}

func (repo *performanceRepository) SetPerformanceImages(ctx context.Context, id string, urls []string) (performance.Performance, error) {
	if err := checkID("performance", id); err != nil {
		return performance.Performance{}, err
	}
	update := bson.M{
		"$set": bson.M{"images": urls, "updatedAt": time.Now().UTC()},
	}
	return repo.findOneAndUpdate(ctx, id, update)
}

func (repo *performanceRepository) findOneAndUpdate(ctx context.Context, id string, update bson.M) (performance.Performance, error) {
	after := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var p performance.Performance
	err := repo.performances().
		FindOneAndUpdate(ctx, bson.M{"_id": id}, update, after).
		Decode(&p)
	if err != nil {
		return performance.Performance{}, mapErr(err, "performance")
	}
	return p, nil
}
