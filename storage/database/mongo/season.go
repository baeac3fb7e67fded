package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/aimelive/mcsa-awards/core/season"
)

type seasonRepository struct {
	db *mongo.Database
}

var _ season.Repository = (*seasonRepository)(nil)

func NewSeasonRepository(db *mongo.Database) season.Repository {
	return &seasonRepository{db: db}
}

func (repo *seasonRepository) seasons() *mongo.Collection {
	return repo.db.Collection(seasonsCollection)
}

func (repo *seasonRepository) CreateSeason(ctx context.Context, s season.Season) (season.Season, error) {
	s.ID = newID()
	if _, err := repo.seasons().InsertOne(ctx, s); err != nil {
		return season.Season{}, mapErr(err, "season")
	}
	return s, nil
}

func (repo *seasonRepository) QuerySeasons(ctx context.Context) ([]season.Detail, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	cur, err := repo.seasons().Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	var seasons []season.Season
	if err := cur.All(ctx, &seasons); err != nil {
		return nil, err
	}
	details := make([]season.Detail, 0, len(seasons))
	for _, s := range seasons {
		counts, err := repo.countForSeason(ctx, s.Name)
		if err != nil {
			return nil, err
		}
		details = append(details, season.Detail{Season: s, Counts: &counts})
	}
	return details, nil
}

func (repo *seasonRepository) GetSeasonByName(ctx context.Context, name string) (season.Detail, error) {
	var s season.Season
	if err := repo.seasons().FindOne(ctx, bson.M{"name": name}).Decode(&s); err != nil {
		return season.Detail{}, mapErr(err, "season")
	}
	counts, err := repo.countForSeason(ctx, s.Name)
	if err != nil {
		return season.Detail{}, err
	}
	return season.Detail{Season: s, Counts: &counts}, nil
}

func (repo *seasonRepository) countForSeason(ctx context.Context, name string) (season.Counts, error) {
	counts := season.Counts{}
	bySeason := bson.M{"seasonName": name}
	n, err := repo.db.Collection(performancesCollection).CountDocuments(ctx, bySeason)
	if err != nil {
		return counts, err
	}
	counts.Performances = int(n)
	n, err = repo.db.Collection(awardsCollection).CountDocuments(ctx, bySeason)
	if err != nil {
		return counts, err
	}
	counts.Awards = int(n)
	return counts, nil
}

func (repo *seasonRepository) UpdateSeason(ctx context.Context, name string, date time.Time) (season.Season, error) {
	update := bson.M{"$set": bson.M{"date": date, "updatedAt": time.Now().UTC()}}
	after := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var s season.Season
	err := repo.seasons().
		FindOneAndUpdate(ctx, bson.M{"name": name}, update, after).
		Decode(&s)
	if err != nil {
		return season.Season{}, mapErr(err, "season")
	}
	return s, nil
}

func (repo *seasonRepository) DeleteSeason(ctx context.Context, name string) (season.Season, error) {
	var s season.Season
	err := repo.seasons().FindOneAndDelete(ctx, bson.M{"name": name}).Decode(&s)
	if err != nil {
		return season.Season{}, mapErr(err, "season")
	}
	return s, nil
}
