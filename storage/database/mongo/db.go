package mongodb

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/aimelive/mcsa-awards/core"
)

// Collection names
const (
	usersCollection        = "users"
	profilesCollection     = "profiles"
	seasonsCollection      = "seasons"
	performancesCollection = "performances"
	awardsCollection       = "awards"
	activitiesCollection   = "activities"
)

// Open connects to the document store and waits for it to be ready.
func Open(ctx context.Context, conf *core.Config) (*mongo.Database, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(conf.Database.URI))
	if err != nil {
		return nil, errors.Wrap(err, "connecting to mongo")
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		return nil, errors.Wrap(err, "DB ping timeout")
	}
	return client.Database(conf.Database.Name), nil
}

// EnsureIndexes creates the unique indexes the data model relies on:
// User.email, Profile.userId and Season.name.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	unique := options.Index().SetUnique(true)
	for coll, field := range map[string]string{
		usersCollection:    "email",
		profilesCollection: "userId",
		seasonsCollection:  "name",
	} {
		_, err := db.Collection(coll).Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys:    bson.D{{Key: field, Value: 1}},
			Options: unique,
		})
		if err != nil {
			return errors.Wrapf(err, "creating unique index on %s.%s", coll, field)
		}
	}
	return nil
}

// withTx runs fn inside a multi-document transaction; any error aborts it.
func withTx(ctx context.Context, db *mongo.Database, fn func(sc mongo.SessionContext) error) error {
	session, err := db.Client().StartSession()
	if err != nil {
		return errors.Wrap(err, "starting session")
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}

// newID mints a document id; ids are stored as their hex form so the models
// can carry them as plain strings.
func newID() string { return primitive.NewObjectID().Hex() }

// checkID rejects malformed ids early; a malformed id can never match a
// document so it maps to the entity's not-found error.
func checkID(entity, id string) error {
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return &core.NotFoundError{Entity: entity}
	}
	return nil
}

// mapErr converts driver errors into the typed variants the services switch
// on; no message sniffing above this line.
func mapErr(err error, entity string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return &core.NotFoundError{Entity: entity}
	}
	if mongo.IsDuplicateKeyError(err) {
		return &core.ConflictError{Field: duplicateField(err)}
	}
	return err
}

// duplicateField extracts the offending field from a duplicate key error by
// its index name ("email_1" -> "email").
func duplicateField(err error) string {
	var we mongo.WriteException
	msg := err.Error()
	if errors.As(err, &we) && len(we.WriteErrors) > 0 {
		msg = we.WriteErrors[0].Message
	}
	for _, field := range []string{"email", "userId", "name"} {
		if strings.Contains(msg, field+"_1") {
			return field
		}
	}
	return "unknown"
}
