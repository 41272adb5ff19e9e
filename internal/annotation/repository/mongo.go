package repository

import (
	"context"
	"time"

	"github.com/fritterhq/fritter-services/internal/annotation"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore implements Store on a MongoDB collection.
//
// A unique index on uniqueKey turns duplicate inserts into server-side
// duplicate-key errors, and the pin replace is a single FindOneAndUpdate
// upsert on that key. Neither path has a window where a reader can observe
// two records (or none) for one key.
type MongoStore struct {
	col *mongo.Collection
}

func NewMongoStore(col *mongo.Collection) *MongoStore {
	idx := []mongo.IndexModel{
		{Keys: bson.D{{Key: "uniqueKey", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "kind", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "kind", Value: 1}, {Key: "authorId", Value: 1}, {Key: "createdAt", Value: -1}}},
	}
	col.Indexes().CreateMany(context.Background(), idx)
	return &MongoStore{col: col}
}

func (m *MongoStore) Insert(ctx context.Context, a *annotation.Annotation) error {
	if a.ID == "" {
		a.ID = primitive.NewObjectID().Hex()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	if _, err := m.col.InsertOne(ctx, a); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

// ReplaceByKey installs a as the sole record for its uniqueKey, retiring any
// prior holder in the same store operation.
func (m *MongoStore) ReplaceByKey(ctx context.Context, a *annotation.Annotation) (bool, error) {
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	freshID := primitive.NewObjectID().Hex()
	update := bson.M{
		"$set": bson.M{
			"kind":          a.Kind,
			"freetId":       a.FreetID,
			"authorId":      a.AuthorID,
			"freetAuthorId": a.FreetAuthorID,
			"content":       a.Content,
			"createdAt":     a.CreatedAt,
		},
		"$setOnInsert": bson.M{"_id": freshID},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	var out annotation.Annotation
	if err := m.col.FindOneAndUpdate(ctx, bson.M{"uniqueKey": a.UniqueKey}, update, opts).Decode(&out); err != nil {
		return false, err
	}
	a.ID = out.ID
	// a kept _id means the key was already occupied and got overwritten
	return out.ID != freshID, nil
}

func (m *MongoStore) DeleteByKey(ctx context.Context, key string) error {
	res, err := m.col.DeleteOne(ctx, bson.M{"uniqueKey": key})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *MongoStore) Exists(ctx context.Context, key string) (bool, error) {
	n, err := m.col.CountDocuments(ctx, bson.M{"uniqueKey": key}, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (m *MongoStore) FindByKey(ctx context.Context, key string) (*annotation.Annotation, error) {
	var a annotation.Annotation
	if err := m.col.FindOne(ctx, bson.M{"uniqueKey": key}).Decode(&a); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (m *MongoStore) ListAll(ctx context.Context, kind annotation.Kind) ([]*annotation.Annotation, error) {
	return m.list(ctx, bson.M{"kind": kind})
}

func (m *MongoStore) ListByAuthor(ctx context.Context, kind annotation.Kind, authorID string) ([]*annotation.Annotation, error) {
	return m.list(ctx, bson.M{"kind": kind, "authorId": authorID})
}

func (m *MongoStore) CountByKey(ctx context.Context, key string) (int64, error) {
	return m.col.CountDocuments(ctx, bson.M{"uniqueKey": key})
}

func (m *MongoStore) list(ctx context.Context, filter bson.M) ([]*annotation.Annotation, error) {
	// _id desc as secondary sort keeps equal timestamps in insertion order
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	cur, err := m.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []*annotation.Annotation{}
	for cur.Next(ctx) {
		var a annotation.Annotation
		if err := cur.Decode(&a); err != nil {
			return nil, err
		}
		out = append(out, &a)
	}
	return out, cur.Err()
}
