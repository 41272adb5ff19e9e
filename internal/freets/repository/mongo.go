package repository

import (
	"context"
	"time"

	"github.com/fritterhq/fritter-services/internal/freets"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoRepo implements Repository on a MongoDB collection.
type MongoRepo struct {
	col *mongo.Collection
}

func NewMongoRepo(col *mongo.Collection) *MongoRepo {
	idx := mongo.IndexModel{Keys: bson.D{{Key: "authorId", Value: 1}, {Key: "dateCreated", Value: -1}}}
	col.Indexes().CreateOne(context.Background(), idx)
	return &MongoRepo{col: col}
}

func (m *MongoRepo) Create(ctx context.Context, f *freets.Freet) (string, error) {
	now := time.Now().UTC()
	if f.ID == "" {
		f.ID = primitive.NewObjectID().Hex()
	}
	f.DateCreated = now
	f.DateModified = now
	if _, err := m.col.InsertOne(ctx, f); err != nil {
		return "", err
	}
	return f.ID, nil
}

func (m *MongoRepo) Get(ctx context.Context, id string) (*freets.Freet, error) {
	var f freets.Freet
	if err := m.col.FindOne(ctx, bson.M{"_id": id}).Decode(&f); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &f, nil
}

func (m *MongoRepo) List(ctx context.Context) ([]*freets.Freet, error) {
	return m.list(ctx, bson.M{})
}

func (m *MongoRepo) ListByAuthor(ctx context.Context, authorID string) ([]*freets.Freet, error) {
	return m.list(ctx, bson.M{"authorId": authorID})
}

func (m *MongoRepo) Update(ctx context.Context, id, content string) error {
	set := bson.M{"content": content, "dateModified": time.Now().UTC()}
	res, err := m.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *MongoRepo) Delete(ctx context.Context, id string) error {
	res, err := m.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *MongoRepo) list(ctx context.Context, filter bson.M) ([]*freets.Freet, error) {
	opts := options.Find().SetSort(bson.D{{Key: "dateCreated", Value: -1}, {Key: "_id", Value: -1}})
	cur, err := m.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []*freets.Freet{}
	for cur.Next(ctx) {
		var f freets.Freet
		if err := cur.Decode(&f); err != nil {
			return nil, err
		}
		out = append(out, &f)
	}
	return out, cur.Err()
}
