package tasks

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoTask struct {
	ID        string    `bson:"_id"`
	Task      string    `bson:"task"`
	Completed bool      `bson:"completed"`
	CreatedAt time.Time `bson:"created_at"`
}

type MongoRepo struct {
	client *mongo.Client
	coll   *mongo.Collection
}

func NewMongoRepo(ctx context.Context, uri, database string) (*MongoRepo, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	return &MongoRepo{
		client: client,
		coll:   client.Database(database).Collection("tasks"),
	}, nil
}

func (r *MongoRepo) Create(ctx context.Context, t Task) (Task, error) {
	_, err := r.coll.InsertOne(ctx, mongoTask{ID: t.ID, Task: t.Task, Completed: t.Completed, CreatedAt: t.CreatedAt})
	if mongo.IsDuplicateKeyError(err) {
		return Task{}, ErrDuplicateID
	}
	if err != nil {
		return Task{}, err
	}
	return t, nil
}

// List relies on natural order, which matches insertion order while
// documents are never updated or removed.
func (r *MongoRepo) List(ctx context.Context) ([]Task, error) {
	cur, err := r.coll.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "$natural", Value: 1}}))
	if err != nil {
		return nil, err
	}
	var docs []mongoTask
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]Task, 0, len(docs))
	for _, d := range docs {
		out = append(out, Task{ID: d.ID, Task: d.Task, Completed: d.Completed, CreatedAt: d.CreatedAt.UTC()})
	}
	return out, nil
}

func (r *MongoRepo) Close(ctx context.Context) error { return r.client.Disconnect(ctx) }
