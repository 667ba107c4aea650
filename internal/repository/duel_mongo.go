package repository

import (
	"context"
	"log"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"codeclash/internal/model"
)

type duelMongoRepo struct {
	collection *mongo.Collection
}

// NewDuelRepo creates a MongoDB-backed duel repository. The duel code is the
// document _id, so Create gets duplicate-key enforcement for free.
func NewDuelRepo(db *mongo.Database) DuelRepo {
	return &duelMongoRepo{
		collection: db.Collection("duels"),
	}
}

func (r *duelMongoRepo) Create(ctx context.Context, duel *model.Duel) error {
	_, err := r.collection.InsertOne(ctx, duel)
	if mongo.IsDuplicateKeyError(err) {
		return ErrCodeTaken
	}
	return err
}

func (r *duelMongoRepo) Get(ctx context.Context, code string) (*model.Duel, error) {
	var duel model.Duel
	err := r.collection.FindOne(ctx, bson.M{"_id": code}).Decode(&duel)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &duel, nil
}

func (r *duelMongoRepo) SetFields(ctx context.Context, code string, fields map[string]interface{}) error {
	set := bson.M{}
	for k, v := range Normalize(fields) {
		set[k] = v
	}
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": code}, bson.M{"$set": set})
	return err
}

func (r *duelMongoRepo) Delete(ctx context.Context, code string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": code})
	return err
}

func (r *duelMongoRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.collection.DeleteMany(ctx, bson.M{"createdAt": bson.M{"$lt": cutoff}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func (r *duelMongoRepo) Subscribe(ctx context.Context, code string, onChange func(*model.Duel)) (func(), error) {
	streamCtx, cancel := context.WithCancel(context.Background())

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{"documentKey._id": code}}},
	}
	stream, err := r.collection.Watch(streamCtx, pipeline,
		options.ChangeStream().SetFullDocument(options.UpdateLookup))
	if err != nil {
		cancel()
		return nil, err
	}

	// The stream is opened before the initial read, so a write landing in
	// between is delivered twice rather than missed. Snapshot redelivery is
	// harmless to consumers.
	current, err := r.Get(ctx, code)
	if err != nil {
		cancel()
		stream.Close(context.Background())
		return nil, err
	}
	if current != nil {
		onChange(current)
	}

	go func() {
		defer stream.Close(context.Background())
		for stream.Next(streamCtx) {
			var event struct {
				FullDocument *model.Duel `bson:"fullDocument"`
			}
			if err := stream.Decode(&event); err != nil {
				log.Printf("duel change stream decode error for %s: %v", code, err)
				continue
			}
			if event.FullDocument != nil {
				onChange(event.FullDocument)
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(cancel)
	}, nil
}
