package repository

import (
	"context"
	"sort"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"codeclash/internal/model"
)

// ExerciseRepo reads and writes the exercise pool. GetAll returns the pool
// sorted by slug: a stable order across all clients is part of the
// deterministic-selection contract, not an aesthetic choice.
type ExerciseRepo interface {
	GetAll(ctx context.Context) ([]model.Exercise, error)
	Upsert(ctx context.Context, ex *model.Exercise) error
}

type exerciseMongoRepo struct {
	collection *mongo.Collection
}

// NewExerciseRepo creates a MongoDB-backed exercise repository.
func NewExerciseRepo(db *mongo.Database) ExerciseRepo {
	return &exerciseMongoRepo{
		collection: db.Collection("exercises"),
	}
}

func (r *exerciseMongoRepo) GetAll(ctx context.Context) ([]model.Exercise, error) {
	cursor, err := r.collection.Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var pool []model.Exercise
	if err := cursor.All(ctx, &pool); err != nil {
		return nil, err
	}
	return pool, nil
}

func (r *exerciseMongoRepo) Upsert(ctx context.Context, ex *model.Exercise) error {
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": ex.Slug}, ex,
		options.Replace().SetUpsert(true))
	return err
}

type memoryExerciseRepo struct {
	mu   sync.RWMutex
	pool map[string]model.Exercise
}

// NewMemoryExerciseRepo creates an in-memory exercise repository preloaded
// with the given pool.
func NewMemoryExerciseRepo(pool []model.Exercise) ExerciseRepo {
	r := &memoryExerciseRepo{pool: make(map[string]model.Exercise, len(pool))}
	for _, ex := range pool {
		r.pool[ex.Slug] = ex
	}
	return r
}

func (r *memoryExerciseRepo) GetAll(_ context.Context) ([]model.Exercise, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.Exercise, 0, len(r.pool))
	for _, ex := range r.pool {
		out = append(out, ex)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Slug < out[j].Slug })
	return out, nil
}

func (r *memoryExerciseRepo) Upsert(_ context.Context, ex *model.Exercise) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.pool[ex.Slug] = *ex
	return nil
}
