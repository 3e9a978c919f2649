package repository

import (
	"context"
	"errors"
	"time"

	"assessment-service/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrReviewConflict means another review of the same (user, item) landed
// between read and write. The caller decides whether to reload and retry.
var ErrReviewConflict = errors.New("memory state changed concurrently")

type ReviewRepository struct {
	Col *mongo.Collection
}

func NewReviewRepository(db *mongo.Database) *ReviewRepository {
	return &ReviewRepository{Col: db.Collection("reviews")}
}

func (r *ReviewRepository) FindByUserAndItem(ctx context.Context, userID, itemID string) (*models.ItemMemoryState, error) {
	var state models.ItemMemoryState
	err := r.Col.FindOne(ctx, bson.M{"user_id": userID, "item_id": itemID}).Decode(&state)
	if err != nil {
		return nil, err
	}
	return &state, nil
}

func (r *ReviewRepository) Insert(ctx context.Context, state *models.ItemMemoryState) error {
	_, err := r.Col.InsertOne(ctx, state)
	return err
}

// CompareAndSwap replaces the stored state only if it still carries the
// last-reviewed timestamp the caller read. Two concurrent reviews of one
// (user, item) pair therefore cannot silently lose an update.
func (r *ReviewRepository) CompareAndSwap(ctx context.Context, state *models.ItemMemoryState, readLastReviewedAt time.Time) error {
	filter := bson.M{
		"user_id":          state.UserID,
		"item_id":          state.ItemID,
		"last_reviewed_at": readLastReviewedAt,
	}
	res, err := r.Col.ReplaceOne(ctx, filter, state)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrReviewConflict
	}
	return nil
}

// FindDue lists memory states due at or before the given instant, most
// overdue first.
func (r *ReviewRepository) FindDue(ctx context.Context, userID string, before time.Time, limit int64) ([]models.ItemMemoryState, error) {
	filter := bson.M{
		"user_id":     userID,
		"next_due_at": bson.M{"$lte": before},
	}
	opts := options.Find().SetSort(bson.M{"next_due_at": 1}).SetLimit(limit)
	cursor, err := r.Col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var states []models.ItemMemoryState
	if err := cursor.All(ctx, &states); err != nil {
		return nil, err
	}
	return states, nil
}
