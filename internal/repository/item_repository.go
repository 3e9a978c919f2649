package repository

import (
	"context"

	"assessment-service/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type ItemRepository struct {
	Col *mongo.Collection
}

func NewItemRepository(db *mongo.Database) *ItemRepository {
	return &ItemRepository{Col: db.Collection("items")}
}

// FindByBankID loads the full immutable item list of one bank.
func (r *ItemRepository) FindByBankID(ctx context.Context, bankID string) ([]models.AssessableItem, error) {
	cursor, err := r.Col.Find(ctx, bson.M{"bank_id": bankID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var items []models.AssessableItem
	if err := cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *ItemRepository) FindByID(ctx context.Context, id string) (*models.AssessableItem, error) {
	var item models.AssessableItem
	if err := r.Col.FindOne(ctx, bson.M{"_id": id}).Decode(&item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *ItemRepository) Insert(ctx context.Context, item *models.AssessableItem) error {
	_, err := r.Col.InsertOne(ctx, item)
	return err
}

func (r *ItemRepository) Update(ctx context.Context, id string, update bson.M) error {
	_, err := r.Col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": update})
	return err
}

func (r *ItemRepository) Delete(ctx context.Context, id string) error {
	_, err := r.Col.DeleteOne(ctx, bson.M{"_id": id})
	return err
}
