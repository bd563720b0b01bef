package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/PranavReddyy/stallsatfest-sub000/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoRepository struct {
	stalls *mongo.Collection
	items  *mongo.Collection
}

func NewMongoRepository(db *mongo.Database) MenuRepository {
	return &mongoRepository{
		stalls: db.Collection("stalls"),
		items:  db.Collection("menu_items"),
	}
}

func (m *mongoRepository) GetStall(ctx context.Context, stallID string) (*domain.Stall, error) {
	var stall domain.Stall

	filter := bson.M{"stall_id": stallID}
	err := m.stalls.FindOne(ctx, filter).Decode(&stall)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrStallNotFound
		}
		return nil, fmt.Errorf("failed to get stall: %w", err)
	}

	return &stall, nil
}

func (m *mongoRepository) ListActiveStalls(ctx context.Context) ([]domain.Stall, error) {
	filter := bson.M{"is_active": true}
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})

	cursor, err := m.stalls.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list stalls: %w", err)
	}
	defer cursor.Close(ctx)

	var stalls []domain.Stall
	if err := cursor.All(ctx, &stalls); err != nil {
		return nil, fmt.Errorf("failed to decode stalls: %w", err)
	}

	return stalls, nil
}

func (m *mongoRepository) SetStallActive(ctx context.Context, stallID string, active bool) (*domain.Stall, error) {
	filter := bson.M{"stall_id": stallID}
	update := bson.M{"$set": bson.M{
		"is_active":  active,
		"updated_at": time.Now(),
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var stall domain.Stall
	err := m.stalls.FindOneAndUpdate(ctx, filter, update, opts).Decode(&stall)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrStallNotFound
		}
		return nil, fmt.Errorf("failed to update stall visibility: %w", err)
	}

	return &stall, nil
}

func (m *mongoRepository) GetMenuItems(ctx context.Context, stallID string) ([]domain.MenuItem, error) {
	filter := bson.M{"stall_id": stallID}
	opts := options.Find().SetSort(bson.D{{Key: "category", Value: 1}, {Key: "name", Value: 1}})

	cursor, err := m.items.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to get menu items: %w", err)
	}
	defer cursor.Close(ctx)

	var items []domain.MenuItem
	if err := cursor.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("failed to decode menu items: %w", err)
	}

	return items, nil
}

func (m *mongoRepository) UpsertMenuItem(ctx context.Context, item *domain.MenuItem) error {
	now := time.Now()
	if item.CreatedAt.IsZero() {
		item.CreatedAt = now
	}
	item.UpdatedAt = now

	filter := bson.M{"item_id": item.ID}
	update := bson.M{"$set": item}
	opts := options.Update().SetUpsert(true)

	if _, err := m.items.UpdateOne(ctx, filter, update, opts); err != nil {
		return fmt.Errorf("failed to upsert menu item: %w", err)
	}

	return nil
}

func (m *mongoRepository) UpdateItemAvailability(ctx context.Context, itemID string, available bool) error {
	filter := bson.M{"item_id": itemID}
	update := bson.M{"$set": bson.M{
		"is_available": available,
		"updated_at":   time.Now(),
	}}

	result, err := m.items.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update item availability: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrItemNotFound
	}

	return nil
}

func (m *mongoRepository) UpdateExtraAvailability(ctx context.Context, itemID, extraID string, available bool) error {
	filter := bson.M{
		"item_id":         itemID,
		"extras.extra_id": extraID,
	}
	update := bson.M{"$set": bson.M{
		"extras.$[elem].is_available": available,
		"updated_at":                  time.Now(),
	}}
	arrayFilters := options.Update().SetArrayFilters(options.ArrayFilters{
		Filters: []interface{}{
			bson.M{"elem.extra_id": extraID},
		},
	})

	result, err := m.items.UpdateOne(ctx, filter, update, arrayFilters)
	if err != nil {
		return fmt.Errorf("failed to update extra availability: %w", err)
	}
	if result.MatchedCount == 0 {
		return m.narrowNotFound(ctx, itemID, ErrExtraNotFound)
	}

	return nil
}

func (m *mongoRepository) UpdateOptionAvailability(ctx context.Context, itemID, customID, optionID string, available bool) error {
	filter := bson.M{
		"item_id": itemID,
		"customizations": bson.M{
			"$elemMatch": bson.M{
				"custom_id":         customID,
				"options.option_id": optionID,
			},
		},
	}
	update := bson.M{"$set": bson.M{
		"customizations.$[cz].options.$[op].is_available": available,
		"updated_at": time.Now(),
	}}
	arrayFilters := options.Update().SetArrayFilters(options.ArrayFilters{
		Filters: []interface{}{
			bson.M{"cz.custom_id": customID},
			bson.M{"op.option_id": optionID},
		},
	})

	result, err := m.items.UpdateOne(ctx, filter, update, arrayFilters)
	if err != nil {
		return fmt.Errorf("failed to update option availability: %w", err)
	}
	if result.MatchedCount == 0 {
		return m.narrowNotFound(ctx, itemID, ErrOptionNotFound)
	}

	return nil
}

// narrowNotFound distinguishes a missing parent item from a missing embedded
// target so callers can report the right thing.
func (m *mongoRepository) narrowNotFound(ctx context.Context, itemID string, embedded error) error {
	count, err := m.items.CountDocuments(ctx, bson.M{"item_id": itemID})
	if err != nil {
		return fmt.Errorf("failed to check item existence: %w", err)
	}
	if count == 0 {
		return ErrItemNotFound
	}
	return embedded
}

func (m *mongoRepository) CreateIndexes(ctx context.Context) error {
	stallIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "stall_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "is_active", Value: 1}},
		},
	}
	if _, err := m.stalls.Indexes().CreateMany(ctx, stallIndexes); err != nil {
		return fmt.Errorf("failed to create stall indexes: %w", err)
	}

	itemIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "item_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "stall_id", Value: 1}, {Key: "category", Value: 1}},
		},
	}
	if _, err := m.items.Indexes().CreateMany(ctx, itemIndexes); err != nil {
		return fmt.Errorf("failed to create menu item indexes: %w", err)
	}

	return nil
}
