package repository

import (
	"context"
	"fmt"

	"cutoff-alert-service/internal/domain/entity"
	"cutoff-alert-service/pkg/logger"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoNotificationRepository implements the NotificationRepository interface
type MongoNotificationRepository struct {
	collection *mongo.Collection
	logger     logger.Logger
}

// NewMongoNotificationRepository creates a new MongoDB notification repository
func NewMongoNotificationRepository(db *mongo.Database, logger logger.Logger) *MongoNotificationRepository {
	collection := db.Collection("notifications")

	// Create indexes for better performance
	ctx := context.Background()

	// Inbox listing: newest notifications per user
	userIndex := mongo.IndexModel{
		Keys: bson.D{
			{Key: "userId", Value: 1},
			{Key: "createdAt", Value: -1},
		},
	}

	// Unread badge counts
	unreadIndex := mongo.IndexModel{
		Keys: bson.D{
			{Key: "userId", Value: 1},
			{Key: "isRead", Value: 1},
		},
	}

	// Lookups by booking
	entityIndex := mongo.IndexModel{
		Keys: bson.D{
			{Key: "entityType", Value: 1},
			{Key: "entityId", Value: 1},
		},
	}

	if _, err := collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		userIndex,
		unreadIndex,
		entityIndex,
	}); err != nil {
		logger.Warn("Failed to create notification indexes", "collection", collection.Name(), "error", err)
	}

	return &MongoNotificationRepository{
		collection: collection,
		logger:     logger,
	}
}

// Save inserts a notification row
func (r *MongoNotificationRepository) Save(ctx context.Context, notification *entity.Notification) error {
	if _, err := r.collection.InsertOne(ctx, notification); err != nil {
		return fmt.Errorf("failed to save notification: %w", err)
	}
	return nil
}

// FindByUser returns a user's most recent notifications
func (r *MongoNotificationRepository) FindByUser(ctx context.Context, userID string, limit int) ([]*entity.Notification, error) {
	filter := bson.M{"userId": userID}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var notifications []*entity.Notification
	if err := cursor.All(ctx, &notifications); err != nil {
		return nil, err
	}

	return notifications, nil
}
